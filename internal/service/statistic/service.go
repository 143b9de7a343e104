package statistic

import (
	"context"
	"fmt"

	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/statistic"
	"golang.org/x/sync/errgroup"
)

// Counter is anything that can report its row count.
type Counter interface {
	Count(ctx context.Context) (int64, error)
}

type StatisticServiceImpl struct {
	users       Counter
	employees   Counter
	attendances Counter
}

func NewStatisticService(users, employees, attendances Counter) statistic.StatisticService {
	return &StatisticServiceImpl{
		users:       users,
		employees:   employees,
		attendances: attendances,
	}
}

// Totals implements statistic.StatisticService.
func (s *StatisticServiceImpl) Totals(ctx context.Context) (statistic.TotalsResponse, error) {
	var totals statistic.TotalsResponse

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		if totals.TotalUsers, err = s.users.Count(gctx); err != nil {
			return fmt.Errorf("failed to count users: %w", err)
		}
		return nil
	})
	g.Go(func() (err error) {
		if totals.TotalEmployees, err = s.employees.Count(gctx); err != nil {
			return fmt.Errorf("failed to count employees: %w", err)
		}
		return nil
	})
	g.Go(func() (err error) {
		if totals.TotalAttendances, err = s.attendances.Count(gctx); err != nil {
			return fmt.Errorf("failed to count attendances: %w", err)
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		return statistic.TotalsResponse{}, err
	}
	return totals, nil
}
