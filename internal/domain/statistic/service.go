package statistic

import "context"

type StatisticService interface {
	Totals(ctx context.Context) (TotalsResponse, error)
}
