package statistic

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixedCounter struct {
	n   int64
	err error
}

func (f fixedCounter) Count(context.Context) (int64, error) {
	return f.n, f.err
}

func TestStatisticService_Totals(t *testing.T) {
	svc := NewStatisticService(fixedCounter{n: 3}, fixedCounter{n: 25}, fixedCounter{n: 140})

	totals, err := svc.Totals(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(3), totals.TotalUsers)
	assert.Equal(t, int64(25), totals.TotalEmployees)
	assert.Equal(t, int64(140), totals.TotalAttendances)
}

func TestStatisticService_TotalsError(t *testing.T) {
	boom := errors.New("db down")
	svc := NewStatisticService(fixedCounter{n: 3}, fixedCounter{err: boom}, fixedCounter{n: 140})

	_, err := svc.Totals(context.Background())
	assert.ErrorIs(t, err, boom)
}
