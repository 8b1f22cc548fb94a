package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"

	"scaffold-backend/internal/metrics"
	"scaffold-backend/internal/models"
)

type dashboardFunc func(ctx context.Context) (*models.Dashboard, error)

func (f dashboardFunc) Dashboard(ctx context.Context) (*models.Dashboard, error) { return f(ctx) }

func TestMetricsCollectorPublishesGauges(t *testing.T) {
	source := dashboardFunc(func(context.Context) (*models.Dashboard, error) {
		return &models.Dashboard{
			ByStatus:         map[models.ContractStatus]int{models.StatusActive: 4, models.StatusClosed: 2},
			TotalOutstanding: money("812.500"),
			OverdueCount:     3,
			OverdueAmount:    money("300.250"),
		}, nil
	})

	c := NewMetricsCollector(source, time.Hour)
	c.Start()
	c.Stop()

	assert.Equal(t, 4.0, testutil.ToFloat64(metrics.ContractsByStatus.WithLabelValues("ACTIVE")))
	assert.Equal(t, 0.0, testutil.ToFloat64(metrics.ContractsByStatus.WithLabelValues("CANCELLED")))
	assert.Equal(t, 812.5, testutil.ToFloat64(metrics.OutstandingAmount))
	assert.Equal(t, 3.0, testutil.ToFloat64(metrics.OverdueContracts))
}

func TestMetricsCollectorKeepsGaugesOnError(t *testing.T) {
	PublishDashboard(&models.Dashboard{OverdueCount: 5})
	c := NewMetricsCollector(dashboardFunc(func(context.Context) (*models.Dashboard, error) {
		return nil, errors.New("db down")
	}), time.Hour)
	c.collect()

	assert.Equal(t, 5.0, testutil.ToFloat64(metrics.OverdueContracts))
}
