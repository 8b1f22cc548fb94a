package services

import (
	"context"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"scaffold-backend/internal/logging"
	"scaffold-backend/internal/metrics"
	"scaffold-backend/internal/models"
)

// DashboardSource yields the current portfolio summary
type DashboardSource interface {
	Dashboard(ctx context.Context) (*models.Dashboard, error)
}

// MetricsCollector refreshes the portfolio gauges. Overdue state depends on
// today's date, so it is recomputed on a timer rather than on writes.
type MetricsCollector struct {
	source   DashboardSource
	interval time.Duration
	stopChan chan struct{}
	wg       sync.WaitGroup
	log      *logrus.Entry
}

func NewMetricsCollector(source DashboardSource, interval time.Duration) *MetricsCollector {
	if interval <= 0 {
		interval = time.Minute
	}
	return &MetricsCollector{
		source:   source,
		interval: interval,
		stopChan: make(chan struct{}),
		log:      logging.For("metrics_collector"),
	}
}

// Start collects once and then on every tick until Stop
func (c *MetricsCollector) Start() {
	c.collect()

	c.wg.Add(1)
	go func() {
		defer c.wg.Done()
		ticker := time.NewTicker(c.interval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				c.collect()
			case <-c.stopChan:
				return
			}
		}
	}()
}

func (c *MetricsCollector) Stop() {
	close(c.stopChan)
	c.wg.Wait()
}

func (c *MetricsCollector) collect() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	d, err := c.source.Dashboard(ctx)
	if err != nil {
		c.log.WithError(err).Warn("Failed to collect portfolio metrics")
		return
	}
	PublishDashboard(d)
}

// PublishDashboard publishes d on the portfolio gauges
func PublishDashboard(d *models.Dashboard) {
	for _, status := range []models.ContractStatus{
		models.StatusActive, models.StatusClosed, models.StatusClosedNotReceived, models.StatusCancelled,
	} {
		metrics.ContractsByStatus.WithLabelValues(string(status)).Set(float64(d.ByStatus[status]))
	}
	metrics.OutstandingAmount.Set(d.TotalOutstanding.InexactFloat64())
	metrics.OverdueContracts.Set(float64(d.OverdueCount))
	metrics.OverdueAmount.Set(d.OverdueAmount.InexactFloat64())
}
