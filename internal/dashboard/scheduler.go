package dashboard

import (
	"context"
	"fmt"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// Scheduler refreshes the dashboard snapshot on a cron schedule so the
// summary endpoint serves warm data
type Scheduler struct {
	cron       *cron.Cron
	aggregator *Aggregator
	logger     *zap.Logger
}

// NewScheduler creates a scheduler with a seconds-granularity cron
// expression
func NewScheduler(aggregator *Aggregator, schedule string, logger *zap.Logger) (*Scheduler, error) {
	c := cron.New(cron.WithSeconds())

	s := &Scheduler{
		cron:       c,
		aggregator: aggregator,
		logger:     logger,
	}

	if _, err := c.AddFunc(schedule, s.refresh); err != nil {
		return nil, fmt.Errorf("invalid refresh schedule %q: %w", schedule, err)
	}

	return s, nil
}

// Start begins scheduled refreshes
func (s *Scheduler) Start() {
	s.logger.Info("Starting dashboard refresh scheduler")
	s.cron.Start()
}

// Stop halts scheduling and waits for a running refresh to finish
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	s.logger.Info("Dashboard refresh scheduler stopped")
}

func (s *Scheduler) refresh() {
	snapshot := s.aggregator.Refresh(context.Background())
	s.logger.Debug("Dashboard snapshot refreshed",
		zap.Bool("has_manifest", snapshot.Manifest != nil),
		zap.Int("errors", len(snapshot.Errors)))
}
