package metrics

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
)

// snapshotMaxAge bounds how old a precomputed snapshot may be before the
// dashboard falls back to live aggregates
const snapshotMaxAge = 5 * time.Minute

// Service assembles dashboard metrics from the repository queries
type Service struct {
	repo   Repository
	logger *zap.Logger
}

// NewService creates a new metrics service
func NewService(repo Repository, logger *zap.Logger) *Service {
	return &Service{repo: repo, logger: logger}
}

// GetDashboardMetrics computes the dashboard metric set. Session counts
// come from the worker's snapshots when they are fresh, otherwise from live
// aggregates.
func (s *Service) GetDashboardMetrics(ctx context.Context) (*DashboardMetrics, error) {
	total, active, completed, avgPct, err := s.statusAggregates(ctx)
	if err != nil {
		return nil, err
	}

	avgHours, err := s.repo.GetAverageCompletionHours(ctx)
	if err != nil {
		return nil, err
	}

	weekAgo := time.Now().AddDate(0, 0, -7)
	thisWeek, err := s.repo.CountSessionsSince(ctx, weekAgo)
	if err != nil {
		return nil, err
	}

	rate := 0.0
	if total > 0 {
		rate = float64(completed) / float64(total)
	}

	return &DashboardMetrics{
		TotalSessions:               total,
		ActiveSessions:              active,
		CompletedSessions:           completed,
		AverageCompletionTime:       avgHours,
		AverageCompletionPercentage: avgPct,
		SessionsThisWeek:            thisWeek,
		CompletionRate:              rate,
	}, nil
}

// statusAggregates returns total, active, and completed session counts plus
// the average completion percentage. Snapshot reads are best effort: a
// failure logs and drops through to the live queries.
func (s *Service) statusAggregates(ctx context.Context) (int, int, int, float64, error) {
	totals, err := s.repo.GetSnapshotTotals(ctx, snapshotMaxAge)
	if err != nil {
		s.logger.Warn("Failed to read metric snapshots, using live aggregates", zap.Error(err))
	} else if totals != nil {
		return totals.TotalSessions, totals.ActiveSessions, totals.CompletedSessions, totals.AverageCompletion, nil
	}

	total, active, completed, err := s.repo.GetStatusCounts(ctx)
	if err != nil {
		return 0, 0, 0, 0, err
	}

	avgPct, err := s.repo.GetAverageCompletionPercentage(ctx)
	if err != nil {
		return 0, 0, 0, 0, err
	}

	return total, active, completed, avgPct, nil
}

// ListSessions returns the dashboard session list
func (s *Service) ListSessions(ctx context.Context) (*SessionList, error) {
	sessions, err := s.repo.ListSessions(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load session list: %w", err)
	}
	return &SessionList{Sessions: sessions}, nil
}
