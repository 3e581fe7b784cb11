package metrics

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
)

// Repository defines the metric queries over the session tables
type Repository interface {
	GetSnapshotTotals(ctx context.Context, maxAge time.Duration) (*SnapshotTotals, error)
	GetStatusCounts(ctx context.Context) (total, active, completed int, err error)
	GetAverageCompletionHours(ctx context.Context) (float64, error)
	GetAverageCompletionPercentage(ctx context.Context) (float64, error)
	CountSessionsSince(ctx context.Context, since time.Time) (int, error)
	ListSessions(ctx context.Context) ([]SessionSummary, error)
}

// PostgresRepository implements Repository using PostgreSQL
type PostgresRepository struct {
	db *sqlx.DB
}

// NewPostgresRepository creates a new PostgreSQL repository
func NewPostgresRepository(db *sqlx.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Migrate creates the snapshot table the metrics worker writes into
func (r *PostgresRepository) Migrate() error {
	schema := `
		CREATE TABLE IF NOT EXISTS metric_snapshots (
			workspace_id UUID PRIMARY KEY,
			total_sessions INTEGER NOT NULL DEFAULT 0,
			active_sessions INTEGER NOT NULL DEFAULT 0,
			completed_sessions INTEGER NOT NULL DEFAULT 0,
			average_completion DOUBLE PRECISION NOT NULL DEFAULT 0,
			computed_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)
	`
	if _, err := r.db.Exec(schema); err != nil {
		return fmt.Errorf("failed to create metric_snapshots: %w", err)
	}
	return nil
}

// GetSnapshotTotals sums the precomputed workspace snapshots that are
// younger than maxAge. Returns nil when no snapshot is fresh enough, so the
// caller can fall back to live aggregates.
func (r *PostgresRepository) GetSnapshotTotals(ctx context.Context, maxAge time.Duration) (*SnapshotTotals, error) {
	query := `
		SELECT
			COALESCE(SUM(total_sessions), 0) AS total_sessions,
			COALESCE(SUM(active_sessions), 0) AS active_sessions,
			COALESCE(SUM(completed_sessions), 0) AS completed_sessions,
			COALESCE(SUM(average_completion * total_sessions) / NULLIF(SUM(total_sessions), 0), 0) AS average_completion,
			COUNT(*) AS workspaces
		FROM metric_snapshots
		WHERE computed_at > NOW() - $1::interval
	`

	var totals SnapshotTotals
	if err := r.db.GetContext(ctx, &totals, query, maxAge.String()); err != nil {
		return nil, fmt.Errorf("failed to read metric snapshots: %w", err)
	}
	if totals.Workspaces == 0 {
		return nil, nil
	}
	return &totals, nil
}

func (r *PostgresRepository) GetStatusCounts(ctx context.Context) (int, int, int, error) {
	query := `
		SELECT
			COUNT(*) AS total,
			COUNT(*) FILTER (WHERE status = 'active') AS active,
			COUNT(*) FILTER (WHERE status = 'completed') AS completed
		FROM onboarding_sessions
	`

	var counts statusCounts
	if err := r.db.GetContext(ctx, &counts, query); err != nil {
		return 0, 0, 0, fmt.Errorf("failed to count sessions: %w", err)
	}

	return counts.Total, counts.Active, counts.Completed, nil
}

func (r *PostgresRepository) GetAverageCompletionHours(ctx context.Context) (float64, error) {
	query := `
		SELECT COALESCE(
			AVG(EXTRACT(EPOCH FROM (last_activity - started_at)) / 3600.0),
			0
		)
		FROM onboarding_sessions
		WHERE status = 'completed'
	`

	var hours float64
	if err := r.db.GetContext(ctx, &hours, query); err != nil {
		return 0, fmt.Errorf("failed to compute average completion time: %w", err)
	}
	return hours, nil
}

func (r *PostgresRepository) GetAverageCompletionPercentage(ctx context.Context) (float64, error) {
	query := `
		SELECT COALESCE(AVG(completion_percentage), 0)
		FROM onboarding_sessions
	`

	var pct float64
	if err := r.db.GetContext(ctx, &pct, query); err != nil {
		return 0, fmt.Errorf("failed to compute average completion percentage: %w", err)
	}
	return pct, nil
}

func (r *PostgresRepository) CountSessionsSince(ctx context.Context, since time.Time) (int, error) {
	query := `
		SELECT COUNT(*)
		FROM onboarding_sessions
		WHERE started_at >= $1
	`

	var count int
	if err := r.db.GetContext(ctx, &count, query, since); err != nil {
		return 0, fmt.Errorf("failed to count recent sessions: %w", err)
	}
	return count, nil
}

func (r *PostgresRepository) ListSessions(ctx context.Context) ([]SessionSummary, error) {
	query := `
		SELECT session_id, workspace_id, client_name, completion_percentage,
			   current_phase, last_activity, status, started_at
		FROM onboarding_sessions
		ORDER BY started_at DESC
	`

	sessions := []SessionSummary{}
	if err := r.db.SelectContext(ctx, &sessions, query); err != nil {
		return nil, fmt.Errorf("failed to list sessions: %w", err)
	}
	return sessions, nil
}
