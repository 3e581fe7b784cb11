package metrics

import "time"

// DashboardMetrics is the payload of GET /dashboard/metrics
type DashboardMetrics struct {
	TotalSessions               int     `json:"totalSessions"`
	ActiveSessions              int     `json:"activeSessions"`
	CompletedSessions           int     `json:"completedSessions"`
	AverageCompletionTime       float64 `json:"averageCompletionTime"` // hours
	AverageCompletionPercentage float64 `json:"averageCompletionPercentage"`
	SessionsThisWeek            int     `json:"sessionsThisWeek"`
	CompletionRate              float64 `json:"completionRate"`
}

// SessionSummary is one row of the dashboard session list
type SessionSummary struct {
	SessionID            string    `db:"session_id" json:"sessionId"`
	WorkspaceID          string    `db:"workspace_id" json:"workspaceId"`
	ClientName           string    `db:"client_name" json:"clientName"`
	CompletionPercentage int       `db:"completion_percentage" json:"completionPercentage"`
	CurrentPhase         int       `db:"current_phase" json:"currentPhase"`
	LastActivity         time.Time `db:"last_activity" json:"lastActivity"`
	Status               string    `db:"status" json:"status"`
	StartedAt            time.Time `db:"started_at" json:"startedAt"`
}

// SessionList is the payload of GET /dashboard/sessions
type SessionList struct {
	Sessions []SessionSummary `json:"sessions"`
}

// SnapshotTotals aggregates the per-workspace snapshots the metrics worker
// precomputes. Workspaces is the number of snapshot rows summed.
type SnapshotTotals struct {
	TotalSessions     int     `db:"total_sessions"`
	ActiveSessions    int     `db:"active_sessions"`
	CompletedSessions int     `db:"completed_sessions"`
	AverageCompletion float64 `db:"average_completion"`
	Workspaces        int     `db:"workspaces"`
}

// statusCounts carries per-status session counts
type statusCounts struct {
	Total     int `db:"total"`
	Active    int `db:"active"`
	Completed int `db:"completed"`
}
