package onboarding

import (
	"fmt"
	"time"
)

// ProgressView is the rendered summary of a session's progress. Compact
// views carry the percentage and label; detailed views add activity and
// sync timestamps.
type ProgressView struct {
	Percentage   int        `json:"percentage"`
	Label        string     `json:"label"`
	CurrentStep  int        `json:"currentStep"`
	CanFinalize  bool       `json:"canFinalize"`
	LastActivity *time.Time `json:"lastActivity,omitempty"`
	LastSyncedAt *time.Time `json:"lastSyncedAt,omitempty"`
	SaveStatus   SaveStatus `json:"saveStatus,omitempty"`
}

// ProgressViewBuilder renders progress views from store state. The finalize
// threshold comes from configuration.
type ProgressViewBuilder struct {
	thresholdPercent int
	interactive      bool
}

// NewProgressViewBuilder creates a builder with the given finalize
// threshold percentage
func NewProgressViewBuilder(thresholdPercent int, interactive bool) *ProgressViewBuilder {
	return &ProgressViewBuilder{
		thresholdPercent: thresholdPercent,
		interactive:      interactive,
	}
}

// Compact renders the percentage and step-count label
func (b *ProgressViewBuilder) Compact(store *SessionStore) ProgressView {
	progress := store.Progress()
	return ProgressView{
		Percentage:  progress.Percentage,
		Label:       fmt.Sprintf("%d of %d steps", progress.Completed, progress.Total),
		CurrentStep: store.CurrentStep(),
		CanFinalize: b.canFinalize(progress),
	}
}

// Detailed renders the compact view plus activity and sync timestamps
func (b *ProgressViewBuilder) Detailed(store *SessionStore) ProgressView {
	view := b.Compact(store)

	session := store.Session()
	if !session.LastActivity.IsZero() {
		last := session.LastActivity
		view.LastActivity = &last
	}
	if synced := store.LastSyncedAt(); !synced.IsZero() {
		view.LastSyncedAt = &synced
	}
	view.SaveStatus = store.SaveStatus()

	return view
}

// Continue returns the step ID the caller should resume on. It performs no
// state mutation; acting on the step is the caller's concern.
func (b *ProgressViewBuilder) Continue(store *SessionStore) int {
	return store.CurrentStep()
}

// canFinalize gates the finalize action: interactive mode must be enabled
// and progress must have reached the configured threshold.
func (b *ProgressViewBuilder) canFinalize(progress Progress) bool {
	return b.interactive && progress.Percentage >= b.thresholdPercent
}
