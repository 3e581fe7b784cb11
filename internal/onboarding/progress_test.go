package onboarding

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompactView(t *testing.T) {
	store := newStore(4)
	builder := NewProgressViewBuilder(75, false)

	view := builder.Compact(store)

	assert.Equal(t, 17, view.Percentage)
	assert.Equal(t, "4 of 24 steps", view.Label)
	assert.Nil(t, view.LastActivity)
	assert.Nil(t, view.LastSyncedAt)
}

func TestDetailedViewAddsTimestamps(t *testing.T) {
	sessionID := uuid.New()
	steps := DefaultSteps(sessionID)
	session := Session{
		SessionID:    sessionID,
		Status:       SessionStatusActive,
		LastActivity: time.Date(2025, 11, 3, 10, 15, 0, 0, time.UTC),
	}
	store := NewSessionStore(session, steps)
	store.SetSaveStatus(SaveStatusSaved)

	view := NewProgressViewBuilder(75, false).Detailed(store)

	require.NotNil(t, view.LastActivity)
	assert.Equal(t, session.LastActivity, *view.LastActivity)
	require.NotNil(t, view.LastSyncedAt)
	assert.Equal(t, SaveStatusSaved, view.SaveStatus)
}

func TestFinalizeGateThreshold(t *testing.T) {
	// 6 of 24 = 25%: hidden. 18 of 24 = 75%: shown. The exact cutoff in
	// between is a config knob; these two points are the confirmed
	// behavior being locked down.
	builder := NewProgressViewBuilder(75, true)

	at25 := builder.Compact(newStore(6))
	assert.Equal(t, 25, at25.Percentage)
	assert.False(t, at25.CanFinalize)

	at75 := builder.Compact(newStore(18))
	assert.Equal(t, 75, at75.Percentage)
	assert.True(t, at75.CanFinalize)
}

func TestFinalizeGateRequiresInteractive(t *testing.T) {
	store := newStore(24)

	interactive := NewProgressViewBuilder(75, true).Compact(store)
	assert.True(t, interactive.CanFinalize)

	readOnly := NewProgressViewBuilder(75, false).Compact(store)
	assert.False(t, readOnly.CanFinalize)
}

func TestFinalizeGateIsConfigurable(t *testing.T) {
	store := newStore(12) // 50%

	assert.True(t, NewProgressViewBuilder(50, true).Compact(store).CanFinalize)
	assert.True(t, NewProgressViewBuilder(26, true).Compact(store).CanFinalize)
	assert.False(t, NewProgressViewBuilder(51, true).Compact(store).CanFinalize)
}

func TestContinueReturnsCurrentStepWithoutMutation(t *testing.T) {
	store := newStore(6)
	builder := NewProgressViewBuilder(75, true)

	before := store.Progress()
	assert.Equal(t, 7, builder.Continue(store))
	assert.Equal(t, before, store.Progress())
	assert.Equal(t, 7, store.CurrentStep())
}
