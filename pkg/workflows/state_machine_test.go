package workflows

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStepTransitions(t *testing.T) {
	sm := NewStepStateMachine()

	assert.True(t, sm.CanTransition("pending", "in-progress"))
	assert.True(t, sm.CanTransition("in-progress", "complete"))
	assert.True(t, sm.CanTransition("in-progress", "blocked"))
	assert.True(t, sm.CanTransition("in-progress", "error"))
	assert.True(t, sm.CanTransition("blocked", "in-progress"))
	assert.True(t, sm.CanTransition("error", "in-progress"))

	// Complete is terminal
	assert.False(t, sm.CanTransition("complete", "in-progress"))
	assert.False(t, sm.CanTransition("complete", "pending"))

	// No skipping straight to complete
	assert.False(t, sm.CanTransition("pending", "complete"))

	// Unknown statuses never transition
	assert.False(t, sm.CanTransition("bogus", "complete"))
	assert.False(t, sm.CanTransition("pending", "bogus"))
}

func TestSessionTransitions(t *testing.T) {
	sm := NewSessionStateMachine()

	assert.True(t, sm.CanTransition("active", "completed"))
	assert.True(t, sm.CanTransition("active", "abandoned"))
	assert.True(t, sm.CanTransition("abandoned", "active"))

	assert.False(t, sm.CanTransition("completed", "active"))
	assert.False(t, sm.CanTransition("completed", "abandoned"))
}

func TestGetAllowedTransitions(t *testing.T) {
	sm := NewStepStateMachine()

	assert.ElementsMatch(t, []string{"complete", "blocked", "error"}, sm.GetAllowedTransitions("in-progress"))
	assert.Empty(t, sm.GetAllowedTransitions("complete"))
	assert.Empty(t, sm.GetAllowedTransitions("unknown"))
}
