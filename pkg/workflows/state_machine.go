package workflows

// StepStateMachine enforces onboarding step status transitions
type StepStateMachine struct {
	allowedTransitions map[string][]string
}

// NewStepStateMachine creates a new state machine with allowed step transitions
func NewStepStateMachine() *StepStateMachine {
	return &StepStateMachine{
		allowedTransitions: map[string][]string{
			"pending":     {"in-progress"},
			"in-progress": {"complete", "blocked", "error"},
			"blocked":     {"in-progress"}, // Allow unblocking a step
			"error":       {"in-progress"}, // Allow retrying a failed step
			"complete":    {},
		},
	}
}

// CanTransition checks if a status transition is allowed
func (sm *StepStateMachine) CanTransition(from, to string) bool {
	allowed, exists := sm.allowedTransitions[from]
	if !exists {
		return false
	}
	for _, allowedTo := range allowed {
		if allowedTo == to {
			return true
		}
	}
	return false
}

// GetAllowedTransitions returns the allowed next statuses for a given status
func (sm *StepStateMachine) GetAllowedTransitions(from string) []string {
	allowed, exists := sm.allowedTransitions[from]
	if !exists {
		return []string{}
	}
	return allowed
}

// SessionStateMachine enforces onboarding session status transitions
type SessionStateMachine struct {
	allowedTransitions map[string][]string
}

// NewSessionStateMachine creates a new state machine with allowed session transitions
func NewSessionStateMachine() *SessionStateMachine {
	return &SessionStateMachine{
		allowedTransitions: map[string][]string{
			"active":    {"completed", "abandoned"},
			"abandoned": {"active"}, // Allow resuming abandoned sessions
			"completed": {},
		},
	}
}

// CanTransition checks if a session status transition is allowed
func (sm *SessionStateMachine) CanTransition(from, to string) bool {
	allowed, exists := sm.allowedTransitions[from]
	if !exists {
		return false
	}
	for _, allowedTo := range allowed {
		if allowedTo == to {
			return true
		}
	}
	return false
}

// GetAllowedTransitions returns the allowed next statuses for a given status
func (sm *SessionStateMachine) GetAllowedTransitions(from string) []string {
	allowed, exists := sm.allowedTransitions[from]
	if !exists {
		return []string{}
	}
	return allowed
}
