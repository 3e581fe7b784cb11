package onboarding

import "errors"

var (
	// ErrSessionNotFound indicates an unknown session ID
	ErrSessionNotFound = errors.New("onboarding session not found")
	// ErrStepNotFound indicates an unknown step ID within a session
	ErrStepNotFound = errors.New("onboarding step not found")
	// ErrInvalidTransition indicates a disallowed status change
	ErrInvalidTransition = errors.New("invalid status transition")
	// ErrStepLocked indicates forward navigation to a step whose
	// predecessors are not all complete
	ErrStepLocked = errors.New("previous steps must be completed first")
	// ErrBelowThreshold indicates a finalize attempt before the session
	// reached the configured progress threshold
	ErrBelowThreshold = errors.New("session progress below finalize threshold")
)
