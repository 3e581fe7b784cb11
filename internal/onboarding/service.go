package onboarding

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"launchpad/client-portal/client-portal-backend/pkg/workflows"
)

// ProgressEvent is pushed to connected clients when a session's progress
// changes
type ProgressEvent struct {
	SessionID uuid.UUID `json:"sessionId"`
	Type      string    `json:"type"`
	StepID    int       `json:"stepId,omitempty"`
	Status    string    `json:"status,omitempty"`
	Progress  Progress  `json:"progress"`
	Timestamp time.Time `json:"timestamp"`
}

// Progress event types
const (
	EventStepStatus       = "step_status"
	EventStepData         = "step_data"
	EventSessionFinalized = "session_finalized"
	EventSessionAbandoned = "session_abandoned"
)

// ProgressNotifier pushes progress events to interested listeners
type ProgressNotifier interface {
	NotifyProgress(event ProgressEvent)
}

// Service provides the onboarding business logic
type Service struct {
	repo             Repository
	stepMachine      *workflows.StepStateMachine
	sessionMachine   *workflows.SessionStateMachine
	notifier         ProgressNotifier
	thresholdPercent int
	logger           *zap.Logger
}

// NewService creates a new onboarding service. notifier may be nil.
func NewService(repo Repository, notifier ProgressNotifier, thresholdPercent int, logger *zap.Logger) *Service {
	return &Service{
		repo:             repo,
		stepMachine:      workflows.NewStepStateMachine(),
		sessionMachine:   workflows.NewSessionStateMachine(),
		notifier:         notifier,
		thresholdPercent: thresholdPercent,
		logger:           logger,
	}
}

// CreateSession starts a new onboarding run with the default step sequence
func (s *Service) CreateSession(ctx context.Context, workspaceID uuid.UUID, clientName string) (*Session, []Step, error) {
	now := time.Now()
	session := &Session{
		SessionID:    uuid.New(),
		WorkspaceID:  workspaceID,
		ClientName:   clientName,
		CurrentPhase: 1,
		LastActivity: now,
		Status:       SessionStatusActive,
		StartedAt:    now,
	}

	steps := DefaultSteps(session.SessionID)
	if err := s.repo.CreateSession(ctx, session, steps); err != nil {
		return nil, nil, fmt.Errorf("failed to create session: %w", err)
	}

	s.logger.Info("Onboarding session created",
		zap.String("session_id", session.SessionID.String()),
		zap.String("client", clientName))

	return session, steps, nil
}

// GetSession returns a session with its step sequence
func (s *Service) GetSession(ctx context.Context, id uuid.UUID) (*Session, []Step, error) {
	session, err := s.repo.GetSession(ctx, id)
	if err != nil {
		return nil, nil, err
	}

	steps, err := s.repo.GetSteps(ctx, id)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load steps: %w", err)
	}

	return session, steps, nil
}

// GetProgress derives progress for a session
func (s *Service) GetProgress(ctx context.Context, id uuid.UUID) (Progress, error) {
	steps, err := s.repo.GetSteps(ctx, id)
	if err != nil {
		return Progress{}, fmt.Errorf("failed to load steps: %w", err)
	}
	if len(steps) == 0 {
		if _, err := s.repo.GetSession(ctx, id); err != nil {
			return Progress{}, err
		}
	}
	return deriveProgress(steps), nil
}

// CanProceedToStep reports whether navigation to a step is allowed: every
// step with a lower ID must be complete.
func (s *Service) CanProceedToStep(ctx context.Context, sessionID uuid.UUID, stepID int) (bool, error) {
	steps, err := s.repo.GetSteps(ctx, sessionID)
	if err != nil {
		return false, fmt.Errorf("failed to load steps: %w", err)
	}

	found := false
	for _, step := range steps {
		if step.ID == stepID {
			found = true
			break
		}
	}
	if !found {
		return false, ErrStepNotFound
	}

	for _, step := range steps {
		if step.ID < stepID && step.Status != StepStatusComplete {
			return false, nil
		}
	}
	return true, nil
}

// UpdateStepStatus applies a status transition to a step, recomputes the
// session's completion, and notifies listeners. Steps unlock in order: a
// step cannot change status while a lower-numbered step is incomplete.
func (s *Service) UpdateStepStatus(ctx context.Context, sessionID uuid.UUID, stepID int, status StepStatus) (*Step, error) {
	session, steps, err := s.GetSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	var target *Step
	for i := range steps {
		if steps[i].ID == stepID {
			target = &steps[i]
			break
		}
	}
	if target == nil {
		return nil, ErrStepNotFound
	}

	for _, step := range steps {
		if step.ID < stepID && step.Status != StepStatusComplete {
			return nil, fmt.Errorf("%w: step %d is not complete", ErrStepLocked, step.ID)
		}
	}

	if !s.stepMachine.CanTransition(string(target.Status), string(status)) {
		return nil, fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, target.Status, status)
	}

	now := time.Now()
	target.Status = status
	target.SavedAt = &now
	if err := s.repo.UpdateStep(ctx, target); err != nil {
		return nil, fmt.Errorf("failed to save step: %w", err)
	}

	progress := deriveProgress(steps)
	session.CompletionPercentage = progress.Percentage
	session.CurrentPhase = currentPhase(steps)
	if err := s.repo.UpdateSession(ctx, session); err != nil {
		return nil, fmt.Errorf("failed to update session: %w", err)
	}

	s.notify(ProgressEvent{
		SessionID: sessionID,
		Type:      EventStepStatus,
		StepID:    stepID,
		Status:    string(status),
		Progress:  progress,
		Timestamp: now,
	})

	return target, nil
}

// UpdateStepData merges a partial payload into the step's opaque data
func (s *Service) UpdateStepData(ctx context.Context, sessionID uuid.UUID, stepID int, partial map[string]any) (*Step, error) {
	steps, err := s.repo.GetSteps(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to load steps: %w", err)
	}

	var target *Step
	for i := range steps {
		if steps[i].ID == stepID {
			target = &steps[i]
			break
		}
	}
	if target == nil {
		return nil, ErrStepNotFound
	}

	merged := map[string]any{}
	if len(target.Data) > 0 {
		if err := json.Unmarshal(target.Data, &merged); err != nil {
			merged = map[string]any{}
		}
	}
	for k, v := range partial {
		merged[k] = v
	}

	encoded, err := json.Marshal(merged)
	if err != nil {
		return nil, fmt.Errorf("failed to encode step data: %w", err)
	}

	now := time.Now()
	target.Data = encoded
	target.SavedAt = &now
	if err := s.repo.UpdateStep(ctx, target); err != nil {
		return nil, fmt.Errorf("failed to save step: %w", err)
	}

	s.notify(ProgressEvent{
		SessionID: sessionID,
		Type:      EventStepData,
		StepID:    stepID,
		Progress:  deriveProgress(steps),
		Timestamp: now,
	})

	return target, nil
}

// Finalize completes a session. Progress must have reached the configured
// threshold.
func (s *Service) Finalize(ctx context.Context, sessionID uuid.UUID) (*Session, error) {
	session, steps, err := s.GetSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	progress := deriveProgress(steps)
	if progress.Percentage < s.thresholdPercent {
		return nil, fmt.Errorf("%w: %d%% < %d%%", ErrBelowThreshold, progress.Percentage, s.thresholdPercent)
	}

	if !s.sessionMachine.CanTransition(string(session.Status), string(SessionStatusCompleted)) {
		return nil, fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, session.Status, SessionStatusCompleted)
	}

	session.Status = SessionStatusCompleted
	session.CompletionPercentage = progress.Percentage
	if err := s.repo.UpdateSession(ctx, session); err != nil {
		return nil, fmt.Errorf("failed to update session: %w", err)
	}

	s.logger.Info("Onboarding session finalized",
		zap.String("session_id", sessionID.String()),
		zap.Int("percentage", progress.Percentage))

	s.notify(ProgressEvent{
		SessionID: sessionID,
		Type:      EventSessionFinalized,
		Progress:  progress,
		Timestamp: time.Now(),
	})

	return session, nil
}

// Abandon marks a session as abandoned
func (s *Service) Abandon(ctx context.Context, sessionID uuid.UUID) (*Session, error) {
	session, err := s.repo.GetSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	if !s.sessionMachine.CanTransition(string(session.Status), string(SessionStatusAbandoned)) {
		return nil, fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, session.Status, SessionStatusAbandoned)
	}

	session.Status = SessionStatusAbandoned
	if err := s.repo.UpdateSession(ctx, session); err != nil {
		return nil, fmt.Errorf("failed to update session: %w", err)
	}

	s.notify(ProgressEvent{
		SessionID: sessionID,
		Type:      EventSessionAbandoned,
		Timestamp: time.Now(),
	})

	return session, nil
}

// notify pushes an event when a notifier is configured
func (s *Service) notify(event ProgressEvent) {
	if s.notifier != nil {
		s.notifier.NotifyProgress(event)
	}
}

// currentPhase returns the phase of the first incomplete step, or the last
// phase when every step is complete.
func currentPhase(steps []Step) int {
	if len(steps) == 0 {
		return 1
	}
	for _, step := range steps {
		if step.Status != StepStatusComplete {
			return step.Phase
		}
	}
	return steps[len(steps)-1].Phase
}
