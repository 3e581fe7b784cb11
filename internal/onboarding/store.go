package onboarding

import (
	"encoding/json"
	"math"
	"sort"
	"sync"
	"time"
)

// SessionStore holds the in-progress onboarding session and exposes derived
// progress queries. Mutations never return errors: persistence failures are
// surfaced through the save status, and unknown step IDs are ignored.
type SessionStore struct {
	mu           sync.RWMutex
	session      Session
	steps        []Step
	currentStep  int
	saveStatus   SaveStatus
	lastSyncedAt time.Time
}

// NewSessionStore creates a store around a session and its step sequence.
// Steps are kept ordered by ID.
func NewSessionStore(session Session, steps []Step) *SessionStore {
	ordered := make([]Step, len(steps))
	copy(ordered, steps)
	sort.Slice(ordered, func(i, j int) bool { return ordered[i].ID < ordered[j].ID })

	current := 1
	if len(ordered) > 0 {
		current = ordered[0].ID
		for _, s := range ordered {
			if s.Status != StepStatusComplete {
				current = s.ID
				break
			}
		}
	}

	return &SessionStore{
		session:     session,
		steps:       ordered,
		currentStep: current,
		saveStatus:  SaveStatusSaved,
	}
}

// Session returns a snapshot of the session
func (s *SessionStore) Session() Session {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.session
}

// Steps returns a copy of the ordered step sequence
func (s *SessionStore) Steps() []Step {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Step, len(s.steps))
	copy(out, s.steps)
	return out
}

// CurrentStep returns the ID of the step the user is on
func (s *SessionStore) CurrentStep() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.currentStep
}

// SaveStatus returns the persistence state
func (s *SessionStore) SaveStatus() SaveStatus {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.saveStatus
}

// LastSyncedAt returns the last successful sync time
func (s *SessionStore) LastSyncedAt() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastSyncedAt
}

// SetCurrentStep moves the cursor to the given step ID. Unknown IDs are
// ignored.
func (s *SessionStore) SetCurrentStep(id int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.indexOf(id) < 0 {
		return
	}
	s.currentStep = id
}

// UpdateStepStatus sets the status of a step and stamps its save time.
// Unknown IDs are ignored.
func (s *SessionStore) UpdateStepStatus(id int, status StepStatus) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.indexOf(id)
	if i < 0 {
		return
	}
	now := time.Now()
	s.steps[i].Status = status
	s.steps[i].SavedAt = &now
	s.session.LastActivity = now
}

// UpdateStepData merges a partial payload into the step's opaque data.
// Unknown IDs and undecodable existing payloads are ignored.
func (s *SessionStore) UpdateStepData(id int, partial map[string]any) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.indexOf(id)
	if i < 0 {
		return
	}

	merged := map[string]any{}
	if len(s.steps[i].Data) > 0 {
		if err := json.Unmarshal(s.steps[i].Data, &merged); err != nil {
			merged = map[string]any{}
		}
	}
	for k, v := range partial {
		merged[k] = v
	}

	encoded, err := json.Marshal(merged)
	if err != nil {
		return
	}

	now := time.Now()
	s.steps[i].Data = encoded
	s.steps[i].SavedAt = &now
	s.session.LastActivity = now
}

// SetSaveStatus records the persistence state; a successful save also
// advances the sync timestamp.
func (s *SessionStore) SetSaveStatus(status SaveStatus) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.saveStatus = status
	if status == SaveStatusSaved {
		s.lastSyncedAt = time.Now()
	}
}

// Progress derives completion counts from the step sequence
func (s *SessionStore) Progress() Progress {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return deriveProgress(s.steps)
}

// StepByID looks up a step by ID
func (s *SessionStore) StepByID(id int) (Step, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	i := s.indexOf(id)
	if i < 0 {
		return Step{}, false
	}
	return s.steps[i], true
}

// CanProceedToStep reports whether forward navigation to the given step is
// allowed: true iff every step with a lower ID is complete.
func (s *SessionStore) CanProceedToStep(id int) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.indexOf(id) < 0 {
		return false
	}
	for _, step := range s.steps {
		if step.ID >= id {
			break
		}
		if step.Status != StepStatusComplete {
			return false
		}
	}
	return true
}

// indexOf returns the slice index of a step ID, or -1. Caller holds the lock.
func (s *SessionStore) indexOf(id int) int {
	for i, step := range s.steps {
		if step.ID == id {
			return i
		}
	}
	return -1
}

// deriveProgress computes completion over a step sequence
func deriveProgress(steps []Step) Progress {
	total := len(steps)
	completed := 0
	for _, step := range steps {
		if step.Status == StepStatusComplete {
			completed++
		}
	}

	percentage := 0
	if total > 0 {
		percentage = int(math.Round(float64(completed) / float64(total) * 100))
	}

	return Progress{Completed: completed, Total: total, Percentage: percentage}
}
