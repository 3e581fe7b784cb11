package onboarding

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// StepStatus represents the completion status of a single onboarding step
type StepStatus string

const (
	StepStatusPending    StepStatus = "pending"
	StepStatusInProgress StepStatus = "in-progress"
	StepStatusComplete   StepStatus = "complete"
	StepStatusBlocked    StepStatus = "blocked"
	StepStatusError      StepStatus = "error"
)

// SaveStatus represents the persistence state of the in-progress session
type SaveStatus string

const (
	SaveStatusSaved  SaveStatus = "saved"
	SaveStatusSaving SaveStatus = "saving"
	SaveStatusError  SaveStatus = "error"
)

// SessionStatus represents the lifecycle status of an onboarding session
type SessionStatus string

const (
	SessionStatusActive    SessionStatus = "active"
	SessionStatusCompleted SessionStatus = "completed"
	SessionStatusAbandoned SessionStatus = "abandoned"
)

// Session represents one client's onboarding run
type Session struct {
	SessionID            uuid.UUID     `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"sessionId"`
	WorkspaceID          uuid.UUID     `gorm:"type:uuid;not null" json:"workspaceId"`
	ClientName           string        `gorm:"not null" json:"clientName"`
	CompletionPercentage int           `json:"completionPercentage"`
	CurrentPhase         int           `json:"currentPhase"`
	LastActivity         time.Time     `json:"lastActivity"`
	Status               SessionStatus `gorm:"not null;default:'active'" json:"status"`
	StartedAt            time.Time     `json:"startedAt"`
}

// TableName overrides the gorm table name
func (Session) TableName() string { return "onboarding_sessions" }

// Step is one unit of the onboarding sequence. Steps are ordered by ID
// within a session; forward navigation is gated on all lower-ID steps
// being complete.
type Step struct {
	SessionID uuid.UUID      `gorm:"type:uuid;primaryKey" json:"-"`
	ID        int            `gorm:"primaryKey;autoIncrement:false" json:"id"`
	Name      string         `gorm:"not null" json:"name"`
	Phase     int            `json:"phase"`
	Status    StepStatus     `gorm:"not null;default:'pending'" json:"status"`
	Data      datatypes.JSON `json:"data"`
	SavedAt   *time.Time     `json:"savedAt,omitempty"`
}

// TableName overrides the gorm table name
func (Step) TableName() string { return "onboarding_steps" }

// Progress is derived from the step sequence on every read, never stored
type Progress struct {
	Completed  int `json:"completed"`
	Total      int `json:"total"`
	Percentage int `json:"percentage"`
}

// StepsPerPhase is the number of steps in each onboarding phase
const StepsPerPhase = 4

// defaultStepNames lists the full onboarding sequence in order, four steps
// per phase across six phases.
var defaultStepNames = []string{
	// Phase 1: discovery
	"Welcome & goals",
	"Company profile",
	"Success criteria",
	"Stakeholder contacts",
	// Phase 2: workspace
	"Workspace setup",
	"Branding & theme",
	"Custom domain",
	"Team invitations",
	// Phase 3: data foundation
	"Data sources",
	"Initial import",
	"Field mapping",
	"Data validation",
	// Phase 4: integrations
	"CRM connection",
	"Billing provider",
	"Analytics tracking",
	"Notification channels",
	// Phase 5: launch preparation
	"Plan selection",
	"Entitlements review",
	"Content review",
	"QA checklist",
	// Phase 6: launch
	"Team training",
	"Dry run",
	"Go-live",
	"Handoff & review",
}

// DefaultSteps returns the seeded step sequence for a new session. Step IDs
// start at 1.
func DefaultSteps(sessionID uuid.UUID) []Step {
	steps := make([]Step, 0, len(defaultStepNames))
	for i, name := range defaultStepNames {
		steps = append(steps, Step{
			SessionID: sessionID,
			ID:        i + 1,
			Name:      name,
			Phase:     i/StepsPerPhase + 1,
			Status:    StepStatusPending,
		})
	}
	return steps
}

// TotalDefaultSteps is the length of the seeded sequence
var TotalDefaultSteps = len(defaultStepNames)
