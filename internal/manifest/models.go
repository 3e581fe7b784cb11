package manifest

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// ErrNoContext indicates no business-context documents have been stored yet
var ErrNoContext = errors.New("no business context stored")

// ContextDocument is one stored unit of business context. The manifest is
// derived from the full ordered document set.
type ContextDocument struct {
	ID          uuid.UUID      `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	WorkspaceID uuid.UUID      `gorm:"type:uuid;not null;index" json:"workspaceId"`
	Kind        string         `gorm:"not null" json:"kind"`
	Content     datatypes.JSON `json:"content"`
	CreatedAt   time.Time      `json:"createdAt"`
	UpdatedAt   time.Time      `json:"updatedAt"`
}

// TableName overrides the gorm table name
func (ContextDocument) TableName() string { return "context_documents" }

// Manifest is the versioned descriptor of the stored business context,
// fetched independently of session data.
type Manifest struct {
	Success     bool      `json:"success"`
	Version     string    `json:"version"`
	Checksum    string    `json:"checksum"`
	RetrievedAt time.Time `json:"retrieved_at"`
}
