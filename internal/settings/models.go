package settings

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// WorkspaceSettings holds per-workspace preferences. A workspace without a
// stored row gets the defaults.
type WorkspaceSettings struct {
	WorkspaceID   uuid.UUID      `json:"workspaceId" gorm:"type:uuid;primaryKey"`
	CompanyName   string         `json:"companyName"`
	Language      string         `json:"language" gorm:"default:en"`
	Timezone      string         `json:"timezone" gorm:"default:UTC"`
	PlanID        string         `json:"planId" gorm:"default:starter"`
	Notifications datatypes.JSON `json:"notifications" gorm:"type:jsonb"`
	CreatedAt     time.Time      `json:"createdAt"`
	UpdatedAt     time.Time      `json:"updatedAt"`
}

// TableName specifies the table name for GORM
func (WorkspaceSettings) TableName() string {
	return "workspace_settings"
}

// UpdateSettingsRequest is the payload for settings updates
type UpdateSettingsRequest struct {
	CompanyName   *string        `json:"companyName"`
	Language      *string        `json:"language"`
	Timezone      *string        `json:"timezone"`
	Notifications map[string]any `json:"notifications"`
}

// SelectPlanRequest is the payload for a plan change
type SelectPlanRequest struct {
	PlanID string `json:"planId" binding:"required"`
}
