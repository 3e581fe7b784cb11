package settings

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ErrSettingsNotFound is returned when a workspace has no stored settings
var ErrSettingsNotFound = errors.New("settings not found")

// Repository defines the interface for settings persistence
type Repository interface {
	GetSettings(ctx context.Context, workspaceID uuid.UUID) (*WorkspaceSettings, error)
	SaveSettings(ctx context.Context, settings *WorkspaceSettings) error
}

// GormRepository implements Repository using GORM
type GormRepository struct {
	db *gorm.DB
}

// NewGormRepository creates a new GORM-based repository
func NewGormRepository(db *gorm.DB) *GormRepository {
	return &GormRepository{db: db}
}

// Migrate runs auto-migration for settings tables
func (r *GormRepository) Migrate() error {
	return r.db.AutoMigrate(&WorkspaceSettings{})
}

func (r *GormRepository) GetSettings(ctx context.Context, workspaceID uuid.UUID) (*WorkspaceSettings, error) {
	var settings WorkspaceSettings
	if err := r.db.WithContext(ctx).Where("workspace_id = ?", workspaceID).First(&settings).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSettingsNotFound
		}
		return nil, fmt.Errorf("failed to get settings: %w", err)
	}
	return &settings, nil
}

func (r *GormRepository) SaveSettings(ctx context.Context, settings *WorkspaceSettings) error {
	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "workspace_id"}},
		UpdateAll: true,
	}).Create(settings).Error
	if err != nil {
		return fmt.Errorf("failed to save settings: %w", err)
	}
	return nil
}
