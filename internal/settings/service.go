package settings

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/datatypes"

	"launchpad/client-portal/client-portal-backend/internal/plans"
)

// ErrUnknownPlan is returned when a plan change names a plan that is not in
// the catalog
var ErrUnknownPlan = errors.New("unknown plan")

// Service provides workspace settings logic
type Service struct {
	repo   Repository
	logger *zap.Logger
}

// NewService creates a new settings service
func NewService(repo Repository, logger *zap.Logger) *Service {
	return &Service{repo: repo, logger: logger}
}

// GetSettings returns the workspace settings, falling back to defaults for
// workspaces that never saved any
func (s *Service) GetSettings(ctx context.Context, workspaceID uuid.UUID) (*WorkspaceSettings, error) {
	settings, err := s.repo.GetSettings(ctx, workspaceID)
	if err != nil {
		if errors.Is(err, ErrSettingsNotFound) {
			return defaultSettings(workspaceID), nil
		}
		return nil, err
	}
	return settings, nil
}

// UpdateSettings applies a partial update and persists the result
func (s *Service) UpdateSettings(ctx context.Context, workspaceID uuid.UUID, req UpdateSettingsRequest) (*WorkspaceSettings, error) {
	settings, err := s.GetSettings(ctx, workspaceID)
	if err != nil {
		return nil, err
	}

	if req.CompanyName != nil {
		settings.CompanyName = *req.CompanyName
	}
	if req.Language != nil {
		settings.Language = *req.Language
	}
	if req.Timezone != nil {
		settings.Timezone = *req.Timezone
	}
	if req.Notifications != nil {
		raw, err := json.Marshal(req.Notifications)
		if err != nil {
			return nil, fmt.Errorf("failed to encode notification preferences: %w", err)
		}
		settings.Notifications = datatypes.JSON(raw)
	}

	if err := s.repo.SaveSettings(ctx, settings); err != nil {
		return nil, err
	}
	return settings, nil
}

// SelectPlan switches the workspace to a plan from the catalog
func (s *Service) SelectPlan(ctx context.Context, workspaceID uuid.UUID, planID string) (*WorkspaceSettings, error) {
	if _, err := plans.ByID(planID); err != nil {
		return nil, ErrUnknownPlan
	}

	settings, err := s.GetSettings(ctx, workspaceID)
	if err != nil {
		return nil, err
	}

	settings.PlanID = planID
	if err := s.repo.SaveSettings(ctx, settings); err != nil {
		return nil, err
	}

	s.logger.Info("Workspace plan changed",
		zap.String("workspace_id", workspaceID.String()),
		zap.String("plan_id", planID))

	return settings, nil
}

func defaultSettings(workspaceID uuid.UUID) *WorkspaceSettings {
	return &WorkspaceSettings{
		WorkspaceID:   workspaceID,
		Language:      "en",
		Timezone:      "UTC",
		PlanID:        "starter",
		Notifications: datatypes.JSON([]byte(`{"email":true,"inApp":true}`)),
	}
}
