package onboarding

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Repository defines data access for sessions and steps
type Repository interface {
	CreateSession(ctx context.Context, session *Session, steps []Step) error
	GetSession(ctx context.Context, id uuid.UUID) (*Session, error)
	UpdateSession(ctx context.Context, session *Session) error
	ListSessions(ctx context.Context, status *SessionStatus) ([]Session, error)

	GetSteps(ctx context.Context, sessionID uuid.UUID) ([]Step, error)
	UpdateStep(ctx context.Context, step *Step) error
}

// GormRepository implements Repository using GORM/PostgreSQL
type GormRepository struct {
	db *gorm.DB
}

// NewGormRepository creates a new repository
func NewGormRepository(db *gorm.DB) *GormRepository {
	return &GormRepository{db: db}
}

// Migrate creates the onboarding tables
func (r *GormRepository) Migrate() error {
	return r.db.AutoMigrate(&Session{}, &Step{})
}

func (r *GormRepository) CreateSession(ctx context.Context, session *Session, steps []Step) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(session).Error; err != nil {
			return err
		}
		if len(steps) == 0 {
			return nil
		}
		for i := range steps {
			steps[i].SessionID = session.SessionID
		}
		return tx.Create(&steps).Error
	})
}

func (r *GormRepository) GetSession(ctx context.Context, id uuid.UUID) (*Session, error) {
	var session Session
	err := r.db.WithContext(ctx).First(&session, "session_id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrSessionNotFound
	}
	if err != nil {
		return nil, err
	}
	return &session, nil
}

func (r *GormRepository) UpdateSession(ctx context.Context, session *Session) error {
	session.LastActivity = time.Now()
	return r.db.WithContext(ctx).Save(session).Error
}

func (r *GormRepository) ListSessions(ctx context.Context, status *SessionStatus) ([]Session, error) {
	query := r.db.WithContext(ctx).Order("started_at DESC")
	if status != nil {
		query = query.Where("status = ?", *status)
	}

	var sessions []Session
	if err := query.Find(&sessions).Error; err != nil {
		return nil, err
	}
	return sessions, nil
}

func (r *GormRepository) GetSteps(ctx context.Context, sessionID uuid.UUID) ([]Step, error) {
	var steps []Step
	err := r.db.WithContext(ctx).
		Where("session_id = ?", sessionID).
		Order("id ASC").
		Find(&steps).Error
	if err != nil {
		return nil, err
	}
	return steps, nil
}

func (r *GormRepository) UpdateStep(ctx context.Context, step *Step) error {
	return r.db.WithContext(ctx).Save(step).Error
}
