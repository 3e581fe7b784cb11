package manifest

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Repository defines data access for context documents
type Repository interface {
	ListDocuments(ctx context.Context) ([]ContextDocument, error)
	UpsertDocument(ctx context.Context, doc *ContextDocument) error
	DeleteDocument(ctx context.Context, id uuid.UUID) error
}

// GormRepository implements Repository using GORM/PostgreSQL
type GormRepository struct {
	db *gorm.DB
}

// NewGormRepository creates a new repository
func NewGormRepository(db *gorm.DB) *GormRepository {
	return &GormRepository{db: db}
}

// Migrate creates the context tables
func (r *GormRepository) Migrate() error {
	return r.db.AutoMigrate(&ContextDocument{})
}

func (r *GormRepository) ListDocuments(ctx context.Context) ([]ContextDocument, error) {
	var docs []ContextDocument
	err := r.db.WithContext(ctx).Order("id ASC").Find(&docs).Error
	if err != nil {
		return nil, err
	}
	return docs, nil
}

func (r *GormRepository) UpsertDocument(ctx context.Context, doc *ContextDocument) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "id"}},
			UpdateAll: true,
		}).
		Create(doc).Error
}

func (r *GormRepository) DeleteDocument(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&ContextDocument{}, "id = ?", id).Error
}
