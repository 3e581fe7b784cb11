package manifest

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"

	"go.uber.org/zap"
)

// MirrorStore receives a copy of every stored context document. The portal
// mirrors context rows to Supabase so the hosted site can read them without
// touching the primary database.
type MirrorStore interface {
	UpsertRow(ctx context.Context, table string, row any) error
}

const mirrorTable = "context_documents"

// Service derives the context manifest from the stored document set
type Service struct {
	repo   Repository
	mirror MirrorStore
	logger *zap.Logger
}

// NewService creates a new manifest service. mirror may be nil.
func NewService(repo Repository, mirror MirrorStore, logger *zap.Logger) *Service {
	return &Service{repo: repo, mirror: mirror, logger: logger}
}

// GetManifest computes the current manifest. Returns ErrNoContext when no
// documents are stored: the dashboard omits its context card in that case
// rather than treating it as a failure.
func (s *Service) GetManifest(ctx context.Context) (*Manifest, error) {
	docs, err := s.repo.ListDocuments(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load context documents: %w", err)
	}
	if len(docs) == 0 {
		return nil, ErrNoContext
	}

	hasher := sha256.New()
	latest := time.Time{}
	for _, doc := range docs {
		hasher.Write([]byte(doc.ID.String()))
		hasher.Write(doc.Content)
		if doc.UpdatedAt.After(latest) {
			latest = doc.UpdatedAt
		}
	}

	return &Manifest{
		Success:     true,
		Version:     fmt.Sprintf("%s.%d", latest.UTC().Format("2006-01-02"), len(docs)),
		Checksum:    hex.EncodeToString(hasher.Sum(nil)),
		RetrievedAt: time.Now().UTC(),
	}, nil
}

// StoreDocument upserts a context document and mirrors it when a mirror
// store is configured. Mirror failures are logged, not propagated: the
// primary store is authoritative.
func (s *Service) StoreDocument(ctx context.Context, doc *ContextDocument) error {
	if err := s.repo.UpsertDocument(ctx, doc); err != nil {
		return fmt.Errorf("failed to store context document: %w", err)
	}

	if s.mirror != nil {
		if err := s.mirror.UpsertRow(ctx, mirrorTable, doc); err != nil {
			s.logger.Warn("Failed to mirror context document",
				zap.String("document_id", doc.ID.String()), zap.Error(err))
		}
	}

	return nil
}
