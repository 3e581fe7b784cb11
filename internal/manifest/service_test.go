package manifest

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// MockRepository is a mock implementation of the Repository interface
type MockRepository struct {
	mock.Mock
}

func (m *MockRepository) ListDocuments(ctx context.Context) ([]ContextDocument, error) {
	args := m.Called(ctx)
	return args.Get(0).([]ContextDocument), args.Error(1)
}

func (m *MockRepository) UpsertDocument(ctx context.Context, doc *ContextDocument) error {
	args := m.Called(ctx, doc)
	return args.Error(0)
}

func (m *MockRepository) DeleteDocument(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockMirror is a mock implementation of the MirrorStore interface
type MockMirror struct {
	mock.Mock
}

func (m *MockMirror) UpsertRow(ctx context.Context, table string, row any) error {
	args := m.Called(ctx, table, row)
	return args.Error(0)
}

func TestGetManifestEmpty(t *testing.T) {
	mockRepo := new(MockRepository)
	service := NewService(mockRepo, nil, zap.NewNop())

	mockRepo.On("ListDocuments", mock.Anything).Return([]ContextDocument{}, nil)

	_, err := service.GetManifest(context.Background())
	assert.ErrorIs(t, err, ErrNoContext)
}

func TestGetManifest(t *testing.T) {
	mockRepo := new(MockRepository)
	service := NewService(mockRepo, nil, zap.NewNop())

	updated := time.Date(2025, 11, 3, 12, 0, 0, 0, time.UTC)
	docs := []ContextDocument{
		{ID: uuid.New(), Kind: "company-profile", Content: []byte(`{"name":"Acme"}`), UpdatedAt: updated.Add(-time.Hour)},
		{ID: uuid.New(), Kind: "brand-voice", Content: []byte(`{"tone":"direct"}`), UpdatedAt: updated},
	}
	mockRepo.On("ListDocuments", mock.Anything).Return(docs, nil)

	m, err := service.GetManifest(context.Background())

	require.NoError(t, err)
	assert.True(t, m.Success)
	assert.Equal(t, "2025-11-03.2", m.Version)
	assert.Len(t, m.Checksum, 64) // sha256 hex
	assert.False(t, m.RetrievedAt.IsZero())
}

func TestChecksumTracksContent(t *testing.T) {
	mockRepo := new(MockRepository)
	service := NewService(mockRepo, nil, zap.NewNop())

	id := uuid.New()
	updated := time.Now()
	first := []ContextDocument{{ID: id, Content: []byte(`{"v":1}`), UpdatedAt: updated}}
	second := []ContextDocument{{ID: id, Content: []byte(`{"v":2}`), UpdatedAt: updated}}

	mockRepo.On("ListDocuments", mock.Anything).Return(first, nil).Once()
	mockRepo.On("ListDocuments", mock.Anything).Return(second, nil).Once()

	m1, err := service.GetManifest(context.Background())
	require.NoError(t, err)
	m2, err := service.GetManifest(context.Background())
	require.NoError(t, err)

	assert.NotEqual(t, m1.Checksum, m2.Checksum)
}

func TestStoreDocumentMirrors(t *testing.T) {
	mockRepo := new(MockRepository)
	mockMirror := new(MockMirror)
	service := NewService(mockRepo, mockMirror, zap.NewNop())

	doc := &ContextDocument{ID: uuid.New(), Kind: "company-profile"}
	mockRepo.On("UpsertDocument", mock.Anything, doc).Return(nil)
	mockMirror.On("UpsertRow", mock.Anything, "context_documents", doc).Return(nil)

	require.NoError(t, service.StoreDocument(context.Background(), doc))

	mockRepo.AssertExpectations(t)
	mockMirror.AssertExpectations(t)
}

func TestStoreDocumentMirrorFailureIsNotFatal(t *testing.T) {
	mockRepo := new(MockRepository)
	mockMirror := new(MockMirror)
	service := NewService(mockRepo, mockMirror, zap.NewNop())

	doc := &ContextDocument{ID: uuid.New()}
	mockRepo.On("UpsertDocument", mock.Anything, doc).Return(nil)
	mockMirror.On("UpsertRow", mock.Anything, mirrorTable, doc).Return(assert.AnError)

	assert.NoError(t, service.StoreDocument(context.Background(), doc))
}
