package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/fourier-ai/lmdrag/internal/domain"
)

// MockFeedbackRepository is a mock implementation of FeedbackRepositoryInterface
type MockFeedbackRepository struct {
	mock.Mock
}

func (m *MockFeedbackRepository) Create(ctx context.Context, f *domain.Feedback) error {
	args := m.Called(ctx, f)
	return args.Error(0)
}

// MockUUIDGenerator is a mock implementation of UUIDGenerator
type MockUUIDGenerator struct {
	uuids     []string
	callCount int
}

func NewMockUUIDGenerator(uuids ...string) *MockUUIDGenerator {
	return &MockUUIDGenerator{uuids: uuids}
}

func (m *MockUUIDGenerator) NewString() string {
	if m.callCount < len(m.uuids) {
		uuid := m.uuids[m.callCount]
		m.callCount++
		return uuid
	}
	return "default-uuid"
}

func TestFeedbackService_Record(t *testing.T) {
	ctx := context.Background()

	t.Run("records a vote", func(t *testing.T) {
		repo := new(MockFeedbackRepository)
		svc := NewFeedbackServiceWithUUIDGen(repo, NewMockUUIDGenerator("feedback-id-1"))

		repo.On("Create", mock.Anything, mock.MatchedBy(func(f *domain.Feedback) bool {
			return f.ID == "feedback-id-1" &&
				f.Question == "What laser power?" &&
				f.Answer == "400 W" &&
				f.Helpful
		})).Return(nil)

		f, err := svc.Record(ctx, "What laser power?", "400 W", true)

		require.NoError(t, err)
		assert.Equal(t, "feedback-id-1", f.ID)
		repo.AssertExpectations(t)
	})

	t.Run("rejects an empty question", func(t *testing.T) {
		svc := NewFeedbackService(new(MockFeedbackRepository))

		_, err := svc.Record(ctx, "  ", "answer", false)
		assert.ErrorIs(t, err, domain.ErrEmptyQuestion)
	})

	t.Run("propagates repository errors", func(t *testing.T) {
		repo := new(MockFeedbackRepository)
		svc := NewFeedbackService(repo)

		repo.On("Create", mock.Anything, mock.Anything).Return(errors.New("insert failed"))

		_, err := svc.Record(ctx, "question", "answer", true)
		require.Error(t, err)
	})
}

func TestDocumentService_ListDocuments(t *testing.T) {
	ctx := context.Background()

	t.Run("defaults the limit and passes the decoded cursor", func(t *testing.T) {
		ledger := new(MockLedgerRepository)
		svc := NewDocumentService(ledger, nil)

		ledger.On("ListWithCursor", mock.Anything, mock.Anything, 20).Return(&DocumentPageResult{
			Items:      []*domain.LedgerEntry{{Hash: "abc", Filename: "a.pdf"}},
			NextCursor: "next",
			HasMore:    true,
		}, nil)

		out, err := svc.ListDocuments(ctx, ListDocumentsInput{})

		require.NoError(t, err)
		assert.Len(t, out.Items, 1)
		assert.Equal(t, "next", out.Cursor)
		assert.True(t, out.HasMore)
	})
}
