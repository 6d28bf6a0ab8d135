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

// MockDownloadURLProvider is a mock implementation of DownloadURLProvider
type MockDownloadURLProvider struct {
	mock.Mock
}

func (m *MockDownloadURLProvider) GenerateDownloadURL(ctx context.Context, key string) (string, error) {
	args := m.Called(ctx, key)
	return args.String(0), args.Error(1)
}

func TestDocumentService_DownloadURL(t *testing.T) {
	ctx := context.Background()
	hash := domain.ComputeContentHash([]byte("archived paper"))

	t.Run("returns a presigned URL keyed by hash and filename", func(t *testing.T) {
		ledger := new(MockLedgerRepository)
		downloads := new(MockDownloadURLProvider)
		svc := NewDocumentService(ledger, downloads)

		ledger.On("GetByHash", mock.Anything, hash).Return(&domain.LedgerEntry{
			Hash:     hash,
			Filename: "paper.pdf",
		}, nil)
		downloads.On("GenerateDownloadURL", mock.Anything, hash+"/paper.pdf").
			Return("https://bucket.example/signed", nil)

		url, err := svc.DownloadURL(ctx, hash)

		require.NoError(t, err)
		assert.Equal(t, "https://bucket.example/signed", url)
		downloads.AssertExpectations(t)
	})

	t.Run("fails with not-found when no archive is configured", func(t *testing.T) {
		ledger := new(MockLedgerRepository)
		svc := NewDocumentService(ledger, nil)

		_, err := svc.DownloadURL(ctx, hash)

		assert.ErrorIs(t, err, domain.ErrArchiveNotConfigured)
		ledger.AssertNotCalled(t, "GetByHash", mock.Anything, mock.Anything)
	})

	t.Run("an unknown hash is a not-found before any presigning", func(t *testing.T) {
		ledger := new(MockLedgerRepository)
		downloads := new(MockDownloadURLProvider)
		svc := NewDocumentService(ledger, downloads)

		ledger.On("GetByHash", mock.Anything, mock.Anything).Return(nil, domain.ErrDocumentNotFound)

		_, err := svc.DownloadURL(ctx, hash)

		assert.ErrorIs(t, err, domain.ErrDocumentNotFound)
		downloads.AssertNotCalled(t, "GenerateDownloadURL", mock.Anything, mock.Anything)
	})

	t.Run("presign failures surface as internal errors", func(t *testing.T) {
		ledger := new(MockLedgerRepository)
		downloads := new(MockDownloadURLProvider)
		svc := NewDocumentService(ledger, downloads)

		ledger.On("GetByHash", mock.Anything, mock.Anything).Return(&domain.LedgerEntry{
			Hash:     hash,
			Filename: "paper.pdf",
		}, nil)
		downloads.On("GenerateDownloadURL", mock.Anything, mock.Anything).
			Return("", errors.New("presign failed"))

		_, err := svc.DownloadURL(ctx, hash)

		require.Error(t, err)
		var domainErr *domain.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, domain.ErrCodeInternalError, domainErr.Code)
	})
}
