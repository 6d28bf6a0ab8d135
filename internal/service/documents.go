package service

import (
	"context"

	"github.com/fourier-ai/lmdrag/internal/domain"
	"github.com/fourier-ai/lmdrag/internal/pagination"
	"github.com/fourier-ai/lmdrag/internal/telemetry"
)

type ListDocumentsInput struct {
	Cursor string
	Limit  int
}

type ListDocumentsOutput struct {
	Items   []*domain.LedgerEntry
	Cursor  string
	HasMore bool
}

// DownloadURLProvider defines the interface for generating presigned
// download URLs for archived originals.
type DownloadURLProvider interface {
	GenerateDownloadURL(ctx context.Context, key string) (string, error)
}

// DocumentService exposes read access to the ingestion ledger and the
// archived originals.
type DocumentService struct {
	ledgerRepo LedgerRepositoryInterface
	downloads  DownloadURLProvider
}

// NewDocumentService creates a new DocumentService instance. downloads
// may be nil when no archive store is configured.
func NewDocumentService(ledgerRepo LedgerRepositoryInterface, downloads DownloadURLProvider) *DocumentService {
	return &DocumentService{
		ledgerRepo: ledgerRepo,
		downloads:  downloads,
	}
}

// GetByHash retrieves a single ledger entry.
func (s *DocumentService) GetByHash(ctx context.Context, hash string) (*domain.LedgerEntry, error) {
	return s.ledgerRepo.GetByHash(ctx, hash)
}

// DownloadURL returns a presigned URL for the archived original of an
// ingested document. The ledger is checked first so an unknown hash is
// a not-found, not a dangling archive link.
func (s *DocumentService) DownloadURL(ctx context.Context, hash string) (string, error) {
	if s.downloads == nil {
		return "", domain.ErrArchiveNotConfigured
	}

	ctx, span := telemetry.StartSpan(ctx, "DocumentService.DownloadURL", telemetry.SpanAttributes{
		DocumentHash: hash,
		Operation:    "download_url",
	})
	defer span.End()

	entry, err := s.ledgerRepo.GetByHash(ctx, hash)
	if err != nil {
		return "", err
	}

	url, err := s.downloads.GenerateDownloadURL(ctx, domain.ArchiveKey(entry.Hash, entry.Filename))
	if err != nil {
		span.SetError(err)
		return "", domain.NewDomainErrorWithCause(domain.ErrCodeInternalError, "failed to generate download URL", err)
	}
	return url, nil
}

// ListDocuments retrieves ledger entries newest first, keyset paginated.
func (s *DocumentService) ListDocuments(ctx context.Context, input ListDocumentsInput) (*ListDocumentsOutput, error) {
	ctx, span := telemetry.StartSpan(ctx, "DocumentService.ListDocuments", telemetry.SpanAttributes{
		Operation: "list",
	})
	defer span.End()

	cursor, _ := pagination.DecodeCursor(input.Cursor)
	limit := input.Limit
	if limit <= 0 {
		limit = 20
	}

	result, err := s.ledgerRepo.ListWithCursor(ctx, cursor, limit)
	if err != nil {
		return nil, err
	}

	return &ListDocumentsOutput{
		Items:   result.Items,
		Cursor:  result.NextCursor,
		HasMore: result.HasMore,
	}, nil
}
