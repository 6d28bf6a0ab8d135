package service

import (
	"context"
	"errors"
	"log"
	"runtime"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/fourier-ai/lmdrag/internal/domain"
	"github.com/fourier-ai/lmdrag/internal/pagination"
	"github.com/fourier-ai/lmdrag/internal/telemetry"
)

// LedgerRepositoryInterface defines the repository interface for the ingestion ledger
type LedgerRepositoryInterface interface {
	Exists(ctx context.Context, hash string) (bool, error)
	Record(ctx context.Context, entry *domain.LedgerEntry) error
	GetByHash(ctx context.Context, hash string) (*domain.LedgerEntry, error)
	ListWithCursor(ctx context.Context, cursor *pagination.Cursor, limit int) (*DocumentPageResult, error)
}

// ChunkRepositoryInterface defines the repository interface for the chunk index
type ChunkRepositoryInterface interface {
	InsertChunks(ctx context.Context, entries []domain.IndexEntry) error
	SearchByEmbedding(ctx context.Context, embedding []float32, k int) ([]domain.ChunkMatch, error)
}

type DocumentPageResult struct {
	Items      []*domain.LedgerEntry
	NextCursor string
	HasMore    bool
}

// EmbeddingClient defines the interface for generating embeddings
type EmbeddingClient interface {
	GenerateEmbedding(ctx context.Context, text string) ([]float32, error)
}

// PageExtractorInterface defines the interface for extracting page text
// from uploaded files
type PageExtractorInterface interface {
	Extract(ctx context.Context, data []byte, filename string) ([]domain.Page, error)
}

// ArchiveStore defines the interface for archiving original uploads.
// Archival is best-effort and never affects ingestion outcome.
type ArchiveStore interface {
	ArchiveDocument(ctx context.Context, key string, data []byte, contentType string) error
}

// IngestService handles the document ingestion pipeline: hash, dedup,
// extract, normalize, chunk, embed, and the atomic index+ledger write.
type IngestService struct {
	ledgerRepo LedgerRepositoryInterface
	txRunner   TxRunner
	extractor  PageExtractorInterface
	embedding  EmbeddingClient
	archive    ArchiveStore
	chunkCfg   ChunkConfig
	workers    int
}

// NewIngestService creates a new IngestService instance. archive may be
// nil, in which case originals are not archived.
func NewIngestService(
	ledgerRepo LedgerRepositoryInterface,
	txRunner TxRunner,
	extractor PageExtractorInterface,
	embedding EmbeddingClient,
	archive ArchiveStore,
	chunkCfg ChunkConfig,
) *IngestService {
	if !chunkCfg.valid() {
		chunkCfg = DefaultChunkConfig()
	}
	return &IngestService{
		ledgerRepo: ledgerRepo,
		txRunner:   txRunner,
		extractor:  extractor,
		embedding:  embedding,
		archive:    archive,
		chunkCfg:   chunkCfg,
		workers:    runtime.NumCPU(),
	}
}

// Ingest runs the full pipeline for a single uploaded file.
//
// Documents already present in the ledger are skipped without touching
// the index. Chunk rows and the ledger entry are written inside one
// transaction, so a failure in either leaves neither behind.
func (s *IngestService) Ingest(ctx context.Context, filename string, data []byte) (*domain.IngestResult, error) {
	if filename == "" {
		return nil, domain.ErrMissingFilename
	}
	if len(data) == 0 {
		return nil, domain.ErrEmptyFile
	}

	hash := domain.ComputeContentHash(data)

	ctx, span := telemetry.StartSpan(ctx, "IngestService.Ingest", telemetry.SpanAttributes{
		DocumentHash: hash,
		Source:       filename,
		Operation:    "ingest",
	})
	defer span.End()

	exists, err := s.ledgerRepo.Exists(ctx, hash)
	if err != nil {
		return nil, err
	}
	if exists {
		return &domain.IngestResult{
			Hash:     hash,
			Filename: filename,
			Skipped:  true,
			Reason:   domain.IngestSkipAlreadyIngested,
		}, nil
	}

	pages, err := s.extractor.Extract(ctx, data, filename)
	if err != nil {
		span.SetError(err)
		return nil, err
	}

	normalized, err := s.normalizePages(ctx, pages)
	if err != nil {
		return nil, err
	}

	chunks := ChunkPages(normalized, s.chunkCfg)

	entries, err := s.embedChunks(ctx, hash, chunks)
	if err != nil {
		span.SetError(err)
		return nil, err
	}

	entry := &domain.LedgerEntry{
		Hash:       hash,
		Filename:   filename,
		IngestedAt: time.Now().UTC(),
	}
	if err := domain.ValidateLedgerEntry(entry); err != nil {
		return nil, err
	}

	// Index rows first, ledger row second, one transaction. A crash or
	// error between the two rolls back both, so the ledger never claims
	// a document whose chunks are missing.
	err = s.txRunner.WithTx(ctx, func(repos TxRepositories) error {
		if err := repos.Chunks().InsertChunks(ctx, entries); err != nil {
			return domain.NewDomainErrorWithCause(domain.ErrCodeIndexWrite, "failed to index document chunks", err)
		}
		return repos.Ledger().Record(ctx, entry)
	})
	if err != nil {
		span.SetError(err)
		// A concurrent ingest of the same bytes won the race; report it
		// as an ordinary skip.
		if errors.Is(err, domain.ErrDuplicateHash) {
			return &domain.IngestResult{
				Hash:     hash,
				Filename: filename,
				Skipped:  true,
				Reason:   domain.IngestSkipAlreadyIngested,
			}, nil
		}
		return nil, err
	}

	s.archiveOriginal(ctx, hash, filename, data)

	return &domain.IngestResult{
		Hash:       hash,
		Filename:   filename,
		ChunkCount: len(entries),
	}, nil
}

// normalizePages cleans citation noise from every page concurrently.
// Results are written to index-addressed slots, so page order is
// preserved no matter which worker finishes first.
func (s *IngestService) normalizePages(ctx context.Context, pages []domain.Page) ([]domain.Page, error) {
	out := make([]domain.Page, len(pages))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(s.workers)

	for i, page := range pages {
		g.Go(func() error {
			select {
			case <-ctx.Done():
				return ctx.Err()
			default:
			}
			out[i] = domain.Page{
				Text:     CleanCitations(page.Text),
				Metadata: page.Metadata,
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

// embedChunks generates an embedding for each chunk. Embeddings are
// computed before the index transaction opens so no network call ever
// holds a database transaction.
func (s *IngestService) embedChunks(ctx context.Context, hash string, chunks []domain.Chunk) ([]domain.IndexEntry, error) {
	now := time.Now().UTC()
	entries := make([]domain.IndexEntry, 0, len(chunks))

	for _, chunk := range chunks {
		vec, err := s.embedding.GenerateEmbedding(ctx, chunk.Content)
		if err != nil {
			return nil, domain.NewDomainErrorWithCause(domain.ErrCodeIndexWrite, "failed to embed document chunk", err)
		}
		entries = append(entries, domain.IndexEntry{
			DocumentHash: hash,
			Source:       chunk.Source,
			ChunkIndex:   chunk.Index,
			Content:      chunk.Content,
			Embedding:    vec,
			CreatedAt:    now,
		})
	}
	return entries, nil
}

func (s *IngestService) archiveOriginal(ctx context.Context, hash, filename string, data []byte) {
	if s.archive == nil {
		return
	}

	key := domain.ArchiveKey(hash, filename)
	if err := s.archive.ArchiveDocument(ctx, key, data, "application/octet-stream"); err != nil {
		log.Printf("ingest: failed to archive original %s: %v", key, err)
		telemetry.CaptureError(ctx, err)
	}
}
