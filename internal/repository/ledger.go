package repository

import (
	"context"
	"errors"
	"time"

	"github.com/fourier-ai/lmdrag/internal/domain"
	"github.com/fourier-ai/lmdrag/internal/pagination"
	"github.com/fourier-ai/lmdrag/internal/service"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// pgUniqueViolation is the Postgres error code for unique constraint violations.
const pgUniqueViolation = "23505"

// LedgerRepository persists the record of ingested documents. The primary
// key on the content hash is the backstop for the at-most-once invariant.
type LedgerRepository struct {
	db dbtx
}

func NewLedgerRepository(pool *pgxpool.Pool) *LedgerRepository {
	return &LedgerRepository{db: pool}
}

func NewLedgerRepositoryWithTx(tx pgx.Tx) *LedgerRepository {
	return &LedgerRepository{db: tx}
}

// Exists reports whether a ledger entry with the given hash is present.
func (r *LedgerRepository) Exists(ctx context.Context, hash string) (bool, error) {
	var one int
	err := r.db.QueryRow(ctx,
		`SELECT 1 FROM documents WHERE hash = $1`,
		hash,
	).Scan(&one)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// Record inserts a new ledger entry. Inserting a hash that is already
// present fails with domain.ErrDuplicateHash.
func (r *LedgerRepository) Record(ctx context.Context, entry *domain.LedgerEntry) error {
	if err := domain.ValidateLedgerEntry(entry); err != nil {
		return domain.NewDomainErrorWithCause(domain.ErrCodeValidation, "invalid ledger entry", err)
	}

	ingestedAt := entry.IngestedAt
	if ingestedAt.IsZero() {
		ingestedAt = time.Now().UTC()
	}

	_, err := r.db.Exec(ctx,
		`INSERT INTO documents (hash, filename, ingested_at) VALUES ($1, $2, $3)`,
		entry.Hash, entry.Filename, ingestedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
			return domain.ErrDuplicateHash
		}
		return err
	}
	return nil
}

// GetByHash retrieves a single ledger entry.
func (r *LedgerRepository) GetByHash(ctx context.Context, hash string) (*domain.LedgerEntry, error) {
	var entry domain.LedgerEntry
	err := r.db.QueryRow(ctx,
		`SELECT hash, filename, ingested_at FROM documents WHERE hash = $1`,
		hash,
	).Scan(&entry.Hash, &entry.Filename, &entry.IngestedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrDocumentNotFound
		}
		return nil, err
	}
	return &entry, nil
}

// ListWithCursor returns ledger entries newest first, keyset-paginated.
func (r *LedgerRepository) ListWithCursor(ctx context.Context, cursor *pagination.Cursor, limit int) (*service.DocumentPageResult, error) {
	if limit <= 0 {
		limit = 20
	}

	var rows pgx.Rows
	var err error

	if cursor != nil {
		rows, err = r.db.Query(ctx,
			`SELECT hash, filename, ingested_at
			 FROM documents
			 WHERE (ingested_at, hash) < ($1, $2)
			 ORDER BY ingested_at DESC, hash DESC
			 LIMIT $3`,
			cursor.Timestamp, cursor.LastID, limit+1,
		)
	} else {
		rows, err = r.db.Query(ctx,
			`SELECT hash, filename, ingested_at
			 FROM documents
			 ORDER BY ingested_at DESC, hash DESC
			 LIMIT $1`,
			limit+1,
		)
	}
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []*domain.LedgerEntry
	for rows.Next() {
		var entry domain.LedgerEntry
		if err := rows.Scan(&entry.Hash, &entry.Filename, &entry.IngestedAt); err != nil {
			return nil, err
		}
		items = append(items, &entry)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	hasMore := len(items) > limit
	if hasMore {
		items = items[:limit]
	}

	var nextCursor string
	if hasMore && len(items) > 0 {
		last := items[len(items)-1]
		nextCursor = pagination.EncodeCursor(last.Hash, last.IngestedAt)
	}

	return &service.DocumentPageResult{
		Items:      items,
		NextCursor: nextCursor,
		HasMore:    hasMore,
	}, nil
}
