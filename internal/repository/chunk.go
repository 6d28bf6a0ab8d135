package repository

import (
	"context"
	"time"

	"github.com/fourier-ai/lmdrag/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pgvector/pgvector-go"
)

// ChunkRepository handles persistence and similarity search of embedded
// document chunks. Its usage is append-only: no update or delete path.
type ChunkRepository struct {
	db dbtx
}

func NewChunkRepository(pool *pgxpool.Pool) *ChunkRepository {
	return &ChunkRepository{db: pool}
}

func NewChunkRepositoryWithTx(tx pgx.Tx) *ChunkRepository {
	return &ChunkRepository{db: tx}
}

// InsertChunks writes embedded chunks to the index.
func (r *ChunkRepository) InsertChunks(ctx context.Context, entries []domain.IndexEntry) error {
	for _, e := range entries {
		createdAt := e.CreatedAt
		if createdAt.IsZero() {
			createdAt = time.Now().UTC()
		}
		_, err := r.db.Exec(ctx,
			`INSERT INTO document_chunks
				(document_hash, source, chunk_index, content, embedding, created_at)
			 VALUES
				($1, $2, $3, $4, $5, $6)`,
			e.DocumentHash,
			e.Source,
			e.ChunkIndex,
			e.Content,
			pgvector.NewVector(e.Embedding),
			createdAt,
		)
		if err != nil {
			return err
		}
	}
	return nil
}

// SearchByEmbedding returns up to k chunks ranked by cosine similarity
// to the query embedding, most similar first.
func (r *ChunkRepository) SearchByEmbedding(ctx context.Context, embedding []float32, k int) ([]domain.ChunkMatch, error) {
	if k <= 0 {
		k = 3
	}

	rows, err := r.db.Query(ctx,
		`SELECT content, source, 1.0 / (1.0 + (embedding <=> $1)) AS score
		 FROM document_chunks
		 ORDER BY embedding <=> $1
		 LIMIT $2`,
		pgvector.NewVector(embedding), k,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var matches []domain.ChunkMatch
	for rows.Next() {
		var m domain.ChunkMatch
		if err := rows.Scan(&m.Content, &m.Source, &m.Score); err != nil {
			return nil, err
		}
		matches = append(matches, m)
	}
	return matches, rows.Err()
}

// CountByDocument returns the number of indexed chunks for a document hash.
func (r *ChunkRepository) CountByDocument(ctx context.Context, documentHash string) (int, error) {
	var count int
	err := r.db.QueryRow(ctx,
		`SELECT COUNT(*) FROM document_chunks WHERE document_hash = $1`,
		documentHash,
	).Scan(&count)
	if err != nil {
		return 0, err
	}
	return count, nil
}
