package repository

import (
	"context"
	"time"

	"github.com/fourier-ai/lmdrag/internal/domain"
	"github.com/jackc/pgx/v5/pgxpool"
)

// FeedbackRepository stores answer ratings for offline evaluation.
type FeedbackRepository struct {
	pool *pgxpool.Pool
}

func NewFeedbackRepository(pool *pgxpool.Pool) *FeedbackRepository {
	return &FeedbackRepository{pool: pool}
}

func (r *FeedbackRepository) Create(ctx context.Context, f *domain.Feedback) error {
	createdAt := f.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}
	_, err := r.pool.Exec(ctx,
		`INSERT INTO answer_feedback (id, question, answer, helpful, created_at)
		 VALUES ($1, $2, $3, $4, $5)`,
		f.ID, f.Question, f.Answer, f.Helpful, createdAt,
	)
	return err
}
