package service

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/fourier-ai/lmdrag/internal/domain"
)

// FeedbackRepositoryInterface defines the repository interface for
// answer feedback persistence
type FeedbackRepositoryInterface interface {
	Create(ctx context.Context, f *domain.Feedback) error
}

// UUIDGenerator defines interface for UUID generation (for testing)
type UUIDGenerator interface {
	NewString() string
}

// DefaultUUIDGenerator is the default UUID generator using google/uuid
type DefaultUUIDGenerator struct{}

// NewString generates a new UUID string
func (g *DefaultUUIDGenerator) NewString() string {
	return uuid.NewString()
}

// FeedbackService records thumbs-up/thumbs-down votes on answers.
type FeedbackService struct {
	feedbackRepo FeedbackRepositoryInterface
	uuidGen      UUIDGenerator
}

// NewFeedbackService creates a new FeedbackService instance
func NewFeedbackService(feedbackRepo FeedbackRepositoryInterface) *FeedbackService {
	return &FeedbackService{
		feedbackRepo: feedbackRepo,
		uuidGen:      &DefaultUUIDGenerator{},
	}
}

// NewFeedbackServiceWithUUIDGen creates a new FeedbackService with a
// custom UUID generator (for testing)
func NewFeedbackServiceWithUUIDGen(feedbackRepo FeedbackRepositoryInterface, uuidGen UUIDGenerator) *FeedbackService {
	return &FeedbackService{
		feedbackRepo: feedbackRepo,
		uuidGen:      uuidGen,
	}
}

// Record stores a vote for a question/answer pair.
func (s *FeedbackService) Record(ctx context.Context, question, answer string, helpful bool) (*domain.Feedback, error) {
	if strings.TrimSpace(question) == "" {
		return nil, domain.ErrEmptyQuestion
	}

	f := &domain.Feedback{
		ID:        s.uuidGen.NewString(),
		Question:  question,
		Answer:    answer,
		Helpful:   helpful,
		CreatedAt: time.Now().UTC(),
	}

	if err := s.feedbackRepo.Create(ctx, f); err != nil {
		return nil, err
	}
	return f, nil
}
