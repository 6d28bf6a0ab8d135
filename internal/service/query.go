package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/fourier-ai/lmdrag/internal/domain"
	"github.com/fourier-ai/lmdrag/internal/telemetry"
)

// DefaultRetrievalK is the number of nearest chunks retrieved per
// question when no override is configured.
const DefaultRetrievalK = 3

// DefaultExpertRole is the persona line prepended to every generation
// prompt.
const DefaultExpertRole = "You are an expert in Laser Metal Deposition Process and Transformer Algorithm and Architecture."

// answerPromptTemplate frames the retrieved context and the question
// for the chat model. The layout is fixed; only the role, context and
// question vary.
const answerPromptTemplate = `%s Based on the context below, answer the question:

Context:
%s

Question:
%s

Answer:`

// ChatMessage is a single turn sent to the generation backend.
type ChatMessage struct {
	Role    string
	Content string
}

// GenerationClient defines the interface for chat completion backends
type GenerationClient interface {
	Chat(ctx context.Context, messages []ChatMessage) (string, error)
}

// QueryConfig controls retrieval and prompting.
type QueryConfig struct {
	K          int
	ExpertRole string
}

// QueryService answers questions over the chunk index: embed the
// question, retrieve the k nearest chunks, build a source-attributed
// prompt, and generate an answer.
type QueryService struct {
	chunkRepo ChunkRepositoryInterface
	embedding EmbeddingClient
	generator GenerationClient
	cfg       QueryConfig
}

// NewQueryService creates a new QueryService instance
func NewQueryService(
	chunkRepo ChunkRepositoryInterface,
	embedding EmbeddingClient,
	generator GenerationClient,
	cfg QueryConfig,
) *QueryService {
	if cfg.K <= 0 {
		cfg.K = DefaultRetrievalK
	}
	if cfg.ExpertRole == "" {
		cfg.ExpertRole = DefaultExpertRole
	}
	return &QueryService{
		chunkRepo: chunkRepo,
		embedding: embedding,
		generator: generator,
		cfg:       cfg,
	}
}

// Answer runs retrieval-augmented generation for a single question.
// The generator is called exactly once, with a single user message.
func (s *QueryService) Answer(ctx context.Context, question string) (*domain.Answer, error) {
	question = strings.TrimSpace(question)
	if question == "" {
		return nil, domain.ErrEmptyQuestion
	}

	ctx, span := telemetry.StartSpan(ctx, "QueryService.Answer", telemetry.SpanAttributes{
		Operation: "answer",
	})
	defer span.End()

	vec, err := s.embedding.GenerateEmbedding(ctx, question)
	if err != nil {
		span.SetError(err)
		return nil, domain.NewDomainErrorWithCause(domain.ErrCodeInternalError, "failed to embed question", err)
	}

	matches, err := s.chunkRepo.SearchByEmbedding(ctx, vec, s.cfg.K)
	if err != nil {
		span.SetError(err)
		return nil, domain.NewDomainErrorWithCause(domain.ErrCodeInternalError, "similarity search failed", err)
	}

	contextText := BuildContext(matches)
	prompt := fmt.Sprintf(answerPromptTemplate, s.cfg.ExpertRole, contextText, question)

	text, err := s.generator.Chat(ctx, []ChatMessage{{Role: "user", Content: prompt}})
	if err != nil {
		span.SetError(err)
		return nil, domain.NewDomainErrorWithCause(domain.ErrCodeGeneration, "answer generation failed", err)
	}

	return &domain.Answer{
		Text:    strings.TrimSpace(text),
		Context: contextText,
		Sources: uniqueSources(matches),
	}, nil
}

// BuildContext renders retrieved chunks as source-attributed blocks:
// each chunk becomes "[source] content", blocks joined by a blank line.
func BuildContext(matches []domain.ChunkMatch) string {
	parts := make([]string, 0, len(matches))
	for _, m := range matches {
		parts = append(parts, fmt.Sprintf("[%s] %s", m.Source, m.Content))
	}
	return strings.Join(parts, "\n\n")
}

// uniqueSources returns match sources deduplicated, in retrieval order.
func uniqueSources(matches []domain.ChunkMatch) []string {
	seen := make(map[string]struct{}, len(matches))
	sources := make([]string, 0, len(matches))
	for _, m := range matches {
		if _, ok := seen[m.Source]; ok {
			continue
		}
		seen[m.Source] = struct{}{}
		sources = append(sources, m.Source)
	}
	return sources
}
