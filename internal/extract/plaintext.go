package extract

import (
	"context"
	"unicode/utf8"

	"github.com/fourier-ai/lmdrag/internal/domain"
)

// PlainTextExtractor treats the whole file as a single page.
type PlainTextExtractor struct{}

func (e *PlainTextExtractor) Extract(ctx context.Context, data []byte, filename string) ([]domain.Page, error) {
	if !utf8.Valid(data) {
		return nil, domain.NewDomainError(domain.ErrCodeExtraction, "file is not valid UTF-8 text")
	}

	return []domain.Page{
		{
			Text:     string(data),
			Metadata: pageMetadata(filename),
		},
	}, nil
}
