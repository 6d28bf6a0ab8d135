// Package extract turns raw uploaded bytes into ordered pages of text.
package extract

import (
	"context"
	"path/filepath"
	"strings"

	"github.com/fourier-ai/lmdrag/internal/domain"
)

// PageExtractor defines the interface for extracting pages from raw file bytes.
type PageExtractor interface {
	Extract(ctx context.Context, data []byte, filename string) ([]domain.Page, error)
}

// Extractor dispatches to a format-specific extractor based on the
// file extension.
type Extractor struct {
	pdf   PageExtractor
	plain PageExtractor
}

func New() *Extractor {
	return &Extractor{
		pdf:   &PDFExtractor{},
		plain: &PlainTextExtractor{},
	}
}

// Extract parses the file into its ordered pages. Unsupported extensions
// fail with a validation error before any parsing is attempted.
func (e *Extractor) Extract(ctx context.Context, data []byte, filename string) ([]domain.Page, error) {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".pdf":
		return e.pdf.Extract(ctx, data, filename)
	case ".txt", ".md":
		return e.plain.Extract(ctx, data, filename)
	default:
		return nil, domain.ErrUnsupportedExtension
	}
}

func pageMetadata(filename string) map[string]string {
	return map[string]string{
		domain.MetadataSourceKey: filepath.Base(filename),
	}
}
