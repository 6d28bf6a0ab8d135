package extract

import (
	"bytes"
	"context"
	"fmt"

	"github.com/fourier-ai/lmdrag/internal/domain"
	"github.com/ledongthuc/pdf"
)

// PDFExtractor extracts one Page per PDF page using ledongthuc/pdf.
type PDFExtractor struct{}

func (e *PDFExtractor) Extract(ctx context.Context, data []byte, filename string) (pages []domain.Page, err error) {
	// The parser panics on some malformed files.
	defer func() {
		if r := recover(); r != nil {
			pages = nil
			err = domain.NewDomainErrorWithCause(domain.ErrCodeExtraction, "failed to extract text from document", fmt.Errorf("pdf parser panic: %v", r))
		}
	}()

	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, domain.NewDomainErrorWithCause(domain.ErrCodeExtraction, "failed to extract text from document", err)
	}

	numPages := reader.NumPage()
	pages = make([]domain.Page, 0, numPages)
	for i := 1; i <= numPages; i++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}

		text, err := page.GetPlainText(nil)
		if err != nil {
			return nil, domain.NewDomainErrorWithCause(domain.ErrCodeExtraction, "failed to extract text from document", fmt.Errorf("page %d: %w", i, err))
		}

		pages = append(pages, domain.Page{
			Text:     text,
			Metadata: pageMetadata(filename),
		})
	}

	return pages, nil
}
