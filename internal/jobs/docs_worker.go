package jobs

import (
	"context"
	"errors"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/fourier-ai/lmdrag/internal/domain"
)

// ingestClient is the slice of the ingestion service the folder
// processor needs.
type ingestClient interface {
	Ingest(ctx context.Context, filename string, data []byte) (*domain.IngestResult, error)
}

// DocsProcessor scans a local documents directory and ingests every
// supported file it finds. The ledger makes the scan idempotent:
// already-ingested files come back as skips, so repeated polls of an
// unchanged directory do no index work.
type DocsProcessor struct {
	ingestSvc ingestClient
	dir       string
}

// NewDocsProcessor creates a new DocsProcessor instance
func NewDocsProcessor(ingestSvc ingestClient, dir string) *DocsProcessor {
	return &DocsProcessor{
		ingestSvc: ingestSvc,
		dir:       dir,
	}
}

var supportedExtensions = map[string]struct{}{
	".pdf": {},
	".txt": {},
	".md":  {},
}

// ProcessJobs scans the directory once. Per-file failures are logged
// and do not stop the scan.
func (p *DocsProcessor) ProcessJobs(ctx context.Context) error {
	entries, err := os.ReadDir(p.dir)
	if err != nil {
		return err
	}

	for _, entry := range entries {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if entry.IsDir() {
			continue
		}

		name := entry.Name()
		ext := strings.ToLower(filepath.Ext(name))
		if _, ok := supportedExtensions[ext]; !ok {
			continue
		}

		data, err := os.ReadFile(filepath.Join(p.dir, name))
		if err != nil {
			log.Printf("docs: failed to read %s: %v", name, err)
			continue
		}

		result, err := p.ingestSvc.Ingest(ctx, name, data)
		if err != nil {
			if errors.Is(err, domain.ErrEmptyFile) {
				continue
			}
			log.Printf("docs: failed to ingest %s: %v", name, err)
			continue
		}

		if !result.Skipped {
			log.Printf("docs: ingested %s (%d chunks, hash %s)", name, result.ChunkCount, result.Hash)
		}
	}

	return nil
}
