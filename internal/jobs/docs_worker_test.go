package jobs

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/fourier-ai/lmdrag/internal/domain"
)

// MockIngestClient is a mock implementation of ingestClient
type MockIngestClient struct {
	mock.Mock
}

func (m *MockIngestClient) Ingest(ctx context.Context, filename string, data []byte) (*domain.IngestResult, error) {
	args := m.Called(ctx, filename, data)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.IngestResult), args.Error(1)
}

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
}

func TestDocsProcessor_ProcessJobs(t *testing.T) {
	t.Run("ingests supported files and skips the rest", func(t *testing.T) {
		dir := t.TempDir()
		writeFile(t, dir, "paper.pdf", "pdf bytes")
		writeFile(t, dir, "notes.txt", "notes")
		writeFile(t, dir, "image.png", "binary")
		require.NoError(t, os.Mkdir(filepath.Join(dir, "nested"), 0o755))

		ingestSvc := new(MockIngestClient)
		ingestSvc.On("Ingest", mock.Anything, "paper.pdf", []byte("pdf bytes")).
			Return(&domain.IngestResult{Hash: "h1", ChunkCount: 2}, nil)
		ingestSvc.On("Ingest", mock.Anything, "notes.txt", []byte("notes")).
			Return(&domain.IngestResult{Hash: "h2", ChunkCount: 1}, nil)

		processor := NewDocsProcessor(ingestSvc, dir)
		require.NoError(t, processor.ProcessJobs(context.Background()))

		ingestSvc.AssertExpectations(t)
		ingestSvc.AssertNumberOfCalls(t, "Ingest", 2)
	})

	t.Run("a failing file does not stop the scan", func(t *testing.T) {
		dir := t.TempDir()
		writeFile(t, dir, "1-broken.pdf", "garbage")
		writeFile(t, dir, "2-good.txt", "good")

		ingestSvc := new(MockIngestClient)
		ingestSvc.On("Ingest", mock.Anything, "1-broken.pdf", mock.Anything).
			Return(nil, domain.ErrExtractionFailed)
		ingestSvc.On("Ingest", mock.Anything, "2-good.txt", mock.Anything).
			Return(&domain.IngestResult{Hash: "h", ChunkCount: 1}, nil)

		processor := NewDocsProcessor(ingestSvc, dir)
		require.NoError(t, processor.ProcessJobs(context.Background()))

		ingestSvc.AssertExpectations(t)
	})

	t.Run("already-ingested files come back as skips", func(t *testing.T) {
		dir := t.TempDir()
		writeFile(t, dir, "seen.txt", "seen before")

		ingestSvc := new(MockIngestClient)
		ingestSvc.On("Ingest", mock.Anything, "seen.txt", mock.Anything).
			Return(&domain.IngestResult{Hash: "h", Skipped: true, Reason: domain.IngestSkipAlreadyIngested}, nil)

		processor := NewDocsProcessor(ingestSvc, dir)
		require.NoError(t, processor.ProcessJobs(context.Background()))
	})

	t.Run("fails when the directory does not exist", func(t *testing.T) {
		processor := NewDocsProcessor(new(MockIngestClient), "/nonexistent/docs")
		assert.Error(t, processor.ProcessJobs(context.Background()))
	})

	t.Run("stops when the context is cancelled", func(t *testing.T) {
		dir := t.TempDir()
		writeFile(t, dir, "a.txt", "a")

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		ingestSvc := new(MockIngestClient)
		processor := NewDocsProcessor(ingestSvc, dir)

		err := processor.ProcessJobs(ctx)
		assert.ErrorIs(t, err, context.Canceled)
		ingestSvc.AssertNotCalled(t, "Ingest", mock.Anything, mock.Anything, mock.Anything)
	})
}
