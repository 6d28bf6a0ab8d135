package handlers

import (
	"context"
	"io"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/fourier-ai/lmdrag/internal/api"
	"github.com/fourier-ai/lmdrag/internal/domain"
	"github.com/fourier-ai/lmdrag/internal/service"
)

// uploadMemoryLimit caps how much of a multipart upload is buffered in
// memory before spilling to disk.
const uploadMemoryLimit = 10 << 20

type IngestService interface {
	Ingest(ctx context.Context, filename string, data []byte) (*domain.IngestResult, error)
}

type DocumentService interface {
	GetByHash(ctx context.Context, hash string) (*domain.LedgerEntry, error)
	DownloadURL(ctx context.Context, hash string) (string, error)
	ListDocuments(ctx context.Context, input service.ListDocumentsInput) (*service.ListDocumentsOutput, error)
}

type DocumentHandler struct {
	ingestSvc   IngestService
	documentSvc DocumentService
}

func NewDocumentHandler(ingestSvc IngestService, documentSvc DocumentService) *DocumentHandler {
	return &DocumentHandler{
		ingestSvc:   ingestSvc,
		documentSvc: documentSvc,
	}
}

type IngestResponse struct {
	Hash       string `json:"hash"`
	Filename   string `json:"filename"`
	Skipped    bool   `json:"skipped"`
	Reason     string `json:"reason,omitempty"`
	ChunkCount int    `json:"chunk_count"`
}

func ingestResultToResponse(res *domain.IngestResult) *IngestResponse {
	return &IngestResponse{
		Hash:       res.Hash,
		Filename:   res.Filename,
		Skipped:    res.Skipped,
		Reason:     string(res.Reason),
		ChunkCount: res.ChunkCount,
	}
}

// Ingest handles POST /documents: a multipart upload with a single
// "file" part. Re-uploads of known content return 200 with skipped set
// instead of an error.
func (h *DocumentHandler) Ingest(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(uploadMemoryLimit); err != nil {
		api.Error(w, http.StatusBadRequest, "invalid multipart form")
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		api.Error(w, http.StatusBadRequest, "file is required")
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		api.Error(w, http.StatusBadRequest, "failed to read file")
		return
	}

	result, err := h.ingestSvc.Ingest(r.Context(), header.Filename, data)
	if err != nil {
		api.HandleError(w, err)
		return
	}

	status := http.StatusCreated
	if result.Skipped {
		status = http.StatusOK
	}
	api.Success(w, status, ingestResultToResponse(result))
}

type DocumentResponse struct {
	Hash       string `json:"hash"`
	Filename   string `json:"filename"`
	IngestedAt string `json:"ingested_at"`
}

func ledgerEntryToResponse(e *domain.LedgerEntry) *DocumentResponse {
	return &DocumentResponse{
		Hash:       e.Hash,
		Filename:   e.Filename,
		IngestedAt: e.IngestedAt.Format("2006-01-02T15:04:05Z"),
	}
}

func (h *DocumentHandler) Get(w http.ResponseWriter, r *http.Request) {
	hash := chi.URLParam(r, "hash")
	if hash == "" {
		api.Error(w, http.StatusBadRequest, "hash is required")
		return
	}

	entry, err := h.documentSvc.GetByHash(r.Context(), hash)
	if err != nil {
		api.HandleError(w, err)
		return
	}

	api.Success(w, http.StatusOK, ledgerEntryToResponse(entry))
}

type DownloadResponse struct {
	URL string `json:"url"`
}

// Download returns a presigned URL for the archived original upload.
func (h *DocumentHandler) Download(w http.ResponseWriter, r *http.Request) {
	hash := chi.URLParam(r, "hash")
	if hash == "" {
		api.Error(w, http.StatusBadRequest, "hash is required")
		return
	}

	url, err := h.documentSvc.DownloadURL(r.Context(), hash)
	if err != nil {
		api.HandleError(w, err)
		return
	}

	api.Success(w, http.StatusOK, DownloadResponse{URL: url})
}

type DocumentListResponse struct {
	Items   []*DocumentResponse `json:"items"`
	Cursor  string              `json:"cursor,omitempty"`
	HasMore bool                `json:"has_more"`
}

func (h *DocumentHandler) List(w http.ResponseWriter, r *http.Request) {
	cursor := r.URL.Query().Get("cursor")
	limitStr := r.URL.Query().Get("limit")
	limit := 20
	if limitStr != "" {
		if parsed, err := strconv.Atoi(limitStr); err == nil && parsed > 0 {
			limit = parsed
		}
	}

	output, err := h.documentSvc.ListDocuments(r.Context(), service.ListDocumentsInput{
		Cursor: cursor,
		Limit:  limit,
	})
	if err != nil {
		api.HandleError(w, err)
		return
	}

	responses := make([]*DocumentResponse, len(output.Items))
	for i, e := range output.Items {
		responses[i] = ledgerEntryToResponse(e)
	}

	api.Success(w, http.StatusOK, DocumentListResponse{
		Items:   responses,
		Cursor:  output.Cursor,
		HasMore: output.HasMore,
	})
}
