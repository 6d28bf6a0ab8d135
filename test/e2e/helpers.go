//go:build e2e

package e2e

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"hash/fnv"
	"io"
	"mime/multipart"
	"net"
	"net/http"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/fourier-ai/lmdrag/internal/api/handlers"
	"github.com/fourier-ai/lmdrag/internal/extract"
	"github.com/fourier-ai/lmdrag/internal/repository"
	"github.com/fourier-ai/lmdrag/internal/server"
	"github.com/fourier-ai/lmdrag/internal/service"
	"github.com/fourier-ai/lmdrag/internal/storage"
	"github.com/fourier-ai/lmdrag/internal/testutil"
)

// E2ETestEnv holds all resources needed for E2E tests
type E2ETestEnv struct {
	T            *testing.T
	Ctx          context.Context
	PostgresC    *testutil.PostgresContainer
	MinIOC       *testutil.MinIOContainer
	Pool         *pgxpool.Pool
	ServerURL    string
	ServerCloser func()
	S3Client     *storage.S3Client
	Generator    *stubGenerator
	HTTPClient   *http.Client
}

// SetupE2EEnv creates a full E2E test environment with containers and server
func SetupE2EEnv(t *testing.T) *E2ETestEnv {
	ctx := context.Background()

	pgC := testutil.NewPostgresContainer(ctx, t)
	minioC := testutil.NewMinIOContainer(ctx, t)

	pool := testutil.NewTestPool(ctx, t, pgC, "../../migrations")

	s3Client, err := storage.NewS3Client(ctx, storage.S3ClientConfig{
		Endpoint:        minioC.Endpoint(),
		Region:          "us-east-1",
		AccessKeyID:     "minioadmin",
		SecretAccessKey: "minioadmin",
		Bucket:          "test-documents",
		UsePathStyle:    true,
	})
	if err != nil {
		t.Fatalf("failed to create S3 client: %v", err)
	}
	if err := s3Client.EnsureBucket(ctx); err != nil {
		t.Fatalf("failed to create bucket: %v", err)
	}

	port, err := getFreePort()
	if err != nil {
		t.Fatalf("failed to get free port: %v", err)
	}

	generator := &stubGenerator{}
	serverURL, serverCloser := startServer(t, pool, s3Client, generator, port)

	return &E2ETestEnv{
		T:            t,
		Ctx:          ctx,
		PostgresC:    pgC,
		MinIOC:       minioC,
		Pool:         pool,
		ServerURL:    serverURL,
		ServerCloser: serverCloser,
		S3Client:     s3Client,
		Generator:    generator,
		HTTPClient:   &http.Client{Timeout: 30 * time.Second},
	}
}

// Cleanup releases all resources
func (e *E2ETestEnv) Cleanup() {
	if e.ServerCloser != nil {
		e.ServerCloser()
	}
	if e.Pool != nil {
		e.Pool.Close()
	}
	if e.MinIOC != nil {
		e.MinIOC.Terminate(e.Ctx)
	}
	if e.PostgresC != nil {
		e.PostgresC.Terminate(e.Ctx)
	}
}

// APIResponse represents a standard API response
type APIResponse struct {
	Data  json.RawMessage `json:"data"`
	Error string          `json:"error,omitempty"`
}

// Get performs a GET request
func (e *E2ETestEnv) Get(path string) (*APIResponse, int, error) {
	return e.doRequest("GET", path, nil)
}

// Post performs a POST request with a JSON body
func (e *E2ETestEnv) Post(path string, body interface{}) (*APIResponse, int, error) {
	return e.doRequest("POST", path, body)
}

// UploadDocument uploads file content as a multipart form to /documents
func (e *E2ETestEnv) UploadDocument(filename string, content []byte) (*APIResponse, int, error) {
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	part, err := writer.CreateFormFile("file", filepath.Base(filename))
	if err != nil {
		return nil, 0, err
	}
	if _, err := part.Write(content); err != nil {
		return nil, 0, err
	}
	if err := writer.Close(); err != nil {
		return nil, 0, err
	}

	req, err := http.NewRequest("POST", e.ServerURL+"/documents", &buf)
	if err != nil {
		return nil, 0, err
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	return e.send(req)
}

func (e *E2ETestEnv) doRequest(method, path string, body interface{}) (*APIResponse, int, error) {
	var reqBody io.Reader
	if body != nil {
		jsonData, err := json.Marshal(body)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to marshal body: %w", err)
		}
		reqBody = bytes.NewReader(jsonData)
	}

	req, err := http.NewRequest(method, e.ServerURL+path, reqBody)
	if err != nil {
		return nil, 0, err
	}
	req.Header.Set("Content-Type", "application/json")

	return e.send(req)
}

func (e *E2ETestEnv) send(req *http.Request) (*APIResponse, int, error) {
	resp, err := e.HTTPClient.Do(req)
	if err != nil {
		return nil, 0, err
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, resp.StatusCode, err
	}

	var apiResp APIResponse
	if err := json.Unmarshal(respBody, &apiResp); err != nil {
		return nil, resp.StatusCode, fmt.Errorf("HTTP %d: %s", resp.StatusCode, string(respBody))
	}

	return &apiResp, resp.StatusCode, nil
}

// startServer starts the HTTP server with all handlers
func startServer(t *testing.T, pool *pgxpool.Pool, s3Client *storage.S3Client, generator *stubGenerator, port int) (string, func()) {
	ledgerRepo := repository.NewLedgerRepository(pool)
	chunkRepo := repository.NewChunkRepository(pool)
	feedbackRepo := repository.NewFeedbackRepository(pool)
	txRunner := repository.NewTxRunner(pool)

	embedding := &stubEmbeddingClient{}

	ingestSvc := service.NewIngestService(ledgerRepo, txRunner, extract.New(), embedding, s3Client, service.DefaultChunkConfig())
	documentSvc := service.NewDocumentService(ledgerRepo, s3Client)
	querySvc := service.NewQueryService(chunkRepo, embedding, generator, service.QueryConfig{})
	feedbackSvc := service.NewFeedbackService(feedbackRepo)
	historyStore := service.NewHistoryStore()

	router := server.NewRouter(server.RouterConfig{
		DocumentHandler: handlers.NewDocumentHandler(ingestSvc, documentSvc),
		QueryHandler:    handlers.NewQueryHandler(querySvc, historyStore, feedbackSvc),
	})

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", port),
		Handler: router,
	}

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			t.Logf("server error: %v", err)
		}
	}()

	serverURL := fmt.Sprintf("http://localhost:%d", port)
	waitForServer(t, serverURL, 10*time.Second)

	return serverURL, func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		srv.Shutdown(ctx)
	}
}

func waitForServer(t *testing.T, url string, timeout time.Duration) {
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		resp, err := http.Get(url + "/health")
		if err == nil {
			resp.Body.Close()
			if resp.StatusCode == http.StatusOK {
				return
			}
		}
		time.Sleep(100 * time.Millisecond)
	}
	t.Fatalf("server did not start within %v", timeout)
}

func getFreePort() (int, error) {
	addr, err := net.ResolveTCPAddr("tcp", "localhost:0")
	if err != nil {
		return 0, err
	}

	l, err := net.ListenTCP("tcp", addr)
	if err != nil {
		return 0, err
	}
	defer l.Close()
	return l.Addr().(*net.TCPAddr).Port, nil
}

// stubEmbeddingClient produces deterministic bag-of-words vectors so
// similar texts land near each other without a real embedding model.
type stubEmbeddingClient struct{}

func (c *stubEmbeddingClient) GenerateEmbedding(ctx context.Context, text string) ([]float32, error) {
	v := make([]float32, 1536)
	for _, token := range strings.Fields(strings.ToLower(text)) {
		h := fnv.New32a()
		h.Write([]byte(token))
		v[h.Sum32()%1536]++
	}
	return v, nil
}

// stubGenerator returns a canned answer and records the prompts it saw.
type stubGenerator struct {
	Prompts []string
	Reply   string
}

func (g *stubGenerator) Chat(ctx context.Context, messages []service.ChatMessage) (string, error) {
	for _, m := range messages {
		g.Prompts = append(g.Prompts, m.Content)
	}
	if g.Reply != "" {
		return g.Reply, nil
	}
	return "stub answer", nil
}
