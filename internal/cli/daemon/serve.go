package daemon

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/spf13/cobra"

	"github.com/fourier-ai/lmdrag/internal/api/handlers"
	"github.com/fourier-ai/lmdrag/internal/config"
	"github.com/fourier-ai/lmdrag/internal/database"
	"github.com/fourier-ai/lmdrag/internal/extract"
	"github.com/fourier-ai/lmdrag/internal/jobs"
	"github.com/fourier-ai/lmdrag/internal/ollama"
	"github.com/fourier-ai/lmdrag/internal/openai"
	"github.com/fourier-ai/lmdrag/internal/repository"
	"github.com/fourier-ai/lmdrag/internal/server"
	"github.com/fourier-ai/lmdrag/internal/service"
	"github.com/fourier-ai/lmdrag/internal/storage"
	"github.com/fourier-ai/lmdrag/internal/telemetry"
)

// ServeCmd returns the serve command
func ServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the API server",
		Long:  "Start the lmdrag API server on the specified port",
		RunE:  runServe,
	}

	cmd.Flags().StringP("port", "p", "8080", "Port to listen on")
	cmd.Flags().Bool("no-migrate", false, "Skip automatic database migrations on startup")

	return cmd
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	// Initialize Sentry with tracing if SENTRY_DSN is set
	if dsn := os.Getenv("SENTRY_DSN"); dsn != "" {
		environment := os.Getenv("ENVIRONMENT")
		if environment == "" {
			environment = "development"
		}

		// Default to 10% sampling in production, 100% in development
		sampleRate := 0.1
		if environment == "development" {
			sampleRate = 1.0
		}

		shutdownTelemetry, err := telemetry.Init(telemetry.Config{
			DSN:              dsn,
			Environment:      environment,
			TracesSampleRate: sampleRate,
		})
		if err != nil {
			log.Printf("telemetry init failed (continuing without tracing): %v", err)
		} else {
			defer shutdownTelemetry()
		}
	}

	portFlag, _ := cmd.Flags().GetString("port")
	if portFlag != "" && portFlag != "8080" {
		cfg.Port = portFlag
	}

	pool, err := database.NewPool(ctx, database.Config{URL: cfg.DatabaseURL})
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer pool.Close()
	log.Println("connected to database")

	// Run migrations unless --no-migrate flag is set
	noMigrate, _ := cmd.Flags().GetBool("no-migrate")
	if !noMigrate {
		if err := runMigrations(cfg.DatabaseURL); err != nil {
			return fmt.Errorf("failed to run migrations: %w", err)
		}
	}

	ledgerRepo := repository.NewLedgerRepository(pool)
	chunkRepo := repository.NewChunkRepository(pool)
	feedbackRepo := repository.NewFeedbackRepository(pool)
	txRunner := repository.NewTxRunner(pool)

	var archive service.ArchiveStore
	var downloads service.DownloadURLProvider
	if cfg.HasS3() {
		s3Config := storage.S3ClientConfig{
			Endpoint:        cfg.S3Endpoint,
			Region:          cfg.S3Region,
			AccessKeyID:     cfg.S3AccessKey,
			SecretAccessKey: cfg.S3SecretKey,
			Bucket:          cfg.S3Bucket,
			UsePathStyle:    true,
		}
		s3Client, err := storage.NewS3Client(ctx, s3Config)
		if err != nil {
			return fmt.Errorf("failed to create S3 client: %w", err)
		}
		if err := s3Client.EnsureBucket(ctx); err != nil {
			return fmt.Errorf("failed to ensure S3 bucket: %w", err)
		}
		log.Printf("S3 bucket '%s' ready", cfg.S3Bucket)
		archive = s3Client
		downloads = s3Client
	}

	embeddingClient := openai.NewClientWithConfig(openai.Config{
		APIKey:              cfg.OpenAIAPIKey,
		BaseURL:             cfg.EmbeddingsBaseURL,
		EmbeddingModel:      cfg.EmbeddingModel,
		EmbeddingDimensions: cfg.EmbeddingDimensions,
	})

	ollamaClient := ollama.NewClient(ollama.Config{
		BaseURL: cfg.OllamaURL,
		Model:   cfg.OllamaModel,
	})
	if err := ollamaClient.Ping(ctx); err != nil {
		log.Printf("ollama not reachable at %s (continuing, generation will fail until it is): %v", cfg.OllamaURL, err)
	}

	chunkCfg := service.ChunkConfig{
		MaxChars: cfg.ChunkMaxChars,
		Overlap:  cfg.ChunkOverlap,
	}

	ingestSvc := service.NewIngestService(ledgerRepo, txRunner, extract.New(), embeddingClient, archive, chunkCfg)
	documentSvc := service.NewDocumentService(ledgerRepo, downloads)
	querySvc := service.NewQueryService(chunkRepo, embeddingClient, &OllamaGenerationAdapter{client: ollamaClient}, service.QueryConfig{
		K: cfg.RetrievalK,
	})
	feedbackSvc := service.NewFeedbackService(feedbackRepo)
	history := service.NewHistoryStore()

	var docsWorker *jobs.Worker
	if cfg.DocsDir != "" {
		docsProcessor := jobs.NewDocsProcessor(ingestSvc, cfg.DocsDir)
		docsWorker = jobs.NewWorker(docsProcessor, 30*time.Second)
		go docsWorker.Start(ctx)
		log.Printf("docs worker started (dir: %s)", cfg.DocsDir)
	}

	documentHandler := handlers.NewDocumentHandler(ingestSvc, documentSvc)
	queryHandler := handlers.NewQueryHandler(querySvc, history, feedbackSvc)

	routerCfg := server.RouterConfig{
		DocumentHandler: documentHandler,
		QueryHandler:    queryHandler,
	}

	router := server.NewRouter(routerCfg)

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	go func() {
		log.Printf("starting server on port %s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server failed: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("shutting down...")

	if docsWorker != nil {
		docsWorker.Stop()
	}

	shutdownCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}

	log.Println("server exited")
	return nil
}

// OllamaGenerationAdapter bridges the ollama client to the generation
// interface the query service expects.
type OllamaGenerationAdapter struct {
	client *ollama.Client
}

func (a *OllamaGenerationAdapter) Chat(ctx context.Context, messages []service.ChatMessage) (string, error) {
	converted := make([]ollama.Message, len(messages))
	for i, m := range messages {
		converted[i] = ollama.Message{Role: m.Role, Content: m.Content}
	}
	return a.client.Chat(ctx, converted)
}

func runMigrations(databaseURL string) error {
	// Create a sql.DB connection for golang-migrate
	db, err := sql.Open("pgx", databaseURL)
	if err != nil {
		return fmt.Errorf("failed to open database for migrations: %w", err)
	}
	defer db.Close()

	// Create postgres driver instance
	driver, err := postgres.WithInstance(db, &postgres.Config{})
	if err != nil {
		return fmt.Errorf("failed to create migration driver: %w", err)
	}

	// Create migrate instance with file source
	m, err := migrate.NewWithDatabaseInstance(
		"file://migrations",
		"postgres",
		driver,
	)
	if err != nil {
		return fmt.Errorf("failed to create migrate instance: %w", err)
	}

	// Run migrations
	err = m.Up()
	if err != nil && err != migrate.ErrNoChange {
		return fmt.Errorf("failed to apply migrations: %w", err)
	}

	// Get migration version and status
	version, dirty, err := m.Version()
	if err != nil && err != migrate.ErrNilVersion {
		return fmt.Errorf("failed to get migration version: %w", err)
	}

	if err == migrate.ErrNilVersion {
		log.Println("migrations: database is up to date (no migrations applied)")
	} else if dirty {
		return fmt.Errorf("migration version %d is dirty - manual intervention required", version)
	} else if err == migrate.ErrNoChange {
		log.Printf("migrations: database is up to date (version %d)", version)
	} else {
		log.Printf("migrations: applied successfully (version %d)", version)
	}

	return nil
}
