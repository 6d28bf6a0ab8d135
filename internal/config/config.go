package config

import (
	"fmt"
	"log"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	Port  string `envconfig:"PORT" default:"8080"`
	Debug bool   `envconfig:"DEBUG" default:"false"`

	DatabaseURL string `envconfig:"DATABASE_URL" required:"true"`

	// DocsDir is scanned on startup and on an interval for documents to ingest.
	DocsDir string `envconfig:"DOCS_DIR"`

	// Embedding collaborator: any OpenAI-compatible endpoint.
	OpenAIAPIKey        string `envconfig:"OPENAI_API_KEY"`
	EmbeddingsBaseURL   string `envconfig:"EMBEDDINGS_BASE_URL"`
	EmbeddingModel      string `envconfig:"EMBEDDING_MODEL"`
	EmbeddingDimensions int    `envconfig:"EMBEDDING_DIMENSIONS" default:"1536"`

	// Generation collaborator: a local ollama chat endpoint.
	OllamaURL   string `envconfig:"OLLAMA_URL" default:"http://localhost:11434"`
	OllamaModel string `envconfig:"OLLAMA_MODEL" default:"llama3"`

	ChunkMaxChars int `envconfig:"CHUNK_MAX_CHARS" default:"800"`
	ChunkOverlap  int `envconfig:"CHUNK_OVERLAP" default:"100"`
	RetrievalK    int `envconfig:"RETRIEVAL_K" default:"3"`

	// Optional archival of uploaded documents to S3-compatible storage.
	S3Endpoint  string `envconfig:"S3_ENDPOINT"`
	S3AccessKey string `envconfig:"S3_ACCESS_KEY_ID"`
	S3SecretKey string `envconfig:"S3_SECRET_ACCESS_KEY"`
	S3Bucket    string `envconfig:"S3_BUCKET" default:"lmdrag-documents"`
	S3Region    string `envconfig:"S3_REGION" default:"us-east-1"`
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	var cfg Config
	if err := envconfig.Process("LMDRAG", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process config: %w", err)
	}

	if cfg.ChunkOverlap >= cfg.ChunkMaxChars {
		return nil, fmt.Errorf("LMDRAG_CHUNK_OVERLAP (%d) must be smaller than LMDRAG_CHUNK_MAX_CHARS (%d)", cfg.ChunkOverlap, cfg.ChunkMaxChars)
	}

	return &cfg, nil
}

func MustLoad() *Config {
	cfg, err := Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	return cfg
}

func (c *Config) HasS3() bool {
	return c.S3Endpoint != "" && c.S3AccessKey != "" && c.S3SecretKey != ""
}
