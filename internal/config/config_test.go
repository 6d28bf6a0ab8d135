package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	t.Run("applies defaults", func(t *testing.T) {
		t.Setenv("LMDRAG_DATABASE_URL", "postgres://localhost/lmdrag")

		cfg, err := Load()
		require.NoError(t, err)
		assert.Equal(t, "8080", cfg.Port)
		assert.Equal(t, 800, cfg.ChunkMaxChars)
		assert.Equal(t, 100, cfg.ChunkOverlap)
		assert.Equal(t, 3, cfg.RetrievalK)
		assert.Equal(t, 1536, cfg.EmbeddingDimensions)
		assert.Equal(t, "http://localhost:11434", cfg.OllamaURL)
		assert.Equal(t, "llama3", cfg.OllamaModel)
	})

	t.Run("requires a database URL", func(t *testing.T) {
		t.Setenv("LMDRAG_DATABASE_URL", "")

		_, err := Load()
		assert.Error(t, err)
	})

	t.Run("rejects an overlap at or above the chunk size", func(t *testing.T) {
		t.Setenv("LMDRAG_DATABASE_URL", "postgres://localhost/lmdrag")
		t.Setenv("LMDRAG_CHUNK_MAX_CHARS", "100")
		t.Setenv("LMDRAG_CHUNK_OVERLAP", "100")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "LMDRAG_CHUNK_OVERLAP")
	})
}

func TestHasS3(t *testing.T) {
	cfg := &Config{}
	assert.False(t, cfg.HasS3())

	cfg.S3Endpoint = "http://localhost:9000"
	assert.False(t, cfg.HasS3())

	cfg.S3AccessKey = "minioadmin"
	cfg.S3SecretKey = "minioadmin"
	assert.True(t, cfg.HasS3())
}
