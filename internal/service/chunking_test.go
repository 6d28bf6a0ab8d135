package service

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fourier-ai/lmdrag/internal/domain"
)

func page(source, text string) domain.Page {
	return domain.Page{
		Text:     text,
		Metadata: map[string]string{domain.MetadataSourceKey: source},
	}
}

func TestChunkPages(t *testing.T) {
	cfg := ChunkConfig{MaxChars: 10, Overlap: 3}

	t.Run("short page yields a single chunk", func(t *testing.T) {
		chunks := ChunkPages([]domain.Page{page("a.pdf", "short")}, cfg)
		require.Len(t, chunks, 1)
		assert.Equal(t, "short", chunks[0].Content)
		assert.Equal(t, "a.pdf", chunks[0].Source)
		assert.Equal(t, 0, chunks[0].Index)
	})

	t.Run("every chunk is at most max chars", func(t *testing.T) {
		text := strings.Repeat("abcde", 50)
		chunks := ChunkPages([]domain.Page{page("a.pdf", text)}, cfg)
		for _, c := range chunks {
			assert.LessOrEqual(t, len([]rune(c.Content)), cfg.MaxChars)
		}
	})

	t.Run("consecutive chunks share exactly the configured overlap", func(t *testing.T) {
		text := "0123456789abcdefghijklmnop"
		chunks := ChunkPages([]domain.Page{page("a.pdf", text)}, cfg)
		require.Greater(t, len(chunks), 1)

		for i := 1; i < len(chunks); i++ {
			prev := []rune(chunks[i-1].Content)
			curr := []rune(chunks[i].Content)
			tail := string(prev[len(prev)-cfg.Overlap:])
			head := string(curr[:cfg.Overlap])
			assert.Equal(t, tail, head)
		}
	})

	t.Run("non-overlapping remainders reconstruct the source text", func(t *testing.T) {
		text := "the quick brown fox jumps over the lazy dog again and again"
		chunks := ChunkPages([]domain.Page{page("a.pdf", text)}, cfg)
		require.Greater(t, len(chunks), 1)

		var sb strings.Builder
		sb.WriteString(chunks[0].Content)
		for _, c := range chunks[1:] {
			runes := []rune(c.Content)
			sb.WriteString(string(runes[cfg.Overlap:]))
		}
		assert.Equal(t, text, sb.String())
	})

	t.Run("chunks never span pages and indices are document-wide", func(t *testing.T) {
		chunks := ChunkPages([]domain.Page{
			page("a.pdf", "0123456789abcdef"),
			page("a.pdf", "second page text"),
		}, cfg)
		require.Greater(t, len(chunks), 2)

		for i, c := range chunks {
			assert.Equal(t, i, c.Index)
		}

		// No chunk content mixes the two pages.
		for _, c := range chunks {
			crossesBoundary := strings.Contains(c.Content, "f") && strings.Contains(c.Content, "s")
			assert.False(t, crossesBoundary, "chunk %q crosses a page boundary", c.Content)
		}
	})

	t.Run("empty pages yield no chunks", func(t *testing.T) {
		chunks := ChunkPages([]domain.Page{page("a.pdf", "")}, cfg)
		assert.Empty(t, chunks)
	})

	t.Run("no pages yield no chunks", func(t *testing.T) {
		assert.Empty(t, ChunkPages(nil, cfg))
	})

	t.Run("multi-byte runes stay intact", func(t *testing.T) {
		text := strings.Repeat("日本語テキスト", 5)
		chunks := ChunkPages([]domain.Page{page("jp.pdf", text)}, cfg)
		for _, c := range chunks {
			assert.True(t, strings.ContainsAny(c.Content, "日本語テキスト"))
			assert.LessOrEqual(t, len([]rune(c.Content)), cfg.MaxChars)
		}
	})

	t.Run("invalid config falls back to defaults", func(t *testing.T) {
		text := strings.Repeat("x", 1000)
		chunks := ChunkPages([]domain.Page{page("a.pdf", text)}, ChunkConfig{MaxChars: 10, Overlap: 10})
		require.Greater(t, len(chunks), 1)
		assert.LessOrEqual(t, len([]rune(chunks[0].Content)), DefaultChunkConfig().MaxChars)
	})
}
