package service

import (
	"github.com/fourier-ai/lmdrag/internal/domain"
)

// ChunkConfig controls how page text is split into index chunks.
// Overlap must be strictly smaller than MaxChars; invalid configs fall
// back to the defaults.
type ChunkConfig struct {
	MaxChars int
	Overlap  int
}

func DefaultChunkConfig() ChunkConfig {
	return ChunkConfig{MaxChars: 800, Overlap: 100}
}

func (c ChunkConfig) valid() bool {
	return c.MaxChars > 0 && c.Overlap >= 0 && c.Overlap < c.MaxChars
}

// ChunkPages splits each page into overlapping chunks and assigns
// document-wide sequential indices. Chunks never span page boundaries,
// so every chunk traces back to exactly one source page. Empty pages
// yield no chunks.
func ChunkPages(pages []domain.Page, cfg ChunkConfig) []domain.Chunk {
	if !cfg.valid() {
		cfg = DefaultChunkConfig()
	}

	chunks := make([]domain.Chunk, 0, len(pages))
	index := 0
	for _, page := range pages {
		for _, content := range splitText(page.Text, cfg) {
			chunks = append(chunks, domain.Chunk{
				Index:   index,
				Content: content,
				Source:  page.Source(),
			})
			index++
		}
	}
	return chunks
}

// splitText cuts text into rune windows of at most cfg.MaxChars, with
// consecutive windows sharing exactly cfg.Overlap runes. Rune-based
// slicing keeps multi-byte characters intact.
func splitText(text string, cfg ChunkConfig) []string {
	if text == "" {
		return nil
	}

	runes := []rune(text)
	if len(runes) <= cfg.MaxChars {
		return []string{text}
	}

	var parts []string
	start := 0
	for start < len(runes) {
		end := start + cfg.MaxChars
		if end > len(runes) {
			end = len(runes)
		}
		parts = append(parts, string(runes[start:end]))
		if end == len(runes) {
			break
		}
		start = end - cfg.Overlap
	}
	return parts
}
