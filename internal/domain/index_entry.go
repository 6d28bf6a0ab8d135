package domain

import "time"

// IndexEntry is a chunk plus its embedding vector, the row shape stored
// in the vector index.
type IndexEntry struct {
	DocumentHash string
	Source       string
	ChunkIndex   int
	Content      string
	Embedding    []float32
	CreatedAt    time.Time
}
