package domain

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"
)

// MetadataSourceKey is the page metadata field carrying the originating filename.
const MetadataSourceKey = "source"

// ArchiveKey is the object key an uploaded original is archived under:
// content hash as the prefix, filename as the leaf.
func ArchiveKey(hash, filename string) string {
	return hash + "/" + filename
}

// Page is one page of extracted text plus its metadata.
type Page struct {
	Text     string
	Metadata map[string]string
}

// Source returns the originating filename recorded in the page metadata.
func (p Page) Source() string {
	return p.Metadata[MetadataSourceKey]
}

// Chunk is the unit stored in the vector index: a bounded span of
// normalized text carrying the filename it was derived from.
type Chunk struct {
	Index   int
	Content string
	Source  string
}

// ChunkMatch is a chunk returned by a similarity search, ranked by score.
type ChunkMatch struct {
	Content string
	Source  string
	Score   float64
}

// LedgerEntry records a successfully ingested document, keyed by content hash.
type LedgerEntry struct {
	Hash       string
	Filename   string
	IngestedAt time.Time
}

// IngestSkipReason explains why an ingestion call performed no work.
type IngestSkipReason string

const (
	// IngestSkipAlreadyIngested means the content hash was already in the ledger.
	IngestSkipAlreadyIngested IngestSkipReason = "already_ingested"
)

// IngestResult is the outcome of one ingestion call.
type IngestResult struct {
	Hash       string
	Filename   string
	Skipped    bool
	Reason     IngestSkipReason
	ChunkCount int
}

// ComputeContentHash returns the SHA-256 digest of the raw file bytes as a
// 64-character hex string. The digest is the ledger's deduplication key.
func ComputeContentHash(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// ValidateLedgerEntry validates a LedgerEntry instance
func ValidateLedgerEntry(e *LedgerEntry) error {
	if e == nil {
		return fmt.Errorf("ledger entry cannot be nil")
	}

	if len(e.Hash) != 64 || !isHexDigest(e.Hash) {
		return fmt.Errorf("ledger entry Hash must be a 64-character hex digest")
	}

	if e.Filename == "" {
		return fmt.Errorf("ledger entry Filename is required")
	}

	return nil
}

// isHexDigest checks that every byte is a lowercase hex digit
func isHexDigest(s string) bool {
	for i := 0; i < len(s); i++ {
		c := s[i]
		if (c < '0' || c > '9') && (c < 'a' || c > 'f') {
			return false
		}
	}
	return true
}
