package domain

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestComputeContentHash(t *testing.T) {
	t.Run("is deterministic", func(t *testing.T) {
		data := []byte("laser metal deposition of Ti-6Al-4V")
		assert.Equal(t, ComputeContentHash(data), ComputeContentHash(data))
	})

	t.Run("is 64 lowercase hex characters", func(t *testing.T) {
		for _, data := range [][]byte{
			[]byte(""),
			[]byte("a"),
			[]byte("some pdf bytes"),
			{0x00, 0xff, 0x10},
		} {
			hash := ComputeContentHash(data)
			assert.Len(t, hash, 64)
			assert.Equal(t, strings.ToLower(hash), hash)
			assert.True(t, isHexDigest(hash))
		}
	})

	t.Run("differs for different content", func(t *testing.T) {
		assert.NotEqual(t, ComputeContentHash([]byte("a")), ComputeContentHash([]byte("b")))
	})

	t.Run("known sha256 digest", func(t *testing.T) {
		// sha256 of the empty string
		assert.Equal(t,
			"e3b0c44298fc1c149afbf4c8996fb92427ae41e4649b934ca495991b7852b855",
			ComputeContentHash(nil))
	})
}

func TestValidateLedgerEntry(t *testing.T) {
	valid := func() *LedgerEntry {
		return &LedgerEntry{
			Hash:       ComputeContentHash([]byte("content")),
			Filename:   "paper.pdf",
			IngestedAt: time.Now().UTC(),
		}
	}

	t.Run("accepts a valid entry", func(t *testing.T) {
		require.NoError(t, ValidateLedgerEntry(valid()))
	})

	t.Run("rejects short hash", func(t *testing.T) {
		e := valid()
		e.Hash = "abc123"
		err := ValidateLedgerEntry(e)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "Hash")
	})

	t.Run("rejects non-hex hash", func(t *testing.T) {
		e := valid()
		e.Hash = strings.Repeat("g", 64)
		require.Error(t, ValidateLedgerEntry(e))
	})

	t.Run("rejects uppercase hash", func(t *testing.T) {
		e := valid()
		e.Hash = strings.ToUpper(e.Hash)
		require.Error(t, ValidateLedgerEntry(e))
	})

	t.Run("rejects missing filename", func(t *testing.T) {
		e := valid()
		e.Filename = ""
		require.Error(t, ValidateLedgerEntry(e))
	})
}

func TestPageSource(t *testing.T) {
	t.Run("reads source metadata", func(t *testing.T) {
		p := Page{Text: "text", Metadata: map[string]string{MetadataSourceKey: "paper.pdf"}}
		assert.Equal(t, "paper.pdf", p.Source())
	})

	t.Run("empty when metadata missing", func(t *testing.T) {
		p := Page{Text: "text"}
		assert.Equal(t, "", p.Source())
	})
}
