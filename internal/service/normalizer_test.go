package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCleanCitations(t *testing.T) {
	t.Run("removes the three citation patterns and keeps other words", func(t *testing.T) {
		got := CleanCitations("This process [1, 2] shows (Smith et al., 2021) doi:10.1234/abc and some text")

		assert.Contains(t, got, "This process")
		assert.Contains(t, got, "shows")
		assert.Contains(t, got, "and some text")
		assert.NotContains(t, got, "[1, 2]")
		assert.NotContains(t, got, "(Smith et al., 2021)")
		assert.NotContains(t, got, "doi:10.1234/abc")
	})

	t.Run("removes single bracketed citations", func(t *testing.T) {
		assert.Equal(t, "melt pool dynamics", CleanCitations("melt pool [7] dynamics"))
	})

	t.Run("removes multi-number citations without space", func(t *testing.T) {
		assert.Equal(t, "observed in prior work", CleanCitations("observed [3,4,5] in prior work"))
	})

	t.Run("removes author-year without comma before year", func(t *testing.T) {
		assert.Equal(t, "as reported", CleanCitations("as reported (Jones et al. 2019)"))
	})

	t.Run("keeps bracketed non-numeric text", func(t *testing.T) {
		assert.Equal(t, "[sic] remains", CleanCitations("[sic] remains"))
	})

	t.Run("keeps ordinary parentheticals", func(t *testing.T) {
		got := CleanCitations("powder flow (measured in g/min) was stable")
		assert.Contains(t, got, "(measured in g/min)")
	})

	t.Run("collapses whitespace runs and trims", func(t *testing.T) {
		assert.Equal(t, "a b c", CleanCitations("  a \t b \n\n c  "))
	})

	t.Run("whitespace left by removed markers collapses", func(t *testing.T) {
		got := CleanCitations("alpha [1] beta")
		assert.Equal(t, "alpha beta", got)
	})

	t.Run("empty input", func(t *testing.T) {
		assert.Equal(t, "", CleanCitations(""))
		assert.Equal(t, "", CleanCitations("   "))
	})

	t.Run("doi token removal stops at whitespace", func(t *testing.T) {
		got := CleanCitations("see doi:10.1000/xyz123 for details")
		assert.Equal(t, "see for details", got)
	})
}
