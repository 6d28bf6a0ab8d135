package service

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHistoryStore(t *testing.T) {
	t.Run("returns recent exchanges newest first", func(t *testing.T) {
		store := NewHistoryStore()
		store.Append("s1", "q1", "a1")
		store.Append("s1", "q2", "a2")

		recent := store.Recent("s1")
		require.Len(t, recent, 2)
		assert.Equal(t, "q2", recent[0].Question)
		assert.Equal(t, "q1", recent[1].Question)
	})

	t.Run("window is capped but storage is not", func(t *testing.T) {
		store := NewHistoryStore()
		for i := 0; i < HistoryWindow+3; i++ {
			store.Append("s1", fmt.Sprintf("q%d", i), fmt.Sprintf("a%d", i))
		}

		recent := store.Recent("s1")
		require.Len(t, recent, HistoryWindow)
		assert.Equal(t, fmt.Sprintf("q%d", HistoryWindow+2), recent[0].Question)

		assert.Equal(t, HistoryWindow+3, store.Len("s1"))
	})

	t.Run("sessions are isolated", func(t *testing.T) {
		store := NewHistoryStore()
		store.Append("s1", "q1", "a1")
		store.Append("s2", "q2", "a2")

		assert.Len(t, store.Recent("s1"), 1)
		assert.Len(t, store.Recent("s2"), 1)
		assert.Empty(t, store.Recent("s3"))
	})

	t.Run("safe under concurrent appends", func(t *testing.T) {
		store := NewHistoryStore()

		var wg sync.WaitGroup
		for i := 0; i < 50; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				store.Append("s1", "q", "a")
				store.Recent("s1")
			}()
		}
		wg.Wait()

		assert.Equal(t, 50, store.Len("s1"))
	})
}
