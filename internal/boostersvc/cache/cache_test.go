package cache

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/avvvet/tcg-services/internal/boostersvc/models"
)

func TestMemoryStore(t *testing.T) {
	s := NewMemoryStore()

	_, ok := s.Get(1)
	assert.False(t, ok, "empty store should miss")

	first := &models.PotentialBooster{CollectionID: 1, Cards: []int64{1001, 1002}}
	s.Put(1, first)

	got, ok := s.Get(1)
	require.True(t, ok)
	assert.Equal(t, first, got)

	// last write wins, the previous candidate is discarded
	second := &models.PotentialBooster{CollectionID: 1, Cards: []int64{1050}}
	s.Put(1, second)

	got, ok = s.Get(1)
	require.True(t, ok)
	assert.Equal(t, second, got)

	_, ok = s.Get(2)
	assert.False(t, ok, "other collections are unaffected")
}
