package store

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"arbdash/internal/model"
)

func bot(id string, running bool) model.Bot {
	return model.Bot{ID: id, Symbol: "BTC-PERP", Running: running}
}

func ids(bots []model.Bot) []string {
	out := make([]string, len(bots))
	for i, b := range bots {
		out[i] = b.ID
	}
	return out
}

func TestReplaceAllSwapsCollection(t *testing.T) {
	s := New()
	s.ReplaceAll([]model.Bot{bot("a1", true), bot("a2", false)})
	require.Equal(t, 2, s.Len())

	s.ReplaceAll([]model.Bot{bot("a2", false), bot("a3", true)})
	assert.Equal(t, []string{"a2", "a3"}, ids(s.All()), "absent ids must be gone after a snapshot")
	assert.False(t, s.Contains("a1"), "a1 was not in the new snapshot")
}

func TestUpsertReplacesInPlace(t *testing.T) {
	s := New()
	s.ReplaceAll([]model.Bot{bot("a1", true), bot("a2", false), bot("a3", true)})

	updated := bot("a2", true)
	updated.Spread.Current = 0.45
	s.Upsert(updated)

	assert.Equal(t, []string{"a1", "a2", "a3"}, ids(s.All()), "upsert must preserve canonical position")
	assert.Equal(t, 3, s.Len(), "upsert of an existing id must not grow the collection")

	got, ok := s.Get("a2")
	require.True(t, ok)
	assert.True(t, got.Running)
	assert.Equal(t, 0.45, got.Spread.Current)
}

func TestUpsertAppendsNewID(t *testing.T) {
	s := New()
	s.ReplaceAll([]model.Bot{bot("a1", true)})

	s.Upsert(bot("a2", false))
	assert.Equal(t, []string{"a1", "a2"}, ids(s.All()), "new ids append at the tail")
	assert.Equal(t, 2, s.Len())

	s.Upsert(bot("a2", true))
	assert.Equal(t, 2, s.Len(), "length grows by at most one per upsert")
}

func TestGetMissing(t *testing.T) {
	s := New()
	_, ok := s.Get("nope")
	assert.False(t, ok)
}

func TestReplaceAllCopiesInput(t *testing.T) {
	s := New()
	input := []model.Bot{bot("a1", true)}
	s.ReplaceAll(input)

	input[0].ID = "mutated"
	got, ok := s.Get("a1")
	require.True(t, ok, "store must hold its own copy of the snapshot")
	assert.Equal(t, "a1", got.ID)
}
