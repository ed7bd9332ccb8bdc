// Package store holds the canonical in-memory bot collection mirrored
// from the server. The store has a single owner (the dispatch path in
// the UI update loop) and is written from exactly one goroutine; reads
// from elsewhere must go through copies handed out by the owner.
package store

import "arbdash/internal/model"

// Store keeps bots in canonical (server) order plus an id index for
// O(1) lookup. Both mutation operations are synchronous: there is no
// observable intermediate state.
type Store struct {
	bots  []model.Bot
	index map[string]int
}

// New creates an empty store.
func New() *Store {
	return &Store{
		index: make(map[string]int),
	}
}

// ReplaceAll atomically swaps the canonical collection for a full
// snapshot. Bots absent from the new collection are gone.
func (s *Store) ReplaceAll(bots []model.Bot) {
	s.bots = append(s.bots[:0:0], bots...)
	s.index = make(map[string]int, len(bots))
	for i, bot := range s.bots {
		s.index[bot.ID] = i
	}
}

// Upsert replaces the bot with the same id in place, preserving its
// position in the canonical ordering, or appends it when the id is new.
func (s *Store) Upsert(bot model.Bot) {
	if i, ok := s.index[bot.ID]; ok {
		s.bots[i] = bot
		return
	}
	s.index[bot.ID] = len(s.bots)
	s.bots = append(s.bots, bot)
}

// Get returns the latest known record for id.
func (s *Store) Get(id string) (model.Bot, bool) {
	i, ok := s.index[id]
	if !ok {
		return model.Bot{}, false
	}
	return s.bots[i], true
}

// Contains reports whether id is present in the canonical collection.
func (s *Store) Contains(id string) bool {
	_, ok := s.index[id]
	return ok
}

// All returns the canonical collection in order. The returned slice is
// the store's own backing array; callers must not mutate it.
func (s *Store) All() []model.Bot {
	return s.bots
}

// Len returns the number of known bots.
func (s *Store) Len() int {
	return len(s.bots)
}
