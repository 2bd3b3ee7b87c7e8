// Package session keeps one game snapshot per browser session and serializes
// the load, apply, save cycle of every request against that snapshot.
package session

import (
	"context"
	"errors"
	"sync"

	"github.com/justinabrahms/checkers/internal/checkers"
)

// ErrNotFound is returned when a session has no stored game.
var ErrNotFound = errors.New("session not found")

// Store persists one snapshot per session id.
type Store interface {
	Get(ctx context.Context, id string) (checkers.Snapshot, error)
	Put(ctx context.Context, id string, snap checkers.Snapshot) error
	Delete(ctx context.Context, id string) error
}

// MemoryStore keeps snapshots in process memory.
type MemoryStore struct {
	mu    sync.RWMutex
	games map[string][]byte
	codec Codec
}

// NewMemoryStore returns an empty in-memory store. Snapshots are kept in
// encoded form so callers never share state with the store.
func NewMemoryStore(codec Codec) *MemoryStore {
	if codec == nil {
		codec = JSONCodec{}
	}
	return &MemoryStore{
		games: make(map[string][]byte),
		codec: codec,
	}
}

func (s *MemoryStore) Get(ctx context.Context, id string) (checkers.Snapshot, error) {
	s.mu.RLock()
	raw, ok := s.games[id]
	s.mu.RUnlock()
	if !ok {
		return checkers.Snapshot{}, ErrNotFound
	}
	return s.codec.Decode(raw)
}

func (s *MemoryStore) Put(ctx context.Context, id string, snap checkers.Snapshot) error {
	raw, err := s.codec.Encode(snap)
	if err != nil {
		return err
	}
	s.mu.Lock()
	s.games[id] = raw
	s.mu.Unlock()
	return nil
}

func (s *MemoryStore) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	delete(s.games, id)
	s.mu.Unlock()
	return nil
}

// Len returns the number of stored sessions.
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.games)
}
