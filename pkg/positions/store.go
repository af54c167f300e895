// Package positions holds the per-view position store: device id -> (x, y).
// It is the single source of truth for whether a node has been placed before.
package positions

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/braunma/netmap/pkg/utils"
)

// Position is a point in content coordinates
type Position struct {
	X float64 `json:"x" yaml:"x"`
	Y float64 `json:"y" yaml:"y"`
}

// Backend persists a position snapshot
type Backend interface {
	Load(ctx context.Context) (map[string]Position, error)
	Save(ctx context.Context, positions map[string]Position) error
	Clear(ctx context.Context) error
}

// Store is the in-memory position map plus an optional persistence backend.
// Writes are applied synchronously so the next layout pass sees them.
type Store struct {
	mu        sync.RWMutex
	positions map[string]Position
	backend   Backend
	logger    *utils.Logger
	version   uint64
}

// NewStore creates a store. A nil backend keeps positions in memory only.
func NewStore(backend Backend, logger *utils.Logger) *Store {
	return &Store{
		positions: make(map[string]Position),
		backend:   backend,
		logger:    utils.OrNop(logger),
	}
}

// Get returns the stored position for id
func (s *Store) Get(id string) (Position, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	pos, ok := s.positions[id]
	return pos, ok
}

// Has reports whether id has been placed before
func (s *Store) Has(id string) bool {
	_, ok := s.Get(id)
	return ok
}

// Set records the position for id
func (s *Store) Set(id string, pos Position) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if old, ok := s.positions[id]; ok && old == pos {
		return
	}
	s.positions[id] = pos
	s.version++
}

// Len returns the number of stored positions
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return len(s.positions)
}

// Version increases on every change. Used as a render trigger.
func (s *Store) Version() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.version
}

// Snapshot returns a copy of all positions
func (s *Store) Snapshot() map[string]Position {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snap := make(map[string]Position, len(s.positions))
	for id, pos := range s.positions {
		snap[id] = pos
	}
	return snap
}

// IDs returns the stored ids, sorted
func (s *Store) IDs() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ids := make([]string, 0, len(s.positions))
	for id := range s.positions {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Replace swaps the whole map, e.g. after loading a layout document
func (s *Store) Replace(positions map[string]Position) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.positions = make(map[string]Position, len(positions))
	for id, pos := range positions {
		s.positions[id] = pos
	}
	s.version++
}

// Reset drops every in-memory position without touching the backend
func (s *Store) Reset() {
	s.Replace(nil)
}

// Load replaces the in-memory map with the backend contents
func (s *Store) Load(ctx context.Context) error {
	if s.backend == nil {
		return nil
	}

	positions, err := s.backend.Load(ctx)
	if err != nil {
		return fmt.Errorf("failed to load positions: %w", err)
	}

	s.Replace(positions)
	s.logger.Debug("Loaded %d stored positions", len(positions))
	return nil
}

// Save persists the current map through the backend
func (s *Store) Save(ctx context.Context) error {
	if s.backend == nil {
		return nil
	}

	snap := s.Snapshot()
	if err := s.backend.Save(ctx, snap); err != nil {
		return fmt.Errorf("failed to save positions: %w", err)
	}

	s.logger.Debug("Saved %d positions", len(snap))
	return nil
}

// Clear deletes all positions, in memory and in the backend.
// This is the explicit "clear layout" operation.
func (s *Store) Clear(ctx context.Context) error {
	s.Reset()

	if s.backend == nil {
		return nil
	}
	if err := s.backend.Clear(ctx); err != nil {
		return fmt.Errorf("failed to clear positions: %w", err)
	}
	return nil
}
