package positions

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// FileBackend persists positions as a JSON file
type FileBackend struct {
	path string
}

type positionsFile struct {
	UpdatedAt time.Time           `json:"updated_at"`
	Positions map[string]Position `json:"positions"`
}

// NewFileBackend creates a backend writing to path
func NewFileBackend(path string) *FileBackend {
	return &FileBackend{path: path}
}

// Path returns the file location
func (b *FileBackend) Path() string {
	return b.path
}

// Load reads the file. A missing file yields an empty map.
func (b *FileBackend) Load(ctx context.Context) (map[string]Position, error) {
	data, err := os.ReadFile(b.path)
	if err != nil {
		if os.IsNotExist(err) {
			return map[string]Position{}, nil
		}
		return nil, err
	}

	var f positionsFile
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", b.path, err)
	}
	if f.Positions == nil {
		f.Positions = map[string]Position{}
	}
	return f.Positions, nil
}

// Save writes the snapshot to disk
func (b *FileBackend) Save(ctx context.Context, positions map[string]Position) error {
	data, err := json.MarshalIndent(positionsFile{
		UpdatedAt: time.Now().UTC(),
		Positions: positions,
	}, "", "  ")
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(b.path), 0o755); err != nil {
		return err
	}

	return os.WriteFile(b.path, data, 0o600)
}

// Clear removes the file
func (b *FileBackend) Clear(ctx context.Context) error {
	if err := os.Remove(b.path); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

// MemoryBackend keeps the last saved snapshot in memory
type MemoryBackend struct {
	saved map[string]Position
	Saves int
}

// NewMemoryBackend creates an empty in-memory backend
func NewMemoryBackend() *MemoryBackend {
	return &MemoryBackend{saved: map[string]Position{}}
}

// Load returns a copy of the last snapshot
func (b *MemoryBackend) Load(ctx context.Context) (map[string]Position, error) {
	out := make(map[string]Position, len(b.saved))
	for id, pos := range b.saved {
		out[id] = pos
	}
	return out, nil
}

// Save stores a copy of positions
func (b *MemoryBackend) Save(ctx context.Context, positions map[string]Position) error {
	b.saved = make(map[string]Position, len(positions))
	for id, pos := range positions {
		b.saved[id] = pos
	}
	b.Saves++
	return nil
}

// Clear forgets the snapshot
func (b *MemoryBackend) Clear(ctx context.Context) error {
	b.saved = map[string]Position{}
	return nil
}
