package positions

import (
	"context"
	"os"
	"path/filepath"
	"testing"
)

func TestStoreSetGet(t *testing.T) {
	s := NewStore(nil, nil)

	if _, ok := s.Get("10.0.0.1"); ok {
		t.Fatal("Get() on empty store returned ok")
	}

	s.Set("10.0.0.1", Position{X: 300, Y: 120})
	pos, ok := s.Get("10.0.0.1")
	if !ok {
		t.Fatal("Get() after Set() returned !ok")
	}
	if pos.X != 300 || pos.Y != 120 {
		t.Errorf("Get() = %+v, expected {300 120}", pos)
	}
	if !s.Has("10.0.0.1") {
		t.Error("Has() = false, expected true")
	}
}

func TestStoreVersion(t *testing.T) {
	s := NewStore(nil, nil)
	v0 := s.Version()

	s.Set("a", Position{X: 1, Y: 1})
	v1 := s.Version()
	if v1 == v0 {
		t.Error("Version() did not change after Set()")
	}

	s.Set("a", Position{X: 1, Y: 1})
	if s.Version() != v1 {
		t.Error("Version() changed after writing an identical position")
	}
}

func TestStoreSnapshotIsCopy(t *testing.T) {
	s := NewStore(nil, nil)
	s.Set("a", Position{X: 1, Y: 2})

	snap := s.Snapshot()
	snap["a"] = Position{X: 9, Y: 9}

	if pos, _ := s.Get("a"); pos.X != 1 {
		t.Errorf("store mutated through snapshot: %+v", pos)
	}
}

func TestStoreIDsSorted(t *testing.T) {
	s := NewStore(nil, nil)
	s.Set("c", Position{})
	s.Set("a", Position{})
	s.Set("b", Position{})

	ids := s.IDs()
	expected := []string{"a", "b", "c"}
	for i := range expected {
		if ids[i] != expected[i] {
			t.Errorf("IDs()[%d] = %q, expected %q", i, ids[i], expected[i])
		}
	}
}

func TestStoreSaveLoadMemoryBackend(t *testing.T) {
	ctx := context.Background()
	backend := NewMemoryBackend()

	s := NewStore(backend, nil)
	s.Set("a", Position{X: 10, Y: 20})
	if err := s.Save(ctx); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	if backend.Saves != 1 {
		t.Errorf("backend saves = %d, expected 1", backend.Saves)
	}

	reloaded := NewStore(backend, nil)
	if err := reloaded.Load(ctx); err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if pos, ok := reloaded.Get("a"); !ok || pos.X != 10 || pos.Y != 20 {
		t.Errorf("reloaded Get(a) = %+v, %v", pos, ok)
	}
}

func TestStoreClear(t *testing.T) {
	ctx := context.Background()
	backend := NewMemoryBackend()

	s := NewStore(backend, nil)
	s.Set("a", Position{X: 1, Y: 1})
	if err := s.Save(ctx); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	if err := s.Clear(ctx); err != nil {
		t.Fatalf("Clear() error = %v", err)
	}
	if s.Len() != 0 {
		t.Errorf("Len() after Clear() = %d, expected 0", s.Len())
	}

	loaded, _ := backend.Load(ctx)
	if len(loaded) != 0 {
		t.Errorf("backend still holds %d positions after Clear()", len(loaded))
	}
}

func TestFileBackendMissingFile(t *testing.T) {
	t.Parallel()

	b := NewFileBackend(filepath.Join(t.TempDir(), "positions.json"))
	positions, err := b.Load(context.Background())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(positions) != 0 {
		t.Fatalf("positions=%d", len(positions))
	}
}

func TestFileBackendRoundTrip(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "state", "positions.json")
	b := NewFileBackend(path)
	if b.Path() != path {
		t.Fatalf("Path() = %q, expected %q", b.Path(), path)
	}

	in := map[string]Position{"10.0.0.1": {X: 300, Y: 400}, "r": {X: 80, Y: 400}}
	if err := b.Save(ctx, in); err != nil {
		t.Fatalf("Save: %v", err)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("Stat: %v", err)
	}
	if info.Mode().Perm() != 0o600 {
		t.Fatalf("mode=%o", info.Mode().Perm())
	}

	out, err := b.Load(ctx)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(out) != 2 || out["10.0.0.1"] != in["10.0.0.1"] {
		t.Fatalf("positions=%+v", out)
	}

	if err := b.Clear(ctx); err != nil {
		t.Fatalf("Clear: %v", err)
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Fatalf("file still present after Clear: %v", err)
	}
	if err := b.Clear(ctx); err != nil {
		t.Fatalf("second Clear: %v", err)
	}
}

func TestFileBackendCorruptFile(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "positions.json")
	if err := os.WriteFile(path, []byte("{not json"), 0o600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	s := NewStore(NewFileBackend(path), nil)
	if err := s.Load(context.Background()); err == nil {
		t.Fatal("Load() on corrupt file returned nil error")
	}
}

func TestRedisBackendRoundTrip(t *testing.T) {
	addr := os.Getenv("NETMAP_TEST_REDIS_ADDR")
	if addr == "" {
		t.Skip("Skipping redis test - NETMAP_TEST_REDIS_ADDR not set")
	}

	ctx := context.Background()
	b, err := NewRedisBackend(ctx, RedisOptions{Address: addr, Key: "netmap:test:positions"})
	if err != nil {
		t.Fatalf("NewRedisBackend: %v", err)
	}
	defer b.Close()
	defer b.Clear(ctx)
	if b.Key() != "netmap:test:positions" {
		t.Fatalf("Key() = %q", b.Key())
	}

	in := map[string]Position{"a": {X: 1, Y: 2}, "b": {X: 3, Y: 4}}
	if err := b.Save(ctx, in); err != nil {
		t.Fatalf("Save: %v", err)
	}
	out, err := b.Load(ctx)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(out) != 2 || out["b"] != in["b"] {
		t.Fatalf("positions=%+v", out)
	}
}

func TestNewRedisBackendRequiresAddress(t *testing.T) {
	if _, err := NewRedisBackend(context.Background(), RedisOptions{}); err == nil {
		t.Fatal("expected error for empty address")
	}
}
