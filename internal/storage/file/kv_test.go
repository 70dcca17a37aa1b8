package file

import (
	"context"
	"os"
	"path/filepath"
	"testing"
)

func TestKVStore_MissingFile(t *testing.T) {
	t.Parallel()
	s := NewKVStore(filepath.Join(t.TempDir(), "content.json"))

	v, ok, err := s.Get(context.Background(), "key")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ok || v != "" {
		t.Errorf("Get() = %q, %v; want empty, false", v, ok)
	}
}

func TestKVStore_RoundTrip(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "nested", "content.json")
	s := NewKVStore(path)
	ctx := context.Background()

	value := `[{"id":1,"data":{"text":"Hello, 世界 🌍\nline"}}]`
	if err := s.Set(ctx, "jetstreamin-ar-content", value); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	if err := s.Set(ctx, "other", "x"); err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	// A fresh instance sees the persisted state
	got, ok, err := NewKVStore(path).Get(ctx, "jetstreamin-ar-content")
	if err != nil || !ok {
		t.Fatalf("Get() ok = %v, err = %v", ok, err)
	}
	if got != value {
		t.Errorf("Get() = %q, want %q", got, value)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("failed to stat file: %v", err)
	}
	if mode := info.Mode().Perm(); mode != 0644 {
		t.Errorf("file permissions = %o, want 644", mode)
	}
}

func TestKVStore_CorruptFile(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "content.json")
	if err := os.WriteFile(path, []byte("{not json"), 0644); err != nil {
		t.Fatalf("setup failed: %v", err)
	}

	s := NewKVStore(path)
	ctx := context.Background()

	if _, _, err := s.Get(ctx, "key"); err == nil {
		t.Error("expected error for corrupt file")
	}
	if err := s.Set(ctx, "key", "value"); err == nil {
		t.Error("expected Set to refuse overwriting a corrupt file")
	}
}

func TestKVStore_ReadOnlyDirectory(t *testing.T) {
	t.Parallel()
	if os.Getuid() == 0 {
		t.Skip("skipping permission test when running as root")
	}

	dir := t.TempDir()
	if err := os.Chmod(dir, 0555); err != nil {
		t.Fatalf("failed to chmod: %v", err)
	}
	t.Cleanup(func() { os.Chmod(dir, 0755) })

	s := NewKVStore(filepath.Join(dir, "content.json"))
	if err := s.Set(context.Background(), "key", "value"); err == nil {
		t.Fatal("expected error when writing to read-only directory")
	}
}
