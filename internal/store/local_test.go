package store

import (
	"context"
	"os"
	"path/filepath"
	"testing"
)

func TestLocalStoreWriteAndOverwrite(t *testing.T) {
	s, err := NewLocalStore(t.TempDir())
	if err != nil {
		t.Fatalf("new local store: %v", err)
	}

	key := "outcomes/run_id=r/status=success/date=2026-03-01/shard_id=0.json"
	if err := s.Write(context.Background(), key, []byte(`{"v":1}`)); err != nil {
		t.Fatalf("write: %v", err)
	}
	if err := s.Write(context.Background(), key, []byte(`{"v":2}`)); err != nil {
		t.Fatalf("overwrite: %v", err)
	}

	body, err := os.ReadFile(filepath.Join(s.Root(), filepath.FromSlash(key)))
	if err != nil {
		t.Fatalf("read back: %v", err)
	}
	if string(body) != `{"v":2}` {
		t.Fatalf("body = %s, want last write to win", body)
	}
}

func TestLocalStoreLeavesNoTempFiles(t *testing.T) {
	s, err := NewLocalStore(t.TempDir())
	if err != nil {
		t.Fatalf("new local store: %v", err)
	}
	if err := s.Write(context.Background(), "a/b.json", []byte("x")); err != nil {
		t.Fatalf("write: %v", err)
	}

	entries, err := os.ReadDir(filepath.Join(s.Root(), "a"))
	if err != nil {
		t.Fatalf("read dir: %v", err)
	}
	if len(entries) != 1 || entries[0].Name() != "b.json" {
		t.Fatalf("entries = %v, want only b.json", entries)
	}
}

func TestLocalStoreRejectsEscapingKeys(t *testing.T) {
	s, err := NewLocalStore(t.TempDir())
	if err != nil {
		t.Fatalf("new local store: %v", err)
	}
	for _, key := range []string{"../outside.json", "a/../../outside.json", ""} {
		if err := s.Write(context.Background(), key, []byte("x")); err == nil {
			t.Fatalf("key %q should be rejected", key)
		}
	}
}

func TestLocalStoreDelete(t *testing.T) {
	s, err := NewLocalStore(t.TempDir())
	if err != nil {
		t.Fatalf("new local store: %v", err)
	}
	if err := s.Write(context.Background(), "a/b.json", []byte("x")); err != nil {
		t.Fatalf("write: %v", err)
	}
	if err := s.Delete(context.Background(), "a/b.json"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	// Deleting a missing key is not an error.
	if err := s.Delete(context.Background(), "a/b.json"); err != nil {
		t.Fatalf("repeat delete: %v", err)
	}
}
