package storage

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLocalStorageLifecycle(t *testing.T) {
	dir := t.TempDir()
	s, err := NewLocalStorage(dir, "http://localhost:8080/exports/")
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	ctx := context.Background()
	key := "activity-exports/2026/10/batch.jsonl"

	if err := s.Put(ctx, key, strings.NewReader("{}\n"), "application/x-ndjson"); err != nil {
		t.Fatalf("put: %v", err)
	}
	body, err := os.ReadFile(filepath.Join(dir, "activity-exports", "2026", "10", "batch.jsonl"))
	if err != nil || string(body) != "{}\n" {
		t.Fatalf("stored body %q, err %v", body, err)
	}

	ok, err := s.Exists(ctx, key)
	if err != nil || !ok {
		t.Fatalf("exists = %v, %v", ok, err)
	}
	if got := s.GetURL(key); got != "http://localhost:8080/exports/"+key {
		t.Fatalf("url = %s", got)
	}

	if err := s.Delete(ctx, key); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if err := s.Delete(ctx, key); err != nil {
		t.Fatalf("second delete should be a no-op: %v", err)
	}
	if ok, _ := s.Exists(ctx, key); ok {
		t.Fatal("object still exists")
	}
}

func TestLocalStorageRejectsTraversal(t *testing.T) {
	s, err := NewLocalStorage(t.TempDir(), "http://localhost")
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	if err := s.Put(context.Background(), "../escape.txt", strings.NewReader("x"), "text/plain"); err == nil {
		t.Fatal("expected traversal to be rejected")
	}
}
