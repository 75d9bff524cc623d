package ingest

import (
	"testing"
	"time"
)

func TestReadyFiles(t *testing.T) {
	now := time.Now()
	pending := map[string]time.Time{
		"/in/old.json":   now.Add(-time.Second),
		"/in/fresh.json": now,
	}

	ready := readyFiles(pending, now)
	if len(ready) != 1 || ready[0] != "/in/old.json" {
		t.Fatalf("expected only the settled file, got %v", ready)
	}

	if _, ok := pending["/in/old.json"]; ok {
		t.Error("settled file should be removed from pending")
	}
	if _, ok := pending["/in/fresh.json"]; !ok {
		t.Error("fresh file should stay pending")
	}
}

func TestReadyFiles_SortedOutput(t *testing.T) {
	now := time.Now()
	pending := map[string]time.Time{
		"/in/b.json": now.Add(-time.Second),
		"/in/a.json": now.Add(-time.Second),
		"/in/c.json": now.Add(-time.Second),
	}

	ready := readyFiles(pending, now)
	if len(ready) != 3 {
		t.Fatalf("expected 3 ready files, got %d", len(ready))
	}
	if ready[0] != "/in/a.json" || ready[2] != "/in/c.json" {
		t.Errorf("expected sorted order, got %v", ready)
	}
	if len(pending) != 0 {
		t.Errorf("expected pending drained, got %d left", len(pending))
	}
}
