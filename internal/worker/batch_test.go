package worker

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"
)

// mockRunner records processed paths and fails on request
type mockRunner struct {
	mu        sync.Mutex
	processed []string
	failOn    string
}

func (r *mockRunner) ProcessBill(_ context.Context, path string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.processed = append(r.processed, path)
	if r.failOn != "" && filepath.Base(path) == r.failOn {
		return errors.New("processing failed")
	}
	return nil
}

func writeFiles(t *testing.T, dir string, names ...string) {
	t.Helper()
	for _, name := range names {
		if err := os.WriteFile(filepath.Join(dir, name), []byte("x"), 0o644); err != nil {
			t.Fatal(err)
		}
	}
}

func TestListBillFiles(t *testing.T) {
	dir := t.TempDir()
	writeFiles(t, dir, "b.pdf", "a.html", "notes.docx", "c.txt")
	if err := os.Mkdir(filepath.Join(dir, "sub"), 0o755); err != nil {
		t.Fatal(err)
	}

	paths, err := ListBillFiles(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(paths) != 3 {
		t.Fatalf("expected 3 bill files, got %d: %v", len(paths), paths)
	}
	if filepath.Base(paths[0]) != "a.html" {
		t.Errorf("expected sorted order, got %v", paths)
	}
}

func TestProcessDir(t *testing.T) {
	dir := t.TempDir()
	writeFiles(t, dir, "one.pdf", "two.pdf", "three.pdf")

	runner := &mockRunner{failOn: "two.pdf"}
	results, err := NewBatchProcessor(runner, 2).ProcessDir(dir)
	if err != nil {
		t.Fatal(err)
	}

	if len(results) != 3 {
		t.Fatalf("expected 3 results, got %d", len(results))
	}
	failures := 0
	for _, r := range results {
		if r.GetError() != nil {
			failures++
			if filepath.Base(r.Path) != "two.pdf" {
				t.Errorf("unexpected failed path: %s", r.Path)
			}
		}
	}
	if failures != 1 {
		t.Errorf("expected 1 failure, got %d", failures)
	}
	if len(runner.processed) != 3 {
		t.Errorf("expected 3 processed, got %d", len(runner.processed))
	}
}

func TestProcessFilesEmpty(t *testing.T) {
	results := NewBatchProcessor(&mockRunner{}, 2).ProcessFiles(nil)
	if len(results) != 0 {
		t.Errorf("expected no results, got %d", len(results))
	}
}
