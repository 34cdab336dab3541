package worker

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// BillRunner processes a single bill file end to end
type BillRunner interface {
	ProcessBill(ctx context.Context, path string) error
}

// BillJob processes one bill through a runner
type BillJob struct {
	Path   string
	Runner BillRunner
}

// Execute runs the job
func (j *BillJob) Execute(ctx context.Context) Result {
	return &BillResult{
		Path:  j.Path,
		Error: j.Runner.ProcessBill(ctx, j.Path),
	}
}

// BillResult is the outcome of one bill job
type BillResult struct {
	Path  string
	Error error
}

// GetError returns the error from the bill result
func (r *BillResult) GetError() error {
	return r.Error
}

// BatchProcessor fans a set of bill files across the worker pool
type BatchProcessor struct {
	runner      BillRunner
	concurrency int
}

// NewBatchProcessor creates a batch processor
func NewBatchProcessor(runner BillRunner, concurrency int) *BatchProcessor {
	return &BatchProcessor{
		runner:      runner,
		concurrency: concurrency,
	}
}

// ProcessFiles processes the given bill files concurrently
func (b *BatchProcessor) ProcessFiles(paths []string) []*BillResult {
	if len(paths) == 0 {
		return []*BillResult{}
	}

	pool := NewPool(b.concurrency)
	pool.Start()

	for _, path := range paths {
		pool.Submit(&BillJob{Path: path, Runner: b.runner})
	}

	results := pool.Wait()
	billResults := make([]*BillResult, len(results))
	for i, result := range results {
		billResults[i] = result.(*BillResult)
	}
	return billResults
}

// ProcessDir processes every bill file found in a directory
func (b *BatchProcessor) ProcessDir(dir string) ([]*BillResult, error) {
	paths, err := ListBillFiles(dir)
	if err != nil {
		return nil, fmt.Errorf("list bills: %w", err)
	}
	return b.ProcessFiles(paths), nil
}

// ListBillFiles returns the processable bill files in a directory, sorted
// by name
func ListBillFiles(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read dir: %w", err)
	}

	var paths []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		switch strings.ToLower(filepath.Ext(entry.Name())) {
		case ".pdf", ".html", ".htm", ".txt", ".md":
			paths = append(paths, filepath.Join(dir, entry.Name()))
		}
	}
	sort.Strings(paths)
	return paths, nil
}
