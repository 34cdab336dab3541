package cli

import (
	"context"
	"fmt"
	"os"
	"runtime"
	"time"

	"github.com/spf13/cobra"

	"github.com/nmcnair22/billscan/internal/worker"
)

var (
	concurrency int
	billTimeout time.Duration
)

// batchCmd represents the batch command
var batchCmd = &cobra.Command{
	Use:   "batch <dir>",
	Short: "Process a directory of bills in parallel",
	Long: `Batch processes every bill file found in a directory:
- Picks up .pdf, .html, .htm, .txt and .md files
- Fans bills across a pool of workers
- Each bill runs the full process flow: analyze, route, extract, reconcile
- Valid bills are archived, invalid ones routed to audit

Example:
  billscan batch ./inbox
  billscan batch ./inbox --concurrency 8
  billscan batch ./inbox --bill-timeout 10m`,
	Args: cobra.ExactArgs(1),
	RunE: runBatch,
}

func init() {
	rootCmd.AddCommand(batchCmd)

	batchCmd.Flags().IntVar(&concurrency, "concurrency", runtime.NumCPU(), "number of concurrent workers")
	batchCmd.Flags().DurationVar(&billTimeout, "bill-timeout", 5*time.Minute, "timeout for each individual bill")
	batchCmd.Flags().IntVar(&chunkWorkers, "chunk-workers", 1, "parallel chunk extractions per bill")
	batchCmd.Flags().BoolVar(&noCache, "no-cache", false, "disable response cache")
	batchCmd.Flags().BoolVar(&noRetrieval, "no-retrieval", false, "reconcile without retrieval-backed correction")
}

// timeoutRunner bounds each bill's processing time
type timeoutRunner struct {
	inner   worker.BillRunner
	timeout time.Duration
}

func (r *timeoutRunner) ProcessBill(ctx context.Context, path string) error {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()
	return r.inner.ProcessBill(ctx, path)
}

func runBatch(cmd *cobra.Command, args []string) error {
	dir := args[0]

	cfg := loadConfig()
	cfg.Pipeline.Concurrency = chunkWorkers
	if noCache {
		cfg.Cache.Enabled = false
	}
	if noRetrieval {
		cfg.Retrieval.Enabled = false
	}

	fmt.Fprintf(os.Stderr, "\n")
	fmt.Fprintf(os.Stderr, "═══════════════════════════════════════════════════════════\n")
	fmt.Fprintf(os.Stderr, "  Billscan Batch Processing\n")
	fmt.Fprintf(os.Stderr, "═══════════════════════════════════════════════════════════\n")
	fmt.Fprintf(os.Stderr, "\n")
	fmt.Fprintf(os.Stderr, "  Input dir:    %s\n", dir)
	fmt.Fprintf(os.Stderr, "  Workers:      %d\n", concurrency)
	fmt.Fprintf(os.Stderr, "  Provider:     %s/%s\n", cfg.LLM.Provider, cfg.LLM.Model)
	fmt.Fprintf(os.Stderr, "  Archive dir:  %s\n", cfg.Archive.ArchiveDir)
	fmt.Fprintf(os.Stderr, "  Audit dir:    %s\n", cfg.Archive.AuditDir)
	fmt.Fprintf(os.Stderr, "\n")

	a, err := buildApp(cfg)
	if err != nil {
		return err
	}
	defer a.Close()

	paths, err := worker.ListBillFiles(dir)
	if err != nil {
		return err
	}
	if len(paths) == 0 {
		return fmt.Errorf("no bill files found in %s", dir)
	}
	fmt.Fprintf(os.Stderr, "⚙️  Processing %d bills with %d workers...\n\n", len(paths), concurrency)

	runner := &timeoutRunner{inner: a, timeout: billTimeout}
	results := worker.NewBatchProcessor(runner, concurrency).ProcessFiles(paths)

	successCount := 0
	failureCount := 0
	for _, result := range results {
		if result.Error != nil {
			failureCount++
			fmt.Fprintf(os.Stderr, "✗ %s: %v\n", result.Path, result.Error)
			continue
		}
		successCount++
	}

	fmt.Fprintf(os.Stderr, "\n")
	fmt.Fprintf(os.Stderr, "═══════════════════════════════════════════════════════════\n")
	fmt.Fprintf(os.Stderr, "  Batch Complete\n")
	fmt.Fprintf(os.Stderr, "═══════════════════════════════════════════════════════════\n")
	fmt.Fprintf(os.Stderr, "\n")
	fmt.Fprintf(os.Stderr, "  Total:     %d bills\n", len(results))
	fmt.Fprintf(os.Stderr, "  Processed: %d\n", successCount)
	fmt.Fprintf(os.Stderr, "  Failures:  %d\n", failureCount)
	fmt.Fprintf(os.Stderr, "\n")

	if failureCount > 0 {
		return fmt.Errorf("%d of %d bills failed", failureCount, len(results))
	}
	return nil
}
