package cli

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
)

var (
	processTimeout time.Duration
	maxRetries     int
	chunkWorkers   int
	debugDir       string
	noCache        bool
	noRetrieval    bool
)

// processCmd represents the process command
var processCmd = &cobra.Command{
	Use:   "process <bill>",
	Short: "Process a single bill end to end",
	Long: `Process analyzes one bill document, routes it by account number, runs
the matching extraction pipeline and archives the result:
- Layout analysis (local for HTML/text, remote for PDF)
- Account lookup to choose single- or multi-location handling
- Multi-location bills: chunk, emphasize, extract per chunk, assemble
- Reconcile the extraction against the bill with retrieval-backed queries
- Valid bills move to the archive, invalid ones to audit

Example:
  billscan process bills/invoice-march.pdf
  billscan process bills/invoice.html --debug-dir ./chunks
  billscan process bills/invoice.pdf --chunk-workers 4 --max-retries 3`,
	Args: cobra.ExactArgs(1),
	RunE: runProcess,
}

func init() {
	rootCmd.AddCommand(processCmd)

	processCmd.Flags().DurationVar(&processTimeout, "timeout", 5*time.Minute, "overall processing timeout")
	processCmd.Flags().IntVar(&maxRetries, "max-retries", -1, "reconciliation retries per check (-1 = default)")
	processCmd.Flags().IntVar(&chunkWorkers, "chunk-workers", 1, "parallel chunk extractions (1 = sequential)")
	processCmd.Flags().StringVar(&debugDir, "debug-dir", "", "write preprocessed chunks to this directory")
	processCmd.Flags().BoolVar(&noCache, "no-cache", false, "disable response cache")
	processCmd.Flags().BoolVar(&noRetrieval, "no-retrieval", false, "reconcile without retrieval-backed correction")
}

func runProcess(cmd *cobra.Command, args []string) error {
	path := args[0]
	ctx, cancel := context.WithTimeout(context.Background(), processTimeout)
	defer cancel()

	cfg := loadConfig()
	if maxRetries >= 0 {
		cfg.Pipeline.MaxRetries = maxRetries
	}
	cfg.Pipeline.Concurrency = chunkWorkers
	cfg.Pipeline.DebugDir = debugDir
	if noCache {
		cfg.Cache.Enabled = false
	}
	if noRetrieval {
		cfg.Retrieval.Enabled = false
	}

	if verbose {
		fmt.Fprintf(os.Stderr, "Processing: %s\n", path)
		fmt.Fprintf(os.Stderr, "Provider: %s/%s\n", cfg.LLM.Provider, cfg.LLM.Model)
		fmt.Fprintf(os.Stderr, "Cache: %v  Retrieval: %v\n", cfg.Cache.Enabled, cfg.Retrieval.Enabled)
		fmt.Fprintln(os.Stderr)
	}

	a, err := buildApp(cfg)
	if err != nil {
		return err
	}
	defer a.Close()

	return a.ProcessBill(ctx, path)
}
