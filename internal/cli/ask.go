package cli

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/nmcnair22/billscan/internal/analyze"
	"github.com/nmcnair22/billscan/internal/retrieval"
)

var (
	askTimeout time.Duration
	askTopK    int
)

// askCmd represents the ask command
var askCmd = &cobra.Command{
	Use:   "ask <bill> <question>",
	Short: "Ask one question about a bill document",
	Long: `Ask indexes a single bill document and answers one question about it
using retrieval over the document's pages.

Example:
  billscan ask bills/invoice.pdf "What is the due date listed on the bill?"
  billscan ask bills/invoice.html "What is the total due amount?"`,
	Args: cobra.ExactArgs(2),
	RunE: runAsk,
}

func init() {
	rootCmd.AddCommand(askCmd)

	askCmd.Flags().DurationVar(&askTimeout, "timeout", 2*time.Minute, "overall timeout")
	askCmd.Flags().IntVar(&askTopK, "top-k", 15, "number of chunks retrieved per question")
}

func runAsk(cmd *cobra.Command, args []string) error {
	path, question := args[0], args[1]
	ctx, cancel := context.WithTimeout(context.Background(), askTimeout)
	defer cancel()

	cfg := loadConfig()
	cfg.Retrieval.Enabled = true

	a, err := buildApp(cfg)
	if err != nil {
		return err
	}
	defer a.Close()

	doc, err := a.analyzeBill(ctx, path, analyze.ModelLayout)
	if err != nil {
		return fmt.Errorf("analyze %s: %w", path, err)
	}

	querier := retrieval.NewVectorQuerier(retrieval.NewStore(), a.embedder, a.provider, a.logger)
	if err := querier.IndexDocument(ctx, doc.Content, nil); err != nil {
		return fmt.Errorf("index %s: %w", path, err)
	}

	answer, err := querier.Query(ctx, question, askTopK)
	if err != nil {
		return fmt.Errorf("query: %w", err)
	}
	if !answer.Found {
		fmt.Fprintln(os.Stderr, "No answer found in the document.")
		return nil
	}
	fmt.Println(answer.Value)
	return nil
}
