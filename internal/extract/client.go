package extract

import (
	"context"

	"github.com/sirupsen/logrus"

	"github.com/nmcnair22/billscan/internal/llm"
)

// subtotalSuffix steers the model away from bill-wide summary lines when
// reading per-location subtotals
const subtotalSuffix = "\n\n" +
	`Extract the total due for the sub-account from its specific "Subtotal" line within the chunk. ` +
	`This is typically a single line showing the total for that sub-account, not the master account's total. ` +
	`Ignore any lines that appear to be summaries for the entire bill, such as "CURRENT CHARGES SUBTOTAL" or "BALANCE DUE".`

// Client sends preprocessed chunks to the completion service and parses the
// structured answers. A failed service call or an unparsable answer is fatal
// for that chunk — the pipeline never silently skips chunks.
type Client struct {
	provider   llm.Provider
	promptBase string
	logger     *logrus.Logger
}

// NewClient creates an extraction client. promptBase is the instruction
// prefix loaded from the configured prompt file.
func NewClient(provider llm.Provider, promptBase string, logger *logrus.Logger) *Client {
	if logger == nil {
		logger = logrus.New()
	}
	return &Client{
		provider:   provider,
		promptBase: promptBase,
		logger:     logger,
	}
}

// ExtractChunk asks the completion service for the sub-accounts contained in
// one chunk
func (c *Client) ExtractChunk(ctx context.Context, chunkContent string) (*Record, error) {
	prompt := c.promptBase + subtotalSuffix + "\n\nDocument chunk: " + chunkContent

	answer, err := c.provider.Complete(ctx, prompt, true)
	if err != nil {
		return nil, err
	}

	record, err := ParseRecord(llm.StripCodeFences(answer))
	if err != nil {
		return nil, err
	}

	c.logger.WithField("sub_accounts", len(record.SubAccounts)).Debug("extracted chunk")
	return record, nil
}
