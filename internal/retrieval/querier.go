package retrieval

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/nmcnair22/billscan/internal/llm"
	"github.com/nmcnair22/billscan/internal/model"
)

// Answer is the result of one targeted question against the index
type Answer struct {
	Found bool   `json:"found"`
	Value string `json:"value"`
}

// Querier answers targeted questions against indexed document content
type Querier interface {
	Query(ctx context.Context, question string, topK int) (Answer, error)
}

// VectorQuerier retrieves the topK most similar chunks and asks the
// completion service to synthesize an answer from them
type VectorQuerier struct {
	store    *Store
	embedder Embedder
	provider llm.Provider
	logger   *logrus.Logger
}

func NewVectorQuerier(store *Store, embedder Embedder, provider llm.Provider, logger *logrus.Logger) *VectorQuerier {
	if logger == nil {
		logger = logrus.New()
	}
	return &VectorQuerier{
		store:    store,
		embedder: embedder,
		provider: provider,
		logger:   logger,
	}
}

// IndexDocument embeds and indexes the bill's pages plus extracted-data
// summary chunks. Call once before Query.
func (q *VectorQuerier) IndexDocument(ctx context.Context, content string, extracted *model.ExtractionResult) error {
	chunks := BuildChunks(content, extracted)
	if len(chunks) == 0 {
		return fmt.Errorf("no chunks to index")
	}

	vectors, err := q.embedder.Embed(ctx, chunks)
	if err != nil {
		return fmt.Errorf("embedding chunks: %w", err)
	}
	if len(vectors) != len(chunks) {
		return fmt.Errorf("embedding count mismatch: %d chunks, %d vectors", len(chunks), len(vectors))
	}
	for i, chunk := range chunks {
		q.store.Add(chunk, vectors[i])
	}
	q.logger.WithField("chunks", len(chunks)).Debug("indexed document")
	return nil
}

// Query answers one question from the indexed chunks. A response the
// completion service cannot shape as the expected JSON counts as not found
// rather than an error, so a flaky answer does not abort reconciliation.
func (q *VectorQuerier) Query(ctx context.Context, question string, topK int) (Answer, error) {
	vectors, err := q.embedder.Embed(ctx, []string{question})
	if err != nil {
		return Answer{}, fmt.Errorf("embedding question: %w", err)
	}
	excerpts := q.store.Search(vectors[0], topK)
	if len(excerpts) == 0 {
		return Answer{}, nil
	}

	prompt := fmt.Sprintf(
		"Using the following document excerpts, answer the question: %s\n"+
			"If multiple excerpts are relevant, analyze them together to provide a complete answer.\n"+
			"Return only the following JSON object with double quotes and no additional text: "+
			`{"found": true, "value": "your_answer"} if the answer is found, or `+
			`{"found": false, "value": null} if not.`+
			"\n\nExcerpts:\n%s",
		question, strings.Join(excerpts, "\n\n"))

	raw, err := q.provider.Complete(ctx, prompt, false)
	if err != nil {
		return Answer{}, err
	}

	var answer Answer
	if err := json.Unmarshal([]byte(llm.StripCodeFences(raw)), &answer); err != nil {
		q.logger.WithField("response", raw).Warn("unparsable retrieval answer")
		return Answer{}, nil
	}
	return answer, nil
}
