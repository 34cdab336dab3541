package pipeline

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/nmcnair22/billscan/internal/chunk"
	"github.com/nmcnair22/billscan/internal/extract"
	"github.com/nmcnair22/billscan/internal/llm"
	"github.com/nmcnair22/billscan/internal/model"
	"github.com/nmcnair22/billscan/internal/retrieval"
	"github.com/nmcnair22/billscan/internal/validate"
)

// Pipeline orchestrates multi-location bill processing: chunking, emphasis
// preprocessing, per-chunk extraction, assembly and reconciliation
type Pipeline struct {
	chunker     *chunk.Chunker
	extractor   *extract.Client
	provider    llm.Provider
	embedder    retrieval.Embedder // nil disables retrieval-backed correction
	maxRetries  int
	topK        int
	concurrency int
	debugDir    string
	logger      *logrus.Logger
}

// Options configures a Pipeline beyond its required collaborators
type Options struct {
	MaxRetries  int
	TopK        int
	Concurrency int
	DebugDir    string
}

// NewPipeline creates a pipeline. embedder may be nil, in which case the
// reconciler runs without a retrieval collaborator.
func NewPipeline(extractor *extract.Client, provider llm.Provider, embedder retrieval.Embedder, opts Options, logger *logrus.Logger) *Pipeline {
	if logger == nil {
		logger = logrus.New()
	}
	if opts.TopK <= 0 {
		opts.TopK = 15
	}
	if opts.Concurrency <= 0 {
		opts.Concurrency = 1
	}
	return &Pipeline{
		chunker:     chunk.NewChunker(logger),
		extractor:   extractor,
		provider:    provider,
		embedder:    embedder,
		maxRetries:  opts.MaxRetries,
		topK:        opts.TopK,
		concurrency: opts.Concurrency,
		debugDir:    opts.DebugDir,
		logger:      logger,
	}
}

// Result is the complete output for one document
type Result struct {
	Extraction *model.ExtractionResult
	Outcome    *model.ValidationOutcome
}

// ProcessMLB runs the full multi-location pipeline over an analyzed
// document. A failed collaborator call aborts the document; an unparsable
// answer skips only the chunk it came from.
func (p *Pipeline) ProcessMLB(ctx context.Context, doc *model.Document, sourceID string) (*Result, error) {
	chunks := p.chunker.Split(doc, sourceID)
	p.logger.WithFields(logrus.Fields{
		"source": sourceID,
		"chunks": len(chunks),
	}).Info("chunked document")

	prepared := make([]string, len(chunks))
	for i, c := range chunks {
		prepared[i] = chunk.EmphasizeAccountNumbers(c.Content)
	}
	if p.debugDir != "" {
		p.dumpChunks(prepared)
	}

	records, err := p.extractAll(ctx, prepared)
	if err != nil {
		return nil, err
	}

	assembler := extract.NewAssembler(p.logger)
	for i, record := range records {
		if record == nil {
			continue
		}
		assembler.Add(record, prepared[i])
	}

	result := &model.ExtractionResult{
		MasterAccount: MasterFromFields(doc.Fields),
		SubAccounts:   assembler.Finalize(),
	}

	querier := p.buildQuerier(ctx, doc.Content, result)
	outcome := validate.NewReconciler(querier, p.maxRetries, p.topK, p.logger).Reconcile(ctx, result)

	return &Result{Extraction: result, Outcome: outcome}, nil
}

// extractAll runs extraction over the prepared chunks, in document order or
// across a bounded set of workers. Results keep their chunk index so the
// assembled sub-accounts stay in document order either way. A ParseError
// drops only its own chunk; a ServiceError aborts the run.
func (p *Pipeline) extractAll(ctx context.Context, prepared []string) ([]*extract.Record, error) {
	records := make([]*extract.Record, len(prepared))
	errs := make([]error, len(prepared))

	if p.concurrency <= 1 {
		for i, content := range prepared {
			records[i], errs[i] = p.extractOne(ctx, i, content)
		}
	} else {
		var wg sync.WaitGroup
		semaphore := make(chan struct{}, p.concurrency)
		for i, content := range prepared {
			wg.Add(1)
			go func(idx int, text string) {
				defer wg.Done()
				select {
				case <-ctx.Done():
					errs[idx] = ctx.Err()
					return
				case semaphore <- struct{}{}:
				}
				defer func() { <-semaphore }()
				records[idx], errs[idx] = p.extractOne(ctx, idx, text)
			}(i, content)
		}
		wg.Wait()
	}

	for i, err := range errs {
		if err == nil {
			continue
		}
		var parseErr *model.ParseError
		if errors.As(err, &parseErr) {
			p.logger.WithError(err).WithField("chunk", i).Error("skipping unparsable chunk")
			continue
		}
		return nil, fmt.Errorf("extract chunk %d: %w", i, err)
	}
	return records, nil
}

func (p *Pipeline) extractOne(ctx context.Context, idx int, content string) (*extract.Record, error) {
	record, err := p.extractor.ExtractChunk(ctx, content)
	if err != nil {
		return nil, err
	}
	p.logger.WithFields(logrus.Fields{
		"chunk":        idx,
		"sub_accounts": len(record.SubAccounts),
	}).Debug("chunk extracted")
	return record, nil
}

// buildQuerier indexes the document for reconciliation queries. Indexing
// failure degrades to reconciliation without retrieval rather than aborting
// the run.
func (p *Pipeline) buildQuerier(ctx context.Context, content string, result *model.ExtractionResult) retrieval.Querier {
	if p.embedder == nil {
		return nil
	}
	vq := retrieval.NewVectorQuerier(retrieval.NewStore(), p.embedder, p.provider, p.logger)
	if err := vq.IndexDocument(ctx, content, result); err != nil {
		p.logger.WithError(err).Warn("document indexing failed, reconciling without retrieval")
		return nil
	}
	return vq
}

func (p *Pipeline) dumpChunks(prepared []string) {
	if err := os.MkdirAll(p.debugDir, 0o755); err != nil {
		p.logger.WithError(err).Warn("cannot create debug dir")
		return
	}
	for i, content := range prepared {
		path := filepath.Join(p.debugDir, fmt.Sprintf("chunk_%02d.txt", i))
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			p.logger.WithError(err).WithField("path", path).Warn("cannot write debug chunk")
		}
	}
}

// MasterFromFields maps invoice-mode analysis fields onto the master
// account
func MasterFromFields(fields map[string]string) *model.MasterAccount {
	return &model.MasterAccount{
		AccountNumber: fields["CustomerId"],
		TotalDue:      fields["AmountDue"],
		DueDate:       fields["DueDate"],
		VendorName:    fields["VendorName"],
	}
}
