package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/sashabaranov/go-openai"
	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"

	"github.com/nmcnair22/billscan/internal/analyze"
	"github.com/nmcnair22/billscan/internal/archive"
	"github.com/nmcnair22/billscan/internal/billtype"
	"github.com/nmcnair22/billscan/internal/cache"
	"github.com/nmcnair22/billscan/internal/extract"
	"github.com/nmcnair22/billscan/internal/llm"
	"github.com/nmcnair22/billscan/internal/model"
	"github.com/nmcnair22/billscan/internal/pipeline"
	"github.com/nmcnair22/billscan/internal/retrieval"
	"github.com/nmcnair22/billscan/internal/validate"
	"github.com/nmcnair22/billscan/internal/worker"
)

// app holds the wired components shared by the process, batch and ask
// commands. Build it once per invocation; Close releases the registry.
type app struct {
	cfg      *model.Config
	logger   *logrus.Logger
	provider llm.Provider
	embedder retrieval.Embedder
	remote   analyze.Analyzer
	local    analyze.Analyzer
	registry *billtype.Registry
	archiver *archive.Archiver
	pipe     *pipeline.Pipeline
	single   *extract.SingleExtractor
}

// loadConfig merges defaults, the config file and BILLSCAN_* env vars.
// Secrets come only from the environment, never from the config file.
func loadConfig() *model.Config {
	cfg := model.DefaultConfig()

	overrideString(&cfg.LLM.Provider, "llm.provider")
	overrideString(&cfg.LLM.Model, "llm.model")
	overrideString(&cfg.LLM.BaseURL, "llm.base_url")
	overrideString(&cfg.LLM.MLBPrompt, "llm.mlb_prompt")
	overrideString(&cfg.LLM.SLBPrompt, "llm.slb_prompt")
	overrideString(&cfg.Retrieval.EmbedModel, "retrieval.embed_model")
	overrideInt(&cfg.Retrieval.TopK, "retrieval.top_k")
	overrideInt(&cfg.Pipeline.MaxRetries, "pipeline.max_retries")
	overrideInt(&cfg.Pipeline.Concurrency, "pipeline.concurrency")
	overrideString(&cfg.Registry.Path, "registry.path")
	overrideString(&cfg.Archive.ArchiveDir, "archive.archive_dir")
	overrideString(&cfg.Archive.AuditDir, "archive.audit_dir")
	overrideString(&cfg.Archive.OutputDir, "archive.output_dir")
	overrideString(&cfg.Cache.Dir, "cache.dir")
	overrideString(&cfg.Analyze.Endpoint, "analyze.endpoint")
	if viper.IsSet("retrieval.enabled") {
		cfg.Retrieval.Enabled = viper.GetBool("retrieval.enabled")
	}
	if viper.IsSet("cache.enabled") {
		cfg.Cache.Enabled = viper.GetBool("cache.enabled")
	}

	switch strings.ToLower(cfg.LLM.Provider) {
	case "azure":
		cfg.LLM.APIKey = os.Getenv("AZURE_OPENAI_API_KEY")
		if v := os.Getenv("AZURE_OPENAI_ENDPOINT"); v != "" {
			cfg.LLM.BaseURL = v
		}
	default:
		cfg.LLM.APIKey = os.Getenv("OPENAI_API_KEY")
	}
	if v := os.Getenv("AZURE_DI_ENDPOINT"); v != "" {
		cfg.Analyze.Endpoint = v
	}
	cfg.Analyze.APIKey = os.Getenv("AZURE_DI_KEY")

	return cfg
}

func overrideString(dst *string, key string) {
	if v := viper.GetString(key); v != "" {
		*dst = v
	}
}

func overrideInt(dst *int, key string) {
	if viper.IsSet(key) {
		*dst = viper.GetInt(key)
	}
}

// buildApp wires the full component graph from configuration
func buildApp(cfg *model.Config) (*app, error) {
	logger := newLogger()

	provider, err := llm.NewProvider(llm.ConfigFromModel(cfg.LLM))
	if err != nil {
		return nil, fmt.Errorf("completion provider: %w", err)
	}
	if provider == nil {
		return nil, fmt.Errorf("no completion provider configured (set llm.provider and OPENAI_API_KEY)")
	}

	// Throttle inside the cache so hits never wait on the rate limiter
	limiter := worker.NewLimiter(cfg.LLM.RatePerSec, cfg.LLM.RateBurst)
	provider = llm.NewThrottledProvider(provider, limiter)

	var responseCache cache.Cache
	if cfg.Cache.Enabled {
		responseCache = cache.NewLayeredCache(cfg.Cache.TTL, cfg.Cache.Dir, cfg.Cache.TTL)
		provider = llm.NewCachedProvider(provider, cfg.LLM.Model, responseCache, cfg.Cache.TTL)
	}

	var embedder retrieval.Embedder
	if cfg.Retrieval.Enabled {
		embedder = retrieval.NewOpenAIEmbedder(embeddingClient(cfg.LLM), cfg.Retrieval.EmbedModel)
	}

	var remote analyze.Analyzer
	if cfg.Analyze.Endpoint != "" {
		remote = analyze.NewClient(cfg.Analyze.Endpoint, cfg.Analyze.APIKey, cfg.Analyze.Timeout, logger)
		if responseCache != nil {
			remote = analyze.NewCachedAnalyzer(remote, responseCache, cfg.Cache.TTL)
		}
	}

	registry, err := billtype.Open(cfg.Registry.Path, logger)
	if err != nil {
		return nil, err
	}

	mlbPrompt, err := loadPrompt(cfg.LLM.MLBPrompt)
	if err != nil {
		registry.Close()
		return nil, err
	}
	slbPrompt, err := loadPrompt(cfg.LLM.SLBPrompt)
	if err != nil {
		registry.Close()
		return nil, err
	}

	pipe := pipeline.NewPipeline(
		extract.NewClient(provider, mlbPrompt, logger),
		provider,
		embedder,
		pipeline.Options{
			MaxRetries:  cfg.Pipeline.MaxRetries,
			TopK:        cfg.Retrieval.TopK,
			Concurrency: cfg.Pipeline.Concurrency,
			DebugDir:    cfg.Pipeline.DebugDir,
		},
		logger,
	)

	return &app{
		cfg:      cfg,
		logger:   logger,
		provider: provider,
		embedder: embedder,
		remote:   remote,
		local:    analyze.NewLocalAnalyzer(logger),
		registry: registry,
		archiver: archive.NewArchiver(cfg.Archive.ArchiveDir, cfg.Archive.AuditDir, cfg.Archive.OutputDir, logger),
		pipe:     pipe,
		single:   extract.NewSingleExtractor(provider, slbPrompt, logger),
	}, nil
}

func (a *app) Close() {
	if err := a.registry.Close(); err != nil {
		a.logger.WithError(err).Warn("closing account registry")
	}
}

// embeddingClient builds the OpenAI client used for embeddings, matching
// the completion provider's endpoint style
func embeddingClient(cfg model.LLMConfig) *openai.Client {
	if strings.ToLower(cfg.Provider) == "azure" {
		return openai.NewClientWithConfig(openai.DefaultAzureConfig(cfg.APIKey, cfg.BaseURL))
	}
	clientConfig := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientConfig.BaseURL = cfg.BaseURL
	}
	return openai.NewClientWithConfig(clientConfig)
}

// loadPrompt reads an instruction-prefix file once at startup
func loadPrompt(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read prompt file %s: %w", path, err)
	}
	return strings.TrimSpace(string(data)), nil
}

// analyzeBill picks the analyzer for the file type. HTML and plain-text
// bills flatten locally; PDFs need the layout-analysis service.
func (a *app) analyzeBill(ctx context.Context, path, analysisModel string) (*model.Document, error) {
	if analyze.SupportsPath(path) {
		return a.local.Analyze(ctx, path, analysisModel)
	}
	if a.remote == nil {
		return nil, fmt.Errorf("layout analysis not configured (set AZURE_DI_ENDPOINT); only HTML and text bills can be processed locally")
	}
	return a.remote.Analyze(ctx, path, analysisModel)
}

// ProcessBill runs one bill end to end: analyze, route by account, extract
// with the matching pipeline, reconcile and archive. It satisfies the
// batch worker's runner interface.
func (a *app) ProcessBill(ctx context.Context, path string) error {
	doc, err := a.analyzeBill(ctx, path, analyze.ModelInvoice)
	if err != nil {
		return fmt.Errorf("analyze %s: %w", path, err)
	}

	route, err := a.registry.Determine(ctx, doc)
	if err != nil {
		return fmt.Errorf("route %s: %w", path, err)
	}

	if route.Status == model.StatusAudit {
		outcome := model.NewValidationOutcome()
		outcome.AddError("account_number", "account not found in registry")
		res, err := a.archiver.Archive(path, doc.Fields, outcome, route.Type)
		if err != nil {
			return fmt.Errorf("archive %s: %w", path, err)
		}
		fmt.Fprintf(os.Stderr, "⚠ %s: unknown account, sent to audit (%s)\n", filepath.Base(path), res.DocumentPath)
		return nil
	}

	switch route.Type {
	case model.BillTypeSLB:
		return a.processSLB(ctx, path, doc)
	case model.BillTypeMLB:
		return a.processMLB(ctx, path, doc)
	default:
		return fmt.Errorf("unexpected bill type %q for %s", route.Type, path)
	}
}

func (a *app) processSLB(ctx context.Context, path string, doc *model.Document) error {
	result, err := a.single.Extract(ctx, doc.Content)
	if err != nil {
		return fmt.Errorf("extract %s: %w", path, err)
	}

	outcome := validate.ValidateSLB(result)
	res, err := a.archiver.Archive(path, result, outcome, model.BillTypeSLB)
	if err != nil {
		return fmt.Errorf("archive %s: %w", path, err)
	}
	reportOutcome(path, outcome, res)
	return nil
}

func (a *app) processMLB(ctx context.Context, path string, doc *model.Document) error {
	// Invoice-mode analysis carries fields but no styles; PDFs need a
	// second, layout-mode pass for the bold spans the chunker keys on
	if len(doc.Styles) == 0 && a.remote != nil && !analyze.SupportsPath(path) {
		layout, err := a.remote.Analyze(ctx, path, analyze.ModelLayout)
		if err != nil {
			return fmt.Errorf("layout analysis %s: %w", path, err)
		}
		doc = &model.Document{
			Content: layout.Content,
			Styles:  layout.Styles,
			Fields:  doc.Fields,
		}
	}

	result, err := a.pipe.ProcessMLB(ctx, doc, filepath.Base(path))
	if err != nil {
		return fmt.Errorf("process %s: %w", path, err)
	}

	res, err := a.archiver.Archive(path, result.Extraction, result.Outcome, model.BillTypeMLB)
	if err != nil {
		return fmt.Errorf("archive %s: %w", path, err)
	}
	reportOutcome(path, result.Outcome, res)
	return nil
}

func reportOutcome(path string, outcome *model.ValidationOutcome, res *archive.Result) {
	name := filepath.Base(path)
	if outcome.Valid {
		fmt.Fprintf(os.Stderr, "✓ %s: valid, archived (%s)\n", name, res.DataPath)
		return
	}
	fmt.Fprintf(os.Stderr, "✗ %s: %d validation error(s), sent to audit (%s)\n", name, len(outcome.Errors), res.DocumentPath)
	for _, e := range outcome.Errors {
		fmt.Fprintf(os.Stderr, "    %s: %s\n", e.Field, e.Error)
	}
}
