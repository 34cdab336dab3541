package model

import "time"

// Config is the full runtime configuration, loaded once per run and
// immutable thereafter. Components receive the sections they need through
// their constructors; nothing reads ambient global state.
type Config struct {
	Analyze   AnalyzeConfig   `yaml:"analyze"`
	LLM       LLMConfig       `yaml:"llm"`
	Retrieval RetrievalConfig `yaml:"retrieval"`
	Pipeline  PipelineConfig  `yaml:"pipeline"`
	Registry  RegistryConfig  `yaml:"registry"`
	Archive   ArchiveConfig   `yaml:"archive"`
	Cache     CacheConfig     `yaml:"cache"`
	Output    OutputConfig    `yaml:"output"`
}

// AnalyzeConfig configures the layout-analysis collaborator
type AnalyzeConfig struct {
	Endpoint string        `yaml:"endpoint"`
	APIKey   string        `yaml:"-"` // env only, never written to disk
	Timeout  time.Duration `yaml:"timeout"`
}

// LLMConfig configures the completion collaborator
type LLMConfig struct {
	Provider    string        `yaml:"provider"` // "openai" or "" (disabled)
	Model       string        `yaml:"model"`
	APIKey      string        `yaml:"-"`
	BaseURL     string        `yaml:"base_url,omitempty"`
	Timeout     time.Duration `yaml:"timeout"`
	MaxTokens   int           `yaml:"max_tokens"`
	RatePerSec  float64       `yaml:"rate_per_sec"`
	RateBurst   int           `yaml:"rate_burst"`
	MLBPrompt   string        `yaml:"mlb_prompt"` // prompt file path
	SLBPrompt   string        `yaml:"slb_prompt"`
}

// RetrievalConfig configures the retrieval collaborator used for
// reconciliation queries
type RetrievalConfig struct {
	Enabled    bool   `yaml:"enabled"`
	EmbedModel string `yaml:"embed_model"`
	TopK       int    `yaml:"top_k"`
}

// PipelineConfig tunes the extraction pipeline itself
type PipelineConfig struct {
	MaxRetries  int    `yaml:"max_retries"` // reconciliation retry budget per check
	Concurrency int    `yaml:"concurrency"` // parallel chunk extractions (1 = sequential)
	DebugDir    string `yaml:"debug_dir,omitempty"`
}

// RegistryConfig locates the account registry used for bill-type routing
type RegistryConfig struct {
	Path string `yaml:"path"` // SQLite database file
}

// ArchiveConfig locates the archive directories
type ArchiveConfig struct {
	ArchiveDir string `yaml:"archive_dir"`
	AuditDir   string `yaml:"audit_dir"`
	OutputDir  string `yaml:"output_dir"`
}

// CacheConfig controls collaborator-response caching
type CacheConfig struct {
	Enabled bool          `yaml:"enabled"`
	Dir     string        `yaml:"dir"`
	TTL     time.Duration `yaml:"ttl"`
}

// OutputConfig controls CLI output behavior
type OutputConfig struct {
	Verbose bool `yaml:"verbose"`
}

// DefaultConfig returns sensible defaults
func DefaultConfig() *Config {
	return &Config{
		Analyze: AnalyzeConfig{
			Timeout: 2 * time.Minute,
		},
		LLM: LLMConfig{
			Provider:   "openai",
			Model:      "gpt-4o-mini",
			Timeout:    60 * time.Second,
			MaxTokens:  4096,
			RatePerSec: 2,
			RateBurst:  4,
			MLBPrompt:  "prompts/mlb_prompt.txt",
			SLBPrompt:  "prompts/slb_prompt.txt",
		},
		Retrieval: RetrievalConfig{
			Enabled:    true,
			EmbedModel: "text-embedding-3-small",
			TopK:       15,
		},
		Pipeline: PipelineConfig{
			MaxRetries:  2,
			Concurrency: 1,
		},
		Registry: RegistryConfig{
			Path: "data/accounts.db",
		},
		Archive: ArchiveConfig{
			ArchiveDir: "data/archive",
			AuditDir:   "data/audit",
			OutputDir:  "data/output",
		},
		Cache: CacheConfig{
			Enabled: true,
			Dir:     ".billscan-cache",
			TTL:     24 * time.Hour,
		},
	}
}
