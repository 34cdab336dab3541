package llm

import (
	"context"
	"time"
)

// Provider defines the interface for completion services.
// A Provider turns a prompt into a text answer; transport and auth failures
// surface as a ServiceError and are never retried here — retry policy for
// accuracy-level corrections lives in the reconciler, not in the transport.
type Provider interface {
	// Name returns the provider name
	Name() string

	// Complete sends a prompt and returns the raw answer text. When
	// forceJSON is set the service is asked for a JSON-shaped response.
	Complete(ctx context.Context, prompt string, forceJSON bool) (string, error)

	// IsAvailable checks if the provider is properly configured and accessible
	IsAvailable(ctx context.Context) bool
}

// Config holds completion provider configuration
type Config struct {
	// Provider name: "openai", "azure", ""
	Provider string

	// Model name (doubles as the deployment name on Azure)
	Model string

	// APIKey for the service
	APIKey string

	// BaseURL for custom endpoints (required for Azure)
	BaseURL string

	// Timeout for API requests
	Timeout time.Duration

	// MaxTokens for response generation
	MaxTokens int
}

// DefaultConfig returns sensible defaults
func DefaultConfig() Config {
	return Config{
		Provider:  "", // Disabled by default
		Model:     "gpt-4o-mini",
		Timeout:   60 * time.Second,
		MaxTokens: 4096,
	}
}
