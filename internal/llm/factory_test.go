package llm

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nmcnair22/billscan/internal/model"
)

func TestNewProvider_OpenAI(t *testing.T) {
	config := DefaultConfig()
	config.Provider = "openai"
	config.APIKey = "test-key"

	provider, err := NewProvider(config)
	require.NoError(t, err)
	require.NotNil(t, provider)
	assert.Equal(t, "openai", provider.Name())
}

func TestNewProvider_OpenAIRequiresKey(t *testing.T) {
	config := DefaultConfig()
	config.Provider = "openai"

	_, err := NewProvider(config)
	assert.Error(t, err)
}

func TestNewProvider_Azure(t *testing.T) {
	config := DefaultConfig()
	config.Provider = "azure"
	config.APIKey = "test-key"
	config.BaseURL = "https://example.openai.azure.com"

	provider, err := NewProvider(config)
	require.NoError(t, err)
	assert.Equal(t, "azure", provider.Name())
}

func TestNewProvider_AzureRequiresEndpoint(t *testing.T) {
	config := DefaultConfig()
	config.Provider = "azure"
	config.APIKey = "test-key"

	_, err := NewProvider(config)
	assert.Error(t, err)
}

func TestNewProvider_EmptyDisables(t *testing.T) {
	provider, err := NewProvider(DefaultConfig())
	require.NoError(t, err)
	assert.Nil(t, provider)
}

func TestNewProvider_Unknown(t *testing.T) {
	config := DefaultConfig()
	config.Provider = "parrot"

	_, err := NewProvider(config)
	assert.Error(t, err)
}

func TestConfigFromModel(t *testing.T) {
	mc := model.LLMConfig{
		Provider:  "openai",
		Model:     "gpt-4o",
		APIKey:    "k",
		BaseURL:   "https://example",
		Timeout:   30 * time.Second,
		MaxTokens: 2048,
	}

	c := ConfigFromModel(mc)
	assert.Equal(t, "openai", c.Provider)
	assert.Equal(t, "gpt-4o", c.Model)
	assert.Equal(t, "k", c.APIKey)
	assert.Equal(t, "https://example", c.BaseURL)
	assert.Equal(t, 30*time.Second, c.Timeout)
	assert.Equal(t, 2048, c.MaxTokens)
}

func TestStripCodeFences(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"```json\n{\"found\": true}\n```", `{"found": true}`},
		{"```\n{}\n```", "{}"},
		{`{"plain": 1}`, `{"plain": 1}`},
		{"  {\"padded\": 1}  ", `{"padded": 1}`},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, StripCodeFences(tt.input))
	}
}
