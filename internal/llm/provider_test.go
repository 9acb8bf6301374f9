package llm

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/grecsai/grecs/internal/store"
)

func TestDemoProvider_ShapesByPurpose(t *testing.T) {
	p := NewDemoProvider()

	resp, err := p.Generate(WithPurpose(context.Background(), "gresa"), UserPrompt("", "Problem: x"))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(resp.Text, "Given:"))

	resp, err = p.Generate(WithPurpose(context.Background(), "concept"), UserPrompt("", "Concept/Topic: x"))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(resp.Text, "Easy:"))
	assert.Positive(t, resp.Usage.TotalTokens)
}

func TestPurposeContext(t *testing.T) {
	ctx := context.Background()
	assert.Equal(t, "unknown", PurposeFrom(ctx))

	ctx = WithPurpose(ctx, "concept")
	assert.Equal(t, "concept", PurposeFrom(ctx))
}

type recorder struct {
	events []store.LLMRequestEventData
	err    error
}

func (r *recorder) AppendLLMRequest(_ context.Context, data store.LLMRequestEventData) error {
	r.events = append(r.events, data)
	return r.err
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{"openai without key", Config{Provider: "openai", Timeout: time.Second}, true},
		{"openai with key", Config{Provider: "openai", OpenAI: OpenAIConfig{APIKey: "sk-test"}, Timeout: time.Second}, false},
		{"anthropic without key", Config{Provider: "anthropic", Timeout: time.Second}, true},
		{"gemini with key", Config{Provider: "gemini", Gemini: GeminiConfig{APIKey: "k"}, Timeout: time.Second}, false},
		{"openrouter without key", Config{Provider: "openrouter", Timeout: time.Second}, true},
		{"mock needs no key", Config{Provider: "mock", Timeout: time.Second}, false},
		{"zero timeout", Config{Provider: "mock"}, true},
		{"unknown provider", Config{Provider: "unknown", Timeout: time.Second}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Fatalf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func clearProviderEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{
		"GRECS_LLM_PROVIDER", "GRECS_LLM_TIMEOUT",
		"GRECS_OPENAI_API_KEY", "GRECS_OPENAI_MODEL", "GRECS_OPENAI_BASE_URL",
		"OPENAI_API_KEY", "GEMINI_API_KEY", "ANTHROPIC_API_KEY", "OPENROUTER_API_KEY",
	} {
		t.Setenv(k, "")
	}
}

func TestConfigFromEnv(t *testing.T) {
	clearProviderEnv(t)
	t.Setenv("GRECS_LLM_PROVIDER", "openai")
	t.Setenv("GRECS_OPENAI_API_KEY", "sk-env")
	t.Setenv("GRECS_OPENAI_MODEL", "gpt-4o")
	t.Setenv("GRECS_OPENAI_BASE_URL", "http://localhost:8080/v1")
	t.Setenv("GRECS_LLM_TIMEOUT", "5s")

	cfg := ConfigFromEnv()
	assert.Equal(t, "openai", cfg.Provider)
	assert.Equal(t, "sk-env", cfg.OpenAI.APIKey)
	assert.Equal(t, "gpt-4o", cfg.Model())
	assert.Equal(t, "http://localhost:8080/v1", cfg.OpenAI.BaseURL)
	assert.Equal(t, 5*time.Second, cfg.Timeout)
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	assert.Equal(t, "openai", cfg.Provider)
	assert.Equal(t, "gpt-4o-mini", cfg.Model())
	assert.Equal(t, 30*time.Second, cfg.Timeout)
}

func TestResolveConfig(t *testing.T) {
	t.Run("nothing set", func(t *testing.T) {
		clearProviderEnv(t)
		_, err := ResolveConfig()
		assert.ErrorIs(t, err, ErrNoProvider)
	})

	t.Run("discovers standard key", func(t *testing.T) {
		clearProviderEnv(t)
		t.Setenv("GEMINI_API_KEY", "g-key")
		cfg, err := ResolveConfig()
		require.NoError(t, err)
		assert.Equal(t, "gemini", cfg.Provider)
	})

	t.Run("openai wins discovery", func(t *testing.T) {
		clearProviderEnv(t)
		t.Setenv("GEMINI_API_KEY", "g-key")
		t.Setenv("OPENAI_API_KEY", "o-key")
		cfg, err := ResolveConfig()
		require.NoError(t, err)
		assert.Equal(t, "openai", cfg.Provider)
	})

	t.Run("explicit provider", func(t *testing.T) {
		clearProviderEnv(t)
		t.Setenv("OPENAI_API_KEY", "o-key")
		t.Setenv("GRECS_LLM_PROVIDER", "mock")
		cfg, err := ResolveConfig()
		require.NoError(t, err)
		assert.Equal(t, "mock", cfg.Provider)
	})
}

func TestNewProvider_Mock(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Provider = "mock"
	rec := &recorder{}

	p, err := NewProvider(context.Background(), cfg, nil)
	require.NoError(t, err)
	assert.Equal(t, "mock", p.ModelID())

	p, err = NewProvider(context.Background(), cfg, rec)
	require.NoError(t, err)
	_, err = p.Generate(WithPurpose(context.Background(), "gresa"), UserPrompt("", "x"))
	require.NoError(t, err)
	assert.Len(t, rec.events, 1)
}

func TestNewProvider_Unknown(t *testing.T) {
	_, err := NewProvider(context.Background(), Config{Provider: "nope"}, nil)
	assert.Error(t, err)
}
