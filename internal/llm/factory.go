package llm

import (
	"context"
	"errors"
	"fmt"
	"os"
)

// ErrNoProvider is returned by NewProviderFromEnv when neither
// GRECS_LLM_PROVIDER nor a standard API key variable is set.
var ErrNoProvider = errors.New("no generation provider configured: set GRECS_LLM_PROVIDER or OPENAI_API_KEY")

// NewProvider creates a Provider from configuration, wrapped with retry
// and logging middleware. A nil eventRepo disables event logging.
func NewProvider(ctx context.Context, cfg Config, eventRepo EventRecorder) (Provider, error) {
	var base Provider
	var err error

	switch cfg.Provider {
	case "openai":
		base, err = NewOpenAIProvider(cfg.OpenAI)
	case "anthropic":
		base, err = NewAnthropicProvider(cfg.Anthropic)
	case "gemini":
		base, err = NewGeminiProvider(ctx, cfg.Gemini)
	case "openrouter":
		base, err = NewOpenRouterProvider(cfg.OpenRouter)
	case "mock":
		base = NewDemoProvider()
	default:
		return nil, fmt.Errorf("unknown LLM provider: %q", cfg.Provider)
	}
	if err != nil {
		return nil, fmt.Errorf("initializing %s provider: %w", cfg.Provider, err)
	}

	// caller → retry → logging → base
	var p Provider = base
	if eventRepo != nil {
		p = WithLogging(p, cfg.Provider, eventRepo)
	}
	return WithRetry(p, cfg.Retry), nil
}

// ResolveConfig returns the explicit GRECS_* configuration when
// GRECS_LLM_PROVIDER is set, otherwise the first discovered standard key.
func ResolveConfig() (Config, error) {
	if os.Getenv("GRECS_LLM_PROVIDER") != "" {
		cfg := ConfigFromEnv()
		return cfg, cfg.Validate()
	}
	if cfg, ok := DiscoverConfig(); ok {
		return cfg, cfg.Validate()
	}
	return Config{}, ErrNoProvider
}

// NewProviderFromEnv resolves configuration from the environment and
// builds the decorated provider.
func NewProviderFromEnv(ctx context.Context, eventRepo EventRecorder) (Provider, Config, error) {
	cfg, err := ResolveConfig()
	if err != nil {
		return nil, Config{}, err
	}
	p, err := NewProvider(ctx, cfg, eventRepo)
	if err != nil {
		return nil, Config{}, err
	}
	return p, cfg, nil
}
