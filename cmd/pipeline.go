package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/grecsai/grecs/internal/completion"
	"github.com/grecsai/grecs/internal/llm"
	"github.com/grecsai/grecs/internal/logging"
	"github.com/grecsai/grecs/internal/store"
	"github.com/grecsai/grecs/internal/tutor"
)

// demoNotice is shown wherever canned answers stand in for a provider.
const demoNotice = "No generation provider configured: answers are canned examples. Set OPENAI_API_KEY or GRECS_LLM_PROVIDER."

// newLogger builds the process logger on stderr.
func newLogger() *slog.Logger {
	return logging.New(os.Stderr, logging.ConfigFromEnv())
}

// newTutor resolves the generation provider and wires the pipeline. When
// no provider is configured it falls back to the demo provider and
// returns a notice for the user.
func newTutor(ctx context.Context, events store.EventRepo, logger *slog.Logger) (*tutor.Service, string, error) {
	provider, cfg, err := llm.NewProviderFromEnv(ctx, events)
	notice := ""
	switch {
	case errors.Is(err, llm.ErrNoProvider):
		cfg = llm.DefaultConfig()
		cfg.Provider = "mock"
		provider, err = llm.NewProvider(ctx, cfg, events)
		if err != nil {
			return nil, "", fmt.Errorf("demo provider: %w", err)
		}
		notice = demoNotice
	case err != nil:
		return nil, "", fmt.Errorf("generation provider: %w", err)
	}
	if cfg.Provider == "mock" {
		notice = demoNotice
	}

	logger.Debug("generation provider ready", "provider", cfg.Provider, "model", provider.ModelID())
	client := completion.NewClient(provider, logger)
	return tutor.NewService(client, completion.OptionsFromConfig(cfg), logger), notice, nil
}
