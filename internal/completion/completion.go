// Package completion turns a prompt into reply text. Every failure is
// folded into the Result so callers can render it like any other reply.
package completion

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/grecsai/grecs/internal/llm"
	"github.com/grecsai/grecs/internal/prompt"
)

// ErrorMarker prefixes every failure message.
const ErrorMarker = "⚠️ Error: "

// Options tune a single completion.
type Options struct {
	Model       string
	Temperature float64
	MaxTokens   int
	Timeout     time.Duration
}

// DefaultOptions returns gpt-4o-mini at temperature 0.3, 800 tokens and
// a 30 second deadline.
func DefaultOptions() Options {
	return Options{
		Model:       "gpt-4o-mini",
		Temperature: 0.3,
		MaxTokens:   800,
		Timeout:     30 * time.Second,
	}
}

// OptionsFromConfig starts from DefaultOptions and takes the model and
// timeout of the configured provider.
func OptionsFromConfig(cfg llm.Config) Options {
	opts := DefaultOptions()
	opts.Model = cfg.Model()
	if cfg.Timeout > 0 {
		opts.Timeout = cfg.Timeout
	}
	return opts
}

// Result is either reply text or a marked error message, never both.
type Result struct {
	Text string
	Err  string
}

// Failed reports whether the completion produced an error message.
func (r Result) Failed() bool { return r.Err != "" }

// Output is what gets shown and recorded: the text, or the error message.
func (r Result) Output() string {
	if r.Failed() {
		return r.Err
	}
	return r.Text
}

// Client sends prompts to a Provider with the shared system prompt.
type Client struct {
	provider llm.Provider
	system   string
	logger   *slog.Logger
}

// NewClient wraps p. A nil logger discards log output.
func NewClient(p llm.Provider, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Client{provider: p, system: prompt.SystemPrompt, logger: logger}
}

// Complete sends text to the provider and waits at most opts.Timeout.
func (c *Client) Complete(ctx context.Context, text string, opts Options) Result {
	def := DefaultOptions()
	if opts.Timeout <= 0 {
		opts.Timeout = def.Timeout
	}
	if opts.MaxTokens <= 0 {
		opts.MaxTokens = def.MaxTokens
	}

	ctx, cancel := context.WithTimeout(ctx, opts.Timeout)
	defer cancel()

	req := llm.UserPrompt(c.system, text)
	req.Model = opts.Model
	req.Temperature = opts.Temperature
	req.MaxTokens = opts.MaxTokens

	start := time.Now()
	resp, err := c.provider.Generate(ctx, req)
	if err != nil {
		msg := describe(err, opts.Timeout)
		c.logger.Warn("completion failed",
			"purpose", llm.PurposeFrom(ctx),
			"model", opts.Model,
			"elapsed", time.Since(start).Round(time.Millisecond),
			"err", err)
		return Result{Err: ErrorMarker + msg}
	}

	c.logger.Debug("completion done",
		"purpose", llm.PurposeFrom(ctx),
		"model", resp.Model,
		"output_tokens", resp.Usage.OutputTokens,
		"elapsed", time.Since(start).Round(time.Millisecond))
	return Result{Text: strings.TrimSpace(resp.Text)}
}

// describe maps provider errors to a message a student can act on.
func describe(err error, timeout time.Duration) string {
	var (
		auth    *llm.ErrAuth
		rate    *llm.ErrRateLimit
		invalid *llm.ErrInvalidResponse
	)
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return fmt.Sprintf("the generation service did not answer within %s", timeout)
	case errors.Is(err, context.Canceled):
		return "the request was cancelled"
	case errors.As(err, &auth):
		return "the generation service rejected the API key"
	case errors.As(err, &rate):
		return "the generation service is busy, please try again shortly"
	case errors.As(err, &invalid):
		return "the generation service returned an unusable reply"
	default:
		return err.Error()
	}
}
