package completion

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/grecsai/grecs/internal/llm"
	"github.com/grecsai/grecs/internal/llm/llmtest"
	"github.com/grecsai/grecs/internal/prompt"
)

func TestComplete_TrimsAndForwardsOptions(t *testing.T) {
	mock := llmtest.New(llmtest.Text("\n  Given:\n- x = 1\n  "))
	c := NewClient(mock, nil)

	res := c.Complete(context.Background(), "Problem: p", Options{
		Model:       "gpt-4o",
		Temperature: 0.7,
		MaxTokens:   100,
		Timeout:     time.Second,
	})

	assert.False(t, res.Failed())
	assert.Equal(t, "Given:\n- x = 1", res.Text)
	assert.Equal(t, res.Text, res.Output())

	req, ok := mock.LastCall()
	require.True(t, ok)
	assert.Equal(t, prompt.SystemPrompt, req.System)
	assert.Equal(t, "gpt-4o", req.Model)
	assert.Equal(t, 0.7, req.Temperature)
	assert.Equal(t, 100, req.MaxTokens)
	require.Len(t, req.Messages, 1)
	assert.Equal(t, "Problem: p", req.Messages[0].Content)
}

func TestComplete_FillsZeroOptions(t *testing.T) {
	mock := llmtest.New(llmtest.Text("ok"))
	c := NewClient(mock, nil)

	c.Complete(context.Background(), "x", Options{})

	req, _ := mock.LastCall()
	assert.Equal(t, 800, req.MaxTokens)
	assert.Empty(t, req.Model)
}

func TestComplete_FailuresBecomeMarkedText(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"auth", &llm.ErrAuth{Err: errors.New("401")}, "rejected the API key"},
		{"rate limit", &llm.ErrRateLimit{Err: errors.New("429")}, "busy"},
		{"invalid", &llm.ErrInvalidResponse{Err: errors.New("empty")}, "unusable reply"},
		{"unavailable", &llm.ErrProviderUnavailable{Err: errors.New("connection refused")}, "connection refused"},
		{"other", errors.New("boom"), "boom"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := NewClient(llmtest.New(llmtest.Response{Err: tt.err}), nil)
			res := c.Complete(context.Background(), "x", DefaultOptions())

			require.True(t, res.Failed())
			assert.Empty(t, res.Text)
			assert.True(t, strings.HasPrefix(res.Err, ErrorMarker), res.Err)
			assert.Contains(t, res.Err, tt.want)
			assert.Equal(t, res.Err, res.Output())
		})
	}
}

// slowProvider blocks until its context is done.
type slowProvider struct{}

func (slowProvider) Generate(ctx context.Context, _ llm.Request) (*llm.Response, error) {
	<-ctx.Done()
	return nil, ctx.Err()
}

func (slowProvider) ModelID() string { return "slow" }

func TestComplete_Timeout(t *testing.T) {
	c := NewClient(slowProvider{}, nil)

	start := time.Now()
	res := c.Complete(context.Background(), "x", Options{Timeout: 20 * time.Millisecond})

	assert.Less(t, time.Since(start), time.Second)
	require.True(t, res.Failed())
	assert.Equal(t, ErrorMarker+"the generation service did not answer within 20ms", res.Err)
}

func TestComplete_Cancelled(t *testing.T) {
	c := NewClient(slowProvider{}, nil)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	res := c.Complete(ctx, "x", DefaultOptions())
	assert.Equal(t, ErrorMarker+"the request was cancelled", res.Err)
}

func TestOptionsFromConfig(t *testing.T) {
	cfg := llm.DefaultConfig()
	cfg.Provider = "gemini"
	cfg.Timeout = 10 * time.Second

	opts := OptionsFromConfig(cfg)
	assert.Equal(t, "gemini-flash", opts.Model)
	assert.Equal(t, 10*time.Second, opts.Timeout)
	assert.Equal(t, 0.3, opts.Temperature)
	assert.Equal(t, 800, opts.MaxTokens)
}
