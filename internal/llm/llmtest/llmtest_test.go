package llmtest

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/grecsai/grecs/internal/llm"
)

func TestProvider_ReturnsCannedResponses(t *testing.T) {
	mock := New(
		Response{Text: "Given:\n- x", Usage: llm.Usage{InputTokens: 10, OutputTokens: 5, TotalTokens: 15}},
		Text("Easy:\ny"),
	)

	resp1, err := mock.Generate(context.Background(), llm.UserPrompt("sys", "first"))
	require.NoError(t, err)
	assert.Equal(t, "Given:\n- x", resp1.Text)
	assert.Equal(t, 10, resp1.Usage.InputTokens)
	assert.Equal(t, "end", resp1.StopReason)
	assert.Equal(t, "mock", resp1.Model)

	resp2, err := mock.Generate(context.Background(), llm.UserPrompt("sys", "second"))
	require.NoError(t, err)
	assert.Equal(t, "Easy:\ny", resp2.Text)
}

func TestProvider_EmptyQueueReturnsError(t *testing.T) {
	mock := New()
	_, err := mock.Generate(context.Background(), llm.Request{})
	var unavail *llm.ErrProviderUnavailable
	assert.True(t, errors.As(err, &unavail), "got %T", err)
}

func TestProvider_RecordsCalls(t *testing.T) {
	mock := New(Text("ok"))

	resp, _ := mock.Generate(context.Background(), llm.Request{
		System:   "sys",
		Model:    "gpt-4o",
		Messages: []llm.Message{{Role: llm.RoleUser, Content: "hello"}},
	})
	assert.Equal(t, "gpt-4o", resp.Model)

	require.Equal(t, 1, mock.CallCount())
	last, ok := mock.LastCall()
	require.True(t, ok)
	assert.Equal(t, "sys", last.System)
	assert.Equal(t, "gpt-4o", last.Model)
}

func TestProvider_HonoursCancelledContext(t *testing.T) {
	mock := New(Text("ok"))
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := mock.Generate(ctx, llm.Request{})
	assert.ErrorIs(t, err, context.Canceled)
}
