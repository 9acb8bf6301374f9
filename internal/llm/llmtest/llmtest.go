// Package llmtest provides a scripted llm.Provider for tests.
package llmtest

import (
	"context"
	"sync"

	"github.com/grecsai/grecs/internal/llm"
)

// Response is a canned reply for Provider.
type Response struct {
	Text  string
	Usage llm.Usage
	Err   error
}

// Text is shorthand for a successful canned reply.
func Text(text string) Response {
	return Response{Text: text}
}

// Provider returns canned responses in FIFO order and records all
// requests.
type Provider struct {
	mu        sync.Mutex
	responses []Response
	Calls     []llm.Request
}

// New creates a Provider with the given canned responses.
func New(responses ...Response) *Provider {
	return &Provider{responses: responses}
}

// Generate returns the next canned response or ErrProviderUnavailable if
// the queue is empty. A done context wins over the queue.
func (m *Provider) Generate(ctx context.Context, req llm.Request) (*llm.Response, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.Calls = append(m.Calls, req)

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if len(m.responses) == 0 {
		return nil, &llm.ErrProviderUnavailable{}
	}

	resp := m.responses[0]
	m.responses = m.responses[1:]

	if resp.Err != nil {
		return nil, resp.Err
	}

	model := req.Model
	if model == "" {
		model = m.ModelID()
	}
	return &llm.Response{
		Text:       resp.Text,
		Usage:      resp.Usage,
		Model:      model,
		StopReason: "end",
	}, nil
}

// ModelID returns "mock".
func (m *Provider) ModelID() string {
	return "mock"
}

// CallCount returns the number of Generate calls made.
func (m *Provider) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Calls)
}

// LastCall returns the most recent request, or false if none was made.
func (m *Provider) LastCall() (llm.Request, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.Calls) == 0 {
		return llm.Request{}, false
	}
	return m.Calls[len(m.Calls)-1], true
}
