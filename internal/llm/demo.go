package llm

import (
	"context"
	"strings"
)

const demoGresa = `Given:
- The values stated in the problem
Required:
- The unknown quantity
Equation:
answer = given relationship
Solution:
Step 1: Substitute the given values.
Step 2: Simplify.
Answer:
This is an offline demo reply. Configure a provider key for real solutions.`

const demoConcept = `Easy:
A short everyday explanation of the topic.
What would you notice first if you observed it?
Intermediate:
The main idea with the usual vocabulary.
How does each part affect the result?
Advanced:
The formal description and its limits.
When does the simple picture stop working?`

// DemoProvider answers offline with a fixed reply shaped like the
// requested mode. Selected with GRECS_LLM_PROVIDER=mock.
type DemoProvider struct{}

// NewDemoProvider returns the offline provider.
func NewDemoProvider() *DemoProvider { return &DemoProvider{} }

func (DemoProvider) Generate(ctx context.Context, req Request) (*Response, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	text := demoGresa
	if PurposeFrom(ctx) == "concept" {
		text = demoConcept
	}

	in := 0
	for _, m := range req.Messages {
		in += len(strings.Fields(m.Content))
	}
	out := len(strings.Fields(text))

	return &Response{
		Text:       text,
		Usage:      Usage{InputTokens: in, OutputTokens: out, TotalTokens: in + out},
		Model:      "mock",
		StopReason: "end",
	}, nil
}

func (DemoProvider) ModelID() string { return "mock" }
