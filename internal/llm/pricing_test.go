package llm

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLookupCost(t *testing.T) {
	tests := []struct {
		model string
		found bool
		input float64
	}{
		{"gpt-4o-mini", true, 0.15},
		{"gpt-4o-mini-2024-07-18", true, 0.15},
		{"openai/gpt-4o-mini", true, 0.15},
		{"claude-haiku-4-5-20251001", true, 1},
		{"gemini-2.0-flash", true, 0.1},
		{"mock", false, 0},
		{"", false, 0},
	}

	for _, tt := range tests {
		t.Run(tt.model, func(t *testing.T) {
			c := LookupCost(tt.model)
			if !tt.found {
				assert.Nil(t, c)
				return
			}
			require.NotNil(t, c)
			assert.Equal(t, tt.input, c.InputPerMTok)
		})
	}
}

func TestModelCost_Cost(t *testing.T) {
	c := ModelCost{InputPerMTok: 0.15, OutputPerMTok: 0.6}
	assert.InDelta(t, 0.00075, c.Cost(1000, 1000), 1e-9)
}
