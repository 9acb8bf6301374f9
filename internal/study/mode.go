package study

import "fmt"

// Mode selects which study feature handles a submission.
type Mode string

const (
	// ModeGRESA solves a worded problem in the Given/Required/Equation/
	// Solution/Answer format.
	ModeGRESA Mode = "gresa"

	// ModeConcept explains a concept at three difficulty tiers.
	ModeConcept Mode = "concept"
)

// Modes lists every mode in display order.
var Modes = []Mode{ModeGRESA, ModeConcept}

// ParseMode converts user input ("gresa", "concept") to a Mode.
func ParseMode(s string) (Mode, error) {
	switch Mode(s) {
	case ModeGRESA, ModeConcept:
		return Mode(s), nil
	}
	return "", fmt.Errorf("unknown mode: %q", s)
}

// Label returns the human-readable name of the mode.
func (m Mode) Label() string {
	switch m {
	case ModeGRESA:
		return "GRESA Mode"
	case ModeConcept:
		return "Concept Simplifier Mode"
	default:
		return string(m)
	}
}

// Placeholder is the stand-in used when a filename cannot be derived
// from the input text.
func (m Mode) Placeholder() string {
	if m == ModeConcept {
		return "Concept"
	}
	return "Problem"
}

// Slug is the short prefix used in export filenames.
func (m Mode) Slug() string {
	if m == ModeConcept {
		return "Concept"
	}
	return "GRESA"
}

// Purpose is the label attached to generation requests for logging.
func (m Mode) Purpose() string {
	return string(m)
}
