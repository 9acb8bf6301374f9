// Package validator holds the heuristic gates that decide whether a
// submission is worth a generation call. False positives and negatives
// are acceptable; the checks only filter obviously malformed input.
package validator

import (
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"
)

// MinProblemLength is the minimum trimmed length, in characters, of a
// worded problem.
const MinProblemLength = 15

// MaxConceptWords is the maximum number of whitespace-separated tokens in
// a concept query.
const MaxConceptWords = 10

// Units is the whitelist of measurement unit tokens accepted as evidence
// of a quantitative problem.
var Units = []string{
	"m/s²", "m/s^2", "m/s", "km/h", "N·m", "N*m", "J/s",
	"°C", "°F",
	"km", "cm", "mm", "m",
	"kg", "mg", "g",
	"min", "ms", "s", "h",
	"kJ", "kW", "kPa",
	"N", "J", "W", "A", "V", "Hz", "K", "mol", "Pa", "mL", "L",
}

var (
	numeralPattern = regexp.MustCompile(`\d+(\.\d+)?`)
	unitPattern    = buildUnitPattern(Units)
)

// buildUnitPattern matches any unit as a whole word: bounded by the text
// edges or by characters that are neither letters nor digits.
func buildUnitPattern(units []string) *regexp.Regexp {
	quoted := make([]string, len(units))
	for i, u := range units {
		quoted[i] = regexp.QuoteMeta(u)
	}
	return regexp.MustCompile(`(?:^|[^\p{L}\p{N}])(?:` + strings.Join(quoted, "|") + `)(?:$|[^\p{L}\p{N}])`)
}

// ValidationError describes why a submission was rejected.
type ValidationError struct {
	Check   string // Name of the check that failed
	Message string // Human-readable description shown to the user
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("check %q: %s", e.Check, e.Message)
}

// Check inspects raw user text before it is sent for generation.
type Check interface {
	// Name returns a short identifier, e.g. "problem" or "concept".
	Name() string

	// Check returns nil if the text passes.
	Check(text string) *ValidationError
}

// ProblemCheck accepts worded problems: long enough, phrased as a
// question, and carrying a number or a unit.
type ProblemCheck struct{}

func (ProblemCheck) Name() string { return "problem" }

func (c ProblemCheck) Check(text string) *ValidationError {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return &ValidationError{
			Check:   c.Name(),
			Message: "Please enter a worded problem or upload an image of the worded problem first.",
		}
	}
	if utf8.RuneCountInString(trimmed) < MinProblemLength {
		return &ValidationError{
			Check:   c.Name(),
			Message: fmt.Sprintf("The problem is too short; write at least %d characters.", MinProblemLength),
		}
	}
	if !strings.Contains(trimmed, "?") {
		return &ValidationError{
			Check:   c.Name(),
			Message: "The problem should ask a question (include a question mark).",
		}
	}
	if !numeralPattern.MatchString(trimmed) && !unitPattern.MatchString(trimmed) {
		return &ValidationError{
			Check:   c.Name(),
			Message: "The problem should include a number or a unit of measurement.",
		}
	}
	return nil
}

// ConceptCheck accepts short topic phrases.
type ConceptCheck struct{}

func (ConceptCheck) Name() string { return "concept" }

func (c ConceptCheck) Check(text string) *ValidationError {
	words := len(strings.Fields(text))
	if words == 0 {
		return &ValidationError{
			Check:   c.Name(),
			Message: "Please enter a concept or topic first.",
		}
	}
	if words > MaxConceptWords {
		return &ValidationError{
			Check:   c.Name(),
			Message: fmt.Sprintf("Keep the concept to %d words or fewer.", MaxConceptWords),
		}
	}
	return nil
}

// CheckProblem runs ProblemCheck.
func CheckProblem(text string) *ValidationError {
	return ProblemCheck{}.Check(text)
}

// CheckConcept runs ConceptCheck.
func CheckConcept(text string) *ValidationError {
	return ConceptCheck{}.Check(text)
}

// ValidateProblem reports whether text looks like a well-formed worded
// problem.
func ValidateProblem(text string) bool {
	return CheckProblem(text) == nil
}

// ValidateConcept reports whether text looks like a concept query.
func ValidateConcept(text string) bool {
	return CheckConcept(text) == nil
}
