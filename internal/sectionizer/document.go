package sectionizer

// GRESA section labels in display order.
const (
	LabelGiven    = "Given"
	LabelRequired = "Required"
	LabelEquation = "Equation"
	LabelSolution = "Solution"
	LabelAnswer   = "Answer"
)

// Concept Simplifier tier labels in display order.
const (
	TierEasy         = "Easy"
	TierIntermediate = "Intermediate"
	TierAdvanced     = "Advanced"
)

// GresaLabels lists the five GRESA sections in display order.
var GresaLabels = []string{LabelGiven, LabelRequired, LabelEquation, LabelSolution, LabelAnswer}

// ConceptTiers lists the three explanation tiers in display order.
var ConceptTiers = []string{TierEasy, TierIntermediate, TierAdvanced}

// Section is one labeled block of a parsed response.
type Section struct {
	Label string `json:"label"`
	Body  string `json:"body"`
}

// Document is a parsed response: the labeled sections that were present,
// in fixed display order. Labels whose body is empty are never included.
type Document struct {
	Sections []Section `json:"sections"`
}

// Get returns the body for label.
func (d Document) Get(label string) (string, bool) {
	for _, s := range d.Sections {
		if s.Label == label {
			return s.Body, true
		}
	}
	return "", false
}

// Labels returns the labels present in the document, in order.
func (d Document) Labels() []string {
	out := make([]string, len(d.Sections))
	for i, s := range d.Sections {
		out[i] = s.Label
	}
	return out
}

// Len returns the number of sections.
func (d Document) Len() int {
	return len(d.Sections)
}

// Empty reports whether no section was recognized.
func (d Document) Empty() bool {
	return len(d.Sections) == 0
}
