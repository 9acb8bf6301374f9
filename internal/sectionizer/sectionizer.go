// Package sectionizer turns free-form model output into labeled sections.
//
// Parsing never fails: missing labels are absent from the result, text
// before the first label is dropped, and an error message from the
// generation step simply yields an empty document.
package sectionizer

import (
	"regexp"
	"strings"
)

// markupPattern matches math markup the model may emit despite being told
// to use plain text: \text{...} macros, \approx, other backslash command
// words, and dollar-sign delimiters.
var markupPattern = regexp.MustCompile(`\\text\{.*?\}|\\approx|\\[a-zA-Z]+|\$+`)

var (
	gresaLexer   = newLexer(GresaLabels, false)
	conceptLexer = newLexer(ConceptTiers, true)
)

// StripMarkup removes residual math markup from text.
func StripMarkup(text string) string {
	return markupPattern.ReplaceAllString(text, "")
}

type scanState int

const (
	stateSeekingLabel scanState = iota // no label seen yet; text is discarded
	stateInSection                     // text belongs to the current label
)

// ParseGresa extracts the Given, Required, Equation, Solution and Answer
// sections. Labels are matched case-sensitively. A repeated label extends
// its earlier body.
func ParseGresa(raw string) Document {
	tokens := gresaLexer.Tokens(StripMarkup(raw))

	bodies := make(map[string]*strings.Builder, len(GresaLabels))
	state := stateSeekingLabel
	var current string

	for _, tok := range tokens {
		switch tok.Kind {
		case tokenLabel:
			current = tok.Value
			state = stateInSection
			if _, ok := bodies[current]; !ok {
				bodies[current] = &strings.Builder{}
			}
		case tokenText:
			if state != stateInSection {
				continue
			}
			b := bodies[current]
			b.WriteString(strings.TrimSpace(tok.Value))
			b.WriteString("\n")
		}
	}

	return assemble(GresaLabels, func(label string) string {
		if b, ok := bodies[label]; ok {
			return b.String()
		}
		return ""
	})
}

// ParseConcept extracts the Easy, Intermediate and Advanced tiers. Labels
// are matched case-insensitively. Each tier's body runs from its first
// label to the next tier label of any kind, or the end of the text.
func ParseConcept(raw string) Document {
	tokens := conceptLexer.Tokens(raw)

	bodies := make(map[string]string, len(ConceptTiers))
	for i, tok := range tokens {
		if tok.Kind != tokenLabel {
			continue
		}
		if _, seen := bodies[tok.Value]; seen {
			continue
		}
		var body string
		if i+1 < len(tokens) && tokens[i+1].Kind == tokenText {
			body = tokens[i+1].Value
		}
		bodies[tok.Value] = body
	}

	return assemble(ConceptTiers, func(label string) string {
		return bodies[label]
	})
}

func assemble(order []string, body func(string) string) Document {
	var doc Document
	for _, label := range order {
		text := strings.TrimSpace(body(label))
		if text == "" {
			continue
		}
		doc.Sections = append(doc.Sections, Section{Label: label, Body: text})
	}
	return doc
}
