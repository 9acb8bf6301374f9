package sectionizer

import (
	"regexp"
	"strings"
)

type tokenKind int

const (
	tokenText tokenKind = iota
	tokenLabel
)

// token is either a recognized label (Value holds the canonical label
// without the colon) or the text between labels.
type token struct {
	Kind  tokenKind
	Value string
}

// lexer splits text on a fixed set of "Label:" delimiters, keeping the
// delimiters as tokens.
type lexer struct {
	pattern *regexp.Regexp
	labels  []string
	fold    bool
}

func newLexer(labels []string, fold bool) *lexer {
	quoted := make([]string, len(labels))
	for i, l := range labels {
		quoted[i] = regexp.QuoteMeta(l + ":")
	}
	expr := "(?:" + strings.Join(quoted, "|") + ")"
	if fold {
		expr = "(?i)" + expr
	}
	return &lexer{
		pattern: regexp.MustCompile(expr),
		labels:  labels,
		fold:    fold,
	}
}

// Tokens returns the alternating sequence of text and label tokens.
// Text tokens may be empty when two labels are adjacent.
func (l *lexer) Tokens(text string) []token {
	var out []token
	pos := 0
	for _, loc := range l.pattern.FindAllStringIndex(text, -1) {
		out = append(out, token{Kind: tokenText, Value: text[pos:loc[0]]})
		out = append(out, token{Kind: tokenLabel, Value: l.canonical(text[loc[0]:loc[1]])})
		pos = loc[1]
	}
	out = append(out, token{Kind: tokenText, Value: text[pos:]})
	return out
}

func (l *lexer) canonical(match string) string {
	name := strings.TrimSuffix(match, ":")
	if !l.fold {
		return name
	}
	for _, label := range l.labels {
		if strings.EqualFold(label, name) {
			return label
		}
	}
	return name
}
