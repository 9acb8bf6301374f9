// Package export renders a study result as a downloadable file.
package export

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/grecsai/grecs/internal/history"
	"github.com/grecsai/grecs/internal/sectionizer"
	"github.com/grecsai/grecs/internal/study"
)

// MaxStemLength caps the sanitized input part of a filename.
const MaxStemLength = 30

// DateLayout is the timestamp format of the Date: header.
const DateLayout = "2006-01-02 15:04:05"

var nonAlnum = regexp.MustCompile(`[^A-Za-z0-9]+`)

// Document is everything an export needs.
type Document struct {
	Mode     study.Mode
	Input    string
	Response string
	At       time.Time
	Sections []sectionizer.Section
}

// FromEntry builds a Document from a ledger entry, re-sectioning the
// stored response.
func FromEntry(e history.Entry) Document {
	doc := Document{Mode: e.Mode, Input: e.Input, Response: e.Response, At: e.Timestamp}
	if e.Mode == study.ModeConcept {
		doc.Sections = sectionizer.ParseConcept(e.Response).Sections
	} else {
		doc.Sections = sectionizer.ParseGresa(e.Response).Sections
	}
	return doc
}

// Stem sanitizes input for use in a filename: every run of characters
// other than ASCII letters and digits becomes one underscore, the result
// is cut to MaxStemLength, and an empty result falls back to the mode's
// placeholder. Input made only of symbols keeps its single underscore.
func Stem(mode study.Mode, input string) string {
	s := nonAlnum.ReplaceAllString(input, "_")
	if len(s) > MaxStemLength {
		s = s[:MaxStemLength]
	}
	if s == "" {
		return mode.Placeholder()
	}
	return s
}

// Filename returns "<Slug>_<stem>.<ext>", e.g. "GRESA_A_car_travels.txt".
func Filename(mode study.Mode, input, ext string) string {
	return fmt.Sprintf("%s_%s.%s", mode.Slug(), Stem(mode, input), strings.TrimPrefix(ext, "."))
}

// Text renders the plain-text export.
func Text(mode study.Mode, input, response string, at time.Time) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Mode: %s\n", mode.Label())
	fmt.Fprintf(&b, "Date: %s\n", at.Format(DateLayout))
	fmt.Fprintf(&b, "Input: %s\n", input)
	b.WriteString("\n")
	b.WriteString("Response:\n")
	b.WriteString(response)
	b.WriteString("\n")
	return b.String()
}

// Text renders d as the plain-text export.
func (d Document) Text() string {
	return Text(d.Mode, d.Input, d.Response, d.At)
}
