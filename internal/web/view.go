package web

import (
	"strings"

	"github.com/grecsai/grecs/internal/completion"
	"github.com/grecsai/grecs/internal/export"
	"github.com/grecsai/grecs/internal/history"
	"github.com/grecsai/grecs/internal/sectionizer"
	"github.com/grecsai/grecs/internal/study"
	"github.com/grecsai/grecs/internal/tutor"
)

// panelClass maps GRESA labels to the CSS accent of their panel.
var panelClass = map[string]string{
	sectionizer.LabelGiven:    "blue",
	sectionizer.LabelRequired: "orange",
	sectionizer.LabelEquation: "purple",
	sectionizer.LabelSolution: "yellow",
	sectionizer.LabelAnswer:   "green",
}

type panel struct {
	Title string
	Body  string
	Class string
	Open  bool
}

type modeOption struct {
	Mode     study.Mode
	Label    string
	Selected bool
}

type resultView struct {
	EntryID string
	Panels  []panel
	Error   string // generation failure text, marker stripped
	Raw     string // shown when no section was recognized
}

type indexView struct {
	Mode    study.Mode
	Label   string
	Modes   []modeOption
	Input   string
	MELC    string
	Warning string
	Result  *resultView
	Count   int
	Gated   bool
}

type historyView struct {
	Entries []history.Entry
	Gated   bool
}

type loginView struct {
	Error string
}

func newIndexView(mode study.Mode, input string, count int, gated bool) indexView {
	v := indexView{Mode: mode, Label: mode.Label(), Input: input, Count: count, Gated: gated}
	for _, m := range study.Modes {
		v.Modes = append(v.Modes, modeOption{Mode: m, Label: m.Label(), Selected: m == mode})
	}
	return v
}

func panelsFor(mode study.Mode, doc sectionizer.Document) []panel {
	out := make([]panel, 0, doc.Len())
	for i, s := range doc.Sections {
		p := panel{Title: export.Heading(mode, s.Label), Body: s.Body}
		if mode == study.ModeGRESA {
			p.Class = panelClass[s.Label]
			p.Open = true
		} else {
			p.Class = "tier"
			p.Open = i == 0
		}
		out = append(out, p)
	}
	return out
}

func newResultView(o tutor.Outcome) *resultView {
	v := &resultView{EntryID: o.Entry.ID}
	switch {
	case o.Failed:
		v.Error = strings.TrimPrefix(o.Raw, completion.ErrorMarker)
	case o.Document.Empty():
		v.Raw = o.Raw
	default:
		v.Panels = panelsFor(o.Mode, o.Document)
	}
	return v
}
