package result

import (
	"os"
	"path/filepath"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/grecsai/grecs/internal/completion"
	"github.com/grecsai/grecs/internal/export"
	"github.com/grecsai/grecs/internal/history"
	"github.com/grecsai/grecs/internal/router"
	"github.com/grecsai/grecs/internal/screen"
	"github.com/grecsai/grecs/internal/sectionizer"
	"github.com/grecsai/grecs/internal/study"
	"github.com/grecsai/grecs/internal/tutor"
	"github.com/grecsai/grecs/internal/ui/components"
	"github.com/grecsai/grecs/internal/ui/layout"
	"github.com/grecsai/grecs/internal/ui/theme"
)

// exportedMsg reports the outcome of a text export.
type exportedMsg struct {
	Path string
	Err  error
}

// ResultScreen shows one answer as collapsible panels.
type ResultScreen struct {
	entry     history.Entry
	panels    components.Panels
	errText   string
	raw       string
	exportDir string
	status    string
}

var _ screen.Screen = (*ResultScreen)(nil)
var _ screen.KeyHintProvider = (*ResultScreen)(nil)

// New shows a fresh outcome.
func New(o tutor.Outcome, exportDir string) *ResultScreen {
	return build(o.Entry, o.Document.Sections, o.Failed, exportDir)
}

// FromEntry shows a ledger entry, re-sectioning its stored response.
func FromEntry(e history.Entry, exportDir string) *ResultScreen {
	doc := export.FromEntry(e)
	return build(e, doc.Sections, strings.HasPrefix(e.Response, completion.ErrorMarker), exportDir)
}

func build(e history.Entry, sections []sectionizer.Section, failed bool, exportDir string) *ResultScreen {
	s := &ResultScreen{entry: e, exportDir: exportDir}
	switch {
	case failed:
		s.errText = strings.TrimPrefix(e.Response, completion.ErrorMarker)
	case len(sections) == 0:
		s.raw = e.Response
	default:
		s.panels = Panels(e.Mode, sections)
	}
	return s
}

// Panels converts sections to panels. The first panel starts expanded.
func Panels(mode study.Mode, sections []sectionizer.Section) components.Panels {
	items := make([]components.Panel, len(sections))
	for i, sec := range sections {
		accent := theme.Secondary
		if mode == study.ModeGRESA {
			accent = theme.SectionColor(sec.Label)
		}
		items[i] = components.Panel{
			Title:    export.Heading(mode, sec.Label),
			Body:     sec.Body,
			Accent:   accent,
			Expanded: i == 0,
		}
	}
	return components.Panels{Items: items}
}

func (s *ResultScreen) Init() tea.Cmd {
	return nil
}

func (s *ResultScreen) Title() string {
	return s.entry.Mode.Label()
}

func (s *ResultScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "↑↓", Description: "Navigate"},
		{Key: "Enter", Description: "Toggle"},
		{Key: "A", Description: "Expand all"},
		{Key: "E", Description: "Export"},
		{Key: "Esc", Description: "Back"},
	}
}

func (s *ResultScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case exportedMsg:
		if msg.Err != nil {
			s.status = "Export failed: " + msg.Err.Error()
		} else {
			s.status = "Saved " + msg.Path
		}
		return s, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "esc":
			return s, func() tea.Msg { return router.PopScreenMsg{} }
		case "up", "k":
			s.panels.Prev()
		case "down", "j":
			s.panels.Next()
		case "enter", "space":
			s.panels.Toggle()
		case "a":
			s.panels.ExpandAll()
		case "e":
			return s, s.export()
		}
	}
	return s, nil
}

func (s *ResultScreen) export() tea.Cmd {
	e, dir := s.entry, s.exportDir
	return func() tea.Msg {
		path := filepath.Join(dir, export.Filename(e.Mode, e.Input, "txt"))
		err := os.WriteFile(path, []byte(export.Text(e.Mode, e.Input, e.Response, e.Timestamp)), 0o644)
		return exportedMsg{Path: path, Err: err}
	}
}

func (s *ResultScreen) View(width, height int) string {
	cw := width - 4
	if cw > 100 {
		cw = 100
	}

	var b strings.Builder
	b.WriteString(theme.Hint.Render(s.entry.Input))
	b.WriteString("\n\n")

	switch {
	case s.errText != "":
		b.WriteString(theme.ErrorText.Render(completion.ErrorMarker + s.errText))
		b.WriteString("\n")
	case s.raw != "":
		b.WriteString(theme.Body.Width(cw).Render(s.raw))
		b.WriteString("\n")
	default:
		b.WriteString(s.panels.View(cw))
	}

	if s.status != "" {
		b.WriteString("\n")
		b.WriteString(lipgloss.NewStyle().Foreground(theme.TextDim).Render(s.status))
	}
	return lipgloss.PlaceHorizontal(width, lipgloss.Center, b.String())
}
