package history

import (
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/grecsai/grecs/internal/history"
	"github.com/grecsai/grecs/internal/router"
	"github.com/grecsai/grecs/internal/screen"
	"github.com/grecsai/grecs/internal/screens/result"
	"github.com/grecsai/grecs/internal/ui/layout"
	"github.com/grecsai/grecs/internal/ui/theme"
)

const inputPreviewLen = 60

// HistoryScreen lists the requests of the current session, newest first.
type HistoryScreen struct {
	ledger    *history.Ledger
	entries   []history.Entry
	selected  int
	exportDir string
}

var _ screen.Screen = (*HistoryScreen)(nil)
var _ screen.KeyHintProvider = (*HistoryScreen)(nil)

// New creates a HistoryScreen over ledger.
func New(ledger *history.Ledger, exportDir string) *HistoryScreen {
	return &HistoryScreen{ledger: ledger, exportDir: exportDir}
}

func (s *HistoryScreen) Init() tea.Cmd {
	s.entries = s.ledger.List()
	s.selected = 0
	return nil
}

func (s *HistoryScreen) Title() string {
	return "History"
}

func (s *HistoryScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "Enter", Description: "Open"},
		{Key: "↑↓", Description: "Navigate"},
		{Key: "Esc", Description: "Back"},
	}
}

func (s *HistoryScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	kmsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return s, nil
	}
	switch kmsg.String() {
	case "esc":
		return s, func() tea.Msg { return router.PopScreenMsg{} }
	case "up", "k":
		if s.selected > 0 {
			s.selected--
		}
	case "down", "j":
		if s.selected < len(s.entries)-1 {
			s.selected++
		}
	case "enter":
		if len(s.entries) == 0 {
			return s, nil
		}
		r := result.FromEntry(s.entries[s.selected], s.exportDir)
		return s, func() tea.Msg { return router.PushScreenMsg{Screen: r} }
	}
	return s, nil
}

func (s *HistoryScreen) View(width, height int) string {
	if len(s.entries) == 0 {
		return lipgloss.NewStyle().
			Width(width).Align(lipgloss.Center).Foreground(theme.TextDim).Italic(true).
			Render("\n\n  No requests yet this session.")
	}

	var b strings.Builder
	b.WriteString("\n")
	for i, e := range s.entries {
		prefix := "  "
		style := lipgloss.NewStyle().Foreground(theme.Text)
		if i == s.selected {
			prefix = "> "
			style = style.Foreground(theme.Primary).Bold(true)
		}
		line := fmt.Sprintf("%s%s  %-8s  %s",
			prefix, e.Timestamp.Format("Jan 02 15:04"), e.Mode.Slug(), preview(e.Input))
		b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, style.Render(line)))
		b.WriteString("\n")
	}
	return b.String()
}

func preview(s string) string {
	s = strings.Join(strings.Fields(s), " ")
	r := []rune(s)
	if len(r) <= inputPreviewLen {
		return s
	}
	return string(r[:inputPreviewLen-1]) + "…"
}
