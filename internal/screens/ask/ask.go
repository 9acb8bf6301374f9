package ask

import (
	"context"
	"strings"
	"time"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/grecsai/grecs/internal/router"
	"github.com/grecsai/grecs/internal/screen"
	"github.com/grecsai/grecs/internal/screens/result"
	"github.com/grecsai/grecs/internal/session"
	"github.com/grecsai/grecs/internal/study"
	"github.com/grecsai/grecs/internal/tutor"
	"github.com/grecsai/grecs/internal/ui/components"
	"github.com/grecsai/grecs/internal/ui/layout"
	"github.com/grecsai/grecs/internal/ui/theme"
)

// Asker runs one study request. *tutor.Service implements it.
type Asker interface {
	Ask(ctx context.Context, sess *session.Context, mode study.Mode, text, melc string) tutor.Outcome
}

var spinnerFrames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

// AskScreen takes a problem or concept and waits for the answer.
type AskScreen struct {
	mode      study.Mode
	asker     Asker
	sess      *session.Context
	exportDir string

	text    components.TextInput
	melc    components.TextInput
	loading bool
	frame   int
	warning string
}

var _ screen.Screen = (*AskScreen)(nil)
var _ screen.KeyHintProvider = (*AskScreen)(nil)
var _ screen.Busy = (*AskScreen)(nil)

// New creates an AskScreen for mode, prefilled with the session's last
// input for that mode.
func New(mode study.Mode, asker Asker, sess *session.Context, exportDir string) *AskScreen {
	label, placeholder := "Worded problem", "A car travels 60 km in 1.5 hours. What is its speed?"
	if mode == study.ModeConcept {
		label, placeholder = "Concept", "photosynthesis"
	}
	text := components.NewTextInput(label, placeholder, 0)
	text.SetValue(sess.LastInput(mode))

	melc := components.NewTextInput("MELC (optional)", "learning competency code or text", 200)
	melc.Blur()

	return &AskScreen{
		mode:      mode,
		asker:     asker,
		sess:      sess,
		exportDir: exportDir,
		text:      text,
		melc:      melc,
	}
}

func (s *AskScreen) Init() tea.Cmd {
	return s.text.Init()
}

func (s *AskScreen) Title() string {
	return s.mode.Label()
}

// Busy reports whether a request is in flight.
func (s *AskScreen) Busy() bool {
	return s.loading
}

func (s *AskScreen) KeyHints() []layout.KeyHint {
	if s.loading {
		return []layout.KeyHint{{Key: "Ctrl+C", Description: "Quit"}}
	}
	hints := []layout.KeyHint{{Key: "Enter", Description: "Submit"}}
	if s.mode == study.ModeConcept {
		hints = append(hints, layout.KeyHint{Key: "Tab", Description: "Switch field"})
	}
	return append(hints,
		layout.KeyHint{Key: "Ctrl+R", Description: "Clear"},
		layout.KeyHint{Key: "Esc", Description: "Back"},
	)
}

func (s *AskScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case answeredMsg:
		s.loading = false
		if !msg.Outcome.Accepted() {
			s.warning = msg.Outcome.Rejected.Message
			return s, nil
		}
		r := result.New(msg.Outcome, s.exportDir)
		return s, func() tea.Msg { return router.ReplaceScreenMsg{Screen: r} }

	case spinnerTickMsg:
		if !s.loading {
			return s, nil
		}
		s.frame = (s.frame + 1) % len(spinnerFrames)
		return s, tick()

	case tea.KeyMsg:
		if s.loading {
			return s, nil
		}
		switch msg.String() {
		case "enter":
			return s, s.submit()
		case "tab":
			if s.mode == study.ModeConcept {
				return s, s.switchField()
			}
			return s, nil
		case "ctrl+r":
			s.sess.ResetInputs()
			s.text.Reset()
			s.melc.Reset()
			s.warning = ""
			return s, nil
		}
	}

	var cmd tea.Cmd
	if s.melc.Focused() {
		s.melc, cmd = s.melc.Update(msg)
	} else {
		s.text, cmd = s.text.Update(msg)
	}
	return s, cmd
}

func (s *AskScreen) submit() tea.Cmd {
	s.warning = ""
	s.loading = true
	s.frame = 0
	asker, sess, mode := s.asker, s.sess, s.mode
	text, melc := s.text.Value(), s.melc.Value()
	return tea.Batch(
		func() tea.Msg {
			return answeredMsg{Outcome: asker.Ask(context.Background(), sess, mode, text, melc)}
		},
		tick(),
	)
}

func (s *AskScreen) switchField() tea.Cmd {
	if s.text.Focused() {
		s.text.Blur()
		return s.melc.Focus()
	}
	s.melc.Blur()
	return s.text.Focus()
}

func tick() tea.Cmd {
	return tea.Tick(100*time.Millisecond, func(t time.Time) tea.Msg {
		return spinnerTickMsg(t)
	})
}

func (s *AskScreen) View(width, height int) string {
	cw := width - 8
	if cw > 90 {
		cw = 90
	}

	var b strings.Builder
	b.WriteString("\n")
	b.WriteString(theme.Hint.Render(s.purpose()))
	b.WriteString("\n\n")
	b.WriteString(s.text.View())
	b.WriteString("\n")
	if s.mode == study.ModeConcept {
		b.WriteString("\n")
		b.WriteString(s.melc.View())
		b.WriteString("\n")
	}

	if s.warning != "" {
		b.WriteString("\n")
		b.WriteString(theme.WarningText.Render("⚠️ " + s.warning))
		b.WriteString("\n")
	}
	if s.loading {
		b.WriteString("\n")
		b.WriteString(lipgloss.NewStyle().Foreground(theme.Secondary).
			Render(spinnerFrames[s.frame] + " " + s.loadingText()))
		b.WriteString("\n")
	}

	box := theme.Card.Width(cw).Render(b.String())
	return lipgloss.PlaceHorizontal(width, lipgloss.Center, box)
}

func (s *AskScreen) purpose() string {
	if s.mode == study.ModeConcept {
		return "Name a concept and get it explained at three levels."
	}
	return "Type a worded problem. It should ask a question and include a number or unit."
}

func (s *AskScreen) loadingText() string {
	if s.mode == study.ModeConcept {
		return "Simplifying..."
	}
	return "Solving..."
}
