package home

import (
	"strings"

	tea "charm.land/bubbletea/v2"

	"github.com/grecsai/grecs/internal/router"
	"github.com/grecsai/grecs/internal/screen"
	"github.com/grecsai/grecs/internal/screens/ask"
	"github.com/grecsai/grecs/internal/screens/history"
	"github.com/grecsai/grecs/internal/session"
	"github.com/grecsai/grecs/internal/study"
	"github.com/grecsai/grecs/internal/ui/components"
	"github.com/grecsai/grecs/internal/ui/layout"
)

// Deps are what the home screen hands to the screens it opens.
type Deps struct {
	Asker     ask.Asker
	Session   *session.Context
	ExportDir string
	Notice    string // shown under the title, e.g. when answers are canned
}

// HomeScreen is the main menu.
type HomeScreen struct {
	deps Deps
	menu components.Menu
}

var _ screen.Screen = (*HomeScreen)(nil)

// New creates a HomeScreen.
func New(deps Deps) *HomeScreen {
	push := func(s screen.Screen) tea.Cmd {
		return func() tea.Msg { return router.PushScreenMsg{Screen: s} }
	}

	items := []components.MenuItem{
		{
			Label: "GRESA SOLVER",
			Hint:  "Solve a worded problem step by step",
			Key:   "g",
			Action: func() tea.Cmd {
				return push(ask.New(study.ModeGRESA, deps.Asker, deps.Session, deps.ExportDir))
			},
		},
		{
			Label: "CONCEPT SIMPLIFIER",
			Hint:  "Explain a concept at three levels",
			Key:   "c",
			Action: func() tea.Cmd {
				return push(ask.New(study.ModeConcept, deps.Asker, deps.Session, deps.ExportDir))
			},
		},
		{
			Label: "HISTORY",
			Hint:  "Answers from this session",
			Key:   "h",
			Action: func() tea.Cmd {
				return push(history.New(deps.Session.Ledger, deps.ExportDir))
			},
		},
		{
			Label:  "QUIT",
			Key:    "q",
			Action: func() tea.Cmd { return tea.Quit },
		},
	}

	return &HomeScreen{deps: deps, menu: components.NewMenu(items)}
}

func (h *HomeScreen) Init() tea.Cmd {
	return nil
}

func (h *HomeScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	var cmd tea.Cmd
	h.menu, cmd = h.menu.Update(msg)
	return h, cmd
}

func (h *HomeScreen) View(width, height int) string {
	termHeight := height + 8
	compact := termHeight < 34 || width < 100
	cw := contentWidth(width)

	sections := []string{renderTitle(cw, compact)}
	if h.deps.Notice != "" {
		sections = append(sections, renderNotice(h.deps.Notice, cw))
	}
	sections = append(sections,
		renderStatsBar(h.deps.Session.Ledger.Len(), cw),
		renderMenu(h.menu.Labels(), h.menu.Selected, cw),
	)
	if hint := h.menu.Current().Hint; hint != "" {
		sections = append(sections, renderHint(hint, cw))
	}
	return renderFrame(strings.Join(sections, "\n\n"), width, height)
}

func (h *HomeScreen) Title() string {
	return "Home"
}

func (h *HomeScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "↑↓", Description: "Navigate"},
		{Key: "Enter", Description: "Select"},
		{Key: "g/c/h", Description: "Jump"},
		{Key: "q", Description: "Quit"},
	}
}
