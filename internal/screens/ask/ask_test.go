package ask

import (
	"context"
	"strings"
	"testing"

	tea "charm.land/bubbletea/v2"

	"github.com/grecsai/grecs/internal/history"
	"github.com/grecsai/grecs/internal/router"
	"github.com/grecsai/grecs/internal/screens/result"
	"github.com/grecsai/grecs/internal/session"
	"github.com/grecsai/grecs/internal/study"
	"github.com/grecsai/grecs/internal/tutor"
	"github.com/grecsai/grecs/internal/validator"
)

type stubAsker struct {
	outcome tutor.Outcome
	calls   []string
}

func (a *stubAsker) Ask(_ context.Context, _ *session.Context, mode study.Mode, text, melc string) tutor.Outcome {
	a.calls = append(a.calls, string(mode)+"|"+text+"|"+melc)
	return a.outcome
}

func typeText(s *AskScreen, text string) {
	for _, r := range text {
		s.Update(tea.KeyPressMsg{Code: r, Text: string(r)})
	}
}

func TestPrefillsLastInput(t *testing.T) {
	sess := session.NewContext()
	sess.SetLastInput(study.ModeGRESA, "previous problem?")

	s := New(study.ModeGRESA, &stubAsker{}, sess, t.TempDir())
	if s.text.Value() != "previous problem?" {
		t.Errorf("text = %q", s.text.Value())
	}
	if s.Title() != "GRESA Mode" {
		t.Errorf("Title = %q", s.Title())
	}
}

func TestSubmitRunsAsker(t *testing.T) {
	asker := &stubAsker{}
	s := New(study.ModeConcept, asker, session.NewContext(), t.TempDir())
	typeText(s, "inertia")

	_, cmd := s.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	if cmd == nil {
		t.Fatal("expected a command on Enter")
	}
	if !s.loading {
		t.Fatal("expected loading state after submit")
	}
	if !strings.Contains(s.View(100, 30), "Simplifying") {
		t.Error("loading text missing")
	}

	batch, ok := cmd().(tea.BatchMsg)
	if !ok || len(batch) == 0 {
		t.Fatalf("expected a batch, got %T", cmd())
	}
	msg := batch[0]()
	if _, ok := msg.(answeredMsg); !ok {
		t.Fatalf("first batched msg = %T, want answeredMsg", msg)
	}
	if len(asker.calls) != 1 || asker.calls[0] != "concept|inertia|" {
		t.Errorf("calls = %v", asker.calls)
	}
}

func TestKeysIgnoredWhileLoading(t *testing.T) {
	s := New(study.ModeGRESA, &stubAsker{}, session.NewContext(), t.TempDir())
	s.loading = true
	typeText(s, "abc")
	if s.text.Value() != "" {
		t.Errorf("text changed while loading: %q", s.text.Value())
	}
}

func TestRejectedShowsWarning(t *testing.T) {
	s := New(study.ModeGRESA, &stubAsker{}, session.NewContext(), t.TempDir())
	s.loading = true

	_, cmd := s.Update(answeredMsg{Outcome: tutor.Outcome{
		Rejected: &validator.ValidationError{Check: "problem", Message: "The problem should ask a question."},
	}})
	if cmd != nil {
		t.Error("rejection should not navigate")
	}
	if s.loading {
		t.Error("loading should stop")
	}
	if !strings.Contains(s.View(100, 30), "The problem should ask a question.") {
		t.Error("warning missing from view")
	}
}

func TestAcceptedReplacesWithResult(t *testing.T) {
	s := New(study.ModeGRESA, &stubAsker{}, session.NewContext(), t.TempDir())
	_, cmd := s.Update(answeredMsg{Outcome: tutor.Outcome{
		Mode:  study.ModeGRESA,
		Raw:   "Answer: 40 km/h",
		Entry: history.Entry{ID: "e1", Mode: study.ModeGRESA, Response: "Answer: 40 km/h"},
	}})
	if cmd == nil {
		t.Fatal("expected navigation")
	}
	repl, ok := cmd().(router.ReplaceScreenMsg)
	if !ok {
		t.Fatalf("msg = %T, want ReplaceScreenMsg", cmd())
	}
	if _, ok := repl.Screen.(*result.ResultScreen); !ok {
		t.Errorf("replaced with %T", repl.Screen)
	}
}

func TestTabSwitchesFieldInConceptMode(t *testing.T) {
	s := New(study.ModeConcept, &stubAsker{}, session.NewContext(), t.TempDir())
	s.Update(tea.KeyPressMsg{Code: tea.KeyTab})
	if !s.melc.Focused() || s.text.Focused() {
		t.Fatal("tab should focus the MELC field")
	}
	typeText(s, "S7")
	if s.melc.Value() != "S7" {
		t.Errorf("melc = %q", s.melc.Value())
	}

	g := New(study.ModeGRESA, &stubAsker{}, session.NewContext(), t.TempDir())
	g.Update(tea.KeyPressMsg{Code: tea.KeyTab})
	if !g.text.Focused() {
		t.Error("tab should do nothing in GRESA mode")
	}
}

func TestCtrlRClears(t *testing.T) {
	sess := session.NewContext()
	sess.SetLastInput(study.ModeGRESA, "old?")
	s := New(study.ModeGRESA, &stubAsker{}, sess, t.TempDir())

	s.Update(tea.KeyPressMsg{Code: 'r', Mod: tea.ModCtrl})
	if s.text.Value() != "" {
		t.Errorf("text = %q", s.text.Value())
	}
	if sess.LastInput(study.ModeGRESA) != "" {
		t.Error("session input cache not cleared")
	}
}
