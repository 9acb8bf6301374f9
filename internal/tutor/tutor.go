// Package tutor runs one study request end to end: validate, prompt,
// complete, sectionize and record.
package tutor

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/grecsai/grecs/internal/completion"
	"github.com/grecsai/grecs/internal/history"
	"github.com/grecsai/grecs/internal/llm"
	"github.com/grecsai/grecs/internal/prompt"
	"github.com/grecsai/grecs/internal/sectionizer"
	"github.com/grecsai/grecs/internal/session"
	"github.com/grecsai/grecs/internal/study"
	"github.com/grecsai/grecs/internal/validator"
)

// Completer is the generation step. *completion.Client implements it.
type Completer interface {
	Complete(ctx context.Context, prompt string, opts completion.Options) completion.Result
}

// Outcome is the result of one request. When Rejected is set nothing
// else is populated: no call was made and nothing was recorded.
type Outcome struct {
	Mode     study.Mode
	Input    string
	MELC     string
	Raw      string
	Failed   bool
	Document sectionizer.Document
	Entry    history.Entry
	Rejected *validator.ValidationError
}

// Accepted reports whether the input passed validation.
func (o Outcome) Accepted() bool { return o.Rejected == nil }

// Service wires the pipeline stages together.
type Service struct {
	completer Completer
	opts      completion.Options
	logger    *slog.Logger
}

// NewService creates a Service. A nil logger discards log output.
func NewService(c Completer, opts completion.Options, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Service{completer: c, opts: opts, logger: logger}
}

// Solve answers a worded problem in GRESA form.
func (s *Service) Solve(ctx context.Context, sess *session.Context, text string) Outcome {
	return s.Ask(ctx, sess, study.ModeGRESA, text, "")
}

// Explain explains a concept at three tiers, optionally aligned to a MELC.
func (s *Service) Explain(ctx context.Context, sess *session.Context, text, melc string) Outcome {
	return s.Ask(ctx, sess, study.ModeConcept, text, melc)
}

// Ask dispatches on mode. melc is ignored in GRESA mode.
func (s *Service) Ask(ctx context.Context, sess *session.Context, mode study.Mode, text, melc string) Outcome {
	input := strings.TrimSpace(text)
	out := Outcome{Mode: mode, Input: input}
	sess.SetLastInput(mode, text)

	var p string
	switch mode {
	case study.ModeGRESA:
		if verr := validator.CheckProblem(text); verr != nil {
			return s.reject(mode, text, verr)
		}
		p = prompt.BuildGresaPrompt(input)
	case study.ModeConcept:
		if verr := validator.CheckConcept(text); verr != nil {
			return s.reject(mode, text, verr)
		}
		out.MELC = strings.TrimSpace(melc)
		p = prompt.BuildConceptPrompt(input, out.MELC)
	default:
		return s.reject(mode, text, &validator.ValidationError{
			Check:   "mode",
			Message: fmt.Sprintf("unknown mode %q", mode),
		})
	}

	res := s.completer.Complete(llm.WithPurpose(ctx, mode.Purpose()), p, s.opts)
	out.Raw = res.Output()
	out.Failed = res.Failed()

	if mode == study.ModeGRESA {
		out.Document = sectionizer.ParseGresa(out.Raw)
	} else {
		out.Document = sectionizer.ParseConcept(out.Raw)
	}

	out.Entry = sess.Ledger.Record(ctx, mode, input, out.Raw)

	s.logger.Info("study request",
		"session", sess.ID,
		"mode", mode,
		"failed", out.Failed,
		"sections", out.Document.Len())
	return out
}

func (s *Service) reject(mode study.Mode, text string, verr *validator.ValidationError) Outcome {
	s.logger.Debug("input rejected", "mode", mode, "check", verr.Check)
	return Outcome{Mode: mode, Input: strings.TrimSpace(text), Rejected: verr}
}

// ChooseInput returns the text to submit when a user both typed text and
// uploaded an image. Typed text wins.
func ChooseInput(typed, extracted string) string {
	if strings.TrimSpace(typed) != "" {
		return typed
	}
	return extracted
}
