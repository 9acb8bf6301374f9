package cmd

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"charm.land/lipgloss/v2"
	"github.com/spf13/cobra"

	"github.com/grecsai/grecs/internal/export"
	"github.com/grecsai/grecs/internal/history"
	"github.com/grecsai/grecs/internal/ocr"
	"github.com/grecsai/grecs/internal/screens/result"
	"github.com/grecsai/grecs/internal/session"
	"github.com/grecsai/grecs/internal/store"
	"github.com/grecsai/grecs/internal/study"
	"github.com/grecsai/grecs/internal/tutor"
	"github.com/grecsai/grecs/internal/ui/theme"
)

// panelWidth is the width of printed answer panels.
const panelWidth = 80

var solveCmd = &cobra.Command{
	Use:   "solve [problem...]",
	Short: "Solve a worded problem in GRESA form",
	Example: `  grecs solve "A car travels 60 km in 1.5 hours. What is its average speed?"
  grecs solve --image homework.png --export .`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runAsk(cmd, study.ModeGRESA, args)
	},
}

var explainCmd = &cobra.Command{
	Use:     "explain [concept...]",
	Short:   "Explain a concept at three levels of difficulty",
	Example: `  grecs explain photosynthesis --melc "Explain the process of photosynthesis"`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runAsk(cmd, study.ModeConcept, args)
	},
}

func init() {
	for _, c := range []*cobra.Command{solveCmd, explainCmd} {
		c.Flags().String("image", "", "Read the input from a png or jpeg image with OCR")
		c.Flags().String("export", "", "Write the answer to this directory")
		c.Flags().String("format", "txt", "Export format: txt or pdf")
	}
	explainCmd.Flags().String("melc", "", "Learning competency to tailor the explanation to")
}

func runAsk(cmd *cobra.Command, mode study.Mode, args []string) error {
	ctx := cmd.Context()
	typed := strings.Join(args, " ")

	imagePath, _ := cmd.Flags().GetString("image")
	extracted := ""
	if imagePath != "" {
		text, err := readImage(cmd, imagePath)
		if err != nil {
			fmt.Fprintln(cmd.ErrOrStderr(), theme.WarningText.Render("OCR: "+err.Error()))
		}
		extracted = text
	}
	input := tutor.ChooseInput(typed, extracted)
	if strings.TrimSpace(input) == "" {
		return fmt.Errorf("no %s given: pass it as arguments or with --image", strings.ToLower(mode.Placeholder()))
	}

	st, err := openStore(cmd)
	if err != nil {
		return err
	}
	defer st.Close()

	logger := newLogger()
	svc, notice, err := newTutor(ctx, st.EventRepo(), logger)
	if err != nil {
		return err
	}
	if notice != "" {
		fmt.Fprintln(cmd.ErrOrStderr(), theme.Hint.Render(notice))
	}

	sess := session.NewContext(history.WithArchiver(
		store.LedgerArchiver{Repo: st.HistoryRepo(), SessionID: "terminal"},
		func(err error) { logger.Warn("archive entry", "error", err) },
	))

	melc, _ := cmd.Flags().GetString("melc")
	o := svc.Ask(ctx, sess, mode, input, melc)
	if !o.Accepted() {
		return errors.New(o.Rejected.Message)
	}

	lipgloss.Fprintln(cmd.OutOrStdout(), renderOutcome(o))

	dir, _ := cmd.Flags().GetString("export")
	if dir == "" {
		return nil
	}
	format, _ := cmd.Flags().GetString("format")
	path, err := writeExport(dir, format, o.Entry)
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), theme.Hint.Render("Saved "+path))
	return nil
}

func readImage(cmd *cobra.Command, path string) (string, error) {
	if !ocr.AllowedFile(path) {
		return "", ocr.ErrUnsupportedType
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read image: %w", err)
	}
	text, err := ocr.NewExtractor(ocr.ConfigFromEnv(), nil).ExtractText(cmd.Context(), data)
	if err != nil {
		return "", err
	}
	if text == "" {
		return "", errors.New("no text found in image")
	}
	return text, nil
}

// renderOutcome draws the answer as fully expanded panels.
func renderOutcome(o tutor.Outcome) string {
	title := theme.Title.Width(panelWidth).Render(o.Mode.Label())
	input := theme.Hint.Width(panelWidth).Render(o.Input)

	var body string
	switch {
	case o.Failed:
		body = theme.ErrorText.Render(o.Raw)
	case o.Document.Empty():
		body = theme.Card.Width(panelWidth).Render(o.Raw)
	default:
		panels := result.Panels(o.Mode, o.Document.Sections)
		panels.ExpandAll()
		panels.Selected = -1
		body = panels.View(panelWidth)
	}
	return lipgloss.JoinVertical(lipgloss.Left, title, input, "", body)
}

// writeExport saves e under dir as txt or pdf and returns the path.
func writeExport(dir, format string, e history.Entry) (string, error) {
	var data []byte
	switch format {
	case "txt", "":
		format = "txt"
		data = []byte(export.FromEntry(e).Text())
	case "pdf":
		var buf bytes.Buffer
		if err := export.PDF(&buf, export.FromEntry(e), export.DefaultPDFConfig()); err != nil {
			return "", fmt.Errorf("render pdf: %w", err)
		}
		data = buf.Bytes()
	default:
		return "", fmt.Errorf("unknown export format %q: use txt or pdf", format)
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create export dir: %w", err)
	}
	path := filepath.Join(dir, export.Filename(e.Mode, e.Input, format))
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("write export: %w", err)
	}
	return path, nil
}
