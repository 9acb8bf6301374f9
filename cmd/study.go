package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/grecsai/grecs/internal/app"
	"github.com/grecsai/grecs/internal/history"
	"github.com/grecsai/grecs/internal/logging"
	"github.com/grecsai/grecs/internal/session"
	"github.com/grecsai/grecs/internal/store"
)

var studyCmd = &cobra.Command{
	Use:   "study",
	Short: "Open the interactive terminal app",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runStudy(cmd)
	},
}

func init() {
	studyCmd.Flags().String("export-dir", "", "Directory for exported answers (default: current directory)")
}

// runStudy opens the store, builds the pipeline, and launches the TUI.
func runStudy(cmd *cobra.Command) error {
	st, err := openStore(cmd)
	if err != nil {
		return err
	}
	defer st.Close()

	// The TUI owns the terminal, so process logs are dropped.
	logger := logging.Discard()
	svc, notice, err := newTutor(cmd.Context(), st.EventRepo(), logger)
	if err != nil {
		return err
	}

	exportDir, _ := cmd.Flags().GetString("export-dir")
	if exportDir == "" {
		if exportDir, err = os.Getwd(); err != nil {
			return fmt.Errorf("resolve export dir: %w", err)
		}
	}
	exportDir = filepath.Clean(exportDir)

	sess := session.NewContext(history.WithArchiver(
		store.LedgerArchiver{Repo: st.HistoryRepo(), SessionID: "terminal"},
		nil,
	))

	return app.Run(app.Options{
		Asker:     svc,
		Session:   sess,
		ExportDir: exportDir,
		Notice:    notice,
	})
}
