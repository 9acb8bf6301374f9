package cmd

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/grecsai/grecs/internal/store"
)

var rootCmd = &cobra.Command{
	Use:   "grecs",
	Short: "GRESA solver and concept simplifier",
	Long: "GRECS answers worded math and physics problems in Given/Required/Equation/Solution/Answer form\n" +
		"and explains concepts at three levels of difficulty.",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := loadDotEnv(); err != nil {
			return err
		}
		if p, _ := cmd.Flags().GetString("provider"); p != "" {
			return os.Setenv("GRECS_LLM_PROVIDER", p)
		}
		return nil
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return runStudy(cmd)
	},
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().String("db", "", "Path to SQLite database file (overrides GRECS_DB env var)")
	rootCmd.PersistentFlags().String("provider", "", "Generation provider: openai, anthropic, gemini, openrouter or mock (overrides GRECS_LLM_PROVIDER)")

	rootCmd.AddCommand(studyCmd)
	rootCmd.AddCommand(solveCmd)
	rootCmd.AddCommand(explainCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(llmCmd)
	rootCmd.AddCommand(passphraseHashCmd)
	rootCmd.AddCommand(versionCmd)
}

// loadDotEnv reads .env from the working directory unless
// GRECS_ENV=production. Variables already set win.
func loadDotEnv() error {
	if os.Getenv("GRECS_ENV") == "production" {
		return nil
	}
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("load .env: %w", err)
	}
	return nil
}

// resolveDBPath returns the database path using --db flag (highest priority),
// then GRECS_DB env var, then the default XDG path.
func resolveDBPath(cmd *cobra.Command) (string, error) {
	if p, _ := cmd.Flags().GetString("db"); p != "" {
		return p, os.MkdirAll(filepath.Dir(p), 0o755)
	}
	return store.DefaultDBPath()
}

// openStore resolves the database path and opens it.
func openStore(cmd *cobra.Command) (*store.Store, error) {
	dbPath, err := resolveDBPath(cmd)
	if err != nil {
		return nil, fmt.Errorf("resolve database path: %w", err)
	}
	st, err := store.Open(dbPath)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	return st, nil
}
