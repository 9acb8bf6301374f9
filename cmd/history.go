package cmd

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/grecsai/grecs/internal/store"
	"github.com/grecsai/grecs/internal/study"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List archived answers",
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")
		modeFlag, _ := cmd.Flags().GetString("mode")
		sessionID, _ := cmd.Flags().GetString("session")

		q := store.HistoryQuery{QueryOpts: store.QueryOpts{Limit: limit}, SessionID: sessionID}
		if modeFlag != "" {
			mode, err := study.ParseMode(modeFlag)
			if err != nil {
				return err
			}
			q.Mode = string(mode)
		}

		s, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer s.Close()

		entries, err := s.HistoryRepo().QueryHistory(cmd.Context(), q)
		if err != nil {
			return fmt.Errorf("query history: %w", err)
		}
		if len(entries) == 0 {
			fmt.Println("No archived answers found.")
			return nil
		}

		fmt.Printf("%-36s  %-19s  %-8s  %s\n", "ID", "Timestamp", "Mode", "Input")
		fmt.Println(strings.Repeat("─", 100))
		for _, e := range entries {
			fmt.Printf("%-36s  %-19s  %-8s  %s\n",
				e.ID,
				e.Timestamp.Local().Format("2006-01-02 15:04:05"),
				e.Mode,
				truncate(oneLine(e.Input), 30),
			)
		}
		return nil
	},
}

var historyExportCmd = &cobra.Command{
	Use:   "export <id>",
	Short: "Write an archived answer to a txt or pdf file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		dir, _ := cmd.Flags().GetString("dir")
		format, _ := cmd.Flags().GetString("format")

		s, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer s.Close()

		e, err := s.HistoryRepo().GetHistory(cmd.Context(), args[0])
		if errors.Is(err, store.ErrNotFound) {
			return fmt.Errorf("entry %s not found", args[0])
		}
		if err != nil {
			return fmt.Errorf("get entry: %w", err)
		}

		path, err := writeExport(dir, format, e.Entry)
		if err != nil {
			return err
		}
		fmt.Println("Saved", path)
		return nil
	},
}

func oneLine(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

func init() {
	historyCmd.Flags().IntP("limit", "n", 20, "Number of entries to show")
	historyCmd.Flags().StringP("mode", "m", "", "Filter by mode (gresa or concept)")
	historyCmd.Flags().String("session", "", "Filter by session ID (\"terminal\" for CLI answers)")

	historyExportCmd.Flags().String("dir", ".", "Directory to write to")
	historyExportCmd.Flags().String("format", "txt", "Export format: txt or pdf")

	historyCmd.AddCommand(historyExportCmd)
}
