package cmd

import (
	"bufio"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/grecsai/grecs/internal/auth"
)

var passphraseHashCmd = &cobra.Command{
	Use:   "passphrase-hash",
	Short: "Hash a passphrase for GRECS_PASSPHRASE_HASH",
	Long:  "Reads a passphrase from stdin and prints its bcrypt hash.",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		line, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
		if err != nil && line == "" {
			return fmt.Errorf("read passphrase: %w", err)
		}
		pass := strings.TrimRight(line, "\r\n")
		if pass == "" {
			return errors.New("empty passphrase")
		}
		hash, err := auth.HashPassphrase(pass)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), hash)
		return nil
	},
}
