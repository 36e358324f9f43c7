package cli

import (
	"bufio"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"solarmon/backend/services/meter-service/internal/auth"
)

// NewHashPasswordCommand creates the hash-password command.
func NewHashPasswordCommand() *cobra.Command {
	var cost int

	cmd := &cobra.Command{
		Use:   "hash-password",
		Short: "Hash a password read from stdin for auth.passwordHash",
		Long: `Read a password from the first line of stdin and print its bcrypt hash.

Example:
  echo -n 'correct horse' | solarmon hash-password`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			line, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
			if err != nil && line == "" {
				return errors.New("no password on stdin")
			}
			password := strings.TrimRight(line, "\r\n")

			hash, err := auth.NewBcryptHasher(cost).Hash(password)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), hash)
			return nil
		},
	}

	cmd.Flags().IntVar(&cost, "cost", 0, "bcrypt cost (default 10)")

	return cmd
}
