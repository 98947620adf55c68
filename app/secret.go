package app

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/benevole/benevole/internal/secret"
)

func init() { //nolint: gochecknoinits
	secretCmd.AddCommand(secretKeyCmd, secretPasswordCmd)
	rootCmd.AddCommand(secretCmd)
}

var (
	secretCmd = &cobra.Command{
		Use:   "secret",
		Short: "Generate random secrets",
	}

	secretKeyCmd = &cobra.Command{
		Use:   "key",
		Short: "Print a new token signing key for security.secretKey",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return printSecret(cmd, secret.Key)
		},
	}

	secretPasswordCmd = &cobra.Command{
		Use:   "password",
		Short: "Print a new password, e.g. for seed.password",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return printSecret(cmd, secret.Password)
		},
	}
)

func printSecret(cmd *cobra.Command, generate func() (string, error)) error {
	s, err := generate()
	if err != nil {
		return err //nolint:wrapcheck
	}

	_, err = fmt.Fprintln(cmd.OutOrStdout(), s)

	return err //nolint:wrapcheck
}
