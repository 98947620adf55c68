package app

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/benevole/benevole/internal/token"
)

func init() { //nolint: gochecknoinits
	tokenCmd.AddCommand(tokenVerifyCmd)
	rootCmd.AddCommand(tokenCmd)
}

var (
	tokenCmd = &cobra.Command{
		Use:   "token",
		Short: "Inspect access tokens",
	}

	tokenVerifyCmd = &cobra.Command{
		Use:   "verify <token>",
		Short: "Verify an access token with the configured key and print its claims",
		Args:  cobra.ExactArgs(1),
		PreRunE: func(_ *cobra.Command, _ []string) error {
			return loadConfig()
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			tokens, err := token.New(cfg.Security.SecretKey, cfg.Security.AccessTokenTTL,
				token.WithIssuer(cfg.Security.Issuer))
			if err != nil {
				return err //nolint:wrapcheck
			}

			claims, err := tokens.Verify(args[0])
			if err != nil {
				return fmt.Errorf("%s: %w", token.Kind(err), err)
			}

			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")

			return enc.Encode(claims) //nolint:wrapcheck
		},
	}
)
