package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/openshelf/catalog-api/internal/core/domain"
)

var tokenRole string

var tokenCmd = &cobra.Command{
	Use:   "token",
	Short: "Session token utilities",
}

var tokenIssueCmd = &cobra.Command{
	Use:   "issue",
	Short: "Mint a session token for scripts and CI",
	Long: `issue signs a session token with SESSION_SECRET. Send it as
"Authorization: Bearer <token>" to call the admin endpoints.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		role, ok := domain.ParseRole(tokenRole)
		if !ok {
			return fmt.Errorf("unknown role %q (want owner or admin)", tokenRole)
		}

		sessions, err := newSessionService()
		if err != nil {
			return err
		}
		token, exp, err := sessions.Issue(role)
		if err != nil {
			return err
		}

		fmt.Fprintln(cmd.OutOrStdout(), token)
		log.Info().Str("role", role.String()).Time("expires_at", exp.UTC()).Dur("ttl", time.Until(exp).Round(time.Second)).Msg("session token issued")
		return nil
	},
}

func init() {
	tokenIssueCmd.Flags().StringVar(&tokenRole, "role", string(domain.RoleAdmin), "role to embed: owner or admin")
	tokenCmd.AddCommand(tokenIssueCmd)
	rootCmd.AddCommand(tokenCmd)
}
