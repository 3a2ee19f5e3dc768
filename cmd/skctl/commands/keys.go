package commands

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/dtroode/senderkeys/internal/backup/seal"
	"github.com/dtroode/senderkeys/internal/token"
)

func (a *app) keygenCmd() *cobra.Command {
	var out string
	var force bool

	cmd := &cobra.Command{
		Use:   "keygen",
		Short: "Generate the age identity that seals remote backups",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if out == "" {
				out = filepath.Join(a.cfg.Home, "backup.agekey")
			}
			identity, err := seal.GenerateIdentity()
			if err != nil {
				return err
			}
			if err := seal.WriteIdentity(out, identity, force); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\npublic key: %s\n", out, identity.Recipient())
			return nil
		},
	}
	cmd.Flags().StringVarP(&out, "out", "o", "", "identity file (default <home>/backup.agekey)")
	cmd.Flags().BoolVar(&force, "force", false, "overwrite an existing identity")
	return cmd
}

func (a *app) devTokenCmd() *cobra.Command {
	var secret, userID string
	var ttl time.Duration

	cmd := &cobra.Command{
		Use:   "dev-token",
		Short: "Mint an access token with a known secret for local development",
		RunE: func(cmd *cobra.Command, _ []string) error {
			id, err := uuid.Parse(userID)
			if err != nil {
				return fmt.Errorf("invalid --user-id: %w", err)
			}
			signed, err := token.NewJWT(secret, ttl).GenerateAccessToken(id)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), signed)
			return nil
		},
	}
	cmd.Flags().StringVar(&secret, "secret", "devsecret", "server JWT secret")
	cmd.Flags().StringVar(&userID, "user-id", "", "user id to put in the token")
	cmd.Flags().DurationVar(&ttl, "ttl", token.DefaultTTL, "token lifetime")
	_ = cmd.MarkFlagRequired("user-id")
	return cmd
}
