package commands

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/dtroode/senderkeys/internal/session"
)

func (a *app) sessionCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "session",
		Short: "Manage the logged-in backup user",
	}
	cmd.AddCommand(a.loginCmd(), a.logoutCmd(), a.showCmd())
	return cmd
}

func (a *app) loginCmd() *cobra.Command {
	var userID, token string

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Save an access token for the backup server",
		RunE: func(cmd *cobra.Command, _ []string) error {
			id, err := uuid.Parse(userID)
			if err != nil {
				return fmt.Errorf("invalid --user-id: %w", err)
			}
			sess, err := session.Open(a.cfg.SessionPath())
			if err != nil {
				return err
			}
			if err := sess.Login(id, token, a.cfg.Backup.Address); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "logged in as %s\n", id)
			return nil
		},
	}
	cmd.Flags().StringVar(&userID, "user-id", "", "backup user id")
	cmd.Flags().StringVar(&token, "token", "", "access token issued by the backup server")
	_ = cmd.MarkFlagRequired("user-id")
	_ = cmd.MarkFlagRequired("token")
	return cmd
}

func (a *app) logoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Forget the saved session",
		RunE: func(cmd *cobra.Command, _ []string) error {
			sess, err := session.Open(a.cfg.SessionPath())
			if err != nil {
				return err
			}
			if err := sess.Logout(); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "logged out")
			return nil
		},
	}
}

func (a *app) showCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Print the saved session",
		RunE: func(cmd *cobra.Command, _ []string) error {
			sess, err := session.Open(a.cfg.SessionPath())
			if err != nil {
				return err
			}
			state, err := sess.State()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "user:   %s\n", state.UserID)
			fmt.Fprintf(out, "server: %s\n", state.Server)
			fmt.Fprintf(out, "since:  %s\n", state.LoggedInAt.Format("2006-01-02 15:04:05 MST"))
			return nil
		},
	}
}
