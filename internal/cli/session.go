package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Skotchmaster/storefront/internal/guard"
	"github.com/Skotchmaster/storefront/pkg/tokens"
)

func loginCmd(app *App) *cobra.Command {
	var username, password string
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Log in with a catalog account",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			sess, err := app.Auth.Login(ctx, username, password)
			if err != nil {
				return err
			}
			app.Events.LoggedIn(ctx, sess)
			fmt.Fprintf(cmd.OutOrStdout(), "Logged in as %s (%s)\n", sess.Username, sess.Role)
			return nil
		},
	}
	cmd.Flags().StringVarP(&username, "username", "u", "", "account username")
	cmd.Flags().StringVarP(&password, "password", "p", "", "account password")
	return cmd
}

func logoutCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Forget the stored session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			sess, err := app.Auth.Store.Get(ctx)
			if err != nil {
				return err
			}
			if err := app.Auth.Logout(ctx); err != nil {
				return err
			}
			if sess.LoggedIn() {
				app.Events.LoggedOut(ctx, sess.Username)
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Logged out")
			return nil
		},
	}
}

func whoamiCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the logged-in user",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			sess, err := guard.RequireLogin(cmd.Context(), app.Auth.Store)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%s (%s)\n", sess.Username, sess.Role)
			if claims, err := tokens.LoginClaimsFromToken(sess.Token); err == nil {
				if claims.Subject != "" {
					fmt.Fprintf(out, "account id: %s\n", claims.Subject)
				}
				if !claims.IssuedAt.IsZero() {
					fmt.Fprintf(out, "token issued: %s\n", claims.IssuedAt.Format("2006-01-02 15:04"))
				}
			}
			return nil
		},
	}
}
