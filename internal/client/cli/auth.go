package cli

import (
	"fmt"

	"github.com/dmitrijs2005/blogkeeper/internal/common"
	"github.com/spf13/cobra"
)

// getSimpleText, getPassword and getMultiline are indirections used to
// facilitate testing.
var (
	getSimpleText = GetSimpleText
	getPassword   = GetPassword
	getMultiline  = GetMultiline
)

func newSignupCmd(run runner) *cobra.Command {
	var username, email string

	cmd := &cobra.Command{
		Use:   "signup",
		Short: "Create an account",
		Args:  cobra.NoArgs,
		RunE: run(func(cmd *cobra.Command, a *App, _ []string) error {
			var err error
			if username, err = a.ask(username, "Enter username"); err != nil {
				return err
			}
			if email, err = a.ask(email, "Enter email"); err != nil {
				return err
			}

			password, err := getPassword(a.out)
			if err != nil {
				return err
			}
			defer common.WipeByteArray(password)

			u, err := a.authService.Signup(cmd.Context(), username, email, password)
			if err != nil {
				return err
			}

			fmt.Fprintf(a.out, "Signed up as %s (id %d)\n", u.Username, u.ID)
			return nil
		}),
	}

	cmd.Flags().StringVar(&username, "username", "", "username")
	cmd.Flags().StringVar(&email, "email", "", "email")
	return cmd
}

func newLoginCmd(run runner) *cobra.Command {
	var email string

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Log in and remember the session",
		Args:  cobra.NoArgs,
		RunE: run(func(cmd *cobra.Command, a *App, _ []string) error {
			var err error
			if email, err = a.ask(email, "Enter email"); err != nil {
				return err
			}

			password, err := getPassword(a.out)
			if err != nil {
				return err
			}
			defer common.WipeByteArray(password)

			s, err := a.authService.Login(cmd.Context(), email, password)
			if err != nil {
				return err
			}

			fmt.Fprintf(a.out, "Logged in as %s\n", s.Username)
			return nil
		}),
	}

	cmd.Flags().StringVar(&email, "email", "", "email")
	return cmd
}

func newLogoutCmd(run runner) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Forget the saved session",
		Args:  cobra.NoArgs,
		RunE: run(func(cmd *cobra.Command, a *App, _ []string) error {
			if err := a.authService.Logout(cmd.Context()); err != nil {
				return err
			}
			fmt.Fprintln(a.out, "Logged out")
			return nil
		}),
	}
}
