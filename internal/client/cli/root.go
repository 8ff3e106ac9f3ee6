package cli

import (
	"context"
	"io"

	"github.com/spf13/cobra"
)

// opener builds the App a command runs against.
type opener func(ctx context.Context, opts *options, out io.Writer) (*App, error)

// runner adapts an App-aware function to cobra's RunE.
type runner func(fn func(cmd *cobra.Command, a *App, args []string) error) func(*cobra.Command, []string) error

// NewRootCmd creates the root command for blogctl.
func NewRootCmd() *cobra.Command {
	return newRootCmd(openApp)
}

func newRootCmd(open opener) *cobra.Command {
	opts := &options{}

	cmd := &cobra.Command{
		Use:           "blogctl",
		Short:         "blogctl - command-line client for the blog API",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().StringVar(&opts.configFile, "config", "", "config file path")
	cmd.PersistentFlags().StringVarP(&opts.serverURL, "server", "a", "", "blog API base URL")
	cmd.PersistentFlags().StringVar(&opts.sessionFile, "session", "", "session database file")

	run := func(fn func(cmd *cobra.Command, a *App, args []string) error) func(*cobra.Command, []string) error {
		return func(cmd *cobra.Command, args []string) error {
			a, err := open(cmd.Context(), opts, cmd.OutOrStdout())
			if err != nil {
				return err
			}
			defer a.Close()
			return fn(cmd, a, args)
		}
	}

	cmd.AddCommand(
		newSignupCmd(run),
		newLoginCmd(run),
		newLogoutCmd(run),
		newPostsCmd(run),
		newThemesCmd(run),
		newPhotoCmd(run),
	)

	return cmd
}
