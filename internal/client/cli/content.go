package cli

import (
	"fmt"
	"strconv"
	"text/tabwriter"

	"github.com/dmitrijs2005/blogkeeper/internal/client/models"
	"github.com/spf13/cobra"
)

func newPostsCmd(run runner) *cobra.Command {
	var title string

	cmd := &cobra.Command{
		Use:   "posts",
		Short: "List posts",
		Args:  cobra.NoArgs,
		RunE: run(func(cmd *cobra.Command, a *App, _ []string) error {
			if _, err := a.requireSession(cmd.Context()); err != nil {
				return err
			}

			var (
				posts []models.Post
				err   error
			)
			if title != "" {
				posts, err = a.blog.SearchPosts(cmd.Context(), title)
			} else {
				posts, err = a.blog.ListPosts(cmd.Context())
			}
			if err != nil {
				return err
			}

			printPosts(a, posts)
			return nil
		}),
	}

	cmd.Flags().StringVar(&title, "title", "", "only posts whose title contains this text")
	cmd.AddCommand(newPostCreateCmd(run), newPostDeleteCmd(run))
	return cmd
}

func newPostCreateCmd(run runner) *cobra.Command {
	var in models.CreatePostRequest

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Publish a post",
		Args:  cobra.NoArgs,
		RunE: run(func(cmd *cobra.Command, a *App, _ []string) error {
			if _, err := a.requireSession(cmd.Context()); err != nil {
				return err
			}

			var err error
			if in.Title, err = a.ask(in.Title, "Enter title"); err != nil {
				return err
			}
			if in.Text == "" {
				if in.Text, err = getMultiline(a.reader, "Enter text", a.out); err != nil {
					return err
				}
			}

			p, err := a.blog.CreatePost(cmd.Context(), in)
			if err != nil {
				return err
			}

			fmt.Fprintf(a.out, "Created post %d\n", p.ID)
			return nil
		}),
	}

	cmd.Flags().StringVar(&in.Title, "title", "", "post title")
	cmd.Flags().StringVar(&in.Text, "text", "", "post text (prompted when empty)")
	cmd.Flags().Int64Var(&in.ThemeID, "theme", 0, "theme id")
	_ = cmd.MarkFlagRequired("theme")
	return cmd
}

func newPostDeleteCmd(run runner) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a post",
		Args:  cobra.ExactArgs(1),
		RunE: run(func(cmd *cobra.Command, a *App, args []string) error {
			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid post id %q", args[0])
			}
			if _, err := a.requireSession(cmd.Context()); err != nil {
				return err
			}
			if err := a.blog.DeletePost(cmd.Context(), id); err != nil {
				return err
			}
			fmt.Fprintf(a.out, "Deleted post %d\n", id)
			return nil
		}),
	}
}

func newThemesCmd(run runner) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "themes",
		Short: "List themes",
		Args:  cobra.NoArgs,
		RunE: run(func(cmd *cobra.Command, a *App, _ []string) error {
			if _, err := a.requireSession(cmd.Context()); err != nil {
				return err
			}
			themes, err := a.blog.ListThemes(cmd.Context())
			if err != nil {
				return err
			}

			w := tabwriter.NewWriter(a.out, 0, 0, 2, ' ', 0)
			_, _ = fmt.Fprintln(w, "ID\tNAME\tDESCRIPTION")
			for _, t := range themes {
				_, _ = fmt.Fprintf(w, "%d\t%s\t%s\n", t.ID, t.Name, t.Description)
			}
			return w.Flush()
		}),
	}

	cmd.AddCommand(newThemeCreateCmd(run))
	return cmd
}

func newThemeCreateCmd(run runner) *cobra.Command {
	var in models.CreateThemeRequest

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a theme",
		Args:  cobra.NoArgs,
		RunE: run(func(cmd *cobra.Command, a *App, _ []string) error {
			if _, err := a.requireSession(cmd.Context()); err != nil {
				return err
			}

			var err error
			if in.Name, err = a.ask(in.Name, "Enter name"); err != nil {
				return err
			}
			if in.Description, err = a.ask(in.Description, "Enter description"); err != nil {
				return err
			}

			t, err := a.blog.CreateTheme(cmd.Context(), in)
			if err != nil {
				return err
			}
			fmt.Fprintf(a.out, "Created theme %d\n", t.ID)
			return nil
		}),
	}

	cmd.Flags().StringVar(&in.Name, "name", "", "theme name")
	cmd.Flags().StringVar(&in.Description, "description", "", "theme description")
	return cmd
}

func printPosts(a *App, posts []models.Post) {
	w := tabwriter.NewWriter(a.out, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "ID\tTITLE\tTHEME\tAUTHOR")
	for _, p := range posts {
		theme := strconv.FormatInt(p.ThemeID, 10)
		if p.Theme != nil {
			theme = p.Theme.Name
		}
		author := strconv.FormatInt(p.UserID, 10)
		if p.User != nil {
			author = p.User.Username
		}
		_, _ = fmt.Fprintf(w, "%d\t%s\t%s\t%s\n", p.ID, p.Title, theme, author)
	}
	_ = w.Flush()
}
