// Package cli implements the blogctl commands on top of cobra.
package cli

import (
	"bufio"
	"context"
	"io"
	"net/http"
	"os"

	"github.com/dmitrijs2005/blogkeeper/internal/client/client"
	"github.com/dmitrijs2005/blogkeeper/internal/client/config"
	"github.com/dmitrijs2005/blogkeeper/internal/client/models"
	"github.com/dmitrijs2005/blogkeeper/internal/client/services"
	"github.com/dmitrijs2005/blogkeeper/internal/filex"
)

// BlogAPI is the content part of the HTTP client.
type BlogAPI interface {
	ListPosts(ctx context.Context) ([]models.Post, error)
	SearchPosts(ctx context.Context, title string) ([]models.Post, error)
	CreatePost(ctx context.Context, in models.CreatePostRequest) (*models.Post, error)
	DeletePost(ctx context.Context, id int64) error
	ListThemes(ctx context.Context) ([]models.Theme, error)
	CreateTheme(ctx context.Context, in models.CreateThemeRequest) (*models.Theme, error)
	RequestPhotoUpload(ctx context.Context, userID int64) (*models.PhotoUpload, error)
}

type App struct {
	authService services.AuthService
	blog        BlogAPI
	httpClient  *http.Client
	reader      *bufio.Reader
	out         io.Writer
	close       func() error
}

// options are the global flags.
type options struct {
	configFile  string
	serverURL   string
	sessionFile string
}

// openApp builds an App from configuration, letting non-empty flags win.
func openApp(ctx context.Context, opts *options, out io.Writer) (*App, error) {
	cfg, err := config.LoadConfig(opts.configFile)
	if err != nil {
		return nil, err
	}
	if opts.serverURL != "" {
		cfg.ServerURL = opts.serverURL
	}
	if opts.sessionFile != "" {
		cfg.SessionFile = opts.sessionFile
	}

	if err := filex.EnsureParentDir(cfg.SessionFile); err != nil {
		return nil, err
	}
	repos, err := client.InitDatabase(ctx, cfg.SessionFile)
	if err != nil {
		return nil, err
	}

	api := client.New(cfg.ServerURL, cfg.RequestTimeout)

	return &App{
		authService: services.NewAuthService(api, repos.Metadata),
		blog:        api,
		httpClient:  api.HTTPClient(),
		reader:      bufio.NewReader(os.Stdin),
		out:         out,
		close:       repos.DB.Close,
	}, nil
}

func (a *App) Close() error {
	if a.close == nil {
		return nil
	}
	return a.close()
}

// requireSession loads the saved token or fails with services.ErrNotLoggedIn.
func (a *App) requireSession(ctx context.Context) (*models.Session, error) {
	return a.authService.Restore(ctx)
}

// ask returns v when set and prompts for it otherwise.
func (a *App) ask(v, prompt string) (string, error) {
	if v != "" {
		return v, nil
	}
	return getSimpleText(a.reader, prompt, a.out)
}
