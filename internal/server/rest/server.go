// Package rest is the HTTP boundary of the blog API: routing, the access
// guard, request logging and metrics, and the error-to-status mapping.
package rest

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/dmitrijs2005/blogkeeper/internal/logging"
	"github.com/dmitrijs2005/blogkeeper/internal/server/auth"
	"github.com/dmitrijs2005/blogkeeper/internal/server/models"
	"github.com/dmitrijs2005/blogkeeper/internal/server/services"
)

const shutdownTimeout = 10 * time.Second

type UserService interface {
	Create(ctx context.Context, in services.CreateUserInput) (*models.User, error)
	FindAll(ctx context.Context) ([]*models.User, error)
	FindByID(ctx context.Context, id int64) (*models.User, error)
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	FindByUsername(ctx context.Context, fragment string) ([]*models.User, error)
	Update(ctx context.Context, in services.UpdateUserInput) (*models.User, error)
	Delete(ctx context.Context, id int64) error
}

type AuthService interface {
	Login(ctx context.Context, in services.LoginInput) (*services.LoginResult, error)
}

type ThemeService interface {
	Create(ctx context.Context, in services.CreateThemeInput) (*models.Theme, error)
	FindAll(ctx context.Context) ([]*models.Theme, error)
	FindByID(ctx context.Context, id int64) (*models.Theme, error)
	FindByName(ctx context.Context, fragment string) ([]*models.Theme, error)
	FindByDescription(ctx context.Context, fragment string) ([]*models.Theme, error)
	Update(ctx context.Context, id int64, in services.UpdateThemeInput) (*models.Theme, error)
	Delete(ctx context.Context, id int64) error
}

type PostService interface {
	Create(ctx context.Context, in services.CreatePostInput) (*models.Post, error)
	FindAll(ctx context.Context) ([]*models.Post, error)
	FindByID(ctx context.Context, id int64) (*models.Post, error)
	FindByTitle(ctx context.Context, fragment string) ([]*models.Post, error)
	Update(ctx context.Context, id int64, in services.UpdatePostInput) (*models.Post, error)
	Delete(ctx context.Context, id int64) error
}

type PhotoService interface {
	RequestUpload(ctx context.Context, userID int64) (*services.PhotoUpload, error)
}

// Services bundles the domain services the handlers call.
type Services struct {
	Users  UserService
	Auth   AuthService
	Themes ThemeService
	Posts  PostService
	Photos PhotoService
}

type Server struct {
	address string
	logger  logging.Logger
	issuer  *auth.TokenIssuer
	metrics *Metrics

	users  UserService
	auth   AuthService
	themes ThemeService
	posts  PostService
	photos PhotoService

	handler http.Handler
}

func NewServer(address string, l logging.Logger, issuer *auth.TokenIssuer, svc Services, m *Metrics) *Server {
	if m == nil {
		m = NewMetrics(nil)
	}
	s := &Server{
		address: address,
		logger:  l.With("module", "http_server"),
		issuer:  issuer,
		metrics: m,
		users:   svc.Users,
		auth:    svc.Auth,
		themes:  svc.Themes,
		posts:   svc.Posts,
		photos:  svc.Photos,
	}
	s.handler = s.routes()
	return s
}

// Handler returns the fully wired router.
func (s *Server) Handler() http.Handler {
	return s.handler
}

// Run serves until ctx is cancelled, then drains in-flight requests.
func (s *Server) Run(ctx context.Context) error {
	listen, err := net.Listen("tcp", s.address)
	if err != nil {
		return err
	}
	return s.Serve(ctx, listen)
}

// Serve is Run on an existing listener.
func (s *Server) Serve(ctx context.Context, listen net.Listener) error {
	srv := &http.Server{
		Handler:           s.handler,
		ReadHeaderTimeout: 5 * time.Second,
	}

	done := make(chan struct{})
	go func() {
		defer close(done)
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping HTTP server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			s.logger.Error(ctx, "shutdown failed", "error", err)
		}
	}()

	s.logger.Info(ctx, "Starting HTTP server", "address", listen.Addr().String())

	if err := srv.Serve(listen); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	<-done
	return nil
}
