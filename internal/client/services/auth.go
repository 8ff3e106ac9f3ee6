// Package services contains the blogctl application services. The auth
// service signs users up, logs them in and keeps the session token in the
// local metadata store so later invocations stay authenticated.
package services

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/dmitrijs2005/blogkeeper/internal/client/models"
	"github.com/dmitrijs2005/blogkeeper/internal/client/repositories/metadata"
)

const (
	tokenKey    = "token"
	usernameKey = "username"
	userIDKey   = "user_id"
)

var ErrNotLoggedIn = errors.New("not logged in, run 'blogctl login' first")

// API is the part of the HTTP client the auth service needs.
type API interface {
	Signup(ctx context.Context, in models.SignupRequest) (*models.User, error)
	Login(ctx context.Context, in models.LoginRequest) (*models.Session, error)
	SetToken(token string)
}

// AuthService defines authentication operations for the CLI.
type AuthService interface {
	Signup(ctx context.Context, username, email string, password []byte) (*models.User, error)
	Login(ctx context.Context, email string, password []byte) (*models.Session, error)
	Logout(ctx context.Context) error
	// Restore loads a saved token into the API client and returns the
	// session it belongs to, or ErrNotLoggedIn.
	Restore(ctx context.Context) (*models.Session, error)
}

type authService struct {
	api      API
	metadata metadata.Repository
}

// NewAuthService constructs an AuthService bound to the given API client and
// session store.
func NewAuthService(api API, repo metadata.Repository) AuthService {
	return &authService{api: api, metadata: repo}
}

func (a *authService) Signup(ctx context.Context, username, email string, password []byte) (*models.User, error) {
	return a.api.Signup(ctx, models.SignupRequest{Username: username, Email: email, Password: string(password)})
}

// Login authenticates and persists the returned token.
func (a *authService) Login(ctx context.Context, email string, password []byte) (*models.Session, error) {
	s, err := a.api.Login(ctx, models.LoginRequest{Email: email, Password: string(password)})
	if err != nil {
		return nil, err
	}

	values := map[string]string{
		tokenKey:    s.Token,
		usernameKey: s.Username,
		userIDKey:   strconv.FormatInt(s.ID, 10),
	}
	for k, v := range values {
		if err := a.metadata.Set(ctx, k, []byte(v)); err != nil {
			return nil, fmt.Errorf("save session: %w", err)
		}
	}

	a.api.SetToken(s.Token)
	return s, nil
}

func (a *authService) Logout(ctx context.Context) error {
	a.api.SetToken("")
	return a.metadata.Clear(ctx)
}

func (a *authService) Restore(ctx context.Context) (*models.Session, error) {
	token, err := a.metadata.Get(ctx, tokenKey)
	if err != nil {
		return nil, err
	}
	if len(token) == 0 {
		return nil, ErrNotLoggedIn
	}

	username, err := a.metadata.Get(ctx, usernameKey)
	if err != nil {
		return nil, err
	}
	rawID, err := a.metadata.Get(ctx, userIDKey)
	if err != nil {
		return nil, err
	}
	id, err := strconv.ParseInt(string(rawID), 10, 64)
	if err != nil || id <= 0 {
		return nil, fmt.Errorf("%w (stored session has invalid user id %q)", ErrNotLoggedIn, rawID)
	}

	a.api.SetToken(string(token))
	return &models.Session{ID: id, Username: string(username), Token: string(token)}, nil
}
