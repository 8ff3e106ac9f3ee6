package services

import (
	"context"
	"database/sql"
	"errors"

	"github.com/dmitrijs2005/blogkeeper/internal/common"
	"github.com/dmitrijs2005/blogkeeper/internal/logging"
	"github.com/dmitrijs2005/blogkeeper/internal/server/auth"
	"github.com/dmitrijs2005/blogkeeper/internal/server/models"
	"github.com/dmitrijs2005/blogkeeper/internal/server/repositories/repomanager"
)

// LoginInput is the login payload.
type LoginInput struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// LoginResult is returned by a successful login. Token carries the
// "Bearer " prefix.
type LoginResult struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
	Token    string `json:"token"`
}

// AuthService validates credentials and issues session tokens.
type AuthService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	hasher      auth.PasswordHasher
	issuer      *auth.TokenIssuer
	log         logging.Logger

	// dummyHash is verified against when the email is unknown so both
	// failure paths cost one hash comparison.
	dummyHash string
}

// NewAuthService constructs an AuthService.
func NewAuthService(db *sql.DB, m repomanager.RepositoryManager, hasher auth.PasswordHasher, issuer *auth.TokenIssuer, log logging.Logger) *AuthService {
	dummy, _ := hasher.Hash("dummy-Passw0rd!")
	return &AuthService{
		db:          db,
		repomanager: m,
		hasher:      hasher,
		issuer:      issuer,
		log:         log.With("service", "auth"),
		dummyHash:   dummy,
	}
}

// Validate resolves the user by exact email and checks the password.
// An unknown email and a wrong password both yield
// common.ErrInvalidCredentials. The returned user has no password hash.
func (s *AuthService) Validate(ctx context.Context, email, password string) (*models.User, error) {
	u, err := s.repomanager.Users(s.db).GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			if s.dummyHash != "" {
				_, _ = s.hasher.Verify(password, s.dummyHash)
			}
			s.log.Warn(ctx, "credential validation failed", "reason", "unknown email")
			return nil, common.ErrInvalidCredentials
		}
		return nil, classify(ctx, s.log, "get user by email", err)
	}

	ok, err := s.hasher.Verify(password, u.PasswordHash)
	if err != nil {
		return nil, classify(ctx, s.log, "verify password", err)
	}
	if !ok {
		s.log.Warn(ctx, "credential validation failed", "reason", "password mismatch", "user_id", u.ID)
		return nil, common.ErrInvalidCredentials
	}

	u.PasswordHash = ""
	return u, nil
}

// Login validates the credentials and mints a bearer token for the user.
func (s *AuthService) Login(ctx context.Context, in LoginInput) (*LoginResult, error) {
	if err := validateInput(in); err != nil {
		return nil, err
	}

	u, err := s.Validate(ctx, in.Email, in.Password)
	if err != nil {
		return nil, err
	}

	token, err := s.issuer.Issue(auth.Identity{ID: u.ID, Username: u.Username, Email: u.Email})
	if err != nil {
		return nil, classify(ctx, s.log, "issue token", err)
	}

	s.log.Info(ctx, "user logged in", "user_id", u.ID)
	return &LoginResult{ID: u.ID, Username: u.Username, Email: u.Email, Token: token}, nil
}
