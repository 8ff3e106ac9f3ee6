// Package services contains server-side business logic: the user directory,
// credential validation and login, themes, posts and profile photos.
package services

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/blogkeeper/internal/logging"
	"github.com/dmitrijs2005/blogkeeper/internal/server/auth"
	"github.com/dmitrijs2005/blogkeeper/internal/server/models"
	"github.com/dmitrijs2005/blogkeeper/internal/server/repositories/repomanager"
)

// CreateUserInput is the signup payload.
type CreateUserInput struct {
	Username string `json:"username" validate:"required,max=255"`
	Email    string `json:"email" validate:"required,email,max=255"`
	Password string `json:"password" validate:"required,strongpassword"`
	Photo    string `json:"photo" validate:"max=5000"`
}

// UpdateUserInput replaces the fields that are non-nil. A nil Password keeps
// the stored hash.
type UpdateUserInput struct {
	ID       int64   `json:"id" validate:"gt=0"`
	Username *string `json:"username" validate:"omitnil,min=1,max=255"`
	Email    *string `json:"email" validate:"omitnil,email,max=255"`
	Password *string `json:"password" validate:"omitnil,strongpassword"`
	Photo    *string `json:"photo" validate:"omitnil,max=5000"`
}

// UserService is the user directory.
type UserService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	hasher      auth.PasswordHasher
	log         logging.Logger
}

// NewUserService constructs a UserService.
func NewUserService(db *sql.DB, m repomanager.RepositoryManager, hasher auth.PasswordHasher, log logging.Logger) *UserService {
	return &UserService{
		db:          db,
		repomanager: m,
		hasher:      hasher,
		log:         log.With("service", "users"),
	}
}

// Create validates the candidate, hashes its password and stores it.
// A taken username or email yields common.ErrorAlreadyExists.
func (s *UserService) Create(ctx context.Context, in CreateUserInput) (*models.User, error) {
	if err := validateInput(in); err != nil {
		return nil, err
	}

	hash, err := s.hasher.Hash(in.Password)
	if err != nil {
		return nil, classify(ctx, s.log, "hash password", err)
	}

	u, err := s.repomanager.Users(s.db).Create(ctx, &models.User{
		Username:     in.Username,
		Email:        in.Email,
		PasswordHash: hash,
		Photo:        in.Photo,
	})
	if err != nil {
		return nil, classify(ctx, s.log, "create user", err)
	}

	s.log.Info(ctx, "user created", "user_id", u.ID)
	return u, nil
}

func (s *UserService) FindAll(ctx context.Context) ([]*models.User, error) {
	res, err := s.repomanager.Users(s.db).List(ctx)
	if err != nil {
		return nil, classify(ctx, s.log, "list users", err)
	}
	return res, nil
}

func (s *UserService) FindByID(ctx context.Context, id int64) (*models.User, error) {
	u, err := s.repomanager.Users(s.db).GetByID(ctx, id)
	if err != nil {
		return nil, classify(ctx, s.log, "get user", wrapNotFound(err, "user %d", id))
	}
	return u, nil
}

func (s *UserService) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	u, err := s.repomanager.Users(s.db).GetByEmail(ctx, email)
	if err != nil {
		return nil, classify(ctx, s.log, "get user by email", wrapNotFound(err, "user %q", email))
	}
	return u, nil
}

// FindByUsername matches fragment case-insensitively anywhere in the
// username. No match is an empty slice.
func (s *UserService) FindByUsername(ctx context.Context, fragment string) ([]*models.User, error) {
	res, err := s.repomanager.Users(s.db).FindByUsername(ctx, fragment)
	if err != nil {
		return nil, classify(ctx, s.log, "find users by username", err)
	}
	return res, nil
}

// Update merges in onto the stored user. A new password is validated and
// re-hashed; otherwise the stored hash is written back unchanged.
func (s *UserService) Update(ctx context.Context, in UpdateUserInput) (*models.User, error) {
	if err := validateInput(in); err != nil {
		return nil, err
	}

	repo := s.repomanager.Users(s.db)

	u, err := repo.GetByID(ctx, in.ID)
	if err != nil {
		return nil, classify(ctx, s.log, "get user", wrapNotFound(err, "user %d", in.ID))
	}

	if in.Username != nil {
		u.Username = *in.Username
	}
	if in.Email != nil {
		u.Email = *in.Email
	}
	if in.Photo != nil {
		u.Photo = *in.Photo
	}
	if in.Password != nil {
		hash, err := s.hasher.Hash(*in.Password)
		if err != nil {
			return nil, classify(ctx, s.log, "hash password", err)
		}
		u.PasswordHash = hash
	}

	u, err = repo.Update(ctx, u)
	if err != nil {
		return nil, classify(ctx, s.log, "update user", wrapNotFound(err, "user %d", in.ID))
	}

	s.log.Info(ctx, "user updated", "user_id", u.ID, "password_changed", in.Password != nil)
	return u, nil
}

// Delete removes the user; the schema cascades to their posts.
func (s *UserService) Delete(ctx context.Context, id int64) error {
	if err := s.repomanager.Users(s.db).Delete(ctx, id); err != nil {
		return classify(ctx, s.log, "delete user", wrapNotFound(err, "user %d", id))
	}
	s.log.Info(ctx, "user deleted", "user_id", id)
	return nil
}
