package services

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/blogkeeper/internal/dbx"
	"github.com/dmitrijs2005/blogkeeper/internal/logging"
	"github.com/dmitrijs2005/blogkeeper/internal/server/models"
	"github.com/dmitrijs2005/blogkeeper/internal/server/repositories/repomanager"
)

type CreateThemeInput struct {
	Name        string `json:"name" validate:"required,max=100"`
	Description string `json:"description" validate:"required,max=255"`
}

type UpdateThemeInput struct {
	Name        *string `json:"name" validate:"omitnil,min=1,max=100"`
	Description *string `json:"description" validate:"omitnil,min=1,max=255"`
}

// ThemeService manages themes. Deleting a theme removes its posts.
type ThemeService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	log         logging.Logger
}

func NewThemeService(db *sql.DB, m repomanager.RepositoryManager, log logging.Logger) *ThemeService {
	return &ThemeService{db: db, repomanager: m, log: log.With("service", "themes")}
}

func (s *ThemeService) Create(ctx context.Context, in CreateThemeInput) (*models.Theme, error) {
	if err := validateInput(in); err != nil {
		return nil, err
	}

	t, err := s.repomanager.Themes(s.db).Create(ctx, &models.Theme{Name: in.Name, Description: in.Description})
	if err != nil {
		return nil, classify(ctx, s.log, "create theme", err)
	}

	s.log.Info(ctx, "theme created", "theme_id", t.ID)
	return t, nil
}

func (s *ThemeService) FindAll(ctx context.Context) ([]*models.Theme, error) {
	res, err := s.repomanager.Themes(s.db).List(ctx)
	if err != nil {
		return nil, classify(ctx, s.log, "list themes", err)
	}
	return res, nil
}

func (s *ThemeService) FindByID(ctx context.Context, id int64) (*models.Theme, error) {
	t, err := s.repomanager.Themes(s.db).GetByID(ctx, id)
	if err != nil {
		return nil, classify(ctx, s.log, "get theme", wrapNotFound(err, "theme %d", id))
	}
	return t, nil
}

// FindByName matches fragment case-insensitively; no match is an empty slice.
func (s *ThemeService) FindByName(ctx context.Context, fragment string) ([]*models.Theme, error) {
	res, err := s.repomanager.Themes(s.db).FindByName(ctx, fragment)
	if err != nil {
		return nil, classify(ctx, s.log, "find themes by name", err)
	}
	return res, nil
}

// FindByDescription matches fragment case-insensitively; no match is an
// empty slice.
func (s *ThemeService) FindByDescription(ctx context.Context, fragment string) ([]*models.Theme, error) {
	res, err := s.repomanager.Themes(s.db).FindByDescription(ctx, fragment)
	if err != nil {
		return nil, classify(ctx, s.log, "find themes by description", err)
	}
	return res, nil
}

// Update merges the provided fields onto theme id. An empty input writes nothing.
func (s *ThemeService) Update(ctx context.Context, id int64, in UpdateThemeInput) (*models.Theme, error) {
	if err := validateInput(in); err != nil {
		return nil, err
	}

	repo := s.repomanager.Themes(s.db)

	t, err := repo.GetByID(ctx, id)
	if err != nil {
		return nil, classify(ctx, s.log, "get theme", wrapNotFound(err, "theme %d", id))
	}

	if in.Name == nil && in.Description == nil {
		return t, nil
	}
	if in.Name != nil {
		t.Name = *in.Name
	}
	if in.Description != nil {
		t.Description = *in.Description
	}

	t, err = repo.Update(ctx, t)
	if err != nil {
		return nil, classify(ctx, s.log, "update theme", wrapNotFound(err, "theme %d", id))
	}

	s.log.Info(ctx, "theme updated", "theme_id", id)
	return t, nil
}

// Delete removes the posts of theme id and then the theme, in one transaction.
func (s *ThemeService) Delete(ctx context.Context, id int64) error {
	var removedPosts int64

	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		n, err := s.repomanager.Posts(tx).DeleteByTheme(ctx, id)
		if err != nil {
			return err
		}
		removedPosts = n
		return s.repomanager.Themes(tx).Delete(ctx, id)
	})
	if err != nil {
		return classify(ctx, s.log, "delete theme", wrapNotFound(err, "theme %d", id))
	}

	s.log.Info(ctx, "theme deleted", "theme_id", id, "posts_removed", removedPosts)
	return nil
}
