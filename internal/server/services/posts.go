package services

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/blogkeeper/internal/logging"
	"github.com/dmitrijs2005/blogkeeper/internal/server/models"
	"github.com/dmitrijs2005/blogkeeper/internal/server/repositories/repomanager"
)

// CreatePostInput is the post creation payload. The HTTP layer fills UserID
// from the caller's token when the body leaves it out.
type CreatePostInput struct {
	Title   string `json:"title" validate:"required,max=100"`
	Text    string `json:"text" validate:"required,max=1000"`
	ThemeID int64  `json:"themeId" validate:"gt=0"`
	UserID  int64  `json:"userId" validate:"gt=0"`
}

// UpdatePostInput carries the fields to change; nil fields keep their value.
type UpdatePostInput struct {
	Title   *string `json:"title" validate:"omitnil,min=1,max=100"`
	Text    *string `json:"text" validate:"omitnil,min=1,max=1000"`
	ThemeID *int64  `json:"themeId" validate:"omitnil,gt=0"`
}

func (in UpdatePostInput) empty() bool {
	return in.Title == nil && in.Text == nil && in.ThemeID == nil
}

// PostService manages posts. Every write confirms the referenced theme (and
// on create the author) exists before touching the posts table.
type PostService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	log         logging.Logger
}

func NewPostService(db *sql.DB, m repomanager.RepositoryManager, log logging.Logger) *PostService {
	return &PostService{db: db, repomanager: m, log: log.With("service", "posts")}
}

// Create stores a new post. An unknown theme or author yields
// common.ErrorNotFound and nothing is written.
func (s *PostService) Create(ctx context.Context, in CreatePostInput) (*models.Post, error) {
	if err := validateInput(in); err != nil {
		return nil, err
	}

	theme, err := s.repomanager.Themes(s.db).GetByID(ctx, in.ThemeID)
	if err != nil {
		return nil, classify(ctx, s.log, "get theme", wrapNotFound(err, "theme %d", in.ThemeID))
	}

	author, err := s.repomanager.Users(s.db).GetByID(ctx, in.UserID)
	if err != nil {
		return nil, classify(ctx, s.log, "get user", wrapNotFound(err, "user %d", in.UserID))
	}

	p, err := s.repomanager.Posts(s.db).Create(ctx, &models.Post{
		Title:   in.Title,
		Text:    in.Text,
		ThemeID: theme.ID,
		UserID:  author.ID,
	})
	if err != nil {
		return nil, classify(ctx, s.log, "create post", err)
	}

	pub := author.Public()
	p.Theme = theme
	p.User = &pub

	s.log.Info(ctx, "post created", "post_id", p.ID, "theme_id", theme.ID, "user_id", author.ID)
	return p, nil
}

func (s *PostService) FindAll(ctx context.Context) ([]*models.Post, error) {
	res, err := s.repomanager.Posts(s.db).List(ctx)
	if err != nil {
		return nil, classify(ctx, s.log, "list posts", err)
	}
	return res, nil
}

func (s *PostService) FindByID(ctx context.Context, id int64) (*models.Post, error) {
	p, err := s.repomanager.Posts(s.db).GetByID(ctx, id)
	if err != nil {
		return nil, classify(ctx, s.log, "get post", wrapNotFound(err, "post %d", id))
	}
	return p, nil
}

// FindByTitle matches fragment case-insensitively; no match is an empty slice.
func (s *PostService) FindByTitle(ctx context.Context, fragment string) ([]*models.Post, error) {
	res, err := s.repomanager.Posts(s.db).FindByTitle(ctx, fragment)
	if err != nil {
		return nil, classify(ctx, s.log, "find posts by title", err)
	}
	return res, nil
}

// Update merges the provided fields onto post id. A provided theme must
// exist. An empty input returns the stored post without writing.
func (s *PostService) Update(ctx context.Context, id int64, in UpdatePostInput) (*models.Post, error) {
	if err := validateInput(in); err != nil {
		return nil, err
	}

	repo := s.repomanager.Posts(s.db)

	p, err := repo.GetByID(ctx, id)
	if err != nil {
		return nil, classify(ctx, s.log, "get post", wrapNotFound(err, "post %d", id))
	}

	if in.empty() {
		return p, nil
	}

	if in.ThemeID != nil {
		theme, err := s.repomanager.Themes(s.db).GetByID(ctx, *in.ThemeID)
		if err != nil {
			return nil, classify(ctx, s.log, "get theme", wrapNotFound(err, "theme %d", *in.ThemeID))
		}
		p.ThemeID = theme.ID
		p.Theme = theme
	}
	if in.Title != nil {
		p.Title = *in.Title
	}
	if in.Text != nil {
		p.Text = *in.Text
	}

	if _, err := repo.Update(ctx, p); err != nil {
		return nil, classify(ctx, s.log, "update post", wrapNotFound(err, "post %d", id))
	}

	s.log.Info(ctx, "post updated", "post_id", id)
	return p, nil
}

func (s *PostService) Delete(ctx context.Context, id int64) error {
	if err := s.repomanager.Posts(s.db).Delete(ctx, id); err != nil {
		return classify(ctx, s.log, "delete post", wrapNotFound(err, "post %d", id))
	}
	s.log.Info(ctx, "post deleted", "post_id", id)
	return nil
}
