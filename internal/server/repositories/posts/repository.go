package posts

import (
	"context"

	"github.com/dmitrijs2005/blogkeeper/internal/server/models"
)

// Repository persists posts. Reads join the theme and the author; writes
// only store the ids.
type Repository interface {
	Create(ctx context.Context, post *models.Post) (*models.Post, error)
	GetByID(ctx context.Context, id int64) (*models.Post, error)
	List(ctx context.Context) ([]*models.Post, error)
	FindByTitle(ctx context.Context, fragment string) ([]*models.Post, error)
	Update(ctx context.Context, post *models.Post) (*models.Post, error)
	Delete(ctx context.Context, id int64) error
	// DeleteByTheme removes every post of a theme and reports how many went.
	DeleteByTheme(ctx context.Context, themeID int64) (int64, error)
}
