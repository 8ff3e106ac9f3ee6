package themes

import (
	"context"

	"github.com/dmitrijs2005/blogkeeper/internal/server/models"
)

// Repository persists themes. GetByID, Update and Delete return
// common.ErrorNotFound for unknown ids; searches return an empty slice.
type Repository interface {
	Create(ctx context.Context, theme *models.Theme) (*models.Theme, error)
	GetByID(ctx context.Context, id int64) (*models.Theme, error)
	List(ctx context.Context) ([]*models.Theme, error)
	FindByName(ctx context.Context, fragment string) ([]*models.Theme, error)
	FindByDescription(ctx context.Context, fragment string) ([]*models.Theme, error)
	Update(ctx context.Context, theme *models.Theme) (*models.Theme, error)
	Delete(ctx context.Context, id int64) error
}
