// Package posts is the Postgres-backed store of blog posts.
package posts

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/blogkeeper/internal/common"
	"github.com/dmitrijs2005/blogkeeper/internal/dbx"
	"github.com/dmitrijs2005/blogkeeper/internal/server/models"
)

const selectJoined = `SELECT p.id, p.title, p.text, p.theme_id, p.user_id, p.created_at, p.updated_at,
		 t.id, t.name, t.description, t.created_at, t.updated_at,
		 u.id, u.username, u.email, u.photo, u.created_at, u.updated_at
		 FROM posts p
		 JOIN themes t ON t.id = p.theme_id
		 JOIN users u ON u.id = p.user_id
		 `

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func scanPost(s dbx.Scanner) (*models.Post, error) {
	p := &models.Post{Theme: &models.Theme{}, User: &models.PublicUser{}}
	err := s.Scan(
		&p.ID, &p.Title, &p.Text, &p.ThemeID, &p.UserID, &p.CreatedAt, &p.UpdatedAt,
		&p.Theme.ID, &p.Theme.Name, &p.Theme.Description, &p.Theme.CreatedAt, &p.Theme.UpdatedAt,
		&p.User.ID, &p.User.Username, &p.User.Email, &p.User.Photo, &p.User.CreatedAt, &p.User.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return p, nil
}

// Create inserts the post. A theme or user removed since the caller checked
// surfaces as common.ErrorNotFound through the foreign keys.
func (r *PostgresRepository) Create(ctx context.Context, post *models.Post) (*models.Post, error) {
	query :=
		`INSERT INTO posts (title, text, theme_id, user_id)
		 VALUES ($1, $2, $3, $4)
		 RETURNING id, created_at, updated_at
		 `

	err := r.db.QueryRowContext(ctx, query, post.Title, post.Text, post.ThemeID, post.UserID).
		Scan(&post.ID, &post.CreatedAt, &post.UpdatedAt)
	if err != nil {
		return nil, dbx.MapError(err)
	}

	return post, nil
}

func (r *PostgresRepository) GetByID(ctx context.Context, id int64) (*models.Post, error) {
	p, err := scanPost(r.db.QueryRowContext(ctx, selectJoined+`WHERE p.id = $1`, id))
	if err != nil {
		return nil, dbx.MapError(err)
	}
	return p, nil
}

func (r *PostgresRepository) List(ctx context.Context) ([]*models.Post, error) {
	return r.query(ctx, selectJoined+`ORDER BY p.id`)
}

func (r *PostgresRepository) FindByTitle(ctx context.Context, fragment string) ([]*models.Post, error) {
	return r.query(ctx, selectJoined+`WHERE p.title ILIKE $1 ORDER BY p.id`, dbx.ContainsPattern(fragment))
}

func (r *PostgresRepository) query(ctx context.Context, query string, args ...any) ([]*models.Post, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, dbx.MapError(err)
	}
	defer rows.Close()

	res := make([]*models.Post, 0)
	for rows.Next() {
		p, err := scanPost(rows)
		if err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		res = append(res, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return res, nil
}

// Update stores title, text and theme of post.ID. The author never changes.
func (r *PostgresRepository) Update(ctx context.Context, post *models.Post) (*models.Post, error) {
	query :=
		`UPDATE posts SET title = $2, text = $3, theme_id = $4, updated_at = now()
		 WHERE id = $1
		 RETURNING user_id, created_at, updated_at
		 `

	err := r.db.QueryRowContext(ctx, query, post.ID, post.Title, post.Text, post.ThemeID).
		Scan(&post.UserID, &post.CreatedAt, &post.UpdatedAt)
	if err != nil {
		return nil, dbx.MapError(err)
	}

	return post, nil
}

func (r *PostgresRepository) Delete(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM posts WHERE id = $1`, id)
	if err != nil {
		return dbx.MapError(err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if n == 0 {
		return common.ErrorNotFound
	}

	return nil
}

func (r *PostgresRepository) DeleteByTheme(ctx context.Context, themeID int64) (int64, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM posts WHERE theme_id = $1`, themeID)
	if err != nil {
		return 0, dbx.MapError(err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}

	return n, nil
}
