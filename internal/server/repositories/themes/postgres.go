// Package themes is the Postgres-backed store of post themes.
package themes

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/blogkeeper/internal/common"
	"github.com/dmitrijs2005/blogkeeper/internal/dbx"
	"github.com/dmitrijs2005/blogkeeper/internal/server/models"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func scanTheme(s dbx.Scanner) (*models.Theme, error) {
	t := &models.Theme{}
	if err := s.Scan(&t.ID, &t.Name, &t.Description, &t.CreatedAt, &t.UpdatedAt); err != nil {
		return nil, err
	}
	return t, nil
}

func (r *PostgresRepository) Create(ctx context.Context, theme *models.Theme) (*models.Theme, error) {
	query :=
		`INSERT INTO themes (name, description)
		 VALUES ($1, $2)
		 RETURNING id, created_at, updated_at
		 `

	err := r.db.QueryRowContext(ctx, query, theme.Name, theme.Description).
		Scan(&theme.ID, &theme.CreatedAt, &theme.UpdatedAt)
	if err != nil {
		return nil, dbx.MapError(err)
	}

	return theme, nil
}

func (r *PostgresRepository) GetByID(ctx context.Context, id int64) (*models.Theme, error) {
	query :=
		`SELECT id, name, description, created_at, updated_at FROM themes
		 WHERE id = $1
		 `

	t, err := scanTheme(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		return nil, dbx.MapError(err)
	}
	return t, nil
}

func (r *PostgresRepository) List(ctx context.Context) ([]*models.Theme, error) {
	query :=
		`SELECT id, name, description, created_at, updated_at FROM themes
		 ORDER BY id
		 `
	return r.query(ctx, query)
}

func (r *PostgresRepository) FindByName(ctx context.Context, fragment string) ([]*models.Theme, error) {
	query :=
		`SELECT id, name, description, created_at, updated_at FROM themes
		 WHERE name ILIKE $1
		 ORDER BY id
		 `
	return r.query(ctx, query, dbx.ContainsPattern(fragment))
}

func (r *PostgresRepository) FindByDescription(ctx context.Context, fragment string) ([]*models.Theme, error) {
	query :=
		`SELECT id, name, description, created_at, updated_at FROM themes
		 WHERE description ILIKE $1
		 ORDER BY id
		 `
	return r.query(ctx, query, dbx.ContainsPattern(fragment))
}

func (r *PostgresRepository) query(ctx context.Context, query string, args ...any) ([]*models.Theme, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, dbx.MapError(err)
	}
	defer rows.Close()

	res := make([]*models.Theme, 0)
	for rows.Next() {
		t, err := scanTheme(rows)
		if err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		res = append(res, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return res, nil
}

func (r *PostgresRepository) Update(ctx context.Context, theme *models.Theme) (*models.Theme, error) {
	query :=
		`UPDATE themes SET name = $2, description = $3, updated_at = now()
		 WHERE id = $1
		 RETURNING created_at, updated_at
		 `

	err := r.db.QueryRowContext(ctx, query, theme.ID, theme.Name, theme.Description).
		Scan(&theme.CreatedAt, &theme.UpdatedAt)
	if err != nil {
		return nil, dbx.MapError(err)
	}

	return theme, nil
}

func (r *PostgresRepository) Delete(ctx context.Context, id int64) error {
	query := `DELETE FROM themes WHERE id = $1`

	res, err := r.db.ExecContext(ctx, query, id)
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
