package dbx

import (
	"database/sql"
	"errors"
	"fmt"
	"testing"

	"github.com/dmitrijs2005/blogkeeper/internal/common"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMapError(t *testing.T) {
	dbDown := errors.New("db down")

	tests := []struct {
		in      error
		wantIs  error
		name    string
		wantMsg string
	}{
		{name: "no rows", in: sql.ErrNoRows, wantIs: common.ErrorNotFound},
		{name: "wrapped no rows", in: fmt.Errorf("scan: %w", sql.ErrNoRows), wantIs: common.ErrorNotFound},
		{name: "unique", in: &pgconn.PgError{Code: pgerrcode.UniqueViolation, ConstraintName: "users_email_key"},
			wantIs: common.ErrorAlreadyExists, wantMsg: "already exists: users_email_key"},
		{name: "foreign key", in: &pgconn.PgError{Code: pgerrcode.ForeignKeyViolation, ConstraintName: "posts_theme_id_fkey"},
			wantIs: common.ErrorNotFound, wantMsg: "not found: posts_theme_id_fkey"},
		{name: "other pg error", in: &pgconn.PgError{Code: pgerrcode.SerializationFailure}, wantMsg: "db error: "},
		{name: "plain error", in: dbDown, wantIs: dbDown, wantMsg: "db error: db down"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := MapError(tt.in)
			require.Error(t, err)
			if tt.wantIs != nil {
				assert.ErrorIs(t, err, tt.wantIs)
			}
			if tt.wantMsg != "" {
				assert.Contains(t, err.Error(), tt.wantMsg)
			}
		})
	}

	assert.NoError(t, MapError(nil))
}
