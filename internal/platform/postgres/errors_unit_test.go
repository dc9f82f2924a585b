package postgres_test

import (
	"database/sql"
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"

	"github.com/costscope/costscope-api/internal/platform/postgres"
	"github.com/costscope/costscope-api/internal/store"
)

func pgError(code string) *pgconn.PgError {
	return &pgconn.PgError{Code: code, ConstraintName: "some_constraint"}
}

func TestMapError(t *testing.T) {
	t.Parallel()

	t.Run("nil error", func(t *testing.T) {
		t.Parallel()
		assert.NoError(t, postgres.MapError(nil))
	})

	t.Run("no rows", func(t *testing.T) {
		t.Parallel()
		assert.ErrorIs(t, postgres.MapError(sql.ErrNoRows), store.ErrNotFound)
	})

	t.Run("wrapped no rows", func(t *testing.T) {
		t.Parallel()
		err := fmt.Errorf("query user: %w", sql.ErrNoRows)
		assert.ErrorIs(t, postgres.MapError(err), store.ErrNotFound)
	})

	t.Run("unique violation", func(t *testing.T) {
		t.Parallel()
		assert.ErrorIs(t, postgres.MapError(pgError("23505")), store.ErrDuplicate)
	})

	t.Run("foreign key violation", func(t *testing.T) {
		t.Parallel()
		assert.ErrorIs(t, postgres.MapError(pgError("23503")), store.ErrInvalidEntity)
	})

	t.Run("check violation", func(t *testing.T) {
		t.Parallel()
		assert.ErrorIs(t, postgres.MapError(pgError("23514")), store.ErrInvalidEntity)
	})

	t.Run("not null violation", func(t *testing.T) {
		t.Parallel()
		assert.ErrorIs(t, postgres.MapError(pgError("23502")), store.ErrInvalidEntity)
	})

	t.Run("unrecognized errors pass through", func(t *testing.T) {
		t.Parallel()
		original := errors.New("network unreachable")
		assert.Equal(t, original, postgres.MapError(original))
	})
}

func TestErrorPredicates(t *testing.T) {
	t.Parallel()

	assert.True(t, postgres.IsUniqueViolation(pgError("23505")))
	assert.False(t, postgres.IsUniqueViolation(pgError("23503")))
	assert.False(t, postgres.IsUniqueViolation(errors.New("plain")))

	assert.True(t, postgres.IsForeignKeyViolation(pgError("23503")))
	assert.False(t, postgres.IsForeignKeyViolation(pgError("23505")))

	assert.True(t, postgres.IsNotFoundError(sql.ErrNoRows))
	assert.True(t, postgres.IsNotFoundError(postgres.MapError(sql.ErrNoRows)))
	assert.True(t, postgres.IsNotFoundError(store.ErrNotFound))
	assert.False(t, postgres.IsNotFoundError(errors.New("plain")))
}
