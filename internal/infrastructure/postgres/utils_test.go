package postgres

import (
	"errors"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/suvenirs-api/internal/domain/repository"
)

func TestWhere_NumeraArgumentos(t *testing.T) {
	w := &where{}
	w.add("a = ?", 1)
	w.add("(b ILIKE ? OR c ILIKE ?)", "%x%", "%x%")
	w.add("d = 0")

	assert.Equal(t, " WHERE a = $1 AND (b ILIKE $2 OR c ILIKE $3) AND d = 0", w.sql())
	assert.Equal(t, " LIMIT $4 OFFSET $5", w.limitOffset(repository.Page{Limit: 10, Offset: 20}))
	assert.Equal(t, []any{1, "%x%", "%x%", 10, 20}, w.args)
}

func TestWhere_SinCondiciones(t *testing.T) {
	assert.Equal(t, "", (&where{}).sql())
}

func TestOrderBy(t *testing.T) {
	cols := map[string]string{"name": "p.name"}

	assert.Equal(t, " ORDER BY p.name ASC NULLS LAST, p.id ASC",
		orderBy(repository.SortSpec{Field: "name"}, cols, "p.created_at"))
	// Campo fuera de la lista blanca: nunca llega al SQL.
	assert.Equal(t, " ORDER BY p.created_at DESC NULLS LAST, p.id DESC",
		orderBy(repository.SortSpec{Field: "name; DROP TABLE products", Desc: true}, cols, "p.created_at"))
	assert.Equal(t, " ORDER BY created_at ASC NULLS LAST, id ASC",
		orderBy(repository.SortSpec{}, nil, "created_at"))
}

func TestLikePattern_EscapaComodines(t *testing.T) {
	assert.Equal(t, `%50\%\_off%`, likePattern("50%_off"))
}

func TestIsUniqueViolation(t *testing.T) {
	assert.True(t, isUniqueViolation(&pgconn.PgError{Code: "23505"}))
	assert.False(t, isUniqueViolation(&pgconn.PgError{Code: "23503"}))
	assert.False(t, isUniqueViolation(errors.New("23505 en el texto no cuenta")))
	assert.True(t, isForeignKeyViolation(&pgconn.PgError{Code: "23503"}))
}

func TestNullString(t *testing.T) {
	assert.Nil(t, nullString(""))
	assert.Equal(t, "x", *nullString("x"))
	assert.Equal(t, "", derefString(nil))
}
