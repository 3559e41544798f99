package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/jhoicas/suvenirs-api/internal/domain/repository"
)

// Querier operaciones comunes a *pgxpool.Pool y pgx.Tx; los repos aceptan cualquiera de los dos.
type Querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// isUniqueViolation verifica si un error es una violación de constraint único (23505).
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505" // unique_violation
	}
	return false
}

// isForeignKeyViolation verifica si un error es una violación de llave foránea (23503).
func isForeignKeyViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23503"
}

// orderBy traduce SortSpec a ORDER BY con una lista blanca de columnas.
// Campos desconocidos usan def. El id (con el alias de def, si tiene) desempata para paginación estable.
func orderBy(sort repository.SortSpec, columns map[string]string, def string) string {
	col, ok := columns[sort.Field]
	if !ok {
		col = def
	}
	dir := "ASC"
	if sort.Desc {
		dir = "DESC"
	}
	id := def[:strings.Index(def, ".")+1] + "id"
	return fmt.Sprintf(" ORDER BY %s %s NULLS LAST, %s %s", col, dir, id, dir)
}

// where acumula condiciones y argumentos posicionales.
type where struct {
	conds []string
	args  []any
}

// add agrega una condición; cada "?" se reemplaza por el siguiente $n.
func (w *where) add(cond string, args ...any) {
	for _, a := range args {
		w.args = append(w.args, a)
		cond = strings.Replace(cond, "?", fmt.Sprintf("$%d", len(w.args)), 1)
	}
	w.conds = append(w.conds, cond)
}

// arg agrega un argumento y devuelve su marcador.
func (w *where) arg(a any) string {
	w.args = append(w.args, a)
	return fmt.Sprintf("$%d", len(w.args))
}

func (w *where) sql() string {
	if len(w.conds) == 0 {
		return ""
	}
	return " WHERE " + strings.Join(w.conds, " AND ")
}

// limitOffset agrega LIMIT/OFFSET como argumentos.
func (w *where) limitOffset(page repository.Page) string {
	return fmt.Sprintf(" LIMIT %s OFFSET %s", w.arg(page.Limit), w.arg(page.Offset))
}

// nullString convierte "" en NULL.
func nullString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func derefString(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// likePattern escapa comodines de LIKE y envuelve en %.
func likePattern(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return "%" + r.Replace(s) + "%"
}
