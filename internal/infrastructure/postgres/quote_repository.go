package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/suvenirs-api/internal/domain"
	"github.com/jhoicas/suvenirs-api/internal/domain/entity"
	"github.com/jhoicas/suvenirs-api/internal/domain/repository"
)

var _ repository.QuoteRepository = (*QuoteRepo)(nil)

const quoteColumns = `id, quote_number, items, total_items, total_units, quoted_amount, final_amount,
	customer_name, customer_email, customer_phone, customer_company, notes, status, source, created_at, updated_at`

var quoteSortColumns = map[string]string{
	"createdAt":   "created_at",
	"updatedAt":   "updated_at",
	"quoteNumber": "quote_number",
	"status":      "status",
	"totalUnits":  "total_units",
}

// QuoteRepo implementación del puerto QuoteRepository sobre PostgreSQL.
type QuoteRepo struct {
	q Querier
}

// NewQuoteRepository construye el adaptador. Acepta pool o tx (Querier).
func NewQuoteRepository(q Querier) *QuoteRepo {
	return &QuoteRepo{q: q}
}

func itemsOf(q *entity.Quote) []entity.QuoteItem {
	if q.Items == nil {
		return []entity.QuoteItem{}
	}
	return q.Items
}

func scanQuote(row pgx.Row) (*entity.Quote, error) {
	var q entity.Quote
	if err := row.Scan(&q.ID, &q.QuoteNumber, &q.Items, &q.TotalItems, &q.TotalUnits, &q.QuotedAmount, &q.FinalAmount,
		&q.CustomerName, &q.CustomerEmail, &q.CustomerPhone, &q.CustomerCompany, &q.Notes, &q.Status, &q.Source,
		&q.CreatedAt, &q.UpdatedAt); err != nil {
		return nil, err
	}
	return &q, nil
}

// Create persiste la cotización. Número repetido devuelve ErrDuplicate.
func (r *QuoteRepo) Create(ctx context.Context, q *entity.Quote) error {
	query := `
		INSERT INTO quotes (id, quote_number, items, total_items, total_units, quoted_amount, final_amount,
			customer_name, customer_email, customer_phone, customer_company, notes, status, source, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)`
	_, err := r.q.Exec(ctx, query,
		q.ID, q.QuoteNumber, itemsOf(q), q.TotalItems, q.TotalUnits, q.QuotedAmount, q.FinalAmount,
		q.CustomerName, q.CustomerEmail, q.CustomerPhone, q.CustomerCompany, q.Notes, q.Status, q.Source,
		q.CreatedAt, q.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert quote: %w", err)
	}
	return nil
}

// GetByID obtiene una cotización por ID.
func (r *QuoteRepo) GetByID(ctx context.Context, id string) (*entity.Quote, error) {
	q, err := scanQuote(r.q.QueryRow(ctx, `SELECT `+quoteColumns+` FROM quotes WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get quote: %w", err)
	}
	return q, nil
}

// Update reemplaza ítems, montos, contacto, notas, estado y origen. El número no cambia.
func (r *QuoteRepo) Update(ctx context.Context, q *entity.Quote) error {
	query := `
		UPDATE quotes SET items = $2, total_items = $3, total_units = $4, quoted_amount = $5, final_amount = $6,
			customer_name = $7, customer_email = $8, customer_phone = $9, customer_company = $10, notes = $11,
			status = $12, source = $13, updated_at = $14
		WHERE id = $1`
	cmd, err := r.q.Exec(ctx, query,
		q.ID, itemsOf(q), q.TotalItems, q.TotalUnits, q.QuotedAmount, q.FinalAmount,
		q.CustomerName, q.CustomerEmail, q.CustomerPhone, q.CustomerCompany, q.Notes,
		q.Status, q.Source, q.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update quote: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// UpdateStatus cambia solo el estado.
func (r *QuoteRepo) UpdateStatus(ctx context.Context, id, status string) error {
	cmd, err := r.q.Exec(ctx, `UPDATE quotes SET status = $2, updated_at = now() WHERE id = $1`, id, status)
	if err != nil {
		return fmt.Errorf("update quote status: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// Delete elimina la cotización.
func (r *QuoteRepo) Delete(ctx context.Context, id string) error {
	if _, err := r.q.Exec(ctx, `DELETE FROM quotes WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete quote: %w", err)
	}
	return nil
}

func quoteWhere(f repository.QuoteFilter) *where {
	w := &where{}
	if f.Status != "" {
		w.add("status = ?", f.Status)
	}
	if f.From != nil {
		w.add("created_at >= ?", *f.From)
	}
	if f.To != nil {
		w.add("created_at <= ?", *f.To)
	}
	return w
}

// List filtra, ordena y pagina.
func (r *QuoteRepo) List(ctx context.Context, f repository.QuoteFilter, sort repository.SortSpec, page repository.Page) ([]*entity.Quote, int, error) {
	total, err := r.Count(ctx, f)
	if err != nil {
		return nil, 0, err
	}
	w := quoteWhere(f)
	query := `SELECT ` + quoteColumns + ` FROM quotes` + w.sql() +
		orderBy(sort, quoteSortColumns, "created_at") + w.limitOffset(page)
	rows, err := r.q.Query(ctx, query, w.args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list quotes: %w", err)
	}
	defer rows.Close()
	list := make([]*entity.Quote, 0)
	for rows.Next() {
		q, err := scanQuote(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan quote: %w", err)
		}
		list = append(list, q)
	}
	return list, total, rows.Err()
}

// Count cuenta las cotizaciones que cumplen el filtro.
func (r *QuoteRepo) Count(ctx context.Context, f repository.QuoteFilter) (int, error) {
	w := quoteWhere(f)
	var n int
	if err := r.q.QueryRow(ctx, `SELECT COUNT(*) FROM quotes`+w.sql(), w.args...).Scan(&n); err != nil {
		return 0, fmt.Errorf("count quotes: %w", err)
	}
	return n, nil
}

// CompletedSales suma unidades y monto de las completadas en [from, to].
// Monto por cotización: final_amount, si no quoted_amount, si no 0.
func (r *QuoteRepo) CompletedSales(ctx context.Context, from, to time.Time) (repository.SalesSummary, error) {
	query := `
		SELECT COUNT(*),
		       COALESCE(SUM(total_units), 0),
		       COALESCE(SUM(COALESCE(final_amount, quoted_amount, 0)), 0)
		FROM quotes
		WHERE status = $1 AND created_at BETWEEN $2 AND $3`
	var (
		sum    repository.SalesSummary
		units  int64
		amount decimal.Decimal
	)
	if err := r.q.QueryRow(ctx, query, entity.QuoteStatusCompleted, from, to).Scan(&sum.Count, &units, &amount); err != nil {
		return repository.SalesSummary{}, fmt.Errorf("completed sales: %w", err)
	}
	sum.TotalUnits = int(units)
	sum.TotalAmount = amount
	return sum, nil
}

// NextSequence incrementa el contador del período de forma atómica.
// Nunca queda por debajo del mayor correlativo ya usado en el período.
func (r *QuoteRepo) NextSequence(ctx context.Context, period string) (int64, error) {
	query := `
		WITH seed AS (
			SELECT COALESCE(MAX(substring(quote_number FROM '[0-9]+$')::bigint), 0) + 1 AS value
			FROM quotes
			WHERE quote_number LIKE 'COT-' || $1 || '-%'
		)
		INSERT INTO quote_counters (period, value)
		SELECT $1, value FROM seed
		ON CONFLICT (period) DO UPDATE SET value = GREATEST(quote_counters.value + 1, EXCLUDED.value)
		RETURNING value`
	var n int64
	if err := r.q.QueryRow(ctx, query, period).Scan(&n); err != nil {
		return 0, fmt.Errorf("next quote sequence: %w", err)
	}
	return n, nil
}
