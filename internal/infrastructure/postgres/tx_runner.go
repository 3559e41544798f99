package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jhoicas/suvenirs-api/internal/application/usecase"
	"github.com/jhoicas/suvenirs-api/internal/domain/repository"
)

var _ usecase.TxRunner = (*TxRunner)(nil)

// TxRunner ejecuta callbacks dentro de una transacción PostgreSQL.
type TxRunner struct {
	pool *pgxpool.Pool
}

// NewTxRunner construye el runner con el pool.
func NewTxRunner(pool *pgxpool.Pool) *TxRunner {
	return &TxRunner{pool: pool}
}

// RunCatalog transacción con repos de categorías y productos (reconciliación, baja de categoría).
func (r *TxRunner) RunCatalog(ctx context.Context, fn func(categories repository.CategoryRepository, products repository.ProductRepository) error) error {
	return r.run(ctx, func(q Querier) error {
		return fn(NewCategoryRepository(q), NewProductRepository(q))
	})
}

// RunQuotes transacción con el repo de cotizaciones (contador del mes + alta).
func (r *TxRunner) RunQuotes(ctx context.Context, fn func(quotes repository.QuoteRepository) error) error {
	return r.run(ctx, func(q Querier) error {
		return fn(NewQuoteRepository(q))
	})
}

// run inicia la transacción, ejecuta fn con la tx y hace Commit o Rollback.
func (r *TxRunner) run(ctx context.Context, fn func(q Querier) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := fn(tx); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}
