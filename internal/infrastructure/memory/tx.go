package memory

import (
	"context"

	"github.com/jhoicas/suvenirs-api/internal/domain/repository"
)

// TxRunner transacciones en memoria: serializa los callbacks y, si fn falla,
// restaura el estado previo del store.
type TxRunner struct {
	s *Store
}

// TxRunner runner transaccional sobre el store.
func (s *Store) TxRunner() *TxRunner { return &TxRunner{s: s} }

// RunCatalog ejecuta fn con los repos de categorías y productos.
func (t *TxRunner) RunCatalog(ctx context.Context, fn func(categories repository.CategoryRepository, products repository.ProductRepository) error) error {
	return t.run(ctx, func() error { return fn(t.s.Categories(), t.s.Products()) })
}

// RunQuotes ejecuta fn con el repo de cotizaciones.
func (t *TxRunner) RunQuotes(ctx context.Context, fn func(quotes repository.QuoteRepository) error) error {
	return t.run(ctx, func() error { return fn(t.s.Quotes()) })
}

func (t *TxRunner) run(ctx context.Context, fn func() error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	t.s.txMu.Lock()
	defer t.s.txMu.Unlock()

	snap := t.s.snapshot()
	if err := fn(); err != nil {
		t.s.restore(snap)
		return err
	}
	return nil
}

// storeSnapshot copia de las tablas; las filas se copian por valor.
type storeSnapshot struct {
	users      map[string]*userRow
	categories map[string]*categoryRow
	products   map[string]*productRow
	quotes     map[string]*quoteRow
	posts      map[string]*postRow
	counters   map[string]int64
	seq        int64
}

func (s *Store) snapshot() storeSnapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return storeSnapshot{
		users:      copyRows(s.users),
		categories: copyRows(s.categories),
		products:   copyRows(s.products),
		quotes:     copyRows(s.quotes),
		posts:      copyRows(s.posts),
		counters:   copyMap(s.counters),
		seq:        s.seq,
	}
}

func (s *Store) restore(snap storeSnapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.users = snap.users
	s.categories = snap.categories
	s.products = snap.products
	s.quotes = snap.quotes
	s.posts = snap.posts
	s.counters = snap.counters
	s.seq = snap.seq
}

func copyRows[T any](m map[string]*T) map[string]*T {
	out := make(map[string]*T, len(m))
	for k, v := range m {
		row := *v
		out[k] = &row
	}
	return out
}

func copyMap[K comparable, V any](m map[K]V) map[K]V {
	out := make(map[K]V, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}
