package memory

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/suvenirs-api/internal/domain"
	"github.com/jhoicas/suvenirs-api/internal/domain/entity"
	"github.com/jhoicas/suvenirs-api/internal/domain/repository"
)

var _ repository.QuoteRepository = (*QuoteRepo)(nil)

type quoteRow struct {
	q   entity.Quote
	seq int64
}

func (r *quoteRow) insertion() int64 { return r.seq }

func (r *quoteRow) field(name string) (interface{}, bool) {
	switch name {
	case "createdAt":
		return r.q.CreatedAt, true
	case "updatedAt":
		return r.q.UpdatedAt, true
	case "quoteNumber":
		return r.q.QuoteNumber, true
	case "status":
		return r.q.Status, true
	case "totalUnits":
		return r.q.TotalUnits, true
	}
	return nil, false
}

func cloneQuote(q entity.Quote) *entity.Quote {
	q.Items = append([]entity.QuoteItem(nil), q.Items...)
	q.QuotedAmount = cloneDecimal(q.QuotedAmount)
	q.FinalAmount = cloneDecimal(q.FinalAmount)
	return &q
}

// QuoteRepo implementación en memoria de QuoteRepository.
type QuoteRepo struct {
	s *Store
}

// Create persiste una cotización; quoteNumber es único.
func (r *QuoteRepo) Create(_ context.Context, quote *entity.Quote) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, row := range r.s.quotes {
		if row.q.QuoteNumber == quote.QuoteNumber {
			return domain.ErrDuplicate
		}
	}
	r.s.quotes[quote.ID] = &quoteRow{q: *cloneQuote(*quote), seq: r.s.nextSeq()}
	return nil
}

// GetByID busca por id.
func (r *QuoteRepo) GetByID(_ context.Context, id string) (*entity.Quote, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	if row, ok := r.s.quotes[id]; ok {
		return cloneQuote(row.q), nil
	}
	return nil, nil
}

// Update reemplaza la cotización.
func (r *QuoteRepo) Update(_ context.Context, quote *entity.Quote) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	row, ok := r.s.quotes[quote.ID]
	if !ok {
		return domain.ErrNotFound
	}
	row.q = *cloneQuote(*quote)
	return nil
}

// UpdateStatus cambia solo el estado.
func (r *QuoteRepo) UpdateStatus(_ context.Context, id, status string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	row, ok := r.s.quotes[id]
	if !ok {
		return domain.ErrNotFound
	}
	row.q.Status = status
	row.q.UpdatedAt = time.Now()
	return nil
}

// Delete elimina la cotización.
func (r *QuoteRepo) Delete(_ context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	delete(r.s.quotes, id)
	return nil
}

func matchQuote(q *entity.Quote, f repository.QuoteFilter) bool {
	if f.Status != "" && q.Status != f.Status {
		return false
	}
	if f.From != nil && q.CreatedAt.Before(*f.From) {
		return false
	}
	if f.To != nil && q.CreatedAt.After(*f.To) {
		return false
	}
	return true
}

// List filtra, ordena y pagina.
func (r *QuoteRepo) List(_ context.Context, f repository.QuoteFilter, sort repository.SortSpec, page repository.Page) ([]*entity.Quote, int, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	var rows []*quoteRow
	for _, row := range r.s.quotes {
		if matchQuote(&row.q, f) {
			rows = append(rows, row)
		}
	}
	sortRows(rows, sort)
	out := make([]*entity.Quote, 0)
	for _, row := range paginate(rows, page) {
		out = append(out, cloneQuote(row.q))
	}
	return out, len(rows), nil
}

// Count cuenta las cotizaciones del filtro.
func (r *QuoteRepo) Count(_ context.Context, f repository.QuoteFilter) (int, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	n := 0
	for _, row := range r.s.quotes {
		if matchQuote(&row.q, f) {
			n++
		}
	}
	return n, nil
}

// CompletedSales suma las completadas en [from, to].
func (r *QuoteRepo) CompletedSales(_ context.Context, from, to time.Time) (repository.SalesSummary, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	sum := repository.SalesSummary{TotalAmount: decimal.Zero}
	f := repository.QuoteFilter{Status: entity.QuoteStatusCompleted, From: &from, To: &to}
	for _, row := range r.s.quotes {
		if !matchQuote(&row.q, f) {
			continue
		}
		sum.Count++
		sum.TotalUnits += row.q.TotalUnits
		sum.TotalAmount = sum.TotalAmount.Add(row.q.SaleAmount())
	}
	return sum, nil
}

// NextSequence incrementa el contador del período sin quedar bajo el mayor correlativo usado.
func (r *QuoteRepo) NextSequence(_ context.Context, period string) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var highest int64
	for _, row := range r.s.quotes {
		if n, ok := entity.QuoteSequence(row.q.QuoteNumber, period); ok && n > highest {
			highest = n
		}
	}
	next := r.s.counters[period] + 1
	if next <= highest {
		next = highest + 1
	}
	r.s.counters[period] = next
	return next, nil
}
