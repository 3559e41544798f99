package repository

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/suvenirs-api/internal/domain/entity"
)

// QuoteFilter criterios de listado y conteo de cotizaciones. From y To son inclusivos.
type QuoteFilter struct {
	Status string
	From   *time.Time
	To     *time.Time
}

// SalesSummary totales de cotizaciones completadas en un rango.
type SalesSummary struct {
	Count       int
	TotalUnits  int
	TotalAmount decimal.Decimal
}

// QuoteRepository define el puerto de persistencia para Quote (DIP).
type QuoteRepository interface {
	Create(ctx context.Context, quote *entity.Quote) error
	GetByID(ctx context.Context, id string) (*entity.Quote, error)
	Update(ctx context.Context, quote *entity.Quote) error
	UpdateStatus(ctx context.Context, id, status string) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, f QuoteFilter, sort SortSpec, page Page) ([]*entity.Quote, int, error)
	Count(ctx context.Context, f QuoteFilter) (int, error)
	// CompletedSales suma unidades y monto (finalAmount, quotedAmount o 0) de las completadas en [from, to].
	CompletedSales(ctx context.Context, from, to time.Time) (SalesSummary, error)
	// NextSequence incrementa de forma atómica el contador del período (YYMM) y devuelve el nuevo valor.
	NextSequence(ctx context.Context, period string) (int64, error)
}
