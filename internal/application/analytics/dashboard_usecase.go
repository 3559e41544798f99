// Package analytics contiene los casos de uso de reportes del panel admin:
// el dashboard de conteos y las ventas mensuales.
package analytics

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"github.com/jhoicas/suvenirs-api/internal/application/dto"
	"github.com/jhoicas/suvenirs-api/internal/application/usecase"
	"github.com/jhoicas/suvenirs-api/internal/domain"
	"github.com/jhoicas/suvenirs-api/internal/domain/entity"
	"github.com/jhoicas/suvenirs-api/internal/domain/repository"
)

const dashboardRecentQuotes = 5 // cotizaciones recientes en el widget del dashboard

// DashboardUseCase genera los conteos del dashboard y el reporte de ventas del mes.
//
// Fuente de datos: repositorios de productos, usuarios y cotizaciones (solo lectura).
type DashboardUseCase struct {
	products repository.ProductRepository
	users    repository.UserRepository
	quotes   repository.QuoteRepository
	now      func() time.Time
}

// NewDashboardUseCase construye el caso de uso.
func NewDashboardUseCase(products repository.ProductRepository, users repository.UserRepository, quotes repository.QuoteRepository) *DashboardUseCase {
	return &DashboardUseCase{products: products, users: users, quotes: quotes, now: time.Now}
}

// GetSummary construye el DashboardResponse.
//
// Las ocho consultas corren en paralelo:
//  1. productos: total, activos, destacados, sin stock
//  2. usuarios: total
//  3. cotizaciones: total, pendientes, últimas 5
func (uc *DashboardUseCase) GetSummary(ctx context.Context) (*dto.DashboardResponse, error) {
	var (
		total, active, featured, outOfStock int
		users, quotes, pending              int
		recent                              []*entity.Quote
	)
	isActive := true
	isFeatured := true

	g, gctx := errgroup.WithContext(ctx)
	countProducts := func(dst *int, name string, f repository.ProductFilter) {
		g.Go(func() error {
			n, err := uc.products.Count(gctx, f)
			if err != nil {
				return fmt.Errorf("dashboard: %s: %w", name, err)
			}
			*dst = n
			return nil
		})
	}
	countQuotes := func(dst *int, name string, f repository.QuoteFilter) {
		g.Go(func() error {
			n, err := uc.quotes.Count(gctx, f)
			if err != nil {
				return fmt.Errorf("dashboard: %s: %w", name, err)
			}
			*dst = n
			return nil
		})
	}

	countProducts(&total, "productos", repository.ProductFilter{})
	countProducts(&active, "productos activos", repository.ProductFilter{IsActive: &isActive})
	countProducts(&featured, "productos destacados", repository.ProductFilter{Featured: &isFeatured})
	countProducts(&outOfStock, "productos sin stock", repository.ProductFilter{OutOfStock: true})
	countQuotes(&quotes, "cotizaciones", repository.QuoteFilter{})
	countQuotes(&pending, "cotizaciones pendientes", repository.QuoteFilter{Status: entity.QuoteStatusPending})
	g.Go(func() error {
		n, err := uc.users.Count(gctx)
		if err != nil {
			return fmt.Errorf("dashboard: usuarios: %w", err)
		}
		users = n
		return nil
	})
	g.Go(func() error {
		list, _, err := uc.quotes.List(gctx, repository.QuoteFilter{},
			repository.SortSpec{Field: "createdAt", Desc: true},
			repository.Page{Limit: dashboardRecentQuotes})
		if err != nil {
			return fmt.Errorf("dashboard: cotizaciones recientes: %w", err)
		}
		recent = list
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	recentOut := make([]dto.QuoteResponse, 0, len(recent))
	for _, q := range recent {
		recentOut = append(recentOut, *usecase.ToQuoteResponse(q))
	}
	return &dto.DashboardResponse{
		Products: dto.ProductCounts{Total: total, Active: active, Featured: featured, OutOfStock: outOfStock},
		Users:    dto.UserCounts{Total: users},
		Quotes:   dto.QuoteCounts{Total: quotes, Pending: pending, Recent: recentOut},
	}, nil
}

// MonthlySales ventas del mes calendario: cotizaciones completadas creadas en el mes, sus
// unidades y monto, y la tasa de conversión sobre todas las cotizaciones del mes.
// year o month en 0 toman el mes en curso.
func (uc *DashboardUseCase) MonthlySales(ctx context.Context, year, month int) (*dto.MonthlySalesResponse, error) {
	now := uc.now()
	if year == 0 {
		year = now.Year()
	}
	if month == 0 {
		month = int(now.Month())
	}
	if month < 1 || month > 12 {
		return nil, fmt.Errorf("%w: mes inválido %d", domain.ErrInvalidInput, month)
	}
	if year < 1 || year > 9999 {
		return nil, fmt.Errorf("%w: año inválido %d", domain.ErrInvalidInput, year)
	}

	// Día 1 a las 00:00 – último día a las 23:59:59.999
	start := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, now.Location())
	end := start.AddDate(0, 1, 0).Add(-time.Millisecond)

	type salesResult struct {
		sum repository.SalesSummary
		err error
	}
	type countResult struct {
		n   int
		err error
	}
	salesCh := make(chan salesResult, 1)
	countCh := make(chan countResult, 1)
	go func() {
		sum, err := uc.quotes.CompletedSales(ctx, start, end)
		salesCh <- salesResult{sum, err}
	}()
	go func() {
		n, err := uc.quotes.Count(ctx, repository.QuoteFilter{From: &start, To: &end})
		countCh <- countResult{n, err}
	}()
	sales, all := <-salesCh, <-countCh
	if sales.err != nil {
		return nil, fmt.Errorf("monthly sales: completadas: %w", sales.err)
	}
	if all.err != nil {
		return nil, fmt.Errorf("monthly sales: total: %w", all.err)
	}

	return &dto.MonthlySalesResponse{
		Year:      year,
		Month:     month,
		MonthName: monthName(start),
		Sales: dto.SalesTotals{
			Count:          sales.sum.Count,
			TotalUnits:     sales.sum.TotalUnits,
			TotalAmount:    sales.sum.TotalAmount,
			TotalQuotes:    all.n,
			ConversionRate: conversionRate(sales.sum.Count, all.n),
		},
	}, nil
}

// conversionRate porcentaje con un decimal; "0" si no hubo cotizaciones.
func conversionRate(completed, total int) string {
	if total == 0 {
		return "0"
	}
	return decimal.NewFromInt(int64(completed) * 100).Div(decimal.NewFromInt(int64(total))).StringFixed(1)
}

// monthName nombre del mes en español de Chile, ej: "febrero".
func monthName(t time.Time) string {
	months := [...]string{
		"enero", "febrero", "marzo", "abril", "mayo", "junio",
		"julio", "agosto", "septiembre", "octubre", "noviembre", "diciembre",
	}
	return months[t.Month()-1]
}
