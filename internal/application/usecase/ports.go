package usecase

import (
	"context"
	"time"

	"github.com/jhoicas/suvenirs-api/internal/application/dto"
	"github.com/jhoicas/suvenirs-api/internal/domain/entity"
	"github.com/jhoicas/suvenirs-api/internal/domain/repository"
)

// TxRunner ejecuta fn dentro de una transacción, pasando repositorios atados a ella.
// Commit si fn devuelve nil; Rollback en cualquier otro caso.
type TxRunner interface {
	RunCatalog(ctx context.Context, fn func(categories repository.CategoryRepository, products repository.ProductRepository) error) error
	RunQuotes(ctx context.Context, fn func(quotes repository.QuoteRepository) error) error
}

// QuoteNotifier avisa al equipo de ventas de una cotización nueva.
type QuoteNotifier interface {
	NotifyNewQuote(ctx context.Context, quote *entity.Quote) error
}

// QuotePDFGenerator genera el PDF de una cotización.
type QuotePDFGenerator interface {
	GenerateQuotePDF(ctx context.Context, quote *entity.Quote) ([]byte, error)
}

// ImageSearcher banco de fotos externo.
type ImageSearcher interface {
	Search(ctx context.Context, query string, page, perPage int) (*dto.PhotoPage, error)
	Curated(ctx context.Context, page, perPage int) (*dto.PhotoPage, error)
}

// Cache caché clave/valor con expiración. Get devuelve false si la clave no existe.
type Cache interface {
	Get(ctx context.Context, key string, dst interface{}) (bool, error)
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
}

// FeedRenderer serializa el RSS del blog y el sitemap.
type FeedRenderer interface {
	RSS(channel dto.FeedChannel, items []dto.FeedItem) ([]byte, error)
	Sitemap(urls []dto.SitemapURL) ([]byte, error)
}
