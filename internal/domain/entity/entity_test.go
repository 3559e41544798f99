package entity_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/suvenirs-api/internal/domain/entity"
)

func dec(s string) *decimal.Decimal {
	d := decimal.RequireFromString(s)
	return &d
}

// ──────────────────────────────────────────────────────────────────────────────
// Product
// ──────────────────────────────────────────────────────────────────────────────

func TestProduct_Validate_PrecioOferta(t *testing.T) {
	cases := []struct {
		name    string
		price   *decimal.Decimal
		sale    *decimal.Decimal
		wantErr bool
	}{
		{"sin precios", nil, nil, false},
		{"solo precio", dec("1990"), nil, false},
		{"solo oferta", nil, dec("990"), false},
		{"oferta menor", dec("1990"), dec("1490"), false},
		{"oferta igual", dec("1990"), dec("1990"), true},
		{"oferta mayor", dec("1990"), dec("2500"), true},
		{"precio negativo", dec("-1"), nil, true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			p := entity.Product{ProductCode: "P-1", Name: "Taza", Price: tc.price, SalePrice: tc.sale}
			err := p.Validate()
			if tc.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestProduct_Validate_CantidadNegativa(t *testing.T) {
	p := entity.Product{ProductCode: "P-1", Name: "Taza", Quantity: -1}
	assert.Error(t, p.Validate())
}

func TestProduct_ApplyDefaults(t *testing.T) {
	p := entity.Product{Currency: " usd "}
	p.ApplyDefaults()
	assert.Equal(t, "USD", p.Currency)
	assert.Equal(t, entity.PlaceholderImage, p.Image)

	p = entity.Product{Image: "/img/taza.jpg"}
	p.ApplyDefaults()
	assert.Equal(t, entity.DefaultCurrency, p.Currency)
	assert.Equal(t, "/img/taza.jpg", p.Image)
}

// ──────────────────────────────────────────────────────────────────────────────
// Category
// ──────────────────────────────────────────────────────────────────────────────

func TestNextCategoryCode(t *testing.T) {
	assert.Equal(t, "CAT-001", entity.NextCategoryCode(nil))
	assert.Equal(t, "CAT-002", entity.NextCategoryCode([]string{"CAT-001"}))
	assert.Equal(t, "CAT-011", entity.NextCategoryCode([]string{"CAT-002", "CAT-010", "CAT-009"}),
		"se usa el mayor numérico, no el último")
	assert.Equal(t, "CAT-004", entity.NextCategoryCode([]string{"OTRO", "CAT-003", "CAT-XYZ"}))
	assert.Equal(t, "CAT-1000", entity.NextCategoryCode([]string{"CAT-999"}))
}

// ──────────────────────────────────────────────────────────────────────────────
// Quote
// ──────────────────────────────────────────────────────────────────────────────

func TestQuote_RecalculateTotals(t *testing.T) {
	q := entity.Quote{
		Items: []entity.QuoteItem{
			{ProductID: "A", ProductName: "Taza", Quantity: 50},
			{ProductID: "B", ProductName: "Libreta", Quantity: 25},
		},
		TotalItems: 99,
		TotalUnits: 1,
	}
	q.RecalculateTotals()
	assert.Equal(t, 2, q.TotalItems)
	assert.Equal(t, 75, q.TotalUnits)
}

func TestValidateItems(t *testing.T) {
	assert.Error(t, entity.ValidateItems(nil), "sin ítems")
	assert.Error(t, entity.ValidateItems([]entity.QuoteItem{{ProductID: "A", ProductName: "Taza", Quantity: 0}}))
	assert.Error(t, entity.ValidateItems([]entity.QuoteItem{{ProductName: "Taza", Quantity: 1}}))
	assert.NoError(t, entity.ValidateItems([]entity.QuoteItem{{ProductID: "A", ProductName: "Taza", Quantity: 1}}))
	assert.NoError(t, entity.ValidateItems([]entity.QuoteItem{{ProductID: "A", ProductName: "Taza", Quantity: entity.MaxItemQuantity}}))
	assert.Error(t, entity.ValidateItems([]entity.QuoteItem{{ProductID: "A", ProductName: "Taza", Quantity: entity.MaxItemQuantity + 1}}),
		"una cantidad fuera de rango desbordaría total_units")

	many := make([]entity.QuoteItem, entity.MaxQuoteItems+1)
	for i := range many {
		many[i] = entity.QuoteItem{ProductID: "A", ProductName: "Taza", Quantity: 1}
	}
	assert.Error(t, entity.ValidateItems(many), "demasiados ítems")
}

func TestFormatQuoteNumber(t *testing.T) {
	period := entity.QuotePeriod(time.Date(2026, time.March, 15, 10, 0, 0, 0, time.UTC))
	assert.Equal(t, "2603", period)
	assert.Equal(t, "COT-2603-0001", entity.FormatQuoteNumber(period, 1))
	assert.Equal(t, "COT-2603-0123", entity.FormatQuoteNumber(period, 123))
	assert.Equal(t, "COT-2603-12345", entity.FormatQuoteNumber(period, 12345))
}

func TestQuoteSequence(t *testing.T) {
	n, ok := entity.QuoteSequence("COT-2603-0042", "2603")
	assert.True(t, ok)
	assert.Equal(t, int64(42), n)

	_, ok = entity.QuoteSequence("COT-2602-0042", "2603")
	assert.False(t, ok, "otro período")
	_, ok = entity.QuoteSequence("COT-2603-", "2603")
	assert.False(t, ok)
	_, ok = entity.QuoteSequence("COT-2603-00A1", "2603")
	assert.False(t, ok)
}

func TestCanTransition_CualquierEstadoValido(t *testing.T) {
	for _, from := range entity.QuoteStatuses {
		for _, to := range entity.QuoteStatuses {
			assert.True(t, entity.CanTransition(from, to), "%s -> %s", from, to)
		}
	}
	assert.False(t, entity.CanTransition(entity.QuoteStatusPending, "archived"))
}

func TestQuote_SaleAmount(t *testing.T) {
	q := entity.Quote{}
	assert.True(t, q.SaleAmount().IsZero())

	q.QuotedAmount = dec("100000")
	assert.Equal(t, "100000", q.SaleAmount().String())

	q.FinalAmount = dec("95000")
	assert.Equal(t, "95000", q.SaleAmount().String(), "finalAmount tiene prioridad")
}

// ──────────────────────────────────────────────────────────────────────────────
// BlogPost
// ──────────────────────────────────────────────────────────────────────────────

func TestBlogPost_TogglePublish_PublishedAtPermanente(t *testing.T) {
	first := time.Date(2026, time.January, 10, 9, 0, 0, 0, time.UTC)
	later := first.Add(48 * time.Hour)

	var post entity.BlogPost
	require.Nil(t, post.PublishedAt)

	post.TogglePublish(first)
	assert.True(t, post.IsPublished)
	require.NotNil(t, post.PublishedAt)
	assert.Equal(t, first, *post.PublishedAt)

	post.TogglePublish(later)
	assert.False(t, post.IsPublished)
	require.NotNil(t, post.PublishedAt, "despublicar no borra publishedAt")
	assert.Equal(t, first, *post.PublishedAt)

	post.TogglePublish(later)
	assert.True(t, post.IsPublished)
	assert.Equal(t, first, *post.PublishedAt, "republicar no cambia publishedAt")
}

func TestNormalizeTags(t *testing.T) {
	got := entity.NormalizeTags([]string{" Regalos ", "EMPRESA", "", "regalos", "Navidad"})
	assert.Equal(t, []string{"regalos", "empresa", "navidad"}, got)
}

func TestBlogPost_Validate_Largos(t *testing.T) {
	post := entity.BlogPost{Title: "Ideas", Excerpt: "Resumen", Content: "<p>Hola</p>"}
	require.NoError(t, post.Validate())

	long := make([]rune, entity.MaxBlogExcerptLen+1)
	for i := range long {
		long[i] = 'a'
	}
	post.Excerpt = string(long)
	assert.Error(t, post.Validate())
}
