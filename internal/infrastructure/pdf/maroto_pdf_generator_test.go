package pdf

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/suvenirs-api/internal/domain/entity"
)

func TestFormatMoney(t *testing.T) {
	casos := map[string]string{
		"0":        "0",
		"999":      "999",
		"25000":    "25.000",
		"1000000":  "1.000.000",
		"-1500000": "-1.500.000",
	}
	for in, want := range casos {
		assert.Equal(t, want, formatMoney(in), in)
	}
}

func TestFormatAmount(t *testing.T) {
	assert.Equal(t, "Por definir", formatAmount(nil))
	d := decimal.RequireFromString("125000.40")
	assert.Equal(t, "$125.000", formatAmount(&d))
}

func TestGenerateQuotePDF(t *testing.T) {
	amount := decimal.NewFromInt(48000)
	q := &entity.Quote{
		QuoteNumber:   "COT-2503-0007",
		CustomerName:  "Ana Pérez",
		CustomerEmail: "ana@example.com",
		Status:        entity.QuoteStatusQuoted,
		Items: []entity.QuoteItem{
			{ProductID: "TAZ-01", ProductName: "Taza cerámica", Quantity: 12},
			{ProductID: "LLA-02", ProductName: "Llavero metálico", Quantity: 30, Description: "con logo"},
		},
		QuotedAmount: &amount,
		Notes:        "Entrega en Santiago",
		CreatedAt:    time.Date(2025, 3, 14, 10, 0, 0, 0, time.UTC),
	}
	q.RecalculateTotals()

	out, err := NewMarotoPDFGenerator("Suvenirs").GenerateQuotePDF(context.Background(), q)
	require.NoError(t, err)
	require.True(t, len(out) > 4)
	assert.Equal(t, "%PDF", string(out[:4]))
}
