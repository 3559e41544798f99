package entity

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Estados de una cotización.
const (
	QuoteStatusPending   = "pending"
	QuoteStatusContacted = "contacted"
	QuoteStatusQuoted    = "quoted"
	QuoteStatusApproved  = "approved"
	QuoteStatusRejected  = "rejected"
	QuoteStatusCompleted = "completed"
)

// Orígenes de una cotización.
const (
	QuoteSourceWhatsApp = "whatsapp"
	QuoteSourceWeb      = "web"
	QuoteSourceManual   = "manual"
)

// QuoteStatuses en el orden en que se reportan las estadísticas.
var QuoteStatuses = []string{
	QuoteStatusPending,
	QuoteStatusContacted,
	QuoteStatusQuoted,
	QuoteStatusApproved,
	QuoteStatusRejected,
	QuoteStatusCompleted,
}

// QuoteItem copia del producto al momento de cotizar (no es una referencia viva).
type QuoteItem struct {
	ProductID   string `json:"productId"`
	ProductName string `json:"productName"`
	Quantity    int    `json:"quantity"`
	Description string `json:"description,omitempty"`
}

// Quote solicitud de precios de un cliente.
type Quote struct {
	ID              string
	QuoteNumber     string
	Items           []QuoteItem
	TotalItems      int
	TotalUnits      int
	QuotedAmount    *decimal.Decimal
	FinalAmount     *decimal.Decimal
	CustomerName    string
	CustomerEmail   string
	CustomerPhone   string
	CustomerCompany string
	Notes           string
	Status          string
	Source          string
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// IsValidQuoteStatus indica si status es uno de los seis estados.
func IsValidQuoteStatus(status string) bool {
	for _, s := range QuoteStatuses {
		if s == status {
			return true
		}
	}
	return false
}

// IsValidQuoteSource indica si source es whatsapp, web o manual.
func IsValidQuoteSource(source string) bool {
	switch source {
	case QuoteSourceWhatsApp, QuoteSourceWeb, QuoteSourceManual:
		return true
	}
	return false
}

// CanTransition decide si una cotización puede pasar de from a to.
// Hoy cualquier estado válido puede pasar a cualquier otro; un grafo de transiciones
// se agrega aquí sin tocar a los llamadores.
func CanTransition(from, to string) bool {
	return IsValidQuoteStatus(to)
}

// Límites de una cotización; TotalUnits debe caber en INTEGER.
const (
	MaxQuoteItems   = 500
	MaxItemQuantity = 100000
)

// ValidateItems exige entre 1 y MaxQuoteItems ítems, productId, productName y 1 <= quantity <= MaxItemQuantity.
func ValidateItems(items []QuoteItem) error {
	if len(items) == 0 {
		return fmt.Errorf("se requiere al menos un ítem")
	}
	if len(items) > MaxQuoteItems {
		return fmt.Errorf("máximo %d ítems por cotización", MaxQuoteItems)
	}
	for i, it := range items {
		if strings.TrimSpace(it.ProductID) == "" || strings.TrimSpace(it.ProductName) == "" {
			return fmt.Errorf("ítem %d: productId y productName son requeridos", i+1)
		}
		if it.Quantity < 1 {
			return fmt.Errorf("ítem %d: quantity debe ser al menos 1", i+1)
		}
		if it.Quantity > MaxItemQuantity {
			return fmt.Errorf("ítem %d: quantity no puede superar %d", i+1, MaxItemQuantity)
		}
	}
	return nil
}

// RecalculateTotals fija TotalItems y TotalUnits a partir de Items.
func (q *Quote) RecalculateTotals() {
	q.TotalItems = len(q.Items)
	units := 0
	for _, it := range q.Items {
		units += it.Quantity
	}
	q.TotalUnits = units
}

// SaleAmount monto de venta: FinalAmount, si no QuotedAmount, si no cero.
func (q *Quote) SaleAmount() decimal.Decimal {
	if q.FinalAmount != nil {
		return *q.FinalAmount
	}
	if q.QuotedAmount != nil {
		return *q.QuotedAmount
	}
	return decimal.Zero
}

// QuotePeriod período YYMM usado por el contador mensual.
func QuotePeriod(t time.Time) string {
	return t.Format("0601")
}

// FormatQuoteNumber arma COT-YYMM-NNNN.
func FormatQuoteNumber(period string, seq int64) string {
	return fmt.Sprintf("COT-%s-%04d", period, seq)
}

// QuoteSequence correlativo de un número COT-YYMM-NNNN del período; false si no corresponde.
func QuoteSequence(number, period string) (int64, bool) {
	rest, ok := strings.CutPrefix(number, "COT-"+period+"-")
	if !ok || rest == "" {
		return 0, false
	}
	n, err := strconv.ParseInt(rest, 10, 64)
	if err != nil || n < 0 {
		return 0, false
	}
	return n, true
}
