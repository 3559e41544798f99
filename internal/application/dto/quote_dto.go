package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// QuoteItemRequest ítem enviado desde el carrito.
type QuoteItemRequest struct {
	ProductID   string `json:"productId" validate:"required"`
	ProductName string `json:"productName" validate:"required"`
	Quantity    int    `json:"quantity" validate:"min=1,max=100000"`
	Description string `json:"description"`
}

// CreateQuoteRequest entrada pública para solicitar una cotización.
// totalItems y totalUnits se ignoran si vienen: se calculan en el servidor.
type CreateQuoteRequest struct {
	Items           []QuoteItemRequest `json:"items" validate:"required,min=1,max=500,dive"`
	CustomerName    string             `json:"customerName" validate:"max=200"`
	CustomerEmail   string             `json:"customerEmail" validate:"omitempty,email"`
	CustomerPhone   string             `json:"customerPhone" validate:"max=50"`
	CustomerCompany string             `json:"customerCompany" validate:"max=200"`
	Notes           string             `json:"notes" validate:"max=2000"`
	Source          string             `json:"source" validate:"omitempty,oneof=whatsapp web manual"`
}

// UpdateQuoteRequest actualización admin; si cambian los ítems se recalculan los totales.
type UpdateQuoteRequest struct {
	Items           *[]QuoteItemRequest `json:"items" validate:"omitempty,min=1,max=500,dive"`
	QuotedAmount    *decimal.Decimal    `json:"quotedAmount"`
	FinalAmount     *decimal.Decimal    `json:"finalAmount"`
	CustomerName    *string             `json:"customerName"`
	CustomerEmail   *string             `json:"customerEmail" validate:"omitempty,email"`
	CustomerPhone   *string             `json:"customerPhone"`
	CustomerCompany *string             `json:"customerCompany"`
	Notes           *string             `json:"notes"`
	Status          *string             `json:"status" validate:"omitempty,oneof=pending contacted quoted approved rejected completed"`
	Source          *string             `json:"source" validate:"omitempty,oneof=whatsapp web manual"`
}

// UpdateQuoteStatusRequest cambio de estado.
type UpdateQuoteStatusRequest struct {
	Status string `json:"status" validate:"required"`
}

// QuoteListQuery filtros del listado admin.
type QuoteListQuery struct {
	PageRequest
	Status string
	From   *time.Time
	To     *time.Time
}

// QuoteItemResponse ítem de una cotización.
type QuoteItemResponse struct {
	ProductID   string `json:"productId"`
	ProductName string `json:"productName"`
	Quantity    int    `json:"quantity"`
	Description string `json:"description,omitempty"`
}

// QuoteResponse salida de una cotización.
type QuoteResponse struct {
	ID              string              `json:"id"`
	QuoteNumber     string              `json:"quoteNumber"`
	Items           []QuoteItemResponse `json:"items"`
	TotalItems      int                 `json:"totalItems"`
	TotalUnits      int                 `json:"totalUnits"`
	QuotedAmount    *decimal.Decimal    `json:"quotedAmount,omitempty"`
	FinalAmount     *decimal.Decimal    `json:"finalAmount,omitempty"`
	CustomerName    string              `json:"customerName,omitempty"`
	CustomerEmail   string              `json:"customerEmail,omitempty"`
	CustomerPhone   string              `json:"customerPhone,omitempty"`
	CustomerCompany string              `json:"customerCompany,omitempty"`
	Notes           string              `json:"notes,omitempty"`
	Status          string              `json:"status"`
	Source          string              `json:"source"`
	CreatedAt       time.Time           `json:"createdAt"`
	UpdatedAt       time.Time           `json:"updatedAt"`
}

// QuoteStatsResponse conteo por estado más el total.
type QuoteStatsResponse struct {
	Total     int `json:"total"`
	Pending   int `json:"pending"`
	Contacted int `json:"contacted"`
	Quoted    int `json:"quoted"`
	Approved  int `json:"approved"`
	Completed int `json:"completed"`
	Rejected  int `json:"rejected"`
}
