package dto

import "github.com/shopspring/decimal"

// DashboardResponse conteos del panel de administración.
type DashboardResponse struct {
	Products ProductCounts `json:"products"`
	Users    UserCounts    `json:"users"`
	Quotes   QuoteCounts   `json:"quotes"`
}

// ProductCounts totales de productos.
type ProductCounts struct {
	Total      int `json:"total"`
	Active     int `json:"active"`
	Featured   int `json:"featured"`
	OutOfStock int `json:"outOfStock"`
}

// UserCounts total de usuarios.
type UserCounts struct {
	Total int `json:"total"`
}

// QuoteCounts totales y las cinco cotizaciones más recientes.
type QuoteCounts struct {
	Total   int             `json:"total"`
	Pending int             `json:"pending"`
	Recent  []QuoteResponse `json:"recent"`
}

// MonthlySalesResponse ventas (cotizaciones completadas) de un mes calendario.
type MonthlySalesResponse struct {
	Year      int         `json:"year"`
	Month     int         `json:"month"`
	MonthName string      `json:"monthName"`
	Sales     SalesTotals `json:"sales"`
}

// SalesTotals totales del mes; ConversionRate es un porcentaje con un decimal, "0" sin cotizaciones.
type SalesTotals struct {
	Count          int             `json:"count"`
	TotalUnits     int             `json:"totalUnits"`
	TotalAmount    decimal.Decimal `json:"totalAmount"`
	TotalQuotes    int             `json:"totalQuotes"`
	ConversionRate string          `json:"conversionRate"`
}
