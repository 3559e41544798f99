package dto

import (
	"bytes"
	"encoding/json"
)

// Límites de paginación.
const (
	MaxLimit = 100
)

// Response sobre estándar de todas las respuestas JSON.
type Response struct {
	Success    bool        `json:"success"`
	Data       interface{} `json:"data,omitempty"`
	Error      string      `json:"error,omitempty"`
	Code       string      `json:"code,omitempty"`
	Message    string      `json:"message,omitempty"`
	Pagination *Pagination `json:"pagination,omitempty"`
}

// ErrorResponse cuerpo de error HTTP (mismo sobre, success siempre false).
type ErrorResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
	Code    string `json:"code"`
}

// Pagination metadatos de página en respuestas.
type Pagination struct {
	Page       int `json:"page"`
	Limit      int `json:"limit"`
	Total      int `json:"total"`
	TotalPages int `json:"totalPages"`
}

// NewPagination calcula totalPages = ceil(total / limit).
func NewPagination(page, limit, total int) Pagination {
	pages := 0
	if limit > 0 {
		pages = (total + limit - 1) / limit
	}
	return Pagination{Page: page, Limit: limit, Total: total, TotalPages: pages}
}

// PageRequest paginación y orden para listados.
type PageRequest struct {
	Page  int    `query:"page"`
	Limit int    `query:"limit"`
	Sort  string `query:"sort"`
	Order string `query:"order"`
}

// Normalize aplica valores por defecto: página 1, defaultLimit, tope MaxLimit, orden desc.
func (p PageRequest) Normalize(defaultLimit int) PageRequest {
	if p.Page < 1 {
		p.Page = 1
	}
	if p.Limit <= 0 {
		p.Limit = defaultLimit
	}
	if p.Limit > MaxLimit {
		p.Limit = MaxLimit
	}
	if p.Order != "asc" {
		p.Order = "desc"
	}
	return p
}

// Offset desplazamiento de la página.
func (p PageRequest) Offset() int {
	return (p.Page - 1) * p.Limit
}

// Desc indica orden descendente.
func (p PageRequest) Desc() bool { return p.Order != "asc" }

// Page resultado paginado genérico.
type Page[T any] struct {
	Items      []T
	Pagination Pagination
}

// OptionalString distingue entre campo ausente y campo enviado (incluido null).
// Set es true si el campo vino en el JSON; null se interpreta como "".
type OptionalString struct {
	Set   bool
	Value string
}

// UnmarshalJSON implementa json.Unmarshaler.
func (o *OptionalString) UnmarshalJSON(data []byte) error {
	o.Set = true
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		o.Value = ""
		return nil
	}
	return json.Unmarshal(data, &o.Value)
}
