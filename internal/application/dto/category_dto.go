package dto

import "time"

// CreateCategoryRequest entrada para crear una categoría. El código CAT-NNN se asigna solo.
type CreateCategoryRequest struct {
	Name        string `json:"name" validate:"required,max=100"`
	Description string `json:"description" validate:"max=1000"`
	Parent      string `json:"parent"`
	Order       int    `json:"order"`
	IsActive    *bool  `json:"isActive"`
	Image       string `json:"image"`
	Icon        string `json:"icon"`
}

// UpdateCategoryRequest actualización libre; "parent": null o "" la deja como raíz.
type UpdateCategoryRequest struct {
	Name        *string        `json:"name" validate:"omitempty,min=1,max=100"`
	Description *string        `json:"description" validate:"omitempty,max=1000"`
	Parent      OptionalString `json:"parent"`
	Order       *int           `json:"order"`
	IsActive    *bool          `json:"isActive"`
	Image       *string        `json:"image"`
	Icon        *string        `json:"icon"`
}

// CategoryResponse salida de una categoría.
type CategoryResponse struct {
	ID           string    `json:"id"`
	CategoryID   string    `json:"categoryId"`
	Name         string    `json:"name"`
	Slug         string    `json:"slug"`
	Description  string    `json:"description"`
	Image        string    `json:"image,omitempty"`
	Icon         string    `json:"icon,omitempty"`
	Parent       *string   `json:"parent"`
	Order        int       `json:"order"`
	IsActive     bool      `json:"isActive"`
	ProductCount int       `json:"productCount"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// ReconcileRequest opciones de la reconciliación de categorías.
type ReconcileRequest struct {
	AssignRandom bool `json:"assignRandom"`
}

// ReconcileResult resumen de la reconciliación.
type ReconcileResult struct {
	Categories int `json:"categories"`
	Assigned   int `json:"assigned"`
}
