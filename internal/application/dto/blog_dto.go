package dto

import "time"

// CreateBlogPostRequest entrada para crear un post. El autor es el usuario autenticado.
type CreateBlogPostRequest struct {
	Title       string   `json:"title" validate:"required,max=200"`
	Excerpt     string   `json:"excerpt" validate:"required,max=500"`
	Content     string   `json:"content" validate:"required"`
	CoverImage  string   `json:"coverImage"`
	Tags        []string `json:"tags"`
	IsPublished bool     `json:"isPublished"`
}

// UpdateBlogPostRequest actualización parcial de un post.
type UpdateBlogPostRequest struct {
	Title       *string   `json:"title" validate:"omitempty,min=1,max=200"`
	Excerpt     *string   `json:"excerpt" validate:"omitempty,min=1,max=500"`
	Content     *string   `json:"content" validate:"omitempty,min=1"`
	CoverImage  *string   `json:"coverImage"`
	Tags        *[]string `json:"tags"`
	IsPublished *bool     `json:"isPublished"`
}

// BlogListQuery filtros de listado.
type BlogListQuery struct {
	PageRequest
	Search      string
	Tag         string
	IsPublished *bool // solo admin
}

// AuthorResponse datos públicos del autor.
type AuthorResponse struct {
	ID        string `json:"id"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
}

// BlogPostResponse salida de un post.
type BlogPostResponse struct {
	ID          string          `json:"id"`
	Title       string          `json:"title"`
	Slug        string          `json:"slug"`
	Excerpt     string          `json:"excerpt"`
	Content     string          `json:"content"`
	CoverImage  string          `json:"coverImage,omitempty"`
	Author      *AuthorResponse `json:"author"`
	Tags        []string        `json:"tags"`
	IsPublished bool            `json:"isPublished"`
	PublishedAt *time.Time      `json:"publishedAt,omitempty"`
	Views       int             `json:"views"`
	CreatedAt   time.Time       `json:"createdAt"`
	UpdatedAt   time.Time       `json:"updatedAt"`
}
