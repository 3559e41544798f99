package entity

import (
	"fmt"
	"strings"
	"time"
)

// Límites de BlogPost.
const (
	MaxBlogTitleLen   = 200
	MaxBlogExcerptLen = 500
)

// BlogPost artículo editorial. PublishedAt se fija la primera vez que se publica y no se borra.
type BlogPost struct {
	ID          string
	Title       string
	Slug        string
	Excerpt     string
	Content     string
	CoverImage  string
	AuthorID    string
	Tags        []string
	IsPublished bool
	PublishedAt *time.Time
	Views       int
	CreatedAt   time.Time
	UpdatedAt   time.Time

	// Author se completa en lecturas con JOIN.
	Author *AuthorRef
}

// AuthorRef datos públicos del autor.
type AuthorRef struct {
	ID        string
	FirstName string
	LastName  string
}

// SetPublished fija el estado de publicación; la primera publicación fija PublishedAt.
func (b *BlogPost) SetPublished(published bool, now time.Time) {
	b.IsPublished = published
	if published && b.PublishedAt == nil {
		t := now
		b.PublishedAt = &t
	}
}

// TogglePublish alterna entre borrador y publicado.
func (b *BlogPost) TogglePublish(now time.Time) {
	b.SetPublished(!b.IsPublished, now)
}

// Validate revisa los largos de título y extracto.
func (b *BlogPost) Validate() error {
	if strings.TrimSpace(b.Title) == "" {
		return fmt.Errorf("title es requerido")
	}
	if len([]rune(b.Title)) > MaxBlogTitleLen {
		return fmt.Errorf("title no puede superar %d caracteres", MaxBlogTitleLen)
	}
	if strings.TrimSpace(b.Excerpt) == "" {
		return fmt.Errorf("excerpt es requerido")
	}
	if len([]rune(b.Excerpt)) > MaxBlogExcerptLen {
		return fmt.Errorf("excerpt no puede superar %d caracteres", MaxBlogExcerptLen)
	}
	if strings.TrimSpace(b.Content) == "" {
		return fmt.Errorf("content es requerido")
	}
	return nil
}

// NormalizeTags recorta, pasa a minúsculas y elimina vacíos y repetidos.
func NormalizeTags(tags []string) []string {
	out := make([]string, 0, len(tags))
	seen := make(map[string]struct{}, len(tags))
	for _, t := range tags {
		t = strings.ToLower(strings.TrimSpace(t))
		if t == "" {
			continue
		}
		if _, ok := seen[t]; ok {
			continue
		}
		seen[t] = struct{}{}
		out = append(out, t)
	}
	return out
}
