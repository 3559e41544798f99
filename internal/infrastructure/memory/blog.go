package memory

import (
	"context"
	"sort"

	"github.com/jhoicas/suvenirs-api/internal/domain"
	"github.com/jhoicas/suvenirs-api/internal/domain/entity"
	"github.com/jhoicas/suvenirs-api/internal/domain/repository"
)

var _ repository.BlogRepository = (*BlogRepo)(nil)

type postRow struct {
	p   entity.BlogPost
	seq int64
}

func (r *postRow) insertion() int64 { return r.seq }

func (r *postRow) field(name string) (interface{}, bool) {
	switch name {
	case "createdAt":
		return r.p.CreatedAt, true
	case "updatedAt":
		return r.p.UpdatedAt, true
	case "publishedAt":
		if r.p.PublishedAt == nil {
			return r.p.CreatedAt, true
		}
		return *r.p.PublishedAt, true
	case "title":
		return r.p.Title, true
	case "views":
		return r.p.Views, true
	}
	return nil, false
}

// BlogRepo implementación en memoria de BlogRepository.
type BlogRepo struct {
	s *Store
}

func (r *BlogRepo) out(row *postRow) *entity.BlogPost {
	p := row.p
	p.Tags = append([]string(nil), p.Tags...)
	if p.PublishedAt != nil {
		t := *p.PublishedAt
		p.PublishedAt = &t
	}
	p.Author = nil
	if u, ok := r.s.users[p.AuthorID]; ok {
		p.Author = &entity.AuthorRef{ID: u.u.ID, FirstName: u.u.FirstName, LastName: u.u.LastName}
	}
	return &p
}

func (r *BlogRepo) slugTaken(post *entity.BlogPost) bool {
	for id, row := range r.s.posts {
		if id != post.ID && row.p.Slug == post.Slug {
			return true
		}
	}
	return false
}

// Create persiste un post; el slug es único.
func (r *BlogRepo) Create(_ context.Context, post *entity.BlogPost) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.slugTaken(post) {
		return domain.ErrDuplicate
	}
	row := &postRow{p: *post, seq: r.s.nextSeq()}
	row.p.Author = nil
	r.s.posts[post.ID] = row
	return nil
}

// GetByID busca por id.
func (r *BlogRepo) GetByID(_ context.Context, id string) (*entity.BlogPost, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	if row, ok := r.s.posts[id]; ok {
		return r.out(row), nil
	}
	return nil, nil
}

// GetBySlug busca por slug.
func (r *BlogRepo) GetBySlug(_ context.Context, slug string) (*entity.BlogPost, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	for _, row := range r.s.posts {
		if row.p.Slug == slug {
			return r.out(row), nil
		}
	}
	return nil, nil
}

// Update reemplaza el post sin tocar el contador de visitas.
func (r *BlogRepo) Update(_ context.Context, post *entity.BlogPost) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	row, ok := r.s.posts[post.ID]
	if !ok {
		return domain.ErrNotFound
	}
	if r.slugTaken(post) {
		return domain.ErrDuplicate
	}
	views := row.p.Views
	row.p = *post
	row.p.Views = views
	row.p.Author = nil
	return nil
}

// Delete elimina el post.
func (r *BlogRepo) Delete(_ context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	delete(r.s.posts, id)
	return nil
}

func matchPost(p *entity.BlogPost, f repository.BlogFilter) bool {
	if f.IsPublished != nil && p.IsPublished != *f.IsPublished {
		return false
	}
	if f.Tag != "" {
		found := false
		for _, t := range p.Tags {
			if t == f.Tag {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	if f.Search != "" && !matchesWords(f.Search, p.Title, p.Excerpt, p.Content) {
		return false
	}
	if f.Contains != "" && !containsFold(p.Title, f.Contains) && !containsFold(p.Excerpt, f.Contains) {
		return false
	}
	return true
}

// List filtra, ordena y pagina.
func (r *BlogRepo) List(_ context.Context, f repository.BlogFilter, sort repository.SortSpec, page repository.Page) ([]*entity.BlogPost, int, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	var rows []*postRow
	for _, row := range r.s.posts {
		if matchPost(&row.p, f) {
			rows = append(rows, row)
		}
	}
	sortRows(rows, sort)
	out := make([]*entity.BlogPost, 0)
	for _, row := range paginate(rows, page) {
		out = append(out, r.out(row))
	}
	return out, len(rows), nil
}

// PublishedTags tags distintos de posts publicados.
func (r *BlogRepo) PublishedTags(_ context.Context) ([]string, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	seen := map[string]struct{}{}
	for _, row := range r.s.posts {
		if !row.p.IsPublished {
			continue
		}
		for _, t := range row.p.Tags {
			seen[t] = struct{}{}
		}
	}
	tags := make([]string, 0, len(seen))
	for t := range seen {
		tags = append(tags, t)
	}
	sort.Strings(tags)
	return tags, nil
}

// IncrementViews suma una visita.
func (r *BlogRepo) IncrementViews(_ context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	row, ok := r.s.posts[id]
	if !ok {
		return domain.ErrNotFound
	}
	row.p.Views++
	return nil
}
