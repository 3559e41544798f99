package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/suvenirs-api/internal/domain"
	"github.com/jhoicas/suvenirs-api/internal/domain/entity"
	"github.com/jhoicas/suvenirs-api/internal/domain/repository"
)

var _ repository.BlogRepository = (*BlogRepo)(nil)

const blogColumns = `
	b.id, b.title, b.slug, b.excerpt, b.content, b.cover_image, b.author_id, b.tags,
	b.is_published, b.published_at, b.views, b.created_at, b.updated_at,
	u.first_name, u.last_name`

const blogFrom = ` FROM blog_posts b LEFT JOIN users u ON u.id = b.author_id`

var blogSortColumns = map[string]string{
	"createdAt":   "b.created_at",
	"updatedAt":   "b.updated_at",
	"publishedAt": "COALESCE(b.published_at, b.created_at)",
	"title":       "b.title",
	"views":       "b.views",
}

// BlogRepo implementación del puerto BlogRepository sobre PostgreSQL.
type BlogRepo struct {
	q Querier
}

// NewBlogRepository construye el adaptador. Acepta pool o tx (Querier).
func NewBlogRepository(q Querier) *BlogRepo {
	return &BlogRepo{q: q}
}

func scanPost(row pgx.Row) (*entity.BlogPost, error) {
	var (
		b                   entity.BlogPost
		authorID            *string
		firstName, lastName *string
	)
	if err := row.Scan(&b.ID, &b.Title, &b.Slug, &b.Excerpt, &b.Content, &b.CoverImage, &authorID, &b.Tags,
		&b.IsPublished, &b.PublishedAt, &b.Views, &b.CreatedAt, &b.UpdatedAt,
		&firstName, &lastName); err != nil {
		return nil, err
	}
	b.AuthorID = derefString(authorID)
	if authorID != nil && firstName != nil {
		b.Author = &entity.AuthorRef{ID: *authorID, FirstName: *firstName, LastName: derefString(lastName)}
	}
	if b.Tags == nil {
		b.Tags = []string{}
	}
	return &b, nil
}

func tagsOf(b *entity.BlogPost) []string {
	if b.Tags == nil {
		return []string{}
	}
	return b.Tags
}

// Create persiste un post. Slug repetido devuelve ErrDuplicate.
func (r *BlogRepo) Create(ctx context.Context, b *entity.BlogPost) error {
	query := `
		INSERT INTO blog_posts (id, title, slug, excerpt, content, cover_image, author_id, tags,
			is_published, published_at, views, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`
	_, err := r.q.Exec(ctx, query,
		b.ID, b.Title, b.Slug, b.Excerpt, b.Content, b.CoverImage, nullString(b.AuthorID), tagsOf(b),
		b.IsPublished, b.PublishedAt, b.Views, b.CreatedAt, b.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert blog post: %w", err)
	}
	return nil
}

func (r *BlogRepo) getBy(ctx context.Context, cond string, arg any) (*entity.BlogPost, error) {
	b, err := scanPost(r.q.QueryRow(ctx, `SELECT `+blogColumns+blogFrom+` WHERE `+cond, arg))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get blog post: %w", err)
	}
	return b, nil
}

// GetByID obtiene un post por ID.
func (r *BlogRepo) GetByID(ctx context.Context, id string) (*entity.BlogPost, error) {
	return r.getBy(ctx, "b.id = $1", id)
}

// GetBySlug obtiene un post por slug.
func (r *BlogRepo) GetBySlug(ctx context.Context, slug string) (*entity.BlogPost, error) {
	return r.getBy(ctx, "b.slug = $1", slug)
}

// Update reemplaza el contenido del post. Las visitas y el autor no cambian.
func (r *BlogRepo) Update(ctx context.Context, b *entity.BlogPost) error {
	query := `
		UPDATE blog_posts SET title = $2, slug = $3, excerpt = $4, content = $5, cover_image = $6, tags = $7,
			is_published = $8, published_at = $9, updated_at = $10
		WHERE id = $1`
	cmd, err := r.q.Exec(ctx, query,
		b.ID, b.Title, b.Slug, b.Excerpt, b.Content, b.CoverImage, tagsOf(b),
		b.IsPublished, b.PublishedAt, b.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("update blog post: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// Delete elimina el post.
func (r *BlogRepo) Delete(ctx context.Context, id string) error {
	if _, err := r.q.Exec(ctx, `DELETE FROM blog_posts WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete blog post: %w", err)
	}
	return nil
}

func blogWhere(f repository.BlogFilter) *where {
	w := &where{}
	if f.IsPublished != nil {
		w.add("b.is_published = ?", *f.IsPublished)
	}
	if f.Tag != "" {
		w.add("? = ANY(b.tags)", f.Tag)
	}
	if f.Search != "" {
		w.add("to_tsvector('spanish', b.title || ' ' || b.excerpt || ' ' || b.content) @@ plainto_tsquery('spanish', ?)", f.Search)
	}
	if f.Contains != "" {
		pattern := likePattern(f.Contains)
		w.add("(b.title ILIKE ? OR b.excerpt ILIKE ?)", pattern, pattern)
	}
	return w
}

// List filtra, ordena y pagina.
func (r *BlogRepo) List(ctx context.Context, f repository.BlogFilter, sort repository.SortSpec, page repository.Page) ([]*entity.BlogPost, int, error) {
	w := blogWhere(f)
	var total int
	if err := r.q.QueryRow(ctx, `SELECT COUNT(*) FROM blog_posts b`+w.sql(), w.args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count blog posts: %w", err)
	}
	query := `SELECT ` + blogColumns + blogFrom + w.sql() +
		orderBy(sort, blogSortColumns, "b.created_at") + w.limitOffset(page)
	rows, err := r.q.Query(ctx, query, w.args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list blog posts: %w", err)
	}
	defer rows.Close()
	list := make([]*entity.BlogPost, 0)
	for rows.Next() {
		b, err := scanPost(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan blog post: %w", err)
		}
		list = append(list, b)
	}
	return list, total, rows.Err()
}

// PublishedTags tags distintos de los posts publicados, ordenados.
func (r *BlogRepo) PublishedTags(ctx context.Context) ([]string, error) {
	rows, err := r.q.Query(ctx, `
		SELECT DISTINCT tag FROM blog_posts, unnest(tags) AS tag
		WHERE is_published ORDER BY tag`)
	if err != nil {
		return nil, fmt.Errorf("published tags: %w", err)
	}
	tags, err := pgx.CollectRows(rows, pgx.RowTo[string])
	if err != nil {
		return nil, fmt.Errorf("scan tags: %w", err)
	}
	if tags == nil {
		tags = []string{}
	}
	return tags, nil
}

// IncrementViews suma una visita de forma atómica.
func (r *BlogRepo) IncrementViews(ctx context.Context, id string) error {
	cmd, err := r.q.Exec(ctx, `UPDATE blog_posts SET views = views + 1 WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("increment views: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}
