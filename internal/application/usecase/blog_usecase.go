package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/suvenirs-api/internal/application/auth"
	"github.com/jhoicas/suvenirs-api/internal/application/dto"
	"github.com/jhoicas/suvenirs-api/internal/domain"
	"github.com/jhoicas/suvenirs-api/internal/domain/entity"
	"github.com/jhoicas/suvenirs-api/internal/domain/repository"
	"github.com/jhoicas/suvenirs-api/pkg/logger"
	"github.com/jhoicas/suvenirs-api/pkg/slug"
)

// DefaultBlogLimit tamaño de página de los listados del blog.
const DefaultBlogLimit = 10

// BlogUseCase blog: lectura pública de publicados y gestión admin.
type BlogUseCase struct {
	repo repository.BlogRepository
	now  func() time.Time
}

// NewBlogUseCase construye el caso de uso.
func NewBlogUseCase(repo repository.BlogRepository) *BlogUseCase {
	return &BlogUseCase{repo: repo, now: time.Now}
}

// ListPublished posts publicados, por defecto del más reciente al más antiguo según publishedAt.
func (uc *BlogUseCase) ListPublished(ctx context.Context, q dto.BlogListQuery) (*dto.Page[dto.BlogPostResponse], error) {
	q.PageRequest = q.PageRequest.Normalize(DefaultBlogLimit)
	f := repository.BlogFilter{
		Search:      strings.TrimSpace(q.Search),
		Tag:         strings.ToLower(strings.TrimSpace(q.Tag)),
		IsPublished: boolPtr(true),
	}
	return uc.list(ctx, f, sortSpec(q.PageRequest, "publishedAt"), q.PageRequest)
}

// AdminList todos los posts; búsqueda por subcadena en título y extracto.
func (uc *BlogUseCase) AdminList(ctx context.Context, q dto.BlogListQuery) (*dto.Page[dto.BlogPostResponse], error) {
	q.PageRequest = q.PageRequest.Normalize(DefaultBlogLimit)
	f := repository.BlogFilter{
		Contains:    strings.TrimSpace(q.Search),
		Tag:         strings.ToLower(strings.TrimSpace(q.Tag)),
		IsPublished: q.IsPublished,
	}
	return uc.list(ctx, f, sortSpec(q.PageRequest, "createdAt"), q.PageRequest)
}

func (uc *BlogUseCase) list(ctx context.Context, f repository.BlogFilter, sort repository.SortSpec, p dto.PageRequest) (*dto.Page[dto.BlogPostResponse], error) {
	list, total, err := uc.repo.List(ctx, f, sort, pageOf(p))
	if err != nil {
		return nil, err
	}
	items := make([]dto.BlogPostResponse, 0, len(list))
	for _, b := range list {
		items = append(items, *toBlogPostResponse(b))
	}
	return &dto.Page[dto.BlogPostResponse]{Items: items, Pagination: dto.NewPagination(p.Page, p.Limit, total)}, nil
}

// Tags tags distintos de los posts publicados.
func (uc *BlogUseCase) Tags(ctx context.Context) ([]string, error) {
	tags, err := uc.repo.PublishedTags(ctx)
	if err != nil {
		return nil, err
	}
	if tags == nil {
		tags = []string{}
	}
	return tags, nil
}

// GetPublishedBySlug devuelve un post publicado y suma una visita. Si el incremento falla
// se registra y la lectura responde igual.
func (uc *BlogUseCase) GetPublishedBySlug(ctx context.Context, s string) (*dto.BlogPostResponse, error) {
	b, err := uc.repo.GetBySlug(ctx, s)
	if err != nil {
		return nil, err
	}
	if b == nil || !b.IsPublished {
		return nil, notFound("post")
	}
	if err := uc.repo.IncrementViews(ctx, b.ID); err != nil {
		logger.FromContext(ctx).Warn().Err(err).Str("post_id", b.ID).Msg("increment blog views")
	} else {
		b.Views++
	}
	return toBlogPostResponse(b), nil
}

// GetPublishedByID devuelve un post publicado sin contar visita.
func (uc *BlogUseCase) GetPublishedByID(ctx context.Context, id string) (*dto.BlogPostResponse, error) {
	b, err := uc.get(ctx, id)
	if err != nil {
		return nil, err
	}
	if !b.IsPublished {
		return nil, notFound("post")
	}
	return toBlogPostResponse(b), nil
}

// AdminGet devuelve el post en cualquier estado.
func (uc *BlogUseCase) AdminGet(ctx context.Context, id string) (*dto.BlogPostResponse, error) {
	b, err := uc.get(ctx, id)
	if err != nil {
		return nil, err
	}
	return toBlogPostResponse(b), nil
}

// Create el autor es siempre el usuario autenticado.
func (uc *BlogUseCase) Create(ctx context.Context, author auth.Identity, in dto.CreateBlogPostRequest) (*dto.BlogPostResponse, error) {
	now := uc.now()
	b := &entity.BlogPost{
		ID:         uuid.New().String(),
		Title:      strings.TrimSpace(in.Title),
		Excerpt:    strings.TrimSpace(in.Excerpt),
		Content:    in.Content,
		CoverImage: strings.TrimSpace(in.CoverImage),
		AuthorID:   author.ID,
		Tags:       entity.NormalizeTags(in.Tags),
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	b.Slug = slug.Make(b.Title)
	b.SetPublished(in.IsPublished, now)
	if err := b.Validate(); err != nil {
		return nil, invalid("%s", err.Error())
	}
	if err := uc.repo.Create(ctx, b); err != nil {
		if errors.Is(err, domain.ErrDuplicate) {
			return nil, duplicatePost(b.Slug)
		}
		return nil, err
	}
	return uc.reload(ctx, b)
}

// Update cambios parciales. Publicar por primera vez fija publishedAt; despublicar no lo borra.
func (uc *BlogUseCase) Update(ctx context.Context, id string, in dto.UpdateBlogPostRequest) (*dto.BlogPostResponse, error) {
	b, err := uc.get(ctx, id)
	if err != nil {
		return nil, err
	}
	if in.Title != nil {
		title := strings.TrimSpace(*in.Title)
		if title != b.Title {
			b.Title = title
			b.Slug = slug.Make(title)
		}
	}
	if in.Excerpt != nil {
		b.Excerpt = strings.TrimSpace(*in.Excerpt)
	}
	if in.Content != nil {
		b.Content = *in.Content
	}
	if in.CoverImage != nil {
		b.CoverImage = strings.TrimSpace(*in.CoverImage)
	}
	if in.Tags != nil {
		b.Tags = entity.NormalizeTags(*in.Tags)
	}
	now := uc.now()
	if in.IsPublished != nil {
		b.SetPublished(*in.IsPublished, now)
	}
	if err := b.Validate(); err != nil {
		return nil, invalid("%s", err.Error())
	}
	b.UpdatedAt = now
	if err := uc.repo.Update(ctx, b); err != nil {
		if errors.Is(err, domain.ErrDuplicate) {
			return nil, duplicatePost(b.Slug)
		}
		return nil, err
	}
	return uc.reload(ctx, b)
}

// TogglePublish alterna borrador/publicado.
func (uc *BlogUseCase) TogglePublish(ctx context.Context, id string) (*dto.BlogPostResponse, error) {
	b, err := uc.get(ctx, id)
	if err != nil {
		return nil, err
	}
	now := uc.now()
	b.TogglePublish(now)
	b.UpdatedAt = now
	if err := uc.repo.Update(ctx, b); err != nil {
		return nil, err
	}
	return uc.reload(ctx, b)
}

// Delete borra el post.
func (uc *BlogUseCase) Delete(ctx context.Context, id string) error {
	if _, err := uc.get(ctx, id); err != nil {
		return err
	}
	return uc.repo.Delete(ctx, id)
}

func (uc *BlogUseCase) get(ctx context.Context, id string) (*entity.BlogPost, error) {
	if !isUUID(id) {
		return nil, notFound("post")
	}
	b, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if b == nil {
		return nil, notFound("post")
	}
	return b, nil
}

func (uc *BlogUseCase) reload(ctx context.Context, b *entity.BlogPost) (*dto.BlogPostResponse, error) {
	fresh, err := uc.repo.GetByID(ctx, b.ID)
	if err != nil {
		return nil, err
	}
	if fresh == nil {
		fresh = b
	}
	return toBlogPostResponse(fresh), nil
}

func duplicatePost(s string) error {
	return fmt.Errorf("%w: ya existe un post con el slug %q", domain.ErrConflict, s)
}

func toBlogPostResponse(b *entity.BlogPost) *dto.BlogPostResponse {
	tags := b.Tags
	if tags == nil {
		tags = []string{}
	}
	out := &dto.BlogPostResponse{
		ID:          b.ID,
		Title:       b.Title,
		Slug:        b.Slug,
		Excerpt:     b.Excerpt,
		Content:     b.Content,
		CoverImage:  b.CoverImage,
		Tags:        tags,
		IsPublished: b.IsPublished,
		PublishedAt: b.PublishedAt,
		Views:       b.Views,
		CreatedAt:   b.CreatedAt,
		UpdatedAt:   b.UpdatedAt,
	}
	if b.Author != nil {
		out.Author = &dto.AuthorResponse{ID: b.Author.ID, FirstName: b.Author.FirstName, LastName: b.Author.LastName}
	}
	return out
}
