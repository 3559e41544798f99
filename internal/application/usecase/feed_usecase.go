package usecase

import (
	"context"
	"strings"

	"github.com/jhoicas/suvenirs-api/internal/application/dto"
	"github.com/jhoicas/suvenirs-api/internal/domain/repository"
)

// feedSize cantidad de posts en el RSS.
const feedSize = 20

// SiteInfo datos públicos de la tienda.
type SiteInfo struct {
	BaseURL string
	Title   string
}

// FeedUseCase RSS del blog y sitemap del sitio público.
type FeedUseCase struct {
	products   repository.ProductRepository
	categories repository.CategoryRepository
	blog       repository.BlogRepository
	renderer   FeedRenderer
	site       SiteInfo
}

// NewFeedUseCase construye el caso de uso.
func NewFeedUseCase(products repository.ProductRepository, categories repository.CategoryRepository, blog repository.BlogRepository, renderer FeedRenderer, site SiteInfo) *FeedUseCase {
	site.BaseURL = strings.TrimRight(site.BaseURL, "/")
	return &FeedUseCase{products: products, categories: categories, blog: blog, renderer: renderer, site: site}
}

// BlogRSS últimos posts publicados en RSS 2.0.
func (uc *FeedUseCase) BlogRSS(ctx context.Context, selfURL string) ([]byte, error) {
	posts, _, err := uc.blog.List(ctx,
		repository.BlogFilter{IsPublished: boolPtr(true)},
		repository.SortSpec{Field: "publishedAt", Desc: true},
		repository.Page{Limit: feedSize})
	if err != nil {
		return nil, err
	}
	items := make([]dto.FeedItem, 0, len(posts))
	for _, p := range posts {
		link := uc.site.BaseURL + "/blog/" + p.Slug
		it := dto.FeedItem{
			Title:       p.Title,
			Link:        link,
			GUID:        link,
			Description: p.Excerpt,
			Categories:  p.Tags,
			PubDate:     p.CreatedAt,
		}
		if p.PublishedAt != nil {
			it.PubDate = *p.PublishedAt
		}
		if p.Author != nil {
			it.Author = strings.TrimSpace(p.Author.FirstName + " " + p.Author.LastName)
		}
		items = append(items, it)
	}
	return uc.renderer.RSS(dto.FeedChannel{
		Title:       uc.site.Title + " - Blog",
		Link:        uc.site.BaseURL + "/blog",
		Description: "Novedades y artículos de " + uc.site.Title,
		Language:    "es-CL",
		SelfURL:     selfURL,
	}, items)
}

// Sitemap páginas estáticas, productos y categorías activos y posts publicados.
func (uc *FeedUseCase) Sitemap(ctx context.Context) ([]byte, error) {
	base := uc.site.BaseURL
	urls := []dto.SitemapURL{
		{Loc: base + "/", ChangeFreq: "daily", Priority: "1.0"},
		{Loc: base + "/productos", ChangeFreq: "daily", Priority: "0.9"},
		{Loc: base + "/categorias", ChangeFreq: "weekly", Priority: "0.8"},
		{Loc: base + "/blog", ChangeFreq: "weekly", Priority: "0.7"},
		{Loc: base + "/nosotros", ChangeFreq: "monthly", Priority: "0.5"},
		{Loc: base + "/contacto", ChangeFreq: "monthly", Priority: "0.5"},
	}

	categories, err := uc.categories.ListActive(ctx)
	if err != nil {
		return nil, err
	}
	for _, c := range categories {
		urls = append(urls, dto.SitemapURL{Loc: base + "/productos?categoria=" + c.Slug, LastMod: c.UpdatedAt, ChangeFreq: "weekly", Priority: "0.7"})
	}

	active := repository.ProductFilter{IsActive: boolPtr(true)}
	for offset := 0; ; offset += dto.MaxLimit {
		list, total, err := uc.products.List(ctx, active, repository.SortSpec{Field: "createdAt"}, repository.Page{Limit: dto.MaxLimit, Offset: offset})
		if err != nil {
			return nil, err
		}
		for _, p := range list {
			urls = append(urls, dto.SitemapURL{Loc: base + "/productos/" + p.Slug, LastMod: p.UpdatedAt, ChangeFreq: "weekly", Priority: "0.8"})
		}
		if len(list) == 0 || offset+len(list) >= total {
			break
		}
	}

	for offset := 0; ; offset += dto.MaxLimit {
		posts, total, err := uc.blog.List(ctx, repository.BlogFilter{IsPublished: boolPtr(true)}, repository.SortSpec{Field: "publishedAt", Desc: true}, repository.Page{Limit: dto.MaxLimit, Offset: offset})
		if err != nil {
			return nil, err
		}
		for _, p := range posts {
			urls = append(urls, dto.SitemapURL{Loc: base + "/blog/" + p.Slug, LastMod: p.UpdatedAt, ChangeFreq: "monthly", Priority: "0.6"})
		}
		if len(posts) == 0 || offset+len(posts) >= total {
			break
		}
	}
	return uc.renderer.Sitemap(urls)
}
