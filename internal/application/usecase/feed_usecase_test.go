package usecase_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/suvenirs-api/internal/application/dto"
	"github.com/jhoicas/suvenirs-api/internal/application/usecase"
	"github.com/jhoicas/suvenirs-api/internal/domain/entity"
	"github.com/jhoicas/suvenirs-api/internal/infrastructure/memory"
)

// recordingRenderer guarda lo que recibe en vez de serializarlo.
type recordingRenderer struct {
	channel dto.FeedChannel
	items   []dto.FeedItem
	urls    []dto.SitemapURL
}

func (r *recordingRenderer) RSS(channel dto.FeedChannel, items []dto.FeedItem) ([]byte, error) {
	r.channel, r.items = channel, items
	return []byte("rss"), nil
}

func (r *recordingRenderer) Sitemap(urls []dto.SitemapURL) ([]byte, error) {
	r.urls = urls
	return []byte("sitemap"), nil
}

func TestFeed_SitemapYRSS(t *testing.T) {
	st := memory.NewStore()
	ctx := context.Background()
	cat := seedCategory(t, st, "CAT-001", "Tazas", "tazas", "")
	seedProduct(t, st, "TZ-1", "Taza", cat.ID, true)
	seedProduct(t, st, "TZ-2", "Taza oculta", cat.ID, false)

	now := time.Now()
	for _, p := range []struct {
		slug      string
		published bool
	}{{"publicado", true}, {"borrador", false}} {
		post := &entity.BlogPost{ID: uuid.New().String(), Title: p.slug, Slug: p.slug, Excerpt: "e", Content: "c", CreatedAt: now, UpdatedAt: now}
		post.SetPublished(p.published, now)
		require.NoError(t, st.Blog().Create(ctx, post))
	}

	r := &recordingRenderer{}
	uc := usecase.NewFeedUseCase(st.Products(), st.Categories(), st.Blog(), r, usecase.SiteInfo{BaseURL: "https://suvenirs.cl/", Title: "Suvenirs"})

	_, err := uc.Sitemap(ctx)
	require.NoError(t, err)
	locs := map[string]bool{}
	for _, u := range r.urls {
		locs[u.Loc] = true
	}
	assert.True(t, locs["https://suvenirs.cl/"])
	assert.True(t, locs["https://suvenirs.cl/productos/TZ-1-slug"])
	assert.False(t, locs["https://suvenirs.cl/productos/TZ-2-slug"], "los inactivos no se publican")
	assert.True(t, locs["https://suvenirs.cl/productos?categoria=tazas"])
	assert.True(t, locs["https://suvenirs.cl/blog/publicado"])
	assert.False(t, locs["https://suvenirs.cl/blog/borrador"])

	_, err = uc.BlogRSS(ctx, "https://api.suvenirs.cl/api/blog/feed.xml")
	require.NoError(t, err)
	require.Len(t, r.items, 1)
	assert.Equal(t, "https://suvenirs.cl/blog/publicado", r.items[0].Link)
	assert.Equal(t, "es-CL", r.channel.Language)
}
