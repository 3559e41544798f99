package usecase_test

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/suvenirs-api/internal/application/auth"
	"github.com/jhoicas/suvenirs-api/internal/application/dto"
	"github.com/jhoicas/suvenirs-api/internal/application/usecase"
	"github.com/jhoicas/suvenirs-api/internal/domain"
	"github.com/jhoicas/suvenirs-api/internal/domain/entity"
	"github.com/jhoicas/suvenirs-api/internal/infrastructure/memory"
)

func newBlogUC(t *testing.T) (*usecase.BlogUseCase, auth.Identity) {
	t.Helper()
	st := memory.NewStore()
	now := time.Now()
	admin := &entity.User{
		ID:        uuid.New().String(),
		Email:     "admin@suvenirs.cl",
		FirstName: "Carla",
		LastName:  "Muñoz",
		Role:      entity.RoleAdmin,
		IsActive:  true,
		CreatedAt: now,
		UpdatedAt: now,
	}
	require.NoError(t, st.Users().Create(context.Background(), admin))
	return usecase.NewBlogUseCase(st.Blog()), auth.Identity{ID: admin.ID, Email: admin.Email, Role: admin.Role}
}

func borrador(title string) dto.CreateBlogPostRequest {
	return dto.CreateBlogPostRequest{
		Title:   title,
		Excerpt: "Resumen del artículo",
		Content: "<p>Contenido</p>",
		Tags:    []string{" Regalos ", "empresas", "regalos"},
	}
}

func TestCreatePost_AutorDesdeIdentidad(t *testing.T) {
	uc, admin := newBlogUC(t)
	out, err := uc.Create(context.Background(), admin, borrador("Ideas de Regalos Corporativos"))
	require.NoError(t, err)

	assert.Equal(t, "ideas-de-regalos-corporativos", out.Slug)
	assert.Equal(t, []string{"regalos", "empresas"}, out.Tags)
	assert.False(t, out.IsPublished)
	assert.Nil(t, out.PublishedAt)
	require.NotNil(t, out.Author)
	assert.Equal(t, admin.ID, out.Author.ID)
	assert.Equal(t, "Carla", out.Author.FirstName)
}

func TestCreatePost_ExtractoDemasiadoLargo(t *testing.T) {
	uc, admin := newBlogUC(t)
	in := borrador("Post")
	in.Excerpt = strings.Repeat("a", entity.MaxBlogExcerptLen+1)

	_, err := uc.Create(context.Background(), admin, in)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestTogglePublish_FijaPublishedAtUnaVez(t *testing.T) {
	uc, admin := newBlogUC(t)
	ctx := context.Background()
	post, err := uc.Create(ctx, admin, borrador("Post"))
	require.NoError(t, err)

	published, err := uc.TogglePublish(ctx, post.ID)
	require.NoError(t, err)
	require.True(t, published.IsPublished)
	require.NotNil(t, published.PublishedAt)
	first := *published.PublishedAt

	draft, err := uc.TogglePublish(ctx, post.ID)
	require.NoError(t, err)
	assert.False(t, draft.IsPublished)
	require.NotNil(t, draft.PublishedAt, "despublicar no borra publishedAt")

	again, err := uc.TogglePublish(ctx, post.ID)
	require.NoError(t, err)
	assert.True(t, again.PublishedAt.Equal(first), "republicar conserva la fecha original")
}

func TestGetPublishedBySlug_SumaVisitas(t *testing.T) {
	uc, admin := newBlogUC(t)
	ctx := context.Background()
	in := borrador("Post público")
	in.IsPublished = true
	post, err := uc.Create(ctx, admin, in)
	require.NoError(t, err)

	for i := 1; i <= 3; i++ {
		out, err := uc.GetPublishedBySlug(ctx, post.Slug)
		require.NoError(t, err)
		assert.Equal(t, i, out.Views)
	}

	byID, err := uc.GetPublishedByID(ctx, post.ID)
	require.NoError(t, err)
	assert.Equal(t, 3, byID.Views, "la lectura por id no suma visitas")
}

func TestBorradorNoEsPublico(t *testing.T) {
	uc, admin := newBlogUC(t)
	ctx := context.Background()
	post, err := uc.Create(ctx, admin, borrador("Borrador"))
	require.NoError(t, err)

	_, err = uc.GetPublishedBySlug(ctx, post.Slug)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	_, err = uc.GetPublishedByID(ctx, post.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = uc.AdminGet(ctx, post.ID)
	assert.NoError(t, err)

	page, err := uc.ListPublished(ctx, dto.BlogListQuery{})
	require.NoError(t, err)
	assert.Empty(t, page.Items)
	assert.Equal(t, usecase.DefaultBlogLimit, page.Pagination.Limit)

	all, err := uc.AdminList(ctx, dto.BlogListQuery{})
	require.NoError(t, err)
	assert.Len(t, all.Items, 1)
}

func TestTags_SoloDePublicados(t *testing.T) {
	uc, admin := newBlogUC(t)
	ctx := context.Background()
	pub := borrador("Publicado")
	pub.IsPublished = true
	pub.Tags = []string{"tazas", "regalos"}
	_, err := uc.Create(ctx, admin, pub)
	require.NoError(t, err)
	draft := borrador("Borrador")
	draft.Tags = []string{"secreto"}
	_, err = uc.Create(ctx, admin, draft)
	require.NoError(t, err)

	tags, err := uc.Tags(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"regalos", "tazas"}, tags)
}

func TestUpdatePost_CambiaTituloYSlug(t *testing.T) {
	uc, admin := newBlogUC(t)
	ctx := context.Background()
	post, err := uc.Create(ctx, admin, borrador("Título viejo"))
	require.NoError(t, err)

	title := "Título nuevo"
	out, err := uc.Update(ctx, post.ID, dto.UpdateBlogPostRequest{Title: &title})
	require.NoError(t, err)
	assert.Equal(t, "titulo-nuevo", out.Slug)

	require.NoError(t, uc.Delete(ctx, post.ID))
	_, err = uc.AdminGet(ctx, post.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
