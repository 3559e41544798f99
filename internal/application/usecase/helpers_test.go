package usecase_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/suvenirs-api/internal/domain/entity"
	"github.com/jhoicas/suvenirs-api/internal/domain/repository"
	"github.com/jhoicas/suvenirs-api/internal/infrastructure/memory"
)

// ──────────────────────────────────────────────────────────────────────────────
// Fixtures compartidos por los tests de casos de uso
// ──────────────────────────────────────────────────────────────────────────────

func price(s string) *decimal.Decimal {
	d := decimal.RequireFromString(s)
	return &d
}

func seedCategory(t *testing.T, st *memory.Store, code, name, slug, parentID string) *entity.Category {
	t.Helper()
	now := time.Now()
	c := &entity.Category{
		ID:           uuid.New().String(),
		CategoryCode: code,
		Name:         name,
		Slug:         slug,
		ParentID:     parentID,
		IsActive:     true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	require.NoError(t, st.Categories().Create(context.Background(), c))
	return c
}

func seedProduct(t *testing.T, st *memory.Store, code, name, categoryID string, active bool) *entity.Product {
	t.Helper()
	now := time.Now()
	p := &entity.Product{
		ID:          uuid.New().String(),
		ProductCode: code,
		Name:        name,
		Slug:        code + "-slug",
		CategoryID:  categoryID,
		Quantity:    10,
		Currency:    entity.DefaultCurrency,
		Image:       entity.PlaceholderImage,
		IsActive:    active,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	require.NoError(t, st.Products().Create(context.Background(), p))
	return p
}

func repositoryAll() repository.QuoteFilter { return repository.QuoteFilter{} }
