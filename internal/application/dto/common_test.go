package dto_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/suvenirs-api/internal/application/dto"
)

func TestNewPagination(t *testing.T) {
	assert.Equal(t, dto.Pagination{Page: 1, Limit: 12, Total: 25, TotalPages: 3}, dto.NewPagination(1, 12, 25))
	assert.Equal(t, 0, dto.NewPagination(1, 12, 0).TotalPages)
	assert.Equal(t, 1, dto.NewPagination(1, 20, 20).TotalPages)
}

func TestPageRequest_Normalize(t *testing.T) {
	p := dto.PageRequest{}.Normalize(12)
	assert.Equal(t, 1, p.Page)
	assert.Equal(t, 12, p.Limit)
	assert.Equal(t, "desc", p.Order)
	assert.Equal(t, 0, p.Offset())

	p = dto.PageRequest{Page: 3, Limit: 500, Order: "asc"}.Normalize(20)
	assert.Equal(t, dto.MaxLimit, p.Limit, "el límite se recorta a 100")
	assert.Equal(t, 200, p.Offset())
	assert.False(t, p.Desc())
}

func TestOptionalString(t *testing.T) {
	var in struct {
		Parent dto.OptionalString `json:"parent"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{}`), &in))
	assert.False(t, in.Parent.Set, "campo ausente")

	require.NoError(t, json.Unmarshal([]byte(`{"parent": null}`), &in))
	assert.True(t, in.Parent.Set)
	assert.Equal(t, "", in.Parent.Value)

	require.NoError(t, json.Unmarshal([]byte(`{"parent": "abc"}`), &in))
	assert.True(t, in.Parent.Set)
	assert.Equal(t, "abc", in.Parent.Value)
}
