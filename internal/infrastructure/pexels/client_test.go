package pexels

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const searchBody = `{
  "page": 2, "per_page": 1, "total_results": 40, "next_page": "https://api.pexels.com/v1/search?page=3",
  "photos": [{
    "id": 101, "photographer": "Ana", "photographer_url": "https://pexels.com/@ana", "alt": "taza roja",
    "src": {"original": "o.jpg", "large": "l.jpg", "medium": "m.jpg", "small": "s.jpg", "tiny": "t.jpg"}
  }]
}`

func TestSearch_NormalizaRespuesta(t *testing.T) {
	var gotAuth, gotQuery string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotQuery = r.URL.RawQuery
		assert.Equal(t, "/search", r.URL.Path)
		_, _ = w.Write([]byte(searchBody))
	}))
	defer srv.Close()

	page, err := NewClient("clave", srv.URL).Search(context.Background(), "taza roja", 2, 1)
	require.NoError(t, err)

	assert.Equal(t, "clave", gotAuth)
	assert.Equal(t, "page=2&per_page=1&query=taza+roja", gotQuery)
	require.Len(t, page.Photos, 1)
	p := page.Photos[0]
	assert.Equal(t, int64(101), p.ID)
	assert.Equal(t, "m.jpg", p.URL)
	assert.Equal(t, "o.jpg", p.URLs.Original)
	assert.Equal(t, "https://pexels.com/@ana", p.PhotographerURL)
	assert.Equal(t, 40, page.TotalResults)
	assert.True(t, page.HasMore)
}

func TestCurated_UltimaPaginaSinHasMore(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/curated", r.URL.Path)
		_, _ = w.Write([]byte(`{"page":1,"per_page":15,"total_results":0,"photos":[]}`))
	}))
	defer srv.Close()

	page, err := NewClient("clave", srv.URL).Curated(context.Background(), 1, 15)
	require.NoError(t, err)
	assert.False(t, page.HasMore)
	assert.NotNil(t, page.Photos)
}

func TestList_ErrorHTTP(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	_, err := NewClient("mala", srv.URL).Curated(context.Background(), 1, 15)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "HTTP 401")
}

func TestList_SinAPIKey(t *testing.T) {
	_, err := NewClient("", "").Search(context.Background(), "x", 1, 15)
	require.Error(t, err)
}
