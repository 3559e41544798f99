// Package pexels adaptador del banco de fotos Pexels para el buscador de imágenes del panel admin.
package pexels

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/jhoicas/suvenirs-api/internal/application/dto"
	"github.com/jhoicas/suvenirs-api/internal/application/usecase"
)

// Verificar en tiempo de compilación que Client implementa ImageSearcher.
var _ usecase.ImageSearcher = (*Client)(nil)

// DefaultBaseURL raíz de la API REST v1.
const DefaultBaseURL = "https://api.pexels.com/v1"

// Client llama a la API REST de Pexels con la API key en el header Authorization.
type Client struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
}

// NewClient construye el adaptador. baseURL vacío usa DefaultBaseURL.
func NewClient(apiKey, baseURL string) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		apiKey:  apiKey,
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 10 * time.Second, // timeout de red; el caller también puede poner WithTimeout
		},
	}
}

// ── Estructuras de la API ─────────────────────────────────────────────────────

type photo struct {
	ID              int64  `json:"id"`
	Photographer    string `json:"photographer"`
	PhotographerURL string `json:"photographer_url"`
	Alt             string `json:"alt"`
	Src             struct {
		Original string `json:"original"`
		Large    string `json:"large"`
		Medium   string `json:"medium"`
		Small    string `json:"small"`
	} `json:"src"`
}

type listResponse struct {
	Page         int     `json:"page"`
	PerPage      int     `json:"per_page"`
	TotalResults int     `json:"total_results"`
	NextPage     string  `json:"next_page"`
	Photos       []photo `json:"photos"`
}

// ── Implementación del puerto ─────────────────────────────────────────────────

// Search busca fotos por texto.
func (c *Client) Search(ctx context.Context, query string, page, perPage int) (*dto.PhotoPage, error) {
	params := url.Values{}
	params.Set("query", query)
	return c.list(ctx, "/search", params, page, perPage)
}

// Curated fotos seleccionadas por Pexels.
func (c *Client) Curated(ctx context.Context, page, perPage int) (*dto.PhotoPage, error) {
	return c.list(ctx, "/curated", url.Values{}, page, perPage)
}

func (c *Client) list(ctx context.Context, path string, params url.Values, page, perPage int) (*dto.PhotoPage, error) {
	if c.apiKey == "" {
		return nil, fmt.Errorf("pexels: PEXELS_API_KEY no configurado")
	}
	params.Set("page", strconv.Itoa(page))
	params.Set("per_page", strconv.Itoa(perPage))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("pexels: crear HTTP request: %w", err)
	}
	req.Header.Set("Authorization", c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return nil, fmt.Errorf("pexels: timeout o cancelación: %w", ctx.Err())
		}
		return nil, fmt.Errorf("pexels: llamada HTTP fallida: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 2<<20))
	if err != nil {
		return nil, fmt.Errorf("pexels: leer respuesta: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("pexels: HTTP %d", resp.StatusCode)
	}

	var body listResponse
	if err := json.Unmarshal(raw, &body); err != nil {
		return nil, fmt.Errorf("pexels: deserializar respuesta: %w", err)
	}
	return normalize(body), nil
}

// normalize convierte la respuesta de Pexels a PhotoPage; url es la variante medium.
func normalize(body listResponse) *dto.PhotoPage {
	out := &dto.PhotoPage{
		Photos:       make([]dto.Photo, 0, len(body.Photos)),
		Page:         body.Page,
		PerPage:      body.PerPage,
		TotalResults: body.TotalResults,
		HasMore:      body.NextPage != "",
	}
	for _, p := range body.Photos {
		out.Photos = append(out.Photos, dto.Photo{
			ID:  p.ID,
			URL: p.Src.Medium,
			URLs: dto.PhotoURLs{
				Original: p.Src.Original,
				Large:    p.Src.Large,
				Medium:   p.Src.Medium,
				Small:    p.Src.Small,
			},
			Alt:             p.Alt,
			Photographer:    p.Photographer,
			PhotographerURL: p.PhotographerURL,
		})
	}
	return out
}
