package http_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appanalytics "github.com/jhoicas/suvenirs-api/internal/application/analytics"
	"github.com/jhoicas/suvenirs-api/internal/application/auth"
	"github.com/jhoicas/suvenirs-api/internal/application/usecase"
	"github.com/jhoicas/suvenirs-api/internal/domain/entity"
	"github.com/jhoicas/suvenirs-api/internal/infrastructure/feed"
	"github.com/jhoicas/suvenirs-api/internal/infrastructure/memory"
	apphttp "github.com/jhoicas/suvenirs-api/internal/interfaces/http"
)

// ──────────────────────────────────────────────────────────────────────────────
// Servidor de prueba: router completo sobre el store en memoria
// ──────────────────────────────────────────────────────────────────────────────

type envelope struct {
	Success    bool            `json:"success"`
	Data       json.RawMessage `json:"data"`
	Error      string          `json:"error"`
	Code       string          `json:"code"`
	Message    string          `json:"message"`
	Pagination *struct {
		Page       int `json:"page"`
		Limit      int `json:"limit"`
		Total      int `json:"total"`
		TotalPages int `json:"totalPages"`
	} `json:"pagination"`
}

func newTestServer(t *testing.T, middleware ...fiber.Handler) (*fiber.App, *memory.Store) {
	t.Helper()
	st := memory.NewStore()
	hasher := auth.NewBcryptHasher(4)

	deps := apphttp.RouterDeps{
		ProductUC:   usecase.NewProductUseCase(st.Products(), st.Categories()),
		ImportUC:    usecase.NewProductImportUseCase(st.Products(), st.Categories()),
		CategoryUC:  usecase.NewCategoryUseCase(st.Categories(), st.Products(), st.TxRunner()),
		QuoteUC:     usecase.NewQuoteUseCase(st.Quotes(), st.TxRunner(), nil, nil),
		BlogUC:      usecase.NewBlogUseCase(st.Blog()),
		UserUC:      usecase.NewUserAdminUseCase(st.Users(), hasher),
		ImageUC:     usecase.NewImageUseCase(nil, nil, 0),
		FeedUC:      usecase.NewFeedUseCase(st.Products(), st.Categories(), st.Blog(), feed.NewEtreeRenderer(), usecase.SiteInfo{BaseURL: "https://suvenirs.cl", Title: "Suvenirs"}),
		DashboardUC: appanalytics.NewDashboardUseCase(st.Products(), st.Users(), st.Quotes()),
		AuthUC: auth.NewAuthUseCase(st.Users(), hasher, auth.JWTConfig{
			Secret: testJWTSecret, ExpMinutes: testExpMin, Issuer: testIssuer,
		}),
		JWTSecret: testJWTSecret,
	}
	app := fiber.New()
	for _, mw := range middleware {
		app.Use(mw)
	}
	apphttp.Router(app, deps)
	return app, st
}

func call(t *testing.T, app *fiber.App, method, path, token string, body interface{}) (*http.Response, envelope) {
	t.Helper()
	var r io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		r = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, r)
	if body != nil {
		req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	}
	if token != "" {
		req.Header.Set("Authorization", token)
	}
	return send(t, app, req)
}

func send(t *testing.T, app *fiber.App, req *http.Request) (*http.Response, envelope) {
	t.Helper()
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	var env envelope
	if strings.HasPrefix(resp.Header.Get(fiber.HeaderContentType), fiber.MIMEApplicationJSON) {
		require.NoError(t, json.Unmarshal(raw, &env), "cuerpo: %s", raw)
	}
	return resp, env
}

func seedCategory(t *testing.T, st *memory.Store, code, slug string) *entity.Category {
	t.Helper()
	now := time.Now()
	c := &entity.Category{
		ID: uuid.New().String(), CategoryCode: code, Name: slug, Slug: slug,
		IsActive: true, CreatedAt: now, UpdatedAt: now,
	}
	require.NoError(t, st.Categories().Create(context.Background(), c))
	return c
}

func seedProduct(t *testing.T, st *memory.Store, code, categoryID string) *entity.Product {
	t.Helper()
	now := time.Now()
	p := &entity.Product{
		ID: uuid.New().String(), ProductCode: code, Name: code, Slug: strings.ToLower(code),
		CategoryID: categoryID, Quantity: 1, Currency: entity.DefaultCurrency,
		Image: entity.PlaceholderImage, IsActive: true, CreatedAt: now, UpdatedAt: now,
	}
	require.NoError(t, st.Products().Create(context.Background(), p))
	return p
}

// ──────────────────────────────────────────────────────────────────────────────
// Autorización en rutas de escritura
// ──────────────────────────────────────────────────────────────────────────────

func TestPostProducts_401_403_201(t *testing.T) {
	app, _ := newTestServer(t)
	body := map[string]interface{}{"productId": "TZ-100", "name": "Taza Santiago", "quantity": 3, "price": 4990}

	resp, env := call(t, app, http.MethodPost, "/api/products", "", body)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode, "sin token")
	assert.False(t, env.Success)
	assert.NotEmpty(t, env.Error)

	resp, env = call(t, app, http.MethodPost, "/api/products", tokenForRole(t, entity.RoleUser), body)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode, "token de usuario sin rol admin")
	assert.False(t, env.Success)

	resp, env = call(t, app, http.MethodPost, "/api/products", tokenForRole(t, entity.RoleAdmin), body)
	require.Equal(t, http.StatusCreated, resp.StatusCode, "admin: %s", env.Error)
	assert.True(t, env.Success)

	var p struct {
		ProductID string `json:"productId"`
		Slug      string `json:"slug"`
		Currency  string `json:"currency"`
		Image     string `json:"image"`
		IsActive  bool   `json:"isActive"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &p))
	assert.Equal(t, "TZ-100", p.ProductID)
	assert.Equal(t, "taza-santiago", p.Slug)
	assert.Equal(t, "CLP", p.Currency)
	assert.Equal(t, entity.PlaceholderImage, p.Image)
	assert.True(t, p.IsActive)
}

func TestPostProducts_SalePriceMayorOIgualAlPrecio_400(t *testing.T) {
	app, _ := newTestServer(t)
	body := map[string]interface{}{"productId": "TZ-1", "name": "Taza", "price": 1000, "salePrice": 1000}

	resp, env := call(t, app, http.MethodPost, "/api/products", tokenForRole(t, entity.RoleAdmin), body)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.False(t, env.Success)
}

func TestPostProducts_CampoRequeridoFaltante_400(t *testing.T) {
	app, _ := newTestServer(t)
	resp, env := call(t, app, http.MethodPost, "/api/products", tokenForRole(t, entity.RoleAdmin),
		map[string]interface{}{"name": "Sin código"})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Contains(t, env.Error, "productId")
}

func TestAdminGroup_RequiereAdmin(t *testing.T) {
	app, _ := newTestServer(t)

	resp, _ := call(t, app, http.MethodGet, "/api/admin/dashboard", "", nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp, _ = call(t, app, http.MethodGet, "/api/admin/dashboard", tokenForRole(t, entity.RoleUser), nil)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	resp, env := call(t, app, http.MethodGet, "/api/admin/dashboard", tokenForRole(t, entity.RoleAdmin), nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.True(t, env.Success)
}

// ──────────────────────────────────────────────────────────────────────────────
// Catálogo
// ──────────────────────────────────────────────────────────────────────────────

func TestGetProducts_FiltroPorSlugsDescartaLosInexistentes(t *testing.T) {
	app, st := newTestServer(t)
	tazas := seedCategory(t, st, "CAT-001", "tazas")
	gorros := seedCategory(t, st, "CAT-002", "gorros")
	seedProduct(t, st, "TZ-1", tazas.ID)
	seedProduct(t, st, "TZ-2", tazas.ID)
	seedProduct(t, st, "GR-1", gorros.ID)

	resp, env := call(t, app, http.MethodGet, "/api/products?category=tazas,no-existe", "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var items []struct {
		ProductID string `json:"productId"`
		Category  struct {
			Slug string `json:"slug"`
		} `json:"category"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &items))
	require.Len(t, items, 2)
	for _, it := range items {
		assert.Equal(t, "tazas", it.Category.Slug)
	}
	require.NotNil(t, env.Pagination)
	assert.Equal(t, 2, env.Pagination.Total)
	assert.Equal(t, 1, env.Pagination.TotalPages)
}

func TestGetProductByID_Inexistente_404ConSobre(t *testing.T) {
	app, _ := newTestServer(t)
	resp, env := call(t, app, http.MethodGet, "/api/products/"+uuid.New().String(), "", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.False(t, env.Success)
	assert.Equal(t, "NOT_FOUND", env.Code)
}

func TestCategorias_CodigosCorrelativos(t *testing.T) {
	app, _ := newTestServer(t)
	admin := tokenForRole(t, entity.RoleAdmin)

	var codes []string
	for _, name := range []string{"Tazas", "Llaveros"} {
		resp, env := call(t, app, http.MethodPost, "/api/categories", admin, map[string]interface{}{"name": name})
		require.Equal(t, http.StatusCreated, resp.StatusCode, env.Error)
		var c struct {
			CategoryID string `json:"categoryId"`
		}
		require.NoError(t, json.Unmarshal(env.Data, &c))
		codes = append(codes, c.CategoryID)
	}
	assert.Equal(t, []string{"CAT-001", "CAT-002"}, codes)
}

func TestDeleteCategory_ConProductos_Rechazada(t *testing.T) {
	app, st := newTestServer(t)
	admin := tokenForRole(t, entity.RoleAdmin)
	tazas := seedCategory(t, st, "CAT-001", "tazas")
	seedProduct(t, st, "TZ-1", tazas.ID)

	resp, _ := call(t, app, http.MethodPost, "/api/admin/categories/reconcile", admin, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp, env := call(t, app, http.MethodDelete, "/api/categories/"+tazas.ID, admin, nil)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	assert.False(t, env.Success)
}

// ──────────────────────────────────────────────────────────────────────────────
// Cotizaciones
// ──────────────────────────────────────────────────────────────────────────────

func TestPostQuote_TotalesCalculadosEnServidor(t *testing.T) {
	app, _ := newTestServer(t)
	body := map[string]interface{}{
		"items": []map[string]interface{}{
			{"productId": "TZ-1", "productName": "Taza", "quantity": 3},
			{"productId": "LL-1", "productName": "Llavero", "quantity": 7},
		},
		"totalItems":    99,
		"totalUnits":    99,
		"customerEmail": "Cliente@Empresa.CL",
	}
	resp, env := call(t, app, http.MethodPost, "/api/quotes", "", body)
	require.Equal(t, http.StatusCreated, resp.StatusCode, env.Error)

	var q struct {
		QuoteNumber   string `json:"quoteNumber"`
		TotalItems    int    `json:"totalItems"`
		TotalUnits    int    `json:"totalUnits"`
		Status        string `json:"status"`
		Source        string `json:"source"`
		CustomerEmail string `json:"customerEmail"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &q))
	assert.Equal(t, 2, q.TotalItems)
	assert.Equal(t, 10, q.TotalUnits)
	assert.Equal(t, entity.QuoteStatusPending, q.Status)
	assert.Equal(t, entity.QuoteSourceWeb, q.Source)
	assert.Equal(t, "cliente@empresa.cl", q.CustomerEmail)
	assert.Regexp(t, `^COT-\d{4}-0001$`, q.QuoteNumber)
}

func TestPostQuote_SinItems_400(t *testing.T) {
	app, _ := newTestServer(t)
	resp, env := call(t, app, http.MethodPost, "/api/quotes", "", map[string]interface{}{"items": []interface{}{}})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.False(t, env.Success)
	assert.Contains(t, env.Error, "items")
}

func TestPostQuote_CantidadFueraDeRango_400(t *testing.T) {
	app, _ := newTestServer(t)
	body := map[string]interface{}{
		"items": []map[string]interface{}{{"productId": "TZ-1", "productName": "Taza", "quantity": 10000000000}},
	}
	resp, env := call(t, app, http.MethodPost, "/api/quotes", "", body)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Contains(t, env.Error, "quantity")
}

func TestGetQuotes_SoloAdmin(t *testing.T) {
	app, _ := newTestServer(t)
	resp, _ := call(t, app, http.MethodGet, "/api/quotes", "", nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp, env := call(t, app, http.MethodGet, "/api/quotes/stats", tokenForRole(t, entity.RoleAdmin), nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.True(t, env.Success)
}

// ──────────────────────────────────────────────────────────────────────────────
// Importación CSV
// ──────────────────────────────────────────────────────────────────────────────

func TestImportProducts_MultipartConFilaInvalida(t *testing.T) {
	app, _ := newTestServer(t)
	csv := "productId,name,description,quantity,image,price\n" +
		"TZ-1,Taza blanca,Cerámica,10,/img/taza.jpg,4990\n" +
		"TZ-2,Taza negra,Cerámica,5,/img/negra.jpg,abc\n" +
		"TZ-3,Taza roja,Cerámica,0,,3990\n"

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile("file", "productos.csv")
	require.NoError(t, err)
	_, err = fw.Write([]byte(csv))
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/admin/products/import", &buf)
	req.Header.Set(fiber.HeaderContentType, mw.FormDataContentType())
	req.Header.Set("Authorization", tokenForRole(t, entity.RoleAdmin))
	resp, env := send(t, app, req)
	require.Equal(t, http.StatusOK, resp.StatusCode, env.Error)
	assert.True(t, env.Success)

	var res struct {
		Imported int      `json:"imported"`
		Errors   []string `json:"errors"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &res))
	assert.Equal(t, 2, res.Imported)
	require.Len(t, res.Errors, 1)
	assert.True(t, strings.HasPrefix(res.Errors[0], "Fila 2:"), res.Errors[0])
}

func TestImportProducts_SinArchivo_400(t *testing.T) {
	app, _ := newTestServer(t)
	resp, env := call(t, app, http.MethodPost, "/api/admin/products/import", tokenForRole(t, entity.RoleAdmin), nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.False(t, env.Success)
}

// ──────────────────────────────────────────────────────────────────────────────
// Cuenta
// ──────────────────────────────────────────────────────────────────────────────

func TestRegistroLoginYMe(t *testing.T) {
	app, _ := newTestServer(t)
	reg := map[string]interface{}{
		"email": "Ana@Correo.cl", "password": "secreta1", "firstName": "Ana", "lastName": "Pérez",
	}
	resp, env := call(t, app, http.MethodPost, "/api/auth/register", "", reg)
	require.Equal(t, http.StatusCreated, resp.StatusCode, env.Error)

	resp, _ = call(t, app, http.MethodPost, "/api/auth/register", "", reg)
	assert.Equal(t, http.StatusConflict, resp.StatusCode, "email repetido")

	resp, _ = call(t, app, http.MethodPost, "/api/auth/login", "",
		map[string]interface{}{"email": "ana@correo.cl", "password": "otra-clave"})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp, env = call(t, app, http.MethodPost, "/api/auth/login", "",
		map[string]interface{}{"email": "ana@correo.cl", "password": "secreta1"})
	require.Equal(t, http.StatusOK, resp.StatusCode, env.Error)
	var login struct {
		Token string `json:"token"`
		User  struct {
			Email string `json:"email"`
			Role  string `json:"role"`
		} `json:"user"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &login))
	require.NotEmpty(t, login.Token)
	assert.Equal(t, "ana@correo.cl", login.User.Email)
	assert.Equal(t, entity.RoleUser, login.User.Role)

	resp, env = call(t, app, http.MethodGet, "/api/auth/me", "Bearer "+login.Token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode, env.Error)
	assert.NotContains(t, string(env.Data), "password")
}

func TestRegistro_PasswordSobreLimiteDeBcrypt_400(t *testing.T) {
	app, _ := newTestServer(t)
	for name, pass := range map[string]string{
		"ascii":     strings.Repeat("x", 80),
		"multibyte": strings.Repeat("á", 40),
	} {
		reg := map[string]interface{}{
			"email": name + "@correo.cl", "password": pass, "firstName": "Ana", "lastName": "Pérez",
		}
		resp, env := call(t, app, http.MethodPost, "/api/auth/register", "", reg)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode, "%s: %s", name, env.Error)
	}
}

// ──────────────────────────────────────────────────────────────────────────────
// Integraciones y salud
// ──────────────────────────────────────────────────────────────────────────────

func TestImages_SinProveedorConfigurado_503(t *testing.T) {
	app, _ := newTestServer(t)
	resp, env := call(t, app, http.MethodGet, "/api/images/search?query=tazas", tokenForRole(t, entity.RoleAdmin), nil)
	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
	assert.False(t, env.Success)
}

func TestSitemap_DevuelveXML(t *testing.T) {
	app, st := newTestServer(t)
	tazas := seedCategory(t, st, "CAT-001", "tazas")
	seedProduct(t, st, "TZ-1", tazas.ID)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/sitemap.xml", nil), -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, resp.Header.Get(fiber.HeaderContentType), "xml")
	assert.Contains(t, string(body), "<urlset")
	assert.Contains(t, string(body), "https://suvenirs.cl/")
}

func TestHealth(t *testing.T) {
	app, _ := newTestServer(t)
	resp, env := call(t, app, http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.True(t, env.Success)
}
