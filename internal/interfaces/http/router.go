package http

import (
	"context"

	"github.com/gofiber/fiber/v2"

	appanalytics "github.com/jhoicas/suvenirs-api/internal/application/analytics"
	"github.com/jhoicas/suvenirs-api/internal/application/auth"
	"github.com/jhoicas/suvenirs-api/internal/application/dto"
	"github.com/jhoicas/suvenirs-api/internal/application/usecase"
	"github.com/jhoicas/suvenirs-api/internal/domain/entity"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	ProductUC   *usecase.ProductUseCase
	ImportUC    *usecase.ProductImportUseCase
	CategoryUC  *usecase.CategoryUseCase
	QuoteUC     *usecase.QuoteUseCase
	BlogUC      *usecase.BlogUseCase
	UserUC      *usecase.UserAdminUseCase
	ImageUC     *usecase.ImageUseCase
	FeedUC      *usecase.FeedUseCase
	DashboardUC *appanalytics.DashboardUseCase
	AuthUC      *auth.AuthUseCase
	JWTSecret   string
	// Ping opcional para /health (ej. pool.Ping).
	Ping func(ctx context.Context) error
}

// Router registra las rutas de la API.
// Fiber resuelve en orden de registro: las rutas fijas van antes que /:id.
func Router(app *fiber.App, deps RouterDeps) {
	app.Get("/health", healthHandler(deps.Ping))

	api := app.Group("/api")
	authn := AuthMiddleware(deps.JWTSecret)
	admin := RequireRole(entity.RoleAdmin)

	productHandler := NewProductHandler(deps.ProductUC, deps.ImportUC)
	categoryHandler := NewCategoryHandler(deps.CategoryUC)
	quoteHandler := NewQuoteHandler(deps.QuoteUC)
	blogHandler := NewBlogHandler(deps.BlogUC)
	feedHandler := NewFeedHandler(deps.FeedUC)
	authHandler := NewAuthHandler(deps.AuthUC)
	userHandler := NewUserHandler(deps.UserUC)
	dashboardHandler := NewDashboardHandler(deps.DashboardUC)
	imageHandler := NewImageHandler(deps.ImageUC)

	// Auth
	authGroup := api.Group("/auth")
	authGroup.Post("/register", authHandler.Register)
	authGroup.Post("/login", authHandler.Login)
	authGroup.Get("/me", authn, authHandler.Me)
	authGroup.Put("/me", authn, authHandler.UpdateMe)
	authGroup.Put("/password", authn, authHandler.ChangePassword)

	// Products (lectura pública, escritura admin)
	products := api.Group("/products")
	products.Get("/", productHandler.List)
	products.Get("/slug/:slug", productHandler.GetBySlug)
	products.Get("/:id", productHandler.GetByID)
	products.Post("/", authn, admin, productHandler.Create)
	products.Put("/:id", authn, admin, productHandler.Update)
	products.Delete("/:id", authn, admin, productHandler.Delete)

	// Categories (lectura pública, escritura admin)
	categories := api.Group("/categories")
	categories.Get("/", categoryHandler.List)
	categories.Get("/slug/:slug", categoryHandler.GetBySlug)
	categories.Get("/:id", categoryHandler.GetByID)
	categories.Post("/", authn, admin, categoryHandler.Create)
	categories.Put("/:id", authn, admin, categoryHandler.Update)
	categories.Delete("/:id", authn, admin, categoryHandler.Delete)

	// Quotes (creación pública, resto admin)
	quotes := api.Group("/quotes")
	quotes.Post("/", quoteHandler.Create)
	quotes.Get("/", authn, admin, quoteHandler.List)
	quotes.Get("/stats", authn, admin, quoteHandler.Stats)
	quotes.Get("/:id/pdf", authn, admin, quoteHandler.PDF)
	quotes.Get("/:id", authn, admin, quoteHandler.Get)
	quotes.Put("/:id/status", authn, admin, quoteHandler.UpdateStatus)
	quotes.Put("/:id", authn, admin, quoteHandler.Update)
	quotes.Delete("/:id", authn, admin, quoteHandler.Delete)

	// Blog (publicados en público, gestión admin)
	blog := api.Group("/blog")
	blog.Get("/", blogHandler.List)
	blog.Get("/tags", blogHandler.Tags)
	blog.Get("/feed.xml", feedHandler.BlogRSS)
	blog.Get("/slug/:slug", blogHandler.GetBySlug)
	blog.Get("/admin/all", authn, admin, blogHandler.AdminList)
	blog.Get("/admin/:id", authn, admin, blogHandler.AdminGet)
	blog.Get("/:id", blogHandler.GetByID)
	blog.Post("/", authn, admin, blogHandler.Create)
	blog.Put("/:id", authn, admin, blogHandler.Update)
	blog.Patch("/:id/publish", authn, admin, blogHandler.TogglePublish)
	blog.Delete("/:id", authn, admin, blogHandler.Delete)

	// Admin (todo requiere rol admin)
	adm := api.Group("/admin", authn, admin)
	adm.Get("/dashboard", dashboardHandler.GetSummary)
	adm.Get("/sales/monthly", dashboardHandler.MonthlySales)

	adm.Get("/users", userHandler.List)
	adm.Post("/users", userHandler.Create)
	adm.Get("/users/:id", userHandler.Get)
	adm.Put("/users/:id/password", userHandler.ResetPassword)
	adm.Put("/users/:id", userHandler.Update)
	adm.Delete("/users/:id", userHandler.Delete)

	adm.Get("/products", productHandler.AdminList)
	adm.Post("/products/import", productHandler.Import)
	adm.Post("/products/import-prices", productHandler.ImportPrices)
	adm.Post("/products", productHandler.Create)
	adm.Get("/products/:id", productHandler.AdminGetByID)
	adm.Put("/products/:id", productHandler.Update)
	adm.Delete("/products/:id", productHandler.Delete)

	adm.Post("/categories/reconcile", categoryHandler.Reconcile)
	adm.Get("/categories", categoryHandler.List)
	adm.Post("/categories", categoryHandler.Create)
	adm.Get("/categories/:id", categoryHandler.GetByID)
	adm.Put("/categories/:id", categoryHandler.Update)
	adm.Delete("/categories/:id", categoryHandler.Delete)

	// Images (admin)
	images := api.Group("/images", authn, admin)
	images.Get("/search", imageHandler.Search)
	images.Get("/curated", imageHandler.Curated)

	api.Get("/sitemap.xml", feedHandler.Sitemap)
}

// healthHandler responde ok; con ping configurado verifica la base de datos.
// @Summary      Health check
// @Tags         health
// @Produce      json
// @Success      200  {object}  dto.Response
// @Failure      503  {object}  dto.ErrorResponse
// @Router       /health [get]
func healthHandler(ping func(ctx context.Context) error) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if ping != nil {
			if err := ping(c.UserContext()); err != nil {
				return fail(c, fiber.StatusServiceUnavailable, "UNAVAILABLE", "base de datos no disponible")
			}
		}
		return c.JSON(dto.Response{Success: true, Data: fiber.Map{"status": "ok"}})
	}
}
