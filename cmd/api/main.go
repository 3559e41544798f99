package main

import (
	"context"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	_ "github.com/jhoicas/suvenirs-api/docs"
	appanalytics "github.com/jhoicas/suvenirs-api/internal/application/analytics"
	"github.com/jhoicas/suvenirs-api/internal/application/auth"
	"github.com/jhoicas/suvenirs-api/internal/application/usecase"
	"github.com/jhoicas/suvenirs-api/internal/infrastructure/cache"
	"github.com/jhoicas/suvenirs-api/internal/infrastructure/email"
	"github.com/jhoicas/suvenirs-api/internal/infrastructure/feed"
	infrapdf "github.com/jhoicas/suvenirs-api/internal/infrastructure/pdf"
	"github.com/jhoicas/suvenirs-api/internal/infrastructure/pexels"
	"github.com/jhoicas/suvenirs-api/internal/infrastructure/postgres"
	httpRouter "github.com/jhoicas/suvenirs-api/internal/interfaces/http"
	"github.com/jhoicas/suvenirs-api/pkg/config"
	"github.com/jhoicas/suvenirs-api/pkg/logger"
)

// @title                       Suvenirs API
// @version                     1.0
// @description                 Catálogo, cotizaciones y blog de la tienda de regalos corporativos.
// @BasePath                    /
// @securityDefinitions.apikey  Bearer
// @in                          header
// @name                        Authorization
func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:     cfg.App.Env,
		Level:   cfg.App.LogLevel,
		Service: cfg.App.Name,
		Command: "api",
	})
	if err := cfg.Validate(); err != nil {
		log.Fatal().Err(err).Msg("configuración inválida")
	}
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Msg("iniciando aplicación")

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	if err := postgres.Migrate(ctx, pool); err != nil {
		log.Fatal().Err(err).Msg("migración del esquema")
	}

	userRepo := postgres.NewUserRepository(pool)
	categoryRepo := postgres.NewCategoryRepository(pool)
	productRepo := postgres.NewProductRepository(pool)
	quoteRepo := postgres.NewQuoteRepository(pool)
	blogRepo := postgres.NewBlogRepository(pool)
	txRunner := postgres.NewTxRunner(pool)

	// Aviso por email de nuevas cotizaciones: solo con API key y destinatario.
	var notifier usecase.QuoteNotifier
	if cfg.Notify.ResendAPIKey != "" && cfg.Notify.QuoteTo != "" {
		notifier = email.NewResendNotifier(cfg.Notify.ResendAPIKey, cfg.Notify.From, cfg.Notify.QuoteTo, cfg.Site.BaseURL)
	} else {
		log.Warn().Msg("RESEND_API_KEY o QUOTE_NOTIFY_EMAIL vacíos: sin aviso de cotizaciones")
	}

	// Banco de imágenes (Pexels) con caché Redis opcional.
	var searcher usecase.ImageSearcher
	if cfg.Images.PexelsAPIKey != "" {
		searcher = pexels.NewClient(cfg.Images.PexelsAPIKey, pexels.DefaultBaseURL)
	} else {
		log.Warn().Msg("PEXELS_API_KEY vacío: /api/images responderá 503")
	}
	var imageCache usecase.Cache
	if cfg.Redis.URL != "" {
		rdb, err := cache.Connect(ctx, cfg.Redis.URL)
		if err != nil {
			log.Error().Err(err).Msg("Redis no disponible, se continúa sin caché")
		} else {
			defer rdb.Close()
			imageCache = cache.NewRedisCache(rdb, "suvenirs:")
		}
	}

	hasher := auth.NewBcryptHasher(cfg.Auth.BcryptCost)
	authUC := auth.NewAuthUseCase(userRepo, hasher, auth.JWTConfig{
		Secret:     cfg.JWT.Secret,
		ExpMinutes: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	})

	// PDF de cotizaciones
	pdfGenerator := infrapdf.NewMarotoPDFGenerator(cfg.Site.Title)

	deps := httpRouter.RouterDeps{
		ProductUC:   usecase.NewProductUseCase(productRepo, categoryRepo),
		ImportUC:    usecase.NewProductImportUseCase(productRepo, categoryRepo),
		CategoryUC:  usecase.NewCategoryUseCase(categoryRepo, productRepo, txRunner),
		QuoteUC:     usecase.NewQuoteUseCase(quoteRepo, txRunner, notifier, pdfGenerator),
		BlogUC:      usecase.NewBlogUseCase(blogRepo),
		UserUC:      usecase.NewUserAdminUseCase(userRepo, hasher),
		ImageUC:     usecase.NewImageUseCase(searcher, imageCache, cfg.Images.CacheTTL),
		FeedUC:      usecase.NewFeedUseCase(productRepo, categoryRepo, blogRepo, feed.NewEtreeRenderer(), usecase.SiteInfo{BaseURL: cfg.Site.BaseURL, Title: cfg.Site.Title}),
		DashboardUC: appanalytics.NewDashboardUseCase(productRepo, userRepo, quoteRepo),
		AuthUC:      authUC,
		JWTSecret:   cfg.JWT.Secret,
		Ping:        pool.Ping,
	}

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		BodyLimit:    cfg.HTTP.BodyLimit,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 30,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())
	app.Use(requestid.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: strings.Join(cfg.HTTP.CORSOrigins, ","),
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
		AllowMethods: "GET,POST,PUT,PATCH,DELETE,OPTIONS",
	}))
	app.Use(httpRouter.RequestLogger())

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	metrics := httpRouter.NewMetrics(reg, "suvenirs")
	app.Use(metrics.Middleware())
	app.Get("/metrics", metrics.Handler())

	// Swagger UI en local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "Suvenirs API",
	}))

	httpRouter.Router(app, deps)

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}
