// reconcile recalcula product_count de todas las categorías.
// Con -assign-random reparte los productos sin categoría entre las categorías raíz.
//
// Uso: go run ./cmd/reconcile [-assign-random]
package main

import (
	"context"
	"flag"
	"time"

	"github.com/jhoicas/suvenirs-api/internal/application/usecase"
	"github.com/jhoicas/suvenirs-api/internal/infrastructure/postgres"
	"github.com/jhoicas/suvenirs-api/pkg/config"
	"github.com/jhoicas/suvenirs-api/pkg/logger"
)

func main() {
	assignRandom := flag.Bool("assign-random", false, "asignar categoría raíz aleatoria a productos sin categoría")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}
	log := logger.New(logger.Config{Env: cfg.App.Env, Level: cfg.App.LogLevel, Service: cfg.App.Name, Command: "reconcile"})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	uc := usecase.NewCategoryUseCase(postgres.NewCategoryRepository(pool), postgres.NewProductRepository(pool), postgres.NewTxRunner(pool))
	res, err := uc.Reconcile(ctx, *assignRandom)
	if err != nil {
		log.Fatal().Err(err).Msg("reconciliar categorías")
	}
	log.Info().
		Int("categories", res.Categories).
		Int("assigned", res.Assigned).
		Msg("categorías reconciliadas")
}
