package main

import (
	"fmt"
	"log"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/basicauth"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/monitor"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/WatchHubTV/WatchHub/app/controllers"
	"github.com/WatchHubTV/WatchHub/app/repository"
	"github.com/WatchHubTV/WatchHub/internal/pkg/billing"
	"github.com/WatchHubTV/WatchHub/internal/pkg/cache"
	"github.com/WatchHubTV/WatchHub/internal/pkg/database"
	"github.com/WatchHubTV/WatchHub/internal/pkg/entitlements"
	"github.com/WatchHubTV/WatchHub/internal/pkg/env"
	"github.com/WatchHubTV/WatchHub/internal/pkg/router"
	"github.com/WatchHubTV/WatchHub/internal/pkg/worker"
)

func main() {
	app := NewApplication()

	worker.GetManager().Start()
	defer worker.GetManager().Stop()

	err := app.Listen(fmt.Sprintf("%s:%s", env.GetEnv("APP_HOST", "localhost"), env.GetEnv("APP_PORT", "4000")))
	log.Fatal(err)
}

func NewApplication() *fiber.App {
	env.SetupEnvFile()
	database.SetupDatabase()
	cache.SetupCache()

	// repositories
	repository.InitializeFactory(database.GetDB())

	// entitlement reconciliation: provider rows and profile fields both come
	// from the billing service, the legacy backend is optional
	billingSvc := billing.NewServiceFromDB(database.GetDB())
	reconciler := entitlements.NewReconciler(
		billingSvc,
		billingSvc,
		billing.NewLegacySourceFromEnv(),
		entitlements.NewStore(),
	)
	controllers.SetReconciler(reconciler)

	// init fiber app
	app := fiber.New(fiber.Config{
		AppName: "WatchHub",
	})

	// recovery and logging
	app.Use(recover.New(), logger.New())

	// fiber metrics
	app.Get("/metrics", basicauth.New(basicauth.Config{
		Users: map[string]string{
			"admin": env.GetEnv("METRICS_PASSWORD", "test"),
		},
	}), monitor.New())

	// ROUTER
	router.InstallRouter(app)

	return app
}
