package router

import (
	"github.com/WatchHubTV/WatchHub/app/controllers"
	"github.com/WatchHubTV/WatchHub/internal/pkg/middleware"
	"github.com/gofiber/fiber/v2"
)

func (h HttpRouter) registerAdminRoutes(app *fiber.App) {
	adminGroup := app.Group("/admin", middleware.RequireAdmin)
	adminGroup.Get("/", controllers.HandleAdminDashboard)
	adminGroup.Post("/metrics/refresh", controllers.HandleAdminRefreshMetrics)

	// User management
	adminGroup.Get("/users", controllers.HandleAdminUsers)
	adminGroup.Post("/users/status/:id", controllers.HandleAdminUserStatus)
	adminGroup.Post("/users/delete/:id", controllers.HandleAdminUserDelete)

	// Subscription management
	adminGroup.Get("/subscriptions", controllers.HandleAdminSubscriptions)
	adminGroup.Get("/subscriptions/legacy", controllers.HandleAdminLegacySubscribers)

	// Counter maintenance
	adminGroup.Post("/counters/flush", controllers.HandleAdminFlushCounters)
}
