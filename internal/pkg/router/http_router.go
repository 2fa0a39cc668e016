package router

import (
	"github.com/WatchHubTV/WatchHub/internal/pkg/middleware"
	"github.com/WatchHubTV/WatchHub/internal/pkg/session"

	"github.com/gofiber/fiber/v2"
)

type HttpRouter struct {
}

func (h HttpRouter) InstallRouter(app *fiber.App) {
	// init session
	session.NewSessionStore()

	// Apply UserContext middleware globally as first middleware
	app.Use(middleware.UserContextMiddleware)

	h.registerPublicRoutes(app)
	h.registerUserRoutes(app)
	h.registerAdminRoutes(app)
}

func NewHttpRouter() *HttpRouter {
	return &HttpRouter{}
}

func loggedInMiddleware(c *fiber.Ctx) error {
	// UserContextMiddleware already set all user context; nothing extra to do
	return c.Next()
}
