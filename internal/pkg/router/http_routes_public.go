package router

import (
	"github.com/WatchHubTV/WatchHub/app/controllers"
	"github.com/WatchHubTV/WatchHub/internal/pkg/middleware"
	"github.com/gofiber/fiber/v2"
)

func (h HttpRouter) registerPublicRoutes(app *fiber.App) {
	app.Get("/", loggedInMiddleware, controllers.HandleHome)
	app.Get("/about", loggedInMiddleware, controllers.HandleAbout)
	app.Get("/pricing", loggedInMiddleware, controllers.HandlePricing)

	// Activation link from the signup email
	app.Get("/activate", loggedInMiddleware, controllers.HandleAuthActivate)

	// Browser return URLs from the payment provider
	app.Get("/payment-success", middleware.RequireAuth, controllers.HandlePaymentSuccess)
	app.Get("/payment-canceled", loggedInMiddleware, controllers.HandlePaymentCanceled)

	// Public catalog browsing; favorites and playback stay behind auth
	app.Get("/movies/search", loggedInMiddleware, controllers.HandleMovieSearch)
	app.Get("/movies/:id", loggedInMiddleware, controllers.HandleMovieDetail)
	app.Post("/movies/:id/trailer", loggedInMiddleware, controllers.HandleTrailerView)

	// Auth
	app.Post("/logout", middleware.RequireAuth, controllers.HandleAuthLogout)
}
