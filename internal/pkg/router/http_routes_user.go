package router

import (
	"strings"
	"time"

	"github.com/WatchHubTV/WatchHub/app/controllers"
	"github.com/WatchHubTV/WatchHub/internal/pkg/env"
	"github.com/WatchHubTV/WatchHub/internal/pkg/middleware"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/csrf"
)

func (h HttpRouter) registerUserRoutes(app *fiber.App) {
	csrfConf := csrf.Config{
		KeyLookup:      "form:_csrf",
		ContextKey:     "csrf",
		CookieName:     "csrf_",
		CookieSameSite: "Lax",
		Expiration:     1 * time.Hour,
		CookieSecure:   !env.IsDev(),
		Next: func(c *fiber.Ctx) bool {
			return strings.HasPrefix(c.Path(), "/api/")
		},
	}

	group := app.Group("", cors.New(), csrf.New(csrfConf))

	// Auth
	group.Post("/login", loggedInMiddleware, controllers.HandleAuthLogin)
	group.Post("/login/verify", loggedInMiddleware, controllers.HandleAuthVerifyTOTP)
	group.Post("/register", loggedInMiddleware, controllers.HandleAuthRegister)
	group.Post("/forgot-password", loggedInMiddleware, controllers.HandleAuthForgotPassword)
	group.Post("/reset-password", loggedInMiddleware, controllers.HandleAuthResetPassword)

	// Profile
	group.Get("/user/profile", middleware.RequireAuth, controllers.HandleProfileGet)
	group.Post("/user/profile", middleware.RequireAuth, controllers.HandleProfileUpdate)
	group.Get("/user/devices", middleware.RequireAuth, controllers.HandleDeviceInfo)

	// Viewing profiles
	group.Get("/user/profiles", middleware.RequireAuth, controllers.HandleViewingProfilesList)
	group.Post("/user/profiles", middleware.RequireAuth, controllers.HandleViewingProfileCreate)
	group.Post("/user/profiles/:id", middleware.RequireAuth, controllers.HandleViewingProfileUpdate)
	group.Post("/user/profiles/:id/delete", middleware.RequireAuth, controllers.HandleViewingProfileDelete)

	// Two-factor authentication
	group.Post("/user/2fa/enroll", middleware.RequireAuth, controllers.HandleTOTPEnroll)
	group.Post("/user/2fa/confirm", middleware.RequireAuth, controllers.HandleTOTPConfirm)
	group.Post("/user/2fa/disable", middleware.RequireAuth, controllers.HandleTOTPDisable)

	// Payment methods
	group.Get("/user/payment-methods", middleware.RequireAuth, controllers.HandlePaymentMethodsList)
	group.Post("/user/payment-methods", middleware.RequireAuth, controllers.HandlePaymentMethodAdd)
	group.Post("/user/payment-methods/:id/default", middleware.RequireAuth, controllers.HandlePaymentMethodSetDefault)
	group.Post("/user/payment-methods/:id/delete", middleware.RequireAuth, controllers.HandlePaymentMethodRemove)

	// Card-based subscriptions
	group.Get("/user/subscription", middleware.RequireAuth, controllers.HandleLocalSubscriptionGet)
	group.Post("/user/subscription", middleware.RequireAuth, controllers.HandleLocalSubscribe)
	group.Post("/user/subscription/change", middleware.RequireAuth, controllers.HandleLocalSubscriptionChange)
	group.Post("/user/subscription/cancel", middleware.RequireAuth, controllers.HandleLocalSubscriptionCancel)
	group.Get("/user/subscription/history", middleware.RequireAuth, controllers.HandleLocalSubscriptionHistory)

	// Provider billing
	group.Post("/billing/checkout", middleware.RequireAuth, controllers.HandleCreateCheckout)
	group.Get("/billing/subscription", middleware.RequireAuth, controllers.HandleSubscriptionStatus)
	group.Post("/billing/subscription/cancel", middleware.RequireAuth, controllers.HandleSubscriptionCancel)
	group.Get("/billing/entitlement", middleware.RequireAuth, controllers.HandleEntitlement)
	group.Post("/billing/legacy/checkout", middleware.RequireAuth, controllers.HandleLegacyCheckout)
	group.Get("/billing/legacy/portal", middleware.RequireAuth, controllers.HandleLegacyPortal)

	// Favorites
	group.Get("/user/favorites", middleware.RequireAuth, controllers.HandleFavoritesList)
	group.Post("/user/favorites/:id", middleware.RequireAuth, controllers.HandleFavoriteAdd)
	group.Post("/user/favorites/:id/delete", middleware.RequireAuth, controllers.HandleFavoriteRemove)

	// Playback
	group.Get("/watch/:id/sources", middleware.RequireAuth, controllers.HandlePlaybackSources)
	group.Post("/watch/sessions", middleware.RequireAuth, controllers.HandleSessionStart)
	group.Post("/watch/sessions/:id/end", middleware.RequireAuth, controllers.HandleSessionEnd)
	group.Get("/watch/:id/progress", middleware.RequireAuth, controllers.HandleProgressGet)
	group.Post("/watch/:id/progress", middleware.RequireAuth, controllers.HandleProgressSave)
	group.Post("/watch/:id/progress/delete", middleware.RequireAuth, controllers.HandleProgressClear)
	group.Get("/user/continue-watching", middleware.RequireAuth, controllers.HandleContinueWatching)
}
