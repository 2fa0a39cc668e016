package middleware

import (
	libflash "github.com/sujit-baniya/flash"

	"github.com/gofiber/fiber/v2"

	"github.com/WatchHubTV/WatchHub/app/controllers"
	"github.com/WatchHubTV/WatchHub/internal/pkg/flash"
	"github.com/WatchHubTV/WatchHub/internal/pkg/session"
	"github.com/WatchHubTV/WatchHub/internal/pkg/usercontext"
)

// UserContextMiddleware sets up the complete user context for every request
// This centralizes user session handling and eliminates code duplication
func UserContextMiddleware(c *fiber.Ctx) error {
	// Make a pending redirect flash available to handlers via Locals.
	if fm := libflash.Get(c); len(fm) > 0 {
		flash.Set(c, fm)
	}

	// Get session with error handling
	sess, err := session.GetSessionStore().Get(c)
	if err != nil {
		setAnonymous(c)
		return c.Next()
	}

	// Get user ID from session
	userID := sess.Get(controllers.USER_ID)
	if userID == nil {
		setAnonymous(c)
		return c.Next()
	}

	// User is logged in - get additional data
	username := session.GetSessionValue(c, controllers.USER_NAME)
	isAdmin := sess.Get(controllers.USER_IS_ADMIN)

	// Resolve the subscription tier with a session-first strategy: trust the
	// cached values, fall back to a full reconciliation once per session.
	tier := session.GetSessionValue(c, "user_tier")
	subscribed := session.GetSessionValue(c, "user_subscribed")
	if subscribed == "" {
		subscribed = "false"
		tier = ""
		if r := controllers.GetReconciler(); r != nil {
			ent := r.Reconcile(c.Context(), userID.(uint))
			if ent.Subscribed {
				subscribed = "true"
				tier = string(ent.Tier)
			}
		}
		// cache in session for subsequent requests
		_ = session.SetSessionValue(c, "user_tier", tier)
		_ = session.SetSessionValue(c, "user_subscribed", subscribed)
	}

	// Set complete user context
	userCtx := usercontext.UserContext{
		UserID:     userID.(uint),
		Username:   username,
		IsLoggedIn: true,
		IsAdmin:    isAdmin != nil && isAdmin.(bool),
		Subscribed: subscribed == "true",
		Tier:       tier,
	}
	c.Locals("USER_CONTEXT", userCtx)

	// Legacy compatibility - keep existing Locals for backward compatibility
	c.Locals(controllers.FROM_PROTECTED, true)
	c.Locals(controllers.USER_NAME, username)
	c.Locals(controllers.USER_ID, userID.(uint))
	c.Locals(controllers.USER_IS_ADMIN, userCtx.IsAdmin)

	return c.Next()
}

func setAnonymous(c *fiber.Ctx) {
	c.Locals("USER_CONTEXT", usercontext.UserContext{
		IsLoggedIn: false,
		IsAdmin:    false,
	})
	c.Locals(controllers.FROM_PROTECTED, false)
	c.Locals(controllers.USER_IS_ADMIN, false)
}
