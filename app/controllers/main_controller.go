package controllers

import (
	"github.com/gofiber/fiber/v2"
	
	"github.com/WatchHubTV/WatchHub/internal/pkg/entitlements"
	"github.com/WatchHubTV/WatchHub/internal/pkg/flash"
	"github.com/WatchHubTV/WatchHub/internal/pkg/usercontext"
)

// HandleHome is the root endpoint. It reports login state and any pending
// flash message so the client can render it after a redirect flow.
func HandleHome(c *fiber.Ctx) error {
	ctx := usercontext.GetUserContext(c)

	return c.JSON(fiber.Map{
		"app":        "WatchHub",
		"logged_in":  ctx.IsLoggedIn,
		"username":   ctx.Username,
		"subscribed": ctx.Subscribed,
		"tier":       ctx.Tier,
		"flash":      flash.Get(c),
	})
}

// HandlePricing returns the plan catalog, cheapest first.
func HandlePricing(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"plans": entitlements.Plans,
	})
}

// HandleAbout returns basic instance information.
func HandleAbout(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"app":     "WatchHub",
		"tagline": "Stream movies and series on any device",
	})
}
