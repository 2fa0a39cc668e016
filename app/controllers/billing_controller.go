package controllers

import (
	"fmt"
	"log"

	"github.com/gofiber/fiber/v2"
	"github.com/sujit-baniya/flash"

	"github.com/WatchHubTV/WatchHub/internal/pkg/billing"
	"github.com/WatchHubTV/WatchHub/internal/pkg/constants"
	"github.com/WatchHubTV/WatchHub/internal/pkg/database"
	"github.com/WatchHubTV/WatchHub/internal/pkg/entitlements"
	"github.com/WatchHubTV/WatchHub/internal/pkg/env"
)

func billingService() *billing.Service {
	return billing.NewServiceFromDB(database.GetDB())
}

// legacyAuthToken builds the token the legacy backend expects: the
// deployment-wide service key plus the user it acts for.
func legacyAuthToken(userID uint) string {
	return fmt.Sprintf("%s:%d", env.GetEnv("LEGACY_BILLING_SERVICE_KEY", ""), userID)
}

// HandleCreateCheckout creates a PayPal order for the requested plan and
// returns the approval URL the client redirects to.
func HandleCreateCheckout(c *fiber.Ctx) error {
	userID := ExtractUserID(c)
	if userID == 0 {
		return jsonError(c, fiber.StatusUnauthorized, "login required")
	}

	tier, ok := entitlements.TierFromPlanName(c.FormValue("plan"))
	if !ok {
		return jsonError(c, fiber.StatusUnprocessableEntity, "unknown plan")
	}
	plan, _ := entitlements.PlanByTier(tier)

	order, err := getPayPalClient().CreateCheckoutOrder(c.Context(), plan, c.BaseURL())
	if err != nil {
		log.Printf("paypal checkout for user %d failed: %v", userID, err)
		return jsonError(c, fiber.StatusBadGateway, "checkout could not be started")
	}

	return c.JSON(fiber.Map{
		"order_id":    order.OrderID,
		"approve_url": order.ApprovalURL,
		"plan":        string(tier),
	})
}

// HandlePaymentSuccess is the browser return URL after an approved PayPal
// checkout. It records the subscription and mirrors it into the profile.
func HandlePaymentSuccess(c *fiber.Ctx) error {
	userID := ExtractUserID(c)
	fm := fiber.Map{"type": "error"}

	if userID == 0 {
		fm["message"] = "please log in to finish your subscription"
		return flash.WithError(c, fm).Redirect(constants.LoginRoute)
	}

	provider := c.Query("provider", "paypal")
	paymentType := c.Query("type", "subscription")
	planName := c.Query("plan")
	orderID := c.Query("token")

	subscriptionID := c.Query("subscription_id")
	if subscriptionID == "" {
		subscriptionID = orderID
	}

	if provider != "paypal" || paymentType != "subscription" || subscriptionID == "" {
		fm["message"] = "payment could not be verified"
		return flash.WithError(c, fm).Redirect(constants.PricingRoute)
	}

	if orderID != "" {
		status, err := getPayPalClient().GetOrderStatus(c.Context(), orderID)
		if err != nil {
			log.Printf("paypal order lookup for user %d failed: %v", userID, err)
		} else if status != "COMPLETED" && status != "APPROVED" {
			fm["message"] = "payment was not completed"
			return flash.WithError(c, fm).Redirect(constants.PricingRoute)
		}
	}

	if err := billingService().CreateSubscriptionRecord(c.Context(), userID, subscriptionID, planName); err != nil {
		log.Printf("recording subscription for user %d failed: %v", userID, err)
		fm["message"] = "your payment went through but we could not record the subscription, please contact support"
		return flash.WithError(c, fm).Redirect(constants.HomeRoute)
	}

	// Subscription state changed, recompute on next request.
	if reconciler != nil {
		reconciler.Store().Clear(userID)
	}

	fm = fiber.Map{
		"type":    "success",
		"message": "Subscription active. Enjoy WatchHub!",
	}

	return flash.WithSuccess(c, fm).Redirect(constants.HomeRoute)
}

// HandlePaymentCanceled is the browser return URL after an aborted checkout.
func HandlePaymentCanceled(c *fiber.Ctx) error {
	fm := fiber.Map{
		"type":    "info",
		"message": "Payment canceled. No charges were made.",
	}

	return flash.WithInfo(c, fm).Redirect(constants.PricingRoute)
}

// HandleSubscriptionStatus returns the caller's newest active subscription,
// or null when there is none.
func HandleSubscriptionStatus(c *fiber.Ctx) error {
	userID := ExtractUserID(c)
	if userID == 0 {
		return jsonError(c, fiber.StatusUnauthorized, "login required")
	}

	data, err := billingService().GetActiveSubscriptionStatus(c.Context(), userID)
	if err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "could not load subscription")
	}

	return c.JSON(fiber.Map{
		"subscription": data,
	})
}

// HandleSubscriptionCancel flips the local record to cancelled. The provider
// side is intentionally left untouched.
func HandleSubscriptionCancel(c *fiber.Ctx) error {
	userID := ExtractUserID(c)
	if userID == 0 {
		return jsonError(c, fiber.StatusUnauthorized, "login required")
	}

	subscriptionID := c.FormValue("subscription_id")
	if subscriptionID == "" {
		return jsonError(c, fiber.StatusUnprocessableEntity, "subscription_id is required")
	}

	if err := billingService().CancelSubscriptionRecord(c.Context(), userID, subscriptionID); err != nil {
		log.Printf("cancelling subscription for user %d failed: %v", userID, err)
		return jsonError(c, fiber.StatusInternalServerError, "could not cancel subscription")
	}

	if reconciler != nil {
		reconciler.Store().Clear(userID)
	}

	return c.JSON(fiber.Map{
		"message": "subscription cancelled, access continues until the period end",
	})
}

// HandleEntitlement returns the reconciled entitlement for the caller.
func HandleEntitlement(c *fiber.Ctx) error {
	userID := ExtractUserID(c)
	if userID == 0 {
		return jsonError(c, fiber.StatusUnauthorized, "login required")
	}

	if reconciler == nil {
		return jsonError(c, fiber.StatusServiceUnavailable, "entitlements unavailable")
	}

	ent := reconciler.Reconcile(c.Context(), userID)

	return c.JSON(ent)
}

// HandleLegacyCheckout starts a checkout on the legacy Stripe backend. When
// the backend is not configured the client is told to fall back to PayPal.
func HandleLegacyCheckout(c *fiber.Ctx) error {
	userID := ExtractUserID(c)
	if userID == 0 {
		return jsonError(c, fiber.StatusUnauthorized, "login required")
	}

	client := getStripeClient()
	if !client.Configured() {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"error":    true,
			"message":  "legacy billing is not available",
			"fallback": "paypal",
		})
	}

	url, err := client.CreateCheckout(c.Context(), legacyAuthToken(userID), c.FormValue("plan"))
	if err != nil {
		log.Printf("legacy checkout for user %d failed: %v", userID, err)
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{
			"error":    true,
			"message":  "legacy billing is not reachable",
			"fallback": "paypal",
		})
	}

	return c.JSON(fiber.Map{
		"checkout_url": url,
	})
}

// HandleLegacyPortal returns the legacy customer portal URL.
func HandleLegacyPortal(c *fiber.Ctx) error {
	userID := ExtractUserID(c)
	if userID == 0 {
		return jsonError(c, fiber.StatusUnauthorized, "login required")
	}

	client := getStripeClient()
	if !client.Configured() {
		return jsonError(c, fiber.StatusConflict, "legacy billing is not available")
	}

	url, err := client.CustomerPortalURL(c.Context(), legacyAuthToken(userID))
	if err != nil {
		log.Printf("legacy portal for user %d failed: %v", userID, err)
		return jsonError(c, fiber.StatusBadGateway, "legacy billing is not reachable")
	}

	return c.JSON(fiber.Map{
		"portal_url": url,
	})
}
