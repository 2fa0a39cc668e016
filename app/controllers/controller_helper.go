package controllers

import (
	"strings"
	"sync"

	"github.com/gofiber/fiber/v2"

	"github.com/WatchHubTV/WatchHub/internal/pkg/billing"
	"github.com/WatchHubTV/WatchHub/internal/pkg/clientstore"
	"github.com/WatchHubTV/WatchHub/internal/pkg/entitlements"
	"github.com/WatchHubTV/WatchHub/internal/pkg/omdb"
	"github.com/WatchHubTV/WatchHub/internal/pkg/streaming"
)

const (
	AUTH_KEY       string = "authenticated"
	USER_ID        string = "user_id"
	USER_NAME      string = "username"
	USER_IS_ADMIN  string = "isAdmin"
	FROM_PROTECTED string = "from_protected"
)

// Shared service singletons, wired once at startup.
var (
	reconciler *entitlements.Reconciler

	streamingOnce sync.Once
	streamingSvc  *streaming.Service

	omdbOnce   sync.Once
	omdbClient *omdb.Client

	paypalOnce   sync.Once
	paypalClient *billing.PayPalClient

	stripeOnce   sync.Once
	stripeClient *billing.StripeClient

	storeOnce   sync.Once
	clientStore *clientstore.Store
)

// SetReconciler installs the entitlement reconciler used by controllers and
// the user context middleware. Called once from main.
func SetReconciler(r *entitlements.Reconciler) {
	reconciler = r
}

// GetReconciler returns the installed entitlement reconciler.
func GetReconciler() *entitlements.Reconciler {
	return reconciler
}

func getStreamingService() *streaming.Service {
	streamingOnce.Do(func() {
		streamingSvc = streaming.NewServiceFromEnv()
	})
	return streamingSvc
}

func getOMDBClient() *omdb.Client {
	omdbOnce.Do(func() {
		omdbClient = omdb.NewClientFromEnv()
	})
	return omdbClient
}

func getPayPalClient() *billing.PayPalClient {
	paypalOnce.Do(func() {
		paypalClient = billing.NewPayPalClientFromEnv()
	})
	return paypalClient
}

func getStripeClient() *billing.StripeClient {
	stripeOnce.Do(func() {
		stripeClient = billing.NewStripeClientFromEnv()
	})
	return stripeClient
}

func getClientStore() *clientstore.Store {
	storeOnce.Do(func() {
		clientStore = clientstore.NewFromCache()
	})
	return clientStore
}

func isLoggedIn(c *fiber.Ctx) bool {
	var fromProtected bool
	if protectedValue := c.Locals(FROM_PROTECTED); protectedValue != nil {
		fromProtected = protectedValue.(bool)
	}

	return fromProtected
}

// ExtractUsername gets the username from Locals (set by middleware)
func ExtractUsername(c *fiber.Ctx) string {
	if userNameValue := c.Locals(USER_NAME); userNameValue != nil {
		if userName, ok := userNameValue.(string); ok {
			return userName
		}
	}

	return ""
}

// ExtractUserID gets the user ID from Locals, or 0 for anonymous requests
func ExtractUserID(c *fiber.Ctx) uint {
	if v := c.Locals(USER_ID); v != nil {
		if id, ok := v.(uint); ok {
			return id
		}
	}

	return 0
}

// GetClientIP determines the actual client IP address considering proxies
func GetClientIP(c *fiber.Ctx) string {
	if cfIP := c.Get("CF-Connecting-IP"); cfIP != "" {
		return cfIP
	}

	if xff := c.Get("X-Forwarded-For"); xff != "" {
		parts := strings.Split(xff, ",")
		if len(parts) > 0 {
			return strings.TrimSpace(parts[0])
		}
	}

	return c.IP()
}

func jsonError(c *fiber.Ctx, status int, message string) error {
	return c.Status(status).JSON(fiber.Map{
		"error":   true,
		"message": message,
	})
}
