package constants

// Static route constants
const (
	HomeRoute    = "/"
	LoginRoute   = "/login"
	PricingRoute = "/pricing"
)
