package apiv1

import (
	"github.com/gofiber/fiber/v2"

	// Delegate to existing controllers to keep behavior consistent
	"github.com/WatchHubTV/WatchHub/app/controllers"
	"github.com/WatchHubTV/WatchHub/internal/pkg/middleware"
)

// Pong is the ping response payload
type Pong struct {
	Ping string `json:"ping"`
}

// APIServer implements the v1 endpoints
type APIServer struct{}

// NewAPIServer creates a new API server instance
func NewAPIServer() *APIServer {
	return &APIServer{}
}

// GetPing handles the ping endpoint
func (s *APIServer) GetPing(c *fiber.Ctx) error {
	response := Pong{
		Ping: "pong",
	}

	return c.Status(fiber.StatusOK).JSON(response)
}

// GetEntitlement returns the reconciled entitlement for the session user.
func (s *APIServer) GetEntitlement(c *fiber.Ctx) error {
	return controllers.HandleEntitlement(c)
}

// GetUserProfile returns the profile of the session user.
func (s *APIServer) GetUserProfile(c *fiber.Ctx) error {
	return controllers.HandleProfileGet(c)
}

// GetMovieSearch proxies a catalog search.
func (s *APIServer) GetMovieSearch(c *fiber.Ctx) error {
	return controllers.HandleMovieSearch(c)
}

// GetMovie returns one catalog entry.
func (s *APIServer) GetMovie(c *fiber.Ctx) error {
	return controllers.HandleMovieDetail(c)
}

// GetContinueWatching returns the unfinished titles for the session user.
func (s *APIServer) GetContinueWatching(c *fiber.Ctx) error {
	return controllers.HandleContinueWatching(c)
}

// RegisterHandlers attaches all v1 routes to the given router group.
func RegisterHandlers(r fiber.Router, si *APIServer) {
	r.Get("/ping", si.GetPing)
	r.Get("/movies/search", si.GetMovieSearch)
	r.Get("/movies/:id", si.GetMovie)

	r.Get("/entitlement", middleware.RequireAPISessionAuth, si.GetEntitlement)
	r.Get("/profile", middleware.RequireAPISessionAuth, si.GetUserProfile)
	r.Get("/continue-watching", middleware.RequireAPISessionAuth, si.GetContinueWatching)
}
