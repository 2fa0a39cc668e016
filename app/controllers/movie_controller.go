package controllers

import (
	"errors"
	"log"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/WatchHubTV/WatchHub/app/models"
	"github.com/WatchHubTV/WatchHub/app/repository"
	"github.com/WatchHubTV/WatchHub/internal/pkg/metrics/counter"
	"github.com/WatchHubTV/WatchHub/internal/pkg/omdb"
)

// HandleMovieSearch proxies a catalog search to OMDb.
func HandleMovieSearch(c *fiber.Ctx) error {
	query := c.Query("q")
	if query == "" {
		return jsonError(c, fiber.StatusUnprocessableEntity, "query parameter q is required")
	}

	page, err := strconv.Atoi(c.Query("page", "1"))
	if err != nil || page < 1 {
		page = 1
	}

	result, err := getOMDBClient().Search(c.Context(), query, page)
	if err != nil {
		if errors.Is(err, omdb.ErrNotFound) {
			return c.JSON(fiber.Map{
				"results": []omdb.SearchResult{},
				"total":   "0",
				"page":    page,
			})
		}
		log.Printf("movie search %q failed: %v", query, err)
		return jsonError(c, fiber.StatusBadGateway, "catalog search failed")
	}

	return c.JSON(fiber.Map{
		"results": result.Results,
		"total":   result.TotalResults,
		"page":    page,
	})
}

// HandleMovieDetail returns the full OMDb record plus trailer URL and, for
// logged-in users, the favorite flag.
func HandleMovieDetail(c *fiber.Ctx) error {
	imdbID := c.Params("id")

	movie, err := getOMDBClient().MovieByID(c.Context(), imdbID)
	if err != nil {
		if errors.Is(err, omdb.ErrNotFound) {
			return jsonError(c, fiber.StatusNotFound, "movie not found")
		}
		log.Printf("movie lookup %s failed: %v", imdbID, err)
		return jsonError(c, fiber.StatusBadGateway, "catalog lookup failed")
	}

	favorite := false
	if userID := ExtractUserID(c); userID != 0 {
		favorite, _ = repository.GetGlobalFactory().GetFavoriteRepository().IsFavorite(userID, imdbID)
	}

	return c.JSON(fiber.Map{
		"movie":       movie,
		"trailer_url": getStreamingService().TrailerURL(imdbID),
		"favorite":    favorite,
	})
}

// HandleTrailerView counts a trailer play and returns the trailer URL.
func HandleTrailerView(c *fiber.Ctx) error {
	imdbID := c.Params("id")

	if err := counter.AddTrailerView(imdbID); err != nil {
		log.Printf("counting trailer view for %s failed: %v", imdbID, err)
	}

	return c.JSON(fiber.Map{
		"trailer_url": getStreamingService().TrailerURL(imdbID),
	})
}

// ---- favorites ----

// HandleFavoritesList returns the caller's watchlist.
func HandleFavoritesList(c *fiber.Ctx) error {
	userID := ExtractUserID(c)
	if userID == 0 {
		return jsonError(c, fiber.StatusUnauthorized, "login required")
	}

	favorites, err := repository.GetGlobalFactory().GetFavoriteRepository().ListByUserID(userID)
	if err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "could not load favorites")
	}

	return c.JSON(fiber.Map{
		"favorites": favorites,
	})
}

// HandleFavoriteAdd adds a movie to the watchlist. Adding twice is a no-op.
func HandleFavoriteAdd(c *fiber.Ctx) error {
	userID := ExtractUserID(c)
	if userID == 0 {
		return jsonError(c, fiber.StatusUnauthorized, "login required")
	}

	fav := &models.Favorite{
		UserID:    userID,
		IMDbID:    c.Params("id"),
		Title:     c.FormValue("title"),
		PosterURL: c.FormValue("poster"),
		Year:      c.FormValue("year"),
		Genre:     c.FormValue("genre"),
	}

	if fav.Title == "" {
		return jsonError(c, fiber.StatusUnprocessableEntity, "title is required")
	}

	if err := repository.GetGlobalFactory().GetFavoriteRepository().Add(fav); err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "could not save favorite")
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"favorite": true,
	})
}

// HandleFavoriteRemove removes a movie from the watchlist.
func HandleFavoriteRemove(c *fiber.Ctx) error {
	userID := ExtractUserID(c)
	if userID == 0 {
		return jsonError(c, fiber.StatusUnauthorized, "login required")
	}

	if err := repository.GetGlobalFactory().GetFavoriteRepository().Remove(userID, c.Params("id")); err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "could not remove favorite")
	}

	return c.JSON(fiber.Map{
		"favorite": false,
	})
}
