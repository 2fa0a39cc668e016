package controllers

import (
	"log"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/WatchHubTV/WatchHub/app/models"
	"github.com/WatchHubTV/WatchHub/app/repository"
	"github.com/WatchHubTV/WatchHub/internal/pkg/device"
	"github.com/WatchHubTV/WatchHub/internal/pkg/metrics/counter"
	"github.com/WatchHubTV/WatchHub/internal/pkg/streaming"
	"github.com/WatchHubTV/WatchHub/internal/pkg/usercontext"
)

func progressTracker() *streaming.ProgressTracker {
	return streaming.NewProgressTracker(getClientStore())
}

// requireSubscription resolves the caller's entitlement from the request
// context. Playback endpoints are open to any active tier.
func requireSubscription(c *fiber.Ctx) (uint, bool) {
	userID := ExtractUserID(c)
	if userID == 0 {
		return 0, false
	}

	return userID, usercontext.GetUserContext(c).Subscribed
}

// HandlePlaybackSources returns all playback sources for a title and counts
// the play.
func HandlePlaybackSources(c *fiber.Ctx) error {
	userID, subscribed := requireSubscription(c)
	if userID == 0 {
		return jsonError(c, fiber.StatusUnauthorized, "login required")
	}
	if !subscribed {
		return jsonError(c, fiber.StatusPaymentRequired, "an active subscription is required to stream")
	}

	imdbID := c.Params("id")
	sources := getStreamingService().Sources(c.Context(), imdbID)

	if err := counter.AddMoviePlay(imdbID); err != nil {
		log.Printf("counting play for %s failed: %v", imdbID, err)
	}

	return c.JSON(fiber.Map{
		"sources": sources,
		"best":    getStreamingService().BestSource(c.Context(), imdbID),
	})
}

// ---- viewing sessions ----

// HandleSessionStart opens a viewing session for watch-time accounting.
func HandleSessionStart(c *fiber.Ctx) error {
	userID, subscribed := requireSubscription(c)
	if userID == 0 {
		return jsonError(c, fiber.StatusUnauthorized, "login required")
	}
	if !subscribed {
		return jsonError(c, fiber.StatusPaymentRequired, "an active subscription is required to stream")
	}

	imdbID := c.FormValue("imdb_id")
	if imdbID == "" {
		return jsonError(c, fiber.StatusUnprocessableEntity, "imdb_id is required")
	}

	session := &models.ViewingSession{
		UserID:       userID,
		IMDbID:       imdbID,
		Device:       device.Detect(c.Get("User-Agent")).Type,
		SessionStart: time.Now(),
	}

	if err := repository.GetGlobalFactory().GetViewingSessionRepository().Create(session); err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "could not start session")
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"session_id": session.ID,
	})
}

// HandleSessionEnd closes a viewing session and records the watched seconds.
func HandleSessionEnd(c *fiber.Ctx) error {
	userID := ExtractUserID(c)
	if userID == 0 {
		return jsonError(c, fiber.StatusUnauthorized, "login required")
	}

	sessionID, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return jsonError(c, fiber.StatusUnprocessableEntity, "invalid session id")
	}

	watched, err := strconv.ParseInt(c.FormValue("watched_seconds", "0"), 10, 64)
	if err != nil || watched < 0 {
		watched = 0
	}

	if err := repository.GetGlobalFactory().GetViewingSessionRepository().End(uint(sessionID), watched); err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "could not end session")
	}

	return c.JSON(fiber.Map{
		"ended": true,
	})
}

// ---- playback progress ----

// HandleProgressSave stores the playback position for a title.
func HandleProgressSave(c *fiber.Ctx) error {
	userID := ExtractUserID(c)
	if userID == 0 {
		return jsonError(c, fiber.StatusUnauthorized, "login required")
	}

	currentTime, err1 := strconv.ParseFloat(c.FormValue("current_time", "0"), 64)
	duration, err2 := strconv.ParseFloat(c.FormValue("duration", "0"), 64)
	if err1 != nil || err2 != nil {
		return jsonError(c, fiber.StatusUnprocessableEntity, "invalid progress values")
	}

	if err := progressTracker().Save(c.Context(), userID, c.Params("id"), currentTime, duration); err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "could not save progress")
	}

	return c.JSON(fiber.Map{
		"saved": true,
	})
}

// HandleProgressGet returns the stored position for a title, or null.
func HandleProgressGet(c *fiber.Ctx) error {
	userID := ExtractUserID(c)
	if userID == 0 {
		return jsonError(c, fiber.StatusUnauthorized, "login required")
	}

	progress, err := progressTracker().Load(c.Context(), userID, c.Params("id"))
	if err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "could not load progress")
	}

	if progress == nil {
		return c.JSON(fiber.Map{
			"progress": nil,
		})
	}

	return c.JSON(fiber.Map{
		"progress":      progress,
		"percentage":    progress.Percentage(),
		"should_resume": progress.ShouldResume(),
	})
}

// HandleProgressClear drops the stored position for a title.
func HandleProgressClear(c *fiber.Ctx) error {
	userID := ExtractUserID(c)
	if userID == 0 {
		return jsonError(c, fiber.StatusUnauthorized, "login required")
	}

	if err := progressTracker().Clear(c.Context(), userID, c.Params("id")); err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "could not clear progress")
	}

	return c.JSON(fiber.Map{
		"cleared": true,
	})
}

// HandleContinueWatching lists unfinished titles, most recent first.
func HandleContinueWatching(c *fiber.Ctx) error {
	userID := ExtractUserID(c)
	if userID == 0 {
		return jsonError(c, fiber.StatusUnauthorized, "login required")
	}

	entries, err := progressTracker().ContinueWatching(c.Context(), userID)
	if err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "could not load continue watching")
	}

	return c.JSON(fiber.Map{
		"entries": entries,
	})
}
