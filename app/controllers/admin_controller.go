package controllers

import (
	"log"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/WatchHubTV/WatchHub/app/models"
	"github.com/WatchHubTV/WatchHub/app/repository"
	"github.com/WatchHubTV/WatchHub/internal/pkg/metrics/counter"
	"github.com/WatchHubTV/WatchHub/internal/pkg/statistics"
)

const adminPageSize = 25

func pageOffset(c *fiber.Ctx) (int, int) {
	page, err := strconv.Atoi(c.Query("page", "1"))
	if err != nil || page < 1 {
		page = 1
	}
	return (page - 1) * adminPageSize, adminPageSize
}

// HandleAdminDashboard returns the cached dashboard metrics.
func HandleAdminDashboard(c *fiber.Ctx) error {
	metrics := statistics.GetMetricsData()

	return c.JSON(fiber.Map{
		"total_users":          metrics.TotalUsers,
		"new_users_today":      metrics.NewUsersToday,
		"active_subscriptions": metrics.ActiveSubscriptions,
		"monthly_revenue":      metrics.MonthlyRevenue,
	})
}

// HandleAdminUsers lists users with their joined subscription data.
// With ?q= it searches by name or email instead.
func HandleAdminUsers(c *fiber.Ctx) error {
	userRepo := repository.GetGlobalFactory().GetUserRepository()

	if query := c.Query("q"); query != "" {
		rows, err := userRepo.SearchWithSubscriptions(query)
		if err != nil {
			return jsonError(c, fiber.StatusInternalServerError, "could not search users")
		}
		return c.JSON(fiber.Map{
			"users": rows,
			"total": len(rows),
		})
	}

	offset, limit := pageOffset(c)
	rows, err := userRepo.GetWithSubscriptions(offset, limit)
	if err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "could not load users")
	}

	total, err := userRepo.Count()
	if err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "could not count users")
	}

	return c.JSON(fiber.Map{
		"users": rows,
		"total": total,
	})
}

// HandleAdminUserStatus enables or disables an account.
func HandleAdminUserStatus(c *fiber.Ctx) error {
	userID, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return jsonError(c, fiber.StatusUnprocessableEntity, "invalid user id")
	}

	status := c.FormValue("status")
	switch status {
	case models.STATUS_ACTIVE, models.STATUS_DISABLED:
	default:
		return jsonError(c, fiber.StatusUnprocessableEntity, "status must be active or disabled")
	}

	if uint(userID) == ExtractUserID(c) {
		return jsonError(c, fiber.StatusConflict, "you cannot change your own status")
	}

	if err := repository.GetGlobalFactory().GetUserRepository().UpdateStatus(uint(userID), status); err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "could not update user")
	}

	// A disabled user must not keep a cached entitlement.
	if reconciler != nil {
		reconciler.Store().Clear(uint(userID))
	}

	return c.JSON(fiber.Map{
		"id":     userID,
		"status": status,
	})
}

// HandleAdminUserDelete soft-deletes an account.
func HandleAdminUserDelete(c *fiber.Ctx) error {
	userID, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return jsonError(c, fiber.StatusUnprocessableEntity, "invalid user id")
	}

	if uint(userID) == ExtractUserID(c) {
		return jsonError(c, fiber.StatusConflict, "you cannot delete your own account")
	}

	if err := repository.GetGlobalFactory().GetUserRepository().Delete(uint(userID)); err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "could not delete user")
	}

	if reconciler != nil {
		reconciler.Store().Clear(uint(userID))
	}

	return c.JSON(fiber.Map{
		"deleted": true,
	})
}

// HandleAdminSubscriptions lists PayPal subscription records.
func HandleAdminSubscriptions(c *fiber.Ctx) error {
	repo := repository.GetGlobalFactory().GetSubscriptionRepository()

	offset, limit := pageOffset(c)
	subs, err := repo.ListAll(offset, limit)
	if err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "could not load subscriptions")
	}

	total, err := repo.Count()
	if err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "could not count subscriptions")
	}

	active, err := repo.CountActive()
	if err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "could not count subscriptions")
	}

	return c.JSON(fiber.Map{
		"subscriptions": subs,
		"total":         total,
		"active":        active,
	})
}

// HandleAdminLegacySubscribers lists subscriber rows left behind by the old
// billing integration.
func HandleAdminLegacySubscribers(c *fiber.Ctx) error {
	repo := repository.GetGlobalFactory().GetSubscriptionRepository()

	offset, limit := pageOffset(c)
	subs, err := repo.ListLegacySubscribers(offset, limit)
	if err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "could not load legacy subscribers")
	}

	total, err := repo.CountLegacySubscribed()
	if err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "could not count legacy subscribers")
	}

	return c.JSON(fiber.Map{
		"subscribers": subs,
		"subscribed":  total,
	})
}

// HandleAdminFlushCounters drains the pending play counters into the
// database on demand.
func HandleAdminFlushCounters(c *fiber.Ctx) error {
	if err := counter.FlushAll(); err != nil {
		log.Printf("flushing counters failed: %v", err)
		return jsonError(c, fiber.StatusInternalServerError, "could not flush counters")
	}

	return c.JSON(fiber.Map{
		"flushed": true,
	})
}

// HandleAdminRefreshMetrics forces a metrics cache refresh.
func HandleAdminRefreshMetrics(c *fiber.Ctx) error {
	statistics.ResetCacheUpdateTimer()
	statistics.UpdateCacheIfNeeded()

	return HandleAdminDashboard(c)
}
