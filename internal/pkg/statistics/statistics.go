package statistics

import (
	"fmt"
	"log"
	"strconv"
	"sync"
	"time"

	"github.com/WatchHubTV/WatchHub/app/models"
	"github.com/WatchHubTV/WatchHub/internal/pkg/cache"
	"github.com/WatchHubTV/WatchHub/internal/pkg/database"
	"github.com/WatchHubTV/WatchHub/internal/pkg/entitlements"
)

const (
	CacheKeyUsersTotal     = "statistics:users:total"
	CacheKeyUsersDaily     = "statistics:users:daily:%s" // Format with date YYYY-MM-DD
	CacheKeySubsActive     = "statistics:subscriptions:active"
	CacheKeyMonthlyRevenue = "statistics:revenue:monthly"
	CacheExpiration        = 30 * time.Minute
)

// MetricsData holds the aggregate numbers for the admin dashboard
type MetricsData struct {
	TotalUsers          int
	NewUsersToday       int
	ActiveSubscriptions int
	MonthlyRevenue      float64
}

var (
	lastCacheUpdate     time.Time
	cacheUpdateMutex    sync.Mutex
	cacheUpdateInterval = 5 * time.Minute
)

// ShouldUpdateCache reports whether the cached metrics are stale
func ShouldUpdateCache() bool {
	cacheUpdateMutex.Lock()
	defer cacheUpdateMutex.Unlock()

	return time.Since(lastCacheUpdate) > cacheUpdateInterval
}

// UpdateCacheIfNeeded refreshes the metrics cache when the interval elapsed
func UpdateCacheIfNeeded() {
	if ShouldUpdateCache() {
		cacheUpdateMutex.Lock()
		defer cacheUpdateMutex.Unlock()

		if err := UpdateMetricsCache(); err != nil {
			log.Printf("Error updating metrics cache: %v", err)
		} else {
			lastCacheUpdate = time.Now()
		}
	}
}

// ResetCacheUpdateTimer forces the next UpdateCacheIfNeeded to refresh
func ResetCacheUpdateTimer() {
	cacheUpdateMutex.Lock()
	defer cacheUpdateMutex.Unlock()

	lastCacheUpdate = time.Time{}
}

// UpdateMetricsCache recomputes all dashboard metrics and stores them in the cache
func UpdateMetricsCache() error {
	db := database.GetDB()

	var totalUsers int64
	if err := db.Model(&models.User{}).Count(&totalUsers).Error; err != nil {
		log.Printf("Error counting total users: %v", err)
		return err
	}

	var newToday int64
	today := time.Now().Format("2006-01-02")
	todayStart, _ := time.Parse("2006-01-02", today)
	todayEnd := todayStart.Add(24 * time.Hour)
	if err := db.Model(&models.User{}).Where("created_at BETWEEN ? AND ?", todayStart, todayEnd).Count(&newToday).Error; err != nil {
		log.Printf("Error counting today's signups: %v", err)
		return err
	}

	var activeSubs int64
	if err := db.Model(&models.Profile{}).
		Where("subscription_status = ?", models.ProfileSubscriptionActive).
		Count(&activeSubs).Error; err != nil {
		log.Printf("Error counting active subscriptions: %v", err)
		return err
	}

	revenue, err := computeMonthlyRevenue()
	if err != nil {
		log.Printf("Error computing monthly revenue: %v", err)
		return err
	}

	if err := cache.Set(CacheKeyUsersTotal, strconv.FormatInt(totalUsers, 10), CacheExpiration); err != nil {
		return err
	}

	dailyKey := fmt.Sprintf(CacheKeyUsersDaily, today)
	if err := cache.Set(dailyKey, strconv.FormatInt(newToday, 10), CacheExpiration); err != nil {
		return err
	}

	if err := cache.Set(CacheKeySubsActive, strconv.FormatInt(activeSubs, 10), CacheExpiration); err != nil {
		return err
	}

	if err := cache.Set(CacheKeyMonthlyRevenue, strconv.FormatFloat(revenue, 'f', 2, 64), CacheExpiration); err != nil {
		return err
	}

	log.Printf("Metrics updated in cache: Users: %d, New Today: %d, Active Subs: %d, MRR: %.2f",
		totalUsers, newToday, activeSubs, revenue)

	return nil
}

// GetTotalUsers returns the total user count from cache or database
func GetTotalUsers() int {
	return cachedCount(CacheKeyUsersTotal, func() (int64, error) {
		var count int64
		err := database.GetDB().Model(&models.User{}).Count(&count).Error
		return count, err
	})
}

// GetNewUsersToday returns the number of accounts created today
func GetNewUsersToday() int {
	today := time.Now().Format("2006-01-02")
	dailyKey := fmt.Sprintf(CacheKeyUsersDaily, today)

	return cachedCount(dailyKey, func() (int64, error) {
		todayStart, _ := time.Parse("2006-01-02", today)
		todayEnd := todayStart.Add(24 * time.Hour)
		var count int64
		err := database.GetDB().Model(&models.User{}).
			Where("created_at BETWEEN ? AND ?", todayStart, todayEnd).Count(&count).Error
		return count, err
	})
}

// GetActiveSubscriptions returns the number of profiles with an active subscription
func GetActiveSubscriptions() int {
	return cachedCount(CacheKeySubsActive, func() (int64, error) {
		var count int64
		err := database.GetDB().Model(&models.Profile{}).
			Where("subscription_status = ?", models.ProfileSubscriptionActive).Count(&count).Error
		return count, err
	})
}

// GetMonthlyRevenue returns the estimated monthly recurring revenue
func GetMonthlyRevenue() float64 {
	val, err := cache.Get(CacheKeyMonthlyRevenue)
	if err == nil {
		if v, perr := strconv.ParseFloat(val, 64); perr == nil {
			return v
		}
	}

	revenue, err := computeMonthlyRevenue()
	if err != nil {
		log.Printf("Error computing monthly revenue: %v", err)
		return 0
	}

	if err := cache.Set(CacheKeyMonthlyRevenue, strconv.FormatFloat(revenue, 'f', 2, 64), CacheExpiration); err != nil {
		log.Printf("Error caching monthly revenue: %v", err)
	}

	return revenue
}

func cachedCount(key string, query func() (int64, error)) int {
	val, err := cache.Get(key)
	if err != nil {
		count, qerr := query()
		if qerr != nil {
			log.Printf("Error querying metric %s: %v", key, qerr)
			return 0
		}

		if cerr := cache.Set(key, strconv.FormatInt(count, 10), CacheExpiration); cerr != nil {
			log.Printf("Error caching metric %s: %v", key, cerr)
		}

		return int(count)
	}

	count, err := strconv.ParseInt(val, 10, 64)
	if err != nil {
		return 0
	}

	return int(count)
}

func computeMonthlyRevenue() (float64, error) {
	db := database.GetDB()

	type tierCount struct {
		SubscriptionTier string
		Count            int64
	}
	var rows []tierCount
	err := db.Model(&models.Profile{}).
		Select("subscription_tier, COUNT(*) as count").
		Where("subscription_status = ?", models.ProfileSubscriptionActive).
		Group("subscription_tier").
		Scan(&rows).Error
	if err != nil {
		return 0, err
	}

	var revenue float64
	for _, row := range rows {
		if plan, ok := entitlements.PlanByTier(entitlements.Tier(row.SubscriptionTier)); ok {
			revenue += plan.Price * float64(row.Count)
		}
	}

	return revenue, nil
}

// GetMetricsData returns all dashboard metrics, refreshing the cache if stale
func GetMetricsData() MetricsData {
	UpdateCacheIfNeeded()

	return MetricsData{
		TotalUsers:          GetTotalUsers(),
		NewUsersToday:       GetNewUsersToday(),
		ActiveSubscriptions: GetActiveSubscriptions(),
		MonthlyRevenue:      GetMonthlyRevenue(),
	}
}
