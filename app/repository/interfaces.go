package repository

import (
	"time"

	"github.com/WatchHubTV/WatchHub/app/models"
)

// UserWithSubscription bundles a user with the joined subscription data the
// admin back office shows per row.
type UserWithSubscription struct {
	User             models.User
	Profile          *models.Profile
	SubscriptionTier string
	Provider         string
	TotalWatchTime   int64 // seconds
}

// UserRepository defines the interface for user-related database operations
type UserRepository interface {
	Create(user *models.User) error
	GetByID(id uint) (*models.User, error)
	GetByEmail(email string) (*models.User, error)
	GetByActivationToken(token string) (*models.User, error)
	GetByResetToken(token string) (*models.User, error)
	Update(user *models.User) error
	UpdateStatus(id uint, status string) error
	Delete(id uint) error
	List(offset, limit int) ([]models.User, error)
	Count() (int64, error)
	CountCreatedSince(since time.Time) (int64, error)
	Search(query string) ([]models.User, error)
	GetWithSubscriptions(offset, limit int) ([]UserWithSubscription, error)
	SearchWithSubscriptions(query string) ([]UserWithSubscription, error)
}

// ProfileRepository defines the interface for profile-related operations
type ProfileRepository interface {
	GetByUserID(userID uint) (*models.Profile, error)
	GetOrCreate(userID uint, displayName string) (*models.Profile, error)
	Update(profile *models.Profile) error
	CountWithActiveSubscription() (int64, error)
	CountByTier(tier string) (int64, error)
}

// SubscriptionRepository covers both subscription record stores: the PayPal
// rows written by the billing service and the legacy subscriber rows left
// behind by the first Stripe integration.
type SubscriptionRepository interface {
	ListByUserID(userID uint) ([]models.PayPalSubscription, error)
	ListAll(offset, limit int) ([]models.PayPalSubscription, error)
	Count() (int64, error)
	CountActive() (int64, error)
	ListLegacySubscribers(offset, limit int) ([]models.Subscriber, error)
	CountLegacySubscribed() (int64, error)
}

// FavoriteRepository defines the interface for "My List" operations
type FavoriteRepository interface {
	Add(fav *models.Favorite) error
	Remove(userID uint, imdbID string) error
	IsFavorite(userID uint, imdbID string) (bool, error)
	ListByUserID(userID uint) ([]models.Favorite, error)
	CountByUserID(userID uint) (int64, error)
}

// ViewingProfileRepository manages the per-account "who is watching"
// profiles.
type ViewingProfileRepository interface {
	Create(profile *models.ViewingProfile) error
	GetByID(userID, id uint) (*models.ViewingProfile, error)
	ListByUserID(userID uint) ([]models.ViewingProfile, error)
	CountByUserID(userID uint) (int64, error)
	Update(profile *models.ViewingProfile) error
	Delete(userID, id uint) error
}

// ViewingSessionRepository tracks playback sessions per device
type ViewingSessionRepository interface {
	Create(session *models.ViewingSession) error
	End(id uint, watched int64) error
	ListByUserID(userID uint, limit int) ([]models.ViewingSession, error)
	TotalWatchTime(userID uint) (int64, error)
}
