package repository

import (
	"sync"

	"gorm.io/gorm"
)

// Repositories bundles all repository instances
type Repositories struct {
	User           UserRepository
	Profile        ProfileRepository
	Subscription   SubscriptionRepository
	Favorite       FavoriteRepository
	ViewingProfile ViewingProfileRepository
	ViewingSession ViewingSessionRepository
}

// NewRepositories creates all repositories on one DB handle
func NewRepositories(db *gorm.DB) *Repositories {
	return &Repositories{
		User:           NewUserRepository(db),
		Profile:        NewProfileRepository(db),
		Subscription:   NewSubscriptionRepository(db),
		Favorite:       NewFavoriteRepository(db),
		ViewingProfile: NewViewingProfileRepository(db),
		ViewingSession: NewViewingSessionRepository(db),
	}
}

// Factory manages repository instances and ensures they are singletons
type Factory struct {
	db    *gorm.DB
	repos *Repositories
	once  sync.Once
}

// NewFactory creates a new repository factory
func NewFactory(db *gorm.DB) *Factory {
	return &Factory{
		db: db,
	}
}

// GetRepositories returns a singleton instance of all repositories
func (f *Factory) GetRepositories() *Repositories {
	f.once.Do(func() {
		f.repos = NewRepositories(f.db)
	})
	return f.repos
}

// GetUserRepository returns the user repository instance
func (f *Factory) GetUserRepository() UserRepository {
	return f.GetRepositories().User
}

// GetProfileRepository returns the profile repository instance
func (f *Factory) GetProfileRepository() ProfileRepository {
	return f.GetRepositories().Profile
}

// GetSubscriptionRepository returns the subscription repository instance
func (f *Factory) GetSubscriptionRepository() SubscriptionRepository {
	return f.GetRepositories().Subscription
}

// GetFavoriteRepository returns the favorite repository instance
func (f *Factory) GetFavoriteRepository() FavoriteRepository {
	return f.GetRepositories().Favorite
}

// GetViewingProfileRepository returns the viewing profile repository instance
func (f *Factory) GetViewingProfileRepository() ViewingProfileRepository {
	return f.GetRepositories().ViewingProfile
}

// GetViewingSessionRepository returns the viewing session repository instance
func (f *Factory) GetViewingSessionRepository() ViewingSessionRepository {
	return f.GetRepositories().ViewingSession
}

// Global factory instance
var globalFactory *Factory
var factoryOnce sync.Once

// InitializeFactory initializes the global repository factory
func InitializeFactory(db *gorm.DB) {
	factoryOnce.Do(func() {
		globalFactory = NewFactory(db)
	})
}

// GetGlobalFactory returns the global repository factory instance
func GetGlobalFactory() *Factory {
	if globalFactory == nil {
		panic("Repository factory not initialized. Call InitializeFactory first.")
	}
	return globalFactory
}

// GetGlobalRepositories returns the global repositories instance
func GetGlobalRepositories() *Repositories {
	return GetGlobalFactory().GetRepositories()
}
