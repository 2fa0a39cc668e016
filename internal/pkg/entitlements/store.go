package entitlements

import "sync"

// Observer is notified after an entitlement changes for a user.
type Observer func(userID uint, e Entitlement)

// Store holds the reconciled entitlement per user. The Reconciler is the
// only writer; any number of readers may call Get concurrently.
type Store struct {
	mu        sync.RWMutex
	entries   map[uint]Entitlement
	observers []Observer
}

func NewStore() *Store {
	return &Store{entries: make(map[uint]Entitlement)}
}

// Get returns the last reconciled entitlement for a user. The second return
// is false when no reconciliation has run for the user yet.
func (s *Store) Get(userID uint) (Entitlement, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	e, ok := s.entries[userID]
	return e, ok
}

// Set stores the entitlement for a user and notifies observers.
func (s *Store) Set(userID uint, e Entitlement) {
	s.mu.Lock()
	s.entries[userID] = e
	observers := make([]Observer, len(s.observers))
	copy(observers, s.observers)
	s.mu.Unlock()

	// Notify outside the lock so observers can call back into the store.
	for _, fn := range observers {
		fn(userID, e)
	}
}

// Clear drops the entry for a user, e.g. on logout.
func (s *Store) Clear(userID uint) {
	s.mu.Lock()
	delete(s.entries, userID)
	s.mu.Unlock()
}

// Subscribe registers an observer for entitlement changes.
func (s *Store) Subscribe(fn Observer) {
	s.mu.Lock()
	s.observers = append(s.observers, fn)
	s.mu.Unlock()
}
