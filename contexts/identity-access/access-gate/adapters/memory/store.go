package memory

import (
	"context"
	"sync"
	"time"

	"lawdesk/contexts/identity-access/access-gate/domain/entities"
)

// Store is an in-memory adapter implementing the membership repository and
// rate-limit store ports. Intended for tests and local development wiring.
type Store struct {
	mu sync.Mutex

	users       map[string]entities.User
	memberships map[string]entities.Membership

	windows map[string]*windowCounter
}

type windowCounter struct {
	windowStart time.Time
	expiresAt   time.Time
	count       int64
}

func NewStore() *Store {
	return &Store{
		users:       make(map[string]entities.User),
		memberships: make(map[string]entities.Membership),
		windows:     make(map[string]*windowCounter),
	}
}

// SeedUser registers a user for lookup.
func (s *Store) SeedUser(user entities.User) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.users[user.ID] = user
}

// SeedMembership registers a tenant membership for lookup.
func (s *Store) SeedMembership(m entities.Membership) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.memberships[m.TenantID+"\x1f"+m.UserID] = m
}

func (s *Store) GetUser(_ context.Context, userID string) (entities.User, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	user, ok := s.users[userID]
	return user, ok, nil
}

func (s *Store) GetMembership(_ context.Context, tenantID, userID string) (entities.Membership, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	m, ok := s.memberships[tenantID+"\x1f"+userID]
	return m, ok, nil
}

// IncrementWindow resets a rolled-over counter lazily and increments under the
// store lock, so concurrent callers for the same key serialize on a single
// critical section.
func (s *Store) IncrementWindow(_ context.Context, key string, windowStart, expiresAt time.Time) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	counter, ok := s.windows[key]
	if !ok || !counter.windowStart.Equal(windowStart) {
		counter = &windowCounter{windowStart: windowStart}
		s.windows[key] = counter
	}
	counter.count++
	counter.expiresAt = expiresAt
	return counter.count, nil
}

func (s *Store) DeleteExpired(_ context.Context, now time.Time) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var removed int64
	for key, counter := range s.windows {
		if !counter.expiresAt.After(now) {
			delete(s.windows, key)
			removed++
		}
	}
	return removed, nil
}
