package ports

import (
	"context"
	"time"

	"lawdesk/contexts/identity-access/access-gate/domain/entities"
)

// Clock abstracts current time for deterministic tests.
type Clock interface {
	Now() time.Time
}

// MembershipRepository resolves users and their tenant memberships.
type MembershipRepository interface {
	GetUser(ctx context.Context, userID string) (entities.User, bool, error)
	GetMembership(ctx context.Context, tenantID, userID string) (entities.Membership, bool, error)
}

// RateLimitStore holds one live window counter per key. IncrementWindow must
// be a single atomic upsert: create the (key, windowStart) row with count 1 or
// increment the existing count, returning the post-increment value. Rows whose
// expiresAt has passed are garbage; DeleteExpired exists for memory hygiene
// only, correctness never depends on it.
type RateLimitStore interface {
	IncrementWindow(ctx context.Context, key string, windowStart, expiresAt time.Time) (int64, error)
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)
}
