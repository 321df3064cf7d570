package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/pfa-assurance/assurance-connector/internal/session"
)

// Cache defines the cache interface
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Exists(ctx context.Context, key string) (bool, error)
	Clear(ctx context.Context, pattern string) error
}

// ErrCacheMiss is returned when a key is not found in cache
var ErrCacheMiss = fmt.Errorf("cache miss")

// ListingKey builds the cache key for a scope-appropriate listing. OWN
// scopes are keyed per client so one client never sees another's listing.
func ListingKey(entity string, scope session.Scope) string {
	if scope.Visibility == session.VisibilityOwn {
		return fmt.Sprintf("%s:client:%d", entity, scope.OwnerID)
	}
	return entity + ":all"
}
