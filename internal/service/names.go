package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/dgraph-io/ristretto"

	"github.com/splitledger/splitledger/internal/models"
	"github.com/splitledger/splitledger/internal/storage"
)

// nameResolver resolves user IDs to display names, with a small
// ristretto cache in front of the user directory. Unknown users resolve
// to "User <id>" so activity and expense views never fail on a dangling
// reference.
type nameResolver struct {
	store storage.Store
	cache *ristretto.Cache
}

func newNameResolver(store storage.Store) (*nameResolver, error) {
	cache, err := ristretto.NewCache(&ristretto.Config{
		NumCounters: 10000, // number of keys to track frequency of
		MaxCost:     10000,
		BufferItems: 64,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize name cache: %w", err)
	}
	return &nameResolver{store: store, cache: cache}, nil
}

// UserName returns the display name for userID.
func (r *nameResolver) UserName(ctx context.Context, userID int64) string {
	key := fmt.Sprintf("user:%d", userID)
	if cached, ok := r.cache.Get(key); ok {
		if name, ok := cached.(string); ok {
			return name
		}
	}

	user, err := r.store.GetUserByID(ctx, userID)
	if err != nil {
		if !isMissing(err) {
			slog.Warn("Failed to resolve user name", "user_id", userID, "error", err)
		}
		return fmt.Sprintf("User %d", userID)
	}

	r.cache.Set(key, user.Name, 1)
	return user.Name
}

// Members resolves a list of user IDs, preserving order.
func (r *nameResolver) Members(ctx context.Context, userIDs []int64) []models.Member {
	members := make([]models.Member, len(userIDs))
	for i, id := range userIDs {
		members[i] = models.Member{UserID: id, Name: r.UserName(ctx, id)}
	}
	return members
}

// Invalidate drops a cached name, e.g. after a profile update.
func (r *nameResolver) Invalidate(userID int64) {
	r.cache.Del(fmt.Sprintf("user:%d", userID))
}
