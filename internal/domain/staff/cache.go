package staff

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/cinevault/admin-api/internal/domain/rbac"
	"github.com/cinevault/admin-api/internal/pkg/logger"
)

const keyPrefixRole = "staff:role:"

// cachedPrincipal is what Auth needs on every request
type cachedPrincipal struct {
	Email    string    `json:"email"`
	Role     rbac.Role `json:"role"`
	IsActive bool      `json:"is_active"`
}

// RoleCache keeps the current role of staff accounts in Redis so that
// request authentication does not hit Postgres. A nil client disables it.
type RoleCache struct {
	redis *redis.Client
	ttl   time.Duration
}

// NewRoleCache creates role cache
func NewRoleCache(client *redis.Client, ttl time.Duration) *RoleCache {
	return &RoleCache{redis: client, ttl: ttl}
}

func roleKey(id uuid.UUID) string {
	return keyPrefixRole + id.String()
}

// Get returns the cached entry. Misses, Redis errors and entries naming
// an unregistered role all report ok=false.
func (c *RoleCache) Get(ctx context.Context, id uuid.UUID) (cachedPrincipal, bool) {
	if c == nil || c.redis == nil {
		return cachedPrincipal{}, false
	}

	raw, err := c.redis.Get(ctx, roleKey(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return cachedPrincipal{}, false
	}
	if err != nil {
		logger.LogWarn(ctx, "Role cache read failed", "error", err.Error())
		return cachedPrincipal{}, false
	}

	var cp cachedPrincipal
	if err := json.Unmarshal(raw, &cp); err != nil {
		// stale entry from an older role set
		logger.LogDebug(ctx, "Dropping stale role cache entry", "staff_id", id.String(), "error", err.Error())
		c.redis.Del(ctx, roleKey(id))
		return cachedPrincipal{}, false
	}
	return cp, true
}

// Set stores a's current role
func (c *RoleCache) Set(ctx context.Context, a *Account) {
	if c == nil || c.redis == nil {
		return
	}
	raw, err := json.Marshal(cachedPrincipal{Email: a.Email, Role: a.Role, IsActive: a.IsActive})
	if err != nil {
		return
	}
	if err := c.redis.Set(ctx, roleKey(a.ID), raw, c.ttl).Err(); err != nil {
		logger.LogWarn(ctx, "Role cache write failed", "error", err.Error())
	}
}

// Invalidate drops the cached role for id
func (c *RoleCache) Invalidate(ctx context.Context, id uuid.UUID) {
	if c == nil || c.redis == nil {
		return
	}
	if err := c.redis.Del(ctx, roleKey(id)).Err(); err != nil {
		logger.LogWarn(ctx, "Role cache invalidation failed", "error", err.Error())
		return
	}
	logger.LogDebug(ctx, "Role cache invalidated", "staff_id", id.String())
}
