package staff

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/cinevault/admin-api/internal/domain/rbac"
	"github.com/cinevault/admin-api/internal/middleware"
	"github.com/cinevault/admin-api/internal/pkg/logger"
)

func newTestCache(t *testing.T) (*RoleCache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return NewRoleCache(client, time.Minute), mr
}

func TestRoleCacheRoundTrip(t *testing.T) {
	cache, mr := newTestCache(t)
	ctx := context.Background()
	a := &Account{ID: uuid.New(), Email: "mod@cinevault.tv", Role: rbac.RoleModerator, IsActive: true}

	if _, ok := cache.Get(ctx, a.ID); ok {
		t.Fatal("expected miss on empty cache")
	}
	cache.Set(ctx, a)

	if ttl := mr.TTL(roleKey(a.ID)); ttl != time.Minute {
		t.Fatalf("ttl = %v", ttl)
	}
	cp, ok := cache.Get(ctx, a.ID)
	if !ok || cp.Role != rbac.RoleModerator || !cp.IsActive {
		t.Fatalf("unexpected entry %+v ok=%v", cp, ok)
	}

	cache.Invalidate(ctx, a.ID)
	if _, ok := cache.Get(ctx, a.ID); ok {
		t.Fatal("expected miss after invalidation")
	}
}

func TestRoleCacheDropsUnknownRoles(t *testing.T) {
	cache, mr := newTestCache(t)
	var logs bytes.Buffer
	debugLog := zerolog.New(&logs).Level(zerolog.DebugLevel)
	ctx := logger.WithContext(context.Background(), &debugLog)
	a := &Account{ID: uuid.New()}

	mr.Set(roleKey(a.ID), `{"email":"x@cinevault.tv","role":"ghost","is_active":true}`)
	if _, ok := cache.Get(ctx, a.ID); ok {
		t.Fatal("entry naming an unknown role must be a miss")
	}
	if mr.Exists(roleKey(a.ID)) {
		t.Fatal("stale entry should be deleted")
	}
	if !strings.Contains(logs.String(), `"level":"debug"`) || !strings.Contains(logs.String(), a.ID.String()) {
		t.Fatalf("expected a debug line naming the account, got %q", logs.String())
	}
}

func TestNilRoleCachePassesThrough(t *testing.T) {
	var cache *RoleCache
	ctx := context.Background()
	a := &Account{ID: uuid.New(), Role: rbac.RoleViewer}
	cache.Set(ctx, a)
	cache.Invalidate(ctx, a.ID)
	if _, ok := cache.Get(ctx, a.ID); ok {
		t.Fatal("nil cache should always miss")
	}
	if _, ok := NewRoleCache(nil, time.Minute).Get(ctx, a.ID); ok {
		t.Fatal("cache without client should always miss")
	}
}

func TestResolvePrincipalUsesCache(t *testing.T) {
	cache, _ := newTestCache(t)
	repo := newFakeRepo()
	svc := NewService(repo, cache, &fakeRecorder{}, rbac.Default())
	mod := seed(t, repo, "mod@cinevault.tv", rbac.RoleModerator, true)
	tech := seed(t, repo, "tech@cinevault.tv", rbac.RoleTechAdmin, true)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		if _, err := svc.ResolvePrincipal(ctx, mod.ID); err != nil {
			t.Fatalf("resolve: %v", err)
		}
	}
	if repo.getCalls != 1 {
		t.Fatalf("expected a single repository read, got %d", repo.getCalls)
	}

	// a role change must be visible on the very next request
	if _, err := svc.ChangeRole(ctx, actorOf(tech), mod.ID, rbac.RoleViewer, ""); err != nil {
		t.Fatalf("change role: %v", err)
	}
	p, err := svc.ResolvePrincipal(ctx, mod.ID)
	if err != nil || p.Role != rbac.RoleViewer {
		t.Fatalf("expected demoted role, got %+v %v", p, err)
	}

	off := false
	if _, err := svc.Update(ctx, actorOf(tech), mod.ID, &UpdateRequest{IsActive: &off}); err != nil {
		t.Fatalf("deactivate: %v", err)
	}
	for i := 0; i < 2; i++ {
		if _, err := svc.ResolvePrincipal(ctx, mod.ID); !errors.Is(err, middleware.ErrPrincipalInactive) {
			t.Fatalf("expected ErrPrincipalInactive, got %v", err)
		}
	}
}
