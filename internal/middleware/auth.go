package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/cinevault/admin-api/internal/domain/rbac"
	"github.com/cinevault/admin-api/internal/pkg/jwt"
	"github.com/cinevault/admin-api/internal/pkg/logger"
	"github.com/cinevault/admin-api/internal/pkg/response"
)

type contextKey string

const principalKey contextKey = "principal"

var (
	// ErrPrincipalNotFound is returned by resolvers for deleted accounts
	ErrPrincipalNotFound = errors.New("principal not found")
	// ErrPrincipalInactive is returned by resolvers for deactivated accounts
	ErrPrincipalInactive = errors.New("principal inactive")
)

// Principal is the authenticated staff member behind a request
type Principal struct {
	ID    uuid.UUID
	Email string
	Role  rbac.Role
}

// PrincipalResolver reloads the current state of a staff account so that
// role changes and deactivation apply before the token expires.
type PrincipalResolver interface {
	ResolvePrincipal(ctx context.Context, id uuid.UUID) (*Principal, error)
}

// Auth returns middleware that validates the staff JWT. With a nil
// resolver the token claims are trusted as-is.
func Auth(jwtService *jwt.Service, resolver PrincipalResolver) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				response.Unauthorized(w, "Missing authorization header")
				return
			}

			parts := strings.Split(authHeader, " ")
			if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
				response.Unauthorized(w, "Invalid authorization header format")
				return
			}

			claims, err := jwtService.ValidateAccessToken(parts[1])
			if err != nil {
				if errors.Is(err, jwt.ErrExpiredToken) {
					response.Unauthorized(w, "Token expired")
				} else {
					response.Unauthorized(w, "Invalid token")
				}
				return
			}

			principal := &Principal{ID: claims.StaffID, Email: claims.Email, Role: claims.Role}
			if resolver != nil {
				principal, err = resolver.ResolvePrincipal(r.Context(), claims.StaffID)
				switch {
				case errors.Is(err, ErrPrincipalNotFound):
					response.Unauthorized(w, "Account not found")
					return
				case errors.Is(err, ErrPrincipalInactive):
					response.Forbidden(w, "Account is inactive")
					return
				case err != nil:
					logger.LogError(r.Context(), err, "Failed to resolve principal", "staff_id", claims.StaffID)
					response.InternalError(w)
					return
				}
			}

			ctx := WithPrincipal(r.Context(), principal)
			ctx = logger.WithFields(ctx, "staff_id", principal.ID.String(), "role", string(principal.Role))

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// WithPrincipal stores p in ctx
func WithPrincipal(ctx context.Context, p *Principal) context.Context {
	return context.WithValue(ctx, principalKey, p)
}

// GetPrincipal extracts the authenticated principal from context
func GetPrincipal(ctx context.Context) (*Principal, bool) {
	p, ok := ctx.Value(principalKey).(*Principal)
	return p, ok && p != nil
}

// GetStaffID extracts the staff ID from context
func GetStaffID(ctx context.Context) uuid.UUID {
	if p, ok := GetPrincipal(ctx); ok {
		return p.ID
	}
	return uuid.Nil
}
