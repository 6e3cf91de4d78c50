package staff

import (
	"time"

	"github.com/google/uuid"

	"github.com/cinevault/admin-api/internal/domain/rbac"
)

// LoginRequest for POST /auth/login
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// LoginResponse is returned after a successful login
type LoginResponse struct {
	AccessToken string           `json:"access_token"`
	ExpiresAt   string           `json:"expires_at"`
	Account     *AccountResponse `json:"account"`
}

// CreateRequest for POST /staff
type CreateRequest struct {
	Email    string `json:"email" validate:"required,email,max=255"`
	Password string `json:"password" validate:"required,min=8,max=72"`
	Name     string `json:"name" validate:"required,max=100"`
	Role     string `json:"role" validate:"required,role"`
}

// UpdateRequest for PATCH /staff/{id}
type UpdateRequest struct {
	Name     *string `json:"name,omitempty" validate:"omitempty,min=1,max=100"`
	IsActive *bool   `json:"is_active,omitempty"`
}

// ChangeRoleRequest for PUT /staff/{id}/role
type ChangeRoleRequest struct {
	Role   string `json:"role" validate:"required,role"`
	Reason string `json:"reason,omitempty" validate:"omitempty,max=500"`
}

// AccountResponse represents a staff account in the API
type AccountResponse struct {
	ID          uuid.UUID `json:"id"`
	Email       string    `json:"email"`
	Name        string    `json:"name"`
	Role        rbac.Role `json:"role"`
	IsActive    bool      `json:"is_active"`
	LastLoginAt *string   `json:"last_login_at,omitempty"`
	CreatedAt   string    `json:"created_at"`
}

// AccountResponseFromEntity converts entity to response
func AccountResponseFromEntity(a *Account) *AccountResponse {
	resp := &AccountResponse{
		ID:        a.ID,
		Email:     a.Email,
		Name:      a.Name,
		Role:      a.Role,
		IsActive:  a.IsActive,
		CreatedAt: a.CreatedAt.Format(time.RFC3339),
	}
	if a.LastLoginAt.Valid {
		t := a.LastLoginAt.Time.Format(time.RFC3339)
		resp.LastLoginAt = &t
	}
	return resp
}

// MeResponse for GET /auth/me
type MeResponse struct {
	Account         *AccountResponse                              `json:"account"`
	Level           int                                           `json:"level"`
	CanManageOthers bool                                          `json:"can_manage_others"`
	CanAccessPanel  bool                                          `json:"can_access_admin_panel"`
	Permissions     map[rbac.PermissionCategory][]rbac.Permission `json:"permissions"`
	ManageableRoles []rbac.Role                                   `json:"manageable_roles"`
}
