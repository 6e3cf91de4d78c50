package roles

import (
	"time"

	"github.com/cinevault/admin-api/internal/domain/rbac"
)

// RoleSummary is one row of GET /roles
type RoleSummary struct {
	Role            rbac.Role `json:"role"`
	DisplayName     string    `json:"display_name"`
	LocalizedName   string    `json:"localized_name"`
	Description     string    `json:"description"`
	Color           string    `json:"color"`
	Icon            string    `json:"icon"`
	Level           int       `json:"level"`
	CanManageOthers bool      `json:"can_manage_others"`
	CanAccessPanel  bool      `json:"can_access_admin_panel"`
	IsSuperRole     bool      `json:"is_super_role"`
	PermissionCount int       `json:"permission_count"`
	MaxDevices      *int      `json:"max_devices,omitempty"`
	MaxProfiles     *int      `json:"max_profiles,omitempty"`
	MaxScreens      *int      `json:"max_screens,omitempty"`
}

// RoleDetail for GET /roles/{role}
type RoleDetail struct {
	RoleSummary
	Permissions map[rbac.PermissionCategory][]rbac.Permission `json:"permissions"`
}

// PermissionInfo describes one catalog entry
type PermissionInfo struct {
	Permission  rbac.Permission `json:"permission"`
	Description string          `json:"description"`
}

// CategoryInfo groups catalog entries for GET /permissions
type CategoryInfo struct {
	Category    rbac.PermissionCategory `json:"category"`
	Permissions []PermissionInfo        `json:"permissions"`
}

// CanManageResponse for GET /roles/{manager}/can-manage/{target}
type CanManageResponse struct {
	Manager   rbac.Role `json:"manager"`
	Target    rbac.Role `json:"target"`
	CanManage bool      `json:"can_manage"`
}

// UpdatePermissionsRequest for PUT /roles/{role}/permissions
type UpdatePermissionsRequest struct {
	Permissions []string `json:"permissions" validate:"required,dive,permission"`
	Reason      string   `json:"reason,omitempty" validate:"omitempty,max=500"`
}

// OverrideResponse represents a stored override
type OverrideResponse struct {
	Role        string   `json:"role"`
	Permissions []string `json:"permissions"`
	UpdatedBy   *string  `json:"updated_by,omitempty"`
	UpdatedAt   string   `json:"updated_at"`
	// Active is false until the service restarts with this override loaded
	Active bool `json:"active"`
}

func overrideResponse(o *Override, active bool) *OverrideResponse {
	resp := &OverrideResponse{
		Role:        o.Role,
		Permissions: []string(o.Permissions),
		UpdatedAt:   o.UpdatedAt.Format(time.RFC3339),
		Active:      active,
	}
	if o.UpdatedBy.Valid {
		s := o.UpdatedBy.UUID.String()
		resp.UpdatedBy = &s
	}
	return resp
}
