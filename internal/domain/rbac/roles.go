package rbac

import (
	"database/sql/driver"
	"fmt"
)

// Role is a named bundle of permissions assigned to an account
type Role string

const (
	RoleViewer         Role = "viewer"
	RolePremium        Role = "premium"
	RoleProfileUser    Role = "profile_user"
	RoleCreator        Role = "creator"
	RoleContentManager Role = "content_manager"
	RoleModerator      Role = "moderator"
	RoleFinance        Role = "finance"
	RoleAnalyst        Role = "analyst"
	RoleTechAdmin      Role = "tech_admin"
	RoleSuperAdmin     Role = "super_admin"
)

// RoleConfig holds the grants and presentation metadata of a role.
// Only Level, Permissions and CanManageOthers affect authorization.
type RoleConfig struct {
	Level           int          `json:"level"`
	Permissions     []Permission `json:"permissions"`
	CanManageOthers bool         `json:"can_manage_others"`

	DisplayName   string `json:"display_name"`
	LocalizedName string `json:"localized_name"`
	Description   string `json:"description"`
	Color         string `json:"color"`
	Icon          string `json:"icon"`

	// Informational quotas enforced by playback and account services.
	MaxDevices  *int `json:"max_devices,omitempty"`
	MaxProfiles *int `json:"max_profiles,omitempty"`
	MaxScreens  *int `json:"max_screens,omitempty"`
}

func (c RoleConfig) clone() RoleConfig {
	out := c
	out.Permissions = make([]Permission, len(c.Permissions))
	copy(out.Permissions, c.Permissions)
	out.MaxDevices = cloneInt(c.MaxDevices)
	out.MaxProfiles = cloneInt(c.MaxProfiles)
	out.MaxScreens = cloneInt(c.MaxScreens)
	return out
}

func cloneInt(v *int) *int {
	if v == nil {
		return nil
	}
	n := *v
	return &n
}

// ParseRole converts s into a role of the default registry
func ParseRole(s string) (Role, error) {
	return Default().ParseRole(s)
}

// IsValid reports whether r is registered in the default registry
func (r Role) IsValid() bool {
	return Default().Has(r)
}

func (r Role) String() string {
	return string(r)
}

// UnmarshalText rejects roles the default registry does not know
func (r *Role) UnmarshalText(text []byte) error {
	parsed, err := ParseRole(string(text))
	if err != nil {
		return err
	}
	*r = parsed
	return nil
}

// Scan implements sql.Scanner so rows with unknown roles fail to load
func (r *Role) Scan(src interface{}) error {
	var s string
	switch v := src.(type) {
	case string:
		s = v
	case []byte:
		s = string(v)
	case nil:
		return fmt.Errorf("%w: NULL", ErrUnknownRole)
	default:
		return fmt.Errorf("rbac: cannot scan %T into Role", src)
	}
	return r.UnmarshalText([]byte(s))
}

// Value implements driver.Valuer
func (r Role) Value() (driver.Value, error) {
	if !r.IsValid() {
		return nil, fmt.Errorf("%w: %q", ErrUnknownRole, string(r))
	}
	return string(r), nil
}
