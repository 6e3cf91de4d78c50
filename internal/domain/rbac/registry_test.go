package rbac

import (
	"encoding/json"
	"errors"
	"testing"
)

func TestDefaultRegistryIsTotal(t *testing.T) {
	reg := Default()
	roles := reg.Roles()
	if len(roles) != 10 {
		t.Fatalf("expected 10 roles, got %d", len(roles))
	}
	for _, role := range roles {
		if _, err := reg.Config(role); err != nil {
			t.Fatalf("config for %q: %v", role, err)
		}
	}
	if roles[0] != RoleViewer || roles[len(roles)-1] != RoleSuperAdmin {
		t.Fatalf("unexpected order %v", roles)
	}
}

func TestRolesReturnsStableCopy(t *testing.T) {
	first := Default().Roles()
	first[0] = "tampered"
	second := Default().Roles()
	if second[0] != RoleViewer {
		t.Fatalf("Roles leaked internal slice: %v", second)
	}
}

func TestConfigReturnsCopy(t *testing.T) {
	cfg, _ := Default().Config(RoleViewer)
	cfg.Permissions[0] = PermFullAccess
	*cfg.MaxDevices = 99
	if HasPermission(RoleViewer, PermFullAccess) {
		t.Fatal("mutating a returned config changed the registry")
	}
	again, _ := Default().Config(RoleViewer)
	if *again.MaxDevices != 1 {
		t.Fatalf("quota changed to %d", *again.MaxDevices)
	}
}

func TestParseRole(t *testing.T) {
	role, err := ParseRole("moderator")
	if err != nil || role != RoleModerator {
		t.Fatalf("ParseRole(moderator) = %q, %v", role, err)
	}
	if _, err := ParseRole("admin"); !errors.Is(err, ErrUnknownRole) {
		t.Fatalf("expected ErrUnknownRole, got %v", err)
	}
	if _, err := ParseRole(""); !errors.Is(err, ErrUnknownRole) {
		t.Fatalf("expected ErrUnknownRole for empty role, got %v", err)
	}
}

func TestRoleJSONRejectsUnknown(t *testing.T) {
	var body struct {
		Role Role `json:"role"`
	}
	if err := json.Unmarshal([]byte(`{"role":"finance"}`), &body); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if body.Role != RoleFinance {
		t.Fatalf("got %q", body.Role)
	}
	if err := json.Unmarshal([]byte(`{"role":"root"}`), &body); !errors.Is(err, ErrUnknownRole) {
		t.Fatalf("expected ErrUnknownRole, got %v", err)
	}
}

func TestRoleScanAndValue(t *testing.T) {
	var r Role
	if err := r.Scan([]byte("analyst")); err != nil || r != RoleAnalyst {
		t.Fatalf("scan analyst: %q %v", r, err)
	}
	if err := r.Scan("nobody"); !errors.Is(err, ErrUnknownRole) {
		t.Fatalf("expected ErrUnknownRole, got %v", err)
	}
	if err := r.Scan(nil); !errors.Is(err, ErrUnknownRole) {
		t.Fatalf("expected ErrUnknownRole for NULL, got %v", err)
	}
	if _, err := Role("nobody").Value(); !errors.Is(err, ErrUnknownRole) {
		t.Fatalf("expected ErrUnknownRole from Value, got %v", err)
	}
	v, err := RoleTechAdmin.Value()
	if err != nil || v != "tech_admin" {
		t.Fatalf("Value() = %v, %v", v, err)
	}
}

func TestNewRegistryValidation(t *testing.T) {
	base := func() map[Role]RoleConfig {
		return map[Role]RoleConfig{
			"root": {Level: 10},
			"user": {Level: 1, Permissions: []Permission{PermViewFreeContent}},
		}
	}

	tests := []struct {
		name    string
		super   Role
		order   []Role
		configs map[Role]RoleConfig
		opts    []Option
	}{
		{"missing config", "root", []Role{"root", "user", "guest"}, base(), nil},
		{"duplicate order", "root", []Role{"root", "root"}, base(), nil},
		{"unregistered super", "owner", []Role{"root", "user"}, base(), nil},
		{"unknown permission", "root", []Role{"root", "user"}, map[Role]RoleConfig{
			"root": {Level: 10},
			"user": {Level: 1, Permissions: []Permission{"fly"}},
		}, nil},
		{"unregistered panel role", "root", []Role{"root", "user"}, base(), []Option{WithAdminPanelRoles("staff")}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewRegistry(tt.super, tt.order, tt.configs, tt.opts...)
			if !errors.Is(err, ErrInvalidRegistry) {
				t.Fatalf("expected ErrInvalidRegistry, got %v", err)
			}
		})
	}
}

func TestWithPermissionsBuildsNewRegistry(t *testing.T) {
	reg := Default()
	edited, err := reg.WithPermissions(map[Role][]Permission{
		RoleAnalyst: {PermViewAnalytics, PermViewAnalytics, PermViewActivityLog},
	})
	if err != nil {
		t.Fatalf("with permissions: %v", err)
	}

	if !edited.HasPermission(RoleAnalyst, PermViewActivityLog) {
		t.Fatal("override not applied")
	}
	if edited.HasPermission(RoleAnalyst, PermManageCampaigns) {
		t.Fatal("override should replace the list, not extend it")
	}
	if len(edited.RolePermissions(RoleAnalyst)) != 2 {
		t.Fatalf("expected deduped list, got %v", edited.RolePermissions(RoleAnalyst))
	}
	if reg.HasPermission(RoleAnalyst, PermViewActivityLog) {
		t.Fatal("source registry was mutated")
	}
	if !edited.CanAccessAdminPanel(RoleAnalyst) || edited.CanAccessAdminPanel(RoleViewer) {
		t.Fatal("admin panel allow-list not carried over")
	}

	if _, err := reg.WithPermissions(map[Role][]Permission{RoleSuperAdmin: {}}); !errors.Is(err, ErrInvalidRegistry) {
		t.Fatalf("expected ErrInvalidRegistry for super role override, got %v", err)
	}
	if _, err := reg.WithPermissions(map[Role][]Permission{"ghost": {}}); !errors.Is(err, ErrUnknownRole) {
		t.Fatalf("expected ErrUnknownRole, got %v", err)
	}
	if _, err := reg.WithPermissions(map[Role][]Permission{RoleViewer: {"teleport"}}); !errors.Is(err, ErrUnknownPermission) {
		t.Fatalf("expected ErrUnknownPermission, got %v", err)
	}
}

func TestDescribe(t *testing.T) {
	desc, err := Describe(PermBanUsers)
	if err != nil {
		t.Fatalf("describe: %v", err)
	}
	if desc.Category != CategoryModeration || desc.Name == "" || desc.Description == "" {
		t.Fatalf("unexpected description %+v", desc)
	}
	if _, err := Describe("fly"); !errors.Is(err, ErrUnknownPermission) {
		t.Fatalf("expected ErrUnknownPermission, got %v", err)
	}
}

func TestCatalogShape(t *testing.T) {
	perms := AllPermissions()
	if len(perms) != 71 {
		t.Fatalf("expected 71 permissions, got %d", len(perms))
	}

	groups := PermissionsByCategory(perms)
	if len(groups) != len(Categories()) {
		t.Fatalf("expected %d categories, got %d", len(Categories()), len(groups))
	}
	total := 0
	for _, c := range Categories() {
		if len(groups[c]) == 0 {
			t.Fatalf("category %q is empty", c)
		}
		total += len(groups[c])
	}
	if total != len(perms) {
		t.Fatalf("grouping lost permissions: %d of %d", total, len(perms))
	}
}

func TestParsePermission(t *testing.T) {
	p, err := ParsePermission("manage_api_keys")
	if err != nil || p != PermManageAPIKeys {
		t.Fatalf("ParsePermission = %q, %v", p, err)
	}
	if _, err := ParsePermission("MANAGE_API_KEYS"); !errors.Is(err, ErrUnknownPermission) {
		t.Fatalf("expected case-sensitive rejection, got %v", err)
	}
}
