package rbac

// HasPermission reports whether role holds p. The super role holds every
// catalog permission regardless of its declared list.
func (r *Registry) HasPermission(role Role, p Permission) bool {
	grants := r.mustGrants(role)
	mustPermission(p)
	if role == r.superRole {
		return true
	}
	_, ok := grants[p]
	return ok
}

// HasAnyPermission reports whether role holds at least one of perms.
// An empty list is never satisfied.
func (r *Registry) HasAnyPermission(role Role, perms ...Permission) bool {
	r.mustGrants(role)
	mustPermissions(perms)
	for _, p := range perms {
		if r.HasPermission(role, p) {
			return true
		}
	}
	return false
}

// HasAllPermissions reports whether role holds every one of perms.
// An empty list is always satisfied.
func (r *Registry) HasAllPermissions(role Role, perms ...Permission) bool {
	r.mustGrants(role)
	mustPermissions(perms)
	for _, p := range perms {
		if !r.HasPermission(role, p) {
			return false
		}
	}
	return true
}

// RolePermissions returns the effective permission set of role: the whole
// catalog for the super role, the declared list otherwise.
func (r *Registry) RolePermissions(role Role) []Permission {
	cfg := r.mustConfig(role)
	if role == r.superRole {
		return AllPermissions()
	}
	out := make([]Permission, 0, len(cfg.Permissions))
	seen := make(map[Permission]struct{}, len(cfg.Permissions))
	for _, p := range cfg.Permissions {
		if _, ok := seen[p]; ok {
			continue
		}
		seen[p] = struct{}{}
		out = append(out, p)
	}
	return out
}

// CanAccessAdminPanel reports whether role is on the admin panel allow-list.
// The list is independent of the role's permissions.
func (r *Registry) CanAccessAdminPanel(role Role) bool {
	r.mustGrants(role)
	_, ok := r.panelRoles[role]
	return ok
}

// RoleLevel returns the privilege level of role
func (r *Registry) RoleLevel(role Role) int {
	return r.mustConfig(role).Level
}

// CanManageRole reports whether holders of manager may change accounts
// holding target. Only strictly lower levels can be managed, and only by
// roles flagged CanManageOthers; the super role manages everyone.
func (r *Registry) CanManageRole(manager, target Role) bool {
	mgr := r.mustConfig(manager)
	tgt := r.mustConfig(target)
	if manager == r.superRole {
		return true
	}
	return mgr.Level > tgt.Level && mgr.CanManageOthers
}

// Package-level helpers evaluate against the default registry.

func HasPermission(role Role, p Permission) bool {
	return defaultRegistry.HasPermission(role, p)
}

func HasAnyPermission(role Role, perms ...Permission) bool {
	return defaultRegistry.HasAnyPermission(role, perms...)
}

func HasAllPermissions(role Role, perms ...Permission) bool {
	return defaultRegistry.HasAllPermissions(role, perms...)
}

func RolePermissions(role Role) []Permission {
	return defaultRegistry.RolePermissions(role)
}

func CanAccessAdminPanel(role Role) bool {
	return defaultRegistry.CanAccessAdminPanel(role)
}

func RoleLevel(role Role) int {
	return defaultRegistry.RoleLevel(role)
}

func CanManageRole(manager, target Role) bool {
	return defaultRegistry.CanManageRole(manager, target)
}
