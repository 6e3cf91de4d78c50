package rbac

import (
	"fmt"
)

// Registry maps every role to its configuration. A Registry is immutable
// once built and safe for concurrent use.
type Registry struct {
	superRole  Role
	order      []Role
	configs    map[Role]RoleConfig
	grants     map[Role]map[Permission]struct{}
	panelRoles map[Role]struct{}
}

// Option customizes a Registry under construction
type Option func(*Registry)

// WithAdminPanelRoles sets the roles allowed into the admin panel
func WithAdminPanelRoles(roles ...Role) Option {
	return func(r *Registry) {
		r.panelRoles = make(map[Role]struct{}, len(roles))
		for _, role := range roles {
			r.panelRoles[role] = struct{}{}
		}
	}
}

// NewRegistry validates configs and builds an immutable registry.
// order fixes the listing order and must name every configured role once.
func NewRegistry(superRole Role, order []Role, configs map[Role]RoleConfig, opts ...Option) (*Registry, error) {
	if len(order) != len(configs) {
		return nil, fmt.Errorf("%w: %d roles ordered, %d configured", ErrInvalidRegistry, len(order), len(configs))
	}

	reg := &Registry{
		superRole:  superRole,
		order:      make([]Role, 0, len(order)),
		configs:    make(map[Role]RoleConfig, len(configs)),
		grants:     make(map[Role]map[Permission]struct{}, len(configs)),
		panelRoles: map[Role]struct{}{},
	}

	for _, role := range order {
		if role == "" {
			return nil, fmt.Errorf("%w: empty role name", ErrInvalidRegistry)
		}
		if _, dup := reg.configs[role]; dup {
			return nil, fmt.Errorf("%w: role %q listed twice", ErrInvalidRegistry, role)
		}
		cfg, ok := configs[role]
		if !ok {
			return nil, fmt.Errorf("%w: role %q has no configuration", ErrInvalidRegistry, role)
		}

		granted := make(map[Permission]struct{}, len(cfg.Permissions))
		for _, p := range cfg.Permissions {
			if !p.IsValid() {
				return nil, fmt.Errorf("%w: role %q grants %w %q", ErrInvalidRegistry, role, ErrUnknownPermission, p)
			}
			granted[p] = struct{}{}
		}

		reg.order = append(reg.order, role)
		reg.configs[role] = cfg.clone()
		reg.grants[role] = granted
	}

	if _, ok := reg.configs[superRole]; !ok {
		return nil, fmt.Errorf("%w: super role %q is not registered", ErrInvalidRegistry, superRole)
	}

	for _, opt := range opts {
		opt(reg)
	}
	for role := range reg.panelRoles {
		if _, ok := reg.configs[role]; !ok {
			return nil, fmt.Errorf("%w: admin panel role %q is not registered", ErrInvalidRegistry, role)
		}
	}

	return reg, nil
}

// WithPermissions returns a new registry in which the listed roles carry
// the given permission lists. The receiver is left untouched. The super
// role cannot be overridden since its grant is implicit.
func (r *Registry) WithPermissions(overrides map[Role][]Permission) (*Registry, error) {
	configs := make(map[Role]RoleConfig, len(r.configs))
	for role, cfg := range r.configs {
		configs[role] = cfg.clone()
	}

	for role, perms := range overrides {
		cfg, ok := configs[role]
		if !ok {
			return nil, fmt.Errorf("%w: %q", ErrUnknownRole, string(role))
		}
		if role == r.superRole {
			return nil, fmt.Errorf("%w: super role %q cannot be overridden", ErrInvalidRegistry, role)
		}
		cfg.Permissions = dedupe(perms)
		configs[role] = cfg
	}

	panel := make([]Role, 0, len(r.panelRoles))
	for _, role := range r.order {
		if _, ok := r.panelRoles[role]; ok {
			panel = append(panel, role)
		}
	}

	return NewRegistry(r.superRole, r.order, configs, WithAdminPanelRoles(panel...))
}

func dedupe(perms []Permission) []Permission {
	seen := make(map[Permission]struct{}, len(perms))
	out := make([]Permission, 0, len(perms))
	for _, p := range perms {
		if _, ok := seen[p]; ok {
			continue
		}
		seen[p] = struct{}{}
		out = append(out, p)
	}
	return out
}

// SuperRole returns the sentinel role granted every permission
func (r *Registry) SuperRole() Role {
	return r.superRole
}

// Roles returns all registered roles in listing order
func (r *Registry) Roles() []Role {
	out := make([]Role, len(r.order))
	copy(out, r.order)
	return out
}

// Has reports whether role is registered
func (r *Registry) Has(role Role) bool {
	_, ok := r.configs[role]
	return ok
}

// ParseRole converts s into a registered role
func (r *Registry) ParseRole(s string) (Role, error) {
	role := Role(s)
	if !r.Has(role) {
		return "", fmt.Errorf("%w: %q", ErrUnknownRole, s)
	}
	return role, nil
}

// Config returns a copy of the configuration of role
func (r *Registry) Config(role Role) (RoleConfig, error) {
	cfg, ok := r.configs[role]
	if !ok {
		return RoleConfig{}, fmt.Errorf("%w: %q", ErrUnknownRole, string(role))
	}
	return cfg.clone(), nil
}

// mustGrants panics on unregistered roles. Evaluating an unknown role is
// an input error that must surface instead of reading as "no access".
func (r *Registry) mustGrants(role Role) map[Permission]struct{} {
	g, ok := r.grants[role]
	if !ok {
		panic(fmt.Errorf("rbac: evaluate: %w: %q", ErrUnknownRole, string(role)))
	}
	return g
}

// mustPermission panics on values outside the catalog, so a mistyped
// permission cannot read as "super role only".
func mustPermission(p Permission) {
	if !p.IsValid() {
		panic(fmt.Errorf("rbac: evaluate: %w: %q", ErrUnknownPermission, string(p)))
	}
}

func mustPermissions(perms []Permission) {
	for _, p := range perms {
		mustPermission(p)
	}
}

func (r *Registry) mustConfig(role Role) RoleConfig {
	cfg, ok := r.configs[role]
	if !ok {
		panic(fmt.Errorf("rbac: evaluate: %w: %q", ErrUnknownRole, string(role)))
	}
	return cfg
}
