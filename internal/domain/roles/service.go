package roles

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/cinevault/admin-api/internal/domain/activity"
	"github.com/cinevault/admin-api/internal/domain/rbac"
)

// Recorder writes activity log entries
type Recorder interface {
	Record(ctx context.Context, e activity.Entry)
}

// Service exposes the role registry and persists permission overrides.
// The registry it serves is never modified; saved overrides take effect
// when LoadRegistry runs at the next start.
type Service struct {
	registry *rbac.Registry
	repo     Repository
	activity Recorder
}

// NewService creates roles service. A nil repo disables the editor.
func NewService(registry *rbac.Registry, repo Repository, recorder Recorder) *Service {
	return &Service{registry: registry, repo: repo, activity: recorder}
}

// Summaries describes every role in registry order
func (s *Service) Summaries() []RoleSummary {
	roles := s.registry.Roles()
	out := make([]RoleSummary, 0, len(roles))
	for _, role := range roles {
		sum, _ := s.summary(role)
		out = append(out, sum)
	}
	return out
}

func (s *Service) summary(role rbac.Role) (RoleSummary, error) {
	cfg, err := s.registry.Config(role)
	if err != nil {
		return RoleSummary{}, err
	}
	return RoleSummary{
		Role:            role,
		DisplayName:     cfg.DisplayName,
		LocalizedName:   cfg.LocalizedName,
		Description:     cfg.Description,
		Color:           cfg.Color,
		Icon:            cfg.Icon,
		Level:           cfg.Level,
		CanManageOthers: cfg.CanManageOthers,
		CanAccessPanel:  s.registry.CanAccessAdminPanel(role),
		IsSuperRole:     role == s.registry.SuperRole(),
		PermissionCount: len(s.registry.RolePermissions(role)),
		MaxDevices:      cfg.MaxDevices,
		MaxProfiles:     cfg.MaxProfiles,
		MaxScreens:      cfg.MaxScreens,
	}, nil
}

// Detail returns a role with its effective permissions by category
func (s *Service) Detail(name string) (*RoleDetail, error) {
	role, err := s.registry.ParseRole(name)
	if err != nil {
		return nil, err
	}
	sum, err := s.summary(role)
	if err != nil {
		return nil, err
	}
	return &RoleDetail{
		RoleSummary: sum,
		Permissions: rbac.PermissionsByCategory(s.registry.RolePermissions(role)),
	}, nil
}

// Catalog lists every permission grouped by category
func (s *Service) Catalog() []CategoryInfo {
	grouped := rbac.PermissionsByCategory(rbac.AllPermissions())
	out := make([]CategoryInfo, 0, len(grouped))
	for _, cat := range rbac.Categories() {
		info := CategoryInfo{Category: cat}
		for _, p := range grouped[cat] {
			d, _ := rbac.Describe(p)
			info.Permissions = append(info.Permissions, PermissionInfo{Permission: p, Description: d.Description})
		}
		out = append(out, info)
	}
	return out
}

// CanManage reports whether manager may administer target
func (s *Service) CanManage(manager, target string) (*CanManageResponse, error) {
	m, err := s.registry.ParseRole(manager)
	if err != nil {
		return nil, err
	}
	t, err := s.registry.ParseRole(target)
	if err != nil {
		return nil, err
	}
	return &CanManageResponse{Manager: m, Target: t, CanManage: s.registry.CanManageRole(m, t)}, nil
}

// ListOverrides returns stored overrides, flagging those the running
// registry already reflects
func (s *Service) ListOverrides(ctx context.Context) ([]*OverrideResponse, error) {
	if s.repo == nil {
		return nil, ErrEditorDisabled
	}
	rows, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]*OverrideResponse, len(rows))
	for i, row := range rows {
		out[i] = overrideResponse(row, s.isActive(row))
	}
	return out, nil
}

func (s *Service) isActive(o *Override) bool {
	role, err := s.registry.ParseRole(o.Role)
	if err != nil || role == s.registry.SuperRole() {
		return false
	}
	perms, err := parsePermissions(o.Permissions)
	if err != nil {
		return false
	}
	return samePermissions(s.registry.RolePermissions(role), perms)
}

func samePermissions(a, b []rbac.Permission) bool {
	set := func(ps []rbac.Permission) []string {
		seen := make(map[rbac.Permission]struct{}, len(ps))
		out := make([]string, 0, len(ps))
		for _, p := range ps {
			if _, ok := seen[p]; ok {
				continue
			}
			seen[p] = struct{}{}
			out = append(out, string(p))
		}
		sort.Strings(out)
		return out
	}
	x, y := set(a), set(b)
	if len(x) != len(y) {
		return false
	}
	for i := range x {
		if x[i] != y[i] {
			return false
		}
	}
	return true
}

func (s *Service) authorizeEdit(actor activity.Actor, name string) (rbac.Role, error) {
	if s.repo == nil {
		return "", ErrEditorDisabled
	}
	role, err := s.registry.ParseRole(name)
	if err != nil {
		return "", err
	}
	if role == s.registry.SuperRole() {
		return "", ErrSuperRoleImmutable
	}
	manager := rbac.Role(actor.Role)
	if !s.registry.Has(manager) || !s.registry.CanManageRole(manager, role) {
		return "", ErrCannotManageRole
	}
	return role, nil
}

// UpdatePermissions stores a new permission list for a role
func (s *Service) UpdatePermissions(ctx context.Context, actor activity.Actor, name string, raw []string, reason string) (*OverrideResponse, error) {
	role, err := s.authorizeEdit(actor, name)
	if err != nil {
		return nil, err
	}
	perms, err := parsePermissions(raw)
	if err != nil {
		return nil, err
	}
	// reject anything the loader would refuse at startup
	if _, err := s.registry.WithPermissions(map[rbac.Role][]rbac.Permission{role: perms}); err != nil {
		return nil, err
	}

	stored := make([]string, 0, len(perms))
	seen := make(map[rbac.Permission]struct{}, len(perms))
	for _, p := range perms {
		if _, ok := seen[p]; ok {
			continue
		}
		seen[p] = struct{}{}
		stored = append(stored, string(p))
	}

	o := &Override{
		Role:        string(role),
		Permissions: stored,
		UpdatedBy:   uuid.NullUUID{UUID: actor.ID, Valid: actor.ID != uuid.Nil},
		UpdatedAt:   time.Now().UTC(),
	}
	if err := s.repo.Upsert(ctx, o); err != nil {
		return nil, err
	}

	entry := activity.NewEntry(actor, activity.ActionRolePermissions, "role", string(role),
		s.registry.RolePermissions(role), stored)
	s.activity.Record(ctx, entry.WithReason(reason))

	return overrideResponse(o, s.isActive(o)), nil
}

// ResetPermissions drops the stored override of a role
func (s *Service) ResetPermissions(ctx context.Context, actor activity.Actor, name string) error {
	role, err := s.authorizeEdit(actor, name)
	if err != nil {
		return err
	}
	existing, err := s.repo.Get(ctx, string(role))
	if err != nil {
		return err
	}
	if existing == nil {
		return ErrOverrideNotFound
	}
	if err := s.repo.Delete(ctx, string(role)); err != nil {
		return err
	}

	s.activity.Record(ctx, activity.NewEntry(actor, activity.ActionRolePermissions, "role", string(role),
		[]string(existing.Permissions), nil).WithReason("reset to built-in permissions"))
	return nil
}
