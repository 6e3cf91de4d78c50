package staff

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/cinevault/admin-api/internal/domain/activity"
	"github.com/cinevault/admin-api/internal/domain/rbac"
	"github.com/cinevault/admin-api/internal/middleware"
	"github.com/cinevault/admin-api/internal/pkg/logger"
	"github.com/cinevault/admin-api/internal/pkg/password"
)

// Recorder writes activity log entries
type Recorder interface {
	Record(ctx context.Context, e activity.Entry)
}

// Notifier tells staff members about changes to their own account
type Notifier interface {
	SendStaffWelcome(to, name, role string)
	SendRoleChanged(to, name, oldRole, newRole, reason string)
	SendAccountDeactivated(to, name string)
}

// Service handles staff account business logic
type Service struct {
	repo     Repository
	cache    *RoleCache
	activity Recorder
	registry *rbac.Registry
	notifier Notifier
}

// NewService creates staff service
func NewService(repo Repository, cache *RoleCache, recorder Recorder, registry *rbac.Registry) *Service {
	return &Service{
		repo:     repo,
		cache:    cache,
		activity: recorder,
		registry: registry,
	}
}

// WithNotifier enables account emails. Without one nothing is sent.
func (s *Service) WithNotifier(n Notifier) *Service {
	s.notifier = n
	return s
}

// displayName falls back to the role key for unregistered roles
func (s *Service) displayName(role rbac.Role) string {
	cfg, err := s.registry.Config(role)
	if err != nil || cfg.DisplayName == "" {
		return string(role)
	}
	return cfg.DisplayName
}

// Registry returns the role registry decisions are made against
func (s *Service) Registry() *rbac.Registry {
	return s.registry
}

// Login authenticates a staff member. Only roles on the admin panel
// allow-list may sign in.
func (s *Service) Login(ctx context.Context, email, pass, ip, userAgent string) (*Account, error) {
	acct, err := s.repo.GetByEmail(ctx, strings.TrimSpace(email))
	if err != nil {
		return nil, err
	}
	if acct == nil {
		password.VerifyDummy(pass)
		return nil, ErrInvalidCredentials
	}
	if !password.Verify(pass, acct.PasswordHash) {
		return nil, ErrInvalidCredentials
	}
	if !acct.IsActive {
		return nil, ErrAccountInactive
	}
	if !s.registry.Has(acct.Role) || !s.registry.CanAccessAdminPanel(acct.Role) {
		return nil, ErrPanelAccessDenied
	}

	if err := s.repo.UpdateLastLogin(ctx, acct.ID, ip); err != nil {
		return nil, err
	}
	s.cache.Set(ctx, acct)

	actor := activity.Actor{ID: acct.ID, Email: acct.Email, Role: string(acct.Role), IPAddress: ip, UserAgent: userAgent}
	s.activity.Record(ctx, activity.NewEntry(actor, activity.ActionStaffLogin, "staff", acct.ID.String(), nil, nil))

	return acct, nil
}

// ResolvePrincipal implements middleware.PrincipalResolver
func (s *Service) ResolvePrincipal(ctx context.Context, id uuid.UUID) (*middleware.Principal, error) {
	if cp, ok := s.cache.Get(ctx, id); ok {
		if !cp.IsActive {
			return nil, middleware.ErrPrincipalInactive
		}
		return &middleware.Principal{ID: id, Email: cp.Email, Role: cp.Role}, nil
	}

	acct, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if acct == nil {
		return nil, middleware.ErrPrincipalNotFound
	}
	s.cache.Set(ctx, acct)
	if !acct.IsActive {
		return nil, middleware.ErrPrincipalInactive
	}
	return &middleware.Principal{ID: acct.ID, Email: acct.Email, Role: acct.Role}, nil
}

// GetByID returns an account or ErrAccountNotFound
func (s *Service) GetByID(ctx context.Context, id uuid.UUID) (*Account, error) {
	acct, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if acct == nil {
		return nil, ErrAccountNotFound
	}
	return acct, nil
}

// List returns a page of staff accounts
func (s *Service) List(ctx context.Context, filter ListFilter) ([]*Account, int, error) {
	if filter.Limit <= 0 || filter.Limit > 100 {
		filter.Limit = 20
	}
	return s.repo.List(ctx, filter)
}

// canManage reports whether actorRole may administer accounts holding
// target. Unregistered roles never manage and are never managed.
func (s *Service) canManage(actorRole string, target rbac.Role) bool {
	manager := rbac.Role(actorRole)
	if !s.registry.Has(manager) || !s.registry.Has(target) {
		return false
	}
	return s.registry.CanManageRole(manager, target)
}

// authorize checks that actor may administer accounts holding every one of
// targets. An actor with an unregistered role gets rbac.ErrUnknownRole
// rather than a plain denial.
func (s *Service) authorize(ctx context.Context, actor activity.Actor, targets ...rbac.Role) error {
	if _, err := s.registry.ParseRole(actor.Role); err != nil {
		logger.LogWarn(ctx, "Staff mutation attempted with an unregistered role",
			"actor_id", actor.ID.String(),
			"role", actor.Role,
		)
		return err
	}
	for _, target := range targets {
		if !s.canManage(actor.Role, target) {
			return ErrCannotManageRole
		}
	}
	return nil
}

// ManageableRoles lists the roles role may assign, in registry order
func (s *Service) ManageableRoles(role rbac.Role) []rbac.Role {
	var out []rbac.Role
	for _, target := range s.registry.Roles() {
		if s.canManage(string(role), target) {
			out = append(out, target)
		}
	}
	return out
}

// Create registers a new staff account with a role the actor can manage
func (s *Service) Create(ctx context.Context, actor activity.Actor, req *CreateRequest) (*Account, error) {
	role, err := s.registry.ParseRole(req.Role)
	if err != nil {
		return nil, err
	}
	if err := s.authorize(ctx, actor, role); err != nil {
		return nil, err
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))
	existing, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrEmailTaken
	}

	hash, err := password.Hash(req.Password)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	acct := &Account{
		ID:           uuid.New(),
		Email:        email,
		PasswordHash: hash,
		Role:         role,
		Name:         strings.TrimSpace(req.Name),
		IsActive:     true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.repo.Create(ctx, acct); err != nil {
		return nil, err
	}

	s.activity.Record(ctx, activity.NewEntry(actor, activity.ActionStaffCreate, "staff", acct.ID.String(), nil, AccountResponseFromEntity(acct)))
	if s.notifier != nil {
		s.notifier.SendStaffWelcome(acct.Email, acct.Name, s.displayName(acct.Role))
	}
	return acct, nil
}

// ChangeRole moves target to newRole. The actor must be able to manage
// both the current and the new role.
func (s *Service) ChangeRole(ctx context.Context, actor activity.Actor, id uuid.UUID, newRole rbac.Role, reason string) (*Account, error) {
	if id == actor.ID {
		return nil, ErrSelfRoleChange
	}
	acct, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.authorize(ctx, actor, acct.Role, newRole); err != nil {
		return nil, err
	}
	if acct.Role == newRole {
		return acct, nil
	}

	oldRole := acct.Role
	acct.Role = newRole
	acct.UpdatedAt = time.Now().UTC()
	if err := s.repo.Update(ctx, acct); err != nil {
		return nil, err
	}
	s.cache.Invalidate(ctx, acct.ID)

	entry := activity.NewEntry(actor, activity.ActionStaffRoleChange, "staff", acct.ID.String(),
		map[string]rbac.Role{"role": oldRole},
		map[string]rbac.Role{"role": newRole},
	)
	s.activity.Record(ctx, entry.WithReason(reason))
	if s.notifier != nil {
		s.notifier.SendRoleChanged(acct.Email, acct.Name, s.displayName(oldRole), s.displayName(newRole), reason)
	}
	return acct, nil
}

// Update changes name or active flag. Staff may rename themselves but
// not deactivate themselves.
func (s *Service) Update(ctx context.Context, actor activity.Actor, id uuid.UUID, req *UpdateRequest) (*Account, error) {
	acct, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	self := id == actor.ID
	if self && req.IsActive != nil && !*req.IsActive {
		return nil, ErrSelfDeactivate
	}
	if !self {
		if err := s.authorize(ctx, actor, acct.Role); err != nil {
			return nil, err
		}
	}

	before := AccountResponseFromEntity(acct)
	wasActive := acct.IsActive
	if req.Name != nil {
		acct.Name = strings.TrimSpace(*req.Name)
	}
	if req.IsActive != nil {
		acct.IsActive = *req.IsActive
	}
	acct.UpdatedAt = time.Now().UTC()

	if err := s.repo.Update(ctx, acct); err != nil {
		return nil, err
	}
	s.cache.Invalidate(ctx, acct.ID)

	s.activity.Record(ctx, activity.NewEntry(actor, activity.ActionStaffUpdate, "staff", acct.ID.String(), before, AccountResponseFromEntity(acct)))
	if s.notifier != nil && wasActive && !acct.IsActive {
		s.notifier.SendAccountDeactivated(acct.Email, acct.Name)
	}
	return acct, nil
}

// Delete removes a staff account the actor can manage
func (s *Service) Delete(ctx context.Context, actor activity.Actor, id uuid.UUID) error {
	if id == actor.ID {
		return ErrSelfDelete
	}
	acct, err := s.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.authorize(ctx, actor, acct.Role); err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.cache.Invalidate(ctx, id)

	s.activity.Record(ctx, activity.NewEntry(actor, activity.ActionStaffDelete, "staff", id.String(), AccountResponseFromEntity(acct), nil))
	return nil
}
