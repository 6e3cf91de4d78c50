package staff

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/cinevault/admin-api/internal/domain/activity"
	"github.com/cinevault/admin-api/internal/domain/rbac"
	"github.com/cinevault/admin-api/internal/middleware"
	"github.com/cinevault/admin-api/internal/pkg/password"
)

func init() {
	password.Cost = 4
}

type fakeRepo struct {
	mu       sync.Mutex
	accounts map[uuid.UUID]*Account
	getCalls int
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{accounts: map[uuid.UUID]*Account{}}
}

func (f *fakeRepo) Create(ctx context.Context, a *Account) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	cp := *a
	f.accounts[a.ID] = &cp
	return nil
}

func (f *fakeRepo) GetByID(ctx context.Context, id uuid.UUID) (*Account, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.getCalls++
	if a, ok := f.accounts[id]; ok {
		cp := *a
		return &cp, nil
	}
	return nil, nil
}

func (f *fakeRepo) GetByEmail(ctx context.Context, email string) (*Account, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, a := range f.accounts {
		if a.Email == email {
			cp := *a
			return &cp, nil
		}
	}
	return nil, nil
}

func (f *fakeRepo) List(ctx context.Context, filter ListFilter) ([]*Account, int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*Account
	for _, a := range f.accounts {
		if filter.Role != nil && a.Role != *filter.Role {
			continue
		}
		out = append(out, a)
	}
	return out, len(out), nil
}

func (f *fakeRepo) Update(ctx context.Context, a *Account) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.accounts[a.ID]; !ok {
		return ErrAccountNotFound
	}
	cp := *a
	f.accounts[a.ID] = &cp
	return nil
}

func (f *fakeRepo) UpdateLastLogin(ctx context.Context, id uuid.UUID, ip string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if a, ok := f.accounts[id]; ok {
		a.LastLoginIP.String, a.LastLoginIP.Valid = ip, true
	}
	return nil
}

func (f *fakeRepo) Delete(ctx context.Context, id uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.accounts[id]; !ok {
		return ErrAccountNotFound
	}
	delete(f.accounts, id)
	return nil
}

type fakeRecorder struct {
	entries []activity.Entry
}

func (f *fakeRecorder) Record(ctx context.Context, e activity.Entry) {
	f.entries = append(f.entries, e)
}

func (f *fakeRecorder) actions() []string {
	out := make([]string, len(f.entries))
	for i, e := range f.entries {
		out[i] = e.Action
	}
	return out
}

func seed(t *testing.T, repo *fakeRepo, email string, role rbac.Role, active bool) *Account {
	t.Helper()
	hash, err := password.Hash("correct-horse")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	a := &Account{
		ID:           uuid.New(),
		Email:        email,
		PasswordHash: hash,
		Role:         role,
		Name:         email,
		IsActive:     active,
		CreatedAt:    time.Now(),
		UpdatedAt:    time.Now(),
	}
	_ = repo.Create(context.Background(), a)
	return a
}

func actorOf(a *Account) activity.Actor {
	return activity.Actor{ID: a.ID, Email: a.Email, Role: string(a.Role)}
}

func newTestService() (*Service, *fakeRepo, *fakeRecorder) {
	repo := newFakeRepo()
	rec := &fakeRecorder{}
	return NewService(repo, nil, rec, rbac.Default()), repo, rec
}

func TestLogin(t *testing.T) {
	svc, repo, rec := newTestService()
	seed(t, repo, "mod@cinevault.tv", rbac.RoleModerator, true)
	seed(t, repo, "off@cinevault.tv", rbac.RoleTechAdmin, false)
	seed(t, repo, "creator@cinevault.tv", rbac.RoleCreator, true)

	tests := []struct {
		name    string
		email   string
		pass    string
		wantErr error
	}{
		{"ok", "mod@cinevault.tv", "correct-horse", nil},
		{"wrong password", "mod@cinevault.tv", "nope", ErrInvalidCredentials},
		{"unknown email", "ghost@cinevault.tv", "correct-horse", ErrInvalidCredentials},
		{"inactive", "off@cinevault.tv", "correct-horse", ErrAccountInactive},
		{"no panel access", "creator@cinevault.tv", "correct-horse", ErrPanelAccessDenied},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			acct, err := svc.Login(context.Background(), tt.email, tt.pass, "10.0.0.9", "test")
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("expected %v, got %v", tt.wantErr, err)
			}
			if tt.wantErr == nil && (acct == nil || acct.Role != rbac.RoleModerator) {
				t.Fatalf("unexpected account %+v", acct)
			}
		})
	}

	if got := rec.actions(); len(got) != 1 || got[0] != activity.ActionStaffLogin {
		t.Fatalf("expected a single login entry, got %v", got)
	}
}

func TestCreateRequiresManageableRole(t *testing.T) {
	svc, repo, rec := newTestService()
	tech := seed(t, repo, "tech@cinevault.tv", rbac.RoleTechAdmin, true)
	super := seed(t, repo, "root@cinevault.tv", rbac.RoleSuperAdmin, true)

	req := &CreateRequest{Email: "New@Cinevault.tv ", Password: "longenough", Name: "New", Role: string(rbac.RoleModerator)}
	acct, err := svc.Create(context.Background(), actorOf(tech), req)
	if err != nil {
		t.Fatalf("tech_admin should create moderator: %v", err)
	}
	if acct.Email != "new@cinevault.tv" || !acct.IsActive {
		t.Fatalf("unexpected account %+v", acct)
	}

	req = &CreateRequest{Email: "peer@cinevault.tv", Password: "longenough", Name: "Peer", Role: string(rbac.RoleTechAdmin)}
	if _, err := svc.Create(context.Background(), actorOf(tech), req); !errors.Is(err, ErrCannotManageRole) {
		t.Fatalf("equal level must be rejected, got %v", err)
	}

	req.Role = string(rbac.RoleSuperAdmin)
	if _, err := svc.Create(context.Background(), actorOf(super), req); err != nil {
		t.Fatalf("super_admin manages every role: %v", err)
	}

	req.Role = "ghost"
	if _, err := svc.Create(context.Background(), actorOf(super), req); !errors.Is(err, rbac.ErrUnknownRole) {
		t.Fatalf("expected ErrUnknownRole, got %v", err)
	}

	dup := &CreateRequest{Email: "new@cinevault.tv", Password: "longenough", Name: "Dup", Role: string(rbac.RoleViewer)}
	if _, err := svc.Create(context.Background(), actorOf(super), dup); !errors.Is(err, ErrEmailTaken) {
		t.Fatalf("expected ErrEmailTaken, got %v", err)
	}

	if len(rec.entries) != 2 {
		t.Fatalf("expected 2 create entries, got %v", rec.actions())
	}
}

func TestChangeRole(t *testing.T) {
	svc, repo, rec := newTestService()
	tech := seed(t, repo, "tech@cinevault.tv", rbac.RoleTechAdmin, true)
	mod := seed(t, repo, "mod@cinevault.tv", rbac.RoleModerator, true)
	finance := seed(t, repo, "fin@cinevault.tv", rbac.RoleFinance, true)
	super := seed(t, repo, "root@cinevault.tv", rbac.RoleSuperAdmin, true)

	acct, err := svc.ChangeRole(context.Background(), actorOf(tech), mod.ID, rbac.RoleContentManager, "rotation")
	if err != nil {
		t.Fatalf("change role: %v", err)
	}
	if acct.Role != rbac.RoleContentManager {
		t.Fatalf("role = %s", acct.Role)
	}
	last := rec.entries[len(rec.entries)-1]
	if last.Action != activity.ActionStaffRoleChange || string(last.OldValue) != `{"role":"moderator"}` || last.Reason.String != "rotation" {
		t.Fatalf("unexpected entry %+v", last)
	}

	// promoting to an equal level is not allowed
	if _, err := svc.ChangeRole(context.Background(), actorOf(tech), finance.ID, rbac.RoleTechAdmin, ""); !errors.Is(err, ErrCannotManageRole) {
		t.Fatalf("expected ErrCannotManageRole, got %v", err)
	}
	// finance cannot manage anybody
	if _, err := svc.ChangeRole(context.Background(), actorOf(finance), mod.ID, rbac.RoleViewer, ""); !errors.Is(err, ErrCannotManageRole) {
		t.Fatalf("expected ErrCannotManageRole, got %v", err)
	}
	// tech_admin cannot touch a super_admin
	if _, err := svc.ChangeRole(context.Background(), actorOf(tech), super.ID, rbac.RoleViewer, ""); !errors.Is(err, ErrCannotManageRole) {
		t.Fatalf("expected ErrCannotManageRole, got %v", err)
	}
	if _, err := svc.ChangeRole(context.Background(), actorOf(super), super.ID, rbac.RoleViewer, ""); !errors.Is(err, ErrSelfRoleChange) {
		t.Fatalf("expected ErrSelfRoleChange, got %v", err)
	}
	if _, err := svc.ChangeRole(context.Background(), actorOf(super), uuid.New(), rbac.RoleViewer, ""); !errors.Is(err, ErrAccountNotFound) {
		t.Fatalf("expected ErrAccountNotFound, got %v", err)
	}
}

func TestUpdateAndDelete(t *testing.T) {
	svc, repo, _ := newTestService()
	tech := seed(t, repo, "tech@cinevault.tv", rbac.RoleTechAdmin, true)
	analyst := seed(t, repo, "an@cinevault.tv", rbac.RoleAnalyst, true)

	name := "Renamed"
	if _, err := svc.Update(context.Background(), actorOf(analyst), analyst.ID, &UpdateRequest{Name: &name}); err != nil {
		t.Fatalf("self rename: %v", err)
	}
	off := false
	if _, err := svc.Update(context.Background(), actorOf(analyst), analyst.ID, &UpdateRequest{IsActive: &off}); !errors.Is(err, ErrSelfDeactivate) {
		t.Fatalf("expected ErrSelfDeactivate, got %v", err)
	}
	if _, err := svc.Update(context.Background(), actorOf(analyst), tech.ID, &UpdateRequest{Name: &name}); !errors.Is(err, ErrCannotManageRole) {
		t.Fatalf("expected ErrCannotManageRole, got %v", err)
	}
	acct, err := svc.Update(context.Background(), actorOf(tech), analyst.ID, &UpdateRequest{IsActive: &off})
	if err != nil || acct.IsActive {
		t.Fatalf("deactivate: %+v %v", acct, err)
	}

	if err := svc.Delete(context.Background(), actorOf(tech), tech.ID); !errors.Is(err, ErrSelfDelete) {
		t.Fatalf("expected ErrSelfDelete, got %v", err)
	}
	if err := svc.Delete(context.Background(), actorOf(tech), analyst.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := svc.GetByID(context.Background(), analyst.ID); !errors.Is(err, ErrAccountNotFound) {
		t.Fatalf("expected ErrAccountNotFound, got %v", err)
	}
}

func TestResolvePrincipal(t *testing.T) {
	svc, repo, _ := newTestService()
	mod := seed(t, repo, "mod@cinevault.tv", rbac.RoleModerator, true)
	off := seed(t, repo, "off@cinevault.tv", rbac.RoleModerator, false)

	p, err := svc.ResolvePrincipal(context.Background(), mod.ID)
	if err != nil || p.Role != rbac.RoleModerator || p.Email != mod.Email {
		t.Fatalf("resolve: %+v %v", p, err)
	}
	if _, err := svc.ResolvePrincipal(context.Background(), off.ID); !errors.Is(err, middleware.ErrPrincipalInactive) {
		t.Fatalf("expected ErrPrincipalInactive, got %v", err)
	}
	if _, err := svc.ResolvePrincipal(context.Background(), uuid.New()); !errors.Is(err, middleware.ErrPrincipalNotFound) {
		t.Fatalf("expected ErrPrincipalNotFound, got %v", err)
	}
}

func TestManageableRoles(t *testing.T) {
	svc, _, _ := newTestService()

	if got := svc.ManageableRoles(rbac.RoleFinance); len(got) != 0 {
		t.Fatalf("finance should manage nobody, got %v", got)
	}
	if got := svc.ManageableRoles(rbac.RoleSuperAdmin); len(got) != len(rbac.Default().Roles()) {
		t.Fatalf("super_admin should manage every role, got %v", got)
	}
	for _, r := range svc.ManageableRoles(rbac.RoleModerator) {
		if rbac.RoleLevel(r) >= rbac.RoleLevel(rbac.RoleModerator) {
			t.Fatalf("moderator should only manage lower levels, got %s", r)
		}
	}
}

type fakeNotifier struct {
	sent []string
}

func (f *fakeNotifier) SendStaffWelcome(to, name, role string) {
	f.sent = append(f.sent, "welcome:"+to+":"+role)
}

func (f *fakeNotifier) SendRoleChanged(to, name, oldRole, newRole, reason string) {
	f.sent = append(f.sent, "role:"+oldRole+"->"+newRole)
}

func (f *fakeNotifier) SendAccountDeactivated(to, name string) {
	f.sent = append(f.sent, "deactivated:"+to)
}

func TestNotifierReceivesAccountEvents(t *testing.T) {
	svc, repo, _ := newTestService()
	n := &fakeNotifier{}
	svc.WithNotifier(n)
	tech := seed(t, repo, "tech@cinevault.tv", rbac.RoleTechAdmin, true)

	req := &CreateRequest{Email: "mod@cinevault.tv", Password: "longenough", Name: "Mod", Role: string(rbac.RoleModerator)}
	mod, err := svc.Create(context.Background(), actorOf(tech), req)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := svc.ChangeRole(context.Background(), actorOf(tech), mod.ID, rbac.RoleAnalyst, ""); err != nil {
		t.Fatalf("change role: %v", err)
	}
	name := "Still Mod"
	if _, err := svc.Update(context.Background(), actorOf(tech), mod.ID, &UpdateRequest{Name: &name}); err != nil {
		t.Fatalf("rename: %v", err)
	}
	off := false
	if _, err := svc.Update(context.Background(), actorOf(tech), mod.ID, &UpdateRequest{IsActive: &off}); err != nil {
		t.Fatalf("deactivate: %v", err)
	}
	// already inactive, no second email
	if _, err := svc.Update(context.Background(), actorOf(tech), mod.ID, &UpdateRequest{IsActive: &off}); err != nil {
		t.Fatalf("deactivate again: %v", err)
	}

	want := []string{
		"welcome:mod@cinevault.tv:Moderator",
		"role:Moderator->Analyst",
		"deactivated:mod@cinevault.tv",
	}
	if len(n.sent) != len(want) {
		t.Fatalf("expected %v, got %v", want, n.sent)
	}
	for i := range want {
		if n.sent[i] != want[i] {
			t.Fatalf("expected %v, got %v", want, n.sent)
		}
	}
}

func TestUnregisteredActorRoleFailsFast(t *testing.T) {
	svc, repo, _ := newTestService()
	mod := seed(t, repo, "mod@cinevault.tv", rbac.RoleModerator, true)
	ghost := activity.Actor{ID: uuid.New(), Email: "ghost@cinevault.tv", Role: "ghost"}

	req := &CreateRequest{Email: "new@cinevault.tv", Password: "longenough", Name: "New", Role: string(rbac.RoleViewer)}
	if _, err := svc.Create(context.Background(), ghost, req); !errors.Is(err, rbac.ErrUnknownRole) {
		t.Fatalf("create: expected ErrUnknownRole, got %v", err)
	}
	if _, err := svc.ChangeRole(context.Background(), ghost, mod.ID, rbac.RoleViewer, ""); !errors.Is(err, rbac.ErrUnknownRole) {
		t.Fatalf("change role: expected ErrUnknownRole, got %v", err)
	}
	if err := svc.Delete(context.Background(), ghost, mod.ID); !errors.Is(err, rbac.ErrUnknownRole) {
		t.Fatalf("delete: expected ErrUnknownRole, got %v", err)
	}
}
