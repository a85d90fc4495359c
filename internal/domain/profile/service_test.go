package profile

import (
	"context"
	"testing"
	"time"

	"intranet/internal/domain/auth"
)

type fakeStore struct {
	profiles    map[string]*Profile
	roleUpdates int
}

func newFakeStore() *fakeStore {
	return &fakeStore{profiles: map[string]*Profile{}}
}

func (f *fakeStore) Get(ctx context.Context, id string) (*Profile, error) {
	p, ok := f.profiles[id]
	if !ok {
		return nil, ErrNotFound
	}
	copied := *p
	return &copied, nil
}

func (f *fakeStore) Insert(ctx context.Context, id, email, fullName, role string) error {
	if _, ok := f.profiles[id]; ok {
		return nil
	}
	now := time.Now()
	f.profiles[id] = &Profile{ID: id, Email: email, FullName: fullName, Role: role, JoinDate: &now, CreatedAt: now, UpdatedAt: now}
	return nil
}

func (f *fakeStore) List(ctx context.Context, limit, offset int) ([]Profile, int, error) {
	var out []Profile
	for _, p := range f.profiles {
		out = append(out, *p)
	}
	return out, len(out), nil
}

func (f *fakeStore) UpdateSelf(ctx context.Context, id string, update SelfUpdate) error {
	p, ok := f.profiles[id]
	if !ok {
		return ErrNotFound
	}
	p.FullName = update.FullName
	p.Department = update.Department
	p.Position = update.Position
	return nil
}

func (f *fakeStore) UpdateRole(ctx context.Context, id, role string) (bool, error) {
	p, ok := f.profiles[id]
	if !ok || p.Role == role {
		return false, nil
	}
	p.Role = role
	f.roleUpdates++
	return true, nil
}

func (f *fakeStore) UpdateManager(ctx context.Context, id, managerID string) error {
	p, ok := f.profiles[id]
	if !ok {
		return ErrNotFound
	}
	p.ManagerID = managerID
	return nil
}

func (f *fakeStore) SaveAvatar(ctx context.Context, id, contentType string, data []byte) error {
	return nil
}

func (f *fakeStore) GetAvatar(ctx context.Context, id string) (*Avatar, error) {
	return nil, ErrNotFound
}

func (f *fakeStore) ReviewerIDs(ctx context.Context) ([]string, error) {
	var ids []string
	for id, p := range f.profiles {
		if auth.CanReview(p.Role) {
			ids = append(ids, id)
		}
	}
	return ids, nil
}

func TestResolveProvisionsEmployeeOnFirstSight(t *testing.T) {
	store := newFakeStore()
	svc := NewService(store)

	p, err := svc.Resolve(context.Background(), "u1", "New.Hire@techcorp.com", "New Hire")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.Role != auth.RoleEmployee {
		t.Fatalf("expected default employee role, got %s", p.Role)
	}
	if p.Email != "new.hire@techcorp.com" {
		t.Fatalf("expected normalized email, got %s", p.Email)
	}
	if p.Department != "" || p.Position != "" {
		t.Fatalf("expected department and position unset, got %+v", p)
	}
}

func TestResolveReturnsExistingProfileUnchanged(t *testing.T) {
	store := newFakeStore()
	store.profiles["u1"] = &Profile{ID: "u1", Email: "lead@techcorp.com", FullName: "Team Lead", Role: auth.RoleManager}
	svc := NewService(store)

	p, err := svc.Resolve(context.Background(), "u1", "lead@techcorp.com", "Renamed")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.Role != auth.RoleManager || p.FullName != "Team Lead" {
		t.Fatalf("expected stored profile unchanged, got %+v", p)
	}
}

func TestChangeRoleIsIdempotent(t *testing.T) {
	store := newFakeStore()
	store.profiles["hr1"] = &Profile{ID: "hr1", Role: auth.RoleHR}
	store.profiles["u1"] = &Profile{ID: "u1", Role: auth.RoleEmployee}
	svc := NewService(store)
	actor := &Profile{ID: "hr1", Role: auth.RoleHR}

	first, err := svc.ChangeRole(context.Background(), actor, "u1", auth.RoleManager)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !first.Changed || first.Profile.Role != auth.RoleManager {
		t.Fatalf("expected role change, got %+v", first)
	}

	second, err := svc.ChangeRole(context.Background(), actor, "u1", auth.RoleManager)
	if err != nil {
		t.Fatalf("expected no-op success, got %v", err)
	}
	if second.Changed {
		t.Fatal("expected second identical change to be a no-op")
	}
	if store.roleUpdates != 1 {
		t.Fatalf("expected exactly one role write, got %d", store.roleUpdates)
	}
}

func TestChangeRoleDeniedForEmployee(t *testing.T) {
	store := newFakeStore()
	store.profiles["u1"] = &Profile{ID: "u1", Role: auth.RoleEmployee}
	store.profiles["u2"] = &Profile{ID: "u2", Role: auth.RoleEmployee}
	svc := NewService(store)

	_, err := svc.ChangeRole(context.Background(), &Profile{ID: "u1", Role: auth.RoleEmployee}, "u2", auth.RoleManager)
	if err != ErrForbidden {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
	if store.profiles["u2"].Role != auth.RoleEmployee {
		t.Fatal("denied change must not mutate state")
	}
}

func TestChangeRoleRejectsUnknownRole(t *testing.T) {
	store := newFakeStore()
	store.profiles["hr1"] = &Profile{ID: "hr1", Role: auth.RoleHR}
	store.profiles["u1"] = &Profile{ID: "u1", Role: auth.RoleEmployee}
	svc := NewService(store)

	_, err := svc.ChangeRole(context.Background(), &Profile{ID: "hr1", Role: auth.RoleHR}, "u1", "superuser")
	if err != ErrInvalidRole {
		t.Fatalf("expected ErrInvalidRole, got %v", err)
	}
}

func TestAssignManagerRejectsSelf(t *testing.T) {
	store := newFakeStore()
	store.profiles["u1"] = &Profile{ID: "u1", Role: auth.RoleEmployee}
	svc := NewService(store)

	err := svc.AssignManager(context.Background(), &Profile{ID: "hr1", Role: auth.RoleHR}, "u1", "u1")
	if err != ErrInvalidManager {
		t.Fatalf("expected ErrInvalidManager, got %v", err)
	}
}
