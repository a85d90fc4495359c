package profile

import (
	"context"
	"errors"
	"strings"

	"intranet/internal/domain/auth"
)

type Service struct {
	store StoreAPI
}

func NewService(store StoreAPI) *Service {
	return &Service{store: store}
}

// Resolve returns the profile for an authenticated principal, provisioning one
// with the least-privilege employee role on first sight. The insert is
// conflict-free so concurrent first logins observe a single consistent row.
func (s *Service) Resolve(ctx context.Context, userID, email, fullName string) (*Profile, error) {
	existing, err := s.store.Get(ctx, userID)
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, ErrNotFound) {
		return nil, err
	}

	name := strings.TrimSpace(fullName)
	if name == "" {
		name = email
	}
	if err := s.store.Insert(ctx, userID, strings.ToLower(email), name, auth.RoleEmployee); err != nil {
		return nil, err
	}
	return s.store.Get(ctx, userID)
}

func (s *Service) Get(ctx context.Context, id string) (*Profile, error) {
	return s.store.Get(ctx, id)
}

func (s *Service) Directory(ctx context.Context, limit, offset int) ([]Profile, int, error) {
	return s.store.List(ctx, limit, offset)
}

func (s *Service) UpdateSelf(ctx context.Context, id string, update SelfUpdate) (*Profile, error) {
	update.FullName = strings.TrimSpace(update.FullName)
	if update.FullName == "" {
		current, err := s.store.Get(ctx, id)
		if err != nil {
			return nil, err
		}
		update.FullName = current.FullName
	}
	if err := s.store.UpdateSelf(ctx, id, update); err != nil {
		return nil, err
	}
	return s.store.Get(ctx, id)
}

// ChangeRoleResult distinguishes a real transition from an idempotent repeat
// so callers can audit only the former.
type ChangeRoleResult struct {
	Profile *Profile
	Changed bool
}

func (s *Service) ChangeRole(ctx context.Context, actor *Profile, targetID, newRole string) (ChangeRoleResult, error) {
	if actor == nil || !auth.CanChangeRole(actor.Role) {
		return ChangeRoleResult{}, ErrForbidden
	}
	if !auth.ValidRole(newRole) {
		return ChangeRoleResult{}, ErrInvalidRole
	}

	if _, err := s.store.Get(ctx, targetID); err != nil {
		return ChangeRoleResult{}, err
	}

	changed, err := s.store.UpdateRole(ctx, targetID, newRole)
	if err != nil {
		return ChangeRoleResult{}, err
	}

	updated, err := s.store.Get(ctx, targetID)
	if err != nil {
		return ChangeRoleResult{}, err
	}
	return ChangeRoleResult{Profile: updated, Changed: changed}, nil
}

func (s *Service) AssignManager(ctx context.Context, actor *Profile, targetID, managerID string) error {
	if actor == nil || !auth.CanChangeRole(actor.Role) {
		return ErrForbidden
	}
	if managerID != "" && managerID == targetID {
		return ErrInvalidManager
	}
	if managerID != "" {
		if _, err := s.store.Get(ctx, managerID); err != nil {
			return err
		}
	}
	return s.store.UpdateManager(ctx, targetID, managerID)
}

func (s *Service) SaveAvatar(ctx context.Context, id, contentType string, data []byte) error {
	return s.store.SaveAvatar(ctx, id, contentType, data)
}

func (s *Service) Avatar(ctx context.Context, id string) (*Avatar, error) {
	return s.store.GetAvatar(ctx, id)
}

func (s *Service) ReviewerIDs(ctx context.Context) ([]string, error) {
	return s.store.ReviewerIDs(ctx)
}
