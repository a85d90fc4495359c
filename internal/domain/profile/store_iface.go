package profile

import "context"

type StoreAPI interface {
	Get(ctx context.Context, id string) (*Profile, error)
	Insert(ctx context.Context, id, email, fullName, role string) error
	List(ctx context.Context, limit, offset int) ([]Profile, int, error)
	UpdateSelf(ctx context.Context, id string, update SelfUpdate) error
	UpdateRole(ctx context.Context, id, role string) (bool, error)
	UpdateManager(ctx context.Context, id, managerID string) error
	SaveAvatar(ctx context.Context, id, contentType string, data []byte) error
	GetAvatar(ctx context.Context, id string) (*Avatar, error)
	ReviewerIDs(ctx context.Context) ([]string, error)
}
