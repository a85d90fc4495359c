package profile

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"intranet/internal/domain/auth"
	"intranet/internal/platform/querier"
)

type Store struct {
	DB querier.Querier
}

func NewStore(db querier.Querier) *Store {
	return &Store{DB: db}
}

const profileColumns = `
    p.id,
    p.email,
    p.full_name,
    p.role,
    COALESCE(p.department, ''),
    COALESCE(p.position, ''),
    COALESCE(p.manager_id::text, ''),
    p.join_date,
    p.created_at,
    p.updated_at,
    EXISTS (SELECT 1 FROM avatars a WHERE a.user_id = p.id)
`

func scanProfile(row pgx.Row) (*Profile, error) {
	var p Profile
	var hasAvatar bool
	err := row.Scan(&p.ID, &p.Email, &p.FullName, &p.Role, &p.Department, &p.Position, &p.ManagerID, &p.JoinDate, &p.CreatedAt, &p.UpdatedAt, &hasAvatar)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if hasAvatar {
		p.AvatarURL = "/api/v1/profiles/" + p.ID + "/avatar"
	}
	return &p, nil
}

func (s *Store) Get(ctx context.Context, id string) (*Profile, error) {
	return scanProfile(s.DB.QueryRow(ctx, `
    SELECT `+profileColumns+`
    FROM profiles p
    WHERE p.id = $1
  `, id))
}

// Insert provisions a profile exactly once; concurrent first logins converge
// on the row created by whichever insert won.
func (s *Store) Insert(ctx context.Context, id, email, fullName, role string) error {
	_, err := s.DB.Exec(ctx, `
    INSERT INTO profiles (id, email, full_name, role, join_date)
    VALUES ($1, $2, $3, $4, CURRENT_DATE)
    ON CONFLICT (id) DO NOTHING
  `, id, email, fullName, role)
	return err
}

func (s *Store) List(ctx context.Context, limit, offset int) ([]Profile, int, error) {
	var total int
	if err := s.DB.QueryRow(ctx, "SELECT COUNT(1) FROM profiles").Scan(&total); err != nil {
		return nil, 0, err
	}

	rows, err := s.DB.Query(ctx, `
    SELECT `+profileColumns+`
    FROM profiles p
    ORDER BY p.full_name, p.id
    LIMIT $1 OFFSET $2
  `, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var out []Profile
	for rows.Next() {
		p, err := scanProfile(rows)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, *p)
	}
	return out, total, rows.Err()
}

func (s *Store) UpdateSelf(ctx context.Context, id string, update SelfUpdate) error {
	tag, err := s.DB.Exec(ctx, `
    UPDATE profiles
    SET full_name = $2, department = NULLIF($3, ''), position = NULLIF($4, ''), updated_at = now()
    WHERE id = $1
  `, id, update.FullName, update.Department, update.Position)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// UpdateRole reports whether the role actually changed so the caller can keep
// the operation idempotent.
func (s *Store) UpdateRole(ctx context.Context, id, role string) (bool, error) {
	tag, err := s.DB.Exec(ctx, `
    UPDATE profiles
    SET role = $2, updated_at = now()
    WHERE id = $1 AND role <> $2
  `, id, role)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

func (s *Store) UpdateManager(ctx context.Context, id, managerID string) error {
	tag, err := s.DB.Exec(ctx, `
    UPDATE profiles
    SET manager_id = NULLIF($2, '')::uuid, updated_at = now()
    WHERE id = $1
  `, id, managerID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *Store) SaveAvatar(ctx context.Context, id, contentType string, data []byte) error {
	_, err := s.DB.Exec(ctx, `
    INSERT INTO avatars (user_id, content_type, data)
    VALUES ($1, $2, $3)
    ON CONFLICT (user_id) DO UPDATE SET content_type = EXCLUDED.content_type, data = EXCLUDED.data, updated_at = now()
  `, id, contentType, data)
	return err
}

func (s *Store) GetAvatar(ctx context.Context, id string) (*Avatar, error) {
	var a Avatar
	err := s.DB.QueryRow(ctx, `
    SELECT content_type, data, updated_at
    FROM avatars
    WHERE user_id = $1
  `, id).Scan(&a.ContentType, &a.Data, &a.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &a, nil
}

func (s *Store) ReviewerIDs(ctx context.Context) ([]string, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT id
    FROM profiles
    WHERE role = ANY($1)
  `, []string{auth.RoleHR, auth.RoleManager, auth.RoleCEO, auth.RoleAdmin})
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}
