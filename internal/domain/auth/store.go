package auth

import (
	"context"
	"time"

	"intranet/internal/platform/querier"
)

type Store struct {
	DB querier.Querier
}

func NewStore(db querier.Querier) *Store {
	return &Store{DB: db}
}

type AuthUser struct {
	ID           string
	Email        string
	PasswordHash string
	RoleName     string
	FullName     string
}

// FindActiveUserByEmail joins the credential row with the profile so the
// issued token carries the current role. A user without a profile yet gets
// the default employee role.
func (s *Store) FindActiveUserByEmail(ctx context.Context, email string) (AuthUser, error) {
	var out AuthUser
	err := s.DB.QueryRow(ctx, `
    SELECT u.id, u.email, u.password_hash, COALESCE(p.role, $2), COALESCE(p.full_name, '')
    FROM users u
    LEFT JOIN profiles p ON p.id = u.id
    WHERE u.email = $1 AND u.status = 'active'
  `, email, RoleEmployee).Scan(&out.ID, &out.Email, &out.PasswordHash, &out.RoleName, &out.FullName)
	return out, err
}

func (s *Store) CreateUser(ctx context.Context, email, passwordHash string) (string, error) {
	var id string
	err := s.DB.QueryRow(ctx, `
    INSERT INTO users (email, password_hash, status)
    VALUES ($1, $2, 'active')
    RETURNING id
  `, email, passwordHash).Scan(&id)
	return id, err
}

// Sessions are stored hashed. The sid claim inside a token is useless
// against the database without passing through HashToken first.
func (s *Store) CreateSession(ctx context.Context, userID, sessionID string, expires time.Time) error {
	_, err := s.DB.Exec(ctx, `
    INSERT INTO sessions (user_id, token_hash, expires_at)
    VALUES ($1, $2, $3)
  `, userID, HashToken(sessionID), expires)
	return err
}

func (s *Store) RevokeSession(ctx context.Context, sessionID string) error {
	_, err := s.DB.Exec(ctx, "UPDATE sessions SET revoked_at = now() WHERE token_hash = $1", HashToken(sessionID))
	return err
}

func (s *Store) SessionValid(ctx context.Context, sessionID string) (bool, error) {
	var count int
	if err := s.DB.QueryRow(ctx, `
    SELECT COUNT(1)
    FROM sessions
    WHERE token_hash = $1 AND expires_at > now() AND revoked_at IS NULL
  `, HashToken(sessionID)).Scan(&count); err != nil {
		return false, err
	}
	return count > 0, nil
}

func (s *Store) UpdateLastLogin(ctx context.Context, userID string) error {
	_, err := s.DB.Exec(ctx, "UPDATE users SET last_login = now() WHERE id = $1", userID)
	return err
}
