package leave

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"intranet/internal/platform/querier"
)

type Store struct {
	DB querier.Querier
}

func NewStore(db querier.Querier) *Store {
	return &Store{DB: db}
}

const requestColumns = `
    id, user_id, leave_type, start_date, end_date,
    COALESCE(reason, ''), status,
    COALESCE(reviewer_id::text, ''), reviewed_at, COALESCE(reviewer_comments, ''),
    created_at
`

func scanRequest(row pgx.Row) (*LeaveRequest, error) {
	var r LeaveRequest
	err := row.Scan(&r.ID, &r.UserID, &r.LeaveType, &r.StartDate, &r.EndDate, &r.Reason, &r.Status, &r.ReviewerID, &r.ReviewedAt, &r.ReviewerComments, &r.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &r, nil
}

func (s *Store) Create(ctx context.Context, userID string, sub Submission) (*LeaveRequest, error) {
	return scanRequest(s.DB.QueryRow(ctx, `
    INSERT INTO leave_requests (user_id, leave_type, start_date, end_date, reason, status)
    VALUES ($1, $2, $3, $4, NULLIF($5, ''), $6)
    RETURNING `+requestColumns+`
  `, userID, sub.LeaveType, sub.StartDate, sub.EndDate, sub.Reason, StatusPending))
}

func (s *Store) Get(ctx context.Context, id string) (*LeaveRequest, error) {
	return scanRequest(s.DB.QueryRow(ctx, `
    SELECT `+requestColumns+`
    FROM leave_requests
    WHERE id = $1
  `, id))
}

func (s *Store) ListByOwner(ctx context.Context, userID string) ([]LeaveRequest, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT `+requestColumns+`
    FROM leave_requests
    WHERE user_id = $1
    ORDER BY created_at DESC, id
  `, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []LeaveRequest
	for rows.Next() {
		r, err := scanRequest(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *r)
	}
	return out, rows.Err()
}

func (s *Store) List(ctx context.Context, status string, limit, offset int) ([]LeaveRequest, int, error) {
	countQuery := "SELECT COUNT(1) FROM leave_requests"
	query := `
    SELECT ` + requestColumns + `
    FROM leave_requests
  `
	args := []any{}
	if status != "" {
		countQuery += " WHERE status = $1"
		query += " WHERE status = $1"
		args = append(args, status)
	}

	var total int
	if err := s.DB.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query += " ORDER BY created_at DESC, id"
	limitPos := len(args) + 1
	offsetPos := len(args) + 2
	query += fmt.Sprintf(" LIMIT $%d OFFSET $%d", limitPos, offsetPos)
	args = append(args, limit, offset)

	rows, err := s.DB.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var out []LeaveRequest
	for rows.Next() {
		r, err := scanRequest(rows)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, *r)
	}
	return out, total, rows.Err()
}

// Transition is the compare-and-swap that keeps reviews exactly-once: the
// write is conditioned on the row still being pending, never read-then-write.
func (s *Store) Transition(ctx context.Context, id, status, reviewerID, comments string) (bool, error) {
	tag, err := s.DB.Exec(ctx, `
    UPDATE leave_requests
    SET status = $2, reviewer_id = $3, reviewed_at = now(), reviewer_comments = NULLIF($4, '')
    WHERE id = $1 AND status = $5
  `, id, status, reviewerID, comments, StatusPending)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}
