package onboarding

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"intranet/internal/platform/querier"
)

var ErrTaskNotFound = errors.New("onboarding task not found")

type Store struct {
	DB querier.Querier
}

func NewStore(db querier.Querier) *Store {
	return &Store{DB: db}
}

func (s *Store) CreateTask(ctx context.Context, task Task) (string, error) {
	var id string
	err := s.DB.QueryRow(ctx, `
    INSERT INTO onboarding_tasks (title, description, category, sort_order, is_required)
    VALUES ($1, NULLIF($2, ''), NULLIF($3, ''), $4, $5)
    RETURNING id
  `, task.Title, task.Description, task.Category, task.SortOrder, task.IsRequired).Scan(&id)
	return id, err
}

func (s *Store) DeactivateTask(ctx context.Context, taskID string) error {
	tag, err := s.DB.Exec(ctx, "UPDATE onboarding_tasks SET is_active = false WHERE id = $1", taskID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrTaskNotFound
	}
	return nil
}

// ListForUser returns the active catalog in order, joined with the user's
// completion markers.
func (s *Store) ListForUser(ctx context.Context, userID string) ([]TaskProgress, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT t.id, t.title, COALESCE(t.description, ''), COALESCE(t.category, ''),
           t.sort_order, t.is_required, t.is_active, t.created_at,
           p.completed_at, COALESCE(p.notes, '')
    FROM onboarding_tasks t
    LEFT JOIN onboarding_progress p ON p.task_id = t.id AND p.user_id = $1
    WHERE t.is_active
    ORDER BY t.sort_order, t.title
  `, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []TaskProgress
	for rows.Next() {
		var tp TaskProgress
		if err := rows.Scan(&tp.ID, &tp.Title, &tp.Description, &tp.Category, &tp.SortOrder, &tp.IsRequired, &tp.IsActive, &tp.CreatedAt, &tp.CompletedAt, &tp.Notes); err != nil {
			return nil, err
		}
		out = append(out, tp)
	}
	return out, rows.Err()
}

// Complete records a completion marker once; repeating it refreshes notes
// without moving the original completion timestamp.
func (s *Store) Complete(ctx context.Context, userID, taskID, notes string) error {
	var exists bool
	err := s.DB.QueryRow(ctx, "SELECT EXISTS (SELECT 1 FROM onboarding_tasks WHERE id = $1 AND is_active)", taskID).Scan(&exists)
	if err != nil {
		return err
	}
	if !exists {
		return ErrTaskNotFound
	}

	_, err = s.DB.Exec(ctx, `
    INSERT INTO onboarding_progress (user_id, task_id, notes, completed_at)
    VALUES ($1, $2, NULLIF($3, ''), now())
    ON CONFLICT (user_id, task_id) DO UPDATE SET notes = EXCLUDED.notes
  `, userID, taskID, notes)
	return err
}

func (s *Store) Summary(ctx context.Context, userID string) (Summary, error) {
	var sum Summary
	err := s.DB.QueryRow(ctx, `
    SELECT COUNT(1),
           COUNT(p.completed_at),
           COUNT(1) FILTER (WHERE t.is_required)
    FROM onboarding_tasks t
    LEFT JOIN onboarding_progress p ON p.task_id = t.id AND p.user_id = $1
    WHERE t.is_active
  `, userID).Scan(&sum.Total, &sum.Completed, &sum.Required)
	return sum, err
}

func scanTask(row pgx.Row) (*Task, error) {
	var t Task
	err := row.Scan(&t.ID, &t.Title, &t.Description, &t.Category, &t.SortOrder, &t.IsRequired, &t.IsActive, &t.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrTaskNotFound
		}
		return nil, err
	}
	return &t, nil
}

func (s *Store) GetTask(ctx context.Context, taskID string) (*Task, error) {
	return scanTask(s.DB.QueryRow(ctx, `
    SELECT id, title, COALESCE(description, ''), COALESCE(category, ''), sort_order, is_required, is_active, created_at
    FROM onboarding_tasks
    WHERE id = $1
  `, taskID))
}
