package performance

import (
	"context"

	"intranet/internal/platform/querier"
)

type Store struct {
	DB querier.Querier
}

func NewStore(db querier.Querier) *Store {
	return &Store{DB: db}
}

func (s *Store) Create(ctx context.Context, review Review) (string, error) {
	var id string
	err := s.DB.QueryRow(ctx, `
    INSERT INTO performance_reviews (employee_id, reviewer_id, review_period, rating, feedback)
    VALUES ($1, $2, $3, $4, $5)
    RETURNING id
  `, review.EmployeeID, review.ReviewerID, review.ReviewPeriod, review.Rating, review.Feedback).Scan(&id)
	return id, err
}

func (s *Store) ListForEmployee(ctx context.Context, employeeID string) ([]Review, error) {
	return s.list(ctx, `
    SELECT id, employee_id, reviewer_id, review_period, rating, feedback, created_at
    FROM performance_reviews
    WHERE employee_id = $1
    ORDER BY created_at DESC, id
  `, employeeID)
}

func (s *Store) ListAll(ctx context.Context) ([]Review, error) {
	return s.list(ctx, `
    SELECT id, employee_id, reviewer_id, review_period, rating, feedback, created_at
    FROM performance_reviews
    ORDER BY created_at DESC, id
  `)
}

func (s *Store) list(ctx context.Context, query string, args ...any) ([]Review, error) {
	rows, err := s.DB.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Review
	for rows.Next() {
		var r Review
		if err := rows.Scan(&r.ID, &r.EmployeeID, &r.ReviewerID, &r.ReviewPeriod, &r.Rating, &r.Feedback, &r.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}
