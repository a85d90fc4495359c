package content

import (
	"context"
	"errors"
	"time"

	"intranet/internal/platform/querier"
)

var ErrNotFound = errors.New("content not found")

type Store struct {
	DB querier.Querier
}

func NewStore(db querier.Querier) *Store {
	return &Store{DB: db}
}

func (s *Store) ListHolidays(ctx context.Context, from, to time.Time) ([]Holiday, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT id, date, name, COALESCE(description, ''), is_company_wide, COALESCE(created_by::text, ''), created_at
    FROM holidays
    WHERE ($1::date IS NULL OR date >= $1)
      AND ($2::date IS NULL OR date <= $2)
    ORDER BY date
  `, nullableDate(from), nullableDate(to))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Holiday
	for rows.Next() {
		var h Holiday
		if err := rows.Scan(&h.ID, &h.Date, &h.Name, &h.Description, &h.IsCompanyWide, &h.CreatedBy, &h.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, h)
	}
	return out, rows.Err()
}

func (s *Store) CreateHoliday(ctx context.Context, actorID string, h Holiday) (string, error) {
	var id string
	err := s.DB.QueryRow(ctx, `
    INSERT INTO holidays (date, name, description, is_company_wide, created_by)
    VALUES ($1, $2, NULLIF($3, ''), $4, $5)
    RETURNING id
  `, h.Date, h.Name, h.Description, h.IsCompanyWide, actorID).Scan(&id)
	return id, err
}

func (s *Store) DeleteHoliday(ctx context.Context, holidayID string) error {
	tag, err := s.DB.Exec(ctx, "DELETE FROM holidays WHERE id = $1", holidayID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *Store) ListCeoUpdates(ctx context.Context, featuredOnly bool, limit, offset int) ([]CeoUpdate, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT id, title, content, is_featured, COALESCE(created_by::text, ''), created_at, updated_at
    FROM ceo_updates
    WHERE NOT $1 OR is_featured
    ORDER BY created_at DESC, id
    LIMIT $2 OFFSET $3
  `, featuredOnly, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []CeoUpdate
	for rows.Next() {
		var u CeoUpdate
		if err := rows.Scan(&u.ID, &u.Title, &u.Content, &u.IsFeatured, &u.CreatedBy, &u.CreatedAt, &u.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, u)
	}
	return out, rows.Err()
}

func (s *Store) CreateCeoUpdate(ctx context.Context, actorID string, u CeoUpdate) (string, error) {
	var id string
	err := s.DB.QueryRow(ctx, `
    INSERT INTO ceo_updates (title, content, is_featured, created_by)
    VALUES ($1, $2, $3, $4)
    RETURNING id
  `, u.Title, u.Content, u.IsFeatured, actorID).Scan(&id)
	return id, err
}

func (s *Store) UpdateCeoUpdate(ctx context.Context, id string, u CeoUpdate) error {
	tag, err := s.DB.Exec(ctx, `
    UPDATE ceo_updates
    SET title = $2, content = $3, is_featured = $4, updated_at = now()
    WHERE id = $1
  `, id, u.Title, u.Content, u.IsFeatured)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *Store) DeleteCeoUpdate(ctx context.Context, id string) error {
	tag, err := s.DB.Exec(ctx, "DELETE FROM ceo_updates WHERE id = $1", id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *Store) ListHrPolicies(ctx context.Context, category string, activeOnly bool) ([]HrPolicy, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT id, title, content, COALESCE(category, ''), is_active, COALESCE(created_by::text, ''), created_at, updated_at
    FROM hr_policies
    WHERE ($1 = '' OR category = $1)
      AND (NOT $2 OR is_active)
    ORDER BY title, id
  `, category, activeOnly)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []HrPolicy
	for rows.Next() {
		var p HrPolicy
		if err := rows.Scan(&p.ID, &p.Title, &p.Content, &p.Category, &p.IsActive, &p.CreatedBy, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (s *Store) CreateHrPolicy(ctx context.Context, actorID string, p HrPolicy) (string, error) {
	var id string
	err := s.DB.QueryRow(ctx, `
    INSERT INTO hr_policies (title, content, category, created_by)
    VALUES ($1, $2, NULLIF($3, ''), $4)
    RETURNING id
  `, p.Title, p.Content, p.Category, actorID).Scan(&id)
	return id, err
}

func (s *Store) UpdateHrPolicy(ctx context.Context, id string, p HrPolicy) error {
	tag, err := s.DB.Exec(ctx, `
    UPDATE hr_policies
    SET title = $2, content = $3, category = NULLIF($4, ''), is_active = $5, updated_at = now()
    WHERE id = $1
  `, id, p.Title, p.Content, p.Category, p.IsActive)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *Store) DeleteHrPolicy(ctx context.Context, id string) error {
	tag, err := s.DB.Exec(ctx, "DELETE FROM hr_policies WHERE id = $1", id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func nullableDate(value time.Time) any {
	if value.IsZero() {
		return nil
	}
	return value
}
