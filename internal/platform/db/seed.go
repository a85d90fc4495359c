package db

import (
	"context"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"intranet/internal/domain/auth"
	"intranet/internal/platform/config"
)

// Seed provisions the first admin account and the default onboarding catalog.
// It is idempotent and safe to run on every boot.
func Seed(ctx context.Context, pool *pgxpool.Pool, cfg config.Config) error {
	if cfg.SeedAdminEmail != "" {
		if err := ensureAdminUser(ctx, pool, cfg); err != nil {
			return err
		}
	}
	return ensureOnboardingTasks(ctx, pool)
}

func ensureAdminUser(ctx context.Context, pool *pgxpool.Pool, cfg config.Config) error {
	email := strings.ToLower(strings.TrimSpace(cfg.SeedAdminEmail))

	var id string
	err := pool.QueryRow(ctx, "SELECT id FROM users WHERE email = $1", email).Scan(&id)
	if err == nil {
		return nil
	}

	hash, err := auth.HashPassword(cfg.SeedAdminPassword)
	if err != nil {
		return err
	}

	if err := pool.QueryRow(ctx, `
    INSERT INTO users (email, password_hash, status)
    VALUES ($1, $2, 'active')
    RETURNING id
  `, email, hash).Scan(&id); err != nil {
		return err
	}

	_, err = pool.Exec(ctx, `
    INSERT INTO profiles (id, email, full_name, role, join_date)
    VALUES ($1, $2, $3, $4, $5)
    ON CONFLICT (id) DO NOTHING
  `, id, email, cfg.SeedAdminName, auth.RoleAdmin, time.Now().UTC())
	return err
}

func ensureOnboardingTasks(ctx context.Context, pool *pgxpool.Pool) error {
	tasks := []struct {
		title    string
		desc     string
		category string
		order    int
		required bool
	}{
		{"Complete your profile", "Add your department, position and a profile photo.", "profile", 1, true},
		{"Read the employee handbook", "Review the HR policies published on the portal.", "policy", 2, true},
		{"Meet your manager", "Schedule an introduction with your assigned manager.", "people", 3, true},
		{"Set up payroll details", "Submit your banking details to HR.", "admin", 4, true},
		{"Join the company all-hands", "Attend the next monthly all-hands meeting.", "people", 5, false},
	}

	for _, task := range tasks {
		if _, err := pool.Exec(ctx, `
      INSERT INTO onboarding_tasks (title, description, category, sort_order, is_required)
      VALUES ($1, $2, $3, $4, $5)
      ON CONFLICT (title) DO NOTHING
    `, task.title, task.desc, task.category, task.order, task.required); err != nil {
			return err
		}
	}
	return nil
}
