package db

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5/pgxpool"

	"timetrack/internal/domain/employee"
	"timetrack/internal/platform/clock"
	"timetrack/internal/platform/config"
)

// Seed ensures the configured admin account exists. It is a no-op when no
// seed email is configured or the account is already present.
func Seed(ctx context.Context, pool *pgxpool.Pool, cfg config.Config) error {
	if cfg.SeedAdminEmail == "" {
		return nil
	}

	store := employee.NewStore(pool)
	if _, err := store.GetByEmail(ctx, cfg.SeedAdminEmail); err == nil {
		return nil
	} else if !errors.Is(err, employee.ErrNotFound) {
		return err
	}

	service := employee.NewService(store, clock.System{})
	_, err := service.Create(ctx, employee.CreateInput{
		Name:        cfg.SeedAdminName,
		Department:  employee.DepartmentHR,
		Email:       cfg.SeedAdminEmail,
		IDCard:      cfg.SeedAdminIDCard,
		PhoneNumber: cfg.SeedAdminPhone,
		Role:        employee.RoleAdmin,
	})
	return err
}
