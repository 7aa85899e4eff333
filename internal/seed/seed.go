// Package seed provisions the fixed role set and the bootstrap Super Admin
// account after migrations run.
package seed

import (
	"context"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/edustack/portal/internal/app/models"
	"github.com/edustack/portal/internal/app/repositories"
	"github.com/edustack/portal/internal/config"
	pkgauth "github.com/edustack/portal/internal/pkg/auth"
	"github.com/edustack/portal/internal/pkg/logger"
)

// CreateDefaultData ensures the five roles exist and, when the seed section
// is configured, creates the initial Super Admin. All other Super Admins
// are created by an existing one through the API.
func CreateDefaultData(ctx context.Context, dbPool *pgxpool.Pool, cfg *config.Config) error {
	roleRepo := repositories.NewRoleRepository(dbPool)
	userRepo := repositories.NewUserRepository(dbPool)

	if err := roleRepo.EnsureAll(ctx); err != nil {
		return err
	}
	logger.Info().Msg("Role set ensured")

	email := strings.TrimSpace(cfg.Seed.SuperAdminEmail)
	password := cfg.Seed.SuperAdminPassword
	if email == "" || password == "" {
		logger.Debug().Msg("Super Admin seed not configured, skipping")
		return nil
	}

	exists, err := userRepo.ExistsByEmail(ctx, email)
	if err != nil {
		return err
	}
	if exists {
		logger.Debug().Str("email", email).Msg("Super Admin already present, skipping seed")
		return nil
	}

	role, err := roleRepo.GetByName(ctx, models.RoleSuperAdmin)
	if err != nil {
		return err
	}

	hash, err := pkgauth.HashPassword(password)
	if err != nil {
		return err
	}

	username := email
	if at := strings.Index(email, "@"); at > 0 {
		username = email[:at]
	}

	user := &models.User{
		Username:   username,
		Name:       "Super Admin",
		Email:      email,
		Password:   hash,
		RoleID:     role.ID,
		IsVerified: true,
		Role:       role,
	}
	if err := userRepo.Create(ctx, user); err != nil {
		return err
	}

	logger.Info().Str("email", email).Msg("Bootstrap Super Admin created")
	return nil
}
