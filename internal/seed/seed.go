package seed

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"

	appModels "github.com/leemrnda21/hau-kiosk-registar/internal/app/models"
	appRepos "github.com/leemrnda21/hau-kiosk-registar/internal/app/repositories"
	"github.com/leemrnda21/hau-kiosk-registar/internal/config"
	"github.com/leemrnda21/hau-kiosk-registar/internal/pkg/auth"
)

// CreateDefaultAdmin creates the bootstrap registrar account from environment
// variables if no account uses that email yet. Without ADMIN_PASSWORD the
// seed is skipped; a fresh install then has no way to sign in to the admin
// side, which is logged loudly.
func CreateDefaultAdmin(ctx context.Context, dbPool *pgxpool.Pool, lgr zerolog.Logger) error {
	adminRepo := appRepos.NewAdminRepository(dbPool)

	email := config.GetEnv("ADMIN_EMAIL", "registrar@hau.edu.ph")
	password := config.GetEnv("ADMIN_PASSWORD", "")

	if password == "" {
		lgr.Warn().Str("email", email).Msg("ADMIN_PASSWORD not set, skipping default admin seed")
		return nil
	}

	exists, err := adminRepo.ExistsByEmail(ctx, email)
	if err != nil {
		return fmt.Errorf("error checking for existing admin: %w", err)
	}
	if exists {
		lgr.Debug().Str("email", email).Msg("Default admin already present")
		return nil
	}

	passwordHash, err := auth.HashPassword(password)
	if err != nil {
		return fmt.Errorf("error hashing default admin password: %w", err)
	}

	admin := &appModels.Admin{
		ID:           uuid.New().String(),
		Email:        email,
		FirstName:    config.GetEnv("ADMIN_FIRST_NAME", "Registrar"),
		LastName:     config.GetEnv("ADMIN_LAST_NAME", "Admin"),
		PasswordHash: passwordHash,
		Role:         config.GetEnv("ADMIN_ROLE", "superadmin"),
	}

	if err := adminRepo.Create(ctx, admin); err != nil {
		return fmt.Errorf("error creating default admin: %w", err)
	}

	lgr.Info().Str("email", email).Msg("Default admin account created")
	return nil
}
