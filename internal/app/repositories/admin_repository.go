package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/leemrnda21/hau-kiosk-registar/internal/app/models"
	"github.com/leemrnda21/hau-kiosk-registar/internal/pkg/apperrors"
)

// AdminRepository handles database operations for registrar staff accounts
type AdminRepository struct {
	db *pgxpool.Pool
}

// NewAdminRepository creates a new admin repository
func NewAdminRepository(db *pgxpool.Pool) *AdminRepository {
	return &AdminRepository{
		db: db,
	}
}

// GetByEmail retrieves an admin by email
func (r *AdminRepository) GetByEmail(ctx context.Context, email string) (*models.Admin, error) {
	query := `
		SELECT id, email, first_name, last_name, password_hash, role, last_login_at, created_at
		FROM admins
		WHERE email = $1
	`

	var admin models.Admin
	err := r.db.QueryRow(ctx, query, email).Scan(
		&admin.ID, &admin.Email, &admin.FirstName, &admin.LastName,
		&admin.PasswordHash, &admin.Role, &admin.LastLoginAt, &admin.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrAdminNotFound
		}
		return nil, fmt.Errorf("error retrieving admin: %w", err)
	}

	return &admin, nil
}

// Create inserts a new admin account
func (r *AdminRepository) Create(ctx context.Context, admin *models.Admin) error {
	query := `
		INSERT INTO admins (id, email, first_name, last_name, password_hash, role)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING created_at
	`

	err := r.db.QueryRow(ctx, query,
		admin.ID, admin.Email, admin.FirstName, admin.LastName,
		admin.PasswordHash, admin.Role,
	).Scan(&admin.CreatedAt)
	if err != nil {
		return fmt.Errorf("error creating admin: %w", err)
	}

	return nil
}

// ExistsByEmail checks whether an admin account already uses the email
func (r *AdminRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM admins WHERE email = $1)`, email).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("error checking admin email: %w", err)
	}
	return exists, nil
}

// TouchLastLogin records a successful sign-in
func (r *AdminRepository) TouchLastLogin(ctx context.Context, adminID string, at time.Time) error {
	_, err := r.db.Exec(ctx, `UPDATE admins SET last_login_at = $1 WHERE id = $2`, at, adminID)
	if err != nil {
		return fmt.Errorf("error recording admin login: %w", err)
	}
	return nil
}
