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

// PasswordResetTokenRepository handles database operations for reset tokens
type PasswordResetTokenRepository struct {
	db *pgxpool.Pool
}

// NewPasswordResetTokenRepository creates a new password reset token repository
func NewPasswordResetTokenRepository(db *pgxpool.Pool) *PasswordResetTokenRepository {
	return &PasswordResetTokenRepository{
		db: db,
	}
}

// Create inserts a new reset token record
func (r *PasswordResetTokenRepository) Create(ctx context.Context, token *models.PasswordResetToken) error {
	query := `
		INSERT INTO password_reset_tokens (id, student_id, token_hash, expires_at, ip, user_agent)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING created_at
	`

	err := r.db.QueryRow(ctx, query,
		token.ID, token.StudentID, token.TokenHash, token.ExpiresAt,
		token.IP, token.UserAgent,
	).Scan(&token.CreatedAt)
	if err != nil {
		return fmt.Errorf("error creating reset token: %w", err)
	}

	return nil
}

// LatestForStudent retrieves the most recently issued token for a student,
// used to throttle repeated reset requests. Returns nil when none exist.
func (r *PasswordResetTokenRepository) LatestForStudent(ctx context.Context, studentID string) (*models.PasswordResetToken, error) {
	query := `
		SELECT id, student_id, token_hash, expires_at, used_at, ip, user_agent, created_at
		FROM password_reset_tokens
		WHERE student_id = $1
		ORDER BY created_at DESC
		LIMIT 1
	`

	token, err := scanResetToken(r.db.QueryRow(ctx, query, studentID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("error retrieving latest reset token: %w", err)
	}

	return token, nil
}

// GetByHash retrieves a token by its SHA-256 hash
func (r *PasswordResetTokenRepository) GetByHash(ctx context.Context, tokenHash string) (*models.PasswordResetToken, error) {
	query := `
		SELECT id, student_id, token_hash, expires_at, used_at, ip, user_agent, created_at
		FROM password_reset_tokens
		WHERE token_hash = $1
	`

	token, err := scanResetToken(r.db.QueryRow(ctx, query, tokenHash))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrResetTokenNotFound
		}
		return nil, fmt.Errorf("error retrieving reset token: %w", err)
	}

	return token, nil
}

// MarkUsed consumes a token. It takes a Querier so consumption lands in the
// same transaction as the password change.
func (r *PasswordResetTokenRepository) MarkUsed(ctx context.Context, q Querier, tokenID string, at time.Time) error {
	cmdTag, err := q.Exec(ctx,
		`UPDATE password_reset_tokens SET used_at = $1 WHERE id = $2 AND used_at IS NULL`,
		at, tokenID,
	)
	if err != nil {
		return fmt.Errorf("error marking reset token used: %w", err)
	}

	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrResetTokenUsed
	}

	return nil
}

func scanResetToken(row pgx.Row) (*models.PasswordResetToken, error) {
	var token models.PasswordResetToken
	err := row.Scan(
		&token.ID, &token.StudentID, &token.TokenHash, &token.ExpiresAt,
		&token.UsedAt, &token.IP, &token.UserAgent, &token.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &token, nil
}
