package repositories

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Querier is satisfied by both *pgxpool.Pool and pgx.Tx, so writes that must
// land together with their audit entry can run on a caller-owned transaction.
type Querier interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Repositories holds all the repository instances
type Repositories struct {
	StudentRepository            *StudentRepository
	RequestRepository            *RequestRepository
	AdminRepository              *AdminRepository
	AuditLogRepository           *AuditLogRepository
	PasswordResetTokenRepository *PasswordResetTokenRepository
}

// NewRepositories initializes all repositories
func NewRepositories(db *pgxpool.Pool) *Repositories {
	return &Repositories{
		StudentRepository:            NewStudentRepository(db),
		RequestRepository:            NewRequestRepository(db),
		AdminRepository:              NewAdminRepository(db),
		AuditLogRepository:           NewAuditLogRepository(db),
		PasswordResetTokenRepository: NewPasswordResetTokenRepository(db),
	}
}
