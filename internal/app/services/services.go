// Package services holds the business logic between the HTTP controllers and
// the repositories.
//
// Services defined in this package:
//   - RequestService: document request submission and queue actions
//   - StudentService: student account approval and standing actions
//   - AuthService: registration, login, enrollment and password reset
//   - AuditService: the append-only action trail
//   - OverviewService: registrar dashboard counters
//
// Each service declares the narrow store interfaces it needs so tests can
// substitute in-memory fakes for the pgx-backed repositories.
package services

import (
	"context"
	"time"

	"github.com/leemrnda21/hau-kiosk-registar/internal/app/models"
	"github.com/leemrnda21/hau-kiosk-registar/internal/app/models/dto"
	"github.com/leemrnda21/hau-kiosk-registar/internal/app/repositories"
	"github.com/leemrnda21/hau-kiosk-registar/internal/db"
)

// txRunner runs a function inside a database transaction. Implemented by
// db.PostgresDB.
type txRunner interface {
	WithTransaction(ctx context.Context, fn db.TransactionFn) error
}

// studentStore is the slice of StudentRepository the services depend on.
type studentStore interface {
	Create(ctx context.Context, student *models.Student) error
	GetByID(ctx context.Context, id string) (*models.Student, error)
	GetByEmail(ctx context.Context, email string) (*models.Student, error)
	GetByStudentNo(ctx context.Context, studentNo string) (*models.Student, error)
	List(ctx context.Context, filter dto.StudentListFilter) ([]*models.Student, error)
	Update(ctx context.Context, q repositories.Querier, student *models.Student) error
	MarkEnrolled(ctx context.Context, studentNo string) error
	UpdatePassword(ctx context.Context, q repositories.Querier, studentID, passwordHash string) error
	CountByStatus(ctx context.Context, status models.StudentStatus) (int, error)
}

// requestStore is the slice of RequestRepository the services depend on.
type requestStore interface {
	Create(ctx context.Context, q repositories.Querier, req *models.DocumentRequest) error
	GetByID(ctx context.Context, id string) (*models.DocumentRequest, error)
	List(ctx context.Context, filter dto.RequestListFilter) ([]*models.DocumentRequest, error)
	ListRecent(ctx context.Context, limit int) ([]*models.DocumentRequest, error)
	ListByStudent(ctx context.Context, studentID, referenceNo string) ([]*models.DocumentRequest, error)
	Update(ctx context.Context, q repositories.Querier, req *models.DocumentRequest) error
	StatusCountsForStudent(ctx context.Context, studentID string) (dto.StatusCounts, error)
	CountByStatus(ctx context.Context, status models.RequestStatus) (int, error)
	CountByStatusSince(ctx context.Context, status models.RequestStatus, since time.Time) (int, error)
}

// auditStore is the slice of AuditLogRepository the services depend on.
type auditStore interface {
	Insert(ctx context.Context, q repositories.Querier, entry *models.AuditLog) error
	List(ctx context.Context, limit int) ([]*models.AuditLog, error)
}

// eventPublisher pushes change hints to connected clients.
type eventPublisher interface {
	Publish(eventType string, payload interface{})
}
