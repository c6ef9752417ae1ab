package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"

	"github.com/leemrnda21/hau-kiosk-registar/internal/app/models"
	"github.com/leemrnda21/hau-kiosk-registar/internal/app/models/dto"
	"github.com/leemrnda21/hau-kiosk-registar/internal/app/status"
	"github.com/leemrnda21/hau-kiosk-registar/internal/pkg/apperrors"
	"github.com/leemrnda21/hau-kiosk-registar/internal/pkg/events"
)

// StudentService handles registrar actions against student accounts
type StudentService struct {
	studentRepo studentStore
	auditRepo   auditStore
	tx          txRunner
	broker      eventPublisher
	logger      zerolog.Logger
}

// NewStudentService creates a new StudentService
func NewStudentService(
	studentRepo studentStore,
	auditRepo auditStore,
	tx txRunner,
	broker eventPublisher,
	logger zerolog.Logger,
) *StudentService {
	return &StudentService{
		studentRepo: studentRepo,
		auditRepo:   auditRepo,
		tx:          tx,
		broker:      broker,
		logger:      logger,
	}
}

// ApplyAction runs one registrar action against a student account. The row
// update and its audit entry commit together.
func (s *StudentService) ApplyAction(ctx context.Context, studentID string, actorEmail *string, body dto.StudentActionRequest) (*models.Student, error) {
	action, err := status.ParseStudentAction(body.Action)
	if err != nil {
		return nil, err
	}

	params, err := actionParams(body.Reason, body.HoldUntil)
	if err != nil {
		return nil, err
	}

	current, err := s.studentRepo.GetByID(ctx, studentID)
	if err != nil {
		return nil, err
	}

	updated := status.ApplyStudentAction(*current, action, params, time.Now())

	entry := &models.AuditLog{
		ID:         uuid.New().String(),
		ActorEmail: actorEmail,
		Action:     action.String(),
		EntityType: models.AuditEntityStudent,
		EntityID:   updated.ID,
		Reason:     params.Reason,
		Metadata: map[string]interface{}{
			"studentNo": updated.StudentNo,
			"status":    string(updated.Status),
		},
	}

	err = s.tx.WithTransaction(ctx, func(ctx context.Context, tx pgx.Tx) error {
		if err := s.studentRepo.Update(ctx, tx, &updated); err != nil {
			return err
		}
		if err := s.auditRepo.Insert(ctx, tx, entry); err != nil {
			return fmt.Errorf("%w: %s", apperrors.ErrAuditWrite, err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.broker.Publish(events.EventStudentUpdated, events.StudentEvent{
		StudentNo: updated.StudentNo,
		Status:    string(updated.Status),
	})

	s.logger.Info().
		Str("studentNo", updated.StudentNo).
		Str("action", action.String()).
		Str("status", string(updated.Status)).
		Msg("Student action applied")

	return &updated, nil
}

// List retrieves student accounts for the registrar view
func (s *StudentService) List(ctx context.Context, filter dto.StudentListFilter) ([]*models.Student, error) {
	return s.studentRepo.List(ctx, filter)
}

// GetByStudentNo retrieves one student account
func (s *StudentService) GetByStudentNo(ctx context.Context, studentNo string) (*models.Student, error) {
	return s.studentRepo.GetByStudentNo(ctx, studentNo)
}
