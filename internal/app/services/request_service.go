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

// RequestService handles document request submission and registrar queue actions
type RequestService struct {
	requestRepo requestStore
	studentRepo studentStore
	auditRepo   auditStore
	tx          txRunner
	broker      eventPublisher
	logger      zerolog.Logger
}

// NewRequestService creates a new RequestService
func NewRequestService(
	requestRepo requestStore,
	studentRepo studentStore,
	auditRepo auditStore,
	tx txRunner,
	broker eventPublisher,
	logger zerolog.Logger,
) *RequestService {
	return &RequestService{
		requestRepo: requestRepo,
		studentRepo: studentRepo,
		auditRepo:   auditRepo,
		tx:          tx,
		broker:      broker,
		logger:      logger,
	}
}

// CreateRequests creates one document request per submitted line. All lines
// land in a single transaction, so a kiosk submission is never half-saved.
func (s *RequestService) CreateRequests(ctx context.Context, body dto.CreateRequestRequest) ([]*models.DocumentRequest, error) {
	student, err := s.studentRepo.GetByStudentNo(ctx, body.StudentNo)
	if err != nil {
		return nil, err
	}

	now := time.Now()

	// A reference is generated only when the student picked a payment
	// method but left the reference blank; cash-later submissions stay nil.
	paymentReference := body.PaymentReference
	if paymentReference == nil && body.PaymentMethod != nil {
		ref := fmt.Sprintf("PAY-%d", now.UnixMilli())
		paymentReference = &ref
	}

	requests := make([]*models.DocumentRequest, 0, len(body.Documents))
	for _, line := range body.Documents {
		docType, ok := models.DocumentTypeForKey(line.ID)
		if !ok {
			return nil, fmt.Errorf("%w: %s", apperrors.ErrUnsupportedDocument, line.ID)
		}

		copies := line.Copies
		if copies < 1 {
			copies = 1
		}

		requests = append(requests, &models.DocumentRequest{
			ID:               uuid.New().String(),
			StudentID:        student.ID,
			Type:             docType,
			Status:           models.RequestStatusPending,
			ReferenceNo:      status.NewReferenceNo(docType, now),
			Copies:           copies,
			Purpose:          body.Purpose,
			DeliveryMethod:   body.DeliveryMethod,
			TotalAmount:      line.Price * float64(copies),
			PaymentMethod:    body.PaymentMethod,
			PaymentReference: paymentReference,
		})
	}

	err = s.tx.WithTransaction(ctx, func(ctx context.Context, tx pgx.Tx) error {
		for _, req := range requests {
			if err := s.requestRepo.Create(ctx, tx, req); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	for _, req := range requests {
		req.Student = student
		s.broker.Publish(events.EventRequestCreated, events.RequestEvent{
			StudentNo: student.StudentNo,
			RequestID: req.ID,
		})
	}

	s.logger.Info().
		Str("studentNo", student.StudentNo).
		Int("documents", len(requests)).
		Msg("Document request submitted")

	return requests, nil
}

// ApplyAction runs one registrar action against a request. The row update and
// its audit entry commit together; if the audit write fails, the action is
// rolled back and reported as an audit failure.
func (s *RequestService) ApplyAction(ctx context.Context, requestID string, actorEmail *string, body dto.RequestActionRequest) (*models.DocumentRequest, error) {
	action, err := status.ParseRequestAction(body.Action)
	if err != nil {
		return nil, err
	}

	params, err := actionParams(body.Reason, body.HoldUntil)
	if err != nil {
		return nil, err
	}

	current, err := s.requestRepo.GetByID(ctx, requestID)
	if err != nil {
		return nil, err
	}

	updated := status.ApplyRequestAction(*current, action, params, time.Now())

	entry := &models.AuditLog{
		ID:         uuid.New().String(),
		ActorEmail: actorEmail,
		Action:     action.String(),
		EntityType: models.AuditEntityRequest,
		EntityID:   updated.ID,
		Reason:     params.Reason,
		Metadata: map[string]interface{}{
			"referenceNo": updated.ReferenceNo,
			"status":      string(updated.Status),
		},
	}

	err = s.tx.WithTransaction(ctx, func(ctx context.Context, tx pgx.Tx) error {
		if err := s.requestRepo.Update(ctx, tx, &updated); err != nil {
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

	var studentNo string
	if updated.Student != nil {
		studentNo = updated.Student.StudentNo
	}
	s.broker.Publish(events.EventRequestUpdated, events.RequestEvent{
		StudentNo: studentNo,
		RequestID: updated.ID,
		Status:    string(updated.Status),
	})

	s.logger.Info().
		Str("requestId", updated.ID).
		Str("action", action.String()).
		Str("status", string(updated.Status)).
		Msg("Request action applied")

	return &updated, nil
}

// List retrieves the registrar queue view
func (s *RequestService) List(ctx context.Context, filter dto.RequestListFilter) ([]*models.DocumentRequest, error) {
	return s.requestRepo.List(ctx, filter)
}

// ListForStudent retrieves one student's requests by student number,
// optionally narrowed to a single reference number.
func (s *RequestService) ListForStudent(ctx context.Context, studentNo, referenceNo string) ([]*models.DocumentRequest, error) {
	student, err := s.studentRepo.GetByStudentNo(ctx, studentNo)
	if err != nil {
		return nil, err
	}
	return s.requestRepo.ListByStudent(ctx, student.ID, referenceNo)
}

// StatusCountsForStudent summarizes one student's requests for the dashboard
func (s *RequestService) StatusCountsForStudent(ctx context.Context, studentNo string) (dto.StatusCounts, error) {
	student, err := s.studentRepo.GetByStudentNo(ctx, studentNo)
	if err != nil {
		return dto.StatusCounts{}, err
	}
	return s.requestRepo.StatusCountsForStudent(ctx, student.ID)
}

// actionParams normalizes the optional reason and holdUntil inputs. The hold
// date accepts RFC 3339 or a bare calendar date.
func actionParams(reason, holdUntil *string) (status.ActionParams, error) {
	params := status.ActionParams{Reason: reason}

	if holdUntil != nil && *holdUntil != "" {
		parsed, err := time.Parse(time.RFC3339, *holdUntil)
		if err != nil {
			parsed, err = time.Parse("2006-01-02", *holdUntil)
			if err != nil {
				return status.ActionParams{}, apperrors.NewValidationError("holdUntil must be an RFC 3339 timestamp or a YYYY-MM-DD date")
			}
		}
		params.HoldUntil = &parsed
	}

	return params, nil
}
