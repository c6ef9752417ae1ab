package repositories

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/leemrnda21/hau-kiosk-registar/internal/app/models"
	"github.com/leemrnda21/hau-kiosk-registar/internal/app/models/dto"
	"github.com/leemrnda21/hau-kiosk-registar/internal/pkg/apperrors"
)

const requestColumns = `
	r.id, r.student_id, r.type, r.status, r.reference_no, r.copies, r.purpose,
	r.delivery_method, r.total_amount, r.is_on_hold, r.hold_reason, r.hold_until,
	r.payment_method, r.payment_reference, r.payment_verified_at,
	r.payment_verification_note, r.receipt_no, r.payment_approved_at,
	r.completed_at, r.requested_at, r.updated_at
`

// RequestRepository handles database operations for document requests
type RequestRepository struct {
	db *pgxpool.Pool
}

// NewRequestRepository creates a new document request repository
func NewRequestRepository(db *pgxpool.Pool) *RequestRepository {
	return &RequestRepository{
		db: db,
	}
}

func scanRequest(row pgx.Row) (*models.DocumentRequest, error) {
	var req models.DocumentRequest
	err := row.Scan(
		&req.ID, &req.StudentID, &req.Type, &req.Status, &req.ReferenceNo,
		&req.Copies, &req.Purpose, &req.DeliveryMethod, &req.TotalAmount,
		&req.IsOnHold, &req.HoldReason, &req.HoldUntil,
		&req.PaymentMethod, &req.PaymentReference, &req.PaymentVerifiedAt,
		&req.PaymentVerificationNote, &req.ReceiptNo, &req.PaymentApprovedAt,
		&req.CompletedAt, &req.RequestedAt, &req.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &req, nil
}

func scanRequestWithStudent(row pgx.Row) (*models.DocumentRequest, error) {
	var req models.DocumentRequest
	var s models.Student
	err := row.Scan(
		&req.ID, &req.StudentID, &req.Type, &req.Status, &req.ReferenceNo,
		&req.Copies, &req.Purpose, &req.DeliveryMethod, &req.TotalAmount,
		&req.IsOnHold, &req.HoldReason, &req.HoldUntil,
		&req.PaymentMethod, &req.PaymentReference, &req.PaymentVerifiedAt,
		&req.PaymentVerificationNote, &req.ReceiptNo, &req.PaymentApprovedAt,
		&req.CompletedAt, &req.RequestedAt, &req.UpdatedAt,
		&s.ID, &s.StudentNo, &s.FirstName, &s.LastName, &s.Email, &s.Course, &s.YearLevel,
	)
	if err != nil {
		return nil, err
	}
	req.Student = &s
	return &req, nil
}

// Create inserts a new document request
func (r *RequestRepository) Create(ctx context.Context, q Querier, req *models.DocumentRequest) error {
	query := `
		INSERT INTO document_requests (
			id, student_id, type, status, reference_no, copies, purpose,
			delivery_method, total_amount, payment_method, payment_reference
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING requested_at, updated_at
	`

	err := q.QueryRow(ctx, query,
		req.ID, req.StudentID, req.Type, req.Status, req.ReferenceNo,
		req.Copies, req.Purpose, req.DeliveryMethod, req.TotalAmount,
		req.PaymentMethod, req.PaymentReference,
	).Scan(&req.RequestedAt, &req.UpdatedAt)
	if err != nil {
		return fmt.Errorf("error creating document request: %w", err)
	}

	return nil
}

// GetByID retrieves a document request with its student joined in
func (r *RequestRepository) GetByID(ctx context.Context, id string) (*models.DocumentRequest, error) {
	query := `
		SELECT ` + requestColumns + `,
			s.id, s.student_no, s.first_name, s.last_name, s.email, s.course, s.year_level
		FROM document_requests r
		JOIN students s ON s.id = r.student_id
		WHERE r.id = $1
	`

	req, err := scanRequestWithStudent(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrRequestNotFound
		}
		return nil, fmt.Errorf("error retrieving document request: %w", err)
	}

	return req, nil
}

// List retrieves document requests matching the filter, newest first,
// with the owning student joined in for the queue view.
func (r *RequestRepository) List(ctx context.Context, filter dto.RequestListFilter) ([]*models.DocumentRequest, error) {
	query := `
		SELECT ` + requestColumns + `,
			s.id, s.student_no, s.first_name, s.last_name, s.email, s.course, s.year_level
		FROM document_requests r
		JOIN students s ON s.id = r.student_id
	`

	var conditions []string
	var args []any

	if filter.Status != "" {
		args = append(args, filter.Status)
		conditions = append(conditions, "r.status = $"+strconv.Itoa(len(args)))
	}
	if filter.RequestID != "" {
		args = append(args, filter.RequestID)
		conditions = append(conditions, "r.id = $"+strconv.Itoa(len(args)))
	}
	if filter.NeedsVerification {
		conditions = append(conditions,
			"r.payment_method IS NOT NULL AND r.payment_verified_at IS NULL AND r.status IN ('pending', 'processing')")
	}

	for i, cond := range conditions {
		if i == 0 {
			query += " WHERE " + cond
		} else {
			query += " AND " + cond
		}
	}
	query += " ORDER BY r.requested_at DESC"

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("error listing document requests: %w", err)
	}
	defer rows.Close()

	var requests []*models.DocumentRequest
	for rows.Next() {
		req, err := scanRequestWithStudent(rows)
		if err != nil {
			return nil, err
		}
		requests = append(requests, req)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return requests, nil
}

// ListRecent retrieves the most recently submitted requests with the owning
// student joined in, for the admin overview.
func (r *RequestRepository) ListRecent(ctx context.Context, limit int) ([]*models.DocumentRequest, error) {
	query := `
		SELECT ` + requestColumns + `,
			s.id, s.student_no, s.first_name, s.last_name, s.email, s.course, s.year_level
		FROM document_requests r
		JOIN students s ON s.id = r.student_id
		ORDER BY r.requested_at DESC
		LIMIT $1
	`

	rows, err := r.db.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("error listing recent document requests: %w", err)
	}
	defer rows.Close()

	var requests []*models.DocumentRequest
	for rows.Next() {
		req, err := scanRequestWithStudent(rows)
		if err != nil {
			return nil, err
		}
		requests = append(requests, req)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return requests, nil
}

// ListByStudent retrieves one student's requests, newest first, optionally
// narrowed to a single reference number.
func (r *RequestRepository) ListByStudent(ctx context.Context, studentID, referenceNo string) ([]*models.DocumentRequest, error) {
	query := `SELECT ` + requestColumns + ` FROM document_requests r WHERE r.student_id = $1`

	args := []any{studentID}
	if referenceNo != "" {
		args = append(args, referenceNo)
		query += " AND r.reference_no = $2"
	}
	query += " ORDER BY r.requested_at DESC"

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("error listing student requests: %w", err)
	}
	defer rows.Close()

	var requests []*models.DocumentRequest
	for rows.Next() {
		req, err := scanRequest(rows)
		if err != nil {
			return nil, err
		}
		requests = append(requests, req)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return requests, nil
}

// Update writes the full set of mutable columns in one statement. Concurrent
// admin actions on the same request resolve as last-writer-wins.
func (r *RequestRepository) Update(ctx context.Context, q Querier, req *models.DocumentRequest) error {
	query := `
		UPDATE document_requests
		SET status = $1, is_on_hold = $2, hold_reason = $3, hold_until = $4,
		    payment_verified_at = $5, payment_verification_note = $6,
		    receipt_no = $7, payment_approved_at = $8, completed_at = $9,
		    updated_at = $10
		WHERE id = $11
	`

	cmdTag, err := q.Exec(ctx, query,
		req.Status, req.IsOnHold, req.HoldReason, req.HoldUntil,
		req.PaymentVerifiedAt, req.PaymentVerificationNote,
		req.ReceiptNo, req.PaymentApprovedAt, req.CompletedAt,
		req.UpdatedAt, req.ID,
	)
	if err != nil {
		return fmt.Errorf("error updating document request: %w", err)
	}

	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrRequestNotFound
	}

	return nil
}

// StatusCountsForStudent summarizes one student's requests per lifecycle status
func (r *RequestRepository) StatusCountsForStudent(ctx context.Context, studentID string) (dto.StatusCounts, error) {
	query := `
		SELECT
			COUNT(*) FILTER (WHERE status = 'pending'),
			COUNT(*) FILTER (WHERE status = 'processing'),
			COUNT(*) FILTER (WHERE status = 'submitted'),
			COUNT(*) FILTER (WHERE status = 'ready'),
			COUNT(*)
		FROM document_requests
		WHERE student_id = $1
	`

	var counts dto.StatusCounts
	err := r.db.QueryRow(ctx, query, studentID).Scan(
		&counts.Pending, &counts.Processing, &counts.Submitted, &counts.Ready, &counts.Total,
	)
	if err != nil {
		return dto.StatusCounts{}, fmt.Errorf("error counting student requests: %w", err)
	}

	return counts, nil
}

// CountByStatus counts requests currently in one lifecycle status
func (r *RequestRepository) CountByStatus(ctx context.Context, status models.RequestStatus) (int, error) {
	var count int
	err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM document_requests WHERE status = $1`, status).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("error counting requests: %w", err)
	}
	return count, nil
}

// CountByStatusSince counts requests that entered a status on or after a cutoff
func (r *RequestRepository) CountByStatusSince(ctx context.Context, status models.RequestStatus, since time.Time) (int, error) {
	var count int
	err := r.db.QueryRow(ctx,
		`SELECT COUNT(*) FROM document_requests WHERE status = $1 AND updated_at >= $2`,
		status, since,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("error counting requests: %w", err)
	}
	return count, nil
}
