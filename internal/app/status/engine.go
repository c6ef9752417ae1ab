package status

import (
	"strings"
	"time"

	"github.com/leemrnda21/hau-kiosk-registar/internal/app/models"
	"github.com/leemrnda21/hau-kiosk-registar/internal/pkg/apperrors"
)

// ActionParams carries the optional actor-supplied inputs for hold and
// verification actions.
type ActionParams struct {
	Reason    *string
	HoldUntil *time.Time
}

// ApplyRequestAction computes the document request that results from an admin
// action. Actions are accepted from any prior status: admins may re-approve,
// re-hold, or re-verify and the engine does not block the operation. The one
// exception-free guarantee is the receipt number, which is assigned on the
// first approval and never replaced afterwards.
func ApplyRequestAction(req models.DocumentRequest, action RequestAction, params ActionParams, now time.Time) models.DocumentRequest {
	switch action {
	case RequestApprove:
		req.Status = models.RequestStatusProcessing
		req.PaymentApprovedAt = timePtr(now)
		if req.ReceiptNo == nil || *req.ReceiptNo == "" {
			receipt := NewReceiptNo(now)
			req.ReceiptNo = &receipt
		}
	case RequestReject:
		req.Status = models.RequestStatusRejected
	case RequestHold:
		req.IsOnHold = true
		req.HoldReason = trimmedOrNil(params.Reason)
		req.HoldUntil = params.HoldUntil
	case RequestRelease:
		req.IsOnHold = false
		req.HoldReason = nil
		req.HoldUntil = nil
	case RequestVerifyPayment:
		req.PaymentVerifiedAt = timePtr(now)
		req.PaymentVerificationNote = trimmedOrNil(params.Reason)
		if req.Status == models.RequestStatusPending {
			req.Status = models.RequestStatusProcessing
		}
	case RequestMarkReady:
		req.Status = models.RequestStatusReady
		req.CompletedAt = timePtr(now)
	}
	req.UpdatedAt = now
	return req
}

// ApplyStudentAction computes the student account that results from an admin
// action. A hold forces the account Active while setting the hold fields;
// approval clears any hold left over from the pending review.
func ApplyStudentAction(student models.Student, action StudentAction, params ActionParams, now time.Time) models.Student {
	switch action {
	case StudentApprove:
		student.Status = models.StudentStatusActive
		student.IsOnHold = false
		student.HoldReason = nil
		student.HoldUntil = nil
	case StudentReject:
		student.Status = models.StudentStatusRejected
	case StudentHold:
		student.Status = models.StudentStatusActive
		student.IsOnHold = true
		student.HoldReason = trimmedOrNil(params.Reason)
		student.HoldUntil = params.HoldUntil
	case StudentReleaseHold:
		student.IsOnHold = false
		student.HoldReason = nil
		student.HoldUntil = nil
	case StudentDeactivate:
		student.IsDeactivated = true
		student.DeactivatedAt = timePtr(now)
	case StudentReactivate:
		student.IsDeactivated = false
		student.DeactivatedAt = nil
	}
	student.UpdatedAt = now
	return student
}

// CanAuthenticate checks whether a student may sign in to the student portal.
// An account must be Active, not deactivated, off hold (or past the hold
// expiry), and have completed identity enrollment. Hold expiry is evaluated
// here, at sign-in, not inside the transition table.
func CanAuthenticate(student *models.Student, now time.Time) error {
	switch student.Status {
	case models.StudentStatusActive:
	case models.StudentStatusRejected:
		return apperrors.ErrAccountRejected
	default:
		return apperrors.ErrAccountPending
	}
	if student.IsDeactivated {
		return apperrors.ErrAccountDeactivated
	}
	if student.IsOnHold && !student.HoldExpired(now) {
		return apperrors.ErrAccountOnHold
	}
	if !student.FaceEnrolled {
		return apperrors.ErrEnrollmentRequired
	}
	return nil
}

func timePtr(t time.Time) *time.Time {
	return &t
}

func trimmedOrNil(s *string) *string {
	if s == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*s)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}
