package status

import (
	"fmt"
	"regexp"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leemrnda21/hau-kiosk-registar/internal/app/models"
	"github.com/leemrnda21/hau-kiosk-registar/internal/pkg/apperrors"
)

var testNow = time.Date(2026, time.March, 14, 9, 30, 0, 0, time.UTC)

func strPtr(s string) *string { return &s }

func pendingRequest(t models.DocumentType) models.DocumentRequest {
	return models.DocumentRequest{
		ID:          "req-1",
		StudentID:   "stu-1",
		Type:        t,
		Status:      models.RequestStatusPending,
		ReferenceNo: NewReferenceNo(t, testNow),
		Copies:      1,
		RequestedAt: testNow.Add(-time.Hour),
	}
}

func TestApproveAssignsReceiptExactlyOnce(t *testing.T) {
	req := pendingRequest(models.DocCertificateOfEnrollment)

	first := ApplyRequestAction(req, RequestApprove, ActionParams{}, testNow)
	require.NotNil(t, first.ReceiptNo)
	assert.Equal(t, models.RequestStatusProcessing, first.Status)
	require.NotNil(t, first.PaymentApprovedAt)
	assert.Equal(t, testNow, *first.PaymentApprovedAt)

	later := testNow.Add(48 * time.Hour)
	second := ApplyRequestAction(first, RequestApprove, ActionParams{}, later)
	assert.Equal(t, *first.ReceiptNo, *second.ReceiptNo, "receipt number must never be reassigned")
	assert.Equal(t, later, *second.PaymentApprovedAt)
}

func TestRequestLifecycleScenario(t *testing.T) {
	req := pendingRequest(models.DocCertificateOfEnrollment)
	assert.Regexp(t, regexp.MustCompile(`^COE-2026-\d{4}$`), req.ReferenceNo)
	assert.Equal(t, models.RequestStatusPending, req.Status)

	approved := ApplyRequestAction(req, RequestApprove, ActionParams{}, testNow)
	assert.Equal(t, models.RequestStatusProcessing, approved.Status)
	require.NotNil(t, approved.ReceiptNo)
	assert.Regexp(t, regexp.MustCompile(`^OR-2026-\d{4}$`), *approved.ReceiptNo)

	ready := ApplyRequestAction(approved, RequestMarkReady, ActionParams{}, testNow.Add(time.Hour))
	assert.Equal(t, models.RequestStatusReady, ready.Status)
	require.NotNil(t, ready.CompletedAt)
	assert.Equal(t, *approved.ReceiptNo, *ready.ReceiptNo, "receipt unchanged by mark-ready")
}

func TestRejectFromAnyState(t *testing.T) {
	for _, from := range []models.RequestStatus{
		models.RequestStatusPending,
		models.RequestStatusProcessing,
		models.RequestStatusReady,
	} {
		req := pendingRequest(models.DocDiploma)
		req.Status = from
		out := ApplyRequestAction(req, RequestReject, ActionParams{}, testNow)
		assert.Equal(t, models.RequestStatusRejected, out.Status, "reject from %s", from)
	}
}

func TestHoldReleaseRoundTrip(t *testing.T) {
	req := pendingRequest(models.DocCertificateOfGrades)
	until := testNow.Add(72 * time.Hour)

	held := ApplyRequestAction(req, RequestHold, ActionParams{
		Reason:    strPtr("  unpaid balance  "),
		HoldUntil: &until,
	}, testNow)
	assert.True(t, held.IsOnHold)
	require.NotNil(t, held.HoldReason)
	assert.Equal(t, "unpaid balance", *held.HoldReason)
	require.NotNil(t, held.HoldUntil)
	assert.Equal(t, req.Status, held.Status, "hold leaves status unchanged")

	released := ApplyRequestAction(held, RequestRelease, ActionParams{}, testNow)
	assert.False(t, released.IsOnHold)
	assert.Nil(t, released.HoldReason)
	assert.Nil(t, released.HoldUntil)
	assert.Equal(t, req.Status, released.Status)
}

func TestHoldWithBlankReasonStoresNil(t *testing.T) {
	req := pendingRequest(models.DocCertificateOfGrades)
	held := ApplyRequestAction(req, RequestHold, ActionParams{Reason: strPtr("   ")}, testNow)
	assert.True(t, held.IsOnHold)
	assert.Nil(t, held.HoldReason)
	assert.Nil(t, held.HoldUntil)
}

func TestVerifyPaymentPromotesOnlyPending(t *testing.T) {
	tests := []struct {
		from models.RequestStatus
		want models.RequestStatus
	}{
		{models.RequestStatusPending, models.RequestStatusProcessing},
		{models.RequestStatusProcessing, models.RequestStatusProcessing},
		{models.RequestStatusReady, models.RequestStatusReady},
		{models.RequestStatusRejected, models.RequestStatusRejected},
	}

	for _, tt := range tests {
		t.Run(string(tt.from), func(t *testing.T) {
			req := pendingRequest(models.DocTranscriptOfficial)
			req.Status = tt.from
			out := ApplyRequestAction(req, RequestVerifyPayment, ActionParams{Reason: strPtr("GCash ref checked")}, testNow)
			assert.Equal(t, tt.want, out.Status)
			require.NotNil(t, out.PaymentVerifiedAt)
			require.NotNil(t, out.PaymentVerificationNote)
			assert.Equal(t, "GCash ref checked", *out.PaymentVerificationNote)
		})
	}
}

func TestReferencePrefixTable(t *testing.T) {
	tests := []struct {
		docType models.DocumentType
		prefix  string
	}{
		{models.DocTranscriptOfficial, "TOR"},
		{models.DocTranscriptUnofficial, "TOR"},
		{models.DocCertificateOfGrades, "COG"},
		{models.DocCertificateOfEnrollment, "COE"},
		{models.DocGoodMoralCertificate, "GMC"},
		{models.DocDiploma, "DIP"},
		{models.DocHonorableDismissal, "HD"},
		{models.DocUnitsEarned, "CUE"},
		{models.DocTransferCredential, "CTC"},
		{models.DocGraduationCertificate, "COGRA"},
		{models.DocumentType("something_new"), "DOC"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.prefix, ReferencePrefix(tt.docType))

		ref := NewReferenceNo(tt.docType, testNow)
		assert.Regexp(t, fmt.Sprintf(`^%s-2026-\d{4}$`, tt.prefix), ref)
	}
}

func TestParseRequestAction(t *testing.T) {
	for _, name := range []string{"approve", "reject", "hold", "release", "verify-payment", "mark-ready"} {
		action, err := ParseRequestAction(name)
		require.NoError(t, err)
		assert.Equal(t, name, action.String())
	}

	_, err := ParseRequestAction("escalate")
	assert.ErrorIs(t, err, apperrors.ErrUnknownAction)

	_, err = ParseRequestAction("")
	assert.ErrorIs(t, err, apperrors.ErrUnknownAction)
}

func TestStudentApproveClearsPriorHold(t *testing.T) {
	until := testNow.Add(24 * time.Hour)
	student := models.Student{
		ID:         "stu-1",
		StudentNo:  "2021-00418",
		Status:     models.StudentStatusPending,
		IsOnHold:   true,
		HoldReason: strPtr("incomplete documents"),
		HoldUntil:  &until,
	}

	out := ApplyStudentAction(student, StudentApprove, ActionParams{}, testNow)
	assert.Equal(t, models.StudentStatusActive, out.Status)
	assert.False(t, out.IsOnHold)
	assert.Nil(t, out.HoldReason)
	assert.Nil(t, out.HoldUntil)
}

func TestStudentHoldForcesActive(t *testing.T) {
	student := models.Student{Status: models.StudentStatusPending}
	past := testNow.Add(-time.Hour)

	out := ApplyStudentAction(student, StudentHold, ActionParams{
		Reason:    strPtr("library fines"),
		HoldUntil: &past,
	}, testNow)

	assert.Equal(t, models.StudentStatusActive, out.Status)
	// A holdUntil already in the past still sets the flag; expiry is
	// evaluated at sign-in, not here.
	assert.True(t, out.IsOnHold)
	require.NotNil(t, out.HoldUntil)
	assert.Equal(t, past, *out.HoldUntil)
}

func TestStudentDeactivateReactivate(t *testing.T) {
	student := models.Student{Status: models.StudentStatusActive}

	deactivated := ApplyStudentAction(student, StudentDeactivate, ActionParams{}, testNow)
	assert.True(t, deactivated.IsDeactivated)
	require.NotNil(t, deactivated.DeactivatedAt)
	assert.Equal(t, models.StudentStatusActive, deactivated.Status, "status unchanged by deactivation")

	reactivated := ApplyStudentAction(deactivated, StudentReactivate, ActionParams{}, testNow)
	assert.False(t, reactivated.IsDeactivated)
	assert.Nil(t, reactivated.DeactivatedAt)
}

func TestCanAuthenticate(t *testing.T) {
	past := testNow.Add(-time.Hour)
	future := testNow.Add(time.Hour)

	tests := []struct {
		name    string
		student models.Student
		wantErr error
	}{
		{
			name:    "pending account refused",
			student: models.Student{Status: models.StudentStatusPending, FaceEnrolled: true},
			wantErr: apperrors.ErrAccountPending,
		},
		{
			name:    "rejected account refused",
			student: models.Student{Status: models.StudentStatusRejected, FaceEnrolled: true},
			wantErr: apperrors.ErrAccountRejected,
		},
		{
			name:    "deactivated account refused",
			student: models.Student{Status: models.StudentStatusActive, IsDeactivated: true, FaceEnrolled: true},
			wantErr: apperrors.ErrAccountDeactivated,
		},
		{
			name:    "active hold refused",
			student: models.Student{Status: models.StudentStatusActive, IsOnHold: true, HoldUntil: &future, FaceEnrolled: true},
			wantErr: apperrors.ErrAccountOnHold,
		},
		{
			name:    "indefinite hold refused",
			student: models.Student{Status: models.StudentStatusActive, IsOnHold: true, FaceEnrolled: true},
			wantErr: apperrors.ErrAccountOnHold,
		},
		{
			name:    "expired hold allowed",
			student: models.Student{Status: models.StudentStatusActive, IsOnHold: true, HoldUntil: &past, FaceEnrolled: true},
			wantErr: nil,
		},
		{
			name:    "unenrolled account refused",
			student: models.Student{Status: models.StudentStatusActive},
			wantErr: apperrors.ErrEnrollmentRequired,
		},
		{
			name:    "active enrolled account allowed",
			student: models.Student{Status: models.StudentStatusActive, FaceEnrolled: true},
			wantErr: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := CanAuthenticate(&tt.student, testNow)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
