package services

import (
	"context"
	"errors"
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leemrnda21/hau-kiosk-registar/internal/app/models"
	"github.com/leemrnda21/hau-kiosk-registar/internal/app/models/dto"
	"github.com/leemrnda21/hau-kiosk-registar/internal/pkg/apperrors"
	"github.com/leemrnda21/hau-kiosk-registar/internal/pkg/events"
)

func testStudent() *models.Student {
	return &models.Student{
		ID:        "stu-1",
		StudentNo: "2021-00123",
		FirstName: "Maria",
		LastName:  "Santos",
		Email:     "maria.santos@example.edu",
		Status:    models.StudentStatusActive,
	}
}

func newRequestService(requests *fakeRequestStore, students *fakeStudentStore, audits *fakeAuditStore, broker *fakeBroker) *RequestService {
	return NewRequestService(requests, students, audits, &fakeTxRunner{}, broker, testLogger())
}

func TestCreateRequestsOneRowPerDocument(t *testing.T) {
	students := newFakeStudentStore(testStudent())
	requests := newFakeRequestStore()
	broker := &fakeBroker{}
	svc := newRequestService(requests, students, &fakeAuditStore{}, broker)

	gcash := "gcash"
	created, err := svc.CreateRequests(context.Background(), dto.CreateRequestRequest{
		StudentNo: "2021-00123",
		Documents: []dto.DocumentLine{
			{ID: "coe", Copies: 2, Price: 60},
			{ID: "tor-official", Price: 250},
		},
		PaymentMethod: &gcash,
	})
	require.NoError(t, err)
	require.Len(t, created, 2)

	assert.Equal(t, models.DocCertificateOfEnrollment, created[0].Type)
	assert.Equal(t, models.RequestStatusPending, created[0].Status)
	assert.Equal(t, 2, created[0].Copies)
	assert.Equal(t, 120.0, created[0].TotalAmount)
	assert.Regexp(t, regexp.MustCompile(`^COE-\d{4}-\d{4}$`), created[0].ReferenceNo)

	// Copies default to one when the line omits them
	assert.Equal(t, 1, created[1].Copies)
	assert.Regexp(t, regexp.MustCompile(`^TOR-\d{4}-\d{4}$`), created[1].ReferenceNo)

	// Picking a payment method without a reference generates one
	require.NotNil(t, created[0].PaymentReference)
	assert.Regexp(t, regexp.MustCompile(`^PAY-\d+$`), *created[0].PaymentReference)

	require.Len(t, broker.events, 2)
	assert.Equal(t, events.EventRequestCreated, broker.events[0].eventType)
	payload, ok := broker.events[0].payload.(events.RequestEvent)
	require.True(t, ok)
	assert.Equal(t, "2021-00123", payload.StudentNo)
	assert.Equal(t, created[0].ID, payload.RequestID)
}

func TestCreateRequestsWithoutPaymentMethodLeavesReferenceNil(t *testing.T) {
	students := newFakeStudentStore(testStudent())
	svc := newRequestService(newFakeRequestStore(), students, &fakeAuditStore{}, &fakeBroker{})

	created, err := svc.CreateRequests(context.Background(), dto.CreateRequestRequest{
		StudentNo: "2021-00123",
		Documents: []dto.DocumentLine{{ID: "cog", Price: 75}},
	})
	require.NoError(t, err)
	require.Len(t, created, 1)
	assert.Nil(t, created[0].PaymentReference)
}

func TestCreateRequestsUnknownDocumentKey(t *testing.T) {
	students := newFakeStudentStore(testStudent())
	requests := newFakeRequestStore()
	broker := &fakeBroker{}
	svc := newRequestService(requests, students, &fakeAuditStore{}, broker)

	_, err := svc.CreateRequests(context.Background(), dto.CreateRequestRequest{
		StudentNo: "2021-00123",
		Documents: []dto.DocumentLine{{ID: "coe"}, {ID: "form-137"}},
	})
	require.ErrorIs(t, err, apperrors.ErrUnsupportedDocument)
	assert.Empty(t, requests.created)
	assert.Empty(t, broker.events)
}

func TestCreateRequestsUnknownStudent(t *testing.T) {
	svc := newRequestService(newFakeRequestStore(), newFakeStudentStore(), &fakeAuditStore{}, &fakeBroker{})

	_, err := svc.CreateRequests(context.Background(), dto.CreateRequestRequest{
		StudentNo: "1999-99999",
		Documents: []dto.DocumentLine{{ID: "coe"}},
	})
	require.ErrorIs(t, err, apperrors.ErrStudentNotFound)
}

func pendingCOE(student *models.Student) *models.DocumentRequest {
	return &models.DocumentRequest{
		ID:          "req-1",
		StudentID:   student.ID,
		Type:        models.DocCertificateOfEnrollment,
		Status:      models.RequestStatusPending,
		ReferenceNo: "COE-2026-4821",
		Copies:      1,
		Student:     student,
	}
}

func TestApplyActionApproveWritesAuditAndPublishes(t *testing.T) {
	student := testStudent()
	requests := newFakeRequestStore(pendingCOE(student))
	audits := &fakeAuditStore{}
	broker := &fakeBroker{}
	svc := newRequestService(requests, newFakeStudentStore(student), audits, broker)

	actor := "registrar@hau.edu.ph"
	updated, err := svc.ApplyAction(context.Background(), "req-1", &actor, dto.RequestActionRequest{Action: "approve"})
	require.NoError(t, err)

	assert.Equal(t, models.RequestStatusProcessing, updated.Status)
	require.NotNil(t, updated.ReceiptNo)
	assert.NotNil(t, updated.PaymentApprovedAt)

	require.Len(t, audits.entries, 1)
	entry := audits.entries[0]
	assert.Equal(t, "approve", entry.Action)
	assert.Equal(t, models.AuditEntityRequest, entry.EntityType)
	assert.Equal(t, "req-1", entry.EntityID)
	require.NotNil(t, entry.ActorEmail)
	assert.Equal(t, actor, *entry.ActorEmail)
	assert.Equal(t, "COE-2026-4821", entry.Metadata["referenceNo"])
	assert.Equal(t, "processing", entry.Metadata["status"])

	require.Len(t, broker.events, 1)
	assert.Equal(t, events.EventRequestUpdated, broker.events[0].eventType)
	payload := broker.events[0].payload.(events.RequestEvent)
	assert.Equal(t, "2021-00123", payload.StudentNo)
	assert.Equal(t, "processing", payload.Status)
}

func TestApplyActionAuditFailureSurfaces(t *testing.T) {
	student := testStudent()
	requests := newFakeRequestStore(pendingCOE(student))
	audits := &fakeAuditStore{insertErr: errors.New("disk full")}
	broker := &fakeBroker{}
	svc := newRequestService(requests, newFakeStudentStore(student), audits, broker)

	_, err := svc.ApplyAction(context.Background(), "req-1", nil, dto.RequestActionRequest{Action: "approve"})
	require.ErrorIs(t, err, apperrors.ErrAuditWrite)
	assert.Empty(t, broker.events)
}

func TestApplyActionUnknownAction(t *testing.T) {
	student := testStudent()
	svc := newRequestService(newFakeRequestStore(pendingCOE(student)), newFakeStudentStore(student), &fakeAuditStore{}, &fakeBroker{})

	_, err := svc.ApplyAction(context.Background(), "req-1", nil, dto.RequestActionRequest{Action: "escalate"})
	require.ErrorIs(t, err, apperrors.ErrUnknownAction)
}

func TestApplyActionInvalidHoldDate(t *testing.T) {
	student := testStudent()
	svc := newRequestService(newFakeRequestStore(pendingCOE(student)), newFakeStudentStore(student), &fakeAuditStore{}, &fakeBroker{})

	bad := "next tuesday"
	_, err := svc.ApplyAction(context.Background(), "req-1", nil, dto.RequestActionRequest{Action: "hold", HoldUntil: &bad})
	require.ErrorIs(t, err, apperrors.ErrValidationFailed)
}

func TestApplyActionHoldAcceptsBareDate(t *testing.T) {
	student := testStudent()
	svc := newRequestService(newFakeRequestStore(pendingCOE(student)), newFakeStudentStore(student), &fakeAuditStore{}, &fakeBroker{})

	until := "2026-09-15"
	reason := "unsettled balance"
	updated, err := svc.ApplyAction(context.Background(), "req-1", nil, dto.RequestActionRequest{
		Action:    "hold",
		Reason:    &reason,
		HoldUntil: &until,
	})
	require.NoError(t, err)

	assert.True(t, updated.IsOnHold)
	require.NotNil(t, updated.HoldUntil)
	assert.Equal(t, 2026, updated.HoldUntil.Year())
	// Holding does not change the lifecycle status
	assert.Equal(t, models.RequestStatusPending, updated.Status)
}

func TestApplyActionMissingRequest(t *testing.T) {
	svc := newRequestService(newFakeRequestStore(), newFakeStudentStore(), &fakeAuditStore{}, &fakeBroker{})

	_, err := svc.ApplyAction(context.Background(), "req-missing", nil, dto.RequestActionRequest{Action: "approve"})
	require.ErrorIs(t, err, apperrors.ErrRequestNotFound)
}

func TestListForStudentFiltersByReference(t *testing.T) {
	student := testStudent()
	first := pendingCOE(student)
	second := &models.DocumentRequest{
		ID:          "req-2",
		StudentID:   student.ID,
		Type:        models.DocDiploma,
		Status:      models.RequestStatusReady,
		ReferenceNo: "DIP-2026-1002",
	}
	svc := newRequestService(newFakeRequestStore(first, second), newFakeStudentStore(student), &fakeAuditStore{}, &fakeBroker{})

	all, err := svc.ListForStudent(context.Background(), "2021-00123", "")
	require.NoError(t, err)
	assert.Len(t, all, 2)

	one, err := svc.ListForStudent(context.Background(), "2021-00123", "DIP-2026-1002")
	require.NoError(t, err)
	require.Len(t, one, 1)
	assert.Equal(t, "req-2", one[0].ID)
}

func TestStatusCountsForStudent(t *testing.T) {
	student := testStudent()
	first := pendingCOE(student)
	second := &models.DocumentRequest{ID: "req-2", StudentID: student.ID, Status: models.RequestStatusReady}
	svc := newRequestService(newFakeRequestStore(first, second), newFakeStudentStore(student), &fakeAuditStore{}, &fakeBroker{})

	counts, err := svc.StatusCountsForStudent(context.Background(), "2021-00123")
	require.NoError(t, err)
	assert.Equal(t, 1, counts.Pending)
	assert.Equal(t, 1, counts.Ready)
	assert.Equal(t, 2, counts.Total)
}
