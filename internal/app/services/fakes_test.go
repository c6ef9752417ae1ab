package services

import (
	"context"
	"sort"
	"time"

	"github.com/rs/zerolog"

	"github.com/leemrnda21/hau-kiosk-registar/internal/app/models"
	"github.com/leemrnda21/hau-kiosk-registar/internal/app/models/dto"
	"github.com/leemrnda21/hau-kiosk-registar/internal/app/repositories"
	"github.com/leemrnda21/hau-kiosk-registar/internal/db"
	"github.com/leemrnda21/hau-kiosk-registar/internal/pkg/apperrors"
)

// fakeTxRunner stands in for the pgx transaction wrapper. The callback runs
// with a nil transaction; the fake stores ignore the Querier argument.
type fakeTxRunner struct {
	beginErr error
}

func (f *fakeTxRunner) WithTransaction(ctx context.Context, fn db.TransactionFn) error {
	if f.beginErr != nil {
		return f.beginErr
	}
	return fn(ctx, nil)
}

type publishedEvent struct {
	eventType string
	payload   interface{}
}

type fakeBroker struct {
	events []publishedEvent
}

func (f *fakeBroker) Publish(eventType string, payload interface{}) {
	f.events = append(f.events, publishedEvent{eventType: eventType, payload: payload})
}

type fakeStudentStore struct {
	students  map[string]*models.Student
	createErr error
	updated   []*models.Student
	enrolled  []string
	passwords map[string]string
}

func newFakeStudentStore(students ...*models.Student) *fakeStudentStore {
	store := &fakeStudentStore{
		students:  make(map[string]*models.Student),
		passwords: make(map[string]string),
	}
	for _, s := range students {
		store.students[s.ID] = s
	}
	return store
}

func (f *fakeStudentStore) Create(ctx context.Context, student *models.Student) error {
	if f.createErr != nil {
		return f.createErr
	}
	f.students[student.ID] = student
	return nil
}

func (f *fakeStudentStore) GetByID(ctx context.Context, id string) (*models.Student, error) {
	if s, ok := f.students[id]; ok {
		return s, nil
	}
	return nil, apperrors.ErrStudentNotFound
}

func (f *fakeStudentStore) GetByEmail(ctx context.Context, email string) (*models.Student, error) {
	for _, s := range f.students {
		if s.Email == email {
			return s, nil
		}
	}
	return nil, apperrors.ErrStudentNotFound
}

func (f *fakeStudentStore) GetByStudentNo(ctx context.Context, studentNo string) (*models.Student, error) {
	for _, s := range f.students {
		if s.StudentNo == studentNo {
			return s, nil
		}
	}
	return nil, apperrors.ErrStudentNotFound
}

func (f *fakeStudentStore) List(ctx context.Context, filter dto.StudentListFilter) ([]*models.Student, error) {
	var out []*models.Student
	for _, s := range f.students {
		out = append(out, s)
	}
	return out, nil
}

func (f *fakeStudentStore) Update(ctx context.Context, q repositories.Querier, student *models.Student) error {
	if _, ok := f.students[student.ID]; !ok {
		return apperrors.ErrStudentNotFound
	}
	f.students[student.ID] = student
	f.updated = append(f.updated, student)
	return nil
}

func (f *fakeStudentStore) MarkEnrolled(ctx context.Context, studentNo string) error {
	f.enrolled = append(f.enrolled, studentNo)
	return nil
}

func (f *fakeStudentStore) UpdatePassword(ctx context.Context, q repositories.Querier, studentID, passwordHash string) error {
	f.passwords[studentID] = passwordHash
	return nil
}

func (f *fakeStudentStore) CountByStatus(ctx context.Context, status models.StudentStatus) (int, error) {
	count := 0
	for _, s := range f.students {
		if s.Status == status {
			count++
		}
	}
	return count, nil
}

type fakeRequestStore struct {
	requests  map[string]*models.DocumentRequest
	created   []*models.DocumentRequest
	createErr error
	updateErr error
	updated   []*models.DocumentRequest
}

func newFakeRequestStore(requests ...*models.DocumentRequest) *fakeRequestStore {
	store := &fakeRequestStore{requests: make(map[string]*models.DocumentRequest)}
	for _, r := range requests {
		store.requests[r.ID] = r
	}
	return store
}

func (f *fakeRequestStore) Create(ctx context.Context, q repositories.Querier, req *models.DocumentRequest) error {
	if f.createErr != nil {
		return f.createErr
	}
	f.requests[req.ID] = req
	f.created = append(f.created, req)
	return nil
}

func (f *fakeRequestStore) GetByID(ctx context.Context, id string) (*models.DocumentRequest, error) {
	if r, ok := f.requests[id]; ok {
		return r, nil
	}
	return nil, apperrors.ErrRequestNotFound
}

func (f *fakeRequestStore) List(ctx context.Context, filter dto.RequestListFilter) ([]*models.DocumentRequest, error) {
	var out []*models.DocumentRequest
	for _, r := range f.requests {
		out = append(out, r)
	}
	return out, nil
}

func (f *fakeRequestStore) ListRecent(ctx context.Context, limit int) ([]*models.DocumentRequest, error) {
	var out []*models.DocumentRequest
	for _, r := range f.requests {
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].RequestedAt.After(out[j].RequestedAt)
	})
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (f *fakeRequestStore) ListByStudent(ctx context.Context, studentID, referenceNo string) ([]*models.DocumentRequest, error) {
	var out []*models.DocumentRequest
	for _, r := range f.requests {
		if r.StudentID != studentID {
			continue
		}
		if referenceNo != "" && r.ReferenceNo != referenceNo {
			continue
		}
		out = append(out, r)
	}
	return out, nil
}

func (f *fakeRequestStore) Update(ctx context.Context, q repositories.Querier, req *models.DocumentRequest) error {
	if f.updateErr != nil {
		return f.updateErr
	}
	if _, ok := f.requests[req.ID]; !ok {
		return apperrors.ErrRequestNotFound
	}
	f.requests[req.ID] = req
	f.updated = append(f.updated, req)
	return nil
}

func (f *fakeRequestStore) StatusCountsForStudent(ctx context.Context, studentID string) (dto.StatusCounts, error) {
	var counts dto.StatusCounts
	for _, r := range f.requests {
		if r.StudentID != studentID {
			continue
		}
		counts.Total++
		switch r.Status {
		case models.RequestStatusPending:
			counts.Pending++
		case models.RequestStatusProcessing:
			counts.Processing++
		case models.RequestStatusSubmitted:
			counts.Submitted++
		case models.RequestStatusReady:
			counts.Ready++
		}
	}
	return counts, nil
}

func (f *fakeRequestStore) CountByStatus(ctx context.Context, status models.RequestStatus) (int, error) {
	count := 0
	for _, r := range f.requests {
		if r.Status == status {
			count++
		}
	}
	return count, nil
}

func (f *fakeRequestStore) CountByStatusSince(ctx context.Context, status models.RequestStatus, since time.Time) (int, error) {
	count := 0
	for _, r := range f.requests {
		if r.Status == status && !r.UpdatedAt.Before(since) {
			count++
		}
	}
	return count, nil
}

type fakeAuditStore struct {
	entries   []*models.AuditLog
	insertErr error
	lastLimit int
}

func (f *fakeAuditStore) Insert(ctx context.Context, q repositories.Querier, entry *models.AuditLog) error {
	if f.insertErr != nil {
		return f.insertErr
	}
	f.entries = append(f.entries, entry)
	return nil
}

func (f *fakeAuditStore) List(ctx context.Context, limit int) ([]*models.AuditLog, error) {
	f.lastLimit = limit
	if limit > len(f.entries) {
		limit = len(f.entries)
	}
	return f.entries[:limit], nil
}

func testLogger() zerolog.Logger {
	return zerolog.Nop()
}
