package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leemrnda21/hau-kiosk-registar/internal/app/models"
	"github.com/leemrnda21/hau-kiosk-registar/internal/app/models/dto"
	"github.com/leemrnda21/hau-kiosk-registar/internal/app/repositories"
	"github.com/leemrnda21/hau-kiosk-registar/internal/pkg/apperrors"
	"github.com/leemrnda21/hau-kiosk-registar/internal/pkg/auth"
	"github.com/leemrnda21/hau-kiosk-registar/internal/pkg/events"
)

type fakeAdminStore struct {
	admins      map[string]*models.Admin
	lastLoginID string
}

func (f *fakeAdminStore) GetByEmail(ctx context.Context, email string) (*models.Admin, error) {
	if a, ok := f.admins[email]; ok {
		return a, nil
	}
	return nil, apperrors.ErrAdminNotFound
}

func (f *fakeAdminStore) TouchLastLogin(ctx context.Context, adminID string, at time.Time) error {
	f.lastLoginID = adminID
	return nil
}

type fakeResetTokenStore struct {
	tokens map[string]*models.PasswordResetToken
}

func newFakeResetTokenStore() *fakeResetTokenStore {
	return &fakeResetTokenStore{tokens: make(map[string]*models.PasswordResetToken)}
}

func (f *fakeResetTokenStore) Create(ctx context.Context, token *models.PasswordResetToken) error {
	token.CreatedAt = time.Now()
	f.tokens[token.ID] = token
	return nil
}

func (f *fakeResetTokenStore) LatestForStudent(ctx context.Context, studentID string) (*models.PasswordResetToken, error) {
	var latest *models.PasswordResetToken
	for _, t := range f.tokens {
		if t.StudentID != studentID {
			continue
		}
		if latest == nil || t.CreatedAt.After(latest.CreatedAt) {
			latest = t
		}
	}
	return latest, nil
}

func (f *fakeResetTokenStore) GetByHash(ctx context.Context, tokenHash string) (*models.PasswordResetToken, error) {
	for _, t := range f.tokens {
		if t.TokenHash == tokenHash {
			return t, nil
		}
	}
	return nil, apperrors.ErrResetTokenNotFound
}

func (f *fakeResetTokenStore) MarkUsed(ctx context.Context, q repositories.Querier, tokenID string, at time.Time) error {
	t, ok := f.tokens[tokenID]
	if !ok || t.UsedAt != nil {
		return apperrors.ErrResetTokenUsed
	}
	t.UsedAt = &at
	return nil
}

type fakeEmailService struct {
	sent []string // reset URLs, in order
}

func (f *fakeEmailService) SendPasswordResetEmail(toEmail, toName, resetURL string) error {
	f.sent = append(f.sent, resetURL)
	return nil
}

func testJWTService() *auth.JWTService {
	return auth.NewJWTService(auth.JWTConfig{
		SecretKey:       "test-secret",
		AccessTokenExp:  time.Hour,
		RefreshTokenExp: 720 * time.Hour,
		TokenIssuer:     "test",
	})
}

type authFixture struct {
	svc      *AuthService
	students *fakeStudentStore
	admins   *fakeAdminStore
	tokens   *fakeResetTokenStore
	mail     *fakeEmailService
	broker   *fakeBroker
}

func newAuthFixture(students ...*models.Student) *authFixture {
	f := &authFixture{
		students: newFakeStudentStore(students...),
		admins:   &fakeAdminStore{admins: make(map[string]*models.Admin)},
		tokens:   newFakeResetTokenStore(),
		mail:     &fakeEmailService{},
		broker:   &fakeBroker{},
	}
	f.svc = NewAuthService(
		f.students, f.admins, f.tokens, &fakeTxRunner{},
		testJWTService(), f.mail, f.broker,
		"http://localhost:3000", testLogger(),
	)
	return f
}

func activeStudent(password string) *models.Student {
	hash, _ := auth.HashPassword(password)
	return &models.Student{
		ID:           "stu-1",
		StudentNo:    "2021-00123",
		FirstName:    "Maria",
		LastName:     "Santos",
		Email:        "maria.santos@example.edu",
		PasswordHash: hash,
		Status:       models.StudentStatusActive,
		FaceEnrolled: true,
	}
}

func TestRegisterPublishesStudentCreated(t *testing.T) {
	f := newAuthFixture()

	student, err := f.svc.Register(context.Background(), dto.RegisterRequest{
		StudentNo: "2021-00123",
		FirstName: "Maria",
		LastName:  "Santos",
		Email:     "maria.santos@example.edu",
		Password:  "correct-horse",
	})
	require.NoError(t, err)

	assert.Equal(t, models.StudentStatusPending, student.Status)
	assert.NotEqual(t, "correct-horse", student.PasswordHash)

	require.Len(t, f.broker.events, 1)
	assert.Equal(t, events.EventStudentCreated, f.broker.events[0].eventType)
	payload := f.broker.events[0].payload.(events.StudentEvent)
	assert.Equal(t, "2021-00123", payload.StudentNo)
	assert.Equal(t, "Pending", payload.Status)
}

func TestRegisterRejectsMalformedStudentNo(t *testing.T) {
	f := newAuthFixture()

	_, err := f.svc.Register(context.Background(), dto.RegisterRequest{
		StudentNo: "21-123",
		FirstName: "Maria",
		LastName:  "Santos",
		Email:     "maria.santos@example.edu",
		Password:  "correct-horse",
	})
	require.ErrorIs(t, err, apperrors.ErrValidationFailed)
	assert.Empty(t, f.broker.events)
}

func TestLoginChecksCredentialsBeforeStanding(t *testing.T) {
	student := activeStudent("correct-horse")
	student.Status = models.StudentStatusPending
	f := newAuthFixture(student)

	// Wrong password reports bad credentials even though the account is
	// also pending
	_, err := f.svc.Login(context.Background(), dto.LoginRequest{
		Email:    student.Email,
		Password: "wrong",
	})
	require.ErrorIs(t, err, apperrors.ErrInvalidCredentials)

	_, err = f.svc.Login(context.Background(), dto.LoginRequest{
		Email:    student.Email,
		Password: "correct-horse",
	})
	require.ErrorIs(t, err, apperrors.ErrAccountPending)
}

func TestLoginRequiresEnrollment(t *testing.T) {
	student := activeStudent("correct-horse")
	student.FaceEnrolled = false
	f := newAuthFixture(student)

	_, err := f.svc.Login(context.Background(), dto.LoginRequest{
		Email:    student.Email,
		Password: "correct-horse",
	})
	require.ErrorIs(t, err, apperrors.ErrEnrollmentRequired)
}

func TestLoginSucceedsForActiveEnrolledStudent(t *testing.T) {
	student := activeStudent("correct-horse")
	f := newAuthFixture(student)

	got, err := f.svc.Login(context.Background(), dto.LoginRequest{
		Email:    student.Email,
		Password: "correct-horse",
	})
	require.NoError(t, err)
	assert.Equal(t, student.ID, got.ID)
}

func TestAdminLoginIssuesTokens(t *testing.T) {
	f := newAuthFixture()
	hash, _ := auth.HashPassword("admin-pass")
	f.admins.admins["registrar@hau.edu.ph"] = &models.Admin{
		ID:           "adm-1",
		Email:        "registrar@hau.edu.ph",
		FirstName:    "Rosa",
		LastName:     "Cruz",
		PasswordHash: hash,
		Role:         "superadmin",
	}

	resp, err := f.svc.AdminLogin(context.Background(), dto.LoginRequest{
		Email:    "registrar@hau.edu.ph",
		Password: "admin-pass",
	})
	require.NoError(t, err)

	assert.NotEmpty(t, resp.AccessToken)
	assert.NotEmpty(t, resp.RefreshToken)
	assert.Equal(t, 3600, resp.ExpiresIn)
	assert.Equal(t, "adm-1", f.admins.lastLoginID)

	_, err = f.svc.AdminLogin(context.Background(), dto.LoginRequest{
		Email:    "registrar@hau.edu.ph",
		Password: "wrong",
	})
	require.ErrorIs(t, err, apperrors.ErrInvalidCredentials)
}

func TestForgotPasswordUnknownEmailIsSilent(t *testing.T) {
	f := newAuthFixture()

	err := f.svc.ForgotPassword(context.Background(), "ghost@example.edu", nil, nil)
	require.NoError(t, err)
	assert.Empty(t, f.mail.sent)
	assert.Empty(t, f.tokens.tokens)
}

func TestForgotPasswordThrottlesRepeats(t *testing.T) {
	student := activeStudent("correct-horse")
	f := newAuthFixture(student)

	require.NoError(t, f.svc.ForgotPassword(context.Background(), student.Email, nil, nil))
	require.Len(t, f.mail.sent, 1)
	require.Len(t, f.tokens.tokens, 1)

	// Immediate repeat is dropped without error
	require.NoError(t, f.svc.ForgotPassword(context.Background(), student.Email, nil, nil))
	assert.Len(t, f.mail.sent, 1)
	assert.Len(t, f.tokens.tokens, 1)
}

func TestResetPasswordRoundTrip(t *testing.T) {
	student := activeStudent("correct-horse")
	f := newAuthFixture(student)

	require.NoError(t, f.svc.ForgotPassword(context.Background(), student.Email, nil, nil))
	require.Len(t, f.mail.sent, 1)

	// The raw token rides at the end of the emailed URL
	resetURL := f.mail.sent[0]
	rawToken := resetURL[len("http://localhost:3000/reset-password?token="):]

	require.NoError(t, f.svc.ResetPassword(context.Background(), rawToken, "new-password-1"))

	newHash := f.students.passwords[student.ID]
	require.NotEmpty(t, newHash)
	assert.True(t, auth.CheckPassword(newHash, "new-password-1"))

	// Tokens are single use
	err := f.svc.ResetPassword(context.Background(), rawToken, "another-password")
	require.ErrorIs(t, err, apperrors.ErrResetTokenUsed)
}

func TestResetPasswordExpiredToken(t *testing.T) {
	student := activeStudent("correct-horse")
	f := newAuthFixture(student)

	require.NoError(t, f.svc.ForgotPassword(context.Background(), student.Email, nil, nil))
	for _, tok := range f.tokens.tokens {
		tok.ExpiresAt = time.Now().Add(-time.Minute)
	}

	resetURL := f.mail.sent[0]
	rawToken := resetURL[len("http://localhost:3000/reset-password?token="):]

	err := f.svc.ResetPassword(context.Background(), rawToken, "new-password-1")
	require.ErrorIs(t, err, apperrors.ErrResetTokenExpired)
}

func TestResetPasswordUnknownToken(t *testing.T) {
	f := newAuthFixture()

	err := f.svc.ResetPassword(context.Background(), "deadbeef", "new-password-1")
	require.ErrorIs(t, err, apperrors.ErrResetTokenNotFound)
}

func TestMarkEnrolled(t *testing.T) {
	student := activeStudent("correct-horse")
	f := newAuthFixture(student)

	require.NoError(t, f.svc.MarkEnrolled(context.Background(), "2021-00123"))
	assert.Equal(t, []string{"2021-00123"}, f.students.enrolled)
}
