package services

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"

	"github.com/leemrnda21/hau-kiosk-registar/internal/app/models"
	"github.com/leemrnda21/hau-kiosk-registar/internal/app/models/dto"
	"github.com/leemrnda21/hau-kiosk-registar/internal/app/repositories"
	"github.com/leemrnda21/hau-kiosk-registar/internal/app/status"
	"github.com/leemrnda21/hau-kiosk-registar/internal/pkg/apperrors"
	"github.com/leemrnda21/hau-kiosk-registar/internal/pkg/auth"
	"github.com/leemrnda21/hau-kiosk-registar/internal/pkg/email"
	"github.com/leemrnda21/hau-kiosk-registar/internal/pkg/events"
	"github.com/leemrnda21/hau-kiosk-registar/internal/pkg/validation"
)

const (
	resetTokenTTL      = 30 * time.Minute
	resetTokenThrottle = 60 * time.Second
)

// adminStore is the slice of AdminRepository the auth service depends on.
type adminStore interface {
	GetByEmail(ctx context.Context, email string) (*models.Admin, error)
	TouchLastLogin(ctx context.Context, adminID string, at time.Time) error
}

// resetTokenStore is the slice of PasswordResetTokenRepository the auth
// service depends on.
type resetTokenStore interface {
	Create(ctx context.Context, token *models.PasswordResetToken) error
	LatestForStudent(ctx context.Context, studentID string) (*models.PasswordResetToken, error)
	GetByHash(ctx context.Context, tokenHash string) (*models.PasswordResetToken, error)
	MarkUsed(ctx context.Context, q repositories.Querier, tokenID string, at time.Time) error
}

// AuthService handles student registration, sign-in gating, identity
// enrollment and the password reset flow.
type AuthService struct {
	studentRepo studentStore
	adminRepo   adminStore
	tokenRepo   resetTokenStore
	tx          txRunner
	jwtService  *auth.JWTService
	emailSvc    email.EmailService
	broker      eventPublisher
	baseURL     string
	logger      zerolog.Logger
}

// NewAuthService creates a new AuthService
func NewAuthService(
	studentRepo studentStore,
	adminRepo adminStore,
	tokenRepo resetTokenStore,
	tx txRunner,
	jwtService *auth.JWTService,
	emailSvc email.EmailService,
	broker eventPublisher,
	baseURL string,
	logger zerolog.Logger,
) *AuthService {
	return &AuthService{
		studentRepo: studentRepo,
		adminRepo:   adminRepo,
		tokenRepo:   tokenRepo,
		tx:          tx,
		jwtService:  jwtService,
		emailSvc:    emailSvc,
		broker:      broker,
		baseURL:     baseURL,
		logger:      logger,
	}
}

// Register creates a new student account in pending status. The account is
// unusable until a registrar approves it.
func (s *AuthService) Register(ctx context.Context, body dto.RegisterRequest) (*models.Student, error) {
	if !validation.IsValidStudentNo(body.StudentNo) {
		return nil, apperrors.NewValidationError("studentNo must look like 2021-00123")
	}

	passwordHash, err := auth.HashPassword(body.Password)
	if err != nil {
		return nil, fmt.Errorf("error hashing password: %w", err)
	}

	student := &models.Student{
		ID:           uuid.New().String(),
		StudentNo:    body.StudentNo,
		FirstName:    body.FirstName,
		LastName:     body.LastName,
		Email:        body.Email,
		PasswordHash: passwordHash,
		Course:       body.Course,
		YearLevel:    body.YearLevel,
		Status:       models.StudentStatusPending,
	}

	if err := s.studentRepo.Create(ctx, student); err != nil {
		return nil, err
	}

	s.broker.Publish(events.EventStudentCreated, events.StudentEvent{
		StudentNo: student.StudentNo,
		Status:    string(student.Status),
	})

	s.logger.Info().Str("studentNo", student.StudentNo).Msg("Student registered")

	return student, nil
}

// Login authenticates a student. Credentials are checked first, then account
// standing, then identity enrollment.
func (s *AuthService) Login(ctx context.Context, body dto.LoginRequest) (*models.Student, error) {
	student, err := s.studentRepo.GetByEmail(ctx, body.Email)
	if err != nil {
		return nil, apperrors.ErrInvalidCredentials
	}

	if !auth.CheckPassword(student.PasswordHash, body.Password) {
		return nil, apperrors.ErrInvalidCredentials
	}

	if err := status.CanAuthenticate(student, time.Now()); err != nil {
		return nil, err
	}

	return student, nil
}

// AdminLogin authenticates a registrar staff member and issues a session
// token pair.
func (s *AuthService) AdminLogin(ctx context.Context, body dto.LoginRequest) (*dto.AdminLoginResponse, error) {
	admin, err := s.adminRepo.GetByEmail(ctx, body.Email)
	if err != nil {
		return nil, apperrors.ErrInvalidCredentials
	}

	if !auth.CheckPassword(admin.PasswordHash, body.Password) {
		return nil, apperrors.ErrInvalidCredentials
	}

	accessToken, refreshToken, expiresIn, _, err := s.jwtService.GenerateTokenPair(admin)
	if err != nil {
		return nil, err
	}

	if err := s.adminRepo.TouchLastLogin(ctx, admin.ID, time.Now()); err != nil {
		s.logger.Warn().Err(err).Str("adminId", admin.ID).Msg("Failed to record admin login time")
	}

	return &dto.AdminLoginResponse{
		ID:           admin.ID,
		Email:        admin.Email,
		FirstName:    admin.FirstName,
		LastName:     admin.LastName,
		Role:         admin.Role,
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		ExpiresIn:    expiresIn,
	}, nil
}

// MarkEnrolled records completed identity enrollment for a student
func (s *AuthService) MarkEnrolled(ctx context.Context, studentNo string) error {
	return s.studentRepo.MarkEnrolled(ctx, studentNo)
}

// ForgotPassword issues a single-use reset token and emails its link to the
// student. It deliberately reports success whether or not the email matches
// an account, and silently drops repeat requests made within the throttle
// window.
func (s *AuthService) ForgotPassword(ctx context.Context, emailAddr string, ip, userAgent *string) error {
	student, err := s.studentRepo.GetByEmail(ctx, emailAddr)
	if err != nil {
		s.logger.Debug().Str("email", emailAddr).Msg("Password reset requested for unknown email")
		return nil
	}

	latest, err := s.tokenRepo.LatestForStudent(ctx, student.ID)
	if err != nil {
		return err
	}
	if latest != nil && time.Since(latest.CreatedAt) < resetTokenThrottle {
		s.logger.Debug().Str("studentNo", student.StudentNo).Msg("Password reset throttled")
		return nil
	}

	rawToken, err := newResetToken()
	if err != nil {
		return err
	}

	token := &models.PasswordResetToken{
		ID:        uuid.New().String(),
		StudentID: student.ID,
		TokenHash: hashResetToken(rawToken),
		ExpiresAt: time.Now().Add(resetTokenTTL),
		IP:        ip,
		UserAgent: userAgent,
	}

	if err := s.tokenRepo.Create(ctx, token); err != nil {
		return err
	}

	resetURL := fmt.Sprintf("%s/reset-password?token=%s", s.baseURL, rawToken)
	name := student.FirstName + " " + student.LastName

	if err := s.emailSvc.SendPasswordResetEmail(student.Email, name, resetURL); err != nil {
		return err
	}

	return nil
}

// ResetPassword consumes a reset token and replaces the student's password.
// The password change and token consumption commit together.
func (s *AuthService) ResetPassword(ctx context.Context, rawToken, newPassword string) error {
	token, err := s.tokenRepo.GetByHash(ctx, hashResetToken(rawToken))
	if err != nil {
		return err
	}

	if token.UsedAt != nil {
		return apperrors.ErrResetTokenUsed
	}
	if time.Now().After(token.ExpiresAt) {
		return apperrors.ErrResetTokenExpired
	}

	passwordHash, err := auth.HashPassword(newPassword)
	if err != nil {
		return fmt.Errorf("error hashing password: %w", err)
	}

	return s.tx.WithTransaction(ctx, func(ctx context.Context, tx pgx.Tx) error {
		if err := s.studentRepo.UpdatePassword(ctx, tx, token.StudentID, passwordHash); err != nil {
			return err
		}
		return s.tokenRepo.MarkUsed(ctx, tx, token.ID, time.Now())
	})
}

// newResetToken generates a 32-byte random token, hex encoded
func newResetToken() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("error generating reset token: %w", err)
	}
	return hex.EncodeToString(buf), nil
}

// hashResetToken returns the hex SHA-256 digest stored in place of the token
func hashResetToken(rawToken string) string {
	sum := sha256.Sum256([]byte(rawToken))
	return hex.EncodeToString(sum[:])
}
