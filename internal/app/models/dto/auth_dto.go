package dto

// RegisterRequest is the body of POST /auth/register
type RegisterRequest struct {
	StudentNo string  `json:"studentNo" binding:"required"`
	FirstName string  `json:"firstName" binding:"required"`
	LastName  string  `json:"lastName" binding:"required"`
	Email     string  `json:"email" binding:"required,email"`
	Password  string  `json:"password" binding:"required,min=8"`
	Course    *string `json:"course,omitempty"`
	YearLevel *string `json:"yearLevel,omitempty"`
}

// LoginRequest is the body of POST /auth/login and POST /auth/admin/login
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// StudentSummary is the public view of a student returned by auth endpoints
type StudentSummary struct {
	ID        string `json:"id"`
	StudentNo string `json:"studentNo"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
}

// AdminLoginResponse carries the admin profile and session tokens
type AdminLoginResponse struct {
	ID           string `json:"id"`
	Email        string `json:"email"`
	FirstName    string `json:"firstName"`
	LastName     string `json:"lastName"`
	Role         string `json:"role"`
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
	ExpiresIn    int    `json:"expiresIn"`
}

// EnrollmentRequest is the body of POST /auth/enrollment. The biometric
// matching itself happens in the browser; the server only records that
// enrollment completed.
type EnrollmentRequest struct {
	StudentNo string `json:"studentNo" binding:"required"`
}

// ForgotPasswordRequest is the body of POST /auth/forgot-password
type ForgotPasswordRequest struct {
	Email string `json:"email" binding:"required,email"`
}

// ResetPasswordRequest is the body of POST /auth/reset-password
type ResetPasswordRequest struct {
	Token    string `json:"token" binding:"required"`
	Password string `json:"password" binding:"required,min=8"`
}
