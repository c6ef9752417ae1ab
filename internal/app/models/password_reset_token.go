package models

import "time"

// PasswordResetToken defines a single-use reset token based on the
// 'password_reset_tokens' table. Only the SHA-256 hash of the token is stored.
type PasswordResetToken struct {
	ID        string     `json:"id" db:"id"`
	StudentID string     `json:"studentId" db:"student_id"`
	TokenHash string     `json:"-" db:"token_hash"`
	ExpiresAt time.Time  `json:"expiresAt" db:"expires_at"`
	UsedAt    *time.Time `json:"usedAt,omitempty" db:"used_at"`
	IP        *string    `json:"ip,omitempty" db:"ip"`
	UserAgent *string    `json:"userAgent,omitempty" db:"user_agent"`
	CreatedAt time.Time  `json:"createdAt" db:"created_at"`
}
