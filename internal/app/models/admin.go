package models

import "time"

// Admin defines the registrar staff model based on the 'admins' table
type Admin struct {
	ID           string     `json:"id" db:"id"`
	Email        string     `json:"email" db:"email" example:"registrar@hau.edu.ph"`
	FirstName    string     `json:"firstName" db:"first_name"`
	LastName     string     `json:"lastName" db:"last_name"`
	PasswordHash string     `json:"-" db:"password_hash"`
	Role         string     `json:"role" db:"role" example:"superadmin"`
	LastLoginAt  *time.Time `json:"lastLoginAt,omitempty" db:"last_login_at"`
	CreatedAt    time.Time  `json:"createdAt" db:"created_at"`
}
