package models

import "time"

// StudentStatus represents the approval lifecycle of a student account
type StudentStatus string

const (
	StudentStatusPending  StudentStatus = "Pending"
	StudentStatusActive   StudentStatus = "Active"
	StudentStatusRejected StudentStatus = "Rejected"
)

// Student defines the student model based on the 'students' table
type Student struct {
	ID            string        `json:"id" db:"id"`                                   // Unique identifier (UUID)
	StudentNo     string        `json:"studentNo" db:"student_no" example:"2021-00418"` // Registrar-issued student number
	FirstName     string        `json:"firstName" db:"first_name" example:"Maria"`
	LastName      string        `json:"lastName" db:"last_name" example:"Santos"`
	Email         string        `json:"email" db:"email" example:"maria.santos@hau.edu.ph"`
	PasswordHash  string        `json:"-" db:"password_hash"` // Bcrypt hash (excluded from JSON)
	Course        *string       `json:"course,omitempty" db:"course"`
	YearLevel     *string       `json:"yearLevel,omitempty" db:"year_level"`
	Status        StudentStatus `json:"status" db:"status" example:"Pending"`
	IsOnHold      bool          `json:"isOnHold" db:"is_on_hold"`
	HoldReason    *string       `json:"holdReason,omitempty" db:"hold_reason"`
	HoldUntil     *time.Time    `json:"holdUntil,omitempty" db:"hold_until"`
	IsDeactivated bool          `json:"isDeactivated" db:"is_deactivated"`
	DeactivatedAt *time.Time    `json:"deactivatedAt,omitempty" db:"deactivated_at"`
	FaceEnrolled  bool          `json:"faceEnrolled" db:"face_enrolled"` // Identity enrollment completed
	CreatedAt     time.Time     `json:"createdAt" db:"created_at"`
	UpdatedAt     time.Time     `json:"updatedAt" db:"updated_at"`
}

// HoldExpired reports whether a hold on the account has lapsed.
// A hold without an expiry never lapses on its own.
func (s *Student) HoldExpired(now time.Time) bool {
	if !s.IsOnHold {
		return true
	}
	if s.HoldUntil == nil {
		return false
	}
	return s.HoldUntil.Before(now)
}
