package repositories

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/leemrnda21/hau-kiosk-registar/internal/app/models"
	"github.com/leemrnda21/hau-kiosk-registar/internal/app/models/dto"
	"github.com/leemrnda21/hau-kiosk-registar/internal/pkg/apperrors"
	"github.com/leemrnda21/hau-kiosk-registar/internal/pkg/dberrors"
)

const studentColumns = `
	id, student_no, first_name, last_name, email, password_hash, course,
	year_level, status, is_on_hold, hold_reason, hold_until, is_deactivated,
	deactivated_at, face_enrolled, created_at, updated_at
`

// StudentRepository handles database operations for students
type StudentRepository struct {
	db *pgxpool.Pool
}

// NewStudentRepository creates a new student repository
func NewStudentRepository(db *pgxpool.Pool) *StudentRepository {
	return &StudentRepository{
		db: db,
	}
}

func scanStudent(row pgx.Row) (*models.Student, error) {
	var s models.Student
	err := row.Scan(
		&s.ID, &s.StudentNo, &s.FirstName, &s.LastName, &s.Email, &s.PasswordHash,
		&s.Course, &s.YearLevel, &s.Status, &s.IsOnHold, &s.HoldReason, &s.HoldUntil,
		&s.IsDeactivated, &s.DeactivatedAt, &s.FaceEnrolled, &s.CreatedAt, &s.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// Create inserts a newly registered student (status Pending)
func (r *StudentRepository) Create(ctx context.Context, student *models.Student) error {
	query := `
		INSERT INTO students (id, student_no, first_name, last_name, email, password_hash, course, year_level, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING created_at, updated_at
	`

	err := r.db.QueryRow(ctx, query,
		student.ID, student.StudentNo, student.FirstName, student.LastName,
		student.Email, student.PasswordHash, student.Course, student.YearLevel,
		student.Status,
	).Scan(&student.CreatedAt, &student.UpdatedAt)
	if err != nil {
		if dberrors.IsDuplicateConstraintError(err, "students_student_no_key") {
			return apperrors.ErrStudentNoExists
		}
		if dberrors.IsDuplicateConstraintError(err, "students_email_key") {
			return apperrors.ErrEmailAlreadyExists
		}
		return fmt.Errorf("error creating student: %w", err)
	}

	return nil
}

// GetByID retrieves a student by ID
func (r *StudentRepository) GetByID(ctx context.Context, id string) (*models.Student, error) {
	query := `SELECT ` + studentColumns + ` FROM students WHERE id = $1`

	student, err := scanStudent(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrStudentNotFound
		}
		return nil, fmt.Errorf("error retrieving student: %w", err)
	}

	return student, nil
}

// GetByEmail retrieves a student by email
func (r *StudentRepository) GetByEmail(ctx context.Context, email string) (*models.Student, error) {
	query := `SELECT ` + studentColumns + ` FROM students WHERE email = $1`

	student, err := scanStudent(r.db.QueryRow(ctx, query, email))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrStudentNotFound
		}
		return nil, fmt.Errorf("error retrieving student by email: %w", err)
	}

	return student, nil
}

// GetByStudentNo retrieves a student by student number
func (r *StudentRepository) GetByStudentNo(ctx context.Context, studentNo string) (*models.Student, error) {
	query := `SELECT ` + studentColumns + ` FROM students WHERE student_no = $1`

	student, err := scanStudent(r.db.QueryRow(ctx, query, studentNo))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrStudentNotFound
		}
		return nil, fmt.Errorf("error retrieving student by student number: %w", err)
	}

	return student, nil
}

// List retrieves students matching the filter, newest account first
func (r *StudentRepository) List(ctx context.Context, filter dto.StudentListFilter) ([]*models.Student, error) {
	query := `SELECT ` + studentColumns + ` FROM students`

	var conditions []string
	var args []any

	if filter.Status != "" {
		args = append(args, filter.Status)
		conditions = append(conditions, "status = $"+strconv.Itoa(len(args)))
	}
	if filter.OnHold {
		conditions = append(conditions, "is_on_hold = TRUE")
	}
	if filter.Deactivated {
		conditions = append(conditions, "is_deactivated = TRUE")
	}

	for i, cond := range conditions {
		if i == 0 {
			query += " WHERE " + cond
		} else {
			query += " AND " + cond
		}
	}
	query += " ORDER BY created_at DESC"

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("error listing students: %w", err)
	}
	defer rows.Close()

	var students []*models.Student
	for rows.Next() {
		student, err := scanStudent(rows)
		if err != nil {
			return nil, err
		}
		students = append(students, student)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return students, nil
}

// Update writes the full set of mutable columns in one statement. The write
// is all-or-nothing per row; concurrent admin actions on the same student
// resolve as last-writer-wins by design.
func (r *StudentRepository) Update(ctx context.Context, q Querier, student *models.Student) error {
	query := `
		UPDATE students
		SET status = $1, is_on_hold = $2, hold_reason = $3, hold_until = $4,
		    is_deactivated = $5, deactivated_at = $6, updated_at = $7
		WHERE id = $8
	`

	cmdTag, err := q.Exec(ctx, query,
		student.Status, student.IsOnHold, student.HoldReason, student.HoldUntil,
		student.IsDeactivated, student.DeactivatedAt, student.UpdatedAt, student.ID,
	)
	if err != nil {
		return fmt.Errorf("error updating student: %w", err)
	}

	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrStudentNotFound
	}

	return nil
}

// MarkEnrolled records completed identity enrollment for a student
func (r *StudentRepository) MarkEnrolled(ctx context.Context, studentNo string) error {
	cmdTag, err := r.db.Exec(ctx,
		`UPDATE students SET face_enrolled = TRUE, updated_at = NOW() WHERE student_no = $1`,
		studentNo,
	)
	if err != nil {
		return fmt.Errorf("error marking enrollment: %w", err)
	}

	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrStudentNotFound
	}

	return nil
}

// UpdatePassword replaces the stored credential hash
func (r *StudentRepository) UpdatePassword(ctx context.Context, q Querier, studentID, passwordHash string) error {
	cmdTag, err := q.Exec(ctx,
		`UPDATE students SET password_hash = $1, updated_at = NOW() WHERE id = $2`,
		passwordHash, studentID,
	)
	if err != nil {
		return fmt.Errorf("error updating password: %w", err)
	}

	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrStudentNotFound
	}

	return nil
}

// CountByStatus counts accounts in one approval status
func (r *StudentRepository) CountByStatus(ctx context.Context, status models.StudentStatus) (int, error) {
	var count int
	err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM students WHERE status = $1`, status).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("error counting students: %w", err)
	}
	return count, nil
}
