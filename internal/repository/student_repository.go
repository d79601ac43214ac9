package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/skit-dev/sodeca-api/internal/models"
)

const studentColumns = `user_id, email, password_hash, google_id, auth_provider, role, profile_picture, first_name, last_name, created_at, updated_at`

// StudentRepository provides database access for student accounts.
type StudentRepository struct {
	db *sqlx.DB
}

// NewStudentRepository creates a new instance of StudentRepository.
func NewStudentRepository(db *sqlx.DB) *StudentRepository {
	return &StudentRepository{db: db}
}

// FindByEmail returns an account by email address.
func (r *StudentRepository) FindByEmail(ctx context.Context, email string) (*models.Student, error) {
	query := fmt.Sprintf(`SELECT %s FROM students WHERE email = $1 LIMIT 1`, studentColumns)
	var student models.Student
	if err := r.db.GetContext(ctx, &student, query, email); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("find student by email: %w", err)
	}
	return &student, nil
}

// FindByGoogleID returns an account by external identity subject.
func (r *StudentRepository) FindByGoogleID(ctx context.Context, googleID string) (*models.Student, error) {
	query := fmt.Sprintf(`SELECT %s FROM students WHERE google_id = $1 LIMIT 1`, studentColumns)
	var student models.Student
	if err := r.db.GetContext(ctx, &student, query, googleID); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("find student by google id: %w", err)
	}
	return &student, nil
}

// FindByID returns an account by identifier.
func (r *StudentRepository) FindByID(ctx context.Context, id string) (*models.Student, error) {
	query := fmt.Sprintf(`SELECT %s FROM students WHERE user_id = $1 LIMIT 1`, studentColumns)
	var student models.Student
	if err := r.db.GetContext(ctx, &student, query, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("find student by id: %w", err)
	}
	return &student, nil
}

// Create inserts a new account.
func (r *StudentRepository) Create(ctx context.Context, student *models.Student) error {
	if student.ID == "" {
		student.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if student.CreatedAt.IsZero() {
		student.CreatedAt = now
	}
	student.UpdatedAt = now
	if student.AuthProvider == "" {
		student.AuthProvider = models.AuthProviderLocal
	}
	if student.Role == "" {
		student.Role = models.RoleStudent
	}

	const query = `INSERT INTO students (user_id, email, password_hash, google_id, auth_provider, role, profile_picture, first_name, last_name, created_at, updated_at)
		VALUES (:user_id, :email, :password_hash, :google_id, :auth_provider, :role, :profile_picture, :first_name, :last_name, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, student); err != nil {
		return fmt.Errorf("create student: %w", err)
	}
	return nil
}

// LinkGoogleAccount attaches an external identity to the account matching the
// email and switches its auth provider.
func (r *StudentRepository) LinkGoogleAccount(ctx context.Context, email string, identity models.GoogleIdentity) error {
	const query = `UPDATE students
		SET google_id = $2, profile_picture = $3, first_name = $4, last_name = $5,
			auth_provider = 'google', updated_at = $6
		WHERE email = $1`
	if _, err := r.db.ExecContext(ctx, query, email, identity.Subject, identity.ProfilePicture,
		identity.FirstName, identity.LastName, time.Now().UTC()); err != nil {
		return fmt.Errorf("link google account: %w", err)
	}
	return nil
}
