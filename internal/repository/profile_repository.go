package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/skit-dev/sodeca-api/internal/models"
)

// ProfileRepository provides database access for student profiles.
type ProfileRepository struct {
	db *sqlx.DB
}

// NewProfileRepository creates a new instance of ProfileRepository.
func NewProfileRepository(db *sqlx.DB) *ProfileRepository {
	return &ProfileRepository{db: db}
}

// FindByUserID returns the profile keyed by account id.
func (r *ProfileRepository) FindByUserID(ctx context.Context, userID string) (*models.StudentProfile, error) {
	const query = `SELECT student_user_id, university_roll_no, student_name, branch, semester, section, class_group, batch_counselor
		FROM student_details WHERE student_user_id = $1 LIMIT 1`
	var profile models.StudentProfile
	if err := r.db.GetContext(ctx, &profile, query, userID); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("find profile: %w", err)
	}
	return &profile, nil
}

// Upsert inserts or replaces the profile in a single statement.
func (r *ProfileRepository) Upsert(ctx context.Context, profile *models.StudentProfile) error {
	const query = `INSERT INTO student_details (student_user_id, university_roll_no, student_name, branch, semester, section, class_group, batch_counselor)
		VALUES (:student_user_id, :university_roll_no, :student_name, :branch, :semester, :section, :class_group, :batch_counselor)
		ON CONFLICT (student_user_id) DO UPDATE SET
			university_roll_no = EXCLUDED.university_roll_no,
			student_name = EXCLUDED.student_name,
			branch = EXCLUDED.branch,
			semester = EXCLUDED.semester,
			section = EXCLUDED.section,
			class_group = EXCLUDED.class_group,
			batch_counselor = EXCLUDED.batch_counselor`
	if _, err := r.db.NamedExecContext(ctx, query, profile); err != nil {
		return fmt.Errorf("upsert profile: %w", err)
	}
	return nil
}
