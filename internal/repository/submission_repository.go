package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/skit-dev/sodeca-api/internal/models"
)

// SubmissionRepository provides access to the per-form submission tables.
// Table and column names always come from a validated form definition and are
// quoted anyway; values are only ever bound as parameters.
type SubmissionRepository struct {
	db *sqlx.DB
}

// NewSubmissionRepository creates a new instance of SubmissionRepository.
func NewSubmissionRepository(db *sqlx.DB) *SubmissionRepository {
	return &SubmissionRepository{db: db}
}

// Upsert writes one submission in a single atomic statement keyed by the
// student id. A conflict overwrites every field column and resets the status
// to pending, so a re-submission after rejection returns for re-review. Never
// split into an existence check plus write; two concurrent requests from the
// same student must not race.
func (r *SubmissionRepository) Upsert(ctx context.Context, form string, fieldNames []string, studentID string, values map[string]string) error {
	columns := make([]string, 0, len(fieldNames)+2)
	placeholders := make([]string, 0, len(fieldNames)+2)
	updates := make([]string, 0, len(fieldNames)+1)
	args := make([]interface{}, 0, len(fieldNames)+2)

	columns = append(columns, "student_id")
	placeholders = append(placeholders, "$1")
	args = append(args, studentID)

	for i, name := range fieldNames {
		quoted := pq.QuoteIdentifier(name)
		columns = append(columns, quoted)
		placeholders = append(placeholders, fmt.Sprintf("$%d", i+2))
		updates = append(updates, fmt.Sprintf("%s = EXCLUDED.%s", quoted, quoted))
		args = append(args, values[name])
	}

	columns = append(columns, "status")
	placeholders = append(placeholders, fmt.Sprintf("$%d", len(fieldNames)+2))
	updates = append(updates, "status = EXCLUDED.status")
	args = append(args, string(models.StatusPending))

	query := fmt.Sprintf(`INSERT INTO %s (%s) VALUES (%s) ON CONFLICT (student_id) DO UPDATE SET %s`,
		pq.QuoteIdentifier(form),
		strings.Join(columns, ", "),
		strings.Join(placeholders, ", "),
		strings.Join(updates, ", "),
	)

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("upsert submission into %s: %w", form, err)
	}
	return nil
}

// ListAll returns every row of the form's table.
func (r *SubmissionRepository) ListAll(ctx context.Context, form string) ([]models.SubmissionRow, error) {
	query := fmt.Sprintf(`SELECT * FROM %s ORDER BY student_id`, pq.QuoteIdentifier(form))
	rows, err := r.db.QueryxContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list submissions of %s: %w", form, err)
	}
	defer rows.Close() //nolint:errcheck

	var result []models.SubmissionRow
	for rows.Next() {
		raw := make(map[string]interface{})
		if err := rows.MapScan(raw); err != nil {
			return nil, fmt.Errorf("scan submission of %s: %w", form, err)
		}
		row := make(models.SubmissionRow, len(raw))
		for column, value := range raw {
			row[column] = asString(value)
		}
		result = append(result, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate submissions of %s: %w", form, err)
	}
	return result, nil
}

// UpdateStatus sets the review state of one submission.
func (r *SubmissionRepository) UpdateStatus(ctx context.Context, form, studentID string, status models.SubmissionStatus) error {
	query := fmt.Sprintf(`UPDATE %s SET status = $2 WHERE student_id = $1`, pq.QuoteIdentifier(form))
	res, err := r.db.ExecContext(ctx, query, studentID, string(status))
	if err != nil {
		return fmt.Errorf("update status in %s: %w", form, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update status in %s: %w", form, err)
	}
	if affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}

func asString(v interface{}) string {
	switch value := v.(type) {
	case nil:
		return ""
	case string:
		return value
	case []byte:
		return string(value)
	default:
		return fmt.Sprintf("%v", value)
	}
}
