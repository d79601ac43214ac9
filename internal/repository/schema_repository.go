package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"go.uber.org/zap"

	"github.com/skit-dev/sodeca-api/internal/forms"
)

// SchemaRepository materializes database tables from form definitions. It
// runs once at process start; a failure here is fatal because the server must
// never serve traffic against a missing table.
type SchemaRepository struct {
	db     *sqlx.DB
	logger *zap.Logger
}

// NewSchemaRepository creates a new instance of SchemaRepository.
func NewSchemaRepository(db *sqlx.DB, logger *zap.Logger) *SchemaRepository {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SchemaRepository{db: db, logger: logger}
}

// EnsureBaseTables creates the account and profile tables if absent.
func (r *SchemaRepository) EnsureBaseTables(ctx context.Context) error {
	const studentsDDL = `CREATE TABLE IF NOT EXISTS students (
		user_id TEXT PRIMARY KEY,
		email TEXT UNIQUE NOT NULL,
		password_hash TEXT,
		google_id TEXT UNIQUE,
		auth_provider TEXT NOT NULL DEFAULT 'local',
		role TEXT NOT NULL DEFAULT 'student',
		profile_picture TEXT,
		first_name TEXT,
		last_name TEXT,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`
	if _, err := r.db.ExecContext(ctx, studentsDDL); err != nil {
		return fmt.Errorf("create students table: %w", err)
	}

	const detailsDDL = `CREATE TABLE IF NOT EXISTS student_details (
		student_user_id TEXT PRIMARY KEY REFERENCES students(user_id),
		university_roll_no TEXT NOT NULL,
		student_name TEXT NOT NULL,
		branch TEXT NOT NULL,
		semester INTEGER NOT NULL,
		section TEXT NOT NULL,
		class_group TEXT NOT NULL,
		batch_counselor TEXT NOT NULL
	)`
	if _, err := r.db.ExecContext(ctx, detailsDDL); err != nil {
		return fmt.Errorf("create student_details table: %w", err)
	}

	return nil
}

// EnsureTable creates the submission table for a form definition if absent,
// then reconciles drift by adding columns for registry fields missing from an
// existing table. Idempotent. Identifiers come only from the validated
// registry and are still quoted before reaching the DDL.
func (r *SchemaRepository) EnsureTable(ctx context.Context, def forms.Definition) error {
	exists, err := r.tableExists(ctx, def.Key)
	if err != nil {
		return err
	}

	if !exists {
		columns := make([]string, 0, len(def.Fields)+2)
		columns = append(columns, "student_id TEXT PRIMARY KEY REFERENCES student_details(student_user_id)")
		for _, field := range def.Fields {
			columns = append(columns, fmt.Sprintf("%s TEXT NOT NULL", pq.QuoteIdentifier(field.Name)))
		}
		columns = append(columns, "status TEXT NOT NULL DEFAULT 'pending' CHECK (status IN ('pending', 'approved', 'rejected'))")

		ddl := fmt.Sprintf("CREATE TABLE IF NOT EXISTS %s (\n\t%s\n)",
			pq.QuoteIdentifier(def.Key), strings.Join(columns, ",\n\t"))
		if _, err := r.db.ExecContext(ctx, ddl); err != nil {
			return fmt.Errorf("create table %s: %w", def.Key, err)
		}
		return nil
	}

	return r.reconcile(ctx, def)
}

// reconcile adds registry fields missing from an existing table and warns
// about columns the registry no longer knows. Removals are left to operators.
func (r *SchemaRepository) reconcile(ctx context.Context, def forms.Definition) error {
	existing, err := r.columnNames(ctx, def.Key)
	if err != nil {
		return err
	}

	known := map[string]struct{}{"student_id": {}, "status": {}}
	for _, field := range def.Fields {
		known[field.Name] = struct{}{}
		if _, ok := existing[field.Name]; ok {
			continue
		}
		ddl := fmt.Sprintf("ALTER TABLE %s ADD COLUMN %s TEXT NOT NULL DEFAULT ''",
			pq.QuoteIdentifier(def.Key), pq.QuoteIdentifier(field.Name))
		if _, err := r.db.ExecContext(ctx, ddl); err != nil {
			return fmt.Errorf("add column %s.%s: %w", def.Key, field.Name, err)
		}
		r.logger.Info("added missing submission column",
			zap.String("form", def.Key), zap.String("column", field.Name))
	}

	for column := range existing {
		if _, ok := known[column]; !ok {
			r.logger.Warn("submission table has column unknown to the registry",
				zap.String("form", def.Key), zap.String("column", column))
		}
	}

	return nil
}

func (r *SchemaRepository) tableExists(ctx context.Context, name string) (bool, error) {
	const query = `SELECT EXISTS (SELECT 1 FROM information_schema.tables WHERE table_schema = 'public' AND table_name = $1)`
	var exists bool
	if err := r.db.GetContext(ctx, &exists, query, name); err != nil {
		return false, fmt.Errorf("check table %s: %w", name, err)
	}
	return exists, nil
}

func (r *SchemaRepository) columnNames(ctx context.Context, table string) (map[string]struct{}, error) {
	const query = `SELECT column_name FROM information_schema.columns WHERE table_schema = 'public' AND table_name = $1`
	var names []string
	if err := r.db.SelectContext(ctx, &names, query, table); err != nil {
		return nil, fmt.Errorf("list columns of %s: %w", table, err)
	}
	set := make(map[string]struct{}, len(names))
	for _, n := range names {
		set[n] = struct{}{}
	}
	return set, nil
}
