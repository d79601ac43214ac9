package repository

import (
	"context"
	"database/sql"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/skit-dev/sodeca-api/internal/models"
)

func newStudentMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	return sqlx.NewDb(db, "sqlmock"), mock, func() { db.Close() }
}

func studentRows() *sqlmock.Rows {
	return sqlmock.NewRows([]string{"user_id", "email", "password_hash", "google_id", "auth_provider", "role", "profile_picture", "first_name", "last_name", "created_at", "updated_at"}).
		AddRow("u1", "asha@example.com", "hash", nil, "local", "student", nil, nil, nil, time.Now(), time.Now())
}

func TestStudentRepositoryFindByEmail(t *testing.T) {
	db, mock, cleanup := newStudentMock(t)
	defer cleanup()
	repo := NewStudentRepository(db)

	mock.ExpectQuery("SELECT .+ FROM students WHERE email = \\$1").
		WithArgs("asha@example.com").
		WillReturnRows(studentRows())

	student, err := repo.FindByEmail(context.Background(), "asha@example.com")
	require.NoError(t, err)
	assert.Equal(t, "u1", student.ID)
	assert.Equal(t, models.AuthProviderLocal, student.AuthProvider)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStudentRepositoryFindByEmailNotFound(t *testing.T) {
	db, mock, cleanup := newStudentMock(t)
	defer cleanup()
	repo := NewStudentRepository(db)

	mock.ExpectQuery("SELECT .+ FROM students WHERE email = \\$1").
		WithArgs("nobody@example.com").
		WillReturnError(sql.ErrNoRows)

	_, err := repo.FindByEmail(context.Background(), "nobody@example.com")
	assert.ErrorIs(t, err, sql.ErrNoRows)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStudentRepositoryCreateAssignsID(t *testing.T) {
	db, mock, cleanup := newStudentMock(t)
	defer cleanup()
	repo := NewStudentRepository(db)

	mock.ExpectExec("INSERT INTO students").
		WithArgs(sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))

	student := &models.Student{Email: "asha@example.com"}
	require.NoError(t, repo.Create(context.Background(), student))
	assert.NotEmpty(t, student.ID)
	assert.Equal(t, models.AuthProviderLocal, student.AuthProvider)
	assert.Equal(t, models.RoleStudent, student.Role)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStudentRepositoryLinkGoogleAccount(t *testing.T) {
	db, mock, cleanup := newStudentMock(t)
	defer cleanup()
	repo := NewStudentRepository(db)

	mock.ExpectExec(regexp.QuoteMeta("UPDATE students")).
		WithArgs("asha@example.com", "google-sub-1", "https://pic", "Asha", "Verma", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.LinkGoogleAccount(context.Background(), "asha@example.com", models.GoogleIdentity{
		Subject:        "google-sub-1",
		Email:          "asha@example.com",
		FirstName:      "Asha",
		LastName:       "Verma",
		ProfilePicture: "https://pic",
	})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}
