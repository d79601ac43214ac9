package service

import (
	"context"
	"database/sql"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/skit-dev/sodeca-api/internal/models"
	appErrors "github.com/skit-dev/sodeca-api/pkg/errors"
	"github.com/skit-dev/sodeca-api/pkg/jobs"
	"github.com/skit-dev/sodeca-api/pkg/storage"
)

type mockReviewRepo struct {
	rows          map[string][]models.SubmissionRow
	updated       []string
	updateMissing bool
}

func (m *mockReviewRepo) ListAll(ctx context.Context, form string) ([]models.SubmissionRow, error) {
	return m.rows[form], nil
}

func (m *mockReviewRepo) UpdateStatus(ctx context.Context, form, studentID string, status models.SubmissionStatus) error {
	if m.updateMissing {
		return sql.ErrNoRows
	}
	m.updated = append(m.updated, form+"/"+studentID+"/"+string(status))
	return nil
}

type mockExportStore struct {
	mu    sync.Mutex
	saved map[string][]byte
}

func (m *mockExportStore) Save(filename string, data []byte) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.saved == nil {
		m.saved = make(map[string][]byte)
	}
	m.saved[filename] = data
	return filename, nil
}

func (m *mockExportStore) Exists(filename string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.saved[filename]
	return ok
}

func (m *mockExportStore) Path(filename string) string {
	return "/exports/" + filename
}

func (m *mockExportStore) get(filename string) []byte {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.saved[filename]
}

func newReviewFixture(t *testing.T) (*ReviewService, *mockReviewRepo, *mockExportStore) {
	repo := &mockReviewRepo{rows: map[string][]models.SubmissionRow{
		"participation": {
			{"student_id": "21ESKIT001", "event_title": "Game of Quizzes", "status": "pending"},
		},
	}}
	store := &mockExportStore{}
	signer := storage.NewSignedURLSigner("test_secret", time.Hour)
	svc := NewReviewService(testRegistry(t), repo, store, signer, jobs.QueueConfig{Workers: 1}, nil)
	return svc, repo, store
}

func TestReviewListCoversEveryForm(t *testing.T) {
	svc, _, _ := newReviewFixture(t)

	out, err := svc.List(context.Background())
	require.NoError(t, err)
	require.Len(t, out, 2)
	assert.Equal(t, "blood_donor", out[0].Form)
	assert.Empty(t, out[0].Rows)
	assert.Equal(t, "participation", out[1].Form)
	require.Len(t, out[1].Rows, 1)
	assert.Equal(t, "21ESKIT001", out[1].Rows[0]["student_id"])
}

func TestReviewUpdateStatusValidation(t *testing.T) {
	svc, repo, _ := newReviewFixture(t)

	err := svc.UpdateStatus(context.Background(), "hackathon", "21ESKIT001", models.StatusApproved)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)

	err = svc.UpdateStatus(context.Background(), "participation", "21ESKIT001", "archived")
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)

	require.NoError(t, svc.UpdateStatus(context.Background(), "participation", "21ESKIT001", models.StatusApproved))
	assert.Equal(t, []string{"participation/21ESKIT001/approved"}, repo.updated)
}

func TestReviewUpdateStatusMissingRow(t *testing.T) {
	svc, repo, _ := newReviewFixture(t)
	repo.updateMissing = true

	err := svc.UpdateStatus(context.Background(), "participation", "nobody", models.StatusRejected)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}

func TestExportJobRendersSheets(t *testing.T) {
	svc, _, store := newReviewFixture(t)

	err := svc.handleExportJob(context.Background(), jobs.Job{ID: "job-1", Type: exportJobType})
	require.NoError(t, err)

	assert.True(t, store.Exists("job-1/blood_donor.csv"))
	assert.True(t, store.Exists("job-1/participation.csv"))
	assert.True(t, store.Exists("job-1/combined.pdf"))

	csv := string(store.get("job-1/participation.csv"))
	assert.Contains(t, csv, "student_id")
	assert.Contains(t, csv, "21ESKIT001")
	assert.Contains(t, csv, "Game of Quizzes")
	assert.NotEmpty(t, store.get("job-1/combined.pdf"))
}

func TestStartExportQueuesAndSignsLinks(t *testing.T) {
	svc, _, store := newReviewFixture(t)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	svc.StartWorkers(ctx)
	defer svc.StopWorkers()

	job, err := svc.StartExport(context.Background())
	require.NoError(t, err)
	require.Len(t, job.Files, 3)
	for _, file := range job.Files {
		assert.NotEmpty(t, file.Token)
		assert.Contains(t, file.URL, "/exports/")
	}

	// The worker renders asynchronously; wait for the last artifact.
	require.Eventually(t, func() bool {
		return store.Exists(job.ID + "/combined.pdf")
	}, 2*time.Second, 10*time.Millisecond)

	path, err := svc.ResolveExport(job.Files[0].Token)
	require.NoError(t, err)
	assert.Contains(t, path, job.ID)
}

func TestResolveExportRejectsBadToken(t *testing.T) {
	svc, _, _ := newReviewFixture(t)

	_, err := svc.ResolveExport("not-a-token")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrForbidden.Code, appErrors.FromError(err).Code)
}

func TestResolveExportNotReady(t *testing.T) {
	svc, _, _ := newReviewFixture(t)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	svc.StartWorkers(ctx)
	defer svc.StopWorkers()

	signer := storage.NewSignedURLSigner("test_secret", time.Hour)
	token, _, err := signer.Generate("missing-job", "participation.csv")
	require.NoError(t, err)

	_, err = svc.ResolveExport(token)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}
