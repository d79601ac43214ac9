package handler

import (
	"context"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/skit-dev/sodeca-api/internal/forms"
	"github.com/skit-dev/sodeca-api/internal/middleware"
	"github.com/skit-dev/sodeca-api/internal/models"
	"github.com/skit-dev/sodeca-api/internal/service"
)

type stubSessionStore struct{}

func (stubSessionStore) Save(ctx context.Context, session *models.Session) error { return nil }

type stubProfileRepo struct {
	profile *models.StudentProfile
}

func (s stubProfileRepo) FindByUserID(ctx context.Context, userID string) (*models.StudentProfile, error) {
	if s.profile == nil {
		return nil, sql.ErrNoRows
	}
	return s.profile, nil
}

func (s stubProfileRepo) Upsert(ctx context.Context, profile *models.StudentProfile) error {
	return nil
}

type stubSubmissionRepo struct{}

func (stubSubmissionRepo) Upsert(ctx context.Context, form string, fieldNames []string, studentID string, values map[string]string) error {
	return nil
}

func newWorkflowRouter(t *testing.T, session *models.Session, profile *models.StudentProfile) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	registry, err := forms.Default()
	require.NoError(t, err)

	profiles := stubProfileRepo{profile: profile}
	workflowSvc := service.NewWorkflowService(registry, stubSessionStore{}, profiles, nil)
	submissionSvc := service.NewSubmissionService(registry, stubSubmissionRepo{}, profiles, nil, nil, nil)
	h := NewWorkflowHandler(workflowSvc, submissionSvc)

	r := gin.New()
	r.Use(func(c *gin.Context) {
		c.Set(middleware.ContextSessionKey, session)
		c.Next()
	})
	r.GET("/sodeca_forms", h.ListForms)
	r.POST("/sodeca_forms", h.SelectForms)
	r.GET("/verify_student_details", h.ShowDetails)
	r.POST("/verify_student_details", h.ConfirmDetails)
	r.GET("/fill_form", h.CurrentForm)
	return r
}

func studentProfile() *models.StudentProfile {
	return &models.StudentProfile{
		StudentUserID:    "u1",
		UniversityRollNo: "21ESKIT001",
		StudentName:      "Asha Verma",
		Branch:           "CSE",
		Semester:         5,
		Section:          "A",
		ClassGroup:       "G1",
		BatchCounselor:   "Dr. Rao",
	}
}

func TestListFormsReturnsOptions(t *testing.T) {
	session := &models.Session{ID: "sid-1", UserID: "u1"}
	r := newWorkflowRouter(t, session, studentProfile())

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/sodeca_forms", nil))

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "blood_donor")
	assert.Contains(t, w.Body.String(), "participation")
}

func TestFillFormGuardPointsBackToSelection(t *testing.T) {
	session := &models.Session{ID: "sid-1", UserID: "u1"}
	r := newWorkflowRouter(t, session, studentProfile())

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/fill_form", nil))

	require.Equal(t, http.StatusConflict, w.Code)

	var body struct {
		Meta map[string]interface{} `json:"meta"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "/sodeca_forms", body.Meta["next"])
}

func TestVerifyGuardPointsToProfileWhenMissing(t *testing.T) {
	session := &models.Session{
		ID:       "sid-1",
		UserID:   "u1",
		Workflow: &models.WorkflowState{SelectedForms: []string{"participation"}},
	}
	r := newWorkflowRouter(t, session, nil)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/verify_student_details", nil))

	require.Equal(t, http.StatusConflict, w.Code)

	var body struct {
		Meta map[string]interface{} `json:"meta"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "/student_details", body.Meta["next"])
}

func TestSelectFormsThenVerifyThenFill(t *testing.T) {
	session := &models.Session{ID: "sid-1", UserID: "u1"}
	r := newWorkflowRouter(t, session, studentProfile())

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/sodeca_forms", strings.NewReader(`{"forms":["participation"]}`))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "/verify_student_details")

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/verify_student_details", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "/fill_form")

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/fill_form", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"key":"participation"`)
	assert.Contains(t, w.Body.String(), "event_title")
}
