package service

import (
	"context"
	"database/sql"
	"errors"

	"go.uber.org/zap"

	"github.com/skit-dev/sodeca-api/internal/forms"
	"github.com/skit-dev/sodeca-api/internal/models"
	appErrors "github.com/skit-dev/sodeca-api/pkg/errors"
)

type workflowSessionStore interface {
	Save(ctx context.Context, session *models.Session) error
}

// WorkflowService drives the multi-step submission flow: select forms, verify
// student details, then fill each selected form in order. The position lives
// in the session record so a dropped connection resumes where it left off.
type WorkflowService struct {
	registry *forms.Registry
	sessions workflowSessionStore
	profiles profileRepository
	logger   *zap.Logger
}

// NewWorkflowService constructs a WorkflowService instance.
func NewWorkflowService(registry *forms.Registry, sessions workflowSessionStore, profiles profileRepository, logger *zap.Logger) *WorkflowService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &WorkflowService{registry: registry, sessions: sessions, profiles: profiles, logger: logger}
}

// FormOption is a selectable form entry.
type FormOption struct {
	Key   string `json:"key"`
	Title string `json:"title"`
}

// Options lists the forms available for selection.
func (s *WorkflowService) Options() []FormOption {
	keys := s.registry.Keys()
	options := make([]FormOption, 0, len(keys))
	for _, key := range keys {
		def, _ := s.registry.Get(key)
		options = append(options, FormOption{Key: key, Title: def.Title})
	}
	return options
}

// SelectForms starts a new workflow over the chosen forms. The selection must
// name at least one known form; duplicates collapse to a single entry.
func (s *WorkflowService) SelectForms(ctx context.Context, session *models.Session, selected []string) error {
	seen := make(map[string]bool, len(selected))
	ordered := make([]string, 0, len(selected))
	for _, key := range selected {
		if seen[key] {
			continue
		}
		if _, ok := s.registry.Get(key); !ok {
			return appErrors.Clone(appErrors.ErrValidation, "unknown form: "+key)
		}
		seen[key] = true
		ordered = append(ordered, key)
	}
	if len(ordered) == 0 {
		return appErrors.Clone(appErrors.ErrFormsNotSelected, "")
	}

	session.Workflow = &models.WorkflowState{SelectedForms: ordered}
	if err := s.sessions.Save(ctx, session); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to save workflow state")
	}
	return nil
}

// DetailsForVerification returns the profile the student must confirm before
// filling forms. Requires a form selection and a saved profile.
func (s *WorkflowService) DetailsForVerification(ctx context.Context, session *models.Session) (*models.StudentProfile, error) {
	if session.Workflow == nil || len(session.Workflow.SelectedForms) == 0 {
		return nil, appErrors.Clone(appErrors.ErrFormsNotSelected, "")
	}
	profile, err := s.profiles.FindByUserID(ctx, session.UserID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrProfileRequired, "")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to fetch student details")
	}
	return profile, nil
}

// ConfirmDetails marks the profile as verified for this workflow.
func (s *WorkflowService) ConfirmDetails(ctx context.Context, session *models.Session) error {
	if _, err := s.DetailsForVerification(ctx, session); err != nil {
		return err
	}
	session.Workflow.Verified = true
	if err := s.sessions.Save(ctx, session); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to save workflow state")
	}
	return nil
}

// CurrentForm returns the definition the student must fill next, enforcing
// the step order: forms selected, then details verified.
func (s *WorkflowService) CurrentForm(session *models.Session) (forms.Definition, error) {
	w := session.Workflow
	if w == nil || len(w.SelectedForms) == 0 {
		return forms.Definition{}, appErrors.Clone(appErrors.ErrFormsNotSelected, "")
	}
	if !w.Verified {
		return forms.Definition{}, appErrors.Clone(appErrors.ErrDetailsNotVerified, "")
	}
	key, ok := w.CurrentForm()
	if !ok {
		return forms.Definition{}, appErrors.Clone(appErrors.ErrNotFound, "all selected forms have been submitted")
	}
	def, ok := s.registry.Get(key)
	if !ok {
		return forms.Definition{}, appErrors.Clone(appErrors.ErrInternal, "selected form no longer exists")
	}
	return def, nil
}

// Advance moves to the next selected form after a successful submission and
// reports whether the workflow is complete. A finished workflow is cleared
// from the session.
func (s *WorkflowService) Advance(ctx context.Context, session *models.Session) (bool, error) {
	w := session.Workflow
	if w == nil {
		return true, nil
	}
	w.CurrentIndex++
	done := w.Done()
	if done {
		session.Workflow = nil
	}
	if err := s.sessions.Save(ctx, session); err != nil {
		return done, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to save workflow state")
	}
	return done, nil
}
