package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime/multipart"

	"go.uber.org/zap"

	"github.com/skit-dev/sodeca-api/internal/forms"
	"github.com/skit-dev/sodeca-api/internal/models"
	appErrors "github.com/skit-dev/sodeca-api/pkg/errors"
)

type submissionRepository interface {
	Upsert(ctx context.Context, form string, fieldNames []string, studentID string, values map[string]string) error
}

// fileSaver is the narrow storage surface Submit needs.
type fileSaver interface {
	SaveStream(filename string, r io.Reader) (string, error)
}

// SubmissionService validates a filled form against its definition and
// persists the row. Validation is all-or-nothing: every field error is
// collected, and no file is written and no row touched unless the whole
// submission passes.
type SubmissionService struct {
	registry    *forms.Registry
	submissions submissionRepository
	profiles    profileRepository
	files       fileSaver
	metrics     *MetricsService
	logger      *zap.Logger
}

// NewSubmissionService constructs a SubmissionService instance.
func NewSubmissionService(registry *forms.Registry, submissions submissionRepository, profiles profileRepository, files fileSaver, metrics *MetricsService, logger *zap.Logger) *SubmissionService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SubmissionService{
		registry:    registry,
		submissions: submissions,
		profiles:    profiles,
		files:       files,
		metrics:     metrics,
		logger:      logger,
	}
}

// Submit validates every field of the filled form and, only if all pass,
// stores the attached certificates and upserts the submission row keyed by
// the student's roll number. It returns the per-field errors on validation
// failure.
func (s *SubmissionService) Submit(ctx context.Context, session *models.Session, formKey string, inputs map[string]forms.Input) ([]forms.FieldError, error) {
	def, ok := s.registry.Get(formKey)
	if !ok {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "unknown form: "+formKey)
	}

	profile, err := s.profiles.FindByUserID(ctx, session.UserID)
	if err != nil {
		return nil, appErrors.Clone(appErrors.ErrProfileRequired, "")
	}

	raw := make(map[string]string, len(inputs))
	for name, in := range inputs {
		raw[name] = in.Value
	}
	vctx := forms.Context{
		Values:      raw,
		RollNo:      profile.UniversityRollNo,
		StudentName: profile.StudentName,
	}

	values := make(map[string]string, len(def.Fields))
	var fieldErrs []forms.FieldError
	var files []pendingFile

	// Non-file fields first so file names can draw on validated values;
	// files are validated in the same pass but written only after the whole
	// form is known to be clean.
	for _, field := range def.Fields {
		if field.Type == forms.FieldFile {
			continue
		}
		s.validateField(field, inputs[field.Name], vctx, values, &fieldErrs)
	}
	for _, field := range def.Fields {
		if field.Type != forms.FieldFile {
			continue
		}
		in := inputs[field.Name]
		before := len(fieldErrs)
		s.validateField(field, in, vctx, values, &fieldErrs)
		if len(fieldErrs) == before && in.File != nil {
			files = append(files, pendingFile{field: field.Name, header: in.File, stored: values[field.Name]})
		}
	}

	if len(fieldErrs) > 0 {
		return fieldErrs, appErrors.Clone(appErrors.ErrValidation, "the form has errors, please correct them")
	}

	for _, pf := range files {
		if err := s.storeFile(pf); err != nil {
			return nil, err
		}
		s.metrics.RecordUpload()
	}

	if err := s.submissions.Upsert(ctx, def.Key, def.FieldNames(), profile.StudentUserID, values); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to save submission")
	}

	s.metrics.RecordSubmission(formKey)
	s.logger.Info("submission saved",
		zap.String("form", formKey),
		zap.String("student_id", profile.StudentUserID),
	)
	return nil, nil
}

func (s *SubmissionService) validateField(field forms.Field, in forms.Input, vctx forms.Context, values map[string]string, fieldErrs *[]forms.FieldError) {
	v, ok := forms.ValidatorFor(field.Type)
	if !ok {
		*fieldErrs = append(*fieldErrs, forms.FieldError{Field: field.Name, Label: field.Label, Message: "unsupported field type"})
		return
	}
	normalized, err := v.Validate(field, in, vctx)
	if err != nil {
		var fe *forms.FieldError
		if errors.As(err, &fe) {
			*fieldErrs = append(*fieldErrs, *fe)
			return
		}
		*fieldErrs = append(*fieldErrs, forms.FieldError{Field: field.Name, Label: field.Label, Message: err.Error()})
		return
	}
	values[field.Name] = normalized
}

type pendingFile struct {
	field  string
	header *multipart.FileHeader
	stored string
}

func (s *SubmissionService) storeFile(pf pendingFile) error {
	src, err := pf.header.Open()
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to read uploaded file")
	}
	defer src.Close()

	if _, err := s.files.SaveStream(pf.stored, src); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, fmt.Sprintf("failed to store %s", pf.field))
	}
	return nil
}
