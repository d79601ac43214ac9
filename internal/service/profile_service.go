package service

import (
	"context"
	"database/sql"
	"errors"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/skit-dev/sodeca-api/internal/models"
	appErrors "github.com/skit-dev/sodeca-api/pkg/errors"
)

type profileRepository interface {
	FindByUserID(ctx context.Context, userID string) (*models.StudentProfile, error)
	Upsert(ctx context.Context, profile *models.StudentProfile) error
}

// ProfileService manages the per-student detail record.
type ProfileService struct {
	profiles  profileRepository
	validator *validator.Validate
	logger    *zap.Logger
}

// NewProfileService constructs a ProfileService instance.
func NewProfileService(profiles profileRepository, validate *validator.Validate, logger *zap.Logger) *ProfileService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	return &ProfileService{profiles: profiles, validator: validate, logger: logger}
}

// Get returns the student's profile, or ErrProfileRequired when none exists.
func (s *ProfileService) Get(ctx context.Context, userID string) (*models.StudentProfile, error) {
	profile, err := s.profiles.FindByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrProfileRequired, "")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to fetch student details")
	}
	return profile, nil
}

// Save validates and upserts the student's profile. Re-submitting replaces
// the previous record.
func (s *ProfileService) Save(ctx context.Context, userID string, req models.ProfileRequest) (*models.StudentProfile, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "all student detail fields are required")
	}

	profile := &models.StudentProfile{
		StudentUserID:    userID,
		UniversityRollNo: req.UniversityRollNo,
		StudentName:      req.StudentName,
		Branch:           req.Branch,
		Semester:         req.Semester,
		Section:          req.Section,
		ClassGroup:       req.ClassGroup,
		BatchCounselor:   req.BatchCounselor,
	}
	if err := s.profiles.Upsert(ctx, profile); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to save student details")
	}
	return profile, nil
}
