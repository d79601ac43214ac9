package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/skit-dev/sodeca-api/internal/models"
	appErrors "github.com/skit-dev/sodeca-api/pkg/errors"
)

func TestProfileGetMissing(t *testing.T) {
	svc := NewProfileService(&mockProfileRepo{}, nil, nil)

	_, err := svc.Get(context.Background(), "u1")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrProfileRequired.Code, appErrors.FromError(err).Code)
}

func TestProfileSaveValidates(t *testing.T) {
	profiles := &mockProfileRepo{}
	svc := NewProfileService(profiles, nil, nil)

	_, err := svc.Save(context.Background(), "u1", models.ProfileRequest{
		UniversityRollNo: "21ESKIT001",
		StudentName:      "Asha Verma",
		// branch missing
		Semester:       5,
		Section:        "A",
		ClassGroup:     "G1",
		BatchCounselor: "Dr. Rao",
	})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
	assert.Empty(t, profiles.upserted)
}

func TestProfileSaveReplacesPrevious(t *testing.T) {
	profiles := &mockProfileRepo{}
	svc := NewProfileService(profiles, nil, nil)

	req := models.ProfileRequest{
		UniversityRollNo: "21ESKIT001",
		StudentName:      "Asha Verma",
		Branch:           "CSE",
		Semester:         5,
		Section:          "A",
		ClassGroup:       "G1",
		BatchCounselor:   "Dr. Rao",
	}
	_, err := svc.Save(context.Background(), "u1", req)
	require.NoError(t, err)

	req.Semester = 6
	profile, err := svc.Save(context.Background(), "u1", req)
	require.NoError(t, err)
	assert.Equal(t, 6, profile.Semester)
	assert.Len(t, profiles.upserted, 2)

	stored, err := svc.Get(context.Background(), "u1")
	require.NoError(t, err)
	assert.Equal(t, 6, stored.Semester)
}
