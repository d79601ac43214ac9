package forms

import (
	"mime/multipart"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustValidator(t *testing.T, ft FieldType) FieldValidator {
	t.Helper()
	v, ok := ValidatorFor(ft)
	require.True(t, ok)
	return v
}

func TestTextValidatorBounds(t *testing.T) {
	v := mustValidator(t, FieldText)
	field := Field{Name: "event_title", Label: "Event Title", Type: FieldText, Required: true, Validation: Validation{MinLength: 3, MaxLength: 10}}

	_, err := v.Validate(field, Input{Value: ""}, Context{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing")

	_, err = v.Validate(field, Input{Value: "ab"}, Context{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "at least 3")

	_, err = v.Validate(field, Input{Value: "this is way too long"}, Context{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "at most 10")

	out, err := v.Validate(field, Input{Value: "  Quiz  "}, Context{})
	require.NoError(t, err)
	assert.Equal(t, "Quiz", out)
}

func TestRadioValidatorRejectsForgedOption(t *testing.T) {
	v := mustValidator(t, FieldRadio)
	field := Field{Name: "event_mode", Label: "Mode of Event", Type: FieldRadio, Required: true, Options: []Option{{Value: "Online"}, {Value: "Offline"}}}

	out, err := v.Validate(field, Input{Value: "Online"}, Context{})
	require.NoError(t, err)
	assert.Equal(t, "Online", out)

	_, err = v.Validate(field, Input{Value: "Hybrid"}, Context{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "listed options")
}

func TestNumberValidatorBounds(t *testing.T) {
	v := mustValidator(t, FieldNumber)
	field := Field{Name: "event_duration", Label: "Event Duration", Type: FieldNumber, Required: true, Validation: Validation{Min: intPtr(1), Max: intPtr(365)}}

	_, err := v.Validate(field, Input{Value: "three"}, Context{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "whole number")

	_, err = v.Validate(field, Input{Value: "0"}, Context{})
	require.Error(t, err)

	_, err = v.Validate(field, Input{Value: "400"}, Context{})
	require.Error(t, err)

	out, err := v.Validate(field, Input{Value: " 12 "}, Context{})
	require.NoError(t, err)
	assert.Equal(t, "12", out)
}

func TestDateValidatorRejectsFutureDate(t *testing.T) {
	v := mustValidator(t, FieldDate)
	field := Field{Name: "from_date", Label: "From Date", Type: FieldDate, Required: true, Validation: Validation{MaxDateToday: true}}
	ctx := Context{Today: time.Date(2024, 6, 15, 10, 0, 0, 0, time.UTC)}

	_, err := v.Validate(field, Input{Value: "2024-06-16"}, ctx)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "future")

	out, err := v.Validate(field, Input{Value: "2024-06-15"}, ctx)
	require.NoError(t, err)
	assert.Equal(t, "2024-06-15", out)
}

func TestDateValidatorEnforcesOrdering(t *testing.T) {
	v := mustValidator(t, FieldDate)
	field := Field{Name: "to_date", Label: "To Date", Type: FieldDate, Required: true, Validation: Validation{AfterField: "from_date"}}
	ctx := Context{Values: map[string]string{"from_date": "2024-06-10"}}

	_, err := v.Validate(field, Input{Value: "2024-06-09"}, ctx)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "from_date")

	out, err := v.Validate(field, Input{Value: "2024-06-10"}, ctx)
	require.NoError(t, err)
	assert.Equal(t, "2024-06-10", out)

	_, err = v.Validate(field, Input{Value: "not-a-date"}, ctx)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "YYYY-MM-DD")
}

func fileField() Field {
	return Field{
		Name:     "certificate",
		Label:    "Certificate/Proof",
		Type:     FieldFile,
		Required: true,
		Validation: Validation{
			AcceptedTypes: []string{".pdf"},
			MaxSizeBytes:  5 * 1024 * 1024,
		},
	}
}

func fileContext() Context {
	return Context{
		Values:      map[string]string{EventTitleField: "Game of Quizzes"},
		RollNo:      "21ESKIT001",
		StudentName: "Asha Verma",
	}
}

func TestFileValidatorRejectsExecutable(t *testing.T) {
	v := mustValidator(t, FieldFile)

	_, err := v.Validate(fileField(), Input{File: &multipart.FileHeader{Filename: "cert.exe", Size: 1024}}, fileContext())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid file type")
}

func TestFileValidatorRejectsOversizedFile(t *testing.T) {
	v := mustValidator(t, FieldFile)

	_, err := v.Validate(fileField(), Input{File: &multipart.FileHeader{Filename: "cert.pdf", Size: 6 * 1024 * 1024}}, fileContext())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "size limit")
}

func TestFileValidatorComposesStoredName(t *testing.T) {
	v := mustValidator(t, FieldFile)

	out, err := v.Validate(fileField(), Input{File: &multipart.FileHeader{Filename: "My Cert (final).pdf", Size: 1024}}, fileContext())
	require.NoError(t, err)
	assert.Equal(t, "21ESKIT001_Asha_Verma_Game_of_Quizzes.pdf", out)
}

func TestFileValidatorMissingFile(t *testing.T) {
	v := mustValidator(t, FieldFile)

	_, err := v.Validate(fileField(), Input{}, fileContext())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no file selected")

	optional := fileField()
	optional.Required = false
	out, err := v.Validate(optional, Input{}, fileContext())
	require.NoError(t, err)
	assert.Empty(t, out)
}

func TestSanitizeFilename(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"My Cert (final).pdf", "My_Cert_final.pdf"},
		{"../../etc/passwd", "passwd"},
		{"..\\..\\windows\\cmd.exe", "cmd.exe"},
		{"résumé.pdf", "rsum.pdf"},
		{"....", "file"},
		{"", "file"},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, SanitizeFilename(tc.in), "input %q", tc.in)
	}
}
