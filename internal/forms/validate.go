package forms

import (
	"fmt"
	"mime/multipart"
	"path/filepath"
	"strconv"
	"strings"
	"time"
	"unicode"
)

// DateLayout is the calendar format every date field must use.
const DateLayout = "2006-01-02"

// FieldError reports a validation failure for a single field, carrying the
// human-readable label for user-facing messages.
type FieldError struct {
	Field   string `json:"field"`
	Label   string `json:"label"`
	Message string `json:"message"`
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("%s: %s", e.Label, e.Message)
}

func fieldErr(f Field, format string, args ...interface{}) *FieldError {
	return &FieldError{Field: f.Name, Label: f.Label, Message: fmt.Sprintf(format, args...)}
}

// Input is the raw submitted value of one field. File is set only for file
// fields.
type Input struct {
	Value string
	File  *multipart.FileHeader
}

// Context carries submission-scoped data the validators need: the raw value
// map for cross-field checks and the profile identity used to compose
// certificate file names.
type Context struct {
	Values      map[string]string
	RollNo      string
	StudentName string
	Today       time.Time
}

func (c Context) today() time.Time {
	if c.Today.IsZero() {
		return time.Now()
	}
	return c.Today
}

// FieldValidator normalizes one field input or reports a structured error.
// New field types plug in here without touching the submission pipeline.
type FieldValidator interface {
	Validate(field Field, in Input, ctx Context) (string, error)
}

var validators = map[FieldType]FieldValidator{
	FieldText:   textValidator{},
	FieldDate:   dateValidator{},
	FieldRadio:  radioValidator{},
	FieldNumber: numberValidator{},
	FieldFile:   fileValidator{},
}

// ValidatorFor returns the validator registered for the field type.
func ValidatorFor(t FieldType) (FieldValidator, bool) {
	v, ok := validators[t]
	return v, ok
}

type textValidator struct{}

func (textValidator) Validate(f Field, in Input, _ Context) (string, error) {
	value := strings.TrimSpace(in.Value)
	if value == "" {
		if f.Required {
			return "", fieldErr(f, "is missing")
		}
		return "", nil
	}
	if min := f.Validation.MinLength; min > 0 && len(value) < min {
		return "", fieldErr(f, "must be at least %d characters", min)
	}
	if max := f.Validation.MaxLength; max > 0 && len(value) > max {
		return "", fieldErr(f, "must be at most %d characters", max)
	}
	return value, nil
}

type radioValidator struct{}

func (radioValidator) Validate(f Field, in Input, _ Context) (string, error) {
	value := strings.TrimSpace(in.Value)
	if value == "" {
		if f.Required {
			return "", fieldErr(f, "is missing")
		}
		return "", nil
	}
	for _, opt := range f.Options {
		if opt.Value == value {
			return value, nil
		}
	}
	return "", fieldErr(f, "must be one of the listed options")
}

type numberValidator struct{}

func (numberValidator) Validate(f Field, in Input, _ Context) (string, error) {
	value := strings.TrimSpace(in.Value)
	if value == "" {
		if f.Required {
			return "", fieldErr(f, "is missing")
		}
		return "", nil
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return "", fieldErr(f, "must be a whole number")
	}
	if min := f.Validation.Min; min != nil && n < *min {
		return "", fieldErr(f, "must be at least %d", *min)
	}
	if max := f.Validation.Max; max != nil && n > *max {
		return "", fieldErr(f, "must be at most %d", *max)
	}
	return strconv.Itoa(n), nil
}

type dateValidator struct{}

func (dateValidator) Validate(f Field, in Input, ctx Context) (string, error) {
	value := strings.TrimSpace(in.Value)
	if value == "" {
		if f.Required {
			return "", fieldErr(f, "is missing")
		}
		return "", nil
	}
	parsed, err := time.Parse(DateLayout, value)
	if err != nil {
		return "", fieldErr(f, "invalid date format, expected YYYY-MM-DD")
	}
	if f.Validation.MaxDateToday {
		today, _ := time.Parse(DateLayout, ctx.today().Format(DateLayout))
		if parsed.After(today) {
			return "", fieldErr(f, "cannot be a future date")
		}
	}
	if after := f.Validation.AfterField; after != "" {
		otherRaw := ctx.Values[after]
		if other, err := time.Parse(DateLayout, otherRaw); err == nil {
			if parsed.Before(other) {
				return "", fieldErr(f, "must not be before %s", after)
			}
		}
	}
	return parsed.Format(DateLayout), nil
}

type fileValidator struct{}

func (fileValidator) Validate(f Field, in Input, ctx Context) (string, error) {
	if in.File == nil || in.File.Filename == "" {
		if f.Required {
			return "", fieldErr(f, "no file selected")
		}
		return "", nil
	}
	ext := strings.ToLower(filepath.Ext(in.File.Filename))
	if !extensionAllowed(ext, f.Validation.AcceptedTypes) {
		return "", fieldErr(f, "invalid file type, allowed: %s", strings.Join(f.Validation.AcceptedTypes, ", "))
	}
	if max := f.Validation.MaxSizeBytes; max > 0 && in.File.Size > max {
		return "", fieldErr(f, "exceeds the %d byte size limit", max)
	}

	event := strings.TrimSpace(ctx.Values[EventTitleField])
	if event == "" {
		event = "unknown_event"
	}
	name := fmt.Sprintf("%s_%s_%s%s", ctx.RollNo, ctx.StudentName, event, ext)
	return SanitizeFilename(name), nil
}

func extensionAllowed(ext string, accepted []string) bool {
	if ext == "" {
		return false
	}
	for _, a := range accepted {
		if strings.EqualFold(strings.TrimSpace(a), ext) {
			return true
		}
	}
	return false
}

// SanitizeFilename strips path components and any rune that could be unsafe
// in a stored file name. Spaces become underscores; everything outside
// [A-Za-z0-9._-] is dropped.
func SanitizeFilename(name string) string {
	name = strings.ReplaceAll(name, "\\", "/")
	name = filepath.Base(name)

	var b strings.Builder
	for _, r := range name {
		switch {
		case unicode.IsLetter(r) && r < 128, unicode.IsDigit(r):
			b.WriteRune(r)
		case r == '.', r == '_', r == '-':
			b.WriteRune(r)
		case unicode.IsSpace(r):
			b.WriteRune('_')
		}
	}

	cleaned := b.String()
	for strings.Contains(cleaned, "..") {
		cleaned = strings.ReplaceAll(cleaned, "..", ".")
	}
	cleaned = strings.TrimLeft(cleaned, "._-")
	if cleaned == "" {
		return "file"
	}
	return cleaned
}
