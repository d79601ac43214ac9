package forms

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validDefinition() Definition {
	return Definition{
		Key:   "workshop",
		Title: "Workshop",
		Fields: []Field{
			{Name: "event_title", Label: "Event Title", Type: FieldText, Required: true},
			{Name: "held_on", Label: "Held On", Type: FieldDate, Required: true},
		},
	}
}

func TestNewRegistryAcceptsValidDefinition(t *testing.T) {
	r, err := NewRegistry(validDefinition())
	require.NoError(t, err)

	def, ok := r.Get("workshop")
	require.True(t, ok)
	assert.Equal(t, "Workshop", def.Title)
	assert.Equal(t, []string{"workshop"}, r.Keys())
	assert.Equal(t, []string{"event_title", "held_on"}, def.FieldNames())
}

func TestNewRegistryRejectsBadFormKey(t *testing.T) {
	def := validDefinition()
	def.Key = "Workshop-2024"

	_, err := NewRegistry(def)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not a valid identifier")
}

func TestNewRegistryRejectsBadFieldName(t *testing.T) {
	def := validDefinition()
	def.Fields[0].Name = "event title; drop table students"

	_, err := NewRegistry(def)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not a valid identifier")
}

func TestNewRegistryRejectsReservedFieldName(t *testing.T) {
	def := validDefinition()
	def.Fields[0].Name = "student_id"

	_, err := NewRegistry(def)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "reserved")
}

func TestNewRegistryRejectsDuplicateFieldName(t *testing.T) {
	def := validDefinition()
	def.Fields[1].Name = "event_title"

	_, err := NewRegistry(def)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "duplicate field name")
}

func TestNewRegistryRejectsDuplicateFormKey(t *testing.T) {
	_, err := NewRegistry(validDefinition(), validDefinition())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "duplicate form key")
}

func TestNewRegistryRejectsUnknownFieldType(t *testing.T) {
	def := validDefinition()
	def.Fields[0].Type = "dropdown"

	_, err := NewRegistry(def)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown type")
}

func TestNewRegistryRejectsDanglingAfterField(t *testing.T) {
	def := validDefinition()
	def.Fields[1].Validation.AfterField = "missing_field"

	_, err := NewRegistry(def)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown field")
}

func TestNewRegistryRejectsEmptyFieldList(t *testing.T) {
	def := validDefinition()
	def.Fields = nil

	_, err := NewRegistry(def)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no fields")
}

func TestDefaultRegistryBuilds(t *testing.T) {
	r, err := Default()
	require.NoError(t, err)

	keys := r.Keys()
	assert.Contains(t, keys, "blood_donor")
	assert.Contains(t, keys, "participation")

	for _, def := range r.Definitions() {
		names := def.FieldNames()
		assert.Contains(t, names, EventTitleField, "form %s must carry the event title", def.Key)
	}
}
