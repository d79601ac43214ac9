package forms

import (
	"fmt"
	"regexp"
)

// FieldType enumerates the supported form field kinds.
type FieldType string

const (
	FieldText   FieldType = "text"
	FieldDate   FieldType = "date"
	FieldRadio  FieldType = "radio"
	FieldNumber FieldType = "number"
	FieldFile   FieldType = "file"
)

// Option is one selectable value of a radio field.
type Option struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

// Validation holds per-field constraints. Zero values mean "not constrained".
type Validation struct {
	MinLength     int      `json:"min_length,omitempty"`
	MaxLength     int      `json:"max_length,omitempty"`
	Min           *int     `json:"min,omitempty"`
	Max           *int     `json:"max,omitempty"`
	MaxDateToday  bool     `json:"max_date_today,omitempty"`
	AfterField    string   `json:"after_field,omitempty"`
	AcceptedTypes []string `json:"accepted_types,omitempty"`
	MaxSizeBytes  int64    `json:"max_size_bytes,omitempty"`
}

// Field describes one input of a form. Name doubles as the column name of the
// form's submission table.
type Field struct {
	Name        string     `json:"name"`
	Label       string     `json:"label"`
	Type        FieldType  `json:"type"`
	Required    bool       `json:"required"`
	Placeholder string     `json:"placeholder,omitempty"`
	HelpText    string     `json:"help_text,omitempty"`
	Options     []Option   `json:"options,omitempty"`
	Validation  Validation `json:"validation"`
}

// Definition is the declarative schema of one submission type. It drives both
// table creation and request validation, so the two can never disagree.
type Definition struct {
	Key         string  `json:"key"`
	Title       string  `json:"title"`
	Description string  `json:"description,omitempty"`
	Fields      []Field `json:"fields"`
}

// FieldNames returns the ordered column names of the definition.
func (d Definition) FieldNames() []string {
	names := make([]string, len(d.Fields))
	for i, f := range d.Fields {
		names[i] = f.Name
	}
	return names
}

// identifierPattern restricts form keys and field names to safe SQL
// identifiers. Validated once at registry construction, never per request.
var identifierPattern = regexp.MustCompile(`^[a-z][a-z0-9_]*$`)

// reservedNames are columns owned by the submission tables themselves.
var reservedNames = map[string]struct{}{
	"student_id": {},
	"status":     {},
}

// Registry is the read-only catalog of form definitions.
type Registry struct {
	defs  map[string]Definition
	order []string
}

// NewRegistry validates the definitions and builds a registry. Any identifier
// violation is a construction error so nothing invalid ever reaches the
// schema builder.
func NewRegistry(defs ...Definition) (*Registry, error) {
	r := &Registry{defs: make(map[string]Definition, len(defs))}
	for _, def := range defs {
		if !identifierPattern.MatchString(def.Key) {
			return nil, fmt.Errorf("form key %q is not a valid identifier", def.Key)
		}
		if _, exists := r.defs[def.Key]; exists {
			return nil, fmt.Errorf("duplicate form key %q", def.Key)
		}
		if len(def.Fields) == 0 {
			return nil, fmt.Errorf("form %q has no fields", def.Key)
		}
		seen := make(map[string]struct{}, len(def.Fields))
		for _, field := range def.Fields {
			if !identifierPattern.MatchString(field.Name) {
				return nil, fmt.Errorf("form %q: field name %q is not a valid identifier", def.Key, field.Name)
			}
			if _, reserved := reservedNames[field.Name]; reserved {
				return nil, fmt.Errorf("form %q: field name %q is reserved", def.Key, field.Name)
			}
			if _, dup := seen[field.Name]; dup {
				return nil, fmt.Errorf("form %q: duplicate field name %q", def.Key, field.Name)
			}
			seen[field.Name] = struct{}{}
			if _, ok := validators[field.Type]; !ok {
				return nil, fmt.Errorf("form %q: field %q has unknown type %q", def.Key, field.Name, field.Type)
			}
		}
		for _, field := range def.Fields {
			if after := field.Validation.AfterField; after != "" {
				if _, ok := seen[after]; !ok {
					return nil, fmt.Errorf("form %q: field %q references unknown field %q", def.Key, field.Name, after)
				}
			}
		}
		r.defs[def.Key] = def
		r.order = append(r.order, def.Key)
	}
	return r, nil
}

// Get returns the definition for the given form key.
func (r *Registry) Get(key string) (Definition, bool) {
	def, ok := r.defs[key]
	return def, ok
}

// Keys returns form keys in declaration order.
func (r *Registry) Keys() []string {
	keys := make([]string, len(r.order))
	copy(keys, r.order)
	return keys
}

// Titles maps form keys to their display titles.
func (r *Registry) Titles() map[string]string {
	titles := make(map[string]string, len(r.order))
	for key, def := range r.defs {
		titles[key] = def.Title
	}
	return titles
}

// Definitions returns all definitions in declaration order.
func (r *Registry) Definitions() []Definition {
	defs := make([]Definition, 0, len(r.order))
	for _, key := range r.order {
		defs = append(defs, r.defs[key])
	}
	return defs
}
