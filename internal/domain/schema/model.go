package schema

import (
	"time"
)

// ValueKind classifies what values a field accepts.
type ValueKind string

const (
	KindTitle       ValueKind = "title"
	KindText        ValueKind = "text"
	KindNumber      ValueKind = "number"
	KindDate        ValueKind = "date"
	KindURL         ValueKind = "url"
	KindSelect      ValueKind = "select"
	KindMultiSelect ValueKind = "multi_select"
	KindCheckbox    ValueKind = "checkbox"
)

// RemoteKind names a native property kind of the document store. The mapping
// from ValueKind is not 1:1: title, text and url are separate axes locally
// but collapse onto the store's rich-text family for anything unrecognized.
type RemoteKind string

const (
	RemoteTitle       RemoteKind = "title"
	RemoteRichText    RemoteKind = "rich_text"
	RemoteNumber      RemoteKind = "number"
	RemoteDate        RemoteKind = "date"
	RemoteURL         RemoteKind = "url"
	RemoteSelect      RemoteKind = "select"
	RemoteMultiSelect RemoteKind = "multi_select"
	RemoteCheckbox    RemoteKind = "checkbox"
)

// FieldConfig describes one trackable attribute of a schema.
type FieldConfig struct {
	ID                 string    `json:"id"`
	DisplayName        string    `json:"display_name"`
	Kind               ValueKind `json:"kind"`
	Required           bool      `json:"required,omitempty"`
	VisibleInEntryForm bool      `json:"visible_in_entry_form,omitempty"`
	Options            []string  `json:"options,omitempty"`
	Unit               string    `json:"unit,omitempty"`
	DefaultValue       string    `json:"default_value,omitempty"`
	AutoPopulate       bool      `json:"auto_populate,omitempty"`
	AutoPopulateHint   string    `json:"auto_populate_hint,omitempty"`
}

// RemoteKind resolves the field's kind into the document store's native
// property kind. Unknown kinds fall back to rich text so that a schema
// written by a newer version never fails to map.
func (f FieldConfig) RemoteKind() RemoteKind {
	switch f.Kind {
	case KindTitle:
		return RemoteTitle
	case KindText:
		return RemoteRichText
	case KindNumber:
		return RemoteNumber
	case KindDate:
		return RemoteDate
	case KindURL:
		return RemoteURL
	case KindSelect:
		return RemoteSelect
	case KindMultiSelect:
		return RemoteMultiSelect
	case KindCheckbox:
		return RemoteCheckbox
	default:
		return RemoteRichText
	}
}

// Schema is a named, versioned, ordered collection of fields owned by one user.
type Schema struct {
	ID        string        `json:"id"`
	UserID    int           `json:"user_id"`
	Name      string        `json:"name"`
	Version   int           `json:"version"`
	Fields    []FieldConfig `json:"fields"`
	CreatedAt time.Time     `json:"created_at"`
	UpdatedAt time.Time     `json:"updated_at"`
}

// Validate checks the schema invariants: non-empty unique field ids and
// exactly one title field (the document store requires a single title-typed
// property per collection).
func (s *Schema) Validate() error {
	if len(s.Fields) == 0 {
		return ErrNoFields
	}

	seen := make(map[string]bool, len(s.Fields))
	titles := 0
	for _, f := range s.Fields {
		if f.ID == "" || f.DisplayName == "" {
			return ErrInvalidField
		}
		if seen[f.ID] {
			return ErrDuplicateFieldID
		}
		seen[f.ID] = true
		if f.Kind == KindTitle {
			titles++
		}
	}

	if titles != 1 {
		return ErrTitleFieldCount
	}
	return nil
}

// Field returns the field with the given id.
func (s *Schema) Field(id string) (FieldConfig, bool) {
	for _, f := range s.Fields {
		if f.ID == id {
			return f, true
		}
	}
	return FieldConfig{}, false
}

// TitleField returns the single title-typed field.
func (s *Schema) TitleField() (FieldConfig, bool) {
	for _, f := range s.Fields {
		if f.Kind == KindTitle {
			return f, true
		}
	}
	return FieldConfig{}, false
}
