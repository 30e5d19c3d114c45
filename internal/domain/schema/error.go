package schema

import "errors"

var (
	ErrNotFound         = errors.New("schema not found")
	ErrTemplateNotFound = errors.New("schema template not found")
	ErrNoFields         = errors.New("schema has no fields")
	ErrInvalidField     = errors.New("field id and display name must not be empty")
	ErrDuplicateFieldID = errors.New("duplicate field id in schema")
	ErrTitleFieldCount  = errors.New("schema must have exactly one title field")
)
