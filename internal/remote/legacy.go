package remote

import "fieldkeeper/internal/domain/schema"

// legacyFields is the hard-coded pre-schema field set. It is the
// backward-compatibility path taken whenever a user has no active schema,
// and its display names must stay byte-identical to the property names the
// pre-schema versions of the system wrote, or existing collections stop
// matching.
var legacyFields = []schema.FieldConfig{
	{ID: "name", DisplayName: "Name", Kind: schema.KindTitle, Required: true, VisibleInEntryForm: true},
	{ID: "timestamp", DisplayName: "Time", Kind: schema.KindDate, Required: true, VisibleInEntryForm: true},
	{ID: "text", DisplayName: "Notes", Kind: schema.KindText, VisibleInEntryForm: true},
	{ID: "summary", DisplayName: "Summary", Kind: schema.KindText, AutoPopulate: true, AutoPopulateHint: "one-line summary of the entry"},
	{ID: "photo", DisplayName: "Photo", Kind: schema.KindURL},
}

// LegacyFields returns a copy of the built-in legacy field set.
func LegacyFields() []schema.FieldConfig {
	out := make([]schema.FieldConfig, len(legacyFields))
	copy(out, legacyFields)
	return out
}
