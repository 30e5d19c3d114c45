package schema

// Template is a static, versioned blueprint a user can instantiate into an
// editable schema of their own. Instantiation deep-copies the fields, so a
// user's later edits never leak back into the template or other users.
type Template struct {
	ID          string        `json:"id"`
	Name        string        `json:"name"`
	Description string        `json:"description"`
	Version     int           `json:"version"`
	Fields      []FieldConfig `json:"fields"`
}

var templates = []Template{
	{
		ID:          "meal-log",
		Name:        "Meal Log",
		Description: "Track meals with macros and a photo link.",
		Version:     2,
		Fields: []FieldConfig{
			{ID: "name", DisplayName: "Name", Kind: KindTitle, Required: true, VisibleInEntryForm: true},
			{ID: "time", DisplayName: "Time", Kind: KindDate, Required: true, VisibleInEntryForm: true},
			{ID: "calories", DisplayName: "Calories", Kind: KindNumber, Unit: "kcal", VisibleInEntryForm: true, AutoPopulate: true, AutoPopulateHint: "estimate total calories of the meal"},
			{ID: "protein", DisplayName: "Protein", Kind: KindNumber, Unit: "g", VisibleInEntryForm: true, AutoPopulate: true, AutoPopulateHint: "estimate grams of protein"},
			{ID: "carbs", DisplayName: "Carbs", Kind: KindNumber, Unit: "g", AutoPopulate: true, AutoPopulateHint: "estimate grams of carbohydrates"},
			{ID: "fat", DisplayName: "Fat", Kind: KindNumber, Unit: "g", AutoPopulate: true, AutoPopulateHint: "estimate grams of fat"},
			{ID: "meal_type", DisplayName: "Meal Type", Kind: KindSelect, Options: []string{"Breakfast", "Lunch", "Dinner", "Snack"}, VisibleInEntryForm: true},
			{ID: "tags", DisplayName: "Tags", Kind: KindMultiSelect, Options: []string{"Home-cooked", "Restaurant", "Takeout"}},
			{ID: "notes", DisplayName: "Notes", Kind: KindText, VisibleInEntryForm: true},
			{ID: "photo", DisplayName: "Photo", Kind: KindURL},
			{ID: "healthy", DisplayName: "Healthy", Kind: KindCheckbox, DefaultValue: "false"},
		},
	},
	{
		ID:          "workout-log",
		Name:        "Workout Log",
		Description: "Track workouts, duration and intensity.",
		Version:     1,
		Fields: []FieldConfig{
			{ID: "name", DisplayName: "Name", Kind: KindTitle, Required: true, VisibleInEntryForm: true},
			{ID: "time", DisplayName: "Time", Kind: KindDate, Required: true, VisibleInEntryForm: true},
			{ID: "duration", DisplayName: "Duration", Kind: KindNumber, Unit: "min", VisibleInEntryForm: true},
			{ID: "activity", DisplayName: "Activity", Kind: KindSelect, Options: []string{"Run", "Lift", "Swim", "Bike", "Other"}, VisibleInEntryForm: true},
			{ID: "intensity", DisplayName: "Intensity", Kind: KindSelect, Options: []string{"Easy", "Moderate", "Hard"}},
			{ID: "notes", DisplayName: "Notes", Kind: KindText},
		},
	},
	{
		ID:          "reading-log",
		Name:        "Reading Log",
		Description: "Track reading sessions and sources.",
		Version:     1,
		Fields: []FieldConfig{
			{ID: "title", DisplayName: "Title", Kind: KindTitle, Required: true, VisibleInEntryForm: true},
			{ID: "time", DisplayName: "Time", Kind: KindDate, Required: true, VisibleInEntryForm: true},
			{ID: "pages", DisplayName: "Pages", Kind: KindNumber, VisibleInEntryForm: true},
			{ID: "link", DisplayName: "Link", Kind: KindURL, VisibleInEntryForm: true},
			{ID: "finished", DisplayName: "Finished", Kind: KindCheckbox},
			{ID: "notes", DisplayName: "Notes", Kind: KindText},
		},
	},
}

// Templates returns the built-in templates.
func Templates() []Template {
	return templates
}

// TemplateByID looks up a built-in template.
func TemplateByID(id string) (Template, bool) {
	for _, t := range templates {
		if t.ID == id {
			return t, true
		}
	}
	return Template{}, false
}

// copyFields deep-copies field definitions, including option slices.
func copyFields(fields []FieldConfig) []FieldConfig {
	out := make([]FieldConfig, len(fields))
	copy(out, fields)
	for i := range out {
		if len(out[i].Options) > 0 {
			opts := make([]string, len(out[i].Options))
			copy(opts, out[i].Options)
			out[i].Options = opts
		}
	}
	return out
}
