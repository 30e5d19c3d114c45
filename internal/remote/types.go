// Package remote speaks the external document store's HTTP API and owns the
// bidirectional mapping between schema fields and the store's native
// property model.
package remote

// Empty marks a property definition that carries no configuration.
type Empty struct{}

// TextContent is the writable body of a rich-text span.
type TextContent struct {
	Content string `json:"content"`
}

// RichTextSpan is one run of a rich-text property. The store echoes a
// plain_text rendering on reads; writes only populate text.content.
type RichTextSpan struct {
	Text      TextContent `json:"text"`
	PlainText string      `json:"plain_text,omitempty"`
}

// SelectOption names one choice of a select or multi-select property.
type SelectOption struct {
	Name string `json:"name"`
}

// SelectConfig configures a select/multi-select property definition.
type SelectConfig struct {
	Options []SelectOption `json:"options,omitempty"`
}

// NumberConfig configures a number property definition.
type NumberConfig struct {
	Format string `json:"format,omitempty"`
}

// DateValue is the store's date payload. Start is an ISO-8601 instant.
type DateValue struct {
	Start string `json:"start"`
}

// PropertyDefinition is the store's native column definition. Exactly one
// member is set; the JSON key doubles as the property's native kind.
type PropertyDefinition struct {
	Title       *Empty        `json:"title,omitempty"`
	RichText    *Empty        `json:"rich_text,omitempty"`
	Number      *NumberConfig `json:"number,omitempty"`
	Date        *Empty        `json:"date,omitempty"`
	URL         *Empty        `json:"url,omitempty"`
	Select      *SelectConfig `json:"select,omitempty"`
	MultiSelect *SelectConfig `json:"multi_select,omitempty"`
	Checkbox    *Empty        `json:"checkbox,omitempty"`
}

// Kind returns the native kind of the definition's populated member.
func (d PropertyDefinition) Kind() string {
	switch {
	case d.Title != nil:
		return "title"
	case d.RichText != nil:
		return "rich_text"
	case d.Number != nil:
		return "number"
	case d.Date != nil:
		return "date"
	case d.URL != nil:
		return "url"
	case d.Select != nil:
		return "select"
	case d.MultiSelect != nil:
		return "multi_select"
	case d.Checkbox != nil:
		return "checkbox"
	default:
		return ""
	}
}

// PropertyValue is one property's payload on a record. As with definitions,
// at most one member is set.
type PropertyValue struct {
	Title       []RichTextSpan `json:"title,omitempty"`
	RichText    []RichTextSpan `json:"rich_text,omitempty"`
	Number      *float64       `json:"number,omitempty"`
	Date        *DateValue     `json:"date,omitempty"`
	URL         string         `json:"url,omitempty"`
	Select      *SelectOption  `json:"select,omitempty"`
	MultiSelect []SelectOption `json:"multi_select,omitempty"`
	Checkbox    *bool          `json:"checkbox,omitempty"`
}

// Record is a record as returned by the store's query endpoint.
type Record struct {
	ID         string                   `json:"id"`
	URL        string                   `json:"url,omitempty"`
	Archived   bool                     `json:"archived,omitempty"`
	Properties map[string]PropertyValue `json:"properties"`
}

// QueryResult is one page of a cursor-paginated query.
type QueryResult struct {
	Results    []Record `json:"results"`
	HasMore    bool     `json:"has_more"`
	NextCursor string   `json:"next_cursor,omitempty"`
}

// CreatedRecord is the store's answer to a record create.
type CreatedRecord struct {
	ID  string `json:"id"`
	URL string `json:"url,omitempty"`
}

// Column describes one property of an existing collection, used for
// onboarding analysis only.
type Column struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Kind string `json:"kind"`
}

// CollectionSchema is the store-side schema of a collection.
type CollectionSchema struct {
	Title   string   `json:"title"`
	Columns []Column `json:"columns"`
}

// SearchResult is one hit of the onboarding search endpoint.
type SearchResult struct {
	ID       string `json:"id"`
	Title    string `json:"title"`
	Kind     string `json:"kind"`
	ParentID string `json:"parent_id,omitempty"`
}

// AuthGrant is the result of exchanging an OAuth authorization code.
type AuthGrant struct {
	AccessToken   string `json:"access_token"`
	WorkspaceName string `json:"workspace_name,omitempty"`
	BotID         string `json:"bot_id,omitempty"`
}
