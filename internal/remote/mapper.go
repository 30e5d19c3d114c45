package remote

import (
	"strconv"
	"strings"
	"time"

	"fieldkeeper/internal/domain/record"
	"fieldkeeper/internal/domain/schema"
)

// The mapper is a closed switch over the field's ValueKind, never over ad hoc
// property names. That is what lets the engine carry an unbounded set of
// user-defined fields: every kind, known or not, resolves to a mapping, and
// an unrecognized kind degrades to the text mapping instead of failing.

// ToRemoteProperty builds the store-native property definition for a field.
// Used once, at collection-creation time.
func ToRemoteProperty(f schema.FieldConfig) PropertyDefinition {
	switch f.Kind {
	case schema.KindTitle:
		return PropertyDefinition{Title: &Empty{}}
	case schema.KindNumber:
		return PropertyDefinition{Number: &NumberConfig{Format: "number"}}
	case schema.KindDate:
		return PropertyDefinition{Date: &Empty{}}
	case schema.KindURL:
		return PropertyDefinition{URL: &Empty{}}
	case schema.KindSelect:
		return PropertyDefinition{Select: &SelectConfig{Options: selectOptions(f.Options)}}
	case schema.KindMultiSelect:
		return PropertyDefinition{MultiSelect: &SelectConfig{Options: selectOptions(f.Options)}}
	case schema.KindCheckbox:
		return PropertyDefinition{Checkbox: &Empty{}}
	default: // text and anything unrecognized
		return PropertyDefinition{RichText: &Empty{}}
	}
}

// ToRemoteValue converts a validated field value into the store's property
// payload. The second return is false when the property must be omitted from
// the write entirely (the store rejects empty url payloads, and dates with no
// instant carry nothing).
func ToRemoteValue(f schema.FieldConfig, v record.Value) (PropertyValue, bool) {
	switch f.Kind {
	case schema.KindTitle:
		return PropertyValue{Title: spans(v.Text)}, true
	case schema.KindNumber:
		n := v.Number
		return PropertyValue{Number: &n}, true
	case schema.KindDate:
		if v.TimeMillis == nil {
			return PropertyValue{}, false
		}
		start := time.UnixMilli(*v.TimeMillis).UTC().Format(time.RFC3339)
		return PropertyValue{Date: &DateValue{Start: start}}, true
	case schema.KindURL:
		u := strings.TrimSpace(v.Text)
		if u == "" {
			return PropertyValue{}, false
		}
		return PropertyValue{URL: u}, true
	case schema.KindSelect:
		if v.Text == "" {
			return PropertyValue{}, false
		}
		return PropertyValue{Select: &SelectOption{Name: v.Text}}, true
	case schema.KindMultiSelect:
		return PropertyValue{MultiSelect: selectOptions(v.List)}, true
	case schema.KindCheckbox:
		b := v.Bool
		return PropertyValue{Checkbox: &b}, true
	default: // text and anything unrecognized
		return PropertyValue{RichText: spans(v.Text)}, true
	}
}

// FromRemoteValue converts a store property payload back into the tagged
// union, applying the per-kind read defaults: missing number reads as 0,
// missing checkbox as false, missing url/text as "", absent date start as a
// nil instant.
func FromRemoteValue(f schema.FieldConfig, pv PropertyValue) record.Value {
	switch f.Kind {
	case schema.KindTitle:
		return record.TitleValue(firstPlain(pv.Title))
	case schema.KindNumber:
		if pv.Number == nil {
			return record.NumberValue(0)
		}
		return record.NumberValue(*pv.Number)
	case schema.KindDate:
		if pv.Date == nil || pv.Date.Start == "" {
			return record.EmptyDate()
		}
		t, err := time.Parse(time.RFC3339, pv.Date.Start)
		if err != nil {
			return record.EmptyDate()
		}
		return record.DateValue(t.UnixMilli())
	case schema.KindURL:
		return record.URLValue(pv.URL)
	case schema.KindSelect:
		if pv.Select == nil {
			return record.SelectValue("")
		}
		return record.SelectValue(pv.Select.Name)
	case schema.KindMultiSelect:
		names := make([]string, 0, len(pv.MultiSelect))
		for _, o := range pv.MultiSelect {
			names = append(names, o.Name)
		}
		return record.MultiSelectValue(names)
	case schema.KindCheckbox:
		if pv.Checkbox == nil {
			return record.BoolValue(false)
		}
		return record.BoolValue(*pv.Checkbox)
	default: // text and anything unrecognized
		v := record.TextValue(firstPlain(pv.RichText))
		v.Kind = f.Kind
		return v
	}
}

// Coerce validates raw dynamic input into the tagged union at the mapper
// boundary. Numeric coercion never rejects: non-numeric input degrades to 0.
func Coerce(f schema.FieldConfig, raw any) record.Value {
	switch f.Kind {
	case schema.KindTitle:
		return record.TitleValue(coerceString(raw))
	case schema.KindNumber:
		return record.NumberValue(coerceNumber(raw))
	case schema.KindDate:
		if ms, ok := coerceMillis(raw); ok {
			return record.DateValue(ms)
		}
		return record.EmptyDate()
	case schema.KindURL:
		return record.URLValue(coerceString(raw))
	case schema.KindSelect:
		return record.SelectValue(coerceString(raw))
	case schema.KindMultiSelect:
		return record.MultiSelectValue(coerceList(raw))
	case schema.KindCheckbox:
		return record.BoolValue(coerceBool(raw))
	default:
		v := record.TextValue(coerceString(raw))
		v.Kind = f.Kind
		return v
	}
}

func spans(s string) []RichTextSpan {
	return []RichTextSpan{{Text: TextContent{Content: s}}}
}

// firstPlain takes the first run's plain text, or "" when there are no runs.
func firstPlain(runs []RichTextSpan) string {
	if len(runs) == 0 {
		return ""
	}
	if runs[0].PlainText != "" {
		return runs[0].PlainText
	}
	return runs[0].Text.Content
}

func selectOptions(names []string) []SelectOption {
	opts := make([]SelectOption, 0, len(names))
	for _, n := range names {
		opts = append(opts, SelectOption{Name: n})
	}
	return opts
}

func coerceString(raw any) string {
	switch v := raw.(type) {
	case nil:
		return ""
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case int:
		return strconv.Itoa(v)
	case int64:
		return strconv.FormatInt(v, 10)
	case bool:
		return strconv.FormatBool(v)
	default:
		return ""
	}
}

func coerceNumber(raw any) float64 {
	switch v := raw.(type) {
	case float64:
		return v
	case float32:
		return float64(v)
	case int:
		return float64(v)
	case int64:
		return float64(v)
	case string:
		n, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			return 0
		}
		return n
	case bool:
		if v {
			return 1
		}
		return 0
	default:
		return 0
	}
}

func coerceBool(raw any) bool {
	switch v := raw.(type) {
	case bool:
		return v
	case string:
		b, err := strconv.ParseBool(strings.TrimSpace(v))
		return err == nil && b
	case float64:
		return v != 0
	default:
		return false
	}
}

func coerceMillis(raw any) (int64, bool) {
	switch v := raw.(type) {
	case nil:
		return 0, false
	case int64:
		return v, true
	case int:
		return int64(v), true
	case float64:
		return int64(v), true
	case time.Time:
		return v.UnixMilli(), true
	case string:
		s := strings.TrimSpace(v)
		if s == "" {
			return 0, false
		}
		if t, err := time.Parse(time.RFC3339, s); err == nil {
			return t.UnixMilli(), true
		}
		if ms, err := strconv.ParseInt(s, 10, 64); err == nil {
			return ms, true
		}
		return 0, false
	default:
		return 0, false
	}
}

func coerceList(raw any) []string {
	switch v := raw.(type) {
	case []string:
		out := make([]string, len(v))
		copy(out, v)
		return out
	case []any:
		out := make([]string, 0, len(v))
		for _, item := range v {
			out = append(out, coerceString(item))
		}
		return out
	case string:
		if v == "" {
			return nil
		}
		parts := strings.Split(v, ",")
		for i := range parts {
			parts[i] = strings.TrimSpace(parts[i])
		}
		return parts
	default:
		return nil
	}
}
