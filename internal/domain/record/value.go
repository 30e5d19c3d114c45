package record

import (
	"fieldkeeper/internal/domain/schema"
)

// Value is the tagged union carried for every field of a record. The tag is
// the owning field's ValueKind; only the member matching the tag is
// meaningful. Values are produced at the mapper boundary — the rest of the
// engine never handles raw dynamic input.
type Value struct {
	Kind schema.ValueKind `json:"kind"`

	Text       string   `json:"text,omitempty"`        // title, text, url, select
	Number     float64  `json:"number,omitempty"`      // number
	Bool       bool     `json:"bool,omitempty"`        // checkbox
	TimeMillis *int64   `json:"time_millis,omitempty"` // date; nil means absent
	List       []string `json:"list,omitempty"`        // multi_select
}

func TitleValue(s string) Value { return Value{Kind: schema.KindTitle, Text: s} }
func TextValue(s string) Value  { return Value{Kind: schema.KindText, Text: s} }
func URLValue(s string) Value   { return Value{Kind: schema.KindURL, Text: s} }

func NumberValue(n float64) Value { return Value{Kind: schema.KindNumber, Number: n} }
func BoolValue(b bool) Value      { return Value{Kind: schema.KindCheckbox, Bool: b} }

func SelectValue(s string) Value { return Value{Kind: schema.KindSelect, Text: s} }

func MultiSelectValue(items []string) Value {
	return Value{Kind: schema.KindMultiSelect, List: items}
}

// DateValue carries a logical timestamp in epoch milliseconds.
func DateValue(millis int64) Value {
	return Value{Kind: schema.KindDate, TimeMillis: &millis}
}

// EmptyDate is a date value with no instant set.
func EmptyDate() Value { return Value{Kind: schema.KindDate} }

func (v Value) clone() Value {
	out := v
	if v.TimeMillis != nil {
		ms := *v.TimeMillis
		out.TimeMillis = &ms
	}
	if len(v.List) > 0 {
		out.List = make([]string, len(v.List))
		copy(out.List, v.List)
	}
	return out
}

// Equal reports whether two values carry the same tag and payload.
func (v Value) Equal(o Value) bool {
	if v.Kind != o.Kind || v.Text != o.Text || v.Number != o.Number || v.Bool != o.Bool {
		return false
	}
	if (v.TimeMillis == nil) != (o.TimeMillis == nil) {
		return false
	}
	if v.TimeMillis != nil && *v.TimeMillis != *o.TimeMillis {
		return false
	}
	if len(v.List) != len(o.List) {
		return false
	}
	for i := range v.List {
		if v.List[i] != o.List[i] {
			return false
		}
	}
	return true
}
