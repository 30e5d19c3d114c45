package record

import (
	"time"
)

// Record is one logged instance of schema-shaped data. RemoteID is the
// foreign key linking it to its counterpart in the external document store;
// once set by a successful remote create it is never cleared, even by a
// partial failure later on.
type Record struct {
	ID        string    `json:"id"`
	UserID    int       `json:"user_id"`
	SchemaID  string    `json:"schema_id,omitempty"`
	LoggedAt  time.Time `json:"logged_at"`
	Values    Values    `json:"values"`
	RemoteID  string    `json:"remote_id,omitempty"`
	RemoteURL string    `json:"remote_url,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Values maps field id to a validated field value.
type Values map[string]Value

// Clone returns a deep copy of the value map.
func (v Values) Clone() Values {
	out := make(Values, len(v))
	for k, val := range v {
		out[k] = val.clone()
	}
	return out
}
