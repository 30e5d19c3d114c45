package settings

import "time"

// Settings is a user's connection to the external document store: the
// integration API key (stored encrypted at rest) and the collection their
// records mirror into. A user with no collection id has never completed
// onboarding and is never synced.
type Settings struct {
	UserID       int       `json:"user_id"`
	APIKey       string    `json:"-"`
	CollectionID string    `json:"collection_id,omitempty"`
	ParentPageID string    `json:"parent_page_id,omitempty"`
	Workspace    string    `json:"workspace,omitempty"`
	UpdatedAt    time.Time `json:"updated_at"`
}
