package remote

import (
	"time"

	"fieldkeeper/internal/domain/record"
	"fieldkeeper/internal/remote"
)

type exchangeInput struct {
	Body exchangeRequest
}

type exchangeRequest struct {
	Code string `json:"code" minLength:"1" doc:"OAuth authorization code from the document store"`
}

type exchangeOutput struct {
	Body exchangeResponse
}

type exchangeResponse struct {
	Status      string `json:"status"`
	AccessToken string `json:"access_token,omitempty"`
	Workspace   string `json:"workspace,omitempty"`
	BotID       string `json:"bot_id,omitempty"`
	Error       string `json:"error,omitempty"`
}

type searchInput struct {
	Body searchRequest
}

type searchRequest struct {
	Kind string `json:"kind,omitempty" doc:"Object kind to search for, defaults to collections"`
}

type searchOutput struct {
	Body searchResponse
}

type searchResponse struct {
	Status    string                `json:"status"`
	Databases []remote.SearchResult `json:"databases"`
	Error     string                `json:"error,omitempty"`
}

type createCollectionInput struct {
	Body createCollectionRequest
}

type createCollectionRequest struct {
	ParentPageID string `json:"parent_page_id" minLength:"1" doc:"Page under which the collection is created"`
	Name         string `json:"name" minLength:"1" doc:"Collection title"`
}

type createCollectionOutput struct {
	Body createCollectionResponse
}

type createCollectionResponse struct {
	Status       string `json:"status"`
	CollectionID string `json:"collection_id,omitempty"`
	Error        string `json:"error,omitempty"`
}

type verifyOutput struct {
	Body verifyResponse
}

type verifyResponse struct {
	Status  string `json:"status"`
	IsValid bool   `json:"is_valid"`
}

type analyzeInput struct {
	Body analyzeRequest
}

type analyzeRequest struct {
	CollectionID string `json:"collection_id,omitempty" doc:"Collection to analyze; defaults to the stored one"`
}

type analyzeOutput struct {
	Body analyzeResponse
}

type analyzeResponse struct {
	Status  string          `json:"status"`
	Title   string          `json:"title,omitempty"`
	Columns []remote.Column `json:"columns,omitempty"`
	Error   string          `json:"error,omitempty"`
}

type pushInput struct {
	Body pushRequest
}

type pushRequest struct {
	FieldValues map[string]any `json:"field_values" doc:"Raw field values keyed by field id"`
}

type pushOutput struct {
	Body pushResponse
}

type pushResponse struct {
	Status    string `json:"status"`
	RecordID  string `json:"record_id,omitempty"`
	RemoteID  string `json:"remote_id,omitempty"`
	RemoteURL string `json:"remote_url,omitempty"`
	Error     string `json:"error,omitempty"`
}

type pullOutput struct {
	Body pullResponse
}

type pullResponse struct {
	Status  string      `json:"status"`
	Records []recordDTO `json:"records"`
	Error   string      `json:"error,omitempty"`
}

type recordDTO struct {
	ID        string        `json:"id"`
	SchemaID  string        `json:"schema_id,omitempty"`
	LoggedAt  time.Time     `json:"logged_at"`
	Values    record.Values `json:"values"`
	RemoteID  string        `json:"remote_id"`
	RemoteURL string        `json:"remote_url,omitempty"`
}

type archiveInput struct {
	ID string `path:"id" doc:"Local record id"`
}

type archiveOutput struct {
	Body archiveResponse
}

type archiveResponse struct {
	Status  string `json:"status"`
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
}

func toRecordDTO(r record.Record) recordDTO {
	return recordDTO{
		ID:        r.ID,
		SchemaID:  r.SchemaID,
		LoggedAt:  r.LoggedAt,
		Values:    r.Values,
		RemoteID:  r.RemoteID,
		RemoteURL: r.RemoteURL,
	}
}
