package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"golang.org/x/exp/slog"
)

const (
	// MaxPageSize is the largest page the store accepts on a query.
	MaxPageSize = 100

	defaultTimeout = 30 * time.Second
)

// Client is the authenticated HTTP client for the document store. The store
// gives no idempotency guarantee, so callers must not blindly retry creates;
// the client itself never retries.
type Client struct {
	client    *http.Client
	log       *slog.Logger
	baseURL   string
	userAgent string
}

func NewClient(baseURL string, log *slog.Logger) *Client {
	client := &http.Client{
		Timeout: defaultTimeout,
		Transport: &http.Transport{
			MaxIdleConns:        100,
			IdleConnTimeout:     90 * time.Second,
			MaxIdleConnsPerHost: 10,
		},
	}

	return &Client{
		client:    client,
		log:       log.With("component", "remote_client"),
		baseURL:   strings.TrimRight(baseURL, "/"),
		userAgent: "fieldkeeper/1.0",
	}
}

// ExchangeAuthCode trades an OAuth authorization code for an access token.
func (c *Client) ExchangeAuthCode(ctx context.Context, code string) (*AuthGrant, error) {
	body := struct {
		Code string `json:"code"`
	}{Code: code}

	resp, err := c.doRequest(ctx, "", http.MethodPost, "/v1/oauth/token", body)
	if err != nil {
		return nil, err
	}

	var grant AuthGrant
	if err := c.parseResponse(resp, &grant); err != nil {
		return nil, err
	}
	return &grant, nil
}

// Search lists objects of the given kind the integration can reach. Used
// during onboarding discovery only, never in steady-state sync.
func (c *Client) Search(ctx context.Context, apiKey, kind string) ([]SearchResult, error) {
	body := struct {
		Filter struct {
			Kind string `json:"kind"`
		} `json:"filter"`
	}{}
	body.Filter.Kind = kind

	resp, err := c.doRequest(ctx, apiKey, http.MethodPost, "/v1/search", body)
	if err != nil {
		return nil, err
	}

	var out struct {
		Results []SearchResult `json:"results"`
	}
	if err := c.parseResponse(resp, &out); err != nil {
		return nil, err
	}
	return out.Results, nil
}

// CreateCollection creates a structured collection under the given parent
// page. An absent parent fails with ErrInvalidParent before any HTTP call.
func (c *Client) CreateCollection(ctx context.Context, apiKey, parentID, name string, props map[string]PropertyDefinition) (string, error) {
	if strings.TrimSpace(parentID) == "" {
		return "", ErrInvalidParent
	}

	body := struct {
		ParentID   string                        `json:"parent_id"`
		Title      string                        `json:"title"`
		Properties map[string]PropertyDefinition `json:"properties"`
	}{ParentID: parentID, Title: name, Properties: props}

	resp, err := c.doRequest(ctx, apiKey, http.MethodPost, "/v1/collections", body)
	if err != nil {
		return "", err
	}

	var out struct {
		ID string `json:"id"`
	}
	if err := c.parseResponse(resp, &out); err != nil {
		return "", err
	}
	return out.ID, nil
}

// FetchCollectionSchema reads a collection's title and columns. Used for
// onboarding analysis, not on the hot sync path.
func (c *Client) FetchCollectionSchema(ctx context.Context, apiKey, collectionID string) (*CollectionSchema, error) {
	resp, err := c.doRequest(ctx, apiKey, http.MethodGet, "/v1/collections/"+collectionID, nil)
	if err != nil {
		return nil, err
	}

	var out struct {
		Title      string `json:"title"`
		Properties map[string]struct {
			ID string `json:"id"`
			PropertyDefinition
		} `json:"properties"`
	}
	if err := c.parseResponse(resp, &out); err != nil {
		return nil, err
	}

	cs := &CollectionSchema{Title: out.Title}
	for name, p := range out.Properties {
		cs.Columns = append(cs.Columns, Column{
			ID:   p.ID,
			Name: name,
			Kind: p.PropertyDefinition.Kind(),
		})
	}
	return cs, nil
}

// QueryRecords fetches one page of a collection. Callers loop on the
// returned cursor; the client fetches pages strictly sequentially because
// cursors are opaque with no parallel-fetch semantics.
func (c *Client) QueryRecords(ctx context.Context, apiKey, collectionID, cursor string, pageSize int) (*QueryResult, error) {
	if pageSize <= 0 || pageSize > MaxPageSize {
		pageSize = MaxPageSize
	}

	body := struct {
		Cursor   string `json:"cursor,omitempty"`
		PageSize int    `json:"page_size"`
	}{Cursor: cursor, PageSize: pageSize}

	resp, err := c.doRequest(ctx, apiKey, http.MethodPost, "/v1/collections/"+collectionID+"/query", body)
	if err != nil {
		return nil, err
	}

	var out QueryResult
	if err := c.parseResponse(resp, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// CreateRecord creates one record in the collection.
func (c *Client) CreateRecord(ctx context.Context, apiKey, collectionID string, props map[string]PropertyValue) (*CreatedRecord, error) {
	body := struct {
		Parent struct {
			CollectionID string `json:"collection_id"`
		} `json:"parent"`
		Properties map[string]PropertyValue `json:"properties"`
	}{Properties: props}
	body.Parent.CollectionID = collectionID

	resp, err := c.doRequest(ctx, apiKey, http.MethodPost, "/v1/records", body)
	if err != nil {
		return nil, err
	}

	var out CreatedRecord
	if err := c.parseResponse(resp, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// PatchRecord updates properties of an existing record.
func (c *Client) PatchRecord(ctx context.Context, apiKey, remoteID string, props map[string]PropertyValue) error {
	body := struct {
		Properties map[string]PropertyValue `json:"properties"`
	}{Properties: props}

	resp, err := c.doRequest(ctx, apiKey, http.MethodPatch, "/v1/records/"+remoteID, body)
	if err != nil {
		return err
	}
	return c.parseResponse(resp, nil)
}

// ArchiveRecord soft-deletes a record. The store exposes no physical delete;
// archived records still exist but are excluded from active queries.
func (c *Client) ArchiveRecord(ctx context.Context, apiKey, remoteID string) error {
	body := struct {
		Archived bool `json:"archived"`
	}{Archived: true}

	resp, err := c.doRequest(ctx, apiKey, http.MethodPatch, "/v1/records/"+remoteID, body)
	if err != nil {
		return err
	}
	return c.parseResponse(resp, nil)
}

func (c *Client) doRequest(ctx context.Context, apiKey, method, path string, body interface{}) (*http.Response, error) {
	var reqBody io.Reader
	if body != nil {
		jsonData, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("marshal request body: %w", err)
		}
		reqBody = bytes.NewBuffer(jsonData)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", c.userAgent)
	if apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+apiKey)
	}

	c.log.Debug("sending request", "method", method, "url", req.URL.String())

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("execute request: %w", err)
	}
	return resp, nil
}

func (c *Client) parseResponse(resp *http.Response, result interface{}) error {
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	c.log.Debug("received response", "status", resp.StatusCode)

	if resp.StatusCode >= 400 {
		var errResp struct {
			Message string `json:"message"`
		}
		_ = json.Unmarshal(body, &errResp)
		return &APIError{Status: resp.StatusCode, Message: errResp.Message}
	}

	if result != nil {
		if err := json.Unmarshal(body, result); err != nil {
			return fmt.Errorf("parse response: %w", err)
		}
	}
	return nil
}
