package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"golang.org/x/exp/slog"

	"fieldkeeper/internal/app/client/config"
	"fieldkeeper/internal/domain/record"
	"fieldkeeper/internal/domain/schema"
	"fieldkeeper/internal/remote"
)

type httpClient struct {
	client    *http.Client
	config    *config.Config
	log       *slog.Logger
	baseURL   string
	token     string
	userAgent string
}

func NewHTTPClient(cfg *config.Config, log *slog.Logger) *httpClient {
	client := &http.Client{
		Timeout: 60 * time.Second,
		Transport: &http.Transport{
			MaxIdleConns:        100,
			IdleConnTimeout:     90 * time.Second,
			MaxIdleConnsPerHost: 10,
		},
	}

	return &httpClient{
		client:    client,
		config:    cfg,
		log:       log,
		baseURL:   cfg.ServerAddress,
		userAgent: "Fieldkeeper-Client/1.0",
	}
}

func (h *httpClient) SetToken(token string) {
	h.token = token
}

// HealthCheck verifies the server is reachable.
func (h *httpClient) HealthCheck(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, h.baseURL+"/api/v1/health", nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", h.userAgent)

	resp, err := h.client.Do(req)
	if err != nil {
		return fmt.Errorf("server unreachable: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("server returned status: %d", resp.StatusCode)
	}
	return nil
}

// IssueToken obtains a bearer token using the operator provisioning key.
func (h *httpClient) IssueToken(ctx context.Context, userID int, provisionKey string) (string, error) {
	var result struct {
		Token  string `json:"token"`
		Status string `json:"status"`
		Error  string `json:"error,omitempty"`
	}
	err := h.do(ctx, http.MethodPost, "/user/token", map[string]any{
		"user_id":       userID,
		"provision_key": provisionKey,
	}, &result)
	if err != nil {
		return "", err
	}
	if result.Status == "Error" {
		return "", fmt.Errorf("server error: %s", result.Error)
	}
	return result.Token, nil
}

func (h *httpClient) ListSchemas(ctx context.Context) ([]schema.Schema, error) {
	var result struct {
		Status  string          `json:"status"`
		Schemas []schema.Schema `json:"schemas"`
		Error   string          `json:"error,omitempty"`
	}
	if err := h.do(ctx, http.MethodGet, "/api/schemas", nil, &result); err != nil {
		return nil, err
	}
	if result.Status == "Error" {
		return nil, fmt.Errorf("server error: %s", result.Error)
	}
	return result.Schemas, nil
}

func (h *httpClient) ListTemplates(ctx context.Context) ([]schema.Template, error) {
	var result struct {
		Status    string            `json:"status"`
		Templates []schema.Template `json:"templates"`
	}
	if err := h.do(ctx, http.MethodGet, "/api/schemas/templates", nil, &result); err != nil {
		return nil, err
	}
	return result.Templates, nil
}

func (h *httpClient) InstantiateTemplate(ctx context.Context, templateID string) (*schema.Schema, error) {
	var result struct {
		Status string         `json:"status"`
		Schema *schema.Schema `json:"schema,omitempty"`
		Error  string         `json:"error,omitempty"`
	}
	err := h.do(ctx, http.MethodPost, "/api/schemas", map[string]any{
		"template_id": templateID,
	}, &result)
	if err != nil {
		return nil, err
	}
	if result.Status == "Error" {
		return nil, fmt.Errorf("server error: %s", result.Error)
	}
	return result.Schema, nil
}

func (h *httpClient) ActivateSchema(ctx context.Context, schemaID string) error {
	var result struct {
		Status string `json:"status"`
		Error  string `json:"error,omitempty"`
	}
	err := h.do(ctx, http.MethodPost, "/api/schemas/activate", map[string]any{
		"schema_id": schemaID,
	}, &result)
	if err != nil {
		return err
	}
	if result.Status == "Error" {
		return fmt.Errorf("server error: %s", result.Error)
	}
	return nil
}

// GetActiveSchema resolves the active schema; nil means the legacy field
// set applies.
func (h *httpClient) GetActiveSchema(ctx context.Context) (*schema.Schema, error) {
	var result struct {
		Status string         `json:"status"`
		Schema *schema.Schema `json:"schema,omitempty"`
		Error  string         `json:"error,omitempty"`
	}
	if err := h.do(ctx, http.MethodGet, "/api/schemas/active", nil, &result); err != nil {
		return nil, err
	}
	if result.Status == "Error" {
		return nil, fmt.Errorf("server error: %s", result.Error)
	}
	return result.Schema, nil
}

func (h *httpClient) ExchangeAuthCode(ctx context.Context, code string) (accessToken, workspace string, err error) {
	var result struct {
		Status      string `json:"status"`
		AccessToken string `json:"access_token,omitempty"`
		Workspace   string `json:"workspace,omitempty"`
		Error       string `json:"error,omitempty"`
	}
	err = h.do(ctx, http.MethodPost, "/api/remote/exchange-auth-code", map[string]any{
		"code": code,
	}, &result)
	if err != nil {
		return "", "", err
	}
	if result.Status == "Error" {
		return "", "", fmt.Errorf("server error: %s", result.Error)
	}
	return result.AccessToken, result.Workspace, nil
}

func (h *httpClient) SearchCollections(ctx context.Context) ([]remote.SearchResult, error) {
	var result struct {
		Status    string                `json:"status"`
		Databases []remote.SearchResult `json:"databases"`
		Error     string                `json:"error,omitempty"`
	}
	if err := h.do(ctx, http.MethodPost, "/api/remote/collections/search", map[string]any{}, &result); err != nil {
		return nil, err
	}
	if result.Status == "Error" {
		return nil, fmt.Errorf("server error: %s", result.Error)
	}
	return result.Databases, nil
}

func (h *httpClient) CreateCollection(ctx context.Context, parentPageID, name string) (string, error) {
	var result struct {
		Status       string `json:"status"`
		CollectionID string `json:"collection_id,omitempty"`
		Error        string `json:"error,omitempty"`
	}
	err := h.do(ctx, http.MethodPost, "/api/remote/collections", map[string]any{
		"parent_page_id": parentPageID,
		"name":           name,
	}, &result)
	if err != nil {
		return "", err
	}
	if result.Status == "Error" {
		return "", fmt.Errorf("server error: %s", result.Error)
	}
	return result.CollectionID, nil
}

func (h *httpClient) VerifyConnection(ctx context.Context) (bool, error) {
	var result struct {
		Status  string `json:"status"`
		IsValid bool   `json:"is_valid"`
	}
	if err := h.do(ctx, http.MethodPost, "/api/remote/collections/verify", map[string]any{}, &result); err != nil {
		return false, err
	}
	return result.IsValid, nil
}

func (h *httpClient) AnalyzeCollection(ctx context.Context, collectionID string) (*remote.CollectionSchema, error) {
	var result struct {
		Status  string          `json:"status"`
		Title   string          `json:"title,omitempty"`
		Columns []remote.Column `json:"columns,omitempty"`
		Error   string          `json:"error,omitempty"`
	}
	err := h.do(ctx, http.MethodPost, "/api/remote/collections/analyze", map[string]any{
		"collection_id": collectionID,
	}, &result)
	if err != nil {
		return nil, err
	}
	if result.Status == "Error" {
		return nil, fmt.Errorf("server error: %s", result.Error)
	}
	return &remote.CollectionSchema{Title: result.Title, Columns: result.Columns}, nil
}

func (h *httpClient) PushRecord(ctx context.Context, fieldValues map[string]any) (*record.Record, error) {
	var result struct {
		Status    string `json:"status"`
		RecordID  string `json:"record_id,omitempty"`
		RemoteID  string `json:"remote_id,omitempty"`
		RemoteURL string `json:"remote_url,omitempty"`
		Error     string `json:"error,omitempty"`
	}
	err := h.do(ctx, http.MethodPost, "/api/remote/records", map[string]any{
		"field_values": fieldValues,
	}, &result)
	if err != nil {
		return nil, err
	}
	if result.Status == "Error" {
		return nil, fmt.Errorf("server error: %s", result.Error)
	}
	return &record.Record{
		ID:        result.RecordID,
		RemoteID:  result.RemoteID,
		RemoteURL: result.RemoteURL,
	}, nil
}

func (h *httpClient) PullRecords(ctx context.Context) ([]record.Record, error) {
	var result struct {
		Status  string `json:"status"`
		Records []struct {
			ID        string        `json:"id"`
			SchemaID  string        `json:"schema_id,omitempty"`
			LoggedAt  time.Time     `json:"logged_at"`
			Values    record.Values `json:"values"`
			RemoteID  string        `json:"remote_id"`
			RemoteURL string        `json:"remote_url,omitempty"`
		} `json:"records"`
		Error string `json:"error,omitempty"`
	}
	if err := h.do(ctx, http.MethodPost, "/api/remote/records/pull", map[string]any{}, &result); err != nil {
		return nil, err
	}
	if result.Status == "Error" {
		return nil, fmt.Errorf("server error: %s", result.Error)
	}

	records := make([]record.Record, 0, len(result.Records))
	for _, r := range result.Records {
		records = append(records, record.Record{
			ID:        r.ID,
			SchemaID:  r.SchemaID,
			LoggedAt:  r.LoggedAt,
			Values:    r.Values,
			RemoteID:  r.RemoteID,
			RemoteURL: r.RemoteURL,
		})
	}
	return records, nil
}

func (h *httpClient) ArchiveRecord(ctx context.Context, recordID string) error {
	var result struct {
		Status  string `json:"status"`
		Success bool   `json:"success"`
		Error   string `json:"error,omitempty"`
	}
	err := h.do(ctx, http.MethodPost, "/api/remote/records/"+recordID+"/archive", map[string]any{}, &result)
	if err != nil {
		return err
	}
	if !result.Success {
		return fmt.Errorf("archive failed: %s", result.Error)
	}
	return nil
}

func (h *httpClient) do(ctx context.Context, method, path string, body any, result any) error {
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request: %w", err)
		}
		reader = bytes.NewBuffer(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, h.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", h.userAgent)
	if h.token != "" {
		req.Header.Set("Authorization", "Bearer "+h.token)
	}

	resp, err := h.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		raw, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("server returned status %d: %s", resp.StatusCode, string(raw))
	}

	if result == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}
