package schema

import "fieldkeeper/internal/domain/schema"

type listOutput struct {
	Body listResponse
}

type listResponse struct {
	Status  string          `json:"status"`
	Schemas []schema.Schema `json:"schemas"`
	Error   string          `json:"error,omitempty"`
}

type templatesOutput struct {
	Body templatesResponse
}

type templatesResponse struct {
	Status    string            `json:"status"`
	Templates []schema.Template `json:"templates"`
}

type instantiateInput struct {
	Body instantiateRequest
}

type instantiateRequest struct {
	TemplateID string `json:"template_id" minLength:"1" doc:"ID of the built-in template to instantiate"`
}

type activateInput struct {
	Body activateRequest
}

type activateRequest struct {
	SchemaID string `json:"schema_id" minLength:"1" doc:"Schema to mark active"`
}

type schemaOutput struct {
	Body schemaResponse
}

type schemaResponse struct {
	Status string         `json:"status"`
	Schema *schema.Schema `json:"schema,omitempty"`
	Error  string         `json:"error,omitempty"`
}

type statusOutput struct {
	Body statusResponse
}

type statusResponse struct {
	Status string `json:"status"`
	Error  string `json:"error,omitempty"`
}
