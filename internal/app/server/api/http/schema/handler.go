package schema

import (
	"context"
	"errors"

	"github.com/danielgtaylor/huma/v2"
	"golang.org/x/exp/slog"

	"fieldkeeper/internal/app/server/api/http/middleware/auth"
	"fieldkeeper/internal/domain/schema"
)

type Handler struct {
	registry   schema.Registrar
	log        *slog.Logger
	middleware huma.Middlewares
}

func NewHandler(registry schema.Registrar, log *slog.Logger, middleware huma.Middlewares) *Handler {
	return &Handler{
		registry:   registry,
		log:        log,
		middleware: middleware,
	}
}

func (h *Handler) SetupRoutes(api huma.API) {
	huma.Register(api, h.listOp(), h.list)
	huma.Register(api, h.templatesOp(), h.templates)
	huma.Register(api, h.instantiateOp(), h.instantiate)
	huma.Register(api, h.activateOp(), h.activate)
	huma.Register(api, h.getActiveOp(), h.getActive)
}

func (h *Handler) list(ctx context.Context, _ *struct{}) (*listOutput, error) {
	userID, ok := auth.GetUserID(ctx)
	if !ok {
		return nil, huma.Error401Unauthorized("Unauthorized")
	}

	schemas, err := h.registry.List(ctx, userID)
	if err != nil {
		return &listOutput{
			Body: listResponse{Status: "Error", Error: err.Error()},
		}, nil
	}

	return &listOutput{
		Body: listResponse{Status: "Ok", Schemas: schemas},
	}, nil
}

func (h *Handler) templates(ctx context.Context, _ *struct{}) (*templatesOutput, error) {
	if _, ok := auth.GetUserID(ctx); !ok {
		return nil, huma.Error401Unauthorized("Unauthorized")
	}

	return &templatesOutput{
		Body: templatesResponse{Status: "Ok", Templates: schema.Templates()},
	}, nil
}

func (h *Handler) instantiate(ctx context.Context, input *instantiateInput) (*schemaOutput, error) {
	userID, ok := auth.GetUserID(ctx)
	if !ok {
		return nil, huma.Error401Unauthorized("Unauthorized")
	}

	s, err := h.registry.InstantiateFromTemplate(ctx, input.Body.TemplateID, userID)
	if err != nil {
		if errors.Is(err, schema.ErrTemplateNotFound) {
			return nil, huma.Error422UnprocessableEntity("unknown template: " + input.Body.TemplateID)
		}
		return &schemaOutput{
			Body: schemaResponse{Status: "Error", Error: err.Error()},
		}, nil
	}

	return &schemaOutput{
		Body: schemaResponse{Status: "Ok", Schema: s},
	}, nil
}

func (h *Handler) activate(ctx context.Context, input *activateInput) (*statusOutput, error) {
	userID, ok := auth.GetUserID(ctx)
	if !ok {
		return nil, huma.Error401Unauthorized("Unauthorized")
	}

	if err := h.registry.SetActive(ctx, userID, input.Body.SchemaID); err != nil {
		if errors.Is(err, schema.ErrNotFound) {
			return nil, huma.Error422UnprocessableEntity("unknown schema: " + input.Body.SchemaID)
		}
		return &statusOutput{
			Body: statusResponse{Status: "Error", Error: err.Error()},
		}, nil
	}

	return &statusOutput{
		Body: statusResponse{Status: "Ok"},
	}, nil
}

func (h *Handler) getActive(ctx context.Context, _ *struct{}) (*schemaOutput, error) {
	userID, ok := auth.GetUserID(ctx)
	if !ok {
		return nil, huma.Error401Unauthorized("Unauthorized")
	}

	s, err := h.registry.GetActive(ctx, userID)
	if err != nil {
		return &schemaOutput{
			Body: schemaResponse{Status: "Error", Error: err.Error()},
		}, nil
	}

	// s may be nil: the caller falls back to the legacy field set.
	return &schemaOutput{
		Body: schemaResponse{Status: "Ok", Schema: s},
	}, nil
}
