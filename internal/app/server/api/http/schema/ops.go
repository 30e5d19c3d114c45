package schema

import (
	"net/http"

	"github.com/danielgtaylor/huma/v2"
)

func (h *Handler) listOp() huma.Operation {
	return huma.Operation{
		OperationID: "schemas-list",
		Method:      http.MethodGet,
		Path:        "/api/schemas",
		Summary:     "List the user's schemas",
		Tags:        []string{"schemas"},
		Security:    []map[string][]string{{"bearer": {}}},
		Middlewares: h.middleware,
	}
}

func (h *Handler) templatesOp() huma.Operation {
	return huma.Operation{
		OperationID: "schemas-templates",
		Method:      http.MethodGet,
		Path:        "/api/schemas/templates",
		Summary:     "List built-in schema templates",
		Tags:        []string{"schemas"},
		Security:    []map[string][]string{{"bearer": {}}},
		Middlewares: h.middleware,
	}
}

func (h *Handler) instantiateOp() huma.Operation {
	return huma.Operation{
		OperationID: "schemas-instantiate",
		Method:      http.MethodPost,
		Path:        "/api/schemas",
		Summary:     "Instantiate a schema from a template",
		Description: "Creates a personal copy of a built-in template. The copy is independent; edits never touch the template.",
		Tags:        []string{"schemas"},
		Security:    []map[string][]string{{"bearer": {}}},
		Middlewares: h.middleware,
	}
}

func (h *Handler) activateOp() huma.Operation {
	return huma.Operation{
		OperationID: "schemas-activate",
		Method:      http.MethodPost,
		Path:        "/api/schemas/activate",
		Summary:     "Mark a schema as the active one",
		Tags:        []string{"schemas"},
		Security:    []map[string][]string{{"bearer": {}}},
		Middlewares: h.middleware,
	}
}

func (h *Handler) getActiveOp() huma.Operation {
	return huma.Operation{
		OperationID: "schemas-get-active",
		Method:      http.MethodGet,
		Path:        "/api/schemas/active",
		Summary:     "Resolve the active schema",
		Description: "Returns the active schema, falling back to the most recently updated one. A null schema means the built-in legacy field set applies.",
		Tags:        []string{"schemas"},
		Security:    []map[string][]string{{"bearer": {}}},
		Middlewares: h.middleware,
	}
}
