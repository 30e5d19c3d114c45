package remote

import (
	"net/http"

	"github.com/danielgtaylor/huma/v2"
)

func (h *Handler) exchangeOp() huma.Operation {
	return huma.Operation{
		OperationID: "remote-exchange-auth-code",
		Method:      http.MethodPost,
		Path:        "/api/remote/exchange-auth-code",
		Summary:     "Exchange an OAuth code for a document-store token",
		Description: "Stores the resulting token in the user's settings so later operations can use it.",
		Tags:        []string{"remote"},
		Security:    []map[string][]string{{"bearer": {}}},
		Middlewares: h.middleware,
	}
}

func (h *Handler) searchOp() huma.Operation {
	return huma.Operation{
		OperationID: "remote-collections-search",
		Method:      http.MethodPost,
		Path:        "/api/remote/collections/search",
		Summary:     "Search document-store collections",
		Tags:        []string{"remote"},
		Security:    []map[string][]string{{"bearer": {}}},
		Middlewares: h.middleware,
	}
}

func (h *Handler) createCollectionOp() huma.Operation {
	return huma.Operation{
		OperationID: "remote-collections-create",
		Method:      http.MethodPost,
		Path:        "/api/remote/collections",
		Summary:     "Create a collection shaped by the active schema",
		Tags:        []string{"remote"},
		Security:    []map[string][]string{{"bearer": {}}},
		Middlewares: h.middleware,
	}
}

func (h *Handler) verifyOp() huma.Operation {
	return huma.Operation{
		OperationID: "remote-collections-verify",
		Method:      http.MethodPost,
		Path:        "/api/remote/collections/verify",
		Summary:     "Check whether the stored connection still works",
		Description: "Answers with a boolean. A broken connection is an expected state, not an error.",
		Tags:        []string{"remote"},
		Security:    []map[string][]string{{"bearer": {}}},
		Middlewares: h.middleware,
	}
}

func (h *Handler) analyzeOp() huma.Operation {
	return huma.Operation{
		OperationID: "remote-collections-analyze",
		Method:      http.MethodPost,
		Path:        "/api/remote/collections/analyze",
		Summary:     "Describe an existing collection's columns",
		Tags:        []string{"remote"},
		Security:    []map[string][]string{{"bearer": {}}},
		Middlewares: h.middleware,
	}
}

func (h *Handler) pushOp() huma.Operation {
	return huma.Operation{
		OperationID: "remote-records-push",
		Method:      http.MethodPost,
		Path:        "/api/remote/records",
		Summary:     "Create a record locally and in the document store",
		Tags:        []string{"remote", "records"},
		Security:    []map[string][]string{{"bearer": {}}},
		Middlewares: h.middleware,
	}
}

func (h *Handler) pullOp() huma.Operation {
	return huma.Operation{
		OperationID: "remote-records-pull",
		Method:      http.MethodPost,
		Path:        "/api/remote/records/pull",
		Summary:     "Reconcile against the document store and return the record set",
		Tags:        []string{"remote", "records"},
		Security:    []map[string][]string{{"bearer": {}}},
		Middlewares: h.middleware,
	}
}

func (h *Handler) archiveOp() huma.Operation {
	return huma.Operation{
		OperationID: "remote-records-archive",
		Method:      http.MethodPost,
		Path:        "/api/remote/records/{id}/archive",
		Summary:     "Archive a record remotely and remove it locally",
		Tags:        []string{"remote", "records"},
		Security:    []map[string][]string{{"bearer": {}}},
		Middlewares: h.middleware,
	}
}
