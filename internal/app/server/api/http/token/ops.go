package token

import (
	"net/http"

	"github.com/danielgtaylor/huma/v2"
)

func (h *Handler) issueOp() huma.Operation {
	return huma.Operation{
		OperationID: "token-issue",
		Method:      http.MethodPost,
		Path:        "/user/token",
		Summary:     "Issue an access token",
		Description: "Creates a bearer token for a user. Guarded by the operator provisioning key; there is no self-service registration.",
		Tags:        []string{"users"},
		Middlewares: h.middleware,
	}
}
