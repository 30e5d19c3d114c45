package token

import (
	"context"
	"crypto/subtle"

	"github.com/danielgtaylor/huma/v2"
	"golang.org/x/exp/slog"

	"fieldkeeper/internal/domain/session"
)

type Handler struct {
	session      session.Servicer
	provisionKey string
	log          *slog.Logger
	middleware   huma.Middlewares
}

func NewHandler(session session.Servicer, provisionKey string, log *slog.Logger, middleware huma.Middlewares) *Handler {
	return &Handler{
		session:      session,
		provisionKey: provisionKey,
		log:          log,
		middleware:   middleware,
	}
}

func (h *Handler) SetupRoutes(api huma.API) {
	huma.Register(api, h.issueOp(), h.issue)
}

func (h *Handler) issue(ctx context.Context, input *issueInput) (*issueOutput, error) {
	if subtle.ConstantTimeCompare([]byte(input.Body.ProvisionKey), []byte(h.provisionKey)) != 1 {
		h.log.Warn("token issue rejected", "user_id", input.Body.UserID)
		return nil, huma.Error401Unauthorized("Unauthorized")
	}

	tok, err := h.session.Create(ctx, input.Body.UserID)
	if err != nil {
		return &issueOutput{
			Body: issueResponse{Status: "Error", Error: err.Error()},
		}, nil
	}

	return &issueOutput{
		Body: issueResponse{Token: tok, Status: "Ok"},
	}, nil
}
