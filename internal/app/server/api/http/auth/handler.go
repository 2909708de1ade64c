package auth

import (
	"context"

	"github.com/danielgtaylor/huma/v2"
	"github.com/google/uuid"
	"golang.org/x/exp/slog"
)

type Handler struct {
	log        *slog.Logger
	middleware huma.Middlewares
}

func NewHandler(log *slog.Logger, middleware huma.Middlewares) *Handler {
	return &Handler{
		log:        log,
		middleware: middleware,
	}
}

func (h *Handler) SetupRoutes(api huma.API) {
	huma.Register(api, h.loginOp(), h.login)
}

// login issues an opaque bearer token. The dev server does not keep
// accounts, any non-empty credential pair is accepted.
func (h *Handler) login(_ context.Context, input *loginInput) (*loginOutput, error) {
	if input.Body.Email == "" || input.Body.Password == "" {
		return nil, huma.Error401Unauthorized("invalid credentials")
	}

	h.log.Info("login", "email", input.Body.Email)

	return &loginOutput{
		Body: loginResponse{
			Success: true,
			Token:   uuid.NewString(),
		},
	}, nil
}
