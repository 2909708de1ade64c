package contact

import (
	"context"
	"sync"

	"github.com/danielgtaylor/huma/v2"
	"golang.org/x/exp/slog"
)

type Handler struct {
	log        *slog.Logger
	middleware huma.Middlewares

	mu       sync.Mutex
	messages []submitRequest
}

func NewHandler(log *slog.Logger, middleware huma.Middlewares) *Handler {
	return &Handler{
		log:        log,
		middleware: middleware,
	}
}

func (h *Handler) SetupRoutes(api huma.API) {
	huma.Register(api, h.submitOp(), h.submit)
}

func (h *Handler) submit(_ context.Context, input *submitInput) (*submitOutput, error) {
	if input.Body.Message == "" {
		return nil, huma.Error422UnprocessableEntity("message is required")
	}

	h.mu.Lock()
	h.messages = append(h.messages, input.Body)
	h.mu.Unlock()

	h.log.Info("contact form received", "name", input.Body.Name)

	return &submitOutput{
		Body: submitResponse{Success: true},
	}, nil
}
