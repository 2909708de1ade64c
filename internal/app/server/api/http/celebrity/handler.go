package celebrity

import (
	"context"

	"github.com/danielgtaylor/huma/v2"
	"golang.org/x/exp/slog"
)

type Handler struct {
	log        *slog.Logger
	middleware huma.Middlewares

	catalog []Celebrity
}

func NewHandler(log *slog.Logger, middleware huma.Middlewares) *Handler {
	return &Handler{
		log:        log,
		middleware: middleware,
		catalog:    seedCatalog(),
	}
}

func (h *Handler) SetupRoutes(api huma.API) {
	huma.Register(api, h.listOp(), h.list)
}

func (h *Handler) list(_ context.Context, _ *struct{}) (*listOutput, error) {
	return &listOutput{
		Body: listResponse{
			Success: true,
			Data:    h.catalog,
		},
	}, nil
}

func seedCatalog() []Celebrity {
	return []Celebrity{
		{ID: "c-001", Name: "Ava Sterling", Category: "Music", Bio: "Grammy nominated vocalist", ImageURL: "/images/celebrities/ava-sterling.jpg"},
		{ID: "c-002", Name: "Marcus Vale", Category: "Sports", Bio: "Retired heavyweight champion", ImageURL: "/images/celebrities/marcus-vale.jpg"},
		{ID: "c-003", Name: "Lena Orozco", Category: "Film", Bio: "Award winning character actress", ImageURL: "/images/celebrities/lena-orozco.jpg"},
	}
}
