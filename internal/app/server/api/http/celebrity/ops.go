package celebrity

import (
	"net/http"

	"github.com/danielgtaylor/huma/v2"
)

func (h *Handler) listOp() huma.Operation {
	return huma.Operation{
		OperationID: "celebrity-list",
		Method:      http.MethodGet,
		Path:        "/api/celebrities",
		Summary:     "List available celebrities",
		Tags:        []string{"celebrities"},
		Middlewares: h.middleware,
	}
}
