package health

import (
	"net/http"

	"github.com/danielgtaylor/huma/v2"
)

func (h *Handler) healthCheckOp() huma.Operation {
	return huma.Operation{
		OperationID: "health-check",
		Method:      http.MethodGet,
		Path:        "/api/health",
		Summary:     "Availability probe",
		Description: "Returns 200 while the booking API is up. Clients poll this to detect connectivity loss and restoration.",
		Tags:        []string{"health"},
		Middlewares: h.middleware,
	}
}
