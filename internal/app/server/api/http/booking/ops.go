package booking

import (
	"net/http"

	"github.com/danielgtaylor/huma/v2"
)

func (h *Handler) createOp() huma.Operation {
	return huma.Operation{
		OperationID:   "booking-create",
		Method:        http.MethodPost,
		Path:          "/api/bookings",
		Summary:       "Create a booking request",
		Description:   "Accepts a booking request for a celebrity appearance",
		Tags:          []string{"bookings"},
		DefaultStatus: http.StatusCreated,
		Middlewares:   h.middleware,
	}
}

func (h *Handler) listOp() huma.Operation {
	return huma.Operation{
		OperationID: "booking-list",
		Method:      http.MethodGet,
		Path:        "/api/bookings",
		Summary:     "List booking requests",
		Tags:        []string{"bookings"},
		Middlewares: h.middleware,
	}
}
