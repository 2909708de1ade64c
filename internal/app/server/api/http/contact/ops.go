package contact

import (
	"net/http"

	"github.com/danielgtaylor/huma/v2"
)

func (h *Handler) submitOp() huma.Operation {
	return huma.Operation{
		OperationID: "contact-submit",
		Method:      http.MethodPost,
		Path:        "/api/contact",
		Summary:     "Submit a contact form",
		Tags:        []string{"contact"},
		Middlewares: h.middleware,
	}
}
