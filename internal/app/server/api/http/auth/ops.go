package auth

import (
	"net/http"

	"github.com/danielgtaylor/huma/v2"
)

func (h *Handler) loginOp() huma.Operation {
	return huma.Operation{
		OperationID: "auth-login",
		Method:      http.MethodPost,
		Path:        "/api/auth/login",
		Summary:     "Authenticate and obtain a bearer token",
		Tags:        []string{"auth"},
		Middlewares: h.middleware,
	}
}
