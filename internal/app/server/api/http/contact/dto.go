package contact

type submitInput struct {
	Body submitRequest
}

type submitRequest struct {
	Name    string `json:"name" doc:"Name of the sender"`
	Email   string `json:"email,omitempty"`
	Subject string `json:"subject,omitempty"`
	Message string `json:"message" doc:"Message body"`
}

type submitOutput struct {
	Body submitResponse
}

type submitResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
}
