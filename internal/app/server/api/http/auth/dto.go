package auth

type loginInput struct {
	Body loginRequest
}

type loginRequest struct {
	Email    string `json:"email" doc:"Account email"`
	Password string `json:"password" doc:"Account password"`
}

type loginOutput struct {
	Body loginResponse
}

type loginResponse struct {
	Success bool   `json:"success"`
	Token   string `json:"token,omitempty"`
	Error   string `json:"error,omitempty"`
}
