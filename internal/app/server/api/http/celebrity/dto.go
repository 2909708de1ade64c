package celebrity

type Celebrity struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Category string `json:"category"`
	Bio      string `json:"bio,omitempty"`
	ImageURL string `json:"imageUrl,omitempty"`
}

type listOutput struct {
	Body listResponse
}

type listResponse struct {
	Success bool        `json:"success"`
	Data    []Celebrity `json:"data"`
}
