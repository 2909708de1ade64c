package booking

import (
	"time"
)

type Booking struct {
	ID          string    `json:"id"`
	ClientName  string    `json:"clientName"`
	Email       string    `json:"email,omitempty"`
	CelebrityID string    `json:"celebrityId,omitempty"`
	EventDate   string    `json:"eventDate"`
	Message     string    `json:"message,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
}

type createInput struct {
	Body createRequest
}

type createRequest struct {
	ClientName  string `json:"clientName" doc:"Name of the client making the booking"`
	Email       string `json:"email,omitempty"`
	CelebrityID string `json:"celebrityId,omitempty"`
	EventDate   string `json:"eventDate" doc:"Requested event date, YYYY-MM-DD"`
	Message     string `json:"message,omitempty"`
}

type createOutput struct {
	Status int
	Body   createResponse
}

type createResponse struct {
	Success bool   `json:"success"`
	ID      string `json:"id,omitempty"`
	Error   string `json:"error,omitempty"`
}

type listOutput struct {
	Body listResponse
}

type listResponse struct {
	Success bool      `json:"success"`
	Data    []Booking `json:"data"`
}
