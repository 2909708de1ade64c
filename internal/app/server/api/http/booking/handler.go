package booking

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/google/uuid"
	"golang.org/x/exp/slog"
)

type Handler struct {
	log        *slog.Logger
	middleware huma.Middlewares

	mu       sync.Mutex
	bookings []Booking
}

func NewHandler(log *slog.Logger, middleware huma.Middlewares) *Handler {
	return &Handler{
		log:        log,
		middleware: middleware,
	}
}

func (h *Handler) SetupRoutes(api huma.API) {
	huma.Register(api, h.createOp(), h.create)
	huma.Register(api, h.listOp(), h.list)
}

func (h *Handler) create(_ context.Context, input *createInput) (*createOutput, error) {
	if input.Body.ClientName == "" {
		return nil, huma.Error422UnprocessableEntity("clientName is required")
	}

	b := Booking{
		ID:          uuid.NewString(),
		ClientName:  input.Body.ClientName,
		Email:       input.Body.Email,
		CelebrityID: input.Body.CelebrityID,
		EventDate:   input.Body.EventDate,
		Message:     input.Body.Message,
		CreatedAt:   time.Now(),
	}

	h.mu.Lock()
	h.bookings = append(h.bookings, b)
	h.mu.Unlock()

	h.log.Info("booking received", "booking_id", b.ID, "client", b.ClientName)

	return &createOutput{
		Status: http.StatusCreated,
		Body: createResponse{
			Success: true,
			ID:      b.ID,
		},
	}, nil
}

func (h *Handler) list(_ context.Context, _ *struct{}) (*listOutput, error) {
	h.mu.Lock()
	data := make([]Booking, len(h.bookings))
	copy(data, h.bookings)
	h.mu.Unlock()

	return &listOutput{
		Body: listResponse{
			Success: true,
			Data:    data,
		},
	}, nil
}
