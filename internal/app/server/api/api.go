//GET  /api/health        # Health probe (public)
//GET  /api/celebrities   # Celebrity catalog (public)
//POST /api/bookings      # Create booking request (public)
//GET  /api/bookings      # List booking requests (public)
//POST /api/contact       # Submit contact form (public)
//POST /api/auth/login    # Obtain bearer token (public)

package api

import (
	authAPI "starbook/internal/app/server/api/http/auth"
	bookingAPI "starbook/internal/app/server/api/http/booking"
	celebrityAPI "starbook/internal/app/server/api/http/celebrity"
	contactAPI "starbook/internal/app/server/api/http/contact"
	healthAPI "starbook/internal/app/server/api/http/health"
	"starbook/internal/app/server/api/http/middleware"
	"starbook/internal/app/server/api/http/middleware/logger"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	"github.com/go-chi/chi/v5"
	"golang.org/x/exp/slog"
)

type Handlers struct {
	Health    *healthAPI.Handler
	Celebrity *celebrityAPI.Handler
	Booking   *bookingAPI.Handler
	Contact   *contactAPI.Handler
	Auth      *authAPI.Handler
}

// New creates a *chi.Mux with all operations registered through huma.Register.
func New(log *slog.Logger) *chi.Mux {
	mux := chi.NewMux()

	config := huma.DefaultConfig("StarBook API", "1.0.0")
	config.Components.SecuritySchemes = map[string]*huma.SecurityScheme{
		"bearer": {Type: "http", Scheme: "bearer"},
	}

	API := humachi.New(mux, config)

	h := handlers(log)
	h.Health.SetupRoutes(API)
	h.Celebrity.SetupRoutes(API)
	h.Booking.SetupRoutes(API)
	h.Contact.SetupRoutes(API)
	h.Auth.SetupRoutes(API)

	return mux
}

func handlers(log *slog.Logger) *Handlers {
	loggerMW := logger.New(log)
	middlewares := middleware.NewContainer()

	middlewares.Add(loggerMW.Middleware())
	healthHandler := healthAPI.NewHandler(log, middlewares.GetAllAndClear())

	middlewares.Add(loggerMW.Middleware())
	celebrityHandler := celebrityAPI.NewHandler(log, middlewares.GetAllAndClear())

	middlewares.Add(loggerMW.Middleware())
	bookingHandler := bookingAPI.NewHandler(log, middlewares.GetAllAndClear())

	middlewares.Add(loggerMW.Middleware())
	contactHandler := contactAPI.NewHandler(log, middlewares.GetAllAndClear())

	middlewares.Add(loggerMW.Middleware())
	authHandler := authAPI.NewHandler(log, middlewares.GetAllAndClear())

	return &Handlers{
		Health:    healthHandler,
		Celebrity: celebrityHandler,
		Booking:   bookingHandler,
		Contact:   contactHandler,
		Auth:      authHandler,
	}
}
