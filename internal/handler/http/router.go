package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/FortunateSmith/LightBnB/internal/service"
	"github.com/FortunateSmith/LightBnB/pkg/health"
	"github.com/FortunateSmith/LightBnB/pkg/middleware"
)

// NewRouter creates a chi router with all listing service routes registered.
func NewRouter(
	userService *service.UserService,
	propertyService *service.PropertyService,
	reservationService *service.ReservationService,
	healthHandler *health.Handler,
	logger *slog.Logger,
) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(CORS)
	r.Use(middleware.Recovery(logger))
	r.Use(middleware.RequestLogging(logger))
	r.Use(middleware.PrometheusMetrics("lightbnb"))

	// Health check endpoints
	r.Get("/health/live", healthHandler.LivenessHandler())
	r.Get("/health/ready", healthHandler.ReadinessHandler())
	r.Get("/metrics", func(w http.ResponseWriter, r *http.Request) {
		promhttp.Handler().ServeHTTP(w, r)
	})

	userHandler := NewUserHandler(userService, logger)
	propertyHandler := NewPropertyHandler(propertyService, logger)
	reservationHandler := NewReservationHandler(reservationService, logger)

	r.Route("/api/v1", func(r chi.Router) {
		r.With(ContentTypeJSON).Post("/users", userHandler.Register)
		r.With(ContentTypeJSON).Post("/login", userHandler.Login)
		r.Get("/users/{id}", userHandler.GetUser)

		r.Get("/properties", propertyHandler.Search)
		r.With(ContentTypeJSON).Post("/properties", propertyHandler.Create)
		r.Get("/properties/{id}", propertyHandler.GetProperty)

		r.Get("/guests/{guestID}/reservations", reservationHandler.ListForGuest)
	})

	return r
}
