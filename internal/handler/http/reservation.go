package http

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/FortunateSmith/LightBnB/internal/service"
	"github.com/FortunateSmith/LightBnB/pkg/httputil"
)

// ReservationHandler handles HTTP requests for guest reservation endpoints.
type ReservationHandler struct {
	service *service.ReservationService
	logger  *slog.Logger
}

// NewReservationHandler creates a new reservation HTTP handler.
func NewReservationHandler(svc *service.ReservationService, logger *slog.Logger) *ReservationHandler {
	return &ReservationHandler{service: svc, logger: logger}
}

// ListForGuest handles GET /api/v1/guests/{guestID}/reservations
func (h *ReservationHandler) ListForGuest(w http.ResponseWriter, r *http.Request) {
	guestID, ok := httputil.ParseID(w, chi.URLParam(r, "guestID"))
	if !ok {
		return
	}

	limit := 0
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			writeInvalidParameter(w, "limit must be a positive integer")
			return
		}
		limit = n
	}

	reservations, err := h.service.ListForGuest(r.Context(), guestID, limit)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: reservations})
}
