package http

import (
	"encoding/json"
	"log/slog"
	"math"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/FortunateSmith/LightBnB/internal/domain"
	"github.com/FortunateSmith/LightBnB/internal/repository"
	"github.com/FortunateSmith/LightBnB/internal/service"
	"github.com/FortunateSmith/LightBnB/pkg/httputil"
	"github.com/FortunateSmith/LightBnB/pkg/validator"
)

// PropertyHandler handles HTTP requests for property listing endpoints.
type PropertyHandler struct {
	service *service.PropertyService
	logger  *slog.Logger
}

// NewPropertyHandler creates a new property HTTP handler.
func NewPropertyHandler(svc *service.PropertyService, logger *slog.Logger) *PropertyHandler {
	return &PropertyHandler{service: svc, logger: logger}
}

// --- Request DTOs ---

// CreatePropertyRequest is the JSON request body for creating a listing.
// CostPerNight is given in decimal currency units (dollars).
type CreatePropertyRequest struct {
	OwnerID           int64   `json:"owner_id" validate:"required,gt=0"`
	Title             string  `json:"title" validate:"required,min=1,max=255"`
	Description       string  `json:"description" validate:"omitempty"`
	ThumbnailPhotoURL string  `json:"thumbnail_photo_url" validate:"omitempty,url"`
	CoverPhotoURL     string  `json:"cover_photo_url" validate:"omitempty,url"`
	CostPerNight      float64 `json:"cost_per_night" validate:"required,gt=0"`
	ParkingSpaces     int     `json:"parking_spaces" validate:"gte=0"`
	NumberOfBathrooms int     `json:"number_of_bathrooms" validate:"gte=0"`
	NumberOfBedrooms  int     `json:"number_of_bedrooms" validate:"gte=0"`
	Street            string  `json:"street" validate:"required"`
	City              string  `json:"city" validate:"required"`
	Province          string  `json:"province" validate:"required"`
	PostCode          string  `json:"post_code" validate:"required"`
	Country           string  `json:"country" validate:"required"`
}

// --- Handlers ---

// Search handles GET /api/v1/properties
//
// Filter criteria arrive as query parameters: city, minimum_price_per_night,
// maximum_price_per_night, minimum_rating, owner_id, limit. Absent parameters
// leave the corresponding filter off.
func (h *PropertyHandler) Search(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	var filter repository.PropertyFilter

	filter.City = q.Get("city")

	var ok bool
	if filter.MinPricePerNight, ok = parseFloatParam(w, q.Get("minimum_price_per_night"), "minimum_price_per_night"); !ok {
		return
	}
	if filter.MaxPricePerNight, ok = parseFloatParam(w, q.Get("maximum_price_per_night"), "maximum_price_per_night"); !ok {
		return
	}
	if filter.MinRating, ok = parseFloatParam(w, q.Get("minimum_rating"), "minimum_rating"); !ok {
		return
	}

	if v := q.Get("owner_id"); v != "" {
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil || id <= 0 {
			writeInvalidParameter(w, "owner_id must be a positive integer")
			return
		}
		filter.OwnerID = id
	}

	limit := 0
	if v := q.Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			writeInvalidParameter(w, "limit must be a positive integer")
			return
		}
		limit = n
	}

	properties, err := h.service.Search(r.Context(), filter, limit)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: properties})
}

// Create handles POST /api/v1/properties
func (h *PropertyHandler) Create(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)

	var req CreatePropertyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteJSON(w, http.StatusBadRequest, httputil.Response{
			Error: &httputil.ErrorResponse{Code: "INVALID_INPUT", Message: "invalid request body: " + err.Error()},
		})
		return
	}

	if err := validator.Validate(req); err != nil {
		httputil.WriteValidationError(w, err)
		return
	}

	property := &domain.Property{
		OwnerID:           req.OwnerID,
		Title:             req.Title,
		Description:       req.Description,
		ThumbnailPhotoURL: req.ThumbnailPhotoURL,
		CoverPhotoURL:     req.CoverPhotoURL,
		CostPerNight:      int64(math.Round(req.CostPerNight * 100)),
		ParkingSpaces:     req.ParkingSpaces,
		NumberOfBathrooms: req.NumberOfBathrooms,
		NumberOfBedrooms:  req.NumberOfBedrooms,
		Street:            req.Street,
		City:              req.City,
		Province:          req.Province,
		PostCode:          req.PostCode,
		Country:           req.Country,
	}

	created, err := h.service.Create(r.Context(), property)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusCreated, httputil.Response{Data: created})
}

// GetProperty handles GET /api/v1/properties/{id}
func (h *PropertyHandler) GetProperty(w http.ResponseWriter, r *http.Request) {
	id, ok := httputil.ParseID(w, chi.URLParam(r, "id"))
	if !ok {
		return
	}

	property, err := h.service.GetProperty(r.Context(), id)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: property})
}

// parseFloatParam parses an optional non-negative float query parameter.
// Missing parameters yield zero, which downstream treats as "filter absent".
func parseFloatParam(w http.ResponseWriter, raw, name string) (float64, bool) {
	if raw == "" {
		return 0, true
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || v < 0 {
		writeInvalidParameter(w, name+" must be a non-negative number")
		return 0, false
	}
	return v, true
}

func writeInvalidParameter(w http.ResponseWriter, message string) {
	httputil.WriteJSON(w, http.StatusBadRequest, httputil.Response{
		Error: &httputil.ErrorResponse{Code: "INVALID_PARAMETER", Message: message},
	})
}
