package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/FortunateSmith/LightBnB/internal/domain"
	"github.com/FortunateSmith/LightBnB/internal/repository"
	apperrors "github.com/FortunateSmith/LightBnB/pkg/errors"
)

// defaultSearchLimit caps result sets when the caller does not ask for a
// specific page size.
const defaultSearchLimit = 10

// maxSearchLimit bounds how many rows a single search may return.
const maxSearchLimit = 100

// PropertyService implements the business logic for property listings.
type PropertyService struct {
	propertyRepo repository.PropertyRepository
	logger       *slog.Logger
}

// NewPropertyService creates a new property service.
func NewPropertyService(propertyRepo repository.PropertyRepository, logger *slog.Logger) *PropertyService {
	return &PropertyService{
		propertyRepo: propertyRepo,
		logger:       logger,
	}
}

// Search returns properties matching the filter, cheapest first.
func (s *PropertyService) Search(ctx context.Context, filter repository.PropertyFilter, limit int) ([]domain.Property, error) {
	if limit <= 0 {
		limit = defaultSearchLimit
	}
	if limit > maxSearchLimit {
		limit = maxSearchLimit
	}
	if filter.MinPricePerNight < 0 || filter.MaxPricePerNight < 0 {
		return nil, apperrors.InvalidInput("price filters must be non-negative")
	}
	if filter.MinPricePerNight > 0 && filter.MaxPricePerNight > 0 &&
		filter.MinPricePerNight > filter.MaxPricePerNight {
		return nil, apperrors.InvalidInput("minimum price cannot exceed maximum price")
	}

	properties, err := s.propertyRepo.Search(ctx, filter, limit)
	if err != nil {
		return nil, fmt.Errorf("search properties: %w", err)
	}

	s.logger.DebugContext(ctx, "property search completed",
		slog.Int("result_count", len(properties)),
		slog.Int("limit", limit),
	)

	return properties, nil
}

// Create validates and stores a new property listing for an owner.
func (s *PropertyService) Create(ctx context.Context, property *domain.Property) (*domain.Property, error) {
	if property.OwnerID <= 0 {
		return nil, apperrors.InvalidInput("owner_id is required")
	}
	if strings.TrimSpace(property.Title) == "" {
		return nil, apperrors.InvalidInput("title is required")
	}
	if property.CostPerNight <= 0 {
		return nil, apperrors.InvalidInput("cost_per_night must be positive")
	}
	for field, value := range map[string]string{
		"street":    property.Street,
		"city":      property.City,
		"province":  property.Province,
		"post_code": property.PostCode,
		"country":   property.Country,
	} {
		if strings.TrimSpace(value) == "" {
			return nil, apperrors.InvalidInput(fmt.Sprintf("%s is required", field))
		}
	}

	if err := s.propertyRepo.Create(ctx, property); err != nil {
		return nil, fmt.Errorf("create property: %w", err)
	}

	s.logger.InfoContext(ctx, "property created",
		slog.Int64("property_id", property.ID),
		slog.Int64("owner_id", property.OwnerID),
		slog.String("city", property.City),
	)

	return property, nil
}

// GetProperty retrieves a property by its unique identifier.
func (s *PropertyService) GetProperty(ctx context.Context, id int64) (*domain.Property, error) {
	if id <= 0 {
		return nil, apperrors.InvalidInput("property id must be positive")
	}

	property, err := s.propertyRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get property: %w", err)
	}
	return property, nil
}
