package postgres

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/FortunateSmith/LightBnB/internal/domain"
	"github.com/FortunateSmith/LightBnB/internal/repository"
	apperrors "github.com/FortunateSmith/LightBnB/pkg/errors"
)

// propertyColumns is the column list shared by every property-bearing SELECT.
// Order must match scanPropertyColumns.
const propertyColumns = `properties.id, properties.owner_id, properties.title, properties.description, properties.thumbnail_photo_url, properties.cover_photo_url, properties.cost_per_night, properties.parking_spaces, properties.number_of_bathrooms, properties.number_of_bedrooms, properties.street, properties.city, properties.province, properties.post_code, properties.country`

// PropertyRepository implements repository.PropertyRepository using PostgreSQL.
type PropertyRepository struct {
	db DB
}

// NewPropertyRepository creates a new PostgreSQL-backed property repository.
func NewPropertyRepository(db DB) *PropertyRepository {
	return &PropertyRepository{db: db}
}

// Create inserts a new property into the database. On success the
// store-assigned ID is written back to p.
func (r *PropertyRepository) Create(ctx context.Context, p *domain.Property) error {
	query := `
		INSERT INTO properties (owner_id, title, description, thumbnail_photo_url, cover_photo_url, cost_per_night, parking_spaces, number_of_bathrooms, number_of_bedrooms, street, city, province, post_code, country)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
		RETURNING id`

	err := r.db.QueryRow(ctx, query,
		p.OwnerID,
		p.Title,
		p.Description,
		p.ThumbnailPhotoURL,
		p.CoverPhotoURL,
		p.CostPerNight,
		p.ParkingSpaces,
		p.NumberOfBathrooms,
		p.NumberOfBedrooms,
		p.Street,
		p.City,
		p.Province,
		p.PostCode,
		p.Country,
	).Scan(&p.ID)
	if err != nil {
		return fmt.Errorf("insert property: %w", err)
	}

	return nil
}

// GetByID retrieves a property by its ID, including its average review rating.
func (r *PropertyRepository) GetByID(ctx context.Context, id int64) (*domain.Property, error) {
	query := fmt.Sprintf(`
		SELECT %s, coalesce(avg(property_reviews.rating), 0) AS average_rating
		FROM properties
		LEFT JOIN property_reviews ON property_reviews.property_id = properties.id
		WHERE properties.id = $1
		GROUP BY properties.id`, propertyColumns)

	var p domain.Property
	err := r.db.QueryRow(ctx, query, id).Scan(scanPropertyColumns(&p)...)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("scan property: %w", err)
	}

	return &p, nil
}

// Search returns up to limit properties matching the given filter, ordered
// ascending by cost per night. Filters are evaluated in a fixed order (city,
// min price, max price, min rating, owner); each present filter contributes
// one parameterized predicate, and placeholder indices come from the argument
// list's length at append time.
func (r *PropertyRepository) Search(ctx context.Context, filter repository.PropertyFilter, limit int) ([]domain.Property, error) {
	var (
		conditions []string
		args       []any
	)

	if filter.City != "" {
		args = append(args, "%"+filter.City+"%")
		conditions = append(conditions, fmt.Sprintf("properties.city LIKE $%d", len(args)))
	}

	if filter.MinPricePerNight != 0 {
		args = append(args, toCents(filter.MinPricePerNight))
		conditions = append(conditions, fmt.Sprintf("properties.cost_per_night >= $%d", len(args)))
	}

	if filter.MaxPricePerNight != 0 {
		args = append(args, toCents(filter.MaxPricePerNight))
		conditions = append(conditions, fmt.Sprintf("properties.cost_per_night <= $%d", len(args)))
	}

	if filter.MinRating != 0 {
		args = append(args, filter.MinRating)
		// The threshold is checked against the store-wide average rating,
		// not the per-property aggregate in the SELECT list.
		conditions = append(conditions, fmt.Sprintf("(SELECT avg(rating) FROM property_reviews) >= $%d", len(args)))
	}

	if filter.OwnerID != 0 {
		args = append(args, filter.OwnerID)
		conditions = append(conditions, fmt.Sprintf("properties.owner_id = $%d", len(args)))
	}

	whereClause := ""
	if len(conditions) > 0 {
		whereClause = "WHERE " + strings.Join(conditions, " AND ")
	}

	args = append(args, limit)
	query := fmt.Sprintf(`
		SELECT %s, coalesce(avg(property_reviews.rating), 0) AS average_rating
		FROM properties
		LEFT JOIN property_reviews ON property_reviews.property_id = properties.id
		%s
		GROUP BY properties.id
		ORDER BY properties.cost_per_night
		LIMIT $%d`, propertyColumns, whereClause, len(args))

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("search properties: %w", err)
	}
	defer rows.Close()

	var properties []domain.Property
	for rows.Next() {
		var p domain.Property
		if err := rows.Scan(scanPropertyColumns(&p)...); err != nil {
			return nil, fmt.Errorf("scan property row: %w", err)
		}
		properties = append(properties, p)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate property rows: %w", err)
	}

	if properties == nil {
		properties = []domain.Property{}
	}

	return properties, nil
}

// scanPropertyColumns returns scan destinations in propertyColumns order,
// with average_rating last.
func scanPropertyColumns(p *domain.Property) []any {
	return []any{
		&p.ID,
		&p.OwnerID,
		&p.Title,
		&p.Description,
		&p.ThumbnailPhotoURL,
		&p.CoverPhotoURL,
		&p.CostPerNight,
		&p.ParkingSpaces,
		&p.NumberOfBathrooms,
		&p.NumberOfBedrooms,
		&p.Street,
		&p.City,
		&p.Province,
		&p.PostCode,
		&p.Country,
		&p.AverageRating,
	}
}

// toCents converts a decimal currency amount to integer minor units.
func toCents(amount float64) int64 {
	return int64(math.Round(amount * 100))
}
