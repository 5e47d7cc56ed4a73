// Package repository defines the persistence interfaces consumed by the
// service layer. The PostgreSQL implementations live in the postgres
// subpackage.
package repository

import (
	"context"

	"github.com/FortunateSmith/LightBnB/internal/domain"
)

// PropertyFilter holds the optional criteria for a property search. Zero
// values mean the corresponding filter is absent. Prices are in decimal
// currency units (dollars); conversion to cents happens at bind time.
type PropertyFilter struct {
	City             string
	MinPricePerNight float64
	MaxPricePerNight float64
	MinRating        float64
	OwnerID          int64
}

// UserRepository defines the interface for user persistence operations.
type UserRepository interface {
	// Create inserts a new user into the store, lowercasing the email and
	// filling in the store-assigned ID.
	Create(ctx context.Context, user *domain.User) error

	// GetByID retrieves a user by their unique identifier.
	GetByID(ctx context.Context, id int64) (*domain.User, error)

	// GetByEmail retrieves a user by their email address. The comparison is
	// exact; stored emails are lowercase.
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
}

// PropertyRepository defines the interface for property persistence operations.
type PropertyRepository interface {
	// Create inserts a new property into the store, filling in the
	// store-assigned ID.
	Create(ctx context.Context, property *domain.Property) error

	// GetByID retrieves a property by its unique identifier, including its
	// average review rating.
	GetByID(ctx context.Context, id int64) (*domain.Property, error)

	// Search returns up to limit properties matching the given filter,
	// ordered ascending by cost per night.
	Search(ctx context.Context, filter PropertyFilter, limit int) ([]domain.Property, error)
}

// ReservationRepository defines the interface for reservation persistence
// operations. Reservations are read-only from this layer's perspective.
type ReservationRepository interface {
	// ListByGuest returns up to limit completed stays for the given guest,
	// most recent first, each enriched with its property and that property's
	// average review rating.
	ListByGuest(ctx context.Context, guestID int64, limit int) ([]domain.Reservation, error)
}
