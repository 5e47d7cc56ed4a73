package postgres

import (
	"context"
	"fmt"

	"github.com/FortunateSmith/LightBnB/internal/domain"
)

// ReservationRepository implements repository.ReservationRepository using PostgreSQL.
type ReservationRepository struct {
	db DB
}

// NewReservationRepository creates a new PostgreSQL-backed reservation repository.
func NewReservationRepository(db DB) *ReservationRepository {
	return &ReservationRepository{db: db}
}

// ListByGuest returns up to limit completed stays for the given guest, most
// recent start date first. A stay is completed when its end date is strictly
// before the current date; ongoing and future reservations are excluded.
// Rows are grouped by reservation and property id so the rating aggregate is
// well-defined.
func (r *ReservationRepository) ListByGuest(ctx context.Context, guestID int64, limit int) ([]domain.Reservation, error) {
	query := fmt.Sprintf(`
		SELECT reservations.id, reservations.guest_id, reservations.property_id, reservations.start_date, reservations.end_date, %s, coalesce(avg(property_reviews.rating), 0) AS average_rating
		FROM reservations
		JOIN properties ON properties.id = reservations.property_id
		LEFT JOIN property_reviews ON property_reviews.property_id = properties.id
		WHERE reservations.guest_id = $1 AND reservations.end_date < now()::date
		GROUP BY reservations.id, properties.id
		ORDER BY reservations.start_date DESC
		LIMIT $2`, propertyColumns)

	rows, err := r.db.Query(ctx, query, guestID, limit)
	if err != nil {
		return nil, fmt.Errorf("list reservations: %w", err)
	}
	defer rows.Close()

	var reservations []domain.Reservation
	for rows.Next() {
		var res domain.Reservation
		dest := []any{&res.ID, &res.GuestID, &res.PropertyID, &res.StartDate, &res.EndDate}
		dest = append(dest, scanPropertyColumns(&res.Property)...)
		if err := rows.Scan(dest...); err != nil {
			return nil, fmt.Errorf("scan reservation row: %w", err)
		}
		reservations = append(reservations, res)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate reservation rows: %w", err)
	}

	if reservations == nil {
		reservations = []domain.Reservation{}
	}

	return reservations, nil
}
