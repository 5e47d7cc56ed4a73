package domain

import "time"

// Reservation represents a guest's stay at a property. Listings returned to
// guests carry the full property record and its average review rating.
type Reservation struct {
	ID         int64     `json:"id"`
	GuestID    int64     `json:"guest_id"`
	PropertyID int64     `json:"property_id"`
	StartDate  time.Time `json:"start_date"`
	EndDate    time.Time `json:"end_date"`
	Property   Property  `json:"property"`
}
