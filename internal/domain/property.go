package domain

// Property represents a rental listing.
//
// CostPerNight is stored in minor currency units (cents) to avoid
// floating-point currency error.
type Property struct {
	ID                int64  `json:"id"`
	OwnerID           int64  `json:"owner_id"`
	Title             string `json:"title"`
	Description       string `json:"description"`
	ThumbnailPhotoURL string `json:"thumbnail_photo_url"`
	CoverPhotoURL     string `json:"cover_photo_url"`
	CostPerNight      int64  `json:"cost_per_night"`
	ParkingSpaces     int    `json:"parking_spaces"`
	NumberOfBathrooms int    `json:"number_of_bathrooms"`
	NumberOfBedrooms  int    `json:"number_of_bedrooms"`
	Street            string `json:"street"`
	City              string `json:"city"`
	Province          string `json:"province"`
	PostCode          string `json:"post_code"`
	Country           string `json:"country"`

	// AverageRating is the mean review rating aggregated at read time.
	// It is never persisted on the properties table.
	AverageRating float64 `json:"average_rating"`
}
