package postgres

import (
	"context"
	"errors"
	"testing"

	"github.com/jackc/pgx/v5"
	pgxmock "github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/FortunateSmith/LightBnB/internal/domain"
	"github.com/FortunateSmith/LightBnB/internal/repository"
	apperrors "github.com/FortunateSmith/LightBnB/pkg/errors"
)

func newPropertyTestFixture(t *testing.T) (*PropertyRepository, pgxmock.PgxPoolIface) {
	t.Helper()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	repo := NewPropertyRepository(mock)
	return repo, mock
}

func sampleProperty(id int64) domain.Property {
	return domain.Property{
		ID:                id,
		OwnerID:           3,
		Title:             "Cozy loft downtown",
		Description:       "Bright loft close to everything",
		ThumbnailPhotoURL: "https://photos.example.com/1/thumb.jpg",
		CoverPhotoURL:     "https://photos.example.com/1/cover.jpg",
		CostPerNight:      9350,
		ParkingSpaces:     1,
		NumberOfBathrooms: 1,
		NumberOfBedrooms:  2,
		Street:            "651 Nami Road",
		City:              "Vancouver",
		Province:          "British Columbia",
		PostCode:          "V6B 1A1",
		Country:           "Canada",
		AverageRating:     4.2,
	}
}

// propertyTestColumns matches propertyColumns plus the aggregate.
func propertyTestColumns() []string {
	return []string{
		"id", "owner_id", "title", "description", "thumbnail_photo_url",
		"cover_photo_url", "cost_per_night", "parking_spaces",
		"number_of_bathrooms", "number_of_bedrooms", "street", "city",
		"province", "post_code", "country", "average_rating",
	}
}

func addPropertyRow(rows *pgxmock.Rows, p domain.Property) *pgxmock.Rows {
	return rows.AddRow(
		p.ID, p.OwnerID, p.Title, p.Description, p.ThumbnailPhotoURL,
		p.CoverPhotoURL, p.CostPerNight, p.ParkingSpaces,
		p.NumberOfBathrooms, p.NumberOfBedrooms, p.Street, p.City,
		p.Province, p.PostCode, p.Country, p.AverageRating,
	)
}

func propertyRows(props ...domain.Property) *pgxmock.Rows {
	rows := pgxmock.NewRows(propertyTestColumns())
	for _, p := range props {
		addPropertyRow(rows, p)
	}
	return rows
}

// ---------------------------------------------------------------------------
// Search: predicate construction
// ---------------------------------------------------------------------------

func TestPropertyRepository_Search_NoFilters(t *testing.T) {
	repo, mock := newPropertyTestFixture(t)
	defer mock.Close()

	// With no options set the only bound parameter is the limit, at index 1:
	// no predicate was appended.
	mock.ExpectQuery(`(?s)SELECT .+ FROM properties\s+LEFT JOIN property_reviews ON property_reviews\.property_id = properties\.id\s+GROUP BY properties\.id\s+ORDER BY properties\.cost_per_night\s+LIMIT \$1`).
		WithArgs(10).
		WillReturnRows(propertyRows(sampleProperty(1), sampleProperty(2)))

	got, err := repo.Search(context.Background(), repository.PropertyFilter{}, 10)
	require.NoError(t, err)
	assert.Len(t, got, 2)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPropertyRepository_Search_CityOnly_UsesWhere(t *testing.T) {
	repo, mock := newPropertyTestFixture(t)
	defer mock.Close()

	// A single predicate is introduced with WHERE, and the city value is
	// bound with substring wildcards rather than interpolated.
	mock.ExpectQuery(`WHERE properties\.city LIKE \$1\s+GROUP BY properties\.id`).
		WithArgs("%Vancouver%", 10).
		WillReturnRows(propertyRows(sampleProperty(1)))

	got, err := repo.Search(context.Background(), repository.PropertyFilter{City: "Vancouver"}, 10)
	require.NoError(t, err)
	assert.Len(t, got, 1)
	assert.Equal(t, "Vancouver", got[0].City)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPropertyRepository_Search_PriceRange_ConvertsToCents(t *testing.T) {
	repo, mock := newPropertyTestFixture(t)
	defer mock.Close()

	mock.ExpectQuery(`WHERE properties\.cost_per_night >= \$1 AND properties\.cost_per_night <= \$2`).
		WithArgs(int64(5000), int64(15000), 10).
		WillReturnRows(propertyRows(sampleProperty(1)))

	filter := repository.PropertyFilter{MinPricePerNight: 50, MaxPricePerNight: 150}
	_, err := repo.Search(context.Background(), filter, 10)
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPropertyRepository_Search_FractionalPriceRounds(t *testing.T) {
	repo, mock := newPropertyTestFixture(t)
	defer mock.Close()

	mock.ExpectQuery(`WHERE properties\.cost_per_night >= \$1`).
		WithArgs(int64(1999), 10).
		WillReturnRows(propertyRows())

	_, err := repo.Search(context.Background(), repository.PropertyFilter{MinPricePerNight: 19.99}, 10)
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPropertyRepository_Search_MinRating_GlobalAverageSubquery(t *testing.T) {
	repo, mock := newPropertyTestFixture(t)
	defer mock.Close()

	mock.ExpectQuery(`WHERE \(SELECT avg\(rating\) FROM property_reviews\) >= \$1`).
		WithArgs(4.0, 10).
		WillReturnRows(propertyRows(sampleProperty(1)))

	_, err := repo.Search(context.Background(), repository.PropertyFilter{MinRating: 4}, 10)
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPropertyRepository_Search_AllFilters_FixedOrder(t *testing.T) {
	repo, mock := newPropertyTestFixture(t)
	defer mock.Close()

	// Predicates appear in evaluation order with WHERE once and AND joins,
	// placeholder indices assigned as each argument is appended, limit last.
	mock.ExpectQuery(`WHERE properties\.city LIKE \$1 AND properties\.cost_per_night >= \$2 AND properties\.cost_per_night <= \$3 AND \(SELECT avg\(rating\) FROM property_reviews\) >= \$4 AND properties\.owner_id = \$5\s+GROUP BY properties\.id\s+ORDER BY properties\.cost_per_night\s+LIMIT \$6`).
		WithArgs("%Vancouver%", int64(5000), int64(15000), 4.0, int64(3), 5).
		WillReturnRows(propertyRows(sampleProperty(1)))

	filter := repository.PropertyFilter{
		City:             "Vancouver",
		MinPricePerNight: 50,
		MaxPricePerNight: 150,
		MinRating:        4,
		OwnerID:          3,
	}
	got, err := repo.Search(context.Background(), filter, 5)
	require.NoError(t, err)
	assert.Len(t, got, 1)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPropertyRepository_Search_OwnerOnly_UsesWhere(t *testing.T) {
	repo, mock := newPropertyTestFixture(t)
	defer mock.Close()

	// The WHERE/AND decision depends on how many predicates precede it, not
	// on which options exist: owner alone still gets WHERE at index 1.
	mock.ExpectQuery(`WHERE properties\.owner_id = \$1\s+GROUP BY properties\.id`).
		WithArgs(int64(3), 10).
		WillReturnRows(propertyRows(sampleProperty(1))).
		RowsWillBeClosed()

	_, err := repo.Search(context.Background(), repository.PropertyFilter{OwnerID: 3}, 10)
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPropertyRepository_Search_InjectionAttemptStaysParameterized(t *testing.T) {
	repo, mock := newPropertyTestFixture(t)
	defer mock.Close()

	hostile := `'; DROP TABLE properties; --`

	// The hostile value travels as a bind parameter; the statement text the
	// pool receives still carries the lone $1 placeholder.
	mock.ExpectQuery(`WHERE properties\.city LIKE \$1\s+GROUP BY properties\.id`).
		WithArgs("%"+hostile+"%", 10).
		WillReturnRows(propertyRows())

	got, err := repo.Search(context.Background(), repository.PropertyFilter{City: hostile}, 10)
	require.NoError(t, err)
	assert.Empty(t, got)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPropertyRepository_Search_EmptyResultIsNotError(t *testing.T) {
	repo, mock := newPropertyTestFixture(t)
	defer mock.Close()

	mock.ExpectQuery(`(?s)SELECT .+ FROM properties`).
		WithArgs(10).
		WillReturnRows(propertyRows())

	got, err := repo.Search(context.Background(), repository.PropertyFilter{}, 10)
	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Empty(t, got)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPropertyRepository_Search_QueryFailure(t *testing.T) {
	repo, mock := newPropertyTestFixture(t)
	defer mock.Close()

	mock.ExpectQuery(`(?s)SELECT .+ FROM properties`).
		WithArgs(10).
		WillReturnError(errors.New("connection refused"))

	got, err := repo.Search(context.Background(), repository.PropertyFilter{}, 10)
	assert.Nil(t, got)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "search properties")
	assert.NoError(t, mock.ExpectationsWereMet())
}

// ---------------------------------------------------------------------------
// Create
// ---------------------------------------------------------------------------

func TestPropertyRepository_Create_Success(t *testing.T) {
	repo, mock := newPropertyTestFixture(t)
	defer mock.Close()

	p := sampleProperty(0)
	p.AverageRating = 0

	mock.ExpectQuery("INSERT INTO properties").
		WithArgs(
			p.OwnerID, p.Title, p.Description, p.ThumbnailPhotoURL,
			p.CoverPhotoURL, p.CostPerNight, p.ParkingSpaces,
			p.NumberOfBathrooms, p.NumberOfBedrooms, p.Street, p.City,
			p.Province, p.PostCode, p.Country,
		).
		WillReturnRows(pgxmock.NewRows([]string{"id"}).AddRow(int64(11)))

	err := repo.Create(context.Background(), &p)
	require.NoError(t, err)
	assert.Equal(t, int64(11), p.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPropertyRepository_Create_ConstraintViolation(t *testing.T) {
	repo, mock := newPropertyTestFixture(t)
	defer mock.Close()

	p := sampleProperty(0)

	mock.ExpectQuery("INSERT INTO properties").
		WithArgs(
			p.OwnerID, p.Title, p.Description, p.ThumbnailPhotoURL,
			p.CoverPhotoURL, p.CostPerNight, p.ParkingSpaces,
			p.NumberOfBathrooms, p.NumberOfBedrooms, p.Street, p.City,
			p.Province, p.PostCode, p.Country,
		).
		WillReturnError(errors.New(`ERROR: null value in column "owner_id" violates not-null constraint`))

	err := repo.Create(context.Background(), &p)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "insert property")
	assert.NoError(t, mock.ExpectationsWereMet())
}

// ---------------------------------------------------------------------------
// GetByID
// ---------------------------------------------------------------------------

func TestPropertyRepository_GetByID_Success(t *testing.T) {
	repo, mock := newPropertyTestFixture(t)
	defer mock.Close()

	p := sampleProperty(11)

	mock.ExpectQuery(`(?s)SELECT .+ FROM properties\s+LEFT JOIN property_reviews .+\s+WHERE properties\.id = \$1`).
		WithArgs(p.ID).
		WillReturnRows(propertyRows(p))

	got, err := repo.GetByID(context.Background(), p.ID)
	require.NoError(t, err)
	assert.Equal(t, &p, got)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPropertyRepository_GetByID_NotFound(t *testing.T) {
	repo, mock := newPropertyTestFixture(t)
	defer mock.Close()

	mock.ExpectQuery(`WHERE properties\.id = \$1`).
		WithArgs(int64(404)).
		WillReturnError(pgx.ErrNoRows)

	got, err := repo.GetByID(context.Background(), 404)
	assert.Nil(t, got)
	assert.True(t, errors.Is(err, apperrors.ErrNotFound))
	assert.NoError(t, mock.ExpectationsWereMet())
}

// Round-trip: every field supplied at creation comes back unchanged by the
// read path, plus the assigned identifier and the read-time aggregate.
func TestPropertyRepository_CreateThenGetByID_RoundTrip(t *testing.T) {
	repo, mock := newPropertyTestFixture(t)
	defer mock.Close()

	p := sampleProperty(0)
	p.AverageRating = 0

	mock.ExpectQuery("INSERT INTO properties").
		WithArgs(
			p.OwnerID, p.Title, p.Description, p.ThumbnailPhotoURL,
			p.CoverPhotoURL, p.CostPerNight, p.ParkingSpaces,
			p.NumberOfBathrooms, p.NumberOfBedrooms, p.Street, p.City,
			p.Province, p.PostCode, p.Country,
		).
		WillReturnRows(pgxmock.NewRows([]string{"id"}).AddRow(int64(11)))

	require.NoError(t, repo.Create(context.Background(), &p))

	stored := p
	mock.ExpectQuery(`WHERE properties\.id = \$1`).
		WithArgs(int64(11)).
		WillReturnRows(propertyRows(stored))

	got, err := repo.GetByID(context.Background(), 11)
	require.NoError(t, err)
	assert.Equal(t, &stored, got)
	assert.NoError(t, mock.ExpectationsWereMet())
}
