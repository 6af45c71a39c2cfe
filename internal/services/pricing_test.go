package services

import (
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/swifttransit/busline-backend/internal/database"
)

func TestBasePricePricer(t *testing.T) {
	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { mockDB.Close() })

	db := sqlx.NewDb(mockDB, "postgres")
	pricer := BasePricePricer(database.NewTripRepository(db), "XAF")

	agencyID := uuid.New().String()
	tripID := uuid.New().String()

	t.Run("Quotes Stored Base Price", func(t *testing.T) {
		now := time.Now()

		mock.ExpectQuery(`SELECT (.+) FROM scheduled_trips`).
			WithArgs(tripID, agencyID).
			WillReturnRows(sqlmock.NewRows([]string{
				"id", "agency_id", "route_id", "bus_id", "driver_id",
				"departure_time", "arrival_time", "base_price",
				"total_seats", "available_seats_count", "available_seat_numbers",
				"status", "created_at", "updated_at",
			}).AddRow(
				tripID, agencyID, uuid.New().String(), uuid.New().String(), nil,
				now, now.Add(4*time.Hour), 6500.0,
				40, 5, []byte(`{1,2,3,4,5}`),
				"active", now, now,
			))

		quote, err := pricer(tripID, agencyID, "")
		require.NoError(t, err)
		assert.Equal(t, tripID, quote.TripID)
		assert.Equal(t, 6500.0, quote.Amount)
		assert.Equal(t, "XAF", quote.Currency)

		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Unknown Trip Is Not Found", func(t *testing.T) {
		mock.ExpectQuery(`SELECT (.+) FROM scheduled_trips`).
			WillReturnRows(sqlmock.NewRows([]string{"id"}))

		quote, err := pricer(tripID, agencyID, "")
		assert.Nil(t, quote)

		var notFoundErr *NotFoundError
		assert.ErrorAs(t, err, &notFoundErr)

		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
