package database

import (
	"database/sql"
	"fmt"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/swifttransit/busline-backend/internal/models"
)

func newMockDB(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock) {
	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { mockDB.Close() })
	return sqlx.NewDb(mockDB, "postgres"), mock
}

func TestTripRepositoryCreateTx(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewTripRepository(db)

	agencyID := uuid.New().String()
	trip := &models.ScheduledTrip{
		AgencyID:             agencyID,
		RouteID:              uuid.New().String(),
		BusID:                uuid.New().String(),
		DepartureTime:        time.Date(2026, 3, 14, 8, 0, 0, 0, time.UTC),
		ArrivalTime:          time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC),
		BasePrice:            6500,
		TotalSeats:           40,
		AvailableSeatsCount:  5,
		AvailableSeatNumbers: models.IntArray{1, 2, 3, 4, 12},
		Status:               models.TripStatusActive,
	}

	t.Run("Success Assigns ID And Timestamps", func(t *testing.T) {
		now := time.Now()

		mock.ExpectBegin()
		mock.ExpectQuery(`INSERT INTO scheduled_trips`).
			WillReturnRows(sqlmock.NewRows([]string{"created_at", "updated_at"}).AddRow(now, now))

		tx, err := db.Beginx()
		require.NoError(t, err)

		err = repo.CreateTx(tx, trip)
		require.NoError(t, err)
		assert.NotEmpty(t, trip.ID)
		assert.Equal(t, now, trip.CreatedAt)

		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Database Error", func(t *testing.T) {
		mock.ExpectBegin()
		mock.ExpectQuery(`INSERT INTO scheduled_trips`).
			WillReturnError(fmt.Errorf("connection reset"))

		tx, err := db.Beginx()
		require.NoError(t, err)

		err = repo.CreateTx(tx, trip)
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "failed to create scheduled trip")

		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGetActiveCommitmentsForBus(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewTripRepository(db)

	busID := uuid.New().String()
	columns := []string{"trip_id", "route_name", "departure_city", "arrival_city", "departure_time", "arrival_time"}

	t.Run("No Exclusion", func(t *testing.T) {
		tripID := uuid.New().String()
		departure := time.Date(2026, 3, 14, 8, 0, 0, 0, time.UTC)
		arrival := departure.Add(4 * time.Hour)

		mock.ExpectQuery(`SELECT (.+) FROM scheduled_trips st`).
			WithArgs(busID, "").
			WillReturnRows(sqlmock.NewRows(columns).
				AddRow(tripID, "Douala Express", "Douala", "Yaounde", departure, arrival))

		commitments, err := repo.GetActiveCommitmentsForBus(busID, "")
		require.NoError(t, err)
		require.Len(t, commitments, 1)
		assert.Equal(t, tripID, commitments[0].TripID)
		assert.Equal(t, "Yaounde", commitments[0].ArrivalCity)
		assert.True(t, arrival.Equal(commitments[0].ArrivalTime))

		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Excludes Trip Being Edited", func(t *testing.T) {
		excludeID := uuid.New().String()

		mock.ExpectQuery(`SELECT (.+) FROM scheduled_trips st`).
			WithArgs(busID, excludeID).
			WillReturnRows(sqlmock.NewRows(columns))

		commitments, err := repo.GetActiveCommitmentsForBus(busID, excludeID)
		require.NoError(t, err)
		assert.Empty(t, commitments)

		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestTripRepositoryUpdateStatusTx(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewTripRepository(db)

	tripID := uuid.New().String()

	t.Run("Success", func(t *testing.T) {
		mock.ExpectBegin()
		mock.ExpectExec(`UPDATE scheduled_trips SET status`).
			WithArgs(tripID, models.TripStatusInactive).
			WillReturnResult(sqlmock.NewResult(0, 1))

		tx, err := db.Beginx()
		require.NoError(t, err)

		err = repo.UpdateStatusTx(tx, tripID, models.TripStatusInactive)
		assert.NoError(t, err)

		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("No Rows Affected", func(t *testing.T) {
		mock.ExpectBegin()
		mock.ExpectExec(`UPDATE scheduled_trips SET status`).
			WithArgs(tripID, models.TripStatusInactive).
			WillReturnResult(sqlmock.NewResult(0, 0))

		tx, err := db.Beginx()
		require.NoError(t, err)

		err = repo.UpdateStatusTx(tx, tripID, models.TripStatusInactive)
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "not found")

		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestTripRepositoryGetByID(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewTripRepository(db)

	tripID := uuid.New().String()
	agencyID := uuid.New().String()

	t.Run("Parses Seat Number Array", func(t *testing.T) {
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
				40, 5, []byte(`{1,2,3,4,12}`),
				"active", now, now,
			))

		trip, err := repo.GetByID(tripID, agencyID)
		require.NoError(t, err)
		assert.Equal(t, models.IntArray{1, 2, 3, 4, 12}, trip.AvailableSeatNumbers)
		assert.True(t, trip.AvailableSeatNumbers.Contains(12))
		assert.False(t, trip.AvailableSeatNumbers.Contains(6))

		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Not Found Surfaces ErrNoRows", func(t *testing.T) {
		mock.ExpectQuery(`SELECT (.+) FROM scheduled_trips`).
			WithArgs(tripID, agencyID).
			WillReturnError(sql.ErrNoRows)

		trip, err := repo.GetByID(tripID, agencyID)
		assert.Nil(t, trip)
		assert.ErrorIs(t, err, sql.ErrNoRows)

		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
