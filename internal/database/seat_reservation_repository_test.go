package database

import (
	"fmt"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/swifttransit/busline-backend/internal/models"
)

func TestSeatReservationCountClaimed(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewSeatReservationRepository(db)

	tripID := uuid.New().String()

	t.Run("Counts Held And Confirmed Only", func(t *testing.T) {
		mock.ExpectQuery(`SELECT COUNT(.+) FROM seat_reservations`).
			WithArgs(tripID).
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(4))

		count, err := repo.CountClaimed(tripID)
		require.NoError(t, err)
		assert.Equal(t, 4, count)

		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Database Error", func(t *testing.T) {
		mock.ExpectQuery(`SELECT COUNT(.+) FROM seat_reservations`).
			WithArgs(tripID).
			WillReturnError(fmt.Errorf("connection reset"))

		count, err := repo.CountClaimed(tripID)
		assert.Error(t, err)
		assert.Zero(t, count)
		assert.Contains(t, err.Error(), "failed to count claimed seats")

		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestSeatReservationGetByTripID(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewSeatReservationRepository(db)

	tripID := uuid.New().String()
	now := time.Now()

	mock.ExpectQuery(`SELECT (.+) FROM seat_reservations`).
		WithArgs(tripID).
		WillReturnRows(sqlmock.NewRows([]string{"id", "trip_id", "seat_number", "status", "created_at", "updated_at"}).
			AddRow(uuid.New().String(), tripID, 1, "available", now, now).
			AddRow(uuid.New().String(), tripID, 2, "held", now, now).
			AddRow(uuid.New().String(), tripID, 3, "confirmed", now, now))

	seats, err := repo.GetByTripID(tripID)
	require.NoError(t, err)
	require.Len(t, seats, 3)
	assert.False(t, seats[0].IsClaimed())
	assert.True(t, seats[1].IsClaimed())
	assert.True(t, seats[2].IsClaimed())
	assert.Equal(t, models.SeatStatusConfirmed, seats[2].Status)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSeatReservationBulkInsertTx(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewSeatReservationRepository(db)

	tripID := uuid.New().String()

	t.Run("One Insert Per Seat", func(t *testing.T) {
		seatNumbers := []int{1, 2, 3, 7}

		mock.ExpectBegin()
		for _, n := range seatNumbers {
			mock.ExpectExec(`INSERT INTO seat_reservations`).
				WithArgs(sqlmock.AnyArg(), tripID, n).
				WillReturnResult(sqlmock.NewResult(1, 1))
		}

		tx, err := db.Beginx()
		require.NoError(t, err)

		err = repo.BulkInsertTx(tx, tripID, seatNumbers)
		assert.NoError(t, err)

		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Stops On First Failure", func(t *testing.T) {
		mock.ExpectBegin()
		mock.ExpectExec(`INSERT INTO seat_reservations`).
			WithArgs(sqlmock.AnyArg(), tripID, 1).
			WillReturnResult(sqlmock.NewResult(1, 1))
		mock.ExpectExec(`INSERT INTO seat_reservations`).
			WithArgs(sqlmock.AnyArg(), tripID, 2).
			WillReturnError(fmt.Errorf("connection reset"))

		tx, err := db.Beginx()
		require.NoError(t, err)

		err = repo.BulkInsertTx(tx, tripID, []int{1, 2, 3})
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "failed to insert seat reservation 2")

		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestSeatReservationDeleteAvailableTx(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewSeatReservationRepository(db)

	tripID := uuid.New().String()

	t.Run("Returns Deleted Count", func(t *testing.T) {
		mock.ExpectBegin()
		mock.ExpectExec(`DELETE FROM seat_reservations WHERE trip_id (.+) status = 'available'`).
			WithArgs(tripID).
			WillReturnResult(sqlmock.NewResult(0, 7))

		tx, err := db.Beginx()
		require.NoError(t, err)

		deleted, err := repo.DeleteAvailableTx(tx, tripID)
		require.NoError(t, err)
		assert.Equal(t, 7, deleted)

		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Database Error", func(t *testing.T) {
		mock.ExpectBegin()
		mock.ExpectExec(`DELETE FROM seat_reservations`).
			WithArgs(tripID).
			WillReturnError(fmt.Errorf("connection reset"))

		tx, err := db.Beginx()
		require.NoError(t, err)

		deleted, err := repo.DeleteAvailableTx(tx, tripID)
		assert.Error(t, err)
		assert.Zero(t, deleted)

		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
