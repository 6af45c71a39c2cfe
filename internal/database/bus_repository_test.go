package database

import (
	"database/sql"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestBusRepositoryUpdateCapacity(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewBusRepository(db)

	busID := uuid.New().String()
	agencyID := uuid.New().String()

	t.Run("Success", func(t *testing.T) {
		mock.ExpectBegin()
		mock.ExpectQuery(`SELECT id FROM buses WHERE id (.+) FOR UPDATE`).
			WithArgs(busID, agencyID).
			WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(busID))
		mock.ExpectQuery(`SELECT COUNT(.+) FROM scheduled_trips WHERE bus_id`).
			WithArgs(busID).
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
		mock.ExpectExec(`UPDATE buses SET total_seats`).
			WithArgs(busID, agencyID, 52).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()

		err := repo.UpdateCapacity(busID, agencyID, 52)
		assert.NoError(t, err)

		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Refused While Trips Reference The Bus", func(t *testing.T) {
		mock.ExpectBegin()
		mock.ExpectQuery(`SELECT id FROM buses WHERE id (.+) FOR UPDATE`).
			WithArgs(busID, agencyID).
			WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(busID))
		mock.ExpectQuery(`SELECT COUNT(.+) FROM scheduled_trips WHERE bus_id`).
			WithArgs(busID).
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(2))
		mock.ExpectRollback()

		err := repo.UpdateCapacity(busID, agencyID, 52)
		assert.ErrorIs(t, err, ErrBusInUse)

		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Unknown Bus Surfaces ErrNoRows", func(t *testing.T) {
		mock.ExpectBegin()
		mock.ExpectQuery(`SELECT id FROM buses WHERE id (.+) FOR UPDATE`).
			WithArgs(busID, agencyID).
			WillReturnRows(sqlmock.NewRows([]string{"id"}))
		mock.ExpectRollback()

		err := repo.UpdateCapacity(busID, agencyID, 52)
		assert.ErrorIs(t, err, sql.ErrNoRows)

		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
