package database

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/swifttransit/busline-backend/internal/models"
)

// SeatReservationRepository handles database operations for the
// seat_reservations table
type SeatReservationRepository struct {
	db *sqlx.DB
}

// NewSeatReservationRepository creates a new SeatReservationRepository
func NewSeatReservationRepository(db *sqlx.DB) *SeatReservationRepository {
	return &SeatReservationRepository{db: db}
}

// GetByTripID returns all reservation rows for a trip, ordered by seat number
func (r *SeatReservationRepository) GetByTripID(tripID string) ([]models.SeatReservation, error) {
	query := `
		SELECT id, trip_id, seat_number, status, created_at, updated_at
		FROM seat_reservations
		WHERE trip_id = $1
		ORDER BY seat_number
	`

	seats := []models.SeatReservation{}
	if err := r.db.Select(&seats, query, tripID); err != nil {
		return nil, fmt.Errorf("failed to load seat reservations: %w", err)
	}
	return seats, nil
}

// CountClaimed returns the number of held or confirmed rows for a trip
func (r *SeatReservationRepository) CountClaimed(tripID string) (int, error) {
	var count int
	query := `SELECT COUNT(*) FROM seat_reservations WHERE trip_id = $1 AND status IN ('held', 'confirmed')`
	if err := r.db.Get(&count, query, tripID); err != nil {
		return 0, fmt.Errorf("failed to count claimed seats: %w", err)
	}
	return count, nil
}

// GetForUpdateTx locks and returns all reservation rows for a trip inside an
// existing transaction. Holding the locks keeps a concurrent claim from
// flipping a row to held while a seat-count edit is reconciling it.
func (r *SeatReservationRepository) GetForUpdateTx(tx *sqlx.Tx, tripID string) ([]models.SeatReservation, error) {
	query := `
		SELECT id, trip_id, seat_number, status, created_at, updated_at
		FROM seat_reservations
		WHERE trip_id = $1
		ORDER BY seat_number
		FOR UPDATE
	`

	seats := []models.SeatReservation{}
	if err := tx.Select(&seats, query, tripID); err != nil {
		return nil, fmt.Errorf("failed to lock seat reservations: %w", err)
	}
	return seats, nil
}

// CountClaimedTx is CountClaimed inside an existing transaction
func (r *SeatReservationRepository) CountClaimedTx(tx *sqlx.Tx, tripID string) (int, error) {
	var count int
	query := `SELECT COUNT(*) FROM seat_reservations WHERE trip_id = $1 AND status IN ('held', 'confirmed')`
	if err := tx.Get(&count, query, tripID); err != nil {
		return 0, fmt.Errorf("failed to count claimed seats: %w", err)
	}
	return count, nil
}

// BulkInsertTx inserts one available row per seat number inside an existing
// transaction. Conflicts on (trip_id, seat_number) are ignored so a row that
// is concurrently transitioning to held or confirmed is never overwritten.
func (r *SeatReservationRepository) BulkInsertTx(tx *sqlx.Tx, tripID string, seatNumbers []int) error {
	query := `
		INSERT INTO seat_reservations (id, trip_id, seat_number, status)
		VALUES ($1, $2, $3, 'available')
		ON CONFLICT (trip_id, seat_number) DO NOTHING
	`

	for _, n := range seatNumbers {
		if _, err := tx.Exec(query, uuid.New().String(), tripID, n); err != nil {
			return fmt.Errorf("failed to insert seat reservation %d: %w", n, err)
		}
	}

	return nil
}

// DeleteAvailableTx removes the still-available rows for a trip inside an
// existing transaction. The status predicate is the safety net against
// deleting a seat a concurrent claim already took.
func (r *SeatReservationRepository) DeleteAvailableTx(tx *sqlx.Tx, tripID string) (int, error) {
	result, err := tx.Exec(`DELETE FROM seat_reservations WHERE trip_id = $1 AND status = 'available'`, tripID)
	if err != nil {
		return 0, fmt.Errorf("failed to delete available seat reservations: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get rows affected: %w", err)
	}

	return int(rows), nil
}
