package database

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/swifttransit/busline-backend/internal/models"
)

// TripRepository handles database operations for the scheduled_trips table
type TripRepository struct {
	db *sqlx.DB
}

// NewTripRepository creates a new TripRepository
func NewTripRepository(db *sqlx.DB) *TripRepository {
	return &TripRepository{db: db}
}

const tripDetailsQuery = `
	SELECT st.id, st.agency_id, st.route_id, st.bus_id, st.driver_id,
	       st.departure_time, st.arrival_time, st.base_price,
	       st.total_seats, st.available_seats_count, st.available_seat_numbers,
	       st.status, st.created_at, st.updated_at,
	       r.name AS route_name, r.departure_city, r.arrival_city,
	       b.bus_number, d.full_name AS driver_name
	FROM scheduled_trips st
	JOIN routes r ON r.id = st.route_id
	JOIN buses b ON b.id = st.bus_id
	LEFT JOIN drivers d ON d.id = st.driver_id
`

// CreateTx inserts a trip row inside an existing transaction
func (r *TripRepository) CreateTx(tx *sqlx.Tx, trip *models.ScheduledTrip) error {
	if trip.ID == "" {
		trip.ID = uuid.New().String()
	}

	query := `
		INSERT INTO scheduled_trips (
			id, agency_id, route_id, bus_id, driver_id,
			departure_time, arrival_time, base_price,
			total_seats, available_seats_count, available_seat_numbers, status
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		RETURNING created_at, updated_at
	`

	err := tx.QueryRow(query,
		trip.ID, trip.AgencyID, trip.RouteID, trip.BusID, trip.DriverID,
		trip.DepartureTime, trip.ArrivalTime, trip.BasePrice,
		trip.TotalSeats, trip.AvailableSeatsCount, trip.AvailableSeatNumbers, trip.Status,
	).Scan(&trip.CreatedAt, &trip.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create scheduled trip: %w", err)
	}

	return nil
}

// GetByID retrieves a trip owned by the given agency
func (r *TripRepository) GetByID(tripID, agencyID string) (*models.ScheduledTrip, error) {
	query := `
		SELECT id, agency_id, route_id, bus_id, driver_id,
		       departure_time, arrival_time, base_price,
		       total_seats, available_seats_count, available_seat_numbers,
		       status, created_at, updated_at
		FROM scheduled_trips
		WHERE id = $1 AND agency_id = $2
	`

	var trip models.ScheduledTrip
	if err := r.db.Get(&trip, query, tripID, agencyID); err != nil {
		return nil, err
	}
	return &trip, nil
}

// GetByIDForUpdateTx loads a trip inside a transaction with a row lock
func (r *TripRepository) GetByIDForUpdateTx(tx *sqlx.Tx, tripID, agencyID string) (*models.ScheduledTrip, error) {
	query := `
		SELECT id, agency_id, route_id, bus_id, driver_id,
		       departure_time, arrival_time, base_price,
		       total_seats, available_seats_count, available_seat_numbers,
		       status, created_at, updated_at
		FROM scheduled_trips
		WHERE id = $1 AND agency_id = $2
		FOR UPDATE
	`

	var trip models.ScheduledTrip
	if err := tx.Get(&trip, query, tripID, agencyID); err != nil {
		return nil, err
	}
	return &trip, nil
}

// GetWithDetails retrieves a trip with its route, bus and driver projection
func (r *TripRepository) GetWithDetails(tripID, agencyID string) (*models.TripWithDetails, error) {
	query := tripDetailsQuery + ` WHERE st.id = $1 AND st.agency_id = $2`

	var trip models.TripWithDetails
	if err := r.db.Get(&trip, query, tripID, agencyID); err != nil {
		return nil, err
	}
	return &trip, nil
}

// ListByAgency retrieves all trips for an agency, newest departure first
func (r *TripRepository) ListByAgency(agencyID string) ([]models.TripWithDetails, error) {
	query := tripDetailsQuery + ` WHERE st.agency_id = $1 ORDER BY st.departure_time DESC`

	trips := []models.TripWithDetails{}
	if err := r.db.Select(&trips, query, agencyID); err != nil {
		return nil, fmt.Errorf("failed to list trips: %w", err)
	}
	return trips, nil
}

// UpdateTx rewrites the mutable trip fields inside an existing transaction
func (r *TripRepository) UpdateTx(tx *sqlx.Tx, trip *models.ScheduledTrip) error {
	query := `
		UPDATE scheduled_trips
		SET route_id = $2, bus_id = $3, driver_id = $4,
		    departure_time = $5, arrival_time = $6, base_price = $7,
		    total_seats = $8, available_seats_count = $9, available_seat_numbers = $10,
		    updated_at = NOW()
		WHERE id = $1
		RETURNING updated_at
	`

	err := tx.QueryRow(query,
		trip.ID, trip.RouteID, trip.BusID, trip.DriverID,
		trip.DepartureTime, trip.ArrivalTime, trip.BasePrice,
		trip.TotalSeats, trip.AvailableSeatsCount, trip.AvailableSeatNumbers,
	).Scan(&trip.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to update scheduled trip: %w", err)
	}

	return nil
}

// UpdateStatusTx sets the trip status inside an existing transaction
func (r *TripRepository) UpdateStatusTx(tx *sqlx.Tx, tripID string, status models.TripStatus) error {
	result, err := tx.Exec(`UPDATE scheduled_trips SET status = $2, updated_at = NOW() WHERE id = $1`, tripID, status)
	if err != nil {
		return fmt.Errorf("failed to update trip status: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("scheduled trip not found")
	}

	return nil
}

// DeleteTx removes a trip row inside an existing transaction. Seat
// reservation rows cascade-delete with it.
func (r *TripRepository) DeleteTx(tx *sqlx.Tx, tripID string) error {
	result, err := tx.Exec(`DELETE FROM scheduled_trips WHERE id = $1`, tripID)
	if err != nil {
		return fmt.Errorf("failed to delete scheduled trip: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("scheduled trip not found")
	}

	return nil
}

const activeCommitmentsQuery = `
	SELECT st.id AS trip_id, r.name AS route_name, r.departure_city, r.arrival_city,
	       st.departure_time, st.arrival_time
	FROM scheduled_trips st
	JOIN routes r ON r.id = st.route_id
	WHERE st.bus_id = $1
	  AND st.status = 'active'
	  AND ($2 = '' OR st.id::text <> $2)
	ORDER BY st.departure_time
`

// GetActiveCommitmentsForBus loads the time windows and endpoint cities of a
// bus's active trips, excluding excludeTripID when editing a trip in place.
func (r *TripRepository) GetActiveCommitmentsForBus(busID, excludeTripID string) ([]models.BusCommitment, error) {
	commitments := []models.BusCommitment{}
	if err := r.db.Select(&commitments, activeCommitmentsQuery, busID, excludeTripID); err != nil {
		return nil, fmt.Errorf("failed to load bus commitments: %w", err)
	}
	return commitments, nil
}

// GetActiveCommitmentsForBusTx is GetActiveCommitmentsForBus inside an
// existing transaction, so the check sees the same snapshot the write will
// commit against.
func (r *TripRepository) GetActiveCommitmentsForBusTx(tx *sqlx.Tx, busID, excludeTripID string) ([]models.BusCommitment, error) {
	commitments := []models.BusCommitment{}
	if err := tx.Select(&commitments, activeCommitmentsQuery, busID, excludeTripID); err != nil {
		return nil, fmt.Errorf("failed to load bus commitments: %w", err)
	}
	return commitments, nil
}
