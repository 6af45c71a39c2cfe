package database

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/swifttransit/busline-backend/internal/models"
)

// BusRepository handles database operations for the buses table
type BusRepository struct {
	db *sqlx.DB
}

// NewBusRepository creates a new BusRepository
func NewBusRepository(db *sqlx.DB) *BusRepository {
	return &BusRepository{db: db}
}

// Create registers a new bus for an agency
func (r *BusRepository) Create(bus *models.Bus) error {
	if bus.ID == "" {
		bus.ID = uuid.New().String()
	}

	query := `
		INSERT INTO buses (id, agency_id, bus_number, license_plate, total_seats, status)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING created_at, updated_at
	`

	err := r.db.QueryRow(query,
		bus.ID, bus.AgencyID, bus.BusNumber, bus.LicensePlate, bus.TotalSeats, bus.Status,
	).Scan(&bus.CreatedAt, &bus.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create bus: %w", err)
	}

	return nil
}

// GetByID retrieves a bus owned by the given agency
func (r *BusRepository) GetByID(busID, agencyID string) (*models.Bus, error) {
	query := `
		SELECT id, agency_id, bus_number, license_plate, total_seats, status, created_at, updated_at
		FROM buses
		WHERE id = $1 AND agency_id = $2
	`

	var bus models.Bus
	if err := r.db.Get(&bus, query, busID, agencyID); err != nil {
		return nil, err
	}
	return &bus, nil
}

// GetByIDForUpdateTx loads a bus inside a transaction with a row lock,
// serializing concurrent scheduling attempts against the same bus.
func (r *BusRepository) GetByIDForUpdateTx(tx *sqlx.Tx, busID, agencyID string) (*models.Bus, error) {
	query := `
		SELECT id, agency_id, bus_number, license_plate, total_seats, status, created_at, updated_at
		FROM buses
		WHERE id = $1 AND agency_id = $2
		FOR UPDATE
	`

	var bus models.Bus
	if err := tx.Get(&bus, query, busID, agencyID); err != nil {
		return nil, err
	}
	return &bus, nil
}

// ListByAgency retrieves all buses owned by an agency
func (r *BusRepository) ListByAgency(agencyID string) ([]models.Bus, error) {
	query := `
		SELECT id, agency_id, bus_number, license_plate, total_seats, status, created_at, updated_at
		FROM buses
		WHERE agency_id = $1
		ORDER BY bus_number
	`

	buses := []models.Bus{}
	if err := r.db.Select(&buses, query, agencyID); err != nil {
		return nil, fmt.Errorf("failed to list buses: %w", err)
	}
	return buses, nil
}

// Update applies mutable bus fields. Seat capacity is not updatable here;
// trips copy it at creation time and depend on it staying fixed.
func (r *BusRepository) Update(bus *models.Bus) error {
	query := `
		UPDATE buses
		SET bus_number = $3, license_plate = $4, status = $5, updated_at = NOW()
		WHERE id = $1 AND agency_id = $2
		RETURNING updated_at
	`

	err := r.db.QueryRow(query,
		bus.ID, bus.AgencyID, bus.BusNumber, bus.LicensePlate, bus.Status,
	).Scan(&bus.UpdatedAt)
	if err == sql.ErrNoRows {
		return sql.ErrNoRows
	}
	if err != nil {
		return fmt.Errorf("failed to update bus: %w", err)
	}

	return nil
}

// ErrBusInUse is returned when a capacity change is refused because
// scheduled trips reference the bus.
var ErrBusInUse = errors.New("scheduled trips reference this bus")

// UpdateCapacity sets a bus's seat capacity. The bus row is locked and the
// trip check runs in the same transaction, so a trip scheduled concurrently
// either sees the new capacity or blocks the change. Trips copy capacity at
// creation time and depend on it staying fixed afterwards.
func (r *BusRepository) UpdateCapacity(busID, agencyID string, totalSeats int) error {
	tx, err := r.db.Beginx()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	var id string
	err = tx.Get(&id, `SELECT id FROM buses WHERE id = $1 AND agency_id = $2 FOR UPDATE`, busID, agencyID)
	if err != nil {
		return err
	}

	var count int
	if err := tx.Get(&count, `SELECT COUNT(*) FROM scheduled_trips WHERE bus_id = $1`, busID); err != nil {
		return fmt.Errorf("failed to count trips for bus: %w", err)
	}
	if count > 0 {
		return ErrBusInUse
	}

	if _, err := tx.Exec(
		`UPDATE buses SET total_seats = $3, updated_at = NOW() WHERE id = $1 AND agency_id = $2`,
		busID, agencyID, totalSeats,
	); err != nil {
		return fmt.Errorf("failed to update bus capacity: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}
