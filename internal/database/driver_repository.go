package database

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/swifttransit/busline-backend/internal/models"
)

// DriverRepository handles database operations for the drivers table
type DriverRepository struct {
	db *sqlx.DB
}

// NewDriverRepository creates a new DriverRepository
func NewDriverRepository(db *sqlx.DB) *DriverRepository {
	return &DriverRepository{db: db}
}

// Create registers a new driver for an agency
func (r *DriverRepository) Create(driver *models.Driver) error {
	if driver.ID == "" {
		driver.ID = uuid.New().String()
	}

	query := `
		INSERT INTO drivers (id, agency_id, full_name, phone, license_number, is_active)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING created_at, updated_at
	`

	err := r.db.QueryRow(query,
		driver.ID, driver.AgencyID, driver.FullName, driver.Phone, driver.LicenseNumber, driver.IsActive,
	).Scan(&driver.CreatedAt, &driver.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create driver: %w", err)
	}

	return nil
}

// GetByID retrieves a driver employed by the given agency
func (r *DriverRepository) GetByID(driverID, agencyID string) (*models.Driver, error) {
	query := `
		SELECT id, agency_id, full_name, phone, license_number, is_active, created_at, updated_at
		FROM drivers
		WHERE id = $1 AND agency_id = $2
	`

	var driver models.Driver
	if err := r.db.Get(&driver, query, driverID, agencyID); err != nil {
		return nil, err
	}
	return &driver, nil
}

// ListByAgency retrieves all drivers employed by an agency
func (r *DriverRepository) ListByAgency(agencyID string) ([]models.Driver, error) {
	query := `
		SELECT id, agency_id, full_name, phone, license_number, is_active, created_at, updated_at
		FROM drivers
		WHERE agency_id = $1
		ORDER BY full_name
	`

	drivers := []models.Driver{}
	if err := r.db.Select(&drivers, query, agencyID); err != nil {
		return nil, fmt.Errorf("failed to list drivers: %w", err)
	}
	return drivers, nil
}
