package models

import (
	"time"
)

// BusStatus represents the current operational status of a bus
type BusStatus string

const (
	BusStatusActive      BusStatus = "active"
	BusStatusMaintenance BusStatus = "maintenance"
	BusStatusRetired     BusStatus = "retired"
)

// Bus represents a bus owned by an agency
type Bus struct {
	ID           string    `json:"id" db:"id"`
	AgencyID     string    `json:"agency_id" db:"agency_id"`
	BusNumber    string    `json:"bus_number" db:"bus_number"`
	LicensePlate string    `json:"license_plate" db:"license_plate"`
	TotalSeats   int       `json:"total_seats" db:"total_seats"`
	Status       BusStatus `json:"status" db:"status"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time `json:"updated_at" db:"updated_at"`
}

// CreateBusRequest represents the request to register a new bus
type CreateBusRequest struct {
	BusNumber    string `json:"bus_number" binding:"required"`
	LicensePlate string `json:"license_plate" binding:"required"`
	TotalSeats   int    `json:"total_seats" binding:"required,gt=0"`
}

// UpdateBusRequest represents the request to update bus information.
// TotalSeats is only accepted while no scheduled trip references the bus;
// trips copy the capacity at creation time and rely on it staying fixed.
type UpdateBusRequest struct {
	BusNumber    *string `json:"bus_number,omitempty"`
	LicensePlate *string `json:"license_plate,omitempty"`
	TotalSeats   *int    `json:"total_seats,omitempty"`
	Status       *string `json:"status,omitempty"`
}

// ParseBusStatus validates a raw status string
func ParseBusStatus(s string) (BusStatus, bool) {
	switch BusStatus(s) {
	case BusStatusActive, BusStatusMaintenance, BusStatusRetired:
		return BusStatus(s), true
	}
	return "", false
}
