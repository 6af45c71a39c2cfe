package models

import (
	"time"
)

// CreateDriverRequest represents the request to register a driver
type CreateDriverRequest struct {
	FullName      string `json:"full_name" binding:"required"`
	Phone         string `json:"phone" binding:"required"`
	LicenseNumber string `json:"license_number" binding:"required"`
}

// Driver represents a driver employed by an agency
type Driver struct {
	ID            string    `json:"id" db:"id"`
	AgencyID      string    `json:"agency_id" db:"agency_id"`
	FullName      string    `json:"full_name" db:"full_name"`
	Phone         string    `json:"phone" db:"phone"`
	LicenseNumber string    `json:"license_number" db:"license_number"`
	IsActive      bool      `json:"is_active" db:"is_active"`
	CreatedAt     time.Time `json:"created_at" db:"created_at"`
	UpdatedAt     time.Time `json:"updated_at" db:"updated_at"`
}
