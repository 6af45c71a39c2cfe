package models

import (
	"time"
)

// SeatStatus represents the sale state of one seat on a trip
type SeatStatus string

const (
	SeatStatusAvailable SeatStatus = "available"
	SeatStatusHeld      SeatStatus = "held"
	SeatStatusConfirmed SeatStatus = "confirmed"
)

// SeatReservation is one row per seat number currently offered for sale on a
// trip. Rows are created in bulk when the trip is scheduled and regenerated
// on seat-count edits; trip deletion cascades to them.
type SeatReservation struct {
	ID         string     `json:"id" db:"id"`
	TripID     string     `json:"trip_id" db:"trip_id"`
	SeatNumber int        `json:"seat_number" db:"seat_number"`
	Status     SeatStatus `json:"status" db:"status"`
	CreatedAt  time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at" db:"updated_at"`
}

// IsClaimed reports whether the seat is held or confirmed by a traveler
func (s *SeatReservation) IsClaimed() bool {
	return s.Status == SeatStatusHeld || s.Status == SeatStatusConfirmed
}
