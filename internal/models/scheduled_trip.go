package models

import (
	"fmt"
	"time"
)

// TripStatus represents the status of a scheduled trip
type TripStatus string

const (
	TripStatusActive    TripStatus = "active"
	TripStatusInactive  TripStatus = "inactive"
	TripStatusCompleted TripStatus = "completed"
	TripStatusCancelled TripStatus = "cancelled"
)

// tripTransitions lists the allowed status transitions. Completed and
// cancelled are terminal.
var tripTransitions = map[TripStatus][]TripStatus{
	TripStatusActive:    {TripStatusInactive, TripStatusCompleted, TripStatusCancelled},
	TripStatusInactive:  {TripStatusActive},
	TripStatusCompleted: {},
	TripStatusCancelled: {},
}

// ParseTripStatus validates a raw status string against the known statuses
func ParseTripStatus(s string) (TripStatus, error) {
	switch TripStatus(s) {
	case TripStatusActive, TripStatusInactive, TripStatusCompleted, TripStatusCancelled:
		return TripStatus(s), nil
	}
	return "", fmt.Errorf("unknown trip status %q", s)
}

// CanTransitionTo reports whether a trip in status s may move to target
func (s TripStatus) CanTransitionTo(target TripStatus) bool {
	for _, allowed := range tripTransitions[s] {
		if allowed == target {
			return true
		}
	}
	return false
}

// RequiresReservationGuard reports whether a transition into this status must
// first verify the trip has no held or confirmed seat reservations
func (s TripStatus) RequiresReservationGuard() bool {
	return s == TripStatusInactive || s == TripStatusCancelled
}

// ScheduledTrip represents a trip an agency has put on sale
type ScheduledTrip struct {
	ID                   string     `json:"id" db:"id"`
	AgencyID             string     `json:"agency_id" db:"agency_id"`
	RouteID              string     `json:"route_id" db:"route_id"`
	BusID                string     `json:"bus_id" db:"bus_id"`
	DriverID             *string    `json:"driver_id,omitempty" db:"driver_id"`
	DepartureTime        time.Time  `json:"departure_time" db:"departure_time"`
	ArrivalTime          time.Time  `json:"arrival_time" db:"arrival_time"`
	BasePrice            float64    `json:"base_price" db:"base_price"`
	TotalSeats           int        `json:"total_seats" db:"total_seats"`
	AvailableSeatsCount  int        `json:"available_seats_count" db:"available_seats_count"`
	AvailableSeatNumbers IntArray   `json:"available_seat_numbers" db:"available_seat_numbers"`
	Status               TripStatus `json:"status" db:"status"`
	CreatedAt            time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt            time.Time  `json:"updated_at" db:"updated_at"`
}

// TripWithDetails is the trip projection returned to callers, with its
// related route, bus and driver summaries joined in
type TripWithDetails struct {
	ScheduledTrip
	RouteName     string  `json:"route_name" db:"route_name"`
	DepartureCity string  `json:"departure_city" db:"departure_city"`
	ArrivalCity   string  `json:"arrival_city" db:"arrival_city"`
	BusNumber     string  `json:"bus_number" db:"bus_number"`
	DriverName    *string `json:"driver_name,omitempty" db:"driver_name"`
}

// BusCommitment is the slice of an active trip the availability check needs:
// the time window it occupies the bus for and where the bus ends up
type BusCommitment struct {
	TripID        string    `json:"trip_id" db:"trip_id"`
	RouteName     string    `json:"route_name" db:"route_name"`
	DepartureCity string    `json:"departure_city" db:"departure_city"`
	ArrivalCity   string    `json:"arrival_city" db:"arrival_city"`
	DepartureTime time.Time `json:"departure_time" db:"departure_time"`
	ArrivalTime   time.Time `json:"arrival_time" db:"arrival_time"`
}

// CreateTripRequest represents the request to schedule a new trip
type CreateTripRequest struct {
	RouteID          string  `json:"route_id" binding:"required"`
	BusID            string  `json:"bus_id" binding:"required"`
	DriverID         *string `json:"driver_id,omitempty"`
	DepartureTime    string  `json:"departure_time" binding:"required"` // RFC 3339
	ArrivalTime      string  `json:"arrival_time" binding:"required"`   // RFC 3339
	BasePrice        float64 `json:"base_price" binding:"required"`
	DesiredSeatCount int     `json:"desired_seat_count" binding:"required"`
}

// UpdateTripRequest represents a partial trip edit
type UpdateTripRequest struct {
	RouteID          *string  `json:"route_id,omitempty"`
	BusID            *string  `json:"bus_id,omitempty"`
	DriverID         *string  `json:"driver_id,omitempty"`
	DepartureTime    *string  `json:"departure_time,omitempty"` // RFC 3339
	ArrivalTime      *string  `json:"arrival_time,omitempty"`   // RFC 3339
	BasePrice        *float64 `json:"base_price,omitempty"`
	DesiredSeatCount *int     `json:"desired_seat_count,omitempty"`
}

// SetTripStatusRequest represents a status transition request
type SetTripStatusRequest struct {
	Status string `json:"status" binding:"required"`
}
