package models

import (
	"time"
)

// Route represents an agency-defined bus route between two cities
type Route struct {
	ID                string    `json:"id" db:"id"`
	AgencyID          string    `json:"agency_id" db:"agency_id"`
	Name              string    `json:"name" db:"name"`
	DepartureCity     string    `json:"departure_city" db:"departure_city"`
	DepartureLocation *string   `json:"departure_location,omitempty" db:"departure_location"`
	ArrivalCity       string    `json:"arrival_city" db:"arrival_city"`
	ArrivalLocation   *string   `json:"arrival_location,omitempty" db:"arrival_location"`
	CreatedAt         time.Time `json:"created_at" db:"created_at"`
	UpdatedAt         time.Time `json:"updated_at" db:"updated_at"`

	// Stops is populated by the repository when requested; not a column.
	Stops []RouteStop `json:"stops,omitempty" db:"-"`
}

// RouteStop represents an ordered intermediate stop on a route
type RouteStop struct {
	ID        string  `json:"id" db:"id"`
	RouteID   string  `json:"route_id" db:"route_id"`
	City      string  `json:"city" db:"city"`
	Location  *string `json:"location,omitempty" db:"location"`
	StopOrder int     `json:"stop_order" db:"stop_order"`
}

// CreateRouteRequest represents the request to create a new route
type CreateRouteRequest struct {
	Name              string                   `json:"name" binding:"required"`
	DepartureCity     string                   `json:"departure_city" binding:"required"`
	DepartureLocation *string                  `json:"departure_location,omitempty"`
	ArrivalCity       string                   `json:"arrival_city" binding:"required"`
	ArrivalLocation   *string                  `json:"arrival_location,omitempty"`
	Stops             []CreateRouteStopRequest `json:"stops,omitempty"`
}

// CreateRouteStopRequest represents one intermediate stop in a create request
type CreateRouteStopRequest struct {
	City     string  `json:"city" binding:"required"`
	Location *string `json:"location,omitempty"`
}

// DisplayName returns a formatted route display name
func (r *Route) DisplayName() string {
	return r.Name + ": " + r.DepartureCity + " - " + r.ArrivalCity
}
