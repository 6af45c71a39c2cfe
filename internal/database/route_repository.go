package database

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/swifttransit/busline-backend/internal/models"
)

// RouteRepository handles database operations for routes and their stops
type RouteRepository struct {
	db *sqlx.DB
}

// NewRouteRepository creates a new RouteRepository
func NewRouteRepository(db *sqlx.DB) *RouteRepository {
	return &RouteRepository{db: db}
}

// Create inserts a route and its ordered stops in one transaction
func (r *RouteRepository) Create(route *models.Route) error {
	if route.ID == "" {
		route.ID = uuid.New().String()
	}

	tx, err := r.db.Beginx()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	query := `
		INSERT INTO routes (id, agency_id, name, departure_city, departure_location, arrival_city, arrival_location)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING created_at, updated_at
	`

	err = tx.QueryRow(query,
		route.ID, route.AgencyID, route.Name,
		route.DepartureCity, route.DepartureLocation,
		route.ArrivalCity, route.ArrivalLocation,
	).Scan(&route.CreatedAt, &route.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create route: %w", err)
	}

	stopQuery := `
		INSERT INTO route_stops (id, route_id, city, location, stop_order)
		VALUES ($1, $2, $3, $4, $5)
	`

	for i := range route.Stops {
		stop := &route.Stops[i]
		if stop.ID == "" {
			stop.ID = uuid.New().String()
		}
		stop.RouteID = route.ID
		stop.StopOrder = i + 1

		if _, err := tx.Exec(stopQuery, stop.ID, stop.RouteID, stop.City, stop.Location, stop.StopOrder); err != nil {
			return fmt.Errorf("failed to create route stop %d: %w", stop.StopOrder, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// GetByID retrieves a route owned by the given agency, with its stops
func (r *RouteRepository) GetByID(routeID, agencyID string) (*models.Route, error) {
	query := `
		SELECT id, agency_id, name, departure_city, departure_location, arrival_city, arrival_location, created_at, updated_at
		FROM routes
		WHERE id = $1 AND agency_id = $2
	`

	var route models.Route
	if err := r.db.Get(&route, query, routeID, agencyID); err != nil {
		return nil, err
	}

	stopQuery := `
		SELECT id, route_id, city, location, stop_order
		FROM route_stops
		WHERE route_id = $1
		ORDER BY stop_order
	`

	stops := []models.RouteStop{}
	if err := r.db.Select(&stops, stopQuery, routeID); err != nil {
		return nil, fmt.Errorf("failed to load route stops: %w", err)
	}
	route.Stops = stops

	return &route, nil
}

// ListByAgency retrieves all routes owned by an agency, without stops
func (r *RouteRepository) ListByAgency(agencyID string) ([]models.Route, error) {
	query := `
		SELECT id, agency_id, name, departure_city, departure_location, arrival_city, arrival_location, created_at, updated_at
		FROM routes
		WHERE agency_id = $1
		ORDER BY name
	`

	routes := []models.Route{}
	if err := r.db.Select(&routes, query, agencyID); err != nil {
		return nil, fmt.Errorf("failed to list routes: %w", err)
	}
	return routes, nil
}
