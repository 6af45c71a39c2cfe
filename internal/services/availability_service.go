package services

import (
	"fmt"
	"time"

	"github.com/swifttransit/busline-backend/internal/database"
	"github.com/swifttransit/busline-backend/internal/models"
)

// RepositioningBuffer is the minimum idle time a bus needs to be driven
// empty from the city its previous trip ended in to a different departure
// city.
const RepositioningBuffer = 2 * time.Hour

// AvailabilityResult is the outcome of a feasibility check for assigning a
// bus to a proposed trip window.
type AvailabilityResult struct {
	Feasible        bool   `json:"feasible"`
	Reason          string `json:"reason,omitempty"`
	ConflictingCity string `json:"conflicting_city,omitempty"`
	LastKnownCity   string `json:"last_known_city,omitempty"`
}

// AvailabilityChecker decides whether a bus may be assigned a new trip given
// its other active trips: no overlapping time windows, and enough of a gap
// to reposition when the departure city differs from where the bus last
// arrived.
type AvailabilityChecker struct {
	tripRepo *database.TripRepository
}

// NewAvailabilityChecker creates a new AvailabilityChecker
func NewAvailabilityChecker(tripRepo *database.TripRepository) *AvailabilityChecker {
	return &AvailabilityChecker{tripRepo: tripRepo}
}

// Check loads the bus's active trips (excluding excludeTripID when editing a
// trip in place) and evaluates the proposed window against them.
func (c *AvailabilityChecker) Check(busID string, departure, arrival time.Time, departureCity, excludeTripID string) (*AvailabilityResult, error) {
	commitments, err := c.tripRepo.GetActiveCommitmentsForBus(busID, excludeTripID)
	if err != nil {
		return nil, fmt.Errorf("failed to load active trips for bus %s: %w", busID, err)
	}
	return CheckCommitments(commitments, departure, arrival, departureCity), nil
}

// CheckCommitments evaluates a proposed window against an already-loaded set
// of active commitments for the same bus.
//
// Overlap uses half-open intervals: a trip arriving exactly when the new one
// departs is a legal back-to-back assignment. The positional test only looks
// at the single nearest preceding trip; later trips on the same bus are not
// validated against this one's arrival city.
func CheckCommitments(commitments []models.BusCommitment, departure, arrival time.Time, departureCity string) *AvailabilityResult {
	for _, t := range commitments {
		if departure.Before(t.ArrivalTime) && arrival.After(t.DepartureTime) {
			return &AvailabilityResult{
				Feasible: false,
				Reason: fmt.Sprintf("bus is already committed to %s (%s to %s) from %s to %s",
					t.RouteName, t.DepartureCity, t.ArrivalCity,
					t.DepartureTime.Format(time.RFC3339), t.ArrivalTime.Format(time.RFC3339)),
			}
		}
	}

	if prev := nearestPreceding(commitments, departure); prev != nil {
		if prev.ArrivalCity != departureCity {
			gap := departure.Sub(prev.ArrivalTime)
			if gap < RepositioningBuffer {
				return &AvailabilityResult{
					Feasible:        false,
					ConflictingCity: prev.ArrivalCity,
					Reason: fmt.Sprintf("bus arrives in %s at %s and cannot depart from %s only %s later; at least %s is required for repositioning",
						prev.ArrivalCity, prev.ArrivalTime.Format(time.RFC3339), departureCity,
						gap, RepositioningBuffer),
				}
			}
		}
	}

	return &AvailabilityResult{
		Feasible:      true,
		LastKnownCity: lastKnownCity(commitments),
	}
}

// nearestPreceding returns the commitment with the latest arrival at or
// before the proposed departure, or nil when the bus has none.
func nearestPreceding(commitments []models.BusCommitment, departure time.Time) *models.BusCommitment {
	var prev *models.BusCommitment
	for i := range commitments {
		t := &commitments[i]
		if t.ArrivalTime.After(departure) {
			continue
		}
		if prev == nil || t.ArrivalTime.After(prev.ArrivalTime) {
			prev = t
		}
	}
	return prev
}

// lastKnownCity returns the arrival city of the latest-arriving commitment,
// regardless of the proposed window. Reported for caller display only.
func lastKnownCity(commitments []models.BusCommitment) string {
	var latest *models.BusCommitment
	for i := range commitments {
		t := &commitments[i]
		if latest == nil || t.ArrivalTime.After(latest.ArrivalTime) {
			latest = t
		}
	}
	if latest == nil {
		return ""
	}
	return latest.ArrivalCity
}
