package services

import (
	"database/sql"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/sirupsen/logrus"
	"github.com/swifttransit/busline-backend/internal/database"
	"github.com/swifttransit/busline-backend/internal/models"
)

// TripScheduler orchestrates trip creation, editing, status transitions and
// deletion. Every multi-row write runs in a single transaction, and the
// availability check re-runs inside that transaction while the bus row is
// locked, so two concurrent requests cannot double-book the same bus.
type TripScheduler struct {
	db         *sqlx.DB
	tripRepo   *database.TripRepository
	seatRepo   *database.SeatReservationRepository
	busRepo    *database.BusRepository
	routeRepo  *database.RouteRepository
	driverRepo *database.DriverRepository
	allocator  *SeatAllocator
	logger     *logrus.Logger
}

// NewTripScheduler creates a new TripScheduler
func NewTripScheduler(
	db *sqlx.DB,
	tripRepo *database.TripRepository,
	seatRepo *database.SeatReservationRepository,
	busRepo *database.BusRepository,
	routeRepo *database.RouteRepository,
	driverRepo *database.DriverRepository,
	allocator *SeatAllocator,
	logger *logrus.Logger,
) *TripScheduler {
	return &TripScheduler{
		db:         db,
		tripRepo:   tripRepo,
		seatRepo:   seatRepo,
		busRepo:    busRepo,
		routeRepo:  routeRepo,
		driverRepo: driverRepo,
		allocator:  allocator,
		logger:     logger,
	}
}

// Create schedules a new trip: validates ownership and inputs, checks the
// bus's availability, allocates the seats to put on sale and persists the
// trip row plus its seat reservation rows atomically.
func (s *TripScheduler) Create(agencyID string, req *models.CreateTripRequest) (*models.TripWithDetails, error) {
	departure, err := parseTimeField("departure_time", req.DepartureTime)
	if err != nil {
		return nil, err
	}
	arrival, err := parseTimeField("arrival_time", req.ArrivalTime)
	if err != nil {
		return nil, err
	}
	if !arrival.After(departure) {
		return nil, NewValidationError("arrival_time", "must be after departure_time")
	}
	if req.BasePrice <= 0 {
		return nil, NewValidationError("base_price", "must be positive, got %v", req.BasePrice)
	}
	if req.DesiredSeatCount <= 0 {
		return nil, NewValidationError("desired_seat_count", "must be positive, got %d", req.DesiredSeatCount)
	}

	route, err := s.routeRepo.GetByID(req.RouteID, agencyID)
	if err != nil {
		return nil, notFoundOnNoRows(err, "route", req.RouteID)
	}

	if req.DriverID != nil {
		if _, err := s.driverRepo.GetByID(*req.DriverID, agencyID); err != nil {
			return nil, notFoundOnNoRows(err, "driver", *req.DriverID)
		}
	}

	tx, err := s.db.Beginx()
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	// Locking the bus row serializes concurrent scheduling of the same bus:
	// the second writer blocks here and re-checks against the committed state.
	bus, err := s.busRepo.GetByIDForUpdateTx(tx, req.BusID, agencyID)
	if err != nil {
		return nil, notFoundOnNoRows(err, "bus", req.BusID)
	}
	if req.DesiredSeatCount > bus.TotalSeats {
		return nil, NewValidationError("desired_seat_count",
			"%d exceeds bus capacity of %d", req.DesiredSeatCount, bus.TotalSeats)
	}

	commitments, err := s.tripRepo.GetActiveCommitmentsForBusTx(tx, bus.ID, "")
	if err != nil {
		return nil, err
	}
	if result := CheckCommitments(commitments, departure, arrival, route.DepartureCity); !result.Feasible {
		return nil, &ConflictError{Reason: result.Reason, ConflictingCity: result.ConflictingCity}
	}

	seatNumbers, err := s.allocator.Generate(bus.TotalSeats, req.DesiredSeatCount)
	if err != nil {
		return nil, err
	}

	trip := &models.ScheduledTrip{
		AgencyID:             agencyID,
		RouteID:              route.ID,
		BusID:                bus.ID,
		DriverID:             req.DriverID,
		DepartureTime:        departure,
		ArrivalTime:          arrival,
		BasePrice:            req.BasePrice,
		TotalSeats:           bus.TotalSeats,
		AvailableSeatsCount:  len(seatNumbers),
		AvailableSeatNumbers: seatNumbers,
		Status:               models.TripStatusActive,
	}

	if err := s.tripRepo.CreateTx(tx, trip); err != nil {
		return nil, err
	}
	if err := s.seatRepo.BulkInsertTx(tx, trip.ID, seatNumbers); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	s.logger.WithFields(logrus.Fields{
		"trip_id":   trip.ID,
		"agency_id": agencyID,
		"route":     route.DisplayName(),
		"bus_id":    bus.ID,
		"seats":     len(seatNumbers),
	}).Info("Trip scheduled")

	return s.tripRepo.GetWithDetails(trip.ID, agencyID)
}

// Update applies a partial edit to a trip. A bus or window change re-runs
// the availability check with the trip itself excluded; a bus or seat-count
// change regenerates the seat allocation and reconciles the reservation rows
// in the same transaction. Held and confirmed seats always stay in the
// offered set; an edit that cannot keep them there is rejected.
func (s *TripScheduler) Update(tripID, agencyID string, req *models.UpdateTripRequest) (*models.TripWithDetails, error) {
	if req.BasePrice != nil && *req.BasePrice <= 0 {
		return nil, NewValidationError("base_price", "must be positive, got %v", *req.BasePrice)
	}
	if req.DesiredSeatCount != nil && *req.DesiredSeatCount <= 0 {
		return nil, NewValidationError("desired_seat_count", "must be positive, got %d", *req.DesiredSeatCount)
	}
	if req.DriverID != nil {
		if _, err := s.driverRepo.GetByID(*req.DriverID, agencyID); err != nil {
			return nil, notFoundOnNoRows(err, "driver", *req.DriverID)
		}
	}

	tx, err := s.db.Beginx()
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	trip, err := s.tripRepo.GetByIDForUpdateTx(tx, tripID, agencyID)
	if err != nil {
		return nil, notFoundOnNoRows(err, "trip", tripID)
	}
	if trip.Status == models.TripStatusCompleted || trip.Status == models.TripStatusCancelled {
		return nil, NewValidationError("status", "cannot edit a %s trip", trip.Status)
	}

	departure := trip.DepartureTime
	if req.DepartureTime != nil {
		if departure, err = parseTimeField("departure_time", *req.DepartureTime); err != nil {
			return nil, err
		}
	}
	arrival := trip.ArrivalTime
	if req.ArrivalTime != nil {
		if arrival, err = parseTimeField("arrival_time", *req.ArrivalTime); err != nil {
			return nil, err
		}
	}
	if !arrival.After(departure) {
		return nil, NewValidationError("arrival_time", "must be after departure_time")
	}

	routeID := trip.RouteID
	if req.RouteID != nil {
		routeID = *req.RouteID
	}
	route, err := s.routeRepo.GetByID(routeID, agencyID)
	if err != nil {
		return nil, notFoundOnNoRows(err, "route", routeID)
	}

	busChanged := req.BusID != nil && *req.BusID != trip.BusID
	windowChanged := !departure.Equal(trip.DepartureTime) || !arrival.Equal(trip.ArrivalTime)
	seatCountChanged := req.DesiredSeatCount != nil && *req.DesiredSeatCount != trip.AvailableSeatsCount

	busID := trip.BusID
	if req.BusID != nil {
		busID = *req.BusID
	}
	bus, err := s.busRepo.GetByIDForUpdateTx(tx, busID, agencyID)
	if err != nil {
		return nil, notFoundOnNoRows(err, "bus", busID)
	}

	if busChanged || windowChanged || req.RouteID != nil {
		commitments, err := s.tripRepo.GetActiveCommitmentsForBusTx(tx, bus.ID, trip.ID)
		if err != nil {
			return nil, err
		}
		if result := CheckCommitments(commitments, departure, arrival, route.DepartureCity); !result.Feasible {
			return nil, &ConflictError{Reason: result.Reason, ConflictingCity: result.ConflictingCity}
		}
	}

	if busChanged || seatCountChanged {
		desired := trip.AvailableSeatsCount
		if req.DesiredSeatCount != nil {
			desired = *req.DesiredSeatCount
		}
		if desired > bus.TotalSeats {
			return nil, NewValidationError("desired_seat_count",
				"%d exceeds bus capacity of %d", desired, bus.TotalSeats)
		}

		seatNumbers, err := s.reconcileSeats(tx, trip.ID, bus.TotalSeats, desired)
		if err != nil {
			return nil, err
		}

		trip.TotalSeats = bus.TotalSeats
		trip.AvailableSeatsCount = len(seatNumbers)
		trip.AvailableSeatNumbers = seatNumbers
	}

	trip.RouteID = route.ID
	trip.BusID = bus.ID
	if req.DriverID != nil {
		trip.DriverID = req.DriverID
	}
	trip.DepartureTime = departure
	trip.ArrivalTime = arrival
	if req.BasePrice != nil {
		trip.BasePrice = *req.BasePrice
	}

	if err := s.tripRepo.UpdateTx(tx, trip); err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	s.logger.WithFields(logrus.Fields{
		"trip_id":   trip.ID,
		"agency_id": agencyID,
	}).Info("Trip updated")

	return s.tripRepo.GetWithDetails(trip.ID, agencyID)
}

// reconcileSeats regenerates the seat allocation for a trip and brings the
// reservation rows in line with it: still-available rows are deleted and the
// new set is inserted with conflict-ignore, so a held or confirmed row is
// never touched. Claimed seats seed the new set unconditionally, so whether
// an edit succeeds never depends on the shuffled portion of the allocation:
// it fails only when the claimed seats cannot fit the requested count or the
// bus capacity.
func (s *TripScheduler) reconcileSeats(tx *sqlx.Tx, tripID string, totalSeats, desired int) ([]int, error) {
	existing, err := s.seatRepo.GetForUpdateTx(tx, tripID)
	if err != nil {
		return nil, err
	}

	var claimed []int
	for i := range existing {
		if existing[i].IsClaimed() {
			claimed = append(claimed, existing[i].SeatNumber)
		}
	}
	if len(claimed) > desired {
		return nil, &ConflictError{
			Reason: fmt.Sprintf("cannot offer %d seat(s); %d are already held or confirmed", desired, len(claimed)),
		}
	}
	for _, n := range claimed {
		if n > totalSeats {
			return nil, &ConflictError{
				Reason: fmt.Sprintf("held or confirmed seat %d exceeds the bus capacity of %d", n, totalSeats),
			}
		}
	}

	generated, err := s.allocator.Generate(totalSeats, desired)
	if err != nil {
		return nil, err
	}

	taken := make(map[int]bool, desired)
	seatNumbers := make([]int, 0, desired)
	for _, n := range claimed {
		taken[n] = true
		seatNumbers = append(seatNumbers, n)
	}
	for _, n := range generated {
		if len(seatNumbers) == desired {
			break
		}
		if !taken[n] {
			taken[n] = true
			seatNumbers = append(seatNumbers, n)
		}
	}
	sort.Ints(seatNumbers)

	if _, err := s.seatRepo.DeleteAvailableTx(tx, tripID); err != nil {
		return nil, err
	}
	if err := s.seatRepo.BulkInsertTx(tx, tripID, seatNumbers); err != nil {
		return nil, err
	}

	return seatNumbers, nil
}

// SetStatus transitions a trip to a new status. Transitions into inactive or
// cancelled are guarded: they are refused while any seat reservation is held
// or confirmed. Completing a trip is not guarded; a finished trip
// legitimately carries confirmed seats. Reactivating a parked trip re-runs
// the availability check against the bus's other active trips, since those
// may have been scheduled into its window while it was inactive.
func (s *TripScheduler) SetStatus(tripID, agencyID, rawStatus string) (*models.TripWithDetails, error) {
	target, err := models.ParseTripStatus(rawStatus)
	if err != nil {
		return nil, NewValidationError("status", "%v", err)
	}

	tx, err := s.db.Beginx()
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	trip, err := s.tripRepo.GetByIDForUpdateTx(tx, tripID, agencyID)
	if err != nil {
		return nil, notFoundOnNoRows(err, "trip", tripID)
	}
	if !trip.Status.CanTransitionTo(target) {
		return nil, NewValidationError("status", "cannot transition from %s to %s", trip.Status, target)
	}

	if target == models.TripStatusActive {
		route, err := s.routeRepo.GetByID(trip.RouteID, agencyID)
		if err != nil {
			return nil, notFoundOnNoRows(err, "route", trip.RouteID)
		}
		if _, err := s.busRepo.GetByIDForUpdateTx(tx, trip.BusID, agencyID); err != nil {
			return nil, notFoundOnNoRows(err, "bus", trip.BusID)
		}
		commitments, err := s.tripRepo.GetActiveCommitmentsForBusTx(tx, trip.BusID, trip.ID)
		if err != nil {
			return nil, err
		}
		if result := CheckCommitments(commitments, trip.DepartureTime, trip.ArrivalTime, route.DepartureCity); !result.Feasible {
			return nil, &ConflictError{Reason: result.Reason, ConflictingCity: result.ConflictingCity}
		}
	}

	if target.RequiresReservationGuard() {
		claimed, err := s.seatRepo.CountClaimedTx(tx, trip.ID)
		if err != nil {
			return nil, err
		}
		if claimed > 0 {
			return nil, &GuardViolationError{
				TripID:        trip.ID,
				BlockingSeats: claimed,
				Operation:     fmt.Sprintf("transition to %s", target),
			}
		}
	}

	if err := s.tripRepo.UpdateStatusTx(tx, trip.ID, target); err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	s.logger.WithFields(logrus.Fields{
		"trip_id": trip.ID,
		"from":    trip.Status,
		"to":      target,
	}).Info("Trip status changed")

	return s.tripRepo.GetWithDetails(trip.ID, agencyID)
}

// Delete removes a trip and, by cascade, its seat reservation rows. Deletion
// is guarded the same way as deactivation: destroying held or confirmed
// reservations through the cascade is never allowed.
func (s *TripScheduler) Delete(tripID, agencyID string) error {
	tx, err := s.db.Beginx()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	trip, err := s.tripRepo.GetByIDForUpdateTx(tx, tripID, agencyID)
	if err != nil {
		return notFoundOnNoRows(err, "trip", tripID)
	}

	claimed, err := s.seatRepo.CountClaimedTx(tx, trip.ID)
	if err != nil {
		return err
	}
	if claimed > 0 {
		return &GuardViolationError{TripID: trip.ID, BlockingSeats: claimed, Operation: "deletion"}
	}

	if err := s.tripRepo.DeleteTx(tx, trip.ID); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	s.logger.WithFields(logrus.Fields{
		"trip_id":   trip.ID,
		"agency_id": agencyID,
	}).Info("Trip deleted")

	return nil
}

// parseTimeField parses an RFC 3339 timestamp from a request field
func parseTimeField(field, value string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return time.Time{}, NewValidationError(field, "must be an RFC 3339 timestamp, got %q", value)
	}
	return t, nil
}

// notFoundOnNoRows converts sql.ErrNoRows into a NotFoundError and leaves
// other errors untouched
func notFoundOnNoRows(err error, resource, id string) error {
	if errors.Is(err, sql.ErrNoRows) {
		return &NotFoundError{Resource: resource, ID: id}
	}
	return err
}
