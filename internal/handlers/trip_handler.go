package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/swifttransit/busline-backend/internal/database"
	"github.com/swifttransit/busline-backend/internal/middleware"
	"github.com/swifttransit/busline-backend/internal/models"
	"github.com/swifttransit/busline-backend/internal/services"
)

// TripHandler exposes the trip scheduling operations
type TripHandler struct {
	scheduler *services.TripScheduler
	tripRepo  *database.TripRepository
	seatRepo  *database.SeatReservationRepository
	pricer    services.PricingFunc
	logger    *logrus.Logger
}

// NewTripHandler creates a new TripHandler
func NewTripHandler(
	scheduler *services.TripScheduler,
	tripRepo *database.TripRepository,
	seatRepo *database.SeatReservationRepository,
	pricer services.PricingFunc,
	logger *logrus.Logger,
) *TripHandler {
	return &TripHandler{
		scheduler: scheduler,
		tripRepo:  tripRepo,
		seatRepo:  seatRepo,
		pricer:    pricer,
		logger:    logger,
	}
}

// CreateTrip schedules a new trip
// POST /api/v1/trips
func (h *TripHandler) CreateTrip(c *gin.Context) {
	agencyCtx, exists := middleware.GetAgencyContext(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	var req models.CreateTripRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	trip, err := h.scheduler.Create(agencyCtx.AgencyID.String(), &req)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusCreated, trip)
}

// ListTrips returns all trips for the calling agency
// GET /api/v1/trips
func (h *TripHandler) ListTrips(c *gin.Context) {
	agencyCtx, exists := middleware.GetAgencyContext(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	trips, err := h.tripRepo.ListByAgency(agencyCtx.AgencyID.String())
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"trips": trips, "count": len(trips)})
}

// GetTrip returns one trip with its seat reservations and a price quote
// GET /api/v1/trips/:id
func (h *TripHandler) GetTrip(c *gin.Context) {
	agencyCtx, exists := middleware.GetAgencyContext(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}
	tripID := c.Param("id")

	trip, err := h.tripRepo.GetWithDetails(tripID, agencyCtx.AgencyID.String())
	if err != nil {
		respondError(c, h.logger, notFoundIfNoRows(err, "trip", tripID))
		return
	}

	seats, err := h.seatRepo.GetByTripID(tripID)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	quote, err := h.pricer(tripID, agencyCtx.AgencyID.String(), c.Query("user_id"))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"trip": trip, "seats": seats, "quote": quote})
}

// UpdateTrip applies a partial edit to a trip
// PATCH /api/v1/trips/:id
func (h *TripHandler) UpdateTrip(c *gin.Context) {
	agencyCtx, exists := middleware.GetAgencyContext(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	var req models.UpdateTripRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	trip, err := h.scheduler.Update(c.Param("id"), agencyCtx.AgencyID.String(), &req)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, trip)
}

// SetTripStatus transitions a trip to a new status
// PATCH /api/v1/trips/:id/status
func (h *TripHandler) SetTripStatus(c *gin.Context) {
	agencyCtx, exists := middleware.GetAgencyContext(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	var req models.SetTripStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	trip, err := h.scheduler.SetStatus(c.Param("id"), agencyCtx.AgencyID.String(), req.Status)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, trip)
}

// DeleteTrip removes a trip and its seat reservations
// DELETE /api/v1/trips/:id
func (h *TripHandler) DeleteTrip(c *gin.Context) {
	agencyCtx, exists := middleware.GetAgencyContext(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	if err := h.scheduler.Delete(c.Param("id"), agencyCtx.AgencyID.String()); err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Trip deleted"})
}
