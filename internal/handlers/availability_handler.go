package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/swifttransit/busline-backend/internal/database"
	"github.com/swifttransit/busline-backend/internal/middleware"
	"github.com/swifttransit/busline-backend/internal/services"
)

// AvailabilityHandler exposes the bus feasibility check to callers so an
// agency can probe an assignment before committing to it
type AvailabilityHandler struct {
	checker *services.AvailabilityChecker
	busRepo *database.BusRepository
	logger  *logrus.Logger
}

// NewAvailabilityHandler creates a new AvailabilityHandler
func NewAvailabilityHandler(checker *services.AvailabilityChecker, busRepo *database.BusRepository, logger *logrus.Logger) *AvailabilityHandler {
	return &AvailabilityHandler{checker: checker, busRepo: busRepo, logger: logger}
}

// CheckBusAvailability evaluates a proposed window for a bus
// GET /api/v1/buses/:id/availability?departure=&arrival=&departure_city=&exclude_trip_id=
func (h *AvailabilityHandler) CheckBusAvailability(c *gin.Context) {
	agencyCtx, exists := middleware.GetAgencyContext(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}
	busID := c.Param("id")

	departure, err := time.Parse(time.RFC3339, c.Query("departure"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "departure must be an RFC 3339 timestamp"})
		return
	}
	arrival, err := time.Parse(time.RFC3339, c.Query("arrival"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "arrival must be an RFC 3339 timestamp"})
		return
	}
	if !arrival.After(departure) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "arrival must be after departure"})
		return
	}
	departureCity := c.Query("departure_city")
	if departureCity == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "departure_city is required"})
		return
	}

	if _, err := h.busRepo.GetByID(busID, agencyCtx.AgencyID.String()); err != nil {
		respondError(c, h.logger, notFoundIfNoRows(err, "bus", busID))
		return
	}

	result, err := h.checker.Check(busID, departure, arrival, departureCity, c.Query("exclude_trip_id"))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, result)
}
