package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/swifttransit/busline-backend/internal/database"
	"github.com/swifttransit/busline-backend/internal/middleware"
	"github.com/swifttransit/busline-backend/internal/models"
	"github.com/swifttransit/busline-backend/internal/services"
)

// BusHandler exposes bus management for an agency
type BusHandler struct {
	busRepo *database.BusRepository
	logger  *logrus.Logger
}

// NewBusHandler creates a new BusHandler
func NewBusHandler(busRepo *database.BusRepository, logger *logrus.Logger) *BusHandler {
	return &BusHandler{busRepo: busRepo, logger: logger}
}

// CreateBus registers a new bus
// POST /api/v1/buses
func (h *BusHandler) CreateBus(c *gin.Context) {
	agencyCtx, exists := middleware.GetAgencyContext(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	var req models.CreateBusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	bus := &models.Bus{
		AgencyID:     agencyCtx.AgencyID.String(),
		BusNumber:    req.BusNumber,
		LicensePlate: req.LicensePlate,
		TotalSeats:   req.TotalSeats,
		Status:       models.BusStatusActive,
	}

	if err := h.busRepo.Create(bus); err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusCreated, bus)
}

// ListBuses returns all buses owned by the calling agency
// GET /api/v1/buses
func (h *BusHandler) ListBuses(c *gin.Context) {
	agencyCtx, exists := middleware.GetAgencyContext(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	buses, err := h.busRepo.ListByAgency(agencyCtx.AgencyID.String())
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"buses": buses, "count": len(buses)})
}

// GetBus returns one bus
// GET /api/v1/buses/:id
func (h *BusHandler) GetBus(c *gin.Context) {
	agencyCtx, exists := middleware.GetAgencyContext(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}
	busID := c.Param("id")

	bus, err := h.busRepo.GetByID(busID, agencyCtx.AgencyID.String())
	if err != nil {
		respondError(c, h.logger, notFoundIfNoRows(err, "bus", busID))
		return
	}

	c.JSON(http.StatusOK, bus)
}

// UpdateBus updates bus information. Capacity changes are refused once any
// scheduled trip references the bus.
// PATCH /api/v1/buses/:id
func (h *BusHandler) UpdateBus(c *gin.Context) {
	agencyCtx, exists := middleware.GetAgencyContext(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}
	busID := c.Param("id")

	var req models.UpdateBusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	bus, err := h.busRepo.GetByID(busID, agencyCtx.AgencyID.String())
	if err != nil {
		respondError(c, h.logger, notFoundIfNoRows(err, "bus", busID))
		return
	}

	if req.TotalSeats != nil && *req.TotalSeats != bus.TotalSeats {
		if *req.TotalSeats <= 0 {
			respondError(c, h.logger, services.NewValidationError("total_seats", "must be positive, got %d", *req.TotalSeats))
			return
		}
		if err := h.busRepo.UpdateCapacity(busID, agencyCtx.AgencyID.String(), *req.TotalSeats); err != nil {
			if errors.Is(err, database.ErrBusInUse) {
				respondError(c, h.logger, &services.ConflictError{
					Reason: "bus capacity cannot change while scheduled trips reference it",
				})
				return
			}
			respondError(c, h.logger, notFoundIfNoRows(err, "bus", busID))
			return
		}
		bus.TotalSeats = *req.TotalSeats
	}

	if req.BusNumber != nil {
		bus.BusNumber = *req.BusNumber
	}
	if req.LicensePlate != nil {
		bus.LicensePlate = *req.LicensePlate
	}
	if req.Status != nil {
		status, ok := models.ParseBusStatus(*req.Status)
		if !ok {
			respondError(c, h.logger, services.NewValidationError("status", "unknown bus status %q", *req.Status))
			return
		}
		bus.Status = status
	}

	if err := h.busRepo.Update(bus); err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, bus)
}
