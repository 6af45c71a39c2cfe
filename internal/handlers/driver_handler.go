package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/swifttransit/busline-backend/internal/database"
	"github.com/swifttransit/busline-backend/internal/middleware"
	"github.com/swifttransit/busline-backend/internal/models"
)

// DriverHandler exposes driver management for an agency
type DriverHandler struct {
	driverRepo *database.DriverRepository
	logger     *logrus.Logger
}

// NewDriverHandler creates a new DriverHandler
func NewDriverHandler(driverRepo *database.DriverRepository, logger *logrus.Logger) *DriverHandler {
	return &DriverHandler{driverRepo: driverRepo, logger: logger}
}

// CreateDriver registers a driver for the calling agency
// POST /api/v1/drivers
func (h *DriverHandler) CreateDriver(c *gin.Context) {
	agencyCtx, exists := middleware.GetAgencyContext(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	var req models.CreateDriverRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	driver := &models.Driver{
		AgencyID:      agencyCtx.AgencyID.String(),
		FullName:      req.FullName,
		Phone:         req.Phone,
		LicenseNumber: req.LicenseNumber,
		IsActive:      true,
	}

	if err := h.driverRepo.Create(driver); err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusCreated, driver)
}

// ListDrivers returns all drivers employed by the calling agency
// GET /api/v1/drivers
func (h *DriverHandler) ListDrivers(c *gin.Context) {
	agencyCtx, exists := middleware.GetAgencyContext(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	drivers, err := h.driverRepo.ListByAgency(agencyCtx.AgencyID.String())
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"drivers": drivers, "count": len(drivers)})
}

// GetDriver returns one driver
// GET /api/v1/drivers/:id
func (h *DriverHandler) GetDriver(c *gin.Context) {
	agencyCtx, exists := middleware.GetAgencyContext(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}
	driverID := c.Param("id")

	driver, err := h.driverRepo.GetByID(driverID, agencyCtx.AgencyID.String())
	if err != nil {
		respondError(c, h.logger, notFoundIfNoRows(err, "driver", driverID))
		return
	}

	c.JSON(http.StatusOK, driver)
}
