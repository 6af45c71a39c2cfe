package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/swifttransit/busline-backend/internal/database"
	"github.com/swifttransit/busline-backend/internal/middleware"
	"github.com/swifttransit/busline-backend/internal/models"
)

// RouteHandler exposes route management for an agency
type RouteHandler struct {
	routeRepo *database.RouteRepository
	logger    *logrus.Logger
}

// NewRouteHandler creates a new RouteHandler
func NewRouteHandler(routeRepo *database.RouteRepository, logger *logrus.Logger) *RouteHandler {
	return &RouteHandler{routeRepo: routeRepo, logger: logger}
}

// CreateRoute creates a route with its ordered intermediate stops
// POST /api/v1/routes
func (h *RouteHandler) CreateRoute(c *gin.Context) {
	agencyCtx, exists := middleware.GetAgencyContext(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	var req models.CreateRouteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	route := &models.Route{
		AgencyID:          agencyCtx.AgencyID.String(),
		Name:              req.Name,
		DepartureCity:     req.DepartureCity,
		DepartureLocation: req.DepartureLocation,
		ArrivalCity:       req.ArrivalCity,
		ArrivalLocation:   req.ArrivalLocation,
	}
	for _, stop := range req.Stops {
		route.Stops = append(route.Stops, models.RouteStop{City: stop.City, Location: stop.Location})
	}

	if err := h.routeRepo.Create(route); err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusCreated, route)
}

// ListRoutes returns all routes owned by the calling agency
// GET /api/v1/routes
func (h *RouteHandler) ListRoutes(c *gin.Context) {
	agencyCtx, exists := middleware.GetAgencyContext(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	routes, err := h.routeRepo.ListByAgency(agencyCtx.AgencyID.String())
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"routes": routes, "count": len(routes)})
}

// GetRoute returns one route with its stops
// GET /api/v1/routes/:id
func (h *RouteHandler) GetRoute(c *gin.Context) {
	agencyCtx, exists := middleware.GetAgencyContext(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}
	routeID := c.Param("id")

	route, err := h.routeRepo.GetByID(routeID, agencyCtx.AgencyID.String())
	if err != nil {
		respondError(c, h.logger, notFoundIfNoRows(err, "route", routeID))
		return
	}

	c.JSON(http.StatusOK, route)
}
