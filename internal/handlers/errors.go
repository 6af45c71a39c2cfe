package handlers

import (
	"database/sql"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/swifttransit/busline-backend/internal/services"
)

// respondError maps scheduling errors to HTTP responses. Validation problems
// are 400, unknown or foreign resources 404, scheduling conflicts and
// reservation guards 409. Anything else is a storage failure whose
// transaction has already been rolled back; the caller sees a generic 500.
func respondError(c *gin.Context, logger *logrus.Logger, err error) {
	var validationErr *services.ValidationError
	if errors.As(err, &validationErr) {
		c.JSON(http.StatusBadRequest, gin.H{"error": validationErr.Error()})
		return
	}

	var notFoundErr *services.NotFoundError
	if errors.As(err, &notFoundErr) {
		c.JSON(http.StatusNotFound, gin.H{"error": notFoundErr.Error()})
		return
	}

	var conflictErr *services.ConflictError
	if errors.As(err, &conflictErr) {
		body := gin.H{"error": conflictErr.Reason}
		if conflictErr.ConflictingCity != "" {
			body["conflicting_city"] = conflictErr.ConflictingCity
		}
		c.JSON(http.StatusConflict, body)
		return
	}

	var guardErr *services.GuardViolationError
	if errors.As(err, &guardErr) {
		c.JSON(http.StatusConflict, gin.H{
			"error":          guardErr.Error(),
			"blocking_seats": guardErr.BlockingSeats,
		})
		return
	}

	logger.WithError(err).Error("Request failed")
	c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
}

// notFoundIfNoRows converts a missing row into a NotFoundError so repository
// reads surface as 404 instead of 500
func notFoundIfNoRows(err error, resource, id string) error {
	if errors.Is(err, sql.ErrNoRows) {
		return &services.NotFoundError{Resource: resource, ID: id}
	}
	return err
}
