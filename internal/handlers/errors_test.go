package handlers

import (
	"database/sql"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/swifttransit/busline-backend/internal/services"
)

func TestRespondError(t *testing.T) {
	gin.SetMode(gin.TestMode)
	logger := logrus.New()
	logger.SetOutput(io.Discard)

	respond := func(err error) *httptest.ResponseRecorder {
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		respondError(c, logger, err)
		return w
	}

	t.Run("Validation Error Is 400", func(t *testing.T) {
		w := respond(services.NewValidationError("base_price", "must be positive, got %v", -5.0))

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), "base_price")
	})

	t.Run("Not Found Error Is 404", func(t *testing.T) {
		w := respond(&services.NotFoundError{Resource: "trip", ID: "abc"})

		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.Contains(t, w.Body.String(), "trip abc not found")
	})

	t.Run("Conflict Error Is 409 With City", func(t *testing.T) {
		w := respond(&services.ConflictError{
			Reason:          "bus arrives in Douala too late to reposition",
			ConflictingCity: "Douala",
		})

		assert.Equal(t, http.StatusConflict, w.Code)
		assert.Contains(t, w.Body.String(), `"conflicting_city":"Douala"`)
	})

	t.Run("Conflict Error Without City Omits Field", func(t *testing.T) {
		w := respond(&services.ConflictError{Reason: "bus is already committed"})

		assert.Equal(t, http.StatusConflict, w.Code)
		assert.NotContains(t, w.Body.String(), "conflicting_city")
	})

	t.Run("Guard Violation Is 409 With Seat Count", func(t *testing.T) {
		w := respond(&services.GuardViolationError{TripID: "abc", BlockingSeats: 3, Operation: "deletion"})

		assert.Equal(t, http.StatusConflict, w.Code)
		assert.Contains(t, w.Body.String(), `"blocking_seats":3`)
	})

	t.Run("Unknown Error Is Opaque 500", func(t *testing.T) {
		w := respond(fmt.Errorf("pq: connection refused"))

		assert.Equal(t, http.StatusInternalServerError, w.Code)
		assert.Contains(t, w.Body.String(), "Internal server error")
		assert.NotContains(t, w.Body.String(), "connection refused")
	})
}

func TestNotFoundIfNoRows(t *testing.T) {
	err := notFoundIfNoRows(sql.ErrNoRows, "bus", "b-1")

	var notFoundErr *services.NotFoundError
	assert.ErrorAs(t, err, &notFoundErr)
	assert.Equal(t, "bus", notFoundErr.Resource)

	original := fmt.Errorf("some other failure")
	assert.Equal(t, original, notFoundIfNoRows(original, "bus", "b-1"))
}
