package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/transitly/booking-backend/internal/models"
	"github.com/transitly/booking-backend/internal/services"
)

// AvailabilityHandler handles seat availability and temporary hold endpoints
type AvailabilityHandler struct {
	availabilityService *services.SeatAvailabilityService
	scheduleService     *services.ScheduleService
}

// NewAvailabilityHandler creates a new AvailabilityHandler
func NewAvailabilityHandler(
	availabilityService *services.SeatAvailabilityService,
	scheduleService *services.ScheduleService,
) *AvailabilityHandler {
	return &AvailabilityHandler{
		availabilityService: availabilityService,
		scheduleService:     scheduleService,
	}
}

// reserveSeatsRequest is the body for placing and releasing temporary holds
type reserveSeatsRequest struct {
	SeatNumbers    []string `json:"seat_numbers" binding:"required"`
	SessionID      string   `json:"session_id" binding:"required"`
	TimeoutMinutes int      `json:"timeout_minutes"`
}

// GetAvailability returns the merged availability snapshot for a schedule
// @Summary Get seat availability for a schedule
// @Tags Availability
// @Produce json
// @Param id path int true "Schedule ID"
// @Success 200 {object} models.SeatAvailability
// @Router /api/v1/schedules/{id}/availability [get]
func (h *AvailabilityHandler) GetAvailability(c *gin.Context) {
	scheduleID, err := parseIDParam(c, "id")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid schedule ID"})
		return
	}

	availability, err := h.availabilityService.GetSeatAvailability(scheduleID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get seat availability"})
		return
	}

	c.JSON(http.StatusOK, availability)
}

// GetSeatLayout returns the vehicle layout with the availability overlay.
// The vehicle type comes from the schedule; a vehicle_type query parameter
// overrides it.
// @Summary Get the seat layout for a schedule with live availability
// @Tags Availability
// @Produce json
// @Param id path int true "Schedule ID"
// @Param vehicle_type query string false "bus, train, or ferry"
// @Success 200 {object} models.SeatLayoutResponse
// @Router /api/v1/schedules/{id}/seat-layout [get]
func (h *AvailabilityHandler) GetSeatLayout(c *gin.Context) {
	scheduleID, err := parseIDParam(c, "id")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid schedule ID"})
		return
	}

	vehicleType := models.VehicleType(c.Query("vehicle_type"))
	if vehicleType == "" {
		vehicleType, err = h.scheduleService.GetVehicleType(scheduleID)
		if err != nil {
			if _, ok := err.(*models.NotFoundError); ok {
				c.JSON(http.StatusNotFound, gin.H{"error": "Schedule not found"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get schedule"})
			return
		}
	}

	layout, err := h.availabilityService.GetSeatLayoutWithAvailability(scheduleID, vehicleType)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get seat layout"})
		return
	}

	c.JSON(http.StatusOK, layout)
}

// ReserveSeats places temporary holds on the requested seats
// @Summary Temporarily hold seats for a checkout session
// @Tags Availability
// @Accept json
// @Produce json
// @Param id path int true "Schedule ID"
// @Param request body reserveSeatsRequest true "Seats and session"
// @Success 200 {object} models.ReserveSeatsResult
// @Failure 409 {object} map[string]interface{} "Seats already taken"
// @Router /api/v1/schedules/{id}/reserve-seats [post]
func (h *AvailabilityHandler) ReserveSeats(c *gin.Context) {
	scheduleID, err := parseIDParam(c, "id")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid schedule ID"})
		return
	}

	var req reserveSeatsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "details": err.Error()})
		return
	}

	timeout := time.Duration(req.TimeoutMinutes) * time.Minute
	result, err := h.availabilityService.ReserveSeatsTemporary(scheduleID, req.SeatNumbers, req.SessionID, timeout)
	if err != nil {
		switch e := err.(type) {
		case *models.ConflictError:
			c.JSON(http.StatusConflict, gin.H{"error": e.Error(), "seats": e.Seats})
		case *models.ValidationError:
			c.JSON(http.StatusBadRequest, gin.H{"error": e.Error()})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to reserve seats"})
		}
		return
	}

	c.JSON(http.StatusOK, result)
}

// ReleaseSeats removes the session's holds on the given seats
// @Summary Release temporarily held seats
// @Tags Availability
// @Accept json
// @Param id path int true "Schedule ID"
// @Param request body reserveSeatsRequest true "Seats and session"
// @Success 204 "Holds released"
// @Router /api/v1/schedules/{id}/reserve-seats [delete]
func (h *AvailabilityHandler) ReleaseSeats(c *gin.Context) {
	scheduleID, err := parseIDParam(c, "id")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid schedule ID"})
		return
	}

	var req reserveSeatsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "details": err.Error()})
		return
	}

	if _, err := h.availabilityService.ReleaseSeatsTemporary(scheduleID, req.SeatNumbers, req.SessionID); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to release seats"})
		return
	}

	c.Status(http.StatusNoContent)
}

// CleanupExpired triggers an immediate sweep of expired holds
// @Summary Delete expired temporary seat holds
// @Tags Availability
// @Produce json
// @Success 200 {object} map[string]interface{} "Count of removed holds"
// @Router /api/v1/cleanup-expired-reservations [post]
func (h *AvailabilityHandler) CleanupExpired(c *gin.Context) {
	removed, err := h.availabilityService.CleanupExpiredReservations()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to clean up reservations"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"removed": removed})
}

// parseIDParam parses a positive int64 path parameter
func parseIDParam(c *gin.Context, name string) (int64, error) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		return 0, &models.ValidationError{Field: name, Message: "must be a positive integer"}
	}
	return id, nil
}
