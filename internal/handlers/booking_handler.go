package handlers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/transitly/booking-backend/internal/models"
	"github.com/transitly/booking-backend/internal/services"
)

// BookingHandler handles booking creation, retrieval, cancellation, and
// ticket download endpoints
type BookingHandler struct {
	bookingService    *services.BookingService
	validationService *services.BookingValidationService
	ticketService     *services.TicketService
}

// NewBookingHandler creates a new BookingHandler
func NewBookingHandler(
	bookingService *services.BookingService,
	validationService *services.BookingValidationService,
	ticketService *services.TicketService,
) *BookingHandler {
	return &BookingHandler{
		bookingService:    bookingService,
		validationService: validationService,
		ticketService:     ticketService,
	}
}

// CreateBooking creates a one-way booking awaiting payment
// @Summary Create a one-way booking
// @Tags Bookings
// @Accept json
// @Produce json
// @Param request body models.OneWayBookingRequest true "Booking request"
// @Success 201 {object} models.BookingResult
// @Failure 409 {object} map[string]interface{} "Seats already taken"
// @Router /api/v1/bookings [post]
func (h *BookingHandler) CreateBooking(c *gin.Context) {
	var req models.OneWayBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "details": err.Error()})
		return
	}

	result, err := h.bookingService.CreateOneWayBooking(&req)
	if err != nil {
		respondBookingError(c, err)
		return
	}

	c.JSON(http.StatusCreated, result)
}

// CreateRoundTripBooking creates both legs of a round-trip booking
// @Summary Create a round-trip booking
// @Tags Bookings
// @Accept json
// @Produce json
// @Param request body models.RoundTripBookingRequest true "Booking request"
// @Success 201 {object} models.RoundTripBookingResult
// @Failure 409 {object} map[string]interface{} "Seats already taken"
// @Router /api/v1/bookings/round-trip [post]
func (h *BookingHandler) CreateRoundTripBooking(c *gin.Context) {
	var req models.RoundTripBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "details": err.Error()})
		return
	}

	check, err := h.validationService.ValidateRoundTripBooking(&req)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to validate booking"})
		return
	}
	if !check.Valid {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Round-trip validation failed", "details": check.Errors})
		return
	}

	result, err := h.bookingService.CreateRoundTripBooking(&req)
	if err != nil {
		respondBookingError(c, err)
		return
	}

	c.JSON(http.StatusCreated, result)
}

// GetBooking returns the details of a booking
// @Summary Get booking details
// @Tags Bookings
// @Produce json
// @Param id path int true "Booking ID"
// @Param round_trip query bool false "Treat the id as a round-trip booking"
// @Success 200 {object} models.BookingDetails
// @Router /api/v1/bookings/{id} [get]
func (h *BookingHandler) GetBooking(c *gin.Context) {
	id, err := parseIDParam(c, "id")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid booking ID"})
		return
	}

	details, err := h.bookingService.GetBookingDetails(id, isRoundTripQuery(c))
	if err != nil {
		respondBookingError(c, err)
		return
	}

	c.JSON(http.StatusOK, details)
}

// CancelBooking cancels a booking and restores schedule capacity
// @Summary Cancel a booking
// @Tags Bookings
// @Produce json
// @Param id path int true "Booking ID"
// @Param round_trip query bool false "Treat the id as a round-trip booking"
// @Success 200 {object} map[string]interface{}
// @Router /api/v1/bookings/{id}/cancel [post]
func (h *BookingHandler) CancelBooking(c *gin.Context) {
	id, err := parseIDParam(c, "id")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid booking ID"})
		return
	}

	if err := h.bookingService.CancelBooking(id, isRoundTripQuery(c)); err != nil {
		respondBookingError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"cancelled": true})
}

// GetTicket streams the PDF ticket for a paid booking
// @Summary Download the PDF ticket for a booking
// @Tags Bookings
// @Produce application/pdf
// @Param id path int true "Booking ID"
// @Param round_trip query bool false "Treat the id as a round-trip booking"
// @Success 200 {file} binary
// @Router /api/v1/bookings/{id}/ticket [get]
func (h *BookingHandler) GetTicket(c *gin.Context) {
	id, err := parseIDParam(c, "id")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid booking ID"})
		return
	}

	pdf, filename, err := h.ticketService.GenerateTicket(id, isRoundTripQuery(c))
	if err != nil {
		respondBookingError(c, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
	c.Data(http.StatusOK, "application/pdf", pdf)
}

func isRoundTripQuery(c *gin.Context) bool {
	return c.Query("round_trip") == "true"
}

// respondBookingError maps domain errors onto HTTP statuses
func respondBookingError(c *gin.Context, err error) {
	switch e := err.(type) {
	case *models.ConflictError:
		c.JSON(http.StatusConflict, gin.H{"error": e.Error(), "seats": e.Seats})
	case *models.ValidationError:
		c.JSON(http.StatusBadRequest, gin.H{"error": e.Error()})
	case *models.NotFoundError:
		c.JSON(http.StatusNotFound, gin.H{"error": e.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
	}
}
