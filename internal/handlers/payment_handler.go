package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/transitly/booking-backend/internal/database"
	"github.com/transitly/booking-backend/internal/models"
	"github.com/transitly/booking-backend/internal/services"
)

// PaymentHandler handles payment intent creation and the gateway webhook
type PaymentHandler struct {
	gatewayService    *services.PaymentGatewayService
	validationService *services.BookingValidationService
	bookingService    *services.BookingService
	logger            *logrus.Logger
}

// NewPaymentHandler creates a new PaymentHandler
func NewPaymentHandler(
	gatewayService *services.PaymentGatewayService,
	validationService *services.BookingValidationService,
	bookingService *services.BookingService,
	logger *logrus.Logger,
) *PaymentHandler {
	return &PaymentHandler{
		gatewayService:    gatewayService,
		validationService: validationService,
		bookingService:    bookingService,
		logger:            logger,
	}
}

// CreatePaymentIntent validates a booking and creates a gateway intent. The
// supplied amount must match the recomputed total; the client's figure is
// never charged as-is.
// @Summary Create a payment intent for a booking
// @Tags Payments
// @Accept json
// @Produce json
// @Param request body models.CreatePaymentIntentRequest true "Intent request"
// @Success 200 {object} models.PaymentIntentResponse
// @Failure 400 {object} map[string]interface{} "Validation failed"
// @Router /api/v1/payments/intent [post]
func (h *PaymentHandler) CreatePaymentIntent(c *gin.Context) {
	var req models.CreatePaymentIntentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "details": err.Error()})
		return
	}

	eligibility, err := h.validationService.ValidateBookingForPayment(req.BookingID, req.IsRoundTrip)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to validate booking"})
		return
	}
	if !eligibility.Valid {
		c.JSON(http.StatusBadRequest, gin.H{"error": eligibility.Reason})
		return
	}

	amountCheck, err := h.validationService.ValidatePaymentAmount(req.BookingID, req.IsRoundTrip, req.Amount)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to validate amount"})
		return
	}
	if !amountCheck.Valid {
		c.JSON(http.StatusBadRequest, gin.H{"error": amountCheck.Reason})
		return
	}

	intent, err := h.gatewayService.CreateIntent(amountCheck.CalculatedAmount, req.Currency)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create payment intent"})
		return
	}

	// Audit record only; the webhook finalizer does not depend on it
	if _, err := h.bookingService.RecordPaymentIntent(
		req.BookingID, intent.Amount, intent.Currency, req.Method, intent.IntentID, req.IsRoundTrip,
	); err != nil {
		h.logger.WithError(err).WithField("booking_id", req.BookingID).
			Warn("Failed to record payment intent")
	}

	c.JSON(http.StatusOK, intent)
}

// Webhook receives asynchronous payment notifications from the gateway and
// finalizes bookings. The gateway retries on non-2xx, so every handled
// notification is acknowledged with 200 even when processing fails; failures
// are logged for investigation instead of triggering endless redelivery.
// @Summary Payment gateway webhook
// @Tags Payments
// @Accept json
// @Produce json
// @Router /api/v1/payments/webhook [post]
func (h *PaymentHandler) Webhook(c *gin.Context) {
	var notification models.PaymentNotification
	if err := c.ShouldBindJSON(&notification); err != nil {
		h.logger.WithError(err).Warn("Webhook payload undecodable")
		c.JSON(http.StatusOK, gin.H{"received": true})
		return
	}

	if err := h.gatewayService.VerifyNotification(&notification); err != nil {
		h.logger.WithError(err).WithField("transaction_id", notification.TransactionID).
			Warn("Webhook verification failed")
		c.JSON(http.StatusOK, gin.H{"received": true})
		return
	}

	if !h.gatewayService.IsPaymentSuccessful(&notification) {
		h.logger.WithFields(logrus.Fields{
			"transaction_id": notification.TransactionID,
			"status":         notification.Status,
		}).Info("Ignoring non-success payment notification")
		c.JSON(http.StatusOK, gin.H{"received": true})
		return
	}

	h.finalize(&notification)
	c.JSON(http.StatusOK, gin.H{"received": true})
}

// finalize materializes the booking described by the notification metadata
func (h *PaymentHandler) finalize(n *models.PaymentNotification) {
	meta, err := models.ParsePaymentMetadata(n.Metadata)
	if err != nil {
		h.logger.WithError(err).WithField("transaction_id", n.TransactionID).
			Error("Webhook metadata invalid, booking not created")
		return
	}

	if meta.IsRoundTrip {
		_, err = h.bookingService.CreateRoundTripBookingAfterPayment(meta.RoundTrip, meta.SessionID, n.TransactionID)
	} else {
		_, err = h.bookingService.CreateOneWayBookingAfterPayment(meta.OneWay, meta.SessionID, n.TransactionID)
	}

	if err != nil {
		if errors.Is(err, database.ErrDuplicatePayment) {
			h.logger.WithField("transaction_id", n.TransactionID).
				Info("Duplicate payment notification, booking already finalized")
			return
		}
		h.logger.WithError(err).WithField("transaction_id", n.TransactionID).
			Error("Failed to finalize booking from payment")
	}
}
