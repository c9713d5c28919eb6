package services

import (
	"github.com/sirupsen/logrus"
	"github.com/transitly/booking-backend/internal/database"
	"github.com/transitly/booking-backend/internal/models"
)

// BookingService orchestrates booking creation, payment finalization, and
// cancellation on top of the transactional repository. It adds logging and
// post-commit hold release; atomicity lives in the repository.
type BookingService struct {
	bookingRepo         *database.BookingRepository
	availabilityService *SeatAvailabilityService
	logger              *logrus.Logger
}

// NewBookingService creates a new BookingService
func NewBookingService(
	bookingRepo *database.BookingRepository,
	availabilityService *SeatAvailabilityService,
	logger *logrus.Logger,
) *BookingService {
	return &BookingService{
		bookingRepo:         bookingRepo,
		availabilityService: availabilityService,
		logger:              logger,
	}
}

// ============================================================================
// PRE-PAYMENT CREATION
// ============================================================================

// CreateOneWayBooking creates a one-way booking awaiting payment
// (status booked, payment pending).
func (s *BookingService) CreateOneWayBooking(req *models.OneWayBookingRequest) (*models.BookingResult, error) {
	result, err := s.bookingRepo.CreateOneWay(req, false, nil)
	if err != nil {
		return nil, err
	}

	s.releaseHolds(req.ScheduleID, req.SeatNumbers, "")
	s.logger.WithFields(logrus.Fields{
		"booking_id":  result.Booking.ID,
		"schedule_id": req.ScheduleID,
		"seats":       req.SeatNumbers,
		"total_price": result.TotalPrice,
	}).Info("One-way booking created")
	return result, nil
}

// CreateRoundTripBooking creates both legs of a round-trip booking awaiting
// payment. Both legs commit together or not at all.
func (s *BookingService) CreateRoundTripBooking(req *models.RoundTripBookingRequest) (*models.RoundTripBookingResult, error) {
	result, err := s.bookingRepo.CreateRoundTrip(req, false, nil)
	if err != nil {
		return nil, err
	}

	s.releaseHolds(req.Outbound.ScheduleID, req.Outbound.SeatNumbers, "")
	s.releaseHolds(req.Return.ScheduleID, req.Return.SeatNumbers, "")
	s.logger.WithFields(logrus.Fields{
		"round_trip_id": result.ID,
		"outbound_id":   result.OutboundBookingID,
		"return_id":     result.ReturnBookingID,
		"total_price":   result.TotalPrice,
	}).Info("Round-trip booking created")
	return result, nil
}

// ============================================================================
// POST-PAYMENT CREATION
// ============================================================================

// CreateOneWayBookingAfterPayment materializes a one-way booking from
// verified payment metadata. The booking is created already paid; a repeated
// transaction id surfaces as database.ErrDuplicatePayment.
func (s *BookingService) CreateOneWayBookingAfterPayment(meta *models.OneWayPaymentMetadata, sessionID, transactionID string) (*models.BookingResult, error) {
	req := &models.OneWayBookingRequest{
		ScheduleID:    meta.ScheduleID,
		SeatNumbers:   meta.SeatNumbers,
		PassengerInfo: meta.PassengerInfo,
		UserID:        meta.UserID,
		Extras:        meta.Extras,
		PromoCode:     meta.PromoCode,
	}

	result, err := s.bookingRepo.CreateOneWay(req, true, &transactionID)
	if err != nil {
		return nil, err
	}

	s.releaseHolds(meta.ScheduleID, meta.SeatNumbers, sessionID)
	s.logger.WithFields(logrus.Fields{
		"booking_id":     result.Booking.ID,
		"schedule_id":    meta.ScheduleID,
		"seats":          meta.SeatNumbers,
		"transaction_id": transactionID,
	}).Info("One-way booking finalized from payment")
	return result, nil
}

// CreateRoundTripBookingAfterPayment materializes both legs of a round-trip
// booking from verified payment metadata, already paid.
func (s *BookingService) CreateRoundTripBookingAfterPayment(meta *models.RoundTripPaymentMetadata, sessionID, transactionID string) (*models.RoundTripBookingResult, error) {
	req := &models.RoundTripBookingRequest{
		Outbound:      meta.Outbound,
		Return:        meta.Return,
		PassengerInfo: meta.PassengerInfo,
		UserID:        meta.UserID,
		Extras:        meta.Extras,
		PromoCode:     meta.PromoCode,
	}

	result, err := s.bookingRepo.CreateRoundTrip(req, true, &transactionID)
	if err != nil {
		return nil, err
	}

	s.releaseHolds(meta.Outbound.ScheduleID, meta.Outbound.SeatNumbers, sessionID)
	s.releaseHolds(meta.Return.ScheduleID, meta.Return.SeatNumbers, sessionID)
	s.logger.WithFields(logrus.Fields{
		"round_trip_id":  result.ID,
		"outbound_id":    result.OutboundBookingID,
		"return_id":      result.ReturnBookingID,
		"transaction_id": transactionID,
	}).Info("Round-trip booking finalized from payment")
	return result, nil
}

// ProcessSuccessfulPayment confirms a pre-created booking once its payment
// succeeds: payment status paid, booking status confirmed, payment record
// completed.
func (s *BookingService) ProcessSuccessfulPayment(bookingID int64, isRoundTrip bool, transactionID string) error {
	var err error
	if isRoundTrip {
		err = s.bookingRepo.MarkRoundTripPaid(bookingID)
	} else {
		err = s.bookingRepo.MarkBookingPaid(bookingID)
	}
	if err != nil {
		return err
	}

	if err := s.bookingRepo.MarkPaymentCompleted(transactionID); err != nil {
		s.logger.WithError(err).WithField("transaction_id", transactionID).Warn("Failed to complete payment record")
	}

	s.logger.WithFields(logrus.Fields{
		"booking_id":     bookingID,
		"is_round_trip":  isRoundTrip,
		"transaction_id": transactionID,
	}).Info("Payment processed, booking confirmed")
	return nil
}

// RecordPaymentIntent logs a freshly created gateway intent against its
// booking so the webhook can later complete it.
func (s *BookingService) RecordPaymentIntent(bookingID int64, amount float64, currency, method, intentID string, isRoundTrip bool) (*models.Payment, error) {
	if method == "" {
		method = "card"
	}
	payment, err := s.bookingRepo.CreatePaymentRecord(bookingID, amount, currency, method, intentID, isRoundTrip)
	if err != nil {
		return nil, err
	}
	s.logger.WithFields(logrus.Fields{
		"payment_id":     payment.ID,
		"booking_id":     payment.BookingID,
		"transaction_id": payment.TransactionID,
		"amount":         payment.Amount,
	}).Info("Payment intent recorded")
	return payment, nil
}

// ============================================================================
// READS AND CANCELLATION
// ============================================================================

// GetBookingDetails returns the read model for a one-way or round-trip
// booking.
func (s *BookingService) GetBookingDetails(id int64, isRoundTrip bool) (*models.BookingDetails, error) {
	if isRoundTrip {
		return s.bookingRepo.GetRoundTripDetails(id)
	}
	return s.bookingRepo.GetBookingDetails(id)
}

// CancelBooking cancels a booking and returns its seats to the schedule's
// capacity counter. Round trips cancel both legs together.
func (s *BookingService) CancelBooking(id int64, isRoundTrip bool) error {
	var err error
	if isRoundTrip {
		err = s.bookingRepo.CancelRoundTrip(id)
	} else {
		err = s.bookingRepo.CancelBooking(id)
	}
	if err != nil {
		return err
	}

	s.logger.WithFields(logrus.Fields{
		"booking_id":    id,
		"is_round_trip": isRoundTrip,
	}).Info("Booking cancelled")
	return nil
}

// releaseHolds drops temporary holds on seats that just became durable
// bookings. When the checkout session is known the release is scoped to it;
// otherwise any hold on the seats is dropped. The booking already committed;
// failures here only delay hold expiry, so they are logged and swallowed.
func (s *BookingService) releaseHolds(scheduleID int64, seats []string, sessionID string) {
	var err error
	if sessionID != "" {
		_, err = s.availabilityService.ReleaseSeatsTemporary(scheduleID, seats, sessionID)
	} else {
		err = s.availabilityService.ReleaseSeatsAfterBooking(scheduleID, seats)
	}
	if err != nil {
		s.logger.WithError(err).WithFields(logrus.Fields{
			"schedule_id": scheduleID,
			"session_id":  sessionID,
			"seats":       seats,
		}).Warn("Failed to release seat holds after booking")
	}
}
