package services

import (
	"fmt"
	"math"

	"github.com/sirupsen/logrus"
	"github.com/transitly/booking-backend/internal/database"
	"github.com/transitly/booking-backend/internal/models"
)

// AmountTolerance is the maximum accepted drift between a supplied payment
// amount and the recomputed total.
const AmountTolerance = 0.01

// BookingValidationService runs the pre-flight checks for booking and
// payment requests. All checks return structured results; only
// infrastructure failures surface as errors.
type BookingValidationService struct {
	bookingRepo  *database.BookingRepository
	scheduleRepo *database.ScheduleRepository
	logger       *logrus.Logger
}

// NewBookingValidationService creates a new BookingValidationService
func NewBookingValidationService(
	bookingRepo *database.BookingRepository,
	scheduleRepo *database.ScheduleRepository,
	logger *logrus.Logger,
) *BookingValidationService {
	return &BookingValidationService{
		bookingRepo:  bookingRepo,
		scheduleRepo: scheduleRepo,
		logger:       logger,
	}
}

// ValidateSeatAvailability scans the requested seats one by one against
// non-cancelled bookings and reports the first conflict. This is advisory;
// the booking transaction re-checks under its own snapshot.
func (s *BookingValidationService) ValidateSeatAvailability(scheduleID int64, seats []string) (*models.SeatAvailabilityCheck, error) {
	taken, err := s.bookingRepo.GetActiveSeatNumbers(scheduleID)
	if err != nil {
		return nil, err
	}

	takenSet := make(map[string]bool, len(taken))
	for _, seat := range taken {
		takenSet[seat] = true
	}

	for _, seat := range seats {
		if takenSet[seat] {
			return &models.SeatAvailabilityCheck{
				Valid:           false,
				ConflictingSeat: seat,
				Reason:          fmt.Sprintf("seat %s is already booked", seat),
			}, nil
		}
	}
	return &models.SeatAvailabilityCheck{Valid: true}, nil
}

// ValidateRoundTripBooking checks both legs of a round-trip request and
// collects every failure instead of stopping at the first: schedule
// existence, bookable status, and remaining capacity per leg.
func (s *BookingValidationService) ValidateRoundTripBooking(req *models.RoundTripBookingRequest) (*models.RoundTripCheck, error) {
	check := &models.RoundTripCheck{Valid: true}

	legs := []struct {
		name string
		leg  models.TripLeg
	}{
		{"outbound", req.Outbound},
		{"return", req.Return},
	}

	for _, l := range legs {
		if len(l.leg.SeatNumbers) == 0 {
			check.Errors = append(check.Errors, fmt.Sprintf("%s: no seats selected", l.name))
			continue
		}

		schedule, err := s.scheduleRepo.GetByID(l.leg.ScheduleID)
		if err != nil {
			return nil, err
		}
		if schedule == nil {
			check.Errors = append(check.Errors, fmt.Sprintf("%s: schedule %d not found", l.name, l.leg.ScheduleID))
			continue
		}
		if !schedule.IsBookable() {
			check.Errors = append(check.Errors, fmt.Sprintf("%s: schedule %d is not available for booking", l.name, l.leg.ScheduleID))
		}
		if schedule.AvailableSeats < len(l.leg.SeatNumbers) {
			check.Errors = append(check.Errors, fmt.Sprintf("%s: schedule %d does not have enough seats", l.name, l.leg.ScheduleID))
		}

		seatCheck, err := s.ValidateSeatAvailability(l.leg.ScheduleID, l.leg.SeatNumbers)
		if err != nil {
			return nil, err
		}
		if !seatCheck.Valid {
			check.Errors = append(check.Errors, fmt.Sprintf("%s: %s", l.name, seatCheck.Reason))
		}
	}

	check.Valid = len(check.Errors) == 0
	return check, nil
}

// ValidatePaymentAmount recomputes the payable total from stored prices and
// compares the supplied amount within AmountTolerance. The client's figure is
// never trusted.
func (s *BookingValidationService) ValidatePaymentAmount(bookingID int64, isRoundTrip bool, provided float64) (*models.AmountCheck, error) {
	var calculated float64
	var err error
	if isRoundTrip {
		calculated, err = s.bookingRepo.GetAuthoritativeRoundTripAmount(bookingID)
	} else {
		calculated, err = s.bookingRepo.GetAuthoritativeAmount(bookingID)
	}
	if err != nil {
		if _, ok := err.(*models.NotFoundError); ok {
			return &models.AmountCheck{
				Valid:          false,
				ProvidedAmount: provided,
				Reason:         err.Error(),
			}, nil
		}
		return nil, err
	}

	check := &models.AmountCheck{
		CalculatedAmount: calculated,
		ProvidedAmount:   provided,
	}
	if math.Abs(calculated-provided) > AmountTolerance {
		check.Reason = (&models.AmountMismatchError{Expected: calculated, Provided: provided}).Error()
		s.logger.WithFields(logrus.Fields{
			"booking_id": bookingID,
			"expected":   calculated,
			"provided":   provided,
		}).Warn("Payment amount mismatch")
		return check, nil
	}
	check.Valid = true
	return check, nil
}

// ValidateBookingForPayment reports whether a booking can accept a payment:
// it must exist, not be cancelled, and not already be paid. Round-trip ids
// are resolved to both legs; a single paid or cancelled leg makes the whole
// trip ineligible.
func (s *BookingValidationService) ValidateBookingForPayment(bookingID int64, isRoundTrip bool) (*models.PaymentEligibilityCheck, error) {
	legIDs := []int64{bookingID}
	if isRoundTrip {
		rt, err := s.bookingRepo.GetRoundTripByID(bookingID)
		if err != nil {
			return nil, err
		}
		if rt == nil {
			return &models.PaymentEligibilityCheck{
				Valid:  false,
				Reason: fmt.Sprintf("booking %d not found", bookingID),
			}, nil
		}
		legIDs = []int64{rt.OutboundBookingID, rt.ReturnBookingID}
	}

	for _, legID := range legIDs {
		booking, err := s.bookingRepo.GetPaymentState(legID)
		if err != nil {
			return nil, err
		}
		if booking == nil {
			return &models.PaymentEligibilityCheck{
				Valid:  false,
				Reason: fmt.Sprintf("booking %d not found", legID),
			}, nil
		}
		if booking.Status == models.BookingStatusCancelled {
			return &models.PaymentEligibilityCheck{
				Valid:  false,
				Reason: fmt.Sprintf("booking %d is cancelled", legID),
			}, nil
		}
		if booking.PaymentStatus == models.PaymentStatusPaid {
			return &models.PaymentEligibilityCheck{
				Valid:  false,
				Reason: fmt.Sprintf("booking %d is already paid", legID),
			}, nil
		}
	}
	return &models.PaymentEligibilityCheck{Valid: true}, nil
}
