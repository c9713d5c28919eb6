package database

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/transitly/booking-backend/internal/models"
)

// ErrDuplicatePayment is returned when a booking-creating transaction finds
// the gateway transaction id already recorded. The first delivery of the
// notification created the booking; redeliveries are no-op successes.
var ErrDuplicatePayment = errors.New("payment already processed")

// BookingRepository handles booking database operations. Booking creation,
// capacity decrements, and payment records all commit inside one transaction;
// any failure rolls the whole operation back.
type BookingRepository struct {
	db *sqlx.DB
}

// NewBookingRepository creates a new BookingRepository
func NewBookingRepository(db *sqlx.DB) *BookingRepository {
	return &BookingRepository{db: db}
}

// ============================================================================
// READS
// ============================================================================

// GetActiveSeatNumbers returns every seat claimed by a non-cancelled booking
// for the schedule, with comma-delimited lists split.
func (r *BookingRepository) GetActiveSeatNumbers(scheduleID int64) ([]string, error) {
	var seatLists []string
	err := r.db.Select(&seatLists, `
		SELECT seat_number FROM bookings
		WHERE schedule_id = $1 AND status != 'cancelled'`, scheduleID)
	if err != nil {
		return nil, fmt.Errorf("failed to get active seats: %w", err)
	}

	seats := make([]string, 0)
	for _, list := range seatLists {
		seats = append(seats, models.SplitSeatList(list)...)
	}
	return seats, nil
}

// GetBookingByID retrieves a booking by id. Returns nil, nil when absent.
func (r *BookingRepository) GetBookingByID(id int64) (*models.Booking, error) {
	var booking models.Booking
	err := r.db.Get(&booking, `
		SELECT id, user_id, guest_id, schedule_id, seat_number, status,
		       payment_status, total_price, extra_luggage, offset_co2,
		       add_insurance, promo_code, created_at
		FROM bookings WHERE id = $1`, id)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get booking: %w", err)
	}
	return &booking, nil
}

// GetRoundTripByID retrieves a round-trip pairing by id. Returns nil, nil
// when absent.
func (r *BookingRepository) GetRoundTripByID(id int64) (*models.RoundTripBooking, error) {
	var rt models.RoundTripBooking
	err := r.db.Get(&rt, `
		SELECT id, outbound_booking_id, return_booking_id, created_at
		FROM round_trip_bookings WHERE id = $1`, id)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get round-trip booking: %w", err)
	}
	return &rt, nil
}

// GetBookingDetails returns the read model for one booking, joined with its
// schedule for travel date and authoritative price.
func (r *BookingRepository) GetBookingDetails(id int64) (*models.BookingDetails, error) {
	booking, err := r.GetBookingByID(id)
	if err != nil {
		return nil, err
	}
	if booking == nil {
		return nil, &models.NotFoundError{Resource: "booking", ID: id}
	}

	var departure time.Time
	if err := r.db.Get(&departure, `SELECT departure_time FROM schedules WHERE id = $1`, booking.ScheduleID); err != nil {
		return nil, fmt.Errorf("failed to get schedule for booking: %w", err)
	}

	var passenger *models.Guest
	if booking.GuestID != nil {
		var guest models.Guest
		err := r.db.Get(&guest, `
			SELECT id, first_name, last_name, email, phone
			FROM guests WHERE id = $1`, *booking.GuestID)
		if err != nil && err != sql.ErrNoRows {
			return nil, fmt.Errorf("failed to get guest for booking: %w", err)
		}
		if err == nil {
			passenger = &guest
		}
	}

	return &models.BookingDetails{
		ID:            booking.ID,
		IsRoundTrip:   false,
		Status:        booking.Status,
		PaymentStatus: booking.PaymentStatus,
		Passenger:     passenger,
		Trips: []models.TripDetails{{
			BookingID:  booking.ID,
			ScheduleID: booking.ScheduleID,
			TravelDate: departure,
			Seats:      booking.Seats(),
			Price:      booking.TotalPrice,
		}},
		TotalPaid:    booking.TotalPrice,
		ExtraLuggage: booking.ExtraLuggage,
		OffsetCO2:    booking.OffsetCO2,
		AddInsurance: booking.AddInsurance,
		PromoCode:    booking.PromoCode,
	}, nil
}

// GetRoundTripDetails returns the read model for a round-trip booking with
// both legs expanded.
func (r *BookingRepository) GetRoundTripDetails(id int64) (*models.BookingDetails, error) {
	rt, err := r.GetRoundTripByID(id)
	if err != nil {
		return nil, err
	}
	if rt == nil {
		return nil, &models.NotFoundError{Resource: "round-trip booking", ID: id}
	}

	details := &models.BookingDetails{ID: rt.ID, IsRoundTrip: true}
	for _, legID := range []int64{rt.OutboundBookingID, rt.ReturnBookingID} {
		leg, err := r.GetBookingDetails(legID)
		if err != nil {
			return nil, err
		}
		details.Trips = append(details.Trips, leg.Trips[0])
		details.TotalPaid += leg.TotalPaid
		if details.Passenger == nil {
			details.Passenger = leg.Passenger
		}
	}

	// Extras and promo are recorded on the outbound leg
	outbound, err := r.GetBookingByID(rt.OutboundBookingID)
	if err != nil {
		return nil, err
	}
	if outbound != nil {
		details.Status = outbound.Status
		details.PaymentStatus = outbound.PaymentStatus
		details.ExtraLuggage = outbound.ExtraLuggage
		details.OffsetCO2 = outbound.OffsetCO2
		details.AddInsurance = outbound.AddInsurance
		details.PromoCode = outbound.PromoCode
	}
	return details, nil
}

// ============================================================================
// BOOKING CREATION
// ============================================================================

// CreateOneWay creates a one-way booking in one atomic transaction:
// re-validate the schedule, re-validate every seat against non-cancelled
// bookings, insert the booking, decrement the capacity counter, and record
// the payment when a gateway transaction id is supplied. paid selects the
// post-payment finalization path (payment_status=paid).
func (r *BookingRepository) CreateOneWay(req *models.OneWayBookingRequest, paid bool, transactionID *string) (*models.BookingResult, error) {
	tx, err := r.db.Beginx()
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if transactionID != nil {
		if err := checkDuplicatePaymentTx(tx, *transactionID); err != nil {
			return nil, err
		}
	}

	guestID, err := upsertGuestTx(tx, req.UserID, req.PassengerInfo)
	if err != nil {
		return nil, err
	}

	booking, err := createSingleBookingTx(tx, models.TripLeg{
		ScheduleID:  req.ScheduleID,
		SeatNumbers: req.SeatNumbers,
	}, req.UserID, guestID, req.Extras, paid)
	if err != nil {
		return nil, err
	}

	// Apply promo discount to the single leg
	var discount float64
	if req.PromoCode != nil && *req.PromoCode != "" {
		discount, err = promoDiscountTx(tx, *req.PromoCode, booking.TotalPrice)
		if err != nil {
			return nil, err
		}
		if discount > 0 {
			booking.TotalPrice -= discount
			booking.PromoCode = req.PromoCode
			_, err = tx.Exec(
				`UPDATE bookings SET total_price = $1, promo_code = $2 WHERE id = $3`,
				booking.TotalPrice, *req.PromoCode, booking.ID,
			)
			if err != nil {
				return nil, fmt.Errorf("failed to apply promo discount: %w", err)
			}
		}
	}

	if transactionID != nil {
		if err := insertPaymentTx(tx, booking.ID, booking.TotalPrice, *transactionID, false); err != nil {
			return nil, err
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit booking: %w", err)
	}

	return &models.BookingResult{
		Booking:         booking,
		SeatCount:       len(req.SeatNumbers),
		TotalPrice:      booking.TotalPrice,
		DiscountApplied: discount,
	}, nil
}

// CreateRoundTrip creates outbound and return bookings plus their pairing
// record in one atomic transaction. Both legs succeed or neither exists; a
// failure on the return leg leaves no trace of the outbound leg. Promo
// discounts are split across the legs in proportion to their prices.
func (r *BookingRepository) CreateRoundTrip(req *models.RoundTripBookingRequest, paid bool, transactionID *string) (*models.RoundTripBookingResult, error) {
	tx, err := r.db.Beginx()
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if transactionID != nil {
		if err := checkDuplicatePaymentTx(tx, *transactionID); err != nil {
			return nil, err
		}
	}

	guestID, err := upsertGuestTx(tx, req.UserID, req.PassengerInfo)
	if err != nil {
		return nil, err
	}

	outbound, err := createSingleBookingTx(tx, req.Outbound, req.UserID, guestID, req.Extras, paid)
	if err != nil {
		return nil, err
	}
	returnLeg, err := createSingleBookingTx(tx, req.Return, req.UserID, guestID, req.Extras, paid)
	if err != nil {
		return nil, err
	}

	totalPrice := outbound.TotalPrice + returnLeg.TotalPrice

	var discount float64
	if req.PromoCode != nil && *req.PromoCode != "" {
		discount, err = promoDiscountTx(tx, *req.PromoCode, totalPrice)
		if err != nil {
			return nil, err
		}
		if discount > 0 {
			outboundDiscount := (outbound.TotalPrice / totalPrice) * discount
			returnDiscount := (returnLeg.TotalPrice / totalPrice) * discount
			_, err = tx.Exec(
				`UPDATE bookings SET total_price = total_price - $1, promo_code = $2 WHERE id = $3`,
				outboundDiscount, *req.PromoCode, outbound.ID,
			)
			if err != nil {
				return nil, fmt.Errorf("failed to apply outbound discount: %w", err)
			}
			_, err = tx.Exec(
				`UPDATE bookings SET total_price = total_price - $1, promo_code = $2 WHERE id = $3`,
				returnDiscount, *req.PromoCode, returnLeg.ID,
			)
			if err != nil {
				return nil, fmt.Errorf("failed to apply return discount: %w", err)
			}
		}
	}

	var roundTripID int64
	err = tx.QueryRowx(`
		INSERT INTO round_trip_bookings (outbound_booking_id, return_booking_id)
		VALUES ($1, $2) RETURNING id`,
		outbound.ID, returnLeg.ID,
	).Scan(&roundTripID)
	if err != nil {
		return nil, fmt.Errorf("failed to create round-trip record: %w", err)
	}

	if transactionID != nil {
		if err := insertPaymentTx(tx, roundTripID, totalPrice-discount, *transactionID, true); err != nil {
			return nil, err
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit round-trip booking: %w", err)
	}

	return &models.RoundTripBookingResult{
		ID:                roundTripID,
		OutboundBookingID: outbound.ID,
		ReturnBookingID:   returnLeg.ID,
		TotalPrice:        totalPrice - discount,
		DiscountApplied:   discount,
	}, nil
}

// createSingleBookingTx validates the schedule and seats for one leg and
// inserts the booking row plus the capacity decrement, all inside the
// caller's transaction.
func createSingleBookingTx(tx *sqlx.Tx, leg models.TripLeg, userID, guestID *int64, extras models.BookingExtras, paid bool) (*models.Booking, error) {
	if len(leg.SeatNumbers) == 0 {
		return nil, &models.ValidationError{Field: "seat_numbers", Message: "at least one seat is required"}
	}

	schedule, err := getScheduleTx(tx, leg.ScheduleID)
	if err != nil {
		return nil, err
	}
	if schedule == nil {
		return nil, &models.NotFoundError{Resource: "schedule", ID: leg.ScheduleID}
	}
	if !schedule.IsBookable() {
		return nil, &models.ValidationError{
			Field:   "schedule_id",
			Message: fmt.Sprintf("schedule %d is not available for booking", leg.ScheduleID),
		}
	}
	if schedule.AvailableSeats < len(leg.SeatNumbers) {
		return nil, &models.ValidationError{
			Field:   "seat_numbers",
			Message: fmt.Sprintf("schedule %d does not have enough seats", leg.ScheduleID),
		}
	}

	// Re-check every seat against non-cancelled bookings; the application may
	// have granted a hold, but the booking table is the durable claim.
	var seatLists []string
	err = tx.Select(&seatLists, `
		SELECT seat_number FROM bookings
		WHERE schedule_id = $1 AND status != 'cancelled'`, leg.ScheduleID)
	if err != nil {
		return nil, fmt.Errorf("failed to check seat availability: %w", err)
	}
	taken := make(map[string]bool)
	for _, list := range seatLists {
		for _, seat := range models.SplitSeatList(list) {
			taken[seat] = true
		}
	}
	var conflicts []string
	for _, seat := range leg.SeatNumbers {
		if taken[seat] {
			conflicts = append(conflicts, seat)
		}
	}
	if len(conflicts) > 0 {
		return nil, &models.ConflictError{ScheduleID: leg.ScheduleID, Seats: conflicts}
	}

	paymentStatus := models.PaymentStatusPending
	if paid {
		paymentStatus = models.PaymentStatusPaid
	}

	booking := &models.Booking{
		UserID:        userID,
		GuestID:       guestID,
		ScheduleID:    leg.ScheduleID,
		SeatNumber:    models.JoinSeatList(leg.SeatNumbers),
		Status:        models.BookingStatusBooked,
		PaymentStatus: paymentStatus,
		TotalPrice:    schedule.Price*float64(len(leg.SeatNumbers)) + extras.Price(),
		ExtraLuggage:  extras.Luggage,
		OffsetCO2:     extras.CO2,
		AddInsurance:  extras.Insurance,
	}

	err = tx.QueryRowx(`
		INSERT INTO bookings (
			user_id, guest_id, schedule_id, seat_number,
			status, payment_status, total_price,
			extra_luggage, offset_co2, add_insurance
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id, created_at`,
		booking.UserID, booking.GuestID, booking.ScheduleID, booking.SeatNumber,
		booking.Status, booking.PaymentStatus, booking.TotalPrice,
		booking.ExtraLuggage, booking.OffsetCO2, booking.AddInsurance,
	).Scan(&booking.ID, &booking.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to create booking: %w", err)
	}

	if err := decrementAvailableSeatsTx(tx, leg.ScheduleID, len(leg.SeatNumbers)); err != nil {
		return nil, err
	}

	return booking, nil
}

// upsertGuestTx creates or refreshes the guest record for account-less
// bookings. Returns nil when the booking belongs to a registered user or no
// passenger info was supplied.
func upsertGuestTx(tx *sqlx.Tx, userID *int64, info *models.PassengerInfo) (*int64, error) {
	if userID != nil || info == nil {
		return nil, nil
	}

	var guestID int64
	err := tx.QueryRowx(`
		INSERT INTO guests (first_name, last_name, email, phone)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (email) DO UPDATE SET
			first_name = EXCLUDED.first_name,
			last_name = EXCLUDED.last_name,
			phone = EXCLUDED.phone
		RETURNING id`,
		info.FirstName, info.LastName, info.Email, info.Phone,
	).Scan(&guestID)
	if err != nil {
		return nil, fmt.Errorf("failed to upsert guest: %w", err)
	}
	return &guestID, nil
}

// promoDiscountTx returns the discount for an active, unexpired promo code.
// Unknown or inactive codes yield zero, not an error.
func promoDiscountTx(tx *sqlx.Tx, code string, totalPrice float64) (float64, error) {
	var promo models.PromoCode
	err := tx.Get(&promo, `
		SELECT id, code, discount_percent, max_uses, is_active, expiry_date
		FROM promo_codes WHERE code = $1 AND expiry_date > NOW()`, code)
	if err == sql.ErrNoRows {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("failed to look up promo code: %w", err)
	}
	if !promo.IsActive {
		return 0, nil
	}
	return totalPrice * (promo.DiscountPercent / 100), nil
}

// ============================================================================
// PAYMENTS
// ============================================================================

// checkDuplicatePaymentTx aborts the transaction with ErrDuplicatePayment
// when the gateway transaction id was already recorded.
func checkDuplicatePaymentTx(tx *sqlx.Tx, transactionID string) error {
	var count int
	if err := tx.Get(&count, `SELECT COUNT(*) FROM payments WHERE transaction_id = $1`, transactionID); err != nil {
		return fmt.Errorf("failed to check payment idempotency: %w", err)
	}
	if count > 0 {
		return ErrDuplicatePayment
	}
	return nil
}

// insertPaymentTx records a completed payment inside the booking transaction.
// The unique transaction_id constraint closes the race between concurrent
// deliveries of the same notification.
func insertPaymentTx(tx *sqlx.Tx, bookingID int64, amount float64, transactionID string, isRoundTrip bool) error {
	_, err := tx.Exec(`
		INSERT INTO payments (booking_id, amount, currency, method, transaction_id, status, is_round_trip)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		bookingID, amount, "MYR", "card", transactionID, models.PaymentRecordCompleted, isRoundTrip,
	)
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && string(pqErr.Code) == uniqueViolation {
			return ErrDuplicatePayment
		}
		return fmt.Errorf("failed to record payment: %w", err)
	}
	return nil
}

// CreatePaymentRecord logs a newly created payment intent for a pre-payment
// booking and returns the persisted audit row.
func (r *BookingRepository) CreatePaymentRecord(bookingID int64, amount float64, currency, method, transactionID string, isRoundTrip bool) (*models.Payment, error) {
	payment := &models.Payment{
		BookingID:     bookingID,
		Amount:        amount,
		Currency:      currency,
		Method:        method,
		TransactionID: transactionID,
		Status:        models.PaymentRecordCreated,
		IsRoundTrip:   isRoundTrip,
	}
	err := r.db.QueryRow(`
		INSERT INTO payments (booking_id, amount, currency, method, transaction_id, status, is_round_trip)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at`,
		bookingID, amount, currency, method, transactionID, models.PaymentRecordCreated, isRoundTrip,
	).Scan(&payment.ID, &payment.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to create payment record: %w", err)
	}
	return payment, nil
}

// MarkPaymentCompleted flips a payment record to completed by its gateway
// transaction id.
func (r *BookingRepository) MarkPaymentCompleted(transactionID string) error {
	_, err := r.db.Exec(
		`UPDATE payments SET status = $1 WHERE transaction_id = $2`,
		models.PaymentRecordCompleted, transactionID,
	)
	if err != nil {
		return fmt.Errorf("failed to complete payment record: %w", err)
	}
	return nil
}

// MarkBookingPaid confirms a pre-created one-way booking once its payment
// succeeds.
func (r *BookingRepository) MarkBookingPaid(bookingID int64) error {
	_, err := r.db.Exec(
		`UPDATE bookings SET payment_status = $1, status = $2 WHERE id = $3`,
		models.PaymentStatusPaid, models.BookingStatusConfirmed, bookingID,
	)
	if err != nil {
		return fmt.Errorf("failed to mark booking paid: %w", err)
	}
	return nil
}

// MarkRoundTripPaid confirms both legs of a pre-created round-trip booking
// together, keeping their payment lifecycles in step.
func (r *BookingRepository) MarkRoundTripPaid(roundTripID int64) error {
	_, err := r.db.Exec(`
		UPDATE bookings SET payment_status = $1, status = $2
		WHERE id IN (
			SELECT outbound_booking_id FROM round_trip_bookings WHERE id = $3
			UNION
			SELECT return_booking_id FROM round_trip_bookings WHERE id = $3
		)`,
		models.PaymentStatusPaid, models.BookingStatusConfirmed, roundTripID,
	)
	if err != nil {
		return fmt.Errorf("failed to mark round-trip paid: %w", err)
	}
	return nil
}

// ============================================================================
// VALIDATION READS
// ============================================================================

// paymentState is the status pair the payment-eligibility check inspects
type paymentState struct {
	Status        models.BookingStatus `db:"status"`
	PaymentStatus models.PaymentStatus `db:"payment_status"`
}

// GetPaymentState returns the status pair for one booking. Returns nil, nil
// when absent.
func (r *BookingRepository) GetPaymentState(bookingID int64) (*models.Booking, error) {
	var state paymentState
	err := r.db.Get(&state, `SELECT status, payment_status FROM bookings WHERE id = $1`, bookingID)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get booking state: %w", err)
	}
	return &models.Booking{ID: bookingID, Status: state.Status, PaymentStatus: state.PaymentStatus}, nil
}

// GetAuthoritativeAmount recomputes the payable total for a booking from the
// schedule price and seat count, ignoring any caller-supplied figure.
func (r *BookingRepository) GetAuthoritativeAmount(bookingID int64) (float64, error) {
	var row struct {
		Price      float64 `db:"price"`
		SeatNumber string  `db:"seat_number"`
	}
	err := r.db.Get(&row, `
		SELECT s.price, b.seat_number
		FROM bookings b
		JOIN schedules s ON b.schedule_id = s.id
		WHERE b.id = $1`, bookingID)
	if err == sql.ErrNoRows {
		return 0, &models.NotFoundError{Resource: "booking", ID: bookingID}
	}
	if err != nil {
		return 0, fmt.Errorf("failed to compute booking amount: %w", err)
	}
	return row.Price * float64(len(models.SplitSeatList(row.SeatNumber))), nil
}

// GetAuthoritativeRoundTripAmount recomputes the payable total across both
// legs of a round-trip booking.
func (r *BookingRepository) GetAuthoritativeRoundTripAmount(roundTripID int64) (float64, error) {
	rt, err := r.GetRoundTripByID(roundTripID)
	if err != nil {
		return 0, err
	}
	if rt == nil {
		return 0, &models.NotFoundError{Resource: "round-trip booking", ID: roundTripID}
	}

	var total float64
	for _, legID := range []int64{rt.OutboundBookingID, rt.ReturnBookingID} {
		amount, err := r.GetAuthoritativeAmount(legID)
		if err != nil {
			return 0, err
		}
		total += amount
	}
	return total, nil
}

// ============================================================================
// CANCELLATION
// ============================================================================

// CancelBooking cancels a booking and restores the schedule's capacity
// counter in the same transaction. Cancelling an already-cancelled booking is
// a no-op.
func (r *BookingRepository) CancelBooking(bookingID int64) error {
	tx, err := r.db.Beginx()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if err := cancelBookingTx(tx, bookingID); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit cancellation: %w", err)
	}
	return nil
}

// CancelRoundTrip cancels both legs of a round-trip booking atomically,
// restoring both schedules' capacity.
func (r *BookingRepository) CancelRoundTrip(roundTripID int64) error {
	rt, err := r.GetRoundTripByID(roundTripID)
	if err != nil {
		return err
	}
	if rt == nil {
		return &models.NotFoundError{Resource: "round-trip booking", ID: roundTripID}
	}

	tx, err := r.db.Beginx()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	for _, legID := range []int64{rt.OutboundBookingID, rt.ReturnBookingID} {
		if err := cancelBookingTx(tx, legID); err != nil {
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit cancellation: %w", err)
	}
	return nil
}

func cancelBookingTx(tx *sqlx.Tx, bookingID int64) error {
	var row struct {
		ScheduleID int64                `db:"schedule_id"`
		SeatNumber string               `db:"seat_number"`
		Status     models.BookingStatus `db:"status"`
	}
	err := tx.Get(&row, `SELECT schedule_id, seat_number, status FROM bookings WHERE id = $1`, bookingID)
	if err == sql.ErrNoRows {
		return &models.NotFoundError{Resource: "booking", ID: bookingID}
	}
	if err != nil {
		return fmt.Errorf("failed to get booking for cancellation: %w", err)
	}
	if row.Status == models.BookingStatusCancelled {
		return nil
	}

	_, err = tx.Exec(`UPDATE bookings SET status = $1 WHERE id = $2`, models.BookingStatusCancelled, bookingID)
	if err != nil {
		return fmt.Errorf("failed to cancel booking: %w", err)
	}

	seatCount := len(models.SplitSeatList(row.SeatNumber))
	return restoreAvailableSeatsTx(tx, row.ScheduleID, seatCount)
}
