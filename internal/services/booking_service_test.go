package services

import (
	"errors"
	"io"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/transitly/booking-backend/internal/database"
	"github.com/transitly/booking-backend/internal/models"
)

func testTime() time.Time {
	return time.Date(2026, 9, 15, 8, 30, 0, 0, time.UTC)
}

func roundTripRequest(outboundID int64, outboundSeats []string, returnID int64, returnSeats []string) *models.RoundTripBookingRequest {
	return &models.RoundTripBookingRequest{
		Outbound: models.TripLeg{ScheduleID: outboundID, SeatNumbers: outboundSeats},
		Return:   models.TripLeg{ScheduleID: returnID, SeatNumbers: returnSeats},
		PassengerInfo: &models.PassengerInfo{
			FirstName: "Aina",
			LastName:  "Rahman",
			Email:     "aina@example.com",
			Phone:     "+60123456789",
		},
	}
}

func newBookingService(t *testing.T) (*BookingService, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	sqlxDB := sqlx.NewDb(db, "sqlmock")
	logger := logrus.New()
	logger.SetOutput(io.Discard)

	availabilityService := NewSeatAvailabilityService(
		database.NewSeatReservationRepository(sqlxDB),
		database.NewScheduleRepository(sqlxDB),
		NewSeatLayoutService(),
		0,
		logger,
	)
	service := NewBookingService(
		database.NewBookingRepository(sqlxDB),
		availabilityService,
		logger,
	)
	return service, mock
}

func expectScheduleRow(mock sqlmock.Sqlmock, id int64, price float64, availableSeats int) {
	mock.ExpectQuery("SELECT id, route_id, vehicle_type").
		WithArgs(id).
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "route_id", "vehicle_type", "departure_time", "arrival_time",
			"price", "available_seats", "status",
		}).AddRow(id, 1, "bus", testTime(), testTime(), price, availableSeats, "scheduled"))
}

func TestCreateOneWayBookingAfterPayment(t *testing.T) {
	meta := &models.OneWayPaymentMetadata{
		ScheduleID:  1,
		SeatNumbers: []string{"1A", "1B"},
		PassengerInfo: &models.PassengerInfo{
			FirstName: "Aina",
			LastName:  "Rahman",
			Email:     "aina@example.com",
			Phone:     "+60123456789",
		},
		Extras: models.BookingExtras{Luggage: 1, CO2: true},
	}

	t.Run("Success", func(t *testing.T) {
		service, mock := newBookingService(t)

		mock.ExpectBegin()
		mock.ExpectQuery(`SELECT COUNT\(\*\) FROM payments`).
			WithArgs("txn-1").
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
		mock.ExpectQuery("INSERT INTO guests").
			WithArgs("Aina", "Rahman", "aina@example.com", "+60123456789").
			WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(7))
		expectScheduleRow(mock, 1, 50.0, 40)
		mock.ExpectQuery("SELECT seat_number FROM bookings").
			WithArgs(int64(1)).
			WillReturnRows(sqlmock.NewRows([]string{"seat_number"}))
		mock.ExpectQuery("INSERT INTO bookings").
			WillReturnRows(sqlmock.NewRows([]string{"id", "created_at"}).AddRow(42, testTime()))
		mock.ExpectExec("UPDATE schedules SET available_seats = available_seats -").
			WithArgs(2, int64(1)).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectExec("INSERT INTO payments").
			WillReturnResult(sqlmock.NewResult(1, 1))
		mock.ExpectCommit()

		// Post-commit hold release, scoped to the checkout session
		mock.ExpectExec("DELETE FROM seat_reservations").
			WithArgs(int64(1), sqlmock.AnyArg(), "sess-1").
			WillReturnResult(sqlmock.NewResult(0, 2))

		result, err := service.CreateOneWayBookingAfterPayment(meta, "sess-1", "txn-1")
		require.NoError(t, err)

		assert.Equal(t, int64(42), result.Booking.ID)
		assert.Equal(t, models.BookingStatusBooked, result.Booking.Status)
		assert.Equal(t, models.PaymentStatusPaid, result.Booking.PaymentStatus)
		assert.Equal(t, 2, result.SeatCount)
		// 2 seats x 50 + luggage 5.49 + co2 0.57
		assert.InDelta(t, 106.06, result.TotalPrice, 0.001)

		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Duplicate Transaction", func(t *testing.T) {
		service, mock := newBookingService(t)

		mock.ExpectBegin()
		mock.ExpectQuery(`SELECT COUNT\(\*\) FROM payments`).
			WithArgs("txn-1").
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))
		mock.ExpectRollback()

		_, err := service.CreateOneWayBookingAfterPayment(meta, "", "txn-1")
		require.Error(t, err)
		assert.True(t, errors.Is(err, database.ErrDuplicatePayment))

		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Seat Conflict Rolls Back", func(t *testing.T) {
		service, mock := newBookingService(t)

		mock.ExpectBegin()
		mock.ExpectQuery(`SELECT COUNT\(\*\) FROM payments`).
			WithArgs("txn-2").
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
		mock.ExpectQuery("INSERT INTO guests").
			WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(7))
		expectScheduleRow(mock, 1, 50.0, 40)
		mock.ExpectQuery("SELECT seat_number FROM bookings").
			WithArgs(int64(1)).
			WillReturnRows(sqlmock.NewRows([]string{"seat_number"}).AddRow("1B,2C"))
		mock.ExpectRollback()

		_, err := service.CreateOneWayBookingAfterPayment(meta, "", "txn-2")
		require.Error(t, err)

		conflict, ok := err.(*models.ConflictError)
		require.True(t, ok)
		assert.Equal(t, []string{"1B"}, conflict.Seats)

		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestCreateRoundTripBookingAfterPayment(t *testing.T) {
	meta := &models.RoundTripPaymentMetadata{
		Outbound: models.TripLeg{ScheduleID: 10, SeatNumbers: []string{"1A"}},
		Return:   models.TripLeg{ScheduleID: 20, SeatNumbers: []string{"2A"}},
		PassengerInfo: &models.PassengerInfo{
			FirstName: "Aina",
			LastName:  "Rahman",
			Email:     "aina@example.com",
			Phone:     "+60123456789",
		},
	}

	t.Run("Return Leg Failure Rolls Back Everything", func(t *testing.T) {
		service, mock := newBookingService(t)

		mock.ExpectBegin()
		mock.ExpectQuery(`SELECT COUNT\(\*\) FROM payments`).
			WithArgs("txn-3").
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
		mock.ExpectQuery("INSERT INTO guests").
			WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(7))

		// Outbound leg succeeds
		expectScheduleRow(mock, 10, 50.0, 40)
		mock.ExpectQuery("SELECT seat_number FROM bookings").
			WithArgs(int64(10)).
			WillReturnRows(sqlmock.NewRows([]string{"seat_number"}))
		mock.ExpectQuery("INSERT INTO bookings").
			WillReturnRows(sqlmock.NewRows([]string{"id", "created_at"}).AddRow(101, testTime()))
		mock.ExpectExec("UPDATE schedules SET available_seats = available_seats -").
			WithArgs(1, int64(10)).
			WillReturnResult(sqlmock.NewResult(0, 1))

		// Return leg is out of capacity; the whole transaction rolls back
		expectScheduleRow(mock, 20, 60.0, 0)
		mock.ExpectRollback()

		_, err := service.CreateRoundTripBookingAfterPayment(meta, "", "txn-3")
		require.Error(t, err)
		assert.IsType(t, &models.ValidationError{}, err)

		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Promo Split Proportionally", func(t *testing.T) {
		service, mock := newBookingService(t)

		promoMeta := *meta
		code := "SAVE10"
		promoMeta.PromoCode = &code

		mock.ExpectBegin()
		mock.ExpectQuery(`SELECT COUNT\(\*\) FROM payments`).
			WithArgs("txn-4").
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
		mock.ExpectQuery("INSERT INTO guests").
			WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(7))

		expectScheduleRow(mock, 10, 50.0, 40)
		mock.ExpectQuery("SELECT seat_number FROM bookings").
			WithArgs(int64(10)).
			WillReturnRows(sqlmock.NewRows([]string{"seat_number"}))
		mock.ExpectQuery("INSERT INTO bookings").
			WillReturnRows(sqlmock.NewRows([]string{"id", "created_at"}).AddRow(101, testTime()))
		mock.ExpectExec("UPDATE schedules SET available_seats = available_seats -").
			WithArgs(1, int64(10)).
			WillReturnResult(sqlmock.NewResult(0, 1))

		expectScheduleRow(mock, 20, 150.0, 40)
		mock.ExpectQuery("SELECT seat_number FROM bookings").
			WithArgs(int64(20)).
			WillReturnRows(sqlmock.NewRows([]string{"seat_number"}))
		mock.ExpectQuery("INSERT INTO bookings").
			WillReturnRows(sqlmock.NewRows([]string{"id", "created_at"}).AddRow(102, testTime()))
		mock.ExpectExec("UPDATE schedules SET available_seats = available_seats -").
			WithArgs(1, int64(20)).
			WillReturnResult(sqlmock.NewResult(0, 1))

		// 10% promo: 20 off 200, split 5 / 15 across the legs
		mock.ExpectQuery("SELECT id, code, discount_percent").
			WithArgs("SAVE10").
			WillReturnRows(sqlmock.NewRows([]string{
				"id", "code", "discount_percent", "max_uses", "is_active", "expiry_date",
			}).AddRow(1, "SAVE10", 10.0, nil, true, testTime().Add(24*time.Hour)))
		mock.ExpectExec("UPDATE bookings SET total_price = total_price -").
			WithArgs(5.0, "SAVE10", int64(101)).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectExec("UPDATE bookings SET total_price = total_price -").
			WithArgs(15.0, "SAVE10", int64(102)).
			WillReturnResult(sqlmock.NewResult(0, 1))

		mock.ExpectQuery("INSERT INTO round_trip_bookings").
			WithArgs(int64(101), int64(102)).
			WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(9))
		mock.ExpectExec("INSERT INTO payments").
			WillReturnResult(sqlmock.NewResult(1, 1))
		mock.ExpectCommit()

		// Post-commit hold release for both legs
		mock.ExpectExec("DELETE FROM seat_reservations").
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectExec("DELETE FROM seat_reservations").
			WillReturnResult(sqlmock.NewResult(0, 1))

		result, err := service.CreateRoundTripBookingAfterPayment(&promoMeta, "", "txn-4")
		require.NoError(t, err)

		assert.Equal(t, int64(9), result.ID)
		assert.Equal(t, int64(101), result.OutboundBookingID)
		assert.Equal(t, int64(102), result.ReturnBookingID)
		assert.InDelta(t, 180.0, result.TotalPrice, 0.001)
		assert.InDelta(t, 20.0, result.DiscountApplied, 0.001)

		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestProcessSuccessfulPayment(t *testing.T) {
	service, mock := newBookingService(t)

	mock.ExpectExec("UPDATE bookings SET payment_status").
		WithArgs("paid", "confirmed", int64(42)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("UPDATE payments SET status").
		WithArgs("completed", "txn-5").
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := service.ProcessSuccessfulPayment(42, false, "txn-5")
	require.NoError(t, err)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCancelBooking(t *testing.T) {
	t.Run("Restores Capacity", func(t *testing.T) {
		service, mock := newBookingService(t)

		mock.ExpectBegin()
		mock.ExpectQuery("SELECT schedule_id, seat_number, status FROM bookings").
			WithArgs(int64(42)).
			WillReturnRows(sqlmock.NewRows([]string{"schedule_id", "seat_number", "status"}).
				AddRow(1, "1A,1B", "confirmed"))
		mock.ExpectExec("UPDATE bookings SET status").
			WithArgs("cancelled", int64(42)).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectExec(`UPDATE schedules SET available_seats = available_seats \+`).
			WithArgs(2, int64(1)).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()

		err := service.CancelBooking(42, false)
		require.NoError(t, err)

		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Already Cancelled Is No-Op", func(t *testing.T) {
		service, mock := newBookingService(t)

		mock.ExpectBegin()
		mock.ExpectQuery("SELECT schedule_id, seat_number, status FROM bookings").
			WithArgs(int64(42)).
			WillReturnRows(sqlmock.NewRows([]string{"schedule_id", "seat_number", "status"}).
				AddRow(1, "1A", "cancelled"))
		mock.ExpectCommit()

		err := service.CancelBooking(42, false)
		require.NoError(t, err)

		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Not Found", func(t *testing.T) {
		service, mock := newBookingService(t)

		mock.ExpectBegin()
		mock.ExpectQuery("SELECT schedule_id, seat_number, status FROM bookings").
			WithArgs(int64(404)).
			WillReturnRows(sqlmock.NewRows([]string{"schedule_id", "seat_number", "status"}))
		mock.ExpectRollback()

		err := service.CancelBooking(404, false)
		require.Error(t, err)
		assert.IsType(t, &models.NotFoundError{}, err)
	})
}

func TestGetBookingDetails(t *testing.T) {
	bookingColumns := []string{
		"id", "user_id", "guest_id", "schedule_id", "seat_number", "status",
		"payment_status", "total_price", "extra_luggage", "offset_co2",
		"add_insurance", "promo_code", "created_at",
	}

	t.Run("Includes Guest Contact", func(t *testing.T) {
		service, mock := newBookingService(t)

		mock.ExpectQuery("SELECT id, user_id, guest_id").
			WithArgs(int64(42)).
			WillReturnRows(sqlmock.NewRows(bookingColumns).
				AddRow(42, nil, 7, 1, "1A,1B", "confirmed", "paid", 100.0, 0, false, false, nil, testTime()))
		mock.ExpectQuery("SELECT departure_time FROM schedules").
			WithArgs(int64(1)).
			WillReturnRows(sqlmock.NewRows([]string{"departure_time"}).AddRow(testTime()))
		mock.ExpectQuery("SELECT id, first_name, last_name, email, phone").
			WithArgs(int64(7)).
			WillReturnRows(sqlmock.NewRows([]string{"id", "first_name", "last_name", "email", "phone"}).
				AddRow(7, "Aina", "Rahman", "aina@example.com", "+60123456789"))

		details, err := service.GetBookingDetails(42, false)
		require.NoError(t, err)

		require.NotNil(t, details.Passenger)
		assert.Equal(t, "Aina", details.Passenger.FirstName)
		assert.Equal(t, "aina@example.com", details.Passenger.Email)
		assert.Equal(t, []string{"1A", "1B"}, details.Trips[0].Seats)

		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("No Guest On Record", func(t *testing.T) {
		service, mock := newBookingService(t)

		mock.ExpectQuery("SELECT id, user_id, guest_id").
			WithArgs(int64(43)).
			WillReturnRows(sqlmock.NewRows(bookingColumns).
				AddRow(43, 9, nil, 1, "2A", "booked", "pending", 50.0, 0, false, false, nil, testTime()))
		mock.ExpectQuery("SELECT departure_time FROM schedules").
			WithArgs(int64(1)).
			WillReturnRows(sqlmock.NewRows([]string{"departure_time"}).AddRow(testTime()))

		details, err := service.GetBookingDetails(43, false)
		require.NoError(t, err)

		assert.Nil(t, details.Passenger)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
