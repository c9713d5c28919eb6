package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/transitly/booking-backend/internal/config"
	"github.com/transitly/booking-backend/internal/database"
	"github.com/transitly/booking-backend/internal/services"
)

func setupPaymentRouter(db *sqlx.DB) *gin.Engine {
	gin.SetMode(gin.TestMode)
	logger := testLogger()

	scheduleRepo := database.NewScheduleRepository(db)
	bookingRepo := database.NewBookingRepository(db)
	availabilityService := services.NewSeatAvailabilityService(
		database.NewSeatReservationRepository(db),
		scheduleRepo,
		services.NewSeatLayoutService(),
		0,
		logger,
	)
	bookingService := services.NewBookingService(bookingRepo, availabilityService, logger)
	validationService := services.NewBookingValidationService(bookingRepo, scheduleRepo, logger)
	// Sandbox credentials: notifications are accepted without a check value
	gatewayService := services.NewPaymentGatewayService(&config.PaymentConfig{Currency: "MYR"}, logger)

	handler := NewPaymentHandler(gatewayService, validationService, bookingService, logger)

	router := gin.New()
	router.POST("/api/v1/payments/intent", handler.CreatePaymentIntent)
	router.POST("/api/v1/payments/webhook", handler.Webhook)
	return router
}

func postJSON(router *gin.Engine, path string, payload interface{}) *httptest.ResponseRecorder {
	body, _ := json.Marshal(payload)
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)
	return w
}

func TestCreatePaymentIntentEndpoint(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		db, mock := setupTestDB(t)
		router := setupPaymentRouter(db)

		mock.ExpectQuery("SELECT status, payment_status FROM bookings").
			WithArgs(int64(42)).
			WillReturnRows(sqlmock.NewRows([]string{"status", "payment_status"}).
				AddRow("booked", "pending"))
		mock.ExpectQuery("SELECT s.price, b.seat_number").
			WithArgs(int64(42)).
			WillReturnRows(sqlmock.NewRows([]string{"price", "seat_number"}).
				AddRow(50.0, "1A,1B"))
		mock.ExpectQuery("INSERT INTO payments").
			WillReturnRows(sqlmock.NewRows([]string{"id", "created_at"}).
				AddRow(5, time.Now()))

		w := postJSON(router, "/api/v1/payments/intent", map[string]interface{}{
			"booking_id": 42,
			"amount":     100.0,
		})

		require.Equal(t, http.StatusOK, w.Code)

		var resp map[string]interface{}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.NotEmpty(t, resp["client_secret"])
		assert.Equal(t, 100.0, resp["amount"])

		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Amount Mismatch Returns 400", func(t *testing.T) {
		db, mock := setupTestDB(t)
		router := setupPaymentRouter(db)

		mock.ExpectQuery("SELECT status, payment_status FROM bookings").
			WithArgs(int64(42)).
			WillReturnRows(sqlmock.NewRows([]string{"status", "payment_status"}).
				AddRow("booked", "pending"))
		mock.ExpectQuery("SELECT s.price, b.seat_number").
			WithArgs(int64(42)).
			WillReturnRows(sqlmock.NewRows([]string{"price", "seat_number"}).
				AddRow(50.0, "1A,1B"))

		w := postJSON(router, "/api/v1/payments/intent", map[string]interface{}{
			"booking_id": 42,
			"amount":     42.0,
		})

		require.Equal(t, http.StatusBadRequest, w.Code)

		var resp map[string]interface{}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Contains(t, resp["error"], "mismatch")
	})

	t.Run("Already Paid Returns 400", func(t *testing.T) {
		db, mock := setupTestDB(t)
		router := setupPaymentRouter(db)

		mock.ExpectQuery("SELECT status, payment_status FROM bookings").
			WithArgs(int64(42)).
			WillReturnRows(sqlmock.NewRows([]string{"status", "payment_status"}).
				AddRow("confirmed", "paid"))

		w := postJSON(router, "/api/v1/payments/intent", map[string]interface{}{
			"booking_id": 42,
			"amount":     100.0,
		})

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestWebhookEndpoint(t *testing.T) {
	t.Run("Finalizes One Way Booking", func(t *testing.T) {
		db, mock := setupTestDB(t)
		router := setupPaymentRouter(db)

		mock.ExpectBegin()
		mock.ExpectQuery(`SELECT COUNT\(\*\) FROM payments`).
			WithArgs("txn-10").
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
		mock.ExpectQuery("SELECT id, route_id, vehicle_type").
			WithArgs(int64(1)).
			WillReturnRows(sqlmock.NewRows([]string{
				"id", "route_id", "vehicle_type", "departure_time", "arrival_time",
				"price", "available_seats", "status",
			}).AddRow(1, 1, "bus", time.Now(), time.Now(), 50.0, 40, "scheduled"))
		mock.ExpectQuery("SELECT seat_number FROM bookings").
			WithArgs(int64(1)).
			WillReturnRows(sqlmock.NewRows([]string{"seat_number"}))
		mock.ExpectQuery("INSERT INTO bookings").
			WillReturnRows(sqlmock.NewRows([]string{"id", "created_at"}).AddRow(77, time.Now()))
		mock.ExpectExec("UPDATE schedules SET available_seats = available_seats -").
			WithArgs(1, int64(1)).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectExec("INSERT INTO payments").
			WillReturnResult(sqlmock.NewResult(1, 1))
		mock.ExpectCommit()
		mock.ExpectExec("DELETE FROM seat_reservations").
			WithArgs(int64(1), sqlmock.AnyArg(), "sess-1").
			WillReturnResult(sqlmock.NewResult(0, 1))

		w := postJSON(router, "/api/v1/payments/webhook", map[string]interface{}{
			"status":         "SUCCESS",
			"transaction_id": "txn-10",
			"amount":         "50.00",
			"currency":       "MYR",
			"metadata": map[string]string{
				"is_round_trip": "false",
				"session_id":    "sess-1",
				"schedule_id":   "1",
				"seat_numbers":  `["1A"]`,
			},
		})

		assert.Equal(t, http.StatusOK, w.Code)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Duplicate Notification Still Acked", func(t *testing.T) {
		db, mock := setupTestDB(t)
		router := setupPaymentRouter(db)

		mock.ExpectBegin()
		mock.ExpectQuery(`SELECT COUNT\(\*\) FROM payments`).
			WithArgs("txn-10").
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))
		mock.ExpectRollback()

		w := postJSON(router, "/api/v1/payments/webhook", map[string]interface{}{
			"status":         "SUCCESS",
			"transaction_id": "txn-10",
			"metadata": map[string]string{
				"is_round_trip": "false",
				"schedule_id":   "1",
				"seat_numbers":  `["1A"]`,
			},
		})

		assert.Equal(t, http.StatusOK, w.Code)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Bad Metadata Still Acked", func(t *testing.T) {
		db, _ := setupTestDB(t)
		router := setupPaymentRouter(db)

		w := postJSON(router, "/api/v1/payments/webhook", map[string]interface{}{
			"status":         "SUCCESS",
			"transaction_id": "txn-11",
			"metadata":       map[string]string{"schedule_id": "nope"},
		})

		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("Failed Payment Ignored", func(t *testing.T) {
		db, mock := setupTestDB(t)
		router := setupPaymentRouter(db)

		w := postJSON(router, "/api/v1/payments/webhook", map[string]interface{}{
			"status":         "FAILED",
			"transaction_id": "txn-12",
		})

		assert.Equal(t, http.StatusOK, w.Code)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Undecodable Payload Still Acked", func(t *testing.T) {
		db, _ := setupTestDB(t)
		router := setupPaymentRouter(db)

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/api/v1/payments/webhook", bytes.NewReader([]byte("not-json")))
		req.Header.Set("Content-Type", "application/json")
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
	})
}
