package database

import (
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/transitly/booking-backend/internal/models"
)

// uniqueViolation is the PostgreSQL error code raised when an insert hits a
// unique constraint.
const uniqueViolation = "23505"

// SeatReservationRepository handles temporary seat hold database operations.
// The UNIQUE(schedule_id, seat_number) constraint is the authoritative
// arbiter between concurrent writers; the availability read inside
// ReserveSeats is only a fast path.
type SeatReservationRepository struct {
	db *sqlx.DB
}

// NewSeatReservationRepository creates a new SeatReservationRepository
func NewSeatReservationRepository(db *sqlx.DB) *SeatReservationRepository {
	return &SeatReservationRepository{db: db}
}

// GetBookedSeats returns every seat claimed by a non-cancelled booking with a
// live payment status for the schedule. Comma-delimited seat lists are split.
func (r *SeatReservationRepository) GetBookedSeats(scheduleID int64) ([]string, error) {
	var seatLists []string
	err := r.db.Select(&seatLists, `
		SELECT seat_number FROM bookings
		WHERE schedule_id = $1
		AND status IN ('booked', 'confirmed')
		AND payment_status IN ('pending', 'paid')`, scheduleID)
	if err != nil {
		return nil, fmt.Errorf("failed to get booked seats: %w", err)
	}

	booked := make([]string, 0)
	for _, list := range seatLists {
		booked = append(booked, models.SplitSeatList(list)...)
	}
	return booked, nil
}

// GetReservedSeats returns every seat with an active (non-expired) hold on
// the schedule. Expired rows are excluded on read, even before the reaper
// deletes them.
func (r *SeatReservationRepository) GetReservedSeats(scheduleID int64) ([]string, error) {
	reserved := make([]string, 0)
	err := r.db.Select(&reserved, `
		SELECT seat_number FROM seat_reservations
		WHERE schedule_id = $1 AND expires_at > NOW()`, scheduleID)
	if err != nil {
		return nil, fmt.Errorf("failed to get reserved seats: %w", err)
	}
	return reserved, nil
}

// ReserveSeats places temporary holds on the requested seats for the session
// inside one transaction. Seats booked or held by another session abort the
// whole call with a ConflictError naming the offending seats. A seat already
// held by the same session is renewed (upsert), so a renewing call never
// fails. The write-time unique constraint, not the availability read, decides
// races between concurrent sessions.
func (r *SeatReservationRepository) ReserveSeats(scheduleID int64, seats []string, sessionID string, expiresAt time.Time) error {
	tx, err := r.db.Beginx()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	// Fast-path availability check inside the transaction
	var seatLists []string
	err = tx.Select(&seatLists, `
		SELECT seat_number FROM bookings
		WHERE schedule_id = $1
		AND status IN ('booked', 'confirmed')
		AND payment_status IN ('pending', 'paid')`, scheduleID)
	if err != nil {
		return fmt.Errorf("failed to check booked seats: %w", err)
	}
	booked := make(map[string]bool)
	for _, list := range seatLists {
		for _, seat := range models.SplitSeatList(list) {
			booked[seat] = true
		}
	}

	var holds []models.SeatReservation
	err = tx.Select(&holds, `
		SELECT seat_number, session_id, expires_at FROM seat_reservations
		WHERE schedule_id = $1`, scheduleID)
	if err != nil {
		return fmt.Errorf("failed to check reserved seats: %w", err)
	}
	heldByOther := make(map[string]bool)
	for _, h := range holds {
		if h.IsExpired() {
			continue
		}
		if h.SessionID != sessionID {
			heldByOther[h.SeatNumber] = true
		}
	}

	var conflicts []string
	for _, seat := range seats {
		if booked[seat] || heldByOther[seat] {
			conflicts = append(conflicts, seat)
		}
	}
	if len(conflicts) > 0 {
		return &models.ConflictError{ScheduleID: scheduleID, Seats: conflicts}
	}

	// Upsert one hold per seat; renewals by the same session refresh expiry
	for _, seat := range seats {
		_, err = tx.Exec(`
			INSERT INTO seat_reservations (schedule_id, seat_number, session_id, expires_at)
			VALUES ($1, $2, $3, $4)
			ON CONFLICT (schedule_id, seat_number)
			DO UPDATE SET session_id = $3, expires_at = $4`,
			scheduleID, seat, sessionID, expiresAt,
		)
		if err != nil {
			if pqErr, ok := err.(*pq.Error); ok && string(pqErr.Code) == uniqueViolation {
				return &models.ConflictError{ScheduleID: scheduleID, Seats: []string{seat}}
			}
			return fmt.Errorf("failed to reserve seat %s: %w", seat, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit reservation: %w", err)
	}
	return nil
}

// ReleaseSeats deletes holds scoped to schedule + seats + session. Releasing
// a non-existent hold is not an error; the count of removed rows is returned.
func (r *SeatReservationRepository) ReleaseSeats(scheduleID int64, seats []string, sessionID string) (int64, error) {
	result, err := r.db.Exec(`
		DELETE FROM seat_reservations
		WHERE schedule_id = $1 AND seat_number = ANY($2) AND session_id = $3`,
		scheduleID, pq.Array(seats), sessionID,
	)
	if err != nil {
		return 0, fmt.Errorf("failed to release seat reservations: %w", err)
	}
	count, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to count released reservations: %w", err)
	}
	return count, nil
}

// DeleteExpired removes every hold whose expiry has passed and returns the
// number removed. A pure time-predicate delete, safe to run concurrently.
func (r *SeatReservationRepository) DeleteExpired() (int64, error) {
	result, err := r.db.Exec(`DELETE FROM seat_reservations WHERE expires_at < NOW()`)
	if err != nil {
		return 0, fmt.Errorf("failed to delete expired reservations: %w", err)
	}
	count, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to count expired reservations: %w", err)
	}
	return count, nil
}

// DeleteForSeats removes holds for the given seats regardless of owning
// session. Used after a booking is finalized, when the booking row itself
// claims the seats.
func (r *SeatReservationRepository) DeleteForSeats(scheduleID int64, seats []string) error {
	_, err := r.db.Exec(`
		DELETE FROM seat_reservations
		WHERE schedule_id = $1 AND seat_number = ANY($2)`,
		scheduleID, pq.Array(seats),
	)
	if err != nil {
		return fmt.Errorf("failed to delete seat reservations: %w", err)
	}
	return nil
}
