package database

import (
	"database/sql"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/transitly/booking-backend/internal/models"
)

// ScheduleRepository handles schedule database operations
type ScheduleRepository struct {
	db *sqlx.DB
}

// NewScheduleRepository creates a new ScheduleRepository
func NewScheduleRepository(db *sqlx.DB) *ScheduleRepository {
	return &ScheduleRepository{db: db}
}

// GetByID retrieves a schedule by id. Returns nil, nil when absent.
func (r *ScheduleRepository) GetByID(id int64) (*models.Schedule, error) {
	var schedule models.Schedule
	err := r.db.Get(&schedule, `
		SELECT id, route_id, vehicle_type, departure_time, arrival_time,
		       price, available_seats, status
		FROM schedules WHERE id = $1`, id)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get schedule: %w", err)
	}
	return &schedule, nil
}

// getScheduleTx reads a schedule inside an open transaction.
// Returns nil, nil when absent.
func getScheduleTx(tx *sqlx.Tx, id int64) (*models.Schedule, error) {
	var schedule models.Schedule
	err := tx.Get(&schedule, `
		SELECT id, route_id, vehicle_type, departure_time, arrival_time,
		       price, available_seats, status
		FROM schedules WHERE id = $1`, id)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get schedule: %w", err)
	}
	return &schedule, nil
}

// decrementAvailableSeatsTx reduces the denormalized seat counter inside the
// booking transaction. It must never be called outside that transaction.
func decrementAvailableSeatsTx(tx *sqlx.Tx, scheduleID int64, count int) error {
	_, err := tx.Exec(
		`UPDATE schedules SET available_seats = available_seats - $1 WHERE id = $2`,
		count, scheduleID,
	)
	if err != nil {
		return fmt.Errorf("failed to update available seats: %w", err)
	}
	return nil
}

// restoreAvailableSeatsTx returns capacity to the schedule when a booking is
// cancelled, inside the cancellation transaction.
func restoreAvailableSeatsTx(tx *sqlx.Tx, scheduleID int64, count int) error {
	_, err := tx.Exec(
		`UPDATE schedules SET available_seats = available_seats + $1 WHERE id = $2`,
		count, scheduleID,
	)
	if err != nil {
		return fmt.Errorf("failed to restore available seats: %w", err)
	}
	return nil
}
