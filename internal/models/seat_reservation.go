package models

import "time"

// SeatReservation is a short-lived hold on one seat of one schedule, placed
// during checkout. Holds are advisory: expiry makes them invisible to reads,
// and the unique (schedule_id, seat_number) constraint arbitrates races.
type SeatReservation struct {
	ID         int64     `json:"id" db:"id"`
	ScheduleID int64     `json:"schedule_id" db:"schedule_id"`
	SeatNumber string    `json:"seat_number" db:"seat_number"`
	SessionID  string    `json:"session_id" db:"session_id"`
	ExpiresAt  time.Time `json:"expires_at" db:"expires_at"`
	CreatedAt  time.Time `json:"created_at" db:"created_at"`
}

// IsExpired reports whether the hold has lapsed
func (r *SeatReservation) IsExpired() bool {
	return !r.ExpiresAt.After(time.Now())
}

// SeatAvailability is the merged availability snapshot for one schedule:
// durable booking claims plus live temporary holds.
type SeatAvailability struct {
	BookedSeats      []string  `json:"booked_seats"`
	ReservedSeats    []string  `json:"reserved_seats"`
	UnavailableSeats []string  `json:"unavailable_seats"`
	LastUpdated      time.Time `json:"last_updated"`
}

// IsUnavailable reports whether the seat is booked or actively held
func (a *SeatAvailability) IsUnavailable(seat string) bool {
	for _, s := range a.UnavailableSeats {
		if s == seat {
			return true
		}
	}
	return false
}

// ReserveSeatsResult confirms a granted batch of temporary holds
type ReserveSeatsResult struct {
	Reserved  bool      `json:"reserved"`
	ExpiresAt time.Time `json:"expires_at"`
	Seats     []string  `json:"seats"`
}
