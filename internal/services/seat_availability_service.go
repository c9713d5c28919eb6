package services

import (
	"time"

	"github.com/sirupsen/logrus"
	"github.com/transitly/booking-backend/internal/database"
	"github.com/transitly/booking-backend/internal/models"
)

// DefaultHoldTimeout is how long a temporary seat hold lasts when the caller
// does not override it.
const DefaultHoldTimeout = 10 * time.Minute

// SeatAvailabilityService answers availability questions and manages the
// temporary-hold lifecycle for one schedule's seats.
type SeatAvailabilityService struct {
	reservationRepo *database.SeatReservationRepository
	scheduleRepo    *database.ScheduleRepository
	layoutService   *SeatLayoutService
	holdTimeout     time.Duration
	logger          *logrus.Logger
}

// NewSeatAvailabilityService creates a new SeatAvailabilityService. A zero
// holdTimeout selects the default.
func NewSeatAvailabilityService(
	reservationRepo *database.SeatReservationRepository,
	scheduleRepo *database.ScheduleRepository,
	layoutService *SeatLayoutService,
	holdTimeout time.Duration,
	logger *logrus.Logger,
) *SeatAvailabilityService {
	if holdTimeout <= 0 {
		holdTimeout = DefaultHoldTimeout
	}
	return &SeatAvailabilityService{
		reservationRepo: reservationRepo,
		scheduleRepo:    scheduleRepo,
		layoutService:   layoutService,
		holdTimeout:     holdTimeout,
		logger:          logger,
	}
}

// GetSeatAvailability returns the merged availability snapshot for a
// schedule: seats claimed by non-cancelled bookings plus seats under an
// active hold. Expired holds never appear.
func (s *SeatAvailabilityService) GetSeatAvailability(scheduleID int64) (*models.SeatAvailability, error) {
	booked, err := s.reservationRepo.GetBookedSeats(scheduleID)
	if err != nil {
		return nil, err
	}
	reserved, err := s.reservationRepo.GetReservedSeats(scheduleID)
	if err != nil {
		return nil, err
	}

	unavailable := make([]string, 0, len(booked)+len(reserved))
	unavailable = append(unavailable, booked...)
	unavailable = append(unavailable, reserved...)

	return &models.SeatAvailability{
		BookedSeats:      booked,
		ReservedSeats:    reserved,
		UnavailableSeats: unavailable,
		LastUpdated:      time.Now(),
	}, nil
}

// ReserveSeatsTemporary places holds on the requested seats for the session.
// All requested seats are granted together or none are; conflicts surface as
// a ConflictError naming the offending seats. Re-reserving a seat the same
// session already holds refreshes its expiry.
func (s *SeatAvailabilityService) ReserveSeatsTemporary(scheduleID int64, seats []string, sessionID string, timeout time.Duration) (*models.ReserveSeatsResult, error) {
	if len(seats) == 0 {
		return nil, &models.ValidationError{Field: "seat_numbers", Message: "at least one seat is required"}
	}
	if sessionID == "" {
		return nil, &models.ValidationError{Field: "session_id", Message: "session_id is required"}
	}
	if timeout <= 0 {
		timeout = s.holdTimeout
	}

	expiresAt := time.Now().Add(timeout)
	if err := s.reservationRepo.ReserveSeats(scheduleID, seats, sessionID, expiresAt); err != nil {
		if conflict, ok := err.(*models.ConflictError); ok {
			s.logger.WithFields(logrus.Fields{
				"schedule_id": scheduleID,
				"session_id":  sessionID,
				"seats":       conflict.Seats,
			}).Info("Seat hold rejected, seats already taken")
		}
		return nil, err
	}

	s.logger.WithFields(logrus.Fields{
		"schedule_id": scheduleID,
		"session_id":  sessionID,
		"seats":       seats,
		"expires_at":  expiresAt,
	}).Info("Seats held temporarily")

	return &models.ReserveSeatsResult{
		Reserved:  true,
		ExpiresAt: expiresAt,
		Seats:     seats,
	}, nil
}

// ReleaseSeatsTemporary removes the session's holds on the given seats.
// Releasing seats the session does not hold is a no-op.
func (s *SeatAvailabilityService) ReleaseSeatsTemporary(scheduleID int64, seats []string, sessionID string) (int64, error) {
	released, err := s.reservationRepo.ReleaseSeats(scheduleID, seats, sessionID)
	if err != nil {
		return 0, err
	}
	if released > 0 {
		s.logger.WithFields(logrus.Fields{
			"schedule_id": scheduleID,
			"session_id":  sessionID,
			"released":    released,
		}).Info("Seat holds released")
	}
	return released, nil
}

// CleanupExpiredReservations deletes every lapsed hold and returns the count
// removed. Reads already ignore expired holds, so this is garbage collection,
// not correctness.
func (s *SeatAvailabilityService) CleanupExpiredReservations() (int64, error) {
	removed, err := s.reservationRepo.DeleteExpired()
	if err != nil {
		return 0, err
	}
	if removed > 0 {
		s.logger.WithField("removed", removed).Info("Expired seat holds cleaned up")
	}
	return removed, nil
}

// ReleaseSeatsAfterBooking drops any holds on seats that just became durable
// bookings, regardless of the owning session.
func (s *SeatAvailabilityService) ReleaseSeatsAfterBooking(scheduleID int64, seats []string) error {
	return s.reservationRepo.DeleteForSeats(scheduleID, seats)
}

// GetSeatLayoutWithAvailability overlays live availability on the vehicle's
// generated layout. A seat is matched when its number or its label appears in
// the availability lists.
func (s *SeatAvailabilityService) GetSeatLayoutWithAvailability(scheduleID int64, vehicleType models.VehicleType) (*models.SeatLayoutResponse, error) {
	availability, err := s.GetSeatAvailability(scheduleID)
	if err != nil {
		return nil, err
	}

	layout := s.layoutService.GenerateSeatLayout(vehicleType)

	booked := toSet(availability.BookedSeats)
	reserved := toSet(availability.ReservedSeats)
	availableCount := 0
	for i := range layout {
		id := layout[i].ID()
		switch {
		case booked[id] || booked[layout[i].Label]:
			layout[i].Status = models.SeatStatusBooked
		case reserved[id] || reserved[layout[i].Label]:
			layout[i].Status = models.SeatStatusReserved
		default:
			availableCount++
		}
	}

	return &models.SeatLayoutResponse{
		Seats:          layout,
		BookedCount:    len(availability.BookedSeats),
		ReservedCount:  len(availability.ReservedSeats),
		AvailableCount: availableCount,
		LastUpdated:    availability.LastUpdated,
	}, nil
}

func toSet(seats []string) map[string]bool {
	set := make(map[string]bool, len(seats))
	for _, s := range seats {
		set[s] = true
	}
	return set
}
