package services

import (
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
)

// DefaultCleanupInterval is how often the reaper sweeps expired holds when
// not configured otherwise.
const DefaultCleanupInterval = 2 * time.Minute

// ReaperService periodically deletes expired seat holds. Availability reads
// already exclude expired holds, so the sweep only reclaims rows; a stalled
// reaper never blocks a booking.
type ReaperService struct {
	cron                *cron.Cron
	availabilityService *SeatAvailabilityService
	interval            time.Duration
	logger              *logrus.Logger
}

// NewReaperService creates a new ReaperService. A zero interval selects the
// default.
func NewReaperService(availabilityService *SeatAvailabilityService, interval time.Duration, logger *logrus.Logger) *ReaperService {
	if interval <= 0 {
		interval = DefaultCleanupInterval
	}
	return &ReaperService{
		cron:                cron.New(),
		availabilityService: availabilityService,
		interval:            interval,
		logger:              logger,
	}
}

// Start schedules the periodic sweep and runs one immediately so a restart
// does not wait a full interval to reclaim stale holds.
func (s *ReaperService) Start() error {
	spec := fmt.Sprintf("@every %s", s.interval)
	if _, err := s.cron.AddFunc(spec, s.sweep); err != nil {
		return fmt.Errorf("failed to schedule reservation cleanup: %w", err)
	}

	s.cron.Start()
	s.logger.WithField("interval", s.interval.String()).Info("Reservation reaper started")

	go s.sweep()
	return nil
}

// Stop stops the scheduler and waits for an in-flight sweep to finish
func (s *ReaperService) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	s.logger.Info("Reservation reaper stopped")
}

// RunOnce performs a single sweep and returns the number of holds removed.
// Used by the maintenance command.
func (s *ReaperService) RunOnce() (int64, error) {
	return s.availabilityService.CleanupExpiredReservations()
}

func (s *ReaperService) sweep() {
	removed, err := s.availabilityService.CleanupExpiredReservations()
	if err != nil {
		s.logger.WithError(err).Error("Reservation cleanup sweep failed")
		return
	}
	if removed > 0 {
		s.logger.WithField("removed", removed).Debug("Reservation cleanup sweep finished")
	}
}
