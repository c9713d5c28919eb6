package services

import (
	"github.com/transitly/booking-backend/internal/database"
	"github.com/transitly/booking-backend/internal/models"
)

// ScheduleService exposes schedule reads to the HTTP layer
type ScheduleService struct {
	scheduleRepo *database.ScheduleRepository
}

// NewScheduleService creates a new ScheduleService
func NewScheduleService(scheduleRepo *database.ScheduleRepository) *ScheduleService {
	return &ScheduleService{scheduleRepo: scheduleRepo}
}

// GetSchedule returns one schedule or a NotFoundError
func (s *ScheduleService) GetSchedule(id int64) (*models.Schedule, error) {
	schedule, err := s.scheduleRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if schedule == nil {
		return nil, &models.NotFoundError{Resource: "schedule", ID: id}
	}
	return schedule, nil
}

// GetVehicleType returns the vehicle type used to pick the seat layout
func (s *ScheduleService) GetVehicleType(id int64) (models.VehicleType, error) {
	schedule, err := s.GetSchedule(id)
	if err != nil {
		return "", err
	}
	return schedule.VehicleType, nil
}
