package models

import "time"

// ScheduleStatus represents the operational status of a scheduled trip
type ScheduleStatus string

const (
	ScheduleStatusScheduled ScheduleStatus = "scheduled"
	ScheduleStatusCancelled ScheduleStatus = "cancelled"
	ScheduleStatusDelayed   ScheduleStatus = "delayed"
)

// VehicleType identifies the transport mode of a schedule
type VehicleType string

const (
	VehicleTypeBus   VehicleType = "bus"
	VehicleTypeTrain VehicleType = "train"
	VehicleTypeFerry VehicleType = "ferry"
)

// Schedule is one bookable trip of a vehicle on a route. AvailableSeats is a
// denormalized capacity counter maintained alongside booking writes.
type Schedule struct {
	ID             int64          `json:"id" db:"id"`
	RouteID        int64          `json:"route_id" db:"route_id"`
	VehicleType    VehicleType    `json:"vehicle_type" db:"vehicle_type"`
	DepartureTime  time.Time      `json:"departure_time" db:"departure_time"`
	ArrivalTime    time.Time      `json:"arrival_time" db:"arrival_time"`
	Price          float64        `json:"price" db:"price"`
	AvailableSeats int            `json:"available_seats" db:"available_seats"`
	Status         ScheduleStatus `json:"status" db:"status"`
	CreatedAt      time.Time      `json:"created_at" db:"created_at"`
}

// IsBookable reports whether the schedule accepts new bookings
func (s *Schedule) IsBookable() bool {
	return s.Status == ScheduleStatusScheduled
}
