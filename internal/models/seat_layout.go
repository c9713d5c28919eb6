package models

import (
	"strconv"
	"time"
)

// SeatStatus is the overlay status of one seat in a layout
type SeatStatus string

const (
	SeatStatusAvailable SeatStatus = "available"
	SeatStatusReserved  SeatStatus = "reserved"
	SeatStatusBooked    SeatStatus = "booked"
)

// LayoutSeat is one seat in a vehicle seat template
type LayoutSeat struct {
	SeatNumber int        `json:"seatNumber"`
	Label      string     `json:"label"`
	Status     SeatStatus `json:"status"`
	Price      float64    `json:"price"`
	ClassName  string     `json:"className"`
}

// ID returns the seat number in the string form used by availability lists
func (s LayoutSeat) ID() string {
	return strconv.Itoa(s.SeatNumber)
}

// SeatLayoutResponse is a seat template with the availability overlay applied
type SeatLayoutResponse struct {
	Seats          []LayoutSeat `json:"seats"`
	BookedCount    int          `json:"booked_count"`
	ReservedCount  int          `json:"reserved_count"`
	AvailableCount int          `json:"available_count"`
	LastUpdated    time.Time    `json:"last_updated"`
}
