package models

import (
	"strings"
	"time"
)

// BookingStatus represents the lifecycle status of a booking
type BookingStatus string

const (
	BookingStatusBooked    BookingStatus = "booked"
	BookingStatusConfirmed BookingStatus = "confirmed"
	BookingStatusCancelled BookingStatus = "cancelled"
)

// PaymentStatus represents the payment lifecycle of a booking
type PaymentStatus string

const (
	PaymentStatusPending PaymentStatus = "pending"
	PaymentStatusPaid    PaymentStatus = "paid"
	PaymentStatusFailed  PaymentStatus = "failed"
)

// Extras pricing, per item
const (
	ExtraLuggageFee   = 5.49
	ExtraCO2Fee       = 0.57
	ExtraInsuranceFee = 2.49
)

// Booking is a durable, transactionally committed claim on one or more seats
// for one schedule. The seat list is serialized as a comma-delimited string.
type Booking struct {
	ID            int64         `json:"id" db:"id"`
	UserID        *int64        `json:"user_id,omitempty" db:"user_id"`
	GuestID       *int64        `json:"guest_id,omitempty" db:"guest_id"`
	ScheduleID    int64         `json:"schedule_id" db:"schedule_id"`
	SeatNumber    string        `json:"seat_number" db:"seat_number"`
	Status        BookingStatus `json:"status" db:"status"`
	PaymentStatus PaymentStatus `json:"payment_status" db:"payment_status"`
	TotalPrice    float64       `json:"total_price" db:"total_price"`
	ExtraLuggage  int           `json:"extra_luggage" db:"extra_luggage"`
	OffsetCO2     bool          `json:"offset_co2" db:"offset_co2"`
	AddInsurance  bool          `json:"add_insurance" db:"add_insurance"`
	PromoCode     *string       `json:"promo_code,omitempty" db:"promo_code"`
	CreatedAt     time.Time     `json:"created_at" db:"created_at"`
}

// Seats returns the seat list split from the serialized form
func (b *Booking) Seats() []string {
	return SplitSeatList(b.SeatNumber)
}

// SplitSeatList splits a comma-delimited seat string, trimming whitespace.
// Empty input yields an empty slice.
func SplitSeatList(s string) []string {
	if s == "" {
		return []string{}
	}
	parts := strings.Split(s, ",")
	seats := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			seats = append(seats, trimmed)
		}
	}
	return seats
}

// JoinSeatList serializes a seat list into the stored comma-delimited form
func JoinSeatList(seats []string) string {
	return strings.Join(seats, ",")
}

// RoundTripBooking pairs exactly one outbound and one return booking created
// together. Both legs share the same payment lifecycle.
type RoundTripBooking struct {
	ID                int64     `json:"id" db:"id"`
	OutboundBookingID int64     `json:"outbound_booking_id" db:"outbound_booking_id"`
	ReturnBookingID   int64     `json:"return_booking_id" db:"return_booking_id"`
	CreatedAt         time.Time `json:"created_at" db:"created_at"`
}

// Guest is a passenger record for bookings made without a user account
type Guest struct {
	ID        int64  `json:"id" db:"id"`
	FirstName string `json:"first_name" db:"first_name"`
	LastName  string `json:"last_name" db:"last_name"`
	Email     string `json:"email" db:"email"`
	Phone     string `json:"phone" db:"phone"`
}

// PassengerInfo carries contact details supplied at checkout
type PassengerInfo struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
}

// BookingExtras holds the optional add-ons selected at checkout
type BookingExtras struct {
	Luggage   int  `json:"luggage"`
	CO2       bool `json:"co2"`
	Insurance bool `json:"insurance"`
}

// Price returns the total surcharge for the selected extras
func (e BookingExtras) Price() float64 {
	total := 0.0
	if e.Luggage > 0 {
		total += float64(e.Luggage) * ExtraLuggageFee
	}
	if e.CO2 {
		total += ExtraCO2Fee
	}
	if e.Insurance {
		total += ExtraInsuranceFee
	}
	return total
}

// PromoCode is a percentage discount code
type PromoCode struct {
	ID              int64     `json:"id" db:"id"`
	Code            string    `json:"code" db:"code"`
	DiscountPercent float64   `json:"discount_percent" db:"discount_percent"`
	MaxUses         *int      `json:"max_uses,omitempty" db:"max_uses"`
	IsActive        bool      `json:"is_active" db:"is_active"`
	ExpiryDate      time.Time `json:"expiry_date" db:"expiry_date"`
}

// TripLeg identifies one leg of a booking request
type TripLeg struct {
	ScheduleID  int64    `json:"schedule_id"`
	SeatNumbers []string `json:"seat_numbers"`
}

// OneWayBookingRequest is the input to one-way booking creation
type OneWayBookingRequest struct {
	ScheduleID    int64          `json:"schedule_id"`
	SeatNumbers   []string       `json:"seat_numbers"`
	PassengerInfo *PassengerInfo `json:"passenger_info,omitempty"`
	UserID        *int64         `json:"user_id,omitempty"`
	Extras        BookingExtras  `json:"extras"`
	PromoCode     *string        `json:"promo_code,omitempty"`
}

// RoundTripBookingRequest is the input to round-trip booking creation
type RoundTripBookingRequest struct {
	Outbound      TripLeg        `json:"outbound"`
	Return        TripLeg        `json:"return_trip"`
	PassengerInfo *PassengerInfo `json:"passenger_info,omitempty"`
	UserID        *int64         `json:"user_id,omitempty"`
	Extras        BookingExtras  `json:"extras"`
	PromoCode     *string        `json:"promo_code,omitempty"`
}

// BookingResult is returned after a one-way booking commits
type BookingResult struct {
	Booking         *Booking `json:"booking"`
	SeatCount       int      `json:"seat_count"`
	TotalPrice      float64  `json:"total_price"`
	DiscountApplied float64  `json:"discount_applied"`
}

// RoundTripBookingResult is returned after a round-trip booking commits
type RoundTripBookingResult struct {
	ID                int64   `json:"id"`
	OutboundBookingID int64   `json:"outbound_booking_id"`
	ReturnBookingID   int64   `json:"return_booking_id"`
	TotalPrice        float64 `json:"total_price"`
	DiscountApplied   float64 `json:"discount_applied"`
}

// BookingDetails is the read model served for a confirmed booking
type BookingDetails struct {
	ID            int64         `json:"id"`
	IsRoundTrip   bool          `json:"is_round_trip"`
	Status        BookingStatus `json:"status"`
	PaymentStatus PaymentStatus `json:"payment_status"`
	Passenger     *Guest        `json:"passenger,omitempty"`
	Trips         []TripDetails `json:"trips"`
	TotalPaid     float64       `json:"total_paid"`
	ExtraLuggage  int           `json:"extra_luggage"`
	OffsetCO2     bool          `json:"offset_co2"`
	AddInsurance  bool          `json:"add_insurance"`
	PromoCode     *string       `json:"promo_code,omitempty"`
}

// TripDetails describes one leg inside BookingDetails
type TripDetails struct {
	BookingID  int64     `json:"booking_id"`
	ScheduleID int64     `json:"schedule_id"`
	TravelDate time.Time `json:"travel_date"`
	Seats      []string  `json:"seats"`
	Price      float64   `json:"price"`
}
