package models

// SeatAvailabilityCheck is the outcome of a per-seat booking scan
type SeatAvailabilityCheck struct {
	Valid           bool   `json:"valid"`
	ConflictingSeat string `json:"conflicting_seat,omitempty"`
	Reason          string `json:"reason,omitempty"`
}

// RoundTripCheck collects every validation failure across both legs
type RoundTripCheck struct {
	Valid  bool     `json:"valid"`
	Errors []string `json:"errors,omitempty"`
}

// AmountCheck compares a supplied payment amount against the authoritative
// recomputed total
type AmountCheck struct {
	Valid            bool    `json:"valid"`
	CalculatedAmount float64 `json:"calculated_amount"`
	ProvidedAmount   float64 `json:"provided_amount"`
	Reason           string  `json:"reason,omitempty"`
}

// PaymentEligibilityCheck reports whether a booking can accept payment
type PaymentEligibilityCheck struct {
	Valid  bool   `json:"valid"`
	Reason string `json:"reason,omitempty"`
}
