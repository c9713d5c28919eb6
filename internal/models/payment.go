package models

import (
	"time"
)

// PaymentRecordStatus tracks one payment-intent lifecycle
type PaymentRecordStatus string

const (
	PaymentRecordCreated   PaymentRecordStatus = "created"
	PaymentRecordCompleted PaymentRecordStatus = "completed"
)

// Payment is the audit record of one payment-intent lifecycle tied to a
// booking or round-trip booking. TransactionID is the gateway reference and
// doubles as the idempotency key for webhook-driven finalization.
type Payment struct {
	ID            int64               `json:"id" db:"id"`
	BookingID     int64               `json:"booking_id" db:"booking_id"`
	Amount        float64             `json:"amount" db:"amount"`
	Currency      string              `json:"currency" db:"currency"`
	Method        string              `json:"method" db:"method"`
	TransactionID string              `json:"transaction_id" db:"transaction_id"`
	Status        PaymentRecordStatus `json:"status" db:"status"`
	IsRoundTrip   bool                `json:"is_round_trip" db:"is_round_trip"`
	CreatedAt     time.Time           `json:"created_at" db:"created_at"`
}

// CreatePaymentIntentRequest is the client input to intent creation
type CreatePaymentIntentRequest struct {
	BookingID   int64   `json:"booking_id" binding:"required"`
	Amount      float64 `json:"amount" binding:"required"`
	Currency    string  `json:"currency"`
	Method      string  `json:"method"`
	IsRoundTrip bool    `json:"is_round_trip"`
}

// PaymentIntentResponse carries the opaque client-confirmable token back to
// the caller
type PaymentIntentResponse struct {
	ClientSecret string  `json:"client_secret"`
	IntentID     string  `json:"intent_id"`
	Amount       float64 `json:"amount"`
	Currency     string  `json:"currency"`
}

// PaymentNotification is the decoded asynchronous notification delivered by
// the external payment processor.
type PaymentNotification struct {
	UID           string            `json:"uid"`
	InvoiceID     string            `json:"invoice_id"`
	Status        string            `json:"status"`
	TransactionID string            `json:"transaction_id"`
	Amount        string            `json:"amount"`
	Currency      string            `json:"currency"`
	Metadata      map[string]string `json:"metadata"`
	CheckValue    string            `json:"check_value"`
}
