package services

import (
	"crypto/sha512"
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/transitly/booking-backend/internal/config"
	"github.com/transitly/booking-backend/internal/models"
)

// PaymentGatewayService integrates with the external payment processor. It
// creates payment intents and verifies the authenticity of asynchronous
// success notifications.
type PaymentGatewayService struct {
	config *config.PaymentConfig
	logger *logrus.Logger
}

// NewPaymentGatewayService creates a new PaymentGatewayService
func NewPaymentGatewayService(cfg *config.PaymentConfig, logger *logrus.Logger) *PaymentGatewayService {
	return &PaymentGatewayService{
		config: cfg,
		logger: logger,
	}
}

// IsConfigured reports whether live gateway credentials are present
func (s *PaymentGatewayService) IsConfigured() bool {
	return s.config.MerchantKey != "" && s.config.MerchantToken != ""
}

// GenerateCheckValue creates the SHA-512 check value used to authenticate
// gateway traffic:
//
//	hash1 = SHA512(merchantToken) uppercase hex
//	hash2 = SHA512("merchantKey|invoiceId|amount|currency|hash1") uppercase hex
func (s *PaymentGatewayService) GenerateCheckValue(invoiceID, amount, currency string) string {
	hash1 := sha512.Sum512([]byte(s.config.MerchantToken))
	hash1Hex := strings.ToUpper(hex.EncodeToString(hash1[:]))

	data := fmt.Sprintf("%s|%s|%s|%s|%s",
		s.config.MerchantKey,
		invoiceID,
		amount,
		currency,
		hash1Hex,
	)
	hash2 := sha512.Sum512([]byte(data))
	return strings.ToUpper(hex.EncodeToString(hash2[:]))
}

// CreateIntent creates a payment intent for a validated amount and returns
// the opaque token the client confirms with. Without live credentials a
// placeholder intent is issued, matching sandbox behaviour.
func (s *PaymentGatewayService) CreateIntent(amount float64, currency string) (*models.PaymentIntentResponse, error) {
	if currency == "" {
		currency = s.config.Currency
	}

	intentID := fmt.Sprintf("pi_%s", uuid.New().String())

	if !s.IsConfigured() {
		s.logger.Warn("Payment gateway not configured, issuing placeholder intent")
		return &models.PaymentIntentResponse{
			ClientSecret: fmt.Sprintf("%s_secret_placeholder", intentID),
			IntentID:     intentID,
			Amount:       amount,
			Currency:     currency,
		}, nil
	}

	amountStr := fmt.Sprintf("%.2f", amount)
	checkValue := s.GenerateCheckValue(intentID, amountStr, currency)

	s.logger.WithFields(logrus.Fields{
		"intent_id": intentID,
		"amount":    amountStr,
		"currency":  currency,
	}).Info("Payment intent created")

	return &models.PaymentIntentResponse{
		ClientSecret: fmt.Sprintf("%s_secret_%s", intentID, strings.ToLower(checkValue[:32])),
		IntentID:     intentID,
		Amount:       amount,
		Currency:     currency,
	}, nil
}

// VerifyNotification authenticates an incoming payment notification against
// its check value. Unverifiable notifications must never finalize a booking.
func (s *PaymentGatewayService) VerifyNotification(n *models.PaymentNotification) error {
	if n.TransactionID == "" {
		return &models.ValidationError{Field: "transaction_id", Message: "missing transaction id"}
	}
	if !s.IsConfigured() {
		// Sandbox mode has no shared secret to verify against
		return nil
	}

	expected := s.GenerateCheckValue(n.InvoiceID, n.Amount, n.Currency)
	if !strings.EqualFold(n.CheckValue, expected) {
		return &models.ValidationError{Field: "check_value", Message: "notification check value mismatch"}
	}
	return nil
}

// IsPaymentSuccessful reports whether the notification signals a completed
// payment
func (s *PaymentGatewayService) IsPaymentSuccessful(n *models.PaymentNotification) bool {
	return strings.EqualFold(n.Status, "success")
}
