package models

import (
	"encoding/json"
	"strconv"
)

// PaymentMetadata is the typed form of the key/value metadata attached to a
// payment intent at creation time and echoed back in the success
// notification. It is decoded and validated once at the webhook boundary;
// exactly one of OneWay or RoundTrip is set, discriminated by IsRoundTrip.
type PaymentMetadata struct {
	IsRoundTrip bool
	SessionID   string
	OneWay      *OneWayPaymentMetadata
	RoundTrip   *RoundTripPaymentMetadata
}

// OneWayPaymentMetadata carries the checkout data for a one-way booking
type OneWayPaymentMetadata struct {
	ScheduleID    int64
	SeatNumbers   []string
	PassengerInfo *PassengerInfo
	UserID        *int64
	Extras        BookingExtras
	PromoCode     *string
}

// RoundTripPaymentMetadata carries the checkout data for both legs
type RoundTripPaymentMetadata struct {
	Outbound      TripLeg
	Return        TripLeg
	PassengerInfo *PassengerInfo
	UserID        *int64
	Extras        BookingExtras
	PromoCode     *string
}

// ParsePaymentMetadata decodes the raw gateway metadata map into the typed
// union. Malformed or incomplete metadata yields a ValidationError.
func ParsePaymentMetadata(raw map[string]string) (*PaymentMetadata, error) {
	meta := &PaymentMetadata{
		IsRoundTrip: raw["is_round_trip"] == "true",
		SessionID:   raw["session_id"],
	}

	passengerInfo, err := parsePassengerInfo(raw["passenger_info"])
	if err != nil {
		return nil, err
	}
	extras, err := parseExtras(raw["extras"])
	if err != nil {
		return nil, err
	}

	var promoCode *string
	if code := raw["promo_code"]; code != "" {
		promoCode = &code
	}
	userID, err := parseUserID(raw["user_id"])
	if err != nil {
		return nil, err
	}

	if meta.IsRoundTrip {
		outbound, err := parseTripLeg("outbound", raw["outbound"])
		if err != nil {
			return nil, err
		}
		returnLeg, err := parseTripLeg("returnTrip", raw["returnTrip"])
		if err != nil {
			return nil, err
		}
		meta.RoundTrip = &RoundTripPaymentMetadata{
			Outbound:      *outbound,
			Return:        *returnLeg,
			PassengerInfo: passengerInfo,
			UserID:        userID,
			Extras:        extras,
			PromoCode:     promoCode,
		}
		return meta, nil
	}

	scheduleID, err := strconv.ParseInt(raw["schedule_id"], 10, 64)
	if err != nil || scheduleID <= 0 {
		return nil, &ValidationError{Field: "schedule_id", Message: "missing or invalid schedule id"}
	}

	var seats []string
	if raw["seat_numbers"] != "" {
		if err := json.Unmarshal([]byte(raw["seat_numbers"]), &seats); err != nil {
			return nil, &ValidationError{Field: "seat_numbers", Message: "invalid seat list"}
		}
	}
	if len(seats) == 0 {
		return nil, &ValidationError{Field: "seat_numbers", Message: "at least one seat is required"}
	}

	meta.OneWay = &OneWayPaymentMetadata{
		ScheduleID:    scheduleID,
		SeatNumbers:   seats,
		PassengerInfo: passengerInfo,
		UserID:        userID,
		Extras:        extras,
		PromoCode:     promoCode,
	}
	return meta, nil
}

func parseTripLeg(field, raw string) (*TripLeg, error) {
	if raw == "" {
		return nil, &ValidationError{Field: field, Message: "trip information is incomplete"}
	}
	var leg TripLeg
	if err := json.Unmarshal([]byte(raw), &leg); err != nil {
		return nil, &ValidationError{Field: field, Message: "invalid trip payload"}
	}
	if leg.ScheduleID <= 0 || len(leg.SeatNumbers) == 0 {
		return nil, &ValidationError{Field: field, Message: "trip information is incomplete"}
	}
	return &leg, nil
}

func parsePassengerInfo(raw string) (*PassengerInfo, error) {
	if raw == "" {
		return nil, nil
	}
	var info PassengerInfo
	if err := json.Unmarshal([]byte(raw), &info); err != nil {
		return nil, &ValidationError{Field: "passenger_info", Message: "invalid passenger payload"}
	}
	return &info, nil
}

func parseExtras(raw string) (BookingExtras, error) {
	var extras BookingExtras
	if raw == "" {
		return extras, nil
	}
	if err := json.Unmarshal([]byte(raw), &extras); err != nil {
		return extras, &ValidationError{Field: "extras", Message: "invalid extras payload"}
	}
	return extras, nil
}

func parseUserID(raw string) (*int64, error) {
	if raw == "" {
		return nil, nil
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return nil, &ValidationError{Field: "user_id", Message: "invalid user id"}
	}
	return &id, nil
}
