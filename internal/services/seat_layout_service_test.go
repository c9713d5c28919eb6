package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/transitly/booking-backend/internal/models"
)

func TestGenerateSeatLayout_Bus(t *testing.T) {
	service := NewSeatLayoutService()
	seats := service.GenerateSeatLayout(models.VehicleTypeBus)

	require.Len(t, seats, 75)

	// Column C is the aisle
	for _, seat := range seats {
		assert.NotContains(t, seat.Label, "C", "seat %d", seat.SeatNumber)
		assert.Equal(t, models.SeatStatusAvailable, seat.Status)
	}

	assert.Equal(t, "1A", seats[0].Label)
	assert.Equal(t, "1B", seats[1].Label)
	assert.Equal(t, "1D", seats[2].Label)
	assert.Equal(t, "25D", seats[74].Label)

	// Class boundaries
	assert.Equal(t, "Premium", seats[11].ClassName)
	assert.Equal(t, 80.0, seats[11].Price)
	assert.Equal(t, "Standard", seats[12].ClassName)
	assert.Equal(t, 50.0, seats[12].Price)
	assert.Equal(t, "Standard", seats[71].ClassName)
	assert.Equal(t, "Economy", seats[72].ClassName)
	assert.Equal(t, 30.0, seats[72].Price)
}

func TestGenerateSeatLayout_Train(t *testing.T) {
	service := NewSeatLayoutService()
	seats := service.GenerateSeatLayout(models.VehicleTypeTrain)

	require.Len(t, seats, 350)

	// Column F is the aisle
	for _, seat := range seats {
		assert.NotContains(t, seat.Label, "F", "seat %d", seat.SeatNumber)
	}

	assert.Equal(t, "1A", seats[0].Label)
	assert.Equal(t, "1E", seats[4].Label)
	assert.Equal(t, "1G", seats[5].Label)
	assert.Equal(t, "35K", seats[349].Label)

	assert.Equal(t, "First Class", seats[49].ClassName)
	assert.Equal(t, 200.0, seats[49].Price)
	assert.Equal(t, "Second Class", seats[50].ClassName)
	assert.Equal(t, 120.0, seats[50].Price)
	assert.Equal(t, "Second Class", seats[169].ClassName)
	assert.Equal(t, "Economy Class", seats[170].ClassName)
	assert.Equal(t, 60.0, seats[170].Price)
}

func TestGenerateSeatLayout_Ferry(t *testing.T) {
	service := NewSeatLayoutService()
	seats := service.GenerateSeatLayout(models.VehicleTypeFerry)

	require.Len(t, seats, 340)

	// Four-across rows; the row letter advances every four rows
	assert.Equal(t, "A1", seats[0].Label)
	assert.Equal(t, "A4", seats[3].Label)
	assert.Equal(t, "A1", seats[4].Label)
	assert.Equal(t, "A4", seats[15].Label)
	assert.Equal(t, "B1", seats[16].Label)

	assert.Equal(t, "Premium Class", seats[47].ClassName)
	assert.Equal(t, 150.0, seats[47].Price)
	assert.Equal(t, "Business Class", seats[48].ClassName)
	assert.Equal(t, 100.0, seats[48].Price)
	assert.Equal(t, "Business Class", seats[137].ClassName)
	assert.Equal(t, "Economy Class", seats[138].ClassName)
	assert.Equal(t, 40.0, seats[138].Price)
}

func TestGenerateSeatLayout_Deterministic(t *testing.T) {
	service := NewSeatLayoutService()

	first := service.GenerateSeatLayout(models.VehicleTypeBus)
	second := service.GenerateSeatLayout(models.VehicleTypeBus)

	assert.Equal(t, first, second)
}

func TestGenerateSeatLayout_UnknownVehicle(t *testing.T) {
	service := NewSeatLayoutService()
	seats := service.GenerateSeatLayout(models.VehicleType("spaceship"))

	assert.Empty(t, seats)
}
