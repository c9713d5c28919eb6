package services

import (
	"fmt"

	"github.com/transitly/booking-backend/internal/models"
)

// SeatLayoutService generates the deterministic cabin layout for each
// vehicle type. Layouts are a pure function of the vehicle type; the same
// input always yields the same seats, labels, classes, and prices.
type SeatLayoutService struct{}

// NewSeatLayoutService creates a new SeatLayoutService
func NewSeatLayoutService() *SeatLayoutService {
	return &SeatLayoutService{}
}

// GenerateSeatLayout returns the full cabin layout for a vehicle type with
// every seat marked available. Unknown vehicle types yield an empty layout.
func (s *SeatLayoutService) GenerateSeatLayout(vehicleType models.VehicleType) []models.LayoutSeat {
	switch vehicleType {
	case models.VehicleTypeBus:
		return generateBusLayout()
	case models.VehicleTypeTrain:
		return generateTrainLayout()
	case models.VehicleTypeFerry:
		return generateFerryLayout()
	default:
		return []models.LayoutSeat{}
	}
}

// generateBusLayout lays out 25 rows of three seats (A, B, D; C is the
// aisle). The first 12 seats are Premium, seats up to 72 Standard, the rest
// Economy.
func generateBusLayout() []models.LayoutSeat {
	seats := make([]models.LayoutSeat, 0, 75)
	columns := []string{"A", "B", "C", "D"}
	seatNumber := 1

	for row := 1; row <= 25; row++ {
		for col := 0; col < 4; col++ {
			if col == 2 {
				continue
			}
			className, price := "Economy", 30.0
			if seatNumber <= 12 {
				className, price = "Premium", 80.0
			} else if seatNumber <= 72 {
				className, price = "Standard", 50.0
			}
			seats = append(seats, models.LayoutSeat{
				SeatNumber: seatNumber,
				Label:      fmt.Sprintf("%d%s", row, columns[col]),
				Status:     models.SeatStatusAvailable,
				Price:      price,
				ClassName:  className,
			})
			seatNumber++
		}
	}
	return seats
}

// generateTrainLayout lays out 35 rows of ten seats lettered A through K
// with F as the aisle. The first 50 seats are First Class, seats up to 170
// Second Class, the rest Economy Class.
func generateTrainLayout() []models.LayoutSeat {
	seats := make([]models.LayoutSeat, 0, 350)
	letters := "ABCDEFGHIJK"
	seatNumber := 1

	for row := 1; row <= 35; row++ {
		for col := 0; col < 11; col++ {
			if col == 5 {
				continue
			}
			className, price := "Economy Class", 60.0
			if seatNumber <= 50 {
				className, price = "First Class", 200.0
			} else if seatNumber <= 170 {
				className, price = "Second Class", 120.0
			}
			seats = append(seats, models.LayoutSeat{
				SeatNumber: seatNumber,
				Label:      fmt.Sprintf("%d%c", row, letters[col]),
				Status:     models.SeatStatusAvailable,
				Price:      price,
				ClassName:  className,
			})
			seatNumber++
		}
	}
	return seats
}

// generateFerryLayout lays out four-across rows capped at 338 seats. The row
// letter advances every four physical rows, so labels run A1..A4 four times
// before moving to B. The first 48 seats are Premium Class, seats up to 138
// Business Class, the rest Economy Class.
func generateFerryLayout() []models.LayoutSeat {
	seats := make([]models.LayoutSeat, 0, 338)
	seatNumber := 1

	for row := 0; row < 85 && seatNumber <= 338; row++ {
		for col := 1; col <= 4; col++ {
			className, price := "Economy Class", 40.0
			if seatNumber <= 48 {
				className, price = "Premium Class", 150.0
			} else if seatNumber <= 138 {
				className, price = "Business Class", 100.0
			}
			seats = append(seats, models.LayoutSeat{
				SeatNumber: seatNumber,
				Label:      fmt.Sprintf("%c%d", 'A'+row/4, col),
				Status:     models.SeatStatusAvailable,
				Price:      price,
				ClassName:  className,
			})
			seatNumber++
		}
	}
	return seats
}
