package services

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/phpdave11/gofpdf"
	"github.com/sirupsen/logrus"
	"github.com/transitly/booking-backend/internal/database"
	"github.com/transitly/booking-backend/internal/models"
)

// TicketService renders printable PDF tickets for paid bookings
type TicketService struct {
	bookingRepo *database.BookingRepository
	logger      *logrus.Logger
}

// NewTicketService creates a new TicketService
func NewTicketService(bookingRepo *database.BookingRepository, logger *logrus.Logger) *TicketService {
	return &TicketService{
		bookingRepo: bookingRepo,
		logger:      logger,
	}
}

// GenerateTicket renders the ticket PDF for a booking. Only paid bookings
// get a ticket.
func (s *TicketService) GenerateTicket(bookingID int64, isRoundTrip bool) ([]byte, string, error) {
	var details *models.BookingDetails
	var err error
	if isRoundTrip {
		details, err = s.bookingRepo.GetRoundTripDetails(bookingID)
	} else {
		details, err = s.bookingRepo.GetBookingDetails(bookingID)
	}
	if err != nil {
		return nil, "", err
	}
	if details.PaymentStatus != models.PaymentStatusPaid {
		return nil, "", &models.ValidationError{
			Field:   "booking_id",
			Message: fmt.Sprintf("booking %d is not paid", bookingID),
		}
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 18)
	pdf.Cell(0, 10, "Transitly E-Ticket")
	pdf.Ln(12)

	pdf.SetFont("Helvetica", "", 12)
	pdf.Cell(0, 7, fmt.Sprintf("Booking Ref : #%d", details.ID))
	pdf.Ln(7)
	pdf.Cell(0, 7, fmt.Sprintf("Status      : %s / %s", details.Status, details.PaymentStatus))
	pdf.Ln(10)

	for i, trip := range details.Trips {
		legName := "Trip"
		if details.IsRoundTrip {
			if i == 0 {
				legName = "Outbound"
			} else {
				legName = "Return"
			}
		}

		pdf.SetFont("Helvetica", "B", 12)
		pdf.Cell(0, 7, legName)
		pdf.Ln(7)

		pdf.SetFont("Helvetica", "", 11)
		pdf.Cell(0, 6, fmt.Sprintf("Schedule : %d", trip.ScheduleID))
		pdf.Ln(6)
		pdf.Cell(0, 6, "Departure: "+trip.TravelDate.Format("2006-01-02 15:04"))
		pdf.Ln(6)
		pdf.Cell(0, 6, "Seats    : "+strings.Join(trip.Seats, ", "))
		pdf.Ln(6)
		pdf.Cell(0, 6, fmt.Sprintf("Price    : %.2f", trip.Price))
		pdf.Ln(9)
	}

	if details.ExtraLuggage > 0 || details.OffsetCO2 || details.AddInsurance {
		pdf.SetFont("Helvetica", "B", 12)
		pdf.Cell(0, 7, "Extras")
		pdf.Ln(7)
		pdf.SetFont("Helvetica", "", 11)
		if details.ExtraLuggage > 0 {
			pdf.Cell(0, 6, fmt.Sprintf("Extra luggage x%d", details.ExtraLuggage))
			pdf.Ln(6)
		}
		if details.OffsetCO2 {
			pdf.Cell(0, 6, "CO2 offset")
			pdf.Ln(6)
		}
		if details.AddInsurance {
			pdf.Cell(0, 6, "Travel insurance")
			pdf.Ln(6)
		}
		pdf.Ln(3)
	}

	pdf.SetFont("Helvetica", "B", 13)
	pdf.Cell(0, 8, fmt.Sprintf("Total Paid: %.2f", details.TotalPaid))
	pdf.Ln(12)

	pdf.SetFont("Helvetica", "I", 9)
	pdf.MultiCell(0, 5, "Please present this ticket together with a valid ID at boarding.", "", "", false)

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, "", fmt.Errorf("failed to render ticket: %w", err)
	}

	filename := fmt.Sprintf("TICKET_%d.pdf", details.ID)
	s.logger.WithField("booking_id", details.ID).Info("Ticket generated")
	return buf.Bytes(), filename, nil
}
