package notify

import (
	"bytes"
	"fmt"
	"time"

	"github.com/phpdave11/gofpdf"

	"github.com/care-io/service-booking/internal/application"
)

// RenderInvoice returns a one-page PDF invoice for a booking.
func RenderInvoice(recipient string, summary application.BookingSummary) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle("Invoice "+summary.BookingNumber, false)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 18)
	pdf.Cell(0, 10, "Care.IO Booking Invoice")
	pdf.Ln(12)

	pdf.SetFont("Helvetica", "", 12)
	pdf.Cell(0, 7, "Invoice No : "+summary.BookingNumber)
	pdf.Ln(7)
	pdf.Cell(0, 7, "Date       : "+summary.CreatedAt.In(time.UTC).Format("2006-01-02 15:04"))
	pdf.Ln(7)
	pdf.Cell(0, 7, "Billed to  : "+safe(recipient, "-"))
	pdf.Ln(12)

	pdf.SetFont("Helvetica", "B", 12)
	pdf.Cell(0, 7, "Details:")
	pdf.Ln(8)

	pdf.SetFont("Helvetica", "", 11)
	rows := [][2]string{
		{"Service", summary.ServiceName},
		{"Duration", fmt.Sprintf("%d %s", summary.Duration, summary.DurationType)},
		{"Location", summary.Location.String()},
		{"Status", summary.Status},
	}
	for _, row := range rows {
		pdf.CellFormat(40, 8, row[0], "1", 0, "L", false, 0, "")
		pdf.CellFormat(0, 8, safe(row[1], "-"), "1", 1, "L", false, 0, "")
	}
	if summary.Notes != "" {
		pdf.Ln(2)
		pdf.MultiCell(0, 6, "Notes: "+summary.Notes, "", "", false)
	}
	pdf.Ln(6)

	pdf.SetFont("Helvetica", "B", 12)
	pdf.Cell(0, 8, "Total: "+formatAmount(summary.TotalCost, summary.Currency))
	pdf.Ln(12)

	pdf.SetFont("Helvetica", "I", 10)
	pdf.MultiCell(0, 6, "You can track your booking status in your account dashboard.", "", "", false)

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("render invoice: %w", err)
	}
	return buf.Bytes(), nil
}

func formatAmount(amount int64, currency string) string {
	return fmt.Sprintf("%s %d", currency, amount)
}

func safe(s, fallback string) string {
	if s == "" {
		return fallback
	}
	return s
}
