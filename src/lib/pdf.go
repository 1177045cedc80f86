package lib

import (
	"bytes"
	"encoding/base64"
	"etix/src/models"
	"fmt"
	"log"
	"strings"

	"github.com/jung-kurt/gofpdf"
)

// RenderTicketPdf draws a printable e-ticket with the stored QR stub. Pure
// rendering: all business checks happen before this is called.
func RenderTicketPdf(ticket *models.Ticket, event *models.Event, user *models.User) ([]byte, error) {
	base64Data := ticket.QRCodeData
	if idx := strings.Index(base64Data, ","); idx >= 0 {
		base64Data = base64Data[idx+1:]
	}
	qrBytes, err := base64.StdEncoding.DecodeString(base64Data)
	if err != nil {
		log.Printf("Could not decode QR data for ticket %s: %s\n", ticket.TicketNumber, err.Error())
		qrBytes = nil
	}

	pdf := gofpdf.New("L", "mm", "A5", "")
	pdf.SetAutoPageBreak(false, 0)
	pdf.AddPage()

	// Main section
	pdf.SetFillColor(59, 66, 82)
	pdf.Rect(0, 0, 150, 148, "F")
	pdf.SetTextColor(229, 231, 235)
	pdf.SetFont("Helvetica", "", 8)
	pdf.Text(8, 10, fmt.Sprintf("ID: %s", ticket.TicketNumber))

	pdf.SetTextColor(244, 114, 182)
	pdf.SetFont("Helvetica", "B", 22)
	pdf.SetXY(0, 30)
	pdf.CellFormat(150, 12, strings.ToUpper(event.Title), "", 1, "C", false, 0, "")

	pdf.SetTextColor(251, 191, 36)
	pdf.SetFont("Helvetica", "", 11)
	pdf.CellFormat(150, 8, "* * * * *", "", 1, "C", false, 0, "")

	pdf.SetTextColor(156, 163, 175)
	pdf.SetFont("Helvetica", "", 8)
	pdf.Text(10, 80, "DATE")
	pdf.Text(60, 80, "PRICE")
	pdf.Text(100, 80, "ATTENDEE")

	pdf.SetTextColor(255, 255, 255)
	pdf.SetFont("Helvetica", "B", 12)
	pdf.Text(10, 88, event.DateTime.Format("Jan 02"))
	pdf.Text(60, 88, event.Price.StringFixed(2))
	pdf.Text(100, 88, user.DisplayName())

	pdf.SetTextColor(244, 114, 182)
	pdf.SetFont("Helvetica", "B", 11)
	pdf.Text(10, 95, event.DateTime.Format("15:04"))

	pdf.SetTextColor(156, 163, 175)
	pdf.SetFont("Helvetica", "", 8)
	pdf.Text(10, 110, "ORGANIZER")
	pdf.SetTextColor(209, 213, 219)
	pdf.SetFont("Helvetica", "", 10)
	pdf.Text(10, 117, event.Organizer.DisplayName())

	// Stub section
	pdf.SetFillColor(253, 230, 138)
	pdf.Rect(150, 0, 60, 148, "F")
	pdf.SetTextColor(31, 41, 55)
	pdf.SetFont("Helvetica", "", 8)
	pdf.Text(155, 10, fmt.Sprintf("ID: %s", ticket.TicketNumber))

	if len(qrBytes) > 0 {
		opts := gofpdf.ImageOptions{ImageType: "JPG", ReadDpi: false}
		pdf.RegisterImageOptionsReader(ticket.TicketNumber, opts, bytes.NewReader(qrBytes))
		pdf.ImageOptions(ticket.TicketNumber, 160, 30, 40, 40, false, opts, 0, "")
	}

	pdf.SetFont("Helvetica", "B", 16)
	pdf.Text(155, 130, "ADMIT ONE")

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
