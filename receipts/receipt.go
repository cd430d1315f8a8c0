// Package receipts renders order receipts, tracking QR codes and signed
// share links, and downloads receipts on behalf of a shopper.
package receipts

import (
	"bytes"
	"fmt"

	"github.com/phpdave11/gofpdf"
	"github.com/skip2/go-qrcode"

	"freshcart/models"
)

const qrSize = 256

// QR encodes content as a PNG.
func QR(content string, size int) ([]byte, error) {
	if size <= 0 {
		size = qrSize
	}
	png, err := qrcode.Encode(content, qrcode.Medium, size)
	if err != nil {
		return nil, fmt.Errorf("encode qr: %w", err)
	}
	return png, nil
}

// Render builds the PDF receipt of o. When shareURL is set a QR code
// pointing at it is printed next to the header.
func Render(o models.OrderDetails, shareURL string) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.SetTitle("Receipt "+o.ID, true)
	pdf.AddPage()

	pdf.SetFont("Arial", "B", 16)
	pdf.Cell(40, 10, "FreshCart Receipt")
	pdf.Ln(12)

	pdf.SetFont("Arial", "", 11)
	for _, line := range []string{
		fmt.Sprintf("Order: #%s", o.ID),
		fmt.Sprintf("Date: %s", o.PlacedAt.Format("Jan 2, 2006 3:04 PM")),
		fmt.Sprintf("Tracking number: %s", o.TrackingNumber),
		fmt.Sprintf("Deliver to: %s", o.DeliveryAddress),
		fmt.Sprintf("Driver: %s (%s)", o.Driver.Name, o.Driver.Vehicle),
	} {
		pdf.Cell(0, 8, tr(line))
		pdf.Ln(7)
	}

	if shareURL != "" {
		png, err := QR(shareURL, qrSize)
		if err != nil {
			return nil, err
		}
		imageOpts := gofpdf.ImageOptions{ImageType: "PNG"}
		pdf.RegisterImageOptionsReader("qr", imageOpts, bytes.NewReader(png))
		pdf.ImageOptions("qr", 160, 12, 36, 36, false, imageOpts, 0, "")
	}

	pdf.Ln(6)
	pdf.SetFont("Arial", "B", 11)
	pdf.CellFormat(100, 8, "Item", "B", 0, "L", false, 0, "")
	pdf.CellFormat(20, 8, "Qty", "B", 0, "R", false, 0, "")
	pdf.CellFormat(30, 8, "Price", "B", 0, "R", false, 0, "")
	pdf.CellFormat(30, 8, "Amount", "B", 1, "R", false, 0, "")

	pdf.SetFont("Arial", "", 11)
	for _, it := range o.Items {
		name := it.Name
		if it.Weight != "" {
			name += " (" + it.Weight + ")"
		}
		pdf.CellFormat(100, 7, tr(name), "", 0, "L", false, 0, "")
		pdf.CellFormat(20, 7, fmt.Sprintf("%d", it.Quantity), "", 0, "R", false, 0, "")
		pdf.CellFormat(30, 7, fmt.Sprintf("%.2f", it.Price), "", 0, "R", false, 0, "")
		pdf.CellFormat(30, 7, fmt.Sprintf("%.2f", it.Price*float64(it.Quantity)), "", 1, "R", false, 0, "")
	}

	pdf.Ln(2)
	totals := []struct {
		label string
		value float64
	}{
		{"Subtotal", o.Subtotal},
		{"Delivery", o.DeliveryFee},
		{"Total", o.Total},
	}
	for i, row := range totals {
		if i == len(totals)-1 {
			pdf.SetFont("Arial", "B", 11)
		}
		pdf.CellFormat(150, 7, row.label, "", 0, "R", false, 0, "")
		pdf.CellFormat(30, 7, fmt.Sprintf("%.2f", row.value), "", 1, "R", false, 0, "")
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("render receipt: %w", err)
	}
	return buf.Bytes(), nil
}
