// Package receipt renders the billing document of a closed order as PDF.
package receipt

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"strconv"
	"time"

	"resto-pos/models"

	"github.com/go-pdf/fpdf"
)

// ContentType of a rendered receipt
const ContentType = "application/pdf"

// ErrNotClosed is returned for orders that have not been checked out yet
var ErrNotClosed = errors.New("receipt is only available for closed orders")

// Header is printed at the top of every receipt.
type Header struct {
	Restaurant string
	Address    string
}

// Filename is the download name of an order's receipt
func Filename(orderID uint) string {
	return "receipt-order-" + strconv.FormatUint(uint64(orderID), 10) + ".pdf"
}

// Render writes the receipt of a closed order to w.
func Render(w io.Writer, hdr Header, order models.Order) error {
	if order.Status != models.StatusClosed {
		return ErrNotClosed
	}

	pdf := fpdf.New("P", "mm", "A5", "")
	pdf.SetTitle("Receipt "+order.OrderNumber, true)
	pdf.SetMargins(12, 12, 12)
	pdf.AddPage()
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	pageW, _ := pdf.GetPageSize()
	left, _, right, _ := pdf.GetMargins()
	width := pageW - left - right

	pdf.SetFont("Helvetica", "B", 16)
	pdf.CellFormat(width, 8, tr(hdr.Restaurant), "", 1, "C", false, 0, "")
	if hdr.Address != "" {
		pdf.SetFont("Helvetica", "", 9)
		pdf.CellFormat(width, 5, tr(hdr.Address), "", 1, "C", false, 0, "")
	}
	pdf.Ln(4)

	pdf.SetFont("Helvetica", "", 10)
	closed := order.UpdatedAt
	if order.ClosedAt != nil {
		closed = *order.ClosedAt
	}
	meta := [][2]string{
		{"Order", order.OrderNumber},
		{"Table", order.Table.TableNumber},
		{"Date", closed.Format("02 Jan 2006 15:04")},
	}
	for _, m := range meta {
		pdf.CellFormat(25, 6, m[0], "", 0, "L", false, 0, "")
		pdf.CellFormat(width-25, 6, tr(m[1]), "", 1, "L", false, 0, "")
	}
	rule(pdf, left, width)

	qtyW, priceW, subW := 12.0, 25.0, 28.0
	nameW := width - qtyW - priceW - subW

	pdf.SetFont("Helvetica", "B", 10)
	pdf.CellFormat(nameW, 7, "Item", "", 0, "L", false, 0, "")
	pdf.CellFormat(qtyW, 7, "Qty", "", 0, "R", false, 0, "")
	pdf.CellFormat(priceW, 7, "Price", "", 0, "R", false, 0, "")
	pdf.CellFormat(subW, 7, "Subtotal", "", 1, "R", false, 0, "")

	pdf.SetFont("Helvetica", "", 10)
	for _, it := range order.Items {
		name := it.Name
		if name == "" {
			name = it.MenuItem.Name
		}
		pdf.CellFormat(nameW, 6, tr(name), "", 0, "L", false, 0, "")
		pdf.CellFormat(qtyW, 6, strconv.Itoa(it.Quantity), "", 0, "R", false, 0, "")
		pdf.CellFormat(priceW, 6, models.FormatPrice(it.Price), "", 0, "R", false, 0, "")
		pdf.CellFormat(subW, 6, models.FormatPrice(float64(it.Quantity)*it.Price), "", 1, "R", false, 0, "")
	}
	rule(pdf, left, width)

	pdf.SetFont("Helvetica", "B", 12)
	pdf.CellFormat(width-subW, 8, "Total", "", 0, "L", false, 0, "")
	pdf.CellFormat(subW, 8, models.FormatPrice(models.SumItems(order.Items)), "", 1, "R", false, 0, "")

	pdf.Ln(6)
	pdf.SetFont("Helvetica", "I", 9)
	pdf.CellFormat(width, 5, "Thank you for dining with us!", "", 1, "C", false, 0, "")
	pdf.CellFormat(width, 5, "Printed "+time.Now().Format("02 Jan 2006 15:04"), "", 1, "C", false, 0, "")

	if err := pdf.Output(w); err != nil {
		return fmt.Errorf("render receipt: %w", err)
	}
	return nil
}

// Bytes renders the receipt into memory
func Bytes(hdr Header, order models.Order) ([]byte, error) {
	var buf bytes.Buffer
	if err := Render(&buf, hdr, order); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func rule(pdf *fpdf.Fpdf, left, width float64) {
	pdf.Ln(2)
	y := pdf.GetY()
	pdf.Line(left, y, left+width, y)
	pdf.Ln(2)
}
