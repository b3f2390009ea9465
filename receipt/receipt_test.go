package receipt

import (
	"bytes"
	"errors"
	"testing"
	"time"

	"resto-pos/models"
)

func closedOrder() models.Order {
	closed := time.Date(2026, 3, 14, 19, 30, 0, 0, time.UTC)
	return models.Order{
		ID:          42,
		OrderNumber: "ORD-20260314-ABC123",
		Status:      models.StatusClosed,
		Table:       models.Table{TableNumber: "T5"},
		ClosedAt:    &closed,
		Items: []models.OrderItem{
			{Name: "Burger", Quantity: 2, Price: 8},
			{Name: "Cola", Quantity: 1, Price: 2},
		},
	}
}

func TestRenderProducesPDF(t *testing.T) {
	data, err := Bytes(Header{Restaurant: "Resto"}, closedOrder())
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.HasPrefix(data, []byte("%PDF-")) {
		t.Fatalf("output is not a PDF: %q", data[:min(len(data), 16)])
	}
}

func TestRenderRejectsOpenOrders(t *testing.T) {
	o := closedOrder()
	o.Status = models.StatusOpen
	if _, err := Bytes(Header{Restaurant: "Resto"}, o); !errors.Is(err, ErrNotClosed) {
		t.Fatalf("err = %v, want ErrNotClosed", err)
	}
}

func TestFilename(t *testing.T) {
	if got := Filename(42); got != "receipt-order-42.pdf" {
		t.Fatalf("Filename = %q", got)
	}
}
