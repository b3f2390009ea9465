package models

import "testing"

func TestRecalculate(t *testing.T) {
	o := Order{Items: []OrderItem{
		{MenuItemID: 1, Quantity: 2, Price: 8},
		{MenuItemID: 2, Quantity: 1, Price: 2},
	}}
	o.Recalculate()

	if o.Total != 18 {
		t.Fatalf("total = %v, want 18", o.Total)
	}
	if o.Items[0].Subtotal != 16 {
		t.Fatalf("burger subtotal = %v, want 16", o.Items[0].Subtotal)
	}

	o.Items[1].Quantity = 3
	o.Recalculate()
	if o.Total != 22 {
		t.Fatalf("total after update = %v, want 22", o.Total)
	}

	o.Items = o.Items[:1]
	o.Recalculate()
	if o.Total != 16 {
		t.Fatalf("total after removal = %v, want 16", o.Total)
	}
}

func TestFindItem(t *testing.T) {
	o := Order{Items: []OrderItem{{MenuItemID: 4, Quantity: 1}}}
	it, ok := o.FindItem(4)
	if !ok {
		t.Fatal("expected item 4")
	}
	it.Quantity = 5
	if o.Items[0].Quantity != 5 {
		t.Fatal("FindItem must return a pointer into the order")
	}
	if _, ok := o.FindItem(9); ok {
		t.Fatal("unexpected item 9")
	}
}

func TestFormatPrice(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{0, "$0.00"},
		{18, "$18.00"},
		{2.5, "$2.50"},
		{1234.5, "$1,234.50"},
		{1234567.891, "$1,234,567.89"},
		{-8, "-$8.00"},
	}
	for _, tt := range tests {
		if got := FormatPrice(tt.in); got != tt.want {
			t.Errorf("FormatPrice(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestStatusLive(t *testing.T) {
	if !StatusPending.Live() || !StatusOpen.Live() {
		t.Fatal("pending and open orders are live")
	}
	if StatusClosed.Live() {
		t.Fatal("closed orders are not live")
	}
}
