package models

import (
	"math"
	"time"
)

// OrderStatus represents the lifecycle states of a dine-in order
type OrderStatus string

const (
	StatusPending OrderStatus = "pending"
	StatusOpen    OrderStatus = "open"
	StatusClosed  OrderStatus = "closed"
)

// Live reports whether the order still occupies its table
func (s OrderStatus) Live() bool {
	return s == StatusPending || s == StatusOpen
}

type Order struct {
	ID            uint                 `json:"id" gorm:"primaryKey"`
	OrderNumber   string               `json:"order_number" gorm:"uniqueIndex;not null"`
	TableID       uint                 `json:"table_id" gorm:"not null;index"`
	Table         Table                `json:"table,omitempty" gorm:"foreignKey:TableID"`
	UserID        uint                 `json:"user_id" gorm:"not null"`
	User          *User                `json:"user,omitempty" gorm:"foreignKey:UserID"`
	Status        OrderStatus          `json:"status" gorm:"not null;default:'pending';index"`
	Items         []OrderItem          `json:"items" gorm:"foreignKey:OrderID"`
	Total         float64              `json:"total"`
	StatusHistory []OrderStatusHistory `json:"status_history,omitempty" gorm:"foreignKey:OrderID"`
	ClosedAt      *time.Time           `json:"closed_at,omitempty"`
	CreatedAt     time.Time            `json:"created_at"`
	UpdatedAt     time.Time            `json:"updated_at"`
}

type OrderItem struct {
	ID         uint     `json:"id" gorm:"primaryKey"`
	OrderID    uint     `json:"order_id" gorm:"not null;index"`
	MenuItemID uint     `json:"food_id" gorm:"column:food_id;not null"`
	MenuItem   MenuItem `json:"food,omitempty" gorm:"foreignKey:MenuItemID"`
	Name       string   `json:"name"` // snapshot name
	Quantity   int      `json:"quantity" gorm:"not null"`
	Price      float64  `json:"price" gorm:"not null"` // snapshot price at time of order
	Subtotal   float64  `json:"subtotal"`
	Notes      string   `json:"notes,omitempty"`
}

// OrderStatusHistory tracks every status change of an order
type OrderStatusHistory struct {
	ID         uint        `json:"id" gorm:"primaryKey"`
	OrderID    uint        `json:"order_id" gorm:"not null;index"`
	FromStatus OrderStatus `json:"from_status"`
	ToStatus   OrderStatus `json:"to_status" gorm:"not null"`
	ChangedBy  uint        `json:"changed_by"`
	Note       string      `json:"note"`
	CreatedAt  time.Time   `json:"created_at"`
}

// ComputeSubtotal sets Subtotal to Quantity x Price and returns it
func (it *OrderItem) ComputeSubtotal() float64 {
	it.Subtotal = float64(it.Quantity) * it.Price
	return it.Subtotal
}

// Recalculate recomputes every line subtotal and the order total
func (o *Order) Recalculate() {
	o.Total = SumItems(o.Items)
}

// SumItems recomputes the subtotal of each item and returns their sum
func SumItems(items []OrderItem) float64 {
	var total float64
	for i := range items {
		total += items[i].ComputeSubtotal()
	}
	return total
}

// FindItem returns the line holding the given menu item
func (o *Order) FindItem(menuItemID uint) (*OrderItem, bool) {
	for i := range o.Items {
		if o.Items[i].MenuItemID == menuItemID {
			return &o.Items[i], true
		}
	}
	return nil, false
}

// ItemCount is the number of units across all lines
func (o *Order) ItemCount() int {
	n := 0
	for _, it := range o.Items {
		n += it.Quantity
	}
	return n
}

// RoundCents rounds an amount to whole cents
func RoundCents(v float64) float64 {
	return math.Round(v*100) / 100
}
