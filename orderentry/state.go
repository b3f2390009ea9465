package orderentry

import (
	"resto-pos/models"
)

// Phase is the lifecycle position of the order shown by an Entry.
type Phase int

const (
	PhaseNoOrder Phase = iota
	PhaseLocalDraft
	PhasePending
	PhaseOpen
	PhaseClosed
)

func (p Phase) String() string {
	switch p {
	case PhaseNoOrder:
		return "no-order"
	case PhaseLocalDraft:
		return "local-draft"
	case PhasePending:
		return "persisted-pending"
	case PhaseOpen:
		return "open"
	case PhaseClosed:
		return "closed"
	}
	return "unknown"
}

// State is either a Draft held only in memory or a Persisted order owned by the API.
type State interface {
	Phase() Phase
	Lines() []models.OrderItem
	Amount() float64
}

// Draft is a cart that has never been sent to the API.
type Draft struct {
	Items []models.OrderItem
	Total float64
}

func (d Draft) Phase() Phase {
	if len(d.Items) == 0 {
		return PhaseNoOrder
	}
	return PhaseLocalDraft
}

func (d Draft) Lines() []models.OrderItem { return d.Items }
func (d Draft) Amount() float64           { return d.Total }

// add merges one unit of food into the draft and returns the new draft
func (d Draft) add(food models.MenuItem) Draft {
	items := cloneItems(d.Items)
	found := false
	for i := range items {
		if items[i].MenuItemID == food.ID {
			items[i].Quantity++
			found = true
			break
		}
	}
	if !found {
		items = append(items, models.OrderItem{
			MenuItemID: food.ID,
			MenuItem:   food,
			Name:       food.Name,
			Quantity:   1,
			Price:      food.Price,
		})
	}
	return Draft{Items: items, Total: models.SumItems(items)}
}

func (d Draft) setQuantity(foodID uint, qty int) Draft {
	items := cloneItems(d.Items)
	for i := range items {
		if items[i].MenuItemID == foodID {
			items[i].Quantity = qty
		}
	}
	return Draft{Items: items, Total: models.SumItems(items)}
}

func (d Draft) remove(foodID uint) Draft {
	items := make([]models.OrderItem, 0, len(d.Items))
	for _, it := range d.Items {
		if it.MenuItemID != foodID {
			items = append(items, it)
		}
	}
	return Draft{Items: items, Total: models.SumItems(items)}
}

// Persisted is an order that exists server-side. The API is its source of truth.
type Persisted struct {
	Order models.Order
}

func (p Persisted) Phase() Phase {
	switch p.Order.Status {
	case models.StatusOpen:
		return PhaseOpen
	case models.StatusClosed:
		return PhaseClosed
	}
	return PhasePending
}

func (p Persisted) Lines() []models.OrderItem { return p.Order.Items }
func (p Persisted) Amount() float64           { return p.Order.Total }

func cloneItems(items []models.OrderItem) []models.OrderItem {
	out := make([]models.OrderItem, len(items))
	copy(out, items)
	return out
}

func findLine(items []models.OrderItem, foodID uint) (models.OrderItem, bool) {
	for _, it := range items {
		if it.MenuItemID == foodID {
			return it, true
		}
	}
	return models.OrderItem{}, false
}
