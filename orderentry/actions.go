package orderentry

import (
	"context"
	"errors"
	"fmt"

	"resto-pos/api"
	"resto-pos/models"
	"resto-pos/statemachine"
)

// AddItem puts one unit of food on the order, merging with an existing line.
func (e *Entry) AddItem(ctx context.Context, food models.MenuItem) error {
	if !food.Available {
		return ErrUnavailable
	}

	switch st := e.state.(type) {
	case Draft:
		e.state = st.add(food)
		return nil
	case Persisted:
		if st.Order.Status == models.StatusClosed {
			return ErrReadOnly
		}
		var (
			order models.Order
			err   error
		)
		if line, found := findLine(st.Order.Items, food.ID); found {
			order, err = e.api.Orders.UpdateItem(ctx, st.Order.ID, line.ID, line.Quantity+1)
		} else {
			order, err = e.api.Orders.AddItem(ctx, st.Order.ID, api.ItemInput{FoodID: food.ID, Quantity: 1})
		}
		if err != nil {
			return e.fail(err, "Failed to add item")
		}
		e.state = Persisted{Order: order}
	}
	return nil
}

// Increment raises the quantity of a line by one
func (e *Entry) Increment(ctx context.Context, foodID uint) error {
	line, found := findLine(e.state.Lines(), foodID)
	if !found {
		return ErrNoSuchItem
	}
	return e.SetQuantity(ctx, foodID, line.Quantity+1)
}

// Decrement lowers the quantity of a line by one. It never removes the line.
func (e *Entry) Decrement(ctx context.Context, foodID uint) error {
	line, found := findLine(e.state.Lines(), foodID)
	if !found {
		return ErrNoSuchItem
	}
	return e.SetQuantity(ctx, foodID, line.Quantity-1)
}

// SetQuantity changes the quantity of a line; quantities below 1 are rejected
// without touching state or the API.
func (e *Entry) SetQuantity(ctx context.Context, foodID uint, qty int) error {
	if qty < 1 {
		return ErrQuantityBelowOne
	}
	line, found := findLine(e.state.Lines(), foodID)
	if !found {
		return ErrNoSuchItem
	}

	switch st := e.state.(type) {
	case Draft:
		e.state = st.setQuantity(foodID, qty)
	case Persisted:
		if st.Order.Status == models.StatusClosed {
			return ErrReadOnly
		}
		order, err := e.api.Orders.UpdateItem(ctx, st.Order.ID, line.ID, qty)
		if err != nil {
			return e.fail(err, "Failed to update quantity")
		}
		e.state = Persisted{Order: order}
	}
	return nil
}

// Remove drops a line from the order
func (e *Entry) Remove(ctx context.Context, foodID uint) error {
	line, found := findLine(e.state.Lines(), foodID)
	if !found {
		return ErrNoSuchItem
	}

	switch st := e.state.(type) {
	case Draft:
		e.state = st.remove(foodID)
	case Persisted:
		if st.Order.Status == models.StatusClosed {
			return ErrReadOnly
		}
		order, err := e.api.Orders.RemoveItem(ctx, st.Order.ID, line.ID)
		if err != nil {
			return e.fail(err, "Failed to remove item")
		}
		e.state = Persisted{Order: order}
	}
	return nil
}

// SaveDraft persists a local cart as a pending order. A persisted order is already saved.
func (e *Entry) SaveDraft(ctx context.Context) error {
	if _, ok := e.state.(Persisted); ok {
		e.commit()
		return nil
	}
	order, err := e.persist(ctx)
	if err != nil {
		return e.fail(err, "Failed to save draft")
	}
	e.state = Persisted{Order: order}
	e.commit()
	return nil
}

// SendToKitchen persists the cart if needed and activates the order (pending -> open).
// The role is checked before anything is sent to the server.
func (e *Entry) SendToKitchen(ctx context.Context) error {
	from := models.StatusPending
	if p, ok := e.state.(Persisted); ok {
		if p.Order.Status == models.StatusOpen {
			return ErrAlreadySent
		}
		from = p.Order.Status
	}
	if err := statemachine.CanTransition(from, models.StatusOpen, e.role()); err != nil {
		if statemachine.Allowed(from, models.StatusOpen) {
			e.banner = "You are not allowed to send orders to the kitchen"
		}
		return err
	}

	order, err := e.persist(ctx)
	if err != nil {
		return e.fail(err, "Failed to send order")
	}
	e.state = Persisted{Order: order}
	if len(order.Items) == 0 {
		return ErrEmptyOrder
	}

	// A failed activation leaves a pending order; Release removes it if it was allocated here
	activated, err := e.api.Orders.Activate(ctx, order.ID)
	if err != nil {
		return e.fail(err, "Failed to send order")
	}
	e.state = Persisted{Order: activated}
	e.commit()
	return nil
}

// Close checks out an order that is open. It returns the closed order so the
// caller can offer to print the receipt.
func (e *Entry) Close(ctx context.Context) (models.Order, error) {
	p, ok := e.state.(Persisted)
	if !ok || p.Order.Status != models.StatusOpen {
		return models.Order{}, ErrNotOpen
	}
	if err := statemachine.CanTransition(p.Order.Status, models.StatusClosed, e.role()); err != nil {
		return models.Order{}, err
	}

	closed, err := e.api.Orders.Close(ctx, p.Order.ID)
	if err != nil {
		return models.Order{}, e.fail(err, "Failed to close order")
	}
	e.state = Persisted{Order: closed}
	e.commit()
	return closed, nil
}

// Discard throws the order away: a local cart is cleared, a pending order deleted.
func (e *Entry) Discard(ctx context.Context) error {
	switch st := e.state.(type) {
	case Draft:
		e.state = Draft{}
		return nil
	case Persisted:
		if err := statemachine.CanTransition(st.Order.Status, statemachine.Discarded, e.role()); err != nil {
			return ErrNotDiscardable
		}
		if err := e.api.Orders.Delete(ctx, st.Order.ID); err != nil {
			return e.fail(err, "Failed to discard order")
		}
		e.state = Draft{}
		e.handle = nil
	}
	return nil
}

// Release ends the view. A pending order this view allocated but never
// committed is deleted. Failures are logged and returned, never shown.
func (e *Entry) Release(ctx context.Context) error {
	h := e.handle
	e.handle = nil
	if h == nil || h.committed {
		return nil
	}
	if err := e.api.Orders.Delete(ctx, h.orderID); err != nil {
		e.log.Printf("failed to delete unsaved order %d: %v", h.orderID, err)
		return fmt.Errorf("delete unsaved order %d: %w", h.orderID, err)
	}
	if p, ok := e.state.(Persisted); ok && p.Order.ID == h.orderID {
		e.state = Draft{}
	}
	return nil
}

func (e *Entry) commit() {
	if e.handle != nil {
		e.handle.committed = true
	}
}

// persist returns the server copy of the order, creating it from the local
// cart first when needed: create, replay every line, refetch.
// If any step fails the new order is deleted and the cart is left as it was.
func (e *Entry) persist(ctx context.Context) (models.Order, error) {
	switch st := e.state.(type) {
	case Persisted:
		return st.Order, nil
	case Draft:
		if len(st.Items) == 0 {
			return models.Order{}, ErrEmptyOrder
		}

		order, err := e.api.Orders.CreateDraft(ctx, e.table.ID)
		if err != nil {
			return models.Order{}, err
		}
		e.handle = &handle{orderID: order.ID}

		for _, it := range st.Items {
			in := api.ItemInput{FoodID: it.MenuItemID, Quantity: it.Quantity, Notes: it.Notes}
			if _, err := e.api.Orders.AddItem(ctx, order.ID, in); err != nil {
				return models.Order{}, errors.Join(err, e.Release(ctx))
			}
		}

		canonical, err := e.api.Orders.Get(ctx, order.ID)
		if err != nil {
			return models.Order{}, errors.Join(err, e.Release(ctx))
		}
		return canonical, nil
	}
	return models.Order{}, fmt.Errorf("unknown order state %T", e.state)
}
