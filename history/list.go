// Package history is the order list and the read-only order detail with receipt printing.
package history

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"resto-pos/api"
	"resto-pos/models"
)

// AllStatuses disables the status filter
const AllStatuses = "all"

var ErrNotOpen = errors.New("only open orders can be closed")

type OrderAPI interface {
	List(ctx context.Context, opts api.ListOptions) ([]models.Order, error)
	Get(ctx context.Context, id uint) (models.Order, error)
	Close(ctx context.Context, id uint) (models.Order, error)
	Receipt(ctx context.Context, id uint) (api.Receipt, error)
}

// RouteKind says which view an order opens in
type RouteKind int

const (
	RouteOrderEntry RouteKind = iota
	RouteReceipt
)

type Route struct {
	Kind    RouteKind
	OrderID uint
	TableID uint
}

type List struct {
	orders OrderAPI

	all    []models.Order
	status string
	search string
	banner string
}

func NewList(orders OrderAPI) *List {
	return &List{orders: orders, status: AllStatuses}
}

func (l *List) Load(ctx context.Context) error {
	orders, err := l.orders.List(ctx, api.ListOptions{})
	if err != nil {
		l.banner = api.Message(err, "Failed to fetch orders")
		return fmt.Errorf("list orders: %w", err)
	}
	for i := range orders {
		orders[i].Recalculate()
	}
	l.all = orders
	return nil
}

// SetFilter keeps orders with the given status ("all" for any) whose order
// number or table number contains search.
func (l *List) SetFilter(status, search string) {
	if status == "" {
		status = AllStatuses
	}
	l.status = status
	l.search = strings.TrimSpace(search)
}

// Visible is the filtered list, newest first
func (l *List) Visible() []models.Order {
	q := strings.ToLower(l.search)
	var out []models.Order
	for _, o := range l.all {
		if l.status != AllStatuses && string(o.Status) != l.status {
			continue
		}
		if q != "" &&
			!strings.Contains(strings.ToLower(o.OrderNumber), q) &&
			!strings.Contains(strings.ToLower(o.Table.TableNumber), q) {
			continue
		}
		out = append(out, o)
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID > out[j].ID
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out
}

func (l *List) Banner() string { return l.banner }
func (l *List) DismissBanner() { l.banner = "" }

func (l *List) CanClose(o models.Order) bool {
	return o.Status == models.StatusOpen
}

// Close checks out an open order of the list and reloads it
func (l *List) Close(ctx context.Context, id uint) error {
	var found *models.Order
	for i := range l.all {
		if l.all[i].ID == id {
			found = &l.all[i]
			break
		}
	}
	if found == nil || !l.CanClose(*found) {
		return ErrNotOpen
	}
	l.banner = ""
	if _, err := l.orders.Close(ctx, id); err != nil {
		l.banner = api.Message(err, "Failed to close order")
		return err
	}
	return l.Load(ctx)
}

// Route sends closed orders to the receipt detail and live ones to order entry
func (l *List) Route(o models.Order) Route {
	if o.Status == models.StatusClosed {
		return Route{Kind: RouteReceipt, OrderID: o.ID, TableID: o.TableID}
	}
	return Route{Kind: RouteOrderEntry, OrderID: o.ID, TableID: o.TableID}
}
