// Package orderentry is the order-entry view: it builds a cart for one table,
// persists it as a pending order, sends it to the kitchen and checks it out.
//
// Until the first save point the cart lives only in memory (Draft). Once the
// API has assigned an id (Persisted) every change is a server call and the view
// mirrors the server's response. Every Entry must be released with Release.
package orderentry

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"strings"

	"resto-pos/api"
	"resto-pos/models"
	"resto-pos/statemachine"
)

var (
	ErrQuantityBelowOne = errors.New("quantity cannot drop below 1")
	ErrEmptyOrder       = errors.New("order has no items")
	ErrUnavailable      = errors.New("menu item is not available")
	ErrNoSuchItem       = errors.New("item is not on the order")
	ErrNotOpen          = errors.New("only orders sent to the kitchen can be closed")
	ErrNotDiscardable   = errors.New("only pending orders can be discarded")
	ErrAlreadySent      = errors.New("order was already sent to the kitchen")
	ErrReadOnly         = errors.New("closed orders cannot be changed")
)

// OrderAPI is the part of the orders resource the view uses.
type OrderAPI interface {
	List(ctx context.Context, opts api.ListOptions) ([]models.Order, error)
	Get(ctx context.Context, id uint) (models.Order, error)
	CreateDraft(ctx context.Context, tableID uint) (models.Order, error)
	AddItem(ctx context.Context, orderID uint, in api.ItemInput) (models.Order, error)
	UpdateItem(ctx context.Context, orderID, itemID uint, quantity int) (models.Order, error)
	RemoveItem(ctx context.Context, orderID, itemID uint) (models.Order, error)
	Delete(ctx context.Context, id uint) error
	Activate(ctx context.Context, id uint) (models.Order, error)
	Close(ctx context.Context, id uint) (models.Order, error)
}

type MenuAPI interface {
	List(ctx context.Context, category string) ([]models.MenuItem, error)
}

type TableAPI interface {
	Get(ctx context.Context, id uint) (models.Table, error)
}

// RoleSource tells the view who is operating it
type RoleSource interface {
	Role() models.UserRole
}

// Backend groups the resources the view talks to.
type Backend struct {
	Orders OrderAPI
	Menu   MenuAPI
	Tables TableAPI
}

// FromClient wires a Backend to an API client
func FromClient(c *api.Client) Backend {
	return Backend{Orders: c.Orders, Menu: c.Menu, Tables: c.Tables}
}

type Option func(*Entry)

func WithLogger(l *log.Logger) Option {
	return func(e *Entry) {
		if l != nil {
			e.log = l
		}
	}
}

// handle is a pending order allocated by this view. Uncommitted handles are
// deleted on Release.
type handle struct {
	orderID   uint
	committed bool
}

type Entry struct {
	api   Backend
	roles RoleSource
	log   *log.Logger

	table      models.Table
	menu       []models.MenuItem
	categories []string
	category   string
	search     string

	state  State
	handle *handle
	banner string
}

// Open loads the menu, the table and any live order of the table.
func Open(ctx context.Context, backend Backend, roles RoleSource, tableID uint, opts ...Option) (*Entry, error) {
	e := &Entry{
		api:   backend,
		roles: roles,
		log:   log.New(os.Stderr, "[order-entry] ", log.LstdFlags),
		state: Draft{},
	}
	for _, opt := range opts {
		opt(e)
	}

	menu, err := backend.Menu.List(ctx, "")
	if err != nil {
		return nil, fmt.Errorf("load menu: %w", err)
	}
	e.setMenu(menu)

	table, err := backend.Tables.Get(ctx, tableID)
	if err != nil {
		return nil, fmt.Errorf("load table %d: %w", tableID, err)
	}
	e.table = table

	live, err := backend.Orders.List(ctx, api.ListOptions{
		Statuses: []models.OrderStatus{models.StatusPending, models.StatusOpen},
		TableID:  tableID,
	})
	if err != nil {
		return nil, fmt.Errorf("load orders of table %d: %w", tableID, err)
	}
	if len(live) > 0 {
		order := live[0]
		order.Recalculate()
		e.state = Persisted{Order: order}
	}
	return e, nil
}

func (e *Entry) setMenu(menu []models.MenuItem) {
	e.menu = menu
	e.categories = nil
	seen := map[string]bool{}
	for _, item := range menu {
		if item.Category == "" || seen[item.Category] {
			continue
		}
		seen[item.Category] = true
		e.categories = append(e.categories, item.Category)
	}
	if len(e.categories) > 0 {
		e.category = e.categories[0]
	}
}

func (e *Entry) Table() models.Table { return e.table }
func (e *Entry) State() State        { return e.state }
func (e *Entry) Phase() Phase        { return e.state.Phase() }

// Items returns a copy of the order lines
func (e *Entry) Items() []models.OrderItem { return cloneItems(e.state.Lines()) }

func (e *Entry) Total() float64 { return e.state.Amount() }

// OrderID is the server id of the order, when it has one
func (e *Entry) OrderID() (uint, bool) {
	if p, ok := e.state.(Persisted); ok {
		return p.Order.ID, true
	}
	return 0, false
}

// Saved reports whether nothing is held only in memory
func (e *Entry) Saved() bool {
	if _, ok := e.state.(Persisted); ok {
		return e.handle == nil || e.handle.committed
	}
	return e.state.Phase() == PhaseNoOrder
}

// Banner is the current error message, empty when there is none
func (e *Entry) Banner() string { return e.banner }

func (e *Entry) DismissBanner() { e.banner = "" }

func (e *Entry) fail(err error, fallback string) error {
	e.banner = api.Message(err, fallback)
	return err
}

func (e *Entry) role() models.UserRole {
	if e.roles == nil {
		return ""
	}
	return e.roles.Role()
}

// CanSend reports whether Send to Kitchen is enabled
func (e *Entry) CanSend() bool {
	if statemachine.CanTransition(models.StatusPending, models.StatusOpen, e.role()) != nil {
		return false
	}
	switch e.Phase() {
	case PhaseLocalDraft:
		return true
	case PhasePending:
		return len(e.state.Lines()) > 0
	}
	return false
}

// CanClose reports whether Close Order is enabled for the current user
func (e *Entry) CanClose() bool {
	p, ok := e.state.(Persisted)
	return ok && statemachine.CanTransition(p.Order.Status, models.StatusClosed, e.role()) == nil
}

// CanDiscard reports whether Discard is enabled
func (e *Entry) CanDiscard() bool {
	switch e.Phase() {
	case PhaseLocalDraft, PhasePending:
		return true
	}
	return false
}

// ── Menu browsing ────────────────────────────────────────────────────────────

// Menu is the full menu loaded when the view opened
func (e *Entry) Menu() []models.MenuItem { return e.menu }

func (e *Entry) Categories() []string { return e.categories }
func (e *Entry) Category() string     { return e.category }

func (e *Entry) SelectCategory(category string) { e.category = category }
func (e *Entry) Search(query string)            { e.search = query }

// VisibleMenu is the menu narrowed to the selected category and search text
func (e *Entry) VisibleMenu() []models.MenuItem {
	q := strings.ToLower(strings.TrimSpace(e.search))
	var out []models.MenuItem
	for _, item := range e.menu {
		if e.category != "" && item.Category != e.category {
			continue
		}
		if q != "" && !strings.Contains(strings.ToLower(item.Name), q) {
			continue
		}
		out = append(out, item)
	}
	return out
}

// Food looks a menu item up by id
func (e *Entry) Food(id uint) (models.MenuItem, bool) {
	for _, item := range e.menu {
		if item.ID == id {
			return item, true
		}
	}
	return models.MenuItem{}, false
}
