// Package floor is the staff floor plan and the guest-facing table board.
package floor

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"resto-pos/api"
	"resto-pos/models"
	"resto-pos/orderentry"
)

var (
	ErrUnknownTable  = errors.New("table is not on the floor")
	ErrTableInactive = errors.New("table is inactive")
)

type TableLister interface {
	List(ctx context.Context) ([]models.Table, error)
}

type OrderLister interface {
	List(ctx context.Context, opts api.ListOptions) ([]models.Order, error)
}

// TableView is a table as shown on the floor. Status is derived from the
// table's live orders and never written back to the API.
type TableView struct {
	Table  models.Table
	Status models.TableStatus
	Order  *models.Order
}

// Summary counts tables per derived status
type Summary struct {
	Total     int
	Available int
	Occupied  int
	Reserved  int
	Inactive  int
}

type Floor struct {
	tables TableLister
	orders OrderLister

	views  []TableView
	banner string
}

func New(tables TableLister, orders OrderLister) *Floor {
	return &Floor{tables: tables, orders: orders}
}

// FromClient builds a Floor on the client's tables and orders resources
func FromClient(c *api.Client) *Floor {
	return New(c.Tables, c.Orders)
}

// Load fetches the tables and their live orders. On failure the previous
// floor is kept and the banner set.
func (f *Floor) Load(ctx context.Context) error {
	tables, err := f.tables.List(ctx)
	if err != nil {
		f.banner = api.Message(err, "Failed to load tables")
		return fmt.Errorf("list tables: %w", err)
	}
	live, err := f.orders.List(ctx, api.ListOptions{
		Statuses: []models.OrderStatus{models.StatusPending, models.StatusOpen},
	})
	if err != nil {
		f.banner = api.Message(err, "Failed to load orders")
		return fmt.Errorf("list live orders: %w", err)
	}

	byTable := make(map[uint]*models.Order, len(live))
	for i := range live {
		o := &live[i]
		// prefer the order already sent to the kitchen
		if cur, ok := byTable[o.TableID]; !ok || (cur.Status == models.StatusPending && o.Status == models.StatusOpen) {
			byTable[o.TableID] = o
		}
	}

	views := make([]TableView, 0, len(tables))
	for _, t := range tables {
		v := TableView{Table: t, Status: t.Status}
		if o, ok := byTable[t.ID]; ok {
			o.Recalculate()
			v.Order = o
			v.Status = models.TableOccupied
		}
		views = append(views, v)
	}
	sort.SliceStable(views, func(i, j int) bool {
		return naturalLess(views[i].Table.TableNumber, views[j].Table.TableNumber)
	})

	f.views = views
	f.banner = ""
	return nil
}

func (f *Floor) Tables() []TableView {
	return append([]TableView(nil), f.views...)
}

func (f *Floor) Banner() string { return f.banner }
func (f *Floor) DismissBanner() { f.banner = "" }

func (f *Floor) Summary() Summary {
	s := Summary{Total: len(f.views)}
	for _, v := range f.views {
		switch v.Status {
		case models.TableAvailable:
			s.Available++
		case models.TableOccupied:
			s.Occupied++
		case models.TableReserved:
			s.Reserved++
		case models.TableInactive:
			s.Inactive++
		}
	}
	return s
}

// Find returns the view of a table by id or table number
func (f *Floor) Find(ref string) (TableView, bool) {
	for _, v := range f.views {
		if v.Table.TableNumber == ref || fmt.Sprint(v.Table.ID) == ref {
			return v, true
		}
	}
	return TableView{}, false
}

// Enter opens order entry for a table of the loaded floor. The entry resumes
// the table's live order or starts an empty draft.
func (f *Floor) Enter(ctx context.Context, backend orderentry.Backend, roles orderentry.RoleSource, tableID uint, opts ...orderentry.Option) (*orderentry.Entry, error) {
	var view *TableView
	for i := range f.views {
		if f.views[i].Table.ID == tableID {
			view = &f.views[i]
			break
		}
	}
	if view == nil {
		return nil, ErrUnknownTable
	}
	if view.Status == models.TableInactive {
		return nil, ErrTableInactive
	}
	return orderentry.Open(ctx, backend, roles, tableID, opts...)
}

// naturalLess orders T2 before T10
func naturalLess(a, b string) bool {
	pa, na := splitNumber(a)
	pb, nb := splitNumber(b)
	if pa != pb || na < 0 || nb < 0 {
		if pa == pb {
			return a < b
		}
		return pa < pb
	}
	return na < nb
}

func splitNumber(s string) (string, int) {
	i := len(s)
	for i > 0 && s[i-1] >= '0' && s[i-1] <= '9' {
		i--
	}
	if i == len(s) {
		return s, -1
	}
	n := 0
	for _, r := range s[i:] {
		n = n*10 + int(r-'0')
	}
	return s[:i], n
}
