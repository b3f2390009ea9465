package floor

import (
	"context"
	"errors"
	"io"
	"log"
	"sync"
	"testing"
	"time"

	"resto-pos/api"
	"resto-pos/models"
	"resto-pos/orderentry"
	"resto-pos/testutil"
)

type token string

func (t token) Token() string { return string(t) }

type role models.UserRole

func (r role) Role() models.UserRole { return models.UserRole(r) }

func staffClient(t *testing.T, b *testutil.Backend, email string) (*api.Client, models.User) {
	t.Helper()
	anon, err := api.New(b.URL())
	if err != nil {
		t.Fatal(err)
	}
	res, err := anon.Auth.Login(context.Background(), email, testutil.Password)
	if err != nil {
		t.Fatal(err)
	}
	c, err := api.New(b.URL(), api.WithTokenSource(token(res.Token)))
	if err != nil {
		t.Fatal(err)
	}
	return c, res.User
}

func TestLoadDerivesOccupiedTables(t *testing.T) {
	b := testutil.NewBackend(t)
	ctx := context.Background()
	c, _ := staffClient(t, b, testutil.CashierEmail)

	t3 := b.Table(t, "T3")
	order, err := c.Orders.CreateDraft(ctx, t3.ID)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := c.Orders.AddItem(ctx, order.ID, api.ItemInput{FoodID: b.Food(t, "Burger").ID, Quantity: 1}); err != nil {
		t.Fatal(err)
	}
	if _, err := c.Tables.UpdateStatus(ctx, b.Table(t, "T7").ID, models.TableReserved); err != nil {
		t.Fatal(err)
	}

	f := FromClient(c)
	if err := f.Load(ctx); err != nil {
		t.Fatal(err)
	}

	views := f.Tables()
	if len(views) != 8 || views[0].Table.TableNumber != "T1" || views[7].Table.TableNumber != "T8" {
		t.Fatalf("views = %+v", views)
	}
	v, ok := f.Find("T3")
	if !ok || v.Status != models.TableOccupied || v.Order == nil || v.Order.ID != order.ID || v.Order.Total != 8 {
		t.Fatalf("T3 = %+v", v)
	}
	// derived status is not written back
	if got := b.Table(t, "T3").Status; got != models.TableAvailable {
		t.Fatalf("stored T3 status = %s", got)
	}

	want := Summary{Total: 8, Available: 6, Occupied: 1, Reserved: 1}
	if got := f.Summary(); got != want {
		t.Fatalf("summary = %+v, want %+v", got, want)
	}
}

func TestEnter(t *testing.T) {
	b := testutil.NewBackend(t)
	ctx := context.Background()
	c, user := staffClient(t, b, testutil.WaiterEmail)
	if _, err := c.Tables.UpdateStatus(ctx, b.Table(t, "T8").ID, models.TableInactive); err != nil {
		t.Fatal(err)
	}

	f := FromClient(c)
	if err := f.Load(ctx); err != nil {
		t.Fatal(err)
	}
	backend := orderentry.FromClient(c)
	quiet := orderentry.WithLogger(log.New(io.Discard, "", 0))

	if _, err := f.Enter(ctx, backend, role(user.Role), 999, quiet); !errors.Is(err, ErrUnknownTable) {
		t.Fatalf("unknown table: %v", err)
	}
	if _, err := f.Enter(ctx, backend, role(user.Role), b.Table(t, "T8").ID, quiet); !errors.Is(err, ErrTableInactive) {
		t.Fatalf("inactive table: %v", err)
	}

	e, err := f.Enter(ctx, backend, role(user.Role), b.Table(t, "T1").ID, quiet)
	if err != nil {
		t.Fatal(err)
	}
	defer e.Release(ctx)
	if e.Phase() != orderentry.PhaseNoOrder || e.Table().TableNumber != "T1" {
		t.Fatalf("entry = %s %+v", e.Phase(), e.Table())
	}
}

func TestLoadFailureKeepsFloor(t *testing.T) {
	b := testutil.NewBackend(t)
	ctx := context.Background()
	c, _ := staffClient(t, b, testutil.WaiterEmail)
	anon, _ := api.New(b.URL())

	f := New(c.Tables, c.Orders)
	if err := f.Load(ctx); err != nil {
		t.Fatal(err)
	}
	// live orders need a token
	f.orders = anon.Orders
	if err := f.Load(ctx); err == nil {
		t.Fatal("expected error")
	}
	if f.Banner() == "" || len(f.Tables()) != 8 {
		t.Fatalf("banner %q tables %d", f.Banner(), len(f.Tables()))
	}
}

func TestNaturalOrder(t *testing.T) {
	tests := []struct {
		a, b string
		want bool
	}{
		{"T2", "T10", true},
		{"T10", "T2", false},
		{"A1", "B1", true},
		{"Bar", "T1", true},
	}
	for _, tt := range tests {
		if got := naturalLess(tt.a, tt.b); got != tt.want {
			t.Errorf("naturalLess(%q, %q) = %v", tt.a, tt.b, got)
		}
	}
}

// scriptedTables answers List from a queue of results
type scriptedTables struct {
	mu    sync.Mutex
	fails []bool
	calls int
}

func (s *scriptedTables) List(ctx context.Context) ([]models.Table, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fail := s.calls < len(s.fails) && s.fails[s.calls]
	s.calls++
	if fail {
		return nil, errors.New("connection refused")
	}
	return []models.Table{{ID: 1, TableNumber: "T1", Status: models.TableAvailable}}, nil
}

func TestBoardErrorOnlyBeforeFirstLoad(t *testing.T) {
	ctx := context.Background()
	src := &scriptedTables{fails: []bool{true, false, true}}
	board := NewBoard(src, WithLogger(log.New(io.Discard, "", 0)))

	if err := board.Refresh(ctx); err == nil {
		t.Fatal("expected first refresh to fail")
	}
	if board.Error() != "Unable to connect to server." || board.Loaded() {
		t.Fatalf("error = %q loaded = %v", board.Error(), board.Loaded())
	}

	if err := board.Refresh(ctx); err != nil {
		t.Fatal(err)
	}
	if board.Error() != "" || len(board.Tables()) != 1 {
		t.Fatalf("after success: %q %v", board.Error(), board.Tables())
	}

	if err := board.Refresh(ctx); err == nil {
		t.Fatal("expected third refresh to fail")
	}
	if board.Error() != "" || len(board.Tables()) != 1 {
		t.Fatalf("later failure surfaced: %q %v", board.Error(), board.Tables())
	}
}

func TestBoardRunPollsPublicTables(t *testing.T) {
	b := testutil.NewBackend(t)
	anon, err := api.New(b.URL())
	if err != nil {
		t.Fatal(err)
	}

	board := NewBoard(anon.Tables, WithInterval(10*time.Millisecond), WithLogger(log.New(io.Discard, "", 0)))
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	updates := make(chan int, 16)
	done := make(chan error, 1)
	go func() {
		done <- board.Run(ctx, func(b *Board) {
			select {
			case updates <- len(b.Tables()):
			default:
			}
		})
	}()

	for i := 0; i < 2; i++ {
		select {
		case n := <-updates:
			if n != 8 {
				t.Fatalf("tables = %d", n)
			}
		case <-time.After(5 * time.Second):
			t.Fatal("board did not refresh")
		}
	}
	cancel()
	if err := <-done; !errors.Is(err, context.Canceled) {
		t.Fatalf("run = %v", err)
	}
}
