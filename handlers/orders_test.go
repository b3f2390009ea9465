package handlers_test

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"testing"

	"resto-pos/models"
	"resto-pos/testutil"

	"gorm.io/gorm"
)

type envelope struct {
	Success bool                `json:"success"`
	Data    json.RawMessage     `json:"data"`
	Message string              `json:"message"`
	Errors  map[string][]string `json:"errors"`
}

type apiCaller struct {
	t     *testing.T
	base  string
	token string
}

func (a *apiCaller) do(method, path string, body any) (int, envelope) {
	a.t.Helper()
	var rdr *bytes.Reader
	if body != nil {
		b, _ := json.Marshal(body)
		rdr = bytes.NewReader(b)
	} else {
		rdr = bytes.NewReader(nil)
	}
	req, _ := http.NewRequest(method, a.base+path, rdr)
	req.Header.Set("Content-Type", "application/json")
	if a.token != "" {
		req.Header.Set("Authorization", "Bearer "+a.token)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		a.t.Fatalf("%s %s: %v", method, path, err)
	}
	defer resp.Body.Close()
	var env envelope
	_ = json.NewDecoder(resp.Body).Decode(&env)
	return resp.StatusCode, env
}

func (a *apiCaller) order(method, path string, body any, wantCode int) models.Order {
	a.t.Helper()
	code, env := a.do(method, path, body)
	if code != wantCode {
		a.t.Fatalf("%s %s: status %d (%s), want %d", method, path, code, env.Message, wantCode)
	}
	var o models.Order
	if err := json.Unmarshal(env.Data, &o); err != nil {
		a.t.Fatalf("decode order: %v", err)
	}
	return o
}

func login(t *testing.T, b *testutil.Backend, email string) *apiCaller {
	t.Helper()
	a := &apiCaller{t: t, base: b.URL()}
	code, env := a.do(http.MethodPost, "/login", map[string]string{"email": email, "password": testutil.Password})
	if code != http.StatusOK {
		t.Fatalf("login %s: %d %s", email, code, env.Message)
	}
	var data struct {
		Token string      `json:"token"`
		User  models.User `json:"user"`
	}
	if err := json.Unmarshal(env.Data, &data); err != nil {
		t.Fatal(err)
	}
	a.token = data.Token
	return a
}

func TestOrderLifecycle(t *testing.T) {
	b := testutil.NewBackend(t)
	cashier := login(t, b, testutil.CashierEmail)
	t5 := b.Table(t, "T5")
	burger := b.Food(t, "Burger")
	cola := b.Food(t, "Cola")

	order := cashier.order(http.MethodPost, "/orders/draft", map[string]any{"table_id": t5.ID}, http.StatusCreated)
	if order.Status != models.StatusPending || order.TableID != t5.ID {
		t.Fatalf("draft = %+v", order)
	}

	path := fmt.Sprintf("/orders/%d", order.ID)
	cashier.order(http.MethodPost, path+"/items", map[string]any{"food_id": burger.ID, "quantity": 1}, http.StatusOK)
	// Adding the same food again merges into the existing line
	order = cashier.order(http.MethodPost, path+"/items", map[string]any{"food_id": burger.ID, "quantity": 1}, http.StatusOK)
	order = cashier.order(http.MethodPost, path+"/items", map[string]any{"food_id": cola.ID, "quantity": 1}, http.StatusOK)

	if len(order.Items) != 2 {
		t.Fatalf("items = %d, want 2", len(order.Items))
	}
	if order.Items[0].Quantity != 2 || order.Items[0].Subtotal != 16 {
		t.Fatalf("burger line = %+v", order.Items[0])
	}
	if order.Total != 18 {
		t.Fatalf("total = %v, want 18", order.Total)
	}

	// Close before activation is a business-rule rejection
	code, env := cashier.do(http.MethodPut, path+"/close", nil)
	if code != http.StatusUnprocessableEntity || env.Success {
		t.Fatalf("close pending: %d %+v", code, env)
	}

	order = cashier.order(http.MethodPut, path+"/activate", nil, http.StatusOK)
	if order.Status != models.StatusOpen {
		t.Fatalf("status = %s, want open", order.Status)
	}
	if got := b.Table(t, "T5").Status; got != models.TableOccupied {
		t.Fatalf("table status = %s, want occupied", got)
	}

	order = cashier.order(http.MethodPut, fmt.Sprintf("%s/items/%d", path, order.Items[1].ID), map[string]any{"quantity": 3}, http.StatusOK)
	if order.Total != 22 {
		t.Fatalf("total after update = %v, want 22", order.Total)
	}

	order = cashier.order(http.MethodPut, path+"/close", nil, http.StatusOK)
	if order.Status != models.StatusClosed || order.ClosedAt == nil {
		t.Fatalf("closed order = %+v", order)
	}
	if got := b.Table(t, "T5").Status; got != models.TableAvailable {
		t.Fatalf("table status after close = %s, want available", got)
	}

	// Closed orders are read-only
	code, _ = cashier.do(http.MethodPost, path+"/items", map[string]any{"food_id": cola.ID, "quantity": 1})
	if code != http.StatusUnprocessableEntity {
		t.Fatalf("add to closed order: %d", code)
	}
}

func TestDiscardFreesTable(t *testing.T) {
	b := testutil.NewBackend(t)
	waiter := login(t, b, testutil.WaiterEmail)
	t2 := b.Table(t, "T2")

	order := waiter.order(http.MethodPost, "/orders/draft", map[string]any{"table_id": t2.ID}, http.StatusCreated)

	code, _ := waiter.do(http.MethodPost, "/orders/draft", map[string]any{"table_id": t2.ID})
	if code != http.StatusConflict {
		t.Fatalf("second draft for same table: %d, want 409", code)
	}

	code, env := waiter.do(http.MethodDelete, fmt.Sprintf("/orders/%d", order.ID), nil)
	if code != http.StatusOK || !env.Success {
		t.Fatalf("discard: %d %s", code, env.Message)
	}
	if _, found := b.Order(t, order.ID); found {
		t.Fatal("order still stored after discard")
	}
	if got := b.Table(t, "T2").Status; got != models.TableAvailable {
		t.Fatalf("table status = %s", got)
	}
}

func TestWaiterCannotCloseOrManageMenu(t *testing.T) {
	b := testutil.NewBackend(t)
	waiter := login(t, b, testutil.WaiterEmail)

	order := waiter.order(http.MethodPost, "/orders/draft", map[string]any{"table_id": b.Table(t, "T1").ID}, http.StatusCreated)
	path := fmt.Sprintf("/orders/%d", order.ID)
	waiter.order(http.MethodPost, path+"/items", map[string]any{"food_id": b.Food(t, "Cola").ID, "quantity": 1}, http.StatusOK)
	waiter.order(http.MethodPut, path+"/activate", nil, http.StatusOK)

	if code, _ := waiter.do(http.MethodPut, path+"/close", nil); code != http.StatusUnprocessableEntity {
		t.Fatalf("waiter close: %d", code)
	}
	if code, _ := waiter.do(http.MethodPost, "/foods", map[string]any{"name": "Soup", "price": 3, "category": "Appetizers"}); code != http.StatusForbidden {
		t.Fatalf("waiter create food: %d", code)
	}
}

func TestActivateEmptyOrderRejected(t *testing.T) {
	b := testutil.NewBackend(t)
	waiter := login(t, b, testutil.WaiterEmail)
	order := waiter.order(http.MethodPost, "/orders/draft", map[string]any{"table_id": b.Table(t, "T3").ID}, http.StatusCreated)

	code, env := waiter.do(http.MethodPut, fmt.Sprintf("/orders/%d/activate", order.ID), nil)
	if code != http.StatusUnprocessableEntity || !strings.Contains(env.Message, "empty") {
		t.Fatalf("activate empty: %d %q", code, env.Message)
	}
}

func TestValidationErrorsAreFieldLevel(t *testing.T) {
	b := testutil.NewBackend(t)
	cashier := login(t, b, testutil.CashierEmail)

	code, env := cashier.do(http.MethodPost, "/foods", map[string]any{"name": "Te", "price": 0})
	if code != http.StatusUnprocessableEntity {
		t.Fatalf("status = %d", code)
	}
	for _, field := range []string{"name", "price", "category"} {
		if len(env.Errors[field]) == 0 {
			t.Errorf("missing field error for %s: %+v", field, env.Errors)
		}
	}

	order := cashier.order(http.MethodPost, "/orders/draft", map[string]any{"table_id": b.Table(t, "T1").ID}, http.StatusCreated)
	code, env = cashier.do(http.MethodPost, fmt.Sprintf("/orders/%d/items", order.ID), map[string]any{"quantity": 1})
	if code != http.StatusUnprocessableEntity {
		t.Fatalf("add item status = %d", code)
	}
	if got := env.Errors["food_id"]; len(got) != 1 || got[0] != "The food id field is required." {
		t.Fatalf("food_id errors = %+v", env.Errors)
	}
	if _, ok := env.Errors["menu_item_id"]; ok {
		t.Fatalf("errors keyed by Go field: %+v", env.Errors)
	}
}

func TestListOrdersFilters(t *testing.T) {
	b := testutil.NewBackend(t)
	waiter := login(t, b, testutil.WaiterEmail)
	t1, t2 := b.Table(t, "T1"), b.Table(t, "T2")

	o1 := waiter.order(http.MethodPost, "/orders/draft", map[string]any{"table_id": t1.ID}, http.StatusCreated)
	waiter.order(http.MethodPost, "/orders/draft", map[string]any{"table_id": t2.ID}, http.StatusCreated)
	waiter.order(http.MethodPost, fmt.Sprintf("/orders/%d/items", o1.ID), map[string]any{"food_id": b.Food(t, "Cola").ID, "quantity": 1}, http.StatusOK)
	waiter.order(http.MethodPut, fmt.Sprintf("/orders/%d/activate", o1.ID), nil, http.StatusOK)

	list := func(query string) []models.Order {
		code, env := waiter.do(http.MethodGet, "/orders"+query, nil)
		if code != http.StatusOK {
			t.Fatalf("list %s: %d", query, code)
		}
		var orders []models.Order
		if err := json.Unmarshal(env.Data, &orders); err != nil {
			t.Fatal(err)
		}
		return orders
	}

	if got := list(""); len(got) != 2 {
		t.Fatalf("all orders = %d", len(got))
	}
	if got := list("?status=open"); len(got) != 1 || got[0].ID != o1.ID {
		t.Fatalf("open orders = %+v", got)
	}
	if got := list(fmt.Sprintf("?status=pending,open&table_id=%d", t2.ID)); len(got) != 1 || got[0].TableID != t2.ID {
		t.Fatalf("live orders for T2 = %+v", got)
	}
}

func TestLogoutRevokesToken(t *testing.T) {
	b := testutil.NewBackend(t)
	waiter := login(t, b, testutil.WaiterEmail)

	if code, _ := waiter.do(http.MethodGet, "/me", nil); code != http.StatusOK {
		t.Fatalf("me: %d", code)
	}
	if code, _ := waiter.do(http.MethodPost, "/logout", nil); code != http.StatusOK {
		t.Fatalf("logout: %d", code)
	}
	if code, _ := waiter.do(http.MethodGet, "/me", nil); code != http.StatusUnauthorized {
		t.Fatalf("me after logout: %d", code)
	}
}

func TestReceiptOnlyForClosedOrders(t *testing.T) {
	b := testutil.NewBackend(t)
	cashier := login(t, b, testutil.CashierEmail)
	order := cashier.order(http.MethodPost, "/orders/draft", map[string]any{"table_id": b.Table(t, "T4").ID}, http.StatusCreated)
	path := fmt.Sprintf("/orders/%d", order.ID)

	code, env := cashier.do(http.MethodGet, path+"/receipt", nil)
	if code != http.StatusUnprocessableEntity || env.Message == "" {
		t.Fatalf("receipt of pending order: %d %q", code, env.Message)
	}

	cashier.order(http.MethodPost, path+"/items", map[string]any{"food_id": b.Food(t, "Burger").ID, "quantity": 1}, http.StatusOK)
	cashier.order(http.MethodPut, path+"/activate", nil, http.StatusOK)
	cashier.order(http.MethodPut, path+"/close", nil, http.StatusOK)

	req, _ := http.NewRequest(http.MethodGet, b.URL()+path+"/receipt", nil)
	req.Header.Set("Authorization", "Bearer "+cashier.token)
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK || resp.Header.Get("Content-Type") != "application/pdf" {
		t.Fatalf("receipt: %d %s", resp.StatusCode, resp.Header.Get("Content-Type"))
	}
}

func TestStoreErrorsAreNotIgnored(t *testing.T) {
	b := testutil.NewBackend(t)
	waiter := login(t, b, testutil.WaiterEmail)
	t1 := b.Table(t, "T1")

	errCount := errors.New("count failed")
	err := b.DB.Callback().Query().Before("gorm:query").Register("test:fail_order_count", func(db *gorm.DB) {
		if _, counting := db.Statement.Dest.(*int64); counting && db.Statement.Table == "orders" {
			db.AddError(errCount)
		}
	})
	if err != nil {
		t.Fatal(err)
	}
	code, env := waiter.do(http.MethodPost, "/orders/draft", map[string]any{"table_id": t1.ID})
	if code != http.StatusInternalServerError {
		t.Fatalf("draft with failing live-order check: %d %s", code, env.Message)
	}
	var n int64
	if err := b.DB.Session(&gorm.Session{SkipHooks: true}).Table("orders").Select("count(*)").Row().Scan(&n); err != nil {
		t.Fatal(err)
	}
	if n != 0 {
		t.Fatalf("orders stored = %d", n)
	}

	if err := b.DB.Migrator().DropTable(&models.RevokedToken{}); err != nil {
		t.Fatal(err)
	}
	if code, env := waiter.do(http.MethodGet, "/me", nil); code != http.StatusInternalServerError {
		t.Fatalf("me with unreadable revocation list: %d %s", code, env.Message)
	}
}
