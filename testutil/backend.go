// Package testutil runs the reference POS API in-process for tests.
package testutil

import (
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"sync"
	"testing"

	"resto-pos/config"
	"resto-pos/models"
	"resto-pos/routes"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

const (
	WaiterEmail  = "waiter@resto.local"
	CashierEmail = "cashier@resto.local"
	Password     = "password"
)

// Backend is a seeded API server on a temp-file SQLite database.
type Backend struct {
	Server *httptest.Server
	DB     *gorm.DB
	Secret []byte

	mu       sync.Mutex
	requests []string
}

// NewBackend starts a backend with 8 tables (T1..T8) and the default menu.
// It is shut down when the test ends.
func NewBackend(t testing.TB) *Backend {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := config.OpenDB(filepath.Join(t.TempDir(), "pos.db"))
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	if err := config.Seed(db, config.DefaultStaff, 8); err != nil {
		t.Fatalf("seed: %v", err)
	}

	b := &Backend{DB: db, Secret: []byte("test-secret")}
	engine := routes.NewEngine(db, b.Secret)
	b.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		b.mu.Lock()
		b.requests = append(b.requests, r.Method+" "+r.URL.Path)
		b.mu.Unlock()
		engine.ServeHTTP(w, r)
	}))
	t.Cleanup(func() {
		b.Server.Close()
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})
	return b
}

// URL is the API base path clients should be pointed at
func (b *Backend) URL() string { return b.Server.URL + "/api" }

// Requests returns "METHOD /path" for every request served so far
func (b *Backend) Requests() []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]string(nil), b.requests...)
}

// ResetRequests forgets the recorded requests
func (b *Backend) ResetRequests() {
	b.mu.Lock()
	b.requests = nil
	b.mu.Unlock()
}

// Food returns the seeded menu item with the given name
func (b *Backend) Food(t testing.TB, name string) models.MenuItem {
	t.Helper()
	var item models.MenuItem
	if err := b.DB.Where("name = ?", name).First(&item).Error; err != nil {
		t.Fatalf("food %q: %v", name, err)
	}
	return item
}

// Table returns the seeded table with the given number
func (b *Backend) Table(t testing.TB, number string) models.Table {
	t.Helper()
	var table models.Table
	if err := b.DB.Where("table_number = ?", number).First(&table).Error; err != nil {
		t.Fatalf("table %q: %v", number, err)
	}
	return table
}

// Order loads an order with its lines straight from the database
func (b *Backend) Order(t testing.TB, id uint) (models.Order, bool) {
	t.Helper()
	var order models.Order
	err := b.DB.Preload("Items").First(&order, id).Error
	if err == gorm.ErrRecordNotFound {
		return order, false
	}
	if err != nil {
		t.Fatalf("order %d: %v", id, err)
	}
	return order, true
}
