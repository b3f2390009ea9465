// Package menu is the cashier's menu management view.
package menu

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"resto-pos/api"
	"resto-pos/models"
)

// AllCategories disables the category filter
const AllCategories = "all"

var ErrForbidden = errors.New("menu management is restricted to cashiers")

type FoodAPI interface {
	List(ctx context.Context, category string) ([]models.MenuItem, error)
	Create(ctx context.Context, in api.FoodInput) (models.MenuItem, error)
	Update(ctx context.Context, id uint, in api.FoodInput) (models.MenuItem, error)
	Delete(ctx context.Context, id uint) error
}

type RoleChecker interface {
	HasRole(roles ...models.UserRole) bool
}

type Manager struct {
	foods FoodAPI

	items    []models.MenuItem
	query    string
	category string
	banner   string
}

// New opens the view for a cashier; anyone else gets ErrForbidden.
func New(foods FoodAPI, roles RoleChecker) (*Manager, error) {
	if roles == nil || !roles.HasRole(models.RoleCashier) {
		return nil, ErrForbidden
	}
	return &Manager{foods: foods, category: AllCategories}, nil
}

func (m *Manager) Load(ctx context.Context) error {
	items, err := m.foods.List(ctx, "")
	if err != nil {
		m.banner = api.Message(err, "Failed to fetch menu items")
		return fmt.Errorf("list menu: %w", err)
	}
	m.items = items
	return nil
}

// SetFilter narrows Visible by name substring and category ("all" for any)
func (m *Manager) SetFilter(query, category string) {
	m.query = query
	if category == "" {
		category = AllCategories
	}
	m.category = category
}

func (m *Manager) Visible() []models.MenuItem {
	q := strings.ToLower(m.query)
	var out []models.MenuItem
	for _, item := range m.items {
		if m.category != AllCategories && item.Category != m.category {
			continue
		}
		if q != "" && !strings.Contains(strings.ToLower(item.Name), q) {
			continue
		}
		out = append(out, item)
	}
	return out
}

func (m *Manager) Items() []models.MenuItem { return m.items }

// Filtered reports whether a search or category filter is active
func (m *Manager) Filtered() bool {
	return m.query != "" || m.category != AllCategories
}

func (m *Manager) Banner() string { return m.banner }
func (m *Manager) DismissBanner() { m.banner = "" }

// Create validates the form, creates the item and reloads the list.
// An invalid form returns FormErrors without calling the API.
func (m *Manager) Create(ctx context.Context, form Form) (models.MenuItem, error) {
	if err := form.Validate(); err != nil {
		return models.MenuItem{}, err
	}
	m.banner = ""
	item, err := m.foods.Create(ctx, form.input())
	if err != nil {
		m.banner = api.Message(err, "Failed to save menu item")
		return models.MenuItem{}, err
	}
	return item, m.Load(ctx)
}

func (m *Manager) Update(ctx context.Context, id uint, form Form) (models.MenuItem, error) {
	if err := form.Validate(); err != nil {
		return models.MenuItem{}, err
	}
	m.banner = ""
	item, err := m.foods.Update(ctx, id, form.input())
	if err != nil {
		m.banner = api.Message(err, "Failed to save menu item")
		return models.MenuItem{}, err
	}
	return item, m.Load(ctx)
}

func (m *Manager) Delete(ctx context.Context, id uint) error {
	m.banner = ""
	if err := m.foods.Delete(ctx, id); err != nil {
		m.banner = api.Message(err, "Failed to delete menu item")
		return err
	}
	return m.Load(ctx)
}
