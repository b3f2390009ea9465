package api

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"resto-pos/models"
)

type MenuService struct{ client *Client }

// FoodInput is the payload for creating or updating a menu item
type FoodInput struct {
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Price       float64 `json:"price"`
	Category    string  `json:"category"`
	Image       string  `json:"image"`
	Available   bool    `json:"available"`
}

// List returns the menu; an empty category means all of it
func (s *MenuService) List(ctx context.Context, category string) ([]models.MenuItem, error) {
	var q url.Values
	if category != "" {
		q = url.Values{"category": {category}}
	}
	var items []models.MenuItem
	err := s.client.do(ctx, http.MethodGet, "/foods", q, nil, &items)
	return items, err
}

func (s *MenuService) Get(ctx context.Context, id uint) (models.MenuItem, error) {
	var item models.MenuItem
	err := s.client.do(ctx, http.MethodGet, fmt.Sprintf("/foods/%d", id), nil, nil, &item)
	return item, err
}

func (s *MenuService) Create(ctx context.Context, in FoodInput) (models.MenuItem, error) {
	var item models.MenuItem
	err := s.client.do(ctx, http.MethodPost, "/foods", nil, in, &item)
	return item, err
}

func (s *MenuService) Update(ctx context.Context, id uint, in FoodInput) (models.MenuItem, error) {
	var item models.MenuItem
	err := s.client.do(ctx, http.MethodPut, fmt.Sprintf("/foods/%d", id), nil, in, &item)
	return item, err
}

func (s *MenuService) Delete(ctx context.Context, id uint) error {
	return s.client.do(ctx, http.MethodDelete, fmt.Sprintf("/foods/%d", id), nil, nil, nil)
}
