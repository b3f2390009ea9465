package api

import (
	"context"
	"fmt"
	"net/http"

	"resto-pos/models"
)

type TableService struct{ client *Client }

// List returns every table. It needs no token.
func (s *TableService) List(ctx context.Context) ([]models.Table, error) {
	var tables []models.Table
	err := s.client.do(ctx, http.MethodGet, "/tables", nil, nil, &tables)
	return tables, err
}

func (s *TableService) Get(ctx context.Context, id uint) (models.Table, error) {
	var t models.Table
	err := s.client.do(ctx, http.MethodGet, fmt.Sprintf("/tables/%d", id), nil, nil, &t)
	return t, err
}

func (s *TableService) UpdateStatus(ctx context.Context, id uint, status models.TableStatus) (models.Table, error) {
	var t models.Table
	body := map[string]models.TableStatus{"status": status}
	err := s.client.do(ctx, http.MethodPut, fmt.Sprintf("/tables/%d/status", id), nil, body, &t)
	return t, err
}
