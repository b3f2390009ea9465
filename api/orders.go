package api

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"resto-pos/models"
)

type OrderService struct{ client *Client }

// ListOptions narrows an order listing; zero values mean no filter
type ListOptions struct {
	Statuses []models.OrderStatus
	TableID  uint
}

func (o ListOptions) query() url.Values {
	q := url.Values{}
	if len(o.Statuses) > 0 {
		parts := make([]string, len(o.Statuses))
		for i, s := range o.Statuses {
			parts[i] = string(s)
		}
		q.Set("status", strings.Join(parts, ","))
	}
	if o.TableID != 0 {
		q.Set("table_id", strconv.FormatUint(uint64(o.TableID), 10))
	}
	return q
}

// ItemInput adds a food to an order
type ItemInput struct {
	FoodID   uint   `json:"food_id"`
	Quantity int    `json:"quantity"`
	Notes    string `json:"notes,omitempty"`
}

func (s *OrderService) List(ctx context.Context, opts ListOptions) ([]models.Order, error) {
	var orders []models.Order
	err := s.client.do(ctx, http.MethodGet, "/orders", opts.query(), nil, &orders)
	return orders, err
}

func (s *OrderService) Get(ctx context.Context, id uint) (models.Order, error) {
	return s.orderCall(ctx, http.MethodGet, fmt.Sprintf("/orders/%d", id), nil)
}

// CreateDraft opens a pending order for a table
func (s *OrderService) CreateDraft(ctx context.Context, tableID uint) (models.Order, error) {
	return s.orderCall(ctx, http.MethodPost, "/orders/draft", map[string]uint{"table_id": tableID})
}

// AddItem puts a food on the order; the API merges it into an existing line for the same food
func (s *OrderService) AddItem(ctx context.Context, orderID uint, in ItemInput) (models.Order, error) {
	return s.orderCall(ctx, http.MethodPost, fmt.Sprintf("/orders/%d/items", orderID), in)
}

func (s *OrderService) UpdateItem(ctx context.Context, orderID, itemID uint, quantity int) (models.Order, error) {
	return s.orderCall(ctx, http.MethodPut, fmt.Sprintf("/orders/%d/items/%d", orderID, itemID), map[string]int{"quantity": quantity})
}

func (s *OrderService) RemoveItem(ctx context.Context, orderID, itemID uint) (models.Order, error) {
	return s.orderCall(ctx, http.MethodDelete, fmt.Sprintf("/orders/%d/items/%d", orderID, itemID), nil)
}

// Delete discards a pending order
func (s *OrderService) Delete(ctx context.Context, id uint) error {
	return s.client.do(ctx, http.MethodDelete, fmt.Sprintf("/orders/%d", id), nil, nil, nil)
}

// Activate sends a pending order to the kitchen
func (s *OrderService) Activate(ctx context.Context, id uint) (models.Order, error) {
	return s.orderCall(ctx, http.MethodPut, fmt.Sprintf("/orders/%d/activate", id), nil)
}

func (s *OrderService) Close(ctx context.Context, id uint) (models.Order, error) {
	return s.orderCall(ctx, http.MethodPut, fmt.Sprintf("/orders/%d/close", id), nil)
}

func (s *OrderService) orderCall(ctx context.Context, method, path string, body any) (models.Order, error) {
	var o models.Order
	if err := s.client.do(ctx, method, path, nil, body, &o); err != nil {
		return models.Order{}, err
	}
	o.Recalculate()
	return o, nil
}

// Receipt is a downloaded billing document
type Receipt struct {
	Filename    string
	ContentType string
	Data        []byte
}

// Receipt downloads the PDF receipt of a closed order.
// The API may signal failure with a JSON body under any status and content
// type; such bodies are turned into an *Error instead of a file.
func (s *OrderService) Receipt(ctx context.Context, id uint) (Receipt, error) {
	path := fmt.Sprintf("/orders/%d/receipt", id)
	req, err := s.client.newRequest(ctx, http.MethodGet, path, nil, nil)
	if err != nil {
		return Receipt{}, err
	}
	req.Header.Set("Accept", "application/pdf, application/json")

	resp, err := s.client.http.Do(req)
	if err != nil {
		return Receipt{}, fmt.Errorf("GET %s: %w", path, err)
	}
	defer resp.Body.Close()
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return Receipt{}, fmt.Errorf("GET %s: read body: %w", path, err)
	}

	contentType, _, _ := mime.ParseMediaType(resp.Header.Get("Content-Type"))
	success := resp.StatusCode >= 200 && resp.StatusCode <= 299

	if !success || contentType == "application/json" {
		e := errorFromBody(resp, data)
		if success {
			var env envelope
			if json.Unmarshal(data, &env) == nil && env.Success {
				return Receipt{}, fmt.Errorf("GET %s: expected a document, got JSON", path)
			}
			e.Status = http.StatusUnprocessableEntity
		}
		return Receipt{}, e
	}

	return Receipt{
		Filename:    receiptFilename(resp.Header.Get("Content-Disposition"), id),
		ContentType: contentType,
		Data:        data,
	}, nil
}

func receiptFilename(disposition string, id uint) string {
	if _, params, err := mime.ParseMediaType(disposition); err == nil && params["filename"] != "" {
		return params["filename"]
	}
	return fmt.Sprintf("receipt-order-%d.pdf", id)
}
