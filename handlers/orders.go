package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"resto-pos/middleware"
	"resto-pos/models"
	"resto-pos/statemachine"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type CreateDraftRequest struct {
	TableID uint `json:"table_id" binding:"required"`
}

type AddItemRequest struct {
	MenuItemID uint   `json:"food_id" binding:"required"`
	Quantity   int    `json:"quantity" binding:"required,min=1"`
	Notes      string `json:"notes"`
}

type UpdateItemRequest struct {
	Quantity int     `json:"quantity" binding:"required,min=1"`
	Notes    *string `json:"notes"`
}

// ListOrders returns orders newest first.
// status accepts a single status or a comma separated list.
func (h *Handler) ListOrders(c *gin.Context) {
	var orders []models.Order
	query := h.DB.Preload("Items", orderItemsByID).Preload("Items.MenuItem").Preload("Table")

	if status := c.Query("status"); status != "" {
		query = query.Where("status IN ?", strings.Split(status, ","))
	}
	if tableID := c.Query("table_id"); tableID != "" {
		id, err := strconv.ParseUint(tableID, 10, 64)
		if err != nil {
			fail(c, http.StatusBadRequest, "table_id must be numeric")
			return
		}
		query = query.Where("table_id = ?", id)
	}

	if err := query.Order("created_at desc").Order("id desc").Find(&orders).Error; err != nil {
		fail(c, http.StatusInternalServerError, "Failed to fetch orders")
		return
	}
	ok(c, http.StatusOK, orders)
}

// GetOrder returns a single order's full detail with history
func (h *Handler) GetOrder(c *gin.Context) {
	id, valid := paramID(c, "id")
	if !valid {
		return
	}
	order, err := loadOrder(h.DB.Preload("StatusHistory"), id)
	if err != nil {
		failErr(c, err, "Order not found")
		return
	}
	ok(c, http.StatusOK, order)
}

// CreateDraft opens a pending order for a table
func (h *Handler) CreateDraft(c *gin.Context) {
	userID := middleware.GetUserID(c)

	var req CreateDraftRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		failBinding(c, err)
		return
	}

	var order models.Order
	err := h.DB.Transaction(func(tx *gorm.DB) error {
		var table models.Table
		if err := tx.First(&table, req.TableID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return newHTTPError(http.StatusNotFound, "Table not found")
			}
			return err
		}
		if table.Status == models.TableInactive {
			return newHTTPError(http.StatusUnprocessableEntity, "Table "+table.TableNumber+" is inactive")
		}

		var live int64
		if err := tx.Model(&models.Order{}).
			Where("table_id = ? AND status IN ?", table.ID, liveStatuses()).
			Count(&live).Error; err != nil {
			return err
		}
		if live > 0 {
			return newHTTPError(http.StatusConflict, "Table "+table.TableNumber+" already has an active order")
		}

		order = models.Order{
			OrderNumber: newOrderNumber(),
			TableID:     table.ID,
			UserID:      userID,
			Status:      models.StatusPending,
			Items:       []models.OrderItem{},
		}
		if err := tx.Create(&order).Error; err != nil {
			return err
		}
		return recordTransition(tx, &order, "", models.StatusPending, userID, "Draft created")
	})
	if err != nil {
		failErr(c, err, "Failed to create order")
		return
	}

	h.respondOrder(c, http.StatusCreated, order.ID)
}

// AddItem puts a food on the order. A food already on the order has its quantity increased.
func (h *Handler) AddItem(c *gin.Context) {
	id, valid := paramID(c, "id")
	if !valid {
		return
	}
	var req AddItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		failBinding(c, err)
		return
	}

	err := h.DB.Transaction(func(tx *gorm.DB) error {
		order, err := editableOrder(tx, id)
		if err != nil {
			return err
		}

		var food models.MenuItem
		if err := tx.First(&food, req.MenuItemID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return newHTTPError(http.StatusNotFound, "Menu item not found")
			}
			return err
		}
		if !food.Available {
			return newHTTPError(http.StatusUnprocessableEntity, "Menu item '"+food.Name+"' is not available")
		}

		if line, found := order.FindItem(food.ID); found {
			line.Quantity += req.Quantity
			if req.Notes != "" {
				line.Notes = req.Notes
			}
			line.ComputeSubtotal()
			if err := tx.Model(&models.OrderItem{ID: line.ID}).Updates(map[string]any{
				"quantity": line.Quantity,
				"notes":    line.Notes,
				"subtotal": line.Subtotal,
			}).Error; err != nil {
				return err
			}
		} else {
			line := models.OrderItem{
				OrderID:    order.ID,
				MenuItemID: food.ID,
				Name:       food.Name,
				Quantity:   req.Quantity,
				Price:      food.Price,
				Notes:      req.Notes,
			}
			line.ComputeSubtotal()
			if err := tx.Create(&line).Error; err != nil {
				return err
			}
		}
		return updateTotal(tx, order.ID)
	})
	if err != nil {
		failErr(c, err, "Failed to add item")
		return
	}
	h.respondOrder(c, http.StatusOK, id)
}

// UpdateItem sets the quantity of one line
func (h *Handler) UpdateItem(c *gin.Context) {
	id, valid := paramID(c, "id")
	if !valid {
		return
	}
	itemID, valid := paramID(c, "itemId")
	if !valid {
		return
	}
	var req UpdateItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		failBinding(c, err)
		return
	}

	err := h.DB.Transaction(func(tx *gorm.DB) error {
		if _, err := editableOrder(tx, id); err != nil {
			return err
		}
		line, err := orderLine(tx, id, itemID)
		if err != nil {
			return err
		}
		line.Quantity = req.Quantity
		if req.Notes != nil {
			line.Notes = *req.Notes
		}
		line.ComputeSubtotal()
		if err := tx.Model(&models.OrderItem{ID: line.ID}).Updates(map[string]any{
			"quantity": line.Quantity,
			"notes":    line.Notes,
			"subtotal": line.Subtotal,
		}).Error; err != nil {
			return err
		}
		return updateTotal(tx, id)
	})
	if err != nil {
		failErr(c, err, "Failed to update item")
		return
	}
	h.respondOrder(c, http.StatusOK, id)
}

// RemoveItem drops one line from the order
func (h *Handler) RemoveItem(c *gin.Context) {
	id, valid := paramID(c, "id")
	if !valid {
		return
	}
	itemID, valid := paramID(c, "itemId")
	if !valid {
		return
	}

	err := h.DB.Transaction(func(tx *gorm.DB) error {
		if _, err := editableOrder(tx, id); err != nil {
			return err
		}
		line, err := orderLine(tx, id, itemID)
		if err != nil {
			return err
		}
		if err := tx.Delete(&line).Error; err != nil {
			return err
		}
		return updateTotal(tx, id)
	})
	if err != nil {
		failErr(c, err, "Failed to remove item")
		return
	}
	h.respondOrder(c, http.StatusOK, id)
}

// DeleteOrder discards a pending order
func (h *Handler) DeleteOrder(c *gin.Context) {
	id, valid := paramID(c, "id")
	if !valid {
		return
	}
	role := middleware.GetRole(c)

	err := h.DB.Transaction(func(tx *gorm.DB) error {
		var order models.Order
		if err := tx.First(&order, id).Error; err != nil {
			return err
		}
		if err := statemachine.CanTransition(order.Status, statemachine.Discarded, role); err != nil {
			return newHTTPError(http.StatusUnprocessableEntity, "Only pending orders can be discarded")
		}
		if err := tx.Where("order_id = ?", order.ID).Delete(&models.OrderItem{}).Error; err != nil {
			return err
		}
		if err := tx.Where("order_id = ?", order.ID).Delete(&models.OrderStatusHistory{}).Error; err != nil {
			return err
		}
		if err := tx.Delete(&order).Error; err != nil {
			return err
		}
		return syncTableStatus(tx, order.TableID)
	})
	if err != nil {
		failErr(c, err, "Order not found")
		return
	}
	ok(c, http.StatusOK, nil)
}

// ActivateOrder sends a pending order to the kitchen
func (h *Handler) ActivateOrder(c *gin.Context) {
	h.transition(c, models.StatusOpen, "Sent to kitchen")
}

// CloseOrder checks out an open order
func (h *Handler) CloseOrder(c *gin.Context) {
	h.transition(c, models.StatusClosed, "Closed at checkout")
}

func (h *Handler) transition(c *gin.Context, to models.OrderStatus, note string) {
	id, valid := paramID(c, "id")
	if !valid {
		return
	}
	userID := middleware.GetUserID(c)
	role := middleware.GetRole(c)

	err := h.DB.Transaction(func(tx *gorm.DB) error {
		order, err := loadOrder(tx, id)
		if err != nil {
			return err
		}
		if err := statemachine.CanTransition(order.Status, to, role); err != nil {
			return newHTTPError(http.StatusUnprocessableEntity, transitionMessage(order.Status, to, err))
		}
		if to == models.StatusOpen && len(order.Items) == 0 {
			return newHTTPError(http.StatusUnprocessableEntity, "Cannot send an empty order to the kitchen")
		}

		from := order.Status
		updates := map[string]any{"status": to}
		if to == models.StatusClosed {
			now := time.Now()
			updates["closed_at"] = &now
		}
		if err := tx.Model(&models.Order{ID: order.ID}).Updates(updates).Error; err != nil {
			return err
		}
		if err := recordTransition(tx, &order, from, to, userID, note); err != nil {
			return err
		}
		return syncTableStatus(tx, order.TableID)
	})
	if err != nil {
		failErr(c, err, "Order not found")
		return
	}
	h.respondOrder(c, http.StatusOK, id)
}

func transitionMessage(from, to models.OrderStatus, err error) string {
	switch {
	case to == models.StatusClosed && from == models.StatusPending:
		return "Order must be sent to the kitchen before it can be closed"
	case to == models.StatusClosed && from == models.StatusOpen:
		return "Only a cashier can close orders"
	case from == to:
		return fmt.Sprintf("Order is already %s", to)
	}
	return err.Error()
}

func (h *Handler) respondOrder(c *gin.Context, code int, id uint) {
	order, err := loadOrder(h.DB, id)
	if err != nil {
		failErr(c, err, "Order not found")
		return
	}
	ok(c, code, order)
}

func orderItemsByID(db *gorm.DB) *gorm.DB {
	return db.Order("order_items.id")
}

func loadOrder(db *gorm.DB, id uint) (models.Order, error) {
	var order models.Order
	err := db.Preload("Items", orderItemsByID).Preload("Items.MenuItem").Preload("Table").First(&order, id).Error
	if order.Items == nil {
		order.Items = []models.OrderItem{}
	}
	return order, err
}

// editableOrder loads an order whose lines may still change
func editableOrder(tx *gorm.DB, id uint) (models.Order, error) {
	order, err := loadOrder(tx, id)
	if err != nil {
		return order, err
	}
	if !order.Status.Live() {
		return order, newHTTPError(http.StatusUnprocessableEntity, "Closed orders cannot be changed")
	}
	return order, nil
}

func orderLine(tx *gorm.DB, orderID, itemID uint) (models.OrderItem, error) {
	var line models.OrderItem
	err := tx.Where("id = ? AND order_id = ?", itemID, orderID).First(&line).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return line, newHTTPError(http.StatusNotFound, "Order item not found")
	}
	return line, err
}

// updateTotal recomputes every subtotal and the order total from the stored lines
func updateTotal(tx *gorm.DB, orderID uint) error {
	var items []models.OrderItem
	if err := tx.Where("order_id = ?", orderID).Find(&items).Error; err != nil {
		return err
	}
	total := models.SumItems(items)
	for _, it := range items {
		if err := tx.Model(&models.OrderItem{ID: it.ID}).Update("subtotal", it.Subtotal).Error; err != nil {
			return err
		}
	}
	return tx.Model(&models.Order{ID: orderID}).Update("total", total).Error
}

func recordTransition(tx *gorm.DB, order *models.Order, from, to models.OrderStatus, userID uint, note string) error {
	history := models.OrderStatusHistory{
		OrderID:    order.ID,
		FromStatus: from,
		ToStatus:   to,
		ChangedBy:  userID,
		Note:       note,
	}
	return tx.Create(&history).Error
}

// syncTableStatus marks a table occupied while it has an order in the kitchen
// and frees it once no live order remains. Reserved and inactive tables are left alone.
func syncTableStatus(tx *gorm.DB, tableID uint) error {
	var table models.Table
	if err := tx.First(&table, tableID).Error; err != nil {
		return err
	}
	if table.Status == models.TableReserved || table.Status == models.TableInactive {
		return nil
	}

	var open, live int64
	if err := tx.Model(&models.Order{}).Where("table_id = ? AND status = ?", tableID, models.StatusOpen).Count(&open).Error; err != nil {
		return err
	}
	if err := tx.Model(&models.Order{}).Where("table_id = ? AND status IN ?", tableID, liveStatuses()).Count(&live).Error; err != nil {
		return err
	}

	status := table.Status
	switch {
	case open > 0:
		status = models.TableOccupied
	case live == 0:
		status = models.TableAvailable
	}
	if status == table.Status {
		return nil
	}
	return tx.Model(&table).Update("status", status).Error
}

func liveStatuses() []models.OrderStatus {
	return []models.OrderStatus{models.StatusPending, models.StatusOpen}
}

func newOrderNumber() string {
	return fmt.Sprintf("ORD-%s-%s", time.Now().Format("20060102"), strings.ToUpper(uuid.NewString()[:6]))
}
