package handlers

import (
	"net/http"
	"strings"

	"resto-pos/models"

	"github.com/gin-gonic/gin"
)

// ── Menu (foods) ─────────────────────────────────────────────────────────────

type CreateFoodRequest struct {
	Name        string  `json:"name" binding:"required,min=3"`
	Description string  `json:"description"`
	Price       float64 `json:"price" binding:"required,gt=0"`
	Category    string  `json:"category" binding:"required"`
	Image       string  `json:"image"`
	Available   *bool   `json:"available"`
}

// UpdateFoodRequest carries a partial update; nil fields are left untouched
type UpdateFoodRequest struct {
	Name        *string  `json:"name" binding:"omitempty,min=3"`
	Description *string  `json:"description"`
	Price       *float64 `json:"price" binding:"omitempty,gt=0"`
	Category    *string  `json:"category" binding:"omitempty,min=1"`
	Image       *string  `json:"image"`
	Available   *bool    `json:"available"`
}

// ListFoods returns the menu, optionally narrowed to one category
func (h *Handler) ListFoods(c *gin.Context) {
	var items []models.MenuItem
	query := h.DB.Order("category").Order("name")
	if category := c.Query("category"); category != "" {
		query = query.Where("category = ?", category)
	}
	if err := query.Find(&items).Error; err != nil {
		fail(c, http.StatusInternalServerError, "Failed to fetch menu")
		return
	}
	ok(c, http.StatusOK, items)
}

func (h *Handler) GetFood(c *gin.Context) {
	id, valid := paramID(c, "id")
	if !valid {
		return
	}
	var item models.MenuItem
	if err := h.DB.First(&item, id).Error; err != nil {
		failErr(c, err, "Menu item not found")
		return
	}
	ok(c, http.StatusOK, item)
}

// CreateFood adds a new item to the menu
func (h *Handler) CreateFood(c *gin.Context) {
	var req CreateFoodRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		failBinding(c, err)
		return
	}

	item := models.MenuItem{
		Name:        strings.TrimSpace(req.Name),
		Description: req.Description,
		Price:       req.Price,
		Category:    req.Category,
		Image:       req.Image,
		Available:   req.Available == nil || *req.Available,
	}
	if err := h.DB.Create(&item).Error; err != nil {
		fail(c, http.StatusInternalServerError, "Failed to add menu item")
		return
	}
	ok(c, http.StatusCreated, item)
}

// UpdateFood updates a menu item
func (h *Handler) UpdateFood(c *gin.Context) {
	id, valid := paramID(c, "id")
	if !valid {
		return
	}
	var item models.MenuItem
	if err := h.DB.First(&item, id).Error; err != nil {
		failErr(c, err, "Menu item not found")
		return
	}

	var req UpdateFoodRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		failBinding(c, err)
		return
	}
	if req.Name != nil {
		item.Name = strings.TrimSpace(*req.Name)
	}
	if req.Description != nil {
		item.Description = *req.Description
	}
	if req.Price != nil {
		item.Price = *req.Price
	}
	if req.Category != nil {
		item.Category = *req.Category
	}
	if req.Image != nil {
		item.Image = *req.Image
	}
	if req.Available != nil {
		item.Available = *req.Available
	}
	if err := h.DB.Save(&item).Error; err != nil {
		fail(c, http.StatusInternalServerError, "Failed to update menu item")
		return
	}
	ok(c, http.StatusOK, item)
}

// DeleteFood removes a menu item. Items on live orders cannot be removed.
func (h *Handler) DeleteFood(c *gin.Context) {
	id, valid := paramID(c, "id")
	if !valid {
		return
	}
	var item models.MenuItem
	if err := h.DB.First(&item, id).Error; err != nil {
		failErr(c, err, "Menu item not found")
		return
	}

	var inUse int64
	if err := h.DB.Model(&models.OrderItem{}).
		Joins("JOIN orders ON orders.id = order_items.order_id").
		Where("order_items.food_id = ? AND orders.status IN ?", id, []models.OrderStatus{models.StatusPending, models.StatusOpen}).
		Count(&inUse).Error; err != nil {
		fail(c, http.StatusInternalServerError, "Failed to delete menu item")
		return
	}
	if inUse > 0 {
		fail(c, http.StatusConflict, "Menu item is on an active order and cannot be deleted")
		return
	}

	if err := h.DB.Delete(&item).Error; err != nil {
		fail(c, http.StatusInternalServerError, "Failed to delete menu item")
		return
	}
	ok(c, http.StatusOK, nil)
}
