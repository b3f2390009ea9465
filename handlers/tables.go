package handlers

import (
	"net/http"

	"resto-pos/models"

	"github.com/gin-gonic/gin"
)

// ListTables returns the floor plan. Public so the guest board can poll it.
func (h *Handler) ListTables(c *gin.Context) {
	var tables []models.Table
	if err := h.DB.Order("id").Find(&tables).Error; err != nil {
		fail(c, http.StatusInternalServerError, "Failed to fetch tables")
		return
	}
	ok(c, http.StatusOK, tables)
}

func (h *Handler) GetTable(c *gin.Context) {
	id, valid := paramID(c, "id")
	if !valid {
		return
	}
	var table models.Table
	if err := h.DB.First(&table, id).Error; err != nil {
		failErr(c, err, "Table not found")
		return
	}
	ok(c, http.StatusOK, table)
}

type UpdateTableStatusRequest struct {
	Status models.TableStatus `json:"status" binding:"required,oneof=available occupied reserved inactive"`
}

func (h *Handler) UpdateTableStatus(c *gin.Context) {
	id, valid := paramID(c, "id")
	if !valid {
		return
	}
	var req UpdateTableStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		failBinding(c, err)
		return
	}

	var table models.Table
	if err := h.DB.First(&table, id).Error; err != nil {
		failErr(c, err, "Table not found")
		return
	}
	if err := h.DB.Model(&table).Update("status", req.Status).Error; err != nil {
		fail(c, http.StatusInternalServerError, "Failed to update table")
		return
	}
	table.Status = req.Status
	ok(c, http.StatusOK, table)
}
