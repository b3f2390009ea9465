package handlers

import (
	"net/http"

	"resto-pos/models"
	"resto-pos/statemachine"

	"github.com/gin-gonic/gin"
)

// Health reports liveness and database reachability
func (h *Handler) Health(c *gin.Context) {
	status := "healthy"
	code := http.StatusOK
	if sqlDB, err := h.DB.DB(); err != nil || sqlDB.PingContext(c.Request.Context()) != nil {
		status = "degraded"
		code = http.StatusServiceUnavailable
	}
	c.JSON(code, gin.H{
		"status":  status,
		"service": "Resto POS API",
		"version": "1.0.0",
	})
}

// GetStateMachineInfo returns the order lifecycle for documentation
func (h *Handler) GetStateMachineInfo(c *gin.Context) {
	ok(c, http.StatusOK, gin.H{
		"state_machine":   statemachine.GetAllTransitions(),
		"terminal_states": []models.OrderStatus{models.StatusClosed, statemachine.Discarded},
		"description":     "Dine-in order lifecycle",
	})
}
