package handlers

import (
	"log"
	"net/http"

	"resto-pos/models"
	"resto-pos/receipt"

	"github.com/gin-gonic/gin"
)

// ReceiptHeader is printed on every receipt the API renders
var ReceiptHeader = receipt.Header{Restaurant: "Resto POS", Address: "1 Market Street"}

// Receipt streams the PDF receipt of a closed order.
// Failures are reported as JSON, which clients detect by content type.
func (h *Handler) Receipt(c *gin.Context) {
	id, valid := paramID(c, "id")
	if !valid {
		return
	}
	order, err := loadOrder(h.DB, id)
	if err != nil {
		failErr(c, err, "Order not found")
		return
	}
	if order.Status != models.StatusClosed {
		fail(c, http.StatusUnprocessableEntity, "Receipt is only available for closed orders")
		return
	}

	data, err := receipt.Bytes(ReceiptHeader, order)
	if err != nil {
		log.Printf("receipt for order %d: %v", order.ID, err)
		fail(c, http.StatusInternalServerError, "Failed to generate receipt")
		return
	}
	c.Header("Content-Disposition", `attachment; filename="`+receipt.Filename(order.ID)+`"`)
	c.Data(http.StatusOK, receipt.ContentType, data)
}
