package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"multibill-pos/internal/models"
)

// ReturnRequest records a customer return: stock goes back up.
type ReturnRequest struct {
	ItemID   string  `json:"item_id" binding:"required"`
	Quantity float64 `json:"quantity" binding:"required"`
	Unit     string  `json:"unit"`
	BillRef  string  `json:"bill_ref"`
}

// POST /api/returns - posts the inverted delta through the ledger. The
// sign flip happens here, at the caller: the ledger itself treats negative
// quantities as returns.
func (h *Handler) ReturnItem(c *gin.Context) {
	var req ReturnRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input"})
		return
	}
	if req.Quantity <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Return quantity must be greater than 0"})
		return
	}

	unit := req.Unit
	if unit == "" {
		var item models.Item
		if err := h.db.First(&item, "id = ?", req.ItemID).Error; err != nil {
			h.fail(c, err)
			return
		}
		unit = item.SalesUnit
	}

	item, err := h.ledger.ApplyDelta(req.ItemID, -req.Quantity, unit, req.BillRef)
	if err != nil {
		h.fail(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":        "Stock updated for " + item.Name,
		"item_id":        item.ID,
		"stock_quantity": item.StockQuantity,
	})
}
