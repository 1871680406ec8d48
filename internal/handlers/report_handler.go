package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"multibill-pos/internal/database"
)

// GET /api/reports - the dashboard analytics payload.
func (h *Handler) GetSalesReport(c *gin.Context) {
	data, err := database.GetAnalytics(h.db)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, data)
}

// GET /api/reports/low-stock?threshold=10
func (h *Handler) GetLowStock(c *gin.Context) {
	threshold := 10.0
	if raw := c.Query("threshold"); raw != "" {
		parsed, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid threshold"})
			return
		}
		threshold = parsed
	}

	items, err := database.LowStockItems(h.db, threshold)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, items)
}

// GET /api/reports/range?start=2026-01-01&end=2026-01-31
func (h *Handler) GetSalesRange(c *gin.Context) {
	start, err := time.Parse("2006-01-02", c.Query("start"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid start date, expected YYYY-MM-DD"})
		return
	}
	end, err := time.Parse("2006-01-02", c.Query("end"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid end date, expected YYYY-MM-DD"})
		return
	}

	summary, err := database.SalesBetween(h.db, start, end.AddDate(0, 0, 1))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, summary)
}
