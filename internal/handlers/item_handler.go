package handlers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"multibill-pos/internal/models"
	"multibill-pos/internal/pricing"
	"multibill-pos/internal/units"
)

// ItemRequest is the payload for creating or updating an item. TaxClass is
// "GST" (rate + HSN required) or "NON-GST".
type ItemRequest struct {
	CompanyID     string  `json:"company_id" binding:"required"`
	ItemCode      string  `json:"item_code" binding:"required"`
	Name          string  `json:"name" binding:"required"`
	TaxClass      string  `json:"tax_class" binding:"required"`
	GSTPercentage float64 `json:"gst_percentage"`
	HSNCode       string  `json:"hsn_code"`
	UnitPrice     float64 `json:"unit_price"`
	MRP           float64 `json:"mrp"`
	GodownID      string  `json:"godown_id" binding:"required"`
	StockQuantity float64 `json:"stock_quantity"`
	SalesUnit     string  `json:"sales_unit" binding:"required"`
}

// buildItem validates an ItemRequest into a model, enforcing the same
// rules the inventory form applies: a valid sales unit, a well-formed tax
// class, and MRP consistent with the exclusive price.
func (h *Handler) buildItem(req ItemRequest) (models.Item, error) {
	if req.UnitPrice < 0 || req.StockQuantity < 0 {
		return models.Item{}, fmt.Errorf("%w: price and stock must not be negative", pricing.ErrInvalidInput)
	}
	if !units.Valid(req.SalesUnit) {
		return models.Item{}, fmt.Errorf("%w: %q", units.ErrUnknownUnit, req.SalesUnit)
	}

	var tax models.TaxClass
	switch models.TaxClassCode(req.TaxClass) {
	case models.TaxGST:
		var err error
		tax, err = models.GST(req.GSTPercentage, req.HSNCode)
		if err != nil {
			return models.Item{}, fmt.Errorf("%w: %v", pricing.ErrInvalidInput, err)
		}
	case models.TaxNonGST:
		tax = models.NonGST()
	default:
		return models.Item{}, fmt.Errorf("%w: tax class must be GST or NON-GST", pricing.ErrInvalidInput)
	}

	mrp := req.MRP
	if mrp == 0 {
		mrp = pricing.MRPFromExclusive(req.UnitPrice, tax.GSTPercentage)
	}
	if err := tax.CheckMRP(req.UnitPrice, mrp); err != nil {
		return models.Item{}, fmt.Errorf("%w: %v", pricing.ErrInvalidInput, err)
	}

	return models.Item{
		CompanyID:     req.CompanyID,
		ItemCode:      req.ItemCode,
		Name:          req.Name,
		Tax:           tax,
		UnitPrice:     req.UnitPrice,
		MRP:           mrp,
		GodownID:      req.GodownID,
		StockQuantity: req.StockQuantity,
		SalesUnit:     req.SalesUnit,
	}, nil
}

// GET /api/items?company_id=...
func (h *Handler) GetItems(c *gin.Context) {
	q := h.db.Order("name")
	if companyID := c.Query("company_id"); companyID != "" {
		q = q.Where("company_id = ?", companyID)
	}

	var items []models.Item
	if err := q.Find(&items).Error; err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, items)
}

// POST /api/items
func (h *Handler) AddItem(c *gin.Context) {
	var req ItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input"})
		return
	}

	var company models.Company
	if err := h.db.First(&company, "id = ?", req.CompanyID).Error; err != nil {
		h.fail(c, err)
		return
	}

	item, err := h.buildItem(req)
	if err != nil {
		h.fail(c, err)
		return
	}
	item.ID = uuid.NewString()

	if err := h.db.Create(&item).Error; err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, item)
}

// PUT /api/items/:id - full replace of the item's descriptive fields.
// Stock is deliberately NOT updatable here; only the ledger moves stock.
func (h *Handler) UpdateItem(c *gin.Context) {
	var existing models.Item
	if err := h.db.First(&existing, "id = ?", c.Param("id")).Error; err != nil {
		h.fail(c, err)
		return
	}

	var req ItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input"})
		return
	}

	item, err := h.buildItem(req)
	if err != nil {
		h.fail(c, err)
		return
	}
	item.ID = existing.ID
	item.StockQuantity = existing.StockQuantity
	item.CreatedAt = existing.CreatedAt

	if err := h.db.Save(&item).Error; err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, item)
}

// DELETE /api/items/:id
func (h *Handler) DeleteItem(c *gin.Context) {
	result := h.db.Delete(&models.Item{}, "id = ?", c.Param("id"))
	if result.Error != nil {
		h.fail(c, result.Error)
		return
	}
	if result.RowsAffected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Item deleted successfully"})
}

// GET /api/items/:id/stock - live ledger snapshot for dashboards.
func (h *Handler) GetItemStock(c *gin.Context) {
	stock, err := h.ledger.CurrentStock(c.Param("id"))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"item_id": c.Param("id"), "stock_quantity": stock})
}

// GET /api/items/:id/movements - the ledger's audit trail.
func (h *Handler) GetItemMovements(c *gin.Context) {
	moves, err := h.ledger.Movements(c.Param("id"))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, moves)
}
