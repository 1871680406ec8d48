package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"multibill-pos/internal/models"
	"multibill-pos/internal/policy"
	"multibill-pos/internal/sales"
)

// CartItemRequest is a raw candidate line from the sale entry form.
type CartItemRequest struct {
	ItemID            string  `json:"item_id" binding:"required"`
	Quantity          float64 `json:"quantity" binding:"required"`
	Unit              string  `json:"unit"` // defaults to the item's sales unit
	Discount          float64 `json:"discount"`
	DiscountIsPercent bool    `json:"discount_is_percent"`
}

// cartView is what the UI renders while the sale is being entered.
type cartView struct {
	Lines []models.SaleItem `json:"lines"`
	Total float64           `json:"total"`
}

func (h *Handler) cartResponse(c *gin.Context, status int) {
	ct := h.carts.Get(h.userID(c))
	c.JSON(status, cartView{Lines: ct.Lines(), Total: ct.Total()})
}

// GET /api/cart
func (h *Handler) GetCart(c *gin.Context) {
	h.cartResponse(c, http.StatusOK)
}

// POST /api/cart/items - price a raw line, run the per-line policy check,
// then stage it (merging with an existing line for the same item).
func (h *Handler) AddCartItem(c *gin.Context) {
	var req CartItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input"})
		return
	}

	line, company, err := h.buildCartLine(req)
	if err != nil {
		h.fail(c, err)
		return
	}
	if err := policy.ValidateLine(company, line); err != nil {
		h.fail(c, err)
		return
	}

	if err := h.carts.Get(h.userID(c)).Add(line); err != nil {
		h.fail(c, err)
		return
	}
	h.cartResponse(c, http.StatusCreated)
}

// PUT /api/cart/items/:index - wholesale replacement of one staged line.
func (h *Handler) UpdateCartItem(c *gin.Context) {
	index, err := strconv.Atoi(c.Param("index"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid index"})
		return
	}

	var req CartItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input"})
		return
	}

	line, company, err := h.buildCartLine(req)
	if err != nil {
		h.fail(c, err)
		return
	}
	if err := policy.ValidateLine(company, line); err != nil {
		h.fail(c, err)
		return
	}

	if err := h.carts.Get(h.userID(c)).Update(index, line); err != nil {
		h.fail(c, err)
		return
	}
	h.cartResponse(c, http.StatusOK)
}

// DELETE /api/cart/items/:index
func (h *Handler) RemoveCartItem(c *gin.Context) {
	index, err := strconv.Atoi(c.Param("index"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid index"})
		return
	}
	if err := h.carts.Get(h.userID(c)).Remove(index); err != nil {
		h.fail(c, err)
		return
	}
	h.cartResponse(c, http.StatusOK)
}

// DELETE /api/cart
func (h *Handler) ClearCart(c *gin.Context) {
	h.carts.Get(h.userID(c)).Clear()
	h.cartResponse(c, http.StatusOK)
}

func (h *Handler) buildCartLine(req CartItemRequest) (models.SaleItem, models.Company, error) {
	var item models.Item
	if err := h.db.First(&item, "id = ?", req.ItemID).Error; err != nil {
		return models.SaleItem{}, models.Company{}, err
	}
	var company models.Company
	if err := h.db.First(&company, "id = ?", item.CompanyID).Error; err != nil {
		return models.SaleItem{}, models.Company{}, err
	}

	line, err := sales.BuildLine(item, company, sales.LineInput{
		Quantity:          req.Quantity,
		Unit:              req.Unit,
		Discount:          req.Discount,
		DiscountIsPercent: req.DiscountIsPercent,
	})
	if err != nil {
		return models.SaleItem{}, models.Company{}, err
	}
	return line, company, nil
}

type CheckoutRequest struct {
	CustomerName string `json:"customer_name"`
	GodownID     string `json:"godown_id"`
	BillNumber   string `json:"bill_number"`
}

// POST /api/checkout - finalize the caller's cart into one bill per
// company. The cart is cleared only after every bill committed.
func (h *Handler) Checkout(c *gin.Context) {
	var req CheckoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input"})
		return
	}

	ct := h.carts.Get(h.userID(c))
	created, err := h.finalizer.Checkout(ct.Lines(), sales.CheckoutRequest{
		CustomerName: req.CustomerName,
		GodownID:     req.GodownID,
		BillNumber:   req.BillNumber,
	})
	if err != nil {
		h.fail(c, err)
		return
	}

	ct.Clear()
	c.JSON(http.StatusOK, gin.H{
		"message": "Sale successful",
		"sales":   created,
	})
}

// GET /api/sales?company_id=...&bill_type=...
func (h *Handler) GetSales(c *gin.Context) {
	list, err := h.finalizer.ListSales(c.Query("company_id"), models.TaxClassCode(c.Query("bill_type")))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

// GET /api/sales/:id
func (h *Handler) GetSale(c *gin.Context) {
	sale, err := h.finalizer.GetSale(c.Param("id"))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, sale)
}
