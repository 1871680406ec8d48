package handlers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"multibill-pos/internal/database"
	"multibill-pos/internal/models"
	"multibill-pos/internal/units"
)

type env struct {
	router   *gin.Engine
	db       *gorm.DB
	mansan   models.Company
	estimate models.Company
	tea      models.Item
	jaggery  models.Item
	godownID string
}

// newEnv wires the full route surface against an in-memory database, with
// the auth middleware replaced by a stub identity.
func newEnv(t *testing.T) *env {
	t.Helper()
	gin.SetMode(gin.TestMode)

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))

	log := logrus.New()
	log.SetLevel(logrus.ErrorLevel)
	h := New(db, log)

	r := gin.New()
	r.Use(func(c *gin.Context) {
		c.Set("userID", uint(1))
		c.Set("role", "admin")
	})

	api := r.Group("/api")
	api.GET("/items", h.GetItems)
	api.POST("/items", h.AddItem)
	api.GET("/items/:id/stock", h.GetItemStock)
	api.GET("/cart", h.GetCart)
	api.POST("/cart/items", h.AddCartItem)
	api.DELETE("/cart/items/:index", h.RemoveCartItem)
	api.DELETE("/cart", h.ClearCart)
	api.POST("/checkout", h.Checkout)
	api.GET("/sales", h.GetSales)
	api.POST("/returns", h.ReturnItem)

	e := &env{router: r, db: db, godownID: uuid.NewString()}

	e.mansan = models.Company{
		ID: uuid.NewString(), Name: "Mansan Laal and Sons",
		RequiredTaxClass: models.TaxGST, RequireHSN: true,
	}
	e.estimate = models.Company{
		ID: uuid.NewString(), Name: "Estimate",
		RequiredTaxClass: models.TaxNonGST,
	}
	require.NoError(t, db.Create(&e.mansan).Error)
	require.NoError(t, db.Create(&e.estimate).Error)

	tax, err := models.GST(18, "0902")
	require.NoError(t, err)
	e.tea = models.Item{
		ID: uuid.NewString(), CompanyID: e.mansan.ID, ItemCode: "TEA-250",
		Name: "Tea 250g", Tax: tax, UnitPrice: 100, MRP: 118,
		GodownID: e.godownID, StockQuantity: 50, SalesUnit: units.Piece,
	}
	e.jaggery = models.Item{
		ID: uuid.NewString(), CompanyID: e.estimate.ID, ItemCode: "JAG-1",
		Name: "Loose Jaggery", Tax: models.NonGST(), UnitPrice: 50, MRP: 50,
		GodownID: e.godownID, StockQuantity: 20, SalesUnit: units.Piece,
	}
	require.NoError(t, db.Create(&e.tea).Error)
	require.NoError(t, db.Create(&e.jaggery).Error)

	return e
}

func (e *env) do(t *testing.T, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

func TestAddItemValidatesTaxClass(t *testing.T) {
	e := newEnv(t)

	// GST item without HSN is a 400.
	w := e.do(t, http.MethodPost, "/api/items", ItemRequest{
		CompanyID: e.mansan.ID, ItemCode: "X-1", Name: "Biscuits",
		TaxClass: "GST", GSTPercentage: 12,
		UnitPrice: 10, GodownID: e.godownID, SalesUnit: units.Piece,
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "HSN")

	// Well-formed GST item derives its MRP when omitted.
	w = e.do(t, http.MethodPost, "/api/items", ItemRequest{
		CompanyID: e.mansan.ID, ItemCode: "X-1", Name: "Biscuits",
		TaxClass: "GST", GSTPercentage: 12, HSNCode: "1905",
		UnitPrice: 10, GodownID: e.godownID, SalesUnit: units.Piece,
	})
	require.Equal(t, http.StatusCreated, w.Code)

	var created models.Item
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
	assert.InDelta(t, 11.2, created.MRP, 1e-9)

	// Inconsistent MRP is rejected.
	w = e.do(t, http.MethodPost, "/api/items", ItemRequest{
		CompanyID: e.mansan.ID, ItemCode: "X-2", Name: "Biscuits Large",
		TaxClass: "GST", GSTPercentage: 12, HSNCode: "1905",
		UnitPrice: 10, MRP: 13, GodownID: e.godownID, SalesUnit: units.Piece,
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCartFlowAndCheckout(t *testing.T) {
	e := newEnv(t)

	// Add the same GST item twice: the lines must merge.
	for i := 0; i < 2; i++ {
		w := e.do(t, http.MethodPost, "/api/cart/items", CartItemRequest{
			ItemID: e.tea.ID, Quantity: 1,
		})
		require.Equal(t, http.StatusCreated, w.Code)
	}
	w := e.do(t, http.MethodPost, "/api/cart/items", CartItemRequest{
		ItemID: e.jaggery.ID, Quantity: 4,
	})
	require.Equal(t, http.StatusCreated, w.Code)

	var view cartView
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &view))
	require.Len(t, view.Lines, 2)
	assert.InDelta(t, 2.0, view.Lines[0].Quantity, 1e-9)
	assert.InDelta(t, 2*118+4*50, view.Total, 1e-9)

	// Checkout splits the cart into one bill per company.
	w = e.do(t, http.MethodPost, "/api/checkout", CheckoutRequest{
		CustomerName: "Ravi Kumar", GodownID: e.godownID,
	})
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Sales []models.Sale `json:"sales"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.Sales, 2)
	assert.Equal(t, models.TaxGST, resp.Sales[0].BillType)
	assert.Equal(t, models.TaxNonGST, resp.Sales[1].BillType)

	// Cart cleared after a successful checkout.
	w = e.do(t, http.MethodGet, "/api/cart", nil)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &view))
	assert.Empty(t, view.Lines)

	// Stock committed.
	w = e.do(t, http.MethodGet, "/api/items/"+e.tea.ID+"/stock", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "48")
}

func TestCheckoutInsufficientStockIs409(t *testing.T) {
	e := newEnv(t)

	w := e.do(t, http.MethodPost, "/api/cart/items", CartItemRequest{
		ItemID: e.jaggery.ID, Quantity: 500,
	})
	require.Equal(t, http.StatusCreated, w.Code)

	w = e.do(t, http.MethodPost, "/api/checkout", CheckoutRequest{
		CustomerName: "Ravi Kumar", GodownID: e.godownID,
	})
	assert.Equal(t, http.StatusConflict, w.Code)

	// The cart survives the failed checkout.
	var view cartView
	w = e.do(t, http.MethodGet, "/api/cart", nil)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &view))
	assert.Len(t, view.Lines, 1)
}

func TestPolicyViolationIs422(t *testing.T) {
	e := newEnv(t)

	// The Estimate company refuses GST items; move tea under it to trip
	// the per-line check at cart time.
	require.NoError(t, e.db.Model(&models.Item{}).
		Where("id = ?", e.tea.ID).
		Update("company_id", e.estimate.ID).Error)

	w := e.do(t, http.MethodPost, "/api/cart/items", CartItemRequest{
		ItemID: e.tea.ID, Quantity: 1,
	})
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Contains(t, w.Body.String(), "Non-GST")
}

func TestReturnEndpoint(t *testing.T) {
	e := newEnv(t)

	w := e.do(t, http.MethodPost, "/api/returns", ReturnRequest{
		ItemID: e.tea.ID, Quantity: 1, Unit: units.Case,
	})
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		StockQuantity float64 `json:"stock_quantity"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.InDelta(t, 194.0, resp.StockQuantity, 1e-9, "50 + 144 pieces")
}
