// Package handlers is the thin gin surface over the billing core. Every
// handler binds input, calls into the core packages, and maps core errors
// onto HTTP statuses; no business rule lives here.
package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"multibill-pos/internal/cart"
	"multibill-pos/internal/ledger"
	"multibill-pos/internal/policy"
	"multibill-pos/internal/pricing"
	"multibill-pos/internal/sales"
	"multibill-pos/internal/units"
)

// Handler bundles the dependencies every route needs. Constructed once in
// main and shared across requests.
type Handler struct {
	db        *gorm.DB
	ledger    *ledger.Ledger
	finalizer *sales.Finalizer
	carts     *cart.Store
	log       *logrus.Logger
}

func New(db *gorm.DB, log *logrus.Logger) *Handler {
	led := ledger.New(db)
	return &Handler{
		db:        db,
		ledger:    led,
		finalizer: sales.NewFinalizer(db, led, log),
		carts:     cart.NewStore(),
		log:       log,
	}
}

// fail translates a core error into the right status code and a
// human-readable reason. All core failures are recoverable rejections.
func (h *Handler) fail(c *gin.Context, err error) {
	var violation *policy.Violation

	switch {
	case errors.As(err, &violation):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": violation.Error()})
	case errors.Is(err, ledger.ErrInsufficientStock):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, gorm.ErrRecordNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
	case errors.Is(err, pricing.ErrInvalidInput),
		errors.Is(err, units.ErrUnknownUnit),
		errors.Is(err, cart.ErrIndexOutOfRange),
		errors.Is(err, sales.ErrEmptyCart),
		errors.Is(err, sales.ErrCustomerRequired),
		errors.Is(err, sales.ErrGodownRequired):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		h.log.WithError(err).Error("request failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}

func (h *Handler) userID(c *gin.Context) uint {
	return c.MustGet("userID").(uint)
}
