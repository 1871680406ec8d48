package sales

import (
	"fmt"

	"multibill-pos/internal/models"
	"multibill-pos/internal/pricing"
	"multibill-pos/internal/units"
)

// LineInput is the raw entry coming off the sale form: an item, a
// quantity in some sales unit, and an optional discount.
type LineInput struct {
	Quantity          float64
	Unit              string // defaults to the item's own sales unit
	Discount          float64
	DiscountIsPercent bool
}

// BuildLine prices one cart line from an item and its company. The chosen
// discount type is the primary input; the other representation is derived.
// GST is computed on the discounted base via the pricing calculator.
func BuildLine(item models.Item, company models.Company, in LineInput) (models.SaleItem, error) {
	if in.Quantity <= 0 {
		return models.SaleItem{}, fmt.Errorf("%w: quantity must be greater than 0", pricing.ErrInvalidInput)
	}

	unit := in.Unit
	if unit == "" {
		unit = item.SalesUnit
	}
	if !units.Valid(unit) {
		return models.SaleItem{}, fmt.Errorf("%w: %q", units.ErrUnknownUnit, unit)
	}

	base := item.UnitPrice * in.Quantity
	quote, err := pricing.FinalPrice(base, item.Tax.GSTPercentage, in.Discount, in.DiscountIsPercent)
	if err != nil {
		return models.SaleItem{}, err
	}

	var discountPct float64
	if base > 0 {
		discountPct = quote.DiscountAmount / base * 100
	}

	return models.SaleItem{
		ItemID:             item.ID,
		CompanyID:          company.ID,
		CompanyName:        company.Name,
		Name:               item.Name,
		Quantity:           in.Quantity,
		UnitPrice:          item.UnitPrice,
		MRP:                item.MRP,
		DiscountValue:      quote.DiscountAmount,
		DiscountPercentage: discountPct,
		GSTPercentage:      item.Tax.GSTPercentage,
		GSTAmount:          quote.GSTAmount,
		HSNCode:            item.Tax.HSNCode,
		SalesUnit:          unit,
		TotalPrice:         quote.FinalPrice,
	}, nil
}
