// Package cart is the staging area for one in-progress multi-company sale.
// Lines accumulate here, validated one at a time against company policy,
// until the finalizer turns the whole cart into bills.
package cart

import (
	"errors"
	"fmt"

	"multibill-pos/internal/models"
	"multibill-pos/internal/policy"
	"multibill-pos/internal/pricing"
)

var ErrIndexOutOfRange = errors.New("cart index out of range")

// Cart is an ordered, mutable buffer of sale lines. It is not safe for
// concurrent use; Store hands out one cart per cashier.
type Cart struct {
	lines []models.SaleItem
}

func New() *Cart {
	return &Cart{}
}

// Add stages a line. The line must already have passed the per-line policy
// check for its company. If a line for the same (item, company) pair is
// already staged the two are merged: quantities and discounts sum, and GST
// and total are recomputed at the existing unit price - the price is not
// renegotiated on merge.
func (c *Cart) Add(line models.SaleItem) error {
	if line.Quantity <= 0 {
		return fmt.Errorf("%w: quantity must be greater than 0", pricing.ErrInvalidInput)
	}

	for i, existing := range c.lines {
		if existing.ItemID == line.ItemID && existing.CompanyID == line.CompanyID {
			c.lines[i] = merge(existing, line)
			return nil
		}
	}

	c.lines = append(c.lines, line)
	return nil
}

// Update replaces the line at index wholesale.
func (c *Cart) Update(index int, line models.SaleItem) error {
	if index < 0 || index >= len(c.lines) {
		return fmt.Errorf("%w: %d", ErrIndexOutOfRange, index)
	}
	c.lines[index] = line
	return nil
}

// Remove drops the line at index, preserving the order of the rest.
func (c *Cart) Remove(index int) error {
	if index < 0 || index >= len(c.lines) {
		return fmt.Errorf("%w: %d", ErrIndexOutOfRange, index)
	}
	c.lines = append(c.lines[:index], c.lines[index+1:]...)
	return nil
}

// Clear empties the cart. Called by the checkout flow only after every
// bill has been committed.
func (c *Cart) Clear() {
	c.lines = nil
}

// Lines returns a copy of the staged lines in entry order.
func (c *Cart) Lines() []models.SaleItem {
	out := make([]models.SaleItem, len(c.lines))
	copy(out, c.lines)
	return out
}

func (c *Cart) Len() int {
	return len(c.lines)
}

// Total is the live grand total across all staged lines, for display while
// the sale is still being entered.
func (c *Cart) Total() float64 {
	var total float64
	for _, line := range c.lines {
		total += line.TotalPrice
	}
	return total
}

// CompanyIDs returns the distinct companies staged, in first-seen order.
func (c *Cart) CompanyIDs() []string {
	order, _ := policy.Partition(c.lines)
	return order
}

// merge folds an incoming line into an existing one for the same item and
// company. Quantities and absolute discounts sum; GST is recomputed on the
// merged discounted base so the line invariant
// total = (unitPrice*qty - discount) + gst keeps holding.
func merge(existing, incoming models.SaleItem) models.SaleItem {
	merged := existing
	merged.Quantity = existing.Quantity + incoming.Quantity
	merged.DiscountValue = existing.DiscountValue + incoming.DiscountValue

	base := merged.UnitPrice * merged.Quantity
	discounted := base - merged.DiscountValue
	if discounted < 0 {
		discounted = 0
		merged.DiscountValue = base
	}
	if base > 0 {
		merged.DiscountPercentage = merged.DiscountValue / base * 100
	}

	merged.GSTAmount = pricing.GSTAmount(discounted, merged.GSTPercentage)
	merged.TotalPrice = discounted + merged.GSTAmount
	return merged
}
