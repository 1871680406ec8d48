// Package pricing contains the pure MRP-based price arithmetic for sale
// lines. Nothing in here touches the database or the cart: inputs are
// numbers, outputs are numbers.
package pricing

import (
	"errors"
	"fmt"
	"math"
)

var ErrInvalidInput = errors.New("invalid pricing input")

// StandardGSTRates are the discrete GST slabs in use. The calculator itself
// accepts any non-negative rate; off-slab rates are the policy validator's
// business, not an arithmetic error.
var StandardGSTRates = []float64{0, 5, 12, 18, 28}

// GSTAmount returns the tax on an exclusive (pre-tax) cost.
func GSTAmount(exclusiveCost, gstPercentage float64) float64 {
	return exclusiveCost * gstPercentage / 100
}

// MRPFromExclusive returns the tax-inclusive price.
func MRPFromExclusive(exclusiveCost, gstPercentage float64) float64 {
	return exclusiveCost + GSTAmount(exclusiveCost, gstPercentage)
}

// ExclusiveFromMRP backs the pre-tax cost out of a tax-inclusive price.
func ExclusiveFromMRP(mrp, gstPercentage float64) float64 {
	return mrp / (1 + gstPercentage/100)
}

// ApplyDiscount reduces an exclusive cost by a discount. Percentage
// discounts are clamped to [0, 100]; absolute discounts are clamped to
// [0, exclusiveCost] so the result never goes negative.
func ApplyDiscount(exclusiveCost, discount float64, isPercentage bool) float64 {
	if discount < 0 {
		discount = 0
	}
	if isPercentage {
		if discount > 100 {
			discount = 100
		}
		return exclusiveCost * (1 - discount/100)
	}
	if discount > exclusiveCost {
		discount = exclusiveCost
	}
	return exclusiveCost - discount
}

// Quote is the result of a FinalPrice computation.
type Quote struct {
	DiscountedExclusiveCost float64 `json:"discounted_exclusive_cost"`
	DiscountAmount          float64 `json:"discount_amount"`
	GSTAmount               float64 `json:"gst_amount"`
	FinalPrice              float64 `json:"final_price"`
}

// FinalPrice computes the payable price for an exclusive cost after
// discount and GST. The discount comes off first and GST is charged on the
// discounted base; reversing that order changes the tax liability and is
// wrong.
func FinalPrice(exclusiveCost, gstPercentage, discount float64, isPercentage bool) (Quote, error) {
	if exclusiveCost < 0 {
		return Quote{}, fmt.Errorf("%w: exclusive cost %v is negative", ErrInvalidInput, exclusiveCost)
	}
	if gstPercentage < 0 {
		return Quote{}, fmt.Errorf("%w: GST percentage %v is negative", ErrInvalidInput, gstPercentage)
	}
	if discount < 0 {
		return Quote{}, fmt.Errorf("%w: discount %v is negative", ErrInvalidInput, discount)
	}

	discounted := ApplyDiscount(exclusiveCost, discount, isPercentage)
	discountAmount := exclusiveCost - discounted
	gst := GSTAmount(discounted, gstPercentage)

	return Quote{
		DiscountedExclusiveCost: discounted,
		DiscountAmount:          discountAmount,
		GSTAmount:               gst,
		FinalPrice:              discounted + gst,
	}, nil
}

// RoundOff rounds a bill's grand total to the nearest whole currency unit
// and returns the signed residual (rounded - total). The residual is shown
// as its own line on the bill, never redistributed across items.
func RoundOff(total float64) (rounded, residual float64) {
	rounded = math.Round(total)
	return rounded, rounded - total
}

// IsStandardRate reports whether rate is one of the defined GST slabs.
func IsStandardRate(rate float64) bool {
	for _, r := range StandardGSTRates {
		if rate == r {
			return true
		}
	}
	return false
}
