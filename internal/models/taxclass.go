package models

import (
	"fmt"
	"math"
)

// TaxClassCode is the two-valued tax regime of an item or bill.
type TaxClassCode string

const (
	TaxGST    TaxClassCode = "GST"
	TaxNonGST TaxClassCode = "NON-GST"
)

// TaxClass is the tagged tax variant of an item: either GST with a rate and
// an HSN code, or NON-GST with neither. Construct values through GST or
// NonGST so the "rate and HSN present iff GST" invariant cannot be broken
// field by field.
type TaxClass struct {
	Code          TaxClassCode `gorm:"size:10" json:"code"`
	GSTPercentage float64      `json:"gst_percentage,omitempty"`
	HSNCode       string       `gorm:"size:20" json:"hsn_code,omitempty"`
}

// GST builds a GST tax class. The rate must be positive and the HSN code
// non-empty.
func GST(rate float64, hsnCode string) (TaxClass, error) {
	if rate <= 0 {
		return TaxClass{}, fmt.Errorf("GST rate must be positive, got %v", rate)
	}
	if hsnCode == "" {
		return TaxClass{}, fmt.Errorf("HSN Code is required for GST items")
	}
	return TaxClass{Code: TaxGST, GSTPercentage: rate, HSNCode: hsnCode}, nil
}

// NonGST builds the untaxed variant.
func NonGST() TaxClass {
	return TaxClass{Code: TaxNonGST}
}

func (t TaxClass) IsGST() bool {
	return t.Code == TaxGST
}

// MRPTolerance is the absolute slack allowed between a stored MRP and the
// MRP recomputed from the exclusive price.
const MRPTolerance = 0.01

// CheckMRP verifies mrp = unitPrice * (1 + rate/100) within MRPTolerance.
// Non-GST classes require MRP to equal the unit price.
func (t TaxClass) CheckMRP(unitPrice, mrp float64) error {
	expected := unitPrice
	if t.IsGST() {
		expected = unitPrice * (1 + t.GSTPercentage/100)
	}
	if math.Abs(expected-mrp) > MRPTolerance {
		return fmt.Errorf("MRP should be equal to Excl. Cost + GST (%.2f)", expected)
	}
	return nil
}
