package policy

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"multibill-pos/internal/models"
)

var (
	gstOnlyCo = models.Company{
		ID: "co-gst", Name: "Mansan Laal and Sons",
		RequiredTaxClass: models.TaxGST, RequireHSN: true,
	}
	nonGstOnlyCo = models.Company{
		ID: "co-est", Name: "Estimate",
		RequiredTaxClass: models.TaxNonGST,
	}
	openCo = models.Company{ID: "co-any", Name: "General Traders"}
)

func gstLine(companyID string, rate float64, hsn string) models.SaleItem {
	return models.SaleItem{
		ItemID:        "item-" + companyID,
		CompanyID:     companyID,
		Name:          "Tea 250g",
		Quantity:      1,
		UnitPrice:     100,
		MRP:           100 * (1 + rate/100),
		GSTPercentage: rate,
		HSNCode:       hsn,
		SalesUnit:     "Piece",
		TotalPrice:    100 * (1 + rate/100),
	}
}

func plainLine(companyID string) models.SaleItem {
	return models.SaleItem{
		ItemID:     "item-" + companyID,
		CompanyID:  companyID,
		Name:       "Loose Jaggery",
		Quantity:   1,
		UnitPrice:  50,
		MRP:        50,
		SalesUnit:  "Piece",
		TotalPrice: 50,
	}
}

func TestValidateLine(t *testing.T) {
	tests := []struct {
		name    string
		company models.Company
		line    models.SaleItem
		wantErr string
	}{
		{"gst line for gst-only company", gstOnlyCo, gstLine(gstOnlyCo.ID, 18, "0902"), ""},
		{"non-gst line rejected by gst-only company", gstOnlyCo, plainLine(gstOnlyCo.ID), "requires GST items only"},
		{"gst line rejected by non-gst company", nonGstOnlyCo, gstLine(nonGstOnlyCo.ID, 18, "0902"), "only accepts Non-GST items"},
		{"non-gst line for non-gst company", nonGstOnlyCo, plainLine(nonGstOnlyCo.ID), ""},
		{"missing hsn where required", gstOnlyCo, gstLine(gstOnlyCo.ID, 18, ""), "HSN Code required"},
		{"off-slab gst rate flagged", openCo, gstLine(openCo.ID, 17.5, "0902"), "not a standard slab"},
		{"open company takes either class", openCo, plainLine(openCo.ID), ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateLine(tt.company, tt.line)
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			var v *Violation
			require.ErrorAs(t, err, &v)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestValidateLineMRPConsistency(t *testing.T) {
	line := gstLine(openCo.ID, 18, "0902")
	line.MRP = 120 // expected 118

	err := ValidateLine(openCo, line)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "118.00")

	// Within the 0.01 tolerance passes.
	line.MRP = 118.005
	assert.NoError(t, ValidateLine(openCo, line))
}

func TestValidatePartitionHomogeneity(t *testing.T) {
	mixed := []models.SaleItem{
		gstLine(openCo.ID, 18, "0902"),
		plainLine(openCo.ID),
	}
	err := ValidatePartition(openCo, mixed)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "mixed GST/Non-GST")

	allGst := []models.SaleItem{
		gstLine(openCo.ID, 18, "0902"),
		gstLine(openCo.ID, 12, "1001"),
	}
	allGst[1].MRP = 112
	allGst[1].TotalPrice = 112
	assert.NoError(t, ValidatePartition(openCo, allGst))
}

func TestValidateCart(t *testing.T) {
	companies := map[string]models.Company{
		gstOnlyCo.ID:    gstOnlyCo,
		nonGstOnlyCo.ID: nonGstOnlyCo,
	}

	lines := []models.SaleItem{
		gstLine(gstOnlyCo.ID, 18, "0902"),
		plainLine(nonGstOnlyCo.ID),
	}
	assert.NoError(t, ValidateCart(companies, lines))

	// A single bad line anywhere fails the whole cart.
	lines = append(lines, gstLine(gstOnlyCo.ID, 18, ""))
	err := ValidateCart(companies, lines)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "HSN Code required")

	// Empty carts are rejected outright.
	assert.Error(t, ValidateCart(companies, nil))
}

func TestPartitionPreservesOrder(t *testing.T) {
	lines := []models.SaleItem{
		{ItemID: "a", CompanyID: "x"},
		{ItemID: "b", CompanyID: "y"},
		{ItemID: "c", CompanyID: "x"},
	}

	order, groups := Partition(lines)
	require.Equal(t, []string{"x", "y"}, order)
	require.Len(t, groups["x"], 2)
	assert.Equal(t, "a", groups["x"][0].ItemID)
	assert.Equal(t, "c", groups["x"][1].ItemID)
	assert.Equal(t, "b", groups["y"][0].ItemID)
}
