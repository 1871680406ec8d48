// Package policy enforces per-company tax-class rules on sale lines. The
// validator is pure: it is run against a single candidate line on every
// cart mutation and against each whole company partition at checkout.
package policy

import (
	"fmt"
	"math"

	"multibill-pos/internal/models"
	"multibill-pos/internal/pricing"
)

// Violation is a recoverable business-rule rejection with a reason fit for
// showing to the cashier.
type Violation struct {
	CompanyName string
	Reason      string
}

func (v *Violation) Error() string {
	if v.CompanyName != "" {
		return fmt.Sprintf("%s: %s", v.CompanyName, v.Reason)
	}
	return v.Reason
}

func violationf(companyName, format string, args ...any) error {
	return &Violation{CompanyName: companyName, Reason: fmt.Sprintf(format, args...)}
}

// ValidateLine checks one candidate sale line against its company's policy.
// Homogeneity and partition-wide rules are checked later by ValidatePartition.
func ValidateLine(company models.Company, line models.SaleItem) error {
	switch company.RequiredTaxClass {
	case models.TaxGST:
		if !line.IsGST() {
			return violationf(company.Name, "requires GST items only")
		}
	case models.TaxNonGST:
		if line.IsGST() {
			return violationf(company.Name, "only accepts Non-GST items")
		}
	}

	if line.IsGST() {
		if company.RequireHSN && line.HSNCode == "" {
			return violationf(company.Name, "HSN Code required")
		}
		if !pricing.IsStandardRate(line.GSTPercentage) {
			return violationf(company.Name, "GST rate %v%% is not a standard slab", line.GSTPercentage)
		}
	}

	if err := checkLineMRP(company.Name, line); err != nil {
		return err
	}

	return nil
}

// ValidatePartition checks one company's full set of lines for a single
// sale: every per-line rule, plus the all-GST-or-all-NON-GST homogeneity
// rule that only makes sense over the whole set.
func ValidatePartition(company models.Company, lines []models.SaleItem) error {
	for _, line := range lines {
		if err := ValidateLine(company, line); err != nil {
			return err
		}
	}

	if len(lines) > 1 {
		first := lines[0].IsGST()
		for _, line := range lines[1:] {
			if line.IsGST() != first {
				return violationf(company.Name, "cannot have mixed GST/Non-GST items")
			}
		}
	}

	return nil
}

// ValidateCart groups a whole cart by company and validates every
// partition, failing on the first violation. Companies are looked up by ID
// in the supplied map.
func ValidateCart(companies map[string]models.Company, lines []models.SaleItem) error {
	if len(lines) == 0 {
		return &Violation{Reason: "no items to validate"}
	}

	order, partitions := Partition(lines)
	for _, companyID := range order {
		company, ok := companies[companyID]
		if !ok {
			return violationf("", "unknown company %s", companyID)
		}
		if err := ValidatePartition(company, partitions[companyID]); err != nil {
			return err
		}
	}
	return nil
}

// Partition groups lines by company, preserving both the order in which
// companies first appear and the original line order within each group.
func Partition(lines []models.SaleItem) (order []string, groups map[string][]models.SaleItem) {
	groups = make(map[string][]models.SaleItem)
	for _, line := range lines {
		if _, seen := groups[line.CompanyID]; !seen {
			order = append(order, line.CompanyID)
		}
		groups[line.CompanyID] = append(groups[line.CompanyID], line)
	}
	return order, groups
}

func checkLineMRP(companyName string, line models.SaleItem) error {
	if !line.IsGST() || line.MRP == 0 {
		return nil
	}
	expected := line.UnitPrice * (1 + line.GSTPercentage/100)
	if math.Abs(expected-line.MRP) > models.MRPTolerance {
		return violationf(companyName,
			"item %s: MRP should be equal to Excl. Cost + GST (%.2f)", line.Name, expected)
	}
	return nil
}
