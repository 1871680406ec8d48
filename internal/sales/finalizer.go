// Package sales turns a validated cart into finalized bills: one Sale per
// company, stock deducted, everything committed in a single transaction.
package sales

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"multibill-pos/internal/ledger"
	"multibill-pos/internal/models"
	"multibill-pos/internal/policy"
	"multibill-pos/internal/pricing"
)

var (
	ErrEmptyCart        = errors.New("no items in sale")
	ErrCustomerRequired = errors.New("customer name is required")
	ErrGodownRequired   = errors.New("a godown must be selected")
)

// Finalizer runs one checkout attempt through
// Collecting -> Validating -> Committing -> Done. Validation failures
// bounce back to the caller with the cart untouched; Committing is the
// only stage with side effects and runs as one transaction.
type Finalizer struct {
	db     *gorm.DB
	ledger *ledger.Ledger
	log    *logrus.Logger
}

func NewFinalizer(db *gorm.DB, led *ledger.Ledger, log *logrus.Logger) *Finalizer {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Finalizer{db: db, ledger: led, log: log}
}

// CheckoutRequest carries the per-checkout inputs that are not lines.
type CheckoutRequest struct {
	CustomerName string
	GodownID     string
	// BillNumber overrides the generated number. It only applies when the
	// cart holds a single company; a multi-company cart always generates
	// per-partition numbers.
	BillNumber string
	// Date defaults to now.
	Date time.Time
}

// Checkout finalizes a cart. A cart spanning N companies yields exactly N
// Sale records, each homogeneous in tax class and independently numbered.
// Stock for the ENTIRE batch is pre-checked before any row is touched, and
// the bill rows plus every stock deduction commit in one transaction, so a
// failure anywhere leaves nothing half-sold.
func (f *Finalizer) Checkout(lines []models.SaleItem, req CheckoutRequest) ([]models.Sale, error) {
	// Validating.
	if len(lines) == 0 {
		return nil, ErrEmptyCart
	}
	if req.CustomerName == "" {
		return nil, ErrCustomerRequired
	}
	if req.GodownID == "" {
		return nil, ErrGodownRequired
	}

	companies, err := f.loadCompanies(lines)
	if err != nil {
		return nil, err
	}
	if err := policy.ValidateCart(companies, lines); err != nil {
		return nil, err
	}

	// Partition by company, preserving line order within each group.
	order, groups := policy.Partition(lines)

	date := req.Date
	if date.IsZero() {
		date = time.Now()
	}

	// Pre-flight the whole batch before mutating anything.
	batch := make([]ledger.Demand, 0, len(lines))
	for _, line := range lines {
		batch = append(batch, ledger.Demand{ItemID: line.ItemID, Quantity: line.Quantity, Unit: line.SalesUnit})
	}
	if err := f.ledger.CheckAvailability(batch); err != nil {
		return nil, err
	}

	// Committing.
	var created []models.Sale
	err = f.db.Transaction(func(tx *gorm.DB) error {
		usedNumbers := make(map[string]bool)

		for _, companyID := range order {
			partition := groups[companyID]
			sale := buildSale(companyID, partition, req, date, len(order) > 1, usedNumbers)

			for _, line := range partition {
				if _, err := f.ledger.ApplyDeltaTx(tx, line.ItemID, line.Quantity, line.SalesUnit, sale.BillNumber); err != nil {
					return err
				}
			}

			if err := tx.Create(&sale).Error; err != nil {
				return err
			}
			created = append(created, sale)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	// Done.
	for _, sale := range created {
		f.log.WithFields(logrus.Fields{
			"bill_number": sale.BillNumber,
			"bill_type":   sale.BillType,
			"company_id":  sale.CompanyID,
			"total":       sale.TotalAmount,
		}).Info("sale finalized")
	}
	return created, nil
}

// GetSale loads one finalized sale with its lines.
func (f *Finalizer) GetSale(id string) (models.Sale, error) {
	var sale models.Sale
	err := f.db.Preload("Items").First(&sale, "id = ?", id).Error
	return sale, err
}

// ListSales returns finalized sales, optionally filtered by company and
// bill type, newest first.
func (f *Finalizer) ListSales(companyID string, billType models.TaxClassCode) ([]models.Sale, error) {
	q := f.db.Preload("Items").Order("date desc")
	if companyID != "" {
		q = q.Where("company_id = ?", companyID)
	}
	if billType != "" {
		q = q.Where("bill_type = ?", billType)
	}
	var out []models.Sale
	err := q.Find(&out).Error
	return out, err
}

func (f *Finalizer) loadCompanies(lines []models.SaleItem) (map[string]models.Company, error) {
	ids, _ := policy.Partition(lines)
	companies := make(map[string]models.Company, len(ids))
	for _, id := range ids {
		var company models.Company
		if err := f.db.First(&company, "id = ?", id).Error; err != nil {
			return nil, fmt.Errorf("company %s: %w", id, err)
		}
		companies[id] = company
	}
	return companies, nil
}

func buildSale(companyID string, partition []models.SaleItem, req CheckoutRequest, date time.Time, multiCompany bool, used map[string]bool) models.Sale {
	// The homogeneity rule guarantees a partition is never mixed, so any
	// GST line makes the whole bill a GST bill.
	billType := models.TaxNonGST
	for _, line := range partition {
		if line.IsGST() {
			billType = models.TaxGST
			break
		}
	}

	var totalAmount, totalDiscount, totalExclusive, totalGST float64
	for _, line := range partition {
		totalAmount += line.TotalPrice
		totalDiscount += line.DiscountValue
		totalExclusive += line.UnitPrice * line.Quantity
		totalGST += line.GSTAmount
	}
	rounded, residual := pricing.RoundOff(totalAmount)

	billNumber := req.BillNumber
	if billNumber == "" || multiCompany {
		billNumber = nextBillNumber(billType, date, used)
	}
	used[billNumber] = true

	items := make([]models.SaleItem, len(partition))
	copy(items, partition)

	return models.Sale{
		ID:                 uuid.NewString(),
		CompanyID:          companyID,
		BillNumber:         billNumber,
		Date:               date,
		CustomerName:       req.CustomerName,
		BillType:           billType,
		GodownID:           req.GodownID,
		TotalAmount:        totalAmount,
		TotalDiscount:      totalDiscount,
		TotalExclusiveCost: totalExclusive,
		TotalGST:           totalGST,
		RoundedTotal:       rounded,
		RoundOff:           residual,
		Items:              items,
	}
}

// nextBillNumber generates "<billType>-<unix-timestamp>", appending a
// counter when two partitions of the same checkout land on the same
// second.
func nextBillNumber(billType models.TaxClassCode, date time.Time, used map[string]bool) string {
	base := fmt.Sprintf("%s-%d", billType, date.Unix())
	if !used[base] {
		return base
	}
	for n := 2; ; n++ {
		candidate := fmt.Sprintf("%s-%d", base, n)
		if !used[candidate] {
			return candidate
		}
	}
}
