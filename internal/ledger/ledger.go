// Package ledger owns every mutation of item stock. Sales post positive
// quantities (stock goes down), returns post negative quantities (stock
// goes up); nothing else in the system writes Item.StockQuantity.
package ledger

import (
	"errors"
	"fmt"
	"sync"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"multibill-pos/internal/models"
	"multibill-pos/internal/units"
)

var ErrInsufficientStock = errors.New("insufficient stock")

// Ledger applies signed stock deltas with unit conversion. The mutex keeps
// each read-modify-write a single critical section even on storage engines
// without row locks; on MySQL the row is additionally locked FOR UPDATE.
type Ledger struct {
	db *gorm.DB
	mu sync.Mutex
}

func New(db *gorm.DB) *Ledger {
	return &Ledger{db: db}
}

// Demand is one stock requirement inside a checkout batch.
type Demand struct {
	ItemID   string
	Quantity float64
	Unit     string
}

// ApplyDelta converts quantity from the given unit into the item's native
// sales unit and moves stock by it. A positive quantity is a sale and is
// rejected with ErrInsufficientStock if it would drive stock negative,
// leaving the item unchanged. A negative quantity is a return and always
// succeeds. The movement is recorded in the same transaction.
func (l *Ledger) ApplyDelta(itemID string, quantity float64, unit, billRef string) (models.Item, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	var item models.Item
	err := l.db.Transaction(func(tx *gorm.DB) error {
		return l.applyDelta(tx, itemID, quantity, unit, billRef, &item)
	})
	return item, err
}

// ApplyDeltaTx is ApplyDelta inside a caller-owned transaction, used by the
// sale finalizer to commit a whole batch of deductions atomically with the
// bill rows.
func (l *Ledger) ApplyDeltaTx(tx *gorm.DB, itemID string, quantity float64, unit, billRef string) (models.Item, error) {
	var item models.Item
	err := l.applyDelta(tx, itemID, quantity, unit, billRef, &item)
	return item, err
}

func (l *Ledger) applyDelta(tx *gorm.DB, itemID string, quantity float64, unit, billRef string, out *models.Item) error {
	q := tx
	if tx.Dialector.Name() == "mysql" {
		q = q.Clauses(clause.Locking{Strength: "UPDATE"})
	}

	var item models.Item
	if err := q.First(&item, "id = ?", itemID).Error; err != nil {
		return err
	}

	converted, err := units.Convert(quantity, unit, item.SalesUnit)
	if err != nil {
		return err
	}

	newStock := item.StockQuantity - converted
	if converted > 0 && newStock < 0 {
		return fmt.Errorf("%w for %s", ErrInsufficientStock, item.Name)
	}

	reason := models.MovementSale
	if converted < 0 {
		reason = models.MovementReturn
	}

	item.StockQuantity = newStock
	if err := tx.Save(&item).Error; err != nil {
		return err
	}

	movement := models.StockMovement{
		ItemID:  item.ID,
		Delta:   -converted,
		Reason:  reason,
		BillRef: billRef,
	}
	if err := tx.Create(&movement).Error; err != nil {
		return err
	}

	*out = item
	return nil
}

// CheckAvailability verifies, without mutating anything, that the current
// stock can cover an entire batch of sale demands. Demands for the same
// item are summed first so a batch cannot sneak past the check line by
// line. Returns are ignored: they never fail.
func (l *Ledger) CheckAvailability(batch []Demand) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.checkAvailability(l.db, batch)
}

// CheckAvailabilityTx is CheckAvailability against a caller-owned
// transaction.
func (l *Ledger) CheckAvailabilityTx(tx *gorm.DB, batch []Demand) error {
	return l.checkAvailability(tx, batch)
}

func (l *Ledger) checkAvailability(tx *gorm.DB, batch []Demand) error {
	needed := make(map[string]float64) // item ID -> quantity in native unit
	for _, d := range batch {
		var item models.Item
		if err := tx.First(&item, "id = ?", d.ItemID).Error; err != nil {
			return err
		}
		converted, err := units.Convert(d.Quantity, d.Unit, item.SalesUnit)
		if err != nil {
			return err
		}
		needed[d.ItemID] += converted
	}

	for itemID, qty := range needed {
		if qty <= 0 {
			continue
		}
		var item models.Item
		if err := tx.First(&item, "id = ?", itemID).Error; err != nil {
			return err
		}
		if item.StockQuantity < qty {
			return fmt.Errorf("%w for %s", ErrInsufficientStock, item.Name)
		}
	}
	return nil
}

// CurrentStock is the live stock snapshot used by dashboards and item
// lists. There is no cache in front of the ledger.
func (l *Ledger) CurrentStock(itemID string) (float64, error) {
	var item models.Item
	if err := l.db.First(&item, "id = ?", itemID).Error; err != nil {
		return 0, err
	}
	return item.StockQuantity, nil
}

// Movements returns the audit trail for one item, newest first.
func (l *Ledger) Movements(itemID string) ([]models.StockMovement, error) {
	var moves []models.StockMovement
	err := l.db.Where("item_id = ?", itemID).Order("id desc").Find(&moves).Error
	return moves, err
}
