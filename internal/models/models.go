package models

import (
	"time"
)

// User - The person interacting with the system
type User struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	Username     string    `gorm:"uniqueIndex;size:50" json:"username"`
	PasswordHash string    `json:"-"`    // Never return this in JSON
	Role         string    `json:"role"` // 'admin', 'manager', 'cashier'
	CreatedAt    time.Time `json:"created_at"`
}

// Company - A billing entity. Every item and every bill belongs to exactly
// one company. The tax policy columns drive the Company Policy Validator;
// rules are looked up by company ID, never by display name.
type Company struct {
	ID        string    `gorm:"primaryKey;size:36" json:"id"`
	Name      string    `gorm:"size:120" json:"name"`
	Address   string    `json:"address"`
	Phone     string    `json:"phone"`
	Email     string    `json:"email"`
	GSTNumber string    `json:"gst_number"`
	PANNumber string    `json:"pan_number"`
	// RequiredTaxClass restricts what this company may sell:
	// "GST", "NON-GST", or empty for no restriction.
	RequiredTaxClass TaxClassCode `gorm:"size:10" json:"required_tax_class"`
	RequireHSN       bool         `json:"require_hsn"`
	CreatedAt        time.Time    `json:"created_at"`
}

// Godown - A warehouse holding stock for a company
type Godown struct {
	ID            string    `gorm:"primaryKey;size:36" json:"id"`
	CompanyID     string    `gorm:"size:36;index" json:"company_id"`
	Name          string    `gorm:"size:120" json:"name"`
	Address       string    `json:"address"`
	ContactPerson string    `json:"contact_person"`
	Phone         string    `json:"phone"`
	CreatedAt     time.Time `json:"created_at"`
}

// Customer - A buyer on record (bills also accept free-form customer names)
type Customer struct {
	ID        string    `gorm:"primaryKey;size:36" json:"id"`
	CompanyID string    `gorm:"size:36;index" json:"company_id"`
	Name      string    `gorm:"size:120" json:"name"`
	Phone     string    `json:"phone"`
	Email     string    `json:"email"`
	GSTNumber string    `json:"gst_number"`
	Address   string    `json:"address"`
	CreatedAt time.Time `json:"created_at"`
}

// Item - The Inventory. StockQuantity is expressed in the item's SalesUnit
// and is mutated only by the inventory ledger. It is a float because unit
// conversion (selling one Piece out of a Case-tracked item) yields
// fractional stock.
type Item struct {
	ID            string    `gorm:"primaryKey;size:36" json:"id"`
	CompanyID     string    `gorm:"size:36;index" json:"company_id"`
	ItemCode      string    `gorm:"size:50;index" json:"item_code"` // SKU
	Name          string    `gorm:"size:120" json:"name"`
	Tax           TaxClass  `gorm:"embedded;embeddedPrefix:tax_" json:"tax"`
	UnitPrice     float64   `json:"unit_price"` // Exclusive cost, without GST
	MRP           float64   `json:"mrp"`        // Inclusive of GST
	GodownID      string    `gorm:"size:36;index" json:"godown_id"`
	StockQuantity float64   `json:"stock_quantity"`
	SalesUnit     string    `gorm:"size:10" json:"sales_unit"` // Case | Packet | Piece
	CreatedAt     time.Time `json:"created_at"`
}

// Sale - One finalized bill for one company. Immutable once created:
// there is no update or delete path.
type Sale struct {
	ID                 string       `gorm:"primaryKey;size:36" json:"id"`
	CompanyID          string       `gorm:"size:36;index" json:"company_id"`
	BillNumber         string       `gorm:"size:40;index" json:"bill_number"`
	Date               time.Time    `json:"date"`
	CustomerName       string       `gorm:"size:120" json:"customer_name"`
	BillType           TaxClassCode `gorm:"size:10" json:"bill_type"` // GST | NON-GST
	GodownID           string       `gorm:"size:36" json:"godown_id"`
	TotalAmount        float64      `json:"total_amount"`
	TotalDiscount      float64      `json:"total_discount"`
	TotalExclusiveCost float64      `json:"total_exclusive_cost"`
	TotalGST           float64      `json:"total_gst"`
	// RoundedTotal is the payable amount; RoundOff the signed residual
	// carried as an explicit line, never folded back into the items.
	RoundedTotal float64    `json:"rounded_total"`
	RoundOff     float64    `json:"round_off"`
	Items        []SaleItem `gorm:"foreignKey:SaleID" json:"items"`
	CreatedAt    time.Time  `json:"created_at"`
}

// SaleItem - One line of a bill. The same shape is used as the cart entry
// before checkout (SaleID is empty until the line is committed).
//
// Invariant: TotalPrice = (UnitPrice*Quantity - DiscountValue) + GSTAmount,
// with GSTAmount computed on the discounted base.
type SaleItem struct {
	ID                 uint    `gorm:"primaryKey" json:"id"`
	SaleID             string  `gorm:"size:36;index" json:"sale_id"`
	ItemID             string  `gorm:"size:36;index" json:"item_id"`
	CompanyID          string  `gorm:"size:36" json:"company_id"`
	CompanyName        string  `gorm:"size:120" json:"company_name"`
	Name               string  `gorm:"size:120" json:"name"`
	Quantity           float64 `json:"quantity"`
	UnitPrice          float64 `json:"unit_price"` // Exclusive cost at time of sale
	MRP                float64 `json:"mrp"`
	DiscountValue      float64 `json:"discount_value"`      // Absolute discount in currency
	DiscountPercentage float64 `json:"discount_percentage"` // Derived from / deriving DiscountValue
	GSTPercentage      float64 `json:"gst_percentage"`
	GSTAmount          float64 `json:"gst_amount"`
	HSNCode            string  `gorm:"size:20" json:"hsn_code"`
	SalesUnit          string  `gorm:"size:10" json:"sales_unit"`
	TotalPrice         float64 `json:"total_price"`
}

// IsGST reports whether this line carries GST.
func (si SaleItem) IsGST() bool {
	return si.GSTPercentage > 0
}

// Movement reasons recorded by the inventory ledger.
const (
	MovementSale   = "sale"
	MovementReturn = "return"
)

// StockMovement - Immutable audit row appended by the ledger for every
// stock mutation, in the same transaction as the mutation itself.
type StockMovement struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	ItemID    string    `gorm:"size:36;index" json:"item_id"`
	Delta     float64   `json:"delta"` // Signed, in the item's native SalesUnit
	Reason    string    `gorm:"size:10" json:"reason"`
	BillRef   string    `gorm:"size:40" json:"bill_ref"`
	CreatedAt time.Time `json:"created_at"`
}
