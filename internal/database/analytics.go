package database

import (
	"time"

	"gorm.io/gorm"

	"multibill-pos/internal/models"
)

// CompanyRevenue is one row of the per-company revenue breakdown.
type CompanyRevenue struct {
	CompanyID   string  `json:"company_id"`
	CompanyName string  `json:"company_name"`
	Revenue     float64 `json:"revenue"`
	BillCount   int64   `json:"bill_count"`
}

// TopItem is one row of the best-sellers listing.
type TopItem struct {
	ItemID   string  `json:"item_id"`
	ItemName string  `json:"item_name"`
	Quantity float64 `json:"quantity"`
	Revenue  float64 `json:"revenue"`
}

// Analytics is the dashboard payload.
type Analytics struct {
	TotalSales     float64          `json:"total_sales"`
	TotalBills     int64            `json:"total_bills"`
	GSTSales       float64          `json:"gst_sales"`
	NonGSTSales    float64          `json:"non_gst_sales"`
	TotalDiscounts float64          `json:"total_discounts"`
	CompanyRevenue []CompanyRevenue `json:"company_revenue"`
	TopItems       []TopItem        `json:"top_items"`
	RecentSales    []models.Sale    `json:"recent_sales"`
}

// GetAnalytics aggregates the dashboard numbers. All figures are computed
// from finalized sales; stock figures always come live from the ledger.
func GetAnalytics(db *gorm.DB) (*Analytics, error) {
	var data Analytics

	if err := db.Model(&models.Sale{}).
		Select("COALESCE(SUM(total_amount), 0)").
		Scan(&data.TotalSales).Error; err != nil {
		return nil, err
	}

	if err := db.Model(&models.Sale{}).Count(&data.TotalBills).Error; err != nil {
		return nil, err
	}

	if err := db.Model(&models.Sale{}).
		Where("bill_type = ?", models.TaxGST).
		Select("COALESCE(SUM(total_amount), 0)").
		Scan(&data.GSTSales).Error; err != nil {
		return nil, err
	}

	if err := db.Model(&models.Sale{}).
		Where("bill_type = ?", models.TaxNonGST).
		Select("COALESCE(SUM(total_amount), 0)").
		Scan(&data.NonGSTSales).Error; err != nil {
		return nil, err
	}

	if err := db.Model(&models.Sale{}).
		Select("COALESCE(SUM(total_discount), 0)").
		Scan(&data.TotalDiscounts).Error; err != nil {
		return nil, err
	}

	if err := db.Table("sales").
		Select("sales.company_id, companies.name as company_name, SUM(sales.total_amount) as revenue, COUNT(*) as bill_count").
		Joins("JOIN companies ON sales.company_id = companies.id").
		Group("sales.company_id, companies.name").
		Order("revenue desc").
		Scan(&data.CompanyRevenue).Error; err != nil {
		return nil, err
	}

	if err := db.Table("sale_items").
		Select("sale_items.item_id, sale_items.name as item_name, SUM(sale_items.quantity) as quantity, SUM(sale_items.total_price) as revenue").
		Where("sale_items.sale_id <> ''").
		Group("sale_items.item_id, sale_items.name").
		Order("revenue desc").
		Limit(5).
		Scan(&data.TopItems).Error; err != nil {
		return nil, err
	}

	if err := db.Order("date desc").Limit(10).Find(&data.RecentSales).Error; err != nil {
		return nil, err
	}

	return &data, nil
}

// LowStockItems lists items at or below threshold, reading the ledger's
// current state directly.
func LowStockItems(db *gorm.DB, threshold float64) ([]models.Item, error) {
	var items []models.Item
	err := db.Where("stock_quantity <= ?", threshold).
		Order("stock_quantity asc").
		Find(&items).Error
	return items, err
}

// SalesBetween totals finalized sales in a date range.
type SalesSummary struct {
	TotalRevenue float64 `json:"total_revenue"`
	TotalCount   int64   `json:"total_count"`
}

func SalesBetween(db *gorm.DB, start, end time.Time) (*SalesSummary, error) {
	var result SalesSummary

	err := db.Model(&models.Sale{}).
		Where("date BETWEEN ? AND ?", start, end).
		Select("COALESCE(SUM(total_amount), 0)").
		Scan(&result.TotalRevenue).Error
	if err != nil {
		return nil, err
	}

	err = db.Model(&models.Sale{}).
		Where("date BETWEEN ? AND ?", start, end).
		Count(&result.TotalCount).Error
	if err != nil {
		return nil, err
	}

	return &result, nil
}
