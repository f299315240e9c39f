package core

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// CategoryCode classifies products for reorder-threshold defaults.
type CategoryCode string

const (
	CategoryBeverages CategoryCode = "BEVERAGES"
	CategorySnacks    CategoryCode = "SNACKS"
	CategoryDairy     CategoryCode = "DAIRY"
	CategoryProduce   CategoryCode = "PRODUCE"
	CategoryMeat      CategoryCode = "MEAT"
	CategoryFrozen    CategoryCode = "FROZEN"
	CategoryGeneral   CategoryCode = "GENERAL"
)

// Product is a sellable catalog item. FloorPrice is the minimum acceptable
// sale price; sales lines priced under it are rejected.
type Product struct {
	ID           int             `json:"id"`
	SKU          string          `json:"sku"`
	Name         string          `json:"name"`
	Description  string          `json:"description"`
	CategoryCode CategoryCode    `json:"category_code"`
	Subcategory  *string         `json:"subcategory,omitempty"`
	Brand        *string         `json:"brand,omitempty"`
	Unit         string          `json:"unit"`
	Cost         decimal.Decimal `json:"cost"`
	RetailPrice  decimal.Decimal `json:"retail_price"`
	FloorPrice   decimal.Decimal `json:"floor_price"`
	IsActive     bool            `json:"is_active"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
}

// Margin returns the product's gross margin percentage.
func (p *Product) Margin() decimal.Decimal {
	return Margin(p.Cost, p.RetailPrice)
}

// ProductInput holds the fields required to create a product. A zero
// FloorPrice means derive it from cost via DefaultFloorPrice.
type ProductInput struct {
	SKU          string
	Name         string
	Description  string
	CategoryCode CategoryCode
	Subcategory  string
	Brand        string
	Unit         string
	Cost         decimal.Decimal
	RetailPrice  decimal.Decimal
	FloorPrice   decimal.Decimal
}

// ProductUpdate carries the mutable product fields. Nil means leave unchanged.
type ProductUpdate struct {
	Name        *string
	Description *string
	Cost        *decimal.Decimal
	RetailPrice *decimal.Decimal
	FloorPrice  *decimal.Decimal
	IsActive    *bool
}

// ChangeType labels a product change log entry.
type ChangeType string

const (
	ChangeCreated           ChangeType = "created"
	ChangePriceIncrease     ChangeType = "price_increase"
	ChangePriceDecrease     ChangeType = "price_decrease"
	ChangeCostChange        ChangeType = "cost_change"
	ChangeDescriptionUpdate ChangeType = "description_update"
	ChangeUpdated           ChangeType = "updated"
)

// ProductChangeLog is one append-only audit entry. Old/new fields are nil when
// the entry predates the field or the value did not apply.
type ProductChangeLog struct {
	ID             int              `json:"id"`
	ProductID      int              `json:"product_id"`
	ChangeType     ChangeType       `json:"change_type"`
	OldCost        *decimal.Decimal `json:"old_cost,omitempty"`
	NewCost        *decimal.Decimal `json:"new_cost,omitempty"`
	OldRetail      *decimal.Decimal `json:"old_retail,omitempty"`
	NewRetail      *decimal.Decimal `json:"new_retail,omitempty"`
	OldMargin      *decimal.Decimal `json:"old_margin,omitempty"`
	NewMargin      *decimal.Decimal `json:"new_margin,omitempty"`
	OldDescription *string          `json:"old_description,omitempty"`
	NewDescription *string          `json:"new_description,omitempty"`
	CreatedAt      time.Time        `json:"created_at"`
}

// ProductService manages the catalog and its audit trail.
type ProductService interface {
	// CreateProduct inserts the product and one 'created' change log entry in
	// the same transaction.
	CreateProduct(ctx context.Context, input ProductInput) (*Product, error)

	// UpdateProduct applies the update and appends exactly one change log
	// entry, classified by ClassifyChange, in the same transaction.
	UpdateProduct(ctx context.Context, productID int, update ProductUpdate) (*Product, error)

	GetProduct(ctx context.Context, productID int) (*Product, error)
	GetProductBySKU(ctx context.Context, sku string) (*Product, error)

	// GetProducts lists active products, optionally filtered by category
	// (empty string returns all).
	GetProducts(ctx context.Context, category CategoryCode) ([]Product, error)

	// GetChangeLog returns a product's change history, newest first.
	GetChangeLog(ctx context.Context, productID int) ([]ProductChangeLog, error)

	// RecomputeFloorPrices resets every active product's floor price to
	// cost * 1.15 and returns the number of rows touched.
	RecomputeFloorPrices(ctx context.Context) (int64, error)
}
