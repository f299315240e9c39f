package core

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
)

// Inventory tracks on-hand stock for a single product. One row per product,
// created lazily on first goods receipt.
type Inventory struct {
	ID            int        `json:"id"`
	ProductID     int        `json:"product_id"`
	QtyOnHand     int64      `json:"qty_on_hand"`
	ReorderLevel  int64      `json:"reorder_level"`
	ReorderQty    int64      `json:"reorder_qty"`
	LastRestocked *time.Time `json:"last_restocked,omitempty"`
	UpdatedAt     time.Time  `json:"updated_at"`
}

// StockLevel is a read view of an inventory item joined with product info.
type StockLevel struct {
	ProductID     int          `json:"product_id"`
	SKU           string       `json:"sku"`
	ProductName   string       `json:"product_name"`
	CategoryCode  CategoryCode `json:"category_code"`
	QtyOnHand     int64        `json:"qty_on_hand"`
	ReorderLevel  int64        `json:"reorder_level"`
	ReorderQty    int64        `json:"reorder_qty"`
	LastRestocked *time.Time   `json:"last_restocked,omitempty"`
}

// ReorderDefaults are the thresholds assigned when a product's inventory row is
// first created. The lookup happens once, at first stock-in; later category
// changes do not recompute thresholds.
type ReorderDefaults struct {
	Level int64
	Qty   int64
}

var categoryReorderDefaults = map[CategoryCode]ReorderDefaults{
	CategoryBeverages: {Level: 100, Qty: 200},
	CategorySnacks:    {Level: 100, Qty: 200},
	CategoryDairy:     {Level: 50, Qty: 100},
	CategoryProduce:   {Level: 50, Qty: 100},
	CategoryMeat:      {Level: 25, Qty: 50},
	CategoryFrozen:    {Level: 75, Qty: 150},
}

// defaultReorder applies to any category without an explicit entry.
var defaultReorder = ReorderDefaults{Level: 50, Qty: 100}

// ReorderDefaultsFor returns the reorder thresholds for a category code.
func ReorderDefaultsFor(code CategoryCode) ReorderDefaults {
	if d, ok := categoryReorderDefaults[code]; ok {
		return d
	}
	return defaultReorder
}

// InventoryService is the inventory ledger: on-hand quantities, reorder
// thresholds, restock timestamps.
type InventoryService interface {
	// GetInventory returns the inventory row for a product, or nil if the
	// product has never been stocked.
	GetInventory(ctx context.Context, productID int) (*Inventory, error)

	// GetStockLevels returns current stock joined with product info.
	GetStockLevels(ctx context.Context) ([]StockLevel, error)

	// GetLowStock returns items at or below their reorder level.
	GetLowStock(ctx context.Context) ([]StockLevel, error)

	// TX-scoped operations: run within a caller-provided transaction so that
	// inventory changes commit atomically with order state transitions.

	// ApplyReceiptTx credits qty units to a product, creating the inventory row
	// on first receipt with thresholds from ReorderDefaultsFor(category).
	// Sets last_restocked. The row stays locked until the TX ends.
	ApplyReceiptTx(ctx context.Context, tx pgx.Tx, productID int, qty int64, category CategoryCode) (*Inventory, error)

	// ApplyDecrementTx deducts qty units under a row lock. Fails with
	// *InsufficientStockError when qty exceeds the on-hand quantity at
	// decrement time; no partial deduction ever happens.
	ApplyDecrementTx(ctx context.Context, tx pgx.Tx, productID int, qty int64) (*Inventory, error)
}
