package core

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type inventoryService struct {
	pool *pgxpool.Pool
}

// NewInventoryService constructs an InventoryService backed by PostgreSQL.
func NewInventoryService(pool *pgxpool.Pool) InventoryService {
	return &inventoryService{pool: pool}
}

const inventoryColumns = `id, product_id, qty_on_hand, reorder_level, reorder_qty, last_restocked, updated_at`

func scanInventory(row pgx.Row) (*Inventory, error) {
	var inv Inventory
	err := row.Scan(&inv.ID, &inv.ProductID, &inv.QtyOnHand, &inv.ReorderLevel,
		&inv.ReorderQty, &inv.LastRestocked, &inv.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &inv, nil
}

// GetInventory returns nil (not an error) when the product has never been stocked.
func (s *inventoryService) GetInventory(ctx context.Context, productID int) (*Inventory, error) {
	inv, err := scanInventory(s.pool.QueryRow(ctx,
		"SELECT "+inventoryColumns+" FROM inventory_items WHERE product_id = $1", productID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get inventory for product %d: %w", productID, err)
	}
	return inv, nil
}

func (s *inventoryService) GetStockLevels(ctx context.Context) ([]StockLevel, error) {
	return s.queryStockLevels(ctx, "")
}

// GetLowStock returns items at or below their reorder level — the informational
// restock signal; no automatic PO generation exists.
func (s *inventoryService) GetLowStock(ctx context.Context) ([]StockLevel, error) {
	return s.queryStockLevels(ctx, "AND ii.qty_on_hand <= ii.reorder_level")
}

func (s *inventoryService) queryStockLevels(ctx context.Context, extraWhere string) ([]StockLevel, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT p.id, p.sku, p.name, p.category_code,
		       ii.qty_on_hand, ii.reorder_level, ii.reorder_qty, ii.last_restocked
		FROM inventory_items ii
		JOIN products p ON p.id = ii.product_id
		WHERE p.is_active = true `+extraWhere+`
		ORDER BY p.sku`)
	if err != nil {
		return nil, fmt.Errorf("query stock levels: %w", err)
	}
	defer rows.Close()

	var levels []StockLevel
	for rows.Next() {
		var sl StockLevel
		if err := rows.Scan(
			&sl.ProductID, &sl.SKU, &sl.ProductName, &sl.CategoryCode,
			&sl.QtyOnHand, &sl.ReorderLevel, &sl.ReorderQty, &sl.LastRestocked,
		); err != nil {
			return nil, fmt.Errorf("scan stock level: %w", err)
		}
		levels = append(levels, sl)
	}
	return levels, rows.Err()
}

// ApplyReceiptTx credits stock within the caller's TX. On first receipt the
// inventory row is created with reorder thresholds derived from the product's
// category — a one-time decision that later category edits do not revisit.
func (s *inventoryService) ApplyReceiptTx(ctx context.Context, tx pgx.Tx, productID int, qty int64, category CategoryCode) (*Inventory, error) {
	if qty <= 0 {
		return nil, fmt.Errorf("receipt quantity must be positive, got %d", qty)
	}

	// Lock the existing row if there is one.
	inv, err := scanInventory(tx.QueryRow(ctx,
		"SELECT "+inventoryColumns+" FROM inventory_items WHERE product_id = $1 FOR UPDATE", productID))
	if err != nil && !errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("lock inventory for product %d: %w", productID, err)
	}

	if inv == nil {
		defaults := ReorderDefaultsFor(category)
		inv, err = scanInventory(tx.QueryRow(ctx, `
			INSERT INTO inventory_items (product_id, qty_on_hand, reorder_level, reorder_qty, last_restocked)
			VALUES ($1, $2, $3, $4, NOW())
			RETURNING `+inventoryColumns,
			productID, qty, defaults.Level, defaults.Qty,
		))
		if err != nil {
			return nil, fmt.Errorf("create inventory for product %d: %w", productID, err)
		}
		return inv, nil
	}

	inv, err = scanInventory(tx.QueryRow(ctx, `
		UPDATE inventory_items
		SET qty_on_hand = qty_on_hand + $1, last_restocked = NOW(), updated_at = NOW()
		WHERE product_id = $2
		RETURNING `+inventoryColumns,
		qty, productID,
	))
	if err != nil {
		return nil, fmt.Errorf("credit inventory for product %d: %w", productID, err)
	}
	return inv, nil
}

// ApplyDecrementTx deducts stock within the caller's TX. The FOR UPDATE lock
// makes the read-validate-write sequence safe against concurrent orders: two
// orders against the same product serialize on the row, so the sum of
// successful deductions can never exceed what was on hand.
func (s *inventoryService) ApplyDecrementTx(ctx context.Context, tx pgx.Tx, productID int, qty int64) (*Inventory, error) {
	if qty <= 0 {
		return nil, fmt.Errorf("decrement quantity must be positive, got %d", qty)
	}

	var sku string
	var onHand int64
	err := tx.QueryRow(ctx, `
		SELECT p.sku, ii.qty_on_hand
		FROM inventory_items ii
		JOIN products p ON p.id = ii.product_id
		WHERE ii.product_id = $1
		FOR UPDATE OF ii`,
		productID,
	).Scan(&sku, &onHand)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			// Never stocked counts as zero on hand.
			skuOnly := ""
			_ = tx.QueryRow(ctx, "SELECT sku FROM products WHERE id = $1", productID).Scan(&skuOnly)
			return nil, &InsufficientStockError{SKU: skuOnly, OnHand: 0, Requested: qty}
		}
		return nil, fmt.Errorf("lock inventory for product %d: %w", productID, err)
	}

	if qty > onHand {
		return nil, &InsufficientStockError{SKU: sku, OnHand: onHand, Requested: qty}
	}

	inv, err := scanInventory(tx.QueryRow(ctx, `
		UPDATE inventory_items
		SET qty_on_hand = qty_on_hand - $1, updated_at = NOW()
		WHERE product_id = $2
		RETURNING `+inventoryColumns,
		qty, productID,
	))
	if err != nil {
		return nil, fmt.Errorf("deduct inventory for product %d: %w", productID, err)
	}
	return inv, nil
}
