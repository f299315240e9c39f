package core

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

type purchaseOrderService struct {
	pool *pgxpool.Pool
	inv  InventoryService
}

// NewPurchaseOrderService constructs a PurchaseOrderService backed by PostgreSQL.
// The inventory service is used TX-scoped during receiving.
func NewPurchaseOrderService(pool *pgxpool.Pool, inv InventoryService) PurchaseOrderService {
	return &purchaseOrderService{pool: pool, inv: inv}
}

// CreatePO creates a new PENDING purchase order with computed line totals.
func (s *purchaseOrderService) CreatePO(ctx context.Context, vendorID int, orderDate, expectedDate string, items []POItemInput, notes string) (*PurchaseOrder, error) {
	if len(items) == 0 {
		return nil, fmt.Errorf("purchase order must have at least one item")
	}
	if orderDate == "" {
		orderDate = time.Now().Format("2006-01-02")
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	var vendorExists bool
	if err := tx.QueryRow(ctx,
		"SELECT EXISTS(SELECT 1 FROM vendors WHERE id = $1 AND is_active = true)", vendorID,
	).Scan(&vendorExists); err != nil {
		return nil, fmt.Errorf("validate vendor: %w", err)
	}
	if !vendorExists {
		return nil, fmt.Errorf("vendor %d not found", vendorID)
	}

	// Resolve items and compute the total.
	type resolvedItem struct {
		productID int
		quantity  int64
		unitCost  decimal.Decimal
		lineTotal decimal.Decimal
	}
	var resolved []resolvedItem
	var total decimal.Decimal

	for i, input := range items {
		if input.Quantity <= 0 {
			return nil, fmt.Errorf("item %d: quantity must be positive", i+1)
		}
		var exists bool
		if err := tx.QueryRow(ctx,
			"SELECT EXISTS(SELECT 1 FROM products WHERE id = $1 AND is_active = true)", input.ProductID,
		).Scan(&exists); err != nil {
			return nil, fmt.Errorf("item %d: resolve product: %w", i+1, err)
		}
		if !exists {
			return nil, fmt.Errorf("item %d: product %d: %w", i+1, input.ProductID, ErrProductNotFound)
		}

		lineTotal := input.UnitCost.Mul(decimal.NewFromInt(input.Quantity))
		total = total.Add(lineTotal)
		resolved = append(resolved, resolvedItem{
			productID: input.ProductID,
			quantity:  input.Quantity,
			unitCost:  input.UnitCost,
			lineTotal: lineTotal,
		})
	}

	poNumber, err := nextOrderNumberTx(ctx, tx, "PO", "purchase_orders", "po_number")
	if err != nil {
		return nil, err
	}

	var toNotes, toExpected *string
	if notes != "" {
		toNotes = &notes
	}
	if expectedDate != "" {
		toExpected = &expectedDate
	}

	var poID int
	if err := tx.QueryRow(ctx, `
		INSERT INTO purchase_orders (po_number, vendor_id, status, order_date, expected_date, notes, total)
		VALUES ($1, $2, 'PENDING', $3, $4, $5, $6)
		RETURNING id`,
		poNumber, vendorID, orderDate, toExpected, toNotes, total,
	).Scan(&poID); err != nil {
		return nil, fmt.Errorf("insert purchase order: %w", err)
	}

	for i, ri := range resolved {
		if _, err := tx.Exec(ctx, `
			INSERT INTO purchase_order_items (order_id, line_number, product_id, quantity, unit_cost, line_total)
			VALUES ($1, $2, $3, $4, $5, $6)`,
			poID, i+1, ri.productID, ri.quantity, ri.unitCost, ri.lineTotal,
		); err != nil {
			return nil, fmt.Errorf("insert PO item %d: %w", i+1, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit purchase order: %w", err)
	}

	return s.GetPO(ctx, poID)
}

// ReceivePO flips the PO to RECEIVED and credits inventory for every item in
// one transaction. The header row lock plus the status guard make the call
// idempotent: a second receive observes RECEIVED and fails without touching
// stock, so inventory is credited exactly once.
func (s *purchaseOrderService) ReceivePO(ctx context.Context, poID int) (*ReceiptSummary, error) {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	var poNumber, status string
	err = tx.QueryRow(ctx,
		"SELECT po_number, status FROM purchase_orders WHERE id = $1 FOR UPDATE", poID,
	).Scan(&poNumber, &status)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("purchase order %d: %w", poID, ErrPONotFound)
		}
		return nil, fmt.Errorf("fetch purchase order %d: %w", poID, err)
	}
	switch status {
	case POStatusReceived:
		return nil, fmt.Errorf("purchase order %s: %w", poNumber, ErrPOAlreadyReceived)
	case POStatusCancelled:
		return nil, fmt.Errorf("purchase order %s: %w", poNumber, ErrPOCancelled)
	}

	// Load items with the product category for first-receipt threshold lookup.
	rows, err := tx.Query(ctx, `
		SELECT poi.product_id, poi.quantity, p.category_code
		FROM purchase_order_items poi
		JOIN products p ON p.id = poi.product_id
		WHERE poi.order_id = $1
		ORDER BY poi.line_number`,
		poID,
	)
	if err != nil {
		return nil, fmt.Errorf("fetch items for PO %d: %w", poID, err)
	}
	type receiptLine struct {
		productID int
		quantity  int64
		category  CategoryCode
	}
	var lines []receiptLine
	for rows.Next() {
		var rl receiptLine
		if err := rows.Scan(&rl.productID, &rl.quantity, &rl.category); err != nil {
			rows.Close()
			return nil, fmt.Errorf("scan PO item: %w", err)
		}
		lines = append(lines, rl)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate PO items: %w", err)
	}

	summary := &ReceiptSummary{PONumber: poNumber}
	for _, rl := range lines {
		if _, err := s.inv.ApplyReceiptTx(ctx, tx, rl.productID, rl.quantity, rl.category); err != nil {
			return nil, fmt.Errorf("credit inventory for product %d on PO %s: %w", rl.productID, poNumber, err)
		}
		summary.ItemsReceived++
		summary.UnitsReceived += rl.quantity
	}

	if _, err := tx.Exec(ctx, `
		UPDATE purchase_orders
		SET status = 'RECEIVED', received_date = NOW()
		WHERE id = $1`,
		poID,
	); err != nil {
		return nil, fmt.Errorf("mark PO %s as RECEIVED: %w", poNumber, err)
	}

	// Single commit: status flip and every inventory credit land together or not at all.
	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit receipt of PO %s: %w", poNumber, err)
	}
	return summary, nil
}

// CancelPO transitions a PENDING PO to CANCELLED.
func (s *purchaseOrderService) CancelPO(ctx context.Context, poID int) (*PurchaseOrder, error) {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	var status string
	err = tx.QueryRow(ctx,
		"SELECT status FROM purchase_orders WHERE id = $1 FOR UPDATE", poID,
	).Scan(&status)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("purchase order %d: %w", poID, ErrPONotFound)
		}
		return nil, fmt.Errorf("fetch purchase order %d: %w", poID, err)
	}
	if status != POStatusPending {
		return nil, fmt.Errorf("purchase order %d cannot be cancelled: status is %s (must be PENDING)", poID, status)
	}

	if _, err := tx.Exec(ctx,
		"UPDATE purchase_orders SET status = 'CANCELLED' WHERE id = $1", poID,
	); err != nil {
		return nil, fmt.Errorf("cancel purchase order %d: %w", poID, err)
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit PO cancellation: %w", err)
	}
	return s.GetPO(ctx, poID)
}

const poColumns = `po.id, po.po_number, po.vendor_id, v.code, v.name,
       po.status, po.order_date::text, po.expected_date::text,
       po.received_date, po.notes, po.total, po.created_at`

// GetPO returns a purchase order by its internal ID, including all items.
func (s *purchaseOrderService) GetPO(ctx context.Context, poID int) (*PurchaseOrder, error) {
	po := &PurchaseOrder{}
	err := s.pool.QueryRow(ctx, `
		SELECT `+poColumns+`
		FROM purchase_orders po
		JOIN vendors v ON v.id = po.vendor_id
		WHERE po.id = $1`,
		poID,
	).Scan(
		&po.ID, &po.PONumber, &po.VendorID, &po.VendorCode, &po.VendorName,
		&po.Status, &po.OrderDate, &po.ExpectedDate,
		&po.ReceivedDate, &po.Notes, &po.Total, &po.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("purchase order %d: %w", poID, ErrPONotFound)
		}
		return nil, fmt.Errorf("get purchase order %d: %w", poID, err)
	}

	items, err := s.fetchItems(ctx, poID)
	if err != nil {
		return nil, err
	}
	po.Items = items
	return po, nil
}

// GetPOs returns purchase orders, optionally filtered by status.
func (s *purchaseOrderService) GetPOs(ctx context.Context, status string) ([]PurchaseOrder, error) {
	query := `
		SELECT ` + poColumns + `
		FROM purchase_orders po
		JOIN vendors v ON v.id = po.vendor_id`
	var args []any
	if status != "" {
		query += " WHERE po.status = $1"
		args = append(args, status)
	}
	query += " ORDER BY po.created_at DESC"

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list purchase orders: %w", err)
	}
	defer rows.Close()

	var orders []PurchaseOrder
	for rows.Next() {
		var po PurchaseOrder
		if err := rows.Scan(
			&po.ID, &po.PONumber, &po.VendorID, &po.VendorCode, &po.VendorName,
			&po.Status, &po.OrderDate, &po.ExpectedDate,
			&po.ReceivedDate, &po.Notes, &po.Total, &po.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan purchase order: %w", err)
		}
		orders = append(orders, po)
	}
	return orders, rows.Err()
}

func (s *purchaseOrderService) fetchItems(ctx context.Context, poID int) ([]PurchaseOrderItem, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT poi.id, poi.order_id, poi.line_number,
		       poi.product_id, p.sku, p.name,
		       poi.quantity, poi.unit_cost, poi.line_total
		FROM purchase_order_items poi
		JOIN products p ON p.id = poi.product_id
		WHERE poi.order_id = $1
		ORDER BY poi.line_number`,
		poID,
	)
	if err != nil {
		return nil, fmt.Errorf("fetch items for PO %d: %w", poID, err)
	}
	defer rows.Close()

	var items []PurchaseOrderItem
	for rows.Next() {
		var it PurchaseOrderItem
		if err := rows.Scan(
			&it.ID, &it.OrderID, &it.LineNumber,
			&it.ProductID, &it.SKU, &it.ProductName,
			&it.Quantity, &it.UnitCost, &it.LineTotal,
		); err != nil {
			return nil, fmt.Errorf("scan PO item: %w", err)
		}
		items = append(items, it)
	}
	return items, rows.Err()
}
