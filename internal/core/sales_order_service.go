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

type salesOrderService struct {
	pool   *pgxpool.Pool
	inv    InventoryService
	policy SalesPolicy
}

// NewSalesOrderService constructs a SalesOrderService backed by PostgreSQL.
// The inventory service is used TX-scoped during fulfillment.
func NewSalesOrderService(pool *pgxpool.Pool, inv InventoryService, policy SalesPolicy) SalesOrderService {
	return &salesOrderService{pool: pool, inv: inv, policy: policy}
}

// CreateSalesOrder runs the whole fulfillment in one transaction. Lock order:
// customer row first, then inventory rows in line order. The customer lock
// serializes concurrent orders for the same customer so the credit check and
// the balance increment cannot interleave; the inventory locks do the same for
// stock per product.
func (s *salesOrderService) CreateSalesOrder(ctx context.Context, customerID int, items []SOItemInput, notes string) (*SalesOrder, error) {
	if len(items) == 0 {
		return nil, fmt.Errorf("sales order must have at least one item")
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	var customerCode string
	var creditLimit, currentBalance decimal.Decimal
	err = tx.QueryRow(ctx,
		"SELECT code, credit_limit, current_balance FROM customers WHERE id = $1 FOR UPDATE",
		customerID,
	).Scan(&customerCode, &creditLimit, &currentBalance)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("customer %d: %w", customerID, ErrCustomerNotFound)
		}
		return nil, fmt.Errorf("lock customer %d: %w", customerID, err)
	}

	// Resolve products, enforce floor prices, and compute totals before
	// touching inventory.
	type resolvedItem struct {
		productID int
		sku       string
		quantity  int64
		unitPrice decimal.Decimal
		lineTotal decimal.Decimal
	}
	var resolved []resolvedItem
	var subtotal decimal.Decimal

	for i, input := range items {
		if input.Quantity <= 0 {
			return nil, fmt.Errorf("item %d: quantity must be positive", i+1)
		}

		var sku string
		var floorPrice decimal.Decimal
		err := tx.QueryRow(ctx,
			"SELECT sku, floor_price FROM products WHERE id = $1 AND is_active = true",
			input.ProductID,
		).Scan(&sku, &floorPrice)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return nil, fmt.Errorf("item %d: product %d: %w", i+1, input.ProductID, ErrProductNotFound)
			}
			return nil, fmt.Errorf("item %d: resolve product: %w", i+1, err)
		}

		if input.UnitPrice.LessThan(floorPrice) {
			return nil, &BelowFloorPriceError{SKU: sku, FloorPrice: floorPrice, UnitPrice: input.UnitPrice}
		}

		lineTotal := input.UnitPrice.Mul(decimal.NewFromInt(input.Quantity))
		subtotal = subtotal.Add(lineTotal)
		resolved = append(resolved, resolvedItem{
			productID: input.ProductID,
			sku:       sku,
			quantity:  input.Quantity,
			unitPrice: input.UnitPrice,
			lineTotal: lineTotal,
		})
	}

	// No tax or shipping layer: total = subtotal.
	total := subtotal

	if s.policy.EnforceCreditLimit {
		wouldBe := currentBalance.Add(total)
		if wouldBe.GreaterThan(creditLimit) {
			return nil, &CreditLimitExceededError{
				CustomerCode: customerCode,
				CreditLimit:  creditLimit,
				WouldBe:      wouldBe,
			}
		}
	}

	// Deduct stock. Any InsufficientStockError aborts the whole order.
	for _, ri := range resolved {
		if _, err := s.inv.ApplyDecrementTx(ctx, tx, ri.productID, ri.quantity); err != nil {
			return nil, err
		}
	}

	soNumber, err := nextOrderNumberTx(ctx, tx, "SO", "sales_orders", "so_number")
	if err != nil {
		return nil, err
	}

	var toNotes *string
	if notes != "" {
		toNotes = &notes
	}
	orderDate := time.Now().Format("2006-01-02")

	var orderID int
	err = tx.QueryRow(ctx, `
		INSERT INTO sales_orders (so_number, customer_id, status, order_date, subtotal, total, notes)
		VALUES ($1, $2, 'FULFILLED', $3, $4, $5, $6)
		RETURNING id`,
		soNumber, customerID, orderDate, subtotal, total, toNotes,
	).Scan(&orderID)
	if err != nil {
		return nil, fmt.Errorf("insert sales order: %w", err)
	}

	for i, ri := range resolved {
		if _, err := tx.Exec(ctx, `
			INSERT INTO sales_order_items (order_id, line_number, product_id, quantity, unit_price, line_total)
			VALUES ($1, $2, $3, $4, $5, $6)`,
			orderID, i+1, ri.productID, ri.quantity, ri.unitPrice, ri.lineTotal,
		); err != nil {
			return nil, fmt.Errorf("insert order item %d: %w", i+1, err)
		}
	}

	if _, err := tx.Exec(ctx,
		"UPDATE customers SET current_balance = current_balance + $1 WHERE id = $2",
		total, customerID,
	); err != nil {
		return nil, fmt.Errorf("increment balance for customer %d: %w", customerID, err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit sales order: %w", err)
	}

	return s.GetOrder(ctx, orderID)
}

const soColumns = `so.id, so.so_number, so.customer_id, c.code, c.name,
       so.status, so.order_date::text, so.subtotal, so.total, so.notes, so.created_at`

func (s *salesOrderService) GetOrder(ctx context.Context, orderID int) (*SalesOrder, error) {
	o := &SalesOrder{}
	err := s.pool.QueryRow(ctx, `
		SELECT `+soColumns+`
		FROM sales_orders so
		JOIN customers c ON c.id = so.customer_id
		WHERE so.id = $1`,
		orderID,
	).Scan(
		&o.ID, &o.SONumber, &o.CustomerID, &o.CustomerCode, &o.CustomerName,
		&o.Status, &o.OrderDate, &o.Subtotal, &o.Total, &o.Notes, &o.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("sales order %d not found", orderID)
		}
		return nil, fmt.Errorf("get sales order %d: %w", orderID, err)
	}

	items, err := s.fetchItems(ctx, orderID)
	if err != nil {
		return nil, err
	}
	o.Items = items
	return o, nil
}

func (s *salesOrderService) GetOrderBySONumber(ctx context.Context, soNumber string) (*SalesOrder, error) {
	var orderID int
	err := s.pool.QueryRow(ctx,
		"SELECT id FROM sales_orders WHERE so_number = $1", soNumber,
	).Scan(&orderID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("sales order %s not found", soNumber)
		}
		return nil, fmt.Errorf("lookup sales order %s: %w", soNumber, err)
	}
	return s.GetOrder(ctx, orderID)
}

func (s *salesOrderService) GetOrders(ctx context.Context, customerID int) ([]SalesOrder, error) {
	query := `
		SELECT ` + soColumns + `
		FROM sales_orders so
		JOIN customers c ON c.id = so.customer_id`
	var args []any
	if customerID != 0 {
		query += " WHERE so.customer_id = $1"
		args = append(args, customerID)
	}
	query += " ORDER BY so.id DESC"

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query sales orders: %w", err)
	}
	defer rows.Close()

	var orders []SalesOrder
	for rows.Next() {
		var o SalesOrder
		if err := rows.Scan(
			&o.ID, &o.SONumber, &o.CustomerID, &o.CustomerCode, &o.CustomerName,
			&o.Status, &o.OrderDate, &o.Subtotal, &o.Total, &o.Notes, &o.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan sales order: %w", err)
		}
		orders = append(orders, o)
	}
	return orders, rows.Err()
}

func (s *salesOrderService) fetchItems(ctx context.Context, orderID int) ([]SalesOrderItem, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT soi.id, soi.order_id, soi.line_number,
		       soi.product_id, p.sku, p.name,
		       soi.quantity, soi.unit_price, soi.line_total
		FROM sales_order_items soi
		JOIN products p ON p.id = soi.product_id
		WHERE soi.order_id = $1
		ORDER BY soi.line_number`,
		orderID,
	)
	if err != nil {
		return nil, fmt.Errorf("fetch items for order %d: %w", orderID, err)
	}
	defer rows.Close()

	var items []SalesOrderItem
	for rows.Next() {
		var it SalesOrderItem
		if err := rows.Scan(
			&it.ID, &it.OrderID, &it.LineNumber,
			&it.ProductID, &it.SKU, &it.ProductName,
			&it.Quantity, &it.UnitPrice, &it.LineTotal,
		); err != nil {
			return nil, fmt.Errorf("scan order item: %w", err)
		}
		items = append(items, it)
	}
	return items, rows.Err()
}
