package core

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

// ── Report types ──────────────────────────────────────────────────────────────

// ValuationLine is one product's stock position priced at cost and at retail.
type ValuationLine struct {
	ProductID   int             `json:"product_id"`
	SKU         string          `json:"sku"`
	ProductName string          `json:"product_name"`
	QtyOnHand   int64           `json:"qty_on_hand"`
	UnitCost    decimal.Decimal `json:"unit_cost"`
	CostValue   decimal.Decimal `json:"cost_value"`
	RetailValue decimal.Decimal `json:"retail_value"`
}

// ValuationReport is the inventory valued at cost and at retail across all
// stocked products.
type ValuationReport struct {
	Lines            []ValuationLine `json:"lines"`
	TotalCostValue   decimal.Decimal `json:"total_cost_value"`
	TotalRetailValue decimal.Decimal `json:"total_retail_value"`
	PotentialMargin  decimal.Decimal `json:"potential_margin"` // percent
}

// CustomerSalesSummary aggregates a customer's fulfilled orders in a period.
type CustomerSalesSummary struct {
	CustomerID   int             `json:"customer_id"`
	CustomerCode string          `json:"customer_code"`
	CustomerName string          `json:"customer_name"`
	OrderCount   int             `json:"order_count"`
	UnitsSold    int64           `json:"units_sold"`
	Revenue      decimal.Decimal `json:"revenue"`
	Balance      decimal.Decimal `json:"balance"`
}

// PriceChangeEntry is one change log row joined with product identity, for the
// recent-changes feed.
type PriceChangeEntry struct {
	ProductID   int              `json:"product_id"`
	SKU         string           `json:"sku"`
	ProductName string           `json:"product_name"`
	ChangeType  ChangeType       `json:"change_type"`
	OldRetail   *decimal.Decimal `json:"old_retail,omitempty"`
	NewRetail   *decimal.Decimal `json:"new_retail,omitempty"`
	OldCost     *decimal.Decimal `json:"old_cost,omitempty"`
	NewCost     *decimal.Decimal `json:"new_cost,omitempty"`
	OldMargin   *decimal.Decimal `json:"old_margin,omitempty"`
	NewMargin   *decimal.Decimal `json:"new_margin,omitempty"`
	CreatedAt   time.Time        `json:"created_at"`
}

// ── Interface ─────────────────────────────────────────────────────────────────

// ReportingService provides read-only reporting queries over inventory, sales,
// and the product audit trail.
type ReportingService interface {
	// GetInventoryValuation values current stock at cost and at retail,
	// ordered by cost value descending.
	GetInventoryValuation(ctx context.Context) (*ValuationReport, error)

	// GetSalesSummary aggregates fulfilled orders per customer within the given
	// date range. fromDate and toDate are optional, pass empty string for no
	// bound. Customers with no orders in the range are omitted.
	GetSalesSummary(ctx context.Context, fromDate, toDate string) ([]CustomerSalesSummary, error)

	// GetRecentPriceChanges returns the newest change log entries across all
	// products, capped at limit (default 50 when limit <= 0).
	GetRecentPriceChanges(ctx context.Context, limit int) ([]PriceChangeEntry, error)
}

// ── Implementation ────────────────────────────────────────────────────────────

type reportingService struct {
	pool *pgxpool.Pool
}

// NewReportingService constructs a ReportingService backed by the given pool.
func NewReportingService(pool *pgxpool.Pool) ReportingService {
	return &reportingService{pool: pool}
}

func (s *reportingService) GetInventoryValuation(ctx context.Context) (*ValuationReport, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT p.id, p.sku, p.name, ii.qty_on_hand, p.cost,
		       ROUND(ii.qty_on_hand * p.cost, 2)         AS cost_value,
		       ROUND(ii.qty_on_hand * p.retail_price, 2) AS retail_value
		FROM inventory_items ii
		JOIN products p ON p.id = ii.product_id
		WHERE p.is_active = true
		ORDER BY cost_value DESC, p.sku`,
	)
	if err != nil {
		return nil, fmt.Errorf("query inventory valuation: %w", err)
	}
	defer rows.Close()

	report := &ValuationReport{}
	for rows.Next() {
		var vl ValuationLine
		if err := rows.Scan(&vl.ProductID, &vl.SKU, &vl.ProductName,
			&vl.QtyOnHand, &vl.UnitCost, &vl.CostValue, &vl.RetailValue); err != nil {
			return nil, fmt.Errorf("scan valuation line: %w", err)
		}
		report.Lines = append(report.Lines, vl)
		report.TotalCostValue = report.TotalCostValue.Add(vl.CostValue)
		report.TotalRetailValue = report.TotalRetailValue.Add(vl.RetailValue)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("valuation row iteration error: %w", err)
	}

	report.PotentialMargin = Margin(report.TotalCostValue, report.TotalRetailValue)
	return report, nil
}

func (s *reportingService) GetSalesSummary(ctx context.Context, fromDate, toDate string) ([]CustomerSalesSummary, error) {
	q := `
		SELECT c.id, c.code, c.name,
		       COUNT(DISTINCT so.id)       AS order_count,
		       COALESCE(SUM(soi.quantity), 0) AS units_sold,
		       COALESCE(SUM(soi.line_total), 0) AS revenue,
		       c.current_balance
		FROM customers c
		JOIN sales_orders so       ON so.customer_id = c.id
		JOIN sales_order_items soi ON soi.order_id = so.id`

	var args []any
	where := ""
	if fromDate != "" {
		args = append(args, fromDate)
		where += fmt.Sprintf(" AND so.order_date >= $%d::date", len(args))
	}
	if toDate != "" {
		args = append(args, toDate)
		where += fmt.Sprintf(" AND so.order_date <= $%d::date", len(args))
	}
	if where != "" {
		q += " WHERE true" + where
	}
	q += `
		GROUP BY c.id, c.code, c.name, c.current_balance
		ORDER BY revenue DESC, c.code`

	rows, err := s.pool.Query(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("query sales summary: %w", err)
	}
	defer rows.Close()

	var summaries []CustomerSalesSummary
	for rows.Next() {
		var cs CustomerSalesSummary
		if err := rows.Scan(&cs.CustomerID, &cs.CustomerCode, &cs.CustomerName,
			&cs.OrderCount, &cs.UnitsSold, &cs.Revenue, &cs.Balance); err != nil {
			return nil, fmt.Errorf("scan sales summary row: %w", err)
		}
		summaries = append(summaries, cs)
	}
	return summaries, rows.Err()
}

func (s *reportingService) GetRecentPriceChanges(ctx context.Context, limit int) ([]PriceChangeEntry, error) {
	if limit <= 0 {
		limit = 50
	}

	rows, err := s.pool.Query(ctx, `
		SELECT p.id, p.sku, p.name, cl.change_type,
		       cl.old_retail, cl.new_retail, cl.old_cost, cl.new_cost,
		       cl.old_margin, cl.new_margin, cl.created_at
		FROM product_change_logs cl
		JOIN products p ON p.id = cl.product_id
		ORDER BY cl.created_at DESC, cl.id DESC
		LIMIT $1`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("query recent price changes: %w", err)
	}
	defer rows.Close()

	var entries []PriceChangeEntry
	for rows.Next() {
		var e PriceChangeEntry
		if err := rows.Scan(&e.ProductID, &e.SKU, &e.ProductName, &e.ChangeType,
			&e.OldRetail, &e.NewRetail, &e.OldCost, &e.NewCost,
			&e.OldMargin, &e.NewMargin, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan price change entry: %w", err)
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}
