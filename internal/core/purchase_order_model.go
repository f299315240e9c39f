package core

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// Purchase order status values.
const (
	POStatusPending   = "PENDING"
	POStatusReceived  = "RECEIVED"
	POStatusCancelled = "CANCELLED"
)

// PurchaseOrder is a purchase order header with its items.
type PurchaseOrder struct {
	ID           int                 `json:"id"`
	PONumber     string              `json:"po_number"`
	VendorID     int                 `json:"vendor_id"`
	VendorCode   string              `json:"vendor_code"`
	VendorName   string              `json:"vendor_name"`
	Status       string              `json:"status"`
	OrderDate    string              `json:"order_date"` // YYYY-MM-DD
	ExpectedDate *string             `json:"expected_date,omitempty"`
	ReceivedDate *time.Time          `json:"received_date,omitempty"`
	Notes        *string             `json:"notes,omitempty"`
	Total        decimal.Decimal     `json:"total"`
	CreatedAt    time.Time           `json:"created_at"`
	Items        []PurchaseOrderItem `json:"items"`
}

// PurchaseOrderItem is one ordered line. Items are treated as immutable once
// the parent PO has been received.
type PurchaseOrderItem struct {
	ID          int             `json:"id"`
	OrderID     int             `json:"order_id"`
	LineNumber  int             `json:"line_number"`
	ProductID   int             `json:"product_id"`
	SKU         string          `json:"sku"`
	ProductName string          `json:"product_name"`
	Quantity    int64           `json:"quantity"`
	UnitCost    decimal.Decimal `json:"unit_cost"`
	LineTotal   decimal.Decimal `json:"line_total"`
}

// POItemInput holds the fields required to create a purchase order line.
type POItemInput struct {
	ProductID int
	Quantity  int64
	UnitCost  decimal.Decimal
}

// ReceiptSummary reports what a successful ReceivePO credited.
type ReceiptSummary struct {
	PONumber      string `json:"po_number"`
	ItemsReceived int    `json:"items_received"`
	UnitsReceived int64  `json:"units_received"`
}

// PurchaseOrderService manages the purchase order lifecycle.
type PurchaseOrderService interface {
	// CreatePO creates a PENDING purchase order, allocating a PO number and
	// computing line totals.
	CreatePO(ctx context.Context, vendorID int, orderDate, expectedDate string, items []POItemInput, notes string) (*PurchaseOrder, error)

	// ReceivePO transitions a PENDING PO to RECEIVED and credits inventory for
	// every item, all inside one transaction: either the status flip and all N
	// inventory updates commit, or none do. Fails with ErrPONotFound or, if the
	// order was already received, ErrPOAlreadyReceived — the idempotency guard
	// that prevents double-crediting inventory.
	ReceivePO(ctx context.Context, poID int) (*ReceiptSummary, error)

	// CancelPO transitions a PENDING PO to CANCELLED.
	CancelPO(ctx context.Context, poID int) (*PurchaseOrder, error)

	GetPO(ctx context.Context, poID int) (*PurchaseOrder, error)

	// GetPOs returns purchase orders, optionally filtered by status
	// (empty string returns all).
	GetPOs(ctx context.Context, status string) ([]PurchaseOrder, error)
}
