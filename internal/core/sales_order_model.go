package core

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// SOStatusFulfilled is the only sales order status: orders are created
// fulfilled, with stock deducted and the customer balance updated in the same
// transaction. There is no partial-fulfillment state machine.
const SOStatusFulfilled = "FULFILLED"

// SalesOrder is a fulfilled customer order with its line items.
type SalesOrder struct {
	ID           int              `json:"id"`
	SONumber     string           `json:"so_number"`
	CustomerID   int              `json:"customer_id"`
	CustomerCode string           `json:"customer_code"`
	CustomerName string           `json:"customer_name"`
	Status       string           `json:"status"`
	OrderDate    string           `json:"order_date"` // YYYY-MM-DD
	Subtotal     decimal.Decimal  `json:"subtotal"`
	Total        decimal.Decimal  `json:"total"`
	Notes        *string          `json:"notes,omitempty"`
	CreatedAt    time.Time        `json:"created_at"`
	Items        []SalesOrderItem `json:"items"`
}

// SalesOrderItem is one line on a sales order. LineTotal = Quantity × UnitPrice.
type SalesOrderItem struct {
	ID          int             `json:"id"`
	OrderID     int             `json:"order_id"`
	LineNumber  int             `json:"line_number"`
	ProductID   int             `json:"product_id"`
	SKU         string          `json:"sku"`
	ProductName string          `json:"product_name"`
	Quantity    int64           `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	LineTotal   decimal.Decimal `json:"line_total"`
}

// SOItemInput holds one requested order line. The unit price is supplied by
// the caller but must not undercut the product's floor price.
type SOItemInput struct {
	ProductID int
	Quantity  int64
	UnitPrice decimal.Decimal
}

// SalesPolicy configures fulfillment guards. Floor-price enforcement is not
// configurable: it is always on.
type SalesPolicy struct {
	EnforceCreditLimit bool
}

// DefaultSalesPolicy rejects orders that would push a customer past their
// credit limit.
var DefaultSalesPolicy = SalesPolicy{EnforceCreditLimit: true}

// SalesOrderService is the sales fulfillment workflow.
type SalesOrderService interface {
	// CreateSalesOrder validates stock, floor prices, and credit, then inserts
	// the order and items, decrements inventory, and increments the customer's
	// balance — all in one transaction. Any validation failure rejects the
	// entire order; there is no partial fulfillment. Validation errors:
	// ErrCustomerNotFound, ErrProductNotFound, *InsufficientStockError,
	// *BelowFloorPriceError, *CreditLimitExceededError.
	CreateSalesOrder(ctx context.Context, customerID int, items []SOItemInput, notes string) (*SalesOrder, error)

	GetOrder(ctx context.Context, orderID int) (*SalesOrder, error)
	GetOrderBySONumber(ctx context.Context, soNumber string) (*SalesOrder, error)

	// GetOrders returns sales orders, optionally filtered by customer
	// (customerID = 0 returns all).
	GetOrders(ctx context.Context, customerID int) ([]SalesOrder, error)
}
