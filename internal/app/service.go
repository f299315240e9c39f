package app

import (
	"context"

	"warehouse-backend/internal/core"
)

// ApplicationService is the single interface all adapters (Web, CLI, assistant
// tools) call. It decouples presentation from business logic. Implementations
// must contain no display logic of any kind.
type ApplicationService interface {
	// ── Catalog ──────────────────────────────────────────────────────────────

	// CreateProduct adds a catalog item, deriving the floor price from cost
	// when none is given, and writes the initial change log entry.
	CreateProduct(ctx context.Context, req CreateProductRequest) (*ProductResult, error)

	// UpdateProduct applies a partial update and records exactly one change
	// log entry classified by what moved.
	UpdateProduct(ctx context.Context, productID int, req UpdateProductRequest) (*ProductResult, error)

	// GetProduct returns a product by numeric ID or SKU.
	GetProduct(ctx context.Context, ref string) (*ProductResult, error)

	// ListProducts returns active products, optionally filtered by category.
	ListProducts(ctx context.Context, category string) (*ProductListResult, error)

	// GetProductChangeLog returns a product's audit trail, newest first.
	GetProductChangeLog(ctx context.Context, productID int) (*ChangeLogResult, error)

	// RecomputeFloorPrices resets every active product's floor price from its
	// current cost and returns the number of products touched.
	RecomputeFloorPrices(ctx context.Context) (int64, error)

	// ── Inventory ────────────────────────────────────────────────────────────

	// GetStockLevels returns current stock for all stocked products.
	GetStockLevels(ctx context.Context) (*StockResult, error)

	// GetLowStock returns products at or below their reorder level.
	GetLowStock(ctx context.Context) (*StockResult, error)

	// ── Vendors ──────────────────────────────────────────────────────────────

	ListVendors(ctx context.Context) (*VendorListResult, error)
	CreateVendor(ctx context.Context, req CreateVendorRequest) (*VendorResult, error)

	// ── Purchase orders ──────────────────────────────────────────────────────

	// CreatePurchaseOrder creates a PENDING PO with an allocated PO number.
	CreatePurchaseOrder(ctx context.Context, req CreatePORequest) (*PurchaseOrderResult, error)

	// ReceivePurchaseOrder marks a PENDING PO received and credits inventory
	// for every item atomically. A second call fails without re-crediting.
	ReceivePurchaseOrder(ctx context.Context, poID int) (*ReceiptResult, error)

	// CancelPurchaseOrder transitions a PENDING PO to CANCELLED.
	CancelPurchaseOrder(ctx context.Context, poID int) (*PurchaseOrderResult, error)

	GetPurchaseOrder(ctx context.Context, poID int) (*PurchaseOrderResult, error)
	ListPurchaseOrders(ctx context.Context, status string) (*PurchaseOrderListResult, error)

	// ── Customers and payments ───────────────────────────────────────────────

	ListCustomers(ctx context.Context) (*CustomerListResult, error)
	CreateCustomer(ctx context.Context, req CreateCustomerRequest) (*CustomerResult, error)
	GetCustomer(ctx context.Context, customerID int) (*CustomerResult, error)

	// RecordPayment inserts a payment and reduces the customer's balance
	// atomically.
	RecordPayment(ctx context.Context, req RecordPaymentRequest) (*PaymentResult, error)
	ListPayments(ctx context.Context, customerID int) (*PaymentListResult, error)

	// ── Sales orders ─────────────────────────────────────────────────────────

	// CreateSalesOrder fulfills an order in one transaction: stock, floor
	// price, and credit checks all pass or the whole order is rejected.
	CreateSalesOrder(ctx context.Context, req CreateSalesOrderRequest) (*SalesOrderResult, error)

	// GetSalesOrder returns an order by numeric ID or SO number.
	GetSalesOrder(ctx context.Context, ref string) (*SalesOrderResult, error)

	// ListSalesOrders returns orders, optionally filtered by customer (0 = all).
	ListSalesOrders(ctx context.Context, customerID int) (*SalesOrderListResult, error)

	// ── Reports ──────────────────────────────────────────────────────────────

	GetInventoryValuation(ctx context.Context) (*core.ValuationReport, error)
	GetSalesSummary(ctx context.Context, fromDate, toDate string) ([]core.CustomerSalesSummary, error)
	GetRecentPriceChanges(ctx context.Context, limit int) ([]core.PriceChangeEntry, error)

	// ── Assistant ────────────────────────────────────────────────────────────

	// AskAssistant answers a natural language question about the warehouse by
	// letting the agent call read tools autonomously.
	AskAssistant(ctx context.Context, question string) (*AssistantResult, error)

	// ListTools returns the assistant's read tools.
	ListTools() []ToolInfo

	// ExecuteTool runs a single read tool directly and returns its
	// JSON-encoded result.
	ExecuteTool(ctx context.Context, name string, args map[string]any) (string, error)
}
