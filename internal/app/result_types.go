package app

import "warehouse-backend/internal/core"

// ProductResult is returned by product operations.
type ProductResult struct {
	Product *core.Product
}

// ProductListResult is returned by ListProducts.
type ProductListResult struct {
	Products []core.Product
}

// ChangeLogResult is returned by GetProductChangeLog.
type ChangeLogResult struct {
	ProductID int
	Entries   []core.ProductChangeLog
}

// StockResult is returned by GetStockLevels and GetLowStock.
type StockResult struct {
	Levels []core.StockLevel
}

// VendorResult is returned by CreateVendor.
type VendorResult struct {
	Vendor *core.Vendor
}

// VendorListResult is returned by ListVendors.
type VendorListResult struct {
	Vendors []core.Vendor
}

// PurchaseOrderResult is returned by purchase order lifecycle operations.
type PurchaseOrderResult struct {
	Order *core.PurchaseOrder
}

// PurchaseOrderListResult is returned by ListPurchaseOrders.
type PurchaseOrderListResult struct {
	Orders []core.PurchaseOrder
}

// ReceiptResult is returned by ReceivePurchaseOrder.
type ReceiptResult struct {
	Summary *core.ReceiptSummary
}

// CustomerResult is returned by customer operations.
type CustomerResult struct {
	Customer *core.Customer
}

// CustomerListResult is returned by ListCustomers.
type CustomerListResult struct {
	Customers []core.Customer
}

// PaymentResult is returned by RecordPayment.
type PaymentResult struct {
	Payment *core.Payment
}

// PaymentListResult is returned by ListPayments.
type PaymentListResult struct {
	CustomerID int
	Payments   []core.Payment
}

// SalesOrderResult is returned by sales order operations.
type SalesOrderResult struct {
	Order *core.SalesOrder
}

// SalesOrderListResult is returned by ListSalesOrders.
type SalesOrderListResult struct {
	Orders []core.SalesOrder
}

// AssistantResult is returned by AskAssistant.
type AssistantResult struct {
	Answer    string
	ToolCalls []string // names of the read tools the agent invoked
}

// ToolInfo describes one assistant read tool for API listing.
type ToolInfo struct {
	Name        string         `json:"name"`
	Description string         `json:"description"`
	InputSchema map[string]any `json:"input_schema"`
}
