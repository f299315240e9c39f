package app

import "github.com/shopspring/decimal"

// CreateProductRequest is the input for creating a catalog item.
// FloorPrice zero means derive it from cost.
type CreateProductRequest struct {
	SKU          string
	Name         string
	Description  string
	CategoryCode string
	Subcategory  string
	Brand        string
	Unit         string
	Cost         decimal.Decimal
	RetailPrice  decimal.Decimal
	FloorPrice   decimal.Decimal
}

// UpdateProductRequest carries a partial product update. Nil fields are left
// unchanged.
type UpdateProductRequest struct {
	Name        *string
	Description *string
	Cost        *decimal.Decimal
	RetailPrice *decimal.Decimal
	FloorPrice  *decimal.Decimal
	IsActive    *bool
}

// CreateVendorRequest is the input for creating a vendor.
type CreateVendorRequest struct {
	Code          string
	Name          string
	ContactPerson string
	Email         string
	Phone         string
	Address       string
}

// CreateCustomerRequest is the input for creating a customer.
type CreateCustomerRequest struct {
	Code        string
	Name        string
	Email       string
	Phone       string
	Address     string
	GroupTag    string
	CreditLimit decimal.Decimal
}

// CreatePORequest is the input for creating a purchase order.
type CreatePORequest struct {
	VendorID     int
	OrderDate    string // YYYY-MM-DD, empty means today
	ExpectedDate string
	Notes        string
	Lines        []POLineInput
}

// POLineInput is a single line within a CreatePORequest.
type POLineInput struct {
	ProductID int
	Quantity  int64
	UnitCost  decimal.Decimal
}

// CreateSalesOrderRequest is the input for fulfilling a sales order.
type CreateSalesOrderRequest struct {
	CustomerID int
	Notes      string
	Lines      []SOLineInput
}

// SOLineInput is a single line within a CreateSalesOrderRequest.
type SOLineInput struct {
	ProductID int
	Quantity  int64
	UnitPrice decimal.Decimal
}

// RecordPaymentRequest is the input for recording a customer payment.
type RecordPaymentRequest struct {
	CustomerID  int
	Amount      decimal.Decimal
	PaymentDate string // YYYY-MM-DD, empty means today
	Method      string // empty means "cash"
}
