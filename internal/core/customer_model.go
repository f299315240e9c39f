package core

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// Customer represents a buyer with a running credit position. CurrentBalance
// is the sum of fulfilled-order totals minus recorded payments.
type Customer struct {
	ID             int             `json:"id"`
	Code           string          `json:"code"`
	Name           string          `json:"name"`
	Email          *string         `json:"email,omitempty"`
	Phone          *string         `json:"phone,omitempty"`
	Address        *string         `json:"address,omitempty"`
	GroupTag       *string         `json:"group_tag,omitempty"`
	Status         string          `json:"status"`
	CreditLimit    decimal.Decimal `json:"credit_limit"`
	CurrentBalance decimal.Decimal `json:"current_balance"`
	CreatedAt      time.Time       `json:"created_at"`
}

// CustomerInput holds the fields required to create a customer.
type CustomerInput struct {
	Code        string
	Name        string
	Email       string
	Phone       string
	Address     string
	GroupTag    string
	CreditLimit decimal.Decimal
}

// Payment is one recorded customer payment.
type Payment struct {
	ID          int             `json:"id"`
	CustomerID  int             `json:"customer_id"`
	Amount      decimal.Decimal `json:"amount"`
	PaymentDate string          `json:"payment_date"` // YYYY-MM-DD
	Method      string          `json:"method"`
	CreatedAt   time.Time       `json:"created_at"`
}

// CustomerService provides customer master data and payment operations.
type CustomerService interface {
	CreateCustomer(ctx context.Context, input CustomerInput) (*Customer, error)
	GetCustomer(ctx context.Context, customerID int) (*Customer, error)
	GetCustomerByCode(ctx context.Context, code string) (*Customer, error)
	GetCustomers(ctx context.Context) ([]Customer, error)

	// GetBalance returns the customer's current outstanding balance.
	GetBalance(ctx context.Context, customerID int) (decimal.Decimal, error)

	// RecordPayment inserts the payment and decrements the customer's
	// current_balance by the same amount in one transaction. The two writes
	// are never allowed to diverge.
	RecordPayment(ctx context.Context, customerID int, amount decimal.Decimal, paymentDate, method string) (*Payment, error)

	// GetPayments returns a customer's payments, newest first.
	GetPayments(ctx context.Context, customerID int) ([]Payment, error)
}
