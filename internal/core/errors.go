package core

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// Sentinel errors for lookup and state-transition failures.
var (
	ErrPONotFound        = errors.New("purchase order not found")
	ErrPOAlreadyReceived = errors.New("purchase order already received")
	ErrPOCancelled       = errors.New("purchase order is cancelled")
	ErrProductNotFound   = errors.New("product not found")
	ErrCustomerNotFound  = errors.New("customer not found")
	ErrVendorNotFound    = errors.New("vendor not found")
)

// InsufficientStockError rejects a fulfillment that would drive a product's
// on-hand quantity negative.
type InsufficientStockError struct {
	SKU       string
	OnHand    int64
	Requested int64
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock for %s: %d on hand, %d requested", e.SKU, e.OnHand, e.Requested)
}

// BelowFloorPriceError rejects a sale line priced under the product's floor.
type BelowFloorPriceError struct {
	SKU        string
	FloorPrice decimal.Decimal
	UnitPrice  decimal.Decimal
}

func (e *BelowFloorPriceError) Error() string {
	return fmt.Sprintf("unit price %s for %s is below floor price %s", e.UnitPrice, e.SKU, e.FloorPrice)
}

// CreditLimitExceededError rejects an order that would push the customer's
// balance past their credit limit.
type CreditLimitExceededError struct {
	CustomerCode string
	CreditLimit  decimal.Decimal
	WouldBe      decimal.Decimal
}

func (e *CreditLimitExceededError) Error() string {
	return fmt.Sprintf("order would bring customer %s balance to %s, over credit limit %s", e.CustomerCode, e.WouldBe, e.CreditLimit)
}

// IsValidation reports whether err is a caller fault rather than an internal
// failure. The web layer maps these to 4xx responses.
func IsValidation(err error) bool {
	if errors.Is(err, ErrPONotFound) ||
		errors.Is(err, ErrPOAlreadyReceived) ||
		errors.Is(err, ErrPOCancelled) ||
		errors.Is(err, ErrProductNotFound) ||
		errors.Is(err, ErrCustomerNotFound) ||
		errors.Is(err, ErrVendorNotFound) {
		return true
	}
	var stockErr *InsufficientStockError
	var floorErr *BelowFloorPriceError
	var creditErr *CreditLimitExceededError
	return errors.As(err, &stockErr) || errors.As(err, &floorErr) || errors.As(err, &creditErr)
}
