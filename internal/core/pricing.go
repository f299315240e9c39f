package core

import "github.com/shopspring/decimal"

// floorMarkup is the minimum markup over cost a sale price may carry: floor
// price = cost * 1.15.
var floorMarkup = decimal.NewFromFloat(1.15)

var hundred = decimal.NewFromInt(100)

// Margin returns the gross margin percentage (retail - cost) / retail * 100,
// rounded to two places. A zero retail price yields 0 rather than dividing.
func Margin(cost, retail decimal.Decimal) decimal.Decimal {
	if retail.IsZero() {
		return decimal.Zero
	}
	return retail.Sub(cost).Div(retail).Mul(hundred).Round(2)
}

// Markup returns the markup percentage (retail - cost) / cost * 100, rounded
// to two places. A zero cost yields 0.
func Markup(cost, retail decimal.Decimal) decimal.Decimal {
	if cost.IsZero() {
		return decimal.Zero
	}
	return retail.Sub(cost).Div(cost).Mul(hundred).Round(2)
}

// DefaultFloorPrice returns cost * 1.15 rounded to cents.
func DefaultFloorPrice(cost decimal.Decimal) decimal.Decimal {
	return cost.Mul(floorMarkup).Round(2)
}

// PriceState is the before/after snapshot ClassifyChange compares.
type PriceState struct {
	Cost        decimal.Decimal
	Retail      decimal.Decimal
	Description string
}

// ClassifyChange labels a product update with exactly one change type.
// Precedence when several fields moved at once: retail price movement wins,
// then cost, then description, then the generic bucket.
func ClassifyChange(old, new PriceState) ChangeType {
	switch {
	case new.Retail.GreaterThan(old.Retail):
		return ChangePriceIncrease
	case new.Retail.LessThan(old.Retail):
		return ChangePriceDecrease
	case !new.Cost.Equal(old.Cost):
		return ChangeCostChange
	case new.Description != old.Description:
		return ChangeDescriptionUpdate
	default:
		return ChangeUpdated
	}
}
