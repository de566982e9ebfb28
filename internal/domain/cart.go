package domain

import "github.com/shopspring/decimal"

// CartLine is one line of the in-progress selection, at most one per menu
// item. UnitPrice is captured when the line is created so later catalog price
// changes do not affect an open cart.
type CartLine struct {
	ItemID    string          `json:"itemId"`
	Name      string          `json:"name"`
	UnitPrice decimal.Decimal `json:"unitPrice"`
	Quantity  int             `json:"quantity"`
	Date      string          `json:"date"`
	MealType  MealType        `json:"mealType"`
}

// LineTotal returns quantity times captured unit price.
func (l CartLine) LineTotal() decimal.Decimal {
	return l.UnitPrice.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

// BookingSummary is the derived subtotal/tax/total projection of a cart.
// Recomputed on every mutation, never stored.
type BookingSummary struct {
	Subtotal decimal.Decimal `json:"subtotal"`
	Tax      decimal.Decimal `json:"tax"`
	Total    decimal.Decimal `json:"total"`
}
