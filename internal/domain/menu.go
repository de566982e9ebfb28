package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Availability describes whether a menu item can currently be booked.
type Availability string

const (
	AvailabilityAvailable   Availability = "available"
	AvailabilityLimited     Availability = "limited"
	AvailabilityUnavailable Availability = "unavailable"
)

// Valid reports whether a is one of the known availability states.
func (a Availability) Valid() bool {
	switch a {
	case AvailabilityAvailable, AvailabilityLimited, AvailabilityUnavailable:
		return true
	}
	return false
}

// MenuItem is one offering on the mess menu. Immutable from the cart's
// perspective; the catalog owns it.
type MenuItem struct {
	ID           string          `json:"id"`
	MealType     MealType        `json:"mealType"`
	Name         string          `json:"name"`
	Description  string          `json:"description,omitempty"`
	TimeWindow   string          `json:"time,omitempty"`
	Price        decimal.Decimal `json:"price"`
	Availability Availability    `json:"availability"`
	CreatedAt    time.Time       `json:"createdAt"`
}
