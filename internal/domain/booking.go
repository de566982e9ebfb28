package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// BookingStatus is the lifecycle state of a persisted booking.
type BookingStatus string

const (
	BookingConfirmed BookingStatus = "confirmed"
	BookingPending   BookingStatus = "pending"
	BookingCancelled BookingStatus = "cancelled"
)

// Valid reports whether s is one of the known booking states.
func (s BookingStatus) Valid() bool {
	switch s {
	case BookingConfirmed, BookingPending, BookingCancelled:
		return true
	}
	return false
}

// Booking is a finalized record of a confirmed cart. Mutated only to change
// status; the user-facing flow never deletes it.
type Booking struct {
	ID        string          `json:"id"`
	UserID    string          `json:"-"`
	Date      string          `json:"date"`
	Meals     []string        `json:"meals"`
	Status    BookingStatus   `json:"status"`
	Total     decimal.Decimal `json:"total"`
	CreatedAt time.Time       `json:"createdAt"`
}
