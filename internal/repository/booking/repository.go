package booking

import (
	"context"

	"github.com/shopspring/decimal"

	"mess-booking/internal/domain"
)

type CreateBookingInput struct {
	ID     string
	UserID string
	Date   string
	Meals  []string
	Status domain.BookingStatus
	Total  decimal.Decimal
}

// ListFilter narrows History queries. Zero values mean "no constraint".
type ListFilter struct {
	Status   domain.BookingStatus
	MealType string
	FromDate string
	ToDate   string
}

// Stats aggregates a user's booking history.
type Stats struct {
	Confirmed      int             `json:"confirmed"`
	Pending        int             `json:"pending"`
	Cancelled      int             `json:"cancelled"`
	ConfirmedTotal decimal.Decimal `json:"confirmedTotal"`
}

type Repository interface {
	Create(ctx context.Context, in CreateBookingInput) (*domain.Booking, error)
	GetByID(ctx context.Context, userID, id string) (*domain.Booking, error)
	ListByUser(ctx context.Context, userID string, filter ListFilter) ([]domain.Booking, error)
	UpdateStatus(ctx context.Context, userID, id string, status domain.BookingStatus) error
	StatsByUser(ctx context.Context, userID string) (*Stats, error)
}
