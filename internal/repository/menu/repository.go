package menu

import (
	"context"

	"github.com/shopspring/decimal"

	"mess-booking/internal/domain"
)

type CreateItemInput struct {
	ID           string
	MealType     domain.MealType
	Name         string
	Description  string
	TimeWindow   string
	Price        decimal.Decimal
	Availability domain.Availability
}

type UpdateItemInput struct {
	Name         *string
	Description  *string
	TimeWindow   *string
	Price        *decimal.Decimal
	Availability *domain.Availability
}

type Repository interface {
	Create(ctx context.Context, in CreateItemInput) (*domain.MenuItem, error)
	GetByID(ctx context.Context, id string) (*domain.MenuItem, error)
	ListByMealType(ctx context.Context, mealType domain.MealType) ([]domain.MenuItem, error)
	Update(ctx context.Context, id string, in UpdateItemInput) (*domain.MenuItem, error)
	Delete(ctx context.Context, id string) error
}
