package menu

import (
	"context"
	"errors"
	"strings"

	"github.com/shopspring/decimal"

	"mess-booking/internal/domain"
	menurepo "mess-booking/internal/repository/menu"
)

// Service exposes the menu catalog: meal-type filtered listings for the
// booking page and CRUD for the mess administrator.
type Service struct {
	repo menurepo.Repository
}

func New(repo menurepo.Repository) *Service {
	return &Service{repo: repo}
}

type CreateInput struct {
	ID           string `json:"id"`
	MealType     string `json:"mealType"`
	Name         string `json:"name"`
	Description  string `json:"description"`
	TimeWindow   string `json:"time"`
	Price        string `json:"price"`
	Availability string `json:"availability"`
}

type UpdateInput struct {
	Name         *string `json:"name"`
	Description  *string `json:"description"`
	TimeWindow   *string `json:"time"`
	Price        *string `json:"price"`
	Availability *string `json:"availability"`
}

// List returns the offerings for one meal type.
func (s *Service) List(ctx context.Context, mealType string) ([]domain.MenuItem, error) {
	mt, ok := domain.ParseMealType(mealType)
	if !ok {
		return nil, errors.New("unknown meal type")
	}
	return s.repo.ListByMealType(ctx, mt)
}

// Get returns a single item by id.
func (s *Service) Get(ctx context.Context, id string) (*domain.MenuItem, error) {
	return s.repo.GetByID(ctx, id)
}

// Create adds a new offering to the catalog.
func (s *Service) Create(ctx context.Context, in CreateInput) (*domain.MenuItem, error) {
	id := strings.TrimSpace(in.ID)
	if id == "" {
		return nil, errors.New("id required")
	}
	mt, ok := domain.ParseMealType(in.MealType)
	if !ok {
		return nil, errors.New("unknown meal type")
	}
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, errors.New("name required")
	}
	price, err := parsePrice(in.Price)
	if err != nil {
		return nil, err
	}
	availability := domain.Availability(strings.TrimSpace(in.Availability))
	if availability == "" {
		availability = domain.AvailabilityAvailable
	}
	if !availability.Valid() {
		return nil, errors.New("unknown availability")
	}

	return s.repo.Create(ctx, menurepo.CreateItemInput{
		ID:           id,
		MealType:     mt,
		Name:         name,
		Description:  strings.TrimSpace(in.Description),
		TimeWindow:   strings.TrimSpace(in.TimeWindow),
		Price:        price,
		Availability: availability,
	})
}

// Update patches the given fields of an existing offering.
func (s *Service) Update(ctx context.Context, id string, in UpdateInput) (*domain.MenuItem, error) {
	update := menurepo.UpdateItemInput{
		Name:        in.Name,
		Description: in.Description,
		TimeWindow:  in.TimeWindow,
	}
	if in.Price != nil {
		price, err := parsePrice(*in.Price)
		if err != nil {
			return nil, err
		}
		update.Price = &price
	}
	if in.Availability != nil {
		availability := domain.Availability(strings.TrimSpace(*in.Availability))
		if !availability.Valid() {
			return nil, errors.New("unknown availability")
		}
		update.Availability = &availability
	}
	return s.repo.Update(ctx, id, update)
}

// Delete removes an offering from the catalog.
func (s *Service) Delete(ctx context.Context, id string) error {
	return s.repo.Delete(ctx, id)
}

func parsePrice(raw string) (decimal.Decimal, error) {
	price, err := decimal.NewFromString(strings.TrimSpace(raw))
	if err != nil {
		return decimal.Zero, errors.New("invalid price")
	}
	if price.IsNegative() {
		return decimal.Zero, errors.New("price must be non-negative")
	}
	return price.Round(2), nil
}
