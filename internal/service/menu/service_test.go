package menu

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"

	"mess-booking/internal/domain"
	menurepo "mess-booking/internal/repository/menu"
)

// memoryRepo is a lightweight in-memory menu repository for tests.
type memoryRepo struct {
	items map[string]domain.MenuItem
	order []string
}

func newMemoryRepo() *memoryRepo {
	return &memoryRepo{items: make(map[string]domain.MenuItem)}
}

func (r *memoryRepo) Create(_ context.Context, in menurepo.CreateItemInput) (*domain.MenuItem, error) {
	if _, exists := r.items[in.ID]; exists {
		return nil, domain.ErrAlreadyExists
	}
	item := domain.MenuItem{
		ID:           in.ID,
		MealType:     in.MealType,
		Name:         in.Name,
		Description:  in.Description,
		TimeWindow:   in.TimeWindow,
		Price:        in.Price,
		Availability: in.Availability,
	}
	r.items[in.ID] = item
	r.order = append(r.order, in.ID)
	clone := item
	return &clone, nil
}

func (r *memoryRepo) GetByID(_ context.Context, id string) (*domain.MenuItem, error) {
	if item, ok := r.items[id]; ok {
		clone := item
		return &clone, nil
	}
	return nil, domain.ErrNotFound
}

func (r *memoryRepo) ListByMealType(_ context.Context, mealType domain.MealType) ([]domain.MenuItem, error) {
	var out []domain.MenuItem
	for _, id := range r.order {
		if r.items[id].MealType == mealType {
			out = append(out, r.items[id])
		}
	}
	return out, nil
}

func (r *memoryRepo) Update(_ context.Context, id string, in menurepo.UpdateItemInput) (*domain.MenuItem, error) {
	item, ok := r.items[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	if in.Name != nil {
		item.Name = *in.Name
	}
	if in.Description != nil {
		item.Description = *in.Description
	}
	if in.TimeWindow != nil {
		item.TimeWindow = *in.TimeWindow
	}
	if in.Price != nil {
		item.Price = *in.Price
	}
	if in.Availability != nil {
		item.Availability = *in.Availability
	}
	r.items[id] = item
	clone := item
	return &clone, nil
}

func (r *memoryRepo) Delete(_ context.Context, id string) error {
	if _, ok := r.items[id]; !ok {
		return domain.ErrNotFound
	}
	delete(r.items, id)
	return nil
}

func TestCreateDefaultsAvailability(t *testing.T) {
	svc := New(newMemoryRepo())

	item, err := svc.Create(context.Background(), CreateInput{
		ID:       "l4",
		MealType: "lunch",
		Name:     "Rajma Chawal",
		Price:    "75",
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if item.Availability != domain.AvailabilityAvailable {
		t.Fatalf("expected default availability, got %q", item.Availability)
	}
	if !item.Price.Equal(decimal.NewFromInt(75)) {
		t.Fatalf("expected price 75, got %s", item.Price)
	}
}

func TestCreateValidation(t *testing.T) {
	svc := New(newMemoryRepo())
	ctx := context.Background()

	cases := []struct {
		name string
		in   CreateInput
	}{
		{"missing id", CreateInput{MealType: "lunch", Name: "X", Price: "10"}},
		{"unknown meal type", CreateInput{ID: "x1", MealType: "brunch", Name: "X", Price: "10"}},
		{"missing name", CreateInput{ID: "x1", MealType: "lunch", Price: "10"}},
		{"bad price", CreateInput{ID: "x1", MealType: "lunch", Name: "X", Price: "ten"}},
		{"negative price", CreateInput{ID: "x1", MealType: "lunch", Name: "X", Price: "-5"}},
		{"bad availability", CreateInput{ID: "x1", MealType: "lunch", Name: "X", Price: "10", Availability: "soldout"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := svc.Create(ctx, tc.in); err == nil {
				t.Fatal("expected validation error")
			}
		})
	}
}

func TestCreateRoundsPrice(t *testing.T) {
	svc := New(newMemoryRepo())

	item, err := svc.Create(context.Background(), CreateInput{
		ID:       "b9",
		MealType: "breakfast",
		Name:     "Upma",
		Price:    "45.555",
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if got := item.Price.String(); got != "45.56" {
		t.Fatalf("expected price rounded to 45.56, got %s", got)
	}
}

func TestListRejectsUnknownMealType(t *testing.T) {
	svc := New(newMemoryRepo())

	if _, err := svc.List(context.Background(), "brunch"); err == nil {
		t.Fatal("expected error for unknown meal type")
	}
}

func TestListFiltersByMealType(t *testing.T) {
	repo := newMemoryRepo()
	svc := New(repo)
	ctx := context.Background()

	for _, in := range []CreateInput{
		{ID: "b1", MealType: "breakfast", Name: "Classic Breakfast", Price: "50"},
		{ID: "l1", MealType: "lunch", Name: "Regular Thali", Price: "80"},
		{ID: "l2", MealType: "lunch", Name: "Special Thali", Price: "120"},
	} {
		if _, err := svc.Create(ctx, in); err != nil {
			t.Fatalf("create %s: %v", in.ID, err)
		}
	}

	items, err := svc.List(ctx, "lunch")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(items) != 2 {
		t.Fatalf("expected 2 lunch items, got %d", len(items))
	}
	if items[0].ID != "l1" || items[1].ID != "l2" {
		t.Fatalf("unexpected order: %s, %s", items[0].ID, items[1].ID)
	}
}

func TestUpdatePatchesOnlyGivenFields(t *testing.T) {
	repo := newMemoryRepo()
	svc := New(repo)
	ctx := context.Background()

	if _, err := svc.Create(ctx, CreateInput{ID: "d1", MealType: "dinner", Name: "Regular Dinner", Price: "70"}); err != nil {
		t.Fatalf("create: %v", err)
	}

	newPrice := "75"
	item, err := svc.Update(ctx, "d1", UpdateInput{Price: &newPrice})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if item.Name != "Regular Dinner" {
		t.Fatalf("name changed unexpectedly: %q", item.Name)
	}
	if got := item.Price.String(); got != "75" {
		t.Fatalf("expected price 75, got %s", got)
	}
}

func TestUpdateRejectsBadAvailability(t *testing.T) {
	repo := newMemoryRepo()
	svc := New(repo)
	ctx := context.Background()

	if _, err := svc.Create(ctx, CreateInput{ID: "d1", MealType: "dinner", Name: "Regular Dinner", Price: "70"}); err != nil {
		t.Fatalf("create: %v", err)
	}

	bad := "soldout"
	if _, err := svc.Update(ctx, "d1", UpdateInput{Availability: &bad}); err == nil {
		t.Fatal("expected error for bad availability")
	}
}

func TestDeleteMissingItem(t *testing.T) {
	svc := New(newMemoryRepo())

	err := svc.Delete(context.Background(), "missing")
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
