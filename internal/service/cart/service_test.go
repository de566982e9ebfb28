package cart

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"

	"mess-booking/internal/domain"
)

type stubMenuRepo struct {
	items map[string]domain.MenuItem
	err   error
}

func (s *stubMenuRepo) GetByID(_ context.Context, id string) (*domain.MenuItem, error) {
	if s.err != nil {
		return nil, s.err
	}
	item, ok := s.items[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &item, nil
}

func catalog() *stubMenuRepo {
	return &stubMenuRepo{items: map[string]domain.MenuItem{
		"l1": {
			ID:           "l1",
			MealType:     domain.MealLunch,
			Name:         "Regular Thali",
			Price:        decimal.NewFromInt(80),
			Availability: domain.AvailabilityAvailable,
		},
		"d3": {
			ID:           "d3",
			MealType:     domain.MealDinner,
			Name:         "Chinese Combo",
			Price:        decimal.NewFromInt(110),
			Availability: domain.AvailabilityUnavailable,
		},
	}}
}

func TestIncrementAddsCatalogItem(t *testing.T) {
	svc := New(catalog(), nil)
	svc.SetSelection("sess", "2099-10-12", "lunch")

	if err := svc.Increment(context.Background(), "sess", "l1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	lines, summary, enabled := svc.View("sess")
	if len(lines) != 1 || lines[0].Quantity != 1 {
		t.Fatalf("unexpected lines: %+v", lines)
	}
	if !summary.Subtotal.Equal(decimal.NewFromInt(80)) {
		t.Fatalf("subtotal = %s, want 80", summary.Subtotal)
	}
	if !enabled {
		t.Fatalf("confirm must be enabled with a line in the cart")
	}
}

func TestIncrementUnknownItemIsSilentNoop(t *testing.T) {
	svc := New(catalog(), nil)
	svc.SetSelection("sess", "2099-10-12", "lunch")
	_ = svc.Increment(context.Background(), "sess", "l1")

	if err := svc.Increment(context.Background(), "sess", "zzz"); err != nil {
		t.Fatalf("unknown item must not surface an error, got %v", err)
	}
	lines, _, _ := svc.View("sess")
	if len(lines) != 1 {
		t.Fatalf("cart must be unchanged, got %+v", lines)
	}
}

func TestIncrementRequiresActiveSelection(t *testing.T) {
	svc := New(catalog(), nil)

	if err := svc.Increment(context.Background(), "sess", "l1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	lines, _, enabled := svc.View("sess")
	if len(lines) != 0 || enabled {
		t.Fatalf("cart must stay empty before a selection is set, got %+v", lines)
	}
}

func TestIncrementRefusesUnavailableItem(t *testing.T) {
	svc := New(catalog(), nil)
	svc.SetSelection("sess", "2099-10-12", "dinner")

	if err := svc.Increment(context.Background(), "sess", "d3"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	lines, _, enabled := svc.View("sess")
	if len(lines) != 0 || enabled {
		t.Fatalf("unavailable item must not enter the cart, got %+v", lines)
	}
}

func TestIncrementSurfacesRepoFailure(t *testing.T) {
	svc := New(&stubMenuRepo{err: errors.New("db down")}, nil)
	svc.SetSelection("sess", "2099-10-12", "lunch")
	if err := svc.Increment(context.Background(), "sess", "l1"); err == nil {
		t.Fatalf("expected repo failure to surface")
	}
}

func TestSessionsAreIsolated(t *testing.T) {
	svc := New(catalog(), nil)
	svc.SetSelection("alice", "2099-10-12", "lunch")
	svc.SetSelection("bob", "2099-10-12", "lunch")
	_ = svc.Increment(context.Background(), "alice", "l1")

	if got := svc.Engine("bob").Quantity("l1"); got != 0 {
		t.Fatalf("bob's cart must be empty, got quantity %d", got)
	}
	if got := svc.Engine("alice").Quantity("l1"); got != 1 {
		t.Fatalf("alice's cart must hold the line, got quantity %d", got)
	}
}

func TestDecrementAndRemoveDelegate(t *testing.T) {
	svc := New(catalog(), nil)
	svc.SetSelection("sess", "2099-10-12", "lunch")
	_ = svc.Increment(context.Background(), "sess", "l1")
	_ = svc.Increment(context.Background(), "sess", "l1")

	svc.Decrement("sess", "l1")
	if got := svc.Engine("sess").Quantity("l1"); got != 1 {
		t.Fatalf("quantity = %d, want 1", got)
	}
	svc.Remove("sess", "l1")
	if _, _, enabled := svc.View("sess"); enabled {
		t.Fatalf("cart must be empty after remove")
	}
}
