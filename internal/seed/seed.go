package seed

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"golang.org/x/crypto/bcrypt"
)

type menuItemSeed struct {
	ID           string
	MealType     string
	Name         string
	Description  string
	TimeWindow   string
	Price        string
	Availability string
}

// Apply inserts seed data for manual testing. It is idempotent via ON CONFLICT.
func Apply(ctx context.Context, pool *pgxpool.Pool) error {
	items := []menuItemSeed{
		{ID: "b1", MealType: "breakfast", Name: "Classic Breakfast", Description: "Poha, Tea/Coffee, Fruits", TimeWindow: "7:00 - 9:00 AM", Price: "50", Availability: "available"},
		{ID: "b2", MealType: "breakfast", Name: "South Indian Special", Description: "Idli, Sambar, Chutney, Coffee", TimeWindow: "7:00 - 9:00 AM", Price: "60", Availability: "available"},
		{ID: "b3", MealType: "breakfast", Name: "Continental", Description: "Bread, Butter, Jam, Eggs, Juice", TimeWindow: "7:00 - 9:00 AM", Price: "80", Availability: "limited"},
		{ID: "l1", MealType: "lunch", Name: "Regular Thali", Description: "Dal, Rice, Roti, Sabzi, Salad", TimeWindow: "12:00 - 2:00 PM", Price: "80", Availability: "available"},
		{ID: "l2", MealType: "lunch", Name: "Special Thali", Description: "Paneer, Dal, Rice, Roti, Sweet", TimeWindow: "12:00 - 2:00 PM", Price: "120", Availability: "available"},
		{ID: "l3", MealType: "lunch", Name: "South Indian Meal", Description: "Rice, Sambar, Rasam, Curd", TimeWindow: "12:00 - 2:00 PM", Price: "90", Availability: "limited"},
		{ID: "d1", MealType: "dinner", Name: "Regular Dinner", Description: "Dal, Rice, Roti, Sabzi", TimeWindow: "7:00 - 9:00 PM", Price: "70", Availability: "available"},
		{ID: "d2", MealType: "dinner", Name: "Biryani Special", Description: "Veg Biryani, Raita, Salad", TimeWindow: "7:00 - 9:00 PM", Price: "100", Availability: "available"},
		{ID: "d3", MealType: "dinner", Name: "Chinese Combo", Description: "Noodles, Manchurian, Soup", TimeWindow: "7:00 - 9:00 PM", Price: "110", Availability: "unavailable"},
	}

	for _, item := range items {
		if err := upsertMenuItem(ctx, pool, item); err != nil {
			return fmt.Errorf("upsert menu item %s: %w", item.ID, err)
		}
	}

	if err := ensureUser(ctx, pool, "student@mess.local", "password123", "Demo Student", false); err != nil {
		return fmt.Errorf("ensure demo user: %w", err)
	}
	if err := ensureUser(ctx, pool, "warden@mess.local", "password123", "Mess Warden", true); err != nil {
		return fmt.Errorf("ensure admin user: %w", err)
	}

	return nil
}

func upsertMenuItem(ctx context.Context, pool *pgxpool.Pool, item menuItemSeed) error {
	const q = `
INSERT INTO menu_items (id, meal_type, name, description, time_window, price, availability)
VALUES ($1, $2, $3, $4, $5, $6, $7)
ON CONFLICT (id) DO UPDATE
SET meal_type = EXCLUDED.meal_type,
    name = EXCLUDED.name,
    description = EXCLUDED.description,
    time_window = EXCLUDED.time_window,
    price = EXCLUDED.price,
    availability = EXCLUDED.availability
`
	_, err := pool.Exec(ctx, q, item.ID, item.MealType, item.Name, item.Description, item.TimeWindow, item.Price, item.Availability)
	return err
}

func ensureUser(ctx context.Context, pool *pgxpool.Pool, email, password, name string, admin bool) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}

	const q = `
INSERT INTO users (email, password_hash, name, admin)
VALUES ($1, $2, $3, $4)
ON CONFLICT (lower(email)) DO NOTHING
`
	_, err = pool.Exec(ctx, q, email, string(hash), name, admin)
	return err
}
