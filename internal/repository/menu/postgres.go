package menu

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"mess-booking/internal/domain"
)

type postgresRepo struct {
	pool *pgxpool.Pool
}

func NewPostgres(pool *pgxpool.Pool) Repository {
	return &postgresRepo{pool: pool}
}

func (r *postgresRepo) Create(ctx context.Context, in CreateItemInput) (*domain.MenuItem, error) {
	const q = `
INSERT INTO menu_items (id, meal_type, name, description, time_window, price, availability)
VALUES ($1, $2, $3, $4, $5, $6, $7)
RETURNING id, meal_type, name, description, time_window, price::text, availability, created_at
`
	item, err := scanItem(r.pool.QueryRow(ctx, q,
		in.ID,
		string(in.MealType),
		in.Name,
		in.Description,
		in.TimeWindow,
		in.Price,
		string(in.Availability),
	))
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return nil, domain.ErrAlreadyExists
		}
		return nil, err
	}
	return item, nil
}

func (r *postgresRepo) GetByID(ctx context.Context, id string) (*domain.MenuItem, error) {
	const q = `
SELECT id, meal_type, name, description, time_window, price::text, availability, created_at
FROM menu_items
WHERE id = $1
LIMIT 1
`
	return scanItem(r.pool.QueryRow(ctx, q, id))
}

func (r *postgresRepo) ListByMealType(ctx context.Context, mealType domain.MealType) ([]domain.MenuItem, error) {
	const q = `
SELECT id, meal_type, name, description, time_window, price::text, availability, created_at
FROM menu_items
WHERE meal_type = $1
ORDER BY created_at ASC, id ASC
`
	rows, err := r.pool.Query(ctx, q, string(mealType))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := []domain.MenuItem{}
	for rows.Next() {
		item, err := scanItem(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *item)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

func (r *postgresRepo) Update(ctx context.Context, id string, in UpdateItemInput) (*domain.MenuItem, error) {
	const q = `
UPDATE menu_items
SET name = COALESCE($2, name),
    description = COALESCE($3, description),
    time_window = COALESCE($4, time_window),
    price = COALESCE($5, price),
    availability = COALESCE($6, availability)
WHERE id = $1
RETURNING id, meal_type, name, description, time_window, price::text, availability, created_at
`
	var price *string
	if in.Price != nil {
		s := in.Price.StringFixed(2)
		price = &s
	}
	var availability *string
	if in.Availability != nil {
		s := string(*in.Availability)
		availability = &s
	}
	return scanItem(r.pool.QueryRow(ctx, q, id, in.Name, in.Description, in.TimeWindow, price, availability))
}

func (r *postgresRepo) Delete(ctx context.Context, id string) error {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM menu_items WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func scanItem(row pgx.Row) (*domain.MenuItem, error) {
	var item domain.MenuItem
	var mealType, availability, price string
	err := row.Scan(
		&item.ID,
		&mealType,
		&item.Name,
		&item.Description,
		&item.TimeWindow,
		&price,
		&availability,
		&item.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	item.MealType = domain.MealType(mealType)
	item.Availability = domain.Availability(availability)
	item.Price, err = decimal.NewFromString(price)
	if err != nil {
		return nil, err
	}
	return &item, nil
}
