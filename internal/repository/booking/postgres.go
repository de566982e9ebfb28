package booking

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
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

func (r *postgresRepo) Create(ctx context.Context, in CreateBookingInput) (*domain.Booking, error) {
	const q = `
INSERT INTO bookings (id, user_id, booking_date, meals, status, total)
VALUES ($1, $2, $3, $4, $5, $6)
RETURNING id::text, user_id::text, booking_date::text, meals, status, total::text, created_at
`
	return scanBooking(r.pool.QueryRow(ctx, q,
		in.ID,
		in.UserID,
		in.Date,
		in.Meals,
		string(in.Status),
		in.Total,
	))
}

func (r *postgresRepo) GetByID(ctx context.Context, userID, id string) (*domain.Booking, error) {
	const q = `
SELECT id::text, user_id::text, booking_date::text, meals, status, total::text, created_at
FROM bookings
WHERE user_id = $1 AND id = $2
LIMIT 1
`
	return scanBooking(r.pool.QueryRow(ctx, q, userID, id))
}

// ListByUser returns bookings newest-first so a fresh confirmation shows up
// at the front of the history view.
func (r *postgresRepo) ListByUser(ctx context.Context, userID string, filter ListFilter) ([]domain.Booking, error) {
	q := `
SELECT id::text, user_id::text, booking_date::text, meals, status, total::text, created_at
FROM bookings
WHERE user_id = $1
`
	args := []interface{}{userID}
	if filter.Status != "" {
		args = append(args, string(filter.Status))
		q += fmt.Sprintf(" AND status = $%d", len(args))
	}
	if filter.MealType != "" {
		args = append(args, filter.MealType)
		q += fmt.Sprintf(" AND $%d = ANY(meals)", len(args))
	}
	if filter.FromDate != "" {
		args = append(args, filter.FromDate)
		q += fmt.Sprintf(" AND booking_date >= $%d", len(args))
	}
	if filter.ToDate != "" {
		args = append(args, filter.ToDate)
		q += fmt.Sprintf(" AND booking_date <= $%d", len(args))
	}
	q += " ORDER BY created_at DESC"

	rows, err := r.pool.Query(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	bookings := []domain.Booking{}
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, err
		}
		bookings = append(bookings, *b)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return bookings, nil
}

func (r *postgresRepo) UpdateStatus(ctx context.Context, userID, id string, status domain.BookingStatus) error {
	cmd, err := r.pool.Exec(ctx, `
UPDATE bookings
SET status = $1
WHERE user_id = $2 AND id = $3
`, string(status), userID, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *postgresRepo) StatsByUser(ctx context.Context, userID string) (*Stats, error) {
	const q = `
SELECT
	COUNT(*) FILTER (WHERE status = 'confirmed'),
	COUNT(*) FILTER (WHERE status = 'pending'),
	COUNT(*) FILTER (WHERE status = 'cancelled'),
	COALESCE(SUM(total) FILTER (WHERE status = 'confirmed'), 0)::text
FROM bookings
WHERE user_id = $1
`
	var s Stats
	var confirmedTotal string
	if err := r.pool.QueryRow(ctx, q, userID).Scan(
		&s.Confirmed,
		&s.Pending,
		&s.Cancelled,
		&confirmedTotal,
	); err != nil {
		return nil, err
	}
	total, err := decimal.NewFromString(confirmedTotal)
	if err != nil {
		return nil, err
	}
	s.ConfirmedTotal = total
	return &s, nil
}

func scanBooking(row pgx.Row) (*domain.Booking, error) {
	var b domain.Booking
	var status, total string
	err := row.Scan(
		&b.ID,
		&b.UserID,
		&b.Date,
		&b.Meals,
		&status,
		&total,
		&b.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	b.Status = domain.BookingStatus(status)
	b.Total, err = decimal.NewFromString(total)
	if err != nil {
		return nil, err
	}
	return &b, nil
}
