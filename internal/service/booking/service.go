package booking

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	cartengine "mess-booking/internal/cart"
	"mess-booking/internal/domain"
	bookingrepo "mess-booking/internal/repository/booking"
)

// ErrConfirmationRequired is returned by Cancel when the caller has not
// explicitly confirmed the cancellation.
var ErrConfirmationRequired = errors.New("cancellation must be confirmed")

// Service drives the booking confirmation flow: validating a cart,
// projecting it for review, submitting it as a persisted booking, and
// managing booking history.
type Service struct {
	repo   bookingRepo
	logger *log.Logger

	confirmTimeout time.Duration
	nowFn          func() time.Time
}

type bookingRepo interface {
	Create(ctx context.Context, in bookingrepo.CreateBookingInput) (*domain.Booking, error)
	GetByID(ctx context.Context, userID, id string) (*domain.Booking, error)
	ListByUser(ctx context.Context, userID string, filter bookingrepo.ListFilter) ([]domain.Booking, error)
	UpdateStatus(ctx context.Context, userID, id string, status domain.BookingStatus) error
	StatsByUser(ctx context.Context, userID string) (*bookingrepo.Stats, error)
}

func New(repo bookingRepo, logger *log.Logger, confirmTimeout time.Duration) *Service {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	if confirmTimeout <= 0 {
		confirmTimeout = 10 * time.Second
	}
	return &Service{
		repo:           repo,
		logger:         logger,
		confirmTimeout: confirmTimeout,
		nowFn:          time.Now,
	}
}

// Validate checks everything confirmation needs and reports every failure
// together: a usable date, a meal type, and a non-empty cart.
func (s *Service) Validate(eng *cartengine.Engine) domain.ValidationErrors {
	var errs domain.ValidationErrors

	date, mealType := eng.Selection()
	if date == "" {
		errs = append(errs, domain.ValidationError{Field: "date", Message: "please select a date"})
	} else if d, err := time.Parse(cartengine.DateLayout, date); err != nil {
		errs = append(errs, domain.ValidationError{Field: "date", Message: "invalid date, expected YYYY-MM-DD"})
	} else if d.Before(s.today()) {
		errs = append(errs, domain.ValidationError{Field: "date", Message: "cannot select past dates"})
	}

	if mealType == "" {
		errs = append(errs, domain.ValidationError{Field: "mealType", Message: "please select a meal type"})
	}

	if eng.Empty() {
		errs = append(errs, domain.ValidationError{Field: "cart", Message: "please select at least one meal"})
	}

	return errs
}

// ReviewLine is one itemized row of the pre-confirmation review.
type ReviewLine struct {
	Name      string          `json:"name"`
	Date      string          `json:"date"`
	MealType  string          `json:"mealType"`
	Quantity  int             `json:"quantity"`
	LineTotal decimal.Decimal `json:"lineTotal"`
}

// Review is the read-only projection shown before confirming.
type Review struct {
	Lines    []ReviewLine    `json:"lines"`
	Subtotal decimal.Decimal `json:"subtotal"`
	Tax      decimal.Decimal `json:"tax"`
	Total    decimal.Decimal `json:"total"`
}

// Review builds the itemized confirmation view. It never mutates the cart;
// a cart that fails validation yields the validation errors instead.
func (s *Service) Review(eng *cartengine.Engine) (*Review, error) {
	if errs := s.Validate(eng); len(errs) > 0 {
		return nil, errs
	}

	lines := eng.Lines()
	out := make([]ReviewLine, 0, len(lines))
	for _, line := range lines {
		out = append(out, ReviewLine{
			Name:      line.Name,
			Date:      formatDate(line.Date),
			MealType:  line.MealType.Label(),
			Quantity:  line.Quantity,
			LineTotal: line.LineTotal(),
		})
	}

	summary := eng.Summary()
	return &Review{
		Lines:    out,
		Subtotal: summary.Subtotal,
		Tax:      summary.Tax,
		Total:    summary.Total,
	}, nil
}

// Confirm validates the cart and submits it as a booking. Only one
// confirmation may be in flight per cart; a second call while the first is
// running gets domain.ErrConfirmInFlight and produces no booking. On
// submission failure the cart is left intact so the user can retry; on
// success the cart is cleared atomically before the booking is returned.
func (s *Service) Confirm(ctx context.Context, userID string, eng *cartengine.Engine) (*domain.Booking, error) {
	if !eng.BeginConfirm() {
		return nil, domain.ErrConfirmInFlight
	}
	defer eng.EndConfirm()

	if errs := s.Validate(eng); len(errs) > 0 {
		return nil, errs
	}

	date, _ := eng.Selection()
	lines := eng.Lines()
	summary := eng.Summary()

	// Total stored on the booking is subtotal plus 5% tax, rounded to the
	// nearest whole currency unit.
	total := summary.Subtotal.Mul(decimal.NewFromInt(1).Add(cartengine.TaxRate)).Round(0)

	ctx, cancel := context.WithTimeout(ctx, s.confirmTimeout)
	defer cancel()

	booking, err := s.repo.Create(ctx, bookingrepo.CreateBookingInput{
		ID:     uuid.NewString(),
		UserID: userID,
		Date:   date,
		Meals:  mealLabels(lines),
		Status: domain.BookingConfirmed,
		Total:  total,
	})
	if err != nil {
		s.logger.Printf("booking submission failed, cart preserved: %v", err)
		return nil, fmt.Errorf("submit booking: %w", err)
	}

	eng.Clear()
	s.logger.Printf("booking %s confirmed for %s, total %s", booking.ID, booking.Date, booking.Total)
	return booking, nil
}

// Get returns one of the user's bookings by id.
func (s *Service) Get(ctx context.Context, userID, bookingID string) (*domain.Booking, error) {
	return s.repo.GetByID(ctx, userID, bookingID)
}

// HistoryFilter narrows History results. Empty fields are ignored.
type HistoryFilter struct {
	Status   string
	MealType string
	FromDate string
	ToDate   string
}

// History lists the user's bookings, most recent confirmation first. Filter
// values are validated here so malformed input never reaches the query; all
// problems are reported together as ValidationErrors.
func (s *Service) History(ctx context.Context, userID string, filter HistoryFilter) ([]domain.Booking, error) {
	var errs domain.ValidationErrors
	var repoFilter bookingrepo.ListFilter

	if filter.Status != "" {
		status := domain.BookingStatus(filter.Status)
		if !status.Valid() {
			errs = append(errs, domain.ValidationError{Field: "status", Message: "unknown status"})
		} else {
			repoFilter.Status = status
		}
	}
	if filter.MealType != "" {
		mt, ok := domain.ParseMealType(filter.MealType)
		if !ok {
			errs = append(errs, domain.ValidationError{Field: "mealType", Message: "unknown meal type"})
		} else {
			// Booking records carry capitalized meal labels.
			repoFilter.MealType = mt.Label()
		}
	}
	if filter.FromDate != "" {
		if _, err := time.Parse(cartengine.DateLayout, filter.FromDate); err != nil {
			errs = append(errs, domain.ValidationError{Field: "from", Message: "invalid date, expected YYYY-MM-DD"})
		} else {
			repoFilter.FromDate = filter.FromDate
		}
	}
	if filter.ToDate != "" {
		if _, err := time.Parse(cartengine.DateLayout, filter.ToDate); err != nil {
			errs = append(errs, domain.ValidationError{Field: "to", Message: "invalid date, expected YYYY-MM-DD"})
		} else {
			repoFilter.ToDate = filter.ToDate
		}
	}
	if len(errs) > 0 {
		return nil, errs
	}
	return s.repo.ListByUser(ctx, userID, repoFilter)
}

// Cancel sets a booking's status to cancelled in place; the record is never
// deleted. The caller must pass confirmed=true, mirroring the explicit
// yes/no prompt in the booking view.
func (s *Service) Cancel(ctx context.Context, userID, bookingID string, confirmed bool) error {
	if !confirmed {
		return ErrConfirmationRequired
	}
	return s.repo.UpdateStatus(ctx, userID, bookingID, domain.BookingCancelled)
}

// Stats aggregates the user's booking history for the summary cards.
func (s *Service) Stats(ctx context.Context, userID string) (*bookingrepo.Stats, error) {
	return s.repo.StatsByUser(ctx, userID)
}

// mealLabels returns the distinct capitalized meal types across lines, in
// first-seen order.
func mealLabels(lines []domain.CartLine) []string {
	seen := make(map[string]bool, len(lines))
	labels := make([]string, 0, len(lines))
	for _, line := range lines {
		label := line.MealType.Label()
		if label == "" || seen[label] {
			continue
		}
		seen[label] = true
		labels = append(labels, label)
	}
	return labels
}

// formatDate renders a YYYY-MM-DD date for display, e.g. "Sun, 12 Oct 2025".
// Unparseable input is passed through untouched.
func formatDate(date string) string {
	d, err := time.Parse(cartengine.DateLayout, date)
	if err != nil {
		return date
	}
	return d.Format("Mon, 2 Jan 2006")
}

func (s *Service) today() time.Time {
	now := s.nowFn()
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
}
