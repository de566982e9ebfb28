package cart

import (
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/shopspring/decimal"

	"mess-booking/internal/domain"
)

// TaxRate is the fixed 5% mess service tax applied to every cart.
var TaxRate = decimal.New(5, -2)

// DateLayout is the wire format for booking dates.
const DateLayout = "2006-01-02"

// Engine holds one session's meal selection: the active date/meal-type
// context and the set of cart lines, keyed by menu item id. An Engine is
// created empty per session and cleared on successful confirmation. All
// methods are safe for concurrent use, though a session normally drives the
// engine from a single request at a time.
type Engine struct {
	mu       sync.Mutex
	lines    map[string]*domain.CartLine
	order    []string
	date     string
	mealType domain.MealType

	subscribers []func(domain.BookingSummary)
	confirming  atomic.Bool

	nowFn func() time.Time
}

// New returns an empty Engine.
func New() *Engine {
	return &Engine{
		lines: make(map[string]*domain.CartLine),
		nowFn: time.Now,
	}
}

// OnSummaryChanged registers fn to run after every mutating call. Callbacks
// run outside the engine lock, in registration order.
func (e *Engine) OnSummaryChanged(fn func(domain.BookingSummary)) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.subscribers = append(e.subscribers, fn)
}

// SetSelection records the active date and meal type. The date must be
// today or later, compared as a calendar date. All problems are reported
// together; on any problem the current selection is left untouched.
// An existing cart is not cleared: lines carry their own context, so one
// booking may combine meal types for the same day.
func (e *Engine) SetSelection(date string, mealType string) domain.ValidationErrors {
	var errs domain.ValidationErrors

	date = strings.TrimSpace(date)
	if date == "" {
		errs = append(errs, domain.ValidationError{Field: "date", Message: "please select a date"})
	} else if d, err := time.Parse(DateLayout, date); err != nil {
		errs = append(errs, domain.ValidationError{Field: "date", Message: "invalid date, expected YYYY-MM-DD"})
	} else if d.Before(e.today()) {
		errs = append(errs, domain.ValidationError{Field: "date", Message: "cannot select past dates"})
	}

	mt, ok := domain.ParseMealType(mealType)
	if !ok {
		errs = append(errs, domain.ValidationError{Field: "mealType", Message: "please select a meal type"})
	}

	if len(errs) > 0 {
		return errs
	}

	e.mu.Lock()
	e.date = date
	e.mealType = mt
	e.mu.Unlock()
	return nil
}

// Selection returns the active date and meal type, either of which may be
// empty before the first successful SetSelection.
func (e *Engine) Selection() (string, domain.MealType) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.date, e.mealType
}

// Increment adds one unit of item to the cart. A new line captures the
// item's current price and the active selection context; an existing line
// just grows by one. Refused while no selection is active: every line must
// carry a date and meal type, so a booking can never be persisted with an
// empty meals list.
func (e *Engine) Increment(item domain.MenuItem) {
	e.mu.Lock()
	if e.date == "" || e.mealType == "" {
		e.mu.Unlock()
		return
	}
	if line, ok := e.lines[item.ID]; ok {
		line.Quantity++
	} else {
		e.lines[item.ID] = &domain.CartLine{
			ItemID:    item.ID,
			Name:      item.Name,
			UnitPrice: item.Price,
			Quantity:  1,
			Date:      e.date,
			MealType:  e.mealType,
		}
		e.order = append(e.order, item.ID)
	}
	summary := e.summaryLocked()
	e.mu.Unlock()
	e.notify(summary)
}

// Decrement removes one unit of the item. A line that reaches zero is
// removed entirely; an unknown id is a no-op.
func (e *Engine) Decrement(itemID string) {
	e.mu.Lock()
	if line, ok := e.lines[itemID]; ok {
		line.Quantity--
		if line.Quantity <= 0 {
			e.removeLocked(itemID)
		}
	}
	summary := e.summaryLocked()
	e.mu.Unlock()
	e.notify(summary)
}

// Remove deletes the item's line regardless of quantity.
func (e *Engine) Remove(itemID string) {
	e.mu.Lock()
	e.removeLocked(itemID)
	summary := e.summaryLocked()
	e.mu.Unlock()
	e.notify(summary)
}

// Quantity returns the current quantity for the item, zero when absent.
func (e *Engine) Quantity(itemID string) int {
	e.mu.Lock()
	defer e.mu.Unlock()
	if line, ok := e.lines[itemID]; ok {
		return line.Quantity
	}
	return 0
}

// Lines returns a copy of the cart lines in insertion order.
func (e *Engine) Lines() []domain.CartLine {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make([]domain.CartLine, 0, len(e.order))
	for _, id := range e.order {
		out = append(out, *e.lines[id])
	}
	return out
}

// Empty reports whether the cart holds no lines.
func (e *Engine) Empty() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.lines) == 0
}

// ConfirmEnabled reports whether the confirm action should be offered:
// at least one line with a positive quantity.
func (e *Engine) ConfirmEnabled() bool {
	return !e.Empty()
}

// Summary recomputes subtotal, tax and total from the current lines.
// Accumulation is exact decimal arithmetic; only tax and total carry
// display rounding to two places.
func (e *Engine) Summary() domain.BookingSummary {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.summaryLocked()
}

// Clear drops every line and resets the date/meal-type selection. Used
// after a successful confirmation and for explicit cart cancellation.
func (e *Engine) Clear() {
	e.mu.Lock()
	e.lines = make(map[string]*domain.CartLine)
	e.order = nil
	e.date = ""
	e.mealType = ""
	summary := e.summaryLocked()
	e.mu.Unlock()
	e.notify(summary)
}

// BeginConfirm marks the engine as having a confirmation in flight. It
// returns false when one is already running, so a double submission can
// never produce two bookings.
func (e *Engine) BeginConfirm() bool {
	return e.confirming.CompareAndSwap(false, true)
}

// EndConfirm releases the in-flight marker.
func (e *Engine) EndConfirm() {
	e.confirming.Store(false)
}

func (e *Engine) removeLocked(itemID string) {
	if _, ok := e.lines[itemID]; !ok {
		return
	}
	delete(e.lines, itemID)
	for i, id := range e.order {
		if id == itemID {
			e.order = append(e.order[:i], e.order[i+1:]...)
			break
		}
	}
}

func (e *Engine) summaryLocked() domain.BookingSummary {
	subtotal := decimal.Zero
	for _, id := range e.order {
		subtotal = subtotal.Add(e.lines[id].LineTotal())
	}
	tax := subtotal.Mul(TaxRate).Round(2)
	return domain.BookingSummary{
		Subtotal: subtotal,
		Tax:      tax,
		Total:    subtotal.Add(tax).Round(2),
	}
}

func (e *Engine) notify(summary domain.BookingSummary) {
	e.mu.Lock()
	subs := make([]func(domain.BookingSummary), len(e.subscribers))
	copy(subs, e.subscribers)
	e.mu.Unlock()
	for _, fn := range subs {
		fn(summary)
	}
}

func (e *Engine) today() time.Time {
	now := e.nowFn()
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
}
