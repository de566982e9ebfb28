package cart

import (
	"context"
	"errors"
	"io"
	"log"
	"sync"

	cartengine "mess-booking/internal/cart"
	"mess-booking/internal/domain"
)

// Service owns one cart engine per session and mediates catalog lookups for
// increments. Engines are created lazily; a confirmed booking clears an
// engine rather than discarding it, so each session keeps a stable cart.
type Service struct {
	mu      sync.Mutex
	engines map[string]*cartengine.Engine

	menuRepo menuRepo
	logger   *log.Logger
}

type menuRepo interface {
	GetByID(ctx context.Context, id string) (*domain.MenuItem, error)
}

func New(menuRepo menuRepo, logger *log.Logger) *Service {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &Service{
		engines:  make(map[string]*cartengine.Engine),
		menuRepo: menuRepo,
		logger:   logger,
	}
}

// Engine returns the session's cart engine, creating it on first use.
func (s *Service) Engine(sessionID string) *cartengine.Engine {
	s.mu.Lock()
	defer s.mu.Unlock()
	eng, ok := s.engines[sessionID]
	if !ok {
		eng = cartengine.New()
		eng.OnSummaryChanged(func(sum domain.BookingSummary) {
			s.logger.Printf("cart %s: subtotal=%s tax=%s total=%s", sessionID, sum.Subtotal, sum.Tax, sum.Total)
		})
		s.engines[sessionID] = eng
	}
	return eng
}

// SetSelection records the active date and meal type for the session.
func (s *Service) SetSelection(sessionID, date, mealType string) domain.ValidationErrors {
	return s.Engine(sessionID).SetSelection(date, mealType)
}

// Increment looks the item up in the catalog and adds one unit to the cart.
// An unknown id is a silent no-op: it indicates a stale UI reference, not a
// user error. Unavailable items are refused the same way, so availability is
// enforced here rather than only hidden by the rendering layer. Increments
// before a date and meal type are selected are likewise refused, since a
// line without its context could reach confirmation with no meal labels.
func (s *Service) Increment(ctx context.Context, sessionID, itemID string) error {
	eng := s.Engine(sessionID)
	if date, mealType := eng.Selection(); date == "" || mealType == "" {
		s.logger.Printf("increment refused: no selection for cart %s", sessionID)
		return nil
	}
	item, err := s.menuRepo.GetByID(ctx, itemID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			s.logger.Printf("increment ignored: unknown item %q", itemID)
			return nil
		}
		return err
	}
	if item.Availability == domain.AvailabilityUnavailable {
		s.logger.Printf("increment refused: item %q unavailable", itemID)
		return nil
	}
	eng.Increment(*item)
	return nil
}

// Decrement removes one unit of the item from the session's cart.
func (s *Service) Decrement(sessionID, itemID string) {
	s.Engine(sessionID).Decrement(itemID)
}

// Remove deletes the item's line from the session's cart.
func (s *Service) Remove(sessionID, itemID string) {
	s.Engine(sessionID).Remove(itemID)
}

// View returns the cart lines, derived summary, active selection and
// whether confirmation is currently possible.
func (s *Service) View(sessionID string) ([]domain.CartLine, domain.BookingSummary, bool) {
	eng := s.Engine(sessionID)
	return eng.Lines(), eng.Summary(), eng.ConfirmEnabled()
}
