package httpserver

import (
	"context"
	"errors"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	cartengine "mess-booking/internal/cart"
	"mess-booking/internal/domain"
	bookingrepo "mess-booking/internal/repository/booking"
	authsvc "mess-booking/internal/service/auth"
	bookingsvc "mess-booking/internal/service/booking"
	menusvc "mess-booking/internal/service/menu"
)

func logDiscard() *log.Logger {
	return log.New(io.Discard, "", 0)
}

type stubAuthSvc struct {
	user      *domain.User
	signupErr error
	loginErr  error
	lookupErr error
}

func (s *stubAuthSvc) Signup(_ context.Context, _ authsvc.SignupInput) (*domain.User, error) {
	return s.user, s.signupErr
}

func (s *stubAuthSvc) Login(_ context.Context, _, _ string) (*domain.User, string, error) {
	return s.user, "access-token", s.loginErr
}

func (s *stubAuthSvc) LookupByToken(_ context.Context, _ string) (*domain.User, error) {
	if s.lookupErr != nil {
		return nil, s.lookupErr
	}
	return s.user, nil
}

func (s *stubAuthSvc) AccessTTLSeconds() int { return 3600 }

type stubMenuSvc struct {
	items     []domain.MenuItem
	item      *domain.MenuItem
	err       error
	deleteErr error
}

func (s *stubMenuSvc) List(_ context.Context, _ string) ([]domain.MenuItem, error) {
	return s.items, s.err
}

func (s *stubMenuSvc) Get(_ context.Context, _ string) (*domain.MenuItem, error) {
	return s.item, s.err
}

func (s *stubMenuSvc) Create(_ context.Context, _ menusvc.CreateInput) (*domain.MenuItem, error) {
	return s.item, s.err
}

func (s *stubMenuSvc) Update(_ context.Context, _ string, _ menusvc.UpdateInput) (*domain.MenuItem, error) {
	return s.item, s.err
}

func (s *stubMenuSvc) Delete(_ context.Context, _ string) error { return s.deleteErr }

type stubCartSvc struct {
	engine        *cartengine.Engine
	selectionErrs domain.ValidationErrors
	incrementErr  error
	lastIncrement string
	lastDecrement string
	lastRemove    string
}

func (s *stubCartSvc) Engine(_ string) *cartengine.Engine {
	if s.engine == nil {
		s.engine = cartengine.New()
	}
	return s.engine
}

func (s *stubCartSvc) SetSelection(_, _, _ string) domain.ValidationErrors {
	return s.selectionErrs
}

func (s *stubCartSvc) Increment(_ context.Context, _, itemID string) error {
	s.lastIncrement = itemID
	return s.incrementErr
}

func (s *stubCartSvc) Decrement(_, itemID string) { s.lastDecrement = itemID }

func (s *stubCartSvc) Remove(_, itemID string) { s.lastRemove = itemID }

func (s *stubCartSvc) View(_ string) ([]domain.CartLine, domain.BookingSummary, bool) {
	eng := s.Engine("")
	return eng.Lines(), eng.Summary(), eng.ConfirmEnabled()
}

type stubBookingSvc struct {
	review     *bookingsvc.Review
	reviewErr  error
	booking    *domain.Booking
	confirmErr error
	bookings   []domain.Booking
	historyErr error
	cancelErr  error
	lastCancel string
	confirmed  bool
	stats      *bookingrepo.Stats
}

func (s *stubBookingSvc) Review(_ *cartengine.Engine) (*bookingsvc.Review, error) {
	return s.review, s.reviewErr
}

func (s *stubBookingSvc) Confirm(_ context.Context, _ string, _ *cartengine.Engine) (*domain.Booking, error) {
	return s.booking, s.confirmErr
}

func (s *stubBookingSvc) Get(_ context.Context, _, _ string) (*domain.Booking, error) {
	if s.booking == nil {
		return nil, domain.ErrNotFound
	}
	return s.booking, nil
}

func (s *stubBookingSvc) History(_ context.Context, _ string, _ bookingsvc.HistoryFilter) ([]domain.Booking, error) {
	return s.bookings, s.historyErr
}

func (s *stubBookingSvc) Cancel(_ context.Context, _, bookingID string, confirmed bool) error {
	s.lastCancel = bookingID
	s.confirmed = confirmed
	return s.cancelErr
}

func (s *stubBookingSvc) Stats(_ context.Context, _ string) (*bookingrepo.Stats, error) {
	return s.stats, nil
}

func testDeps() (Deps, *stubCartSvc, *stubBookingSvc) {
	carts := &stubCartSvc{}
	bookings := &stubBookingSvc{}
	deps := Deps{
		AuthSvc:    &stubAuthSvc{user: &domain.User{ID: "user-1", Email: "asha@mess.local"}},
		MenuSvc:    &stubMenuSvc{},
		CartSvc:    carts,
		BookingSvc: bookings,
	}
	return deps, carts, bookings
}

func doRequest(t *testing.T, deps Deps, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	gin.SetMode(gin.TestMode)
	router := buildRouter(logDiscard(), nil, deps)

	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer test-token")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestAuthMiddleware_MissingToken(t *testing.T) {
	gin.SetMode(gin.TestMode)
	deps, _, _ := testDeps()
	router := buildRouter(logDiscard(), nil, deps)

	req := httptest.NewRequest(http.MethodGet, "/cart", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}

func TestAuthMiddleware_InvalidToken(t *testing.T) {
	deps, _, _ := testDeps()
	deps.AuthSvc = &stubAuthSvc{lookupErr: authsvc.ErrInvalidToken}

	rec := doRequest(t, deps, http.MethodGet, "/cart", "")
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}

func TestSetSelection_ValidationErrors(t *testing.T) {
	deps, carts, _ := testDeps()
	carts.selectionErrs = domain.ValidationErrors{
		{Field: "date", Message: "cannot select past dates"},
		{Field: "mealType", Message: "please select a meal type"},
	}

	rec := doRequest(t, deps, http.MethodPut, "/cart/selection", `{"date":"2020-01-01","mealType":""}`)
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d body=%s", rec.Code, rec.Body.String())
	}
	if !strings.Contains(rec.Body.String(), "cannot select past dates") {
		t.Fatalf("expected date error in body: %s", rec.Body.String())
	}
}

func TestSetSelection_Success(t *testing.T) {
	deps, _, _ := testDeps()
	rec := doRequest(t, deps, http.MethodPut, "/cart/selection", `{"date":"2099-10-12","mealType":"lunch"}`)
	if rec.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d body=%s", rec.Code, rec.Body.String())
	}
}

func TestIncrementReturnsUpdatedCart(t *testing.T) {
	deps, carts, _ := testDeps()
	eng := carts.Engine("")
	eng.SetSelection("2099-10-12", "lunch")
	eng.Increment(domain.MenuItem{ID: "l1", Name: "Regular Thali", Price: decimal.NewFromInt(80)})

	rec := doRequest(t, deps, http.MethodPost, "/cart/items/l1/increment", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d body=%s", rec.Code, rec.Body.String())
	}
	if carts.lastIncrement != "l1" {
		t.Fatalf("expected increment of l1, got %q", carts.lastIncrement)
	}
	if !strings.Contains(rec.Body.String(), `"confirmEnabled":true`) {
		t.Fatalf("expected confirmEnabled true: %s", rec.Body.String())
	}
}

func TestConfirm_Created(t *testing.T) {
	deps, _, bookings := testDeps()
	bookings.booking = &domain.Booking{
		ID:     "bk-1",
		Date:   "2099-10-12",
		Meals:  []string{"Lunch"},
		Status: domain.BookingConfirmed,
		Total:  decimal.NewFromInt(189),
	}

	rec := doRequest(t, deps, http.MethodPost, "/bookings/confirm", "")
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d body=%s", rec.Code, rec.Body.String())
	}
	if !strings.Contains(rec.Body.String(), `"status":"confirmed"`) {
		t.Fatalf("unexpected body: %s", rec.Body.String())
	}
}

func TestConfirm_ValidationFailure(t *testing.T) {
	deps, _, bookings := testDeps()
	bookings.confirmErr = domain.ValidationErrors{
		{Field: "date", Message: "please select a date"},
		{Field: "mealType", Message: "please select a meal type"},
		{Field: "cart", Message: "please select at least one meal"},
	}

	rec := doRequest(t, deps, http.MethodPost, "/bookings/confirm", "")
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d", rec.Code)
	}
	for _, field := range []string{"date", "mealType", "cart"} {
		if !strings.Contains(rec.Body.String(), `"field":"`+field+`"`) {
			t.Fatalf("expected %s error in body: %s", field, rec.Body.String())
		}
	}
}

func TestConfirm_AlreadyInFlight(t *testing.T) {
	deps, _, bookings := testDeps()
	bookings.confirmErr = domain.ErrConfirmInFlight

	rec := doRequest(t, deps, http.MethodPost, "/bookings/confirm", "")
	if rec.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d", rec.Code)
	}
}

func TestHistory_RejectsMalformedDateFilter(t *testing.T) {
	deps, _, bookings := testDeps()
	bookings.historyErr = domain.ValidationErrors{
		{Field: "from", Message: "invalid date, expected YYYY-MM-DD"},
	}

	rec := doRequest(t, deps, http.MethodGet, "/bookings?from=whenever", "")
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `"field":"from"`) {
		t.Fatalf("expected field error in body: %s", rec.Body.String())
	}
}

func TestHistory_RepositoryFailureIsOpaque(t *testing.T) {
	deps, _, bookings := testDeps()
	bookings.historyErr = errors.New("pq: connection reset")

	rec := doRequest(t, deps, http.MethodGet, "/bookings", "")
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rec.Code)
	}
	if strings.Contains(rec.Body.String(), "connection reset") {
		t.Fatalf("internal error text must not leak: %s", rec.Body.String())
	}
}

func TestGetBooking_NotFound(t *testing.T) {
	deps, _, _ := testDeps()

	rec := doRequest(t, deps, http.MethodGet, "/bookings/missing", "")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}

func TestCancel_RequiresConfirmFlag(t *testing.T) {
	deps, _, bookings := testDeps()
	bookings.cancelErr = bookingsvc.ErrConfirmationRequired

	rec := doRequest(t, deps, http.MethodPost, "/bookings/bk-1/cancel", `{"confirm":false}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestCancel_Success(t *testing.T) {
	deps, _, bookings := testDeps()

	rec := doRequest(t, deps, http.MethodPost, "/bookings/bk-1/cancel", `{"confirm":true}`)
	if rec.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d body=%s", rec.Code, rec.Body.String())
	}
	if bookings.lastCancel != "bk-1" || !bookings.confirmed {
		t.Fatalf("cancel not delegated: id=%q confirmed=%v", bookings.lastCancel, bookings.confirmed)
	}
}

func TestCancel_NotFound(t *testing.T) {
	deps, _, bookings := testDeps()
	bookings.cancelErr = domain.ErrNotFound

	rec := doRequest(t, deps, http.MethodPost, "/bookings/missing/cancel", `{"confirm":true}`)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}

func TestGetMenuItem(t *testing.T) {
	deps, _, _ := testDeps()
	deps.MenuSvc = &stubMenuSvc{item: &domain.MenuItem{ID: "l1", Name: "Regular Thali"}}

	rec := doRequest(t, deps, http.MethodGet, "/menu/l1", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d body=%s", rec.Code, rec.Body.String())
	}
	if !strings.Contains(rec.Body.String(), "Regular Thali") {
		t.Fatalf("unexpected body: %s", rec.Body.String())
	}
}

func TestGetMenuItem_NotFound(t *testing.T) {
	deps, _, _ := testDeps()
	deps.MenuSvc = &stubMenuSvc{err: domain.ErrNotFound}

	rec := doRequest(t, deps, http.MethodGet, "/menu/zzz", "")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}

func TestListMenu_RequiresMealType(t *testing.T) {
	deps, _, _ := testDeps()
	rec := doRequest(t, deps, http.MethodGet, "/menu", "")
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestAdminRoutes_ForbiddenForRegularUser(t *testing.T) {
	deps, _, _ := testDeps()
	rec := doRequest(t, deps, http.MethodPost, "/admin/menu", `{"id":"x1","mealType":"lunch","name":"New Thali","price":"85"}`)
	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", rec.Code)
	}
}

func TestAdminRoutes_AllowedForAdmin(t *testing.T) {
	deps, _, _ := testDeps()
	deps.AuthSvc = &stubAuthSvc{user: &domain.User{ID: "admin-1", Admin: true}}
	deps.MenuSvc = &stubMenuSvc{item: &domain.MenuItem{ID: "x1", Name: "New Thali"}}

	rec := doRequest(t, deps, http.MethodPost, "/admin/menu", `{"id":"x1","mealType":"lunch","name":"New Thali","price":"85"}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d body=%s", rec.Code, rec.Body.String())
	}
}

func TestHealthz(t *testing.T) {
	gin.SetMode(gin.TestMode)
	deps, _, _ := testDeps()
	router := buildRouter(logDiscard(), nil, deps)

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}
