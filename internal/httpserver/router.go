package httpserver

import (
	"context"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"

	cartengine "mess-booking/internal/cart"
	"mess-booking/internal/domain"
	bookingrepo "mess-booking/internal/repository/booking"
	authsvc "mess-booking/internal/service/auth"
	bookingsvc "mess-booking/internal/service/booking"
	menusvc "mess-booking/internal/service/menu"
)

// Deps carries the services the router needs.
type Deps struct {
	AuthSvc    authService
	MenuSvc    menuService
	CartSvc    cartService
	BookingSvc bookingService
}

type authService interface {
	Signup(ctx context.Context, in authsvc.SignupInput) (*domain.User, error)
	Login(ctx context.Context, email, password string) (*domain.User, string, error)
	LookupByToken(ctx context.Context, token string) (*domain.User, error)
	AccessTTLSeconds() int
}

type menuService interface {
	List(ctx context.Context, mealType string) ([]domain.MenuItem, error)
	Get(ctx context.Context, id string) (*domain.MenuItem, error)
	Create(ctx context.Context, in menusvc.CreateInput) (*domain.MenuItem, error)
	Update(ctx context.Context, id string, in menusvc.UpdateInput) (*domain.MenuItem, error)
	Delete(ctx context.Context, id string) error
}

type cartService interface {
	Engine(sessionID string) *cartengine.Engine
	SetSelection(sessionID, date, mealType string) domain.ValidationErrors
	Increment(ctx context.Context, sessionID, itemID string) error
	Decrement(sessionID, itemID string)
	Remove(sessionID, itemID string)
	View(sessionID string) ([]domain.CartLine, domain.BookingSummary, bool)
}

type bookingService interface {
	Review(eng *cartengine.Engine) (*bookingsvc.Review, error)
	Confirm(ctx context.Context, userID string, eng *cartengine.Engine) (*domain.Booking, error)
	Get(ctx context.Context, userID, bookingID string) (*domain.Booking, error)
	History(ctx context.Context, userID string, filter bookingsvc.HistoryFilter) ([]domain.Booking, error)
	Cancel(ctx context.Context, userID, bookingID string, confirmed bool) error
	Stats(ctx context.Context, userID string) (*bookingrepo.Stats, error)
}

const userCtxKey = "authUser"

// buildRouter wires routes for the API.
func buildRouter(logger *log.Logger, db *pgxpool.Pool, deps Deps) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.LoggerWithWriter(logger.Writer()), gin.Recovery())

	corsCfg := cors.DefaultConfig()
	corsCfg.AllowAllOrigins = true
	corsCfg.AllowHeaders = append(corsCfg.AllowHeaders, "Authorization")
	router.Use(cors.New(corsCfg))

	router.GET("/healthz", healthHandler)
	router.GET("/readyz", readyHandler(db))

	router.POST("/auth/signup", signupHandler(deps.AuthSvc))
	router.POST("/auth/login", loginHandler(deps.AuthSvc))

	authed := router.Group("/", authMiddleware(deps.AuthSvc))
	{
		authed.GET("/menu", listMenuHandler(deps.MenuSvc))
		authed.GET("/menu/:id", getMenuItemHandler(deps.MenuSvc))

		authed.PUT("/cart/selection", setSelectionHandler(deps.CartSvc))
		authed.GET("/cart", viewCartHandler(deps.CartSvc))
		authed.GET("/cart/review", reviewHandler(deps.CartSvc, deps.BookingSvc))
		authed.POST("/cart/items/:id/increment", incrementHandler(deps.CartSvc))
		authed.POST("/cart/items/:id/decrement", decrementHandler(deps.CartSvc))
		authed.DELETE("/cart/items/:id", removeItemHandler(deps.CartSvc))

		authed.POST("/bookings/confirm", confirmHandler(deps.CartSvc, deps.BookingSvc))
		authed.GET("/bookings", historyHandler(deps.BookingSvc))
		authed.GET("/bookings/stats", statsHandler(deps.BookingSvc))
		authed.GET("/bookings/:id", getBookingHandler(deps.BookingSvc))
		authed.POST("/bookings/:id/cancel", cancelHandler(deps.BookingSvc))
	}

	admin := authed.Group("/admin", adminMiddleware())
	{
		admin.POST("/menu", createMenuItemHandler(deps.MenuSvc))
		admin.PUT("/menu/:id", updateMenuItemHandler(deps.MenuSvc))
		admin.DELETE("/menu/:id", deleteMenuItemHandler(deps.MenuSvc))
	}

	return router
}

// authMiddleware resolves the Bearer token to a user and stores it on the
// context for handlers.
func authMiddleware(svc authService) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		token := strings.TrimSpace(strings.TrimPrefix(header, "Bearer "))
		if header == "" || token == "" || token == header {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing bearer token"})
			return
		}
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()
		u, err := svc.LookupByToken(ctx, token)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			return
		}
		c.Set(userCtxKey, u)
		c.Next()
	}
}

func adminMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		u := currentUser(c)
		if u == nil || !u.Admin {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "admin only"})
			return
		}
		c.Next()
	}
}

func currentUser(c *gin.Context) *domain.User {
	v, ok := c.Get(userCtxKey)
	if !ok {
		return nil
	}
	u, _ := v.(*domain.User)
	return u
}
