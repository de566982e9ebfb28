package httpserver

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"mess-booking/internal/domain"
	bookingsvc "mess-booking/internal/service/booking"
)

func reviewHandler(carts cartService, bookings bookingService) gin.HandlerFunc {
	return func(c *gin.Context) {
		u := currentUser(c)
		review, err := bookings.Review(carts.Engine(u.ID))
		if err != nil {
			var errs domain.ValidationErrors
			if errors.As(err, &errs) {
				c.JSON(http.StatusUnprocessableEntity, gin.H{"errors": errs})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "review failed"})
			return
		}
		c.JSON(http.StatusOK, review)
	}
}

func confirmHandler(carts cartService, bookings bookingService) gin.HandlerFunc {
	return func(c *gin.Context) {
		u := currentUser(c)
		booking, err := bookings.Confirm(c.Request.Context(), u.ID, carts.Engine(u.ID))
		if err != nil {
			var errs domain.ValidationErrors
			switch {
			case errors.As(err, &errs):
				c.JSON(http.StatusUnprocessableEntity, gin.H{"errors": errs})
			case errors.Is(err, domain.ErrConfirmInFlight):
				c.JSON(http.StatusConflict, gin.H{"error": "confirmation already in progress"})
			default:
				c.JSON(http.StatusBadGateway, gin.H{"error": "booking submission failed, please retry"})
			}
			return
		}
		c.JSON(http.StatusCreated, booking)
	}
}

func historyHandler(svc bookingService) gin.HandlerFunc {
	return func(c *gin.Context) {
		u := currentUser(c)
		bookings, err := svc.History(c.Request.Context(), u.ID, bookingsvc.HistoryFilter{
			Status:   c.Query("status"),
			MealType: c.Query("mealType"),
			FromDate: c.Query("from"),
			ToDate:   c.Query("to"),
		})
		if err != nil {
			var errs domain.ValidationErrors
			if errors.As(err, &errs) {
				c.JSON(http.StatusBadRequest, gin.H{"errors": errs})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "history failed"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"bookings": bookings})
	}
}

func getBookingHandler(svc bookingService) gin.HandlerFunc {
	return func(c *gin.Context) {
		u := currentUser(c)
		booking, err := svc.Get(c.Request.Context(), u.ID, c.Param("id"))
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "booking not found"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "lookup failed"})
			return
		}
		c.JSON(http.StatusOK, booking)
	}
}

func statsHandler(svc bookingService) gin.HandlerFunc {
	return func(c *gin.Context) {
		u := currentUser(c)
		stats, err := svc.Stats(c.Request.Context(), u.ID)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "stats failed"})
			return
		}
		c.JSON(http.StatusOK, stats)
	}
}

type cancelRequest struct {
	Confirm bool `json:"confirm"`
}

func cancelHandler(svc bookingService) gin.HandlerFunc {
	return func(c *gin.Context) {
		u := currentUser(c)
		var in cancelRequest
		if err := c.ShouldBindJSON(&in); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
			return
		}
		err := svc.Cancel(c.Request.Context(), u.ID, c.Param("id"), in.Confirm)
		if err != nil {
			switch {
			case errors.Is(err, bookingsvc.ErrConfirmationRequired):
				c.JSON(http.StatusBadRequest, gin.H{"error": "cancellation must be confirmed"})
			case errors.Is(err, domain.ErrNotFound):
				c.JSON(http.StatusNotFound, gin.H{"error": "booking not found"})
			default:
				c.JSON(http.StatusInternalServerError, gin.H{"error": "cancel failed"})
			}
			return
		}
		c.Status(http.StatusNoContent)
	}
}
