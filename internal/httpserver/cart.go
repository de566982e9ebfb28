package httpserver

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

type selectionRequest struct {
	Date     string `json:"date"`
	MealType string `json:"mealType"`
}

func setSelectionHandler(svc cartService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var in selectionRequest
		if err := c.ShouldBindJSON(&in); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
			return
		}
		u := currentUser(c)
		if errs := svc.SetSelection(u.ID, in.Date, in.MealType); len(errs) > 0 {
			c.JSON(http.StatusUnprocessableEntity, gin.H{"errors": errs})
			return
		}
		c.Status(http.StatusNoContent)
	}
}

func viewCartHandler(svc cartService) gin.HandlerFunc {
	return func(c *gin.Context) {
		u := currentUser(c)
		lines, summary, enabled := svc.View(u.ID)
		date, mealType := svc.Engine(u.ID).Selection()
		c.JSON(http.StatusOK, gin.H{
			"lines":          lines,
			"summary":        summary,
			"confirmEnabled": enabled,
			"date":           date,
			"mealType":       mealType,
		})
	}
}

func incrementHandler(svc cartService) gin.HandlerFunc {
	return func(c *gin.Context) {
		u := currentUser(c)
		if err := svc.Increment(c.Request.Context(), u.ID, c.Param("id")); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "catalog lookup failed"})
			return
		}
		lines, summary, enabled := svc.View(u.ID)
		c.JSON(http.StatusOK, gin.H{"lines": lines, "summary": summary, "confirmEnabled": enabled})
	}
}

func decrementHandler(svc cartService) gin.HandlerFunc {
	return func(c *gin.Context) {
		u := currentUser(c)
		svc.Decrement(u.ID, c.Param("id"))
		lines, summary, enabled := svc.View(u.ID)
		c.JSON(http.StatusOK, gin.H{"lines": lines, "summary": summary, "confirmEnabled": enabled})
	}
}

func removeItemHandler(svc cartService) gin.HandlerFunc {
	return func(c *gin.Context) {
		u := currentUser(c)
		svc.Remove(u.ID, c.Param("id"))
		lines, summary, enabled := svc.View(u.ID)
		c.JSON(http.StatusOK, gin.H{"lines": lines, "summary": summary, "confirmEnabled": enabled})
	}
}
