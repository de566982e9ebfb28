package httpserver

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"mess-booking/internal/domain"
	authsvc "mess-booking/internal/service/auth"
)

type loginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

func signupHandler(svc authService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var in authsvc.SignupInput
		if err := c.ShouldBindJSON(&in); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
			return
		}
		u, err := svc.Signup(c.Request.Context(), in)
		if err != nil {
			if errors.Is(err, domain.ErrAlreadyExists) {
				c.JSON(http.StatusConflict, gin.H{"error": "email already registered"})
				return
			}
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusCreated, gin.H{"user": u})
	}
}

func loginHandler(svc authService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var in loginRequest
		if err := c.ShouldBindJSON(&in); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "email and password required"})
			return
		}
		u, token, err := svc.Login(c.Request.Context(), in.Email, in.Password)
		if err != nil {
			if errors.Is(err, authsvc.ErrInvalidCredentials) {
				c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid credentials"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "login failed"})
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"user":        u,
			"accessToken": token,
			"expiresIn":   svc.AccessTTLSeconds(),
		})
	}
}
