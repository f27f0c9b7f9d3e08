package httpapi

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"telefeed/internal/common"
	"telefeed/internal/server/users"
)

type loginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type signupRequest struct {
	Name     string `json:"name" binding:"required"`
	Username string `json:"username" binding:"required,min=4,max=20"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
	Phone    string `json:"phone"`
}

func (s *Server) handleLogin(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		if fields, ok := fieldErrors(err); ok {
			c.JSON(http.StatusBadRequest, fields)
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request data"})
		return
	}

	result, err := s.users.Login(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		if errors.Is(err, common.ErrInvalidCredentials) {
			// one generic answer for unknown user and wrong password
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid credentials"})
			return
		}
		s.logger.Error(c.Request.Context(), "login failed", "username", req.Username, "error", err.Error())
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}

	s.logger.Info(c.Request.Context(), "login succeeded", "username", result.Username)

	c.JSON(http.StatusOK, gin.H{
		"token":    result.Token,
		"id":       result.ID,
		"username": result.Username,
		"email":    result.Email,
		"name":     result.Name,
	})
}

func (s *Server) handleSignup(c *gin.Context) {
	var req signupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		if fields, ok := fieldErrors(err); ok {
			c.JSON(http.StatusBadRequest, fields)
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request data"})
		return
	}

	user, err := s.users.Register(c.Request.Context(), users.RegisterParams{
		Name:     req.Name,
		Username: req.Username,
		Email:    req.Email,
		Password: req.Password,
		Phone:    req.Phone,
	})
	if err != nil {
		switch {
		case errors.Is(err, common.ErrUsernameTaken):
			c.JSON(http.StatusBadRequest, gin.H{"error": "username already in use", "type": "username_taken"})
		case errors.Is(err, common.ErrEmailTaken):
			c.JSON(http.StatusBadRequest, gin.H{"error": "email already in use", "type": "email_taken"})
		default:
			// detail stays in the server log, the client gets a generic answer
			s.logger.Error(c.Request.Context(), "signup failed", "username", req.Username, "error", err.Error())
			c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		}
		return
	}

	s.logger.Info(c.Request.Context(), "user registered", "id", user.ID, "username", user.Username)

	c.JSON(http.StatusCreated, gin.H{
		"message":  "user registered successfully",
		"username": user.Username,
		"email":    user.Email,
		"id":       user.ID,
	})
}
