package rest

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/imagevault/imagevault/api"
	"github.com/imagevault/imagevault/internal/auth"
	"github.com/imagevault/imagevault/users"
)

type AuthHandler struct {
	users  *users.Service
	tokens *auth.Manager
}

// Login handles POST /auth/v1/login
func (h *AuthHandler) Login(c *gin.Context) {
	var req api.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	u, err := h.users.Authenticate(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid credentials"})
		return
	}

	token, err := h.tokens.Issue(u)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, api.LoginResponse{
		Token:    token,
		Username: u.Username,
		Role:     u.Role,
	})
}

// CreateUser handles POST /auth/v1/users
func (h *AuthHandler) CreateUser(c *gin.Context) {
	if !users.CanManageUsers(auth.CurrentRole(c)) {
		c.JSON(http.StatusForbidden, gin.H{"error": "only administrators can create users"})
		return
	}

	var req api.CreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	u, err := h.users.Create(c.Request.Context(), req.Username, req.Password, req.Role)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, api.UserResponse{
		ID:       u.ID,
		Username: u.Username,
		Role:     u.Role,
	})
}
