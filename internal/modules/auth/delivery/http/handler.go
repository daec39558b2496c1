package handler

import (
	"net/http"

	"anoa.com/mediannsp/internal/modules/auth/dto"
	auth "anoa.com/mediannsp/internal/modules/auth/service"
	"anoa.com/mediannsp/pkg/response"
	"github.com/gin-gonic/gin"
)

type AuthHandler struct {
	service auth.AuthService
}

func NewAuthHandler(service auth.AuthService) *AuthHandler {
	return &AuthHandler{service: service}
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Username and password are required"})
		return
	}

	res, err := h.service.Login(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

// Logout is stateless; clients drop the token.
func (h *AuthHandler) Logout(c *gin.Context) {
	response.Message(c, "Logged out successfully")
}

func (h *AuthHandler) Refresh(c *gin.Context) {
	c.JSON(http.StatusUnauthorized, gin.H{"error": "Refresh token not implemented"})
}

func (h *AuthHandler) Register(rg gin.IRoutes) {
	rg.POST("/login", h.Login)
	rg.POST("/logout", h.Logout)
	rg.POST("/refresh", h.Refresh)
}
