package handler

import (
	"net/http"

	"bookhaven.id/bookreview/internal/modules/user/dto"
	user "bookhaven.id/bookreview/internal/modules/user/service"
	"bookhaven.id/bookreview/pkg/response"
	"bookhaven.id/bookreview/pkg/validator"
	"github.com/gin-gonic/gin"
)

type AuthHandler struct {
	service user.AuthService
}

func NewAuthHandler(service user.AuthService) *AuthHandler {
	return &AuthHandler{service: service}
}

func (h *AuthHandler) Register(c *gin.Context) {
	var input dto.RegisterInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": validator.FormatValidationError(err)})
		return
	}

	resp, err := h.service.Register(c.Request.Context(), input)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "registration successful",
		"token":   resp.Token,
		"user":    resp.User,
	})
}

func (h *AuthHandler) Login(c *gin.Context) {
	var input dto.LoginInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": validator.FormatValidationError(err)})
		return
	}

	resp, err := h.service.Login(c.Request.Context(), input)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "login successful",
		"token":   resp.Token,
		"user":    resp.User,
	})
}

func (h *AuthHandler) GetProfile(c *gin.Context) {
	claims, err := response.GetClaims(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	profile, err := h.service.GetProfile(c.Request.Context(), claims.UserID)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"user": profile})
}

func (h *AuthHandler) UpdateProfile(c *gin.Context) {
	claims, err := response.GetClaims(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	var input dto.UpdateProfileInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": validator.FormatValidationError(err)})
		return
	}

	profile, err := h.service.UpdateProfile(c.Request.Context(), claims.UserID, input)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "profile updated",
		"user":    profile,
	})
}
