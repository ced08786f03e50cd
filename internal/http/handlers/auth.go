package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

type loginRequest struct {
	ID       string `json:"id" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// POST /api/auth/login
func (h *Handler) Login(c *gin.Context) {
	var req loginRequest
	if !BindJSONOrError(c, &req) {
		return
	}
	res, err := h.auth(c).Login(req.ID, req.Password)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

// GET /api/auth/me
func (h *Handler) Me(c *gin.Context) {
	u, err := h.users(c).Get(actor(c).UserID)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, u)
}

type changePasswordRequest struct {
	CurrentPassword string `json:"currentPassword"`
	NewPassword     string `json:"newPassword"`
	ConfirmPassword string `json:"confirmPassword"`
}

// PUT /api/profile/password
func (h *Handler) ChangePassword(c *gin.Context) {
	var req changePasswordRequest
	if !BindJSONOrError(c, &req) {
		return
	}
	err := h.auth(c).ChangePassword(c.Request.Context(), actor(c), req.CurrentPassword, req.NewPassword, req.ConfirmPassword)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "password updated"})
}
