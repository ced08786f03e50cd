package handlers

import (
	"net/http"

	"backoffice/internal/services"

	"github.com/gin-gonic/gin"
)

// GET /api/users
func (h *Handler) ListUsers(c *gin.Context) {
	c.JSON(http.StatusOK, h.users(c).List())
}

// POST /api/users
func (h *Handler) CreateUser(c *gin.Context) {
	var in services.UserInput
	if !BindJSONOrError(c, &in) {
		return
	}
	u, err := h.users(c).Create(c.Request.Context(), actor(c), in)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusCreated, u)
}

// PUT /api/users/:id
func (h *Handler) UpdateUser(c *gin.Context) {
	var in services.UserInput
	if !BindJSONOrError(c, &in) {
		return
	}
	u, err := h.users(c).Update(c.Request.Context(), actor(c), c.Param("id"), in)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, u)
}

// DELETE /api/users/:id
func (h *Handler) DeleteUser(c *gin.Context) {
	if err := h.users(c).Delete(c.Request.Context(), actor(c), c.Param("id")); err != nil {
		RespondDomainError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
