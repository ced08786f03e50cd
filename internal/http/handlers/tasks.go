package handlers

import (
	"net/http"

	"backoffice/internal/domain/models"
	"backoffice/internal/services"

	"github.com/gin-gonic/gin"
)

// GET /api/tasks?status=all|completed|incomplete&priority=
func (h *Handler) ListTasks(c *gin.Context) {
	var f services.TaskFilter
	if err := c.ShouldBindQuery(&f); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid query", err)
		return
	}
	c.JSON(http.StatusOK, h.tasks(c).List(f))
}

// POST /api/tasks
func (h *Handler) CreateTask(c *gin.Context) {
	var t models.Task
	if !BindJSONOrError(c, &t) {
		return
	}
	t.ID = ""
	h.saveTask(c, t, http.StatusCreated)
}

// PUT /api/tasks/:id
func (h *Handler) UpdateTask(c *gin.Context) {
	var t models.Task
	if !BindJSONOrError(c, &t) {
		return
	}
	t.ID = c.Param("id")
	h.saveTask(c, t, http.StatusOK)
}

func (h *Handler) saveTask(c *gin.Context, t models.Task, status int) {
	saved, err := h.tasks(c).Save(c.Request.Context(), actor(c), t)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(status, saved)
}

// POST /api/tasks/:id/toggle
func (h *Handler) ToggleTask(c *gin.Context) {
	t, err := h.tasks(c).Toggle(c.Request.Context(), actor(c), c.Param("id"))
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, t)
}

// DELETE /api/tasks/:id
func (h *Handler) DeleteTask(c *gin.Context) {
	if err := h.tasks(c).Delete(c.Request.Context(), actor(c), c.Param("id")); err != nil {
		RespondDomainError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
