package handlers

import (
	"net/http"

	"backoffice/internal/domain/models"
	"backoffice/internal/services"

	"github.com/gin-gonic/gin"
)

// GET /api/expenses?category=&startDate=&endDate=
func (h *Handler) ListExpenses(c *gin.Context) {
	var f services.ExpenseFilter
	if err := c.ShouldBindQuery(&f); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid query", err)
		return
	}
	c.JSON(http.StatusOK, h.expenses(c).List(f))
}

// POST /api/expenses
func (h *Handler) CreateExpense(c *gin.Context) {
	var in services.ExpenseInput
	if !BindJSONOrError(c, &in) {
		return
	}
	e, err := h.expenses(c).Create(c.Request.Context(), actor(c), in)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusCreated, e)
}

// DELETE /api/expenses/:id
func (h *Handler) DeleteExpense(c *gin.Context) {
	if err := h.expenses(c).Delete(c.Request.Context(), actor(c), c.Param("id")); err != nil {
		RespondDomainError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// GET /api/expense-categories
func (h *Handler) ListExpenseCategories(c *gin.Context) {
	c.JSON(http.StatusOK, h.expenses(c).Categories())
}

// POST /api/expense-categories
func (h *Handler) CreateExpenseCategory(c *gin.Context) {
	var cat models.ExpenseCategory
	if !BindJSONOrError(c, &cat) {
		return
	}
	cat.ID = ""
	h.saveCategory(c, cat, http.StatusCreated)
}

// PUT /api/expense-categories/:id
func (h *Handler) UpdateExpenseCategory(c *gin.Context) {
	var cat models.ExpenseCategory
	if !BindJSONOrError(c, &cat) {
		return
	}
	cat.ID = c.Param("id")
	h.saveCategory(c, cat, http.StatusOK)
}

func (h *Handler) saveCategory(c *gin.Context, cat models.ExpenseCategory, status int) {
	saved, err := h.expenses(c).SaveCategory(c.Request.Context(), actor(c), cat)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(status, saved)
}

// DELETE /api/expense-categories/:id
func (h *Handler) DeleteExpenseCategory(c *gin.Context) {
	if err := h.expenses(c).DeleteCategory(c.Request.Context(), actor(c), c.Param("id")); err != nil {
		RespondDomainError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
