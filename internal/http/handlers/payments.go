package handlers

import (
	"net/http"

	"backoffice/internal/services"

	"github.com/gin-gonic/gin"
)

// GET /api/payments?bookingId=&startDate=&endDate=
func (h *Handler) ListPayments(c *gin.Context) {
	var f services.PaymentFilter
	if err := c.ShouldBindQuery(&f); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid query", err)
		return
	}
	c.JSON(http.StatusOK, h.payments(c).List(f))
}

// POST /api/payments
func (h *Handler) CreatePayment(c *gin.Context) {
	var in services.PaymentInput
	if !BindJSONOrError(c, &in) {
		return
	}
	p, err := h.payments(c).Create(c.Request.Context(), actor(c), in)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusCreated, p)
}

// GET /api/payments/:id/receipt
func (h *Handler) PaymentReceipt(c *gin.Context) {
	data, filename, err := h.docs(c).GenerateReceipt(c.Param("id"))
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	sendFile(c, pdfContentType, filename, data)
}
