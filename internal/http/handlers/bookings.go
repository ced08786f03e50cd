package handlers

import (
	"net/http"

	"backoffice/internal/rules"
	"backoffice/internal/services"

	"github.com/gin-gonic/gin"
)

// GET /api/bookings?search=&status=&packageType=&startDate=&endDate=
func (h *Handler) ListBookings(c *gin.Context) {
	var f services.BookingFilter
	if err := c.ShouldBindQuery(&f); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid query", err)
		return
	}
	c.JSON(http.StatusOK, h.bookings(c).List(f))
}

// GET /api/bookings/:id
func (h *Handler) GetBooking(c *gin.Context) {
	v, err := h.bookings(c).Get(c.Param("id"))
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, v)
}

// POST /api/bookings
func (h *Handler) CreateBooking(c *gin.Context) {
	var d rules.BookingDraft
	if !BindJSONOrError(c, &d) {
		return
	}
	d.ID = ""
	h.saveBooking(c, d, http.StatusCreated)
}

// PUT /api/bookings/:id
func (h *Handler) UpdateBooking(c *gin.Context) {
	var d rules.BookingDraft
	if !BindJSONOrError(c, &d) {
		return
	}
	d.ID = c.Param("id")
	h.saveBooking(c, d, http.StatusOK)
}

func (h *Handler) saveBooking(c *gin.Context, d rules.BookingDraft, status int) {
	b, err := h.bookings(c).Save(c.Request.Context(), actor(c), d)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(status, b)
}

// POST /api/bookings/validate runs the rule engine without saving.
func (h *Handler) ValidateBooking(c *gin.Context) {
	var d rules.BookingDraft
	if !BindJSONOrError(c, &d) {
		return
	}
	b, err := h.bookings(c).Validate(d)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, b)
}

// DELETE /api/bookings/:id
func (h *Handler) DeleteBooking(c *gin.Context) {
	if err := h.bookings(c).Delete(c.Request.Context(), actor(c), c.Param("id")); err != nil {
		RespondDomainError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// GET /api/bookings/:id/financials
func (h *Handler) BookingFinancials(c *gin.Context) {
	p, err := h.bookings(c).Financials(c.Param("id"))
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, p)
}

// GET /api/bookings/:id/invoice
func (h *Handler) BookingInvoice(c *gin.Context) {
	data, filename, err := h.docs(c).GenerateInvoice(c.Param("id"))
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	sendFile(c, pdfContentType, filename, data)
}
