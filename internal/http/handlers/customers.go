package handlers

import (
	"io"
	"net/http"

	"backoffice/internal/rules"
	"backoffice/internal/services"

	"github.com/gin-gonic/gin"
)

const maxPassportImage = 10 << 20

// GET /api/customers?search=&startDate=&endDate=
func (h *Handler) ListCustomers(c *gin.Context) {
	var f services.CustomerFilter
	if err := c.ShouldBindQuery(&f); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid query", err)
		return
	}
	c.JSON(http.StatusOK, h.customers(c).List(f))
}

// GET /api/customers/:id
func (h *Handler) GetCustomer(c *gin.Context) {
	cu, err := h.customers(c).Get(c.Param("id"))
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, cu)
}

// POST /api/customers
func (h *Handler) CreateCustomer(c *gin.Context) {
	var d rules.CustomerDraft
	if !BindJSONOrError(c, &d) {
		return
	}
	d.ID = ""
	h.saveCustomer(c, d, http.StatusCreated)
}

// PUT /api/customers/:id
func (h *Handler) UpdateCustomer(c *gin.Context) {
	var d rules.CustomerDraft
	if !BindJSONOrError(c, &d) {
		return
	}
	d.ID = c.Param("id")
	h.saveCustomer(c, d, http.StatusOK)
}

func (h *Handler) saveCustomer(c *gin.Context, d rules.CustomerDraft, status int) {
	cu, err := h.customers(c).Save(c.Request.Context(), actor(c), d)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(status, cu)
}

// DELETE /api/customers/:id
func (h *Handler) DeleteCustomer(c *gin.Context) {
	if err := h.customers(c).Delete(c.Request.Context(), actor(c), c.Param("id")); err != nil {
		RespondDomainError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// POST /api/customers/:id/documents
func (h *Handler) AddCustomerDocument(c *gin.Context) {
	var in services.DocumentInput
	if !BindJSONOrError(c, &in) {
		return
	}
	doc, err := h.customers(c).AddDocument(c.Request.Context(), actor(c), c.Param("id"), in)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusCreated, doc)
}

// DELETE /api/customers/:id/documents/:docId
func (h *Handler) DeleteCustomerDocument(c *gin.Context) {
	err := h.customers(c).DeleteDocument(c.Request.Context(), actor(c), c.Param("id"), c.Param("docId"))
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// POST /api/customers/passport-scan (multipart field "file")
func (h *Handler) ScanPassport(c *gin.Context) {
	fh, err := c.FormFile("file")
	if err != nil {
		RespondError(c, http.StatusBadRequest, "file is required", err)
		return
	}
	if fh.Size > maxPassportImage {
		RespondError(c, http.StatusRequestEntityTooLarge, "image is larger than 10MB", nil)
		return
	}
	f, err := fh.Open()
	if err != nil {
		RespondError(c, http.StatusBadRequest, "cannot read upload", err)
		return
	}
	defer f.Close()
	image, err := io.ReadAll(io.LimitReader(f, maxPassportImage))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "cannot read upload", err)
		return
	}

	data, err := h.customers(c).ScanPassport(c.Request.Context(), image, fh.Header.Get("Content-Type"))
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, data)
}
