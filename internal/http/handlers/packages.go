package handlers

import (
	"net/http"

	"backoffice/internal/domain/models"
	"backoffice/internal/services"

	"github.com/gin-gonic/gin"
)

// GET /api/packages?search=&type=
func (h *Handler) ListPackages(c *gin.Context) {
	var f services.PackageFilter
	if err := c.ShouldBindQuery(&f); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid query", err)
		return
	}
	c.JSON(http.StatusOK, h.packages(c).List(f))
}

// GET /api/packages/:id
func (h *Handler) GetPackage(c *gin.Context) {
	p, err := h.packages(c).Get(c.Param("id"))
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, p)
}

// POST /api/packages
func (h *Handler) CreatePackage(c *gin.Context) {
	var p models.Package
	if !BindJSONOrError(c, &p) {
		return
	}
	p.ID = ""
	h.savePackage(c, p, http.StatusCreated)
}

// PUT /api/packages/:id
func (h *Handler) UpdatePackage(c *gin.Context) {
	var p models.Package
	if !BindJSONOrError(c, &p) {
		return
	}
	p.ID = c.Param("id")
	h.savePackage(c, p, http.StatusOK)
}

func (h *Handler) savePackage(c *gin.Context, p models.Package, status int) {
	saved, err := h.packages(c).Save(c.Request.Context(), actor(c), p)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(status, saved)
}

// DELETE /api/packages/:id
func (h *Handler) DeletePackage(c *gin.Context) {
	if err := h.packages(c).Delete(c.Request.Context(), actor(c), c.Param("id")); err != nil {
		RespondDomainError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
