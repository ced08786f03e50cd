package handlers

import (
	"net/http"

	"backoffice/internal/services"

	"github.com/gin-gonic/gin"
)

// GET /api/dashboard
func (h *Handler) Dashboard(c *gin.Context) {
	c.JSON(http.StatusOK, h.reports().Dashboard())
}

// GET /api/finance/summary
func (h *Handler) FinanceSummary(c *gin.Context) {
	c.JSON(http.StatusOK, h.reports().FinanceSummary())
}

// GET /api/reports/:type/pdf
func (h *Handler) ReportPDF(c *gin.Context) {
	kind := services.ReportType(c.Param("type"))
	if kind == services.ReportHotelRoomingList {
		RespondError(c, http.StatusBadRequest, "the rooming list is only available as a spreadsheet", nil)
		return
	}
	data, filename, err := h.docs(c).GenerateReport(kind)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	sendFile(c, pdfContentType, filename, data)
}

// GET /api/reports/:type/xlsx
func (h *Handler) ReportXLSX(c *gin.Context) {
	data, filename, err := h.sheets(c).Export(services.ReportType(c.Param("type")))
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	sendFile(c, xlsxContentType, filename, data)
}

// GET /api/reports/rooming-list?layout=roomLayout|guestList
func (h *Handler) RoomingList(c *gin.Context) {
	layout := services.RoomingLayout(c.DefaultQuery("layout", string(services.LayoutRoom)))
	data, filename, err := h.sheets(c).RoomingList(layout)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	sendFile(c, xlsxContentType, filename, data)
}

// GET /api/activity-log?user=&entity=&action=&limit=
func (h *Handler) ListActivity(c *gin.Context) {
	var f services.ActivityFilter
	if err := c.ShouldBindQuery(&f); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid query", err)
		return
	}
	svc := h.activity(c)
	c.JSON(http.StatusOK, gin.H{
		"entries": svc.List(f),
		"users":   svc.Users(),
	})
}
