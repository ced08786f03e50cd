package handlers

import (
	"net/http"
	"time"

	"backoffice/internal/domain"
	"backoffice/internal/http/middleware"
	"backoffice/internal/services"
	"backoffice/internal/store"

	"github.com/gin-gonic/gin"
)

// Handler carries what every endpoint needs. Services are value types built
// per request so they pick up the request id.
type Handler struct {
	Store    *store.Store
	Scanner  services.PassportExtractor
	Secret   []byte
	TokenTTL time.Duration
	Clock    services.Clock
}

// Authenticator verifies bearer tokens for middleware.RequireAuth.
func (h *Handler) Authenticator() services.AuthService {
	return services.AuthService{Store: h.Store, Secret: h.Secret, TTL: h.TokenTTL, Clock: h.Clock}
}

func (h *Handler) auth(c *gin.Context) services.AuthService {
	return services.AuthService{Store: h.Store, Secret: h.Secret, TTL: h.TokenTTL, Clock: h.Clock, RequestID: middleware.GetRequestID(c)}
}

func (h *Handler) users(c *gin.Context) services.UserService {
	return services.UserService{Store: h.Store, Clock: h.Clock, RequestID: middleware.GetRequestID(c)}
}

func (h *Handler) customers(c *gin.Context) services.CustomerService {
	return services.CustomerService{Store: h.Store, Scanner: h.Scanner, Clock: h.Clock, RequestID: middleware.GetRequestID(c)}
}

func (h *Handler) packages(c *gin.Context) services.PackageService {
	return services.PackageService{Store: h.Store, Clock: h.Clock, RequestID: middleware.GetRequestID(c)}
}

func (h *Handler) bookings(c *gin.Context) services.BookingService {
	return services.BookingService{Store: h.Store, Clock: h.Clock, RequestID: middleware.GetRequestID(c)}
}

func (h *Handler) payments(c *gin.Context) services.PaymentService {
	return services.PaymentService{Store: h.Store, Clock: h.Clock, RequestID: middleware.GetRequestID(c)}
}

func (h *Handler) expenses(c *gin.Context) services.ExpenseService {
	return services.ExpenseService{Store: h.Store, Clock: h.Clock, RequestID: middleware.GetRequestID(c)}
}

func (h *Handler) tasks(c *gin.Context) services.TaskService {
	return services.TaskService{Store: h.Store, Clock: h.Clock, RequestID: middleware.GetRequestID(c)}
}

func (h *Handler) activity(c *gin.Context) services.ActivityService {
	return services.ActivityService{Store: h.Store, Clock: h.Clock, RequestID: middleware.GetRequestID(c)}
}

func (h *Handler) docs(c *gin.Context) services.DocsService {
	return services.DocsService{Store: h.Store, Clock: h.Clock, RequestID: middleware.GetRequestID(c)}
}

func (h *Handler) sheets(c *gin.Context) services.SpreadsheetService {
	return services.SpreadsheetService{Store: h.Store, RequestID: middleware.GetRequestID(c)}
}

func (h *Handler) reports() services.ReportsService {
	return services.ReportsService{Store: h.Store, Clock: h.Clock}
}

func actor(c *gin.Context) domain.Actor {
	return middleware.GetActor(c)
}

// RespondError sends standard error payload with request_id included.
func RespondError(c *gin.Context, status int, message string, err error) {
	payload := gin.H{
		"error":      message,
		"request_id": middleware.GetRequestID(c),
	}
	if err != nil {
		payload["details"] = err.Error()
	}
	c.JSON(status, payload)
}

// BindJSONOrError ensures body is present and parsable.
func BindJSONOrError[T any](c *gin.Context, dst *T) bool {
	if c.Request.Body == nil || c.Request.ContentLength == 0 {
		RespondError(c, http.StatusBadRequest, "request body is empty", nil)
		return false
	}
	if err := c.ShouldBindJSON(dst); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid payload", err)
		return false
	}
	return true
}

// sendFile writes a generated document as an attachment.
func sendFile(c *gin.Context, contentType, filename string, data []byte) {
	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Data(http.StatusOK, contentType, data)
}

const (
	pdfContentType  = "application/pdf"
	xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)
