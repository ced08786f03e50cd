package api

import (
	stdhttp "net/http"

	intconfig "backoffice/internal/config"
	"backoffice/internal/domain/models"
	h "backoffice/internal/http/handlers"
	"backoffice/internal/http/middleware"
	"backoffice/internal/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const (
	admin   = models.RoleAdmin
	manager = models.RoleManager
)

func NewRouter(env intconfig.Env, hd *h.Handler) *gin.Engine {
	r := gin.New()
	r.Use(middleware.RequestID(), middleware.Logger(), gin.Recovery(), middleware.CORS(env.AllowedOrigins()))
	r.MaxMultipartMemory = 12 << 20

	if err := r.SetTrustedProxies(nil); err != nil {
		utils.Logger().Warn("failed to set trusted proxies", zap.Error(err))
	}

	r.NoRoute(func(c *gin.Context) {
		c.JSON(stdhttp.StatusNotFound, gin.H{
			"error":  "route not found",
			"path":   c.Request.URL.Path,
			"method": c.Request.Method,
		})
	})

	loginLimiter := middleware.NewIPRateLimiter(env.LoginRatePerMin, 5)

	api := r.Group("/api")
	api.GET("/health", hd.Health)
	api.POST("/auth/login", loginLimiter.Middleware(), hd.Login)

	authed := api.Group("", middleware.RequireAuth(hd.Authenticator()))
	{
		authed.GET("/auth/me", hd.Me)
		authed.PUT("/profile/password", hd.ChangePassword)
		authed.GET("/routes", middleware.RequireRoles(admin), h.Routes)

		// Customers
		customers := authed.Group("/customers")
		customers.GET("", hd.ListCustomers)
		customers.POST("", hd.CreateCustomer)
		customers.POST("/passport-scan", hd.ScanPassport)
		customers.GET("/:id", hd.GetCustomer)
		customers.PUT("/:id", hd.UpdateCustomer)
		customers.DELETE("/:id", middleware.RequireRoles(admin), hd.DeleteCustomer)
		customers.POST("/:id/documents", hd.AddCustomerDocument)
		customers.DELETE("/:id/documents/:docId", hd.DeleteCustomerDocument)

		// Packages
		packages := authed.Group("/packages")
		packages.GET("", hd.ListPackages)
		packages.POST("", hd.CreatePackage)
		packages.GET("/:id", hd.GetPackage)
		packages.PUT("/:id", hd.UpdatePackage)
		packages.DELETE("/:id", middleware.RequireRoles(admin), hd.DeletePackage)

		// Bookings
		bookings := authed.Group("/bookings")
		bookings.GET("", hd.ListBookings)
		bookings.POST("", hd.CreateBooking)
		bookings.POST("/validate", hd.ValidateBooking)
		bookings.GET("/:id", hd.GetBooking)
		bookings.PUT("/:id", hd.UpdateBooking)
		bookings.DELETE("/:id", middleware.RequireRoles(admin), hd.DeleteBooking)
		bookings.GET("/:id/financials", hd.BookingFinancials)
		bookings.GET("/:id/invoice", hd.BookingInvoice)

		// Tasks
		tasks := authed.Group("/tasks")
		tasks.GET("", hd.ListTasks)
		tasks.POST("", hd.CreateTask)
		tasks.PUT("/:id", hd.UpdateTask)
		tasks.POST("/:id/toggle", hd.ToggleTask)
		tasks.DELETE("/:id", middleware.RequireRoles(admin, manager), hd.DeleteTask)

		authed.GET("/dashboard", hd.Dashboard)

		// Money: payments, expenses, finance
		adminOnly := authed.Group("", middleware.RequireRoles(admin))
		adminOnly.GET("/payments", hd.ListPayments)
		adminOnly.POST("/payments", hd.CreatePayment)
		adminOnly.GET("/payments/:id/receipt", hd.PaymentReceipt)
		adminOnly.GET("/expenses", hd.ListExpenses)
		adminOnly.POST("/expenses", hd.CreateExpense)
		adminOnly.DELETE("/expenses/:id", hd.DeleteExpense)
		adminOnly.GET("/finance/summary", hd.FinanceSummary)

		categories := authed.Group("/expense-categories", middleware.RequireRoles(admin, manager))
		categories.GET("", hd.ListExpenseCategories)
		categories.POST("", hd.CreateExpenseCategory)
		categories.PUT("/:id", hd.UpdateExpenseCategory)
		categories.DELETE("/:id", hd.DeleteExpenseCategory)

		// Users and audit trail
		adminOnly.GET("/users", hd.ListUsers)
		adminOnly.POST("/users", hd.CreateUser)
		adminOnly.PUT("/users/:id", hd.UpdateUser)
		adminOnly.DELETE("/users/:id", hd.DeleteUser)
		adminOnly.GET("/activity-log", hd.ListActivity)

		// Reports
		adminOnly.GET("/reports/rooming-list", hd.RoomingList)
		adminOnly.GET("/reports/:type/pdf", hd.ReportPDF)
		adminOnly.GET("/reports/:type/xlsx", hd.ReportXLSX)
	}

	h.SetRouter(r)
	return r
}
