package app

import (
	"github.com/gin-gonic/gin"
	"github.com/newrelic/go-agent/v3/integrations/nrgin"
	"github.com/newrelic/go-agent/v3/newrelic"
	"github.com/redis/go-redis/v9"

	"taxi/internal/handler"
	"taxi/internal/middleware"
	"taxi/internal/service"
)

// RouterDeps contains all dependencies needed for the router.
type RouterDeps struct {
	FareHandler    *handler.FareHandler
	BookingHandler *handler.BookingHandler
	PaymentHandler *handler.PaymentHandler
	AdminHandler   *handler.AdminHandler
	AuthHandler    *handler.AuthHandler
	AuthService    *service.AdminAuthService
	RedisClient    *redis.Client
	NewRelicApp    *newrelic.Application
}

// NewRouter creates a new Gin router with all routes registered.
func NewRouter(deps RouterDeps) *gin.Engine {
	router := gin.New()

	// Global middleware.
	router.Use(gin.Recovery())
	router.Use(gin.Logger())
	router.Use(middleware.CORSMiddleware())

	// Add New Relic middleware if enabled.
	if deps.NewRelicApp != nil {
		router.Use(nrgin.Middleware(deps.NewRelicApp))
	}

	router.Use(middleware.IdempotencyMiddleware(deps.RedisClient))

	// Health check.
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	// Fare quotes.
	router.POST("/calculate-price", deps.FareHandler.CalculatePrice)

	// Bookings.
	bookings := router.Group("/bookings")
	{
		bookings.POST("", deps.BookingHandler.CreateBooking)
		bookings.GET("", deps.BookingHandler.ListBookings)
		bookings.GET("/:id", deps.BookingHandler.GetBooking)
	}

	// Payments (customer-facing).
	payments := router.Group("/payments")
	{
		payments.POST("/initiate", deps.PaymentHandler.InitiatePayment)
		payments.POST("/webhook", deps.PaymentHandler.GatewayWebhook)
	}

	// Admin login and password reset.
	auth := router.Group("/auth/admin")
	{
		auth.POST("/login", deps.AuthHandler.AdminLogin)
		auth.POST("/password-reset/request", deps.AuthHandler.RequestPasswordReset)
		auth.POST("/password-reset/verify", deps.AuthHandler.VerifyPasswordReset)
		auth.POST("/password-reset/complete", deps.AuthHandler.CompletePasswordReset)
	}

	// Admin routes, bearer token required.
	adminAuth := middleware.AdminAuthMiddleware(deps.AuthService)

	router.PUT("/bookings/:id/status", adminAuth, deps.BookingHandler.UpdateBookingStatus)

	admin := router.Group("/admin", adminAuth)
	{
		admin.GET("/payments", deps.AdminHandler.ListPayments)
		admin.POST("/payments/:id/capture", deps.AdminHandler.CapturePayment)
		admin.POST("/payments/:id/cancel", deps.AdminHandler.CancelPayment)
		admin.GET("/bookings/:id/payments", deps.AdminHandler.ListPaymentsByBooking)
	}

	return router
}
