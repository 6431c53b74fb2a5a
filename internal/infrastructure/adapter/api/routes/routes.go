package routes

import (
	coreport "github.com/amirhossein-jamali/mpesa-gateway/internal/domain/port/core"
	"github.com/amirhossein-jamali/mpesa-gateway/internal/infrastructure/adapter/api/handler"
	"github.com/amirhossein-jamali/mpesa-gateway/internal/infrastructure/adapter/api/middleware"
	"github.com/gin-gonic/gin"
)

// SetupRoutes configures all the routes for the API
func SetupRoutes(
	router *gin.Engine,
	paymentHandler *handler.PaymentHandler,
	callbackHandler *handler.CallbackHandler,
) {
	// Payment routes
	paymentRoutes := router.Group("/payment")
	{
		// POST /payment
		paymentRoutes.POST("", paymentHandler.Checkout)

		// GET /payment/:checkoutRequestId/status
		paymentRoutes.GET("/:checkoutRequestId/status", paymentHandler.Status)
	}

	// Callback routes. The provider probes with GET before the first delivery
	// and posts settlement results afterwards.
	callbackRoutes := router.Group("/callback")
	{
		callbackRoutes.GET("", callbackHandler.Liveness)
		callbackRoutes.POST("", callbackHandler.Receive)
	}
}

// SetupMiddlewares configures global middlewares for the API
func SetupMiddlewares(router *gin.Engine, logger coreport.Logger) {
	// Apply middlewares in the correct order
	router.Use(middleware.ErrorHandler(logger))
	router.Use(middleware.Logger(logger))
}
