package routes

import (
	coreport "github.com/donkey-king-kong/CTGHackathon-25-Team11-sub001/internal/domain/port/core"
	"github.com/donkey-king-kong/CTGHackathon-25-Team11-sub001/internal/infrastructure/adapter/api/handler"
	"github.com/donkey-king-kong/CTGHackathon-25-Team11-sub001/internal/infrastructure/adapter/api/middleware"
	"github.com/gin-gonic/gin"
)

// SetupRoutes configures all the routes for the API
func SetupRoutes(
	router *gin.Engine,
	donationHandler *handler.DonationHandler,
	reconciliationHandler *handler.ReconciliationHandler,
) {
	router.GET("/healthz", handler.Health)

	// Donation intake and read surface
	donationRoutes := router.Group("/donations")
	{
		donationRoutes.POST("", donationHandler.CreateDonation)
		donationRoutes.GET("", donationHandler.ListDonations)
		donationRoutes.GET("/:id", donationHandler.GetDonation)
	}

	// Reconciliation entry points: donor redirects and the async webhook
	paymentRoutes := router.Group("/payments")
	{
		paymentRoutes.GET("/success", reconciliationHandler.PaymentSucceeded)
		paymentRoutes.GET("/cancel", reconciliationHandler.PaymentCancelled)
	}
	router.POST("/webhooks/payment", reconciliationHandler.HandleWebhook)
}

// SetupMiddlewares configures global middlewares for the API
func SetupMiddlewares(router *gin.Engine, logger coreport.Logger) {
	router.Use(middleware.ErrorHandler(logger))
	router.Use(middleware.Logger(logger))
	router.Use(middleware.CORS())
}
