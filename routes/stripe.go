package routes

import (
	"github.com/m3rcey/crwn/handlers/stripe"
	"github.com/m3rcey/crwn/middleware"

	"github.com/gin-gonic/gin"
)

func StripeRoutes(r *gin.Engine) {
	subscriptionRoutes := r.Group("/subscriptions")
	subscriptionRoutes.Use(middleware.JWTAuth())
	{
		subscriptionRoutes.POST("/checkout/:artistId", stripe.CreateSubscriptionCheckoutSession)
		subscriptionRoutes.DELETE("/:subscriptionId", stripe.CancelSubscription)
		subscriptionRoutes.GET("", stripe.GetUserSubscriptions)
		subscriptionRoutes.GET("/revenue", middleware.AdminAuth(), stripe.GetTotalRevenue)
		subscriptionRoutes.GET("/top-artists", middleware.AdminAuth(), stripe.GetTopArtists)
		subscriptionRoutes.GET("/:subscriptionId", stripe.GetSubscriptionDetail)
	}
	r.POST("/stripe/webhook", stripe.StripeWebhookHandler)
}
