package routes

import (
	"github.com/m3rcey/crwn/handlers/stripe"
	"github.com/m3rcey/crwn/handlers/tracks"
	"github.com/m3rcey/crwn/middleware"

	"github.com/gin-gonic/gin"
)

func TracksRoutes(r *gin.Engine) {
	r.GET("/tracks/:id", middleware.OptionalAuth(), tracks.GetTrackByID)
	r.GET("/tracks/:id/stream", middleware.OptionalAuth(), tracks.StreamTrack)

	tracksRoutes := r.Group("/tracks")
	tracksRoutes.Use(middleware.JWTAuth())
	{
		tracksRoutes.POST("", tracks.CreateTrack)
		tracksRoutes.DELETE("/:id", tracks.DeleteTrack)
		tracksRoutes.POST("/:id/purchase", stripe.CreateTrackPurchaseSession)
	}
}
