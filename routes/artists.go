package routes

import (
	"github.com/m3rcey/crwn/handlers/artists"
	"github.com/m3rcey/crwn/handlers/posts"
	"github.com/m3rcey/crwn/handlers/tracks"
	"github.com/m3rcey/crwn/middleware"

	"github.com/gin-gonic/gin"
)

func ArtistsRoutes(r *gin.Engine) {
	// Public routes; gated content routes accept an optional token so the
	// entitlement engine can tell viewers apart from anonymous visitors.
	r.GET("/artists", artists.GetAllArtists)
	r.GET("/artists/:slug", middleware.OptionalAuth(), artists.GetArtistBySlug)
	r.GET("/artists/:slug/tracks", middleware.OptionalAuth(), tracks.GetArtistTracks)
	r.GET("/artists/:slug/posts", middleware.OptionalAuth(), posts.GetArtistFeed)

	// Protected routes
	artistsRoutes := r.Group("/artists")
	artistsRoutes.Use(middleware.JWTAuth())
	{
		artistsRoutes.PUT("/me", artists.UpdateMyProfile)
		artistsRoutes.GET("/me/tiers", artists.GetMyTiers)
		artistsRoutes.POST("/me/tiers", artists.CreateMyTier)
	}
}
