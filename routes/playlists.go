package routes

import (
	"github.com/m3rcey/crwn/handlers/playlists"
	"github.com/m3rcey/crwn/middleware"

	"github.com/gin-gonic/gin"
)

func PlaylistsRoutes(r *gin.Engine) {
	r.GET("/artists/:slug/playlists", playlists.GetArtistPlaylists)
	r.GET("/playlists/:id", middleware.OptionalAuth(), playlists.GetPlaylistByID)

	playlistRoutes := r.Group("/playlists")
	playlistRoutes.Use(middleware.JWTAuth())
	{
		playlistRoutes.POST("", playlists.CreatePlaylist)
		playlistRoutes.POST("/:id/tracks/:trackId", playlists.AddTrackToPlaylist)
	}
}
