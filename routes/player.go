package routes

import (
	"github.com/m3rcey/crwn/handlers/player"
	"github.com/m3rcey/crwn/middleware"

	"github.com/gin-gonic/gin"
)

func PlayerRoutes(r *gin.Engine) {
	playerRoutes := r.Group("/player")
	playerRoutes.Use(middleware.JWTAuth())
	{
		playerRoutes.GET("/favorites", player.GetFavorites)
		playerRoutes.POST("/favorites/:trackId", player.ToggleFavorite)
	}
}
