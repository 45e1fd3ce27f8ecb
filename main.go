package main

import (
	"log"

	"github.com/m3rcey/crwn/db"
	_ "github.com/m3rcey/crwn/docs"
	"github.com/m3rcey/crwn/routes"
	"github.com/m3rcey/crwn/utils"

	"github.com/gin-gonic/gin"
)

// @title CRWN API
// @version 1.0
// @description Fan-subscription platform for music artists: profiles, gated track catalogs, tiered subscriptions and a community feed.
// @host localhost:8080
// @BasePath /
// @SecurityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Enter the JWT with the Bearer prefix: Bearer <JWT>
func main() {

	gin.SetMode(gin.ReleaseMode)

	db.InitDB()

	if err := utils.InitCloudinary(); err != nil {
		log.Printf("Warning: Cloudinary initialization failed: %v", err)
		log.Println("Image uploads will not work correctly.")
	}

	r := routes.SetupRouter()

	if err := r.Run(":8080"); err != nil {
		log.Fatal("Error starting the server:", err)
	}
}
