package routes

import (
	"github.com/m3rcey/crwn/handlers/posts"
	"github.com/m3rcey/crwn/handlers/posts/comment"
	"github.com/m3rcey/crwn/handlers/posts/likes"
	"github.com/m3rcey/crwn/middleware"

	"github.com/gin-gonic/gin"
)

func PostsRoutes(r *gin.Engine) {
	r.GET("/posts/:id", middleware.OptionalAuth(), posts.GetPostByID)
	r.GET("/posts/:id/comments", comment.GetCommentsByPostID)

	postsRoutes := r.Group("/posts")
	postsRoutes.Use(middleware.JWTAuth())
	{
		postsRoutes.POST("", posts.CreatePost)
		postsRoutes.DELETE("/:id", posts.DeletePost)

		postsRoutes.POST("/:id/like", likes.ToggleLike)
		postsRoutes.POST("/:id/comments", comment.CreateComment)
	}
}
