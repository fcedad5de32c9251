package router

import (
	"hashbridge/internal/authn"
	"hashbridge/internal/handlers"
	"hashbridge/internal/middleware"
	"hashbridge/internal/services"

	"github.com/gin-gonic/gin"
)

// Deps is everything the routes need. Comments and Likes may be nil when
// the database is not configured; the handlers then answer every call with
// the deterministic configuration error instead of crashing.
type Deps struct {
	Verifier authn.Verifier
	Comments *services.CommentService
	Likes    *services.LikeService
}

func RegisterRoutes(r *gin.Engine, deps Deps) {
	authHandler := handlers.NewAuthHandler()
	commentHandler := handlers.NewCommentHandler(deps.Comments)
	likeHandler := handlers.NewLikeHandler(deps.Likes)

	api := r.Group("/api")

	// Anonymous read paths.
	api.GET("/comments/:postId", commentHandler.List)
	api.GET("/posts/likes/:postId", middleware.LoadUser(deps.Verifier), likeHandler.Status)

	// Everything else requires a verified bearer token.
	authorized := api.Group("/")
	authorized.Use(middleware.AuthRequired(deps.Verifier))
	{
		authorized.GET("/auth/session", authHandler.Session)
		authorized.POST("/comments/create", commentHandler.Create)
		authorized.POST("/posts/like", likeHandler.Toggle)
	}
}
