package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"

	"github.com/avoronov/devlink/internal/handlers"
	"github.com/avoronov/devlink/internal/middleware"
	"github.com/avoronov/devlink/pkg/auth"
)

func APIEndpoints(
	r *gin.Engine,
	jwtMgr *auth.JWTManager,
	rdb *redis.Client,
	authH *handlers.AuthHandler,
	profileH *handlers.ProfileHandler,
	postH *handlers.PostHandler,
) {
	authRequired := middleware.AuthMiddleware(jwtMgr, rdb)

	r.GET("/", func(c *gin.Context) {
		c.String(http.StatusOK, "server running")
	})

	api := r.Group("/api")
	{
		api.POST("/users", authH.Register)

		api.POST("/auth", authH.Login)
		api.GET("/auth", authRequired, authH.GetMe)
		api.POST("/auth/logout", authRequired, authH.Logout)

		profile := api.Group("/profile")
		{
			profile.GET("", profileH.GetAllProfiles)
			profile.POST("", authRequired, profileH.UpsertProfile)
			profile.DELETE("", authRequired, profileH.DeleteAccount)
			profile.GET("/me", authRequired, profileH.GetMyProfile)
			profile.GET("/user/:id", profileH.GetProfileByUserID)
			profile.PUT("/experience", authRequired, profileH.AddExperience)
			profile.DELETE("/experience/:id", authRequired, profileH.DeleteExperience)
			profile.PUT("/education", authRequired, profileH.AddEducation)
			profile.DELETE("/education/:id", authRequired, profileH.DeleteEducation)
			profile.GET("/github/:username", profileH.GetGithubRepos)
		}

		posts := api.Group("/posts", authRequired)
		{
			posts.POST("", postH.CreatePost)
			posts.GET("", postH.GetPosts)
			posts.GET("/:id", postH.GetPost)
			posts.DELETE("/:id", postH.DeletePost)
			posts.PUT("/like/:id", postH.LikePost)
			posts.PUT("/unlike/:id", postH.UnlikePost)
			posts.POST("/comment/:id", postH.AddComment)
			posts.DELETE("/comment/:id/:comment_id", postH.DeleteComment)
		}
	}
}
