package httptransport

import (
	"log/slog"

	"github.com/gin-gonic/gin"
	"github.com/moodsapp/moods-server/internal/token"
	"github.com/moodsapp/moods-server/internal/transport/http/handler"
	"github.com/moodsapp/moods-server/internal/transport/http/middleware"

	sloggin "github.com/samber/slog-gin"
)

func NewRouter(
	logger *slog.Logger,
	tokens *token.Manager,
	moodHandler *handler.MoodHandler,
	tagHandler *handler.TagHandler,
	userHandler *handler.UserHandler,
	authHandler *handler.AuthHandler,
) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Security())
	r.Use(sloggin.New(logger))
	r.Use(middleware.Metrics())
	r.Use(middleware.Identity(tokens))

	// Public: login flow, user directory and signup.
	r.POST("/auth/code", authHandler.SendCode)
	r.POST("/auth/verify", authHandler.Verify)
	r.GET("/users", userHandler.List)
	r.POST("/users", userHandler.Create)

	authed := r.Group("", middleware.RequireAuth())

	entries := authed.Group("/mood-entries")
	entries.GET("", moodHandler.List)
	entries.POST("", moodHandler.Create)
	entries.POST("/:id/archive", moodHandler.Archive)

	tags := authed.Group("/tags")
	tags.GET("", tagHandler.List)
	tags.PUT("/:name/metadata", tagHandler.UpdateMetadata)
	tags.POST("/:name/archive", tagHandler.Archive)
	tags.POST("/:name/unarchive", tagHandler.Unarchive)

	users := authed.Group("/users")
	users.GET("/:id/entries", moodHandler.ListForUser)
	users.PUT("/:id/settings", userHandler.UpdateSettings)
	users.POST("/:id/archive", userHandler.Archive)

	return r
}
