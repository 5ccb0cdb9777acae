package router

import (
	"github.com/liverylibrary/backend/internal/handler"
	"github.com/liverylibrary/backend/internal/middleware"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type Handlers struct {
	Auth          *handler.AuthHandler
	Liveries      *handler.LiveryHandler
	Details       *handler.DetailKitHandler
	Users         *handler.UserHandler
	Notifications *handler.NotificationHandler
	Health        *handler.HealthHandler
}

type Options struct {
	Mode        string
	MaxUploadMB int64
	// StaticDir is served under StaticURL when media is stored on local disk.
	StaticDir   string
	StaticURL   string
	// CORSOrigins empty disables CORS headers.
	CORSOrigins []string
}

func InitRouter(opts Options, logger *zap.Logger, auth middleware.Authenticator, h Handlers) *gin.Engine {
	if opts.Mode != "" {
		gin.SetMode(opts.Mode)
	}
	r := gin.New()
	r.Use(gin.Recovery(), middleware.RequestLogger(logger))
	if len(opts.CORSOrigins) > 0 {
		r.Use(middleware.CORS(opts.CORSOrigins))
	}
	if opts.MaxUploadMB > 0 {
		r.MaxMultipartMemory = opts.MaxUploadMB << 20
	}
	if opts.StaticDir != "" && opts.StaticURL != "" {
		r.Static(opts.StaticURL, opts.StaticDir)
	}

	requireAuth := middleware.AuthMiddleware(auth)

	r.GET("/healthz", h.Health.Check)

	api := r.Group("/api")

	// account
	authGroup := api.Group("/auth")
	{
		authGroup.POST("/register", h.Auth.Register)
		authGroup.POST("/login", h.Auth.Login)
		authGroup.POST("/refresh", h.Auth.Refresh)
		authGroup.POST("/password/forgot", h.Auth.ForgotPassword)
		authGroup.POST("/password/reset", h.Auth.ResetPassword)
		authGroup.POST("/logout", requireAuth, h.Auth.Logout)
		authGroup.POST("/password/change", requireAuth, h.Auth.ChangePassword)
	}

	// liveries
	liveries := api.Group("/liveries")
	{
		liveries.GET("/recent", h.Liveries.Recent)
		liveries.GET("", h.Liveries.List)
		liveries.GET("/my", requireAuth, h.Liveries.Mine)
		liveries.GET("/author/:authorId/:excludeId", h.Liveries.ByAuthor)
		liveries.GET("/:id", h.Liveries.Get)
		liveries.POST("", requireAuth, h.Liveries.Create)
		liveries.PATCH("/:id", requireAuth, h.Liveries.Update)
		liveries.POST("/:id/like", requireAuth, h.Liveries.Like)
		liveries.POST("/:id/comments", requireAuth, h.Liveries.Comment)
		liveries.DELETE("/:id", requireAuth, h.Liveries.Delete)
	}

	// detail kits
	details := api.Group("/details")
	{
		details.GET("/recent", h.Details.Recent)
		details.GET("", h.Details.List)
		details.GET("/my", requireAuth, h.Details.Mine)
		details.GET("/author/:authorId/:excludeId", h.Details.ByAuthor)
		details.GET("/:id", h.Details.Get)
		details.POST("", requireAuth, h.Details.Create)
		details.PATCH("/:id", requireAuth, h.Details.Update)
		details.POST("/:id/like", requireAuth, h.Details.Like)
		details.POST("/:id/comments", requireAuth, h.Details.Comment)
		details.DELETE("/:id", requireAuth, h.Details.Delete)
	}

	users := api.Group("/users")
	{
		users.GET("/top", h.Users.Top)
		users.GET("/search/:query", h.Users.Search)
		users.GET("/:username", h.Users.Profile)
		users.POST("/profile/avatar", requireAuth, h.Users.SetAvatar)
		users.POST("/profile/banner", requireAuth, h.Users.SetBanner)
		users.POST("/profile/bio", requireAuth, h.Users.UpdateBio)

		admin := users.Group("", requireAuth, middleware.RequirePrivileged())
		admin.DELETE("/:id/avatar", h.Users.ClearAvatar)
		admin.DELETE("/:id/banner", h.Users.ClearBanner)
		admin.PATCH("/:id/username", h.Users.Rename)
	}

	notifications := api.Group("/notifications", requireAuth)
	{
		notifications.GET("", h.Notifications.List)
		notifications.GET("/unread-count", h.Notifications.UnreadCount)
		notifications.POST("/mark-read", h.Notifications.MarkAllRead)
		notifications.DELETE("/clear", h.Notifications.Clear)
	}

	return r
}
