package api

import (
	"github.com/gin-gonic/gin"

	"github.com/qs3c/comment_go_server/config"
	"github.com/qs3c/comment_go_server/internal/api/handler"
	"github.com/qs3c/comment_go_server/internal/api/middleware"
)

type Router struct {
	authHandler      *handler.AuthHandler
	commentHandler   *handler.CommentHandler
	websocketHandler *handler.WebSocketHandler
	cfg              *config.Config
}

func NewRouter(
	authHandler *handler.AuthHandler,
	commentHandler *handler.CommentHandler,
	websocketHandler *handler.WebSocketHandler,
	cfg *config.Config,
) *Router {
	return &Router{
		authHandler:      authHandler,
		commentHandler:   commentHandler,
		websocketHandler: websocketHandler,
		cfg:              cfg,
	}
}

func (r *Router) Setup() *gin.Engine {
	if r.cfg.Server.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.Use(middleware.CORS(r.cfg.CORS))

	api := engine.Group("/api/v1")
	{
		// WebSocket
		api.GET("/ws", r.websocketHandler.Handle)

		// 公开接口 - 认证
		auth := api.Group("/auth")
		{
			auth.POST("/register", r.authHandler.Register)
			auth.POST("/login", r.authHandler.Login)
		}

		// 评论 - 公开读取（可选认证，匿名时派生字段按匿名计算）
		commentsPublic := api.Group("/comments")
		commentsPublic.Use(middleware.OptionalAuth(r.cfg.JWT.Secret))
		{
			commentsPublic.GET("", r.commentHandler.List)
			commentsPublic.GET("/:id/replies", r.commentHandler.ListReplies)
		}

		// 评论 - 需要认证
		commentsAuth := api.Group("/comments")
		commentsAuth.Use(middleware.Auth(r.cfg.JWT.Secret))
		{
			commentsAuth.POST("", r.commentHandler.Create)
			commentsAuth.PUT("/:id", r.commentHandler.Update)
			commentsAuth.DELETE("/:id", r.commentHandler.Delete)
			commentsAuth.POST("/:id/reactions", r.commentHandler.React)
			commentsAuth.DELETE("/:id/reactions", r.commentHandler.RemoveReaction)
		}
	}

	return engine
}
