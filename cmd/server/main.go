package main

import (
	"context"
	"fmt"
	"log"

	"github.com/qs3c/comment_go_server/config"
	"github.com/qs3c/comment_go_server/internal/api"
	"github.com/qs3c/comment_go_server/internal/api/handler"
	"github.com/qs3c/comment_go_server/internal/database"
	"github.com/qs3c/comment_go_server/internal/pkg/pubsub"
	"github.com/qs3c/comment_go_server/internal/pkg/ws"
	"github.com/qs3c/comment_go_server/internal/repository"
	"github.com/qs3c/comment_go_server/internal/service"
)

func main() {
	// 加载配置
	cfg, err := config.Load("config.yaml")
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// 初始化数据库
	db, err := database.NewMySQL(&cfg.Database)
	if err != nil {
		log.Fatalf("Failed to connect database: %v", err)
	}
	log.Println("Database connected")

	// 初始化 Redis
	rdb, err := database.NewRedis(&cfg.Redis)
	if err != nil {
		log.Fatalf("Failed to connect redis: %v", err)
	}
	log.Println("Redis connected")

	// 初始化 WebSocket Hub
	wsHub := ws.NewHub()

	// 订阅评论室事件并转发给所有连接（存储写入确认后才发布，尽力投递）
	subscriber := pubsub.NewSubscriber(rdb)
	go func() {
		err := subscriber.Subscribe(context.Background(), func(event *pubsub.Event) {
			if err := wsHub.Broadcast(event); err != nil {
				log.Printf("Failed to broadcast event %s: %v", event.Type, err)
			}
		})
		if err != nil {
			log.Printf("Subscriber stopped: %v", err)
		}
	}()
	log.Println("Comments room subscriber started")

	// 初始化 Repository
	userRepo := repository.NewUserRepository(db)
	commentRepo := repository.NewCommentRepository(db)
	reactionRepo := repository.NewReactionRepository(db)

	// 初始化 Service
	publisher := pubsub.NewPublisher(rdb)
	authService := service.NewAuthService(userRepo, cfg)
	commentService := service.NewCommentService(commentRepo, reactionRepo, userRepo, publisher, cfg)

	// 初始化 Handler
	authHandler := handler.NewAuthHandler(authService)
	commentHandler := handler.NewCommentHandler(commentService)
	websocketHandler := handler.NewWebSocketHandler(wsHub, userRepo, cfg.JWT.Secret)

	// 初始化 Router
	router := api.NewRouter(
		authHandler,
		commentHandler,
		websocketHandler,
		cfg,
	)
	engine := router.Setup()

	// 启动服务器
	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	log.Printf("Server starting on %s", addr)
	if err := engine.Run(addr); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
