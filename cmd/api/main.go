package main

import (
	"fmt"
	"log"
	"net/http"
	"time"

	"courier-chat/internal/commands"
	"courier-chat/internal/config"
	"courier-chat/internal/handler"
	"courier-chat/internal/identity"
	"courier-chat/internal/middleware"
	"courier-chat/internal/redis"
	"courier-chat/internal/repository"
	"courier-chat/internal/server"
	"courier-chat/internal/services"
	"courier-chat/pkg/database"
	"courier-chat/pkg/logger"

	"github.com/gin-gonic/gin"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	appLogger := logger.New(cfg.Server.Environment)
	defer appLogger.Sync()

	db, err := database.Connect(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	if err := database.Migrate(db); err != nil {
		log.Fatalf("Failed to apply migrations: %v", err)
	}

	messageRepo := repository.NewMessageRepository(db)
	chatService := services.NewChatService(messageRepo)
	pipeline := commands.NewPipeline(appLogger)
	verifier := identity.NewJWTVerifier(cfg.Auth.JWTSecret)

	var presenceStore *redis.PresenceStore
	if cfg.Redis.Enabled {
		presenceStore = redis.NewPresenceStore(redis.NewClient(cfg.Redis), 5*time.Minute)
	}

	var presence server.PresenceTracker
	if presenceStore != nil {
		presence = presenceStore
	}
	hub := server.NewHub(chatService, pipeline, presence, appLogger)
	wsHandler := server.NewWebSocketHandler(hub, verifier, appLogger)

	messageHandler := handler.NewMessageHandler(chatService, pipeline)

	if cfg.Server.Environment == logger.ProductionMode {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.RequestLogger(appLogger))

	r.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})

	r.GET("/ws", wsHandler.Handle)

	api := r.Group("/api", middleware.Auth(verifier))
	{
		api.POST("/messages", messageHandler.Create)
		api.GET("/messages", messageHandler.GetPaged)
		api.GET("/messages/conversation/:userId", messageHandler.GetConversation)
		api.DELETE("/messages/:id", messageHandler.Delete)
		api.PUT("/messages/:id/read", messageHandler.MarkAsRead)

		if presenceStore != nil {
			presenceHandler := handler.NewPresenceHandler(presenceStore)
			api.GET("/presence/online", presenceHandler.GetOnlineUsers)
		}
	}

	appLogger.Infof("Starting server on port %s", cfg.Server.Port)
	if err := r.Run(fmt.Sprintf(":%s", cfg.Server.Port)); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
