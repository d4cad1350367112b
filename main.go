package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"
	"time"

	"github.com/Monikarana27/ChatBud/config"
	"github.com/Monikarana27/ChatBud/controllers"
	"github.com/Monikarana27/ChatBud/database"
	"github.com/Monikarana27/ChatBud/docs"
	"github.com/Monikarana27/ChatBud/middleware"
	"github.com/Monikarana27/ChatBud/models"
	"github.com/Monikarana27/ChatBud/store"
	"github.com/Monikarana27/ChatBud/websocket"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// @title           ChatBud API
// @version         1.0
// @description     API Server for the ChatBud chat application
// @host            localhost:8080
// @BasePath        /
// @schemes         http
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.
func main() {
	cfg := config.Load()
	models.BcryptCost = cfg.BcryptCost

	// Initialize database
	db := database.Connect(cfg)
	database.Migrate(db)

	users := store.NewUsers(db)
	rooms := store.NewRooms(db)
	messages := store.NewMessages(db)
	sessions := store.NewSessions(db)

	bot, err := users.EnsureBot()
	if err != nil {
		log.Fatalf("Failed to create bot account: %v", err)
	}

	// Real-time plumbing: hub, presence registry, roster providers and the
	// coordinator that ties them to the stores.
	hub := websocket.NewHub()
	presence := websocket.NewRegistry()
	roster := websocket.NewRoster(
		websocket.NewSessionRoster(sessions),
		websocket.NewPresenceRoster(presence),
	)
	coordinator := websocket.NewCoordinator(users, rooms, messages, sessions, presence, roster, hub, bot.ID)
	hub.SetDisconnectHandler(coordinator.Leave)
	go hub.Run()

	wsHandler := websocket.NewHandler(hub, coordinator, cfg.JWTSecret)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Hourly sweep of stale session rows.
	go func() {
		ticker := time.NewTicker(time.Hour)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if purged, err := sessions.PurgeStale(store.SessionMaxAge); err != nil {
					log.Printf("session sweep failed: %v", err)
				} else if purged > 0 {
					log.Printf("session sweep removed %d stale rows", purged)
				}
			}
		}
	}()

	// Set up Swagger info
	docs.SwaggerInfo.Title = "ChatBud API"
	docs.SwaggerInfo.Description = "API Server for the ChatBud chat application"
	docs.SwaggerInfo.Version = "1.0"
	docs.SwaggerInfo.Host = "localhost:" + cfg.Port
	docs.SwaggerInfo.BasePath = "/"
	docs.SwaggerInfo.Schemes = []string{"http"}

	// Set up router
	router := gin.Default()

	router.Use(cors.New(cors.Config{
		AllowOriginFunc:  func(origin string) bool { return true },
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "Cache-Control", "X-Requested-With"},
		AllowCredentials: true,
	}))

	// Swagger documentation
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	authController := controllers.NewAuthController(users, cfg.JWTSecret)
	messageController := controllers.NewMessageController(rooms, messages)
	pageController := controllers.NewPageController(cfg.JWTSecret, "./static")

	rateLimiter := middleware.NewRateLimiter(cfg.RedisAddr, cfg.RedisPassword, cfg.RateLimitMax, cfg.RateLimitWindow)

	// Pages and static assets
	router.GET("/", pageController.Landing)
	router.GET("/chat", pageController.ChatPage)
	router.Static("/static", "./static")

	// Authentication routes
	auth := router.Group("/auth")
	{
		auth.POST("/register", rateLimiter.Limit(), authController.Register)
		auth.POST("/login", rateLimiter.Limit(), authController.Login)
		auth.POST("/logout", authController.Logout)
	}

	// Protected routes
	api := router.Group("/api")
	api.Use(middleware.JWTAuth(cfg.JWTSecret))
	{
		api.GET("/user", authController.CurrentUser)
		api.GET("/messages/:room", messageController.GetRoomMessages)
	}

	// WebSocket route
	router.GET("/ws", wsHandler.HandleConnection)

	log.Printf("Server running on port %s", cfg.Port)
	log.Printf("Swagger documentation available at http://localhost:%s/swagger/index.html", cfg.Port)
	if err := router.Run(":" + cfg.Port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
