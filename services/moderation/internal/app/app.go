package internal

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"ad-moderation/pkg/config"
	"ad-moderation/pkg/gateway"
	"ad-moderation/pkg/jwt"
	"ad-moderation/pkg/logger"
	"ad-moderation/pkg/middleware"
	"ad-moderation/pkg/queue"
	moderationHTTP "ad-moderation/services/moderation/internal/controller/http"
	"ad-moderation/services/moderation/internal/model"
	"ad-moderation/services/moderation/internal/repo/persistent"
	"ad-moderation/services/moderation/internal/usecase"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"gorm.io/gorm"

	_ "ad-moderation/services/moderation/docs" // Swagger docs
)

// Run serves review sessions until SIGINT or SIGTERM. db, redisClient and
// rabbitMQ are optional; without them decisions are not journaled, requests
// are not rate limited and no events are published.
func Run(cfg *config.Config, log *logger.Logger, db *gorm.DB, redisClient *redis.Client, rabbitMQ *queue.Client) {
	var decisionRepo persistent.DecisionRepository
	if db != nil {
		if err := db.AutoMigrate(&model.DecisionModel{}); err != nil {
			log.Error("Failed to migrate database: %v", err)
			panic(err)
		}
		decisionRepo = persistent.NewDecisionRepository(db)
	}

	var publisher usecase.EventPublisher
	if rabbitMQ != nil {
		publisher = rabbitMQ
	}

	adsClient := gateway.NewClient(cfg, log)
	jwtService := jwt.NewService(cfg.JWTSecret)

	moderationUseCase := usecase.NewModerationUseCase(adsClient, decisionRepo, publisher, cfg.QueueFetchLimit, log)
	moderationHandler := moderationHTTP.NewModerationHandler(moderationUseCase, log)

	r := gin.Default()

	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"http://localhost:3000", "http://127.0.0.1:3000"},
		AllowMethods:     []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * 3600,
	}))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	api := r.Group("/api/v1/moderation")
	api.Use(middleware.AuthMiddleware(jwtService))
	api.Use(middleware.RequireRole(jwt.RoleModerator, jwt.RoleAdmin))
	if redisClient != nil {
		api.Use(middleware.RateLimitMiddleware(redisClient, 120, time.Minute, log))
	}
	{
		api.GET("/reasons", moderationHandler.Reasons)
		api.GET("/decisions", moderationHandler.MyDecisions)

		api.POST("/sessions", moderationHandler.StartSession)
		api.GET("/sessions/:id", moderationHandler.GetSession)
		api.DELETE("/sessions/:id", moderationHandler.CloseSession)

		api.POST("/sessions/:id/approve", moderationHandler.Approve)
		api.POST("/sessions/:id/reject", moderationHandler.Reject)
		api.POST("/sessions/:id/request-changes", moderationHandler.RequestChanges)

		api.POST("/sessions/:id/draft", moderationHandler.OpenDraft)
		api.PATCH("/sessions/:id/draft", moderationHandler.UpdateDraft)
		api.DELETE("/sessions/:id/draft", moderationHandler.CloseDraft)

		api.POST("/sessions/:id/previous", moderationHandler.MovePrevious)
		api.POST("/sessions/:id/next", moderationHandler.MoveNext)
		api.GET("/sessions/:id/decisions", moderationHandler.SessionDecisions)
	}

	srv := &http.Server{
		Addr:    ":" + cfg.ServerPort,
		Handler: r,
	}

	go func() {
		log.Info("Moderation service starting on port %s", cfg.ServerPort)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("Failed to start server: %v", err)
			panic(err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down moderation service...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if db != nil {
		sqlDB, err := db.DB()
		if err == nil {
			if err := sqlDB.Close(); err != nil {
				log.Error("Error closing database: %v", err)
			}
		}
	}

	if redisClient != nil {
		if err := redisClient.Close(); err != nil {
			log.Error("Error closing Redis: %v", err)
		}
	}

	if rabbitMQ != nil {
		if err := rabbitMQ.Close(); err != nil {
			log.Error("Error closing RabbitMQ: %v", err)
		}
	}

	if err := srv.Shutdown(ctx); err != nil {
		log.Error("Server forced to shutdown: %v", err)
		panic(err)
	}

	log.Info("Moderation service exited")
}
