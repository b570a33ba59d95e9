package internal

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"ad-moderation/pkg/cache"
	"ad-moderation/pkg/config"
	"ad-moderation/pkg/gateway"
	"ad-moderation/pkg/logger"
	"ad-moderation/pkg/middleware"
	"ad-moderation/pkg/queue"
	catalogHTTP "ad-moderation/services/catalog/internal/controller/http"
	"ad-moderation/services/catalog/internal/usecase"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "ad-moderation/services/catalog/docs" // Swagger docs
)

// Run serves the catalog until SIGINT or SIGTERM. redisClient may be nil,
// in which case the snapshot is kept in process for the same TTL. rabbitMQ
// may be nil; the cached snapshot then only expires by TTL.
func Run(cfg *config.Config, log *logger.Logger, redisClient *redis.Client, rabbitMQ *queue.Client) {
	adsClient := gateway.NewClient(cfg, log)

	consumerCtx, stopConsumer := context.WithCancel(context.Background())
	defer stopConsumer()

	var snapshot usecase.SnapshotCache = cache.NewMemorySnapshot(cfg.CatalogCacheTTL)
	if redisClient != nil {
		adsSnapshot := cache.NewAdsSnapshot(redisClient, cfg.CatalogCacheTTL)
		snapshot = adsSnapshot

		if rabbitMQ != nil {
			listener := usecase.NewDecisionListener(adsSnapshot, log)
			if err := rabbitMQ.ConsumeDecisions(consumerCtx, queue.CatalogQueueName, listener.HandleDecision); err != nil {
				log.Error("Error starting decision consumer: %v", err)
			}
		}
	}

	catalogUseCase := usecase.NewCatalogUseCase(adsClient, snapshot, cfg.CatalogFetchLimit, cfg.CatalogPageSize, cfg.AdsAPITimeout, log)
	catalogHandler := catalogHTTP.NewCatalogHandler(catalogUseCase, cfg.CatalogPageSize, log)

	r := gin.Default()

	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"http://localhost:3000", "http://127.0.0.1:3000"},
		AllowMethods:     []string{"GET", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * 3600,
	}))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	api := r.Group("/api/v1")
	if redisClient != nil {
		api.Use(middleware.RateLimitMiddleware(redisClient, 300, time.Minute, log))
	}
	{
		api.GET("/catalog", catalogHandler.Browse)
		api.GET("/catalog/meta", catalogHandler.Meta)
		api.GET("/catalog/ads/:id", catalogHandler.GetAd)
	}

	srv := &http.Server{
		Addr:    ":" + cfg.ServerPort,
		Handler: r,
	}

	go func() {
		log.Info("Catalog service starting on port %s", cfg.ServerPort)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("Failed to start server: %v", err)
			panic(err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down catalog service...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	stopConsumer()
	if rabbitMQ != nil {
		if err := rabbitMQ.Close(); err != nil {
			log.Error("Error closing RabbitMQ: %v", err)
		}
	}

	if redisClient != nil {
		if err := redisClient.Close(); err != nil {
			log.Error("Error closing Redis: %v", err)
		}
	}

	if err := srv.Shutdown(ctx); err != nil {
		log.Error("Server forced to shutdown: %v", err)
		panic(err)
	}

	log.Info("Catalog service exited")
}
