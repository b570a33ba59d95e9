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
	"ad-moderation/pkg/s3"
	statsHTTP "ad-moderation/services/stats/internal/controller/http"
	"ad-moderation/services/stats/internal/usecase"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "ad-moderation/services/stats/docs" // Swagger docs
)

// Run serves the stats endpoints until SIGINT or SIGTERM. s3Client may be
// nil; export then answers 503.
func Run(cfg *config.Config, log *logger.Logger, s3Client *s3.Client) {
	var storage usecase.ReportStorage
	if s3Client != nil {
		storage = s3Client
	}

	adsClient := gateway.NewClient(cfg, log)
	jwtService := jwt.NewService(cfg.JWTSecret)

	statsUseCase := usecase.NewStatsUseCase(adsClient, storage, log)
	statsHandler := statsHTTP.NewStatsHandler(statsUseCase, log)

	r := gin.Default()

	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"http://localhost:3000", "http://127.0.0.1:3000"},
		AllowMethods:     []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * 3600,
	}))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	api := r.Group("/api/v1/stats")
	api.Use(middleware.AuthMiddleware(jwtService))
	api.Use(middleware.RequireRole(jwt.RoleModerator, jwt.RoleAdmin))
	{
		api.GET("", statsHandler.GetStats)
		api.POST("/export", middleware.RequireRole(jwt.RoleAdmin), statsHandler.ExportStats)
	}

	srv := &http.Server{
		Addr:    ":" + cfg.ServerPort,
		Handler: r,
	}

	go func() {
		log.Info("Stats service starting on port %s", cfg.ServerPort)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("Failed to start server: %v", err)
			panic(err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down stats service...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Error("Server forced to shutdown: %v", err)
		panic(err)
	}

	log.Info("Stats service exited")
}
