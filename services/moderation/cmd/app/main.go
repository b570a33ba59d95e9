package main

import (
	"ad-moderation/pkg/cache"
	"ad-moderation/pkg/config"
	"ad-moderation/pkg/database"
	"ad-moderation/pkg/logger"
	"ad-moderation/pkg/queue"
	moderationApp "ad-moderation/services/moderation/internal/app"

	"github.com/gin-gonic/gin"
)

func init() {
	gin.SetMode(gin.ReleaseMode)
}

// @title           Moderation Service API
// @version         1.0
// @description     Review sessions over the queue of pending ads

// @contact.name   API Support
// @contact.email  support@swagger.io

// @license.name  Apache 2.0
// @license.url   http://www.apache.org/licenses/LICENSE-2.0.html

// @host      localhost:8082
// @BasePath  /api/v1

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	log := logger.New()

	db, err := database.NewPostgresDB(cfg)
	if err != nil {
		log.Error("Failed to connect to database: %v (continuing without decision journal)", err)
		db = nil
	}

	redisClient, err := cache.NewRedisClient(cfg)
	if err != nil {
		log.Error("Failed to connect to redis: %v (continuing without rate limit)", err)
		redisClient = nil
	}

	rabbitMQ, err := queue.NewRabbitMQClient(cfg, log)
	if err != nil {
		log.Error("Failed to connect to RabbitMQ: %v (continuing without queue)", err)
		rabbitMQ = nil
	}

	moderationApp.Run(cfg, log, db, redisClient, rabbitMQ)
}
