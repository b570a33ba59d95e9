package main

import (
	"ad-moderation/pkg/cache"
	"ad-moderation/pkg/config"
	"ad-moderation/pkg/logger"
	"ad-moderation/pkg/queue"
	catalogApp "ad-moderation/services/catalog/internal/app"

	"github.com/gin-gonic/gin"
)

func init() {
	gin.SetMode(gin.ReleaseMode)
}

// @title           Catalog Service API
// @version         1.0
// @description     Filtered, sorted and paginated view of the ads snapshot

// @contact.name   API Support
// @contact.email  support@swagger.io

// @license.name  Apache 2.0
// @license.url   http://www.apache.org/licenses/LICENSE-2.0.html

// @host      localhost:8081
// @BasePath  /api/v1

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	log := logger.New()

	redisClient, err := cache.NewRedisClient(cfg)
	if err != nil {
		log.Error("Failed to connect to redis: %v (continuing with in-process snapshot)", err)
		redisClient = nil
	}

	rabbitMQ, err := queue.NewRabbitMQClient(cfg, log)
	if err != nil {
		log.Error("Failed to connect to RabbitMQ: %v (continuing without cache invalidation)", err)
		rabbitMQ = nil
	}

	catalogApp.Run(cfg, log, redisClient, rabbitMQ)
}
