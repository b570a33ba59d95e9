package main

import (
	"ad-moderation/pkg/config"
	"ad-moderation/pkg/logger"
	"ad-moderation/pkg/s3"
	statsApp "ad-moderation/services/stats/internal/app"

	"github.com/gin-gonic/gin"
)

func init() {
	gin.SetMode(gin.ReleaseMode)
}

// @title           Stats Service API
// @version         1.0
// @description     Moderation statistics and report export

// @contact.name   API Support
// @contact.email  support@swagger.io

// @license.name  Apache 2.0
// @license.url   http://www.apache.org/licenses/LICENSE-2.0.html

// @host      localhost:8083
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

	s3Client, err := s3.NewClient(cfg)
	if err != nil {
		log.Error("Failed to create S3 client: %v (continuing without report export)", err)
		s3Client = nil
	}

	statsApp.Run(cfg, log, s3Client)
}
