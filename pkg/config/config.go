package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	// Server
	ServerPort string

	// Ads API (external backend)
	AdsAPIURL     string
	AdsAPIToken   string
	AdsAPITimeout time.Duration

	// Catalog
	CatalogFetchLimit int
	CatalogPageSize   int
	CatalogCacheTTL   time.Duration

	// Moderation queue
	QueueFetchLimit int

	// Database
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSSLMode  string

	// Redis
	RedisHost     string
	RedisPort     string
	RedisPassword string
	RedisDB       int

	// JWT
	JWTSecret string

	// AWS S3
	AWSRegion          string
	AWSAccessKeyID     string
	AWSSecretAccessKey string
	AWSEndpoint        string
	S3UseSSL           string
	S3BucketName       string

	// RabbitMQ
	RabbitMQHost     string
	RabbitMQPort     string
	RabbitMQUser     string
	RabbitMQPassword string
}

func Load() (*Config, error) {
	// Try to load .env file, but don't fail if it doesn't exist
	_ = godotenv.Load()

	config := &Config{
		ServerPort: getEnv("SERVER_PORT", "8080"),

		AdsAPIURL:   getEnv("ADS_API_URL", "http://localhost:3001"),
		AdsAPIToken: getEnv("ADS_API_TOKEN", ""),

		DBHost:     getEnv("DB_HOST", "localhost"),
		DBPort:     getEnv("DB_PORT", "5432"),
		DBUser:     getEnv("DB_USER", "postgres"),
		DBPassword: getEnv("DB_PASSWORD", "postgres"),
		DBName:     getEnv("DB_NAME", "moderation"),
		DBSSLMode:  getEnv("DB_SSLMODE", "disable"),

		RedisHost:     getEnv("REDIS_HOST", "localhost"),
		RedisPort:     getEnv("REDIS_PORT", "6379"),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),

		JWTSecret: getEnv("JWT_SECRET", "your-secret-key-change-in-production"),

		AWSRegion:          getEnv("AWS_REGION", "us-east-1"),
		AWSAccessKeyID:     getEnv("AWS_ACCESS_KEY_ID", ""),
		AWSSecretAccessKey: getEnv("AWS_SECRET_ACCESS_KEY", ""),
		AWSEndpoint:        getEnv("AWS_ENDPOINT", ""),
		S3UseSSL:           getEnv("S3_USE_SSL", "true"),
		S3BucketName:       getEnv("S3_BUCKET_NAME", "moderation-reports"),

		RabbitMQHost:     getEnv("RABBITMQ_HOST", "localhost"),
		RabbitMQPort:     getEnv("RABBITMQ_PORT", "5672"),
		RabbitMQUser:     getEnv("RABBITMQ_USER", "guest"),
		RabbitMQPassword: getEnv("RABBITMQ_PASSWORD", "guest"),
	}

	var err error
	if config.AdsAPITimeout, err = getSecondsEnv("ADS_API_TIMEOUT_SECONDS", 15); err != nil {
		return nil, err
	}
	if config.CatalogCacheTTL, err = getSecondsEnv("CATALOG_CACHE_TTL_SECONDS", 30); err != nil {
		return nil, err
	}
	if config.CatalogFetchLimit, err = getIntEnv("CATALOG_FETCH_LIMIT", 1000); err != nil {
		return nil, err
	}
	if config.CatalogPageSize, err = getIntEnv("CATALOG_PAGE_SIZE", 10); err != nil {
		return nil, err
	}
	if config.QueueFetchLimit, err = getIntEnv("QUEUE_FETCH_LIMIT", 1000); err != nil {
		return nil, err
	}
	if config.RedisDB, err = getIntEnv("REDIS_DB", 0); err != nil {
		return nil, err
	}

	if config.CatalogPageSize <= 0 {
		return nil, fmt.Errorf("CATALOG_PAGE_SIZE must be positive")
	}
	if config.CatalogFetchLimit <= 0 || config.QueueFetchLimit <= 0 {
		return nil, fmt.Errorf("fetch limits must be positive")
	}

	return config, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getIntEnv(key string, defaultValue int) (int, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	v, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("parse %s: %w", key, err)
	}
	return v, nil
}

func getSecondsEnv(key string, defaultSeconds int) (time.Duration, error) {
	secs, err := getIntEnv(key, defaultSeconds)
	if err != nil {
		return 0, err
	}
	return time.Duration(secs) * time.Second, nil
}
