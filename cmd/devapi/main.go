// Command devapi serves an in-memory ads API for running the services locally.
package main

import (
	"context"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"ad-moderation/pkg/config"
	"ad-moderation/pkg/jwt"
	"ad-moderation/pkg/logger"

	"github.com/gin-gonic/gin"
)

func main() {
	var (
		port  = flag.String("port", "3001", "port to listen on")
		count = flag.Int("ads", 150, "number of generated ads")
		seed  = flag.Int64("seed", 42, "random seed for generated ads")
	)
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	log := logger.New()

	st := newStore(*count, *seed, time.Now)
	counts := st.counts()
	for _, status := range sortedStatuses(counts) {
		log.Info("Seeded %d %s ads", counts[status], status)
	}

	srv := &server{
		store:      st,
		jwtService: jwt.NewService(cfg.JWTSecret),
		logger:     log,
	}

	r := gin.Default()
	srv.routes(r)

	httpServer := &http.Server{
		Addr:    ":" + *port,
		Handler: r,
	}

	go func() {
		log.Info("Dev ads API starting on port %s", *port)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("Failed to start server: %v", err)
			panic(err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down dev ads API...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := httpServer.Shutdown(ctx); err != nil {
		log.Error("Server forced to shutdown: %v", err)
		panic(err)
	}
}
