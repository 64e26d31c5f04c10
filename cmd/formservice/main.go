package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/Vincentvirtuoso/shopverse-admin-sub001/apperrors"
	"github.com/Vincentvirtuoso/shopverse-admin-sub001/autosave"
	"github.com/Vincentvirtuoso/shopverse-admin-sub001/clients"
	"github.com/Vincentvirtuoso/shopverse-admin-sub001/config"
	"github.com/Vincentvirtuoso/shopverse-admin-sub001/controllers"
	"github.com/Vincentvirtuoso/shopverse-admin-sub001/logger"
	"github.com/Vincentvirtuoso/shopverse-admin-sub001/middleware"
	"github.com/Vincentvirtuoso/shopverse-admin-sub001/routes"
	"github.com/Vincentvirtuoso/shopverse-admin-sub001/services"
)

func main() {
	cfg := config.Load()

	log := logger.Initialize(cfg.Env)
	defer log.Sync()

	// Redis backs create-mode draft autosave. A parse failure falls
	// back to the default address; autosave itself is best-effort.
	redisOpts, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		log.Warn("Failed to parse REDIS_URL, falling back to default", zap.Error(err))
		redisOpts = &redis.Options{Addr: "redis:6379"}
	}
	redisClient := redis.NewClient(redisOpts)
	drafts := autosave.NewRedisStore(redisClient, cfg.DraftTTL)

	catalog := clients.NewCatalogClient(cfg.CatalogBaseURL, log)
	formService := services.NewFormService(catalog, drafts, log)
	controller := controllers.NewFormController(formService)

	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogger(log))
	router.Use(apperrors.ErrorMiddleware())

	routes.RegisterFormRoutes(router, controller, cfg)

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	go func() {
		log.Info("Form service is running", zap.String("port", cfg.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Server failed", zap.Error(err))
		}
	}()

	// Graceful shutdown
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	log.Info("Shutting down gracefully...")
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Shutdown error", zap.Error(err))
	}
	log.Info("Server shutdown complete")
}
