package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/ensonsoo00/twitter-redis/pkg/database"
	pkglog "github.com/ensonsoo00/twitter-redis/pkg/log"

	"github.com/ensonsoo00/twitter-redis/internal/config"
	"github.com/ensonsoo00/twitter-redis/internal/domain"
	"github.com/ensonsoo00/twitter-redis/internal/handler"
	"github.com/ensonsoo00/twitter-redis/internal/store"
	"github.com/ensonsoo00/twitter-redis/internal/timeline"
)

func main() {
	// 1. Load configuration
	cfg, err := config.Load()
	if err != nil {
		logger := pkglog.L()
		logger.Fatal().Err(err).Msg("failed to load config")
	}

	// 2. Initialize structured logger
	pkglog.Init(pkglog.Config{
		Level:       cfg.Log.Level,
		Pretty:      cfg.Log.Level == "debug",
		ServiceName: "timeline-server",
	})
	logger := pkglog.L()

	// 3. Connect the store the chosen strategy needs
	var (
		kv store.KV
		db *gorm.DB
	)
	if cfg.Timeline.Strategy == timeline.StrategyRelational {
		db, err = database.New(&database.Config{
			Driver:          cfg.Database.Driver,
			Host:            cfg.Database.Host,
			Port:            cfg.Database.Port,
			User:            cfg.Database.User,
			Password:        cfg.Database.Password,
			DBName:          cfg.Database.DBName,
			SSLMode:         cfg.Database.SSLMode,
			FilePath:        cfg.Database.FilePath,
			MaxIdleConns:    cfg.Database.MaxIdleConns,
			MaxOpenConns:    cfg.Database.MaxOpenConns,
			ConnMaxLifetime: cfg.Database.ConnMaxLifetime,
		})
		if err != nil {
			logger.Fatal().Err(err).Msg("failed to connect to database")
		}
		sqlDB, err := db.DB()
		if err != nil {
			logger.Fatal().Err(err).Msg("failed to get underlying sql.DB")
		}
		defer sqlDB.Close()

		if err := database.AutoMigrate(db, &domain.FollowModel{}, &domain.PostModel{}); err != nil {
			logger.Fatal().Err(err).Msg("failed to auto-migrate")
		}
		logger.Info().Msg("database migration completed")
	} else {
		kv, err = store.NewRedisKV(cfg.Redis.Address, cfg.Redis.Password, cfg.Redis.DB)
		if err != nil {
			logger.Fatal().Err(err).Msg("failed to connect to redis")
		}
		defer kv.Close()
		logger.Info().Str("addr", cfg.Redis.Address).Msg("redis connected")
	}

	// 4. Build the strategy service and handler
	svc, err := timeline.New(cfg.Timeline.Strategy, kv, db)
	if err != nil {
		logger.Fatal().Err(err).Str(pkglog.FieldStrategy, cfg.Timeline.Strategy).Msg("failed to build timeline service")
	}
	logger.Info().Str(pkglog.FieldStrategy, cfg.Timeline.Strategy).Msg("timeline strategy selected")

	httpHandler := handler.NewHandler(svc)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(pkglog.GinMiddleware(logger))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	httpHandler.RegisterRoutes(r)

	// 5. Start server goroutine
	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{Addr: addr, Handler: r}

	go func() {
		logger.Info().Str("addr", addr).Msg("timeline-server starting")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal().Err(err).Msg("HTTP server error")
		}
	}()

	// 6. Wait for shutdown signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info().Msg("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Warn().Err(err).Msg("HTTP server forced to shutdown")
	}
	logger.Info().Msg("timeline-server stopped")
}
