// Setup tool: bulk-loads the follows edge list into the chosen store.
// For the key-value target it clears the store and resets the post-id
// counter first; run it before posting or retrieving timelines.
package main

import (
	"context"
	"flag"
	"os"

	"github.com/ensonsoo00/twitter-redis/pkg/database"
	pkglog "github.com/ensonsoo00/twitter-redis/pkg/log"

	"github.com/ensonsoo00/twitter-redis/internal/config"
	"github.com/ensonsoo00/twitter-redis/internal/domain"
	"github.com/ensonsoo00/twitter-redis/internal/loader"
	"github.com/ensonsoo00/twitter-redis/internal/store"
)

func main() {
	var followsPath string
	var target string
	var batchSize int
	flag.StringVar(&followsPath, "follows", "", "path to the follows CSV file")
	flag.StringVar(&target, "target", "redis", "load target: redis | sql")
	flag.IntVar(&batchSize, "batch", 1000, "insert batch size (sql target)")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		logger := pkglog.L()
		logger.Fatal().Err(err).Msg("failed to load config")
	}
	pkglog.Init(pkglog.Config{Level: cfg.Log.Level, ServiceName: "timeline-setup"})
	logger := pkglog.L()

	if followsPath == "" {
		logger.Fatal().Msg("must provide -follows csv path")
	}

	f, err := os.Open(followsPath)
	if err != nil {
		logger.Fatal().Err(err).Str("path", followsPath).Msg("could not open follows file")
	}
	defer f.Close()

	ctx := context.Background()

	var edges int
	switch target {
	case "redis":
		kv, err := store.NewRedisKV(cfg.Redis.Address, cfg.Redis.Password, cfg.Redis.DB)
		if err != nil {
			logger.Fatal().Err(err).Msg("failed to connect to redis")
		}
		defer kv.Close()

		edges, err = loader.New(kv).Load(ctx, f)
		if err != nil {
			logger.Fatal().Err(err).Msg("graph load failed")
		}

	case "sql":
		db, err := database.New(&database.Config{
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
		if err := database.AutoMigrate(db, &domain.FollowModel{}, &domain.PostModel{}); err != nil {
			logger.Fatal().Err(err).Msg("failed to auto-migrate")
		}

		edges, err = loader.NewRelational(db).Load(ctx, f, batchSize)
		if err != nil {
			logger.Fatal().Err(err).Msg("graph load failed")
		}

	default:
		logger.Fatal().Str("target", target).Msg("target must be redis or sql")
	}

	logger.Info().Int("edges", edges).Str("target", target).Msg("social graph loaded")
}
