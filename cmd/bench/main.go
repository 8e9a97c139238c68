// Benchmark tool: drives one timeline strategy with a post or retrieve
// workload and reports throughput. Load the social graph with the setup
// tool first.
package main

import (
	"context"
	"flag"
	"os"

	"gorm.io/gorm"

	"github.com/ensonsoo00/twitter-redis/pkg/database"
	pkglog "github.com/ensonsoo00/twitter-redis/pkg/log"

	"github.com/ensonsoo00/twitter-redis/internal/bench"
	"github.com/ensonsoo00/twitter-redis/internal/config"
	"github.com/ensonsoo00/twitter-redis/internal/domain"
	"github.com/ensonsoo00/twitter-redis/internal/store"
	"github.com/ensonsoo00/twitter-redis/internal/timeline"
)

func main() {
	var strategy string
	var op string
	var tweetsPath string
	var iterations int
	var batchSize int
	flag.StringVar(&strategy, "strategy", "push", "timeline strategy: push | pull | relational")
	flag.StringVar(&op, "op", "", "workload: post | retrieve")
	flag.StringVar(&tweetsPath, "file", "", "path to the tweets CSV file (post workload)")
	flag.IntVar(&iterations, "n", 1000, "number of timelines to retrieve (retrieve workload)")
	flag.IntVar(&batchSize, "batch", 1, "posts per batch; 1 posts row by row")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		logger := pkglog.L()
		logger.Fatal().Err(err).Msg("failed to load config")
	}
	pkglog.Init(pkglog.Config{Level: cfg.Log.Level, ServiceName: "timeline-bench"})
	logger := pkglog.L().With().Str(pkglog.FieldStrategy, strategy).Logger()

	var (
		kv store.KV
		db *gorm.DB
	)
	if strategy == timeline.StrategyRelational {
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
		if err := database.AutoMigrate(db, &domain.FollowModel{}, &domain.PostModel{}); err != nil {
			logger.Fatal().Err(err).Msg("failed to auto-migrate")
		}
	} else {
		kv, err = store.NewRedisKV(cfg.Redis.Address, cfg.Redis.Password, cfg.Redis.DB)
		if err != nil {
			logger.Fatal().Err(err).Msg("failed to connect to redis")
		}
		defer kv.Close()
	}

	svc, err := timeline.New(strategy, kv, db)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to build timeline service")
	}

	runner := bench.NewRunner(svc, logger)
	ctx := context.Background()

	switch op {
	case "post":
		if tweetsPath == "" {
			logger.Fatal().Msg("post workload needs -file")
		}
		f, err := os.Open(tweetsPath)
		if err != nil {
			logger.Fatal().Err(err).Str("path", tweetsPath).Msg("could not open tweets file")
		}
		defer f.Close()

		if _, err := runner.PostFromCSV(ctx, f, batchSize); err != nil {
			logger.Fatal().Err(err).Msg("post workload failed")
		}

	case "retrieve":
		if err := runner.RetrieveTimelines(ctx, iterations); err != nil {
			logger.Fatal().Err(err).Msg("retrieve workload failed")
		}

	default:
		logger.Fatal().Msg("-op must be post or retrieve")
	}
}
