package main

import (
	"context"
	"database/sql"
	"time"

	"github.com/gin-gonic/gin"
	_ "github.com/lib/pq"
	"github.com/redis/go-redis/v9"

	"github.com/vicesapp/vendor-service/internal/api"
	"github.com/vicesapp/vendor-service/internal/cache"
	"github.com/vicesapp/vendor-service/internal/config"
	"github.com/vicesapp/vendor-service/internal/logging"
	"github.com/vicesapp/vendor-service/internal/places"
	"github.com/vicesapp/vendor-service/internal/service"
	"github.com/vicesapp/vendor-service/internal/store"
)

func main() {
	cfg := config.Load()
	log := logging.New(cfg.LogLevel)
	defer log.Sync()

	db, err := sql.Open("postgres", cfg.DB.URL())
	if err != nil {
		log.Fatalw("db open", "err", err)
	}
	// simple ping + wait (db might be starting in docker)
	for i := 0; i < 10; i++ {
		if err = db.Ping(); err == nil {
			break
		}
		log.Infow("waiting for db", "attempt", i+1, "err", err)
		time.Sleep(2 * time.Second)
	}
	if err != nil {
		log.Fatalw("could not connect to db", "err", err)
	}

	if err := store.RunMigrations(db); err != nil {
		log.Fatalw("migrations", "err", err)
	}

	// Cache lives in process memory unless a redis address is configured;
	// an unreachable redis degrades back to memory rather than failing boot.
	var resultCache cache.Store = cache.NewMemoryStore()
	if cfg.Redis.Addr != "" {
		rdb := redis.NewClient(&redis.Options{Addr: cfg.Redis.Addr})
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		err := rdb.Ping(ctx).Err()
		cancel()
		if err != nil {
			log.Warnw("redis ping failed, using in-memory cache", "err", err)
		} else {
			resultCache = cache.NewRedisStore(rdb, log)
		}
	}
	gate := cache.NewGate(resultCache, cache.NewRateLimiter(cache.DefaultRateLimit))

	if cfg.Outscraper.APIKey == "" {
		log.Warnw("outscraper api key not set, external search will use sample data")
	}
	provider := places.NewClient(
		cfg.Outscraper.APIKey,
		cfg.Outscraper.BaseURL,
		cfg.Outscraper.Region,
		cfg.Outscraper.Language,
		nil,
		log,
	)

	repo := store.NewPgStore(db)
	svc := service.NewService(repo, provider, gate, log)
	handler := api.NewHandler(svc, log)

	router := gin.Default()
	router.Use(api.Metrics())
	api.RegisterRoutes(router, handler)

	log.Infow("listening", "port", cfg.Port)
	if err := router.Run(":" + cfg.Port); err != nil {
		log.Fatalw("server failed", "err", err)
	}
}
