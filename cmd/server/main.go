package main

import (
	"context"
	"flag"
	"log"
	"log/slog"
	"os"
	"strconv"
	"time"

	"lernquest/config"
	"lernquest/controllers"
	"lernquest/db"
	"lernquest/internal/exercise"
	"lernquest/middlewares"
	"lernquest/routes"
	"lernquest/services"
	"lernquest/utils"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

func main() {
	configPath := flag.String("config", "./config/config.prod.yml", "Path to config file")
	flag.Parse()

	// Load the configuration from the specified YAML file
	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid config: %v", err)
	}

	logger := newLogger(cfg.LogLevel)
	slog.SetDefault(logger)
	if cfg.LogLevel != "debug" {
		gin.SetMode(gin.ReleaseMode)
	}

	// Connect to MongoDB using the URI from the configuration
	if err := db.ConnectMongoDB(cfg.Database.URI); err != nil {
		log.Fatalf("Failed to connect to MongoDB: %v", err)
	}
	defer db.DisconnectMongoDB(context.Background())
	logger.Info("connected to MongoDB")

	ctx := context.Background()
	model, err := services.NewGeminiModel(ctx, cfg.Gemini.ApiKey, cfg.Gemini.Model)
	if err != nil {
		log.Fatalf("Failed to initialize Gemini: %v", err)
	}

	rdb := connectRedis(cfg, logger)
	store := newDedupStore(ctx, rdb, cfg, logger)
	var limiter *middlewares.RateLimiter
	if rdb != nil && cfg.Exercises.RateLimit > 0 {
		limiter = middlewares.NewRateLimiter(rdb, cfg.Exercises.RateLimit, cfg.Exercises.RateWindow)
	}
	generator := exercise.NewGenerator(model, store, exercise.GeneratorConfig{
		BatchSize:   cfg.Exercises.BatchSize,
		MaxAttempts: cfg.Exercises.MaxAttempts,
		Backoff:     cfg.Exercises.Backoff,
	}, logger.With("component", "exercise"))

	enforcer, err := middlewares.NewEnforcer()
	if err != nil {
		log.Fatalf("Failed to initialize RBAC: %v", err)
	}

	tokens := utils.NewTokenManager(cfg.JWT.Secret, time.Duration(cfg.JWT.Expiry)*time.Minute)
	attempts := db.NewAttemptRepository(db.MongoDatabase)
	listeningSvc := services.NewListeningService(attempts, cfg.Listening.MaxTokens, logger.With("component", "listening"))
	exerciseSvc := services.NewExerciseService(generator, cfg.Exercises.MaxCount)

	router := routes.NewRouter(routes.Handlers{
		Listening: controllers.NewListeningController(listeningSvc),
		Exercises: controllers.NewExerciseController(exerciseSvc),
		Admin:     controllers.NewAdminController(db.NewAdminRepository(db.MongoDatabase), listeningSvc, tokens),
		Tokens:    tokens,
		Enforcer:  enforcer,
		Limiter:   limiter,
	}, cfg.Cors.AllowOrigins)

	port := strconv.Itoa(cfg.Server.Port)
	logger.Info("server starting", "port", port)
	if err := router.Run(":" + port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}

func newLogger(level string) *slog.Logger {
	var lvl slog.Level
	switch level {
	case "debug":
		lvl = slog.LevelDebug
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}
	return slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: lvl}))
}

// connectRedis returns nil when Redis is not configured or unreachable.
func connectRedis(cfg *config.Config, logger *slog.Logger) *redis.Client {
	if cfg.Redis.Addr == "" {
		return nil
	}
	rdb, err := db.ConnectRedis(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
	if err != nil {
		logger.Warn("Redis unavailable, continuing without it", "addr", cfg.Redis.Addr, "error", err)
		return nil
	}
	logger.Info("connected to Redis", "addr", cfg.Redis.Addr)
	return rdb
}

// newDedupStore prefers Redis and falls back to an in-memory cache that is
// swept in the background.
func newDedupStore(ctx context.Context, rdb *redis.Client, cfg *config.Config, logger *slog.Logger) exercise.DedupStore {
	if rdb != nil {
		return exercise.NewRedisCache(rdb, cfg.Exercises.DedupTTL, "")
	}

	cache := exercise.NewDuplicateCache(cfg.Exercises.DedupTTL, exercise.SystemClock)
	go func() {
		ticker := time.NewTicker(time.Hour)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if n := cache.Evict(); n > 0 {
					logger.Debug("evicted duplicate hashes", "count", n)
				}
			}
		}
	}()
	return cache
}
