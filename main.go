package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"gamehound/dealscraper/config"
	"gamehound/dealscraper/internal/scraper"
	"gamehound/dealscraper/logger"
	"gamehound/dealscraper/services/cache"
	"gamehound/dealscraper/services/publisher"
	"gamehound/dealscraper/services/worker"

	"github.com/joho/godotenv"
)

func main() {
	// Load environment variables
	godotenv.Load()

	// Initialize logger first
	logger.Init()
	log := logger.Default

	// Load and validate configuration
	cfg := config.LoadConfig()
	if err := cfg.Validate(); err != nil {
		log.Fatal().Err(err).Msg("Invalid configuration")
	}

	log.Info().
		Str("environment", cfg.Environment).
		Str("base_url", cfg.BaseURL).
		Strs("categories", cfg.Categories).
		Dur("scrape_interval", cfg.ScrapeInterval).
		Msg("Starting application")

	// Set up context with cancellation
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Set up signal handling
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	// Initialize services
	cacheService := cache.NewMemcacheService(cfg.MemcacheAddr, "gamedeals")
	logger.Info("Connected to Memcache at %s", cfg.MemcacheAddr)

	redisPublisher := publisher.NewRedisPublisher(
		ctx,
		cfg.RedisAddr,
		cfg.RedisDB,
		cfg.RedisStream,
		cfg.RedisStreamCount,
		cfg.RedisStreamMaxLength,
	)
	defer redisPublisher.Close()
	logger.Info("Connected to Redis at %s (DB: %d, Stream: %s)",
		cfg.RedisAddr, cfg.RedisDB, cfg.RedisStream)

	// Create the scraper and worker
	s := scraper.New(&cfg, cacheService)
	w := worker.NewWorker(
		ctx,
		s,
		redisPublisher,
		cfg.Categories,
		cfg.MaxItemsPerCategory,
		cfg.IncludeDetails,
		cfg.ScrapeInterval,
	)

	// Start worker in a goroutine
	workerDone := make(chan error, 1)
	go func() {
		log.Info().Msg("Starting game deal worker")
		workerDone <- w.Start()
	}()

	// Wait for shutdown signal or worker exit
	select {
	case sig := <-sigChan:
		log.Info().
			Str("signal", sig.String()).
			Msg("Received shutdown signal")
		cancel()
		<-workerDone
	case err := <-workerDone:
		if err != nil {
			log.Error().Err(err).Msg("Worker exited with error")
		} else {
			log.Info().Msg("Worker exited normally")
		}
	}

	log.Info().Msg("Shutting down gracefully...")
}
