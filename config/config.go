package config

import (
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"gamehound/dealscraper/pkg/errors"
)

// Config represents the application configuration
type Config struct {
	// Redis configuration
	RedisAddr            string
	RedisDB              int
	RedisStream          string
	RedisStreamCount     int
	RedisStreamMaxLength int

	// Memcache configuration
	MemcacheAddr string

	// Scraper configuration
	BaseURL        string
	SearchPath     string
	ScrapeInterval time.Duration
	BlockTime      time.Duration

	// Worker configuration
	Categories          []string
	MaxItemsPerCategory int
	IncludeDetails      bool
	DetailWorkers       int

	// Environment
	Environment string
}

// LoadConfig loads the configuration from environment variables with defaults
func LoadConfig() Config {
	redisDB, _ := strconv.Atoi(getEnv("REDIS_DB", "0"))
	streamCount, _ := strconv.Atoi(getEnv("REDIS_STREAM_COUNT", "1"))
	streamMaxLength, _ := strconv.Atoi(getEnv("REDIS_STREAM_MAX_LENGTH", "500"))
	scrapeInterval, _ := strconv.Atoi(getEnv("SCRAPE_INTERVAL_SECONDS", "300"))
	blockTime, _ := strconv.Atoi(getEnv("RATE_LIMIT_BLOCK_SECONDS", "500"))
	maxItems, _ := strconv.Atoi(getEnv("MAX_ITEMS_PER_CATEGORY", "30"))
	detailWorkers, _ := strconv.Atoi(getEnv("DETAIL_WORKERS", "1"))
	includeDetails, _ := strconv.ParseBool(getEnv("INCLUDE_DETAILS", "false"))

	return Config{
		RedisAddr:            getEnv("REDIS_ADDR", "localhost:6379"),
		RedisDB:              redisDB,
		RedisStream:          getEnv("REDIS_STREAM", "gamedeals"),
		RedisStreamCount:     streamCount,
		RedisStreamMaxLength: streamMaxLength,
		MemcacheAddr:         getEnv("MEMCACHE_ADDR", "localhost:11211"),
		BaseURL:              getEnv("GAMEDEALS_BASE_URL", "https://gg.deals"),
		SearchPath:           getEnv("GAMEDEALS_SEARCH_PATH", "/games/?title="),
		ScrapeInterval:       time.Duration(scrapeInterval) * time.Second,
		BlockTime:            time.Duration(blockTime) * time.Second,
		Categories:           splitList(getEnv("GAMEDEALS_CATEGORIES", "deals,new-deals,historical-lows")),
		MaxItemsPerCategory:  maxItems,
		IncludeDetails:       includeDetails,
		DetailWorkers:        detailWorkers,
		Environment:          getEnv("GAMEDEALS_ENVIRONMENT", "development"),
	}
}

// Validate checks the configuration for values that would break the worker at runtime
func (c *Config) Validate() error {
	if c.BaseURL == "" {
		return errors.NewConfiguration("base URL must not be empty", nil)
	}
	if _, err := url.Parse(c.BaseURL); err != nil {
		return errors.NewConfiguration("base URL is not a valid URL", err)
	}
	if c.ScrapeInterval <= 0 {
		return errors.NewConfiguration("scrape interval must be positive", nil)
	}
	if c.RedisStreamCount < 1 {
		return errors.NewConfiguration("redis stream count must be at least 1", nil)
	}
	if c.DetailWorkers < 1 {
		return errors.NewConfiguration("detail workers must be at least 1", nil)
	}
	if len(c.Categories) == 0 {
		return errors.NewConfiguration("at least one category must be configured", nil)
	}
	return nil
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

// splitList splits a comma-separated env value into trimmed, non-empty entries
func splitList(value string) []string {
	var out []string
	for _, part := range strings.Split(value, ",") {
		part = strings.TrimSpace(part)
		if part != "" {
			out = append(out, part)
		}
	}
	return out
}
