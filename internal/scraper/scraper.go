package scraper

import (
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"gamehound/dealscraper/config"
	"gamehound/dealscraper/helpers"
	"gamehound/dealscraper/logger"
	"gamehound/dealscraper/pkg/errors"
	"gamehound/dealscraper/services/cache"
)

// Scraper scrapes the game-deals storefront. Each call is a single
// request/parse cycle; nothing is cached or persisted across calls beyond the
// rate-limit guard key.
type Scraper struct {
	BaseURL    string
	SearchPath string
	Fetch      helpers.FetchFunc
	CacheSvc   cache.CacheService
	CacheKey   string
	BlockTime  time.Duration
	Enricher   BatchExecutor
}

// New creates a scraper from the application configuration
func New(cfg *config.Config, cacheSvc cache.CacheService) *Scraper {
	var enricher BatchExecutor = SequentialExecutor{}
	if cfg.DetailWorkers > 1 {
		enricher = PooledExecutor{Workers: cfg.DetailWorkers}
	}

	return &Scraper{
		BaseURL:    strings.TrimSuffix(cfg.BaseURL, "/"),
		SearchPath: cfg.SearchPath,
		Fetch:      helpers.FetchWithBrowserHeaders,
		CacheSvc:   cacheSvc,
		CacheKey:   "gamedeals_rate_limited",
		BlockTime:  cfg.BlockTime,
		Enricher:   enricher,
	}
}

// fetchDocument fetches a URL and parses it into a goquery document, honoring the
// rate-limit guard: once the site answers 429 the guard key blocks further
// requests until it expires.
func (s *Scraper) fetchDocument(url string) (*goquery.Document, error) {
	if s.CacheSvc != nil && s.CacheKey != "" {
		if _, err := s.CacheSvc.Get(s.CacheKey); err == nil {
			return nil, errors.NewRateLimit(url, s.BlockTime)
		}
	}

	body, err := s.Fetch(url)
	if err != nil {
		if s.CacheSvc != nil && s.CacheKey != "" && strings.HasPrefix(err.Error(), "rate limited") {
			if cacheErr := s.CacheSvc.Set(s.CacheKey, []byte("1"), s.BlockTime); cacheErr != nil {
				logger.ForCache().Warn().Err(cacheErr).Msg("Failed to set rate-limit guard")
			}
			return nil, errors.NewRateLimit(url, s.BlockTime)
		}
		return nil, errors.NewNetwork(url, "failed to fetch page", err)
	}

	doc, err := goquery.NewDocumentFromReader(body)
	if err != nil {
		return nil, errors.NewParsing(url, "failed to parse HTML", err)
	}
	return doc, nil
}

// resolveURL resolves a possibly-relative href against the scraper's base URL
func (s *Scraper) resolveURL(href string) string {
	href = strings.TrimSpace(href)
	if href == "" {
		return ""
	}
	if strings.HasPrefix(href, "http://") || strings.HasPrefix(href, "https://") {
		return href
	}
	if strings.HasPrefix(href, "//") {
		return "https:" + href
	}
	if !strings.HasPrefix(href, "/") {
		href = "/" + href
	}
	return s.BaseURL + href
}
