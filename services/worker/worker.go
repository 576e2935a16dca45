package worker

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"gamehound/dealscraper/internal/scraper"
	"gamehound/dealscraper/logger"
	"gamehound/dealscraper/services/publisher"
)

// CategoryScraper is the slice of the scraper the worker needs
type CategoryScraper interface {
	ScrapeCategory(category string, maxItems int, includeDetails bool) *scraper.CategoryResult
}

// Worker periodically scrapes the configured categories and publishes the
// resulting game stubs
type Worker struct {
	ctx            context.Context
	scraper        CategoryScraper
	publisher      publisher.Publisher
	categories     []string
	maxItems       int
	includeDetails bool
	interval       time.Duration
	log            *logger.Logger
}

// NewWorker creates a new worker
func NewWorker(
	ctx context.Context,
	s CategoryScraper,
	pub publisher.Publisher,
	categories []string,
	maxItems int,
	includeDetails bool,
	interval time.Duration,
) *Worker {
	return &Worker{
		ctx:            ctx,
		scraper:        s,
		publisher:      pub,
		categories:     categories,
		maxItems:       maxItems,
		includeDetails: includeDetails,
		interval:       interval,
		log:            logger.ForWorker(),
	}
}

// Start runs scrape cycles until the context is cancelled
func (w *Worker) Start() error {
	for {
		start := time.Now()
		w.runCycle()
		w.log.Info().
			Dur("elapsed", time.Since(start)).
			Msg("Scrape cycle finished")

		select {
		case <-w.ctx.Done():
			return nil
		case <-time.After(w.interval):
		}
	}
}

// runCycle scrapes all categories in parallel and then trims the streams. One
// category's failure never aborts the cycle.
func (w *Worker) runCycle() {
	var wg sync.WaitGroup
	for _, category := range w.categories {
		wg.Add(1)
		go func(category string) {
			defer wg.Done()
			w.scrapeAndPublish(category)
		}(category)
	}
	wg.Wait()

	if err := w.publisher.TrimStreams(); err != nil {
		w.log.Error().Err(err).Msg("Failed to trim streams")
	}
}

// scrapeAndPublish scrapes one category listing and publishes its stubs
func (w *Worker) scrapeAndPublish(category string) {
	result := w.scraper.ScrapeCategory(category, w.maxItems, w.includeDetails)
	if !result.Success {
		w.log.Error().
			Str("category", category).
			Str("url", result.URL).
			Str("error", result.Error).
			Msg("Category scrape failed")
		return
	}

	published := 0
	for _, stub := range result.Games {
		data, err := json.Marshal(stub)
		if err != nil {
			w.log.Error().Err(err).Str("title", stub.Title).Msg("Failed to marshal stub")
			continue
		}
		if err := w.publisher.Publish(category, data); err != nil {
			w.log.Error().Err(err).Str("title", stub.Title).Msg("Failed to publish stub")
			continue
		}
		published++
	}

	w.log.Info().
		Str("category", category).
		Int("games", len(result.Games)).
		Int("published", published).
		Msg("Published category listing")
}
