package scraper

import (
	"fmt"
	"sort"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"gamehound/dealscraper/logger"
)

// productPathMarker identifies product-detail links when every card selector in
// the fallback chain comes up empty.
const productPathMarker = "/game/"

// categoryPaths is the fixed set of scrapeable category listings. Unknown keys
// fail fast before any network call.
var categoryPaths = map[string]string{
	"deals":           "/deals/",
	"new-deals":       "/deals/?sort=date",
	"historical-lows": "/deals/?minRating=0&maxPriceChange=history",
	"under-10":        "/deals/?maxPrice=10",
	"free":            "/deals/?maxPrice=0",
}

// Card and per-field fallback chains, ordered from the most page-layout-specific
// variant the site has shipped to the most generic.
var (
	gameCardChain = Chain{
		CSS("div.game-grid div.game-card"),
		CSS("div.deals-list div.deal-item"),
		CSS("div.list-items > div[data-game-id]"),
	}

	stubTitleChain = Chain{
		CSS(".game-card-title a"),
		CSS("h3.title a"),
		CSS("a.game-name"),
	}

	stubLinkChain = Chain{
		CSS(".game-card-title a"),
		CSS("h3.title a"),
		CSS("a[href*='/game/']"),
	}

	stubPriceChain = Chain{
		CSS(".price-inner .numeric"),
		CSS("span.price-new"),
		CSS(".price"),
	}

	stubDiscountChain = Chain{
		CSS(".discount-badge"),
		CSS("span.price-discount"),
	}

	stubRatingChain = Chain{
		CSS(".game-rating"),
		CSS("span.rating"),
	}
)

// ValidCategories returns the sorted set of category keys accepted by
// ScrapeCategory
func ValidCategories() []string {
	keys := make([]string, 0, len(categoryPaths))
	for key := range categoryPaths {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

// ScrapeCategory fetches a category listing page and extracts lightweight game
// stubs, deduplicated by title and capped at maxItems (0 or negative means no
// cap). With includeDetails set, each retained stub is enriched with full
// detail-page data by title search; a failed enrichment keeps the stub.
func (s *Scraper) ScrapeCategory(category string, maxItems int, includeDetails bool) *CategoryResult {
	log := logger.ForScraper("category").WithField("category", category)
	result := &CategoryResult{Category: category}

	path, ok := categoryPaths[category]
	if !ok {
		result.Error = fmt.Sprintf("unknown category %q", category)
		result.ValidCategories = ValidCategories()
		return result
	}

	listURL := s.BaseURL + path
	result.URL = listURL

	doc, err := s.fetchDocument(listURL)
	if err != nil {
		result.Error = err.Error()
		return result
	}

	cards := findGameCards(doc)
	if cards == nil {
		// Not an error: the page parsed but holds no game elements.
		log.Warn().Str("url", listURL).Msg("No game elements found on listing page")
		result.Success = true
		result.Games = []GameStub{}
		return result
	}

	seen := make(map[string]bool)
	var stubs []GameStub
	cards.EachWithBreak(func(_ int, card *goquery.Selection) bool {
		if maxItems > 0 && len(stubs) >= maxItems {
			return false
		}
		stub := s.extractGameStub(card)
		if stub == nil {
			// Cards without a usable title are skipped, not counted as errors.
			return true
		}
		if seen[stub.Title] {
			return true
		}
		seen[stub.Title] = true
		stubs = append(stubs, *stub)
		return true
	})

	if includeDetails {
		s.enrichStubs(stubs)
	}

	log.Debug().Int("games", len(stubs)).Msg("Scraped category listing")

	result.Success = true
	result.Games = stubs
	return result
}

// ScrapeAllCategories scrapes every key in categories in turn. One category's
// failure does not stop the rest.
func (s *Scraper) ScrapeAllCategories(categories []string, maxItems int, includeDetails bool) []*CategoryResult {
	results := make([]*CategoryResult, 0, len(categories))
	for _, category := range categories {
		results = append(results, s.ScrapeCategory(category, maxItems, includeDetails))
	}
	return results
}

// findGameCards tries the card selector chain and, when every selector yields
// nothing, falls back to scanning all anchors for product-path links.
func findGameCards(doc *goquery.Document) *goquery.Selection {
	if cards := gameCardChain.First(doc.Selection); cards != nil {
		return cards
	}

	anchors := doc.Find("a").FilterFunction(func(_ int, a *goquery.Selection) bool {
		href, _ := a.Attr("href")
		return strings.Contains(href, productPathMarker)
	})
	if anchors.Length() > 0 {
		return anchors
	}
	return nil
}

// extractGameStub pulls a lightweight record out of one card element. Returns
// nil when no usable title can be found.
func (s *Scraper) extractGameStub(card *goquery.Selection) *GameStub {
	title := stubTitleChain.FirstText(card)
	href := stubLinkChain.FirstAttr(card, "href")

	// The anchor-scan fallback hands us bare <a> elements rather than cards.
	if card.Is("a") {
		if title == "" {
			title = cleanSpace(card.Text())
		}
		if href == "" {
			href, _ = card.Attr("href")
		}
	}

	if title == "" {
		return nil
	}

	stub := &GameStub{Title: title}
	if href != "" {
		stub.GameURL = s.resolveURL(href)
	}
	stub.CurrentPrice = stubPriceChain.FirstText(card)
	stub.Discount = stubDiscountChain.FirstText(card)
	stub.Rating = stubRatingChain.FirstText(card)
	return stub
}

// enrichStubs joins each stub with full detail-page data by title search.
// Failure is additive degradation: a stub whose detail fetch fails is kept as-is.
func (s *Scraper) enrichStubs(stubs []GameStub) {
	log := logger.ForScraper("category")
	s.Enricher.Execute(len(stubs), func(i int) {
		detail := s.FetchGameData(stubs[i].Title)
		if !detail.Success {
			log.Debug().
				Str("title", stubs[i].Title).
				Str("error", detail.Error).
				Msg("Detail enrichment failed; keeping stub")
			return
		}
		stubs[i].Details = detail.Game
	})
}
