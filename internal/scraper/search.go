package scraper

import (
	"net/url"
	"strings"

	"gamehound/dealscraper/logger"
)

// primaryResultSelector marks the first anchor of a search results page that
// points at a product detail page.
const primaryResultSelector = "a.search-results-title"

// ResolveProductURL maps a free-text query to a canonical product URL via the
// search results page. It returns "" (and no error) when the search succeeds but
// yields no primary result; transport failures propagate as errors. First result
// wins: no ranking, no fuzzy matching.
func (s *Scraper) ResolveProductURL(query string) (string, error) {
	searchURL := s.BaseURL + s.SearchPath + url.QueryEscape(query)

	doc, err := s.fetchDocument(searchURL)
	if err != nil {
		return "", err
	}

	href, ok := doc.Find(primaryResultSelector).First().Attr("href")
	if !ok || strings.TrimSpace(href) == "" {
		logger.ForScraper("search").Debug().
			Str("query", query).
			Msg("No primary result for query")
		return "", nil
	}

	return s.resolveURL(href), nil
}

// FetchGameData runs the full detail pipeline for a query: search, fetch the
// resolved detail page, extract a product record. Failures at any stage come
// back as a structured result, never as an escaping error.
func (s *Scraper) FetchGameData(query string) *GameDataResult {
	result := &GameDataResult{Query: query}

	productURL, err := s.ResolveProductURL(query)
	if err != nil {
		result.Error = "search request failed: " + err.Error()
		return result
	}
	if productURL == "" {
		result.Error = "no results found for query"
		return result
	}
	result.URL = productURL

	doc, err := s.fetchDocument(productURL)
	if err != nil {
		result.Error = "failed to fetch product page: " + err.Error()
		return result
	}

	record := ExtractProductRecord(doc, productURL)
	if record == nil {
		result.Error = "failed to parse product page"
		return result
	}

	result.Success = true
	result.Game = record
	return result
}
