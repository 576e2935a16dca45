package scraper

import (
	"strings"

	"github.com/PuerkitoBio/goquery"

	"gamehound/dealscraper/internal/textparse"
	"gamehound/dealscraper/logger"
)

// Detail-page markup the extractor tracks. These class names and label strings
// are the de facto wire format of the target site.
const (
	titleSelector         = "h1.game-title"
	detailsRowSelector    = "div.game-info-details div.game-details-row"
	detailsLabelSelector  = "span.details-label"
	priceTableRowSelector = "table.game-prices tbody tr"
	priceButtonSelector   = "a.price-button span.price-inner"
	priceHistorySelector  = "div.price-history"
	historyPriceCell      = "td.text-right"
	genreLinkSelector     = "a[href*='/games/genre/']"
	developerLinkSelector = "a[href*='/games/developer/']"
	publisherLinkSelector = "a[href*='/games/publisher/']"
	scoreSpanSelector     = "span.score"

	allTimeLowLabel = "All time low"
)

// ExtractProductRecord extracts a structured record from a parsed detail page.
// It returns nil only on total failure; a missing DOM element degrades the one
// field it backs, never the whole record. An unexpected parse panic is caught
// here so it cannot escape past the public entry point.
func ExtractProductRecord(doc *goquery.Document, sourceURL string) (rec *ProductRecord) {
	log := logger.ForScraper("product")

	defer func() {
		if r := recover(); r != nil {
			log.Error().
				Interface("panic", r).
				Str("url", sourceURL).
				Msg("Unexpected failure while extracting product record")
			rec = nil
		}
	}()

	if doc == nil {
		return nil
	}

	rec = &ProductRecord{
		Title:                 SentinelUnknownTitle,
		MSRP:                  Unrecognized(SentinelUnknown),
		CurrentPrice:          NotApplicable(),
		LowestHistoricalPrice: NoData(SentinelNoPriceHistory),
		ReleaseDates:          textparse.ParseReleaseDates(""),
		Genres:                []string{SentinelUnknown},
		Developer:             Unrecognized(SentinelUnknown),
		Publisher:             Unrecognized(SentinelUnknown),
		MetacriticScore:       NoData(SentinelNoScore),
		MetacriticUserScore:   NoData(SentinelNoScore),
		OpenCriticScore:       NoData(SentinelNoScore),
		Platform:              Unrecognized(SentinelUnknown),
		SourceURL:             sourceURL,
	}

	if title := cleanSpace(doc.Find(titleSelector).First().Text()); title != "" {
		rec.Title = title
	}

	doc.Find(detailsRowSelector).Each(func(_ int, row *goquery.Selection) {
		extractDetailsRow(rec, row)
	})

	rec.CurrentPrice = extractCurrentPrice(doc)
	rec.LowestHistoricalPrice = extractAllTimeLow(doc)

	return rec
}

// extractDetailsRow dispatches one labeled details-list row to its field parser.
// The label is the text before the colon marker.
func extractDetailsRow(rec *ProductRecord, row *goquery.Selection) {
	label := cleanSpace(row.Find(detailsLabelSelector).First().Text())
	label = strings.TrimSuffix(label, ":")

	switch {
	case label == "MSRP":
		if value := rowValue(row); value != "" {
			if _, ok := textparse.ExtractPrice(value); ok {
				rec.MSRP = Present(value)
			}
		}

	case label == "Release date":
		raw := rowValue(row)
		rec.ReleaseDateRaw = raw
		rec.ReleaseDates = textparse.ParseReleaseDates(raw)

	case label == "Genre":
		var genres []string
		row.Find(genreLinkSelector).Each(func(_ int, a *goquery.Selection) {
			if genre := cleanSpace(a.Text()); genre != "" {
				genres = append(genres, genre)
			}
		})
		if len(genres) > 0 {
			rec.Genres = genres
		}

	case label == "Developer":
		if name := cleanSpace(row.Find(developerLinkSelector).First().Text()); name != "" {
			rec.Developer = Present(name)
		}

	case label == "Publisher":
		if name := cleanSpace(row.Find(publisherLinkSelector).First().Text()); name != "" {
			rec.Publisher = Present(name)
		}

	case label == "Metacritic":
		// Two score spans: the first is the critic score, the second (when
		// present) is the user score.
		scores := row.Find(scoreSpanSelector)
		rec.MetacriticScore = scoreField(cleanSpace(scores.Eq(0).Text()), rec.MetacriticScore)
		if scores.Length() > 1 {
			rec.MetacriticUserScore = scoreField(cleanSpace(scores.Eq(1).Text()), rec.MetacriticUserScore)
		}

	case label == "OpenCritic":
		// The numeric score sits in the row's direct text nodes, next to a styled
		// tier indicator element that must not leak into the value.
		rec.OpenCriticScore = scoreField(directText(row), rec.OpenCriticScore)

	case strings.Contains(label, "Platforms"):
		if value := rowValue(row); value != "" {
			rec.Platform = Present(value)
		}
	}
}

// extractCurrentPrice reads the first row of the price table. A missing table,
// row or price button cascades to "N/A" rather than raising.
func extractCurrentPrice(doc *goquery.Document) Field {
	rows := doc.Find(priceTableRowSelector)
	if rows.Length() == 0 {
		return NotApplicable()
	}
	price := cleanSpace(rows.First().Find(priceButtonSelector).First().Text())
	if price == "" {
		return NotApplicable()
	}
	return Present(price)
}

// extractAllTimeLow locates the "All time low" strong node inside the
// price-history section, walks to its row's next sibling row and reads the
// right-aligned price cell. Any missing step falls back to the "no
// price-history data" sentinel, which is distinct from "N/A": the history
// section exists on most pages but may hold no rows yet.
func extractAllTimeLow(doc *goquery.Document) Field {
	history := doc.Find(priceHistorySelector)
	if history.Length() == 0 {
		return NoData(SentinelNoPriceHistory)
	}

	low := NoData(SentinelNoPriceHistory)
	history.Find("strong").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		if cleanSpace(s.Text()) != allTimeLowLabel {
			return true
		}
		row := s.Closest("tr")
		if row.Length() == 0 {
			return true
		}
		next := row.Next()
		if next.Length() == 0 {
			return true
		}
		if value := cleanSpace(next.Find(historyPriceCell).First().Text()); value != "" {
			low = Present(value)
			return false
		}
		return true
	})

	return low
}

// scoreField validates score text with the numeric extractor. Empty text keeps
// the current field; text that carries no parseable score is tagged unrecognized
// rather than presented as a rating.
func scoreField(value string, current Field) Field {
	if value == "" {
		return current
	}
	if _, ok := textparse.ExtractScore(value); !ok {
		return Unrecognized(SentinelNoScore)
	}
	return Present(value)
}

// rowValue returns a details row's trailing text with the label span removed
func rowValue(row *goquery.Selection) string {
	clone := row.Clone()
	clone.Find(detailsLabelSelector).Remove()
	return cleanSpace(clone.Text())
}

// directText returns the concatenated direct text nodes of a row, dropping the
// label span and every child element
func directText(row *goquery.Selection) string {
	clone := row.Clone()
	clone.Find(detailsLabelSelector).Remove()
	clone.Children().Remove()
	return cleanSpace(clone.Text())
}

// cleanSpace trims and collapses internal whitespace
func cleanSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
