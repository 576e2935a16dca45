package scraper

import (
	"encoding/json"

	"gamehound/dealscraper/internal/textparse"
)

// Sentinel strings used by the target site's conventions. Downstream consumers
// branch on these exact values, so a missing field is never emitted as null.
const (
	SentinelNA             = "N/A"
	SentinelUnknown        = "Unknown"
	SentinelUnknownTitle   = "Unknown title"
	SentinelNoScore        = "No score"
	SentinelNoPriceHistory = "no price-history data"
)

// FieldState tags how a field value was obtained.
type FieldState int

const (
	// StatePresent means the field was extracted from the page.
	StatePresent FieldState = iota
	// StateNotApplicable means the expected DOM structure was absent entirely.
	StateNotApplicable
	// StateNoData means the DOM structure was present but carried no data.
	StateNoData
	// StateUnrecognized means the field's text could not be interpreted.
	StateUnrecognized
)

// Field is a closed tagged variant for optional record fields. It carries the
// display text in every state so records marshal to the sentinel strings the
// source site uses, while callers can still branch on State exhaustively instead
// of comparing strings.
type Field struct {
	State FieldState `json:"-"`
	Text  string     `json:"-"`
}

// Present returns a populated field
func Present(text string) Field {
	return Field{State: StatePresent, Text: text}
}

// NotApplicable returns the "N/A" field
func NotApplicable() Field {
	return Field{State: StateNotApplicable, Text: SentinelNA}
}

// NoData returns a field whose structure existed but held nothing
func NoData(sentinel string) Field {
	return Field{State: StateNoData, Text: sentinel}
}

// Unrecognized returns a field whose text could not be interpreted
func Unrecognized(sentinel string) Field {
	return Field{State: StateUnrecognized, Text: sentinel}
}

// IsPresent reports whether the field holds an extracted value
func (f Field) IsPresent() bool {
	return f.State == StatePresent
}

// String returns the display text, which is the sentinel for non-present states
func (f Field) String() string {
	return f.Text
}

// MarshalJSON emits the display text so the wire shape matches the site's
// sentinel conventions
func (f Field) MarshalJSON() ([]byte, error) {
	return json.Marshal(f.Text)
}

// ProductRecord is the canonical output of detail-page extraction. Every field is
// either a populated value or one of the fixed sentinels, never silently absent.
type ProductRecord struct {
	Title                 string                  `json:"title"`
	MSRP                  Field                   `json:"msrp"`
	CurrentPrice          Field                   `json:"current_price"`
	LowestHistoricalPrice Field                   `json:"lowest_historical_price"`
	ReleaseDateRaw        string                  `json:"release_date_raw"`
	ReleaseDates          textparse.ReleaseDates  `json:"release_dates_parsed"`
	Genres                []string                `json:"genres"`
	Developer             Field                   `json:"developer"`
	Publisher             Field                   `json:"publisher"`
	MetacriticScore       Field                   `json:"metacritic_score"`
	MetacriticUserScore   Field                   `json:"metacritic_user_score"`
	OpenCriticScore       Field                   `json:"opencritic_score"`
	Platform              Field                   `json:"platform"`
	SourceURL             string                  `json:"source_url"`
}

// GameStub is the lightweight per-item record extracted directly from a listing
// page, before optional enrichment with detail-page data.
type GameStub struct {
	Title        string         `json:"title"`
	GameURL      string         `json:"game_url,omitempty"`
	CurrentPrice string         `json:"current_price,omitempty"`
	Discount     string         `json:"discount,omitempty"`
	Rating       string         `json:"rating,omitempty"`
	Details      *ProductRecord `json:"details,omitempty"`
}

// CategoryResult is the outcome of scraping one category listing page. Callers
// branch on Success; Error carries enough context to diagnose without re-running.
type CategoryResult struct {
	Success         bool       `json:"success"`
	Category        string     `json:"category"`
	URL             string     `json:"url,omitempty"`
	Games           []GameStub `json:"games"`
	Error           string     `json:"error,omitempty"`
	ValidCategories []string   `json:"valid_categories,omitempty"`
}

// GameDataResult is the outcome of the search-then-extract detail pipeline.
type GameDataResult struct {
	Success bool           `json:"success"`
	Query   string         `json:"query"`
	URL     string         `json:"url,omitempty"`
	Game    *ProductRecord `json:"game,omitempty"`
	Error   string         `json:"error,omitempty"`
}
