package textparse

import (
	"regexp"
	"strings"
)

// UnknownReleaseDate is the sentinel used when the raw text carries no date at all.
const UnknownReleaseDate = "Unknown release date"

// Keys used when platform/date association is ambiguous.
const (
	AllPlatformsKey    = "all_platforms"
	UnknownPlatformKey = "unknown"
)

var releaseDatePattern = regexp.MustCompile(`(?:January|February|March|April|May|June|July|August|September|October|November|December)\s+\d{1,2},\s+\d{4}`)

// platformLiterals is the fixed list of platform names recognized in release-date
// text, most specific first so that a longer name consumes its span before a
// substring of it can match ("PlayStation 5" before "PS5", "Nintendo Switch"
// before "Switch").
var platformLiterals = []string{
	"Xbox Series X/S",
	"Xbox Series X|S",
	"Xbox Series X",
	"Xbox Series S",
	"Xbox Series",
	"Nintendo Switch 2",
	"Nintendo Switch",
	"PlayStation 5",
	"PlayStation 4",
	"PlayStation 3",
	"PlayStation VR",
	"Xbox One",
	"Xbox 360",
	"PS5",
	"PS4",
	"PS3",
	"Switch",
	"Xbox",
	"Stadia",
	"Luna",
	"PC",
	"Linux",
	"macOS",
	"Mac",
	"iOS",
	"Android",
}

// ReleaseDates maps platform names to their release-date strings. Dates whose
// preceding text matched no known platform literal are collected under
// UnknownPlatforms instead of being discarded.
type ReleaseDates struct {
	Platforms        map[string]string `json:"platforms"`
	UnknownPlatforms []string          `json:"unknown_platforms,omitempty"`
}

// ParseReleaseDates splits a concatenated "platform+date" details string, of the
// form ":PS4, SwitchJanuary 25, 2018Xbox OneJanuary 26, 2018", into a per-platform
// date mapping. Platform names and dates are adjacent with no separator in the
// source markup, so this is best-effort segmentation:
//
//   - no date shape found: the whole text goes under "all_platforms"
//   - empty input: a single "unknown" entry with the UnknownReleaseDate sentinel
//   - a date whose preceding span matches no platform literal is kept under
//     UnknownPlatforms rather than silently vanishing
func ParseReleaseDates(raw string) ReleaseDates {
	text := strings.TrimSpace(raw)
	text = strings.TrimPrefix(text, ":")
	text = strings.TrimSpace(text)

	if text == "" {
		return ReleaseDates{Platforms: map[string]string{UnknownPlatformKey: UnknownReleaseDate}}
	}

	locs := releaseDatePattern.FindAllStringIndex(text, -1)
	if len(locs) == 0 {
		return ReleaseDates{Platforms: map[string]string{AllPlatformsKey: text}}
	}

	out := ReleaseDates{Platforms: make(map[string]string)}
	prev := 0
	for _, loc := range locs {
		date := text[loc[0]:loc[1]]
		span := text[prev:loc[0]]

		// Every platform literal found in the span preceding this date is assigned
		// this date. A matched literal is consumed from the span so a shorter
		// literal cannot double-count the same characters.
		matched := false
		for _, literal := range platformLiterals {
			if strings.Contains(span, literal) {
				out.Platforms[literal] = date
				span = strings.Replace(span, literal, "", 1)
				matched = true
			}
		}

		if !matched {
			out.UnknownPlatforms = append(out.UnknownPlatforms, date)
		}

		// Advance past the consumed date so the next span does not re-include
		// already-assigned platforms.
		prev = loc[1]
	}

	return out
}
