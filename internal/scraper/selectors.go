package scraper

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// Selector languages. Everything shipped today is CSS; the tag exists so a chain
// entry written against a different query language is skipped instead of being
// fed to the wrong engine.
const (
	KindCSS = "css"
)

// Selector describes one query in a fallback chain.
type Selector struct {
	Query string
	Kind  string
}

// CSS builds a CSS selector descriptor
func CSS(query string) Selector {
	return Selector{Query: query, Kind: KindCSS}
}

// Chain is an ordered list of selectors tried from most layout-specific to most
// generic. The first selector that yields any elements wins, which tolerates the
// target site shipping different markup variants between deployments.
type Chain []Selector

// First returns the matches of the first selector that yields any elements, or
// nil when every selector comes up empty.
func (c Chain) First(root *goquery.Selection) *goquery.Selection {
	for _, sel := range c {
		if sel.Kind != KindCSS {
			continue
		}
		found := root.Find(sel.Query)
		if found.Length() > 0 {
			return found
		}
	}
	return nil
}

// FirstText returns the trimmed text of the first match in the chain, or ""
func (c Chain) FirstText(root *goquery.Selection) string {
	found := c.First(root)
	if found == nil {
		return ""
	}
	return strings.TrimSpace(found.First().Text())
}

// FirstAttr returns the named attribute of the first match in the chain, or ""
func (c Chain) FirstAttr(root *goquery.Selection, attr string) string {
	found := c.First(root)
	if found == nil {
		return ""
	}
	value, _ := found.First().Attr(attr)
	return strings.TrimSpace(value)
}
