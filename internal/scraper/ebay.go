package scraper

import (
	"context"
	"math"
	"regexp"
	"strconv"
	"strings"
)

var nonPriceRe = regexp.MustCompile(`[^\d.]`)

// EbayScraper converts dollar prices to cents so all stored prices are
// integers in minor units.
type EbayScraper struct {
	Fetcher *Fetcher
}

func (s *EbayScraper) Name() string { return "ebay" }

func (s *EbayScraper) Match(url string) bool {
	return strings.Contains(url, "ebay")
}

func (s *EbayScraper) Scrape(ctx context.Context, url string) (*Result, error) {
	doc, err := s.Fetcher.GetDocument(ctx, url)
	if err != nil {
		return nil, err
	}

	out := &Result{}
	out.Title = strings.TrimSpace(doc.Find("span.ux-textspans.ux-textspans--BOLD").First().Text())

	if raw := strings.TrimSpace(doc.Find("div.x-price-primary span.ux-textspans").First().Text()); raw != "" {
		if v, err := strconv.ParseFloat(nonPriceRe.ReplaceAllString(raw, ""), 64); err == nil {
			cents := int64(math.Round(v * 100))
			out.Price = &cents
		}
	}

	if src, ok := doc.Find("div.ux-image-carousel-item img").First().Attr("src"); ok {
		out.ImageURL = src
	}
	return out, nil
}
