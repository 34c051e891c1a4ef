package scraper

import (
	"context"
	"regexp"
	"strconv"
	"strings"
)

var nonDigitRe = regexp.MustCompile(`\D`)

// FlipkartScraper reads rupee prices, which the site renders as whole units.
type FlipkartScraper struct {
	Fetcher *Fetcher
}

func (s *FlipkartScraper) Name() string { return "flipkart" }

func (s *FlipkartScraper) Match(url string) bool {
	return strings.Contains(url, "flipkart")
}

func (s *FlipkartScraper) Scrape(ctx context.Context, url string) (*Result, error) {
	doc, err := s.Fetcher.GetDocument(ctx, url)
	if err != nil {
		return nil, err
	}

	out := &Result{}
	out.Title = strings.TrimSpace(doc.Find("span.B_NuCI").First().Text())

	if raw := strings.TrimSpace(doc.Find("div._30jeq3._16Jk6d").First().Text()); raw != "" {
		if v, err := strconv.ParseInt(nonDigitRe.ReplaceAllString(raw, ""), 10, 64); err == nil {
			out.Price = &v
		}
	}

	if src, ok := doc.Find("img._2r_T1I._396QI4, img._396cs4._2amPTt._3qGmMb").First().Attr("src"); ok {
		out.ImageURL = src
	}
	return out, nil
}
