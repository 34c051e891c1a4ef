package scraper

import (
	"context"
	"errors"
	"fmt"
)

// ErrNoScraper means no registered scraper recognizes the URL. The registry
// returns it without touching the network.
var ErrNoScraper = errors.New("no scraper available for url")

// Result is a successful fetch. Price is nil when the page was reachable but
// the expected price markup was absent; that is distinct from a fetch error.
type Result struct {
	Title    string
	Price    *int64
	ImageURL string
}

type Scraper interface {
	Name() string
	Match(url string) bool
	Scrape(ctx context.Context, url string) (*Result, error)
}

type Registry struct {
	scrapers []Scraper
}

func NewRegistry(scrapers ...Scraper) *Registry {
	return &Registry{scrapers: scrapers}
}

func (r *Registry) Register(s Scraper) {
	if r == nil || s == nil {
		return
	}
	r.scrapers = append(r.scrapers, s)
}

func (r *Registry) Resolve(url string) (Scraper, bool) {
	if r == nil {
		return nil, false
	}
	for _, s := range r.scrapers {
		if s.Match(url) {
			return s, true
		}
	}
	return nil, false
}

func (r *Registry) Scrape(ctx context.Context, url string) (*Result, error) {
	s, ok := r.Resolve(url)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNoScraper, url)
	}
	return s.Scrape(ctx, url)
}
