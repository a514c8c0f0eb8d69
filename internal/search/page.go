package search

import (
	"context"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/rs/zerolog/log"
)

// resultLinkSelector matches the rendered search-result anchors. The
// canonical target lives in the data attribute; the visible href is a
// redirect wrapper.
const resultLinkSelector = "a.gs-title[data-ctorig]"

// PageFetcher renders a page and waits for a readiness selector before
// serializing the DOM. internal/browser.Browser satisfies it.
type PageFetcher interface {
	FetchWait(ctx context.Context, url, waitSelector string) (string, error)
}

// PageProvider scrapes the site's client-rendered search page. Empty fields
// fall back to the package defaults.
type PageProvider struct {
	Fetcher PageFetcher
	BaseURL string
	Domain  string
	Brand   string
}

func (p *PageProvider) Name() string { return "page" }

// Search renders the search page and reads the result anchors. Result
// markers never appearing before the wait deadline is a normal no-results
// outcome; any fetch fault likewise degrades to an empty slice rather than
// a hard failure.
func (p *PageProvider) Search(ctx context.Context, query string, limit int) ([]Result, error) {
	if limit <= 0 {
		limit = DefaultPageLimit
	}
	base := p.BaseURL
	if base == "" {
		base = DefaultBaseURL
	}
	searchURL := strings.TrimRight(base, "/") + "/?q=" + url.QueryEscape(query)

	html, err := p.Fetcher.FetchWait(ctx, searchURL, resultLinkSelector)
	if err != nil {
		log.Debug().Err(err).Str("query", query).Msg("search page unavailable, returning no results")
		return nil, nil
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		log.Debug().Err(err).Msg("search page unparseable, returning no results")
		return nil, nil
	}

	var raw []Result
	doc.Find(resultLinkSelector).Each(func(_ int, s *goquery.Selection) {
		target, _ := s.Attr("data-ctorig")
		raw = append(raw, Result{Title: strings.TrimSpace(s.Text()), URL: target})
	})

	domain := p.Domain
	if domain == "" {
		domain = DefaultDomain
	}
	brand := p.Brand
	if brand == "" {
		brand = DefaultBrand
	}
	return postProcess(raw, domain, brand, false, limit), nil
}
