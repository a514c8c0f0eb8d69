// Package app wires the fetch, extract, and search stages together and
// applies the request-level policies: input validation before any network
// call, the read-through page cache, and error propagation.
package app

import (
	"context"
	"encoding/json"
	"errors"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/cifrabox/cifrabox/internal/extract"
	"github.com/cifrabox/cifrabox/internal/fetch"
	"github.com/cifrabox/cifrabox/internal/search"
)

// ErrInvalidInput marks a missing or malformed URL or query, rejected
// before any network call.
var ErrInvalidInput = errors.New("invalid input")

// PageCache is the read-through cache contract, keyed by URL. The service
// treats any lookup error as a miss and applies the freshness window
// itself.
type PageCache interface {
	GetPage(ctx context.Context, url string) ([]byte, time.Time, error)
	PutPage(ctx context.Context, url string, payload []byte) error
}

// Service answers the two queries: search for a song, and fetch/classify a
// song page.
type Service struct {
	cfg       Config
	fetcher   fetch.Fetcher
	extractor *extract.Extractor
	provider  search.Provider
	cache     PageCache // nil disables caching
}

func NewService(cfg Config, fetcher fetch.Fetcher, provider search.Provider, cache PageCache) *Service {
	cfg.Defaults()
	return &Service{
		cfg:       cfg,
		fetcher:   fetcher,
		extractor: &extract.Extractor{BaseURL: cfg.BaseURL},
		provider:  provider,
		cache:     cache,
	}
}

// Search returns candidate song pages for a free-text query. Internal
// faults degrade to an empty result set; only a missing query is an error.
func (s *Service) Search(ctx context.Context, query string) ([]search.Result, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, ErrInvalidInput
	}
	results, err := s.provider.Search(ctx, query, s.cfg.SearchLimit)
	if err != nil {
		log.Warn().Err(err).Str("provider", s.provider.Name()).Str("query", query).
			Msg("search failed, returning no results")
		return []search.Result{}, nil
	}
	if results == nil {
		results = []search.Result{}
	}
	return results, nil
}

// Page fetches and classifies a song or artist page. The URL must belong
// to the target domain. Within the freshness window a cached
// classification is served without touching the network; NotFound and
// transport failures are never written back.
func (s *Service) Page(ctx context.Context, rawURL string) (extract.Result, error) {
	if err := s.validateURL(rawURL); err != nil {
		return extract.Result{}, err
	}

	if cached, ok := s.cacheLookup(ctx, rawURL); ok {
		return cached, nil
	}

	html, err := s.fetcher.Fetch(ctx, rawURL)
	if err != nil {
		return extract.Result{}, err
	}
	res, err := s.extractor.Classify(html)
	if err != nil {
		return extract.Result{}, err
	}
	if !res.NotFound() {
		s.cacheStore(ctx, rawURL, res)
	}
	log.Debug().Str("url", rawURL).Str("kind", res.Kind()).Msg("page classified")
	return res, nil
}

func (s *Service) validateURL(rawURL string) error {
	u, err := url.Parse(strings.TrimSpace(rawURL))
	if err != nil || u.Host == "" || (u.Scheme != "http" && u.Scheme != "https") {
		return ErrInvalidInput
	}
	host := strings.ToLower(u.Hostname())
	domain := strings.ToLower(s.cfg.Domain)
	if host != domain && !strings.HasSuffix(host, "."+domain) {
		return ErrInvalidInput
	}
	return nil
}

func (s *Service) cacheLookup(ctx context.Context, rawURL string) (extract.Result, bool) {
	if s.cache == nil {
		return extract.Result{}, false
	}
	payload, savedAt, err := s.cache.GetPage(ctx, rawURL)
	if err != nil {
		return extract.Result{}, false
	}
	if time.Since(savedAt) > s.cfg.CacheTTL {
		// Stale entries are misses; the refetch overwrites them.
		return extract.Result{}, false
	}
	var res extract.Result
	if err := json.Unmarshal(payload, &res); err != nil {
		log.Warn().Err(err).Str("url", rawURL).Msg("corrupt cache entry, refetching")
		return extract.Result{}, false
	}
	if res.NotFound() {
		return extract.Result{}, false
	}
	log.Debug().Str("url", rawURL).Msg("cache hit")
	return res, true
}

func (s *Service) cacheStore(ctx context.Context, rawURL string, res extract.Result) {
	if s.cache == nil {
		return
	}
	payload, err := json.Marshal(res)
	if err != nil {
		log.Warn().Err(err).Str("url", rawURL).Msg("cache encode failed")
		return
	}
	if err := s.cache.PutPage(ctx, rawURL, payload); err != nil {
		log.Warn().Err(err).Str("url", rawURL).Msg("cache write failed")
	}
}
