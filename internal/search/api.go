package search

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/cifrabox/cifrabox/internal/fetch"
)

// APIProvider queries the site's structured search endpoint instead of
// scraping the rendered page. Configured via the base URL and optional key.
type APIProvider struct {
	BaseURL    string
	APIKey     string // optional
	HTTPClient *http.Client
	UserAgent  string // optional custom UA
	Domain     string
	Brand      string
}

func (a *APIProvider) Name() string { return "api" }

// Search calls the endpoint's /search path and decodes the JSON hit list.
// Lyrics-only links are dropped here since they carry no chord content.
func (a *APIProvider) Search(ctx context.Context, query string, limit int) ([]Result, error) {
	if a.BaseURL == "" {
		return nil, fmt.Errorf("missing search api base url")
	}
	if limit <= 0 {
		limit = DefaultAPILimit
	}
	u, err := url.Parse(a.BaseURL)
	if err != nil {
		return nil, err
	}
	// Ensure path
	if !strings.HasSuffix(u.Path, "/search") {
		u.Path = strings.TrimRight(u.Path, "/") + "/search"
	}
	q := u.Query()
	q.Set("q", query)
	q.Set("count", fmt.Sprintf("%d", limit))
	if a.APIKey != "" {
		q.Set("apikey", a.APIKey)
	}
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, err
	}
	ua := a.UserAgent
	if ua == "" {
		ua = fetch.DefaultUserAgent
	}
	req.Header.Set("User-Agent", ua)
	hc := a.HTTPClient
	if hc == nil {
		hc = &http.Client{Timeout: 10 * time.Second}
	}
	resp, err := hc.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("search api status: %d", resp.StatusCode)
	}
	var ar apiResponse
	if err := json.NewDecoder(resp.Body).Decode(&ar); err != nil {
		return nil, err
	}

	raw := make([]Result, 0, len(ar.Results))
	for _, r := range ar.Results {
		raw = append(raw, Result{Title: strings.TrimSpace(r.Title), URL: strings.TrimSpace(r.URL)})
	}
	domain := a.Domain
	if domain == "" {
		domain = DefaultDomain
	}
	brand := a.Brand
	if brand == "" {
		brand = DefaultBrand
	}
	return postProcess(raw, domain, brand, true, limit), nil
}

type apiResponse struct {
	Results []struct {
		Title string `json:"title"`
		URL   string `json:"url"`
	} `json:"results"`
}
