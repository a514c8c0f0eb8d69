// Package search finds candidate song pages for a free-text query, either
// by scraping the site's rendered search page or by calling its structured
// search API. Both providers produce the same ordered, deduplicated result
// shape.
package search

import (
	"context"
	"net/url"
	"strings"
)

// Site defaults; both providers accept overrides for tests.
const (
	DefaultBaseURL = "https://www.cifraclub.com.br"
	DefaultDomain  = "cifraclub.com.br"
	DefaultBrand   = "Cifra Club"

	// DefaultPageLimit caps scrape-backed results; DefaultAPILimit matches
	// the upstream API's own page size. Both are policy, not protocol.
	DefaultPageLimit = 5
	DefaultAPILimit  = 10
)

// simplifiedSuffix marks the simplified alternate arrangement of a song
// URL. Collapsing it yields the canonical form shared with the standard
// arrangement.
const simplifiedSuffix = "simplificada.html"

// Result is a single search hit.
type Result struct {
	Title string `json:"title"`
	URL   string `json:"url"`
}

// Provider is the minimal search interface; PageProvider and APIProvider
// implement it.
type Provider interface {
	Search(ctx context.Context, query string, limit int) ([]Result, error)
	Name() string
}

// canonicalURL collapses a simplified-arrangement suffix so both
// arrangements of a song share one key.
func canonicalURL(raw string) string {
	return strings.TrimSuffix(raw, simplifiedSuffix)
}

// belongsToDomain reports whether raw's host is domain or a subdomain of it.
func belongsToDomain(raw, domain string) bool {
	u, err := url.Parse(raw)
	if err != nil {
		return false
	}
	host := strings.ToLower(u.Hostname())
	domain = strings.ToLower(domain)
	return host == domain || strings.HasSuffix(host, "."+domain)
}

// isLyricsLink reports whether the link targets a lyrics-only page, which
// carries no chord content.
func isLyricsLink(raw string) bool {
	u, err := url.Parse(raw)
	if err != nil {
		return false
	}
	return strings.Contains(u.Path, "/letra")
}

// cleanTitle strips the site's brand from a result title, case-insensitive,
// along with leftover separators and whitespace.
func cleanTitle(title, brand string) string {
	if brand != "" {
		lower := strings.ToLower(brand)
		for {
			i := strings.Index(strings.ToLower(title), lower)
			if i < 0 {
				break
			}
			title = title[:i] + title[i+len(brand):]
		}
	}
	return strings.Trim(title, " \t-–|")
}

// postProcess applies the shared result policy: brand-stripped titles,
// on-domain URLs only, optional lyrics-link drop, canonical-URL
// deduplication with insertion order preserved (first occurrence wins), and
// the result cap.
func postProcess(in []Result, domain, brand string, dropLyrics bool, limit int) []Result {
	seen := make(map[string]struct{}, len(in))
	out := make([]Result, 0, len(in))
	for _, r := range in {
		title := cleanTitle(r.Title, brand)
		if title == "" || !belongsToDomain(r.URL, domain) {
			continue
		}
		if dropLyrics && isLyricsLink(r.URL) {
			continue
		}
		canon := canonicalURL(r.URL)
		if _, dup := seen[canon]; dup {
			continue
		}
		seen[canon] = struct{}{}
		out = append(out, Result{Title: title, URL: canon})
		if limit > 0 && len(out) >= limit {
			break
		}
	}
	return out
}
