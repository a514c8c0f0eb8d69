// Package extract classifies a fetched page into one of the site's known
// content shapes and produces the structured result for it. It operates on
// the HTML string alone and never learns which fetch strategy produced it.
package extract

import (
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// DefaultBaseURL is the origin used to absolutize relative song links.
const DefaultBaseURL = "https://www.cifraclub.com.br"

// Result type discriminators, matching the JSON contract.
const (
	TypeChordSheet    = "cifra"
	TypeArtistListing = "artista"
	TypeNotFound      = "not_found"
)

// Selectors for the site's known page shapes. These are expected to break
// when the site changes markup; graceful degradation to NotFound is the
// design goal, not resilience to arbitrary input.
const (
	chordBlockSelector  = "pre"
	songTitleSelector   = "h1.t1"
	artistLinkSelector  = "h2.t3 a.t1"
	artistTitleSelector = "h1.t1"
	topSongsSelector    = "ol.art-musics a"
)

// ChordSheet is a song page reduced to bracketed chord notation.
// VideoID stays nil when the page carries no recoverable video.
type ChordSheet struct {
	Type    string  `json:"type"`
	Artist  string  `json:"artist"`
	Song    string  `json:"song"`
	Content string  `json:"content"`
	VideoID *string `json:"videoId"`
}

// Song is one entry of an artist's top-songs listing.
type Song struct {
	Title string `json:"title"`
	URL   string `json:"url"`
}

// ArtistListing is an artist page reduced to its top-songs list.
type ArtistListing struct {
	Type   string `json:"type"`
	Artist string `json:"artist"`
	Songs  []Song `json:"songs"`
}

// Result holds exactly one recognized shape, or neither for NotFound.
type Result struct {
	Sheet   *ChordSheet
	Listing *ArtistListing
}

// Kind returns the discriminator for the active variant.
func (r Result) Kind() string {
	switch {
	case r.Sheet != nil:
		return TypeChordSheet
	case r.Listing != nil:
		return TypeArtistListing
	default:
		return TypeNotFound
	}
}

// NotFound reports whether neither shape was recognized.
func (r Result) NotFound() bool { return r.Sheet == nil && r.Listing == nil }

// Extractor classifies pages. The zero value uses DefaultBaseURL.
type Extractor struct {
	// BaseURL is the site origin prefixed to relative listing links.
	BaseURL string
}

// Classify parses the document and applies the shape checks in priority
// order: chord sheet first, artist listing second, NotFound otherwise. The
// order matters: a landing page can carry an empty chord block next to a
// song list and must not classify as a chord sheet.
func (e *Extractor) Classify(htmlText string) (Result, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(htmlText))
	if err != nil {
		return Result{}, fmt.Errorf("parse html: %w", err)
	}
	if sheet := e.chordSheet(doc); sheet != nil {
		return Result{Sheet: sheet}, nil
	}
	if listing := e.artistListing(doc); listing != nil {
		return Result{Listing: listing}, nil
	}
	return Result{}, nil
}

func (e *Extractor) chordSheet(doc *goquery.Document) *ChordSheet {
	block := doc.Find(chordBlockSelector).First()
	if block.Length() == 0 {
		return nil
	}
	// Normalization happens before the emptiness guard so a block holding
	// only chord markers and whitespace still counts as present.
	content := NormalizeChords(block)
	if strings.TrimSpace(content) == "" {
		return nil
	}
	return &ChordSheet{
		Type:    TypeChordSheet,
		Song:    strings.TrimSpace(doc.Find(songTitleSelector).First().Text()),
		Artist:  strings.TrimSpace(doc.Find(artistLinkSelector).First().Text()),
		Content: strings.Trim(trimTrailingSpace(content), "\n"),
		VideoID: videoID(doc),
	}
}

func (e *Extractor) artistListing(doc *goquery.Document) *ArtistListing {
	var songs []Song
	doc.Find(topSongsSelector).Each(func(_ int, s *goquery.Selection) {
		title := strings.TrimSpace(s.Text())
		href, _ := s.Attr("href")
		if title == "" || href == "" {
			return
		}
		songs = append(songs, Song{Title: title, URL: e.absolutize(href)})
	})
	if len(songs) == 0 {
		return nil
	}
	return &ArtistListing{
		Type:   TypeArtistListing,
		Artist: strings.TrimSpace(doc.Find(artistTitleSelector).First().Text()),
		Songs:  songs,
	}
}

func (e *Extractor) absolutize(href string) string {
	if strings.HasPrefix(href, "http://") || strings.HasPrefix(href, "https://") {
		return href
	}
	base := e.BaseURL
	if base == "" {
		base = DefaultBaseURL
	}
	return strings.TrimRight(base, "/") + "/" + strings.TrimLeft(href, "/")
}
