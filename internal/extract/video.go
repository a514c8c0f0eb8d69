package extract

import (
	"encoding/json"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/rs/zerolog/log"
)

// dataIslandSelector is the script tag carrying the page's hydration data.
const dataIslandSelector = "script#js-store"

var youtubeEmbedRe = regexp.MustCompile(`(?:youtube(?:-nocookie)?\.com)/embed/([^/?#&]+)`)

// videoID recovers the song's video identifier, best effort. The hydration
// data island is tried first, at both nested paths the site has used over
// time; an embedded player frame is the fallback. Absence and malformed
// JSON both yield nil.
func videoID(doc *goquery.Document) *string {
	if raw := strings.TrimSpace(doc.Find(dataIslandSelector).First().Text()); raw != "" {
		var store map[string]any
		if err := json.Unmarshal([]byte(raw), &store); err != nil {
			// Malformed hydration data must not affect classification of
			// the rest of the page.
			log.Debug().Err(err).Msg("malformed page data island")
		} else {
			if id := dig(store, "video", "youtubeID"); id != "" {
				return &id
			}
			if id := dig(store, "song", "video", "youtubeID"); id != "" {
				return &id
			}
		}
	}

	var id string
	doc.Find("iframe").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		src, ok := s.Attr("src")
		if !ok {
			return true
		}
		if m := youtubeEmbedRe.FindStringSubmatch(src); m != nil {
			id = m[1]
			return false
		}
		return true
	})
	if id != "" {
		return &id
	}
	return nil
}

// dig walks nested JSON objects and returns the string at path, or empty.
func dig(m map[string]any, path ...string) string {
	cur := any(m)
	for _, key := range path {
		obj, ok := cur.(map[string]any)
		if !ok {
			return ""
		}
		cur = obj[key]
	}
	s, _ := cur.(string)
	return s
}
