package extract

import (
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
)

func docFrom(t *testing.T, html string) *goquery.Document {
	t.Helper()
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		t.Fatalf("parse fixture: %v", err)
	}
	return doc
}

func TestVideoID_PrimaryPath(t *testing.T) {
	doc := docFrom(t, `<html><body>
      <script id="js-store" type="application/json">{"video":{"youtubeID":"abc123"}}</script>
    </body></html>`)
	id := videoID(doc)
	if id == nil || *id != "abc123" {
		t.Fatalf("expected abc123, got %v", id)
	}
}

func TestVideoID_AlternatePath(t *testing.T) {
	doc := docFrom(t, `<html><body>
      <script id="js-store" type="application/json">{"song":{"video":{"youtubeID":"xyz789"}}}</script>
    </body></html>`)
	id := videoID(doc)
	if id == nil || *id != "xyz789" {
		t.Fatalf("expected xyz789, got %v", id)
	}
}

func TestVideoID_FallsBackToEmbedFrame(t *testing.T) {
	doc := docFrom(t, `<html><body>
      <iframe src="https://www.youtube.com/embed/dQw4w9WgXcQ?rel=0&autoplay=1"></iframe>
    </body></html>`)
	id := videoID(doc)
	if id == nil || *id != "dQw4w9WgXcQ" {
		t.Fatalf("expected dQw4w9WgXcQ, got %v", id)
	}
}

func TestVideoID_MalformedIslandDegradesToFrame(t *testing.T) {
	doc := docFrom(t, `<html><body>
      <script id="js-store" type="application/json">{"video": not json</script>
      <iframe src="https://www.youtube.com/embed/ok12345"></iframe>
    </body></html>`)
	id := videoID(doc)
	if id == nil || *id != "ok12345" {
		t.Fatalf("expected frame fallback, got %v", id)
	}
}

func TestVideoID_AbsentEverywhere(t *testing.T) {
	doc := docFrom(t, `<html><body>
      <iframe src="https://player.vimeo.com/video/123"></iframe>
    </body></html>`)
	if id := videoID(doc); id != nil {
		t.Fatalf("expected nil, got %q", *id)
	}
}

func TestVideoID_MalformedIslandDoesNotBreakClassification(t *testing.T) {
	html := `<html><body>
      <h1 class="t1">Song</h1>
      <script id="js-store" type="application/json">{broken</script>
      <pre>Intro: <b>C</b></pre>
    </body></html>`
	var e Extractor
	res, err := e.Classify(html)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Sheet == nil {
		t.Fatalf("expected chord sheet, got %s", res.Kind())
	}
	if res.Sheet.VideoID != nil {
		t.Fatalf("expected nil video id")
	}
}
