package extract

import (
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
)

func chordBlock(t *testing.T, html string) *goquery.Selection {
	t.Helper()
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		t.Fatalf("parse fixture: %v", err)
	}
	block := doc.Find("pre").First()
	if block.Length() == 0 {
		t.Fatalf("fixture has no chord block")
	}
	return block
}

func TestNormalizeChords_RewritesMarkers(t *testing.T) {
	block := chordBlock(t, `<pre>Intro: <b>G</b> <b>D</b></pre>`)
	got := NormalizeChords(block)
	if got != "Intro: [G] [D]" {
		t.Fatalf("expected bracket notation, got %q", got)
	}
}

func TestNormalizeChords_Idempotent(t *testing.T) {
	first := NormalizeChords(chordBlock(t, `<pre>Intro: <b>G</b> <b>D</b></pre>`))
	second := NormalizeChords(chordBlock(t, "<pre>"+first+"</pre>"))
	if second != first {
		t.Fatalf("expected %q unchanged, got %q", first, second)
	}
}

func TestNormalizeChords_NoMarkersPassesThrough(t *testing.T) {
	got := NormalizeChords(chordBlock(t, `<pre>just lyrics, no chords</pre>`))
	if got != "just lyrics, no chords" {
		t.Fatalf("unexpected rewrite: %q", got)
	}
}

func TestNormalizeChords_DoesNotMutateDocument(t *testing.T) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(`<pre><b>Am</b></pre>`))
	if err != nil {
		t.Fatalf("parse fixture: %v", err)
	}
	block := doc.Find("pre").First()
	_ = NormalizeChords(block)
	if block.Find("b").Length() != 1 {
		t.Fatalf("normalization mutated the source document")
	}
}
