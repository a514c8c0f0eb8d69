package search

import "testing"

func TestPostProcess_DedupeSimplifiedSuffix(t *testing.T) {
	in := []Result{
		{Title: "X - Cifra Club", URL: "https://www.cifraclub.com.br/x/simplificada.html"},
		{Title: "X", URL: "https://www.cifraclub.com.br/x/"},
	}
	out := postProcess(in, DefaultDomain, DefaultBrand, false, 5)
	if len(out) != 1 {
		t.Fatalf("expected 1 result, got %d", len(out))
	}
	if out[0].URL != "https://www.cifraclub.com.br/x/" {
		t.Fatalf("expected canonical URL, got %q", out[0].URL)
	}
	if out[0].Title != "X" {
		t.Fatalf("expected brand-stripped title, got %q", out[0].Title)
	}
}

func TestPostProcess_FirstOccurrenceWins(t *testing.T) {
	in := []Result{
		{Title: "First", URL: "https://www.cifraclub.com.br/x/"},
		{Title: "Second", URL: "https://www.cifraclub.com.br/x/simplificada.html"},
		{Title: "Other", URL: "https://www.cifraclub.com.br/y/"},
	}
	out := postProcess(in, DefaultDomain, DefaultBrand, false, 5)
	if len(out) != 2 {
		t.Fatalf("expected 2 results, got %d", len(out))
	}
	if out[0].Title != "First" || out[1].Title != "Other" {
		t.Fatalf("expected insertion order with first entry kept, got %+v", out)
	}
}

func TestPostProcess_DropsOffDomainAndEmptyTitles(t *testing.T) {
	in := []Result{
		{Title: "Elsewhere", URL: "https://example.com/x/"},
		{Title: "   ", URL: "https://www.cifraclub.com.br/y/"},
		{Title: "Keep", URL: "https://m.cifraclub.com.br/z/"},
	}
	out := postProcess(in, DefaultDomain, DefaultBrand, false, 5)
	if len(out) != 1 || out[0].Title != "Keep" {
		t.Fatalf("expected only the on-domain titled entry, got %+v", out)
	}
}

func TestPostProcess_DropsLyricsLinksWhenAsked(t *testing.T) {
	in := []Result{
		{Title: "Chords", URL: "https://www.cifraclub.com.br/a/s/"},
		{Title: "Lyrics", URL: "https://www.cifraclub.com.br/a/s/letra/"},
	}
	out := postProcess(in, DefaultDomain, DefaultBrand, true, 10)
	if len(out) != 1 || out[0].Title != "Chords" {
		t.Fatalf("expected lyrics link dropped, got %+v", out)
	}
	out = postProcess(in, DefaultDomain, DefaultBrand, false, 10)
	if len(out) != 2 {
		t.Fatalf("expected lyrics link kept when not API-backed, got %+v", out)
	}
}

func TestPostProcess_CapsResultCount(t *testing.T) {
	var in []Result
	for _, p := range []string{"a", "b", "c", "d", "e", "f", "g"} {
		in = append(in, Result{Title: p, URL: "https://www.cifraclub.com.br/" + p + "/"})
	}
	out := postProcess(in, DefaultDomain, DefaultBrand, false, 5)
	if len(out) != 5 {
		t.Fatalf("expected cap of 5, got %d", len(out))
	}
}

func TestCleanTitle(t *testing.T) {
	cases := []struct{ in, want string }{
		{"Wonderwall - Cifra Club", "Wonderwall"},
		{"Wonderwall - CIFRA CLUB", "Wonderwall"},
		{"Cifra Club | Wonderwall", "Wonderwall"},
		{"  Wonderwall  ", "Wonderwall"},
	}
	for _, c := range cases {
		if got := cleanTitle(c.in, DefaultBrand); got != c.want {
			t.Fatalf("cleanTitle(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}
