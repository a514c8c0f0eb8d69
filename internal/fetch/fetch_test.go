package fetch

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func TestFetch_Success(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.WriteHeader(200)
		_, _ = w.Write([]byte("<html><body>ok</body></html>"))
	}))
	defer srv.Close()

	c := &Client{PerRequestTimeout: 2 * time.Second}
	body, err := c.Fetch(context.Background(), srv.URL)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(body, "ok") {
		t.Fatalf("expected body, got %q", body)
	}
}

func TestFetch_BrowserHeaders(t *testing.T) {
	var gotUA, gotLang string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUA = r.Header.Get("User-Agent")
		gotLang = r.Header.Get("Accept-Language")
		_, _ = w.Write([]byte("<html></html>"))
	}))
	defer srv.Close()

	c := &Client{PerRequestTimeout: 2 * time.Second}
	if _, err := c.Fetch(context.Background(), srv.URL); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(gotUA, "Mozilla/5.0") {
		t.Fatalf("expected desktop browser user agent, got %q", gotUA)
	}
	if !strings.HasPrefix(gotLang, "pt-BR") {
		t.Fatalf("expected Accept-Language favoring Portuguese, got %q", gotLang)
	}
}

func TestFetch_NonSuccessStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	c := &Client{PerRequestTimeout: 2 * time.Second}
	_, err := c.Fetch(context.Background(), srv.URL)
	var te *TransportError
	if !errors.As(err, &te) {
		t.Fatalf("expected *TransportError, got %v", err)
	}
	if te.Status != http.StatusNotFound {
		t.Fatalf("expected status 404, got %d", te.Status)
	}
}

func TestFetch_RejectsNonHTTPScheme(t *testing.T) {
	c := &Client{}
	_, err := c.Fetch(context.Background(), "ftp://example.com/x")
	var te *TransportError
	if !errors.As(err, &te) {
		t.Fatalf("expected *TransportError, got %v", err)
	}
}

func TestFetch_Timeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(500 * time.Millisecond)
		_, _ = w.Write([]byte("late"))
	}))
	defer srv.Close()

	c := &Client{PerRequestTimeout: 50 * time.Millisecond}
	_, err := c.Fetch(context.Background(), srv.URL)
	if err == nil {
		t.Fatalf("expected timeout error")
	}
	var te *TransportError
	if !errors.As(err, &te) {
		t.Fatalf("expected *TransportError, got %v", err)
	}
}
