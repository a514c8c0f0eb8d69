package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/cifrabox/cifrabox/internal/app"
	"github.com/cifrabox/cifrabox/internal/browser"
	"github.com/cifrabox/cifrabox/internal/fetch"
	"github.com/cifrabox/cifrabox/internal/search"
	"github.com/cifrabox/cifrabox/internal/server"
	"github.com/cifrabox/cifrabox/internal/store"
)

func main() {
	// Logging setup
	zerolog.TimeFieldFormat = time.RFC3339
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})

	_ = godotenv.Load()

	var (
		configPath  string
		addr        string
		dbPath      string
		searchAPI   string
		searchKey   string
		searchLimit int
		cacheTTL    time.Duration
		useBrowser  bool
		jwtSecret   string
		verbose     bool
	)
	flag.StringVar(&configPath, "config", "cifrabox.yaml", "Path to YAML config file")
	flag.StringVar(&addr, "addr", "", "Listen address, e.g. :8080")
	flag.StringVar(&dbPath, "db", "", "Path to the SQLite database")
	flag.StringVar(&searchAPI, "search.api", "", "Structured search API base URL (scrapes the search page when empty)")
	flag.StringVar(&searchKey, "search.key", "", "Search API key (optional)")
	flag.IntVar(&searchLimit, "search.limit", 0, "Result cap (defaults: 5 scraped, 10 API)")
	flag.DurationVar(&cacheTTL, "cache.ttl", 0, "Page cache freshness window (default 1h)")
	flag.BoolVar(&useBrowser, "browser", false, "Fetch pages through headless Chrome instead of plain HTTP")
	flag.StringVar(&jwtSecret, "jwt.secret", "", "Secret for signing session tokens")
	flag.BoolVar(&verbose, "v", false, "Verbose logging")
	flag.Parse()

	var cfg app.Config
	fileCfg, err := app.LoadFileConfig(configPath)
	if err != nil {
		log.Fatal().Err(err).Msg("load config")
	}
	fileCfg.Apply(&cfg)
	app.ApplyEnv(&cfg)
	if addr != "" {
		cfg.ListenAddr = addr
	}
	if dbPath != "" {
		cfg.DatabasePath = dbPath
	}
	if searchAPI != "" {
		cfg.SearchAPIURL = searchAPI
	}
	if searchKey != "" {
		cfg.SearchAPIKey = searchKey
	}
	if searchLimit > 0 {
		cfg.SearchLimit = searchLimit
	}
	if cacheTTL > 0 {
		cfg.CacheTTL = cacheTTL
	}
	if useBrowser {
		cfg.UseBrowser = true
	}
	if jwtSecret != "" {
		cfg.JWTSecret = jwtSecret
	}
	if verbose {
		cfg.Verbose = true
	}
	cfg.Defaults()

	if cfg.Verbose {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	} else {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}
	if cfg.JWTSecret == "" {
		log.Fatal().Msg("a JWT secret is required (flag -jwt.secret or CIFRABOX_JWT_SECRET)")
	}

	st, err := store.Open(cfg.DatabasePath)
	if err != nil {
		log.Fatal().Err(err).Str("path", cfg.DatabasePath).Msg("open store")
	}
	defer st.Close()

	chrome := &browser.Browser{NavigateTimeout: cfg.FetchTimeout}
	defer chrome.Close()

	var fetcher fetch.Fetcher = &fetch.Client{PerRequestTimeout: cfg.FetchTimeout}
	if cfg.UseBrowser {
		fetcher = chrome
	}

	var provider search.Provider
	if cfg.SearchAPIURL != "" {
		provider = &search.APIProvider{
			BaseURL: cfg.SearchAPIURL,
			APIKey:  cfg.SearchAPIKey,
			Domain:  cfg.Domain,
			Brand:   cfg.Brand,
		}
	} else {
		// The site renders search results client-side, so scraping them
		// always goes through the browser.
		provider = &search.PageProvider{
			Fetcher: chrome,
			BaseURL: cfg.BaseURL,
			Domain:  cfg.Domain,
			Brand:   cfg.Brand,
		}
	}

	svc := app.NewService(cfg, fetcher, provider, st)
	srv := server.New(cfg, svc, st)

	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-done
		log.Info().Msg("shutting down")
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(ctx); err != nil {
			log.Error().Err(err).Msg("shutdown")
		}
	}()

	if err := srv.Start(); err != nil {
		log.Fatal().Err(err).Msg("server")
	}
}
