// Command cifrabox is the one-shot CLI: search the chords site or fetch a
// single page, printing the structured result as JSON. A fetched chord
// sheet can also be exported to PDF.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/cifrabox/cifrabox/internal/app"
	"github.com/cifrabox/cifrabox/internal/browser"
	"github.com/cifrabox/cifrabox/internal/export"
	"github.com/cifrabox/cifrabox/internal/fetch"
	"github.com/cifrabox/cifrabox/internal/search"
	"github.com/cifrabox/cifrabox/internal/slug"
)

func main() {
	zerolog.TimeFieldFormat = time.RFC3339
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})

	_ = godotenv.Load()

	var (
		configPath string
		searchAPI  string
		searchKey  string
		limit      int
		useBrowser bool
		pdfOut     string
		timeout    time.Duration
		verbose    bool
	)
	flag.StringVar(&configPath, "config", "cifrabox.yaml", "Path to YAML config file")
	flag.StringVar(&searchAPI, "search.api", "", "Structured search API base URL (scrapes the search page when empty)")
	flag.StringVar(&searchKey, "search.key", "", "Search API key (optional)")
	flag.IntVar(&limit, "limit", 0, "Result cap (defaults: 5 scraped, 10 API)")
	flag.BoolVar(&useBrowser, "browser", false, "Fetch pages through headless Chrome instead of plain HTTP")
	flag.StringVar(&pdfOut, "pdf", "", "Export a fetched chord sheet to this PDF path ('auto' derives the name from the song)")
	flag.DurationVar(&timeout, "timeout", 30*time.Second, "Overall deadline for the operation")
	flag.BoolVar(&verbose, "v", false, "Verbose logging")
	flag.Usage = usage
	flag.Parse()

	if verbose {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	} else {
		zerolog.SetGlobalLevel(zerolog.WarnLevel)
	}

	args := flag.Args()
	if len(args) < 2 {
		usage()
		os.Exit(2)
	}

	var cfg app.Config
	fileCfg, err := app.LoadFileConfig(configPath)
	if err != nil {
		log.Fatal().Err(err).Msg("load config")
	}
	fileCfg.Apply(&cfg)
	app.ApplyEnv(&cfg)
	if searchAPI != "" {
		cfg.SearchAPIURL = searchAPI
	}
	if searchKey != "" {
		cfg.SearchAPIKey = searchKey
	}
	if limit > 0 {
		cfg.SearchLimit = limit
	}
	if useBrowser {
		cfg.UseBrowser = true
	}
	cfg.Defaults()

	chrome := &browser.Browser{NavigateTimeout: cfg.FetchTimeout}
	defer chrome.Close()

	var fetcher fetch.Fetcher = &fetch.Client{PerRequestTimeout: cfg.FetchTimeout}
	if cfg.UseBrowser {
		fetcher = chrome
	}
	var provider search.Provider
	if cfg.SearchAPIURL != "" {
		provider = &search.APIProvider{BaseURL: cfg.SearchAPIURL, APIKey: cfg.SearchAPIKey, Domain: cfg.Domain, Brand: cfg.Brand}
	} else {
		provider = &search.PageProvider{Fetcher: chrome, BaseURL: cfg.BaseURL, Domain: cfg.Domain, Brand: cfg.Brand}
	}
	svc := app.NewService(cfg, fetcher, provider, nil)

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	switch args[0] {
	case "search":
		results, err := svc.Search(ctx, args[1])
		if err != nil {
			log.Fatal().Err(err).Msg("search")
		}
		printJSON(results)
	case "fetch":
		res, err := svc.Page(ctx, args[1])
		if err != nil {
			log.Fatal().Err(err).Msg("fetch")
		}
		switch {
		case res.Sheet != nil:
			printJSON(res.Sheet)
			if pdfOut != "" {
				path := pdfOut
				if path == "auto" {
					path = slug.Make(res.Sheet.Artist+" "+res.Sheet.Song) + ".pdf"
				}
				if err := export.ChordSheetPDF(res.Sheet, path); err != nil {
					log.Fatal().Err(err).Msg("export pdf")
				}
				fmt.Fprintf(os.Stderr, "wrote %s\n", path)
			}
		case res.Listing != nil:
			printJSON(res.Listing)
		default:
			fmt.Fprintln(os.Stderr, "no recognized content at that URL")
			os.Exit(1)
		}
	default:
		usage()
		os.Exit(2)
	}
}

func printJSON(v any) {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		log.Fatal().Err(err).Msg("encode output")
	}
}

func usage() {
	fmt.Fprintf(os.Stderr, `Usage:
  cifrabox [flags] search <query>
  cifrabox [flags] fetch <url>

Flags:
`)
	flag.PrintDefaults()
}
