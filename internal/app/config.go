package app

import "time"

// Config holds runtime configuration for the service.
type Config struct {
	// Target site
	BaseURL string
	Domain  string
	Brand   string

	// Search
	SearchAPIURL string
	SearchAPIKey string
	SearchLimit  int
	UseBrowser   bool

	// Fetching
	FetchTimeout time.Duration

	// Cache
	CacheTTL time.Duration

	// Server
	ListenAddr   string
	DatabasePath string
	JWTSecret    string
	TokenTTL     time.Duration

	Verbose bool
}

// Defaults fills zero fields with working values.
func (c *Config) Defaults() {
	if c.BaseURL == "" {
		c.BaseURL = "https://www.cifraclub.com.br"
	}
	if c.Domain == "" {
		c.Domain = "cifraclub.com.br"
	}
	if c.Brand == "" {
		c.Brand = "Cifra Club"
	}
	if c.FetchTimeout <= 0 {
		c.FetchTimeout = 15 * time.Second
	}
	if c.CacheTTL <= 0 {
		c.CacheTTL = time.Hour
	}
	if c.ListenAddr == "" {
		c.ListenAddr = ":8080"
	}
	if c.DatabasePath == "" {
		c.DatabasePath = "cifrabox.db"
	}
	if c.TokenTTL <= 0 {
		c.TokenTTL = 24 * time.Hour
	}
}
