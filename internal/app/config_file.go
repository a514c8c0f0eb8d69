package app

import (
	"fmt"
	"os"
	"strconv"
	"time"

	yaml "gopkg.in/yaml.v3"
)

// FileConfig is the single-file configuration schema. Nested sections map
// naturally to flags and environment variables.
type FileConfig struct {
	Site struct {
		BaseURL string `yaml:"baseURL"`
		Domain  string `yaml:"domain"`
		Brand   string `yaml:"brand"`
	} `yaml:"site"`

	Search struct {
		APIURL     string `yaml:"apiURL"`
		APIKey     string `yaml:"apiKey"`
		Limit      int    `yaml:"limit"`
		UseBrowser bool   `yaml:"useBrowser"`
	} `yaml:"search"`

	Fetch struct {
		Timeout string `yaml:"timeout"`
	} `yaml:"fetch"`

	Cache struct {
		TTL string `yaml:"ttl"`
	} `yaml:"cache"`

	Server struct {
		Addr      string `yaml:"addr"`
		Database  string `yaml:"database"`
		JWTSecret string `yaml:"jwtSecret"`
		TokenTTL  string `yaml:"tokenTTL"`
	} `yaml:"server"`

	Verbose bool `yaml:"verbose"`
}

// LoadFileConfig reads a YAML config file. A missing path is not an error;
// it returns an empty config so flags and env still apply.
func LoadFileConfig(path string) (*FileConfig, error) {
	var fc FileConfig
	if path == "" {
		return &fc, nil
	}
	b, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return &fc, nil
		}
		return nil, fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal(b, &fc); err != nil {
		return nil, fmt.Errorf("parse config file: %w", err)
	}
	return &fc, nil
}

// Apply copies non-zero file values onto cfg.
func (fc *FileConfig) Apply(cfg *Config) {
	if fc.Site.BaseURL != "" {
		cfg.BaseURL = fc.Site.BaseURL
	}
	if fc.Site.Domain != "" {
		cfg.Domain = fc.Site.Domain
	}
	if fc.Site.Brand != "" {
		cfg.Brand = fc.Site.Brand
	}
	if fc.Search.APIURL != "" {
		cfg.SearchAPIURL = fc.Search.APIURL
	}
	if fc.Search.APIKey != "" {
		cfg.SearchAPIKey = fc.Search.APIKey
	}
	if fc.Search.Limit > 0 {
		cfg.SearchLimit = fc.Search.Limit
	}
	if fc.Search.UseBrowser {
		cfg.UseBrowser = true
	}
	if d, err := time.ParseDuration(fc.Fetch.Timeout); err == nil && d > 0 {
		cfg.FetchTimeout = d
	}
	if d, err := time.ParseDuration(fc.Cache.TTL); err == nil && d > 0 {
		cfg.CacheTTL = d
	}
	if fc.Server.Addr != "" {
		cfg.ListenAddr = fc.Server.Addr
	}
	if fc.Server.Database != "" {
		cfg.DatabasePath = fc.Server.Database
	}
	if fc.Server.JWTSecret != "" {
		cfg.JWTSecret = fc.Server.JWTSecret
	}
	if d, err := time.ParseDuration(fc.Server.TokenTTL); err == nil && d > 0 {
		cfg.TokenTTL = d
	}
	if fc.Verbose {
		cfg.Verbose = true
	}
}

// ApplyEnv copies CIFRABOX_* environment values onto cfg. Environment wins
// over the config file; flags win over both.
func ApplyEnv(cfg *Config) {
	setStr := func(key string, dst *string) {
		if v := os.Getenv(key); v != "" {
			*dst = v
		}
	}
	setStr("CIFRABOX_BASE_URL", &cfg.BaseURL)
	setStr("CIFRABOX_DOMAIN", &cfg.Domain)
	setStr("CIFRABOX_BRAND", &cfg.Brand)
	setStr("CIFRABOX_SEARCH_API_URL", &cfg.SearchAPIURL)
	setStr("CIFRABOX_SEARCH_API_KEY", &cfg.SearchAPIKey)
	setStr("CIFRABOX_ADDR", &cfg.ListenAddr)
	setStr("CIFRABOX_DATABASE", &cfg.DatabasePath)
	setStr("CIFRABOX_JWT_SECRET", &cfg.JWTSecret)
	if v := os.Getenv("CIFRABOX_SEARCH_LIMIT"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.SearchLimit = n
		}
	}
	if v := os.Getenv("CIFRABOX_CACHE_TTL"); v != "" {
		if d, err := time.ParseDuration(v); err == nil && d > 0 {
			cfg.CacheTTL = d
		}
	}
	if v := os.Getenv("CIFRABOX_USE_BROWSER"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			cfg.UseBrowser = b
		}
	}
}
