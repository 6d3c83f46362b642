package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config represents the application configuration
type Config struct {
	Marketplace MarketplaceConfig `yaml:"marketplace"`
	Filter      FilterConfig      `yaml:"filter"`
	Scrape      ScrapeConfig      `yaml:"scrape"`
	Series      SeriesConfig      `yaml:"series"`
	Log         LogConfig         `yaml:"log"`
}

// MarketplaceConfig holds the sold-listings search feed settings
type MarketplaceConfig struct {
	BaseURL   string        `yaml:"base_url"`
	UserAgent string        `yaml:"user_agent"`
	MaxPages  int           `yaml:"max_pages"`
	RateLimit int           `yaml:"rate_limit"` // requests per minute
	Timeout   time.Duration `yaml:"timeout"`
}

// FilterConfig holds the observation acceptance band.
// Prices at or outside the bounds are discarded as outliers.
type FilterConfig struct {
	MinPrice float64 `yaml:"min_price"`
	MaxPrice float64 `yaml:"max_price"`
}

// ScrapeConfig holds scrape run settings
type ScrapeConfig struct {
	Workers  int    `yaml:"workers"` // concurrent page fetches per term
	Output   string `yaml:"output"`
	Database string `yaml:"database"` // sqlite path; empty disables the recorder
}

// SeriesConfig holds time-series synthesis settings
type SeriesConfig struct {
	Epoch      string `yaml:"epoch"` // dense series start, YYYY-MM-DD
	WindowDays int    `yaml:"window_days"`
}

// LogConfig holds logging settings
type LogConfig struct {
	Level string `yaml:"level"`
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		Marketplace: MarketplaceConfig{
			BaseURL:   "https://www.ebay.com/sch/i.html",
			UserAgent: "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36",
			MaxPages:  13,
			RateLimit: 30,
			Timeout:   30 * time.Second,
		},
		Filter: FilterConfig{
			MinPrice: 10,
			MaxPrice: 900,
		},
		Scrape: ScrapeConfig{
			Workers: 4,
			Output:  "Average_Prices_By_Day.csv",
		},
		Series: SeriesConfig{
			Epoch:      "2024-09-01",
			WindowDays: 30,
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// Load loads configuration from a YAML file
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil // Use defaults if file doesn't exist
		}
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	// Override with environment variables if set
	if url := os.Getenv("MARKETPLACE_BASE_URL"); url != "" {
		cfg.Marketplace.BaseURL = url
	}
	if ua := os.Getenv("MARKETPLACE_USER_AGENT"); ua != "" {
		cfg.Marketplace.UserAgent = ua
	}
	if db := os.Getenv("PRICETRACKER_DB"); db != "" {
		cfg.Scrape.Database = db
	}

	return cfg, nil
}

// EpochDate returns the configured dense-series start day.
func (s SeriesConfig) EpochDate() (time.Time, error) {
	return time.Parse("2006-01-02", s.Epoch)
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.Marketplace.BaseURL == "" {
		return fmt.Errorf("marketplace base_url is required")
	}
	if c.Marketplace.MaxPages < 1 {
		return fmt.Errorf("max_pages must be at least 1")
	}
	if c.Scrape.Workers < 1 {
		return fmt.Errorf("workers must be at least 1")
	}
	if c.Filter.MinPrice >= c.Filter.MaxPrice {
		return fmt.Errorf("filter min_price must be below max_price")
	}
	if c.Series.WindowDays < 1 {
		return fmt.Errorf("window_days must be at least 1")
	}
	if _, err := c.Series.EpochDate(); err != nil {
		return fmt.Errorf("series epoch: %w", err)
	}
	return nil
}
