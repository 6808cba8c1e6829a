// Package config loads runtime settings for the quotation desk from the environment.
package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// Config holds the tunables of the quotation engine and document renderer.
type Config struct {
	ItemsPerPage    int           `envconfig:"ITEMS_PER_PAGE" default:"8"`
	DefaultGST      float64       `envconfig:"DEFAULT_GST" default:"18"`
	PageWidthPx     int           `envconfig:"PAGE_WIDTH_PX" default:"800"`
	CategoryOrder   []string      `envconfig:"CATEGORY_ORDER" default:"Hardware,Software,Service"`
	ImageTimeout    time.Duration `envconfig:"IMAGE_TIMEOUT" default:"3s"`
	QuotationPrefix string        `envconfig:"QUOTATION_PREFIX" default:"QT"`
	ValidityDays    int           `envconfig:"VALIDITY_DAYS" default:"30"`
	DraftTTL        time.Duration `envconfig:"DRAFT_TTL" default:"12h"`
	SeedDemoCatalog bool          `envconfig:"SEED_DEMO_CATALOG" default:"true"`
}

// Load reads DESK_* environment variables.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("desk", &cfg); err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Default returns the configuration used when no environment overrides are set.
func Default() *Config {
	return &Config{
		ItemsPerPage:    8,
		DefaultGST:      18,
		PageWidthPx:     800,
		CategoryOrder:   []string{"Hardware", "Software", "Service"},
		ImageTimeout:    3 * time.Second,
		QuotationPrefix: "QT",
		ValidityDays:    30,
		DraftTTL:        12 * time.Hour,
		SeedDemoCatalog: true,
	}
}

// Validate rejects settings the planner and ledger cannot work with.
func (c *Config) Validate() error {
	if c.ItemsPerPage < 1 {
		return errors.New("items per page must be at least 1")
	}
	if c.DefaultGST < 0 {
		return errors.New("default GST must not be negative")
	}
	if c.PageWidthPx <= 0 {
		return errors.New("page width must be positive")
	}
	if c.QuotationPrefix == "" {
		return errors.New("quotation prefix must be provided")
	}
	return nil
}
