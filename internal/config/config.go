// Package config loads the application configuration from a YAML file.
// Every key has a sensible default, so the tool runs without any config
// file at all; a present file only overrides what it sets.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/dvloznov/sales-analytics/internal/catalog"
	"github.com/dvloznov/sales-analytics/internal/reader"
)

// CatalogConfig configures the product catalog client.
type CatalogConfig struct {
	// BaseURL is the catalog endpoint, without the /products path.
	BaseURL string `yaml:"base_url"`

	// Limit is the maximum number of products to fetch.
	Limit int `yaml:"limit"`

	// TimeoutSeconds bounds the catalog request.
	TimeoutSeconds int `yaml:"timeout_seconds"`
}

// Config is the full application configuration.
type Config struct {
	// InputFile is the pipe-delimited sales feed to analyze.
	InputFile string `yaml:"input_file"`

	// OutputReport is where the text report is written.
	OutputReport string `yaml:"output_report"`

	// EnrichedOutput is where the enriched flat file is written.
	EnrichedOutput string `yaml:"enriched_output"`

	// Encodings is the decoding fallback order for the input file.
	Encodings []string `yaml:"encodings"`

	Catalog CatalogConfig `yaml:"catalog"`

	// TopProducts is the size of the top-selling-products table.
	TopProducts int `yaml:"top_products"`

	// LowThreshold is the quantity below which a product counts as low
	// performing.
	LowThreshold int `yaml:"low_threshold"`

	// CurrencySymbol prefixes every money value in the report.
	CurrencySymbol string `yaml:"currency_symbol"`

	// LogLevel controls logger verbosity: debug, info, warn or error.
	LogLevel string `yaml:"log_level"`
}

// Default returns the configuration used when no file overrides it.
func Default() Config {
	return Config{
		InputFile:      "data/sales_data.txt",
		OutputReport:   "output/sales_report.txt",
		EnrichedOutput: "data/enriched_sales_data.txt",
		Encodings:      append([]string(nil), reader.DefaultEncodings...),
		Catalog: CatalogConfig{
			BaseURL:        catalog.DefaultBaseURL,
			Limit:          100,
			TimeoutSeconds: 10,
		},
		TopProducts:    5,
		LowThreshold:   10,
		CurrencySymbol: "₹",
		LogLevel:       "info",
	}
}

// Load reads the YAML file at path over the defaults. A missing file is
// not an error: the defaults are returned unchanged.
func Load(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("Load: %w", err)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("Load: parse %s: %w", path, err)
	}

	if cfg.TopProducts <= 0 {
		return cfg, fmt.Errorf("Load: top_products must be positive, got %d", cfg.TopProducts)
	}
	if cfg.LowThreshold < 0 {
		return cfg, fmt.Errorf("Load: low_threshold must not be negative, got %d", cfg.LowThreshold)
	}

	return cfg, nil
}

// CatalogTimeout returns the configured catalog timeout as a duration.
func (c Config) CatalogTimeout() time.Duration {
	return time.Duration(c.Catalog.TimeoutSeconds) * time.Second
}
