// Package config loads the spendnote configuration from a JSON file with
// environment variable overrides.
package config

import (
	"fmt"
	"strings"

	kjson "github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// DefaultConfigFile is the config file path used when none is given.
const DefaultConfigFile = "config.json"

// envPrefix namespaces the environment variable overrides, e.g.
// SPENDNOTE_TOKEN overrides the "token" key.
const envPrefix = "SPENDNOTE_"

// Config holds the application configuration.
type Config struct {
	// Token is the document database API token.
	// Environment variable: SPENDNOTE_TOKEN
	Token string `koanf:"token"`

	// DatabaseID is the expense collection to write records to.
	// Environment variable: SPENDNOTE_DATABASE_ID
	DatabaseID string `koanf:"database_id"`

	// BaseURL overrides the API endpoint. Empty means the public API.
	BaseURL string `koanf:"base_url"`

	// RecentCount is how many recent records to print before the loop.
	RecentCount int `koanf:"recent_count"`

	// LookbackDays bounds how far back the date prompt may go.
	LookbackDays int `koanf:"lookback_days"`

	// Expenses maps a category label to historical expense names, used
	// for autocomplete and category preselection.
	Expenses map[string][]string `koanf:"expenses"`
}

// Load reads the config file at path and applies environment overrides.
func Load(path string) (Config, error) {
	k := koanf.New(".")

	if err := k.Load(file.Provider(path), kjson.Parser()); err != nil {
		return Config{}, fmt.Errorf("loading config file %s: %w", path, err)
	}

	if err := k.Load(env.Provider(envPrefix, ".", func(s string) string {
		return strings.ToLower(strings.TrimPrefix(s, envPrefix))
	}), nil); err != nil {
		return Config{}, fmt.Errorf("loading config from environment: %w", err)
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshaling config: %w", err)
	}

	if cfg.Token == "" {
		return Config{}, fmt.Errorf("token is required (config file or SPENDNOTE_TOKEN)")
	}
	if cfg.DatabaseID == "" {
		return Config{}, fmt.Errorf("database_id is required (config file or SPENDNOTE_DATABASE_ID)")
	}
	if cfg.RecentCount <= 0 {
		cfg.RecentCount = 5
	}
	if cfg.LookbackDays <= 0 {
		cfg.LookbackDays = 30
	}

	return cfg, nil
}
