// Copyright 2023 - 2025, the Shuttle contributors
// SPDX-License-Identifier: AGPL-3.0-only

// Package config loads the compiler configuration from defaults, a YAML or
// TOML file, a .env file and the environment, in that order.
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/goccy/go-yaml"
)

const (
	configFileEnv      = "SHUTTLE_CONFIGFILE"
	defaultConfigFile  = "./config.yaml"
	fallbackConfigFile = "./config.yml"
)

// Global exposes the loaded configuration.
var Global Config

// Store backends.
const (
	BackendFS     = "fs"
	BackendSQLite = "sqlite"
	BackendHTTP   = "http"
)

// Config holds the application configuration.
type Config struct {
	Build buildInfo `toml:"-" yaml:"-"`

	Log struct {
		Level   string   `env:"SHUTTLE_LOG_LEVEL,overwrite"   toml:"level"   yaml:"level"`
		Outputs []string `env:"SHUTTLE_LOG_OUTPUTS,overwrite" toml:"outputs" yaml:"outputs"`
		Format  string   `env:"SHUTTLE_LOG_FORMAT,overwrite"  toml:"format"  yaml:"format"`
	} `toml:"log" yaml:"log"`

	Store struct {
		Backend    string `env:"SHUTTLE_STORE,overwrite"             toml:"backend"    yaml:"backend"`
		Root       string `env:"SHUTTLE_STORE_ROOT,overwrite"        toml:"root"       yaml:"root"`
		SQLitePath string `env:"SHUTTLE_STORE_SQLITE_PATH,overwrite" toml:"sqlitePath" yaml:"sqlitePath"`
		BaseURL    string `env:"SHUTTLE_STORE_BASE_URL,overwrite"    toml:"baseURL"    yaml:"baseURL"`

		// Token is sent to the http backend as a bearer token.
		Token             string        `env:"SHUTTLE_STORE_TOKEN"                         toml:"token"             yaml:"token"`
		RequestsPerSecond float64       `env:"SHUTTLE_STORE_REQUESTS_PER_SECOND,overwrite" toml:"requestsPerSecond" yaml:"requestsPerSecond"`
		Burst             int           `env:"SHUTTLE_STORE_BURST,overwrite"               toml:"burst"             yaml:"burst"`
		Timeout           time.Duration `env:"SHUTTLE_STORE_TIMEOUT,overwrite"             toml:"timeout"           yaml:"timeout"`
	} `toml:"store" yaml:"store"`

	Compile struct {
		Concurrency   int    `env:"SHUTTLE_CONCURRENCY,overwrite"    toml:"concurrency"   yaml:"concurrency"`
		CacheSize     int    `env:"SHUTTLE_CACHE_SIZE,overwrite"     toml:"cacheSize"     yaml:"cacheSize"`
		CacheCompress bool   `env:"SHUTTLE_CACHE_COMPRESS,overwrite" toml:"cacheCompress" yaml:"cacheCompress"`
		ArchiveName   string `env:"SHUTTLE_ARCHIVE_NAME,overwrite"   toml:"archiveName"   yaml:"archiveName"`
	} `toml:"compile" yaml:"compile"`

	Development struct {
		InDevelopment bool `env:"SHUTTLE_DEV" toml:"inDevelopment" yaml:"inDevelopment"`
	} `toml:"development" yaml:"development"`
}

// Load loads the configuration from every source. configFlag is the value of
// the --config flag, or empty when the flag was not given.
func (cfg *Config) Load(configFlag string) error {
	cfg.SetDefaults()
	cfg.Build.load()

	if err := cfg.readFile(configFilePath(configFlag)); err != nil {
		return fmt.Errorf("error loading config file: %w", err)
	}

	if err := useDotEnv(); err != nil {
		return fmt.Errorf("error using .env file: %w", err)
	}

	if err := readEnv(cfg); err != nil {
		return fmt.Errorf("error loading environment variables: %w", err)
	}

	if err := cfg.validateAndSet(); err != nil {
		return fmt.Errorf("configuration invalid: %w", err)
	}

	cfg.setupAudit()
	cfg.print()

	return nil
}

// configFilePath picks the config file with the following precedence:
//  1. the --config flag
//  2. the SHUTTLE_CONFIGFILE environment variable
//  3. ./config.yaml, or ./config.yml if only that exists
func configFilePath(configFlag string) string {
	if configFlag != "" {
		return configFlag
	}

	if env := os.Getenv(configFileEnv); env != "" {
		return env
	}

	if _, err := os.Stat(defaultConfigFile); os.IsNotExist(err) {
		if _, err := os.Stat(fallbackConfigFile); err == nil {
			return fallbackConfigFile
		}
	}

	return defaultConfigFile
}

// GetDurationEncoderOption returns a YAML encoder option that marshals
// time.Duration into a human-readable string format (e.g., "30s", "1m0s").
func GetDurationEncoderOption() yaml.EncodeOption {
	return yaml.CustomMarshaler[time.Duration](
		func(d time.Duration) ([]byte, error) {
			return yaml.Marshal(d.String())
		},
	)
}
