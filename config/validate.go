// Copyright 2023 - 2025, the Shuttle contributors
// SPDX-License-Identifier: AGPL-3.0-only

package config

import (
	"errors"
	"fmt"
	"net/url"
	"slices"
	"strings"
)

// validation errors.
var (
	errInvalidLogLevel     = errors.New("invalid Log.Level value")
	errInvalidLogFormat    = errors.New("invalid Log.Format value")
	errInvalidStoreBackend = errors.New("invalid Store.Backend value")
	errStoreRootRequired   = errors.New("Store.Root is required for the fs backend")
	errSQLitePathRequired  = errors.New("Store.SQLitePath is required for the sqlite backend")
	errBaseURLRequired     = errors.New("Store.BaseURL is required for the http backend")
	errBaseURLInvalid      = errors.New("Store.BaseURL must be an absolute http(s) URL")
	errNegativeRate        = errors.New("Store.RequestsPerSecond cannot be negative")
	errNegativeBurst       = errors.New("Store.Burst cannot be negative")
	errNegativeTimeout     = errors.New("Store.Timeout cannot be negative")
	errInvalidConcurrency  = errors.New("Compile.Concurrency must be at least 1")
	errInvalidCacheSize    = errors.New("Compile.CacheSize must be at least 1")
	errArchiveNameRequired = errors.New("Compile.ArchiveName cannot be empty")
)

var (
	logLevels  = []string{"debug", "info", "warn", "error"}
	logFormats = []string{"console", "json"}
)

// validateAndSet validates the configuration and normalizes some fields.
func (cfg *Config) validateAndSet() error {
	cfg.Log.Level = strings.ToLower(strings.TrimSpace(cfg.Log.Level))
	if cfg.Development.InDevelopment {
		cfg.Log.Level = "debug"
	}

	if !slices.Contains(logLevels, cfg.Log.Level) {
		return fmt.Errorf("%w: %q", errInvalidLogLevel, cfg.Log.Level)
	}

	if !slices.Contains(logFormats, cfg.Log.Format) {
		return fmt.Errorf("%w: %q", errInvalidLogFormat, cfg.Log.Format)
	}

	cfg.Store.Backend = strings.ToLower(strings.TrimSpace(cfg.Store.Backend))

	switch cfg.Store.Backend {
	case BackendFS:
		if cfg.Store.Root == "" {
			return errStoreRootRequired
		}
	case BackendSQLite:
		if cfg.Store.SQLitePath == "" {
			return errSQLitePathRequired
		}
	case BackendHTTP:
		if cfg.Store.BaseURL == "" {
			return errBaseURLRequired
		}

		u, err := url.Parse(cfg.Store.BaseURL)
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			return fmt.Errorf("%w: %q", errBaseURLInvalid, cfg.Store.BaseURL)
		}
	default:
		return fmt.Errorf("%w: %q", errInvalidStoreBackend, cfg.Store.Backend)
	}

	switch {
	case cfg.Store.RequestsPerSecond < 0:
		return errNegativeRate
	case cfg.Store.Burst < 0:
		return errNegativeBurst
	case cfg.Store.Timeout < 0:
		return errNegativeTimeout
	case cfg.Compile.Concurrency < 1:
		return errInvalidConcurrency
	case cfg.Compile.CacheSize < 1:
		return errInvalidCacheSize
	case strings.TrimSpace(cfg.Compile.ArchiveName) == "":
		return errArchiveNameRequired
	}

	return nil
}
