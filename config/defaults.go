// Copyright 2023 - 2025, the Shuttle contributors
// SPDX-License-Identifier: AGPL-3.0-only

package config

import "time"

const (
	defaultStoreTimeoutSeconds = 30
	defaultRequestsPerSecond   = 10
	defaultBurst               = 20
)

// SetDefaults populates the configuration with default values.
func (cfg *Config) SetDefaults() {
	cfg.Log.Level = "info"
	cfg.Log.Outputs = []string{"/dev/stderr"}
	cfg.Log.Format = "console"

	cfg.Store.Backend = BackendFS
	cfg.Store.Root = "./data/repos"
	cfg.Store.SQLitePath = "./data/blobs.db"
	cfg.Store.BaseURL = ""
	cfg.Store.Token = ""
	cfg.Store.RequestsPerSecond = defaultRequestsPerSecond
	cfg.Store.Burst = defaultBurst
	cfg.Store.Timeout = defaultStoreTimeoutSeconds * time.Second

	cfg.Compile.Concurrency = 4
	cfg.Compile.CacheSize = 128
	cfg.Compile.CacheCompress = false
	cfg.Compile.ArchiveName = "localized.zip"

	cfg.Development.InDevelopment = false
}
