// Copyright 2023 - 2025, the Shuttle contributors
// SPDX-License-Identifier: AGPL-3.0-only

package config

import (
	"codeberg.org/shuttle/shuttle/core/compile"
	"codeberg.org/shuttle/shuttle/core/store"
)

// OpenStore opens the configured blob store. The returned close function
// releases it.
func (cfg *Config) OpenStore() (store.Store, func() error, error) {
	nop := func() error { return nil }

	switch cfg.Store.Backend {
	case BackendSQLite:
		s, err := store.OpenSQLite(cfg.Store.SQLitePath)
		if err != nil {
			return nil, nil, err
		}

		return s, s.Close, nil
	case BackendHTTP:
		s, err := store.NewHTTP(store.HTTPOptions{
			BaseURL:           cfg.Store.BaseURL,
			Token:             cfg.Store.Token,
			RequestsPerSecond: cfg.Store.RequestsPerSecond,
			Burst:             cfg.Store.Burst,
			Timeout:           cfg.Store.Timeout,
		})
		if err != nil {
			return nil, nil, err
		}

		return s, nop, nil
	default:
		return store.FS{Root: cfg.Store.Root}, nop, nil
	}
}

// Builder returns a compile.Builder over s configured by cfg.
func (cfg *Config) Builder(s store.Store) *compile.Builder {
	return &compile.Builder{
		Store:         s,
		Concurrency:   cfg.Compile.Concurrency,
		CacheSize:     cfg.Compile.CacheSize,
		CacheCompress: cfg.Compile.CacheCompress,
	}
}
