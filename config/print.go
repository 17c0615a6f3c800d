// Copyright 2023 - 2025, the Shuttle contributors
// SPDX-License-Identifier: AGPL-3.0-only

package config

import (
	"github.com/goccy/go-yaml"
	"github.com/rs/zerolog/log"
)

const redactedValue = "[redacted]"

// Redacted returns a copy of cfg that is safe to print.
func (cfg *Config) Redacted() Config {
	printable := *cfg

	if printable.Store.Token != "" {
		printable.Store.Token = redactedValue
	}

	return printable
}

// YAML marshals cfg, with secrets redacted.
func (cfg *Config) YAML() ([]byte, error) {
	return yaml.MarshalWithOptions(cfg.Redacted(), GetDurationEncoderOption(), yaml.Indent(2))
}

func (cfg *Config) print() {
	log.Debug().
		Str("version", BuildVersion).
		Str("revision", cfg.Build.Revision()).
		Msg("Starting Shuttle")

	configYAML, err := cfg.YAML()
	if err != nil {
		log.Error().Err(err).Msg("Failed to marshal config to YAML for printing")

		return
	}

	log.Debug().
		Str("config", string(configYAML)).
		Msg("Application configuration")
}
