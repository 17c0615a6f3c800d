// Copyright 2023 - 2025, the Shuttle contributors
// SPDX-License-Identifier: AGPL-3.0-only

// Command genconfig writes the example configuration files under deploy/
// from the defaults of [config.Config].
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"strings"

	"github.com/goccy/go-yaml"
	"github.com/rs/zerolog/log"

	"codeberg.org/shuttle/shuttle/config"
	"codeberg.org/shuttle/shuttle/core/audit"
)

const (
	envOutputFile  = "deploy/.env.example"
	yamlOutputFile = "deploy/config.yaml.example"

	placeholderToken = "forge_pat_0123456789abcdef"

	header = `# Shuttle configuration (%s)
#
# Copy this file to %s and customize the values below.
#%s
# This file was auto-generated using go run ./cmd/genconfig.
`
)

// Settings set in the generated .env; everything else is left commented.
var requiredEnv = map[string]bool{"SHUTTLE_STORE": true, "SHUTTLE_STORE_ROOT": true}

var notes = map[string]string{
	"token":   "Bearer token sent to the http backend, for example a forge access token",
	"timeout": "Per request timeout of the http backend, as a Go duration",
}

// setting is one leaf of [config.Config].
type setting struct {
	section string // yaml name of the section
	key     string // yaml name of the setting
	env     string
	value   any
}

// sections groups the settings of cfg by section, in declaration order.
// Fields without a yaml name are skipped.
func sections(cfg *config.Config) [][]setting {
	var out [][]setting

	v := reflect.ValueOf(cfg).Elem()

	for i := range v.NumField() {
		section := yamlName(v.Type().Field(i))
		if section == "" || v.Field(i).Kind() != reflect.Struct {
			continue
		}

		var group []setting

		sv := v.Field(i)
		for j := range sv.NumField() {
			f := sv.Type().Field(j)

			env, _, _ := strings.Cut(f.Tag.Get("env"), ",")
			group = append(group, setting{section: section, key: yamlName(f), env: env, value: sv.Field(j).Interface()})
		}

		out = append(out, group)
	}

	return out
}

func yamlName(f reflect.StructField) string {
	name, _, _ := strings.Cut(f.Tag.Get("yaml"), ",")
	if name == "-" {
		return ""
	}

	return name
}

func renderEnv(groups [][]setting) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, header, "via environment variables", ".env", "")

	for _, group := range groups {
		fmt.Fprintf(&sb, "\n## %s\n", group[0].section)

		for _, s := range group {
			if s.env == "" {
				continue
			}

			value := fmt.Sprint(s.value)

			switch {
			case s.key == "token":
				fmt.Fprintf(&sb, "# %s=%q\n", s.env, placeholderToken)
			case requiredEnv[s.env]:
				fmt.Fprintf(&sb, "%s=%q\n", s.env, value)
			case reflect.ValueOf(s.value).Kind() == reflect.Slice || value == "":
				fmt.Fprintf(&sb, "# %s=\n", s.env)
			default:
				fmt.Fprintf(&sb, "# %s=%s\n", s.env, value)
			}
		}
	}

	sb.WriteString(`
## Network proxy settings for the http store backend
## ref: https://pkg.go.dev/net/http#ProxyFromEnvironment
# HTTPS_PROXY=
# HTTP_PROXY=
`)

	return sb.String()
}

func renderYAML(groups [][]setting) (string, error) {
	var sb strings.Builder

	fmt.Fprintf(&sb, header, "via configuration file", "config.yaml",
		"\n# Files ending in .toml are read as TOML instead, with the same keys.\n#")

	for _, group := range groups {
		fmt.Fprintf(&sb, "\n%s:\n", group[0].section)

		for _, s := range group {
			value := s.value
			if s.key == "token" {
				value = placeholderToken
			}

			b, err := yaml.MarshalWithOptions(value, yaml.Flow(true), config.GetDurationEncoderOption())
			if err != nil {
				return "", fmt.Errorf("failed to encode %s.%s: %w", s.section, s.key, err)
			}

			if note, ok := notes[s.key]; ok {
				fmt.Fprintf(&sb, "  # -- %s\n", note)
			}

			fmt.Fprintf(&sb, "  # %s: %s\n", s.key, strings.TrimSpace(string(b)))
		}
	}

	return sb.String(), nil
}

func write(name, content string) {
	if err := os.MkdirAll(filepath.Dir(name), 0o755); err != nil {
		log.Fatal().Err(err).Str("path", name).Msg("Failed to create output directory")
	}

	if err := os.WriteFile(name, []byte(content), 0o644); err != nil {
		log.Fatal().Err(err).Str("path", name).Msg("Failed to write example")
	}

	log.Info().Str("path", name).Msg("Wrote example")
}

func main() {
	audit.SetDefaultLogger()

	cfg := &config.Config{}
	cfg.SetDefaults()

	groups := sections(cfg)

	yamlContent, err := renderYAML(groups)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to render config.yaml.example")
	}

	write(envOutputFile, renderEnv(groups))
	write(yamlOutputFile, yamlContent)
}
