// Copyright 2023 - 2025, the Shuttle contributors
// SPDX-License-Identifier: AGPL-3.0-only

package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
)

var (
	errExpectedPointerToStruct = errors.New("expected a pointer to a struct")
	errUnsupportedFieldType    = errors.New("unsupported field type")
)

var durationType = reflect.TypeFor[time.Duration]()

// readEnv overlays environment variables onto the struct pointed to by spec.
//
// A field tagged `env:"NAME"` is only set while it still holds its zero
// value; `env:"NAME,overwrite"` always replaces it.
func readEnv(spec any) error {
	v := reflect.ValueOf(spec)
	if v.Kind() != reflect.Pointer || v.Elem().Kind() != reflect.Struct {
		return fmt.Errorf("%w, got %T", errExpectedPointerToStruct, spec)
	}

	return readEnvStruct(v.Elem())
}

func readEnvStruct(v reflect.Value) error {
	t := v.Type()

	for i := range v.NumField() {
		field, sf := v.Field(i), t.Field(i)
		if !field.CanSet() {
			continue
		}

		tag, ok := sf.Tag.Lookup("env")
		if !ok {
			if field.Kind() == reflect.Struct {
				if err := readEnvStruct(field); err != nil {
					return err
				}
			}

			continue
		}

		name, opts, _ := strings.Cut(tag, ",")

		value, set := os.LookupEnv(name)
		if !set {
			continue
		}

		if !slices.Contains(strings.Split(opts, ","), "overwrite") && !field.IsZero() {
			continue
		}

		if err := setFieldValue(field, name, value); err != nil {
			return fmt.Errorf("field %s: %w", sf.Name, err)
		}
	}

	return nil
}

func setFieldValue(field reflect.Value, name, value string) error {
	switch {
	case field.Type() == durationType:
		d, err := time.ParseDuration(value)
		if err != nil {
			return fmt.Errorf("failed to parse duration from env var %s (%s): %w", name, value, err)
		}

		field.SetInt(int64(d))
	case field.Kind() == reflect.String:
		field.SetString(value)
	case field.CanInt():
		n, err := strconv.ParseInt(value, 10, 64)
		if err != nil {
			return fmt.Errorf("failed to parse int from env var %s (%s): %w", name, value, err)
		}

		field.SetInt(n)
	case field.CanFloat():
		f, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return fmt.Errorf("failed to parse float from env var %s (%s): %w", name, value, err)
		}

		field.SetFloat(f)
	case field.Kind() == reflect.Bool:
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("failed to parse bool from env var %s (%s): %w", name, value, err)
		}

		field.SetBool(b)
	case field.Kind() == reflect.Slice && field.Type().Elem().Kind() == reflect.String:
		var items []string

		for item := range strings.SplitSeq(value, ",") {
			if item = strings.TrimSpace(item); item != "" {
				items = append(items, item)
			}
		}

		field.Set(reflect.ValueOf(items))
	default:
		return fmt.Errorf("%w: %s", errUnsupportedFieldType, field.Type())
	}

	return nil
}

// useDotEnv loads a .env file from the working directory or, failing that,
// from the directory of the binary. A missing file is not an error.
func useDotEnv() error {
	if cwd, err := os.Getwd(); err != nil {
		log.Warn().Err(err).Msg("Could not get current working directory")
	} else {
		loaded, err := loadDotEnv(filepath.Join(cwd, ".env"))
		if loaded || err != nil {
			return err
		}
	}

	dir := "."
	if exe, err := os.Executable(); err == nil {
		dir = filepath.Dir(exe)
	}

	_, err := loadDotEnv(filepath.Join(dir, ".env"))

	return err
}

// loadDotEnv sets the variables of a .env file that are not already set,
// and reports whether the file existed.
func loadDotEnv(envPath string) (bool, error) {
	data, err := os.ReadFile(envPath) // #nosec G304 -- fixed file name
	if os.IsNotExist(err) {
		log.Debug().Str("path", envPath).Msg("No .env file found, skipping")

		return false, nil
	}

	if err != nil {
		log.Warn().Err(err).Str("path", envPath).Msg("Could not read .env file")

		return false, nil
	}

	for i, line := range strings.Split(string(data), "\n") {
		key, value, ok := parseDotEnvLine(line)
		if !ok {
			if trimmed := strings.TrimSpace(line); trimmed != "" && !strings.HasPrefix(trimmed, "#") {
				log.Warn().
					Str("path", envPath).
					Int("line", i+1).
					Msg("Invalid format in .env file")
			}

			continue
		}

		if _, set := os.LookupEnv(key); set {
			continue
		}

		if err := os.Setenv(key, value); err != nil {
			return true, fmt.Errorf("could not set %s: %w", key, err)
		}
	}

	log.Info().Str("path", envPath).Msg("Loaded configuration from .env file")

	return true, nil
}

// parseDotEnvLine parses KEY=value, stripping one pair of matching quotes.
// Blank lines and comments are not ok.
func parseDotEnvLine(line string) (string, string, bool) {
	line = strings.TrimSpace(line)
	if line == "" || strings.HasPrefix(line, "#") {
		return "", "", false
	}

	line = strings.TrimPrefix(line, "export ")

	key, value, ok := strings.Cut(line, "=")
	key, value = strings.TrimSpace(key), strings.TrimSpace(value)

	if !ok || key == "" {
		return "", "", false
	}

	if n := len(value); n >= 2 && value[0] == value[n-1] && (value[0] == '"' || value[0] == '\'') {
		value = value[1 : n-1]
	}

	return key, value, true
}
