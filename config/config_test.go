// Copyright 2023 - 2025, the Shuttle contributors
// SPDX-License-Identifier: AGPL-3.0-only

package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"codeberg.org/shuttle/shuttle/core/store"
)

func defaults() *Config {
	cfg := &Config{}
	cfg.SetDefaults()

	return cfg
}

func TestDefaultsAreValid(t *testing.T) {
	t.Parallel()

	require.NoError(t, defaults().validateAndSet())
}

func TestValidateAndSet(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		modify func(*Config)
		want   error
	}{
		{"log level", func(c *Config) { c.Log.Level = "verbose" }, errInvalidLogLevel},
		{"log format", func(c *Config) { c.Log.Format = "xml" }, errInvalidLogFormat},
		{"backend", func(c *Config) { c.Store.Backend = "s3" }, errInvalidStoreBackend},
		{"fs root", func(c *Config) { c.Store.Root = "" }, errStoreRootRequired},
		{"sqlite path", func(c *Config) { c.Store.Backend = BackendSQLite; c.Store.SQLitePath = "" }, errSQLitePathRequired},
		{"http base url", func(c *Config) { c.Store.Backend = BackendHTTP }, errBaseURLRequired},
		{"http relative url", func(c *Config) { c.Store.Backend = BackendHTTP; c.Store.BaseURL = "blobs/" }, errBaseURLInvalid},
		{"rate", func(c *Config) { c.Store.RequestsPerSecond = -1 }, errNegativeRate},
		{"burst", func(c *Config) { c.Store.Burst = -1 }, errNegativeBurst},
		{"timeout", func(c *Config) { c.Store.Timeout = -time.Second }, errNegativeTimeout},
		{"concurrency", func(c *Config) { c.Compile.Concurrency = 0 }, errInvalidConcurrency},
		{"cache size", func(c *Config) { c.Compile.CacheSize = 0 }, errInvalidCacheSize},
		{"archive name", func(c *Config) { c.Compile.ArchiveName = " " }, errArchiveNameRequired},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			cfg := defaults()
			tt.modify(cfg)

			require.ErrorIs(t, cfg.validateAndSet(), tt.want)
		})
	}
}

func TestValidateNormalizes(t *testing.T) {
	t.Parallel()

	cfg := defaults()
	cfg.Log.Level = " WARN "
	cfg.Store.Backend = "HTTP"
	cfg.Store.BaseURL = "https://blobs.example/api"

	require.NoError(t, cfg.validateAndSet())
	assert.Equal(t, "warn", cfg.Log.Level)
	assert.Equal(t, BackendHTTP, cfg.Store.Backend)

	cfg.Development.InDevelopment = true

	require.NoError(t, cfg.validateAndSet())
	assert.Equal(t, "debug", cfg.Log.Level)
}

func writeConfig(t *testing.T, name, content string) string {
	t.Helper()

	p := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(p, []byte(content), 0o600))

	return p
}

func TestReadFile(t *testing.T) {
	t.Parallel()

	yamlPath := writeConfig(t, "config.yaml", `
log:
  level: debug
store:
  backend: sqlite
  sqlitePath: /var/lib/shuttle/blobs.db
  timeout: 45s
compile:
  concurrency: 8
  cacheCompress: true
`)

	tomlPath := writeConfig(t, "config.toml", `
[log]
level = "debug"

[store]
backend = "sqlite"
sqlitePath = "/var/lib/shuttle/blobs.db"
timeout = "45s"

[compile]
concurrency = 8
cacheCompress = true
`)

	for _, p := range []string{yamlPath, tomlPath} {
		t.Run(filepath.Ext(p), func(t *testing.T) {
			t.Parallel()

			cfg := defaults()
			require.NoError(t, cfg.readFile(p))

			assert.Equal(t, "debug", cfg.Log.Level)
			assert.Equal(t, "console", cfg.Log.Format, "unset keys keep their defaults")
			assert.Equal(t, BackendSQLite, cfg.Store.Backend)
			assert.Equal(t, "/var/lib/shuttle/blobs.db", cfg.Store.SQLitePath)
			assert.Equal(t, 45*time.Second, cfg.Store.Timeout)
			assert.Equal(t, 8, cfg.Compile.Concurrency)
			assert.True(t, cfg.Compile.CacheCompress)
			assert.Equal(t, 128, cfg.Compile.CacheSize)
		})
	}
}

func TestReadFileMissingAndInvalid(t *testing.T) {
	t.Parallel()

	cfg := defaults()
	require.NoError(t, cfg.readFile(filepath.Join(t.TempDir(), "missing.yaml")))
	require.NoError(t, cfg.readFile(""))

	require.Error(t, cfg.readFile(writeConfig(t, "bad.yaml", "log: [")))
	require.Error(t, cfg.readFile(writeConfig(t, "bad.toml", "[log")))
}

// Tests below modify the process environment and cannot run in parallel.

func TestReadEnv(t *testing.T) {
	t.Setenv("SHUTTLE_STORE", "http")
	t.Setenv("SHUTTLE_STORE_REQUESTS_PER_SECOND", "2.5")
	t.Setenv("SHUTTLE_STORE_TIMEOUT", "1m")
	t.Setenv("SHUTTLE_STORE_TOKEN", "from-env")
	t.Setenv("SHUTTLE_LOG_OUTPUTS", " /dev/stdout , ,/tmp/shuttle.log")
	t.Setenv("SHUTTLE_CACHE_COMPRESS", "true")
	t.Setenv("SHUTTLE_CONCURRENCY", "2")

	cfg := defaults()
	cfg.Store.Token = "from-file"

	require.NoError(t, readEnv(cfg))

	assert.Equal(t, "http", cfg.Store.Backend)
	assert.InDelta(t, 2.5, cfg.Store.RequestsPerSecond, 0)
	assert.Equal(t, time.Minute, cfg.Store.Timeout)
	assert.Equal(t, "from-file", cfg.Store.Token, "token has no overwrite option")
	assert.Equal(t, []string{"/dev/stdout", "/tmp/shuttle.log"}, cfg.Log.Outputs)
	assert.True(t, cfg.Compile.CacheCompress)
	assert.Equal(t, 2, cfg.Compile.Concurrency)

	cfg.Store.Token = ""
	require.NoError(t, readEnv(cfg))
	assert.Equal(t, "from-env", cfg.Store.Token)
}

func TestReadEnvErrors(t *testing.T) {
	t.Setenv("SHUTTLE_CONCURRENCY", "many")

	require.Error(t, readEnv(defaults()))
	require.ErrorIs(t, readEnv(Config{}), errExpectedPointerToStruct)
}

func TestConfigFilePath(t *testing.T) {
	t.Setenv(configFileEnv, "/etc/shuttle/config.toml")

	assert.Equal(t, "/tmp/flag.yaml", configFilePath("/tmp/flag.yaml"))
	assert.Equal(t, "/etc/shuttle/config.toml", configFilePath(""))
}

func TestLoadDotEnv(t *testing.T) {
	t.Setenv("SHUTTLE_TEST_PRESET", "kept")
	t.Cleanup(func() { _ = os.Unsetenv("SHUTTLE_TEST_DOTENV") })

	p := writeConfig(t, ".env", `
# comment
SHUTTLE_TEST_DOTENV="from dotenv"
SHUTTLE_TEST_PRESET=replaced
not a pair
`)

	loaded, err := loadDotEnv(p)
	require.NoError(t, err)
	assert.True(t, loaded)

	assert.Equal(t, "from dotenv", os.Getenv("SHUTTLE_TEST_DOTENV"))
	assert.Equal(t, "kept", os.Getenv("SHUTTLE_TEST_PRESET"))

	loaded, err = loadDotEnv(filepath.Join(t.TempDir(), ".env"))
	require.NoError(t, err)
	assert.False(t, loaded)
}

func TestLoad(t *testing.T) {
	root := t.TempDir()
	p := writeConfig(t, "shuttle.toml", "[store]\nroot = \""+filepath.ToSlash(root)+"\"\n[log]\nlevel = \"warn\"\n")

	t.Setenv("SHUTTLE_ARCHIVE_NAME", "out.zip")

	var cfg Config
	require.NoError(t, cfg.Load(p))

	assert.Equal(t, filepath.ToSlash(root), cfg.Store.Root)
	assert.Equal(t, "warn", cfg.Log.Level)
	assert.Equal(t, "out.zip", cfg.Compile.ArchiveName)

	s, closeStore, err := cfg.OpenStore()
	require.NoError(t, err)
	t.Cleanup(func() { _ = closeStore() })

	assert.IsType(t, store.FS{}, s)

	t.Setenv("SHUTTLE_STORE", "ftp")
	require.ErrorIs(t, (&Config{}).Load(p), errInvalidStoreBackend)
}

func TestParseDotEnvLine(t *testing.T) {
	t.Parallel()

	tests := []struct {
		line, key, value string
		ok               bool
	}{
		{"A=b", "A", "b", true},
		{"  A = b  ", "A", "b", true},
		{`A="quoted value"`, "A", "quoted value", true},
		{`A='x'`, "A", "x", true},
		{`A=""`, "A", "", true},
		{"export A=b", "A", "b", true},
		{"A=b=c", "A", "b=c", true},
		{"# A=b", "", "", false},
		{"", "", "", false},
		{"novalue", "", "", false},
		{"=b", "", "", false},
	}

	for _, tt := range tests {
		key, value, ok := parseDotEnvLine(tt.line)
		assert.Equal(t, tt.ok, ok, tt.line)
		assert.Equal(t, tt.key, key, tt.line)
		assert.Equal(t, tt.value, value, tt.line)
	}
}

func TestYAMLRedactsToken(t *testing.T) {
	t.Parallel()

	cfg := defaults()
	cfg.Store.Token = "hunter2"

	out, err := cfg.YAML()
	require.NoError(t, err)

	assert.Contains(t, string(out), redactedValue)
	assert.Contains(t, string(out), "30s")
	assert.NotContains(t, string(out), "hunter2")
	assert.Equal(t, "hunter2", cfg.Store.Token)
}

func TestOpenStoreSQLite(t *testing.T) {
	t.Parallel()

	cfg := defaults()
	cfg.Store.Backend = BackendSQLite
	cfg.Store.SQLitePath = filepath.Join(t.TempDir(), "blobs.db")

	s, closeStore, err := cfg.OpenStore()
	require.NoError(t, err)
	require.NoError(t, closeStore())

	assert.IsType(t, &store.SQLite{}, s)

	b := cfg.Builder(s)
	assert.Equal(t, 4, b.Concurrency)
	assert.Equal(t, 128, b.CacheSize)
}

func TestPrettyStoreLine(t *testing.T) {
	t.Parallel()

	m := map[string]any{"sys": "store", "backend": "http", "project": "web", "revision": "abc", "path": "po/en.po", "len": "12"}
	require.NoError(t, prettyStoreLine(m))

	assert.Equal(t, map[string]any{"message": "[http] web@abc po/en.po", "len": "12"}, m)

	other := map[string]any{"sys": "compile", "message": "Starting build"}
	require.NoError(t, prettyStoreLine(other))
	assert.Equal(t, "Starting build", other["message"])
}

func TestBuildRevision(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "unknown", (&buildInfo{}).Revision())
	assert.Equal(t, "2025-03-01-0123abcd+dirty", (&buildInfo{
		VcsRevision: "0123abcdef",
		VcsTime:     "2025-03-01T10:00:00Z",
		VcsModified: true,
	}).Revision())
}
