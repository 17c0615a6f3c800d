// Copyright 2023 - 2025, the Shuttle contributors
// SPDX-License-Identifier: AGPL-3.0-only

package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/klauspost/compress/zip"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"codeberg.org/shuttle/shuttle/core/store"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()

	var out bytes.Buffer

	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)

	err := cmd.Execute()

	return out.String(), err
}

func TestFence(t *testing.T) {
	t.Parallel()

	out, err := execute(t, "fence", "--kind", "printf", "%s and %s")
	require.NoError(t, err)

	assert.Equal(t, "\"%1$s\"\t[0,1]\n\"%2$s\"\t[7,8]\n", out)

	_, err = execute(t, "fence", "--kind", "nope", "x")
	require.Error(t, err)
}

func TestValid(t *testing.T) {
	t.Parallel()

	out, err := execute(t, "valid", "-k", "mustache", "{{name}}")
	require.NoError(t, err)
	assert.Equal(t, "true\n", out)

	out, err = execute(t, "valid", "-k", "mustache", "{{#name}}")
	require.ErrorIs(t, err, errExit)
	assert.Equal(t, "false\n", out)
}

func TestBlocktags(t *testing.T) {
	t.Parallel()

	out, err := execute(t, "blocktags", "content", "<p>One</p>\n<p> Two </p>")
	require.NoError(t, err)
	assert.Equal(t, "One\nTwo\n", out)

	out, err = execute(t, "blocktags", "names")
	require.NoError(t, err)
	assert.Contains(t, strings.Split(out, "\n"), "div")
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()

	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
}

const manifestJSON = `{
  "project": {"name": "web", "baseLocale": "en", "locales": ["de", "fr"]},
  "revision": "abc",
  "translations": [
    {"key": "/README.en.md", "originalKey": "README.en.md", "source": "README.en.md",
     "importer": "plaintext", "locale": "de", "copy": "Hallo", "approved": true},
    {"key": "/README.en.md", "originalKey": "README.en.md", "source": "README.en.md",
     "importer": "plaintext", "locale": "fr", "copy": "Salut", "approved": true}
  ]
}`

// The tests below set environment variables and cannot run in parallel.

func TestLocalize(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "repos", "web", "README.en.md"), "Hello")
	writeFile(t, filepath.Join(dir, "manifest.json"), manifestJSON)

	t.Setenv("SHUTTLE_STORE_ROOT", filepath.Join(dir, "repos"))
	t.Setenv("SHUTTLE_CONFIGFILE", filepath.Join(dir, "missing.yaml"))

	output := filepath.Join(dir, "out.zip")

	_, err := execute(t, "localize", filepath.Join(dir, "manifest.json"), "-o", output, "-l", "fr")
	require.NoError(t, err)

	zr, err := zip.OpenReader(output)
	require.NoError(t, err)
	t.Cleanup(func() { _ = zr.Close() })

	require.Len(t, zr.File, 1)
	assert.Equal(t, "README.fr.md", zr.File[0].Name)
}

func TestStoreImport(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "checkout", "po", "en.po"), "catalog")
	writeFile(t, filepath.Join(dir, "checkout", ".git", "HEAD"), "ref")

	db := filepath.Join(dir, "blobs.db")

	t.Setenv("SHUTTLE_STORE", "sqlite")
	t.Setenv("SHUTTLE_STORE_SQLITE_PATH", db)
	t.Setenv("SHUTTLE_CONFIGFILE", filepath.Join(dir, "missing.yaml"))

	_, err := execute(t, "store", "import", "--project", "web", "--revision", "abc", filepath.Join(dir, "checkout"))
	require.NoError(t, err)

	s, err := store.OpenSQLite(db)
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })

	got, err := s.Fetch(t.Context(), "web", "abc", "po/en.po")
	require.NoError(t, err)
	assert.Equal(t, "catalog", string(got))

	_, err = s.Fetch(t.Context(), "web", "abc", ".git/HEAD")
	require.ErrorIs(t, err, store.ErrNotFound)
}

func TestImportDirRequiresSQLite(t *testing.T) {
	t.Setenv("SHUTTLE_STORE", "fs")
	t.Setenv("SHUTTLE_CONFIGFILE", filepath.Join(t.TempDir(), "missing.yaml"))

	_, err := execute(t, "store", "import", "--project", "web", "--revision", "abc", t.TempDir())
	require.ErrorIs(t, err, errNotSQLite)
}
