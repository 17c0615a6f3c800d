// Copyright 2023 - 2025, the Shuttle contributors
// SPDX-License-Identifier: AGPL-3.0-only

package archive

import (
	"bytes"
	"io"
	"path/filepath"
	"testing"

	"github.com/klauspost/compress/zip"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddFile(t *testing.T) {
	t.Parallel()

	a := New()

	require.NoError(t, a.AddFile("po/LINGUAS", []byte("de\n"), true))
	require.NoError(t, a.AddFile("po/LINGUAS", []byte("fr\n"), false))

	got, ok := a.File("po/LINGUAS")
	require.True(t, ok)
	assert.Equal(t, "de\n", string(got))

	require.NoError(t, a.AddFile("/po/LINGUAS", []byte("fr\n"), true))

	got, _ = a.File("po/LINGUAS")
	assert.Equal(t, "fr\n", string(got))
	assert.Equal(t, 1, a.Len())

	for _, name := range []string{"", "/", "..", "../x", "a/../../x"} {
		assert.ErrorIs(t, a.AddFile(name, nil, true), errInvalidName, name)
	}
}

func TestAddFileCopiesContent(t *testing.T) {
	t.Parallel()

	a := New()
	content := []byte("abc")

	require.NoError(t, a.AddFile("a.txt", content, true))
	content[0] = 'X'

	got, _ := a.File("a.txt")
	assert.Equal(t, "abc", string(got))
}

func readZip(t *testing.T, data []byte) map[string]string {
	t.Helper()

	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	require.NoError(t, err)

	out := make(map[string]string)

	for _, f := range zr.File {
		rc, err := f.Open()
		require.NoError(t, err)

		b, err := io.ReadAll(rc)
		require.NoError(t, err)
		require.NoError(t, rc.Close())

		out[f.Name] = string(b)
	}

	return out
}

func TestWriteToIsDeterministic(t *testing.T) {
	t.Parallel()

	build := func(order ...string) []byte {
		a := New()
		for _, name := range order {
			require.NoError(t, a.AddFile(name, []byte("content of "+name), true))
		}

		var buf bytes.Buffer

		n, err := a.WriteTo(&buf)
		require.NoError(t, err)
		assert.Equal(t, int64(buf.Len()), n)

		return buf.Bytes()
	}

	first := build("res/values-de/strings.xml", "App/de.lproj/Main.storyboard", "po/de.po")
	second := build("po/de.po", "res/values-de/strings.xml", "App/de.lproj/Main.storyboard")

	assert.Equal(t, first, second)
	assert.Equal(t, map[string]string{
		"App/de.lproj/Main.storyboard": "content of App/de.lproj/Main.storyboard",
		"po/de.po":                     "content of po/de.po",
		"res/values-de/strings.xml":    "content of res/values-de/strings.xml",
	}, readZip(t, first))
}

func TestFiles(t *testing.T) {
	t.Parallel()

	a := New()
	require.NoError(t, a.AddFile("b", nil, true))
	require.NoError(t, a.AddFile("a", nil, true))

	assert.Equal(t, []string{"a", "b"}, a.Files())
}

func TestWriteFile(t *testing.T) {
	t.Parallel()

	a := New()
	require.NoError(t, a.AddFile("README.de.md", []byte("Hallo"), true))

	name := filepath.Join(t.TempDir(), "out.zip")
	require.NoError(t, a.WriteFile(name))

	zr, err := zip.OpenReader(name)
	require.NoError(t, err)
	t.Cleanup(func() { _ = zr.Close() })

	require.Len(t, zr.File, 1)
	assert.Equal(t, "README.de.md", zr.File[0].Name)
}
