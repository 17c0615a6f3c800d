// Copyright 2023 - 2025, the Shuttle contributors
// SPDX-License-Identifier: AGPL-3.0-only

// Package archive collects localized files and writes them as a zip archive.
package archive

import (
	"errors"
	"fmt"
	"io"
	"maps"
	"os"
	"path"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/klauspost/compress/zip"
)

var errInvalidName = errors.New("invalid archive entry name")

// modified is stamped on every entry so that equal contents give equal archives.
var modified = time.Date(1980, time.January, 1, 0, 0, 0, 0, time.UTC)

// Archive is an in-memory set of files. It is safe for concurrent use.
type Archive struct {
	mu    sync.Mutex
	files map[string][]byte
}

func New() *Archive {
	return &Archive{files: make(map[string][]byte)}
}

// AddFile stores content under name. When overwrite is false and name is
// already present, the existing entry is kept.
func (a *Archive) AddFile(name string, content []byte, overwrite bool) error {
	clean := path.Clean(strings.TrimPrefix(name, "/"))
	if name == "" || clean == "." || clean == ".." || strings.HasPrefix(clean, "../") {
		return fmt.Errorf("%w: %q", errInvalidName, name)
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	if _, ok := a.files[clean]; ok && !overwrite {
		return nil
	}

	a.files[clean] = slices.Clone(content)

	return nil
}

// Files returns the entry names in lexical order.
func (a *Archive) Files() []string {
	a.mu.Lock()
	defer a.mu.Unlock()

	return slices.Sorted(maps.Keys(a.files))
}

// File returns a copy of the named entry.
func (a *Archive) File(name string) ([]byte, bool) {
	a.mu.Lock()
	defer a.mu.Unlock()

	content, ok := a.files[name]

	return slices.Clone(content), ok
}

// Len returns the number of entries.
func (a *Archive) Len() int {
	a.mu.Lock()
	defer a.mu.Unlock()

	return len(a.files)
}

// WriteTo writes a zip archive with the entries in lexical order.
func (a *Archive) WriteTo(w io.Writer) (int64, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	cw := &countingWriter{w: w}
	zw := zip.NewWriter(cw)

	for _, name := range slices.Sorted(maps.Keys(a.files)) {
		f, err := zw.CreateHeader(&zip.FileHeader{
			Name:     name,
			Method:   zip.Deflate,
			Modified: modified,
		})
		if err != nil {
			return cw.n, fmt.Errorf("failed to add %s: %w", name, err)
		}

		if _, err := f.Write(a.files[name]); err != nil {
			return cw.n, fmt.Errorf("failed to write %s: %w", name, err)
		}
	}

	if err := zw.Close(); err != nil {
		return cw.n, fmt.Errorf("failed to finish archive: %w", err)
	}

	return cw.n, nil
}

// WriteFile writes the archive to the named file.
func (a *Archive) WriteFile(name string) (err error) {
	f, err := os.Create(name)
	if err != nil {
		return err
	}

	defer func() {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
	}()

	_, err = a.WriteTo(f)

	return err
}

type countingWriter struct {
	w io.Writer
	n int64
}

func (c *countingWriter) Write(p []byte) (int, error) {
	n, err := c.w.Write(p)
	c.n += int64(n)

	return n, err
}
