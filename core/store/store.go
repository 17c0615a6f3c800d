// Copyright 2023 - 2025, the Shuttle contributors
// SPDX-License-Identifier: AGPL-3.0-only

/*
Package store fetches the source files that localizers rewrite.

A [Store] is addressed by project, revision and repository-relative path.
Absent files are reported as [ErrNotFound] so that callers can skip them.
*/
package store

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// ErrNotFound is returned when a file does not exist at a revision.
var ErrNotFound = errors.New("blob not found")

var errInvalidPath = errors.New("invalid blob path")

// Store is a read-only blob store.
type Store interface {
	Fetch(ctx context.Context, project, revision, path string) ([]byte, error)
}

// Func adapts a function to [Store].
type Func func(ctx context.Context, project, revision, path string) ([]byte, error)

func (f Func) Fetch(ctx context.Context, project, revision, path string) ([]byte, error) {
	return f(ctx, project, revision, path)
}

// Map is an in-memory store keyed by [MapKey].
type Map map[string][]byte

// MapKey returns the key under which [Map] stores a blob.
func MapKey(project, revision, path string) string {
	return project + "@" + revision + ":" + strings.TrimPrefix(path, "/")
}

func (m Map) Fetch(_ context.Context, project, revision, path string) ([]byte, error) {
	content, ok := m[MapKey(project, revision, path)]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, path)
	}

	return content, nil
}

// cleanPath rejects paths that would escape the repository root.
func cleanPath(p string) (string, error) {
	p = strings.TrimPrefix(p, "/")

	if p == "" {
		return "", fmt.Errorf("%w: empty", errInvalidPath)
	}

	for _, segment := range strings.Split(p, "/") {
		if segment == ".." || segment == "." || segment == "" {
			return "", fmt.Errorf("%w: %s", errInvalidPath, p)
		}
	}

	return p, nil
}
