// Copyright 2023 - 2025, the Shuttle contributors
// SPDX-License-Identifier: AGPL-3.0-only

package store

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// FS serves checked-out repositories from a directory tree. A file is looked
// up at <Root>/<project>/<revision>/<path> first, then at
// <Root>/<project>/<path> for projects kept as a single working copy.
type FS struct {
	Root string
}

func (s FS) Fetch(ctx context.Context, project, revision, path string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	rel, err := cleanPath(path)
	if err != nil {
		return nil, err
	}

	if _, err := cleanPath(project); err != nil {
		return nil, err
	}

	var candidates []string
	if revision != "" {
		if _, err := cleanPath(revision); err == nil {
			candidates = append(candidates, filepath.Join(s.Root, project, revision, filepath.FromSlash(rel)))
		}
	}

	candidates = append(candidates, filepath.Join(s.Root, project, filepath.FromSlash(rel)))

	for _, candidate := range candidates {
		content, err := os.ReadFile(candidate)
		if err == nil {
			return content, nil
		}

		if !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("failed to read %s: %w", candidate, err)
		}
	}

	return nil, fmt.Errorf("%w: %s", ErrNotFound, rel)
}
