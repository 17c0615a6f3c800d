// Copyright 2023 - 2025, the Shuttle contributors
// SPDX-License-Identifier: AGPL-3.0-only

package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"codeberg.org/shuttle/shuttle/config"
	"codeberg.org/shuttle/shuttle/core/store"
)

var errNotSQLite = errors.New("store import needs the sqlite backend")

func newStoreCmd(root *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "store",
		Short: "Manage the blob store",
	}

	var project, revision string

	importCmd := &cobra.Command{
		Use:   "import <dir>",
		Short: "Copy the files of a checkout into the sqlite store",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := root.loadConfig(); err != nil {
				return err
			}

			if config.Global.Store.Backend != config.BackendSQLite {
				return fmt.Errorf("%w, got %q", errNotSQLite, config.Global.Store.Backend)
			}

			s, err := store.OpenSQLite(config.Global.Store.SQLitePath)
			if err != nil {
				return err
			}
			defer s.Close()

			n, err := importDir(cmd.Context(), s, project, revision, args[0])
			if err != nil {
				return err
			}

			log.Info().
				Str("project", project).
				Str("revision", revision).
				Int("files", n).
				Msg("Imported files")

			return nil
		},
	}

	importCmd.Flags().StringVar(&project, "project", "", "project name")
	importCmd.Flags().StringVar(&revision, "revision", "", "revision the files belong to")
	_ = importCmd.MarkFlagRequired("project")
	_ = importCmd.MarkFlagRequired("revision")

	cmd.AddCommand(importCmd)

	return cmd
}

// importDir stores every regular file under dir, skipping hidden directories.
func importDir(ctx context.Context, s *store.SQLite, project, revision, dir string) (int, error) {
	n := 0

	err := filepath.WalkDir(dir, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		if d.IsDir() {
			if p != dir && d.Name()[0] == '.' {
				return filepath.SkipDir
			}

			return nil
		}

		if !d.Type().IsRegular() {
			return nil
		}

		rel, err := filepath.Rel(dir, p)
		if err != nil {
			return err
		}

		content, err := os.ReadFile(p) // #nosec G304 -- walking a directory given on the command line
		if err != nil {
			return err
		}

		if err := s.Put(ctx, project, revision, filepath.ToSlash(rel), content); err != nil {
			return fmt.Errorf("failed to store %s: %w", rel, err)
		}

		n++

		return nil
	})

	return n, err
}
