// Copyright 2023 - 2025, the Shuttle contributors
// SPDX-License-Identifier: AGPL-3.0-only

package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"codeberg.org/shuttle/shuttle/config"
	"codeberg.org/shuttle/shuttle/core/compile"
	"codeberg.org/shuttle/shuttle/core/locale"
	"codeberg.org/shuttle/shuttle/core/manifest"
)

func newLocalizeCmd(root *rootOptions) *cobra.Command {
	var (
		output  string
		locales []string
	)

	cmd := &cobra.Command{
		Use:   "localize <manifest.json>",
		Short: "Build the localized files of a commit into a zip archive",
		Long: `Read a commit manifest, fetch its source files from the configured
store and write every localized file into a zip archive.

Files that fail to localize are reported and the archive is still written
with everything else; the exit status is 1 in that case.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := root.loadConfig(); err != nil {
				return err
			}

			data, err := os.ReadFile(args[0]) // #nosec G304 -- path given on the command line
			if err != nil {
				return fmt.Errorf("failed to read manifest: %w", err)
			}

			commit, err := manifest.Parse(data)
			if err != nil {
				return fmt.Errorf("failed to parse manifest %s: %w", args[0], err)
			}

			targets, err := locale.ParseAll(locales...)
			if err != nil {
				return err
			}

			s, closeStore, err := config.Global.OpenStore()
			if err != nil {
				return fmt.Errorf("failed to open store: %w", err)
			}
			defer func() {
				if err := closeStore(); err != nil {
					log.Warn().Err(err).Msg("Failed to close store")
				}
			}()

			a, buildErr := config.Global.Builder(s).Localize(cmd.Context(), commit, targets...)

			var le *compile.LocalizeError
			if buildErr != nil && !errors.As(buildErr, &le) {
				return buildErr
			}

			if output == "" {
				output = config.Global.Compile.ArchiveName
			}

			if err := a.WriteFile(output); err != nil {
				return fmt.Errorf("failed to write archive: %w", err)
			}

			log.Info().
				Str("path", output).
				Int("files", a.Len()).
				Msg("Wrote archive")

			if buildErr != nil {
				fmt.Fprintln(cmd.ErrOrStderr(), buildErr)

				return errExit
			}

			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "archive path (default Compile.ArchiveName)")
	cmd.Flags().StringSliceVarP(&locales, "locale", "l", nil, "locales to build (default the project's locales)")

	return cmd
}
