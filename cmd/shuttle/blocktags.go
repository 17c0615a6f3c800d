// Copyright 2023 - 2025, the Shuttle contributors
// SPDX-License-Identifier: AGPL-3.0-only

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"codeberg.org/shuttle/shuttle/core/blocktag"
)

func newBlocktagsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "blocktags",
		Short: "Split strings at HTML block-level tags",
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "split <string>",
			Short: "Print the tag and content segments of a string",
			Args:  cobra.ExactArgs(1),
			Run: func(cmd *cobra.Command, args []string) {
				for _, seg := range blocktag.Split(args[0]) {
					kind := "text"
					if seg.Tag {
						kind = "tag"
					}

					fmt.Fprintf(cmd.OutOrStdout(), "%s\t%q\n", kind, seg.Text)
				}
			},
		},
		&cobra.Command{
			Use:   "content <string>",
			Short: "Print the trimmed non-tag content of a string, one segment per line",
			Args:  cobra.ExactArgs(1),
			Run: func(cmd *cobra.Command, args []string) {
				for _, text := range blocktag.Content(args[0]) {
					fmt.Fprintln(cmd.OutOrStdout(), text)
				}
			},
		},
		&cobra.Command{
			Use:   "names",
			Short: "Print the recognised block-level element names",
			Args:  cobra.NoArgs,
			Run: func(cmd *cobra.Command, _ []string) {
				for _, name := range blocktag.Names() {
					fmt.Fprintln(cmd.OutOrStdout(), name)
				}
			},
		},
	)

	return cmd
}
