// Copyright 2023 - 2025, the Shuttle contributors
// SPDX-License-Identifier: AGPL-3.0-only

package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"codeberg.org/shuttle/shuttle/core/fencer"
)

func parseKinds(names []string) ([]fencer.Kind, error) {
	if len(names) == 0 {
		return fencer.Kinds(), nil
	}

	kinds := make([]fencer.Kind, 0, len(names))

	for _, name := range names {
		k, err := fencer.ParseKind(name)
		if err != nil {
			return nil, err
		}

		kinds = append(kinds, k)
	}

	return kinds, nil
}

func kindNames() string {
	names := make([]string, 0, len(fencer.Kinds()))
	for _, k := range fencer.Kinds() {
		names = append(names, k.String())
	}

	return strings.Join(names, ", ")
}

func newFenceCmd() *cobra.Command {
	var kinds []string

	cmd := &cobra.Command{
		Use:   "fence <string>",
		Short: "Print the tokens found in a string",
		Long:  "Print each token found in a string with its inclusive codepoint ranges.\n\nFencers: " + kindNames(),
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ks, err := parseKinds(kinds)
			if err != nil {
				return err
			}

			writeTokens(cmd.OutOrStdout(), fencer.FenceAll(args[0], ks...))

			return nil
		},
	}

	cmd.Flags().StringSliceVarP(&kinds, "kind", "k", nil, "fencers to run (default all)")

	return cmd
}

// writeTokens prints one "token<TAB>ranges" line per token in key order.
func writeTokens(w io.Writer, tokens fencer.TokenMap) {
	for _, token := range tokens.Keys() {
		ranges := make([]string, len(tokens[token]))
		for i, r := range tokens[token] {
			ranges[i] = r.String()
		}

		fmt.Fprintf(w, "%q\t%s\n", token, strings.Join(ranges, " "))
	}
}

func newValidCmd() *cobra.Command {
	var kinds []string

	cmd := &cobra.Command{
		Use:   "valid <string>",
		Short: "Check that a string is well-formed for the given fencers",
		Long:  "Print true or false and exit with status 1 when the string is invalid.\n\nFencers: " + kindNames(),
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ks, err := parseKinds(kinds)
			if err != nil {
				return err
			}

			ok := fencer.ValidAll(args[0], ks...)
			fmt.Fprintln(cmd.OutOrStdout(), ok)

			if !ok {
				return errExit
			}

			return nil
		},
	}

	cmd.Flags().StringSliceVarP(&kinds, "kind", "k", nil, "fencers to check (default all)")

	return cmd
}
