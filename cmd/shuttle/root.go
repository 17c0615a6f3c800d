// Copyright 2023 - 2025, the Shuttle contributors
// SPDX-License-Identifier: AGPL-3.0-only

package main

import (
	"github.com/spf13/cobra"

	"codeberg.org/shuttle/shuttle/config"
)

type rootOptions struct {
	configFile string
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:   "shuttle",
		Short: "Fence, validate and localize translatable strings",
		Long: `Shuttle finds interpolation tokens in translatable strings and
writes approved translations back into copies of a project's source files.

Commands that read the blob store load their configuration from a YAML or
TOML file (--config, SHUTTLE_CONFIGFILE or ./config.yaml), a .env file and
SHUTTLE_* environment variables.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().StringVar(&opts.configFile, "config", "", "config file (default ./config.yaml)")

	cmd.AddCommand(
		newFenceCmd(),
		newValidCmd(),
		newBlocktagsCmd(),
		newLocalizeCmd(opts),
		newStoreCmd(opts),
		newVersionCmd(),
	)

	return cmd
}

// loadConfig loads config.Global for commands that need it.
func (o *rootOptions) loadConfig() error {
	return config.Global.Load(o.configFile)
}
