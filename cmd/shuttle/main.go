// Copyright 2023 - 2025, the Shuttle contributors
// SPDX-License-Identifier: AGPL-3.0-only

/*
Shuttle compiles translated copy back into the source files of a project.

	shuttle fence --kind printf "%s of %d"
	shuttle valid --kind mustache "{{#open}}"
	shuttle blocktags split "<p>One</p><p>Two</p>"
	shuttle localize manifest.json -o localized.zip
	shuttle store import --project web --revision 3f2a9c1 ./checkout
*/
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"codeberg.org/shuttle/shuttle/core/audit"
)

// errExit signals a failure that has already been reported.
var errExit = errors.New("exit")

func main() {
	audit.SetDefaultLogger()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	err := newRootCmd().ExecuteContext(ctx)

	stop()

	if err != nil {
		if !errors.Is(err, errExit) {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}

		os.Exit(1)
	}
}
