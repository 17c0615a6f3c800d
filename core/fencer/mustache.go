// Copyright 2023 - 2025, the Shuttle contributors
// SPDX-License-Identifier: AGPL-3.0-only

package fencer

import (
	"regexp"

	"github.com/cbroglie/mustache"

	"codeberg.org/shuttle/shuttle/core/scanner"
)

var (
	mustacheOpenRegexp   = regexp.MustCompile(`\{\{\{?`)
	mustacheCloseRegexp  = regexp.MustCompile(`\}\}`)
	mustacheTripleRegexp = regexp.MustCompile(`\}\}\}`)
)

// fenceMustache fences Mustache tags: variables "{{x}}", unescaped
// variables "{{{x}}}" and section tags such as "{{#x}}" and "{{/x}}". Each tag
// is its own token.
func fenceMustache(s string) TokenMap {
	tokens := TokenMap{}
	sc := scanner.New(s)

	for !sc.EOS() {
		open, ok := sc.ScanUntil(mustacheOpenRegexp)
		if !ok {
			break
		}

		start := sc.MatchStart()

		closing := mustacheCloseRegexp
		if len(open) == 3 {
			closing = mustacheTripleRegexp
		}

		if _, ok := sc.ScanUntil(closing); !ok {
			break
		}

		end := sc.Pos() - 1
		tokens.add(substring(s, start, end), start, end)
	}

	return tokens
}

// validMustache compiles s as a Mustache template, which reports unbalanced
// or mismatched section tags.
func validMustache(s string) bool {
	_, err := mustache.ParseString(s)

	return err == nil
}
