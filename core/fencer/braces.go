// Copyright 2023 - 2025, the Shuttle contributors
// SPDX-License-Identifier: AGPL-3.0-only

package fencer

import (
	"regexp"

	"codeberg.org/shuttle/shuttle/core/scanner"
)

var (
	openBraceRegexp   = regexp.MustCompile(`\{`)
	singleBraceRegexp = regexp.MustCompile(`[^{}]+\}`)
	doubleBraceRegexp = regexp.MustCompile(`\{[^{}]+\}\}`)

	braceInteriorRegexp = regexp.MustCompile(`\{([^{}]*)\}`)
	androidNameRegexp   = regexp.MustCompile(`^[a-z_]+$`)
)

// fenceBraces fences "{name}" and "{{name}}" placeholders. An opening brace
// that does not start a complete placeholder is skipped one codepoint at a
// time, so "{{name}" still yields "{name}".
func fenceBraces(s string) TokenMap {
	tokens := TokenMap{}
	sc := scanner.New(s)

	for !sc.EOS() {
		if _, ok := sc.ScanUntil(openBraceRegexp); !ok {
			break
		}

		start := sc.MatchStart()

		if _, ok := sc.Scan(doubleBraceRegexp); ok {
			tokens.add("{"+sc.Matched(), start, sc.Pos()-1)

			continue
		}

		if _, ok := sc.Scan(singleBraceRegexp); ok {
			tokens.add("{"+sc.Matched(), start, sc.Pos()-1)

			continue
		}

		sc.SetPos(start + 1)
	}

	return tokens
}

// validAndroid requires the interior of every "{...}" to be a lowercase
// identifier made of letters and underscores.
func validAndroid(s string) bool {
	for _, m := range braceInteriorRegexp.FindAllStringSubmatch(s, -1) {
		if !androidNameRegexp.MatchString(m[1]) {
			return false
		}
	}

	return true
}

// validBraces requires braces to balance, nest at most two deep and enclose
// something.
func validBraces(s string) bool {
	const maxDepth = 2

	depth := 0
	empty := false

	for _, r := range s {
		switch r {
		case '{':
			depth++
			if depth > maxDepth {
				return false
			}

			empty = true
		case '}':
			if depth == 0 || empty {
				return false
			}

			depth--
		default:
			empty = false
		}
	}

	return depth == 0
}
