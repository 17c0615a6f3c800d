// Copyright 2023 - 2025, the Shuttle contributors
// SPDX-License-Identifier: AGPL-3.0-only

package fencer

import (
	"regexp"
	"strings"

	"codeberg.org/shuttle/shuttle/core/scanner"
)

var (
	erbOpenRegexp  = regexp.MustCompile(`<%`)
	erbCloseRegexp = regexp.MustCompile(`%>`)
)

// fenceErb fences ERB spans such as "<% code %>" and "<%= value %>".
func fenceErb(s string) TokenMap {
	tokens := TokenMap{}
	sc := scanner.New(s)

	for !sc.EOS() {
		if _, ok := sc.ScanUntil(erbOpenRegexp); !ok {
			break
		}

		start := sc.MatchStart()

		if _, ok := sc.ScanUntil(erbCloseRegexp); !ok {
			break
		}

		end := sc.Pos() - 1
		tokens.add(substring(s, start, end), start, end)
	}

	return tokens
}

// validErb only checks that every "<%" has a matching "%>" count-wise.
func validErb(s string) bool {
	return strings.Count(s, "<%") == strings.Count(s, "%>")
}

// substring returns the codepoints [start, end] of s.
func substring(s string, start, end int) string {
	var b strings.Builder

	i := 0
	for _, r := range s {
		if i > end {
			break
		}

		if i >= start {
			b.WriteRune(r)
		}

		i++
	}

	return b.String()
}
