// Copyright 2023 - 2025, the Shuttle contributors
// SPDX-License-Identifier: AGPL-3.0-only

package fencer

import (
	"regexp"
	"strconv"

	"codeberg.org/shuttle/shuttle/core/scanner"
)

var (
	percentRegexp = regexp.MustCompile(`%`)

	// printfSpecRegexp matches everything after the '%' of a C printf conversion:
	// %[position$][flags][width[.precision]][length]type
	printfSpecRegexp = regexp.MustCompile(
		`(?:([0-9]+)\$)?([-+ 0#']*)([0-9]+|\*)?(?:\.([0-9]+|\*))?(hh|h|ll|l|j|z|t|L|q)?([@ACDEFGOSUXacdefgionpsux])`)

	// strftimeSpecRegexp matches everything after the '%' of a strftime conversion:
	// %[flags][width][modifier]conversion
	strftimeSpecRegexp = regexp.MustCompile(
		`([-_0^#]*)([0-9]*)(E|O|:{1,3})?([aAbBcCdDeFgGhHIjklLmMnNpPrRsStTuUvVwWxXyYzZ+%])`)
)

// fencePrintf fences C printf conversions.
//
// A "%%" pair is a literal percent sign and is never a token. Conversions
// without an explicit position are numbered in order of appearance; an
// explicit "%n$" keeps n and moves the counter so later unlabeled conversions
// are numbered after it.
func fencePrintf(s string) TokenMap {
	tokens := TokenMap{}
	sc := scanner.New(s)
	position := 0

	for !sc.EOS() {
		if _, ok := sc.ScanUntil(percentRegexp); !ok {
			break
		}

		start := sc.MatchStart()

		if _, ok := sc.Scan(percentRegexp); ok {
			continue
		}

		spec, ok := sc.Scan(printfSpecRegexp)
		if !ok {
			continue
		}

		parts := printfSpecRegexp.FindStringSubmatch(spec)

		n, rest := 0, spec
		if parts[1] != "" {
			var err error

			// Positions start at 1 and must fit an int, else this is not a conversion.
			if n, err = strconv.Atoi(parts[1]); err != nil || n < 1 {
				continue
			}

			rest = spec[len(parts[1])+1:]
			position = max(position, n)
		} else {
			position++
			n = position
		}

		tokens.add("%"+strconv.Itoa(n)+"$"+rest, start, sc.Pos()-1)
	}

	return tokens
}

// fenceStrftime fences strftime conversions. Unlike printf, "%%" is a token.
// Every conversion is numbered sequentially.
func fenceStrftime(s string) TokenMap {
	tokens := TokenMap{}
	sc := scanner.New(s)
	position := 0

	for !sc.EOS() {
		if _, ok := sc.ScanUntil(percentRegexp); !ok {
			break
		}

		start := sc.MatchStart()

		spec, ok := sc.Scan(strftimeSpecRegexp)
		if !ok {
			continue
		}

		position++
		tokens.add("%"+strconv.Itoa(position)+"$"+spec, start, sc.Pos()-1)
	}

	return tokens
}
