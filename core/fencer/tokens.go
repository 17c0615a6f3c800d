// Copyright 2023 - 2025, the Shuttle contributors
// SPDX-License-Identifier: AGPL-3.0-only

package fencer

import (
	"fmt"
	"slices"
	"sort"
)

// Range is an inclusive [Start, End] codepoint range into a fenced string.
type Range struct {
	Start int
	End   int
}

// Len returns the number of codepoints covered by r.
func (r Range) Len() int {
	return r.End - r.Start + 1
}

// Overlaps reports whether r and o share at least one codepoint.
func (r Range) Overlaps(o Range) bool {
	return r.Start <= o.End && o.Start <= r.End
}

func (r Range) String() string {
	return fmt.Sprintf("[%d,%d]", r.Start, r.End)
}

// TokenMap maps canonical token text to the ranges at which it occurs.
//
// Ranges for a single token are in ascending start order. A string with no
// tokens fences to an empty map.
type TokenMap map[string][]Range

// add records an occurrence of token spanning the codepoints [start, end].
func (m TokenMap) add(token string, start, end int) {
	m[token] = append(m[token], Range{Start: start, End: end})
}

// Keys returns the tokens of m in lexical order.
func (m TokenMap) Keys() []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}

	sort.Strings(keys)

	return keys
}

// Ranges returns every range of m, sorted by start offset.
func (m TokenMap) Ranges() []Range {
	var out []Range
	for _, rs := range m {
		out = append(out, rs...)
	}

	sortRanges(out)

	return out
}

// Merge adds every occurrence in o to m, keeping each token's ranges sorted.
func (m TokenMap) Merge(o TokenMap) {
	for token, rs := range o {
		merged := append(m[token], rs...)
		sortRanges(merged)

		m[token] = slices.CompactFunc(merged, func(a, b Range) bool { return a == b })
	}
}

// Equal reports whether m and o contain the same tokens at the same ranges.
func (m TokenMap) Equal(o TokenMap) bool {
	if len(m) != len(o) {
		return false
	}

	for token, rs := range m {
		if !slices.Equal(rs, o[token]) {
			return false
		}
	}

	return true
}

func sortRanges(rs []Range) {
	sort.Slice(rs, func(i, j int) bool {
		if rs[i].Start != rs[j].Start {
			return rs[i].Start < rs[j].Start
		}

		return rs[i].End < rs[j].End
	})
}
