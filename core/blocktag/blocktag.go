// Copyright 2023 - 2025, the Shuttle contributors
// SPDX-License-Identifier: AGPL-3.0-only

/*
Package blocktag classifies HTML block-level tags.

Key extraction uses it to decide whether an HTML fragment should be split into
several translation keys, one per block of content:

	blocktag.IsBlockTag("<p>")     // true
	blocktag.IsBlockTag("<b>")     // false
	blocktag.Split("<p>One</p>")   // "<p>" (tag), "One", "</p>" (tag)
*/
package blocktag

import (
	"regexp"
	"slices"
	"strings"
)

// names is the closed set of HTML block-level element names.
var names = []string{
	"address", "article", "aside", "blockquote", "body", "canvas", "caption",
	"center", "col", "colgroup", "dd", "details", "dialog", "dir", "div", "dl",
	"dt", "fieldset", "figcaption", "figure", "footer", "form", "frameset",
	"h1", "h2", "h3", "h4", "h5", "h6", "head", "header", "hgroup", "hr",
	"html", "legend", "li", "main", "menu", "nav", "noframes", "noscript",
	"ol", "optgroup", "option", "p", "pre", "section", "summary", "table",
	"tbody", "td", "tfoot", "th", "thead", "title", "tr", "ul", "video",
}

var (
	// tagPattern matches one start or end tag of a block-level element.
	tagPattern = `</?(?:` + strings.Join(names, "|") + `)(?:\s[^<>]*)?/?>`

	// onlyTagRegexp matches a string made of a single block tag and optional
	// surrounding whitespace.
	onlyTagRegexp = regexp.MustCompile(`(?i)\A\s*` + tagPattern + `\s*\z`)

	// splitRegexp matches a block tag together with the whitespace around it.
	splitRegexp = regexp.MustCompile(`(?i)\s*` + tagPattern + `\s*`)
)

// Names returns the block-level element names in lexical order.
func Names() []string {
	out := slices.Clone(names)
	slices.Sort(out)

	return out
}

// IsBlockTag reports whether s consists solely of one block-level start or end
// tag, ignoring surrounding whitespace. Matching is case-insensitive.
func IsBlockTag(s string) bool {
	return onlyTagRegexp.MatchString(s)
}

// Segment is a piece of a split string.
type Segment struct {
	Text string
	// Tag is set when Text is a block tag with its surrounding whitespace.
	Tag bool
}

// Split cuts s into alternating block-tag and content segments. Whitespace
// around a block tag belongs to the tag segment, so concatenating the Text of
// every segment yields s again. Empty content between adjacent tags is
// omitted.
func Split(s string) []Segment {
	var (
		out  []Segment
		last int
	)

	for _, loc := range splitRegexp.FindAllStringIndex(s, -1) {
		if loc[0] > last {
			out = append(out, Segment{Text: s[last:loc[0]]})
		}

		out = append(out, Segment{Text: s[loc[0]:loc[1]], Tag: true})
		last = loc[1]
	}

	if last < len(s) {
		out = append(out, Segment{Text: s[last:]})
	}

	return out
}

// Content returns the non-tag segments of s with surrounding whitespace trimmed,
// skipping segments that are blank.
func Content(s string) []string {
	var out []string

	for _, seg := range Split(s) {
		if seg.Tag {
			continue
		}

		if text := strings.TrimSpace(seg.Text); text != "" {
			out = append(out, text)
		}
	}

	return out
}
