// Copyright 2023 - 2025, the Shuttle contributors
// SPDX-License-Identifier: AGPL-3.0-only

package fencer

import (
	"codeberg.org/shuttle/shuttle/core/fencer/messageformat"
)

// fenceMessageFormat fences each top-level Java MessageFormat argument as one
// token spanning its whole "{...}", nested choice and plural bodies included.
// A pattern that does not parse yields no tokens.
func fenceMessageFormat(s string) TokenMap {
	tokens := TokenMap{}

	nodes, err := messageformat.ParseJava(s)
	if err != nil {
		return tokens
	}

	src := []rune(s)

	for _, n := range nodes {
		if arg, ok := n.(*messageformat.Argument); ok {
			span := arg.Span()
			tokens.add(string(src[span.Start:span.End+1]), span.Start, span.End)
		}
	}

	return tokens
}

func validMessageFormat(s string) bool {
	_, err := messageformat.ParseJava(s)

	return err == nil
}

// fenceIntlMessageFormat fences intl-messageformat arguments. Simple
// arguments are keyed by their text. Each option of a plural, select or
// selectordinal argument whose body is literal text becomes a token named
// "name:type|selector" over the option's "{...}"; other option bodies are
// fenced recursively. A pattern that does not parse yields no tokens.
func fenceIntlMessageFormat(s string) TokenMap {
	tokens := TokenMap{}

	nodes, err := messageformat.ParseIntl(s)
	if err != nil {
		return tokens
	}

	fenceIntlNodes(tokens, []rune(s), nodes)

	return tokens
}

func fenceIntlNodes(tokens TokenMap, src []rune, nodes []messageformat.Node) {
	for _, n := range nodes {
		switch n := n.(type) {
		case *messageformat.Pound:
			span := n.Span()
			tokens.add("#", span.Start, span.End)
		case *messageformat.Argument:
			if !n.Complex() {
				span := n.Span()
				tokens.add(string(src[span.Start:span.End+1]), span.Start, span.End)

				continue
			}

			for _, opt := range n.Options {
				if opt.Literal() {
					tokens.add(n.Name+":"+n.Type+"|"+opt.Selector, opt.BodySpan.Start, opt.BodySpan.End)

					continue
				}

				fenceIntlNodes(tokens, src, opt.Body)
			}
		}
	}
}

func validIntlMessageFormat(s string) bool {
	_, err := messageformat.ParseIntl(s)

	return err == nil
}
