// Copyright 2023 - 2025, the Shuttle contributors
// SPDX-License-Identifier: AGPL-3.0-only

package fencer

import (
	"errors"
	"io"
	"regexp"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"codeberg.org/shuttle/shuttle/core/scanner"
)

var (
	htmlTagRegexp    = regexp.MustCompile(`</?[A-Za-z][A-Za-z0-9:-]*(?:\s+[^<>]*?)?\s*/?>`)
	htmlEntityRegexp = regexp.MustCompile(`&(?:[A-Za-z][A-Za-z0-9]*|#[0-9]+|#[xX][0-9A-Fa-f]+);`)
)

// htmlDocumentPrefix and htmlDocumentSuffix wrap a fragment in a minimal
// document before validation.
const (
	htmlDocumentPrefix = "<!DOCTYPE html><html><head><title>fragment</title></head><body>"
	htmlDocumentSuffix = "</body></html>"
)

// voidElements never take an end tag.
var voidElements = map[atom.Atom]bool{
	atom.Area:   true,
	atom.Base:   true,
	atom.Br:     true,
	atom.Col:    true,
	atom.Embed:  true,
	atom.Hr:     true,
	atom.Img:    true,
	atom.Input:  true,
	atom.Link:   true,
	atom.Meta:   true,
	atom.Param:  true,
	atom.Source: true,
	atom.Track:  true,
	atom.Wbr:    true,
}

// fenceHTML fences tags and character entities in two independent passes.
func fenceHTML(s string) TokenMap {
	tokens := TokenMap{}

	for _, re := range []*regexp.Regexp{htmlTagRegexp, htmlEntityRegexp} {
		sc := scanner.New(s)

		for !sc.EOS() {
			match, ok := sc.ScanUntil(re)
			if !ok {
				break
			}

			tokens.add(match, sc.MatchStart(), sc.Pos()-1)
		}
	}

	return tokens
}

// validHTML wraps s in a document skeleton and checks it structurally: every
// tag must be a known HTML element, and every non-void element must be closed
// by a matching end tag in order.
func validHTML(s string) bool {
	z := html.NewTokenizer(strings.NewReader(htmlDocumentPrefix + s + htmlDocumentSuffix))

	var open []atom.Atom

	for {
		switch z.Next() {
		case html.ErrorToken:
			return errors.Is(z.Err(), io.EOF) && len(open) == 0
		case html.StartTagToken:
			name, _ := z.TagName()

			a := atom.Lookup(name)
			if a == 0 {
				return false
			}

			if !voidElements[a] {
				open = append(open, a)
			}
		case html.SelfClosingTagToken:
			name, _ := z.TagName()
			if atom.Lookup(name) == 0 {
				return false
			}
		case html.EndTagToken:
			name, _ := z.TagName()

			a := atom.Lookup(name)
			if a == 0 || voidElements[a] || len(open) == 0 || open[len(open)-1] != a {
				return false
			}

			open = open[:len(open)-1]
		case html.TextToken, html.CommentToken, html.DoctypeToken:
		}
	}
}
