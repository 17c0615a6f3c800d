// Copyright 2023 - 2025, the Shuttle contributors
// SPDX-License-Identifier: AGPL-3.0-only

package localizer

import (
	"bytes"
	"fmt"

	"github.com/PuerkitoBio/goquery"
	"github.com/andybalholm/cascadia"

	"codeberg.org/shuttle/shuttle/core/locale"
)

// svgLocalizer writes copy into SVG images named "<name>-<locale>.svg". Each
// translation's original key is a CSS selector; the first matching element
// has its inner markup replaced by the copy.
type svgLocalizer struct {
	base         locale.Locale
	translations []Translation
}

func (s *svgLocalizer) Localize(input File, output *File, l locale.Locale) error {
	target, ok := swapLocale(input.Path, "-", ".svg", s.base, l)
	if !ok {
		return nil
	}

	// The HTML parser turns an XML declaration or doctype into a comment, so
	// carry everything before the root element over unparsed.
	prolog, body := splitSVGProlog(input.Content)

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to parse %s: %w", input.Path, err)
	}

	for _, t := range s.translations {
		selector, err := cascadia.Compile(t.Key.OriginalKey)
		if err != nil {
			return newKeyError(t.Key.Key, ErrUnsupportedKey, "invalid selector %s: %v", t.Key.OriginalKey, err)
		}

		match := doc.FindMatcher(selector).First()
		if match.Length() == 0 {
			return newKeyError(t.Key.Key, ErrTagNotFound, "No tag with key %s found", t.Key.OriginalKey)
		}

		match.SetHtml(t.Copy)
	}

	html, err := doc.Find("body").Html()
	if err != nil {
		return fmt.Errorf("failed to serialize %s: %w", input.Path, err)
	}

	output.Path = target
	output.Content = append(prolog, html...)

	return nil
}

// splitSVGProlog splits content before its <svg> root element.
func splitSVGProlog(content []byte) ([]byte, []byte) {
	i := bytes.Index(content, []byte("<svg"))
	if i < 0 {
		return nil, content
	}

	return bytes.Clone(content[:i]), content[i:]
}
