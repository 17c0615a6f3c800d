// Copyright 2023 - 2025, the Shuttle contributors
// SPDX-License-Identifier: AGPL-3.0-only

package localizer

import (
	"strings"

	"github.com/cbroglie/mustache"

	"codeberg.org/shuttle/shuttle/core/locale"
)

// plaintextLocalizer replaces whole files named "<name>.<locale><ext>" with
// the copy of the key "/<path>".
//
// When templates is set the copy must also compile as a Mustache template,
// and only "<name>.<locale>.mustache" files are localized.
type plaintextLocalizer struct {
	base         locale.Locale
	translations []Translation
	templates    bool
}

func (p *plaintextLocalizer) Localize(input File, output *File, l locale.Locale) error {
	suffix := ""
	if p.templates {
		suffix = ".mustache"
	}

	target, ok := swapLocale(input.Path, ".", suffix, p.base, l)
	if !ok {
		return nil
	}

	key := wholeFileKey(input.Path)

	var match *Translation

	for i := range p.translations {
		if p.translations[i].Key.Key != key {
			continue
		}

		if match != nil {
			return newKeyError(key, ErrAmbiguousTag, "Multiple translations for %s in %s", input.Path, l)
		}

		match = &p.translations[i]
	}

	if match == nil {
		return nil
	}

	if p.templates {
		if _, err := mustache.ParseString(match.Copy); err != nil {
			return newKeyError(key, ErrInvalidCopy, "copy is not a valid template: %v", err)
		}
	}

	output.Path = target
	output.Content = []byte(match.Copy)

	return nil
}

// wholeFileKey returns the key under which a whole file is translated.
func wholeFileKey(p string) string {
	return "/" + strings.TrimPrefix(p, "/")
}
