// Copyright 2023 - 2025, the Shuttle contributors
// SPDX-License-Identifier: AGPL-3.0-only

/*
Package locale provides the locale value used throughout localization, along
with the platform-specific spellings localizers need in output paths:

	l := locale.MustParse("pt_BR")
	l.String()           // "pt-BR"
	l.AndroidQualifier() // "pt-rBR"
	l.AppleCode()        // "pt-BR"
	l.GettextCode()      // "pt_BR"
*/
package locale

import (
	"errors"
	"fmt"
	"strings"

	"golang.org/x/text/language"
)

// ErrInvalidLocale is returned by [Parse] for strings that are not BCP 47 tags.
var ErrInvalidLocale = errors.New("invalid locale")

// Locale is a language with an optional script and region. The zero value is
// not a valid locale.
type Locale struct {
	tag language.Tag
}

// Parse parses a BCP 47 tag such as "de", "pt-BR" or "zh-Hans-CN".
// Underscores are accepted in place of hyphens.
func Parse(s string) (Locale, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Locale{}, fmt.Errorf("%w: empty string", ErrInvalidLocale)
	}

	t, err := language.Parse(strings.ReplaceAll(s, "_", "-"))
	if err != nil {
		return Locale{}, fmt.Errorf("%w %q: %w", ErrInvalidLocale, s, err)
	}

	// Keep only base, script and region; variants and extensions never
	// appear in resource paths.
	b, sc, r := t.Raw()

	t, err = language.Compose(b, sc, r)
	if err != nil {
		return Locale{}, fmt.Errorf("%w %q: %w", ErrInvalidLocale, s, err)
	}

	return Locale{tag: t}, nil
}

// MustParse is like [Parse] but panics on error.
func MustParse(s string) Locale {
	l, err := Parse(s)
	if err != nil {
		panic(err)
	}

	return l
}

// FromTag wraps an existing language tag.
func FromTag(t language.Tag) Locale {
	b, s, r := t.Raw()
	t, _ = language.Compose(b, s, r)

	return Locale{tag: t}
}

// Tag returns the underlying language tag.
func (l Locale) Tag() language.Tag {
	return l.tag
}

// IsZero reports whether l is the zero Locale.
func (l Locale) IsZero() bool {
	return l.tag == language.Tag{}
}

// String returns the canonical BCP 47 form, for example "pt-BR".
func (l Locale) String() string {
	if l.IsZero() {
		return ""
	}

	return l.tag.String()
}

// Language returns the ISO 639 language code, for example "pt".
func (l Locale) Language() string {
	b, _, _ := l.tag.Raw()

	return b.String()
}

// Script returns the ISO 15924 script code when one was given explicitly,
// for example "Hans", and "" otherwise.
func (l Locale) Script() string {
	_, s, _ := l.tag.Raw()
	if s == (language.Script{}) {
		return ""
	}

	return s.String()
}

// Region returns the region code when one was given, for example "BR", and ""
// otherwise.
func (l Locale) Region() string {
	_, _, r := l.tag.Raw()
	if r == (language.Region{}) {
		return ""
	}

	return r.String()
}

// Equal reports whether l and o are the same locale.
func (l Locale) Equal(o Locale) bool {
	return l.tag == o.tag
}

// AndroidQualifier returns the resource directory qualifier for l: "de",
// "de-rAT", or the BCP 47 form "b+zh+Hans+CN" when a script is present.
func (l Locale) AndroidQualifier() string {
	if script := l.Script(); script != "" {
		parts := []string{"b", l.Language(), script}
		if region := l.Region(); region != "" {
			parts = append(parts, region)
		}

		return strings.Join(parts, "+")
	}

	if region := l.Region(); region != "" {
		return l.Language() + "-r" + region
	}

	return l.Language()
}

// AppleCode returns the name of the .lproj directory for l without the
// extension, for example "pt-BR" or "zh-Hans".
func (l Locale) AppleCode() string {
	return l.String()
}

// GettextCode returns the POSIX-style name used for gettext catalogs, for
// example "pt_BR".
func (l Locale) GettextCode() string {
	return strings.ReplaceAll(l.String(), "-", "_")
}

// ParseAll parses each of names, failing on the first invalid one.
func ParseAll(names ...string) ([]Locale, error) {
	out := make([]Locale, 0, len(names))

	for _, name := range names {
		l, err := Parse(name)
		if err != nil {
			return nil, err
		}

		out = append(out, l)
	}

	return out, nil
}

// Strings returns the BCP 47 form of each locale.
func Strings(locales []Locale) []string {
	out := make([]string, len(locales))
	for i, l := range locales {
		out[i] = l.String()
	}

	return out
}
