// Copyright 2023 - 2025, the Shuttle contributors
// SPDX-License-Identifier: AGPL-3.0-only

/*
Package localizer writes translated copy back into structured source files.

Each supported file format has a [Kind]. A Kind decides which keys it can
localize, builds a [Localizer] for the translations of one source file, and
may add further files to a build once all of its files are written:

	k, ok := localizer.For(project, key)
	l := k.New(project, translations)
	err := l.Localize(input, &output, de)
	err = k.PostProcess(commit, archive, written)

Localizers hold no shared state and are safe to run concurrently on
different inputs.

Formats differ in how they treat keys they cannot find. Android, SVG,
plaintext, Mustache and gettext fail the file with a [*KeyError]. Storyboard,
Xib and Xib3 documents drift structurally between versions, so a key path
that no longer resolves is logged and skipped. An ambiguous key fails the file
in every format.
*/
package localizer

import (
	"fmt"
	"path"
	"strings"

	"github.com/rs/zerolog/log"

	"codeberg.org/shuttle/shuttle/core/locale"
)

// Kind enumerates the supported file formats.
type Kind int

// Supported localizers, in the order [For] tries them. The zero value is not
// a valid Kind.
const (
	Android Kind = iota + 1
	Storyboard
	Xib
	Xib3
	SVG
	Plaintext
	Mustache
	Gettext
)

var kindNames = map[Kind]string{
	Android:    "android",
	Storyboard: "storyboard",
	Xib:        "xib",
	Xib3:       "xib3",
	SVG:        "svg",
	Plaintext:  "plaintext",
	Mustache:   "mustache",
	Gettext:    "gettext",
}

// Kinds returns every supported localizer in declaration order.
func Kinds() []Kind {
	return []Kind{Android, Storyboard, Xib, Xib3, SVG, Plaintext, Mustache, Gettext}
}

func (k Kind) String() string {
	if n, ok := kindNames[k]; ok {
		return n
	}

	return fmt.Sprintf("localizer(%d)", int(k))
}

// For returns the first Kind that can localize key.
func For(p Project, key Key) (Kind, bool) {
	for _, k := range Kinds() {
		if k.Localizable(p, key) {
			return k, true
		}
	}

	return 0, false
}

// Localizable reports whether k can write key back into its source file.
func (k Kind) Localizable(p Project, key Key) bool {
	switch k {
	case Android:
		return key.Importer == ImporterAndroid && androidResourceDirRegexp.MatchString(key.Source)
	case Storyboard:
		return key.Importer == ImporterStoryboard && strings.HasSuffix(key.Source, ".storyboard")
	case Xib:
		return key.Importer == ImporterXib && strings.HasSuffix(key.Source, ".xib")
	case Xib3:
		return key.Importer == ImporterXib3 && strings.HasSuffix(key.Source, ".xib")
	case SVG:
		_, ok := swapLocale(key.Source, "-", ".svg", p.BaseLocale, p.BaseLocale)

		return key.Importer == ImporterSVG && ok
	case Plaintext:
		_, ok := swapLocale(key.Source, ".", "", p.BaseLocale, p.BaseLocale)

		return key.Importer == ImporterPlaintext && ok && key.Key == wholeFileKey(key.Source)
	case Mustache:
		_, ok := swapLocale(key.Source, ".", ".mustache", p.BaseLocale, p.BaseLocale)

		return key.Importer == ImporterMustache && ok && key.Key == wholeFileKey(key.Source)
	case Gettext:
		return key.Importer == ImporterGettext && isBaseCatalog(path.Base(key.Source), p.BaseLocale)
	default:
		return false
	}
}

// New returns a localizer for translations, which must all come from the
// same source file and target the same locale.
func (k Kind) New(p Project, translations []Translation) Localizer {
	switch k {
	case Android:
		return &androidLocalizer{translations: translations}
	case Storyboard, Xib, Xib3:
		return &appleLocalizer{
			base:         p.BaseLocale,
			translations: translations,
			log:          log.With().Str("sys", "localizer").Str("kind", k.String()).Logger(),
		}
	case SVG:
		return &svgLocalizer{base: p.BaseLocale, translations: translations}
	case Plaintext:
		return &plaintextLocalizer{base: p.BaseLocale, translations: translations}
	case Mustache:
		return &plaintextLocalizer{base: p.BaseLocale, translations: translations, templates: true}
	case Gettext:
		return &gettextLocalizer{base: p.BaseLocale, translations: translations}
	default:
		return nopLocalizer{}
	}
}

// PostProcess runs once per build after every file of kind k has been
// localized, and may add further files to r. written holds the paths of the
// files kind k added to r in this build.
func (k Kind) PostProcess(c Commit, r Receiver, written []string) error {
	switch k {
	case Gettext:
		return postProcessGettext(c, r, written)
	default:
		return nil
	}
}

type nopLocalizer struct{}

func (nopLocalizer) Localize(File, *File, locale.Locale) error { return nil }
