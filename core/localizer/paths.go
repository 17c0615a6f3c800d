// Copyright 2023 - 2025, the Shuttle contributors
// SPDX-License-Identifier: AGPL-3.0-only

package localizer

import (
	"path"
	"regexp"
	"slices"
	"strings"

	"golang.org/x/text/language"

	"codeberg.org/shuttle/shuttle/core/locale"
)

var (
	// androidResourceDirRegexp matches a values resource directory with any qualifiers.
	androidResourceDirRegexp = regexp.MustCompile(`(?:^|/)values(?:-[^/]+)?/[^/]+\.xml$`)

	androidNetworkQualifierRegexp  = regexp.MustCompile(`^(?:mcc[0-9]+|mnc[0-9]+)$`)
	androidLanguageQualifierRegexp = regexp.MustCompile(`^(?:[a-z]{2,3}|b\+[A-Za-z0-9+]+)$`)
	androidRegionQualifierRegexp   = regexp.MustCompile(`^r[A-Z]{2}$`)
)

// androidReservedQualifiers are configuration qualifiers that look like
// language codes.
var androidReservedQualifiers = []string{
	"car", "tv", "hdr", "desk", "watch", "appliance", "vrheadset",
	"night", "notnight", "land", "port", "long", "notlong", "round", "notround",
	"ldrtl", "ldltr", "nokeys", "nonav", "dpad", "finger", "notouch",
	"lowdr", "widecg", "nowidecg",
}

// isAndroidLanguageQualifier reports whether q is the language part of a
// locale qualifier, either "b+..." or a known ISO 639 code.
func isAndroidLanguageQualifier(q string) bool {
	if !androidLanguageQualifierRegexp.MatchString(q) {
		return false
	}

	if strings.HasPrefix(q, "b+") {
		return true
	}

	if slices.Contains(androidReservedQualifiers, q) {
		return false
	}

	_, err := language.ParseBase(q)

	return err == nil
}

// localeCodes returns the spellings of l that may appear in file names.
func localeCodes(l locale.Locale) []string {
	codes := []string{l.String()}
	if g := l.GettextCode(); g != codes[0] {
		codes = append(codes, g)
	}

	return codes
}

// swapLocale rewrites a file name of the form "<name><sep><base><suffix>" to
// use target instead of base. An empty suffix accepts any single extension,
// or none. The target is spelled with underscores when the base was.
func swapLocale(p, sep, suffix string, base, target locale.Locale) (string, bool) {
	dir, file := path.Split(p)

	for _, code := range localeCodes(base) {
		token := sep + code

		i := strings.LastIndex(file, token)
		if i <= 0 {
			continue
		}

		rest := file[i+len(token):]

		switch {
		case suffix != "" && rest != suffix:
			continue
		case suffix == "" && rest != "" && (!strings.HasPrefix(rest, ".") || strings.Count(rest, ".") != 1):
			continue
		}

		targetCode := target.String()
		if strings.Contains(code, "_") {
			targetCode = target.GettextCode()
		}

		return dir + file[:i] + sep + targetCode + rest, true
	}

	return p, false
}

// androidOutputPath moves a file from its values directory to the one for l,
// replacing any locale qualifier and keeping the others. The language goes
// right after the MCC and MNC qualifiers, which is where Android expects it:
//
//	res/values/strings.xml         -> res/values-de/strings.xml
//	res/values-en-hdpi/strings.xml -> res/values-de-hdpi/strings.xml
//	res/values-tv/strings.xml      -> res/values-de-tv/strings.xml
func androidOutputPath(p string, l locale.Locale) string {
	dir, file := path.Split(p)
	parent, base := path.Split(strings.TrimSuffix(dir, "/"))

	qualifiers := strings.Split(base, "-")
	if qualifiers[0] != "values" {
		return p
	}

	rest := qualifiers[1:]

	var network []string
	for len(rest) > 0 && androidNetworkQualifierRegexp.MatchString(rest[0]) {
		network = append(network, rest[0])
		rest = rest[1:]
	}

	if len(rest) > 0 && isAndroidLanguageQualifier(rest[0]) {
		rest = rest[1:]

		if len(rest) > 0 && androidRegionQualifierRegexp.MatchString(rest[0]) {
			rest = rest[1:]
		}
	}

	out := slices.Concat([]string{"values"}, network, []string{l.AndroidQualifier()}, rest)

	return parent + strings.Join(out, "-") + "/" + file
}

// appleOutputPath moves a file from the Base or base locale .lproj
// directory into the one for l. A file outside any .lproj directory is
// placed in a new one next to it.
func appleOutputPath(p string, base, l locale.Locale) string {
	dir, file := path.Split(p)
	target := l.AppleCode() + ".lproj/"

	candidates := append([]string{"Base"}, localeCodes(base)...)
	for _, c := range candidates {
		lproj := c + ".lproj/"

		if dir == lproj || strings.HasSuffix(dir, "/"+lproj) {
			return strings.TrimSuffix(dir, lproj) + target + file
		}
	}

	return dir + target + file
}
