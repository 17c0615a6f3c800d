// Copyright 2023 - 2025, the Shuttle contributors
// SPDX-License-Identifier: AGPL-3.0-only

package localizer

import (
	"fmt"
	"regexp"
	"slices"
	"strconv"
	"strings"

	"github.com/beevik/etree"

	"codeberg.org/shuttle/shuttle/core/locale"
)

var (
	androidArrayKeyRegexp  = regexp.MustCompile(`^([^\[\]]+)\[([0-9]+)\]$`)
	androidPluralKeyRegexp = regexp.MustCompile(`^([^\[\]]+)\[(zero|one|two|few|many|other)\]$`)

	androidEscaper = strings.NewReplacer(`\`, `\\`, `'`, `\'`)
)

// androidLocalizer writes copy into Android string resource files.
type androidLocalizer struct {
	translations []Translation
}

func (a *androidLocalizer) Localize(input File, output *File, l locale.Locale) error {
	doc := newXMLDocument()
	if err := doc.ReadFromBytes(input.Content); err != nil {
		return fmt.Errorf("failed to parse %s: %w", input.Path, err)
	}

	for _, t := range a.translations {
		el, err := findAndroidElement(doc, t.Key.Key)
		if err != nil {
			return err
		}

		replaceText(el, escapeAndroid(t.Copy))
	}

	content, err := doc.WriteToBytes()
	if err != nil {
		return fmt.Errorf("failed to serialize %s: %w", input.Path, err)
	}

	output.Path = androidOutputPath(input.Path, l)
	output.Content = content

	return nil
}

// findAndroidElement resolves the last ":" segment of key: "name" is a
// <string>, "name[2]" is the third <item> of a <string-array>, and
// "name[few]" is the <item quantity="few"> of a <plurals>.
func findAndroidElement(doc *etree.Document, key string) (*etree.Element, error) {
	name := key
	if i := strings.LastIndex(key, ":"); i >= 0 {
		name = key[i+1:]
	}

	if m := androidPluralKeyRegexp.FindStringSubmatch(name); m != nil {
		parent, err := uniqueNamed(doc, "plurals", m[1], key)
		if err != nil {
			return nil, err
		}

		items := slices.DeleteFunc(parent.SelectElements("item"), func(el *etree.Element) bool {
			return el.SelectAttrValue("quantity", "") != m[2]
		})

		return exactlyOne(items, key, name)
	}

	if m := androidArrayKeyRegexp.FindStringSubmatch(name); m != nil {
		parent, err := uniqueNamed(doc, "string-array", m[1], key)
		if err != nil {
			return nil, err
		}

		idx, err := strconv.Atoi(m[2])
		if err != nil {
			return nil, newKeyError(key, ErrUnsupportedKey, "invalid index in %s", name)
		}

		items := parent.SelectElements("item")
		if idx >= len(items) {
			return nil, newKeyError(key, ErrTagNotFound, "No tag with key %s found", name)
		}

		return items[idx], nil
	}

	if strings.ContainsAny(name, "[]") {
		return nil, newKeyError(key, ErrUnsupportedKey, "unsupported key %s", name)
	}

	return uniqueNamed(doc, "string", name, key)
}

// uniqueNamed returns the single element with the given tag and name attribute.
func uniqueNamed(doc *etree.Document, tag, name, key string) (*etree.Element, error) {
	var matches []*etree.Element

	for _, el := range doc.FindElements("//" + tag) {
		if el.SelectAttrValue("name", "") == name {
			matches = append(matches, el)
		}
	}

	return exactlyOne(matches, key, name)
}

func exactlyOne(matches []*etree.Element, key, name string) (*etree.Element, error) {
	switch len(matches) {
	case 0:
		return nil, newKeyError(key, ErrTagNotFound, "No tag with key %s found", name)
	case 1:
		return matches[0], nil
	default:
		return nil, newKeyError(key, ErrAmbiguousTag, "Multiple tags with key %s found", name)
	}
}

// escapeAndroid escapes copy for an Android string resource. Backslashes and
// apostrophes are escaped everywhere, and a leading "@" or "?" is escaped so
// the copy is not read as a resource or attribute reference.
func escapeAndroid(s string) string {
	s = androidEscaper.Replace(s)

	if strings.HasPrefix(s, "@") || strings.HasPrefix(s, "?") {
		s = `\` + s
	}

	return s
}

// newXMLDocument returns a document that round-trips source files with as
// little change as possible.
func newXMLDocument() *etree.Document {
	doc := etree.NewDocument()
	doc.ReadSettings.PreserveCData = true
	doc.WriteSettings.CanonicalText = true

	return doc
}

// replaceText drops every child of el and sets its text to s.
func replaceText(el *etree.Element, s string) {
	for _, c := range slices.Clone(el.Child) {
		el.RemoveChild(c)
	}

	el.SetText(s)
}
