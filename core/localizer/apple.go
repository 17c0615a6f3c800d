// Copyright 2023 - 2025, the Shuttle contributors
// SPDX-License-Identifier: AGPL-3.0-only

package localizer

import (
	"encoding/base64"
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"unicode"

	"github.com/beevik/etree"
	"github.com/rs/zerolog"

	"codeberg.org/shuttle/shuttle/core/locale"
)

// appleBase64Type marks a <string> element whose text is base64-encoded UTF-8.
const appleBase64Type = "base64-UTF8"

// appleComponentRegexp matches one key path component: "name", "name[2]" or "name[key]".
var appleComponentRegexp = regexp.MustCompile(`^([A-Za-z0-9_-]+)(?:\[([^\[\]]+)\])?$`)

// appleLocalizer writes translated copy into Interface Builder documents: storyboards,
// xibs and legacy xib3 archives.
//
// A key path that cannot be resolved is logged and skipped so the rest of the
// document is still localized. An ambiguous path is an error.
type appleLocalizer struct {
	base         locale.Locale
	translations []Translation
	log          zerolog.Logger
}

func (a *appleLocalizer) Localize(input File, output *File, l locale.Locale) error {
	doc := newXMLDocument()
	if err := doc.ReadFromBytes(input.Content); err != nil {
		return fmt.Errorf("failed to parse %s: %w", input.Path, err)
	}

	ids := make(map[string][]*etree.Element)
	for _, el := range doc.FindElements("//*[@id]") {
		id := el.SelectAttrValue("id", "")
		ids[id] = append(ids[id], el)
	}

	for _, t := range a.translations {
		component, err := applyApple(ids, t.Key.OriginalKey, t.Copy)
		if err == nil {
			continue
		}

		if errors.Is(err, ErrAmbiguousTag) {
			return err
		}

		a.log.Warn().
			Err(err).
			Str("key", t.Key.OriginalKey).
			Str("path", input.Path).
			Str("component", component).
			Msg("Skipping unresolved key path")
	}

	content, err := doc.WriteToBytes()
	if err != nil {
		return fmt.Errorf("failed to serialize %s: %w", input.Path, err)
	}

	output.Path = appleOutputPath(input.Path, a.base, l)
	output.Content = content

	return nil
}

// applyApple writes value at the key path "<object id>.<component>...". It
// returns the component at which resolution stopped.
func applyApple(ids map[string][]*etree.Element, key, value string) (string, error) {
	objectID, rest, ok := strings.Cut(key, ".")
	if !ok || objectID == "" || rest == "" {
		return key, newKeyError(key, ErrUnsupportedKey, "key path must start with an object id")
	}

	el, err := exactlyOne(ids[objectID], key, objectID)
	if err != nil {
		return objectID, err
	}

	components := strings.Split(rest, ".")
	last := components[len(components)-1]

	for _, c := range components[:len(components)-1] {
		if el, err = resolveAppleComponent(el, c, key); err != nil {
			return c, err
		}
	}

	return last, writeAppleLeaf(el, last, value, key)
}

// resolveAppleComponent finds the child of el named by c. A bare name matches
// a child element with that tag, or else one with that key attribute. An
// index selects among children with the tag, and any other selector matches
// their key attribute.
func resolveAppleComponent(el *etree.Element, c, key string) (*etree.Element, error) {
	m := appleComponentRegexp.FindStringSubmatch(c)
	if m == nil {
		return nil, newKeyError(key, ErrUnsupportedKey, "malformed component %s", c)
	}

	name, selector := m[1], m[2]
	children := el.SelectElements(name)

	if selector == "" {
		if len(children) == 0 {
			children = childrenWithKey(el, "", name)
		}

		return exactlyOne(children, key, c)
	}

	if idx, err := strconv.Atoi(selector); err == nil {
		if idx < 0 || idx >= len(children) {
			return nil, newKeyError(key, ErrTagNotFound, "No tag with key %s found", c)
		}

		return children[idx], nil
	}

	return exactlyOne(childrenWithKey(el, name, selector), key, c)
}

// childrenWithKey returns the children of el with key attribute value. An
// empty tag matches any tag.
func childrenWithKey(el *etree.Element, tag, value string) []*etree.Element {
	var out []*etree.Element

	for _, child := range el.ChildElements() {
		if (tag == "" || child.Tag == tag) && child.SelectAttrValue("key", "") == value {
			out = append(out, child)
		}
	}

	return out
}

// writeAppleLeaf writes value to the attribute or <string key=...> child of el
// named by c. Copy containing a newline is moved into a base64 child element,
// since attribute values cannot hold it.
func writeAppleLeaf(el *etree.Element, c, value, key string) error {
	m := appleComponentRegexp.FindStringSubmatch(c)
	if m == nil {
		return newKeyError(key, ErrUnsupportedKey, "malformed component %s", c)
	}

	if m[2] != "" {
		target, err := resolveAppleComponent(el, c, key)
		if err != nil {
			return err
		}

		setAppleString(target, value)

		return nil
	}

	name := m[1]

	if attr := el.SelectAttr(name); attr != nil {
		if !strings.Contains(value, "\n") {
			attr.Value = value

			return nil
		}

		el.RemoveAttr(name)

		child := el.CreateElement("string")
		child.CreateAttr("key", name)
		setAppleString(child, value)

		return nil
	}

	child, err := exactlyOne(childrenWithKey(el, "string", name), key, c)
	if err != nil {
		return err
	}

	setAppleString(child, value)

	return nil
}

// setAppleString sets the text of a <string> element, leaving it untouched
// when it already holds value.
func setAppleString(el *etree.Element, value string) {
	encoded := el.SelectAttrValue("type", "") == appleBase64Type

	if encoded {
		if current, ok := decodeBase64(el.Text()); ok && current == value {
			return
		}
	} else if el.Text() == value && len(el.ChildElements()) == 0 {
		return
	}

	if strings.Contains(value, "\n") {
		el.CreateAttr("type", appleBase64Type)
		replaceText(el, base64.StdEncoding.EncodeToString([]byte(value)))

		return
	}

	if encoded {
		el.RemoveAttr("type")
	}

	replaceText(el, value)
}

// decodeBase64 decodes s, ignoring whitespace and restoring missing padding.
func decodeBase64(s string) (string, bool) {
	s = strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}

		return r
	}, s)

	if rem := len(s) % 4; rem != 0 {
		s += strings.Repeat("=", 4-rem)
	}

	b, err := base64.StdEncoding.DecodeString(s)
	if err != nil {
		return "", false
	}

	return string(b), true
}
