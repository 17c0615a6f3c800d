// Copyright 2023 - 2025, the Shuttle contributors
// SPDX-License-Identifier: AGPL-3.0-only

package localizer

import (
	"fmt"
	"maps"
	"path"
	"slices"
	"strings"

	"github.com/leonelquinteros/gotext"

	"codeberg.org/shuttle/shuttle/core/locale"
)

// gettextLocalizer writes copy into gettext catalogs. The base locale
// catalog "<dir>/<base>.po" becomes "<dir>/<locale>.po".
//
// Original keys are msgids, prefixed by their msgctxt and
// [gotext.EotSeparator] when they have one.
type gettextLocalizer struct {
	base         locale.Locale
	translations []Translation
}

func (g *gettextLocalizer) Localize(input File, output *File, l locale.Locale) error {
	dir, file := path.Split(input.Path)
	if !isBaseCatalog(file, g.base) {
		return nil
	}

	po := gotext.NewPo()
	po.Parse(input.Content)

	domain := po.GetDomain()
	plain := domain.GetTranslations()
	contextual := domain.GetCtxTranslations()

	lines := strings.Split(string(input.Content), "\n")

	entries, err := parsePo(lines)
	if err != nil {
		return fmt.Errorf("failed to parse %s: %w", input.Path, err)
	}

	byKey := make(map[string][]*poEntry, len(entries))
	for _, e := range entries {
		if key, ok := e.key(); ok {
			byKey[key] = append(byKey[key], e)
		}
	}

	patches := make(map[int]poPatch, len(g.translations)+1)

	for _, t := range g.translations {
		ctx, id, hasCtx := strings.Cut(t.Key.OriginalKey, gotext.EotSeparator)
		if !hasCtx {
			if _, ok := plain[ctx]; !ok {
				return newKeyError(t.Key.Key, ErrTagNotFound, "No msgid %q found", ctx)
			}
		} else if _, ok := contextual[ctx][id]; !ok {
			return newKeyError(t.Key.Key, ErrTagNotFound, "No msgid %q in context %q found", id, ctx)
		}

		matches := byKey[t.Key.OriginalKey]

		switch len(matches) {
		case 0:
			return newKeyError(t.Key.Key, ErrTagNotFound, "No msgstr for %q found", t.Key.OriginalKey)
		case 1:
		default:
			return newKeyError(t.Key.Key, ErrAmbiguousTag, "Found %d entries for %q", len(matches), t.Key.OriginalKey)
		}

		f, ok := matches[0].msgstr()
		if !ok {
			return newKeyError(t.Key.Key, ErrTagNotFound, "No msgstr for %q found", t.Key.OriginalKey)
		}

		patches[f.first] = poPatch{first: f.first, last: f.last, lines: formatPoField(f.name, t.Copy)}
	}

	prefix := ""

	if headers := byKey[""]; len(headers) > 0 {
		if f, ok := headers[0].msgstr(); ok {
			value := rewritePoHeader(f.value, l.GettextCode())
			patches[f.first] = poPatch{first: f.first, last: f.last, lines: formatPoField(f.name, value)}
		}
	} else {
		prefix = strings.Join(formatPoField("msgid", ""), "\n") + "\n" +
			strings.Join(formatPoField("msgstr", rewritePoHeader("", l.GettextCode())), "\n") + "\n\n"
	}

	output.Path = dir + l.GettextCode() + ".po"
	output.Content = []byte(prefix + applyPoPatches(lines, patches))

	return nil
}

func isBaseCatalog(file string, base locale.Locale) bool {
	return slices.ContainsFunc(localeCodes(base), func(code string) bool {
		return file == code+".po"
	})
}

// postProcessGettext writes a LINGUAS file next to every catalog that was
// written, listing the base locale and the locales built in that directory.
func postProcessGettext(c Commit, r Receiver, written []string) error {
	codes := make(map[string][]string)

	for _, p := range written {
		if path.Ext(p) != ".po" {
			continue
		}

		dir := path.Dir(p)
		codes[dir] = append(codes[dir], strings.TrimSuffix(path.Base(p), ".po"))
	}

	dirs := slices.Sorted(maps.Keys(codes))

	for _, dir := range dirs {
		list := append(codes[dir], c.Project.BaseLocale.GettextCode())
		slices.Sort(list)
		content := []byte(strings.Join(slices.Compact(list), "\n") + "\n")

		if err := r.AddFile(path.Join(dir, "LINGUAS"), content, true); err != nil {
			return fmt.Errorf("failed to add LINGUAS for %s: %w", dir, err)
		}
	}

	return nil
}
