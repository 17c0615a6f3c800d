// Copyright 2023 - 2025, the Shuttle contributors
// SPDX-License-Identifier: AGPL-3.0-only

package localizer

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/leonelquinteros/gotext"
)

var (
	errPoContinuation = errors.New("string continuation outside of a keyword")
	errPoKeyword      = errors.New("unknown keyword")
	errPoString       = errors.New("malformed string")
)

var poPluralMsgstrRegexp = regexp.MustCompile(`^msgstr\[[0-9]+\]$`)

var poEscaper = strings.NewReplacer(`\`, `\\`, `"`, `\"`, "\n", `\n`, "\t", `\t`, "\r", `\r`)

// poField is one keyword of a catalog entry. Its string may continue over
// the lines first to last.
type poField struct {
	name        string
	first, last int
	value       string
}

// poEntry is a catalog entry, without its comments.
type poEntry struct {
	fields []poField
}

func (e *poEntry) field(names ...string) (poField, bool) {
	for _, f := range e.fields {
		for _, name := range names {
			if f.name == name {
				return f, true
			}
		}
	}

	return poField{}, false
}

// key returns the msgid, prefixed by the msgctxt and [gotext.EotSeparator]
// when the entry has one.
func (e *poEntry) key() (string, bool) {
	id, ok := e.field("msgid")
	if !ok {
		return "", false
	}

	if ctx, ok := e.field("msgctxt"); ok {
		return ctx.value + gotext.EotSeparator + id.value, true
	}

	return id.value, true
}

// msgstr returns the field holding the translation, the first plural form
// for plural entries.
func (e *poEntry) msgstr() (poField, bool) {
	return e.field("msgstr", "msgstr[0]")
}

func (e *poEntry) complete() bool {
	_, ok := e.msgstr()

	return ok
}

// parsePo splits the lines of a catalog into entries. Comments, including
// obsolete "#~" entries, belong to no field.
func parsePo(lines []string) ([]*poEntry, error) {
	var (
		entries []*poEntry
		cur     *poEntry
		field   = -1
	)

	flush := func() {
		if cur != nil {
			entries = append(entries, cur)
		}

		cur, field = nil, -1
	}

	for i, raw := range lines {
		line := strings.TrimSpace(raw)

		switch {
		case line == "":
			flush()
		case strings.HasPrefix(line, "#"):
			if cur != nil && cur.complete() {
				flush()
			}

			field = -1
		case strings.HasPrefix(line, `"`):
			if field < 0 {
				return nil, fmt.Errorf("line %d: %w", i+1, errPoContinuation)
			}

			s, err := unquotePo(line)
			if err != nil {
				return nil, fmt.Errorf("line %d: %w", i+1, err)
			}

			cur.fields[field].value += s
			cur.fields[field].last = i
		default:
			name, rest, _ := strings.Cut(line, " ")
			if !isPoKeyword(name) {
				return nil, fmt.Errorf("line %d: %w %q", i+1, errPoKeyword, name)
			}

			if cur != nil && (name == "msgctxt" || name == "msgid") && cur.complete() {
				flush()
			}

			s, err := unquotePo(strings.TrimSpace(rest))
			if err != nil {
				return nil, fmt.Errorf("line %d: %w", i+1, err)
			}

			if cur == nil {
				cur = &poEntry{}
			}

			cur.fields = append(cur.fields, poField{name: name, first: i, last: i, value: s})
			field = len(cur.fields) - 1
		}
	}

	flush()

	return entries, nil
}

func isPoKeyword(name string) bool {
	switch name {
	case "msgctxt", "msgid", "msgid_plural", "msgstr":
		return true
	default:
		return poPluralMsgstrRegexp.MatchString(name)
	}
}

func unquotePo(s string) (string, error) {
	if len(s) < 2 || s[0] != '"' || s[len(s)-1] != '"' {
		return "", fmt.Errorf("%w: %s", errPoString, s)
	}

	out, err := strconv.Unquote(s)
	if err != nil {
		return "", fmt.Errorf("%w: %s", errPoString, s)
	}

	return out, nil
}

// formatPoField renders a keyword and its string the way xgettext does:
// strings with inner newlines start with an empty line and continue with
// one line per "\n".
func formatPoField(name, value string) []string {
	if !strings.Contains(strings.TrimSuffix(value, "\n"), "\n") {
		return []string{name + ` "` + poEscaper.Replace(value) + `"`}
	}

	out := []string{name + ` ""`}

	for _, part := range strings.SplitAfter(value, "\n") {
		if part != "" {
			out = append(out, `"`+poEscaper.Replace(part)+`"`)
		}
	}

	return out
}

// poPatch replaces the lines first to last of a catalog.
type poPatch struct {
	first, last int
	lines       []string
}

// applyPoPatches returns lines with every patch applied. Replacement lines
// keep the line ending of the line they replace.
func applyPoPatches(lines []string, patches map[int]poPatch) string {
	out := make([]string, 0, len(lines))

	for i := 0; i < len(lines); i++ {
		p, ok := patches[i]
		if !ok {
			out = append(out, lines[i])

			continue
		}

		eol := ""
		if strings.HasSuffix(lines[i], "\r") {
			eol = "\r"
		}

		for _, l := range p.lines {
			out = append(out, l+eol)
		}

		i = p.last
	}

	return strings.Join(out, "\n")
}

// rewritePoHeader sets the Language header. The base catalog's Plural-Forms
// describe the base language, so they are dropped.
func rewritePoHeader(header, language string) string {
	var (
		b     strings.Builder
		found bool
	)

	for _, line := range strings.SplitAfter(header, "\n") {
		if line == "" {
			continue
		}

		name, _, _ := strings.Cut(line, ":")

		switch strings.TrimSpace(name) {
		case "Language":
			b.WriteString("Language: " + language + "\n")

			found = true
		case "Plural-Forms":
		default:
			b.WriteString(line)
		}
	}

	if !found {
		b.WriteString("Language: " + language + "\n")
	}

	return b.String()
}
